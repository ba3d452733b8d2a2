// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/simple-icons/release-action/internal/domain"
)

// Client defines the GitHub operations the release action needs.
type Client interface {
	// ListClosedPullRequests returns one page of closed PRs, most recently updated first.
	ListClosedPullRequests(ctx context.Context, page, perPage int) ([]domain.PullRequest, error)
	ListPullRequestFiles(ctx context.Context, number int) ([]domain.PRFile, error)
	// GetFileContent returns the still-encoded content of path at ref.
	GetFileContent(ctx context.Context, path, ref string) (domain.Blob, error)
	// FindOpenPullRequest looks up an open PR from head into base. ok is false when there is none.
	FindOpenPullRequest(ctx context.Context, head, base string) (number int, ok bool, err error)
	CreatePullRequest(ctx context.Context, title, body, head, base string) (int, error)
	UpdatePullRequest(ctx context.Context, number int, title, body string) error
	AddLabels(ctx context.Context, number int, labels []string) error
	MergePullRequest(ctx context.Context, number int, commitTitle, commitMessage, method string) error
}

// GitHubGateway is the concrete implementation of the Client interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	owner         string
	repo          string
	logger        *log.Logger
}

// openPullRequestQuery finds an open PR between two branches.
type openPullRequestQuery struct {
	Repository struct {
		PullRequests struct {
			Nodes []struct {
				Number githubv4.Int
			}
		} `graphql:"pullRequests(states: OPEN, baseRefName: $base, headRefName: $head, first: 1)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token, owner, repo string, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		owner:         owner,
		repo:          repo,
		logger:        logger,
	}, nil
}

func (g *GitHubGateway) ListClosedPullRequests(ctx context.Context, page, perPage int) ([]domain.PullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       "closed",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}
	prs, _, err := g.restClient.PullRequests.List(ctx, g.owner, g.repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests (page %d): %w", page, err)
	}

	result := make([]domain.PullRequest, 0, len(prs))
	for _, pr := range prs {
		result = append(result, toDomainPullRequest(pr))
	}
	return result, nil
}

func (g *GitHubGateway) ListPullRequestFiles(ctx context.Context, number int) ([]domain.PRFile, error) {
	opts := &github.ListOptions{PerPage: 100}
	var files []domain.PRFile
	for {
		page, resp, err := g.restClient.PullRequests.ListFiles(ctx, g.owner, g.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list files of PR #%d: %w", number, err)
		}
		for _, f := range page {
			files = append(files, domain.PRFile{
				Filename: f.GetFilename(),
				Status:   domain.FileStatus(f.GetStatus()),
				Patch:    f.GetPatch(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Printf("  Fetching next page of files for PR #%d...", number)
	}
	return files, nil
}

func (g *GitHubGateway) GetFileContent(ctx context.Context, path, ref string) (domain.Blob, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	file, dir, _, err := g.restClient.Repositories.GetContents(ctx, g.owner, g.repo, path, opts)
	if err != nil {
		return domain.Blob{}, fmt.Errorf("failed to get contents of %s@%s: %w", path, ref, err)
	}
	// Directory-shaped responses carry the file as their first element.
	if file == nil && len(dir) > 0 {
		file = dir[0]
	}
	if file == nil {
		return domain.Blob{}, fmt.Errorf("no content returned for %s@%s", path, ref)
	}
	// GetContent on RepositoryContent decodes; the raw field keeps decoding ours.
	var raw string
	if file.Content != nil {
		raw = *file.Content
	}
	return domain.Blob{Content: raw, Encoding: file.GetEncoding()}, nil
}

func (g *GitHubGateway) FindOpenPullRequest(ctx context.Context, head, base string) (int, bool, error) {
	variables := map[string]any{
		"owner": githubv4.String(g.owner),
		"name":  githubv4.String(g.repo),
		"head":  githubv4.String(head),
		"base":  githubv4.String(base),
	}
	var q openPullRequestQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, false, fmt.Errorf("failed to execute GraphQL query for open pull requests: %w", err)
	}
	nodes := q.Repository.PullRequests.Nodes
	if len(nodes) == 0 {
		return 0, false, nil
	}
	return int(nodes[0].Number), true, nil
}

func (g *GitHubGateway) CreatePullRequest(ctx context.Context, title, body, head, base string) (int, error) {
	pr, _, err := g.restClient.PullRequests.Create(ctx, g.owner, g.repo, &github.NewPullRequest{
		Title: github.String(title),
		Body:  github.String(body),
		Head:  github.String(head),
		Base:  github.String(base),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create pull request %s -> %s: %w", head, base, err)
	}
	return pr.GetNumber(), nil
}

func (g *GitHubGateway) UpdatePullRequest(ctx context.Context, number int, title, body string) error {
	_, _, err := g.restClient.PullRequests.Edit(ctx, g.owner, g.repo, number, &github.PullRequest{
		Title: github.String(title),
		Body:  github.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to update pull request #%d: %w", number, err)
	}
	return nil
}

func (g *GitHubGateway) AddLabels(ctx context.Context, number int, labels []string) error {
	if _, _, err := g.restClient.Issues.AddLabelsToIssue(ctx, g.owner, g.repo, number, labels); err != nil {
		return fmt.Errorf("failed to add labels to #%d: %w", number, err)
	}
	return nil
}

func (g *GitHubGateway) MergePullRequest(ctx context.Context, number int, commitTitle, commitMessage, method string) error {
	opts := &github.PullRequestOptions{CommitTitle: commitTitle, MergeMethod: method}
	if _, _, err := g.restClient.PullRequests.Merge(ctx, g.owner, g.repo, number, commitMessage, opts); err != nil {
		return fmt.Errorf("failed to merge pull request #%d: %w", number, err)
	}
	return nil
}

func toDomainPullRequest(pr *github.PullRequest) domain.PullRequest {
	out := domain.PullRequest{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		BaseRef: pr.GetBase().GetRef(),
		Author:  pr.GetUser().GetLogin(),
	}
	for _, l := range pr.Labels {
		out.Labels = append(out.Labels, l.GetName())
	}
	if pr.MergedAt != nil {
		mergedAt := pr.MergedAt.Time
		out.MergedAt = &mergedAt
	}
	return out
}
