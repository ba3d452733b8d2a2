package usecase

import (
	"context"
	"errors"
	"log"
	"slices"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/simple-icons/release-action/internal/config"
	"github.com/simple-icons/release-action/internal/gateway"
)

const approvedState = "approved"

// ErrNoVersionInBody is returned when an approved release PR does not name
// the version it releases.
var ErrNoVersionInBody = errors.New("release PR body does not name a version")

// Review is an approval event on a pull request.
type Review struct {
	Number  int
	Title   string
	Body    string
	BaseRef string
	// State is the review state, e.g. "approved" or "commented".
	State             string
	AuthorAssociation string
}

// Merger merges a release PR once it has been approved by a maintainer.
type Merger struct {
	client gateway.Client
	cfg    config.Config
	logger *log.Logger
}

// NewMerger creates a Merger.
func NewMerger(client gateway.Client, cfg config.Config, logger *log.Logger) *Merger {
	return &Merger{client: client, cfg: cfg, logger: logger}
}

// MergeOnApprove merges the reviewed PR if it targets the stable branch and
// the review is an approval by an owner or member. Otherwise it logs why and
// reports false.
func (m *Merger) MergeOnApprove(ctx context.Context, review Review) (bool, error) {
	if review.BaseRef != m.cfg.StableBranch {
		m.logger.Printf("PR base '%s' does not constitute a release", review.BaseRef)
		return false, nil
	}
	if !strings.EqualFold(review.State, approvedState) {
		m.logger.Printf("Review '%s' won't trigger a release. '%s' is required", review.State, approvedState)
		return false, nil
	}
	if !slices.Contains(m.cfg.ApproverAssociations, review.AuthorAssociation) {
		m.logger.Printf("Reviewer does not have credentials to release (was '%s')", review.AuthorAssociation)
		return false, nil
	}

	title, err := CommitTitle(review.Title, review.Body)
	if err != nil {
		return false, err
	}

	m.logger.Printf("Merging #%d", review.Number)
	if err := m.client.MergePullRequest(ctx, review.Number, title, CommitMessage(review.Body), m.cfg.MergeMethod); err != nil {
		return false, err
	}
	return true, nil
}

// CommitTitle turns "Publish ..." into "Release ... (vX.Y.Z)" using the
// version emphasized in the PR body.
func CommitTitle(title, body string) (string, error) {
	parts := strings.Split(body, "**")
	if len(parts) < 2 || !semver.IsValid(parts[1]) {
		return "", ErrNoVersionInBody
	}
	return strings.Replace(title, "Publish", "Release", 1) + " (" + parts[1] + ")", nil
}

// CommitMessage is the body from its first heading on.
func CommitMessage(body string) string {
	_, notes, _ := strings.Cut(body, "#")
	return "#" + notes
}
