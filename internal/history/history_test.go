package history

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simple-icons/release-action/internal/config"
	"github.com/simple-icons/release-action/internal/content"
	"github.com/simple-icons/release-action/internal/domain"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListClosedPullRequests(ctx context.Context, page, perPage int) ([]domain.PullRequest, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequest), args.Error(1)
}

func (m *mockSource) ListPullRequestFiles(ctx context.Context, number int) ([]domain.PRFile, error) {
	args := m.Called(ctx, number)
	if fn, ok := args.Get(0).(func(context.Context, int) []domain.PRFile); ok {
		return fn(ctx, number), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PRFile), args.Error(1)
}

type mockContents struct {
	mock.Mock
}

func (m *mockContents) Get(ctx context.Context, path, ref string) (string, error) {
	args := m.Called(ctx, path, ref)
	return args.String(0), args.Error(1)
}

var (
	beforeRelease = time.Date(2011, 1, 1, 19, 1, 12, 0, time.UTC)
	releasedAt    = time.Date(2011, 1, 2, 19, 1, 12, 0, time.UTC)
	afterRelease  = time.Date(2011, 1, 26, 19, 1, 12, 0, time.UTC)
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Owner, cfg.Repo = "simple-icons", "simple-icons"
	return cfg
}

func merged(number int, at time.Time) domain.PullRequest {
	return domain.PullRequest{Number: number, BaseRef: "develop", Author: fmt.Sprintf("user%d", number), MergedAt: &at}
}

func release(number int) domain.PullRequest {
	pr := merged(number, releasedAt)
	pr.BaseRef = "master"
	return pr
}

func iconFile(number int) []domain.PRFile {
	return []domain.PRFile{{Filename: fmt.Sprintf("icons/icon%d.svg", number), Status: domain.StatusAdded}}
}

func newWalker(source Source, contents Contents, cfg config.Config, logger *log.Logger) *Walker {
	collector := NewFileCollector(source, contents, cfg, logger, logger)
	return NewWalker(source, collector, cfg, logger, logger)
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestFileCollector_Collect(t *testing.T) {
	source := new(mockSource)
	contents := new(mockContents)
	pr := merged(510, afterRelease)

	source.On("ListPullRequestFiles", mock.Anything, 510).Return([]domain.PRFile{
		{Filename: "README.md", Status: domain.StatusModified},
		{Filename: "_data/simple-icons.json", Status: domain.StatusModified, Patch: "@@ -1 +1 @@"},
		{Filename: "icons/old.svg", Status: domain.StatusRemoved, Patch: "-<svg/>"},
		{Filename: "icons/opera.svg", Status: domain.StatusModified, Patch: "+<svg/>"},
		{Filename: "icons/wordpress.svg", Status: domain.StatusAdded},
		{Filename: "icons/notes.txt", Status: domain.StatusAdded},
		{Filename: "assets/icons/foo.svg", Status: domain.StatusAdded},
	}, nil)
	contents.On("Get", mock.Anything, "icons/opera.svg", "develop").Return("<title>Opera</title>", nil)
	contents.On("Get", mock.Anything, "icons/wordpress.svg", "develop").Return("<title>WordPress</title>", nil)
	contents.On("Get", mock.Anything, "icons/old.svg", "master").Return("<title>Old</title>", nil)
	contents.On("Get", mock.Anything, "_data/simple-icons.json", "develop").Return("{}", nil)

	changes, err := NewFileCollector(source, contents, testConfig(), discard(), discard()).Collect(context.Background(), pr)
	require.NoError(t, err)

	var paths []string
	for _, c := range changes {
		paths = append(paths, c.Path)
		assert.Equal(t, 510, c.PRNumber)
		assert.Equal(t, "user510", c.Author)
		assert.True(t, c.MergedAt.Equal(afterRelease))
	}
	assert.Equal(t, []string{"icons/opera.svg", "icons/wordpress.svg", "icons/old.svg", "_data/simple-icons.json"}, paths)
	assert.Equal(t, "<title>Old</title>", changes[2].Content)
	assert.Equal(t, "@@ -1 +1 @@", changes[3].Patch)
	contents.AssertExpectations(t)
	contents.AssertNumberOfCalls(t, "Get", 4)
}

func TestFileCollector_OmitsFilesThatCannotBeFetched(t *testing.T) {
	source := new(mockSource)
	contents := new(mockContents)
	var logs bytes.Buffer

	source.On("ListPullRequestFiles", mock.Anything, 502).Return([]domain.PRFile{
		{Filename: "icons/gone.svg", Status: domain.StatusModified},
		{Filename: "icons/feedly.svg", Status: domain.StatusModified},
	}, nil)
	contents.On("Get", mock.Anything, "icons/gone.svg", "develop").Return("", errors.New("404 Not Found"))
	contents.On("Get", mock.Anything, "icons/feedly.svg", "develop").Return("<title>Feedly</title>", nil)

	collector := NewFileCollector(source, contents, testConfig(), log.New(&logs, "", 0), discard())
	changes, err := collector.Collect(context.Background(), merged(502, afterRelease))
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "icons/feedly.svg", changes[0].Path)
	assert.Contains(t, logs.String(), "warning: modified file not found on develop ('icons/gone.svg'): 404 Not Found")
}

func TestFileCollector_UnknownEncodingIsFatal(t *testing.T) {
	source := new(mockSource)
	contents := new(mockContents)
	source.On("ListPullRequestFiles", mock.Anything, 503).Return([]domain.PRFile{
		{Filename: "_data/simple-icons.json", Status: domain.StatusModified},
	}, nil)
	contents.On("Get", mock.Anything, "_data/simple-icons.json", "develop").
		Return("", fmt.Errorf("_data/simple-icons.json@develop: %w", content.ErrUnknownEncoding))

	_, err := NewFileCollector(source, contents, testConfig(), discard(), discard()).Collect(context.Background(), merged(503, afterRelease))
	assert.ErrorIs(t, err, content.ErrUnknownEncoding)
}

func TestWalker_StopsAtReleaseBoundary(t *testing.T) {
	source := new(mockSource)
	contents := new(mockContents)

	var page1, page2 []domain.PullRequest
	for n := 101; n <= 110; n++ {
		page1 = append(page1, merged(n, afterRelease))
	}
	for n := 111; n <= 114; n++ {
		page2 = append(page2, merged(n, afterRelease))
	}
	page2 = append(page2, merged(98, beforeRelease), release(99))
	for n := 115; n <= 118; n++ {
		page2 = append(page2, merged(n, beforeRelease))
	}
	require.Len(t, page2, 10)

	source.On("ListClosedPullRequests", mock.Anything, 1, 10).Return(page1, nil).Once()
	source.On("ListClosedPullRequests", mock.Anything, 2, 10).Return(page2, nil).Once()
	source.On("ListPullRequestFiles", mock.Anything, mock.AnythingOfType("int")).Return(
		func(_ context.Context, number int) []domain.PRFile { return iconFile(number) },
		nil,
	)
	contents.On("Get", mock.Anything, mock.Anything, "develop").Return("<svg/>", nil)

	files, err := newWalker(source, contents, testConfig(), discard()).FilesSinceLastRelease(context.Background())
	require.NoError(t, err)

	// 14 PRs after the release, PR 98 was merged before it and is filtered out.
	assert.Len(t, files, 14)
	assert.Equal(t, "icons/icon101.svg", files[0].Path)
	assert.Equal(t, "icons/icon114.svg", files[13].Path)
	source.AssertNotCalled(t, "ListClosedPullRequests", mock.Anything, 3, 10)
	source.AssertNotCalled(t, "ListPullRequestFiles", mock.Anything, 115)
	source.AssertNumberOfCalls(t, "ListClosedPullRequests", 2)
}

func TestWalker_ReturnsEverythingWhenHistoryRunsOut(t *testing.T) {
	source := new(mockSource)
	contents := new(mockContents)

	source.On("ListClosedPullRequests", mock.Anything, 1, 10).Return([]domain.PullRequest{
		merged(1, afterRelease), merged(2, beforeRelease),
	}, nil).Once()
	source.On("ListPullRequestFiles", mock.Anything, mock.AnythingOfType("int")).Return(
		func(_ context.Context, number int) []domain.PRFile { return iconFile(number) },
		nil,
	)
	contents.On("Get", mock.Anything, mock.Anything, "develop").Return("<svg/>", nil)

	files, err := newWalker(source, contents, testConfig(), discard()).FilesSinceLastRelease(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2, "without a boundary nothing is filtered by date")
	source.AssertNumberOfCalls(t, "ListClosedPullRequests", 1)
}

func TestWalker_SkipsPullRequests(t *testing.T) {
	source := new(mockSource)
	contents := new(mockContents)

	unmerged := domain.PullRequest{Number: 500, BaseRef: "develop"}
	ignored := merged(6296, afterRelease)
	labelled := merged(601, afterRelease)
	labelled.Labels = []string{"Skip Release"}
	prefixed := merged(602, afterRelease)
	prefixed.Title = "[skip release] bump dependencies"
	kept := merged(603, afterRelease)

	source.On("ListClosedPullRequests", mock.Anything, 1, 10).Return([]domain.PullRequest{
		unmerged, ignored, labelled, prefixed, kept, release(499),
	}, nil)
	source.On("ListPullRequestFiles", mock.Anything, 603).Return(iconFile(603), nil)
	contents.On("Get", mock.Anything, "icons/icon603.svg", "develop").Return("<svg/>", nil)

	files, err := newWalker(source, contents, testConfig(), discard()).FilesSinceLastRelease(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, 603, files[0].PRNumber)
	for _, n := range []int{500, 6296, 601, 602} {
		source.AssertNotCalled(t, "ListPullRequestFiles", mock.Anything, n)
	}
}

func TestWalker_IgnoredReleasePullRequestIsNotABoundary(t *testing.T) {
	source := new(mockSource)
	contents := new(mockContents)
	cfg := testConfig()
	cfg.IgnorePRs = []int{499}

	source.On("ListClosedPullRequests", mock.Anything, 1, 10).Return([]domain.PullRequest{
		merged(1, afterRelease), release(499), merged(2, beforeRelease),
	}, nil)
	source.On("ListPullRequestFiles", mock.Anything, mock.AnythingOfType("int")).Return(
		func(_ context.Context, number int) []domain.PRFile { return iconFile(number) },
		nil,
	)
	contents.On("Get", mock.Anything, mock.Anything, "develop").Return("<svg/>", nil)

	files, err := newWalker(source, contents, cfg, discard()).FilesSinceLastRelease(context.Background())
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestWalker_SkippedReleasePullRequestIsNotABoundary(t *testing.T) {
	source := new(mockSource)
	contents := new(mockContents)

	skipped := release(99)
	skipped.Title = "[skip release] sync master"
	source.On("ListClosedPullRequests", mock.Anything, 1, 10).Return([]domain.PullRequest{
		merged(101, afterRelease), skipped, merged(50, afterRelease), release(499),
	}, nil)
	source.On("ListPullRequestFiles", mock.Anything, mock.AnythingOfType("int")).Return(
		func(_ context.Context, number int) []domain.PRFile { return iconFile(number) },
		nil,
	)
	contents.On("Get", mock.Anything, mock.Anything, "develop").Return("<svg/>", nil)

	files, err := newWalker(source, contents, testConfig(), discard()).FilesSinceLastRelease(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, 101, files[0].PRNumber)
	assert.Equal(t, 50, files[1].PRNumber)
	source.AssertNotCalled(t, "ListPullRequestFiles", mock.Anything, 99)
}

func TestWalker_PropagatesErrors(t *testing.T) {
	t.Run("listing pull requests fails", func(t *testing.T) {
		source := new(mockSource)
		source.On("ListClosedPullRequests", mock.Anything, 1, 10).Return(nil, errors.New("boom"))
		_, err := newWalker(source, new(mockContents), testConfig(), discard()).FilesSinceLastRelease(context.Background())
		assert.EqualError(t, err, "boom")
	})

	t.Run("listing files fails", func(t *testing.T) {
		source := new(mockSource)
		source.On("ListClosedPullRequests", mock.Anything, 1, 10).Return([]domain.PullRequest{merged(1, afterRelease)}, nil)
		source.On("ListPullRequestFiles", mock.Anything, 1).Return(nil, errors.New("files boom"))
		_, err := newWalker(source, new(mockContents), testConfig(), discard()).FilesSinceLastRelease(context.Background())
		assert.EqualError(t, err, "files boom")
	})
}
