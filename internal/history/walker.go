package history

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/simple-icons/release-action/internal/config"
	"github.com/simple-icons/release-action/internal/domain"
)

// Walker pages backwards through closed pull requests until it reaches the
// previous release.
type Walker struct {
	source    Source
	collector *FileCollector
	cfg       config.Config
	logger    *log.Logger
	debug     *log.Logger
}

// NewWalker creates a Walker.
func NewWalker(source Source, collector *FileCollector, cfg config.Config, logger, debug *log.Logger) *Walker {
	return &Walker{source: source, collector: collector, cfg: cfg, logger: logger, debug: debug}
}

// FilesSinceLastRelease returns the files of every merged PR since the
// previous release, in traversal order (most recently updated PR first).
//
// The previous release is the first merged PR whose base is the stable
// branch; only files merged at or after it are kept. If the history runs
// out first, everything collected is returned.
func (w *Walker) FilesSinceLastRelease(ctx context.Context) ([]domain.FileChange, error) {
	perPage := w.cfg.PageSize

	var files []domain.FileChange
	for page := 1; ; page++ {
		prs, err := w.source.ListClosedPullRequests(ctx, page, perPage)
		if err != nil {
			return nil, err
		}
		w.debug.Printf("[history:FilesSinceLastRelease] prs: %s", dumpJSON(prs))

		w.logger.Printf("on page %d there are %d PRs", page, len(prs))
		for _, pr := range prs {
			w.logger.Printf("processing PR #%d", pr.Number)
			if !pr.IsMerged() {
				continue
			}
			if w.cfg.IsIgnored(pr.Number) {
				continue
			}
			if w.skipsRelease(pr) {
				w.logger.Printf("PR #%d is marked to skip the release", pr.Number)
				continue
			}
			if pr.BaseRef == w.cfg.StableBranch {
				w.logger.Printf("found previous release, PR #%d", pr.Number)
				return mergedSince(files, *pr.MergedAt), nil
			}

			changes, err := w.collector.Collect(ctx, pr)
			if err != nil {
				return nil, err
			}
			for _, f := range changes {
				w.logger.Printf("found '%s' in PR #%d", f.Path, pr.Number)
			}
			files = append(files, changes...)
		}

		if len(prs) < perPage {
			return files, nil
		}
	}
}

func (w *Walker) skipsRelease(pr domain.PullRequest) bool {
	if prefix := w.cfg.SkipTitlePrefix; prefix != "" &&
		strings.HasPrefix(strings.ToLower(pr.Title), strings.ToLower(prefix)) {
		return true
	}
	if w.cfg.SkipLabel == "" {
		return false
	}
	for _, label := range pr.Labels {
		if strings.EqualFold(label, w.cfg.SkipLabel) {
			return true
		}
	}
	return false
}

func mergedSince(files []domain.FileChange, boundary time.Time) []domain.FileChange {
	kept := make([]domain.FileChange, 0, len(files))
	for _, f := range files {
		if !f.MergedAt.Before(boundary) {
			kept = append(kept, f)
		}
	}
	return kept
}
