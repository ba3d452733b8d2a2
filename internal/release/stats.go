package release

import (
	"github.com/montanaflynn/stats"

	"github.com/simple-icons/release-action/internal/domain"
)

// Summarize computes the dry-run report for a change set.
func Summarize(changes domain.ChangeSet) domain.ReleaseStats {
	summary := domain.ReleaseStats{
		NewIcons:     len(changes.New),
		UpdatedIcons: len(changes.Updated),
		RemovedIcons: len(changes.Removed),
	}

	prs := make(map[int]bool)
	var perIcon stats.Float64Data
	for _, list := range [][]*domain.ChangeEvent{changes.New, changes.Updated, changes.Removed} {
		for _, e := range list {
			perIcon = append(perIcon, float64(len(e.PRNumbers)))
			for _, n := range e.PRNumbers {
				prs[n] = true
			}
		}
	}
	summary.PullRequests = len(prs)

	if len(perIcon) == 0 {
		return summary
	}
	// Errors only occur on empty input.
	summary.MeanPRsPerIcon, _ = stats.Mean(perIcon)
	summary.MedianPRs, _ = stats.Median(perIcon)
	summary.MaxPRs, _ = stats.Max(perIcon)
	return summary
}
