package domain

// ReleaseStats summarizes a reconciled change set for the dry-run report.
type ReleaseStats struct {
	NewIcons       int     `json:"new_icons"`
	UpdatedIcons   int     `json:"updated_icons"`
	RemovedIcons   int     `json:"removed_icons"`
	PullRequests   int     `json:"pull_requests"`
	MeanPRsPerIcon float64 `json:"mean_prs_per_icon"`
	MedianPRs      float64 `json:"median_prs_per_icon"`
	MaxPRs         float64 `json:"max_prs_per_icon"`
}
