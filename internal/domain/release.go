// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"slices"
	"time"
)

// FileStatus is the status GitHub reports for a file touched by a pull request.
type FileStatus string

const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusRemoved  FileStatus = "removed"
)

// PullRequest is a read-only snapshot of a pull request as listed by the platform.
type PullRequest struct {
	Number   int        `json:"number"`
	Title    string     `json:"title"`
	BaseRef  string     `json:"base_ref"`
	Author   string     `json:"author,omitempty"`
	Labels   []string   `json:"labels,omitempty"`
	MergedAt *time.Time `json:"merged_at"`
}

// IsMerged reports whether the pull request was merged (closed PRs may not be).
func (p PullRequest) IsMerged() bool {
	return p.MergedAt != nil
}

// PRFile is one entry of a pull request's changed-file listing.
type PRFile struct {
	Filename string     `json:"filename"`
	Status   FileStatus `json:"status"`
	Patch    string     `json:"patch,omitempty"`
}

// Blob is file content as returned by the contents API, still encoded.
type Blob struct {
	Content  string
	Encoding string
}

// FileChange is a file touched by a merged pull request together with its
// decoded content at the branch relevant for its status.
type FileChange struct {
	Path     string     `json:"path"`
	Status   FileStatus `json:"status"`
	Patch    string     `json:"patch,omitempty"`
	Content  string     `json:"-"`
	PRNumber int        `json:"pr_number"`
	MergedAt time.Time  `json:"merged_at"`
	Author   string     `json:"author,omitempty"`
}

// ChangeKind classifies a ChangeEvent.
type ChangeKind string

const (
	ChangeNew        ChangeKind = "new"
	ChangeUpdate     ChangeKind = "update"
	ChangeRemoved    ChangeKind = "removed"
	ChangeIrrelevant ChangeKind = "irrelevant"
)

// ChangeEvent is a single, not yet reconciled, signal that an icon changed.
// ID is unique per traversal and is what the duplicate resolver filters on;
// Seq is the position of the originating file in the traversal.
type ChangeEvent struct {
	ID        string     `json:"id"`
	Seq       int        `json:"seq"`
	Kind      ChangeKind `json:"change_type"`
	Name      string     `json:"name,omitempty"`
	Path      string     `json:"path,omitempty"`
	PRNumbers []int      `json:"pr_numbers,omitempty"`
	Authors   []string   `json:"authors,omitempty"`
}

// Absorb merges the provenance of other into e, skipping PR numbers and
// authors e already carries.
func (e *ChangeEvent) Absorb(other *ChangeEvent) {
	for _, n := range other.PRNumbers {
		if !slices.Contains(e.PRNumbers, n) {
			e.PRNumbers = append(e.PRNumbers, n)
		}
	}
	for _, a := range other.Authors {
		if !slices.Contains(e.Authors, a) {
			e.Authors = append(e.Authors, a)
		}
	}
}

// ChangeSet holds the reconciled changes of a release window. No icon name
// appears twice in a list nor in more than one list.
type ChangeSet struct {
	New     []*ChangeEvent `json:"new"`
	Updated []*ChangeEvent `json:"updated"`
	Removed []*ChangeEvent `json:"removed"`
}

// IsEmpty reports whether there is nothing to release.
func (c ChangeSet) IsEmpty() bool {
	return len(c.New) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0
}

// Bump is a semantic version increment category.
type Bump string

const (
	BumpPatch Bump = "patch"
	BumpMinor Bump = "minor"
	BumpMajor Bump = "major"
)

// ReleasePlan is everything needed to open a release pull request.
type ReleasePlan struct {
	Version string `json:"version"`
	Bump    Bump   `json:"bump"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}
