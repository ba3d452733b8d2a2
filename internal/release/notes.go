package release

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/simple-icons/release-action/internal/domain"
)

const notesHeader = "_this Pull Request was automatically generated_\n\n"

// Title summarizes a change set, e.g.
// "Publish 2 new icons and 1 updated icon and 1 removed icon".
func Title(changes domain.ChangeSet) string {
	var b strings.Builder
	b.WriteString("Publish")

	writeCount(&b, len(changes.New), "new")
	if len(changes.Updated) > 0 && len(changes.New) > 0 {
		b.WriteString(" and")
	}
	writeCount(&b, len(changes.Updated), "updated")
	if len(changes.Removed) > 0 && len(changes.New)+len(changes.Updated) > 0 {
		b.WriteString(" and")
	}
	writeCount(&b, len(changes.Removed), "removed")

	return b.String()
}

func writeCount(b *strings.Builder, n int, adjective string) {
	switch {
	case n == 1:
		fmt.Fprintf(b, " 1 %s icon", adjective)
	case n > 1:
		fmt.Fprintf(b, " %d %s icons", n, adjective)
	}
}

// Notes renders the release pull request body. Each section lists its icons
// sorted case-insensitively by name; empty sections are left out.
func Notes(version string, changes domain.ChangeSet) string {
	var b strings.Builder
	b.WriteString(notesHeader)
	fmt.Fprintf(&b, "The new version will be: **v%s**\n", version)

	writeSection(&b, "New Icons", changes.New)
	writeSection(&b, "Updated Icons", changes.Updated)
	writeSection(&b, "Removed Icons", changes.Removed)

	return b.String()
}

func writeSection(b *strings.Builder, heading string, events []*domain.ChangeEvent) {
	if len(events) == 0 {
		return
	}
	fmt.Fprintf(b, "\n# %s\n\n", heading)
	for _, e := range SortByName(events) {
		fmt.Fprintf(b, "- %s (%s)", e.Name, prList(e.PRNumbers))
		if len(e.Authors) > 0 {
			fmt.Fprintf(b, " (%s)", authorList(e.Authors))
		}
		b.WriteString("\n")
	}
}

// SortByName returns a copy of events ordered case-insensitively by name.
// Names equal under case folding keep a deterministic order.
func SortByName(events []*domain.ChangeEvent) []*domain.ChangeEvent {
	fold := cases.Fold()
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b *domain.ChangeEvent) int {
		if c := strings.Compare(fold.String(a.Name), fold.String(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return sorted
}

func prList(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("#%d", n)
	}
	return strings.Join(parts, ", ")
}

func authorList(authors []string) string {
	parts := make([]string, len(authors))
	for i, a := range authors {
		parts[i] = "@" + a
	}
	return strings.Join(parts, ", ")
}
