// Package changes turns collected files into icon change events and
// reconciles them into the final set of new, updated and removed icons.
package changes

import (
	"fmt"
	"html"
	"log"
	"regexp"
	"strconv"

	"github.com/simple-icons/release-action/internal/config"
	"github.com/simple-icons/release-action/internal/diff"
	"github.com/simple-icons/release-action/internal/domain"
	"github.com/simple-icons/release-action/internal/history"
)

// FallbackName is used for an icon whose SVG carries no <title>.
const FallbackName = "FALLBACK"

var svgTitleExpr = regexp.MustCompile(`<title>(.*)</title>`)

// Classifier converts FileChanges into ChangeEvents.
type Classifier struct {
	cfg    config.Config
	logger *log.Logger
}

// NewClassifier creates a Classifier.
func NewClassifier(cfg config.Config, logger *log.Logger) *Classifier {
	return &Classifier{cfg: cfg, logger: logger}
}

// Classify returns the events for one file. seq is the file's position in the
// traversal; it seeds the event IDs so they are unique within a run.
func (c *Classifier) Classify(file domain.FileChange, seq int) []*domain.ChangeEvent {
	isIcon := history.IsIconFile(c.cfg, file.Path)

	iconEvent := func(kind domain.ChangeKind) []*domain.ChangeEvent {
		return []*domain.ChangeEvent{{
			ID:        strconv.Itoa(seq),
			Seq:       seq,
			Kind:      kind,
			Name:      svgTitle(file.Content),
			Path:      file.Path,
			PRNumbers: []int{file.PRNumber},
			Authors:   authors(file),
		}}
	}

	switch {
	case isIcon && file.Status == domain.StatusAdded:
		c.logger.Printf("Detected an icon was added ('%s')", file.Path)
		return iconEvent(domain.ChangeNew)
	case isIcon && file.Status == domain.StatusModified:
		c.logger.Printf("Detected an icon was modified ('%s')", file.Path)
		return iconEvent(domain.ChangeUpdate)
	case isIcon && file.Status == domain.StatusRemoved:
		c.logger.Printf("Detected an icon was removed ('%s')", file.Path)
		return iconEvent(domain.ChangeRemoved)
	case file.Path == c.cfg.DataFile:
		// Removed records are not reported here: removing an icon always
		// removes its SVG as well, which is classified above.
		titles := diff.ExtractTitles(file.Patch, file.Content)
		c.logger.Printf("Detected a change to the data file, updated icons: %q", titles)

		events := make([]*domain.ChangeEvent, 0, len(titles))
		for _, title := range titles {
			events = append(events, &domain.ChangeEvent{
				ID:        fmt.Sprintf("%d:%s", seq, title),
				Seq:       seq,
				Kind:      domain.ChangeUpdate,
				Name:      title,
				PRNumbers: []int{file.PRNumber},
				Authors:   authors(file),
			})
		}
		return events
	default:
		c.logger.Printf("Ignoring '%s'", file.Path)
		return []*domain.ChangeEvent{{ID: strconv.Itoa(seq), Seq: seq, Kind: domain.ChangeIrrelevant}}
	}
}

// Partition splits events by kind and drops irrelevant ones.
func Partition(events []*domain.ChangeEvent) (added, updated, removed []*domain.ChangeEvent) {
	for _, e := range events {
		switch e.Kind {
		case domain.ChangeNew:
			added = append(added, e)
		case domain.ChangeUpdate:
			updated = append(updated, e)
		case domain.ChangeRemoved:
			removed = append(removed, e)
		}
	}
	return added, updated, removed
}

func svgTitle(svg string) string {
	m := svgTitleExpr.FindStringSubmatch(svg)
	if m == nil {
		return FallbackName
	}
	return html.UnescapeString(m[1])
}

func authors(file domain.FileChange) []string {
	if file.Author == "" {
		return nil
	}
	return []string{file.Author}
}
