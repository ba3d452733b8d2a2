package changes

import (
	"github.com/simple-icons/release-action/internal/domain"
)

// Resolve reconciles raw events into a ChangeSet. The rules run in order,
// each on the output of the previous one:
//
//  1. an update of a new icon is merged into the addition;
//  2. a new icon that is also removed cancels out with the removal;
//  3. an update of a removed icon is dropped;
//  4. repeated updates of one icon are merged into the first one.
//
// Repeated additions or removals of one icon are merged the same way as
// rule 4 so that no list names an icon twice. Names are compared exactly.
// Input order is kept; events are merged in place.
func Resolve(added, updated, removed []*domain.ChangeEvent) domain.ChangeSet {
	drop := make(map[string]bool)

	for _, n := range added {
		for _, u := range updated {
			if u.Name == n.Name {
				n.Absorb(u)
				drop[u.ID] = true
			}
		}
	}
	updated = without(updated, drop)

	for _, n := range added {
		for _, r := range removed {
			if r.Name == n.Name {
				drop[n.ID] = true
				drop[r.ID] = true
			}
		}
	}
	added = without(added, drop)
	removed = without(removed, drop)

	for _, u := range updated {
		for _, r := range removed {
			if r.Name == u.Name {
				drop[u.ID] = true
			}
		}
	}
	updated = without(updated, drop)

	return domain.ChangeSet{
		New:     mergeRepeated(added),
		Updated: mergeRepeated(updated),
		Removed: mergeRepeated(removed),
	}
}

// mergeRepeated folds every later event with the same name into the first.
func mergeRepeated(events []*domain.ChangeEvent) []*domain.ChangeEvent {
	drop := make(map[string]bool)
	for i, first := range events {
		if drop[first.ID] {
			continue
		}
		for _, other := range events[i+1:] {
			if other.ID == first.ID || drop[other.ID] || other.Name != first.Name {
				continue
			}
			first.Absorb(other)
			drop[other.ID] = true
		}
	}
	return without(events, drop)
}

func without(events []*domain.ChangeEvent, drop map[string]bool) []*domain.ChangeEvent {
	kept := make([]*domain.ChangeEvent, 0, len(events))
	for _, e := range events {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	return kept
}
