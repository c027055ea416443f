package tasks

import (
	"cmp"
	"slices"
	"strings"
)

// List returns outstanding tasks: due-dated first by earliest due date,
// then undated by priority.
func (s *Store) List() []Task {
	return arrange(s.filter(Task.Outstanding))
}

// Report returns every task, outstanding and completed, in List order.
func (s *Store) Report() []Task {
	return arrange(s.All())
}

// Query returns outstanding tasks whose name contains any of the terms.
//
// Terms are applied in the order given and their matches are concatenated
// before arranging, so a task matching two terms appears twice unless
// DedupeQuery is set.
func (s *Store) Query(terms []string) []Task {
	outstanding := s.filter(Task.Outstanding)

	var matched []Task
	seen := make(map[int]bool)
	for _, term := range terms {
		term = strings.ToLower(term)
		for _, t := range outstanding {
			if !strings.Contains(t.Name, term) {
				continue
			}
			if s.DedupeQuery {
				if seen[t.ID] {
					continue
				}
				seen[t.ID] = true
			}
			matched = append(matched, t)
		}
	}
	return arrange(matched)
}

func (s *Store) filter(keep func(Task) bool) []Task {
	var out []Task
	for _, id := range s.order {
		if t := s.byID[id].clone(); keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// arrange partitions tasks by due-date presence, stable-sorts each group and
// concatenates them with due-dated tasks first.
func arrange(in []Task) []Task {
	var dated, undated []Task
	for _, t := range in {
		if t.HasDue() {
			dated = append(dated, t)
		} else {
			undated = append(undated, t)
		}
	}

	slices.SortStableFunc(dated, compareDue)
	slices.SortStableFunc(undated, func(a, b Task) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	out := make([]Task, 0, len(in))
	out = append(out, dated...)
	return append(out, undated...)
}

// compareDue orders by calendar date so that 01/05/2031 sorts after
// 12/31/2030. Values that fail to parse fall back to string order after all
// parseable dates.
func compareDue(a, b Task) int {
	ad, aok := a.DueTime()
	bd, bok := b.DueTime()
	switch {
	case aok && bok:
		return ad.Compare(bd)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return strings.Compare(a.Due, b.Due)
	}
}
