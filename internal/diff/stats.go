package diff

import "fmt"

// Stats counts changed lines over a full row sequence.
type Stats struct {
	Added   int `json:"addedLines"`
	Removed int `json:"removedLines"`
}

// ComputeStats derives line counts from rows. A changed row counts toward
// each side it carries a line for.
func ComputeStats(rows []Row) Stats {
	var s Stats
	for _, row := range rows {
		switch row.Kind {
		case RowAdded:
			if row.HasRight() {
				s.Added++
			}
		case RowRemoved:
			if row.HasLeft() {
				s.Removed++
			}
		case RowChanged:
			if row.HasRight() {
				s.Added++
			}
			if row.HasLeft() {
				s.Removed++
			}
		}
	}
	return s
}

// HasChanges reports whether any line was added or removed.
func (s Stats) HasChanges() bool {
	return s.Added > 0 || s.Removed > 0
}

// String renders the stats bar text, e.g. "+2 lines -1 line".
func (s Stats) String() string {
	if !s.HasChanges() {
		return "Identical"
	}
	var out string
	if s.Added > 0 {
		out = fmt.Sprintf("+%d %s", s.Added, plural(s.Added, "line"))
	}
	if s.Removed > 0 {
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("-%d %s", s.Removed, plural(s.Removed, "line"))
	}
	return out
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
