package diff

// NoSelection is the navigator cursor value before any jump.
const NoSelection = -1

// ChangeIndices returns the indices of all non-equal rows, in order.
func ChangeIndices(rows []Row) []int {
	var out []int
	for i, row := range rows {
		if row.IsChange() {
			out = append(out, i)
		}
	}
	return out
}

// NextChange returns the index of the first changed row after current,
// wrapping to the first change. It returns NoSelection when rows contain no
// change.
func NextChange(rows []Row, current int) int {
	first := NoSelection
	for i, row := range rows {
		if !row.IsChange() {
			continue
		}
		if first == NoSelection {
			first = i
		}
		if i > current {
			return i
		}
	}
	return first
}

// Navigator steps through the changed rows of one result.
type Navigator struct {
	changes []int
	cursor  int // position in changes, or NoSelection
}

// NewNavigator indexes rows with the cursor unset.
func NewNavigator(rows []Row) Navigator {
	return Navigator{changes: ChangeIndices(rows), cursor: NoSelection}
}

// Reset re-indexes rows and clears the cursor.
func (n *Navigator) Reset(rows []Row) {
	*n = NewNavigator(rows)
}

// Len returns the number of changed rows.
func (n Navigator) Len() int { return len(n.changes) }

// Current returns the selected row index, or NoSelection.
func (n Navigator) Current() int {
	if n.cursor == NoSelection {
		return NoSelection
	}
	return n.changes[n.cursor]
}

// Position returns the 1-based ordinal of the selection, 0 when unset.
func (n Navigator) Position() int {
	return n.cursor + 1
}

// Next advances circularly and returns the selected row index. ok is false
// when there are no changes.
func (n *Navigator) Next() (int, bool) {
	if len(n.changes) == 0 {
		return NoSelection, false
	}
	n.cursor = (n.cursor + 1) % len(n.changes)
	return n.changes[n.cursor], true
}

// Prev moves backwards circularly; from the unset state it selects the last
// change.
func (n *Navigator) Prev() (int, bool) {
	if len(n.changes) == 0 {
		return NoSelection, false
	}
	if n.cursor <= 0 {
		n.cursor = len(n.changes) - 1
	} else {
		n.cursor--
	}
	return n.changes[n.cursor], true
}
