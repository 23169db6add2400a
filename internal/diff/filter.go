package diff

// DefaultContextRadius is the number of unchanged rows kept on each side of
// a change in the changes-only view.
const DefaultContextRadius = 3

// ChangeWindow returns, in order, the indices of rows that lie within radius
// rows of some non-equal row. It returns nil when nothing changed.
func ChangeWindow(rows []Row, radius int) []int {
	if radius < 0 {
		radius = 0
	}

	// keep[i] is set for every row covered by a change's window. Windows are
	// marked by sweeping a "last change seen" distance forward and backward.
	keep := make([]bool, len(rows))
	changed := false
	dist := -1
	for i, row := range rows {
		if row.IsChange() {
			dist = 0
			changed = true
		} else if dist >= 0 {
			dist++
		}
		if dist >= 0 && dist <= radius {
			keep[i] = true
		}
	}
	if !changed {
		return nil
	}
	dist = -1
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].IsChange() {
			dist = 0
		} else if dist >= 0 {
			dist++
		}
		if dist >= 0 && dist <= radius {
			keep[i] = true
		}
	}

	var out []int
	for i, k := range keep {
		if k {
			out = append(out, i)
		}
	}
	return out
}

// FilterChangesOnly projects rows through ChangeWindow.
func FilterChangesOnly(rows []Row, radius int) []Row {
	idx := ChangeWindow(rows, radius)
	if idx == nil {
		return nil
	}
	out := make([]Row, len(idx))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out
}
