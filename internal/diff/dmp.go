package diff

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DMP computes line diffs with diff-match-patch's bisect, using each line as
// a single rune. The timeout is disabled so the result is exact rather than
// a best effort cut short by the deadline.
type DMP struct{}

// Name identifies the algorithm in config and cache keys.
func (DMP) Name() string { return "dmp" }

// Diff returns the normalized span sequence for a → b.
func (DMP) Diff(a, b []string) []Span {
	var table lineTable
	ra := table.encode(a)
	rb := table.encode(b)

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	var sb spanBuilder
	for _, d := range dmp.DiffMainRunes(ra, rb, false) {
		for _, r := range d.Text {
			line := table.lines[decodeLine(r)]
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				sb.equal(line)
			case diffmatchpatch.DiffDelete:
				sb.delete(line)
			case diffmatchpatch.DiffInsert:
				sb.insert(line)
			}
		}
	}
	return sb.spans()
}

// lineTable assigns each distinct line a rune. Runes skip the UTF-16
// surrogate block so they survive the round trip through Diff.Text.
type lineTable struct {
	ids   map[string]rune
	lines []string
}

const (
	surrogateLo = 0xD800
	surrogateHi = 0xE000
)

func (t *lineTable) encode(lines []string) []rune {
	if t.ids == nil {
		t.ids = make(map[string]rune)
	}
	out := make([]rune, len(lines))
	for i, line := range lines {
		r, ok := t.ids[line]
		if !ok {
			r = encodeLine(len(t.lines))
			t.ids[line] = r
			t.lines = append(t.lines, line)
		}
		out[i] = r
	}
	return out
}

func encodeLine(idx int) rune {
	r := rune(idx)
	if r >= surrogateLo {
		r += surrogateHi - surrogateLo
	}
	return r
}

func decodeLine(r rune) int {
	if r >= surrogateHi {
		r -= surrogateHi - surrogateLo
	}
	return int(r)
}
