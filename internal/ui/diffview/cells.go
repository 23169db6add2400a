package diffview

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const tabWidth = 4

// sanitize makes a line safe to draw in a fixed-width cell: tabs expand to
// the next tab stop and C0 control characters become their visible Unicode
// control pictures (a stray \r is shown as ␍).
func sanitize(s string) string {
	if !strings.ContainsFunc(s, unicode.IsControl) {
		return s
	}
	var b strings.Builder
	col := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		r := g.Runes()
		switch {
		case cluster == "\t":
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case len(r) == 1 && r[0] < 0x20:
			b.WriteRune(0x2400 + r[0])
			col++
		case len(r) == 1 && r[0] == 0x7f:
			b.WriteRune('␡')
			col++
		case len(r) == 1 && unicode.IsControl(r[0]):
			// C1 controls have no picture; drop them.
		default:
			b.WriteString(cluster)
			col += g.Width()
		}
	}
	return b.String()
}

// fit truncates or pads s, which may carry ANSI styling, to exactly width
// cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		s = ansi.Truncate(s, width, "")
		w = ansi.StringWidth(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// gutterWidth returns the width of a line number column for numbers up to
// maxLine, including the trailing space. It never goes below four cells so
// small inputs do not make the layout jump while typing.
func gutterWidth(maxLine int) int {
	return max(len(strconv.Itoa(maxLine)), 3) + 1
}

// gutter right-aligns n in width cells. Zero renders blank.
func gutter(n, width int) string {
	if width <= 0 {
		return ""
	}
	if n <= 0 {
		return strings.Repeat(" ", width)
	}
	return runewidth.FillLeft(strconv.Itoa(n), width-1) + " "
}
