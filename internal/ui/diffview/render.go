package diffview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/splitdiff/internal/diff"
	"github.com/zjrosen/splitdiff/internal/ui/styles"
)

const (
	columnSeparator = "│"
	cursorMarker    = "▌"
	fillerChar      = "╱"
)

var (
	contextStyle   = lipgloss.NewStyle().Foreground(styles.DiffContextColor)
	removedStyle   = lipgloss.NewStyle().Foreground(styles.DiffDeletionColor).Background(styles.DiffDeletionBgColor)
	addedStyle     = lipgloss.NewStyle().Foreground(styles.DiffAdditionColor).Background(styles.DiffAdditionBgColor)
	fillerStyle    = lipgloss.NewStyle().Foreground(styles.DiffFillerColor)
	gutterStyle    = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	separatorStyle = lipgloss.NewStyle().Foreground(styles.BorderDefaultColor)
	skippedStyle   = lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(styles.DiffCursorColor)
)

// layout holds the column widths of one table line:
// marker, left gutter, left text, separator, right gutter, right text.
type layout struct {
	gutter int
	left   int
	right  int
}

func (m Model) layout(width int) layout {
	var l layout
	if m.cfg.LineNumbers {
		l.gutter = gutterWidth(m.maxLine())
	}
	avail := width - 2 - 2*l.gutter
	if avail < 2 {
		l.gutter = 0
		avail = max(width-2, 0)
	}
	l.left = avail / 2
	l.right = avail - l.left
	return l
}

// maxLine returns the largest line number in the result.
func (m Model) maxLine() int {
	var n int
	for i := len(m.result.Rows) - 1; i >= 0; i-- {
		row := m.result.Rows[i]
		n = max(n, row.LeftLine, row.RightLine)
		if row.LeftLine > 0 && row.RightLine > 0 {
			break
		}
	}
	return n
}

// renderItem draws one table line exactly width cells wide.
func (m Model) renderItem(it item, width int) string {
	if it.row < 0 {
		text := "⋯ " + styles.FormatLineCount(it.skipped) + " unchanged"
		return " " + skippedStyle.Render(fit(text, width-1))
	}

	l := m.layout(width)
	row := m.result.Rows[it.row]
	marker := " "
	if it.row == m.nav.Current() {
		marker = cursorStyle.Render(cursorMarker)
	}
	return marker +
		m.cell(row, 0, l.gutter, l.left) +
		separatorStyle.Render(columnSeparator) +
		m.cell(row, 1, l.gutter, l.right)
}

// cell draws one side of a row: gutter plus text.
func (m Model) cell(row diff.Row, side, gutterW, textW int) string {
	text, line := row.Left, row.LeftLine
	style := removedStyle
	if side == 1 {
		text, line = row.Right, row.RightLine
		style = addedStyle
	}
	if text == nil {
		return fillerStyle.Render(strings.Repeat(fillerChar, gutterW+textW))
	}

	if row.Kind != diff.RowEqual {
		g := lipgloss.NewStyle().Foreground(style.GetForeground()).Render(gutter(line, gutterW))
		return g + style.Render(fit(sanitize(*text), textW))
	}

	g := gutterStyle.Render(gutter(line, gutterW))
	if hl := m.highlight[side]; line-1 < len(hl) {
		return g + fit(ansi.Truncate(hl[line-1], textW, "")+ansi.ResetStyle, textW)
	}
	return g + contextStyle.Render(fit(sanitize(*text), textW))
}
