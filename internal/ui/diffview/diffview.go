// Package diffview renders a diff.Result as a scrollable side-by-side table
// with line number gutters, a stats title and change navigation.
package diffview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/splitdiff/internal/diff"
	"github.com/zjrosen/splitdiff/internal/keys"
	"github.com/zjrosen/splitdiff/internal/language"
	"github.com/zjrosen/splitdiff/internal/log"
	"github.com/zjrosen/splitdiff/internal/ui/panes"
	"github.com/zjrosen/splitdiff/internal/ui/styles"
)

// Empty state messages.
const (
	PromptMessage    = "Paste or load content above, then press Compare"
	IdenticalMessage = "No differences found."
	PendingTitle     = "diffing…"
)

const wheelStep = 3

// Config holds display preferences.
type Config struct {
	ContextRadius  int
	ChangesOnly    bool
	LineNumbers    bool
	Highlight      bool
	HighlightStyle string // chroma style name
}

// item is one line of the table: a row of the result, or a separator for
// rows hidden by the changes-only filter.
type item struct {
	row     int // index into result rows, -1 for a separator
	skipped int // hidden rows, separators only
}

// Model is the diff table component.
type Model struct {
	cfg         Config
	highlighter *language.Highlighter

	result    diff.Result
	hasResult bool
	pending   bool
	live      bool
	languages [2]language.Mode
	highlight [2][]string // per side, indexed by line number - 1

	items []item
	nav   diff.Navigator
	vp    viewport

	width   int
	height  int
	focused bool
	static  bool // rendered once by Render; no mode flag
}

// New creates an empty diff view.
func New(cfg Config) Model {
	if cfg.ContextRadius < 0 {
		cfg.ContextRadius = diff.DefaultContextRadius
	}
	m := Model{
		cfg:       cfg,
		nav:       diff.NewNavigator(nil),
		languages: [2]language.Mode{language.Text, language.Text},
	}
	if cfg.Highlight {
		m.highlighter = language.NewHighlighter(cfg.HighlightStyle)
	}
	return m
}

// Render draws result in full at the given width, without scrolling.
func Render(result diff.Result, cfg Config, original, modified language.Mode, width int) string {
	m := New(cfg)
	m.static = true
	m.SetLanguages(original, modified)
	m.SetResult(result)
	m.SetSize(width, max(len(m.items), 1)+2)
	return m.View()
}

// SetResult shows a freshly computed result. Navigation restarts from the
// top.
func (m *Model) SetResult(result diff.Result) {
	m.result = result
	m.hasResult = true
	m.pending = false
	m.nav.Reset(result.Rows)
	m.rehighlight()
	m.rebuild()
	m.vp.top()
	log.Debug(log.CatUI, "diff view updated", "rows", len(result.Rows), "changes", m.nav.Len())
}

// Clear drops the result and returns to the empty state.
func (m *Model) Clear() {
	m.result = diff.Result{}
	m.hasResult = false
	m.pending = false
	m.highlight = [2][]string{}
	m.nav.Reset(nil)
	m.rebuild()
}

// Result returns the displayed result and whether there is one.
func (m Model) Result() (diff.Result, bool) { return m.result, m.hasResult }

// SetPending marks a recompute as scheduled.
func (m *Model) SetPending(pending bool) { m.pending = pending }

// Pending reports whether the pending indicator is shown.
func (m Model) Pending() bool { return m.pending }

// SetLive records the session mode for the footer.
func (m *Model) SetLive(live bool) { m.live = live }

// SetLanguages sets the syntax modes of the original and modified panes.
func (m *Model) SetLanguages(original, modified language.Mode) {
	if m.languages == [2]language.Mode{original, modified} {
		return
	}
	m.languages = [2]language.Mode{original, modified}
	m.rehighlight()
}

// ChangesOnly reports whether unchanged rows outside the context window are
// hidden.
func (m Model) ChangesOnly() bool { return m.cfg.ChangesOnly }

// SetChangesOnly switches the changes-only filter. The selected change stays
// selected and visible.
func (m *Model) SetChangesOnly(on bool) {
	if m.cfg.ChangesOnly == on {
		return
	}
	m.cfg.ChangesOnly = on
	m.rebuild()
	if cur := m.nav.Current(); cur != diff.NoSelection {
		m.vp.reveal(m.position(cur))
	}
}

// ToggleChangesOnly flips the changes-only filter.
func (m *Model) ToggleChangesOnly() { m.SetChangesOnly(!m.cfg.ChangesOnly) }

// LineNumbers reports whether gutters are drawn.
func (m Model) LineNumbers() bool { return m.cfg.LineNumbers }

// ToggleLineNumbers flips the line number gutters.
func (m *Model) ToggleLineNumbers() { m.cfg.LineNumbers = !m.cfg.LineNumbers }

// NextChange selects the next changed row, wrapping, and scrolls to it.
func (m *Model) NextChange() (row int, ok bool) {
	row, ok = m.nav.Next()
	if ok {
		m.vp.reveal(m.position(row))
	}
	return row, ok
}

// PrevChange selects the previous changed row, wrapping.
func (m *Model) PrevChange() (row int, ok bool) {
	row, ok = m.nav.Prev()
	if ok {
		m.vp.reveal(m.position(row))
	}
	return row, ok
}

// Selected returns the selected row index or diff.NoSelection.
func (m Model) Selected() int { return m.nav.Current() }

// Offset returns the first visible table line.
func (m Model) Offset() int { return m.vp.offset }

// Focus gives the view keyboard focus.
func (m *Model) Focus() { m.focused = true }

// Blur removes keyboard focus.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the view has keyboard focus.
func (m Model) Focused() bool { return m.focused }

// SetSize sets the outer dimensions including the border.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.vp.setSize(max(height-2, 0))
}

// Update handles navigation keys while focused and mouse wheel scrolling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Diff.Up):
			m.vp.scroll(-1)
		case key.Matches(msg, keys.Diff.Down):
			m.vp.scroll(1)
		case key.Matches(msg, keys.Diff.PageUp):
			m.vp.scroll(-max(m.vp.height, 1))
		case key.Matches(msg, keys.Diff.PageDown):
			m.vp.scroll(max(m.vp.height, 1))
		case key.Matches(msg, keys.Diff.Top):
			m.vp.top()
		case key.Matches(msg, keys.Diff.Bottom):
			m.vp.bottom()
		case key.Matches(msg, keys.Diff.NextChange):
			m.NextChange()
		case key.Matches(msg, keys.Diff.PrevChange):
			m.PrevChange()
		case key.Matches(msg, keys.Diff.ChangesOnly):
			m.ToggleChangesOnly()
		case key.Matches(msg, keys.Diff.LineNumbers):
			m.ToggleLineNumbers()
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.vp.scroll(-wheelStep)
		case tea.MouseButtonWheelDown:
			m.vp.scroll(wheelStep)
		}
	}
	return m, nil
}

// rebuild recomputes the table lines from the result and filter.
func (m *Model) rebuild() {
	rows := m.result.Rows
	m.items = make([]item, 0, len(rows))
	if !m.cfg.ChangesOnly {
		for i := range rows {
			m.items = append(m.items, item{row: i})
		}
		m.vp.setTotal(len(m.items))
		return
	}

	prev := -1
	for _, i := range diff.ChangeWindow(rows, m.cfg.ContextRadius) {
		if i > prev+1 {
			m.items = append(m.items, item{row: -1, skipped: i - prev - 1})
		}
		m.items = append(m.items, item{row: i})
		prev = i
	}
	if prev >= 0 && prev < len(rows)-1 {
		m.items = append(m.items, item{row: -1, skipped: len(rows) - 1 - prev})
	}
	m.vp.setTotal(len(m.items))
}

// position returns the table line showing row, or -1.
func (m Model) position(row int) int {
	for i, it := range m.items {
		if it.row == row {
			return i
		}
	}
	return -1
}

// rehighlight renders syntax colouring for each side as a whole so that
// multi-line tokens keep their state.
func (m *Model) rehighlight() {
	m.highlight = [2][]string{}
	if m.highlighter == nil || !m.hasResult {
		return
	}
	var lines [2][]string
	for _, row := range m.result.Rows {
		if row.Left != nil {
			lines[0] = append(lines[0], sanitize(*row.Left))
		}
		if row.Right != nil {
			lines[1] = append(lines[1], sanitize(*row.Right))
		}
	}
	for side := range lines {
		if m.languages[side] == language.Text {
			continue
		}
		m.highlight[side] = m.highlighter.Lines(m.languages[side], lines[side])
	}
}

// title returns the stats text shown in the top border.
func (m Model) title() string {
	switch {
	case m.pending:
		return "Diff " + PendingTitle
	case m.hasResult:
		return "Diff " + m.result.Stats.String()
	default:
		return "Diff"
	}
}

// footer describes the navigation position.
func (m Model) footer() string {
	if !m.hasResult || m.nav.Len() == 0 {
		return ""
	}
	if pos := m.nav.Position(); pos > 0 {
		return fmt.Sprintf("change %d/%d", pos, m.nav.Len())
	}
	if m.nav.Len() == 1 {
		return "1 change"
	}
	return fmt.Sprintf("%d changes", m.nav.Len())
}

// View renders the bordered table.
func (m Model) View() string {
	var flags []string
	if m.cfg.ChangesOnly {
		flags = append(flags, "changes only")
	}
	switch {
	case m.static:
	case m.live:
		flags = append(flags, "live")
	default:
		flags = append(flags, "manual")
	}
	return panes.BorderedPane(panes.BorderConfig{
		Content:    m.body(max(m.width-2, 1)),
		Width:      m.width,
		Height:     m.height,
		TopLeft:    m.title(),
		TopRight:   strings.Join(flags, " · "),
		BottomLeft: m.footer(),
		Focused:    m.focused,
	})
}

func (m Model) body(width int) string {
	switch {
	case !m.hasResult:
		return placeholder(PromptMessage, width, m.vp.height)
	case m.result.Identical():
		return placeholder(IdenticalMessage, width, m.vp.height)
	}

	tableWidth := width - 1 // scrollbar column
	start, end := m.vp.span()
	lines := make([]string, 0, end-start)
	for _, it := range m.items[start:end] {
		lines = append(lines, m.renderItem(it, tableWidth))
	}
	table := strings.Join(lines, "\n")
	return lipgloss.JoinHorizontal(lipgloss.Top, table, m.vp.bar().render())
}

func placeholder(msg string, width, height int) string {
	return lipgloss.Place(width, max(height, 1), lipgloss.Center, lipgloss.Center,
		styles.HintStyle.Render(styles.TruncateString(msg, width)))
}
