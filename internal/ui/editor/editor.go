// Package editor provides the editable text pane shown for each side of a
// comparison. It wraps a bubbles textarea and implements session.Surface.
package editor

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/splitdiff/internal/diff"
	"github.com/zjrosen/splitdiff/internal/language"
	"github.com/zjrosen/splitdiff/internal/log"
	"github.com/zjrosen/splitdiff/internal/session"
	"github.com/zjrosen/splitdiff/internal/ui/panes"
	"github.com/zjrosen/splitdiff/internal/ui/styles"
)

// Sink receives user edits. *session.Session satisfies it.
type Sink interface {
	SetContent(side session.Side, text string) error
}

var placeholders = [...]string{
	session.Original: "Paste original text here...",
	session.Modified: "Paste modified text here...",
}

var titles = [...]string{
	session.Original: "Original",
	session.Modified: "Modified",
}

// Model is one editor pane. It must be used through a pointer: the session
// pushes programmatic writes into it via SetContent.
type Model struct {
	side     session.Side
	sink     Sink
	textarea textarea.Model
	guard    session.Guard

	language language.Mode
	path     string
	width    int
	height   int
}

// New creates an editor for side that reports edits to sink.
func New(side session.Side, sink Sink) *Model {
	ta := textarea.New()
	ta.Prompt = ""
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.MaxWidth = 0
	ta.Placeholder = placeholders[side]
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(styles.TextPlaceholderColor)
	ta.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(styles.TextPlaceholderColor)
	ta.FocusedStyle.LineNumber = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	ta.BlurredStyle.LineNumber = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	ta.Blur()

	return &Model{
		side:     side,
		sink:     sink,
		textarea: ta,
		language: language.Text,
	}
}

// Side returns the pane this editor displays.
func (m *Model) Side() session.Side { return m.side }

// SetContent replaces the text without reporting it as an edit.
//
// The textarea turns every carriage return into a line break, so CRLF is
// collapsed to LF first. Line splitting treats both the same way, so the
// diff is unaffected.
func (m *Model) SetContent(text string) {
	m.textarea.SetValue(strings.ReplaceAll(text, "\r\n", "\n"))
	m.guard.Sync(m.textarea.Value())
}

// Value returns the text as currently displayed.
func (m *Model) Value() string { return m.textarea.Value() }

// SetPane updates the language and file shown in the border titles.
func (m *Model) SetPane(p session.Pane) {
	m.language = p.Language
	m.path = p.Path
}

// Language returns the pane's current syntax mode.
func (m *Model) Language() language.Mode { return m.language }

// Focus gives the textarea keyboard focus.
func (m *Model) Focus() tea.Cmd { return m.textarea.Focus() }

// Blur removes keyboard focus.
func (m *Model) Blur() { m.textarea.Blur() }

// Focused reports whether the editor has keyboard focus.
func (m *Model) Focused() bool { return m.textarea.Focused() }

// SetSize sets the outer dimensions including the border.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.textarea.SetWidth(max(width-2, 1))
	m.textarea.SetHeight(max(height-2, 1))
}

// Update forwards msg to the textarea. edited is true when the text changed
// as a result, in which case the new text has been sent to the sink.
func (m *Model) Update(msg tea.Msg) (cmd tea.Cmd, edited bool) {
	m.textarea, cmd = m.textarea.Update(msg)

	value := m.textarea.Value()
	if !m.guard.Changed(value) {
		return cmd, false
	}
	if m.sink != nil {
		if err := m.sink.SetContent(m.side, value); err != nil {
			log.ErrorErr(log.CatUI, "forwarding edit failed", err, "side", m.side)
		}
	}
	return cmd, true
}

// View renders the bordered pane.
func (m *Model) View() string {
	var name string
	if m.path != "" {
		name = filepath.Base(m.path)
	}
	return panes.BorderedPane(panes.BorderConfig{
		Content:     m.textarea.View(),
		Width:       m.width,
		Height:      m.height,
		TopLeft:     titles[m.side],
		TopRight:    m.language.Label(),
		BottomLeft:  styles.FormatLineCount(len(diff.SplitLines(m.Value()))),
		BottomRight: name,
		Focused:     m.Focused(),
	})
}
