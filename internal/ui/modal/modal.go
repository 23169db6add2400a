// Package modal provides a single-input prompt dialog, used for opening a
// file into a pane.
package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/splitdiff/internal/keys"
	"github.com/zjrosen/splitdiff/internal/ui/overlay"
	"github.com/zjrosen/splitdiff/internal/ui/styles"
)

const minWidth = 40

// Config controls modal appearance.
type Config struct {
	ID          string // Echoed in SubmitMsg so callers can tell prompts apart
	Title       string // e.g. "Open file into Original"
	Message     string // Optional text above the input
	Placeholder string
	Value       string // Initial value
	MinWidth    int    // 0 means 40
}

// SubmitMsg is sent when the user confirms a non-empty value.
type SubmitMsg struct {
	ID    string
	Value string
}

// CancelMsg is sent when the user dismisses the modal.
type CancelMsg struct {
	ID string
}

// Model is the modal component state.
type Model struct {
	config Config
	input  textinput.Model
	width  int
	height int
}

// New creates a modal with a focused input.
func New(cfg Config) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = cfg.Placeholder
	ti.Width = contentWidth(cfg) - 2
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextPlaceholderColor)
	if cfg.Value != "" {
		ti.SetValue(cfg.Value)
	}
	ti.Focus()
	return Model{config: cfg, input: ti}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Value returns the current input text.
func (m Model) Value() string { return m.input.Value() }

// Update handles confirm/cancel and forwards everything else to the input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Prompt.Confirm):
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				return m, nil
			}
			id := m.config.ID
			return m, func() tea.Msg { return SubmitMsg{ID: id, Value: value} }
		case key.Matches(msg, keys.Prompt.Cancel):
			id := m.config.ID
			return m, func() tea.Msg { return CancelMsg{ID: id} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func contentWidth(cfg Config) int {
	w := max(cfg.MinWidth, minWidth)
	return max(w, lipgloss.Width(cfg.Title))
}

// View renders the modal box without positioning it.
func (m Model) View() string {
	width := contentWidth(m.config)
	boxWidth := width + 2

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)
	divider := lipgloss.NewStyle().
		Foreground(styles.OverlayBorderColor).
		Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	if m.config.Message != "" {
		content.WriteString(lipgloss.NewStyle().
			Foreground(styles.TextPrimaryColor).
			Width(width).
			Render(m.config.Message))
		content.WriteString("\n\n")
	}
	content.WriteString(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderHighlightFocusColor).
		Width(width - 2).
		Render(m.input.View()))
	content.WriteString("\n\n")
	content.WriteString(styles.PrimaryButtonStyle.Render("Open"))
	content.WriteString("  ")
	content.WriteString(styles.SecondaryButtonStyle.Render("Cancel"))
	content.WriteString("  ")
	content.WriteString(styles.HintStyle.Render("enter/esc"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.config.Title))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Padding(1, 1).Render(content.String()))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth).
		Render(b.String())
}

// Overlay renders the modal centered on bg.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// SetSize records the screen size used for centering.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
