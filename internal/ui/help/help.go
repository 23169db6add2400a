// Package help contains the help overlay component.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/splitdiff/internal/keys"
	"github.com/zjrosen/splitdiff/internal/log"
	"github.com/zjrosen/splitdiff/internal/ui/markdown"
	"github.com/zjrosen/splitdiff/internal/ui/overlay"
	"github.com/zjrosen/splitdiff/internal/ui/styles"
)

const (
	boxMaxWidth = 72
	boxMinWidth = 30
)

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(styles.OverlayBorderColor).
	Padding(0, 1)

// Model holds the help view state.
type Model struct {
	visible bool
	style   string
	width   int
	height  int

	rendered      string
	renderedWidth int
}

// New creates a hidden help overlay using the given markdown style.
func New(style string) Model {
	return Model{style: style}
}

// Toggle flips visibility.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	return m
}

// Hide closes the overlay.
func (m Model) Hide() Model {
	m.visible = false
	return m
}

// Visible returns whether the overlay is showing.
func (m Model) Visible() bool {
	return m.visible
}

// SetSize updates the screen size and re-renders the markdown when the box
// width changes.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	if w := m.contentWidth(); w != m.renderedWidth {
		m.rendered = render(Markdown(), w, m.style)
		m.renderedWidth = w
	}
	return m
}

// View renders the help box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	content := m.rendered
	if content == "" {
		content = render(Markdown(), m.contentWidth(), m.style)
	}
	if maxLines := m.height - 2; maxLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxLines {
			content = strings.Join(lines[:maxLines], "\n")
		}
	}
	return boxStyle.Render(content)
}

// Overlay renders the help box centered on bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

func (m Model) contentWidth() int {
	return max(min(m.width-8, boxMaxWidth), boxMinWidth)
}

// render falls back to the raw markdown if glamour fails.
func render(md string, width int, style string) string {
	r, err := markdown.New(width, style)
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			return out
		}
	}
	log.ErrorErr(log.CatUI, "help render failed", err)
	return md
}

// Markdown returns the help text: what the app does followed by one
// section per key group.
func Markdown() string {
	var b strings.Builder
	b.WriteString("# splitdiff\n\n")
	b.WriteString("Type or paste into the **Original** and **Modified** panes. ")
	b.WriteString("In live mode the diff below updates shortly after you stop typing; ")
	b.WriteString("otherwise press compare.\n\n")

	writeSection(&b, "Actions", keys.App.Compare, keys.App.Swap, keys.App.Clear, keys.App.ToggleLive)
	writeSection(&b, "Panes", keys.App.NextPane, keys.App.PrevPane, keys.App.CycleLang, keys.App.OpenFile)
	writeSection(&b, "Changes", keys.App.NextChange, keys.App.PrevChange, keys.App.ChangesOnly)
	writeSection(&b, "Diff view",
		keys.Diff.Up, keys.Diff.Down, keys.Diff.PageUp, keys.Diff.PageDown,
		keys.Diff.Top, keys.Diff.Bottom, keys.Diff.NextChange, keys.Diff.PrevChange,
		keys.Diff.ChangesOnly, keys.Diff.LineNumbers, keys.Diff.Quit)
	writeSection(&b, "General", keys.App.Help, keys.App.ToggleLog, keys.App.Quit)
	return b.String()
}

func writeSection(b *strings.Builder, title string, bindings ...key.Binding) {
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, binding := range bindings {
		h := binding.Help()
		fmt.Fprintf(b, "- `%s` %s\n", h.Key, h.Desc)
	}
	b.WriteString("\n")
}
