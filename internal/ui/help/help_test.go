package help

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/splitdiff/internal/keys"
)

func TestMarkdown_ListsBindings(t *testing.T) {
	md := Markdown()

	for _, title := range []string{"## Actions", "## Panes", "## Changes", "## Diff view", "## General"} {
		require.Contains(t, md, title)
	}
	require.Contains(t, md, "- `"+keys.App.Compare.Help().Key+"` compare")
	require.Contains(t, md, "- `"+keys.App.Swap.Help().Key+"` swap panes")
	require.Contains(t, md, "- `"+keys.Diff.NextChange.Help().Key+"` next change")
}

func TestModel_ToggleAndView(t *testing.T) {
	m := New("dark").SetSize(100, 40)
	require.False(t, m.Visible())
	require.Empty(t, m.View())

	m = m.Toggle()
	require.True(t, m.Visible())
	view := ansi.Strip(m.View())
	require.Contains(t, view, "splitdiff")
	require.Contains(t, view, "swap panes")

	m = m.Hide()
	require.False(t, m.Visible())
}

func TestModel_ViewFitsScreen(t *testing.T) {
	m := New("light").SetSize(60, 12).Toggle()
	view := m.View()

	require.LessOrEqual(t, lipgloss.Height(view), 12)
	require.LessOrEqual(t, lipgloss.Width(view), 60)
}

func TestModel_Overlay(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(" ", 100)+"\n", 40), "\n")

	m := New("dark").SetSize(100, 40)
	require.Equal(t, bg, m.Overlay(bg))

	out := m.Toggle().Overlay(bg)
	require.Len(t, strings.Split(out, "\n"), 40)
	require.Contains(t, ansi.Strip(out), "Actions")
}
