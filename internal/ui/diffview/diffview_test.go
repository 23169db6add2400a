package diffview

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/splitdiff/internal/diff"
	"github.com/zjrosen/splitdiff/internal/language"
)

func numbered(n int, replace map[int]string) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		line := fmt.Sprint(i)
		if r, ok := replace[i]; ok {
			line = r
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func newView(width, height int) Model {
	m := New(Config{ContextRadius: 3, LineNumbers: true})
	m.SetSize(width, height)
	return m
}

func viewLines(m Model) []string {
	return strings.Split(ansi.Strip(m.View()), "\n")
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_NoResult(t *testing.T) {
	m := newView(60, 8)
	view := ansi.Strip(m.View())
	require.Contains(t, view, PromptMessage)
	require.Contains(t, view, "Diff")
	require.Contains(t, view, "manual")
}

func TestView_Identical(t *testing.T) {
	m := newView(60, 8)
	m.SetResult(diff.Compute("x\ny", "x\ny"))

	view := ansi.Strip(m.View())
	require.Contains(t, view, IdenticalMessage)
	require.Contains(t, view, "Diff Identical")
}

func TestView_Pending(t *testing.T) {
	m := newView(60, 8)
	m.SetPending(true)
	require.Contains(t, ansi.Strip(m.View()), "Diff "+PendingTitle)

	m.SetResult(diff.Compute("a", "b"))
	require.False(t, m.Pending())
	require.NotContains(t, ansi.Strip(m.View()), PendingTitle)
}

func TestView_Rows(t *testing.T) {
	m := newView(40, 8)
	m.SetLive(true)
	m.SetResult(diff.Compute("a\nb\nc\n", "a\nB\nc\nd\n"))

	lines := viewLines(m)
	require.Len(t, lines, 8)
	require.Contains(t, lines[0], "Diff +2 lines -1 line")
	require.Contains(t, lines[0], "live")
	require.Equal(t, "│   1 a            │  1 a              │", lines[1])
	require.Equal(t, "│   2 b            │  2 B              │", lines[2])
	require.Equal(t, "│   3 c            │  3 c              │", lines[3])
	require.Equal(t, "│ ╱╱╱╱╱╱╱╱╱╱╱╱╱╱╱╱╱│  4 d              │", lines[4])
	require.Contains(t, lines[7], "2 changes")
}

func TestView_NoLineNumbers(t *testing.T) {
	m := newView(40, 6)
	m.SetResult(diff.Compute("a\n", "b\n"))
	m.ToggleLineNumbers()
	require.False(t, m.LineNumbers())

	lines := viewLines(m)
	require.Equal(t, "│ a                │b                  │", lines[1])
}

func TestNavigation_WrapsAndMarks(t *testing.T) {
	m := newView(40, 8)
	m.SetResult(diff.Compute("a\nb\nc\n", "a\nB\nc\nd\n"))
	require.Equal(t, diff.NoSelection, m.Selected())

	row, ok := m.NextChange()
	require.True(t, ok)
	require.Equal(t, 1, row)
	lines := viewLines(m)
	require.True(t, strings.HasPrefix(lines[2], "│▌  2 b"), lines[2])
	require.Contains(t, lines[7], "change 1/2")

	row, _ = m.NextChange()
	require.Equal(t, 3, row)
	row, _ = m.NextChange()
	require.Equal(t, 1, row, "wraps to the first change")

	row, _ = m.PrevChange()
	require.Equal(t, 3, row, "wraps backwards")
}

func TestNavigation_NoChanges(t *testing.T) {
	m := newView(40, 8)
	m.SetResult(diff.Compute("same", "same"))
	_, ok := m.NextChange()
	require.False(t, ok)
	require.Equal(t, diff.NoSelection, m.Selected())
}

func TestNavigation_ScrollsToChange(t *testing.T) {
	m := newView(60, 12)
	m.SetResult(diff.Compute(numbered(100, nil), numbered(100, map[int]string{80: "eighty"})))

	row, ok := m.NextChange()
	require.True(t, ok)
	require.Equal(t, 79, row)
	require.Equal(t, 76, m.Offset())
	require.Contains(t, ansi.Strip(m.View()), "eighty")
}

func TestSetResult_ResetsNavigation(t *testing.T) {
	m := newView(60, 12)
	m.SetResult(diff.Compute("a\nb", "a\nc"))
	m.NextChange()
	require.Equal(t, 1, m.Selected())

	m.SetResult(diff.Compute("a\nb", "x\nb"))
	require.Equal(t, diff.NoSelection, m.Selected())
}

func TestChangesOnly(t *testing.T) {
	m := New(Config{ContextRadius: 0, LineNumbers: true})
	m.SetSize(60, 10)
	m.SetResult(diff.Compute(numbered(10, nil), numbered(10, map[int]string{5: "five"})))

	view := ansi.Strip(m.View())
	require.NotContains(t, view, "unchanged")

	m.ToggleChangesOnly()
	require.True(t, m.ChangesOnly())
	view = ansi.Strip(m.View())
	require.Contains(t, view, "⋯ 4 lines unchanged")
	require.Contains(t, view, "⋯ 5 lines unchanged")
	require.Contains(t, view, "five")
	require.Contains(t, view, "changes only")
	require.NotContains(t, view, "  9 9")
}

func TestChangesOnly_KeepsSelectionVisible(t *testing.T) {
	m := newView(60, 8)
	m.SetResult(diff.Compute(numbered(200, nil), numbered(200, map[int]string{150: "x"})))
	m.NextChange()

	m.SetChangesOnly(true)
	require.Equal(t, 149, m.Selected())
	require.Contains(t, ansi.Strip(m.View()), "150 x")
}

func TestClear(t *testing.T) {
	m := newView(60, 8)
	m.SetResult(diff.Compute("a", "b"))
	m.Clear()

	_, ok := m.Result()
	require.False(t, ok)
	require.Contains(t, ansi.Strip(m.View()), PromptMessage)
}

func TestUpdate_Keys(t *testing.T) {
	m := newView(60, 8)
	m.SetResult(diff.Compute(numbered(50, nil), numbered(50, map[int]string{10: "ten", 40: "forty"})))

	m, _ = m.Update(runeKey("n"))
	require.Equal(t, diff.NoSelection, m.Selected(), "ignored while blurred")

	m.Focus()
	m, _ = m.Update(runeKey("n"))
	require.Equal(t, 9, m.Selected())
	m, _ = m.Update(runeKey("N"))
	require.Equal(t, 39, m.Selected())

	m, _ = m.Update(runeKey("g"))
	require.Equal(t, 0, m.Offset())
	m, _ = m.Update(runeKey("j"))
	require.Equal(t, 1, m.Offset())
	m, _ = m.Update(runeKey("G"))
	require.Equal(t, 44, m.Offset())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	require.Equal(t, 38, m.Offset())

	m, _ = m.Update(runeKey("c"))
	require.True(t, m.ChangesOnly())
	m, _ = m.Update(runeKey("#"))
	require.False(t, m.LineNumbers())
}

func TestUpdate_MouseWheel(t *testing.T) {
	m := newView(60, 8)
	m.SetResult(diff.Compute(numbered(50, nil), numbered(50, map[int]string{1: "one"})))

	m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	require.Equal(t, wheelStep, m.Offset())
	m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	require.Equal(t, 0, m.Offset())
}

func TestHighlight_EqualRows(t *testing.T) {
	m := New(Config{ContextRadius: 3, LineNumbers: true, Highlight: true})
	m.SetSize(50, 8)
	m.SetLanguages(language.JSON, language.JSON)
	m.SetResult(diff.Compute("{\n\"a\": 1\n}\n", "{\n\"a\": 2\n}\n"))

	require.Len(t, m.highlight[0], 3)
	require.Len(t, m.highlight[1], 3)
	view := ansi.Strip(m.View())
	require.Contains(t, view, `"a": 1`)
	require.Contains(t, view, `"a": 2`)

	m.SetLanguages(language.Text, language.Text)
	require.Nil(t, m.highlight[0])
}

func TestProperty_LinesFillWidth(t *testing.T) {
	alphabet := []string{"a", "b", "\tc", "日本", "", "longer line of text here"}
	rapid.Check(t, func(rt *rapid.T) {
		gen := rapid.SliceOfN(rapid.SampledFrom(alphabet), 0, 30)
		original := strings.Join(gen.Draw(rt, "original"), "\n")
		modified := strings.Join(gen.Draw(rt, "modified"), "\n")
		width := rapid.IntRange(10, 120).Draw(rt, "width")
		height := rapid.IntRange(3, 20).Draw(rt, "height")

		m := New(Config{
			ContextRadius: rapid.IntRange(0, 3).Draw(rt, "radius"),
			ChangesOnly:   rapid.Bool().Draw(rt, "changesOnly"),
			LineNumbers:   rapid.Bool().Draw(rt, "lineNumbers"),
		})
		m.SetSize(width, height)
		m.SetResult(diff.Compute(original, modified))
		if rapid.Bool().Draw(rt, "select") {
			m.NextChange()
		}

		lines := strings.Split(m.View(), "\n")
		require.Len(t, lines, height)
		for _, line := range lines {
			require.Equal(t, width, ansi.StringWidth(line), "line %q", ansi.Strip(line))
		}
	})
}

func TestRender_FullHeight(t *testing.T) {
	result := diff.Compute(numbered(30, nil), numbered(30, map[int]string{15: "x"}))

	out := ansi.Strip(Render(result, Config{ContextRadius: 3, LineNumbers: true}, language.Text, language.Text, 60))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 32)
	require.NotContains(t, lines[0], "manual")
	require.Contains(t, out, " 30 30")

	out = ansi.Strip(Render(result, Config{ContextRadius: 3, ChangesOnly: true, LineNumbers: true}, language.Text, language.Text, 60))
	require.Len(t, strings.Split(out, "\n"), 11)
	require.Contains(t, out, "⋯ 11 lines unchanged")
	require.Contains(t, out, "⋯ 12 lines unchanged")
}
