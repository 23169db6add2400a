package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/splitdiff/internal/config"
	"github.com/zjrosen/splitdiff/internal/language"
	"github.com/zjrosen/splitdiff/internal/pubsub"
	"github.com/zjrosen/splitdiff/internal/session"
	"github.com/zjrosen/splitdiff/internal/testutil"
	"github.com/zjrosen/splitdiff/internal/ui/modal"
	"github.com/zjrosen/splitdiff/internal/ui/toaster"
	"github.com/zjrosen/splitdiff/internal/watcher"
)

// TestMain initializes the global zone manager for all tests in this package.
func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

const debounce = 100 * time.Millisecond

// harness drives a Model by hand. A single goroutine forwards session
// events so that no event is lost between settle calls.
type harness struct {
	t      *testing.T
	m      Model
	events chan tea.Msg
}

func testConfig(live bool) config.Config {
	cfg := config.Defaults()
	cfg.Diff.Live = live
	cfg.Diff.Debounce = debounce
	cfg.Diff.CacheTTL = 0
	cfg.UI.Highlight = false
	return cfg
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	m, err := New(opts)
	require.NoError(t, err)

	h := &harness{t: t, m: m, events: make(chan tea.Msg, 64)}
	listen := m.sessListener.Listen()
	go func() {
		for {
			msg := listen()
			if msg == nil {
				close(h.events)
				return
			}
			h.events <- msg
		}
	}()
	t.Cleanup(func() { _ = h.m.Close() })

	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	h.settle()
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) key(msg tea.KeyMsg) tea.Cmd {
	h.t.Helper()
	return h.send(msg)
}

func (h *harness) typeText(s string) {
	h.t.Helper()
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// settle applies session events until none arrive for a short while.
func (h *harness) settle() {
	h.t.Helper()
	for {
		select {
		case msg, ok := <-h.events:
			if !ok {
				return
			}
			h.send(msg)
		case <-time.After(50 * time.Millisecond):
			return
		}
	}
}

func (h *harness) view() string {
	return ansi.Strip(h.m.View())
}

// toast runs cmd and returns the toast it produces.
func toast(t *testing.T, cmd tea.Cmd) toaster.ShowMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(toaster.ShowMsg)
	require.True(t, ok, "expected a toast")
	return msg
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestApp_WindowSizeMsg(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(true)})

	require.Equal(t, 100, h.m.width)
	require.Equal(t, 40, h.m.height)
	lines := strings.Split(h.m.View(), "\n")
	require.Len(t, lines, 40)
}

func TestApp_InitialView(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(false)})

	view := h.view()
	require.Contains(t, view, "splitdiff")
	require.Contains(t, view, "Compare")
	require.Contains(t, view, "Original")
	require.Contains(t, view, "Modified")
	require.Contains(t, view, "Paste original text here...")
	require.Contains(t, view, "manual")
	require.Contains(t, view, "Paste or load content above, then press Compare")
}

func TestApp_LiveTypingRecomputesAfterDebounce(t *testing.T) {
	clock := testutil.NewFakeClock()
	h := newHarness(t, Options{Config: testConfig(true), Clock: clock})

	h.typeText("a")
	h.settle()
	require.True(t, h.m.diff.Pending())
	require.Contains(t, h.view(), "Diff diffing…")
	_, ok := h.m.diff.Result()
	require.False(t, ok)

	clock.Advance(debounce)
	h.settle()

	result, ok := h.m.diff.Result()
	require.True(t, ok)
	require.Equal(t, 1, result.Stats.Removed)
	require.Contains(t, h.view(), "Diff -1 line")
	require.False(t, h.m.diff.Pending())
}

func TestApp_ManualModeComparesOnDemand(t *testing.T) {
	clock := testutil.NewFakeClock()
	h := newHarness(t, Options{Config: testConfig(false), Clock: clock})

	h.typeText("a")
	h.key(tea.KeyMsg{Type: tea.KeyTab})
	h.typeText("b")
	clock.Advance(time.Hour)
	h.settle()
	_, ok := h.m.diff.Result()
	require.False(t, ok, "manual mode waits for Compare")

	h.key(tea.KeyMsg{Type: tea.KeyCtrlS})
	h.settle()
	result, ok := h.m.diff.Result()
	require.True(t, ok)
	require.Equal(t, "+1 line -1 line", result.Stats.String())
}

func TestApp_IdenticalShowsMessage(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(false)})
	require.NoError(t, h.m.sess.Replace(session.Original, "same\n"))
	require.NoError(t, h.m.sess.Replace(session.Modified, "same\n"))

	h.key(tea.KeyMsg{Type: tea.KeyCtrlS})
	h.settle()
	view := h.view()
	require.Contains(t, view, "No differences found.")
	require.Contains(t, view, "Diff Identical")
}

func TestApp_SwapExchangesPanes(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(false)})
	require.NoError(t, h.m.sess.Replace(session.Original, "left"))
	require.NoError(t, h.m.sess.Replace(session.Modified, "right"))
	require.NoError(t, h.m.sess.SetLanguage(session.Original, language.JSON))
	h.settle()

	h.key(tea.KeyMsg{Type: tea.KeyCtrlR})
	h.settle()

	require.Equal(t, "right", h.m.editors[session.Original].Value())
	require.Equal(t, "left", h.m.editors[session.Modified].Value())
	require.Equal(t, language.JSON, h.m.editors[session.Modified].Language())
	require.Equal(t, language.Text, h.m.editors[session.Original].Language())
}

func TestApp_ClearEmptiesEverything(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(false)})
	require.NoError(t, h.m.sess.Replace(session.Original, "a"))
	require.NoError(t, h.m.sess.Replace(session.Modified, "b"))
	h.key(tea.KeyMsg{Type: tea.KeyCtrlS})
	h.settle()
	_, ok := h.m.diff.Result()
	require.True(t, ok)

	h.key(tea.KeyMsg{Type: tea.KeyCtrlL})
	h.settle()

	require.Empty(t, h.m.editors[session.Original].Value())
	require.Empty(t, h.m.editors[session.Modified].Value())
	_, ok = h.m.diff.Result()
	require.False(t, ok)
	require.Contains(t, h.view(), "Paste or load content above")
}

func TestApp_FocusCycle(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(false)})
	require.Equal(t, focusOriginal, h.m.focus)
	require.True(t, h.m.editors[session.Original].Focused())

	h.key(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusModified, h.m.focus)
	require.False(t, h.m.editors[session.Original].Focused())
	require.True(t, h.m.editors[session.Modified].Focused())

	h.key(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusDiff, h.m.focus)
	require.True(t, h.m.diff.Focused())
	require.False(t, h.m.editors[session.Modified].Focused())

	h.key(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusOriginal, h.m.focus)

	h.key(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, focusDiff, h.m.focus)
}

func TestApp_DiffFocusedKeys(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(false)})
	require.NoError(t, h.m.sess.Replace(session.Original, "a\nb\nc\n"))
	require.NoError(t, h.m.sess.Replace(session.Modified, "a\nB\nc\n"))
	h.key(tea.KeyMsg{Type: tea.KeyCtrlS})
	h.settle()

	h.key(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, focusDiff, h.m.focus)

	h.key(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	require.Equal(t, 1, h.m.diff.Selected())
	require.Equal(t, "a\nb\nc\n", h.m.editors[session.Original].Value(), "letters do not reach the editors")

	cmd := h.key(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_GlobalChangeNavigation(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(false)})
	require.NoError(t, h.m.sess.Replace(session.Original, "a\nb\nc\nd\n"))
	require.NoError(t, h.m.sess.Replace(session.Modified, "A\nb\nc\nD\n"))
	h.key(tea.KeyMsg{Type: tea.KeyCtrlS})
	h.settle()

	h.key(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}, Alt: true})
	require.Equal(t, 0, h.m.diff.Selected())
	h.key(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}, Alt: true})
	require.Equal(t, 3, h.m.diff.Selected())
	h.key(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}, Alt: true})
	require.Equal(t, 0, h.m.diff.Selected())
	require.Contains(t, h.view(), "change 1/2")
}

func TestApp_ChangesOnlyToggle(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(false)})
	require.False(t, h.m.diff.ChangesOnly())

	h.key(tea.KeyMsg{Type: tea.KeyCtrlT})
	require.True(t, h.m.diff.ChangesOnly())
	require.Contains(t, h.view(), "changes only")
}

func TestApp_CycleLanguage(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(false)})

	h.key(tea.KeyMsg{Type: tea.KeyCtrlY})
	h.settle()
	pane, err := h.m.sess.Pane(session.Original)
	require.NoError(t, err)
	require.Equal(t, language.Text.Next(), pane.Language)
	require.Equal(t, pane.Language, h.m.editors[session.Original].Language())

	// The diff view targets the last focused editor.
	h.key(tea.KeyMsg{Type: tea.KeyTab})
	h.key(tea.KeyMsg{Type: tea.KeyTab})
	h.key(tea.KeyMsg{Type: tea.KeyCtrlY})
	h.settle()
	pane, _ = h.m.sess.Pane(session.Modified)
	require.Equal(t, language.Text.Next(), pane.Language)
}

func TestApp_ToggleLive(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(true)})
	require.True(t, h.m.sess.Live())

	msg := toast(t, h.key(tea.KeyMsg{Type: tea.KeyCtrlG}))
	require.False(t, h.m.sess.Live())
	require.Contains(t, msg.Message, "Manual")
	require.Contains(t, h.view(), "manual")

	msg = toast(t, h.key(tea.KeyMsg{Type: tea.KeyCtrlG}))
	require.True(t, h.m.sess.Live())
	require.Contains(t, msg.Message, "Live")
}

func TestApp_OpenFilePrompt(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.json", "{\n  \"a\": 1\n}\n")
	h := newHarness(t, Options{Config: testConfig(false)})

	h.key(tea.KeyMsg{Type: tea.KeyTab})
	h.key(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(t, h.m.promptOpen)
	require.Equal(t, session.Modified, h.m.promptSide)
	require.Contains(t, h.view(), "Open file into Modified")

	// Keys go to the prompt while it is open.
	h.typeText("zz")
	require.Equal(t, "zz", h.m.prompt.Value())
	require.Empty(t, h.m.editors[session.Modified].Value())

	msg := toast(t, h.send(modal.SubmitMsg{ID: "open:modified", Value: path}))
	h.settle()
	require.False(t, h.m.promptOpen)
	require.Equal(t, toaster.StyleSuccess, msg.Style)
	require.Contains(t, msg.Message, "data.json")

	require.Equal(t, "{\n  \"a\": 1\n}\n", h.m.editors[session.Modified].Value())
	require.Equal(t, language.JSON, h.m.editors[session.Modified].Language())
	require.Contains(t, h.view(), "data.json")
}

func TestApp_OpenFilePromptCancel(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(false)})
	h.key(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(t, h.m.promptOpen)

	cmd := h.key(tea.KeyMsg{Type: tea.KeyEscape})
	require.NotNil(t, cmd)
	h.send(cmd())
	require.False(t, h.m.promptOpen)
}

func TestApp_OpenMissingFileShowsError(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(false)})
	h.key(tea.KeyMsg{Type: tea.KeyCtrlO})

	missing := filepath.Join(t.TempDir(), "missing.txt")
	msg := toast(t, h.send(modal.SubmitMsg{ID: "open:original", Value: missing}))
	require.Equal(t, toaster.StyleError, msg.Style)
	require.Contains(t, msg.Message, "missing.txt")

	require.NotNil(t, h.send(msg), "toast schedules its dismissal")
	require.True(t, h.m.toaster.Visible())
	require.Contains(t, h.m.toaster.Message(), "missing.txt")
}

func TestApp_StartupFiles(t *testing.T) {
	dir := t.TempDir()
	left := writeFile(t, dir, "a.yaml", "x: 1\n")
	right := writeFile(t, dir, "b.yaml", "x: 2\n")

	h := newHarness(t, Options{
		Config:    testConfig(false),
		Files:     [2]string{left, right},
		Languages: [2]language.Mode{"", language.Text},
	})

	require.Equal(t, "x: 1\n", h.m.editors[session.Original].Value())
	require.Equal(t, language.YAML, h.m.editors[session.Original].Language())
	require.Equal(t, language.Text, h.m.editors[session.Modified].Language())

	result, ok := h.m.diff.Result()
	require.True(t, ok, "manual mode compares startup files")
	require.Equal(t, "+1 line -1 line", result.Stats.String())
}

func TestApp_StartupFileMissing(t *testing.T) {
	_, err := New(Options{
		Config: testConfig(false),
		Files:  [2]string{filepath.Join(t.TempDir(), "nope.txt"), ""},
	})
	require.Error(t, err)
}

func TestApp_ReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one\n")
	h := newHarness(t, Options{Config: testConfig(false), Files: [2]string{path, ""}})

	require.NoError(t, os.WriteFile(path, []byte("two\n"), 0o600))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	h.send(pubsub.Event[watcher.Change]{Payload: watcher.Change{Path: abs}})
	h.settle()

	require.Equal(t, "two\n", h.m.editors[session.Original].Value())
}

func TestApp_HelpOverlay(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(false)})

	h.key(tea.KeyMsg{Type: tea.KeyF1})
	require.True(t, h.m.help.Visible())

	// Keys do not leak to the editor while help is open.
	h.typeText("x")
	require.Empty(t, h.m.editors[session.Original].Value())

	h.key(tea.KeyMsg{Type: tea.KeyEscape})
	require.False(t, h.m.help.Visible())
}

func TestApp_LogOverlayOnlyInDebugMode(t *testing.T) {
	h := newHarness(t, Options{Config: testConfig(false)})
	h.key(tea.KeyMsg{Type: tea.KeyCtrlX})
	require.False(t, h.m.logOverlay.Visible())

	h = newHarness(t, Options{Config: testConfig(false), DebugMode: true})
	h.key(tea.KeyMsg{Type: tea.KeyCtrlX})
	require.True(t, h.m.logOverlay.Visible())
	h.key(tea.KeyMsg{Type: tea.KeyCtrlX})
	require.False(t, h.m.logOverlay.Visible())
}

func TestApp_CloseSavesChangedPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	m, err := New(Options{Config: testConfig(false), ConfigPath: path})
	require.NoError(t, err)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = next.(Model)
	require.NoError(t, m.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "changes_only: true")
}

func TestApp_CloseWithoutChangesLeavesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	m, err := New(Options{Config: testConfig(false), ConfigPath: path})
	require.NoError(t, err)
	require.NoError(t, m.Close())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}

func TestApp_Teatest_TypeAndDiff(t *testing.T) {
	cfg := testConfig(true)
	cfg.Diff.Debounce = 10 * time.Millisecond
	m, err := New(Options{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Paste modified text here"))
	}, teatest.WithDuration(3*time.Second))

	tm.Type("hello")
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Diff -1 line"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
