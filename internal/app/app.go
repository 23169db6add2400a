// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	keyhelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/splitdiff/internal/config"
	"github.com/zjrosen/splitdiff/internal/diff"
	"github.com/zjrosen/splitdiff/internal/keys"
	"github.com/zjrosen/splitdiff/internal/language"
	"github.com/zjrosen/splitdiff/internal/log"
	"github.com/zjrosen/splitdiff/internal/pubsub"
	"github.com/zjrosen/splitdiff/internal/scheduler"
	"github.com/zjrosen/splitdiff/internal/session"
	"github.com/zjrosen/splitdiff/internal/ui/diffview"
	"github.com/zjrosen/splitdiff/internal/ui/editor"
	"github.com/zjrosen/splitdiff/internal/ui/help"
	"github.com/zjrosen/splitdiff/internal/ui/logoverlay"
	"github.com/zjrosen/splitdiff/internal/ui/modal"
	"github.com/zjrosen/splitdiff/internal/ui/toaster"
	"github.com/zjrosen/splitdiff/internal/watcher"
)

// focusTarget is the component receiving keyboard input.
type focusTarget int

const (
	focusOriginal focusTarget = iota
	focusModified
	focusDiff
	focusCount
)

// Options configures the root model.
type Options struct {
	Config     config.Config
	ConfigPath string // where UI preferences are saved on exit; empty disables saving

	Engine *diff.Engine
	Tracer trace.Tracer
	Clock  scheduler.Clock // nil uses the real clock

	// Files are loaded into the original and modified panes at startup.
	// Either may be empty.
	Files [2]string
	// Languages override the detected language of each pane. Empty keeps
	// detection.
	Languages [2]language.Mode

	// DebugMode enables the log overlay (Ctrl+X toggle).
	DebugMode bool
}

// Model is the root application state.
type Model struct {
	sess    *session.Session
	editors [2]*editor.Model
	diff    diffview.Model

	focus    focusTarget
	lastSide session.Side // pane targeted by open/language while the diff is focused

	prompt     modal.Model
	promptOpen bool
	promptSide session.Side

	help     help.Model
	keyHelp  keyhelp.Model
	showHelp bool

	// Centralized toaster
	toaster toaster.Model

	debugMode    bool
	logOverlay   logoverlay.Model
	logListenCmd tea.Cmd

	cfg        config.Config
	configPath string
	resultSeq  uint64 // newest result shown

	sessCtx      context.Context
	sessCancel   context.CancelFunc
	sessListener *pubsub.ContinuousListener[session.Event]

	// File watcher for reloading loaded files (pubsub-based)
	watcherHandle   *watcher.Watcher
	watcherCtx      context.Context
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.ContinuousListener[watcher.Change]

	width  int
	height int
}

// New creates the root model, loading any startup files. The session runs
// in deferred mode: debounced recomputes come back as events and are
// computed on the update loop.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	sess := session.New(session.Options{
		Live:     cfg.Diff.Live,
		Debounce: cfg.Diff.Debounce,
		Clock:    opts.Clock,
		Engine:   opts.Engine,
		Tracer:   opts.Tracer,
		Deferred: true,
	})
	sessCtx, sessCancel := context.WithCancel(context.Background())

	m := Model{
		sess: sess,
		diff: diffview.New(diffview.Config{
			ContextRadius:  cfg.Diff.ContextRadius,
			ChangesOnly:    cfg.UI.ChangesOnly,
			LineNumbers:    cfg.UI.LineNumbers,
			Highlight:      cfg.UI.Highlight,
			HighlightStyle: cfg.UI.HighlightStyle,
		}),
		help:         help.New(cfg.UI.MarkdownStyle),
		keyHelp:      keyhelp.New(),
		showHelp:     cfg.UI.ShowHelp,
		toaster:      toaster.New(),
		debugMode:    opts.DebugMode,
		logOverlay:   logoverlay.New(),
		cfg:          cfg,
		configPath:   opts.ConfigPath,
		sessCtx:      sessCtx,
		sessCancel:   sessCancel,
		sessListener: pubsub.NewContinuousListener(sessCtx, sess.Broker()),
	}
	m.diff.SetLive(cfg.Diff.Live)

	for _, side := range []session.Side{session.Original, session.Modified} {
		m.editors[side] = editor.New(side, sess)
		if err := sess.Attach(side, m.editors[side]); err != nil {
			_ = m.Close()
			return Model{}, err
		}
	}
	m.editors[session.Original].Focus()

	if opts.DebugMode {
		m.logListenCmd = m.logOverlay.StartListening()
	}

	loaded := false
	for side, path := range opts.Files {
		if path == "" {
			continue
		}
		if err := sess.Load(session.Side(side), path); err != nil {
			_ = m.Close()
			return Model{}, err
		}
		loaded = true
	}
	for side, mode := range opts.Languages {
		if mode == "" {
			continue
		}
		if err := sess.SetLanguage(session.Side(side), mode); err != nil {
			_ = m.Close()
			return Model{}, err
		}
	}
	m.syncPanes()

	if cfg.Watch {
		m.startWatcher(opts.Files[:]...)
	}

	// Manual mode never computes on its own; show files given on the
	// command line right away.
	if loaded && !cfg.Diff.Live {
		sess.Compare(context.Background())
	}
	return m, nil
}

// startWatcher begins watching paths. The app works without it, so
// failures are only logged.
func (m *Model) startWatcher(paths ...string) {
	w, err := watcher.New(watcher.DefaultConfig(paths...))
	if err != nil {
		log.ErrorErr(log.CatWatcher, "Failed to create watcher", err)
		return
	}
	if err := w.Start(); err != nil {
		log.ErrorErr(log.CatWatcher, "Failed to start watcher", err)
		_ = w.Stop()
		return
	}
	m.watcherHandle = w
	m.watcherCtx, m.watcherCancel = context.WithCancel(context.Background())
	m.watcherListener = pubsub.NewContinuousListener(m.watcherCtx, w.Broker())
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.sessListener.Listen()}
	if m.focus != focusDiff {
		cmds = append(cmds, m.editors[m.focus].Focus())
	}
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	if m.logListenCmd != nil {
		cmds = append(cmds, m.logListenCmd)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.MouseMsg:
		// Route mouse events to log overlay when visible
		if m.logOverlay.Visible() {
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)
			return m, cmd
		}
		return m.handleMouse(msg)

	case log.LogEvent:
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pubsub.Event[session.Event]:
		cmd := m.handleSessionEvent(msg.Payload)
		return m, tea.Batch(cmd, m.sessListener.Listen())

	case pubsub.Event[watcher.Change]:
		m.reloadChanged(msg.Payload.Path)
		if m.watcherListener == nil {
			return m, nil
		}
		return m, m.watcherListener.Listen()

	case modal.SubmitMsg:
		m.promptOpen = false
		return m, m.openFile(m.promptSide, msg.Value)

	case modal.CancelMsg:
		m.promptOpen = false
		return m, nil

	case toaster.ShowMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(msg.Message, msg.Style)
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil
	}

	// Cursor blink and other component messages
	if m.promptOpen {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	if m.focus != focusDiff {
		cmd, _ := m.editors[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.debugMode && key.Matches(msg, keys.App.ToggleLog) {
		m.logOverlay.Toggle()
		return m, nil
	}

	// If the debug log overlay is visible it takes precedence for updates
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, keys.App.Quit) {
		return m, tea.Quit
	}

	if m.promptOpen {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	if m.help.Visible() {
		if key.Matches(msg, keys.App.Help, keys.Diff.Help, keys.Prompt.Cancel) {
			m.help = m.help.Hide()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.App.Compare):
		m.compare()
		return m, nil
	case key.Matches(msg, keys.App.Swap):
		m.sess.Swap()
		return m, nil
	case key.Matches(msg, keys.App.Clear):
		m.sess.Clear()
		return m, nil
	case key.Matches(msg, keys.App.NextChange):
		m.diff.NextChange()
		return m, nil
	case key.Matches(msg, keys.App.PrevChange):
		m.diff.PrevChange()
		return m, nil
	case key.Matches(msg, keys.App.ChangesOnly):
		m.diff.ToggleChangesOnly()
		return m, nil
	case key.Matches(msg, keys.App.NextPane):
		return m, m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, keys.App.PrevPane):
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, keys.App.CycleLang):
		return m, m.cycleLanguage(m.targetSide())
	case key.Matches(msg, keys.App.OpenFile):
		return m, m.openPrompt(m.targetSide())
	case key.Matches(msg, keys.App.ToggleLive):
		return m, m.toggleLive()
	case key.Matches(msg, keys.App.Help):
		m.help = m.help.Toggle()
		return m, nil
	}

	if m.focus == focusDiff {
		switch {
		case key.Matches(msg, keys.Diff.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Diff.Help):
			m.help = m.help.Toggle()
			return m, nil
		}
		var cmd tea.Cmd
		m.diff, cmd = m.diff.Update(msg)
		return m, cmd
	}

	cmd, _ := m.editors[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleSessionEvent(ev session.Event) tea.Cmd {
	switch ev.Kind {
	case session.EventResult:
		if ev.Seq <= m.resultSeq {
			return nil
		}
		m.resultSeq = ev.Seq
		m.diff.SetResult(ev.Result)
	case session.EventPending:
		m.diff.SetPending(m.sess.Pending())
	case session.EventDue:
		m.sess.RecomputeDue(context.Background(), ev.Gen)
	case session.EventPane:
		m.syncPanes()
	case session.EventCleared:
		m.diff.Clear()
		m.syncPanes()
	}
	return nil
}

// compare runs the pipeline now. The result arrives as a session event.
func (m *Model) compare() {
	m.sess.Compare(context.Background())
	m.diff.SetPending(false)
}

// syncPanes copies pane metadata from the session into the editors and
// the diff view.
func (m *Model) syncPanes() {
	var langs [2]language.Mode
	for _, e := range m.editors {
		pane, err := m.sess.Pane(e.Side())
		if err != nil {
			continue
		}
		e.SetPane(pane)
		langs[e.Side()] = pane.Language
	}
	m.diff.SetLanguages(langs[session.Original], langs[session.Modified])
}

func (m *Model) setFocus(f focusTarget) tea.Cmd {
	m.focus = f
	m.diff.Blur()
	for _, e := range m.editors {
		e.Blur()
	}
	if f == focusDiff {
		m.diff.Focus()
		return nil
	}
	m.lastSide = session.Side(f)
	return m.editors[f].Focus()
}

// targetSide is the pane that pane-level commands apply to.
func (m Model) targetSide() session.Side {
	if m.focus == focusDiff {
		return m.lastSide
	}
	return session.Side(m.focus)
}

func (m *Model) cycleLanguage(side session.Side) tea.Cmd {
	pane, err := m.sess.Pane(side)
	if err != nil {
		return nil
	}
	if err := m.sess.SetLanguage(side, pane.Language.Next()); err != nil {
		log.ErrorErr(log.CatUI, "Failed to change language", err, "side", side)
		return toaster.Show(err.Error(), toaster.StyleError)
	}
	return nil
}

func (m *Model) toggleLive() tea.Cmd {
	live := !m.sess.Live()
	m.sess.SetLive(live)
	m.diff.SetLive(live)
	m.diff.SetPending(m.sess.Pending())
	if live {
		return toaster.Show("Live diff on", toaster.StyleInfo)
	}
	return toaster.Show("Manual compare: press "+keys.App.Compare.Help().Key, toaster.StyleInfo)
}

func (m *Model) openPrompt(side session.Side) tea.Cmd {
	pane, _ := m.sess.Pane(side)
	m.prompt = modal.New(modal.Config{
		ID:          "open:" + side.String(),
		Title:       "Open file into " + paneTitle(side),
		Message:     "Path to a text file. The language follows the file extension.",
		Placeholder: "path/to/file",
		Value:       pane.Path,
		MinWidth:    50,
	})
	m.prompt.SetSize(m.width, m.height)
	m.promptOpen = true
	m.promptSide = side
	return m.prompt.Init()
}

// openFile loads path into side and starts watching it in watch mode.
func (m *Model) openFile(side session.Side, path string) tea.Cmd {
	if err := m.sess.Load(side, path); err != nil {
		log.ErrorErr(log.CatUI, "Failed to open file", err, "side", side)
		return toaster.Show(err.Error(), toaster.StyleError)
	}
	if m.cfg.Watch {
		if m.watcherHandle == nil {
			m.startWatcher()
		}
		if m.watcherHandle != nil {
			if err := m.watcherHandle.Add(path); err != nil {
				log.ErrorErr(log.CatWatcher, "Failed to watch file", err, "path", path)
			}
		}
	}
	msg := fmt.Sprintf("Loaded %s into %s", filepath.Base(path), paneTitle(side))
	return toaster.Show(msg, toaster.StyleSuccess)
}

// reloadChanged reloads every pane whose file is path.
func (m *Model) reloadChanged(path string) {
	for _, side := range []session.Side{session.Original, session.Modified} {
		pane, err := m.sess.Pane(side)
		if err != nil || pane.Path == "" {
			continue
		}
		abs, err := filepath.Abs(pane.Path)
		if err != nil || abs != path {
			continue
		}
		log.Info(log.CatWatcher, "Reloading changed file", "side", side, "path", pane.Path)
		if err := m.sess.Load(side, pane.Path); err != nil {
			log.ErrorErr(log.CatWatcher, "Failed to reload file", err, "side", side)
		}
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.promptOpen || m.help.Visible() {
		return m, nil
	}

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if z := zone.Get(zoneDiff); z != nil && z.InBounds(msg) {
			var cmd tea.Cmd
			m.diff, cmd = m.diff.Update(msg)
			return m, cmd
		}
		for _, e := range m.editors {
			if z := zone.Get(paneZone(e.Side())); z != nil && z.InBounds(msg) {
				cmd, _ := e.Update(msg)
				return m, cmd
			}
		}
		return m, nil
	}

	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	switch {
	case inZone(zoneCompare, msg):
		m.compare()
	case inZone(zoneSwap, msg):
		m.sess.Swap()
	case inZone(zoneClear, msg):
		m.sess.Clear()
	case inZone(zoneMode, msg):
		return m, m.toggleLive()
	case inZone(zoneLanguage, msg):
		return m, m.cycleLanguage(m.targetSide())
	case inZone(zoneOpen, msg):
		return m, m.openPrompt(m.targetSide())
	case inZone(paneZone(session.Original), msg):
		return m, m.setFocus(focusOriginal)
	case inZone(paneZone(session.Modified), msg):
		return m, m.setFocus(focusModified)
	case inZone(zoneDiff, msg):
		return m, m.setFocus(focusDiff)
	}
	return m, nil
}

func inZone(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

// Session returns the comparison state.
func (m Model) Session() *session.Session { return m.sess }

// Close releases resources held by the application and saves display
// preferences that changed during the run.
func (m *Model) Close() error {
	m.logOverlay.StopListening()

	if m.sessCancel != nil {
		m.sessCancel()
	}
	if m.sess != nil {
		m.sess.Close()
	}

	// Cancel watcher subscription context (stops listener)
	if m.watcherCancel != nil {
		m.watcherCancel()
	}

	var saveErr error
	if m.configPath != "" && m.uiChanged() {
		ui := m.cfg.UI
		ui.ChangesOnly = m.diff.ChangesOnly()
		ui.LineNumbers = m.diff.LineNumbers()
		saveErr = config.SaveUI(m.configPath, ui)
	}

	// Close watcher if we own it
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return saveErr
}

func (m Model) uiChanged() bool {
	return m.diff.ChangesOnly() != m.cfg.UI.ChangesOnly ||
		m.diff.LineNumbers() != m.cfg.UI.LineNumbers
}
