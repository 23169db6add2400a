// Package keys contains keybinding definitions.
//
// Global bindings stay active while an editor pane has focus, so they all
// use modifier keys and avoid the textarea's own editing keys. Plain-letter
// shortcuts live in Diff and only apply when the diff view is focused.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application-wide keybindings.
type KeyMap struct {
	// Toolbar actions
	Compare key.Binding
	Swap    key.Binding
	Clear   key.Binding

	// Diff navigation
	NextChange  key.Binding
	PrevChange  key.Binding
	ChangesOnly key.Binding

	// Panes
	NextPane   key.Binding
	PrevPane   key.Binding
	CycleLang  key.Binding
	OpenFile   key.Binding
	ToggleLive key.Binding

	// General
	Help      key.Binding
	Quit      key.Binding
	ToggleLog key.Binding
}

// DiffKeyMap defines bindings that apply while the diff view has focus.
type DiffKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	NextChange  key.Binding
	PrevChange  key.Binding
	ChangesOnly key.Binding
	LineNumbers key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// PromptKeyMap defines bindings for the open-file prompt.
type PromptKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

var (
	// App holds the application-wide bindings.
	App = DefaultKeyMap()
	// Diff holds the diff view bindings.
	Diff = DefaultDiffKeyMap()
	// Prompt holds the open-file prompt bindings.
	Prompt = PromptKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
)

// DefaultKeyMap returns the default application-wide keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Compare: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "compare"),
		),
		Swap: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "swap panes"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear both panes"),
		),

		NextChange: key.NewBinding(
			key.WithKeys("alt+n"),
			key.WithHelp("alt+n", "next change"),
		),
		PrevChange: key.NewBinding(
			key.WithKeys("alt+p"),
			key.WithHelp("alt+p", "previous change"),
		),
		ChangesOnly: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle changes only"),
		),

		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		PrevPane: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous pane"),
		),
		CycleLang: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "cycle language"),
		),
		OpenFile: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open file"),
		),
		ToggleLive: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "toggle live diff"),
		),

		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		ToggleLog: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "debug log"),
		),
	}
}

// DefaultDiffKeyMap returns the diff view keybindings.
func DefaultDiffKeyMap() DiffKeyMap {
	return DiffKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		NextChange: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next change"),
		),
		PrevChange: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "previous change"),
		),
		ChangesOnly: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle changes only"),
		),
		LineNumbers: key.NewBinding(
			key.WithKeys("#"),
			key.WithHelp("#", "toggle line numbers"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Compare, k.Swap, k.Clear, k.NextPane, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Compare, k.Swap, k.Clear, k.ToggleLive},        // Actions
		{k.NextChange, k.PrevChange, k.ChangesOnly},       // Diff
		{k.NextPane, k.PrevPane, k.CycleLang, k.OpenFile}, // Panes
		{k.Help, k.Quit},                                  // General
	}
}

// ShortHelp returns keybindings for the short help view.
func (k DiffKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextChange, k.PrevChange, k.ChangesOnly, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k DiffKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.NextChange, k.PrevChange, k.ChangesOnly, k.LineNumbers},
		{k.Help, k.Quit},
	}
}
