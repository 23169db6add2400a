package app

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/splitdiff/internal/keys"
	"github.com/zjrosen/splitdiff/internal/session"
	"github.com/zjrosen/splitdiff/internal/ui/styles"
)

// Mouse zone IDs.
const (
	zoneCompare  = "toolbar-compare"
	zoneSwap     = "toolbar-swap"
	zoneClear    = "toolbar-clear"
	zoneOpen     = "toolbar-open"
	zoneLanguage = "toolbar-language"
	zoneMode     = "toolbar-mode"
	zoneDiff     = "pane-diff"
)

const (
	toolbarHeight  = 1
	minEditorRows  = 5
	minDiffRows    = 5
	editorsPercent = 40
)

var (
	appTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			PaddingRight(1)
	modeLiveStyle = lipgloss.NewStyle().
			Foreground(styles.StatusSuccessColor).
			Padding(0, 1)
	modeManualStyle = lipgloss.NewStyle().
			Foreground(styles.StatusWarningColor).
			Padding(0, 1)
)

func paneZone(side session.Side) string { return "pane-" + side.String() }

func paneTitle(side session.Side) string {
	if side == session.Modified {
		return "Modified"
	}
	return "Original"
}

// helpBarHeight is the height of the key hint line.
func (m Model) helpBarHeight() int {
	if m.showHelp {
		return 1
	}
	return 0
}

// resize distributes the screen between the editors and the diff view.
func (m *Model) resize() {
	body := max(m.height-toolbarHeight-m.helpBarHeight(), 0)
	editorRows := max(body*editorsPercent/100, minEditorRows)
	diffRows := max(body-editorRows, minDiffRows)

	left := m.width / 2
	m.editors[session.Original].SetSize(left, editorRows)
	m.editors[session.Modified].SetSize(m.width-left, editorRows)
	m.diff.SetSize(m.width, diffRows)

	m.help = m.help.SetSize(m.width, m.height)
	m.logOverlay.SetSize(m.width, m.height)
	m.prompt.SetSize(m.width, m.height)
	m.keyHelp.Width = max(m.width-2, 0) // status bar padding
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	parts := []string{
		m.toolbarView(),
		lipgloss.JoinHorizontal(lipgloss.Top,
			zone.Mark(paneZone(session.Original), m.editors[session.Original].View()),
			zone.Mark(paneZone(session.Modified), m.editors[session.Modified].View()),
		),
		zone.Mark(zoneDiff, m.diff.View()),
	}
	if m.showHelp {
		parts = append(parts, m.helpBarView())
	}
	view := zone.Scan(lipgloss.JoinVertical(lipgloss.Left, parts...))

	if m.promptOpen {
		view = m.prompt.Overlay(view)
	}
	if m.help.Visible() {
		view = m.help.Overlay(view)
	}

	// Overlay toaster on top of the layout
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}

	// Overlay log viewer on top (only in debug mode when visible)
	if m.debugMode && m.logOverlay.Visible() {
		view = m.logOverlay.Overlay(view)
	}
	return view
}

func (m Model) toolbarView() string {
	side := m.targetSide()
	pane, _ := m.sess.Pane(side)

	left := lipgloss.JoinHorizontal(lipgloss.Top,
		appTitleStyle.Render("splitdiff"),
		zone.Mark(zoneCompare, styles.PrimaryButtonStyle.Render("Compare")), " ",
		zone.Mark(zoneSwap, styles.SecondaryButtonStyle.Render("Swap")), " ",
		zone.Mark(zoneClear, styles.DangerButtonStyle.Render("Clear")), " ",
		zone.Mark(zoneOpen, styles.SecondaryButtonStyle.Render("Open…")), " ",
		zone.Mark(zoneLanguage, styles.SecondaryButtonStyle.Render(paneTitle(side)+": "+pane.Language.Label())),
	)

	var mode string
	if m.sess.Live() {
		mode = modeLiveStyle.Render("● live")
	} else {
		mode = modeManualStyle.Render("○ manual")
	}
	right := zone.Mark(zoneMode, mode)

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + lipgloss.NewStyle().Width(gap).Render("") + right
	return ansi.Truncate(bar, m.width, "")
}

func (m Model) helpBarView() string {
	var hints string
	if m.focus == focusDiff {
		hints = m.keyHelp.ShortHelpView(keys.Diff.ShortHelp())
	} else {
		hints = m.keyHelp.ShortHelpView(keys.App.ShortHelp())
	}
	return styles.StatusBarStyle.Render(hints)
}
