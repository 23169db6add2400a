// Package panes renders rounded bordered panels with titles embedded in the
// top and bottom borders.
package panes

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/splitdiff/internal/ui/styles"
)

const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// BorderConfig configures the appearance of a bordered panel.
type BorderConfig struct {
	Content string // Rendered inside the border, clipped to fit
	Width   int    // Total width including borders
	Height  int    // Total height including borders

	TopLeft     string
	TopRight    string
	BottomLeft  string
	BottomRight string

	Focused            bool
	TitleColor         lipgloss.TerminalColor // nil means BorderDefaultColor
	BorderColor        lipgloss.TerminalColor // nil means BorderDefaultColor
	FocusedBorderColor lipgloss.TerminalColor // nil means BorderColor
}

// BorderedPane renders content within a bordered panel with optional titles.
func BorderedPane(cfg BorderConfig) string {
	borderStyle := lipgloss.NewStyle().Foreground(resolveBorderColor(cfg))
	titleColor := cfg.TitleColor
	if titleColor == nil {
		titleColor = styles.BorderDefaultColor
	}
	titleStyle := lipgloss.NewStyle().Foreground(titleColor)

	innerWidth := max(cfg.Width-2, 1)
	innerHeight := max(cfg.Height-2, 1)

	body := lipgloss.NewStyle().
		Width(innerWidth).
		MaxWidth(innerWidth).
		Height(innerHeight).
		MaxHeight(innerHeight).
		Render(cfg.Content)
	lines := strings.Split(body, "\n")

	side := borderStyle.Render(borderVertical)
	var b strings.Builder
	b.WriteString(titledBorder(borderTopLeft, borderTopRight, cfg.TopLeft, cfg.TopRight, innerWidth, borderStyle, titleStyle))
	for i := range innerHeight {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		b.WriteString("\n" + side + line + side)
	}
	b.WriteString("\n")
	b.WriteString(titledBorder(borderBottomLeft, borderBottomRight, cfg.BottomLeft, cfg.BottomRight, innerWidth, borderStyle, titleStyle))
	return b.String()
}

func resolveBorderColor(cfg BorderConfig) lipgloss.TerminalColor {
	base := cfg.BorderColor
	if base == nil {
		base = styles.BorderDefaultColor
	}
	if cfg.Focused && cfg.FocusedBorderColor != nil {
		return cfg.FocusedBorderColor
	}
	return base
}

// titledBorder builds one horizontal border line:
//
//	╭─ Left ───────── Right ─╮
//
// Titles that do not fit are truncated; the right title is dropped first.
func titledBorder(leftCorner, rightCorner, left, right string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	if innerWidth < 1 {
		return borderStyle.Render(leftCorner + rightCorner)
	}

	if titleCost(left)+titleCost(right)+1 > innerWidth {
		right = ""
	}
	if avail := innerWidth - 1 - 3; left != "" && lipgloss.Width(left) > avail {
		left = styles.TruncateString(left, avail)
	}

	var b strings.Builder
	b.WriteString(borderStyle.Render(leftCorner))
	used := 0
	if left != "" {
		b.WriteString(borderStyle.Render(borderHorizontal + " "))
		b.WriteString(titleStyle.Render(left))
		b.WriteString(borderStyle.Render(" "))
		used += titleCost(left)
	}
	dashes := max(innerWidth-used-titleCost(right), 0)
	b.WriteString(borderStyle.Render(strings.Repeat(borderHorizontal, dashes)))
	if right != "" {
		b.WriteString(borderStyle.Render(" "))
		b.WriteString(titleStyle.Render(right))
		b.WriteString(borderStyle.Render(" " + borderHorizontal))
	}
	b.WriteString(borderStyle.Render(rightCorner))
	return b.String()
}

// titleCost is the border width a title takes: "─ " + title + " ".
func titleCost(title string) int {
	if title == "" {
		return 0
	}
	return lipgloss.Width(title) + 3
}
