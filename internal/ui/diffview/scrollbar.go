package diffview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/splitdiff/internal/ui/styles"
)

const (
	scrollbarThumbChar = "█"
	scrollbarTrackChar = "░"
)

// scrollbar describes the scroll state the bar reflects.
type scrollbar struct {
	total  int // rows in content
	height int // visible rows
	offset int // first visible row
}

// thumb returns the first row and height of the thumb.
// height = max(1, h*h/total); start is proportional within the free track.
func (s scrollbar) thumb() (start, height int) {
	if s.total <= 0 || s.height <= 0 {
		return 0, 0
	}
	if s.total <= s.height {
		return 0, s.height
	}

	height = max(1, s.height*s.height/s.total)
	maxOffset := s.total - s.height
	track := s.height - height
	if track <= 0 {
		return 0, height
	}
	start = track * s.offset / maxOffset
	start = max(0, min(start, s.height-height))
	return start, height
}

// render returns one cell per visible row joined by newlines. Content that
// fits gets a blank column so the layout does not shift.
func (s scrollbar) render() string {
	if s.height <= 0 || s.total <= 0 {
		return ""
	}
	lines := make([]string, s.height)
	if s.total <= s.height {
		for i := range lines {
			lines[i] = " "
		}
		return strings.Join(lines, "\n")
	}

	trackStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	thumbStyle := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
	start, height := s.thumb()
	for row := range lines {
		if row >= start && row < start+height {
			lines[row] = thumbStyle.Render(scrollbarThumbChar)
		} else {
			lines[row] = trackStyle.Render(scrollbarTrackChar)
		}
	}
	return strings.Join(lines, "\n")
}
