package session

import (
	"errors"
	"fmt"

	"github.com/zjrosen/splitdiff/internal/language"
)

// ErrInvalidSide is returned for a Side other than Original or Modified.
var ErrInvalidSide = errors.New("invalid pane side")

// Side identifies one of the two panes.
type Side int

const (
	Original Side = iota // Left pane
	Modified             // Right pane
)

// String returns "original" or "modified".
func (s Side) String() string {
	switch s {
	case Original:
		return "original"
	case Modified:
		return "modified"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Other returns the opposite pane.
func (s Side) Other() Side {
	if s == Original {
		return Modified
	}
	return Original
}

func (s Side) check() error {
	if s != Original && s != Modified {
		return fmt.Errorf("%w: %d", ErrInvalidSide, int(s))
	}
	return nil
}

// Pane is the authoritative state of one side.
type Pane struct {
	Content  string
	Language language.Mode
	Path     string // file the content was loaded from, if any
}
