package session

import "sync"

// Surface is an editing widget that displays one pane.
//
// SetContent replaces the displayed text. It is a programmatic write and
// must not be reported back to the session as a user edit.
type Surface interface {
	SetContent(text string)
}

// Guard remembers the last text exchanged with a surface. Editors call Sync
// after a programmatic write and Changed after every input event; only text
// that differs from the last exchange counts as a user edit.
type Guard struct {
	mu   sync.Mutex
	last string
}

// Sync records text as already known to the session.
func (g *Guard) Sync(text string) {
	g.mu.Lock()
	g.last = text
	g.mu.Unlock()
}

// Changed reports whether current differs from the last exchange and, if so,
// records it.
func (g *Guard) Changed(current string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if current == g.last {
		return false
	}
	g.last = current
	return true
}
