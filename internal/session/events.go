package session

import "github.com/zjrosen/splitdiff/internal/diff"

// EventKind classifies a session event.
type EventKind int

const (
	EventResult  EventKind = iota // A new result was published
	EventPending                  // The scheduler was armed
	EventDue                      // Deferred mode: the debounce expired, call RecomputeDue
	EventPane                     // A pane changed programmatically (swap, load, language)
	EventCleared                  // Both panes were cleared and the result discarded
)

var eventKindNames = [...]string{"result", "pending", "due", "pane", "cleared"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// Event is the payload published on the session broker.
type Event struct {
	Kind   EventKind
	Side   Side        // EventPane only
	Result diff.Result // EventResult only
	Seq    uint64      // submission number of the result
	Gen    uint64      // EventDue only: scheduler generation, for RecomputeDue
}
