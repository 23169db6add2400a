// Package session owns the two panes of a comparison and decides when the
// diff pipeline runs.
//
// Content flows in two one-directional channels. User edits arrive through
// SetContent; programmatic changes (swap, clear, load) are pushed out to the
// attached Surface, which must not echo them back. Results are published on
// a pubsub broker and carry a submission number so that a result computed
// from older input never replaces a newer one.
package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/splitdiff/internal/diff"
	"github.com/zjrosen/splitdiff/internal/language"
	"github.com/zjrosen/splitdiff/internal/log"
	"github.com/zjrosen/splitdiff/internal/pubsub"
	"github.com/zjrosen/splitdiff/internal/scheduler"
	"github.com/zjrosen/splitdiff/internal/tracing"
)

// Options configures a Session.
type Options struct {
	// Live recomputes after every edit once the debounce elapses. When false
	// the pipeline only runs on Compare.
	Live     bool
	Debounce time.Duration
	Clock    scheduler.Clock
	Engine   *diff.Engine
	Tracer   trace.Tracer

	// Deferred makes the debounce timer publish EventDue instead of
	// computing on the timer goroutine. The subscriber then calls
	// RecomputeDue from its own loop.
	Deferred bool
}

// Session is the state holder for one two-pane comparison.
type Session struct {
	id       string
	engine   *diff.Engine
	sched    *scheduler.Scheduler
	broker   *pubsub.Broker[Event]
	tracer   trace.Tracer
	deferred bool

	mu        sync.Mutex
	live      bool
	panes     [2]Pane
	surfaces  [2]Surface
	result    diff.Result
	hasResult bool
	submitted uint64 // last submission number handed out
	applied   uint64 // submissions at or below this are stale
}

// New creates an empty session with both panes in plain text mode.
func New(opts Options) *Session {
	s := &Session{
		id:       uuid.NewString(),
		engine:   opts.Engine,
		broker:   pubsub.NewBroker[Event](),
		tracer:   opts.Tracer,
		deferred: opts.Deferred,
		live:     opts.Live,
	}
	if s.engine == nil {
		s.engine = diff.NewEngine()
	}
	if s.tracer == nil {
		s.tracer = noop.NewTracerProvider().Tracer(tracing.DefaultServiceName)
	}
	for i := range s.panes {
		s.panes[i].Language = language.Text
	}

	var schedOpts []scheduler.Option
	if opts.Clock != nil {
		schedOpts = append(schedOpts, scheduler.WithClock(opts.Clock))
	}
	s.sched = scheduler.NewStamped(s.onDebounce, opts.Debounce, schedOpts...)

	log.Debug(log.CatSession, "created", "id", s.id, "live", opts.Live, "debounce", s.sched.Debounce())
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Subscribe returns a channel of session events until ctx is cancelled.
func (s *Session) Subscribe(ctx context.Context) <-chan pubsub.Event[Event] {
	return s.broker.Subscribe(ctx)
}

// Broker exposes the event broker for pubsub.NewContinuousListener.
func (s *Session) Broker() *pubsub.Broker[Event] { return s.broker }

// Close cancels any pending recompute and closes the event broker.
func (s *Session) Close() {
	s.sched.Cancel()
	s.broker.Close()
}

// Attach connects an editing surface to a pane and pushes the pane's
// current content into it.
func (s *Session) Attach(side Side, surface Surface) error {
	if err := side.check(); err != nil {
		return err
	}
	s.mu.Lock()
	s.surfaces[side] = surface
	content := s.panes[side].Content
	s.mu.Unlock()

	if surface != nil {
		surface.SetContent(content)
	}
	return nil
}

// Pane returns a copy of one pane's state.
func (s *Session) Pane(side Side) (Pane, error) {
	if err := side.check(); err != nil {
		return Pane{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panes[side], nil
}

// Live reports whether edits schedule recomputation.
func (s *Session) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// SetLive switches between live and manual mode. Entering live mode
// schedules a recompute; leaving it drops a pending one.
func (s *Session) SetLive(live bool) {
	s.mu.Lock()
	changed := s.live != live
	s.live = live
	s.mu.Unlock()

	if !changed {
		return
	}
	log.Debug(log.CatSession, "mode changed", "id", s.id, "live", live)
	if live {
		s.schedule()
	} else {
		s.sched.Cancel()
	}
}

// Pending reports whether a debounced recompute is armed.
func (s *Session) Pending() bool { return s.sched.Pending() }

// Result returns the last published result. ok is false when nothing has
// been computed since the session started or was cleared.
func (s *Session) Result() (result diff.Result, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.hasResult
}

// SetContent records a user edit from the surface attached to side.
// Unchanged text is ignored.
func (s *Session) SetContent(side Side, text string) error {
	if err := side.check(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.panes[side].Content == text {
		s.mu.Unlock()
		return nil
	}
	s.panes[side].Content = text
	live := s.live
	s.mu.Unlock()

	log.Debug(log.CatSession, "edit", "id", s.id, "side", side, "bytes", len(text))
	if live {
		s.schedule()
	}
	return nil
}

// SetLanguage changes a pane's syntax mode. Languages do not affect the
// diff, so nothing is recomputed.
func (s *Session) SetLanguage(side Side, mode language.Mode) error {
	if err := side.check(); err != nil {
		return err
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", language.ErrUnknownMode, mode)
	}
	s.mu.Lock()
	s.panes[side].Language = mode
	s.mu.Unlock()

	s.broker.Publish(pubsub.UpdatedEvent, Event{Kind: EventPane, Side: side})
	return nil
}

// Replace sets a pane's content programmatically: the surface is updated
// without an echo and the change is treated as new input.
func (s *Session) Replace(side Side, text string) error {
	if err := side.check(); err != nil {
		return err
	}
	s.mu.Lock()
	s.panes[side].Content = text
	surface := s.surfaces[side]
	live := s.live
	s.mu.Unlock()

	s.push(surface, text)
	s.broker.Publish(pubsub.UpdatedEvent, Event{Kind: EventPane, Side: side})
	if live {
		s.schedule()
	}
	return nil
}

// Load reads path into a pane. The pane's language follows the file
// extension when it maps to a known mode.
func (s *Session) Load(side Side, path string) error {
	if err := side.check(); err != nil {
		return err
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path chosen by the user
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	s.mu.Lock()
	s.panes[side].Path = path
	if mode := language.Detect(path); mode != language.Text {
		s.panes[side].Language = mode
	}
	s.mu.Unlock()

	log.Info(log.CatSession, "loaded file", "id", s.id, "side", side, "path", path, "bytes", len(data))
	return s.Replace(side, string(data))
}

// Swap exchanges content and language between the panes. In live mode the
// swapped panes are new input like any edit; in manual mode a visible
// result is recomputed immediately.
func (s *Session) Swap() {
	s.mu.Lock()
	s.panes[Original], s.panes[Modified] = s.panes[Modified], s.panes[Original]
	surfaces := s.surfaces
	contents := [2]string{s.panes[Original].Content, s.panes[Modified].Content}
	live := s.live
	hadResult := s.hasResult
	s.mu.Unlock()

	s.push(surfaces[Original], contents[Original])
	s.push(surfaces[Modified], contents[Modified])
	s.broker.Publish(pubsub.UpdatedEvent, Event{Kind: EventPane, Side: Original})
	s.broker.Publish(pubsub.UpdatedEvent, Event{Kind: EventPane, Side: Modified})

	log.Debug(log.CatSession, "swapped", "id", s.id, "live", live)
	switch {
	case live:
		s.schedule()
	case hadResult:
		s.Recompute(context.Background())
	}
}

// Clear empties both panes, cancels any pending recompute and discards the
// result. Results from submissions made before Clear are dropped.
func (s *Session) Clear() {
	s.sched.Cancel()

	s.mu.Lock()
	for i := range s.panes {
		s.panes[i].Content = ""
		s.panes[i].Path = ""
	}
	s.result = diff.Result{}
	s.hasResult = false
	s.applied = s.submitted
	surfaces := s.surfaces
	s.mu.Unlock()

	s.push(surfaces[Original], "")
	s.push(surfaces[Modified], "")
	s.broker.Publish(pubsub.DeletedEvent, Event{Kind: EventCleared})
	log.Debug(log.CatSession, "cleared", "id", s.id)
}

// Compare runs the pipeline now, superseding any pending recompute.
func (s *Session) Compare(ctx context.Context) diff.Result {
	s.sched.Cancel()
	return s.Recompute(ctx)
}

// Recompute snapshots both panes, runs the pipeline and publishes the
// result unless a later submission was published first.
func (s *Session) Recompute(ctx context.Context) diff.Result {
	seq, original, modified := s.submit()
	ctx, span := s.tracer.Start(ctx, tracing.SpanRecompute, trace.WithAttributes(
		attribute.String(tracing.AttrSessionID, s.id),
		attribute.Int64(tracing.AttrSeq, int64(seq)), //nolint:gosec // G115: submission counter
	))
	defer span.End()

	result := s.engine.Compute(ctx, original, modified)
	span.SetAttributes(attribute.Bool(tracing.AttrStale, !s.publish(seq, result)))
	return result
}

// RecomputeDue handles an EventDue in deferred mode. It recomputes only
// when gen is still current: an edit, Compare or Clear after the timer
// fired makes the event stale and it is ignored.
func (s *Session) RecomputeDue(ctx context.Context, gen uint64) (diff.Result, bool) {
	if !s.sched.Current(gen) {
		log.Debug(log.CatSession, "dropped stale due", "id", s.id, "gen", gen)
		return diff.Result{}, false
	}
	return s.Recompute(ctx), true
}

// Flush runs a pending debounced recompute immediately. It reports whether
// one was pending.
func (s *Session) Flush() bool { return s.sched.Flush() }

func (s *Session) submit() (seq uint64, original, modified string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted++
	return s.submitted, s.panes[Original].Content, s.panes[Modified].Content
}

// publish stores result if seq is newer than anything applied so far.
func (s *Session) publish(seq uint64, result diff.Result) bool {
	s.mu.Lock()
	if seq <= s.applied {
		s.mu.Unlock()
		log.Debug(log.CatSession, "dropped stale result", "id", s.id, "seq", seq)
		return false
	}
	s.applied = seq
	s.result = result
	s.hasResult = true
	s.mu.Unlock()

	s.broker.Publish(pubsub.UpdatedEvent, Event{Kind: EventResult, Result: result, Seq: seq})
	return true
}

func (s *Session) schedule() {
	s.sched.Trigger()
	s.broker.Publish(pubsub.UpdatedEvent, Event{Kind: EventPending})
}

func (s *Session) onDebounce(gen uint64) {
	if s.deferred {
		s.broker.Publish(pubsub.UpdatedEvent, Event{Kind: EventDue, Gen: gen})
		return
	}
	s.Recompute(context.Background())
}

func (s *Session) push(surface Surface, text string) {
	if surface != nil {
		surface.SetContent(text)
	}
}
