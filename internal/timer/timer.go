// Package timer implements the countdown engine: a mode/time state machine
// driven by an injectable one-second tick source, with a typed event bus
// for observers.
//
// The engine is a pure timer. It knows nothing about sessions or tasks;
// those semantics are layered on top by the coordinator, composed by the
// caller rather than wired in here.
//
// Thread-safety model: all mutations, tick handling, and event dispatch
// happen synchronously in one logical thread of control — whoever drives
// the engine (the scheduler goroutine in production, the test body under a
// FakeScheduler) is the single writer. The engine itself takes no locks.
//
// Invariants:
//   - TimeRemaining is never negative and never exceeds the configured
//     duration for the current mode.
//   - IsRunning is true only while a scheduled tick source is active.
//   - CurrentCycle increments only when a work-mode countdown reaches zero.
//   - State is mutated before any event is dispatched, so listeners always
//     observe post-mutation snapshots.
package timer

import (
	"time"

	"github.com/mossline/pomo/internal/config"
)

// State is the engine's externally observable snapshot. It is handed out
// by value everywhere, so callers and listeners can never reach the
// engine's internal state through it.
type State struct {
	Mode          Mode
	TimeRemaining int // seconds
	IsRunning     bool
	CurrentCycle  int
}

// Engine owns the countdown state machine.
//
// None of the public mutators return errors: invalid and no-op calls are
// silently absorbed. The single programming-error path is Subscribe with
// an unknown event kind, which panics.
type Engine struct {
	settings config.Settings
	sched    Scheduler
	cancel   CancelFunc
	state    State
	bus      *bus
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithScheduler replaces the default TickerScheduler. Tests pass a
// FakeScheduler to drive ticks deterministically.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		e.sched = s
	}
}

// New creates a paused engine in work mode with the full work duration
// remaining and a zero cycle count.
func New(settings config.Settings, opts ...Option) *Engine {
	e := &Engine{
		settings: settings,
		sched:    TickerScheduler{},
		bus:      newBus(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = State{
		Mode:          ModeWork,
		TimeRemaining: e.durationFor(ModeWork),
	}
	return e
}

// State returns the current snapshot.
func (e *Engine) State() State {
	return e.state
}

// Subscribe registers fn for the given event kind and returns a handle for
// Unsubscribe. Panics if kind is not a known event.
func (e *Engine) Subscribe(kind Event, fn Listener) Subscription {
	return e.bus.subscribe(kind, fn)
}

// Unsubscribe removes a registration. Unknown kinds and handles are
// silently ignored.
func (e *Engine) Unsubscribe(kind Event, sub Subscription) {
	e.bus.unsubscribe(kind, sub)
}

// Start begins the one-second tick and emits start. No-op while already
// running: no state change, no event.
func (e *Engine) Start() {
	if e.state.IsRunning {
		return
	}
	e.state.IsRunning = true
	e.cancel = e.sched.Schedule(time.Second, e.tick)
	e.bus.publish(EventStart, e.state)
}

// Pause stops the tick source and emits pause. No-op while not running.
func (e *Engine) Pause() {
	if !e.state.IsRunning {
		return
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.state.IsRunning = false
	e.bus.publish(EventPause, e.state)
}

// Reset pauses if running (emitting pause through that path), restores the
// current mode's full configured duration, and emits reset.
func (e *Engine) Reset() {
	e.Pause()
	e.state.TimeRemaining = e.durationFor(e.state.Mode)
	e.bus.publish(EventReset, e.state)
}

// SwitchMode pauses if running, switches to mode with its full configured
// duration, and emits mode_change. CurrentCycle is untouched. An unknown
// mode is silently absorbed.
func (e *Engine) SwitchMode(mode Mode) {
	if !mode.Valid() {
		return
	}
	e.Pause()
	e.state.Mode = mode
	e.state.TimeRemaining = e.durationFor(mode)
	e.bus.publish(EventModeChange, e.state)
}

// UpdateSettings replaces the duration configuration. While paused the
// current mode's remaining time is recomputed immediately and a tick is
// emitted so observers refresh; while running the new durations take
// effect at the next Reset or SwitchMode.
func (e *Engine) UpdateSettings(settings config.Settings) {
	e.settings = settings
	if !e.state.IsRunning {
		e.state.TimeRemaining = e.durationFor(e.state.Mode)
		e.bus.publish(EventTick, e.state)
	}
}

// tick is the per-second transition. Ticks delivered after cancellation
// (a scheduler may have one in flight) are absorbed by the running guard.
func (e *Engine) tick() {
	if !e.state.IsRunning {
		return
	}
	if e.state.TimeRemaining > 0 {
		e.state.TimeRemaining--
	}
	e.bus.publish(EventTick, e.state)

	if e.state.TimeRemaining > 0 {
		return
	}

	// Countdown finished. Pause goes through the same path as an explicit
	// Pause call, so consumers see pause strictly before complete and
	// IsRunning is already false when complete fires.
	e.Pause()
	if e.state.Mode == ModeWork {
		e.state.CurrentCycle++
	}
	e.bus.publish(EventComplete, e.state)
}

func (e *Engine) durationFor(mode Mode) int {
	switch mode {
	case ModeWork:
		return e.settings.WorkDuration * 60
	case ModeShortBreak:
		return e.settings.ShortBreakDuration * 60
	case ModeLongBreak:
		return e.settings.LongBreakDuration * 60
	}
	return 0
}
