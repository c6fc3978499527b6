package timer

import "log/slog"

// Mode identifies which interval the engine is counting down.
type Mode string

const (
	ModeWork       Mode = "work"
	ModeShortBreak Mode = "short_break"
	ModeLongBreak  Mode = "long_break"
)

// Valid reports whether m is one of the three known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeWork, ModeShortBreak, ModeLongBreak:
		return true
	}
	return false
}

// Event identifies an engine notification kind.
//
// The set is closed: Subscribe panics on anything outside it, so a typo in
// an event name fails at registration time rather than producing a listener
// that never fires.
type Event string

const (
	EventTick       Event = "tick"
	EventStart      Event = "start"
	EventPause      Event = "pause"
	EventReset      Event = "reset"
	EventModeChange Event = "mode_change"
	EventComplete   Event = "complete"
)

var eventKinds = map[Event]bool{
	EventTick:       true,
	EventStart:      true,
	EventPause:      true,
	EventReset:      true,
	EventModeChange: true,
	EventComplete:   true,
}

// Listener receives the engine's post-mutation state snapshot.
// The snapshot is a value copy; mutating it never affects the engine.
type Listener func(State)

// Subscription is an opaque handle returned by Subscribe and accepted by
// Unsubscribe. Go functions are not comparable, so deregistration goes
// through the handle instead of the callback itself.
type Subscription int

type listenerEntry struct {
	id Subscription
	fn Listener
}

// bus is the engine's per-kind subscriber registry with synchronous,
// subscription-ordered fan-out.
type bus struct {
	nextID    Subscription
	listeners map[Event][]listenerEntry
}

func newBus() *bus {
	return &bus{listeners: make(map[Event][]listenerEntry)}
}

func (b *bus) subscribe(kind Event, fn Listener) Subscription {
	if !eventKinds[kind] {
		panic("timer: subscribe to unknown event kind " + string(kind))
	}
	b.nextID++
	b.listeners[kind] = append(b.listeners[kind], listenerEntry{id: b.nextID, fn: fn})
	return b.nextID
}

// unsubscribe removes a registration. Unknown kinds and handles are
// silently ignored.
//
// The pruned slice is a fresh allocation, never an in-place shift: a
// listener may unsubscribe itself (or a peer) while publish is still
// ranging over the old slice, and that in-flight dispatch must keep
// seeing every original listener exactly once.
func (b *bus) unsubscribe(kind Event, sub Subscription) {
	entries := b.listeners[kind]
	for i, entry := range entries {
		if entry.id == sub {
			pruned := make([]listenerEntry, 0, len(entries)-1)
			pruned = append(pruned, entries[:i]...)
			pruned = append(pruned, entries[i+1:]...)
			b.listeners[kind] = pruned
			return
		}
	}
}

// publish fans out snap to kind's listeners in subscription order.
// A panicking listener is logged and skipped; the remaining listeners
// still run and the engine's state is untouched.
func (b *bus) publish(kind Event, snap State) {
	for _, entry := range b.listeners[kind] {
		safeCall(kind, entry.fn, snap)
	}
}

func safeCall(kind Event, fn Listener, snap State) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("timer: listener panicked", "event", kind, "panic", r)
		}
	}()
	fn(snap)
}
