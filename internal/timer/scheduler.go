package timer

import (
	"sync"
	"time"
)

// CancelFunc stops a scheduled tick callback. Safe to call more than once.
type CancelFunc func()

// Scheduler is the engine's injectable tick source.
//
// Schedule invokes fn once per interval until the returned CancelFunc is
// called. Implemented by TickerScheduler (production) and FakeScheduler
// (tests). The engine guards every tick with its running flag, so an
// implementation may deliver one tick that was already in flight when
// cancel was called.
type Scheduler interface {
	Schedule(interval time.Duration, fn func()) CancelFunc
}

// TickerScheduler drives ticks from a time.Ticker goroutine. fn runs on
// that goroutine: a caller that also drives the engine from its own
// goroutine must relay ticks onto it instead (the way the start command
// does) to keep the engine single-writer.
type TickerScheduler struct{}

// Schedule starts a goroutine invoking fn on every ticker fire.
// The returned CancelFunc closes the goroutine's quit channel and is
// idempotent.
func (TickerScheduler) Schedule(interval time.Duration, fn func()) CancelFunc {
	ticker := time.NewTicker(interval)
	quit := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				// A tick may already be queued when cancel runs; re-check
				// quit so a cancelled schedule does not fire again.
				select {
				case <-quit:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
	}
}

// FakeScheduler delivers ticks deterministically for tests: Advance(n)
// invokes the scheduled callback exactly n times inline, with no real time
// elapsing.
//
// Not safe for concurrent use; tests drive it from a single goroutine, the
// same discipline the engine itself requires.
type FakeScheduler struct {
	fn  func()
	gen int
}

// Schedule records fn as the active callback.
func (s *FakeScheduler) Schedule(interval time.Duration, fn func()) CancelFunc {
	s.gen++
	gen := s.gen
	s.fn = fn
	return func() {
		// A stale cancel (from a schedule that was since replaced) is a no-op.
		if s.gen == gen {
			s.fn = nil
		}
	}
}

// Advance delivers up to n ticks. Delivery stops early if a tick cancels
// the schedule, e.g. when a countdown reaches zero and the engine pauses.
func (s *FakeScheduler) Advance(n int) {
	for i := 0; i < n && s.fn != nil; i++ {
		s.fn()
	}
}

// Active reports whether a callback is currently scheduled.
func (s *FakeScheduler) Active() bool {
	return s.fn != nil
}
