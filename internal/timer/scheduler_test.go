package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeScheduler_AdvanceDeliversExactly(t *testing.T) {
	sched := &FakeScheduler{}

	count := 0
	sched.Schedule(time.Second, func() { count++ })
	sched.Advance(5)

	assert.Equal(t, 5, count)
}

func TestFakeScheduler_CancelStopsDelivery(t *testing.T) {
	sched := &FakeScheduler{}

	count := 0
	cancel := sched.Schedule(time.Second, func() { count++ })
	sched.Advance(2)
	cancel()
	sched.Advance(2)

	assert.Equal(t, 2, count)
	assert.False(t, sched.Active())
}

func TestFakeScheduler_CancelMidAdvance(t *testing.T) {
	sched := &FakeScheduler{}

	count := 0
	var cancel CancelFunc
	cancel = sched.Schedule(time.Second, func() {
		count++
		if count == 3 {
			cancel()
		}
	})
	sched.Advance(10)

	assert.Equal(t, 3, count, "a tick cancelling the schedule stops the advance")
}

func TestFakeScheduler_StaleCancelIgnored(t *testing.T) {
	sched := &FakeScheduler{}

	stale := sched.Schedule(time.Second, func() {})
	stale()

	count := 0
	sched.Schedule(time.Second, func() { count++ })
	stale() // belongs to the replaced schedule
	sched.Advance(1)

	assert.Equal(t, 1, count)
}

func TestTickerScheduler_DeliversAndCancels(t *testing.T) {
	sched := TickerScheduler{}

	ticks := make(chan struct{}, 16)
	cancel := sched.Schedule(time.Millisecond, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	select {
	case <-ticks:
	case <-time.After(time.Second):
		require.Fail(t, "no tick delivered within a second")
	}

	cancel()
	assert.NotPanics(t, func() { cancel() }, "cancel is idempotent")
}
