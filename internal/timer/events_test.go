package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMode_Valid(t *testing.T) {
	assert.True(t, ModeWork.Valid())
	assert.True(t, ModeShortBreak.Valid())
	assert.True(t, ModeLongBreak.Valid())
	assert.False(t, Mode("nap").Valid())
	assert.False(t, Mode("").Valid())
}

func TestBus_DispatchInSubscriptionOrder(t *testing.T) {
	b := newBus()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		b.subscribe(EventTick, func(State) { order = append(order, i) })
	}

	b.publish(EventTick, State{})

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestBus_UnsubscribeMiddlePreservesOrder(t *testing.T) {
	b := newBus()

	var order []string
	b.subscribe(EventTick, func(State) { order = append(order, "a") })
	middle := b.subscribe(EventTick, func(State) { order = append(order, "b") })
	b.subscribe(EventTick, func(State) { order = append(order, "c") })

	b.unsubscribe(EventTick, middle)
	b.publish(EventTick, State{})

	assert.Equal(t, []string{"a", "c"}, order)
}

func TestBus_SelfUnsubscribeDuringDispatch(t *testing.T) {
	b := newBus()

	var order []string
	var self Subscription
	self = b.subscribe(EventTick, func(State) {
		order = append(order, "a")
		b.unsubscribe(EventTick, self)
	})
	b.subscribe(EventTick, func(State) { order = append(order, "b") })
	b.subscribe(EventTick, func(State) { order = append(order, "c") })

	b.publish(EventTick, State{})

	assert.Equal(t, []string{"a", "b", "c"}, order,
		"the in-flight dispatch still sees every original listener exactly once")

	order = nil
	b.publish(EventTick, State{})
	assert.Equal(t, []string{"b", "c"}, order, "removal takes effect on the next dispatch")
}

func TestBus_PeerUnsubscribeDuringDispatch(t *testing.T) {
	b := newBus()

	var order []string
	var last Subscription
	b.subscribe(EventTick, func(State) {
		order = append(order, "a")
		b.unsubscribe(EventTick, last)
	})
	b.subscribe(EventTick, func(State) { order = append(order, "b") })
	last = b.subscribe(EventTick, func(State) { order = append(order, "c") })

	b.publish(EventTick, State{})

	assert.Equal(t, []string{"a", "b", "c"}, order)

	order = nil
	b.publish(EventTick, State{})
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestBus_KindsAreIndependent(t *testing.T) {
	b := newBus()

	ticks, starts := 0, 0
	b.subscribe(EventTick, func(State) { ticks++ })
	b.subscribe(EventStart, func(State) { starts++ })

	b.publish(EventTick, State{})
	b.publish(EventTick, State{})
	b.publish(EventStart, State{})

	assert.Equal(t, 2, ticks)
	assert.Equal(t, 1, starts)
}
