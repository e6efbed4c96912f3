package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mappicker/internal/core/picker"
)

func TestEventBridge_DeliversInOrder(t *testing.T) {
	b := newEventBridge()
	defer b.close()

	for range 200 {
		b.push(picker.LookupFailed{})
	}
	b.push(picker.SelectionChanged{Sidebar: picker.Browsing{}})

	for range 200 {
		msg := b.waitForEvent()()
		require.IsType(t, pickerEventMsg{}, msg)
		assert.IsType(t, picker.LookupFailed{}, msg.(pickerEventMsg).event)
	}
	msg := b.waitForEvent()()
	assert.IsType(t, picker.SelectionChanged{}, msg.(pickerEventMsg).event)
}

func TestEventBridge_WakesWaiter(t *testing.T) {
	b := newEventBridge()
	defer b.close()

	got := make(chan any, 1)
	go func() { got <- b.waitForEvent()() }()

	time.Sleep(10 * time.Millisecond)
	b.push(picker.Confirmed{})

	select {
	case msg := <-got:
		assert.IsType(t, pickerEventMsg{}, msg)
	case <-time.After(time.Second):
		t.Fatal("waiter not woken")
	}
}

func TestEventBridge_CloseReleasesWaiter(t *testing.T) {
	b := newEventBridge()

	got := make(chan any, 1)
	go func() { got <- b.waitForEvent()() }()

	b.close()
	b.close()

	select {
	case msg := <-got:
		assert.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("waiter not released")
	}
}
