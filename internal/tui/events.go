package tui

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/mappicker/internal/core/picker"
)

// pickerEventMsg carries a picker event into the Bubble Tea loop.
type pickerEventMsg struct {
	event picker.Event
}

// eventBridge queues picker events, which may be published from timer
// goroutines or from Update itself, for delivery by waitForEvent. push never
// blocks, so a publisher can not stall the loop that drains the queue.
type eventBridge struct {
	mu        sync.Mutex
	queue     []picker.Event
	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newEventBridge() *eventBridge {
	return &eventBridge{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (b *eventBridge) push(e picker.Event) {
	b.mu.Lock()
	b.queue = append(b.queue, e)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *eventBridge) pop() (picker.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return nil, false
	}
	e := b.queue[0]
	b.queue = b.queue[1:]
	return e, true
}

func (b *eventBridge) close() {
	b.closeOnce.Do(func() { close(b.done) })
}

// waitForEvent returns a command that delivers the next picker event. The
// model re-issues it after every delivered event.
func (b *eventBridge) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		for {
			if e, ok := b.pop(); ok {
				return pickerEventMsg{event: e}
			}
			select {
			case <-b.wake:
			case <-b.done:
				return nil
			}
		}
	}
}
