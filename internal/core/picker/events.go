package picker

import (
	"slices"
	"sync"

	"github.com/colonyops/mappicker/internal/core/geo"
)

// Event is published after the picker commits a state change.
type Event interface {
	event()
}

// ViewChanged is published when the tracked viewport changes.
type ViewChanged struct {
	View geo.ViewState
}

// PointsUpdated is published when a lookup result replaces the point list.
type PointsUpdated struct {
	Points []geo.MapPoint
}

// LookupFailed is published when the point lookup returns an error.
// The previous point list is kept.
type LookupFailed struct {
	Err error
}

// SelectionChanged is published on every Browsing/Detail transition.
type SelectionChanged struct {
	Sidebar Sidebar
}

// SearchResolved is published when the geocoder returns a position.
type SearchResolved struct {
	Query    string
	Position geo.Position
}

// SearchFailed is published when the geocoder returns an error.
type SearchFailed struct {
	Query string
	Err   error
}

// Confirmed is published after the host callback has run.
type Confirmed struct {
	Point geo.MapPoint
}

func (ViewChanged) event()      {}
func (PointsUpdated) event()    {}
func (LookupFailed) event()     {}
func (SelectionChanged) event() {}
func (SearchResolved) event()   {}
func (SearchFailed) event()     {}
func (Confirmed) event()        {}

// bus dispatches events to subscribers inline, on the publishing goroutine.
type bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

func (b *bus) subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[int]func(Event))
	}
	b.nextID++
	id := b.nextID
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *bus) publish(e Event) {
	b.mu.Lock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	subs := make([]func(Event), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		subs = append(subs, b.subs[id])
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}
