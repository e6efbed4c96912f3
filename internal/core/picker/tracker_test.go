package picker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/pkg/debounce/debouncetest"
)

// stallingMap is a MapView whose next Viewport call can be held after it has
// read the center, leaving a gap between the read and the picker's commit.
type stallingMap struct {
	mu     sync.Mutex
	center geo.Position
	subs   []func()
	hold   chan struct{}
	held   chan struct{}
}

func (m *stallingMap) Viewport() geo.ViewState {
	m.mu.Lock()
	center := m.center
	hold, held := m.hold, m.held
	m.hold = nil
	m.mu.Unlock()

	if hold != nil {
		close(held)
		<-hold
	}
	return geo.ViewState{Position: center, Zoom: geo.DefaultZoom}
}

func (m *stallingMap) SetCenter(center geo.Position, _ int) {
	m.mu.Lock()
	m.center = center
	subs := append([]func(){}, m.subs...)
	m.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

func (m *stallingMap) OnViewportChange(fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
	return func() {}
}

func (m *stallingMap) stallNextRead() (release func(), held <-chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hold = make(chan struct{})
	m.held = make(chan struct{})
	hold := m.hold
	return func() { close(hold) }, m.held
}

func TestViewportChange_OverlappingNotifications(t *testing.T) {
	clock := debouncetest.New()
	rec := &recorder{}

	p, err := New(Options{
		OnPointConfirmed: func(geo.MapPoint) {},
		Lookup:           rec,
		Geocoder:         rec,
		Clock:            clock,
		Logger:           &nopLogger,
	})
	require.NoError(t, err)
	t.Cleanup(p.Close)

	m := &stallingMap{center: geo.DefaultPosition}
	require.NoError(t, p.Mount(m))
	clock.Advance(0)

	// A move from another goroutine reads p1 and is held before committing.
	release, held := m.stallNextRead()
	done := make(chan struct{})
	go func() {
		m.SetCenter(p1, geo.DefaultZoom)
		close(done)
	}()
	<-held

	// A later move commits first.
	m.SetCenter(p2, geo.DefaultZoom)
	release()
	<-done

	assert.Equal(t, p2, p.State().View.Position, "older snapshot must not replace the newer one")

	clock.Advance(DefaultDebounceDelay)
	calls := rec.lookups()
	require.Len(t, calls, 2)
	assert.Equal(t, p2, calls[1].position)

	clock.Advance(time.Second)
	assert.Len(t, rec.lookups(), 2)
}
