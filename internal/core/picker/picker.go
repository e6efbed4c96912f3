// Package picker implements the interaction logic of the map point picker:
// viewport tracking, debounced point lookups, selection and location search.
// It owns no rendering; a host drives it through a MapView and renders from
// State and Markers.
package picker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/internal/core/logging"
	"github.com/colonyops/mappicker/pkg/debounce"
)

// DefaultDebounceDelay is the quiet period before a lookup fires after the
// viewport moves.
const DefaultDebounceDelay = 500 * time.Millisecond

// DefaultTheme is the visual theme used when none is configured.
const DefaultTheme = "tokyo-night"

var (
	// ErrNoSelection is returned by Confirm while no point is selected.
	ErrNoSelection = errors.New("no point selected")
	// ErrUnknownPoint is returned by SelectKey for a key not in the point list.
	ErrUnknownPoint = errors.New("unknown point")
	// ErrAlreadyMounted is returned by a second Mount call.
	ErrAlreadyMounted = errors.New("picker already mounted")
	// ErrClosed is returned by Mount after Close.
	ErrClosed = errors.New("picker closed")
	// ErrEmptyQuery is returned by Resolve when there is nothing to search.
	ErrEmptyQuery = errors.New("empty search query")
)

// Notices shown in place of results when a collaborator fails.
const (
	NoticeLookupFailed     = "Could not load points for this area"
	NoticeLocationNotFound = "Location not found"
)

// Options configures a Picker. OnPointConfirmed, Lookup and Geocoder are required.
// A nil InitialPosition or InitialZoom selects the default, so (0, 0) and zoom
// 0 remain valid choices.
type Options struct {
	InitialPosition  *geo.Position
	InitialZoom      *int
	Theme            string // cosmetic, applied by the host renderer
	DebounceDelay    time.Duration
	OnPointConfirmed func(geo.MapPoint)
	Lookup           PointLookup
	Geocoder         Geocoder
	Clock            debounce.Clock
	Logger           *zerolog.Logger
}

func (o *Options) applyDefaults() {
	if o.InitialPosition == nil {
		pos := geo.DefaultPosition
		o.InitialPosition = &pos
	}
	if o.InitialZoom == nil {
		zoom := geo.DefaultZoom
		o.InitialZoom = &zoom
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.DebounceDelay == 0 {
		o.DebounceDelay = DefaultDebounceDelay
	}
	if o.Clock == nil {
		o.Clock = debounce.RealClock{}
	}
}

func (o Options) validate() error {
	switch {
	case o.OnPointConfirmed == nil:
		return errors.New("OnPointConfirmed is required")
	case o.Lookup == nil:
		return errors.New("Lookup is required")
	case o.Geocoder == nil:
		return errors.New("Geocoder is required")
	case !o.InitialPosition.Valid():
		return fmt.Errorf("initial position %s is out of range", *o.InitialPosition)
	case *o.InitialZoom < 0:
		return fmt.Errorf("initial zoom must not be negative, got %d", *o.InitialZoom)
	case o.DebounceDelay < 0:
		return fmt.Errorf("debounce delay must not be negative, got %s", o.DebounceDelay)
	}
	return nil
}

// State is a consistent snapshot of everything the host renders.
type State struct {
	View    geo.ViewState
	Points  []geo.MapPoint
	Sidebar Sidebar
	Query   string
	Notice  string
	Loading bool
}

// Picker coordinates the map, the point list and the selection.
type Picker struct {
	opts     Options
	log      zerolog.Logger
	debounce *debounce.Debouncer
	events   bus

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	view        MapView
	unsubscribe func()
	mounted     bool
	closed      bool
	fetchedOnce bool   // first schedule after mount fires without delay
	generation  uint64 // identifies the latest scheduled lookup
	viewSeq     uint64 // last viewport notification handed out
	viewApplied uint64 // newest viewport notification committed to state
	state       geo.ViewState
	points      []geo.MapPoint
	sidebar     Sidebar
	query       string
	notice      string
	loading     bool
}

// New validates opts and returns an unmounted Picker.
func New(opts Options) (*Picker, error) {
	opts.applyDefaults()
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("picker options: %w", err)
	}

	logger := logging.Component("picker")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Picker{
		opts:     opts,
		log:      logger,
		debounce: debounce.New(opts.Clock),
		ctx:      ctx,
		cancel:   cancel,
		sidebar:  Browsing{},
		state: geo.ViewState{
			Position: *opts.InitialPosition,
			Zoom:     *opts.InitialZoom,
		},
	}, nil
}

// Options returns the options the picker was built with, defaults applied.
func (p *Picker) Options() Options {
	return p.opts
}

// Mount attaches the picker to a map for the lifetime of the component and
// schedules the first lookup with no delay.
func (p *Picker) Mount(view MapView) error {
	p.mu.Lock()
	switch {
	case p.closed:
		p.mu.Unlock()
		return ErrClosed
	case p.mounted:
		p.mu.Unlock()
		return ErrAlreadyMounted
	}
	p.mounted = true
	p.view = view
	p.state = geo.ViewState{
		Position: *p.opts.InitialPosition,
		Bounds:   view.Viewport().Bounds,
		Zoom:     *p.opts.InitialZoom,
	}
	p.scheduleFetchLocked()
	p.mu.Unlock()

	unsubscribe := view.OnViewportChange(p.handleViewportChange)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		unsubscribe()
		return nil
	}
	p.unsubscribe = unsubscribe
	p.mu.Unlock()

	p.log.Debug().
		Stringer("position", *p.opts.InitialPosition).
		Int("zoom", *p.opts.InitialZoom).
		Msg("picker mounted")

	return nil
}

// Close unsubscribes from the map, cancels any pending lookup and discards
// results of lookups still in flight. It is safe to call more than once.
func (p *Picker) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.generation++
	p.loading = false
	unsubscribe := p.unsubscribe
	p.unsubscribe = nil
	p.mu.Unlock()

	p.debounce.Cancel()
	p.cancel()
	if unsubscribe != nil {
		unsubscribe()
	}

	p.log.Debug().Msg("picker closed")
}

// Subscribe registers fn for every Event. Events are delivered on the
// goroutine that caused them, which may be a timer goroutine.
func (p *Picker) Subscribe(fn func(Event)) (unsubscribe func()) {
	return p.events.subscribe(fn)
}

// State returns a snapshot of the picker state.
func (p *Picker) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return State{
		View:    p.state,
		Points:  slices.Clone(p.points),
		Sidebar: p.sidebar,
		Query:   p.query,
		Notice:  p.notice,
		Loading: p.loading,
	}
}
