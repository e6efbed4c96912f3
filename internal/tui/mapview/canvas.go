// Package mapview renders a slippy map on a terminal grid. Canvas tracks the
// viewport in web mercator coordinates and implements picker.MapView.
package mapview

import (
	"cmp"
	"math"
	"slices"
	"sync"

	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/internal/core/picker"
)

var _ picker.MapView = (*Canvas)(nil)

// Canvas is a terminal map viewport. It is safe for concurrent use; viewport
// change listeners run on the goroutine that moved the map, after the canvas
// lock is released.
type Canvas struct {
	mu            sync.Mutex
	center        geo.Position
	zoom          int
	width, height int // in cells

	nextID    int
	listeners map[int]func()
}

// New returns an unsized canvas centered on center.
func New(center geo.Position, zoom int) *Canvas {
	return &Canvas{
		center:    geo.Position{Latitude: clampLat(center.Latitude), Longitude: center.Longitude},
		zoom:      clampZoom(zoom),
		listeners: make(map[int]func()),
	}
}

// Viewport returns the center, visible bounds and zoom. Bounds are zero until
// SetSize has been called with a non-empty size.
func (c *Canvas) Viewport() geo.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return geo.ViewState{
		Position: c.center,
		Bounds:   c.boundsLocked(),
		Zoom:     c.zoom,
	}
}

// SetCenter moves the map and notifies listeners.
func (c *Canvas) SetCenter(center geo.Position, zoom int) {
	c.mu.Lock()
	c.center = geo.Position{Latitude: clampLat(center.Latitude), Longitude: center.Longitude}
	c.zoom = clampZoom(zoom)
	c.mu.Unlock()

	c.notify()
}

// OnViewportChange registers fn for every pan, zoom or resize.
func (c *Canvas) OnViewportChange(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// SetSize sets the drawable area in cells. Listeners are notified when an
// already sized canvas changes size, since the visible bounds change with it.
func (c *Canvas) SetSize(width, height int) {
	width, height = max(width, 0), max(height, 0)

	c.mu.Lock()
	changed := width != c.width || height != c.height
	wasSized := c.width > 0 && c.height > 0
	c.width, c.height = width, height
	c.mu.Unlock()

	if changed && wasSized {
		c.notify()
	}
}

// Size returns the drawable area in cells.
func (c *Canvas) Size() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Pan moves the center by the given number of cells. Positive dx moves east,
// positive dy moves south.
func (c *Canvas) Pan(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}

	c.mu.Lock()
	x, y := project(c.center, c.zoom)
	w := worldSize(c.zoom)
	y = math.Max(0, math.Min(w, y+float64(dy)*cellHeightPx))
	c.center = unproject(x+float64(dx)*cellWidthPx, y, c.zoom)
	c.mu.Unlock()

	c.notify()
}

// ZoomBy changes the zoom level by delta, clamped to [MinZoom, MaxZoom].
// It reports whether the zoom changed.
func (c *Canvas) ZoomBy(delta int) bool {
	c.mu.Lock()
	z := clampZoom(c.zoom + delta)
	if z == c.zoom {
		c.mu.Unlock()
		return false
	}
	c.zoom = z
	c.mu.Unlock()

	c.notify()
	return true
}

func (c *Canvas) notify() {
	c.mu.Lock()
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.listeners[id])
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// origin returns the world pixel of the top-left corner of the canvas.
func (c *Canvas) originLocked() (left, top float64) {
	x, y := project(c.center, c.zoom)
	return x - float64(c.width)*cellWidthPx/2, y - float64(c.height)*cellHeightPx/2
}

// boundsLocked returns the visible rectangle, clamped to the world edges
// rather than wrapped across the antimeridian.
func (c *Canvas) boundsLocked() geo.Bounds {
	if c.width == 0 || c.height == 0 {
		return geo.Bounds{}
	}

	w := worldSize(c.zoom)
	left, top := c.originLocked()
	right := left + float64(c.width)*cellWidthPx
	bottom := top + float64(c.height)*cellHeightPx

	lon := func(x float64) float64 {
		return math.Max(-180, math.Min(180, x/w*360-180))
	}
	lat := func(y float64) float64 {
		return unproject(0, math.Max(0, math.Min(w, y)), c.zoom).Latitude
	}

	return geo.Bounds{
		NorthEast: geo.Position{Latitude: lat(top), Longitude: lon(right)},
		SouthWest: geo.Position{Latitude: lat(bottom), Longitude: lon(left)},
	}
}

// Cell is a canvas grid coordinate.
type Cell struct {
	Col, Row int
}

// Project returns the cell p falls in, and false when p is off screen.
func (c *Canvas) Project(p geo.Position) (Cell, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectLocked(p)
}

func (c *Canvas) projectLocked(p geo.Position) (Cell, bool) {
	if c.width == 0 || c.height == 0 {
		return Cell{}, false
	}

	left, top := c.originLocked()
	x, y := project(p, c.zoom)

	// Bring the point onto the same world copy as the viewport.
	w := worldSize(c.zoom)
	cx, _ := project(c.center, c.zoom)
	switch {
	case x-cx > w/2:
		x -= w
	case cx-x > w/2:
		x += w
	}

	cell := Cell{
		Col: int(math.Floor((x - left) / cellWidthPx)),
		Row: int(math.Floor((y - top) / cellHeightPx)),
	}
	if cell.Col < 0 || cell.Col >= c.width || cell.Row < 0 || cell.Row >= c.height {
		return Cell{}, false
	}
	return cell, true
}

// Placed is a marker with the cell it is drawn in.
type Placed struct {
	picker.Marker
	Cell Cell
}

// Place returns the markers that fall inside the canvas, ordered top to bottom
// then left to right, with ties broken by key.
func (c *Canvas) Place(markers []picker.Marker) []Placed {
	c.mu.Lock()
	defer c.mu.Unlock()

	placed := make([]Placed, 0, len(markers))
	for _, m := range markers {
		if cell, ok := c.projectLocked(m.Point.Position()); ok {
			placed = append(placed, Placed{Marker: m, Cell: cell})
		}
	}

	slices.SortFunc(placed, func(a, b Placed) int {
		return cmp.Or(
			cmp.Compare(a.Cell.Row, b.Cell.Row),
			cmp.Compare(a.Cell.Col, b.Cell.Col),
			cmp.Compare(a.Point.Key, b.Point.Key),
		)
	})
	return placed
}
