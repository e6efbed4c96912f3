package picker

import (
	"fmt"

	"github.com/colonyops/mappicker/internal/core/geo"
)

// Sidebar is what the sidebar shows: either Browsing or Detail.
type Sidebar interface {
	sidebar()
}

// Browsing shows the full point list and highlights no marker.
type Browsing struct{}

// Detail shows one point and highlights its marker.
type Detail struct {
	Point geo.MapPoint
}

func (Browsing) sidebar() {}
func (Detail) sidebar()   {}

// Icon is the marker glyph variant.
type Icon int

const (
	IconDefault Icon = iota
	IconHighlighted
)

// Marker pairs a point with the icon it renders with.
type Marker struct {
	Point geo.MapPoint
	Icon  Icon
}

// Selected returns the point shown in Detail, if any.
func (s State) Selected() (geo.MapPoint, bool) {
	if d, ok := s.Sidebar.(Detail); ok {
		return d.Point, true
	}
	return geo.MapPoint{}, false
}

// Markers returns one marker per current point; only the selected point's
// key renders highlighted.
func (s State) Markers() []Marker {
	selected, hasSelection := s.Selected()

	markers := make([]Marker, len(s.Points))
	for i, pt := range s.Points {
		icon := IconDefault
		if hasSelection && pt.Key == selected.Key {
			icon = IconHighlighted
		}
		markers[i] = Marker{Point: pt, Icon: icon}
	}
	return markers
}

// Markers is shorthand for State().Markers().
func (p *Picker) Markers() []Marker {
	return p.State().Markers()
}

// Select shows point in Detail and recenters the map on it at the current zoom.
// The point is trusted to come from the current list; SelectKey checks it.
func (p *Picker) Select(point geo.MapPoint) {
	p.mu.Lock()
	p.sidebar = Detail{Point: point}
	view, zoom := p.view, p.state.Zoom
	p.mu.Unlock()

	p.log.Debug().Str("key", point.Key).Msg("point selected")
	p.events.publish(SelectionChanged{Sidebar: Detail{Point: point}})

	if view != nil {
		view.SetCenter(point.Position(), zoom)
	}
}

// SelectKey selects the point with key from the current point list.
func (p *Picker) SelectKey(key string) error {
	p.mu.Lock()
	var (
		found geo.MapPoint
		ok    bool
	)
	for _, pt := range p.points {
		if pt.Key == key {
			found, ok = pt, true
			break
		}
	}
	p.mu.Unlock()

	if !ok {
		return fmt.Errorf("select %q: %w", key, ErrUnknownPoint)
	}
	p.Select(found)
	return nil
}

// Back returns to Browsing. The map is not moved.
func (p *Picker) Back() {
	p.mu.Lock()
	if _, ok := p.sidebar.(Detail); !ok {
		p.mu.Unlock()
		return
	}
	p.sidebar = Browsing{}
	p.mu.Unlock()

	p.events.publish(SelectionChanged{Sidebar: Browsing{}})
}

// Confirm hands the selected point to the host. The selection is kept; closing
// the picker is up to the host.
func (p *Picker) Confirm() error {
	p.mu.Lock()
	d, ok := p.sidebar.(Detail)
	p.mu.Unlock()

	if !ok {
		return ErrNoSelection
	}

	p.log.Info().Str("key", d.Point.Key).Msg("point confirmed")
	p.opts.OnPointConfirmed(d.Point)
	p.events.publish(Confirmed{Point: d.Point})
	return nil
}
