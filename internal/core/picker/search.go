package picker

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/internal/core/logging"
)

// SetQuery stores the search input verbatim.
func (p *Picker) SetQuery(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = text
}

// Query returns the current search input.
func (p *Picker) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Submit geocodes the current query and moves the map to the result. An empty
// query does nothing. On failure the view is left where it was.
func (p *Picker) Submit(ctx context.Context) error {
	pos, err := p.Resolve(ctx)
	switch {
	case errors.Is(err, ErrEmptyQuery):
		return nil
	case err != nil:
		return err
	}

	p.MoveTo(pos)
	return nil
}

// Resolve geocodes the current query without moving the map. It sets or
// clears the not-found notice and publishes SearchResolved or SearchFailed.
// Hosts that geocode off the input goroutine call Resolve there and MoveTo
// back on the input goroutine.
func (p *Picker) Resolve(ctx context.Context) (geo.Position, error) {
	query := p.Query()
	if query == "" {
		return geo.Position{}, ErrEmptyQuery
	}

	ctx = logging.WithQuery(ctx, query)

	pos, err := p.opts.Geocoder.Geocode(ctx, query)
	if err == nil && !pos.Valid() {
		err = fmt.Errorf("geocoder returned out of range position %s", pos)
	}
	if err != nil {
		p.mu.Lock()
		p.notice = NoticeLocationNotFound
		p.mu.Unlock()

		p.log.Warn().Ctx(ctx).Err(err).Msg("location search failed")
		p.events.publish(SearchFailed{Query: query, Err: err})
		return geo.Position{}, fmt.Errorf("geocode %q: %w", query, err)
	}

	p.mu.Lock()
	p.notice = ""
	p.mu.Unlock()

	p.log.Debug().Ctx(ctx).Stringer("position", pos).Msg("location resolved")
	p.events.publish(SearchResolved{Query: query, Position: pos})

	return pos, nil
}

// MoveTo changes the position through the normal viewport path so the lookup
// is debounced like a pan. It calls the MapView and must run on the goroutine
// that drives user input.
func (p *Picker) MoveTo(pos geo.Position) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	view, zoom := p.view, p.state.Zoom
	if view != nil {
		p.mu.Unlock()
		view.SetCenter(pos, zoom)
		return
	}

	// Not mounted yet: there is no map to move, so track the position directly.
	p.state = geo.ViewState{Position: pos, Zoom: zoom}
	vs := p.state
	p.mu.Unlock()

	p.events.publish(ViewChanged{View: vs})
}
