package picker

import (
	"context"

	"github.com/colonyops/mappicker/internal/core/geo"
)

// MapView is the narrow handle the picker holds on the rendered map.
// Viewport is read on whichever goroutine delivers the change notification.
// SetCenter is only called from Select, SelectKey, MoveTo and Submit, so a
// host that makes those calls on its input goroutine never moves the map
// from two goroutines at once.
type MapView interface {
	// Viewport returns the current center, visible rectangle and zoom.
	// Bounds are zero when the map has no size yet.
	Viewport() geo.ViewState
	// SetCenter moves the map and must notify viewport-change subscribers.
	SetCenter(center geo.Position, zoom int)
	// OnViewportChange registers fn for every pan or zoom. The returned
	// function removes the subscription.
	OnViewportChange(fn func()) (unsubscribe func())
}

// PointLookup finds the points to show for a viewport. bounds is zero when
// the viewport size is not known yet. It may be called repeatedly and rapidly.
type PointLookup interface {
	LookupPoints(ctx context.Context, position geo.Position, bounds geo.Bounds) ([]geo.MapPoint, error)
}

// Geocoder resolves free-text search input to a position.
type Geocoder interface {
	Geocode(ctx context.Context, text string) (geo.Position, error)
}

// LookupFunc adapts a function to PointLookup.
type LookupFunc func(ctx context.Context, position geo.Position, bounds geo.Bounds) ([]geo.MapPoint, error)

func (f LookupFunc) LookupPoints(ctx context.Context, position geo.Position, bounds geo.Bounds) ([]geo.MapPoint, error) {
	return f(ctx, position, bounds)
}

// GeocodeFunc adapts a function to Geocoder.
type GeocodeFunc func(ctx context.Context, text string) (geo.Position, error)

func (f GeocodeFunc) Geocode(ctx context.Context, text string) (geo.Position, error) {
	return f(ctx, text)
}
