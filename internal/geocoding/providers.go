package geocoding

import (
	"context"
	"fmt"

	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/internal/geocoding/nominatim"
)

// Offline never resolves anything; only the gazetteer and cache answer.
type Offline struct{}

func (Offline) Name() string { return "offline" }

func (Offline) Geocode(context.Context, string) (geo.Position, error) {
	return geo.Position{}, ErrNoResults
}

// Nominatim resolves queries with the OpenStreetMap Nominatim API.
type Nominatim struct {
	Client       *nominatim.Client
	CountryCodes string
}

func (Nominatim) Name() string { return "nominatim" }

func (n Nominatim) Geocode(ctx context.Context, query string) (geo.Position, error) {
	results, err := n.Client.Search(ctx, query, nominatim.SearchOptions{
		CountryCodes: n.CountryCodes,
		Limit:        1,
	})
	if err != nil {
		return geo.Position{}, err
	}
	if len(results) == 0 {
		return geo.Position{}, ErrNoResults
	}

	lat, lon, err := results[0].Coordinates()
	if err != nil {
		return geo.Position{}, fmt.Errorf("nominatim result: %w", err)
	}
	return geo.Position{Latitude: lat, Longitude: lon}, nil
}
