package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/colonyops/mappicker/internal/core/config"
	"github.com/colonyops/mappicker/internal/core/logging"
	"github.com/colonyops/mappicker/internal/data/db"
	"github.com/colonyops/mappicker/internal/data/stores"
	"github.com/colonyops/mappicker/internal/geocoding"
	"github.com/colonyops/mappicker/internal/geocoding/nominatim"
	"github.com/colonyops/mappicker/internal/store/jsonfile"
)

// App holds the collaborators shared by all commands. It is populated in the
// root Before hook; commands keep a pointer to it from registration time.
type App struct {
	Config   *config.Config
	DB       *db.DB
	Points   *stores.PointStore
	Cache    *stores.GeocodeCache
	Geocoder *geocoding.Service
	History  *jsonfile.HistoryStore
}

// Open opens the database and wires the stores and the geocoder for cfg.
func (a *App) Open(ctx context.Context, cfg *config.Config) error {
	database, err := db.Open(cfg.DatabaseFile(), db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	points := stores.NewPointStore(database, stores.PointStoreOptions{
		RadiusMeters: cfg.Lookup.RadiusMeters,
		Limit:        cfg.Lookup.Limit,
	})
	cache := stores.NewGeocodeCache(database)

	if n, err := cache.SweepExpired(ctx); err != nil {
		logger := logging.Component("app")
		logger.Warn().Err(err).Msg("sweep geocode cache")
	} else if n > 0 {
		logger := logging.Component("app")
		logger.Debug().Int64("removed", n).Msg("expired geocode cache entries removed")
	}

	*a = App{
		Config:  cfg,
		DB:      database,
		Points:  points,
		Cache:   cache,
		History: jsonfile.NewHistoryStore(cfg.HistoryFile()),
		Geocoder: geocoding.NewService(geocoding.Options{
			Gazetteer:  points,
			Cache:      cache,
			Provider:   newProvider(cfg.Geocoder),
			CacheTTL:   cfg.Geocoder.CacheTTL,
			FailureTTL: cfg.Geocoder.FailureTTL,
		}),
	}
	return nil
}

// Close releases the database.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func newProvider(cfg config.GeocoderConfig) geocoding.Provider {
	if cfg.Provider != config.ProviderNominatim {
		return geocoding.Offline{}
	}

	client := nominatim.NewClient(cfg.BaseURL, cfg.Email, nominatim.WithRateLimit(cfg.RateLimit))
	return geocoding.Nominatim{Client: client, CountryCodes: strings.Join(cfg.Countries(), ",")}
}
