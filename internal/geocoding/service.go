// Package geocoding resolves free-text location searches to a position.
package geocoding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/internal/core/logging"
	"github.com/colonyops/mappicker/internal/core/picker"
	"github.com/colonyops/mappicker/internal/data/stores"
	"github.com/colonyops/mappicker/internal/metrics"
)

var (
	// ErrNoResults is returned when nothing matches the query.
	ErrNoResults = errors.New("no geocoding results found")
	// ErrGeocodingFailed is returned when the provider could not be reached.
	ErrGeocodingFailed = errors.New("geocoding failed")
)

// Provider resolves a query against an external source.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, query string) (geo.Position, error)
}

// Gazetteer looks up named places known locally.
type Gazetteer interface {
	FindPlace(ctx context.Context, name string) (geo.Position, error)
}

// Cache remembers provider answers.
type Cache interface {
	Get(ctx context.Context, query string) (geo.Position, error)
	Put(ctx context.Context, query string, pos geo.Position, ttl time.Duration) error
	PutFailure(ctx context.Context, query string, ttl time.Duration) error
}

// Options configures a Service. Gazetteer and Cache are optional.
type Options struct {
	Gazetteer  Gazetteer
	Cache      Cache
	Provider   Provider
	CacheTTL   time.Duration
	FailureTTL time.Duration
}

// Service resolves a query from the gazetteer, then the cache, then the provider.
type Service struct {
	opts   Options
	logger zerolog.Logger
}

var _ picker.Geocoder = (*Service)(nil)

// NewService creates a geocoding service.
func NewService(opts Options) *Service {
	if opts.Provider == nil {
		opts.Provider = Offline{}
	}
	return &Service{opts: opts, logger: logging.Component("geocoding")}
}

// Geocode returns the position for query. Surrounding whitespace is ignored.
func (s *Service) Geocode(ctx context.Context, query string) (geo.Position, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return geo.Position{}, fmt.Errorf("%w: empty query", ErrNoResults)
	}

	if pos, ok := s.fromGazetteer(ctx, q); ok {
		return pos, nil
	}

	if s.opts.Cache != nil {
		pos, err := s.opts.Cache.Get(ctx, q)
		switch {
		case err == nil:
			metrics.GeocodeRequestsTotal.WithLabelValues("cache", "hit").Inc()
			s.logger.Debug().Ctx(ctx).Stringer("position", pos).Msg("geocode cache hit")
			return pos, nil
		case errors.Is(err, stores.ErrCachedFailure):
			metrics.GeocodeRequestsTotal.WithLabelValues("cache", "failure").Inc()
			return geo.Position{}, fmt.Errorf("%w for %q (cached)", ErrNoResults, q)
		case !errors.Is(err, stores.ErrNotFound):
			s.logger.Warn().Ctx(ctx).Err(err).Msg("failed to check geocode cache")
		}
	}

	provider := s.opts.Provider.Name()
	start := time.Now()
	pos, err := s.opts.Provider.Geocode(ctx, q)
	metrics.ProviderLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, ErrNoResults):
		metrics.GeocodeRequestsTotal.WithLabelValues(provider, "not_found").Inc()
		s.remember(ctx, q, nil)
		return geo.Position{}, fmt.Errorf("%w for %q", ErrNoResults, q)
	case err != nil:
		metrics.GeocodeRequestsTotal.WithLabelValues(provider, "error").Inc()
		s.logger.Error().Ctx(ctx).Err(err).
			Str("provider", provider).
			Dur("latency", time.Since(start)).
			Msg("geocoding provider failed")
		return geo.Position{}, fmt.Errorf("%w: %w", ErrGeocodingFailed, err)
	}

	metrics.GeocodeRequestsTotal.WithLabelValues(provider, "success").Inc()
	s.logger.Info().Ctx(ctx).
		Str("provider", provider).
		Stringer("position", pos).
		Dur("latency", time.Since(start)).
		Msg("geocoding successful")

	s.remember(ctx, q, &pos)
	return pos, nil
}

func (s *Service) fromGazetteer(ctx context.Context, q string) (geo.Position, bool) {
	if s.opts.Gazetteer == nil {
		return geo.Position{}, false
	}

	pos, err := s.opts.Gazetteer.FindPlace(ctx, q)
	switch {
	case err == nil:
		metrics.GeocodeRequestsTotal.WithLabelValues("gazetteer", "hit").Inc()
		return pos, true
	case !errors.Is(err, stores.ErrNotFound):
		s.logger.Warn().Ctx(ctx).Err(err).Msg("gazetteer lookup failed")
	}
	return geo.Position{}, false
}

// remember caches pos, or a miss when pos is nil.
func (s *Service) remember(ctx context.Context, q string, pos *geo.Position) {
	if s.opts.Cache == nil {
		return
	}

	var err error
	if pos == nil {
		err = s.opts.Cache.PutFailure(ctx, q, s.opts.FailureTTL)
	} else {
		err = s.opts.Cache.Put(ctx, q, *pos, s.opts.CacheTTL)
	}
	if err != nil {
		s.logger.Warn().Ctx(ctx).Err(err).Msg("failed to cache geocode result")
	}
}
