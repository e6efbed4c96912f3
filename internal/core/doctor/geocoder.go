package doctor

import (
	"context"
	"fmt"
	"time"
)

const pingTimeout = 10 * time.Second

// GeocoderCheck pings the location search backend. A nil ping means the
// provider works offline.
type GeocoderCheck struct {
	provider string
	ping     func(ctx context.Context) error
}

func NewGeocoderCheck(provider string, ping func(ctx context.Context) error) *GeocoderCheck {
	return &GeocoderCheck{provider: provider, ping: ping}
}

func (c *GeocoderCheck) Name() string {
	return "Geocoder"
}

func (c *GeocoderCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.ping == nil {
		result.add(c.provider, StatusPass, "offline, dataset places only")
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	if err := c.ping(ctx); err != nil {
		result.add(c.provider, StatusFail, fmt.Sprintf("unreachable: %v", err))
		return result
	}
	result.add(c.provider, StatusPass, fmt.Sprintf("responded in %s", time.Since(start).Round(time.Millisecond)))

	return result
}
