// Package metrics defines the Prometheus collectors exported on the debug server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mappicker"

// Registry holds every mappicker collector plus the Go runtime collectors.
var Registry = prometheus.NewRegistry()

// LookupsTotal counts point lookups by result (success, error, empty).
var LookupsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "point_lookups_total",
		Help:      "Point lookups performed, by result",
	},
	[]string{"result"},
)

// LookupDuration tracks how long point lookups take.
var LookupDuration = promauto.With(Registry).NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "point_lookup_duration_seconds",
		Help:      "Point lookup latency",
		Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5},
	},
)

// DebounceSuperseded counts scheduled lookups dropped by a newer viewport change.
var DebounceSuperseded = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookup_debounce_superseded_total",
		Help:      "Scheduled point lookups dropped before firing",
	},
)

// StaleResultsDiscarded counts lookup results ignored because a newer request exists.
var StaleResultsDiscarded = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookup_stale_results_total",
		Help:      "Point lookup results discarded as stale",
	},
)

// GeocodeRequestsTotal counts geocode requests by source (gazetteer, cache, provider) and result.
var GeocodeRequestsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_requests_total",
		Help:      "Geocode requests, by source and result",
	},
	[]string{"source", "result"},
)

// ProviderLatency tracks geocoding provider latency.
var ProviderLatency = promauto.With(Registry).NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "geocode_provider_duration_seconds",
		Help:      "Geocoding provider request latency",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"provider"},
)

// PointsImported is set to the number of points loaded by the latest dataset import.
var PointsImported = promauto.With(Registry).NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_points",
		Help:      "Points loaded by the latest dataset import",
	},
)

// nolint:gochecknoinits // runtime collectors must be registered once per process.
func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveLookup records the outcome of one point lookup.
func ObserveLookup(d time.Duration, n int, err error) {
	LookupDuration.Observe(d.Seconds())
	switch {
	case err != nil:
		LookupsTotal.WithLabelValues("error").Inc()
	case n == 0:
		LookupsTotal.WithLabelValues("empty").Inc()
	default:
		LookupsTotal.WithLabelValues("success").Inc()
	}
}
