package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveLookup(t *testing.T) {
	before := map[string]float64{
		"success": testutil.ToFloat64(LookupsTotal.WithLabelValues("success")),
		"empty":   testutil.ToFloat64(LookupsTotal.WithLabelValues("empty")),
		"error":   testutil.ToFloat64(LookupsTotal.WithLabelValues("error")),
	}

	ObserveLookup(10*time.Millisecond, 3, nil)
	ObserveLookup(10*time.Millisecond, 0, nil)
	ObserveLookup(10*time.Millisecond, 0, errors.New("boom"))

	assert.InDelta(t, before["success"]+1, testutil.ToFloat64(LookupsTotal.WithLabelValues("success")), 0)
	assert.InDelta(t, before["empty"]+1, testutil.ToFloat64(LookupsTotal.WithLabelValues("empty")), 0)
	assert.InDelta(t, before["error"]+1, testutil.ToFloat64(LookupsTotal.WithLabelValues("error")), 0)
}

func TestRegistry_Gathers(t *testing.T) {
	DebounceSuperseded.Inc()

	families, err := Registry.Gather()
	assert.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["mappicker_lookup_debounce_superseded_total"])
	assert.True(t, names["go_goroutines"])
}
