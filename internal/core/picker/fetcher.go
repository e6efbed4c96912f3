package picker

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/mappicker/internal/core/logging"
	"github.com/colonyops/mappicker/internal/metrics"
)

// Refresh schedules a debounced lookup for the current viewport, e.g. after
// the point source changed. It does nothing before Mount or after Close.
func (p *Picker) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.mounted || p.closed {
		return
	}
	p.scheduleFetchLocked()
}

// scheduleFetchLocked replaces any pending lookup with one for the current
// view state. The first lookup after mount has no delay.
func (p *Picker) scheduleFetchLocked() {
	delay := p.opts.DebounceDelay
	if !p.fetchedOnce {
		delay = 0
		p.fetchedOnce = true
	}

	p.generation++
	gen := p.generation
	p.loading = true

	if p.debounce.Schedule(delay, func() { p.fetch(gen) }) {
		metrics.DebounceSuperseded.Inc()
		p.log.Debug().Uint64("generation", gen).Msg("pending lookup superseded")
	}
}

// fetch runs the lookup for generation gen and applies the result only if no
// newer lookup was scheduled in the meantime.
func (p *Picker) fetch(gen uint64) {
	p.mu.Lock()
	if p.closed || gen != p.generation {
		p.mu.Unlock()
		return
	}
	vs := p.state
	p.mu.Unlock()

	ctx := logging.WithRequestID(p.ctx, uuid.NewString())

	start := time.Now()
	points, err := p.opts.Lookup.LookupPoints(ctx, vs.Position, vs.Bounds)
	metrics.ObserveLookup(time.Since(start), len(points), err)

	p.mu.Lock()
	if p.closed || gen != p.generation {
		p.mu.Unlock()
		metrics.StaleResultsDiscarded.Inc()
		p.log.Debug().Ctx(ctx).Uint64("generation", gen).Msg("discarding stale lookup result")
		return
	}
	p.loading = false

	if err != nil {
		p.notice = NoticeLookupFailed
		p.mu.Unlock()

		p.log.Warn().Ctx(ctx).Err(err).
			Stringer("position", vs.Position).
			Msg("point lookup failed")
		p.events.publish(LookupFailed{Err: err})
		return
	}

	p.points = slices.Clone(points)
	p.notice = ""
	published := slices.Clone(p.points)
	p.mu.Unlock()

	p.log.Debug().Ctx(ctx).
		Stringer("position", vs.Position).
		Int("count", len(published)).
		Dur("latency", time.Since(start)).
		Msg("points updated")
	p.events.publish(PointsUpdated{Points: published})
}
