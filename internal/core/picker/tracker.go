package picker

// handleViewportChange replaces the tracked view state with a fresh snapshot
// of the map and schedules a lookup for it.
//
// Notifications are numbered before the map is read. A snapshot is dropped
// when a later-numbered one is already committed, so two notifications that
// overlap can not leave an older center in place of a newer one.
func (p *Picker) handleViewportChange() {
	p.mu.Lock()
	if p.closed || p.view == nil {
		p.mu.Unlock()
		return
	}
	view := p.view
	p.viewSeq++
	seq := p.viewSeq
	p.mu.Unlock()

	// Read the viewport outside the lock: the map may be mid-update and call
	// back into other picker methods.
	vs := view.Viewport()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if seq < p.viewApplied {
		p.mu.Unlock()
		p.log.Debug().Uint64("seq", seq).Msg("stale viewport snapshot dropped")
		return
	}
	p.viewApplied = seq
	p.state = vs
	p.scheduleFetchLocked()
	p.mu.Unlock()

	p.events.publish(ViewChanged{View: vs})
}
