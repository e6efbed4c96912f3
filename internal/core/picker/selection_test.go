package picker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mappicker/internal/core/geo"
)

func loaded(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	h.mount(t)
	h.clock.Advance(0)
	require.Len(t, h.picker.State().Points, 2)
	return h
}

func TestSelect(t *testing.T) {
	h := loaded(t)

	h.picker.Select(pointA)

	state := h.picker.State()
	assert.Equal(t, Detail{Point: pointA}, state.Sidebar)
	assert.Equal(t, []geo.Position{pointA.Position()}, h.view.setCenters)
	assert.Equal(t, geo.DefaultZoom, h.view.zoom, "zoom unchanged")
	assert.Equal(t, pointA.Position(), state.View.Position)

	markers := state.Markers()
	require.Len(t, markers, 2)
	for _, m := range markers {
		if m.Point.Key == pointA.Key {
			assert.Equal(t, IconHighlighted, m.Icon)
		} else {
			assert.Equal(t, IconDefault, m.Icon)
		}
	}

	// Recentering goes through the debounced path like any other move.
	h.clock.Advance(500 * time.Millisecond)
	calls := h.rec.lookups()
	require.Len(t, calls, 2)
	assert.Equal(t, pointA.Position(), calls[1].position)
}

func TestSelect_SwitchesHighlight(t *testing.T) {
	h := loaded(t)

	h.picker.Select(pointA)
	h.picker.Select(pointB)

	highlighted := 0
	for _, m := range h.picker.Markers() {
		if m.Icon == IconHighlighted {
			highlighted++
			assert.Equal(t, pointB.Key, m.Point.Key)
		}
	}
	assert.Equal(t, 1, highlighted)
}

func TestSelect_SurvivesPointRefresh(t *testing.T) {
	h := loaded(t)
	h.picker.Select(pointA)

	h.rec.result = []geo.MapPoint{pointB}
	h.clock.Advance(time.Second)

	state := h.picker.State()
	selected, ok := state.Selected()
	require.True(t, ok)
	assert.Equal(t, pointA, selected, "detail keeps showing the selected point")
	for _, m := range state.Markers() {
		assert.Equal(t, IconDefault, m.Icon)
	}
}

func TestSelectKey(t *testing.T) {
	h := loaded(t)

	require.NoError(t, h.picker.SelectKey(pointB.Key))
	selected, ok := h.picker.State().Selected()
	require.True(t, ok)
	assert.Equal(t, pointB, selected)

	err := h.picker.SelectKey("missing")
	assert.ErrorIs(t, err, ErrUnknownPoint)
}

func TestBack(t *testing.T) {
	t.Run("returns to browsing without moving the map", func(t *testing.T) {
		h := loaded(t)
		h.picker.Select(pointA)
		before := h.picker.State().View

		h.picker.Back()

		state := h.picker.State()
		assert.Equal(t, Browsing{}, state.Sidebar)
		assert.Equal(t, before, state.View)
		assert.Len(t, h.view.setCenters, 1)
		for _, m := range state.Markers() {
			assert.Equal(t, IconDefault, m.Icon)
		}
	})

	t.Run("no-op while browsing", func(t *testing.T) {
		h := loaded(t)
		n := len(h.events)

		h.picker.Back()

		assert.Equal(t, Browsing{}, h.picker.State().Sidebar)
		assert.Len(t, h.events, n, "no event published")
	})
}

func TestConfirm(t *testing.T) {
	t.Run("hands the selected point to the host once", func(t *testing.T) {
		h := loaded(t)
		h.picker.Select(pointB)

		require.NoError(t, h.picker.Confirm())

		assert.Equal(t, []geo.MapPoint{pointB}, h.rec.confirmed)
		assert.Equal(t, Detail{Point: pointB}, h.picker.State().Sidebar, "selection kept")

		var confirmed []Confirmed
		for _, e := range h.events {
			if c, ok := e.(Confirmed); ok {
				confirmed = append(confirmed, c)
			}
		}
		require.Len(t, confirmed, 1)
		assert.Equal(t, pointB, confirmed[0].Point)
	})

	t.Run("without selection", func(t *testing.T) {
		h := loaded(t)

		assert.ErrorIs(t, h.picker.Confirm(), ErrNoSelection)
		assert.Empty(t, h.rec.confirmed)
	})
}

func TestSelection_Events(t *testing.T) {
	h := loaded(t)

	h.picker.Select(pointA)
	h.picker.Back()

	var sidebars []Sidebar
	for _, e := range h.events {
		if sc, ok := e.(SelectionChanged); ok {
			sidebars = append(sidebars, sc.Sidebar)
		}
	}
	assert.Equal(t, []Sidebar{Detail{Point: pointA}, Browsing{}}, sidebars)
}
