package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameQuery(t *testing.T) {
	assert.True(t, SameQuery("Warsaw", "warsaw"))
	assert.True(t, SameQuery("  Warsaw ", "Warsaw"))
	assert.False(t, SameQuery("Warsaw", "Warszawa"))
}

func TestRecall_Navigation(t *testing.T) {
	// newest first
	r := NewRecall([]Entry{{Query: "Krakow"}, {Query: "Gdansk"}})
	require.Equal(t, 2, r.Len())

	q, ok := r.Prev("draft")
	require.True(t, ok)
	assert.Equal(t, "Krakow", q)

	q, ok = r.Prev("ignored")
	require.True(t, ok)
	assert.Equal(t, "Gdansk", q)

	_, ok = r.Prev("")
	assert.False(t, ok, "nothing older")

	q, ok = r.Next()
	require.True(t, ok)
	assert.Equal(t, "Krakow", q)

	q, ok = r.Next()
	require.True(t, ok)
	assert.Equal(t, "draft", q, "back to what was typed")

	_, ok = r.Next()
	assert.False(t, ok)
}

func TestRecall_Add(t *testing.T) {
	tests := []struct {
		name  string
		start []Entry
		add   string
		want  []string
	}{
		{name: "prepends", start: []Entry{{Query: "Krakow"}}, add: "Gdansk", want: []string{"Gdansk", "Krakow"}},
		{name: "moves repeat to front", start: []Entry{{Query: "Krakow"}, {Query: "Gdansk"}}, add: "gdansk", want: []string{"gdansk", "Krakow"}},
		{name: "trims", add: "  Lodz  ", want: []string{"Lodz"}},
		{name: "ignores blank", start: []Entry{{Query: "Krakow"}}, add: "   ", want: []string{"Krakow"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecall(tt.start)
			r.Add(tt.add)

			var got []string
			for {
				q, ok := r.Prev("")
				if !ok {
					break
				}
				got = append(got, q)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecall_AddStopsRecalling(t *testing.T) {
	r := NewRecall([]Entry{{Query: "Krakow"}})
	_, _ = r.Prev("x")

	r.Add("Gdansk")

	_, ok := r.Next()
	assert.False(t, ok)
}

func TestRecall_Empty(t *testing.T) {
	r := NewRecall(nil)
	_, ok := r.Prev("x")
	assert.False(t, ok)
	_, ok = r.Next()
	assert.False(t, ok)
}
