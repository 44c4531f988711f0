package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/pricedash/internal/core"
)

func markers(t *testing.T, l Layout) []Marker {
	t.Helper()
	out := make([]Marker, 0, len(l.Primitives))
	for _, p := range l.Primitives {
		m, ok := p.(Marker)
		require.True(t, ok, "primitive %T is not a marker", p)
		out = append(out, m)
	}
	return out
}

func TestTimePricing(t *testing.T) {
	l := TimePricing(core.TimePricing{
		TimeOfDay:        core.Labels{"Morning", "Noon", "Evening"},
		PriceMultipliers: core.Values{1, 1.5, 2},
	})

	ms := markers(t, l)
	require.Len(t, ms, 3)
	assert.InDelta(t, 20, ms[0].PositionPct, 1e-9)
	assert.InDelta(t, 60, ms[1].PositionPct, 1e-9)
	assert.InDelta(t, 100, ms[2].PositionPct, 1e-9)
	assert.Equal(t, "1.50×", ms[1].ValueLabel)
	assert.Equal(t, "Noon", ms[1].Label)
	assert.Equal(t, "#9333ea", ms[0].Color)
}

func TestTimePricing_FlatMultipliers(t *testing.T) {
	l := TimePricing(core.TimePricing{
		TimeOfDay:        core.Labels{"a", "b"},
		PriceMultipliers: core.Values{1.2, 1.2},
	})

	for _, m := range markers(t, l) {
		assert.Equal(t, 50.0, m.PositionPct)
		assert.Equal(t, "1.20×", m.ValueLabel)
	}
}

func TestTimePricing_PairsByIndex(t *testing.T) {
	l := TimePricing(core.TimePricing{
		TimeOfDay:        core.Labels{"a", "b", "c"},
		PriceMultipliers: core.Values{1, 2},
	})
	assert.Len(t, markers(t, l), 2)
}

func TestTimePricing_Placeholder(t *testing.T) {
	assert.True(t, TimePricing(core.TimePricing{}).IsPlaceholder())
	assert.True(t, TimePricing(core.TimePricing{TimeOfDay: core.Labels{"a"}}).IsPlaceholder())
	assert.True(t, TimePricing(core.TimePricing{
		TimeOfDay:        core.Labels{"a"},
		PriceMultipliers: core.Values{0},
	}).IsPlaceholder())
}
