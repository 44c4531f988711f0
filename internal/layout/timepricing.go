package layout

import (
	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/numeric"
	"github.com/newthinker/pricedash/internal/palette"
)

// ChartTimePricing is the time-of-day price multiplier chart.
const ChartTimePricing = "time-pricing"

// Marker positions span [markerFloor, 100] so the lowest multiplier stays
// visible.
const markerFloor = 20

// TimePricing places one marker per time slot at a height proportional to
// its price multiplier. Slots are paired with multipliers by index; extras on
// either side are dropped.
func TimePricing(t core.TimePricing) Layout {
	const title = "Time-Based Pricing"

	n := len(t.TimeOfDay)
	if len(t.PriceMultipliers) < n {
		n = len(t.PriceMultipliers)
	}
	muls := numeric.Sanitize(t.PriceMultipliers[:n])
	if n == 0 || IsEmpty(muls) {
		return Placeholder(ChartTimePricing, title, MsgNoData)
	}

	positions := numeric.RangeMap(muls, markerFloor, 100, 50)
	primitives := make([]Primitive, n)
	for i, m := range muls {
		primitives[i] = Marker{
			Index:       i,
			Label:       t.TimeOfDay[i],
			Value:       m,
			PositionPct: positions[i],
			ValueLabel:  fixed(m, 2) + "×",
			Color:       palette.TimePricing,
		}
	}

	return Layout{
		Kind:       KindChart,
		Chart:      ChartTimePricing,
		Title:      title,
		Primitives: primitives,
		Legend:     []LegendEntry{{Label: "Price multiplier", Color: palette.TimePricing}},
	}
}
