package layout

import (
	"strconv"

	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/geometry"
	"github.com/newthinker/pricedash/internal/numeric"
	"github.com/newthinker/pricedash/internal/palette"
)

// Chart names of the pie archetype.
const (
	ChartPie      = "pie"
	ChartSegments = "segments"
)

// Pie lays out one slice per category. Categories without a value count as
// zero and categories without a label are named by position. Negative
// values are drawn as empty slices.
func Pie(chart, title string, labels []string, values []float64) Layout {
	n := len(labels)
	if len(values) > n {
		n = len(values)
	}

	weights := make([]float64, n)
	for i := range weights {
		if v := at(values, i); v > 0 {
			weights[i] = v
		}
	}

	if n == 0 || geometry.Total(weights) == 0 {
		return Placeholder(chart, title, MsgNoData)
	}

	shares := geometry.Shares(weights)
	arcs := geometry.Arcs(weights)
	l := Layout{
		Kind:       KindChart,
		Chart:      chart,
		Title:      title,
		Primitives: make([]Primitive, 0, n),
		Legend:     make([]LegendEntry, 0, n),
	}
	for i, arc := range arcs {
		label := labelAt(labels, i, "Category "+strconv.Itoa(i+1))
		color := palette.Pick(palette.Default, i)
		pct := shares[i] * 100

		l.Primitives = append(l.Primitives, Slice{
			Arc:     arc,
			Label:   label,
			Value:   weights[i],
			Percent: pct,
			Color:   color,
		})
		l.Legend = append(l.Legend, LegendEntry{
			Label:   label,
			Color:   color,
			Percent: ptr(numeric.Round(pct, 1)),
		})
	}
	return l
}

// Segments shows each customer segment's share of the customer base.
func Segments(segments []core.Segment) Layout {
	labels := make([]string, len(segments))
	values := make([]float64, len(segments))
	for i, s := range segments {
		labels[i] = s.Name
		values[i] = s.Percentage()
	}
	return Pie(ChartSegments, "Customer Segments", labels, values)
}
