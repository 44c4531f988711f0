package layout

import (
	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/numeric"
	"github.com/newthinker/pricedash/internal/palette"
)

// Chart names of the scatter archetype.
const (
	ChartScatter = "scatter"
	ChartHeatmap = "heatmap"
)

// Sample is one raw scatter observation.
type Sample struct {
	Series  string
	X       float64
	Y       float64
	Tooltip string
}

// Scatter positions samples by min-max normalizing each axis independently;
// an axis whose values are all equal puts every sample at 50. Each distinct
// series gets an evenly spaced hue in order of first appearance.
func Scatter(chart, title string, samples []Sample) Layout {
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = numeric.Finite(s.X)
		ys[i] = numeric.Finite(s.Y)
	}
	if len(samples) == 0 || IsEmpty(xs, ys) {
		return Placeholder(chart, title, MsgNoData)
	}

	var names []string
	index := make(map[string]int)
	for _, s := range samples {
		if _, ok := index[s.Series]; !ok {
			index[s.Series] = len(names)
			names = append(names, s.Series)
		}
	}
	colors := make([]string, len(names))
	legend := make([]LegendEntry, len(names))
	for i, name := range names {
		colors[i] = palette.HSL(i, len(names))
		legend[i] = LegendEntry{Label: name, Color: colors[i]}
	}

	xPct := numeric.MinMax(xs)
	yPct := numeric.MinMax(ys)
	primitives := make([]Primitive, len(samples))
	for i, s := range samples {
		primitives[i] = Point{
			Series:  s.Series,
			X:       xs[i],
			Y:       ys[i],
			XPct:    xPct[i],
			YPct:    yPct[i],
			Color:   colors[index[s.Series]],
			Tooltip: s.Tooltip,
		}
	}

	return Layout{
		Kind:       KindChart,
		Chart:      chart,
		Title:      title,
		Primitives: primitives,
		Legend:     legend,
		AxisLabels: []string{plain(numeric.Min(xs)), plain(numeric.Max(xs))},
	}
}

// Heatmap plots demand against price for every product's price points.
// A price point without a demand entry has zero demand.
func Heatmap(curves []core.PriceCurve) Layout {
	var samples []Sample
	for _, c := range curves {
		for i, price := range c.PricePoints {
			demand := c.Demand.At(i)
			samples = append(samples, Sample{
				Series:  c.Product,
				X:       price,
				Y:       demand,
				Tooltip: c.Product + "\nPrice: " + dollars(price, 2) + "\nDemand: " + plain(demand),
			})
		}
	}

	l := Scatter(ChartHeatmap, "Price Sensitivity", samples)
	if l.IsPlaceholder() {
		return l
	}
	xs := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.X
	}
	l.AxisLabels = []string{dollars(numeric.Min(xs), 2), dollars(numeric.Max(xs), 2)}
	return l
}
