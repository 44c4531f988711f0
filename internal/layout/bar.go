package layout

import (
	"math"
	"strconv"

	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/numeric"
	"github.com/newthinker/pricedash/internal/palette"
)

// Chart names of the bar archetype.
const (
	ChartBar         = "bar"
	ChartEpisodes    = "episodes"
	ChartPriceDemand = "price-demand"
	ChartRevenue     = "revenue"
)

// Scale selects the denominator bar heights are measured against. Every
// denominator is floored at 1.
type Scale int

const (
	// ScalePerGroup scales each group by its tallest bar.
	ScalePerGroup Scale = iota
	// ScalePerSeries scales each series by its own maximum.
	ScalePerSeries
	// ScaleGlobal scales every bar by the dataset maximum and adds axis ticks.
	ScaleGlobal
)

// ParseScale maps "group", "series" and "global" to a Scale. Anything else
// is ScalePerGroup.
func ParseScale(s string) Scale {
	switch s {
	case "series":
		return ScalePerSeries
	case "global":
		return ScaleGlobal
	default:
		return ScalePerGroup
	}
}

// Series is one labelled value sequence of a bar dataset.
type Series struct {
	Label  string
	Values []float64
	Color  string
	// Format renders a value for tooltips and value labels. Nil prints the
	// shortest exact representation.
	Format func(float64) string
}

func (s Series) format(v float64) string {
	if s.Format == nil {
		return plain(v)
	}
	return s.Format(v)
}

// Bars lays out a grouped bar chart: one group per label, one bar per series
// in each group. Groups share the width evenly and bars fill 80% of their
// group. Series shorter than the label list contribute zero-height bars.
func Bars(chart, title string, labels []string, series []Series, scale Scale) Layout {
	values := make([][]float64, len(series))
	for j, s := range series {
		values[j] = s.Values
	}

	n := len(labels)
	if m := maxLen(values...); m > n {
		n = m
	}
	if len(series) == 0 || n == 0 || IsEmpty(values...) {
		return Placeholder(chart, title, MsgNoData)
	}

	groupWidth := 100 / float64(n)
	barWidth := groupWidth / float64(len(series)) * 0.8

	var global float64
	seriesMax := make([]float64, len(series))
	for j := range series {
		seriesMax[j] = numeric.Max(values[j])
		global = math.Max(global, seriesMax[j])
	}

	l := Layout{
		Kind:       KindChart,
		Chart:      chart,
		Title:      title,
		Primitives: make([]Primitive, 0, n*len(series)),
		Legend:     make([]LegendEntry, len(series)),
	}
	colors := make([]string, len(series))
	for j, s := range series {
		colors[j] = s.Color
		if colors[j] == "" {
			colors[j] = palette.Series(j)
		}
		l.Legend[j] = LegendEntry{Label: s.Label, Color: colors[j]}
	}

	for i := 0; i < n; i++ {
		label := labelAt(labels, i, strconv.Itoa(i+1))

		var groupMax float64
		for j := range series {
			groupMax = math.Max(groupMax, at(values[j], i))
		}

		for j, s := range series {
			v := at(values[j], i)
			var denom float64
			switch scale {
			case ScalePerSeries:
				denom = seriesMax[j]
			case ScaleGlobal:
				denom = global
			default:
				denom = groupMax
			}

			text := s.format(v)
			l.Primitives = append(l.Primitives, Bar{
				Group:      i,
				Series:     s.Label,
				Label:      label,
				Value:      v,
				HeightPct:  numeric.PercentOf(v, denom),
				WidthPct:   barWidth,
				Color:      colors[j],
				Tooltip:    s.Label + ": " + text,
				ValueLabel: text,
			})
		}
	}

	if scale == ScaleGlobal {
		l.AxisTicks = Ticks(global)
		l.AxisLabels = tickLabels(l.AxisTicks, series[0].format)
	}
	return l
}

// EpisodeBars compares agent and baseline rewards per episode. Each episode
// is scaled by its own larger reward.
func EpisodeBars(c core.RewardComparison) Layout {
	n := maxLen(c.AgentRewards, c.BaselineRewards)
	if n == 0 || IsEmpty(c.AgentRewards, c.BaselineRewards) {
		return Placeholder(ChartEpisodes, "Agent vs Baseline Rewards", MsgRunEpisodes)
	}
	return Bars(ChartEpisodes, "Agent vs Baseline Rewards", EpisodeLabels(n), []Series{
		{Label: "Agent", Values: c.AgentRewards, Color: palette.Agent},
		{Label: "Baseline", Values: c.BaselineRewards, Color: palette.Baseline},
	}, ScalePerGroup)
}

// PriceDemand shows demand and revenue at each candidate price, each series
// scaled by its own maximum.
func PriceDemand(rows []core.PriceDemandRow) Layout {
	labels := make([]string, len(rows))
	demand := make([]float64, len(rows))
	revenue := make([]float64, len(rows))
	for i, r := range rows {
		labels[i] = dollars(r.Price.Float(), 2)
		demand[i] = r.Demand.Float()
		revenue[i] = r.Revenue.Float()
	}
	return Bars(ChartPriceDemand, "Price, Demand & Revenue", labels, []Series{
		{Label: "Demand", Values: demand, Color: palette.Demand},
		{
			Label:  "Revenue",
			Values: revenue,
			Color:  palette.Revenue,
			Format: func(v float64) string { return dollars(v, 2) },
		},
	}, ScalePerSeries)
}

// ProjectedRevenue charts current price times stock per product against the
// largest projection.
func ProjectedRevenue(products []core.Product) Layout {
	labels := make([]string, len(products))
	revenue := make([]float64, len(products))
	for i, p := range products {
		labels[i] = p.Name
		revenue[i] = numeric.Finite(p.ProjectedRevenue())
	}

	l := Bars(ChartRevenue, "Projected Revenue", labels, []Series{{
		Label:  "Revenue",
		Values: revenue,
		Color:  palette.ProjectedRev,
		Format: func(v float64) string { return dollars(v, 0) },
	}}, ScaleGlobal)
	for i, p := range l.Primitives {
		if b, ok := p.(Bar); ok {
			b.Tooltip = dollars(b.Value, 2)
			l.Primitives[i] = b
		}
	}
	return l
}
