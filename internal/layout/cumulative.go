package layout

import (
	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/cumulative"
	"github.com/newthinker/pricedash/internal/numeric"
	"github.com/newthinker/pricedash/internal/palette"
)

// ChartCumulative is the running-total comparison chart.
const ChartCumulative = "cumulative"

// AnnotationImprovement keys the agent's improvement over the baseline.
const AnnotationImprovement = "improvement"

// labelEvery is the episode interval at which column labels are shown.
const labelEvery = 10

// Cumulative compares the running reward totals of the agent and the
// baseline. Each index becomes a column with up to two levels; a series that
// has run out of episodes leaves its level empty.
func Cumulative(c core.RewardComparison) Layout {
	const title = "Cumulative Revenue vs Baseline"

	if IsEmpty(c.AgentRewards, c.BaselineRewards) {
		return Placeholder(ChartCumulative, title, MsgNoTrainingData)
	}

	r := cumulative.Aggregate(c.AgentRewards, c.BaselineRewards)
	n := r.Len()
	labels := EpisodeLabels(n)

	l := Layout{
		Kind:       KindChart,
		Chart:      ChartCumulative,
		Title:      title,
		Primitives: make([]Primitive, 0, n),
		Legend: []LegendEntry{
			{Label: "AI Agent", Color: palette.CumulativeAgent},
			{Label: "Baseline", Color: palette.CumulativeBase},
		},
		AxisTicks: r.Ticks(),
	}
	l.AxisLabels = tickLabels(l.AxisTicks, func(v float64) string { return dollars(v, 0) })

	for i := 0; i < n; i++ {
		col := Column{
			Index:     i,
			Label:     labels[i],
			ShowLabel: i%labelEvery == 0,
		}
		if v, ok := r.AtA(i); ok {
			col.Agent = &Level{
				Value:     v,
				HeightPct: r.Height(v),
				Color:     palette.CumulativeAgent,
				Tooltip:   "Agent: " + dollars(v, 0),
			}
		}
		if v, ok := r.AtB(i); ok {
			col.Baseline = &Level{
				Value:     v,
				HeightPct: r.Height(v),
				Color:     palette.CumulativeBase,
				Tooltip:   "Baseline: " + dollars(v, 0),
			}
		}
		l.Primitives = append(l.Primitives, col)
	}

	pct := numeric.Round(r.ImprovementPct, 2)
	tone := TonePositive
	if pct < 0 {
		tone = ToneNegative
	}
	l.Annotations = []Annotation{{
		Key:   AnnotationImprovement,
		Text:  "Improvement: " + percent(r.ImprovementPct, 2),
		Value: pct,
		Tone:  tone,
	}}
	return l
}
