package layout

import (
	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/numeric"
	"github.com/newthinker/pricedash/internal/palette"
)

// Chart names of the line archetype.
const (
	ChartRetention = "retention"
	ChartRewards   = "rewards"
)

// movingWindow is the episode window of the reward trend line.
const movingWindow = 10

// Retention draws monthly retention on a fixed 0 to 100 percent axis.
func Retention(r core.RetentionData) Layout {
	const title = "Customer Retention Over Time"

	n := len(r.Months)
	if len(r.Retention) > n {
		n = len(r.Retention)
	}
	if n == 0 || IsEmpty(r.Retention) {
		return Placeholder(ChartRetention, title, MsgNoData)
	}

	line := Polyline{
		Series:   "Customer Retention (%)",
		Color:    palette.Retention,
		Vertices: make([]Vertex, n),
	}
	for i := 0; i < n; i++ {
		v := r.Retention.At(i)
		line.Vertices[i] = Vertex{
			Label: labelAt(r.Months, i, ""),
			Value: v,
			XPct:  spread(i, n),
			YPct:  numeric.Clamp(v, 0, 100),
		}
	}

	ticks := []float64{100, 75, 50, 25, 0}
	return Layout{
		Kind:       KindChart,
		Chart:      ChartRetention,
		Title:      title,
		Primitives: []Primitive{line},
		Legend:     []LegendEntry{{Label: line.Series, Color: line.Color}},
		AxisTicks:  ticks,
		AxisLabels: tickLabels(ticks, func(v float64) string { return plain(v) + "%" }),
	}
}

// RewardHistory draws agent and baseline rewards per episode on a shared
// min-max scale, plus a dashed trailing average of the agent's rewards.
func RewardHistory(c core.RewardComparison) Layout {
	const title = "Reward History"

	n := maxLen(c.AgentRewards, c.BaselineRewards)
	if n == 0 || IsEmpty(c.AgentRewards, c.BaselineRewards) {
		return Placeholder(ChartRewards, title, MsgWaiting)
	}

	agent := numeric.Sanitize(c.AgentRewards)
	baseline := numeric.Sanitize(c.BaselineRewards)
	trend := numeric.MovingAverage(agent, movingWindow)

	all := make([]float64, 0, len(agent)+len(baseline))
	all = append(all, agent...)
	all = append(all, baseline...)
	min, max := numeric.Min(all), numeric.Max(all)

	labels := EpisodeLabels(n)
	polyline := func(series, color string, values []float64, dashed bool) Polyline {
		p := Polyline{Series: series, Color: color, Dashed: dashed, Vertices: make([]Vertex, len(values))}
		for i, v := range values {
			p.Vertices[i] = Vertex{
				Label: labels[i],
				Value: v,
				XPct:  spread(i, n),
				YPct:  numeric.Position(v, min, max),
			}
		}
		return p
	}

	lines := []Polyline{
		polyline("Agent", palette.Agent, agent, false),
		polyline("Baseline", palette.Baseline, baseline, false),
		polyline("Agent (10-episode average)", palette.MovingAverage, trend, true),
	}

	l := Layout{
		Kind:      KindChart,
		Chart:     ChartRewards,
		Title:     title,
		AxisTicks: RangeTicks(min, max),
	}
	for _, p := range lines {
		if len(p.Vertices) == 0 {
			continue
		}
		l.Primitives = append(l.Primitives, p)
		l.Legend = append(l.Legend, LegendEntry{Label: p.Series, Color: p.Color})
	}
	l.AxisLabels = tickLabels(l.AxisTicks, plain)
	return l
}
