package layout

import (
	"math"
	"strconv"

	"github.com/newthinker/pricedash/internal/cumulative"
	"github.com/newthinker/pricedash/internal/numeric"
)

// Placeholder messages.
const (
	MsgNoData         = "No data available"
	MsgNoTrainingData = "No training data available"
	MsgRunEpisodes    = "No training data. Run some episodes to see the chart here."
	MsgWaiting        = "Waiting for data…"
)

// Placeholder returns the "no data" layout for a chart.
func Placeholder(chart, title, message string) Layout {
	if message == "" {
		message = MsgNoData
	}
	return Layout{
		Kind:    KindPlaceholder,
		Chart:   chart,
		Title:   title,
		Message: message,
	}
}

// IsEmpty reports whether a dataset has nothing to draw: no series, no
// categories, or every value across every series exactly zero.
func IsEmpty(series ...[]float64) bool {
	for _, s := range series {
		if !numeric.AllZero(s) {
			return false
		}
	}
	return true
}

// Ticks returns five axis values at 100%, 75%, 50%, 25% and 0% of max,
// rounded to integers. max is floored at 1.
func Ticks(max float64) []float64 {
	return cumulative.Ticks(math.Max(numeric.Finite(max), 1))
}

// RangeTicks returns five axis values spanning [min, max] from the top down,
// rounded to integers.
func RangeTicks(min, max float64) []float64 {
	min, max = numeric.Finite(min), numeric.Finite(max)
	fractions := []float64{1, 0.75, 0.5, 0.25, 0}
	ticks := make([]float64, len(fractions))
	for i, f := range fractions {
		ticks[i] = numeric.Round(min*(1-f)+max*f, 0)
	}
	return ticks
}

// EpisodeLabels returns "Ep 1" .. "Ep n".
func EpisodeLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = "Ep " + strconv.Itoa(i+1)
	}
	return labels
}

// Fixed-precision formatting helpers shared by composers.

func fixed(v float64, places int) string {
	return strconv.FormatFloat(numeric.Round(v, places), 'f', places, 64)
}

func plain(v float64) string {
	return strconv.FormatFloat(numeric.Finite(v), 'f', -1, 64)
}

func dollars(v float64, places int) string {
	return "$" + fixed(v, places)
}

func percent(v float64, places int) string {
	return fixed(v, places) + "%"
}

func tickLabels(ticks []float64, format func(float64) string) []string {
	out := make([]string, len(ticks))
	for i, t := range ticks {
		out[i] = format(t)
	}
	return out
}

func ptr(v float64) *float64 {
	return &v
}

func maxLen(series ...[]float64) int {
	n := 0
	for _, s := range series {
		if len(s) > n {
			n = len(s)
		}
	}
	return n
}

func at(values []float64, i int) float64 {
	if i < 0 || i >= len(values) {
		return 0
	}
	return numeric.Finite(values[i])
}

func labelAt(labels []string, i int, fallback string) string {
	if i >= 0 && i < len(labels) && labels[i] != "" {
		return labels[i]
	}
	return fallback
}

// spread places index i of n evenly across [0, 100]; a single item sits at 50.
func spread(i, n int) float64 {
	if n <= 1 {
		return 50
	}
	return float64(i) * 100 / float64(n-1)
}
