// Package cumulative turns two reward histories into aligned running totals
// and an improvement percentage of the first over the second.
package cumulative

import (
	"math"

	"github.com/newthinker/pricedash/internal/numeric"
)

// Result holds the running totals of an agent series (A) and a baseline
// series (B). The two slices keep their source lengths; index i of the
// shorter one is absent once i reaches its length.
type Result struct {
	A              []float64 `json:"cumulativeA"`
	B              []float64 `json:"cumulativeB"`
	TotalA         float64   `json:"totalA"`
	TotalB         float64   `json:"totalB"`
	ImprovementPct float64   `json:"improvementPct"`
	// Scale is the largest cumulative value, floored at 1.
	Scale float64 `json:"scale"`
}

// Aggregate computes running totals for a and b.
func Aggregate(a, b []float64) Result {
	cumA := RunningSum(a)
	cumB := RunningSum(b)
	totalA := last(cumA)
	totalB := last(cumB)

	return Result{
		A:              cumA,
		B:              cumB,
		TotalA:         totalA,
		TotalB:         totalB,
		ImprovementPct: Improvement(totalA, totalB),
		Scale:          math.Max(math.Max(numeric.Max(cumA), numeric.Max(cumB)), 1),
	}
}

// RunningSum returns the prefix sums of values, treating non-finite entries
// as zero. Sums saturate at ±math.MaxFloat64.
func RunningSum(values []float64) []float64 {
	out := make([]float64, len(values))
	var acc float64
	for i, v := range values {
		acc = numeric.Saturate(acc + numeric.Finite(v))
		out[i] = acc
	}
	return out
}

// Improvement returns (a-b)/|b|*100, or 0 when b is zero.
func Improvement(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return numeric.Saturate((a - b) / math.Abs(b) * 100)
}

// Len is the number of aligned indices, the longer of the two series.
func (r Result) Len() int {
	if len(r.A) > len(r.B) {
		return len(r.A)
	}
	return len(r.B)
}

// AtA returns the agent running total at i and whether it exists.
func (r Result) AtA(i int) (float64, bool) {
	return at(r.A, i)
}

// AtB returns the baseline running total at i and whether it exists.
func (r Result) AtB(i int) (float64, bool) {
	return at(r.B, i)
}

// Height maps a running total onto [0, 100] against Scale.
func (r Result) Height(v float64) float64 {
	return numeric.PercentOf(v, r.Scale)
}

// Ticks returns axis values at 100%, 75%, 50%, 25% and 0% of Scale,
// rounded to integers.
func (r Result) Ticks() []float64 {
	return Ticks(r.Scale)
}

// Ticks returns five integer-rounded axis values from max down to zero.
func Ticks(max float64) []float64 {
	fractions := []float64{1, 0.75, 0.5, 0.25, 0}
	ticks := make([]float64, len(fractions))
	for i, f := range fractions {
		ticks[i] = numeric.Round(numeric.Finite(max)*f, 0)
	}
	return ticks
}

func at(values []float64, i int) (float64, bool) {
	if i < 0 || i >= len(values) {
		return 0, false
	}
	return values[i], true
}

func last(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}
