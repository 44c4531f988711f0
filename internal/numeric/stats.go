package numeric

import "math"

// Max returns the largest finite-coerced value, or 0 for empty input.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Finite(values[0])
	for _, v := range values[1:] {
		if f := Finite(v); f > m {
			m = f
		}
	}
	return m
}

// Min returns the smallest finite-coerced value, or 0 for empty input.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Finite(values[0])
	for _, v := range values[1:] {
		if f := Finite(v); f < m {
			m = f
		}
	}
	return m
}

// Sum adds all finite-coerced values, saturating at ±math.MaxFloat64.
func Sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s = Saturate(s + Finite(v))
	}
	return s
}

// Mean returns the arithmetic mean, or 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	n := float64(len(values))
	var s float64
	for _, v := range values {
		s += Finite(v)
	}
	if !math.IsInf(s, 0) {
		return s / n
	}
	// The sum overflowed; average the scaled values instead.
	var m float64
	for _, v := range values {
		m += Finite(v) / n
	}
	return m
}

// TrailingMean averages the last window values (all of them when fewer exist).
func TrailingMean(values []float64, window int) float64 {
	if window <= 0 || len(values) == 0 {
		return 0
	}
	if len(values) > window {
		values = values[len(values)-window:]
	}
	return Mean(values)
}

// MovingAverage returns the expanding-then-rolling mean of values: entry i is
// the mean of values[max(0, i-window+1) : i+1]. The output has the same
// length as the input.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 0 {
		return out
	}
	for i := range values {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		out[i] = Mean(values[lo : i+1])
	}
	return out
}

// AllZero reports whether every value is exactly zero. Empty input is all zero.
func AllZero(values []float64) bool {
	for _, v := range values {
		if Finite(v) != 0 {
			return false
		}
	}
	return true
}

// Round rounds v half away from zero to the given number of decimal places.
// Negative zero is normalized to zero.
func Round(v float64, places int) float64 {
	v = Finite(v)
	p := math.Pow(10, float64(places))
	if math.IsInf(v*p, 0) {
		// Too large to carry a fractional part.
		return v
	}
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}
