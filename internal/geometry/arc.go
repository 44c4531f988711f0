// Package geometry converts proportional values into pie-slice arcs on a
// 100x100 view box.
package geometry

import (
	"math"
	"strconv"
	"strings"

	"github.com/newthinker/pricedash/internal/numeric"
)

// View box geometry. Angles are in degrees, measured clockwise from the
// positive x axis, so -90 is 12 o'clock.
const (
	CenterX    = 50.0
	CenterY    = 50.0
	Radius     = 40.0
	StartAngle = -90.0

	// fullCircle is the sweep at which a slice is drawn as a closed ring.
	fullCircle = 360 - 0.01
)

// Point is a coordinate inside the view box.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Arc is the angular span and path descriptor of a single slice.
type Arc struct {
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
	Sweep      float64 `json:"sweep"`
	LargeArc   int     `json:"largeArcFlag"`
	Start      Point   `json:"start"`
	End        Point   `json:"end"`
	Path       string  `json:"path"`
}

// Total returns the sum of values with negatives and non-finite entries
// counted as zero. The sum saturates at math.MaxFloat64.
func Total(values []float64) float64 {
	var total float64
	for _, v := range values {
		total = numeric.Saturate(total + weight(v))
	}
	return total
}

// Shares returns each value's fraction of the total. Values are scaled by
// the largest one before summing, so the fractions hold even when the plain
// sum would overflow. A zero total gives all-zero shares.
func Shares(values []float64) []float64 {
	shares := make([]float64, len(values))
	var largest float64
	for _, v := range values {
		if w := weight(v); w > largest {
			largest = w
		}
	}
	if largest == 0 {
		return shares
	}

	var total float64
	for i, v := range values {
		shares[i] = weight(v) / largest
		total += shares[i]
	}
	for i := range shares {
		shares[i] /= total
	}
	return shares
}

// Arcs lays out one arc per value, starting at 12 o'clock. A zero total
// yields zero sweeps; callers decide whether a zero total should be drawn at
// all.
func Arcs(values []float64) []Arc {
	shares := Shares(values)
	sweeps := make([]float64, len(shares))
	for i, f := range shares {
		sweeps[i] = f * 360
	}
	return layoutArcs(sweeps)
}

// ArcsWithTotal lays out arcs against a caller-supplied total. A total that
// is not a positive finite number falls back to the values' own total.
// Sweeps are capped at a full circle.
func ArcsWithTotal(values []float64, total float64) []Arc {
	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		return Arcs(values)
	}
	sweeps := make([]float64, len(values))
	for i, v := range values {
		sweeps[i] = numeric.Clamp(weight(v)/total*360, 0, 360)
	}
	return layoutArcs(sweeps)
}

func layoutArcs(sweeps []float64) []Arc {
	arcs := make([]Arc, len(sweeps))
	cumulative := StartAngle
	for i, sweep := range sweeps {
		start := cumulative
		end := cumulative + sweep
		cumulative = end

		arcs[i] = Arc{
			StartAngle: start,
			EndAngle:   end,
			Sweep:      sweep,
			LargeArc:   largeArcFlag(sweep),
			Start:      PointAt(start),
			End:        PointAt(end),
			Path:       Describe(start, end),
		}
	}
	return arcs
}

// PointAt returns the point on the pie's rim at the given angle.
func PointAt(deg float64) Point {
	rad := deg * math.Pi / 180
	return Point{
		X: CenterX + Radius*math.Cos(rad),
		Y: CenterY + Radius*math.Sin(rad),
	}
}

// Describe builds the SVG path for a slice: move to the center, line to the
// start point, arc to the end point, close.
func Describe(start, end float64) string {
	sweep := end - start
	p1 := PointAt(start)
	p2 := PointAt(end)

	var b strings.Builder
	b.WriteString("M50 50 L ")
	writePoint(&b, p1)

	if sweep >= fullCircle {
		// An arc whose endpoints coincide renders nothing; go through the
		// opposite point instead.
		mid := PointAt(start + sweep/2)
		writeArc(&b, 0, mid)
		writeArc(&b, 0, p2)
	} else {
		writeArc(&b, largeArcFlag(sweep), p2)
	}

	b.WriteString(" Z")
	return b.String()
}

// largeArcFlag is 1 for slices of a half circle or more. At exactly 180
// degrees both flags select the same arc.
func largeArcFlag(sweep float64) int {
	if sweep >= 180 {
		return 1
	}
	return 0
}

func weight(v float64) float64 {
	v = numeric.Finite(v)
	if v < 0 {
		return 0
	}
	return v
}

func writeArc(b *strings.Builder, large int, to Point) {
	b.WriteString(" A 40 40 0 ")
	b.WriteString(strconv.Itoa(large))
	b.WriteString(" 1 ")
	writePoint(b, to)
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(Coord(p.X))
	b.WriteByte(' ')
	b.WriteString(Coord(p.Y))
}

// Coord formats a coordinate with two decimals. Negative zero prints as 0.00.
func Coord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}
