// Package palette assigns stable colors to chart categories and series.
package palette

import (
	"math"
	"strconv"
)

// Default is the ordered palette used for pie slices.
var Default = []string{
	"#FF6384",
	"#36A2EB",
	"#FFCE56",
	"#4BC0C0",
	"#9966FF",
	"#FF9F40",
}

// Fixed per-series colors for two-series comparisons and single-series charts.
const (
	Agent           = "#3b82f6"
	Baseline        = "#10b981"
	CumulativeAgent = "#0d9488"
	CumulativeBase  = "#db2777"
	Demand          = "rgba(54,162,235,0.7)"
	Revenue         = "rgba(255,99,132,0.7)"
	ProjectedRev    = "#0d9488"
	TimePricing     = "#9333ea"
	Retention       = "rgba(54, 162, 235, 1)"
	MovingAverage   = "#f59e0b"
)

// Hue returns the hue in degrees for category index out of total, spacing
// categories evenly around the color wheel. A non-positive total yields 0.
func Hue(index, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(index) * 360 / float64(total)
}

// HSL returns the color token for category index out of total.
func HSL(index, total int) string {
	return "hsl(" + formatHue(Hue(index, total)) + ", 70%, 60%)"
}

// Pick selects palette[index % len(palette)]. An empty palette falls back to
// Default.
func Pick(p []string, index int) string {
	if len(p) == 0 {
		p = Default
	}
	i := index % len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

// Series returns the palette color for the i-th series.
func Series(i int) string {
	return Pick(Default, i)
}

func formatHue(h float64) string {
	return strconv.FormatFloat(math.Round(h*100)/100, 'f', -1, 64)
}
