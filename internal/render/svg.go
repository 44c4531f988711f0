// Package render draws chart layouts as inline SVG.
//
// Every layout coordinate is a percentage of the plot area, so charts are
// drawn on a 100x100 view box stretched to the container. Pies keep their
// aspect ratio. Text is left to the surrounding page; each shape carries its
// tooltip as a <title> child.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/newthinker/pricedash/internal/geometry"
	"github.com/newthinker/pricedash/internal/layout"
)

const (
	pointRadius  = 1.2
	markerRadius = 2
	strokeWidth  = 0.6
)

// SVG renders l as a standalone <svg> element. Placeholders render their
// message centered in the view box.
func SVG(l layout.Layout) string {
	var sb strings.Builder

	if l.IsPlaceholder() || len(l.Primitives) == 0 {
		msg := l.Message
		if msg == "" {
			msg = layout.MsgNoData
		}
		open(&sb, l, "xMidYMid meet")
		fmt.Fprintf(&sb, `<text x="50" y="50" text-anchor="middle" dominant-baseline="middle" font-size="4" fill="#9ca3af">%s</text>`, esc(msg))
		sb.WriteString(`</svg>`)
		return sb.String()
	}

	aspect := "none"
	if _, ok := l.Primitives[0].(layout.Slice); ok {
		aspect = "xMidYMid meet"
	}
	open(&sb, l, aspect)

	groups := groupCount(l.Primitives)
	slots := slotCount(l.Primitives)
	inGroup := map[int]int{}
	perGroup := barsPerGroup(l.Primitives)

	for _, p := range l.Primitives {
		switch v := p.(type) {
		case layout.Bar:
			k := inGroup[v.Group]
			inGroup[v.Group]++
			writeBar(&sb, v, groups, perGroup[v.Group], k)
		case layout.Slice:
			writeSlice(&sb, v)
		case layout.Point:
			writePoint(&sb, v)
		case layout.Column:
			writeColumn(&sb, v, slots)
		case layout.Polyline:
			writePolyline(&sb, v)
		case layout.Marker:
			writeMarker(&sb, v, slots)
		}
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

func open(sb *strings.Builder, l layout.Layout, aspect string) {
	fmt.Fprintf(sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" preserveAspectRatio="%s" class="chart chart-%s" role="img" aria-label="%s">`,
		aspect, esc(l.Chart), esc(l.Title))
}

func writeBar(sb *strings.Builder, b layout.Bar, groups, perGroup, k int) {
	groupWidth := 100 / float64(max(groups, 1))
	width := b.WidthPct
	x := float64(b.Group)*groupWidth + (groupWidth-width*float64(perGroup))/2 + width*float64(k)
	fmt.Fprintf(sb, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s">`,
		c(x), c(100-b.HeightPct), c(width), c(b.HeightPct), esc(b.Color))
	title(sb, b.Tooltip)
	sb.WriteString(`</rect>`)
}

func writeSlice(sb *strings.Builder, s layout.Slice) {
	fmt.Fprintf(sb, `<path d="%s" fill="%s" stroke="#fff" stroke-width="0.5">`, esc(s.Path), esc(s.Color))
	title(sb, s.Label+": "+geometry.Coord(s.Percent)+"%")
	sb.WriteString(`</path>`)
}

func writePoint(sb *strings.Builder, p layout.Point) {
	fmt.Fprintf(sb, `<circle cx="%s" cy="%s" r="%s" fill="%s" fill-opacity="0.8">`,
		c(p.XPct), c(100-p.YPct), c(pointRadius), esc(p.Color))
	title(sb, p.Tooltip)
	sb.WriteString(`</circle>`)
}

func writeColumn(sb *strings.Builder, col layout.Column, slots int) {
	slot := 100 / float64(max(slots, 1))
	width := slot * 0.4
	x := float64(col.Index)*slot + slot*0.1
	for _, lv := range []*layout.Level{col.Agent, col.Baseline} {
		if lv != nil {
			fmt.Fprintf(sb, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s">`,
				c(x), c(100-lv.HeightPct), c(width), c(lv.HeightPct), esc(lv.Color))
			title(sb, col.Label+" "+lv.Tooltip)
			sb.WriteString(`</rect>`)
		}
		x += width
	}
}

func writePolyline(sb *strings.Builder, p layout.Polyline) {
	points := make([]string, len(p.Vertices))
	for i, v := range p.Vertices {
		points[i] = c(v.XPct) + "," + c(100-v.YPct)
	}
	dash := ""
	if p.Dashed {
		dash = ` stroke-dasharray="2 1"`
	}
	fmt.Fprintf(sb, `<polyline points="%s" fill="none" stroke="%s" stroke-width="%s" vector-effect="non-scaling-stroke"%s>`,
		strings.Join(points, " "), esc(p.Color), c(strokeWidth), dash)
	title(sb, p.Series)
	sb.WriteString(`</polyline>`)
}

func writeMarker(sb *strings.Builder, m layout.Marker, slots int) {
	slot := 100 / float64(max(slots, 1))
	cx := float64(m.Index)*slot + slot/2
	fmt.Fprintf(sb, `<line x1="%s" y1="0" x2="%s" y2="100" stroke="#e5e7eb" stroke-width="0.3"/>`, c(cx), c(cx))
	fmt.Fprintf(sb, `<circle cx="%s" cy="%s" r="%s" fill="%s">`,
		c(cx), c(100-m.PositionPct), c(markerRadius), esc(m.Color))
	title(sb, m.Label+": "+m.ValueLabel)
	sb.WriteString(`</circle>`)
}

func title(sb *strings.Builder, text string) {
	if text != "" {
		fmt.Fprintf(sb, `<title>%s</title>`, esc(text))
	}
}

// groupCount is the number of bar groups, one past the highest group index.
func groupCount(prims []layout.Primitive) int {
	n := 0
	for _, p := range prims {
		if b, ok := p.(layout.Bar); ok && b.Group+1 > n {
			n = b.Group + 1
		}
	}
	return n
}

func barsPerGroup(prims []layout.Primitive) map[int]int {
	counts := map[int]int{}
	for _, p := range prims {
		if b, ok := p.(layout.Bar); ok {
			counts[b.Group]++
		}
	}
	return counts
}

// slotCount is the number of column or marker slots.
func slotCount(prims []layout.Primitive) int {
	n := 0
	for _, p := range prims {
		switch v := p.(type) {
		case layout.Column:
			n = max(n, v.Index+1)
		case layout.Marker:
			n = max(n, v.Index+1)
		}
	}
	return n
}

func c(v float64) string {
	return geometry.Coord(v)
}

func esc(s string) string {
	return html.EscapeString(s)
}
