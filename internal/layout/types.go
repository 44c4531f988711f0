// Package layout composes renderer-agnostic chart descriptions from raw
// numeric datasets.
//
// Every composer is a pure function of its input: it never fails, never
// panics, and returns either a chart layout or a placeholder layout when the
// input carries nothing to draw.
package layout

import (
	"encoding/json"
	"fmt"

	"github.com/newthinker/pricedash/internal/geometry"
)

// Kind discriminates chart layouts from placeholders.
type Kind string

const (
	KindPlaceholder Kind = "placeholder"
	KindChart       Kind = "chart"
)

// Layout is the terminal output of a composer.
type Layout struct {
	Kind        Kind          `json:"kind"`
	Chart       string        `json:"chart"`
	Title       string        `json:"title,omitempty"`
	Message     string        `json:"message,omitempty"`
	Primitives  []Primitive   `json:"primitives,omitempty"`
	Legend      []LegendEntry `json:"legend,omitempty"`
	AxisTicks   []float64     `json:"axisTicks,omitempty"`
	AxisLabels  []string      `json:"axisLabels,omitempty"`
	Annotations []Annotation  `json:"annotations,omitempty"`
}

// IsPlaceholder reports whether the layout is the "no data" state.
func (l Layout) IsPlaceholder() bool {
	return l.Kind == KindPlaceholder
}

// Annotation returns the annotation with the given key.
func (l Layout) Annotation(key string) (Annotation, bool) {
	for _, a := range l.Annotations {
		if a.Key == key {
			return a, true
		}
	}
	return Annotation{}, false
}

// LegendEntry labels one series or category.
type LegendEntry struct {
	Label   string   `json:"label"`
	Color   string   `json:"color"`
	Percent *float64 `json:"percent,omitempty"`
}

// Tone hints how an annotation should be emphasised.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneNeutral  Tone = "neutral"
)

// Annotation is a derived figure shown next to a chart, such as the
// improvement over baseline.
type Annotation struct {
	Key   string  `json:"key"`
	Text  string  `json:"text"`
	Value float64 `json:"value"`
	Tone  Tone    `json:"tone"`
}

// Primitive types.
const (
	TypeBar      = "bar"
	TypeArc      = "arc"
	TypePoint    = "point"
	TypeColumn   = "column"
	TypePolyline = "polyline"
	TypeMarker   = "marker"
)

// Primitive is a drawable element of a chart layout.
type Primitive interface {
	PrimitiveType() string
}

// Bar is one bar of a grouped bar chart. Heights and widths are percentages
// of the plot area.
type Bar struct {
	Group      int     `json:"group"`
	Series     string  `json:"series"`
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	HeightPct  float64 `json:"heightPct"`
	WidthPct   float64 `json:"widthPct"`
	Color      string  `json:"color"`
	Tooltip    string  `json:"tooltip,omitempty"`
	ValueLabel string  `json:"valueLabel,omitempty"`
}

// Slice is one pie slice.
type Slice struct {
	geometry.Arc
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}

// Point is a scatter point positioned by percentage on both axes.
type Point struct {
	Series  string  `json:"series"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	XPct    float64 `json:"xPct"`
	YPct    float64 `json:"yPct"`
	Color   string  `json:"color"`
	Tooltip string  `json:"tooltip,omitempty"`
}

// Level is one series' bar within a Column. A nil Level means the series has
// no value at that index.
type Level struct {
	Value     float64 `json:"value"`
	HeightPct float64 `json:"heightPct"`
	Color     string  `json:"color"`
	Tooltip   string  `json:"tooltip,omitempty"`
}

// Column pairs the agent and baseline running totals at one index.
type Column struct {
	Index     int    `json:"index"`
	Label     string `json:"label"`
	ShowLabel bool   `json:"showLabel"`
	Agent     *Level `json:"agent,omitempty"`
	Baseline  *Level `json:"baseline,omitempty"`
}

// Vertex is one point of a Polyline.
type Vertex struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	XPct  float64 `json:"xPct"`
	YPct  float64 `json:"yPct"`
}

// Polyline is a line series.
type Polyline struct {
	Series   string   `json:"series"`
	Color    string   `json:"color"`
	Dashed   bool     `json:"dashed,omitempty"`
	Vertices []Vertex `json:"vertices"`
}

// Marker is a labelled dot placed at a vertical position within its slot.
type Marker struct {
	Index       int     `json:"index"`
	Label       string  `json:"label"`
	Value       float64 `json:"value"`
	PositionPct float64 `json:"positionPct"`
	ValueLabel  string  `json:"valueLabel"`
	Color       string  `json:"color"`
}

func (Bar) PrimitiveType() string      { return TypeBar }
func (Slice) PrimitiveType() string    { return TypeArc }
func (Point) PrimitiveType() string    { return TypePoint }
func (Column) PrimitiveType() string   { return TypeColumn }
func (Polyline) PrimitiveType() string { return TypePolyline }
func (Marker) PrimitiveType() string   { return TypeMarker }

func (b Bar) MarshalJSON() ([]byte, error) {
	type alias Bar
	return tagged(TypeBar, alias(b))
}

func (s Slice) MarshalJSON() ([]byte, error) {
	type alias Slice
	return tagged(TypeArc, alias(s))
}

func (p Point) MarshalJSON() ([]byte, error) {
	type alias Point
	return tagged(TypePoint, alias(p))
}

func (c Column) MarshalJSON() ([]byte, error) {
	type alias Column
	return tagged(TypeColumn, alias(c))
}

func (p Polyline) MarshalJSON() ([]byte, error) {
	type alias Polyline
	return tagged(TypePolyline, alias(p))
}

func (m Marker) MarshalJSON() ([]byte, error) {
	type alias Marker
	return tagged(TypeMarker, alias(m))
}

// tagged marshals v and prepends a "type" member.
func tagged(typ string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	head := []byte(`{"type":"` + typ + `"`)
	if len(body) > 2 {
		head = append(head, ',')
	}
	return append(head, body[1:]...), nil
}

// UnmarshalJSON restores primitives from their "type" member.
func (l *Layout) UnmarshalJSON(data []byte) error {
	type alias Layout
	var raw struct {
		alias
		Primitives []json.RawMessage `json:"primitives,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*l = Layout(raw.alias)
	l.Primitives = nil
	if len(raw.Primitives) == 0 {
		return nil
	}

	l.Primitives = make([]Primitive, 0, len(raw.Primitives))
	for i, msg := range raw.Primitives {
		p, err := decodePrimitive(msg)
		if err != nil {
			return fmt.Errorf("primitive %d: %w", i, err)
		}
		l.Primitives = append(l.Primitives, p)
	}
	return nil
}

func decodePrimitive(msg json.RawMessage) (Primitive, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case TypeBar:
		type alias Bar
		var v alias
		err := json.Unmarshal(msg, &v)
		return Bar(v), err
	case TypeArc:
		type alias Slice
		var v alias
		err := json.Unmarshal(msg, &v)
		return Slice(v), err
	case TypePoint:
		type alias Point
		var v alias
		err := json.Unmarshal(msg, &v)
		return Point(v), err
	case TypeColumn:
		type alias Column
		var v alias
		err := json.Unmarshal(msg, &v)
		return Column(v), err
	case TypePolyline:
		type alias Polyline
		var v alias
		err := json.Unmarshal(msg, &v)
		return Polyline(v), err
	case TypeMarker:
		type alias Marker
		var v alias
		err := json.Unmarshal(msg, &v)
		return Marker(v), err
	default:
		return nil, fmt.Errorf("unknown primitive type %q", head.Type)
	}
}
