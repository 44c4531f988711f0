package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/newthinker/pricedash/internal/core"
)

// Composer turns a raw JSON dataset into a layout.
type Composer interface {
	Name() string
	Compose(raw []byte) Layout
}

// ComposerFunc adapts a decoder-and-composer pair into a Composer.
type ComposerFunc struct {
	name string
	fn   func(raw []byte) Layout
}

// Name returns the archetype name.
func (c ComposerFunc) Name() string { return c.name }

// Compose runs the composer.
func (c ComposerFunc) Compose(raw []byte) Layout { return c.fn(raw) }

// NewComposer builds a Composer that decodes raw into T and lays it out with
// compose. Fields of the wrong type are left at their zero value.
func NewComposer[T any](name string, compose func(T) Layout) ComposerFunc {
	return ComposerFunc{
		name: name,
		fn: func(raw []byte) Layout {
			var in T
			decodeLenient(raw, &in)
			return compose(in)
		},
	}
}

// Registry manages the composers available by archetype name.
type Registry struct {
	mu        sync.RWMutex
	composers map[string]Composer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		composers: make(map[string]Composer),
	}
}

// DefaultRegistry returns a registry holding every built-in archetype.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewComposer(ChartPie, func(d core.CategoryData) Layout {
		return Pie(ChartPie, "Distribution", d.Labels, d.Values)
	}))
	r.Register(NewComposer(ChartSegments, Segments))
	r.Register(NewComposer(ChartBar, func(d BarData) Layout { return d.Layout() }))
	r.Register(NewComposer(ChartEpisodes, EpisodeBars))
	r.Register(NewComposer(ChartPriceDemand, PriceDemand))
	r.Register(NewComposer(ChartRevenue, ProjectedRevenue))
	r.Register(NewComposer(ChartCumulative, Cumulative))
	r.Register(NewComposer(ChartScatter, func(d []ScatterDatum) Layout {
		samples := make([]Sample, len(d))
		for i, s := range d {
			samples[i] = Sample{Series: s.Series, X: s.X.Float(), Y: s.Y.Float(), Tooltip: s.Tooltip}
		}
		return Scatter(ChartScatter, "Scatter", samples)
	}))
	r.Register(NewComposer(ChartHeatmap, Heatmap))
	r.Register(NewComposer(ChartTimePricing, TimePricing))
	r.Register(NewComposer(ChartRetention, Retention))
	r.Register(NewComposer(ChartRewards, RewardHistory))
	return r
}

// Register adds a composer, replacing any with the same name.
func (r *Registry) Register(c Composer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.composers[c.Name()] = c
}

// Get retrieves a composer by archetype name.
func (r *Registry) Get(name string) (Composer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.composers[name]
	return c, ok
}

// Names returns the registered archetype names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.composers))
	for name := range r.composers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compose lays out raw with the named archetype. An empty body is an empty
// dataset. Only an unknown archetype or malformed JSON is an error.
func (r *Registry) Compose(name string, raw []byte) (Layout, error) {
	c, ok := r.Get(name)
	if !ok {
		return Layout{}, core.WrapError(core.ErrUnknownChart, fmt.Errorf("archetype %q", name))
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && !json.Valid(raw) {
		return Layout{}, core.WrapError(core.ErrInvalidDataset, errors.New("malformed JSON"))
	}
	return c.Compose(raw), nil
}

// BarData is the wire form of a generic grouped bar dataset.
type BarData struct {
	Title  string      `json:"title"`
	Labels core.Labels `json:"labels"`
	Series []struct {
		Label  string      `json:"label"`
		Values core.Values `json:"values"`
		Color  string      `json:"color"`
	} `json:"series"`
	// Scale is "group", "series" or "global".
	Scale string `json:"scale"`
}

// Layout composes the dataset.
func (d BarData) Layout() Layout {
	series := make([]Series, len(d.Series))
	for i, s := range d.Series {
		series[i] = Series{Label: s.Label, Values: s.Values, Color: s.Color}
	}
	return Bars(ChartBar, d.Title, d.Labels, series, ParseScale(d.Scale))
}

// ScatterDatum is the wire form of one scatter sample.
type ScatterDatum struct {
	Series  string      `json:"series"`
	X       core.Number `json:"x"`
	Y       core.Number `json:"y"`
	Tooltip string      `json:"tooltip"`
}

// decodeLenient decodes raw into v. A field of the wrong type is skipped and
// the rest of the document still decodes.
func decodeLenient(raw []byte, v any) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, v)
}
