// Package dashboard fetches backend datasets, composes every chart of the
// dashboard and publishes the result as immutable snapshots.
package dashboard

import (
	"time"

	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/layout"
)

// Data is one consistent set of raw backend datasets.
type Data struct {
	Products    []core.Product
	Segments    []core.Segment
	PriceCurves []core.PriceCurve
	TimePricing core.TimePricing
	Status      core.TrainingStatus
	Results     core.TrainingResults
	Retention   core.RetentionData
}

// Snapshot is a fully composed dashboard. Snapshots are never mutated after
// they are published.
type Snapshot struct {
	Sequence    uint64          `json:"sequence"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Summary     layout.Summary  `json:"summary"`
	Charts      []layout.Layout `json:"charts"`
	// Failed lists backend endpoints whose data was unavailable and
	// defaulted to empty.
	Failed []string `json:"failed,omitempty"`
}

// Chart returns the layout with the given chart name.
func (s *Snapshot) Chart(name string) (layout.Layout, bool) {
	for _, l := range s.Charts {
		if l.Chart == name {
			return l, true
		}
	}
	return layout.Layout{}, false
}

// Training reports whether the backend was training when the snapshot was
// taken.
func (s *Snapshot) Training() bool {
	return s.Summary.Training
}

// Build composes every dashboard chart from data. The price-demand chart
// shows the first product's curve.
func Build(data Data) []layout.Layout {
	rewards := data.Results.Comparison()

	var rows []core.PriceDemandRow
	if len(data.PriceCurves) > 0 {
		rows = data.PriceCurves[0].Rows()
	}

	retention := data.Retention
	if len(retention.Months) == 0 && len(retention.Retention) == 0 {
		retention = core.DefaultRetention()
	}

	return []layout.Layout{
		layout.Cumulative(rewards),
		layout.EpisodeBars(rewards),
		layout.RewardHistory(rewards),
		layout.PriceDemand(rows),
		layout.Segments(data.Segments),
		layout.ProjectedRevenue(data.Products),
		layout.TimePricing(data.TimePricing),
		layout.Retention(retention),
		layout.Heatmap(data.PriceCurves),
	}
}

// NewSnapshot builds a snapshot of data.
func NewSnapshot(data Data, seq uint64, at time.Time) *Snapshot {
	return &Snapshot{
		Sequence:    seq,
		GeneratedAt: at,
		Summary:     layout.Summarize(data.Status, data.Results),
		Charts:      Build(data),
	}
}
