package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/pricedash/internal/core"
)

func bars(t *testing.T, l Layout) []Bar {
	t.Helper()
	out := make([]Bar, 0, len(l.Primitives))
	for _, p := range l.Primitives {
		b, ok := p.(Bar)
		require.True(t, ok, "primitive %T is not a bar", p)
		out = append(out, b)
	}
	return out
}

func TestEpisodeBars_ScalesPerEpisode(t *testing.T) {
	l := EpisodeBars(core.RewardComparison{
		AgentRewards:    core.Values{10, 0},
		BaselineRewards: core.Values{5, 20},
	})

	require.Equal(t, KindChart, l.Kind)
	got := bars(t, l)
	require.Len(t, got, 4)

	assert.Equal(t, "Ep 1", got[0].Label)
	assert.Equal(t, "Agent", got[0].Series)
	assert.Equal(t, 100.0, got[0].HeightPct)
	assert.Equal(t, 50.0, got[1].HeightPct)
	assert.Equal(t, "Ep 2", got[2].Label)
	assert.Equal(t, 0.0, got[2].HeightPct)
	assert.Equal(t, 100.0, got[3].HeightPct)

	for _, b := range got {
		assert.InDelta(t, 20, b.WidthPct, 1e-9)
	}
	assert.Equal(t, "#3b82f6", got[0].Color)
	assert.Equal(t, "#10b981", got[1].Color)
	assert.Equal(t, []LegendEntry{
		{Label: "Agent", Color: "#3b82f6"},
		{Label: "Baseline", Color: "#10b981"},
	}, l.Legend)
	assert.Empty(t, l.AxisTicks)
}

func TestEpisodeBars_FloorsGroupScaleAtOne(t *testing.T) {
	l := EpisodeBars(core.RewardComparison{
		AgentRewards:    core.Values{0.5},
		BaselineRewards: core.Values{0.25},
	})

	got := bars(t, l)
	require.Len(t, got, 2)
	assert.Equal(t, 50.0, got[0].HeightPct)
	assert.Equal(t, 25.0, got[1].HeightPct)
}

func TestEpisodeBars_Placeholder(t *testing.T) {
	for name, c := range map[string]core.RewardComparison{
		"empty":    {},
		"all zero": {AgentRewards: core.Values{0, 0}, BaselineRewards: core.Values{0}},
	} {
		t.Run(name, func(t *testing.T) {
			l := EpisodeBars(c)
			assert.True(t, l.IsPlaceholder())
			assert.Equal(t, MsgRunEpisodes, l.Message)
		})
	}
}

func TestEpisodeBars_UnequalLengths(t *testing.T) {
	l := EpisodeBars(core.RewardComparison{
		AgentRewards:    core.Values{4},
		BaselineRewards: core.Values{2, 8},
	})

	got := bars(t, l)
	require.Len(t, got, 4)
	assert.Equal(t, 0.0, got[2].Value)
	assert.Equal(t, 0.0, got[2].HeightPct)
	assert.Equal(t, 100.0, got[3].HeightPct)
}

func TestBars_NegativeValuesDrawFlat(t *testing.T) {
	l := Bars(ChartBar, "", []string{"a", "b"}, []Series{
		{Label: "s", Values: []float64{-5, 10}},
	}, ScaleGlobal)

	got := bars(t, l)
	assert.Equal(t, 0.0, got[0].HeightPct)
	assert.Equal(t, 100.0, got[1].HeightPct)
	assert.InDelta(t, 40, got[0].WidthPct, 1e-9)
	assert.Equal(t, []float64{10, 8, 5, 3, 0}, l.AxisTicks)
}

func TestBars_PerSeries(t *testing.T) {
	l := Bars(ChartBar, "", []string{"a", "b"}, []Series{
		{Label: "small", Values: []float64{2, 4}},
		{Label: "large", Values: []float64{500, 1000}},
	}, ScalePerSeries)

	got := bars(t, l)
	require.Len(t, got, 4)
	assert.Equal(t, 50.0, got[0].HeightPct)
	assert.Equal(t, 50.0, got[1].HeightPct)
	assert.Equal(t, 100.0, got[2].HeightPct)
	assert.Equal(t, 100.0, got[3].HeightPct)
	assert.Equal(t, "#FF6384", got[0].Color)
	assert.Equal(t, "#36A2EB", got[1].Color)
}

func TestBars_NoSeries(t *testing.T) {
	assert.True(t, Bars(ChartBar, "", []string{"a"}, nil, ScaleGlobal).IsPlaceholder())
}

func TestParseScale(t *testing.T) {
	assert.Equal(t, ScalePerSeries, ParseScale("series"))
	assert.Equal(t, ScaleGlobal, ParseScale("global"))
	assert.Equal(t, ScalePerGroup, ParseScale("group"))
	assert.Equal(t, ScalePerGroup, ParseScale(""))
}

func TestPriceDemand(t *testing.T) {
	l := PriceDemand([]core.PriceDemandRow{
		{Price: 10, Demand: 100, Revenue: 1000},
		{Price: 20, Demand: 50, Revenue: 1000},
	})

	got := bars(t, l)
	require.Len(t, got, 4)

	assert.Equal(t, "$10.00", got[0].Label)
	assert.Equal(t, "Demand: 100", got[0].Tooltip)
	assert.Equal(t, "Revenue: $1000.00", got[1].Tooltip)
	assert.Equal(t, 100.0, got[0].HeightPct)
	assert.Equal(t, 100.0, got[1].HeightPct)
	assert.Equal(t, 50.0, got[2].HeightPct)
	assert.Equal(t, 100.0, got[3].HeightPct)
	assert.Equal(t, "rgba(54,162,235,0.7)", got[0].Color)
	assert.Equal(t, "rgba(255,99,132,0.7)", got[1].Color)
}

func TestPriceDemand_Empty(t *testing.T) {
	assert.True(t, PriceDemand(nil).IsPlaceholder())
}

func TestProjectedRevenue(t *testing.T) {
	l := ProjectedRevenue([]core.Product{
		{Name: "Headphones", CurrentPrice: 10, Stock: 5},
		{Name: "Speaker", CurrentPrice: 20, Stock: 5},
	})

	got := bars(t, l)
	require.Len(t, got, 2)
	assert.Equal(t, "Headphones", got[0].Label)
	assert.Equal(t, 50.0, got[0].HeightPct)
	assert.Equal(t, 100.0, got[1].HeightPct)
	assert.Equal(t, "$50", got[0].ValueLabel)
	assert.Equal(t, "$50.00", got[0].Tooltip)
	assert.Equal(t, []float64{100, 75, 50, 25, 0}, l.AxisTicks)
	assert.Equal(t, []string{"$100", "$75", "$50", "$25", "$0"}, l.AxisLabels)
}

func TestProjectedRevenue_Empty(t *testing.T) {
	assert.True(t, ProjectedRevenue(nil).IsPlaceholder())
	assert.True(t, ProjectedRevenue([]core.Product{{Name: "x"}}).IsPlaceholder())
}
