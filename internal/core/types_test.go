package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_ProjectedRevenue(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "name": "Headphones", "current_price": "49.5", "stock": 100}`), &p))

	assert.Equal(t, 3.0, p.ID.Float())
	assert.Equal(t, 4950.0, p.ProjectedRevenue())
}

func TestProduct_ProjectedRevenueSaturates(t *testing.T) {
	p := Product{CurrentPrice: 1e308, Stock: 10}
	assert.Equal(t, math.MaxFloat64, p.ProjectedRevenue())

	p.Stock = -10
	assert.Equal(t, -math.MaxFloat64, p.ProjectedRevenue())
}

func TestProduct_MissingFieldsDefaultToZero(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"name": "Mouse", "current_price": null}`), &p))

	assert.Equal(t, 0.0, p.ProjectedRevenue())
}

func TestSegment_Percentage(t *testing.T) {
	var s Segment
	require.NoError(t, json.Unmarshal([]byte(`{"name": "Budget", "size": 0.35}`), &s))
	assert.InDelta(t, 35, s.Percentage(), 1e-9)

	require.NoError(t, json.Unmarshal([]byte(`{"name": "Odd", "size": "lots"}`), &s))
	assert.Equal(t, 0.0, s.Percentage())
}

func TestPriceCurve_Rows(t *testing.T) {
	c := PriceCurve{
		Product:     "Speaker",
		PricePoints: Values{10, 20, 30},
		Demand:      Values{8, 6},
		Revenue:     Values{0.8},
	}

	rows := c.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, 20.0, rows[1].Price.Float())
	assert.Equal(t, 6.0, rows[1].Demand.Float())
	assert.Equal(t, 0.0, rows[1].Revenue.Float())
	assert.Equal(t, 0.0, rows[2].Demand.Float())
}

func TestTrainingResults_Decode(t *testing.T) {
	body := `{
		"finalReward": "12.5",
		"avgLast10": null,
		"improvementOverBaseline": 4.2,
		"rewardHistory": [1, "2", null, "x", true],
		"baselineHistory": "not-an-array"
	}`

	var r TrainingResults
	require.NoError(t, json.Unmarshal([]byte(body), &r))

	assert.Equal(t, 12.5, r.FinalReward.Float())
	assert.Equal(t, 0.0, r.AvgLast10.Float())
	assert.Equal(t, Values{1, 2, 0, 0, 1}, r.RewardHistory)
	assert.Empty(t, r.BaselineHistory)

	cmp := r.Comparison()
	assert.Equal(t, r.RewardHistory, cmp.AgentRewards)
}

func TestTrainingRequest_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   TrainingRequest
		want TrainingRequest
	}{
		{"defaults", TrainingRequest{}, TrainingRequest{Episodes: 10, BaselineStrategy: "combined"}},
		{"clamp high", TrainingRequest{Episodes: 5000, BaselineStrategy: "random"}, TrainingRequest{Episodes: 1000, BaselineStrategy: "random"}},
		{"clamp low", TrainingRequest{Episodes: -3, UseBaseline: true}, TrainingRequest{Episodes: 1, UseBaseline: true, BaselineStrategy: "combined"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestDefaultRetention(t *testing.T) {
	r := DefaultRetention()
	assert.Len(t, r.Months, 6)
	assert.Len(t, r.Retention, 6)
}
