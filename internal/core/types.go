package core

// Product is a catalogue entry reported by the pricing backend.
type Product struct {
	ID             Number `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category,omitempty"`
	BasePrice      Number `json:"base_price"`
	CurrentPrice   Number `json:"current_price"`
	Cost           Number `json:"cost,omitempty"`
	Stock          Number `json:"stock"`
	Recommendation string `json:"recommendation,omitempty"`
}

// ProjectedRevenue is current price times stock on hand, saturating at
// ±math.MaxFloat64.
func (p Product) ProjectedRevenue() float64 {
	return saturate(p.CurrentPrice.Float() * p.Stock.Float())
}

// Segment is a customer segment with its share of the customer base.
type Segment struct {
	Name              string `json:"name"`
	Size              Number `json:"size"`
	PriceSensitivity  Number `json:"price_sensitivity"`
	QualityPreference Number `json:"quality_preference"`
}

// Percentage returns the segment's share as a percentage.
func (s Segment) Percentage() float64 {
	return saturate(s.Size.Float() * 100)
}

// PriceCurve is one product's demand and revenue across candidate prices.
type PriceCurve struct {
	Product     string `json:"product"`
	PricePoints Values `json:"pricePoints"`
	Demand      Values `json:"demand"`
	Revenue     Values `json:"revenue,omitempty"`
}

// Rows pairs each price point with its demand and revenue. Missing demand or
// revenue entries are zero.
func (c PriceCurve) Rows() []PriceDemandRow {
	rows := make([]PriceDemandRow, len(c.PricePoints))
	for i, p := range c.PricePoints {
		rows[i] = PriceDemandRow{
			Price:   Number(p),
			Demand:  Number(c.Demand.At(i)),
			Revenue: Number(c.Revenue.At(i)),
		}
	}
	return rows
}

// PriceDemandRow is a single price with its resulting demand and revenue.
type PriceDemandRow struct {
	Price   Number `json:"price"`
	Demand  Number `json:"demand"`
	Revenue Number `json:"revenue"`
}

// TimePricing holds price multipliers by time of day.
type TimePricing struct {
	TimeOfDay        Labels `json:"timeOfDay"`
	Weekdays         Labels `json:"weekdays,omitempty"`
	PriceMultipliers Values `json:"priceMultipliers"`
}

// TrainingStatus reports backend training progress.
type TrainingStatus struct {
	IsTraining     bool   `json:"isTraining"`
	CurrentEpisode Number `json:"currentEpisode"`
	TotalEpisodes  Number `json:"totalEpisodes"`
	StartTime      Number `json:"startTime,omitempty"`
	EndTime        Number `json:"endTime,omitempty"`
}

// TrainingResults carries reward histories of the agent and the baseline.
type TrainingResults struct {
	FinalReward             Number `json:"finalReward"`
	AvgLast10               Number `json:"avgLast10"`
	ImprovementOverBaseline Number `json:"improvementOverBaseline"`
	RewardHistory           Values `json:"rewardHistory"`
	BaselineHistory         Values `json:"baselineHistory"`
}

// RewardComparison is the agent-vs-baseline input of the comparison charts.
type RewardComparison struct {
	AgentRewards    Values `json:"agentRewards"`
	BaselineRewards Values `json:"baselineRewards"`
}

// Comparison extracts the reward histories as a comparison.
func (r TrainingResults) Comparison() RewardComparison {
	return RewardComparison{
		AgentRewards:    r.RewardHistory,
		BaselineRewards: r.BaselineHistory,
	}
}

// BaselineComparison is the backend's reward history summary.
type BaselineComparison struct {
	AgentRewards          Values `json:"agent_rewards"`
	BaselineRewards       Values `json:"baseline_rewards"`
	CumulativeAgent       Values `json:"cumulative_agent_rewards"`
	CumulativeBaseline    Values `json:"cumulative_baseline_rewards"`
	ImprovementPercentage Number `json:"improvement_percentage"`
}

// CategoryData is a labelled set of values, as used by pie and bar charts.
type CategoryData struct {
	Labels Labels `json:"labels"`
	Values Values `json:"values"`
}

// RetentionData is monthly customer retention in percent.
type RetentionData struct {
	Months    Labels `json:"months"`
	Retention Values `json:"retention"`
}

// DefaultRetention is shown until the backend reports retention figures.
func DefaultRetention() RetentionData {
	return RetentionData{
		Months:    Labels{"Jan", "Feb", "Mar", "Apr", "May", "Jun"},
		Retention: Values{95, 92, 88, 90, 93, 95},
	}
}

// TrainingRequest starts a training run on the backend.
type TrainingRequest struct {
	Episodes         int    `json:"episodes"`
	UseBaseline      bool   `json:"useBaseline"`
	BaselineStrategy string `json:"baselineStrategy"`
}

// Training request bounds.
const (
	MinEpisodes             = 1
	MaxEpisodes             = 1000
	DefaultEpisodes         = 10
	DefaultBaselineStrategy = "combined"
)

// Normalize clamps the episode count and fills in the baseline strategy.
func (r TrainingRequest) Normalize() TrainingRequest {
	if r.Episodes == 0 {
		r.Episodes = DefaultEpisodes
	}
	if r.Episodes < MinEpisodes {
		r.Episodes = MinEpisodes
	}
	if r.Episodes > MaxEpisodes {
		r.Episodes = MaxEpisodes
	}
	if r.BaselineStrategy == "" {
		r.BaselineStrategy = DefaultBaselineStrategy
	}
	return r
}

// TrainingAck is the backend's reply to a training request.
type TrainingAck struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SampleData is the backend's reply to a sample data regeneration.
type SampleData struct {
	Products []Product `json:"products"`
}
