package layout

import (
	"math"
	"strconv"

	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/numeric"
)

// Trend is the direction arrow of a stat card.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// Stat is one headline figure of the training summary.
type Stat struct {
	Key        string  `json:"key"`
	Title      string  `json:"title"`
	Value      float64 `json:"value"`
	Display    string  `json:"display"`
	Trend      Trend   `json:"trend"`
	TrendValue string  `json:"trendValue"`
}

// Summary describes training progress and the latest training results.
type Summary struct {
	Training       bool    `json:"training"`
	CurrentEpisode int     `json:"currentEpisode"`
	TotalEpisodes  int     `json:"totalEpisodes"`
	ProgressPct    float64 `json:"progressPct"`
	Status         string  `json:"status"`
	Stats          []Stat  `json:"stats"`
}

// Stat returns the stat with the given key.
func (s Summary) Stat(key string) (Stat, bool) {
	for _, st := range s.Stats {
		if st.Key == key {
			return st, true
		}
	}
	return Stat{}, false
}

// Summarize builds the stat cards and progress bar of the training panel.
func Summarize(status core.TrainingStatus, results core.TrainingResults) Summary {
	current := episodeCount(status.CurrentEpisode)
	total := episodeCount(status.TotalEpisodes)

	s := Summary{
		Training:       status.IsTraining,
		CurrentEpisode: current,
		TotalEpisodes:  total,
		Status:         "Not training",
	}
	if status.IsTraining {
		s.Status = "Episode " + strconv.Itoa(current) + " / " + strconv.Itoa(total)
		if total > 0 {
			s.ProgressPct = numeric.Clamp(float64(current)/float64(total)*100, 0, 100)
		}
	}

	s.Stats = []Stat{
		stat("finalReward", "Final Reward", results.FinalReward.Float(), ""),
		stat("avgLast10", "Avg Last 10", results.AvgLast10.Float(), ""),
		stat("improvement", "Improvement %", results.ImprovementOverBaseline.Float(), "%"),
	}
	return s
}

// episodeCount converts a reported counter to an int, pinning it to the
// int32 range first.
func episodeCount(n core.Number) int {
	return int(numeric.Clamp(n.Float(), math.MinInt32, math.MaxInt32))
}

func stat(key, title string, v float64, suffix string) Stat {
	trend := TrendUp
	if v < 0 {
		trend = TrendDown
	}
	return Stat{
		Key:        key,
		Title:      title,
		Value:      v,
		Display:    fixed(v, 2) + suffix,
		Trend:      trend,
		TrendValue: fixed(math.Abs(v), 2) + suffix,
	}
}
