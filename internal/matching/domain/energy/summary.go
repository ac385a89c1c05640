package energy

import "gonum.org/v1/gonum/stat"

// Summary is the headline view of an interval series.
// AvgMatchRate is the plain mean of interval rates, unlike the monthly rollup
// which recomputes the rate from summed totals.
type Summary struct {
	TotalSolar       float64 `json:"totalSolar"`
	TotalWind        float64 `json:"totalWind"`
	TotalSupply      float64 `json:"totalSupply"`
	TotalDemand      float64 `json:"totalDemand"`
	AvgMatchRate     float64 `json:"avgRE100Rate"`
	CurrentMatchRate float64 `json:"currentRE100Rate"`
}

// Summarize totals an interval series. The current rate is the last interval's.
func Summarize(intervals []IntervalMetrics) Summary {
	if len(intervals) == 0 {
		return Summary{}
	}

	var summary Summary
	rates := make([]float64, len(intervals))
	for i, interval := range intervals {
		summary.TotalSolar += interval.Solar
		summary.TotalWind += interval.Wind
		summary.TotalSupply += interval.TotalSupply
		summary.TotalDemand += interval.Demand
		rates[i] = interval.MatchRate
	}
	summary.AvgMatchRate = stat.Mean(rates, nil)
	summary.CurrentMatchRate = intervals[len(intervals)-1].MatchRate
	return summary
}
