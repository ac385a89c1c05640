package energy

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DeficitCapacity sizes storage to the worst interval shortfall,
// max(0, demand-supply). Oversupplied intervals are ignored; no deficit yields 0.
func DeficitCapacity(intervals []IntervalMetrics) float64 {
	if len(intervals) == 0 {
		return 0
	}
	deficits := make([]float64, len(intervals))
	for i, interval := range intervals {
		deficits[i] = math.Max(0, interval.Demand-interval.TotalSupply)
	}
	return floats.Max(deficits)
}

// ImbalanceCapacity sizes storage to the worst absolute imbalance,
// |supply-demand|, so oversupply counts as much as deficit.
func ImbalanceCapacity(intervals []IntervalMetrics) float64 {
	if len(intervals) == 0 {
		return 0
	}
	imbalances := make([]float64, len(intervals))
	for i, interval := range intervals {
		imbalances[i] = math.Abs(interval.TotalSupply - interval.Demand)
	}
	return floats.Max(imbalances)
}
