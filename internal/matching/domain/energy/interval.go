package energy

import "math"

// IntervalMetrics is the derived supply/demand balance of one timestamp.
type IntervalMetrics struct {
	Timestamp   string  `json:"datetime"`
	Solar       float64 `json:"solar"`
	Wind        float64 `json:"wind"`
	TotalSupply float64 `json:"totalSupply"`
	Demand      float64 `json:"demand"`
	Shortfall   float64 `json:"externalPower"`
	MatchRate   float64 `json:"re100Rate"`
}

// NewIntervalMetrics derives supply total, shortfall and match rate from the
// generation and demand totals of an interval.
func NewIntervalMetrics(timestamp string, solar, wind, demand float64) IntervalMetrics {
	supply := solar + wind
	return IntervalMetrics{
		Timestamp:   timestamp,
		Solar:       solar,
		Wind:        wind,
		TotalSupply: supply,
		Demand:      demand,
		Shortfall:   Shortfall(supply, demand),
		MatchRate:   MatchRate(supply, demand),
	}
}

// MatchRate is supply/demand as a percentage capped at 100. Zero demand yields 0.
func MatchRate(supply, demand float64) float64 {
	if demand <= 0 {
		return 0
	}
	return math.Min(supply/demand*100, 100)
}

// Shortfall is the demand left uncovered by supply, never negative.
func Shortfall(supply, demand float64) float64 {
	return math.Max(0, demand-supply)
}

// Aggregate computes interval metrics for one wide row. companies restricts which
// demand entities count; an empty allow-list includes all of them.
func Aggregate(row WideRow, companies []string) IntervalMetrics {
	allowed := allowList(companies)

	var solar, wind, demand float64
	for _, cell := range row.Cells {
		switch cell.Column.Category {
		case CategorySolar:
			solar += cell.Value
		case CategoryWind:
			wind += cell.Value
		case CategoryDemand:
			if allowed == nil || allowed[cell.Column.Entity] {
				demand += math.Abs(cell.Value)
			}
		}
	}
	return NewIntervalMetrics(row.Timestamp, solar, wind, demand)
}

// AggregateAll applies Aggregate to every row, preserving row order.
func AggregateAll(rows []WideRow, companies []string) []IntervalMetrics {
	result := make([]IntervalMetrics, 0, len(rows))
	for _, row := range rows {
		result = append(result, Aggregate(row, companies))
	}
	return result
}

func allowList(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
