package energy

import "sort"

// MonthlySummary sums an entire calendar month.
type MonthlySummary struct {
	Month       string  `json:"month"`
	TotalSupply float64 `json:"totalSupply"`
	TotalDemand float64 `json:"totalDemand"`
	Shortfall   float64 `json:"externalPower"`
	MatchRate   float64 `json:"re100Rate"`
	Intervals   int     `json:"intervals"`
}

// HourlySummary is the average profile of one hour-of-day across the dataset.
type HourlySummary struct {
	Hour      int     `json:"hour"`
	AvgSupply float64 `json:"avgSupply"`
	AvgDemand float64 `json:"avgDemand"`
	MatchRate float64 `json:"re100Rate"`
	Intervals int     `json:"intervals"`
}

type balance struct {
	supply float64
	demand float64
	count  int
}

// MonthlyRollup groups intervals by YYYY-MM and recomputes shortfall and match
// rate from the summed totals (sum-then-ratio). Output is sorted by month.
func MonthlyRollup(intervals []IntervalMetrics) ([]MonthlySummary, error) {
	byMonth := make(map[string]*balance)
	for _, interval := range intervals {
		month, err := MonthKey(interval.Timestamp)
		if err != nil {
			return nil, err
		}
		b := byMonth[month]
		if b == nil {
			b = &balance{}
			byMonth[month] = b
		}
		b.supply += interval.TotalSupply
		b.demand += interval.Demand
		b.count++
	}

	result := make([]MonthlySummary, 0, len(byMonth))
	for month, b := range byMonth {
		result = append(result, MonthlySummary{
			Month:       month,
			TotalSupply: b.supply,
			TotalDemand: b.demand,
			Shortfall:   Shortfall(b.supply, b.demand),
			MatchRate:   MatchRate(b.supply, b.demand),
			Intervals:   b.count,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}

// HourlyRollup groups intervals by hour-of-day regardless of date and averages
// supply and demand per hour; the match rate comes from the averages.
func HourlyRollup(intervals []IntervalMetrics) ([]HourlySummary, error) {
	byHour := make(map[int]*balance)
	for _, interval := range intervals {
		hour, err := HourOf(interval.Timestamp)
		if err != nil {
			return nil, err
		}
		b := byHour[hour]
		if b == nil {
			b = &balance{}
			byHour[hour] = b
		}
		b.supply += interval.TotalSupply
		b.demand += interval.Demand
		b.count++
	}

	result := make([]HourlySummary, 0, len(byHour))
	for hour, b := range byHour {
		avgSupply := b.supply / float64(b.count)
		avgDemand := b.demand / float64(b.count)
		result = append(result, HourlySummary{
			Hour:      hour,
			AvgSupply: avgSupply,
			AvgDemand: avgDemand,
			MatchRate: MatchRate(avgSupply, avgDemand),
			Intervals: b.count,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Hour < result[j].Hour })
	return result, nil
}
