package energy

func sampleRecords() []RawRecord {
	return []RawRecord{
		{Timestamp: "2025-03-01 00:00", Category: CategorySolar, Entity: "solar_plant1", Value: 120},
		{Timestamp: "2025-03-01 00:00", Category: CategorySolar, Entity: "solar_plant2", Value: 80},
		{Timestamp: "2025-03-01 00:00", Category: CategoryWind, Entity: "wind_plant1", Value: 200},
		{Timestamp: "2025-03-01 00:00", Category: CategoryDemand, Entity: "compA", Value: 250},
		{Timestamp: "2025-03-01 00:00", Category: CategoryDemand, Entity: "compB", Value: 100},
		{Timestamp: "2025-03-01 01:00", Category: CategorySolar, Entity: "solar_plant1", Value: 100},
		{Timestamp: "2025-03-01 01:00", Category: CategorySolar, Entity: "solar_plant2", Value: 70},
		{Timestamp: "2025-03-01 01:00", Category: CategoryWind, Entity: "wind_plant1", Value: 180},
		{Timestamp: "2025-03-01 01:00", Category: CategoryDemand, Entity: "compA", Value: 230},
		{Timestamp: "2025-03-01 01:00", Category: CategoryDemand, Entity: "compB", Value: 90},
	}
}

func interval(ts string, supply, demand float64) IntervalMetrics {
	return NewIntervalMetrics(ts, supply, 0, demand)
}
