package snapshot

import "re100-analytics/internal/matching/domain/energy"

// TopCompanies bounds pieData.companies.
const TopCompanies = 10

// Snapshot is the derived aggregate state of every record merged so far.
type Snapshot struct {
	MonthlyData    []MonthlyEntry        `json:"monthlyData"`
	PlantMonthly   []PlantMonthlyEntry   `json:"plantMonthly"`
	CompanyMonthly []CompanyMonthlyEntry `json:"companyMonthly"`
	PieData        PieData               `json:"pieData"`
	ESSCapacity    float64               `json:"essCapacity"`
	Summary        Summary               `json:"summary"`
}

// MonthlyEntry holds one canonical month. TotalSupply may exceed Solar+Wind when a
// prior source only reported the total.
type MonthlyEntry struct {
	Month       string  `json:"month"`
	Solar       float64 `json:"solar"`
	Wind        float64 `json:"wind"`
	TotalSupply float64 `json:"totalSupply"`
	Demand      float64 `json:"demand"`
	Shortfall   float64 `json:"externalPower"`
	MatchRate   float64 `json:"re100Rate"`
}

type PlantMonthlyEntry struct {
	Month string          `json:"month"`
	Type  energy.Category `json:"type"`
	Plant string          `json:"plant"`
	Value float64         `json:"value"`
}

type CompanyMonthlyEntry struct {
	Month   string  `json:"month"`
	Company string  `json:"company"`
	Value   float64 `json:"value"`
}

// PieSlice is one entity total.
type PieSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type PieData struct {
	SolarPlants []PieSlice `json:"solar_plants"`
	WindPlants  []PieSlice `json:"wind_plants"`
	Companies   []PieSlice `json:"companies"`
}

type Summary struct {
	TotalSolar   float64 `json:"totalSolar"`
	TotalWind    float64 `json:"totalWind"`
	TotalDemand  float64 `json:"totalDemand"`
	AvgMatchRate float64 `json:"avgRE100Rate"`
}
