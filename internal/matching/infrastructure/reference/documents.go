package reference

import (
	"math"
	"sort"
	"strconv"

	"re100-analytics/internal/matching/domain/energy"
	"re100-analytics/internal/matching/domain/snapshot"
)

const totalKey = "total"

// Series maps a bucket key ("YYYY-MM" or an hour "0".."23") to a value.
type Series map[string]float64

// MonthlyDocument holds monthly totals per plant plus a "total" pseudo-plant for
// each generation type, and total demand per month.
type MonthlyDocument struct {
	Solar  map[string]Series `json:"solar"`
	Wind   map[string]Series `json:"wind"`
	Demand Series            `json:"demand"`
}

// PlantDocument is keyed by generation type, then plant.
type PlantDocument struct {
	Solar map[string]Series `json:"solar"`
	Wind  map[string]Series `json:"wind"`
}

// Documents are the pre-aggregated files the dashboard reads instead of raw rows.
// Hourly series hold means; monthly series hold sums.
type Documents struct {
	Monthly        MonthlyDocument
	PlantMonthly   PlantDocument
	PlantHourly    PlantDocument
	CompanyMonthly map[string]Series
	CompanyHourly  map[string]Series
}

type hourMean struct {
	sum   map[string]Series
	count map[string]map[string]int
}

func newHourMean() *hourMean {
	return &hourMean{sum: make(map[string]Series), count: make(map[string]map[string]int)}
}

func (h *hourMean) add(entity, hour string, value float64) {
	add(h.sum, entity, hour, value)
	if h.count[entity] == nil {
		h.count[entity] = make(map[string]int)
	}
	h.count[entity][hour]++
}

func (h *hourMean) means() map[string]Series {
	out := make(map[string]Series, len(h.sum))
	for entity, series := range h.sum {
		out[entity] = make(Series, len(series))
		for hour, total := range series {
			out[entity][hour] = total / float64(h.count[entity][hour])
		}
	}
	return out
}

// BuildDocuments aggregates raw records into reference documents. Demand values
// are taken as absolute values.
func BuildDocuments(records []energy.RawRecord) (Documents, error) {
	docs := Documents{
		Monthly: MonthlyDocument{
			Solar:  make(map[string]Series),
			Wind:   make(map[string]Series),
			Demand: make(Series),
		},
		PlantMonthly:   PlantDocument{Solar: make(map[string]Series), Wind: make(map[string]Series)},
		CompanyMonthly: make(map[string]Series),
	}
	solarHourly, windHourly, companyHourly := newHourMean(), newHourMean(), newHourMean()

	for _, record := range records {
		ts, err := energy.ParseTimestamp(record.Timestamp)
		if err != nil {
			return Documents{}, err
		}
		month := ts.Format("2006-01")
		hour := strconv.Itoa(ts.Hour())

		switch record.Category {
		case energy.CategorySolar:
			add(docs.Monthly.Solar, record.Entity, month, record.Value)
			add(docs.Monthly.Solar, totalKey, month, record.Value)
			add(docs.PlantMonthly.Solar, record.Entity, month, record.Value)
			solarHourly.add(record.Entity, hour, record.Value)
		case energy.CategoryWind:
			add(docs.Monthly.Wind, record.Entity, month, record.Value)
			add(docs.Monthly.Wind, totalKey, month, record.Value)
			add(docs.PlantMonthly.Wind, record.Entity, month, record.Value)
			windHourly.add(record.Entity, hour, record.Value)
		case energy.CategoryDemand:
			value := math.Abs(record.Value)
			docs.Monthly.Demand[month] += value
			add(docs.CompanyMonthly, record.Entity, month, value)
			companyHourly.add(record.Entity, hour, value)
		}
	}

	docs.PlantHourly = PlantDocument{Solar: solarHourly.means(), Wind: windHourly.means()}
	docs.CompanyHourly = companyHourly.means()
	return docs, nil
}

// Snapshot converts the documents into an aggregate snapshot numerically equal to
// snapshot.Build over the same raw records. Entities come out in name order.
func (d Documents) Snapshot() (snapshot.Snapshot, error) {
	var prior snapshot.Snapshot

	for _, month := range d.months() {
		solar := d.Monthly.Solar[totalKey][month]
		wind := d.Monthly.Wind[totalKey][month]
		prior.MonthlyData = append(prior.MonthlyData, snapshot.MonthlyEntry{
			Month:       month,
			Solar:       solar,
			Wind:        wind,
			TotalSupply: solar + wind,
			Demand:      d.Monthly.Demand[month],
		})
	}

	prior.PlantMonthly, prior.PieData.SolarPlants = plantEntries(energy.CategorySolar, d.PlantMonthly.Solar)
	windEntries, windSlices := plantEntries(energy.CategoryWind, d.PlantMonthly.Wind)
	prior.PlantMonthly = append(prior.PlantMonthly, windEntries...)
	prior.PieData.WindPlants = windSlices

	for _, company := range sortedKeys(d.CompanyMonthly) {
		var total float64
		series := d.CompanyMonthly[company]
		for _, month := range sortedKeys(series) {
			prior.CompanyMonthly = append(prior.CompanyMonthly, snapshot.CompanyMonthlyEntry{
				Month: month, Company: company, Value: series[month],
			})
			total += series[month]
		}
		prior.PieData.Companies = append(prior.PieData.Companies, snapshot.PieSlice{Name: company, Value: total})
	}

	return snapshot.Merge(&prior, nil)
}

func (d Documents) months() []string {
	set := make(map[string]struct{})
	for _, series := range []Series{d.Monthly.Solar[totalKey], d.Monthly.Wind[totalKey], d.Monthly.Demand} {
		for month := range series {
			set[month] = struct{}{}
		}
	}
	months := make([]string, 0, len(set))
	for month := range set {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}

func plantEntries(category energy.Category, plants map[string]Series) ([]snapshot.PlantMonthlyEntry, []snapshot.PieSlice) {
	var entries []snapshot.PlantMonthlyEntry
	var slices []snapshot.PieSlice
	for _, plant := range sortedKeys(plants) {
		var total float64
		series := plants[plant]
		for _, month := range sortedKeys(series) {
			entries = append(entries, snapshot.PlantMonthlyEntry{
				Month: month, Type: category, Plant: plant, Value: series[month],
			})
			total += series[month]
		}
		slices = append(slices, snapshot.PieSlice{Name: plant, Value: total})
	}
	return entries, slices
}

func add(target map[string]Series, entity, bucket string, value float64) {
	series := target[entity]
	if series == nil {
		series = make(Series)
		target[entity] = series
	}
	series[bucket] += value
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
