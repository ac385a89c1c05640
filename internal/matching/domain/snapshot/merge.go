package snapshot

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"re100-analytics/internal/matching/domain/energy"
)

// totals is an insertion-ordered running sum per key.
type totals[K comparable] struct {
	keys   []K
	values map[K]float64
}

func newTotals[K comparable]() *totals[K] {
	return &totals[K]{values: make(map[K]float64)}
}

func (t *totals[K]) add(key K, value float64) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] += value
}

func (t *totals[K]) has(key K) bool {
	_, ok := t.values[key]
	return ok
}

func (t *totals[K]) sum() float64 {
	var total float64
	for _, key := range t.keys {
		total += t.values[key]
	}
	return total
}

// roundingSlack absorbs the cent a stored total can differ from its rounded parts.
const roundingSlack = 0.011

type monthBalance struct {
	solar  float64
	wind   float64
	demand float64
	// supply reported by a prior entry beyond its solar and wind split
	other float64
}

func (b monthBalance) supply() float64 {
	return b.solar + b.wind + b.other
}

type plantKey struct {
	month    string
	category energy.Category
	plant    string
}

type companyKey struct {
	month   string
	company string
}

type accumulator struct {
	solar     *totals[string]
	wind      *totals[string]
	companies *totals[string]

	monthOrder []string
	months     map[string]*monthBalance

	plantMonthly   *totals[plantKey]
	companyMonthly *totals[companyKey]
}

func newAccumulator() *accumulator {
	return &accumulator{
		solar:          newTotals[string](),
		wind:           newTotals[string](),
		companies:      newTotals[string](),
		months:         make(map[string]*monthBalance),
		plantMonthly:   newTotals[plantKey](),
		companyMonthly: newTotals[companyKey](),
	}
}

func (a *accumulator) month(label string) *monthBalance {
	b := a.months[label]
	if b == nil {
		b = &monthBalance{}
		a.months[label] = b
		a.monthOrder = append(a.monthOrder, label)
	}
	return b
}

// seed pre-loads the accumulators from a prior snapshot. Companies cut from the
// top-10 pie are restored from their monthly entries so totals survive truncation.
func (a *accumulator) seed(prior Snapshot) error {
	for _, slice := range prior.PieData.SolarPlants {
		a.solar.add(slice.Name, slice.Value)
	}
	for _, slice := range prior.PieData.WindPlants {
		a.wind.add(slice.Name, slice.Value)
	}
	for _, slice := range prior.PieData.Companies {
		a.companies.add(slice.Name, slice.Value)
	}

	for _, entry := range prior.MonthlyData {
		label, err := CanonicalMonth(entry.Month)
		if err != nil {
			return err
		}
		b := a.month(label)
		b.solar += entry.Solar
		b.wind += entry.Wind
		b.demand += entry.Demand
		if extra := entry.TotalSupply - entry.Solar - entry.Wind; extra > roundingSlack {
			b.other += extra
		}
	}

	for _, entry := range prior.PlantMonthly {
		label, err := CanonicalMonth(entry.Month)
		if err != nil {
			return err
		}
		a.plantMonthly.add(plantKey{month: label, category: entry.Type, plant: entry.Plant}, entry.Value)
	}

	truncated := newTotals[string]()
	for _, entry := range prior.CompanyMonthly {
		label, err := CanonicalMonth(entry.Month)
		if err != nil {
			return err
		}
		a.companyMonthly.add(companyKey{month: label, company: entry.Company}, entry.Value)
		if !a.companies.has(entry.Company) {
			truncated.add(entry.Company, entry.Value)
		}
	}
	for _, name := range truncated.keys {
		a.companies.add(name, truncated.values[name])
	}
	return nil
}

func (a *accumulator) fold(record energy.RawRecord) error {
	label, err := recordMonth(record.Timestamp)
	if err != nil {
		return err
	}

	switch record.Category {
	case energy.CategorySolar:
		a.solar.add(record.Entity, record.Value)
		a.month(label).solar += record.Value
		a.plantMonthly.add(plantKey{month: label, category: record.Category, plant: record.Entity}, record.Value)
	case energy.CategoryWind:
		a.wind.add(record.Entity, record.Value)
		a.month(label).wind += record.Value
		a.plantMonthly.add(plantKey{month: label, category: record.Category, plant: record.Entity}, record.Value)
	case energy.CategoryDemand:
		value := math.Abs(record.Value)
		a.companies.add(record.Entity, value)
		a.month(label).demand += value
		a.companyMonthly.add(companyKey{month: label, company: record.Entity}, value)
	default:
		return fmt.Errorf("%w: %q", energy.ErrUnknownCategory, string(record.Category))
	}
	return nil
}

func (a *accumulator) snapshot() Snapshot {
	sort.SliceStable(a.monthOrder, func(i, j int) bool {
		return MonthOrder(a.monthOrder[i]) < MonthOrder(a.monthOrder[j])
	})

	monthly := make([]MonthlyEntry, 0, len(a.monthOrder))
	rates := make([]float64, 0, len(a.monthOrder))
	sizing := make([]energy.IntervalMetrics, 0, len(a.monthOrder))
	for _, label := range a.monthOrder {
		b := a.months[label]
		supply := b.supply()
		rate := energy.MatchRate(supply, b.demand)
		monthly = append(monthly, MonthlyEntry{
			Month:       label,
			Solar:       energy.Round2(b.solar),
			Wind:        energy.Round2(b.wind),
			TotalSupply: energy.Round2(supply),
			Demand:      energy.Round2(b.demand),
			Shortfall:   energy.Round2(energy.Shortfall(supply, b.demand)),
			MatchRate:   energy.Round2(rate),
		})
		rates = append(rates, rate)
		sizing = append(sizing, energy.IntervalMetrics{Timestamp: label, TotalSupply: supply, Demand: b.demand})
	}

	var avgRate float64
	if len(rates) > 0 {
		avgRate = stat.Mean(rates, nil)
	}

	return Snapshot{
		MonthlyData:    monthly,
		PlantMonthly:   a.plantEntries(),
		CompanyMonthly: a.companyEntries(),
		PieData: PieData{
			SolarPlants: pieSlices(a.solar),
			WindPlants:  pieSlices(a.wind),
			Companies:   topSlices(a.companies, TopCompanies),
		},
		ESSCapacity: energy.Round2(energy.DeficitCapacity(sizing)),
		Summary: Summary{
			TotalSolar:   energy.Round2(a.solar.sum()),
			TotalWind:    energy.Round2(a.wind.sum()),
			TotalDemand:  energy.Round2(a.companies.sum()),
			AvgMatchRate: energy.Round2(avgRate),
		},
	}
}

func (a *accumulator) plantEntries() []PlantMonthlyEntry {
	entries := make([]PlantMonthlyEntry, 0, len(a.plantMonthly.keys))
	for _, key := range a.plantMonthly.keys {
		entries = append(entries, PlantMonthlyEntry{
			Month: key.month,
			Type:  key.category,
			Plant: key.plant,
			Value: energy.Round2(a.plantMonthly.values[key]),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return MonthOrder(entries[i].Month) < MonthOrder(entries[j].Month)
	})
	return entries
}

func (a *accumulator) companyEntries() []CompanyMonthlyEntry {
	entries := make([]CompanyMonthlyEntry, 0, len(a.companyMonthly.keys))
	for _, key := range a.companyMonthly.keys {
		entries = append(entries, CompanyMonthlyEntry{
			Month:   key.month,
			Company: key.company,
			Value:   energy.Round2(a.companyMonthly.values[key]),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return MonthOrder(entries[i].Month) < MonthOrder(entries[j].Month)
	})
	return entries
}

func pieSlices(t *totals[string]) []PieSlice {
	out := make([]PieSlice, 0, len(t.keys))
	for _, name := range t.keys {
		out = append(out, PieSlice{Name: name, Value: energy.Round2(t.values[name])})
	}
	return out
}

// topSlices keeps the n largest totals, ties in insertion order.
func topSlices(t *totals[string], n int) []PieSlice {
	out := pieSlices(t)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Merge folds a batch of new records into a prior snapshot and returns the new
// state. The prior is never modified; a nil prior or missing collections count
// as empty. Merging the same batch twice counts it twice.
func Merge(prior *Snapshot, records []energy.RawRecord) (Snapshot, error) {
	acc := newAccumulator()
	if prior != nil {
		if err := acc.seed(*prior); err != nil {
			return Snapshot{}, err
		}
	}
	for _, record := range records {
		if err := acc.fold(record); err != nil {
			return Snapshot{}, err
		}
	}
	return acc.snapshot(), nil
}

// Build computes a snapshot from a full dataset.
func Build(records []energy.RawRecord) (Snapshot, error) {
	return Merge(nil, records)
}
