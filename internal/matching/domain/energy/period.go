package energy

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Period selects the bucket used by PeriodPivot.
type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodDaily     Period = "daily"
	PeriodHourOfDay Period = "hourly"
)

// View selects which records PeriodPivot keeps.
type View string

const (
	ViewPlants    View = "plants"
	ViewCompanies View = "companies"
)

// PeriodRow is one bucket of a per-entity comparison table.
type PeriodRow struct {
	Period  string             `json:"period"`
	Columns []string           `json:"columns"`
	Values  map[string]float64 `json:"values"`
}

func (p Period) key(ts time.Time) (string, error) {
	switch p {
	case PeriodMonthly:
		return ts.Format("2006-01"), nil
	case PeriodDaily:
		return ts.Format("2006-01-02"), nil
	case PeriodHourOfDay:
		return ts.Format("15") + ":00", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, string(p))
	}
}

type periodTable struct {
	order []string
	rows  map[string]*PeriodRow
	count map[string]map[string]int
}

func newPeriodTable() *periodTable {
	return &periodTable{
		rows:  make(map[string]*PeriodRow),
		count: make(map[string]map[string]int),
	}
}

func (t *periodTable) add(period, column string, value float64) {
	row := t.rows[period]
	if row == nil {
		row = &PeriodRow{Period: period, Values: make(map[string]float64)}
		t.rows[period] = row
		t.count[period] = make(map[string]int)
		t.order = append(t.order, period)
	}
	if _, ok := row.Values[column]; !ok {
		row.Columns = append(row.Columns, column)
	}
	row.Values[column] += value
	t.count[period][column]++
}

func (t *periodTable) sorted() []PeriodRow {
	sort.Strings(t.order)
	result := make([]PeriodRow, 0, len(t.order))
	for _, period := range t.order {
		result = append(result, *t.rows[period])
	}
	return result
}

// PeriodPivot sums record values per (period, column). The plants view keeps
// solar and wind under "<type>_<name>"; the companies view keeps demand under the
// bare company name using absolute values.
func PeriodPivot(records []RawRecord, period Period, view View) ([]PeriodRow, error) {
	if view != ViewPlants && view != ViewCompanies {
		return nil, fmt.Errorf("%w: %q", ErrInvalidView, string(view))
	}
	if _, err := period.key(time.Time{}); err != nil {
		return nil, err
	}

	table := newPeriodTable()
	for _, record := range records {
		value := record.Value
		switch {
		case view == ViewPlants && record.Category.IsSupply():
		case view == ViewCompanies && record.Category == CategoryDemand:
			value = math.Abs(value)
		default:
			continue
		}

		ts, err := ParseTimestamp(record.Timestamp)
		if err != nil {
			return nil, err
		}
		key, err := period.key(ts)
		if err != nil {
			return nil, err
		}
		table.add(key, record.Column().Key(), value)
	}
	return table.sorted(), nil
}

// EntityHourlyProfile averages record values per (hour-of-day, entity) for one
// category. selected restricts the entities; empty means all.
func EntityHourlyProfile(records []RawRecord, category Category, selected []string) ([]PeriodRow, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, string(category))
	}
	allowed := allowList(selected)

	table := newPeriodTable()
	for _, record := range records {
		if record.Category != category {
			continue
		}
		if allowed != nil && !allowed[record.Entity] {
			continue
		}
		ts, err := ParseTimestamp(record.Timestamp)
		if err != nil {
			return nil, err
		}
		key, _ := PeriodHourOfDay.key(ts)
		table.add(key, record.Entity, record.Value)
	}

	rows := table.sorted()
	for i := range rows {
		counts := table.count[rows[i].Period]
		for column, total := range rows[i].Values {
			rows[i].Values[column] = total / float64(counts[column])
		}
	}
	return rows, nil
}
