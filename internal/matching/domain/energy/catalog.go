package energy

import "sort"

// EntityCatalog lists distinct entity names per category in first-seen order.
type EntityCatalog struct {
	Solar  []string `json:"solar"`
	Wind   []string `json:"wind"`
	Demand []string `json:"demand"`
}

// BuildCatalog extracts the distinct plant and company names of a record stream.
func BuildCatalog(records []RawRecord) EntityCatalog {
	catalog := EntityCatalog{
		Solar:  []string{},
		Wind:   []string{},
		Demand: []string{},
	}
	seen := map[Category]map[string]bool{
		CategorySolar:  {},
		CategoryWind:   {},
		CategoryDemand: {},
	}

	for _, record := range records {
		names, ok := seen[record.Category]
		if !ok || names[record.Entity] {
			continue
		}
		names[record.Entity] = true
		switch record.Category {
		case CategorySolar:
			catalog.Solar = append(catalog.Solar, record.Entity)
		case CategoryWind:
			catalog.Wind = append(catalog.Wind, record.Entity)
		case CategoryDemand:
			catalog.Demand = append(catalog.Demand, record.Entity)
		}
	}
	return catalog
}

// Sorted returns a copy with every list in alphabetical order.
func (c EntityCatalog) Sorted() EntityCatalog {
	return EntityCatalog{
		Solar:  sortedCopy(c.Solar),
		Wind:   sortedCopy(c.Wind),
		Demand: sortedCopy(c.Demand),
	}
}

// DefaultSelection returns the first n companies alphabetically.
func (c EntityCatalog) DefaultSelection(n int) []string {
	companies := sortedCopy(c.Demand)
	if n < 0 {
		n = 0
	}
	if len(companies) > n {
		companies = companies[:n]
	}
	return companies
}

func sortedCopy(values []string) []string {
	out := append([]string{}, values...)
	sort.Strings(out)
	return out
}
