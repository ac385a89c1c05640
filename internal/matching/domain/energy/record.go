package energy

import (
	"fmt"
	"strings"
)

// Category tags a record as generation (solar, wind) or consumption (demand).
type Category string

const (
	CategorySolar  Category = "solar"
	CategoryWind   Category = "wind"
	CategoryDemand Category = "demand"
)

// IsValid checks if the category is one of the supported values.
func (c Category) IsValid() bool {
	switch c {
	case CategorySolar, CategoryWind, CategoryDemand:
		return true
	default:
		return false
	}
}

// IsSupply reports whether the category contributes to renewable supply.
func (c Category) IsSupply() bool {
	return c == CategorySolar || c == CategoryWind
}

// ParseCategory normalizes a loader-provided type string.
func ParseCategory(value string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, value)
	}
	return c, nil
}

// RawRecord is one (entity, timestamp) observation as delivered by a loader.
// Values are already unit-converted; solar and wind are non-negative and demand
// may arrive signed, which is why consumers take its absolute value.
type RawRecord struct {
	Timestamp string   `json:"datetime"`
	Category  Category `json:"type"`
	Entity    string   `json:"plant_name"`
	Value     float64  `json:"value"`
}

// Column identifies a wide-row column by category and entity.
type Column struct {
	Category Category
	Entity   string
}

// Key returns the column name exposed to consumers: the bare entity for demand,
// "<category>_<entity>" for generation.
func (c Column) Key() string {
	return ColumnKey(c.Category, c.Entity)
}

// ColumnKey builds the wide-format column name for a category and entity.
func ColumnKey(category Category, entity string) string {
	if category == CategoryDemand {
		return entity
	}
	return string(category) + "_" + entity
}

// Column returns the wide-row column this record lands in.
func (r RawRecord) Column() Column {
	return Column{Category: r.Category, Entity: r.Entity}
}
