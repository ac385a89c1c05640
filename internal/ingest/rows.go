package ingest

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/cheggaaa/pb.v1"

	"re100-analytics/internal/matching/domain/energy"
)

// Columns every input must carry, in any order.
var requiredColumns = []string{"datetime", "type", "plant_name", "value"}

// Options configure the row loaders.
type Options struct {
	// Scale multiplies every value (e.g. 0.000001 for kWh to GWh). Zero means 1.
	Scale float64
	// Progress, when set, receives a progress bar while rows are converted.
	Progress io.Writer
	// Sheet selects the XLSX sheet. Empty means the first sheet.
	Sheet string
}

func (o Options) scale() float64 {
	if o.Scale == 0 {
		return 1
	}
	return o.Scale
}

// Result is the outcome of one load: the accepted records and the number of
// skipped rows per reason.
type Result struct {
	Records  []energy.RawRecord
	Rejected map[string]int
}

// RejectedTotal sums the skipped rows over all reasons.
func (r Result) RejectedTotal() int {
	total := 0
	for _, count := range r.Rejected {
		total += count
	}
	return total
}

type columnIndex map[string]int

func parseHeader(header []string) (columnIndex, error) {
	index := make(columnIndex, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	for _, column := range requiredColumns {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidHeader, column)
		}
	}
	return index, nil
}

func (c columnIndex) field(row []string, column string) string {
	i := c[column]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// convertRows turns data rows (header excluded) into records, skipping and
// counting malformed ones.
func convertRows(index columnIndex, rows [][]string, opts Options) (Result, error) {
	result := Result{
		Records:  make([]energy.RawRecord, 0, len(rows)),
		Rejected: make(map[string]int),
	}

	var bar *pb.ProgressBar
	if opts.Progress != nil {
		bar = pb.New(len(rows))
		bar.Output = opts.Progress
		bar.ShowTimeLeft = false
		bar.Start()
	}

	scale := opts.scale()
	for _, row := range rows {
		record, reason := convertRow(index, row, scale)
		if reason != "" {
			result.Rejected[reason]++
		} else {
			result.Records = append(result.Records, record)
		}
		if bar != nil {
			bar.Increment()
		}
	}

	if bar != nil {
		bar.FinishPrint(fmt.Sprintf("\t%d rows loaded, %d skipped", len(result.Records), result.RejectedTotal()))
	}
	if len(result.Records) == 0 {
		return result, ErrNoValidRows
	}
	return result, nil
}

func convertRow(index columnIndex, row []string, scale float64) (energy.RawRecord, string) {
	datetime := index.field(row, "datetime")
	kind := index.field(row, "type")
	entity := index.field(row, "plant_name")
	raw := index.field(row, "value")
	if datetime == "" || kind == "" || entity == "" || raw == "" {
		return energy.RawRecord{}, ReasonMissingField
	}

	category, err := energy.ParseCategory(kind)
	if err != nil {
		return energy.RawRecord{}, ReasonUnknownType
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return energy.RawRecord{}, ReasonInvalidValue
	}
	if _, err := energy.ParseTimestamp(datetime); err != nil {
		return energy.RawRecord{}, ReasonInvalidTimestamp
	}

	return energy.RawRecord{
		Timestamp: datetime,
		Category:  category,
		Entity:    entity,
		Value:     value * scale,
	}, ""
}
