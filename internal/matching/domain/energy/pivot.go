package energy

// Cell is one column value inside a wide row.
type Cell struct {
	Column Column
	Value  float64
}

// WideRow holds every observation sharing one timestamp, one cell per column.
// Cells keep first-seen column order; the category travels with each column so
// consumers never re-derive it from the column name.
type WideRow struct {
	Timestamp string
	Cells     []Cell
}

// Get returns the value stored under a column key ("solar_x", "wind_x" or a bare
// demand entity).
func (r WideRow) Get(key string) (float64, bool) {
	for _, cell := range r.Cells {
		if cell.Column.Key() == key {
			return cell.Value, true
		}
	}
	return 0, false
}

// Keys lists the column keys of the row in first-seen order.
func (r WideRow) Keys() []string {
	keys := make([]string, 0, len(r.Cells))
	for _, cell := range r.Cells {
		keys = append(keys, cell.Column.Key())
	}
	return keys
}

// Records expands the row back into raw records.
func (r WideRow) Records() []RawRecord {
	records := make([]RawRecord, 0, len(r.Cells))
	for _, cell := range r.Cells {
		records = append(records, RawRecord{
			Timestamp: r.Timestamp,
			Category:  cell.Column.Category,
			Entity:    cell.Column.Entity,
			Value:     cell.Value,
		})
	}
	return records
}

// Pivot reshapes long records into one row per distinct timestamp string, in
// first-seen timestamp order. A repeated (timestamp, column) pair overwrites the
// earlier value in place: last write wins, nothing is summed.
func Pivot(records []RawRecord) []WideRow {
	rows := make([]WideRow, 0)
	rowIndex := make(map[string]int)
	cellIndex := make([]map[Column]int, 0)

	for _, record := range records {
		idx, ok := rowIndex[record.Timestamp]
		if !ok {
			idx = len(rows)
			rowIndex[record.Timestamp] = idx
			rows = append(rows, WideRow{Timestamp: record.Timestamp})
			cellIndex = append(cellIndex, make(map[Column]int))
		}

		column := record.Column()
		if pos, seen := cellIndex[idx][column]; seen {
			rows[idx].Cells[pos].Value = record.Value
			continue
		}
		cellIndex[idx][column] = len(rows[idx].Cells)
		rows[idx].Cells = append(rows[idx].Cells, Cell{Column: column, Value: record.Value})
	}
	return rows
}
