package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVLoader reads "datetime,type,plant_name,value" exports.
type CSVLoader struct {
	opts Options
}

func NewCSVLoader(opts Options) *CSVLoader {
	return &CSVLoader{opts: opts}
}

func (l *CSVLoader) Load(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return Result{}, fmt.Errorf("reading CSV header: %w", err)
	}
	index, err := parseHeader(header)
	if err != nil {
		return Result{}, err
	}

	var rows [][]string
	lineNum := 1
	for {
		lineNum++
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("reading CSV line %d: %w", lineNum, err)
		}
		rows = append(rows, row)
	}

	return convertRows(index, rows, l.opts)
}
