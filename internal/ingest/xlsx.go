package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXLoader reads the same four columns from a workbook sheet.
type XLSXLoader struct {
	opts Options
}

func NewXLSXLoader(opts Options) *XLSXLoader {
	return &XLSXLoader{opts: opts}
}

func (l *XLSXLoader) Load(r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := l.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Result{}, fmt.Errorf("%w: workbook has no sheets", ErrInvalidHeader)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Result{}, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("%w: sheet %q is empty", ErrInvalidHeader, sheet)
	}

	index, err := parseHeader(rows[0])
	if err != nil {
		return Result{}, err
	}
	return convertRows(index, rows[1:], l.opts)
}
