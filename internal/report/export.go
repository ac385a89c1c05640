package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"re100-analytics/internal/matching/application"
)

// Sheet names of the XLSX report.
const (
	SheetSummary   = "summary"
	SheetMonthly   = "monthly"
	SheetHourly    = "hourly"
	SheetCompanies = "companies"
	SheetSnapshot  = "snapshot_monthly"
)

// BuildXLSX renders the analysis tables into a workbook.
func BuildXLSX(a application.Analysis) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, sheet := range []string{SheetMonthly, SheetHourly, SheetCompanies, SheetSnapshot} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}

	summary := [][]any{
		{"24/7 RE100 Analysis"},
		{},
		{"Dataset", a.DatasetID},
		{"Records", a.Records},
		{"Total Solar", a.Summary.TotalSolar},
		{"Total Wind", a.Summary.TotalWind},
		{"Total Supply", a.Summary.TotalSupply},
		{"Total Demand", a.Summary.TotalDemand},
		{"Avg Matching Rate (%)", a.Summary.AvgMatchRate},
		{"Current Matching Rate (%)", a.Summary.CurrentMatchRate},
		{"ESS Capacity (deficit)", a.DeficitCapacity},
		{"ESS Capacity (imbalance)", a.ImbalanceCapacity},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return nil, err
	}

	monthly := [][]any{{"Month", "Supply", "Demand", "Shortfall", "Matching Rate (%)", "Intervals"}}
	for _, m := range a.Monthly {
		monthly = append(monthly, []any{m.Month, m.TotalSupply, m.TotalDemand, m.Shortfall, m.MatchRate, m.Intervals})
	}
	if err := writeRows(f, SheetMonthly, monthly); err != nil {
		return nil, err
	}

	hourly := [][]any{{"Hour", "Avg Supply", "Avg Demand", "Matching Rate (%)", "Intervals"}}
	for _, h := range a.Hourly {
		hourly = append(hourly, []any{h.Hour, h.AvgSupply, h.AvgDemand, h.MatchRate, h.Intervals})
	}
	if err := writeRows(f, SheetHourly, hourly); err != nil {
		return nil, err
	}

	companies := [][]any{{"Company", "Demand"}}
	for _, c := range a.Snapshot.PieData.Companies {
		companies = append(companies, []any{c.Name, c.Value})
	}
	if err := writeRows(f, SheetCompanies, companies); err != nil {
		return nil, err
	}

	snap := [][]any{{"Month", "Solar", "Wind", "Supply", "Demand", "Shortfall", "Matching Rate (%)"}}
	for _, m := range a.Snapshot.MonthlyData {
		snap = append(snap, []any{m.Month, m.Solar, m.Wind, m.TotalSupply, m.Demand, m.Shortfall, m.MatchRate})
	}
	if err := writeRows(f, SheetSnapshot, snap); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// BuildPDF renders a one-document summary. Core PDF fonts are Latin-1 only, so
// months are printed as YYYY-MM.
func BuildPDF(a application.Analysis) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "24/7 RE100 Analysis")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	lines := []string{
		fmt.Sprintf("Dataset: %s", a.DatasetID),
		fmt.Sprintf("Records: %d", a.Records),
		fmt.Sprintf("Total Supply: %.2f", a.Summary.TotalSupply),
		fmt.Sprintf("Total Demand: %.2f", a.Summary.TotalDemand),
		fmt.Sprintf("Avg Matching Rate: %.2f%%", a.Summary.AvgMatchRate),
		fmt.Sprintf("ESS Capacity (deficit): %.2f", a.DeficitCapacity),
		fmt.Sprintf("ESS Capacity (imbalance): %.2f", a.ImbalanceCapacity),
	}
	for _, line := range lines {
		pdf.Cell(0, 6, line)
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	for _, header := range []string{"Month", "Supply", "Demand", "Shortfall", "Rate (%)"} {
		pdf.CellFormat(36, 6, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, m := range a.Monthly {
		pdf.CellFormat(36, 6, m.Month, "1", 0, "C", false, 0, "")
		pdf.CellFormat(36, 6, fmt.Sprintf("%.2f", m.TotalSupply), "1", 0, "R", false, 0, "")
		pdf.CellFormat(36, 6, fmt.Sprintf("%.2f", m.TotalDemand), "1", 0, "R", false, 0, "")
		pdf.CellFormat(36, 6, fmt.Sprintf("%.2f", m.Shortfall), "1", 0, "R", false, 0, "")
		pdf.CellFormat(36, 6, fmt.Sprintf("%.2f", m.MatchRate), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Company", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Demand", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, c := range a.Snapshot.PieData.Companies {
		pdf.CellFormat(60, 6, c.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", c.Value), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
