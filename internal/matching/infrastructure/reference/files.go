package reference

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"re100-analytics/internal/matching/domain/snapshot"
)

// File names of the reference documents inside their directory.
const (
	MonthlyFile        = "monthly_aggregated.json"
	PlantMonthlyFile   = "plant_monthly_aggregated.json"
	PlantHourlyFile    = "plant_hourly_aggregated.json"
	CompanyMonthlyFile = "company_monthly_aggregated.json"
	CompanyHourlyFile  = "company_hourly_aggregated.json"
	SnapshotFile       = "aggregate_snapshot.json"
)

// ErrMissingDocument is returned when a reference directory lacks a document.
var ErrMissingDocument = errors.New("reference: missing document")

func (d Documents) files() map[string]any {
	return map[string]any{
		MonthlyFile:        d.Monthly,
		PlantMonthlyFile:   d.PlantMonthly,
		PlantHourlyFile:    d.PlantHourly,
		CompanyMonthlyFile: d.CompanyMonthly,
		CompanyHourlyFile:  d.CompanyHourly,
	}
}

// WriteDocuments writes every document as indented JSON into dir.
func WriteDocuments(dir string, docs Documents) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, doc := range docs.files() {
		if err := writeJSON(filepath.Join(dir, name), doc); err != nil {
			return err
		}
	}
	return nil
}

// ReadDocuments loads the documents written by WriteDocuments.
func ReadDocuments(dir string) (Documents, error) {
	var docs Documents
	targets := map[string]any{
		MonthlyFile:        &docs.Monthly,
		PlantMonthlyFile:   &docs.PlantMonthly,
		PlantHourlyFile:    &docs.PlantHourly,
		CompanyMonthlyFile: &docs.CompanyMonthly,
		CompanyHourlyFile:  &docs.CompanyHourly,
	}
	for name, target := range targets {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return Documents{}, fmt.Errorf("%w: %s", ErrMissingDocument, path)
		}
		if err != nil {
			return Documents{}, err
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return Documents{}, fmt.Errorf("reference: decode %s: %w", name, err)
		}
	}
	return docs, nil
}

// ReadSnapshot decodes a snapshot. Missing collections decode as empty.
func ReadSnapshot(r io.Reader) (snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("reference: decode snapshot: %w", err)
	}
	return snap, nil
}

func WriteSnapshot(w io.Writer, snap snapshot.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func writeJSON(path string, doc any) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
