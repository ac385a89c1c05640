package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"re100-analytics/internal/ingest"
)

var ErrNoInput = errors.New("config: no input source")

// Batch is a set of files appended to the dataset after the initial load.
type Batch struct {
	ID     string   `yaml:"id"`
	Inputs []string `yaml:"inputs"`
}

// PostgresConfig selects measurements from a read-only table.
type PostgresConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
	From  string `yaml:"from"`
	To    string `yaml:"to"`
}

// Config defines a batch analysis run.
type Config struct {
	Inputs      []string                 `yaml:"inputs"`
	Batches     []Batch                  `yaml:"batches"`
	Reference   string                   `yaml:"reference"`
	Companies   []string                 `yaml:"companies"`
	UnitScale   float64                  `yaml:"unit_scale"`
	Sheet       string                   `yaml:"sheet"`
	OutputDir   string                   `yaml:"output_dir"`
	Reports     []string                 `yaml:"reports"`
	MetricsFile string                   `yaml:"metrics_file"`
	Progress    bool                     `yaml:"progress"`
	Postgres    PostgresConfig           `yaml:"postgres"`
	ObjectStore ingest.ObjectStoreConfig `yaml:"object_store"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment. An empty path falls back to RE100_CONFIG.
func Load(path string) (Config, error) {
	cfg := Config{
		UnitScale: getenvFloatDefault("RE100_UNIT_SCALE", 1),
		OutputDir: getenvDefault("RE100_OUTPUT_DIR", filepath.FromSlash("var/re100")),
		Progress:  getenvBoolDefault("RE100_PROGRESS", false),
	}

	if path == "" {
		path = os.Getenv("RE100_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if len(cfg.Inputs) == 0 {
		cfg.Inputs = splitCSV(os.Getenv("RE100_INPUTS"))
	}
	if cfg.Reference == "" {
		cfg.Reference = os.Getenv("RE100_REFERENCE")
	}
	if len(cfg.Companies) == 0 {
		cfg.Companies = splitCSV(os.Getenv("RE100_COMPANIES"))
	}
	if len(cfg.Reports) == 0 {
		cfg.Reports = splitCSV(getenvDefault("RE100_REPORTS", "xlsx"))
	}
	if cfg.MetricsFile == "" {
		cfg.MetricsFile = os.Getenv("RE100_METRICS_FILE")
	}
	if cfg.Postgres.DSN == "" {
		cfg.Postgres.DSN = getenvDefault("DATABASE_URL", os.Getenv("PG_DSN"))
	}
	if cfg.ObjectStore.Endpoint == "" {
		cfg.ObjectStore.Endpoint = os.Getenv("MINIO_ENDPOINT")
	}
	if cfg.ObjectStore.AccessKey == "" {
		cfg.ObjectStore.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	}
	if cfg.ObjectStore.SecretKey == "" {
		cfg.ObjectStore.SecretKey = os.Getenv("MINIO_SECRET_KEY")
	}
	if cfg.UnitScale == 0 {
		cfg.UnitScale = 1
	}
	for i := range cfg.Batches {
		if cfg.Batches[i].ID == "" {
			cfg.Batches[i].ID = strings.Join(cfg.Batches[i].Inputs, "+")
		}
	}

	return cfg, cfg.Validate()
}

// Validate rejects runs without any input and unknown report formats.
func (c Config) Validate() error {
	if len(c.Inputs) == 0 && c.Reference == "" && c.Postgres.DSN == "" {
		return ErrNoInput
	}
	for _, format := range c.Reports {
		if format != "xlsx" && format != "pdf" {
			return fmt.Errorf("config: unknown report format %q", format)
		}
	}
	seen := make(map[string]bool, len(c.Batches))
	for _, batch := range c.Batches {
		if len(batch.Inputs) == 0 {
			return fmt.Errorf("config: batch %q has no inputs", batch.ID)
		}
		if seen[batch.ID] {
			return fmt.Errorf("config: duplicate batch id %q", batch.ID)
		}
		seen[batch.ID] = true
	}
	if _, _, err := c.Postgres.Range(); err != nil {
		return err
	}
	for _, location := range c.locations() {
		if ingest.IsObjectURI(location) && c.ObjectStore.Endpoint == "" {
			return fmt.Errorf("config: %s needs object_store.endpoint", location)
		}
	}
	return nil
}

// NeedsObjectStore reports whether any input lives in a bucket.
func (c Config) NeedsObjectStore() bool {
	for _, location := range c.locations() {
		if ingest.IsObjectURI(location) {
			return true
		}
	}
	return false
}

func (c Config) locations() []string {
	locations := append([]string{}, c.Inputs...)
	for _, batch := range c.Batches {
		locations = append(locations, batch.Inputs...)
	}
	return locations
}

// Range parses the optional [from, to) bounds. Dates and RFC3339 are accepted.
func (p PostgresConfig) Range() (time.Time, time.Time, error) {
	from, err := parseBound(p.From)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseBound(p.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return time.Time{}, time.Time{}, errors.New("config: postgres range is empty")
	}
	return from, to, nil
}

func parseBound(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	ts, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: invalid time bound %q", value)
	}
	return ts, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
