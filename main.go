package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"re100-analytics/internal/config"
	"re100-analytics/internal/ingest"
	"re100-analytics/internal/matching/application"
	"re100-analytics/internal/matching/application/eventbus"
	"re100-analytics/internal/matching/domain/energy"
	"re100-analytics/internal/matching/domain/snapshot"
	"re100-analytics/internal/matching/infrastructure/memory"
	"re100-analytics/internal/matching/infrastructure/reference"
	"re100-analytics/internal/observability/metrics"
	"re100-analytics/internal/report"
)

const referenceDir = "agg_data"

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults to RE100_CONFIG)")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Fatalf("analysis failed: %v", err)
	}
}

type runner struct {
	cfg     config.Config
	logger  *log.Logger
	objects *ingest.ObjectFetcher
	source  *ingest.PostgresSource
	service *application.AnalysisService
}

func run(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	r := &runner{cfg: cfg, logger: logger}

	var db *sql.DB
	if cfg.Postgres.DSN != "" {
		var err error
		db, err = ingest.OpenPostgres(cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("db open error: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("db ping error: %w", err)
		}
		r.source = ingest.NewPostgresSource(db, ingest.WithTable(cfg.Postgres.Table), ingest.WithOptions(r.loadOptions()))
		metrics.Init(db, r.source.Table(), logger)
	} else {
		metrics.Init(nil, "", logger)
	}

	if cfg.NeedsObjectStore() || ingest.IsObjectURI(cfg.Reference) {
		objects, err := ingest.NewObjectFetcher(cfg.ObjectStore)
		if err != nil {
			return err
		}
		r.objects = objects
	}

	bus := eventbus.NewInMemoryBus()
	application.WireAnalysisEvents(bus, logger)
	service, err := application.NewAnalysisService(memory.NewSnapshotRepository(), memory.NewBatchLedger(), bus)
	if err != nil {
		return err
	}
	r.service = service

	datasetID, err := r.initialLoad(ctx)
	if err != nil {
		return err
	}

	for _, batch := range cfg.Batches {
		records, err := r.loadFiles(ctx, batch.Inputs)
		if err != nil {
			return err
		}
		if err := r.appendBatch(ctx, datasetID, batch.ID, records); err != nil {
			return err
		}
	}

	final, err := service.Snapshot(ctx, datasetID)
	if err != nil {
		return err
	}
	if err := r.writeSnapshot(final); err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("metrics textfile: %w", err)
		}
	}
	return nil
}

// initialLoad starts the dataset either from a reference snapshot, with the
// configured inputs merged on top, or from a full analysis of the raw inputs.
func (r *runner) initialLoad(ctx context.Context) (string, error) {
	records, err := r.loadFiles(ctx, r.cfg.Inputs)
	if err != nil {
		return "", err
	}
	if r.source != nil {
		fromDB, err := r.queryPostgres(ctx)
		if err != nil {
			return "", err
		}
		records = append(records, fromDB...)
	}

	if r.cfg.Reference != "" {
		snap, err := r.readReference(ctx)
		if err != nil {
			return "", err
		}
		datasetID, err := r.service.LoadReference(ctx, snap)
		if err != nil {
			return "", err
		}
		if len(records) > 0 {
			if err := r.appendBatch(ctx, datasetID, "inputs", records); err != nil {
				return "", err
			}
		}
		return datasetID, nil
	}

	analysis, err := r.service.LoadDataset(ctx, records, r.cfg.Companies)
	if err != nil {
		return "", err
	}
	r.logger.Printf("analysis: intervals=%d months=%d ess_deficit=%.2f ess_imbalance=%.2f avg_rate=%.2f",
		len(analysis.Intervals), len(analysis.Monthly), analysis.DeficitCapacity, analysis.ImbalanceCapacity, analysis.Summary.AvgMatchRate)

	docs, err := reference.BuildDocuments(records)
	if err != nil {
		return "", err
	}
	if err := reference.WriteDocuments(filepath.Join(r.cfg.OutputDir, referenceDir), docs); err != nil {
		return "", fmt.Errorf("write reference documents: %w", err)
	}
	if err := r.writeReports(analysis); err != nil {
		return "", err
	}
	return analysis.DatasetID, nil
}

func (r *runner) loadOptions() ingest.Options {
	opts := ingest.Options{Scale: r.cfg.UnitScale, Sheet: r.cfg.Sheet}
	if r.cfg.Progress {
		opts.Progress = os.Stderr
	}
	return opts
}

func (r *runner) loadFiles(ctx context.Context, locations []string) ([]energy.RawRecord, error) {
	var records []energy.RawRecord
	for _, location := range locations {
		start := time.Now()
		result, err := ingest.Load(ctx, location, r.loadOptions(), r.objects)
		r.observe(sourceLabel(location), result, err, start)
		if err != nil {
			return nil, err
		}
		r.logger.Printf("loaded %s: records=%d rejected=%d", location, len(result.Records), result.RejectedTotal())
		records = append(records, result.Records...)
	}
	return records, nil
}

func (r *runner) queryPostgres(ctx context.Context) ([]energy.RawRecord, error) {
	from, to, err := r.cfg.Postgres.Range()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	result, err := r.source.Query(ctx, from, to)
	r.observe("postgres", result, err, start)
	if err != nil {
		return nil, fmt.Errorf("postgres source: %w", err)
	}
	r.logger.Printf("loaded postgres %s: records=%d rejected=%d", r.source.Table(), len(result.Records), result.RejectedTotal())
	return result.Records, nil
}

func (r *runner) observe(source string, result ingest.Result, err error, start time.Time) {
	metrics.ObserveLoad(source, metrics.Result(err), len(result.Records), time.Since(start))
	for reason, count := range result.Rejected {
		metrics.IncRejectedRows(reason, count)
	}
}

func (r *runner) appendBatch(ctx context.Context, datasetID, batchID string, records []energy.RawRecord) error {
	start := time.Now()
	_, err := r.service.AppendBatch(ctx, datasetID, batchID, records)
	metrics.ObserveMerge(metrics.Result(err), time.Since(start))
	if err != nil {
		return fmt.Errorf("batch %s: %w", batchID, err)
	}
	return nil
}

func (r *runner) readReference(ctx context.Context) (snapshot.Snapshot, error) {
	location := r.cfg.Reference
	if strings.EqualFold(filepath.Ext(location), ".json") {
		rc, err := ingest.Open(ctx, location, r.objects)
		if err != nil {
			return snapshot.Snapshot{}, err
		}
		defer rc.Close()
		return reference.ReadSnapshot(rc)
	}

	docs, err := reference.ReadDocuments(location)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return docs.Snapshot()
}

func (r *runner) writeReports(analysis application.Analysis) error {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return err
	}
	for _, format := range r.cfg.Reports {
		var (
			body []byte
			err  error
		)
		switch format {
		case "pdf":
			body, err = report.BuildPDF(analysis)
		default:
			body, err = report.BuildXLSX(analysis)
		}
		if err == nil {
			err = os.WriteFile(filepath.Join(r.cfg.OutputDir, "re100_report."+format), body, 0o644)
		}
		metrics.IncReportExport(format, metrics.Result(err))
		if err != nil {
			return fmt.Errorf("report %s: %w", format, err)
		}
	}
	return nil
}

func (r *runner) writeSnapshot(snap snapshot.Snapshot) error {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(r.cfg.OutputDir, reference.SnapshotFile)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := reference.WriteSnapshot(f, snap); err != nil {
		return err
	}
	r.logger.Printf("snapshot written: %s months=%d ess=%.2f", path, len(snap.MonthlyData), snap.ESSCapacity)
	return nil
}

func sourceLabel(location string) string {
	if ingest.IsObjectURI(location) {
		return "object"
	}
	format, err := ingest.DetectFormat(location)
	if err != nil {
		return "unknown"
	}
	return string(format)
}
