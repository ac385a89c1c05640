package metrics

import (
	"database/sql"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "re100_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	loadTotal   *prometheus.CounterVec
	loadLatency *prometheus.HistogramVec
	loadRecords *prometheus.CounterVec

	rejectedRows *prometheus.CounterVec

	mergeTotal   *prometheus.CounterVec
	mergeLatency *prometheus.HistogramVec

	reportTotal *prometheus.CounterVec

	capacity      *prometheus.GaugeVec
	avgMatchRate  prometheus.Gauge
	datasetsTotal prometheus.Counter
)

// Init registers the analysis metrics. When db is set, a gauge over the row count
// of the measurement table is registered as well.
func Init(db *sql.DB, table string, logger *log.Logger) {
	registerOnce.Do(func() {
		loadTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "load_total",
				Help: "Total dataset loads by source and result",
			},
			[]string{"source", "result"},
		)
		loadLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "load_latency_seconds",
				Help:    "Dataset load latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source", "result"},
		)
		loadRecords = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "load_records_total",
				Help: "Total records accepted by source",
			},
			[]string{"source"},
		)

		rejectedRows = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rejected_rows_total",
				Help: "Total input rows rejected by reason",
			},
			[]string{"reason"},
		)

		mergeTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "merge_total",
				Help: "Total snapshot merges by result",
			},
			[]string{"result"},
		)
		mergeLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "merge_latency_seconds",
				Help:    "Snapshot merge latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		reportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)

		capacity = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "ess_capacity",
				Help: "Storage capacity of the latest analysis by sizing method",
			},
			[]string{"method"},
		)
		avgMatchRate = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "avg_match_rate_percent",
				Help: "Average monthly matching rate of the latest snapshot",
			},
		)
		datasetsTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "datasets_total",
				Help: "Total datasets analysed",
			},
		)

		prometheus.MustRegister(
			loadTotal,
			loadLatency,
			loadRecords,
			rejectedRows,
			mergeTotal,
			mergeLatency,
			reportTotal,
			capacity,
			avgMatchRate,
			datasetsTotal,
		)

		if db != nil && table != "" {
			registerDBMetrics(db, table, logger)
		}
	})
}

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// ObserveLoad records a dataset load.
func ObserveLoad(source, result string, records int, duration time.Duration) {
	if source == "" {
		source = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if loadTotal != nil {
		loadTotal.WithLabelValues(source, result).Inc()
	}
	if loadLatency != nil {
		loadLatency.WithLabelValues(source, result).Observe(duration.Seconds())
	}
	if loadRecords != nil && records > 0 {
		loadRecords.WithLabelValues(source).Add(float64(records))
	}
}

// IncRejectedRows counts rows a loader skipped.
func IncRejectedRows(reason string, count int) {
	if reason == "" {
		reason = "unknown"
	}
	if rejectedRows != nil && count > 0 {
		rejectedRows.WithLabelValues(reason).Add(float64(count))
	}
}

// ObserveMerge records one snapshot merge.
func ObserveMerge(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if mergeTotal != nil {
		mergeTotal.WithLabelValues(result).Inc()
	}
	if mergeLatency != nil {
		mergeLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncReportExport counts a rendered report.
func IncReportExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if reportTotal != nil {
		reportTotal.WithLabelValues(format, result).Inc()
	}
}

// SetCapacity publishes the storage sizing of the latest analysis.
func SetCapacity(method string, value float64) {
	if capacity != nil {
		capacity.WithLabelValues(method).Set(value)
	}
}

func SetAvgMatchRate(value float64) {
	if avgMatchRate != nil {
		avgMatchRate.Set(value)
	}
}

func IncDataset() {
	if datasetsTotal != nil {
		datasetsTotal.Inc()
	}
}

// WriteTextfile dumps the default registry in the node-exporter textfile format.
func WriteTextfile(path string) error {
	if path == "" {
		return errors.New("metrics: empty textfile path")
	}
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
