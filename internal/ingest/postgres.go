package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const defaultMeasurementTable = "energy_measurements"

// PostgresSource reads raw records from a measurement table through the pgx
// database/sql driver. It never writes.
type PostgresSource struct {
	db    *sql.DB
	table string
	opts  Options
}

// SourceOption configures the Postgres source.
type SourceOption func(*PostgresSource)

// WithTable overrides the default measurement table name.
func WithTable(table string) SourceOption {
	return func(s *PostgresSource) {
		if s != nil && table != "" {
			s.table = table
		}
	}
}

func WithOptions(opts Options) SourceOption {
	return func(s *PostgresSource) {
		if s != nil {
			s.opts = opts
		}
	}
}

// OpenPostgres opens a pgx-backed *sql.DB.
func OpenPostgres(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("ingest: empty postgres dsn")
	}
	return sql.Open("pgx", dsn)
}

func NewPostgresSource(db *sql.DB, opts ...SourceOption) *PostgresSource {
	source := &PostgresSource{db: db, table: defaultMeasurementTable}
	for _, opt := range opts {
		opt(source)
	}
	return source
}

// Table returns the measurement table name.
func (s *PostgresSource) Table() string {
	return s.table
}

// Query returns the records measured within [start, end). Zero bounds are open.
func (s *PostgresSource) Query(ctx context.Context, start, end time.Time) (Result, error) {
	if s == nil || s.db == nil {
		return Result{}, errors.New("ingest: nil db")
	}

	var (
		where []string
		args  []any
	)
	if !start.IsZero() {
		args = append(args, start)
		where = append(where, fmt.Sprintf("ts >= $%d", len(args)))
	}
	if !end.IsZero() {
		args = append(args, end)
		where = append(where, fmt.Sprintf("ts < $%d", len(args)))
	}
	query := fmt.Sprintf(`
SELECT ts, type, plant_name, value
FROM %s`, s.table)
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	query += "\nORDER BY ts ASC, type ASC, plant_name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	var table [][]string
	for rows.Next() {
		var (
			ts     time.Time
			kind   string
			entity string
			value  sql.NullFloat64
		)
		if err := rows.Scan(&ts, &kind, &entity, &value); err != nil {
			return Result{}, err
		}
		raw := ""
		if value.Valid {
			raw = fmt.Sprintf("%g", value.Float64)
		}
		table = append(table, []string{ts.UTC().Format("2006-01-02 15:04:05"), kind, entity, raw})
	}
	if err := rows.Err(); err != nil {
		return Result{}, err
	}

	index := columnIndex{"datetime": 0, "type": 1, "plant_name": 2, "value": 3}
	return convertRows(index, table, s.opts)
}
