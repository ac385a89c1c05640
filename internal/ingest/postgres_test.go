package ingest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSource_Query(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}
	db, err := OpenPostgres(dsn)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	table := fmt.Sprintf("re100_measurements_test_%d", time.Now().UnixNano())
	_, err = db.ExecContext(ctx, fmt.Sprintf(`
CREATE TABLE %s (
	ts TIMESTAMPTZ NOT NULL,
	type TEXT NOT NULL,
	plant_name TEXT NOT NULL,
	value DOUBLE PRECISION
)`, table))
	require.NoError(t, err)
	defer db.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", table))

	_, err = db.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO %s (ts, type, plant_name, value) VALUES
	('2025-03-01 00:00:00+00', 'solar', 'solar_plant1', 120),
	('2025-03-01 00:00:00+00', 'demand', 'compA', 250),
	('2025-03-01 01:00:00+00', 'wind', 'wind_plant1', NULL),
	('2025-04-01 00:00:00+00', 'solar', 'solar_plant1', 99)`, table))
	require.NoError(t, err)

	source := NewPostgresSource(db, WithTable(table))
	result, err := source.Query(ctx,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	)

	require.NoError(t, err)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 1, result.Rejected[ReasonMissingField])
}

func TestPostgresSource_NilDB(t *testing.T) {
	_, err := NewPostgresSource(nil).Query(context.Background(), time.Time{}, time.Time{})
	assert.Error(t, err)
}

func TestOpenPostgres_EmptyDSN(t *testing.T) {
	_, err := OpenPostgres("")
	assert.Error(t, err)
}
