package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	Init(nil, "", nil)
	ObserveLoad("csv", ResultSuccess, 12, 20*time.Millisecond)
	IncRejectedRows("missing_field", 2)
	ObserveMerge(Result(nil), time.Millisecond)
	SetCapacity("deficit", 150)
	SetAvgMatchRate(87.5)
	IncDataset()
	IncReportExport("xlsx", ResultSuccess)

	path := filepath.Join(t.TempDir(), "re100.prom")
	require.NoError(t, WriteTextfile(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `re100_load_total{result="success",source="csv"}`)
	assert.Contains(t, text, `re100_rejected_rows_total{reason="missing_field"} 2`)
	assert.Contains(t, text, `re100_ess_capacity{method="deficit"} 150`)
	assert.Contains(t, text, "re100_avg_match_rate_percent 87.5")
}

func TestWriteTextfile_EmptyPath(t *testing.T) {
	assert.Error(t, WriteTextfile(""))
}

func TestResult(t *testing.T) {
	assert.Equal(t, ResultSuccess, Result(nil))
	assert.Equal(t, ResultError, Result(errors.New("boom")))
}
