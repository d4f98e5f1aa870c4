package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := New()

	m.ObserveDataset(2, map[string]int{"meetingName": 2, "startTime": 4})
	m.ObserveViewWrite("simple", true)
	m.ObserveViewWrite("textTagger", false)
	m.ObserveUpload(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.recordsTotal))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.tokensTotal.WithLabelValues("startTime")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.viewWrites.WithLabelValues("simple", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.viewWrites.WithLabelValues("textTagger", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("ok")))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.ObserveDataset(1, map[string]int{"format": 3})
	m.ObserveRun("completed", 1500*time.Millisecond, time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "meetcorpus.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "meetcorpus_records_total 1")
	assert.Contains(t, text, `meetcorpus_tokens_total{label="format"} 3`)
	assert.Contains(t, text, `meetcorpus_run_duration_seconds_count{status="completed"} 1`)
	assert.Contains(t, text, "meetcorpus_last_run_timestamp_seconds 1.7e+09")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveDataset(5, nil)

	assert.Equal(t, 5.0, testutil.ToFloat64(a.recordsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.recordsTotal))
}
