package metrics

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	m := NewMetrics()

	m.RecordPass(2*time.Millisecond, 4, 3, true)
	m.RecordPass(4*time.Millisecond, 2, 3, false)
	m.RecordRetry()

	m.RecordPolicy(true)
	m.RecordPolicy(true)
	m.RecordPolicy(false)

	m.RecordTick(2)
	m.RecordMove()

	m.IncrementCustomMetric("drag_started")
	m.IncrementCustomMetric("drag_started")

	snapshot := m.GetSnapshot()

	require.Equal(t, int64(2), snapshot["passes"])
	require.Equal(t, int64(1), snapshot["failed_passes"])
	require.Equal(t, int64(1), snapshot["retries"])
	require.Equal(t, int64(6), snapshot["measured_items"])
	require.Equal(t, int64(6), snapshot["placed_items"])
	require.Equal(t, int64(2), snapshot["active_animations"])
	require.Equal(t, int64(1), snapshot["moves"])
	require.Equal(t, int64(2), snapshot["drag_started"])
	require.InDelta(t, 3.0, snapshot["avg_pass_duration_ms"], 1e-9)
	require.InDelta(t, 3.0, snapshot["avg_measured_per_pass"], 1e-9)
	require.InDelta(t, 2.0/3.0, snapshot["policy_hit_rate"], 1e-9)

	m.Reset()
	snapshot = m.GetSnapshot()
	require.Equal(t, int64(0), snapshot["passes"])
	require.NotContains(t, snapshot, "drag_started")
	require.NotContains(t, snapshot, "avg_pass_duration_ms")
}

func TestNilMetricsIgnoresRecords(t *testing.T) {
	t.Parallel()

	var m *Metrics
	require.NotPanics(t, func() {
		m.RecordPass(time.Millisecond, 1, 1, true)
		m.RecordRetry()
		m.RecordPolicy(false)
		m.RecordTick(0)
		m.RecordMove()
		m.IncrementCustomMetric("x")
	})
}

func TestLogCollector(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	m := NewMetrics()
	m.RecordPass(time.Millisecond, 1, 1, true)

	require.NoError(t, LogCollector{Logger: logger, Level: slog.LevelInfo}.Collect(context.Background(), m))
	require.Contains(t, buf.String(), `"passes":1`)
	require.Contains(t, buf.String(), `"msg":"Layout metrics"`)
}
