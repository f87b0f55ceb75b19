package metrics

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects layout engine counters. The zero value is not usable,
// use [NewMetrics]. A nil *Metrics ignores every record call.
type Metrics struct {
	// Pass metrics
	Passes       atomic.Int64
	PassDuration atomic.Int64 // nanoseconds
	FailedPasses atomic.Int64
	Retries      atomic.Int64

	// Measurement metrics
	MeasuredItems atomic.Int64
	PlacedItems   atomic.Int64

	// Measure policy memo
	PolicyHits   atomic.Int64
	PolicyMisses atomic.Int64

	// Animation metrics
	ActiveAnimations atomic.Int64
	Ticks            atomic.Int64

	// Reorder metrics
	Moves atomic.Int64

	// Custom metrics
	customMetrics sync.Map // map[string]*atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// RecordPass records a finished layout pass
func (m *Metrics) RecordPass(duration time.Duration, measured, placed int, success bool) {
	if m == nil {
		return
	}
	m.Passes.Add(1)
	m.PassDuration.Add(duration.Nanoseconds())
	m.MeasuredItems.Add(int64(measured))
	m.PlacedItems.Add(int64(placed))
	if !success {
		m.FailedPasses.Add(1)
	}
}

// RecordRetry records a pass retried after the content changed under it
func (m *Metrics) RecordRetry() {
	if m == nil {
		return
	}
	m.Retries.Add(1)
}

// RecordPolicy records a measure policy lookup
func (m *Metrics) RecordPolicy(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.PolicyHits.Add(1)
	} else {
		m.PolicyMisses.Add(1)
	}
}

// RecordTick records an animation tick and the number of keys still
// settling after it
func (m *Metrics) RecordTick(settling int) {
	if m == nil {
		return
	}
	m.Ticks.Add(1)
	m.ActiveAnimations.Store(int64(settling))
}

// RecordMove records an item moved by a drag
func (m *Metrics) RecordMove() {
	if m == nil {
		return
	}
	m.Moves.Add(1)
}

// IncrementCustomMetric increments a custom metric
func (m *Metrics) IncrementCustomMetric(name string) {
	if m == nil {
		return
	}
	if val, ok := m.customMetrics.Load(name); ok {
		if counter, ok := val.(*atomic.Int64); ok {
			counter.Add(1)
		}
	} else {
		counter := &atomic.Int64{}
		counter.Add(1)
		if actual, loaded := m.customMetrics.LoadOrStore(name, counter); loaded {
			actual.(*atomic.Int64).Add(1)
		}
	}
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() map[string]any {
	uptime := time.Since(m.startTime)

	snapshot := map[string]any{
		"uptime_seconds":    uptime.Seconds(),
		"passes":            m.Passes.Load(),
		"failed_passes":     m.FailedPasses.Load(),
		"retries":           m.Retries.Load(),
		"measured_items":    m.MeasuredItems.Load(),
		"placed_items":      m.PlacedItems.Load(),
		"policy_hits":       m.PolicyHits.Load(),
		"policy_misses":     m.PolicyMisses.Load(),
		"active_animations": m.ActiveAnimations.Load(),
		"ticks":             m.Ticks.Load(),
		"moves":             m.Moves.Load(),
	}

	// Calculate averages
	if passes := m.Passes.Load(); passes > 0 {
		snapshot["avg_pass_duration_ms"] = float64(m.PassDuration.Load()) / float64(passes) / 1e6
		snapshot["avg_measured_per_pass"] = float64(m.MeasuredItems.Load()) / float64(passes)
	}

	// Calculate policy hit rate
	if hits := m.PolicyHits.Load(); hits > 0 {
		total := hits + m.PolicyMisses.Load()
		snapshot["policy_hit_rate"] = float64(hits) / float64(total)
	}

	// Add custom metrics
	m.customMetrics.Range(func(key, value any) bool {
		if counter, ok := value.(*atomic.Int64); ok {
			snapshot[key.(string)] = counter.Load()
		}
		return true
	})

	return snapshot
}

// Reset resets all metrics
func (m *Metrics) Reset() {
	m.Passes.Store(0)
	m.PassDuration.Store(0)
	m.FailedPasses.Store(0)
	m.Retries.Store(0)
	m.MeasuredItems.Store(0)
	m.PlacedItems.Store(0)
	m.PolicyHits.Store(0)
	m.PolicyMisses.Store(0)
	m.ActiveAnimations.Store(0)
	m.Ticks.Store(0)
	m.Moves.Store(0)

	m.customMetrics.Range(func(key, value any) bool {
		m.customMetrics.Delete(key)
		return true
	})

	m.startTime = time.Now()
}

// Collector ships a metrics snapshot somewhere.
type Collector interface {
	Collect(ctx context.Context, metrics *Metrics) error
}

// LogCollector writes snapshots to a structured logger.
type LogCollector struct {
	Logger *slog.Logger
	Level  slog.Level
}

// Collect implements Collector
func (c LogCollector) Collect(ctx context.Context, metrics *Metrics) error {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	snapshot := metrics.GetSnapshot()
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, snapshot[k]))
	}
	logger.LogAttrs(ctx, c.Level, "Layout metrics", attrs...)
	return nil
}
