package vekk

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordPush is called after each push operation.
	// duration is the total time taken, err is nil if successful.
	RecordPush(duration time.Duration, err error)

	// RecordPop is called after each pop operation.
	RecordPop(duration time.Duration, err error)

	// RecordMigration is called after each inline-to-heap migration attempt.
	// capacity is the heap capacity requested, err is nil if successful.
	RecordMigration(capacity int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPush(time.Duration, error)           {}
func (NoopMetricsCollector) RecordPop(time.Duration, error)            {}
func (NoopMetricsCollector) RecordMigration(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PushCount       atomic.Int64
	PushErrors      atomic.Int64
	PushTotalNanos  atomic.Int64
	PopCount        atomic.Int64
	PopErrors       atomic.Int64
	MigrationCount  atomic.Int64
	MigrationErrors atomic.Int64
}

// RecordPush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPush(duration time.Duration, err error) {
	b.PushCount.Add(1)
	b.PushTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PushErrors.Add(1)
	}
}

// RecordPop implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPop(duration time.Duration, err error) {
	b.PopCount.Add(1)
	if err != nil {
		b.PopErrors.Add(1)
	}
}

// RecordMigration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMigration(capacity int, duration time.Duration, err error) {
	b.MigrationCount.Add(1)
	if err != nil {
		b.MigrationErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PushCount:       b.PushCount.Load(),
		PushErrors:      b.PushErrors.Load(),
		PushAvgNanos:    b.getAvgPushNanos(),
		PopCount:        b.PopCount.Load(),
		PopErrors:       b.PopErrors.Load(),
		MigrationCount:  b.MigrationCount.Load(),
		MigrationErrors: b.MigrationErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgPushNanos() int64 {
	count := b.PushCount.Load()
	if count == 0 {
		return 0
	}
	return b.PushTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	PushCount       int64
	PushErrors      int64
	PushAvgNanos    int64
	PopCount        int64
	PopErrors       int64
	MigrationCount  int64
	MigrationErrors int64
}
