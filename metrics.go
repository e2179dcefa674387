package pixelsom

import (
	"sync/atomic"
	"time"
)

// Snapshot operations reported to RecordSnapshot.
const (
	SnapshotSave = "save"
	SnapshotLoad = "load"
)

// MetricsCollector receives one call per public operation.
// Implement this interface to integrate with monitoring systems; see the
// metrics/prometheus package for a Prometheus implementation.
type MetricsCollector interface {
	// RecordTrain is called after each Train call. steps is the number of
	// update steps that were scheduled (passes * samples).
	RecordTrain(samples, steps int, duration time.Duration, err error)

	// RecordAssign is called after each Assign call. clusters is the number
	// of distinct labels produced (0 on error).
	RecordAssign(samples, clusters int, duration time.Duration, err error)

	// RecordSnapshot is called after each Save or Load. op is SnapshotSave or
	// SnapshotLoad, bytes the encoded snapshot size.
	RecordSnapshot(op string, bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTrain(int, int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordAssign(int, int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordSnapshot(string, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	TrainCount       atomic.Int64
	TrainErrors      atomic.Int64
	TrainSteps       atomic.Int64
	TrainTotalNanos  atomic.Int64
	AssignCount      atomic.Int64
	AssignErrors     atomic.Int64
	AssignSamples    atomic.Int64
	AssignTotalNanos atomic.Int64
	SaveCount        atomic.Int64
	LoadCount        atomic.Int64
	SnapshotErrors   atomic.Int64
	SnapshotBytes    atomic.Int64
}

// RecordTrain implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrain(_, steps int, duration time.Duration, err error) {
	b.TrainCount.Add(1)
	b.TrainTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TrainErrors.Add(1)
		return
	}
	b.TrainSteps.Add(int64(steps))
}

// RecordAssign implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAssign(samples, _ int, duration time.Duration, err error) {
	b.AssignCount.Add(1)
	b.AssignTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AssignErrors.Add(1)
		return
	}
	b.AssignSamples.Add(int64(samples))
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(op string, bytes int, _ time.Duration, err error) {
	switch op {
	case SnapshotSave:
		b.SaveCount.Add(1)
	case SnapshotLoad:
		b.LoadCount.Add(1)
	}
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		TrainCount:     b.TrainCount.Load(),
		TrainErrors:    b.TrainErrors.Load(),
		TrainSteps:     b.TrainSteps.Load(),
		TrainAvgNanos:  avg(b.TrainTotalNanos.Load(), b.TrainCount.Load()),
		AssignCount:    b.AssignCount.Load(),
		AssignErrors:   b.AssignErrors.Load(),
		AssignSamples:  b.AssignSamples.Load(),
		AssignAvgNanos: avg(b.AssignTotalNanos.Load(), b.AssignCount.Load()),
		SaveCount:      b.SaveCount.Load(),
		LoadCount:      b.LoadCount.Load(),
		SnapshotErrors: b.SnapshotErrors.Load(),
		SnapshotBytes:  b.SnapshotBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	TrainCount     int64
	TrainErrors    int64
	TrainSteps     int64
	TrainAvgNanos  int64
	AssignCount    int64
	AssignErrors   int64
	AssignSamples  int64
	AssignAvgNanos int64
	SaveCount      int64
	LoadCount      int64
	SnapshotErrors int64
	SnapshotBytes  int64
}
