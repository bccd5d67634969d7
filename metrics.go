package gate

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Collectors are invoked inline from the scheduler and must be cheap; they
// must not call back into the Controller.
type MetricsCollector interface {
	// RecordSubmit is called after each submission attempt.
	// err is nil if the request was queued or admitted.
	RecordSubmit(category string, amount int64, err error)

	// RecordAdmit is called when a request transitions to running.
	// wait is the time spent queued before admission.
	RecordAdmit(category string, amount int64, wait time.Duration)

	// RecordRelease is called when a request is released or canceled.
	// held is the time spent running; zero for canceled requests.
	RecordRelease(category string, amount int64, held time.Duration, canceled bool)

	// RecordDrain is called when a category becomes fully idle
	// (empty queue and zero consumed capacity).
	RecordDrain(category string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSubmit(string, int64, error)                {}
func (NoopMetricsCollector) RecordAdmit(string, int64, time.Duration)         {}
func (NoopMetricsCollector) RecordRelease(string, int64, time.Duration, bool) {}
func (NoopMetricsCollector) RecordDrain(string)                               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SubmitCount      atomic.Int64
	SubmitErrors     atomic.Int64
	AdmitCount       atomic.Int64
	AdmitWaitNanos   atomic.Int64
	ReleaseCount     atomic.Int64
	CancelCount      atomic.Int64
	ReleaseHeldNanos atomic.Int64
	DrainCount       atomic.Int64
}

// RecordSubmit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSubmit(category string, amount int64, err error) {
	b.SubmitCount.Add(1)
	if err != nil {
		b.SubmitErrors.Add(1)
	}
}

// RecordAdmit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdmit(category string, amount int64, wait time.Duration) {
	b.AdmitCount.Add(1)
	b.AdmitWaitNanos.Add(wait.Nanoseconds())
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(category string, amount int64, held time.Duration, canceled bool) {
	b.ReleaseCount.Add(1)
	b.ReleaseHeldNanos.Add(held.Nanoseconds())
	if canceled {
		b.CancelCount.Add(1)
	}
}

// RecordDrain implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDrain(category string) {
	b.DrainCount.Add(1)
}

// BasicMetricsStats is a point-in-time snapshot of a BasicMetricsCollector.
type BasicMetricsStats struct {
	SubmitCount   int64
	SubmitErrors  int64
	AdmitCount    int64
	AdmitAvgNanos int64
	ReleaseCount  int64
	CancelCount   int64
	HeldAvgNanos  int64
	DrainCount    int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SubmitCount:   b.SubmitCount.Load(),
		SubmitErrors:  b.SubmitErrors.Load(),
		AdmitCount:    b.AdmitCount.Load(),
		AdmitAvgNanos: b.getAvgAdmitWaitNanos(),
		ReleaseCount:  b.ReleaseCount.Load(),
		CancelCount:   b.CancelCount.Load(),
		HeldAvgNanos:  b.getAvgHeldNanos(),
		DrainCount:    b.DrainCount.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgAdmitWaitNanos() int64 {
	count := b.AdmitCount.Load()
	if count == 0 {
		return 0
	}
	return b.AdmitWaitNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgHeldNanos() int64 {
	count := b.ReleaseCount.Load()
	if count == 0 {
		return 0
	}
	return b.ReleaseHeldNanos.Load() / count
}
