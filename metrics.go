package goSession

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one in-process counter or histogram.
type MetricID uint16

const (
	// MetricSessionCreated counts identifiers reserved with a seeded SET NX.
	MetricSessionCreated MetricID = iota
	// MetricIDCollision counts candidates rejected because their key already existed.
	MetricIDCollision
	// MetricSessionLoaded counts reads that found stored data.
	MetricSessionLoaded
	// MetricSessionMiss counts reads that found nothing and minted a new identifier.
	MetricSessionMiss
	// MetricLegacyLookup counts secure-scheme reads served from the legacy public key.
	MetricLegacyLookup
	// MetricSessionSkipped counts reads bypassed with Options.Skip.
	MetricSessionSkipped
	// MetricWriteDirect counts direct writes.
	MetricWriteDirect
	// MetricWriteTransactional counts committed transactional writes.
	MetricWriteTransactional
	// MetricCommitConflict counts aborted EXECs that were retried.
	MetricCommitConflict
	// MetricCommitExhausted counts transactional writes that ran out of attempts.
	MetricCommitExhausted
	// MetricSessionDeleted counts delete operations.
	MetricSessionDeleted
	// MetricStoreUnreachable counts operations answered with a default value
	// because Redis refused the connection.
	MetricStoreUnreachable
	// MetricCommitLatency is the latency histogram of transactional writes.
	MetricCommitLatency
	metricIDCount
)

const cacheLineSize = 64

// latencyBounds are the inclusive upper bounds of the first seven commit
// latency buckets. The eighth bucket takes everything slower.
var latencyBounds = [...]time.Duration{
	5 * time.Millisecond,
	10 * time.Millisecond,
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	500 * time.Millisecond,
}

const histBucketCount = len(latencyBounds) + 1

type paddedCounter struct {
	atomic.Uint64
	_ [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters for one Store. A nil or disabled Metrics
// ignores every call.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	commitLatency [histBucketCount]atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of all counters. Histograms holds
// per-bucket counts, not cumulative ones.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the commit latency histogram is recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to the counter of id. It never blocks.
func (m *Metrics) Inc(id MetricID) {
	if !m.Enabled() || id >= metricIDCount || id == MetricCommitLatency {
		return
	}
	m.counters[id].Add(1)
}

// Observe records d. Only MetricCommitLatency has a histogram; other ids
// are ignored.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if !m.LatencyEnabled() || id != MetricCommitLatency {
		return
	}
	m.commitLatency[bucketIndex(d)].Add(1)
}

// Value returns the current count of id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot copies every counter. Counters are loaded one at a time, so a
// snapshot taken under load is not a consistent cut.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Counters:   map[MetricID]uint64{},
		Histograms: map[MetricID][]uint64{},
	}
	if !m.Enabled() {
		return s
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if id != MetricCommitLatency {
			s.Counters[id] = m.counters[id].Load()
		}
	}
	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := range buckets {
			buckets[i] = m.commitLatency[i].Load()
		}
		s.Histograms[MetricCommitLatency] = buckets
	}
	return s
}

func bucketIndex(d time.Duration) int {
	for i, bound := range latencyBounds {
		if d <= bound {
			return i
		}
	}
	return len(latencyBounds)
}
