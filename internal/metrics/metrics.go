package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one counter or histogram slot.
type MetricID uint16

const (
	MetricAuthSuccess MetricID = iota
	MetricAuthFailure
	MetricAuthUnknownIdentity
	MetricAuthPasswordMismatch
	MetricDummyVerify
	MetricPasswordStaged
	MetricPasswordStageSkipped
	MetricAuthenticateLatency

	// MetricIDCount is the number of defined metric IDs.
	MetricIDCount
)

// histogramIDs lists the IDs backed by latency histograms rather than
// plain counters.
var histogramIDs = [...]MetricID{MetricAuthenticateLatency}

// BucketCount is the fixed number of histogram buckets.
const BucketCount = 8

// bucketBounds are the upper bounds of the first 7 buckets; the 8th is +Inf.
var bucketBounds = [BucketCount - 1]time.Duration{
	5 * time.Millisecond,
	10 * time.Millisecond,
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	500 * time.Millisecond,
}

// Config controls metric collection. When Enabled is false every operation
// is a no-op; EnableLatency additionally activates histograms.
type Config struct {
	Enabled       bool
	EnableLatency bool
}

// paddedCounter occupies a full cache line to avoid false sharing between
// adjacent counters under concurrent increments.
type paddedCounter struct {
	value atomic.Uint64
	_     [56]byte
}

type histogram struct {
	buckets [BucketCount]atomic.Uint64
}

func (h *histogram) observe(d time.Duration) {
	for i, bound := range bucketBounds {
		if d <= bound {
			h.buckets[i].Add(1)
			return
		}
	}
	h.buckets[BucketCount-1].Add(1)
}

// Metrics holds atomic counters and optional latency histograms. The zero
// value is unusable; construct with [New]. All methods are safe on a nil
// receiver and from concurrent goroutines.
type Metrics struct {
	enabled  bool
	latency  bool
	counters [MetricIDCount]paddedCounter
	hists    [MetricIDCount]*histogram
}

// New creates a Metrics instance per cfg.
func New(cfg Config) *Metrics {
	m := &Metrics{
		enabled: cfg.Enabled,
		latency: cfg.Enabled && cfg.EnableLatency,
	}
	if m.latency {
		for _, id := range histogramIDs {
			m.hists[id] = &histogram{}
		}
	}
	return m
}

// Inc increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	m.counters[id].value.Add(1)
}

// Observe records one duration sample into the histogram for id.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.latency || id >= MetricIDCount {
		return
	}
	h := m.hists[id]
	if h == nil {
		return
	}
	h.observe(d)
}

// Snapshot is a point-in-time deep copy of all metrics. Histogram bucket
// slices hold non-cumulative per-bucket counts.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// Snapshot copies the current metric values. A disabled instance returns
// empty maps.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Counters:   map[MetricID]uint64{},
		Histograms: map[MetricID][]uint64{},
	}
	if m == nil || !m.enabled {
		return snap
	}

	for id := MetricID(0); id < MetricIDCount; id++ {
		if m.hists[id] != nil {
			continue
		}
		snap.Counters[id] = m.counters[id].value.Load()
	}

	if m.latency {
		for _, id := range histogramIDs {
			h := m.hists[id]
			if h == nil {
				continue
			}
			buckets := make([]uint64, BucketCount)
			for i := range h.buckets {
				buckets[i] = h.buckets[i].Load()
			}
			snap.Histograms[id] = buckets
		}
	}

	return snap
}
