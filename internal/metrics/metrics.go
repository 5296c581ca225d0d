// Package metrics provides lock-free counters for roadauth observability.
//
// Counters live in cache-line-padded uint64 slots incremented atomically;
// the write path never allocates. Export (OTel) lives in metrics/export/ and
// reads [Snapshot] values.
package metrics

import "sync/atomic"

// MetricID identifies one counter slot.
type MetricID uint8

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricRefreshJoined
	MetricRefreshSuperseded
	MetricRequestRetried
	MetricSessionExpired
	MetricPermissionDenied
	MetricRealtimeConnect
	MetricRealtimeReconnect
	MetricRealtimeGiveUp
	MetricRealtimeMessage
	MetricRealtimeDecodeError

	MetricIDCount
)

type paddedCounter struct {
	value uint64
	_     [56]byte
}

// Metrics holds the counter slots. A disabled instance makes every
// operation a no-op.
type Metrics struct {
	enabled  bool
	counters [MetricIDCount]paddedCounter
}

// New creates a Metrics instance. When enabled is false all operations
// are no-ops and Snapshot returns empty maps.
func New(enabled bool) *Metrics {
	return &Metrics{enabled: enabled}
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot deep-copies the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{Counters: make(map[MetricID]uint64, MetricIDCount)}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < MetricIDCount; id++ {
		snap.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return snap
}
