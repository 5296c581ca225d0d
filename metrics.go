package roadauth

import (
	"github.com/roadinfra/roadauth/internal/metrics"
)

// MetricID identifies one client counter.
type MetricID = metrics.MetricID

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot = metrics.Snapshot

// Counter identifiers, re-exported for snapshot consumers.
const (
	MetricLoginSuccess      = metrics.MetricLoginSuccess
	MetricLoginFailure      = metrics.MetricLoginFailure
	MetricRefreshSuccess    = metrics.MetricRefreshSuccess
	MetricRefreshFailure    = metrics.MetricRefreshFailure
	MetricRefreshJoined     = metrics.MetricRefreshJoined
	MetricRefreshSuperseded = metrics.MetricRefreshSuperseded
	MetricRequestRetried    = metrics.MetricRequestRetried
	MetricSessionExpired    = metrics.MetricSessionExpired
	MetricPermissionDenied  = metrics.MetricPermissionDenied
	MetricRealtimeConnect   = metrics.MetricRealtimeConnect
	MetricRealtimeReconnect = metrics.MetricRealtimeReconnect
	MetricRealtimeGiveUp    = metrics.MetricRealtimeGiveUp
	MetricRealtimeMessage   = metrics.MetricRealtimeMessage
	MetricRealtimeDecodeErr = metrics.MetricRealtimeDecodeError
)

// MetricsSnapshot returns the current counter values. Counters read as
// zero when metrics collection is disabled.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}
