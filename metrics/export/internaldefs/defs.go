package internaldefs

import (
	"github.com/roadinfra/roadauth/internal/metrics"
)

// CounterDef binds a counter slot to its published name.
type CounterDef struct {
	ID   metrics.MetricID
	Name string
	Help string
}

// CounterDefs enumerates every published counter. Exporters iterate
// this list so all of them agree on names.
var CounterDefs = []CounterDef{
	{ID: metrics.MetricLoginSuccess, Name: "roadauth_login_success_total", Help: "Successful login exchanges."},
	{ID: metrics.MetricLoginFailure, Name: "roadauth_login_failure_total", Help: "Failed login exchanges."},
	{ID: metrics.MetricRefreshSuccess, Name: "roadauth_refresh_success_total", Help: "Successful token refreshes."},
	{ID: metrics.MetricRefreshFailure, Name: "roadauth_refresh_failure_total", Help: "Failed token refreshes."},
	{ID: metrics.MetricRefreshJoined, Name: "roadauth_refresh_joined_total", Help: "Requests that joined an in-flight refresh."},
	{ID: metrics.MetricRefreshSuperseded, Name: "roadauth_refresh_superseded_total", Help: "Refresh results discarded because a logout won the race."},
	{ID: metrics.MetricRequestRetried, Name: "roadauth_request_retried_total", Help: "Requests transparently retried after a refresh."},
	{ID: metrics.MetricSessionExpired, Name: "roadauth_session_expired_total", Help: "Sessions cleared because a refresh was rejected."},
	{ID: metrics.MetricPermissionDenied, Name: "roadauth_permission_denied_total", Help: "Surface authorizations denied and notified."},
	{ID: metrics.MetricRealtimeConnect, Name: "roadauth_realtime_connect_total", Help: "Realtime channel connections established."},
	{ID: metrics.MetricRealtimeReconnect, Name: "roadauth_realtime_reconnect_total", Help: "Realtime channel automatic reconnections."},
	{ID: metrics.MetricRealtimeGiveUp, Name: "roadauth_realtime_give_up_total", Help: "Realtime reconnect budgets exhausted."},
	{ID: metrics.MetricRealtimeMessage, Name: "roadauth_realtime_message_total", Help: "Realtime frames dispatched to subscribers."},
	{ID: metrics.MetricRealtimeDecodeError, Name: "roadauth_realtime_decode_error_total", Help: "Realtime frames dropped as undecodable."},
}
