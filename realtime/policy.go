package realtime

import "time"

// RetryPolicy bounds automatic reconnection after a transport drop. The
// budget applies per drop; a successful reconnect restores the full budget.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy matches the dashboard's production settings.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		Delay:       5 * time.Second,
	}
}
