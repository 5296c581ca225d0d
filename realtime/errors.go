package realtime

import "errors"

var (
	// ErrReconnectExhausted indicates the automatic retry budget was spent
	// without restoring the connection.
	ErrReconnectExhausted = errors.New("realtime reconnect attempts exhausted")
)
