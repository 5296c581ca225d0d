package roadauth

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/roadinfra/roadauth/internal/metrics"
	"github.com/roadinfra/roadauth/realtime"
	"github.com/roadinfra/roadauth/session"
	"github.com/roadinfra/roadauth/token"
)

// Client is the authenticated gateway to the road infrastructure
// monitoring platform. It owns the session store, the intercepting
// HTTP client, and (when configured) the realtime channel. Construct
// it through [New].
type Client struct {
	config   Config
	sessions *session.Store
	flight   *refreshFlight
	validate *validator.Validate

	// httpClient intercepts 401s and refreshes; rawClient goes straight
	// to the wire for the refresh exchange itself.
	httpClient *http.Client
	rawClient  *http.Client

	channel *realtime.Channel
	events  *eventDispatcher
	metrics *metrics.Metrics

	onSessionExpired func()

	deniedMu sync.Mutex
	denied   map[string]struct{}
}

// Sessions exposes the session store for state observation and
// subscription.
func (c *Client) Sessions() *session.Store {
	return c.sessions
}

// HTTPClient returns the intercepting client. Every request sent
// through it carries the session's bearer token and survives one
// transparent token refresh.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Realtime returns the live update channel, or nil when no realtime
// URL was configured.
func (c *Client) Realtime() *realtime.Channel {
	return c.channel
}

// AccessTokenExpiresWithin reports whether the stored access token
// expires within d. True when no token is held or it cannot be parsed.
func (c *Client) AccessTokenExpiresWithin(d time.Duration) bool {
	return token.ExpiresWithin(c.sessions.Get().AccessToken, d)
}

// EventsDropped reports how many events were shed because the
// dispatcher buffer was full.
func (c *Client) EventsDropped() uint64 {
	return c.events.Dropped()
}

// Close releases the client: the realtime channel is disconnected and
// the event dispatcher drained. The client must not be used afterwards.
func (c *Client) Close() {
	if c.channel != nil {
		c.channel.Disconnect()
	}
	c.events.Close()
}
