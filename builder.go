package roadauth

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/roadinfra/roadauth/internal/metrics"
	"github.com/roadinfra/roadauth/realtime"
	"github.com/roadinfra/roadauth/session"
)

// Builder assembles a [Client]. Chain the With* options and finish
// with Build:
//
//	client, err := roadauth.New().
//		WithBaseURL("https://monitor.example.com/api").
//		WithRealtimeURL("wss://monitor.example.com/ws").
//		Build()
type Builder struct {
	config           Config
	backend          session.Backend
	redisClient      *redis.Client
	base             http.RoundTripper
	sink             EventSink
	onSessionExpired func()
}

// New starts a builder with default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the entire configuration. Zero-valued fields are
// filled with defaults during Build.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL sets the platform REST origin.
func (b *Builder) WithBaseURL(u string) *Builder {
	b.config.API.BaseURL = u
	return b
}

// WithRealtimeURL enables the realtime channel at the given websocket
// endpoint.
func (b *Builder) WithRealtimeURL(u string) *Builder {
	b.config.Realtime.URL = u
	return b
}

// WithSessionBackend persists the session through the given backend.
// Takes precedence over WithRedis.
func (b *Builder) WithSessionBackend(backend session.Backend) *Builder {
	b.backend = backend
	return b
}

// WithRedis persists the session in Redis using the configured prefix
// and TTL.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redisClient = client
	return b
}

// WithHTTPTransport sets the underlying RoundTripper the intercepting
// client wraps. Defaults to http.DefaultTransport.
func (b *Builder) WithHTTPTransport(rt http.RoundTripper) *Builder {
	b.base = rt
	return b
}

// WithEventSink receives auth and realtime lifecycle events.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.sink = sink
	return b
}

// WithMetricsEnabled toggles counter collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithOnSessionExpired registers a hook fired when the session is
// cleared because a refresh was rejected. Typical use is forcing a
// redirect to the login screen.
func (b *Builder) WithOnSessionExpired(fn func()) *Builder {
	b.onSessionExpired = fn
	return b
}

// Build validates the configuration and assembles the client.
func (b *Builder) Build() (*Client, error) {
	cfg := b.config
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	backend := b.backend
	if backend == nil && b.redisClient != nil {
		backend = session.NewRedisBackend(b.redisClient, cfg.Session.RedisPrefix, cfg.Session.RedisTTL)
	}
	if backend == nil {
		backend = session.NewMemoryBackend()
	}

	store, err := session.NewStore(backend)
	if err != nil {
		return nil, fmt.Errorf("roadauth: session store: %w", err)
	}

	base, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("roadauth: base URL: %w", err)
	}

	c := &Client{
		config:           cfg,
		sessions:         store,
		validate:         validator.New(validator.WithRequiredStructEnabled()),
		metrics:          metrics.New(cfg.Metrics.Enabled),
		events:           newEventDispatcher(cfg.Events, b.sink),
		onSessionExpired: b.onSessionExpired,
		denied:           make(map[string]struct{}),
	}

	c.flight = newRefreshFlight(c.refreshForRetry)
	c.flight.onJoin = func() { c.metrics.Inc(metrics.MetricRefreshJoined) }

	rt := b.base
	if rt == nil {
		rt = http.DefaultTransport
	}
	c.rawClient = &http.Client{Transport: rt, Timeout: cfg.API.RequestTimeout}
	c.httpClient = &http.Client{
		Transport: &authTransport{
			base:       rt,
			sessions:   store,
			flight:     c.flight,
			metrics:    c.metrics,
			authPrefix: strings.TrimRight(base.Path, "/") + cfg.API.AuthBasePath,
		},
		Timeout: cfg.API.RequestTimeout,
	}

	if cfg.Realtime.URL != "" {
		c.channel = realtime.NewChannel(realtime.Config{
			URL:              cfg.Realtime.URL,
			Token:            func() string { return store.Get().AccessToken },
			Retry:            cfg.Realtime.Retry,
			HandshakeTimeout: cfg.Realtime.HandshakeTimeout,
			OnEvent:          c.onRealtimeEvent,
		})
	}

	return c, nil
}

func (c *Client) onRealtimeEvent(kind realtime.EventKind, topic string, err error) {
	switch kind {
	case realtime.EventConnected:
		c.metrics.Inc(metrics.MetricRealtimeConnect)
		c.emitEvent(EventTypeRealtimeConnected, "", true, nil, nil)
	case realtime.EventReconnected:
		c.metrics.Inc(metrics.MetricRealtimeReconnect)
		c.emitEvent(EventTypeRealtimeReconnected, "", true, nil, nil)
	case realtime.EventDropped:
		c.emitEvent(EventTypeRealtimeDropped, "", false, err, nil)
	case realtime.EventGaveUp:
		c.metrics.Inc(metrics.MetricRealtimeGiveUp)
		c.emitEvent(EventTypeRealtimeGaveUp, "", false, err, nil)
	case realtime.EventMessage:
		c.metrics.Inc(metrics.MetricRealtimeMessage)
	case realtime.EventDecodeError:
		c.metrics.Inc(metrics.MetricRealtimeDecodeError)
		c.emitEvent(EventTypeRealtimeDropped, "", false, err, map[string]string{"topic": topic})
	}
}
