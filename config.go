package roadauth

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/roadinfra/roadauth/realtime"
)

// Config holds every tunable of the client. Zero values are filled in
// by Build; only API.BaseURL is mandatory.
type Config struct {
	API      APIConfig
	Session  SessionConfig
	Realtime RealtimeConfig
	Events   EventConfig
	Metrics  MetricsConfig
}

// APIConfig locates the platform REST surface.
type APIConfig struct {
	// BaseURL is the platform origin, e.g. "https://monitor.example.com/api".
	BaseURL string
	// AuthBasePath is the auth controller mount point under BaseURL.
	AuthBasePath string
	// RequestTimeout bounds every HTTP exchange.
	RequestTimeout time.Duration
}

// SessionConfig tunes session persistence when a Redis backend is used.
type SessionConfig struct {
	RedisPrefix string
	RedisTTL    time.Duration
}

// RealtimeConfig configures the live update channel. Leave URL empty to
// run without one.
type RealtimeConfig struct {
	URL              string
	Retry            realtime.RetryPolicy
	HandshakeTimeout time.Duration
}

// EventConfig tunes the async event dispatcher.
type EventConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull sheds events instead of blocking callers when the
	// buffer is saturated.
	DropIfFull bool
}

// MetricsConfig toggles counter collection.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			AuthBasePath:   "/v1/auth",
			RequestTimeout: 15 * time.Second,
		},
		Session: SessionConfig{
			RedisPrefix: "roadauth:",
		},
		Realtime: RealtimeConfig{
			Retry:            realtime.DefaultRetryPolicy(),
			HandshakeTimeout: 10 * time.Second,
		},
		Events: EventConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func (c *Config) applyDefaults() {
	def := defaultConfig()
	if c.API.AuthBasePath == "" {
		c.API.AuthBasePath = def.API.AuthBasePath
	}
	if c.API.RequestTimeout <= 0 {
		c.API.RequestTimeout = def.API.RequestTimeout
	}
	if c.Session.RedisPrefix == "" {
		c.Session.RedisPrefix = def.Session.RedisPrefix
	}
	if c.Realtime.Retry.MaxAttempts <= 0 {
		c.Realtime.Retry.MaxAttempts = def.Realtime.Retry.MaxAttempts
	}
	if c.Realtime.Retry.Delay <= 0 {
		c.Realtime.Retry.Delay = def.Realtime.Retry.Delay
	}
	if c.Realtime.HandshakeTimeout <= 0 {
		c.Realtime.HandshakeTimeout = def.Realtime.HandshakeTimeout
	}
	if c.Events.BufferSize <= 0 {
		c.Events.BufferSize = def.Events.BufferSize
	}
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return errors.New("roadauth: API.BaseURL is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("roadauth: API.BaseURL must be an absolute URL")
	}
	if !strings.HasPrefix(c.API.AuthBasePath, "/") {
		return errors.New("roadauth: API.AuthBasePath must start with /")
	}
	return nil
}
