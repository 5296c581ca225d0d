package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// State is the channel's connection state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	}
	return "unknown"
}

// EventKind classifies channel lifecycle notifications delivered to
// [Config.OnEvent].
type EventKind int

const (
	EventConnected EventKind = iota
	EventReconnected
	EventDropped
	EventGaveUp
	EventMessage
	EventDecodeError
)

// TokenSource supplies the bearer credential attached to the connect
// handshake. Called on every dial so reconnects pick up rotated tokens.
type TokenSource func() string

// Config configures a [Channel].
type Config struct {
	// URL is the broker websocket endpoint.
	URL string
	// Token supplies the connect-time credential. Optional.
	Token TokenSource
	// Retry bounds automatic reconnection. Zero value means
	// [DefaultRetryPolicy].
	Retry RetryPolicy
	// HandshakeTimeout bounds the websocket dial. Zero means 10s.
	HandshakeTimeout time.Duration
	// OnEvent observes lifecycle transitions and per-message activity.
	// Optional; must not block.
	OnEvent func(kind EventKind, topic string, err error)
}

type subEntry struct {
	id string
	fn func(json.RawMessage)
}

// Channel is one logical connection to the broker. All methods are safe for
// concurrent use.
type Channel struct {
	cfg    Config
	dialer *websocket.Dialer
	sleep  func(time.Duration)

	mu        sync.Mutex
	state     State
	conn      *websocket.Conn
	gen       uint64
	topics    map[string][]subEntry
	ids       map[string]string
	onConnect func()
	onError   func(error)
}

// NewChannel creates a disconnected channel for the given broker endpoint.
func NewChannel(cfg Config) *Channel {
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryPolicy()
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	return &Channel{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		sleep:  time.Sleep,
		topics: make(map[string][]subEntry),
		ids:    make(map[string]string),
	}
}

// State returns the current connection state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsConnected reports whether the channel is currently connected.
func (c *Channel) IsConnected() bool {
	return c.State() == StateConnected
}

// Connect opens the transport with the current access token attached as the
// connect-time credential. No-op when already connecting or connected.
// onConnect runs after every successful connect, including automatic
// reconnects; onError receives handshake failures instead of an error
// return. Neither callback is required.
func (c *Channel) Connect(onConnect func(), onError func(error)) {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.onConnect = onConnect
	c.onError = onError
	gen := c.gen
	c.mu.Unlock()

	conn, err := c.dial()
	if err != nil {
		c.mu.Lock()
		if c.gen == gen && c.state == StateConnecting {
			c.state = StateDisconnected
		}
		c.mu.Unlock()
		c.observe(EventDropped, "", err)
		if onError != nil {
			onError(err)
		}
		return
	}

	c.mu.Lock()
	if c.gen != gen {
		// Disconnect raced the handshake; the session wins.
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.state = StateConnected
	c.mu.Unlock()

	c.observe(EventConnected, "", nil)
	if onConnect != nil {
		onConnect()
	}
	go c.readLoop(conn, gen)
}

// Subscribe registers a callback for a topic and returns its subscription
// id. Valid only while connected: otherwise a warning is logged and the
// empty sentinel id is returned, meaning the subscription did not happen.
func (c *Channel) Subscribe(topic string, fn func(json.RawMessage)) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnected {
		log.Print("roadauth: subscribe while realtime channel not connected")
		return ""
	}
	id := "sub-" + uuid.NewString()
	c.topics[topic] = append(c.topics[topic], subEntry{id: id, fn: fn})
	c.ids[id] = topic
	return id
}

// Unsubscribe removes a subscription. No-op for unknown or already-removed
// ids, including the empty sentinel.
func (c *Channel) Unsubscribe(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	topic, ok := c.ids[id]
	if !ok {
		return
	}
	delete(c.ids, id)
	entries := c.topics[topic]
	for i, e := range entries {
		if e.id == id {
			c.topics[topic] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(c.topics[topic]) == 0 {
		delete(c.topics, topic)
	}
}

// Disconnect releases every subscription, tears down the transport, and
// returns to Disconnected. Always safe to call.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	c.gen++
	c.clearSubscriptionsLocked()
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

func (c *Channel) dial() (*websocket.Conn, error) {
	header := http.Header{}
	if c.cfg.Token != nil {
		if tok := c.cfg.Token(); tok != "" {
			header.Set("Authorization", "Bearer "+tok)
		}
	}
	conn, resp, err := c.dialer.Dial(c.cfg.URL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn, err
}

func (c *Channel) readLoop(conn *websocket.Conn, gen uint64) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleDrop(conn, gen, err)
			return
		}
		c.dispatch(data)
	}
}

func (c *Channel) dispatch(data []byte) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil || f.Topic == "" {
		log.Print("roadauth: dropping malformed realtime frame")
		c.observe(EventDecodeError, "", err)
		return
	}
	c.mu.Lock()
	entries := append([]subEntry(nil), c.topics[f.Topic]...)
	c.mu.Unlock()

	c.observe(EventMessage, f.Topic, nil)
	for _, e := range entries {
		e.fn(f.Payload)
	}
}

func (c *Channel) handleDrop(conn *websocket.Conn, gen uint64, err error) {
	c.mu.Lock()
	if c.gen != gen || c.conn != conn {
		// Explicit Disconnect already tore this connection down.
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.clearSubscriptionsLocked()
	c.state = StateReconnecting
	c.mu.Unlock()

	c.observe(EventDropped, "", err)
	c.redial(gen)
}

// redial retries the transport with a fixed delay until the budget is spent,
// then gives up and rests in Disconnected.
func (c *Channel) redial(gen uint64) {
	for attempt := 1; attempt <= c.cfg.Retry.MaxAttempts; attempt++ {
		c.sleep(c.cfg.Retry.Delay)

		c.mu.Lock()
		if c.gen != gen || c.state != StateReconnecting {
			c.mu.Unlock()
			return
		}
		onConnect := c.onConnect
		c.mu.Unlock()

		conn, err := c.dial()
		if err != nil {
			continue
		}

		c.mu.Lock()
		if c.gen != gen || c.state != StateReconnecting {
			c.mu.Unlock()
			conn.Close()
			return
		}
		c.conn = conn
		c.state = StateConnected
		c.mu.Unlock()

		c.observe(EventReconnected, "", nil)
		if onConnect != nil {
			onConnect()
		}
		go c.readLoop(conn, gen)
		return
	}

	c.mu.Lock()
	gaveUp := c.gen == gen && c.state == StateReconnecting
	if gaveUp {
		c.state = StateDisconnected
	}
	onError := c.onError
	c.mu.Unlock()

	if gaveUp {
		log.Print("roadauth: realtime reconnect budget exhausted")
		c.observe(EventGaveUp, "", nil)
		if onError != nil {
			onError(ErrReconnectExhausted)
		}
	}
}

func (c *Channel) clearSubscriptionsLocked() {
	c.topics = make(map[string][]subEntry)
	c.ids = make(map[string]string)
}

func (c *Channel) observe(kind EventKind, topic string, err error) {
	if c.cfg.OnEvent != nil {
		c.cfg.OnEvent(kind, topic, err)
	}
}
