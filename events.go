package roadauth

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roadinfra/roadauth/internal/events"
)

// Event is a single auth or realtime lifecycle record.
type Event = events.Event

// EventSink receives dispatched events.
type EventSink = events.Sink

// NoOpSink discards every event.
type NoOpSink = events.NoOpSink

// ChannelSink forwards events to a Go channel.
type ChannelSink = events.ChannelSink

// NewChannelSink returns a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink { return events.NewChannelSink(buffer) }

// NewJSONWriterSink writes one JSON line per event to w.
func NewJSONWriterSink(w io.Writer) EventSink { return events.NewJSONWriterSink(w) }

// Event types emitted by the client.
const (
	EventTypeLogin            = "login"
	EventTypeLogout           = "logout"
	EventTypeRefresh          = "refresh"
	EventTypeSessionExpired   = "session_expired"
	EventTypePasswordChanged  = "password_changed"
	EventTypePermissionDenied = "permission_denied"

	EventTypeRealtimeConnected   = "realtime_connected"
	EventTypeRealtimeReconnected = "realtime_reconnected"
	EventTypeRealtimeDropped     = "realtime_dropped"
	EventTypeRealtimeGaveUp      = "realtime_gave_up"
)

// eventDispatcher decouples event emission from sink latency. Events
// are handed to a buffered channel and written by a single worker
// goroutine; Close drains whatever is still queued.
type eventDispatcher struct {
	cfg       EventConfig
	sink      EventSink
	ch        chan Event
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func newEventDispatcher(cfg EventConfig, sink EventSink) *eventDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &eventDispatcher{
		cfg:  cfg,
		sink: sink,
		ch:   make(chan Event, cfg.BufferSize),
		done: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *eventDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.ch:
			d.sink.Emit(context.Background(), event)
		case <-d.done:
			for {
				select {
				case event := <-d.ch:
					d.sink.Emit(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

func (d *eventDispatcher) Emit(ctx context.Context, event Event) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- event:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- event:
	case <-ctx.Done():
	case <-d.done:
	}
}

func (d *eventDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

func (d *eventDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

func (c *Client) emitEvent(eventType, userID string, success bool, err error, meta map[string]string) {
	if c.events == nil {
		return
	}
	e := Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		Success:   success,
		Metadata:  meta,
	}
	if err != nil {
		e.Error = err.Error()
	}
	c.events.Emit(context.Background(), e)
}
