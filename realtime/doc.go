// Package realtime maintains one logical push connection to the monitoring
// broker and routes inbound messages to topic subscribers.
//
// # Lifecycle
//
// Disconnected → Connecting → Connected, with transport drops entering
// Reconnecting until the retry budget is spent. Connect is not reentrant: a
// second call while connecting or connected is a no-op, never a second
// transport. Every disconnect, explicit or not, invalidates all
// subscriptions together; the connect callback re-fires after an automatic
// reconnect so callers can re-subscribe.
//
// # Delivery
//
// One read loop decodes each frame and dispatches synchronously, so delivery
// within a topic preserves arrival order. No ordering is guaranteed across
// topics. A frame that fails to decode is logged and dropped without
// affecting the connection or other subscribers.
package realtime
