// Package session owns the authenticated identity and credential material of
// the dashboard client: the current user, the access/refresh token pair, and
// the two session flags. The [Store] is the single writer; every other
// component reads value-type snapshots through it and never mutates session
// state directly.
//
// # Persistence
//
// Snapshots are serialized as one JSON document under the fixed storage key
// [StorageKey] so a session survives client restarts. Persistence backends
// are interchangeable behind [Backend]: in-memory, a local file, a bbolt
// bucket, or a redis key. Only the durable fields are persisted; the epoch
// counter and change subscribers are process-local.
//
// # Epoch guard
//
// Clearing the store advances an epoch counter. A token refresh that started
// before a logout commits its result through [Store.ApplyRefresh] with the
// epoch it observed; a moved epoch means the session was cleared in the
// interim and the result is discarded instead of resurrecting the session.
package session
