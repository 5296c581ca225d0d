// Package permission defines the closed role and permission sets of the road
// infrastructure monitoring platform, the static role→permission table, and a
// fixed-width bitmask for fast membership checks.
//
// # Authority
//
// The table in this package mirrors the server-side role mapping and is
// advisory only: it drives UI gating, never an enforcement decision. The
// server remains the security boundary for every operation.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O. Bit positions
// are fixed at compile time and stable for the lifetime of the process.
//
// # What this package must NOT do
//
//   - Access the network or any storage.
//   - Import roadauth, session, or realtime.
//   - Accept roles or permissions outside the closed sets.
package permission
