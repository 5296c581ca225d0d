// Package otel provides OpenTelemetry metric bindings for roadauth
// counters.
//
// [NewOTelExporter] registers an Int64ObservableCounter per counter
// definition plus one for dropped events; a single callback reads
// [roadauth.Client.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate client state.
package otel
