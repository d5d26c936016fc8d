// Package otel publishes goSession store counters through an OpenTelemetry
// [metric.Meter].
//
// Each counter becomes an Int64ObservableCounter. The commit latency
// histogram is exposed as one Int64ObservableGauge per cumulative bucket plus
// a count gauge, since the store only keeps bucket counts.
//
// # What this package must NOT do
//
//   - Own the MeterProvider. Callers supply the Meter.
//   - Mutate store state.
package otel
