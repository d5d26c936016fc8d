// Package prometheus renders goSession store counters in the Prometheus text
// exposition format without depending on the Prometheus client library.
//
// [Exporter.Handler] can be mounted on any mux:
//
//	mux.Handle("/metrics", prometheus.NewExporter(store).Handler())
//
// Counter names are prefixed gosession_. The commit latency histogram is only
// present when latency histograms are enabled on the store.
//
// # What this package must NOT do
//
//   - Mutate store state.
//   - Register global collectors.
package prometheus
