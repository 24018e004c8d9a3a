// Package prometheus provides Prometheus collectors for shopauth metrics.
//
// [NewPrometheusExporter] accepts a [shopauth.Engine] and exposes an [http.Handler]
// that renders all shopauth counters and histograms in Prometheus text exposition format.
// Counter names are prefixed shopauth_*_total; the single histogram is
// shopauth_authenticate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate engine state.
package prometheus
