// Package metrics exposes Prometheus counters for scan runs.
//
// Services record chunk throughput, resolutions per confidence tier,
// qualifying rows and run outcomes through a *Metrics. The HTTP server mounts
// Handler on the configured path. A nil *Metrics is a valid no-op recorder,
// which is what CLI runs use.
package metrics
