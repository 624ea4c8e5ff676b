// Package metrics provides Prometheus-compatible metrics for the bridge.
//
// It writes the Prometheus text exposition format (text/plain; version=0.0.4)
// using only the standard library.
//
// Supported metric types:
//   - Counter: monotonically increasing value, optionally labelled
//   - Gauge: value that can go up or down, optionally labelled
//   - GaugeFunc: unlabelled gauge sampled when scraped
//
// All metrics are safe for concurrent use.
//
// # Usage
//
//	registry := metrics.NewRegistry()
//	sent := registry.NewCounter("feignbridge_commands_total", "Commands sent to the agent.", "command", "outcome")
//	sent.With("update", "success").Inc()
//
//	registry.NewGaugeFunc("feignbridge_pending_commands", "Deferred commands.", func() float64 {
//		return float64(len(dispatcher.Pending()))
//	})
//
//	mux.Handle("GET /metrics", registry.Handler())
package metrics
