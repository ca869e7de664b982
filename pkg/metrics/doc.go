// Package metrics collects Prometheus metrics for the echoidp server.
//
// Metrics are registered on a private registry owned by a Collector, so
// several servers (or tests) can run in one process without colliding on
// the default registerer.
//
// # Metrics
//
//   - echoidp_http_requests_total: requests served (labels: method, route, status)
//   - echoidp_http_request_duration_seconds: request latency (labels: method, route)
//   - echoidp_http_inflight_requests: requests in progress
//   - echoidp_tokens_issued_total: tokens issued (labels: response_type)
//   - echoidp_introspections_total: introspection outcomes (labels: active)
//
// Go runtime and process collectors are registered alongside.
//
// # Usage
//
//	m := metrics.New()
//	provider := oauth.NewProvider(host, oauth.WithRecorder(m))
//	router.Use(m.Middleware)
//	router.Handle("/metrics", m.Handler())
package metrics
