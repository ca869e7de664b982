// Package server wires the echoidp HTTP surface: the OAuth responders,
// health and metrics endpoints, and the middleware around them.
//
// Routes:
//
//	GET  /.well-known/openid-configuration   discovery document
//	POST /authorize                          issue a token
//	POST /token                              issue a token (same handler)
//	POST /introspect                         decode a token
//	GET  /healthz                            liveness
//	GET  /metrics                            Prometheus metrics, when enabled
//
// Every response carries an X-Request-ID header. Panics in handlers are
// recovered and answered with 500.
package server
