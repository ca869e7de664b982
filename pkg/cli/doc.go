// Package cli provides the command-line interface for echoidp.
//
// Commands:
//   - serve: run the identity provider in the foreground (default)
//   - token encode: wrap a JSON value into a token
//   - token decode: print the JSON value carried by a token
//   - config: display the effective configuration and where each value came from
//   - version: show build information
//
// Server flags (--port, --host, --verbose, ...) are persistent so that
// config reports the same resolution serve would use.
package cli
