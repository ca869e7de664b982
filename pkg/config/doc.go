// Package config resolves the echoidp server configuration.
//
// Values are layered with the following precedence:
//  1. Command-line flags (highest priority)
//  2. Environment variables (ECHOIDP_*, plus the legacy PORT, HOSTNAME and NODE_ENV)
//  3. YAML config file (--config or ECHOIDP_CONFIG)
//  4. Default values (lowest priority)
//
// A .env file is loaded into the process environment before environment
// variables are read; variables already set in the environment win.
//
// The result is a plain Config value. It is resolved once at startup and
// passed to the components that need it; nothing reads the environment
// afterwards.
package config
