// Package logging provides structured logging configuration for echoidp.
//
// This package wraps log/slog to provide consistent logging across all
// components. It supports configurable log levels and output formats.
//
// # Usage
//
// Create a logger from the verbosity flag:
//
//	logger := logging.FromVerbosity(cfg.Verbose, cfg.LogFormat, os.Stdout)
//
//	logger.Debug("started server", "host", cfg.Host, "port", cfg.Port)
//	logger.Error("server error", "error", err)
//
// Non-verbose loggers only write warnings and errors.
//
// # Output Formats
//
//   - Text: Human-readable format for development
//   - JSON: Structured format for log aggregation systems
//
// # Integration
//
// Components should accept a *slog.Logger in their constructor or via an
// option. If no logger is provided, use logging.Nop() for a no-op logger.
package logging
