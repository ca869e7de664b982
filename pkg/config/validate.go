package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/getmockd/echoidp/pkg/logging"
)

// ValidationError lists every invalid field of a Config.
type ValidationError struct {
	Fields []FieldError
}

// FieldError describes one invalid field.
type FieldError struct {
	Key     string
	Message string
}

func (e FieldError) Error() string {
	return e.Key + ": " + e.Message
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Unwrap returns the individual field errors.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Fields))
	for i, f := range e.Fields {
		errs[i] = f
	}
	return errs
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var ve ValidationError
	add := func(key, format string, args ...any) {
		ve.Fields = append(ve.Fields, FieldError{Key: key, Message: fmt.Sprintf(format, args...)})
	}

	if c.Port < 1 || c.Port > 65535 {
		add(KeyPort, "must be between 1 and 65535, got %d", c.Port)
	}
	if err := validateHost(c.Host); err != nil {
		add(KeyHost, "%v", err)
	}
	if c.IdleTimeoutMS <= 0 {
		add(KeyIdleTimeoutMS, "must be positive, got %d", c.IdleTimeoutMS)
	}
	if c.ReadTimeout <= 0 {
		add(KeyReadTimeout, "must be positive, got %d", c.ReadTimeout)
	}
	if c.WriteTimeout <= 0 {
		add(KeyWriteTimeout, "must be positive, got %d", c.WriteTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		add(KeyShutdownTimeout, "must be positive, got %d", c.ShutdownTimeout)
	}
	switch logging.Format(strings.ToLower(c.LogFormat)) {
	case logging.FormatText, logging.FormatJSON:
	default:
		add(KeyLogFormat, "must be %q or %q, got %q", logging.FormatText, logging.FormatJSON, c.LogFormat)
	}

	if len(ve.Fields) > 0 {
		return &ve
	}
	return nil
}

func validateHost(host string) error {
	if host == "" {
		return errors.New("must not be empty")
	}
	u, err := url.Parse(host)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an absolute http or https URL, got %q", host)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", host)
	}
	return nil
}
