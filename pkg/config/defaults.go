package config

import "strconv"

// DefaultPort is the default HTTP server port.
const DefaultPort = 3001

// DefaultIdleTimeoutMS closes idle keep-alive connections after one second.
const DefaultIdleTimeoutMS = 1000

// DefaultReadTimeout is the default read timeout in seconds.
const DefaultReadTimeout = 30

// DefaultWriteTimeout is the default write timeout in seconds.
const DefaultWriteTimeout = 30

// DefaultShutdownTimeout bounds the graceful drain on interrupt, in seconds.
const DefaultShutdownTimeout = 5

// DefaultLogFormat is the default log output format.
const DefaultLogFormat = "text"

// DefaultHost returns the host advertised when none is configured.
func DefaultHost(port int) string {
	if port == 0 {
		port = DefaultPort
	}
	return "http://localhost:" + strconv.Itoa(port)
}

// NewDefault creates a new Config with default values. Host is left empty
// and derived from the final port by Resolve.
func NewDefault() *Config {
	cfg := &Config{
		Port:            DefaultPort,
		IdleTimeoutMS:   DefaultIdleTimeoutMS,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		LogFormat:       DefaultLogFormat,
		Metrics:         true,
		Sources:         make(map[string]string),
	}

	// Mark all as default source
	for _, key := range Keys {
		cfg.Sources[key] = SourceDefault
	}

	return cfg
}
