package config

import (
	"strconv"
	"time"
)

// Config is the resolved server configuration.
type Config struct {
	// Server settings
	Port int    `yaml:"port" json:"port"`
	Host string `yaml:"host" json:"host"`

	// Timeouts. IdleTimeoutMS is the keep-alive window for idle connections;
	// the others are in seconds.
	IdleTimeoutMS   int `yaml:"idleTimeoutMs" json:"idleTimeoutMs"`
	ReadTimeout     int `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout    int `yaml:"writeTimeout" json:"writeTimeout"`
	ShutdownTimeout int `yaml:"shutdownTimeout" json:"shutdownTimeout"`

	// Output settings
	Verbose   bool   `yaml:"verbose" json:"verbose"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`

	// Metrics exposes GET /metrics when set.
	Metrics bool `yaml:"metrics" json:"metrics"`

	// ConfigFile is the YAML file the configuration was read from, if any.
	ConfigFile string `yaml:"-" json:"configFile,omitempty"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// Warnings lists environment values that were present but ignored.
	Warnings []string `yaml:"-" json:"-"`

	// SetFields records which keys were explicitly present in a source, so
	// that an explicit false or zero can override a default.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
	SourceDerived = "derived"
)

// Field keys, shared by YAML tags, Sources and SetFields.
const (
	KeyPort            = "port"
	KeyHost            = "host"
	KeyIdleTimeoutMS   = "idleTimeoutMs"
	KeyReadTimeout     = "readTimeout"
	KeyWriteTimeout    = "writeTimeout"
	KeyShutdownTimeout = "shutdownTimeout"
	KeyVerbose         = "verbose"
	KeyLogFormat       = "logFormat"
	KeyMetrics         = "metrics"
)

// Keys lists every field key in display order.
var Keys = []string{
	KeyPort, KeyHost, KeyIdleTimeoutMS, KeyReadTimeout, KeyWriteTimeout,
	KeyShutdownTimeout, KeyVerbose, KeyLogFormat, KeyMetrics,
}

// IdleTimeout returns the keep-alive window as a duration.
func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMS) * time.Millisecond
}

// ReadTimeoutDuration returns the read timeout as a duration.
func (c Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns the write timeout as a duration.
func (c Config) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

// ShutdownTimeoutDuration returns the drain timeout as a duration.
func (c Config) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// Addr returns the listen address for Port.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Value returns the display form of the field identified by key.
func (c Config) Value(key string) any {
	switch key {
	case KeyPort:
		return c.Port
	case KeyHost:
		return c.Host
	case KeyIdleTimeoutMS:
		return c.IdleTimeoutMS
	case KeyReadTimeout:
		return c.ReadTimeout
	case KeyWriteTimeout:
		return c.WriteTimeout
	case KeyShutdownTimeout:
		return c.ShutdownTimeout
	case KeyVerbose:
		return c.Verbose
	case KeyLogFormat:
		return c.LogFormat
	case KeyMetrics:
		return c.Metrics
	default:
		return nil
	}
}
