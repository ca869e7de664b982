package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvPort      = "ECHOIDP_PORT"
	EnvHost      = "ECHOIDP_HOST"
	EnvVerbose   = "ECHOIDP_VERBOSE"
	EnvLogFormat = "ECHOIDP_LOG_FORMAT"
	EnvConfig    = "ECHOIDP_CONFIG"
	EnvMetrics   = "ECHOIDP_METRICS"

	// Legacy names, honored when the ECHOIDP_ variant is unset.
	EnvLegacyPort     = "PORT"
	EnvLegacyHostname = "HOSTNAME"
	EnvLegacyNodeEnv  = "NODE_ENV"
)

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already present are left alone. A missing file is not an error
// unless required is set.
func LoadDotEnv(path string, required bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return &ConfigError{Path: path, Message: err.Error()}
	}
	return nil
}

// envVars maps the supported environment variables. Pointer fields stay nil
// when the variable is unset.
type envVars struct {
	Port           *int   `env:"ECHOIDP_PORT"`
	LegacyPort     *int   `env:"PORT"`
	Host           string `env:"ECHOIDP_HOST"`
	LegacyHostname string `env:"HOSTNAME"`
	Verbose        *bool  `env:"ECHOIDP_VERBOSE"`
	LegacyNodeEnv  string `env:"NODE_ENV"`
	LogFormat      string `env:"ECHOIDP_LOG_FORMAT"`
	Metrics        *bool  `env:"ECHOIDP_METRICS"`
}

var envNames = []string{
	EnvPort, EnvLegacyPort, EnvHost, EnvLegacyHostname,
	EnvVerbose, EnvLegacyNodeEnv, EnvLogFormat, EnvMetrics,
}

// LoadEnvConfig applies environment variables to cfg. It only sets values
// that are present and non-blank. ECHOIDP_* variables take priority over
// the legacy names.
func LoadEnvConfig(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	environ := make(map[string]string, len(envNames))
	for _, name := range envNames {
		if v, ok := lookupNonEmpty(lookup, name); ok {
			environ[name] = v
		}
	}

	var vars envVars
	if err := env.ParseWithOptions(&vars, env.Options{Environment: environ}); err != nil {
		return &ConfigError{Path: "environment", Message: err.Error(), Err: err}
	}

	switch {
	case vars.Port != nil:
		cfg.Port = *vars.Port
		cfg.Sources[KeyPort] = SourceEnv
	case vars.LegacyPort != nil:
		cfg.Port = *vars.LegacyPort
		cfg.Sources[KeyPort] = SourceEnv
	}

	// HOSTNAME is usually a bare machine name; only a URL is taken as host.
	switch {
	case vars.Host != "":
		cfg.Host = vars.Host
		cfg.Sources[KeyHost] = SourceEnv
	case isHTTPURL(vars.LegacyHostname):
		cfg.Host = vars.LegacyHostname
		cfg.Sources[KeyHost] = SourceEnv
	case vars.LegacyHostname != "":
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf(
			"%s=%q ignored: not an http(s) URL", EnvLegacyHostname, vars.LegacyHostname))
	}

	switch {
	case vars.Verbose != nil:
		cfg.Verbose = *vars.Verbose
		cfg.Sources[KeyVerbose] = SourceEnv
	case strings.EqualFold(vars.LegacyNodeEnv, "debug"):
		cfg.Verbose = true
		cfg.Sources[KeyVerbose] = SourceEnv
	}

	if vars.LogFormat != "" {
		cfg.LogFormat = vars.LogFormat
		cfg.Sources[KeyLogFormat] = SourceEnv
	}

	if vars.Metrics != nil {
		cfg.Metrics = *vars.Metrics
		cfg.Sources[KeyMetrics] = SourceEnv
	}

	return nil
}

func lookupNonEmpty(lookup LookupFunc, name string) (string, bool) {
	v, ok := lookup(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func isHTTPURL(v string) bool {
	if v == "" {
		return false
	}
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
