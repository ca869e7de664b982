package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultEnvFile is loaded when present and no other env file is named.
const DefaultEnvFile = ".env"

// LoadConfigFile loads a Config from a YAML file. Unknown keys are rejected.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(path, data)
}

func parseConfig(path string, data []byte) (*Config, error) {
	var cfg Config
	if len(bytes.TrimSpace(data)) == 0 {
		cfg.Sources = make(map[string]string)
		cfg.SetFields = make(map[string]bool)
		cfg.ConfigFile = path
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, yamlError(path, err)
	}

	// A second pass over the raw mapping tells explicit zero values apart
	// from absent keys.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, yamlError(path, err)
	}
	cfg.SetFields = make(map[string]bool, len(raw))
	for key := range raw {
		cfg.SetFields[key] = true
	}

	cfg.Sources = make(map[string]string)
	cfg.ConfigFile = path
	return &cfg, nil
}

func yamlError(path string, err error) *ConfigError {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		return &ConfigError{Path: path, Message: typeErr.Errors[0], Err: err}
	}
	return &ConfigError{Path: path, Message: err.Error(), Err: err}
}

// ConfigError represents a configuration file or variable error.
type ConfigError struct {
	Path    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return e.Path + ": " + e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadOptions controls how Load resolves the configuration.
type LoadOptions struct {
	// ConfigFile names a YAML file. When empty, ECHOIDP_CONFIG is consulted.
	ConfigFile string

	// EnvFile names a .env file. When empty, DefaultEnvFile is used if it exists.
	EnvFile string

	// Flags holds values given on the command line. Only keys present in
	// Flags.SetFields are applied.
	Flags *Config

	// Lookup reads environment variables. Defaults to os.LookupEnv.
	Lookup LookupFunc

	// SkipDotEnv disables .env loading.
	SkipDotEnv bool
}

// Load resolves the configuration from all sources and validates it.
// Precedence: flags > env > config file > defaults
func Load(opts LoadOptions) (*Config, error) {
	if !opts.SkipDotEnv {
		envFile, required := opts.EnvFile, true
		if envFile == "" {
			envFile, required = DefaultEnvFile, false
		}
		if err := LoadDotEnv(envFile, required); err != nil {
			return nil, err
		}
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	// Start with defaults
	cfg := NewDefault()

	// Config file
	path := opts.ConfigFile
	if path == "" {
		path, _ = lookupNonEmpty(lookup, EnvConfig)
	}
	if path != "" {
		fileCfg, err := LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		MergeConfig(cfg, fileCfg, SourceFile)
		cfg.ConfigFile = path
	}

	// Environment variables
	if err := LoadEnvConfig(cfg, lookup); err != nil {
		return nil, err
	}

	// Flags
	if opts.Flags != nil {
		flags := *opts.Flags
		if flags.SetFields == nil {
			flags.SetFields = make(map[string]bool)
		}
		MergeConfig(cfg, &flags, SourceFlag)
	}

	// Host follows the final port unless someone set it.
	if cfg.Host == "" {
		cfg.Host = DefaultHost(cfg.Port)
		cfg.Sources[KeyHost] = SourceDerived
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
