package config

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied, unless SetFields marks the
// key as explicitly set.
func MergeConfig(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if isSet(source, KeyPort, source.Port != 0) {
		target.Port = source.Port
		target.Sources[KeyPort] = sourceType
	}
	if isSet(source, KeyHost, source.Host != "") {
		target.Host = source.Host
		target.Sources[KeyHost] = sourceType
	}
	if isSet(source, KeyIdleTimeoutMS, source.IdleTimeoutMS != 0) {
		target.IdleTimeoutMS = source.IdleTimeoutMS
		target.Sources[KeyIdleTimeoutMS] = sourceType
	}
	if isSet(source, KeyReadTimeout, source.ReadTimeout != 0) {
		target.ReadTimeout = source.ReadTimeout
		target.Sources[KeyReadTimeout] = sourceType
	}
	if isSet(source, KeyWriteTimeout, source.WriteTimeout != 0) {
		target.WriteTimeout = source.WriteTimeout
		target.Sources[KeyWriteTimeout] = sourceType
	}
	if isSet(source, KeyShutdownTimeout, source.ShutdownTimeout != 0) {
		target.ShutdownTimeout = source.ShutdownTimeout
		target.Sources[KeyShutdownTimeout] = sourceType
	}
	if isSet(source, KeyLogFormat, source.LogFormat != "") {
		target.LogFormat = source.LogFormat
		target.Sources[KeyLogFormat] = sourceType
	}
	// For booleans, checking `if source.X` cannot detect an explicit false.
	if isSet(source, KeyVerbose, source.Verbose) {
		target.Verbose = source.Verbose
		target.Sources[KeyVerbose] = sourceType
	}
	if isSet(source, KeyMetrics, source.Metrics) {
		target.Metrics = source.Metrics
		target.Sources[KeyMetrics] = sourceType
	}
}

// isSet reports whether the field identified by key should be merged. When
// SetFields is available it decides; otherwise a non-zero value counts as set.
func isSet(cfg *Config, key string, nonZero bool) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[key]
	}
	return nonZero
}
