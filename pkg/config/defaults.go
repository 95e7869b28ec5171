package config

import (
	"strings"
)

// Default Max* values stamped on encoded requests.
const (
	DefaultMaxParameterCount = 1024
	DefaultMaxDataCount      = 16384
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
//
// Strictness, MaxSetupCount and Timeout default to their zero values.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyCodecDefaults(&cfg.Codec)
	applyOutputDefaults(&cfg.Output)
	applyTelemetryDefaults(&cfg.Telemetry)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyCodecDefaults sets the Max* encode defaults.
func applyCodecDefaults(cfg *CodecConfig) {
	if cfg.MaxParameterCount == 0 {
		cfg.MaxParameterCount = DefaultMaxParameterCount
	}
	if cfg.MaxDataCount == 0 {
		cfg.MaxDataCount = DefaultMaxDataCount
	}
}

// applyOutputDefaults sets output defaults.
func applyOutputDefaults(cfg *OutputConfig) {
	if cfg.Format == "" {
		cfg.Format = "table"
	}
	cfg.Format = strings.ToLower(cfg.Format)
}

// applyTelemetryDefaults sets OpenTelemetry and Pyroscope defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}

	if cfg.Profiling.Endpoint == "" {
		cfg.Profiling.Endpoint = "http://localhost:4040"
	}
	if len(cfg.Profiling.ProfileTypes) == 0 {
		cfg.Profiling.ProfileTypes = []string{"cpu", "alloc_space"}
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
func GetDefaultConfig() *Config {
	cfg := &Config{
		// A local collector without TLS is the common case.
		Telemetry: TelemetryConfig{Insecure: true},
	}
	ApplyDefaults(cfg)
	return cfg
}
