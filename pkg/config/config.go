package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/marmos91/smbtrans2/internal/adapter/smb/trans2"
)

// Config represents the trans2ctl configuration.
//
// This structure captures the static settings of the codec tool:
//   - Logging configuration
//   - Codec strictness and the Max* defaults stamped on encoded requests
//   - Output rendering of decoded requests
//   - Metrics dumping
//   - OpenTelemetry tracing and Pyroscope profiling
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (TRANS2_*)
//  3. Configuration file (YAML or TOML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Codec controls encode defaults and decode validation
	Codec CodecConfig `mapstructure:"codec" yaml:"codec"`

	// Output controls how decoded requests and layouts are printed
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Metrics controls the Prometheus metrics dump
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Telemetry controls OpenTelemetry tracing and Pyroscope profiling
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	// Default: stderr, so logs never mix with hex on stdout
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// CodecConfig controls the TRANSACTION2 codec.
type CodecConfig struct {
	// Strictness selects decode validation: lenient, strict or canonical.
	// Default: lenient
	Strictness trans2.Strictness `mapstructure:"strictness" validate:"min=0,max=2" yaml:"strictness"`

	// MaxParameterCount is written to encoded requests that do not set it.
	// Default: 1024
	MaxParameterCount uint16 `mapstructure:"max_parameter_count" yaml:"max_parameter_count"`

	// MaxDataCount is written to encoded requests that do not set it.
	// Default: 16384
	MaxDataCount uint16 `mapstructure:"max_data_count" yaml:"max_data_count"`

	// MaxSetupCount is written to encoded requests that do not set it.
	// Default: 0
	MaxSetupCount uint8 `mapstructure:"max_setup_count" validate:"max=241" yaml:"max_setup_count"`

	// Timeout is written to encoded requests, in milliseconds on the wire.
	// Default: 0 (server default)
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0,max=1193h" yaml:"timeout"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	// Format is the rendering of decode and layout results
	// Valid values: table, json, yaml
	Format string `mapstructure:"format" validate:"required,oneof=table json yaml" yaml:"format"`
}

// MetricsConfig controls the codec metrics dump.
type MetricsConfig struct {
	// Enabled prints codec metrics in Prometheus text format to stderr
	// after each command.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// TelemetryConfig controls OpenTelemetry tracing of codec calls.
type TelemetryConfig struct {
	// Enabled exports one trace per command to an OTLP collector
	// Default: false
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint (host:port)
	// Default: "localhost:4317"
	Endpoint string `mapstructure:"endpoint" validate:"required" yaml:"endpoint"`

	// Insecure disables TLS to the collector
	// Default: true
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate is the trace sampling rate (0.0 to 1.0)
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1" yaml:"sample_rate"`

	// Profiling contains Pyroscope profiling configuration
	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope profiling of a command run.
type ProfilingConfig struct {
	// Enabled profiles each command and uploads on exit
	// Default: false
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the Pyroscope server URL
	// Default: "http://localhost:4040"
	Endpoint string `mapstructure:"endpoint" validate:"required,url" yaml:"endpoint"`

	// ProfileTypes lists the profiles to collect
	// Default: ["cpu", "alloc_space"]
	ProfileTypes []string `mapstructure:"profile_types" validate:"dive,oneof=cpu alloc_objects alloc_space inuse_objects inuse_space goroutines mutex_count mutex_duration block_count block_duration" yaml:"profile_types"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (TRANS2_*)
//  2. Configuration file
//  3. Default values
//
// A missing config file is not an error; defaults and environment still apply.
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)
	setViperDefaults(v, GetDefaultConfig())

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to the specified file path.
// The configuration is saved in YAML format using proper yaml tags.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use TRANS2_ prefix and underscores
	// Example: TRANS2_CODEC_STRICTNESS=strict
	v.SetEnvPrefix("TRANS2")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default location: $XDG_CONFIG_HOME/trans2ctl/config.yaml
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// setViperDefaults registers every key so AutomaticEnv can override it even
// when no config file mentions it.
func setViperDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("codec.strictness", d.Codec.Strictness.String())
	v.SetDefault("codec.max_parameter_count", d.Codec.MaxParameterCount)
	v.SetDefault("codec.max_data_count", d.Codec.MaxDataCount)
	v.SetDefault("codec.max_setup_count", d.Codec.MaxSetupCount)
	v.SetDefault("codec.timeout", d.Codec.Timeout.String())
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("telemetry.enabled", d.Telemetry.Enabled)
	v.SetDefault("telemetry.endpoint", d.Telemetry.Endpoint)
	v.SetDefault("telemetry.insecure", d.Telemetry.Insecure)
	v.SetDefault("telemetry.sample_rate", d.Telemetry.SampleRate)
	v.SetDefault("telemetry.profiling.enabled", d.Telemetry.Profiling.Enabled)
	v.SetDefault("telemetry.profiling.endpoint", d.Telemetry.Profiling.Endpoint)
	v.SetDefault("telemetry.profiling.profile_types", d.Telemetry.Profiling.ProfileTypes)
}

// readConfigFile reads the configuration file if it exists.
// Returns (fileFound, error) where fileFound indicates if a config file was found.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		// Explicit config file that doesn't exist
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	return true, nil
}

// configDecodeHooks returns a combined decode hook for all custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		strictnessDecodeHook(),
		durationDecodeHook(),
		// TRANS2_TELEMETRY_PROFILING_PROFILE_TYPES=cpu,goroutines
		mapstructure.StringToSliceHookFunc(","),
	)
}

// strictnessDecodeHook converts names like "strict" to trans2.Strictness.
func strictnessDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(trans2.Strictness(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return trans2.ParseStrictness(v)
		case int:
			return trans2.Strictness(v), nil
		case int64:
			return trans2.Strictness(v), nil
		case float64:
			return trans2.Strictness(v), nil
		default:
			return data, nil
		}
	}
}

// durationDecodeHook returns a mapstructure decode hook that converts strings
// to time.Duration. This enables config files to use human-readable durations
// like "500ms", "30s".
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			// Assume nanoseconds for raw integers
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "trans2ctl")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "trans2ctl")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
