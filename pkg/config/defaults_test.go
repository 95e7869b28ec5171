package config

import (
	"testing"
	"time"

	"github.com/marmos91/smbtrans2/internal/adapter/smb/trans2"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected default log output 'stderr', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_Codec(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Codec.Strictness != trans2.StrictnessLenient {
		t.Errorf("Expected default strictness lenient, got %v", cfg.Codec.Strictness)
	}
	if cfg.Codec.MaxParameterCount != DefaultMaxParameterCount {
		t.Errorf("Expected default max parameter count %d, got %d", DefaultMaxParameterCount, cfg.Codec.MaxParameterCount)
	}
	if cfg.Codec.MaxDataCount != DefaultMaxDataCount {
		t.Errorf("Expected default max data count %d, got %d", DefaultMaxDataCount, cfg.Codec.MaxDataCount)
	}
	if cfg.Codec.MaxSetupCount != 0 || cfg.Codec.Timeout != 0 {
		t.Errorf("Expected zero max setup count and timeout, got %d and %v", cfg.Codec.MaxSetupCount, cfg.Codec.Timeout)
	}
}

func TestApplyDefaults_Output(t *testing.T) {
	cfg := &Config{Output: OutputConfig{Format: "JSON"}}
	ApplyDefaults(cfg)

	if cfg.Output.Format != "json" {
		t.Errorf("Expected output format normalized to 'json', got %q", cfg.Output.Format)
	}

	cfg = &Config{}
	ApplyDefaults(cfg)
	if cfg.Output.Format != "table" {
		t.Errorf("Expected default output format 'table', got %q", cfg.Output.Format)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "json",
			Output: "/var/log/trans2.log",
		},
		Codec: CodecConfig{
			Strictness:        trans2.StrictnessCanonical,
			MaxParameterCount: 10,
			MaxDataCount:      512,
			MaxSetupCount:     2,
			Timeout:           time.Second,
		},
	}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected level normalized to 'WARN', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "/var/log/trans2.log" {
		t.Errorf("Expected explicit output preserved, got %q", cfg.Logging.Output)
	}
	if cfg.Codec.Strictness != trans2.StrictnessCanonical {
		t.Errorf("Expected canonical strictness preserved, got %v", cfg.Codec.Strictness)
	}
	if cfg.Codec.MaxParameterCount != 10 || cfg.Codec.MaxDataCount != 512 || cfg.Codec.MaxSetupCount != 2 {
		t.Errorf("Expected explicit max counts preserved, got %+v", cfg.Codec)
	}
	if cfg.Codec.Timeout != time.Second {
		t.Errorf("Expected explicit timeout preserved, got %v", cfg.Codec.Timeout)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	if err := Validate(GetDefaultConfig()); err != nil {
		t.Errorf("Default config must validate, got: %v", err)
	}
}

func TestApplyDefaults_Telemetry(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Telemetry.Enabled || cfg.Telemetry.Profiling.Enabled {
		t.Error("Expected telemetry and profiling disabled by default")
	}
	if cfg.Telemetry.Endpoint != "localhost:4317" {
		t.Errorf("Expected default OTLP endpoint, got %q", cfg.Telemetry.Endpoint)
	}
	if !cfg.Telemetry.Insecure {
		t.Error("Expected insecure collector connection by default")
	}
	if cfg.Telemetry.SampleRate != 1.0 {
		t.Errorf("Expected default sample rate 1.0, got %v", cfg.Telemetry.SampleRate)
	}
	if cfg.Telemetry.Profiling.Endpoint != "http://localhost:4040" {
		t.Errorf("Expected default Pyroscope endpoint, got %q", cfg.Telemetry.Profiling.Endpoint)
	}
	if len(cfg.Telemetry.Profiling.ProfileTypes) != 2 {
		t.Errorf("Expected two default profile types, got %v", cfg.Telemetry.Profiling.ProfileTypes)
	}

	explicit := &Config{Telemetry: TelemetryConfig{SampleRate: 0.25, Profiling: ProfilingConfig{ProfileTypes: []string{"goroutines"}}}}
	ApplyDefaults(explicit)
	if explicit.Telemetry.SampleRate != 0.25 {
		t.Errorf("Expected explicit sample rate preserved, got %v", explicit.Telemetry.SampleRate)
	}
	if len(explicit.Telemetry.Profiling.ProfileTypes) != 1 {
		t.Errorf("Expected explicit profile types preserved, got %v", explicit.Telemetry.Profiling.ProfileTypes)
	}
}
