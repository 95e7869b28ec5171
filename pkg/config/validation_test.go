package config

import (
	"strings"
	"testing"
	"time"

	"github.com/marmos91/smbtrans2/internal/adapter/smb/trans2"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	err := Validate(cfg)
	if err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "Logging.Level") {
		t.Errorf("Expected error to name the field, got: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_InvalidOutputFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Output.Format = "csv"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid output format")
	}
	if !strings.Contains(err.Error(), "Output.Format") {
		t.Errorf("Expected error about output format, got: %v", err)
	}
}

func TestValidate_StrictnessOutOfRange(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Codec.Strictness = trans2.Strictness(7)

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for strictness out of range")
	}
	if !strings.Contains(err.Error(), "max") {
		t.Errorf("Expected 'max' validation error, got: %v", err)
	}
}

func TestValidate_MaxSetupCount(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Codec.MaxSetupCount = 242

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for max setup count above 241")
	}

	cfg.Codec.MaxSetupCount = 241
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected max setup count 241 to validate, got: %v", err)
	}
}

func TestValidate_Timeout(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Codec.Timeout = -time.Second

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for negative timeout")
	}

	cfg.Codec.Timeout = 2000 * time.Hour
	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for timeout beyond 32-bit milliseconds")
	}
}

func TestValidate_MissingLogOutput(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Output = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for missing log output")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("Expected 'required' validation error, got: %v", err)
	}
}

func TestValidate_LogLevelNormalization(t *testing.T) {
	testCases := []string{"info", "INFO", "debug", "DEBUG", "warn", "WARN", "error", "ERROR"}

	for _, level := range testCases {
		cfg := GetDefaultConfig()
		cfg.Logging.Level = level

		err := Validate(cfg)
		if err != nil {
			t.Errorf("Validation failed for level %q: %v", level, err)
		}

		// Validation should NOT normalize - level should remain as-is
		if cfg.Logging.Level != level {
			t.Errorf("Expected level to remain %q after validation, got %q", level, cfg.Logging.Level)
		}
	}

	// Normalization happens in ApplyDefaults
	cfg := &Config{Logging: LoggingConfig{Level: "info"}}
	ApplyDefaults(cfg)
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected ApplyDefaults to normalize 'info' to 'INFO', got %q", cfg.Logging.Level)
	}
}

func TestValidate_Telemetry(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.SampleRate = 1.5
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "Telemetry.SampleRate") {
		t.Errorf("Expected sample rate validation error, got: %v", err)
	}

	cfg = GetDefaultConfig()
	cfg.Telemetry.Profiling.ProfileTypes = []string{"cpu", "heap"}
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "ProfileTypes[1]") {
		t.Errorf("Expected profile type validation error, got: %v", err)
	}

	cfg = GetDefaultConfig()
	cfg.Telemetry.Profiling.Endpoint = "not a url"
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for invalid Pyroscope endpoint")
	}
}
