// FILE: config.go
package vmlog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"

	"github.com/lixenwraith/vmlog/dfilter"
)

// Config holds all logger configuration values
type Config struct {
	// Selection
	Categories  string `toml:"categories"`   // Comma-separated category names, "all" for every category
	DFilter     string `toml:"dfilter"`      // Address ranges for address-keyed output, empty matches all
	AddressBits int64  `toml:"address_bits"` // Target address width bounding dfilter values

	// Sink
	File          string `toml:"file"`           // Log file path, "%d" expands to the PID; empty uses the console
	Append        bool   `toml:"append"`         // Append to an existing file instead of truncating
	ConsoleTarget string `toml:"console_target"` // "stderr" or "stdout" when no file is set

	// Buffering
	Buffered        bool  `toml:"buffered"`          // Buffer writes until Flush, Close or a full buffer
	BufferSize      int64 `toml:"buffer_size"`       // Write buffer size in bytes
	FlushIntervalMs int64 `toml:"flush_interval_ms"` // Periodic flush of buffered output, 0 disables

	// Output hygiene
	Sanitize bool `toml:"sanitize"` // Hex-encode non-printable characters in emitted text

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write the logger's own errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Categories:  "",
	DFilter:     "",
	AddressBits: 64,

	File:          "",
	Append:        false,
	ConsoleTarget: "stderr",

	Buffered:        false,
	BufferSize:      4096,
	FlushIntervalMs: 0,

	Sanitize: false,

	InternalErrorsToStderr: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Create a copy to prevent modifications to the original
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from the [vmlog] table of a TOML file and returns a validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("vmlog.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	// Extract values into our Config struct
	if err := extractConfig(loader, "vmlog.", cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	// Validate the loaded configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		// Get the toml tag to determine the config key
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		key := prefix + tomlTag

		// Get value from loader
		val, found := loader.Get(key)
		if !found {
			continue // Use default value
		}

		// Set the field value with type conversion
		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.AddressBits < 1 || c.AddressBits > 64 {
		return fmtErrorf("address_bits must be between 1 and 64: %d", c.AddressBits)
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	if c.BufferSize <= 0 {
		return fmtErrorf("buffer_size must be positive: %d", c.BufferSize)
	}

	if c.FlushIntervalMs < 0 {
		return fmtErrorf("flush_interval_ms cannot be negative: %d", c.FlushIntervalMs)
	}

	if strings.TrimSpace(c.File) != c.File {
		return fmtErrorf("%w: '%s' has surrounding whitespace", ErrInvalidLogFile, c.File)
	}
	if _, err := expandLogFileName(c.File, 0); err != nil {
		return err
	}

	if _, err := ParseMask(c.Categories); err != nil {
		return err
	}

	if _, err := dfilter.Parse(c.DFilter, int(c.AddressBits)); err != nil {
		return fmtErrorf("invalid dfilter: %w", err)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
