// FILE: override.go
package vmlog

import (
	"strconv"
)

// ApplyConfigString applies string key-value overrides to the logger's current configuration.
// Each override should be in the format "key=value". All overrides are parsed
// before anything is applied; any error leaves the logger unchanged.
//
// Example:
//
//	logger := vmlog.NewLogger()
//	err := logger.ApplyConfigString(
//	    "categories=exec,mmu",
//	    "file=/tmp/trace-%d.log",
//	    "dfilter=0x1000-0x1fff",
//	)
//
// Without a categories override the live mask is kept, including bits set
// with SetMask.
func (l *Logger) ApplyConfigString(overrides ...string) error {
	cfg := l.getConfig().Clone()
	mask := l.Mask()
	cfg.Categories = categoryList(mask)

	var errs []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errs = append(errs, err)
			continue
		}
		if key == "categories" {
			// Validated by applyConfigField
			mask, _ = ParseMask(value)
		}
	}

	if len(errs) > 0 {
		return combineConfigErrors(errs)
	}

	return l.applyConfig(cfg, mask)
}

// applyConfigField applies a single key-value override to a Config.
// This is the core field mapping logic for string overrides.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Selection
	case "categories":
		if _, err := ParseMask(value); err != nil {
			return err
		}
		cfg.Categories = value
	case "dfilter":
		cfg.DFilter = value
	case "address_bits":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for address_bits '%s': %w", value, err)
		}
		cfg.AddressBits = intVal

	// Sink
	case "file":
		cfg.File = value
	case "append":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for append '%s': %w", value, err)
		}
		cfg.Append = boolVal
	case "console_target":
		cfg.ConsoleTarget = value

	// Buffering
	case "buffered":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for buffered '%s': %w", value, err)
		}
		cfg.Buffered = boolVal
	case "buffer_size":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for buffer_size '%s': %w", value, err)
		}
		cfg.BufferSize = intVal
	case "flush_interval_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for flush_interval_ms '%s': %w", value, err)
		}
		cfg.FlushIntervalMs = intVal

	// Output hygiene
	case "sanitize":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for sanitize '%s': %w", value, err)
		}
		cfg.Sanitize = boolVal

	// Internal error handling
	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}
