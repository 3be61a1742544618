package vmlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyConfigString(t *testing.T) {
	logger, buf := createTestLogger(t)

	err := logger.ApplyConfigString(
		"categories=int,guest_errors",
		"dfilter=0x400000-0x4fffff",
		"address_bits=48",
		"buffered=true",
		"buffer_size=512",
		"internal_errors_to_stderr=false",
	)
	require.NoError(t, err)

	cfg := logger.GetConfig()
	assert.Equal(t, "int,guest_errors", cfg.Categories)
	assert.Equal(t, int64(48), cfg.AddressBits)
	assert.True(t, cfg.Buffered)
	assert.Equal(t, int64(512), cfg.BufferSize)
	assert.Equal(t, Int|GuestError, logger.Mask())
	assert.True(t, logger.InAddrRange(0x400000))
	assert.False(t, logger.InAddrRange(0x500000))

	logger.LogMask(Int, "irq 5\n")
	assert.Empty(t, buf.String(), "buffered until flush")
	require.NoError(t, logger.Flush())
	assert.Equal(t, "irq 5\n", buf.String())
}

func TestApplyConfigStringErrors(t *testing.T) {
	logger := NewLogger()
	before := logger.GetConfig()

	t.Run("single error", func(t *testing.T) {
		err := logger.ApplyConfigString("append=maybe")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid boolean value for append")
	})

	t.Run("errors combined", func(t *testing.T) {
		err := logger.ApplyConfigString(
			"categories=exec,unknown",
			"no_equals_sign",
			"buffer_size=lots",
			"colour=blue",
			"=value",
		)
		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, "multiple configuration errors:")
		assert.Contains(t, msg, "1. unknown log category: 'unknown'")
		assert.Contains(t, msg, "2. invalid format in override string 'no_equals_sign'")
		assert.Contains(t, msg, "3. invalid integer value for buffer_size 'lots'")
		assert.Contains(t, msg, "4. unknown configuration key 'colour'")
		assert.Contains(t, msg, "5. key cannot be empty")
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})

	t.Run("validation failure after parsing", func(t *testing.T) {
		err := logger.ApplyConfigString("address_bits=0")
		assert.Error(t, err)
	})

	assert.Equal(t, before, logger.GetConfig())
}

func TestApplyConfigStringEveryKey(t *testing.T) {
	cfg := DefaultConfig()
	overrides := map[string]string{
		"categories":                "exec",
		"dfilter":                   "0x10",
		"address_bits":              "32",
		"file":                      "x.log",
		"append":                    "true",
		"console_target":            "stdout",
		"buffered":                  "true",
		"buffer_size":               "128",
		"flush_interval_ms":         "25",
		"sanitize":                  "true",
		"internal_errors_to_stderr": "true",
	}
	for k, v := range overrides {
		require.NoError(t, applyConfigField(cfg, k, v), k)
	}

	assert.Equal(t, &Config{
		Categories:             "exec",
		DFilter:                "0x10",
		AddressBits:            32,
		File:                   "x.log",
		Append:                 true,
		ConsoleTarget:          "stdout",
		Buffered:               true,
		BufferSize:             128,
		FlushIntervalMs:        25,
		Sanitize:               true,
		InternalErrorsToStderr: true,
	}, cfg)
}

func TestApplyConfigStringKeepsLiveMask(t *testing.T) {
	logger, buf := createTestLogger(t)
	logger.SetMask(Exec)

	require.NoError(t, logger.ApplyConfigString("sanitize=true"))
	assert.Equal(t, Exec, logger.Mask())
	assert.Equal(t, "exec", logger.GetConfig().Categories)
	logger.LogMask(Exec, "hit\n")
	assert.Equal(t, "hit\n", buf.String())

	// Bits without a registered name survive too
	const spare Mask = 1 << 40
	require.NoError(t, logger.SetCategoriesMask(Int|spare))
	require.NoError(t, logger.ApplyConfigString("address_bits=48"))
	assert.Equal(t, Int|spare, logger.Mask())

	// An explicit override still wins
	require.NoError(t, logger.ApplyConfigString("categories=mmu"))
	assert.Equal(t, MMU, logger.Mask())

	// ApplyConfig replaces the mask from the configuration
	cfg := logger.GetConfig()
	cfg.Categories = ""
	require.NoError(t, logger.ApplyConfig(cfg))
	assert.Equal(t, Mask(0), logger.Mask())
}
