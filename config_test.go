// FILE: lixenwraith/vmlog/config_test.go
package vmlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "", cfg.Categories)
	assert.Equal(t, "", cfg.DFilter)
	assert.Equal(t, int64(64), cfg.AddressBits)
	assert.Equal(t, "", cfg.File)
	assert.False(t, cfg.Append)
	assert.Equal(t, "stderr", cfg.ConsoleTarget)
	assert.False(t, cfg.Buffered)
	assert.Equal(t, int64(4096), cfg.BufferSize)
	assert.Zero(t, cfg.FlushIntervalMs)
	assert.False(t, cfg.Sanitize)
	assert.False(t, cfg.InternalErrorsToStderr)
	assert.NoError(t, cfg.validate())

	// Callers cannot modify the shared defaults
	cfg.File = "changed"
	assert.Equal(t, "", DefaultConfig().File)
}

func TestConfigClone(t *testing.T) {
	cfg1 := DefaultConfig()
	cfg1.Categories = "exec"
	cfg1.File = "/tmp/trace.log"

	cfg2 := cfg1.Clone()

	// Verify deep copy
	assert.Equal(t, cfg1, cfg2)

	// Modify original
	cfg1.Categories = "mmu"

	// Verify clone unchanged
	assert.Equal(t, "exec", cfg2.Categories)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError string
	}{
		{
			name:   "valid config",
			modify: func(c *Config) { c.Categories = "all"; c.DFilter = "0-ffff"; c.File = "trace-%d.log" },
		},
		{
			name:      "address bits too small",
			modify:    func(c *Config) { c.AddressBits = 0 },
			wantError: "address_bits must be between 1 and 64",
		},
		{
			name:      "address bits too large",
			modify:    func(c *Config) { c.AddressBits = 65 },
			wantError: "address_bits must be between 1 and 64",
		},
		{
			name:      "invalid console target",
			modify:    func(c *Config) { c.ConsoleTarget = "stdlog" },
			wantError: "invalid console_target",
		},
		{
			name:      "non-positive buffer size",
			modify:    func(c *Config) { c.BufferSize = 0 },
			wantError: "buffer_size must be positive",
		},
		{
			name:      "negative flush interval",
			modify:    func(c *Config) { c.FlushIntervalMs = -1 },
			wantError: "flush_interval_ms cannot be negative",
		},
		{
			name:      "bad file verb",
			modify:    func(c *Config) { c.File = "trace-%x.log" },
			wantError: "invalid log file name",
		},
		{
			name:      "unknown category",
			modify:    func(c *Config) { c.Categories = "exec,bogus" },
			wantError: "unknown log category",
		},
		{
			name:      "dfilter wider than address bits",
			modify:    func(c *Config) { c.AddressBits = 16; c.DFilter = "0x10000" },
			wantError: "invalid dfilter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.validate()

			if tt.wantError == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
			}
		})
	}
}

func TestNewConfigFromFile(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := NewConfigFromFile(filepath.Join(t.TempDir(), "absent.toml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("values from vmlog table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vm.toml")
		content := `
[vmlog]
categories = "exec,mmu"
dfilter = "0x1000-0x1fff"
console_target = "stdout"
sanitize = true
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := NewConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "exec,mmu", cfg.Categories)
		assert.Equal(t, "0x1000-0x1fff", cfg.DFilter)
		assert.Equal(t, "stdout", cfg.ConsoleTarget)
		assert.True(t, cfg.Sanitize)
		assert.Equal(t, int64(4096), cfg.BufferSize, "unset keys keep defaults")
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vm.toml")
		require.NoError(t, os.WriteFile(path, []byte("[vmlog]\ncategories = \"nope\"\n"), 0644))

		_, err := NewConfigFromFile(path)
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})
}
