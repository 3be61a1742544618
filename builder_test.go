// FILE: lixenwraith/vmlog/builder_test.go
package vmlog

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	t.Run("successful build returns configured logger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trace-%d.log")

		logger, err := NewBuilder().
			Categories("in_asm,exec").
			DFilter("0x1000-0x1fff").
			AddressBits(32).
			File(path).
			Append(true).
			Buffered(2048).
			Sanitize(true).
			Build()

		// Ensure the logger is cleaned up
		if logger != nil {
			defer logger.Close()
		}

		require.NoError(t, err, "Builder.Build() should not return an error on valid config")
		require.NotNil(t, logger, "Builder.Build() should return a non-nil logger")

		cfg := logger.GetConfig()
		assert.Equal(t, "in_asm,exec", cfg.Categories)
		assert.Equal(t, "0x1000-0x1fff", cfg.DFilter)
		assert.Equal(t, int64(32), cfg.AddressBits)
		assert.Equal(t, path, cfg.File)
		assert.True(t, cfg.Append)
		assert.True(t, cfg.Buffered)
		assert.Equal(t, int64(2048), cfg.BufferSize)
		assert.True(t, cfg.Sanitize)

		assert.Equal(t, TBInAsm|Exec, logger.Mask())
		assert.True(t, logger.IsEnabled())
		assert.True(t, logger.IsSeparate())
	})

	t.Run("mask and output", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewBuilder().Mask(Int | Unimp).ConsoleTarget("stdout").Output(&buf).Build()
		require.NoError(t, err)
		defer logger.Close()

		assert.Equal(t, "int,unimp", logger.GetConfig().Categories)
		logger.LogMask(Unimp, "unimplemented reg %#x\n", 0x40)
		assert.Equal(t, "unimplemented reg 0x40\n", buf.String())
	})

	t.Run("output without categories still writes", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewBuilder().Output(&buf).Build()
		require.NoError(t, err)
		defer logger.Close()

		assert.True(t, logger.IsEnabled())
		logger.Printf("unconditional\n")
		assert.Equal(t, "unconditional\n", buf.String())
	})

	t.Run("nil output fails", func(t *testing.T) {
		logger, err := NewBuilder().Output(nil).Build()
		assert.Error(t, err)
		assert.Nil(t, logger)
	})

	t.Run("invalid configuration fails", func(t *testing.T) {
		logger, err := NewBuilder().Categories("exec,bogus").Build()
		assert.ErrorIs(t, err, ErrUnknownCategory)
		assert.Nil(t, logger)

		logger, err = NewBuilder().Buffered(-1).Build()
		assert.Error(t, err)
		assert.Nil(t, logger)
	})
}
