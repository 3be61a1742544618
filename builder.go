// FILE: lixenwraith/vmlog/builder.go
package vmlog

import (
	"io"
)

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg    *Config
	output io.Writer
	err    error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger()

	// Install the external writer first so ApplyConfig does not open a console sink
	if b.output != nil {
		logger.SetOutput(b.output)
	}

	// ApplyConfig handles all validation and sink setup.
	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	return logger, nil
}

// Categories sets the enabled categories from a comma-separated list.
func (b *Builder) Categories(list string) *Builder {
	b.cfg.Categories = list
	return b
}

// Mask sets the enabled categories from a mask.
func (b *Builder) Mask(mask Mask) *Builder {
	b.cfg.Categories = categoryList(mask)
	return b
}

// DFilter sets the address range filter spec.
func (b *Builder) DFilter(spec string) *Builder {
	b.cfg.DFilter = spec
	return b
}

// AddressBits sets the target address width.
func (b *Builder) AddressBits(n int64) *Builder {
	b.cfg.AddressBits = n
	return b
}

// File sets the log file path.
func (b *Builder) File(path string) *Builder {
	b.cfg.File = path
	return b
}

// Append selects append mode for the log file.
func (b *Builder) Append(enable bool) *Builder {
	b.cfg.Append = enable
	return b
}

// ConsoleTarget sets "stderr" or "stdout" for console output.
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// Buffered enables write buffering with the given buffer size in bytes.
func (b *Builder) Buffered(size int64) *Builder {
	b.cfg.Buffered = true
	b.cfg.BufferSize = size
	return b
}

// FlushInterval sets the periodic flush of buffered output in milliseconds
func (b *Builder) FlushInterval(ms int64) *Builder {
	b.cfg.FlushIntervalMs = ms
	return b
}

// Sanitize enables hex-encoding of non-printable output.
func (b *Builder) Sanitize(enable bool) *Builder {
	b.cfg.Sanitize = enable
	return b
}

// Output sets an external writer as the sink; it is never closed by the logger.
func (b *Builder) Output(w io.Writer) *Builder {
	if w == nil {
		b.err = fmtErrorf("output writer cannot be nil")
		return b
	}
	b.output = w
	return b
}

// Example usage:
// logger, err := vmlog.NewBuilder().
//
//	Categories("in_asm,exec").
//	File("/tmp/trace.log").
//	DFilter("0x400000-0x4fffff").
//	Build()
//
// if err == nil {
//
//	 defer logger.Close()
//	 logger.LogMaskAddr(vmlog.Exec, pc, "Trace %#x\n", pc)
//
// }
