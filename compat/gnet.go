package compat

import (
	"os"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/vmlog"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter wraps vmlog.Logger to implement gnet logging.Logger interface.
// Debug and info output is gated on the adapter's category mask; warnings and
// errors are written whenever a sink is installed.
type GnetAdapter struct {
	logger       *vmlog.Logger
	mask         vmlog.Mask
	prefix       string
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *vmlog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		mask:   vmlog.Trace,
		prefix: "gnet: ",
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithGnetMask sets the categories gating debug and info output
func WithGnetMask(mask vmlog.Mask) GnetOption {
	return func(a *GnetAdapter) {
		a.mask = mask
	}
}

// WithGnetPrefix sets the text written before every line
func WithGnetPrefix(prefix string) GnetOption {
	return func(a *GnetAdapter) {
		a.prefix = prefix
	}
}

// Debugf logs when the adapter's categories are enabled
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logger.LogMaskFunc(a.mask, func() string {
		return formatLine(a.prefix, "debug", format, args...)
	})
}

// Infof logs when the adapter's categories are enabled
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logger.LogMaskFunc(a.mask, func() string {
		return formatLine(a.prefix, "", format, args...)
	})
}

// Warnf logs whenever a sink is installed
func (a *GnetAdapter) Warnf(format string, args ...any) {
	if !a.logger.IsEnabled() {
		return
	}
	a.logger.Printf("%s", formatLine(a.prefix, "warning", format, args...))
}

// Errorf logs whenever a sink is installed
func (a *GnetAdapter) Errorf(format string, args ...any) {
	if !a.logger.IsEnabled() {
		return
	}
	a.logger.Printf("%s", formatLine(a.prefix, "error", format, args...))
}

// Fatalf logs, flushes and triggers fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := formatLine(a.prefix, "fatal", format, args...)
	a.logger.Printf("%s", msg)

	// Ensure log is flushed before exit
	_ = a.logger.Flush()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
