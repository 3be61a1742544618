// FILE: lixenwraith/vmlog/compat/fasthttp.go
package compat

import (
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/vmlog"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter wraps vmlog.Logger to implement fasthttp Logger interface
type FastHTTPAdapter struct {
	logger        *vmlog.Logger
	mask          vmlog.Mask
	prefix        string
	errorDetector func(string) bool // Reports messages written regardless of mask
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *vmlog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		mask:          vmlog.Trace,
		prefix:        "fasthttp: ",
		errorDetector: IsErrorMessage, // Default error detection
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithFastHTTPMask sets the categories gating ordinary messages
func WithFastHTTPMask(mask vmlog.Mask) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.mask = mask
	}
}

// WithFastHTTPPrefix sets the text written before every line
func WithFastHTTPPrefix(prefix string) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.prefix = prefix
	}
}

// WithErrorDetector sets a custom function deciding which messages bypass the mask
func WithErrorDetector(detector func(string) bool) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.errorDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	if !a.logger.IsEnabled() {
		return
	}

	line := formatLine(a.prefix, "", format, args...)
	if a.errorDetector != nil && a.errorDetector(line) {
		a.logger.Printf("%s", line)
		return
	}
	a.logger.LogMask(a.mask, "%s", line)
}

// IsErrorMessage reports whether msg looks like an error report
func IsErrorMessage(msg string) bool {
	msgLower := strings.ToLower(msg)

	return strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic")
}
