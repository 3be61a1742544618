// --- File: default.go ---
package vmlog

import (
	"io"

	"github.com/lixenwraith/vmlog/dfilter"
)

// Global instance for package-level functions. Components that can take a
// *Logger should be handed one by the composition root instead.
var defaultLogger = NewLogger()

// Default returns the logger behind the package-level functions
func Default() *Logger {
	return defaultLogger
}

// Default package-level functions that delegate to the default logger

// ApplyConfig applies a validated configuration to the default logger
func ApplyConfig(cfg *Config) error {
	return defaultLogger.ApplyConfig(cfg)
}

// ApplyConfigString applies key=value overrides to the default logger
func ApplyConfigString(overrides ...string) error {
	return defaultLogger.ApplyConfigString(overrides...)
}

// SetCategories sets the enabled categories from a comma-separated list
func SetCategories(str string) error {
	return defaultLogger.SetCategories(str)
}

// SetCategoriesMask sets the enabled categories from a mask
func SetCategoriesMask(mask Mask) error {
	return defaultLogger.SetCategoriesMask(mask)
}

// SetMask replaces the active mask without touching the sink
func SetMask(mask Mask) {
	defaultLogger.SetMask(mask)
}

// HasCategory reports whether any bit of mask is active
func HasCategory(mask Mask) bool {
	return defaultLogger.HasCategory(mask)
}

// IsEnabled reports whether a sink is installed
func IsEnabled() bool {
	return defaultLogger.IsEnabled()
}

// SetLogFile diverts output to a file
func SetLogFile(path string) error {
	return defaultLogger.SetLogFile(path)
}

// SetOutput installs an external writer as the sink
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// SetFilterRanges replaces the address filter
func SetFilterRanges(spec string) error {
	return defaultLogger.SetFilterRanges(spec)
}

// SetFilter installs a prebuilt address filter
func SetFilter(f *dfilter.Filter) {
	defaultLogger.SetFilter(f)
}

// InAddrRange reports whether addr passes the address filter
func InAddrRange(addr uint64) bool {
	return defaultLogger.InAddrRange(addr)
}

// Printf writes a formatted line
func Printf(format string, args ...any) int {
	return defaultLogger.Printf(format, args...)
}

// Vprintf writes a formatted line from a captured argument list
func Vprintf(format string, args []any) {
	defaultLogger.Vprintf(format, args)
}

// LogMask writes a formatted line when any bit of mask is active
func LogMask(mask Mask, format string, args ...any) {
	defaultLogger.LogMask(mask, format, args...)
}

// LogMaskAddr writes a formatted line when mask is active and addr passes the filter
func LogMaskAddr(mask Mask, addr uint64, format string, args ...any) {
	defaultLogger.LogMaskAddr(mask, addr, format, args...)
}

// LogMaskFunc writes the text returned by fn when mask is active
func LogMaskFunc(mask Mask, fn func() string) {
	defaultLogger.LogMaskFunc(mask, fn)
}

// LogMaskAddrFunc writes the text returned by fn when mask is active and addr passes the filter
func LogMaskAddrFunc(mask Mask, addr uint64, fn func() string) {
	defaultLogger.LogMaskAddrFunc(mask, addr, fn)
}

// LogMaskDump writes a structural dump of v when mask is active
func LogMaskDump(mask Mask, label string, v any) {
	defaultLogger.LogMaskDump(mask, label, v)
}

// V returns a Verbose for mask
func V(mask Mask) Verbose {
	return defaultLogger.V(mask)
}

// VAddr returns a Verbose for mask and addr
func VAddr(mask Mask, addr uint64) Verbose {
	return defaultLogger.VAddr(mask, addr)
}

// Lock opens a Log Line Group on the default sink
func Lock() *Group {
	return defaultLogger.Lock()
}

// WithLock runs fn inside a Log Line Group on the default sink
func WithLock(fn func(g *Group)) {
	defaultLogger.WithLock(fn)
}

// Flush pushes buffered output to the sink
func Flush() error {
	return defaultLogger.Flush()
}

// Close flushes and closes the sink
func Close() error {
	return defaultLogger.Close()
}
