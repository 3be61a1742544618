// FILE: lixenwraith/vmlog/conditional.go
package vmlog

// The conditional emitters below check the category mask before anything
// else; formatting happens only when the check passes. Go evaluates call
// arguments eagerly, so arguments that are expensive to compute or have side
// effects belong in the Func variants or behind V.

// LogMask writes a formatted line when any bit of mask is active
func (l *Logger) LogMask(mask Mask, format string, args ...any) {
	if Mask(l.mask.Load())&mask == 0 {
		return
	}
	l.Printf(format, args...)
}

// LogMaskAddr writes a formatted line when any bit of mask is active and addr
// passes the address filter. The mask is checked first.
func (l *Logger) LogMaskAddr(mask Mask, addr uint64, format string, args ...any) {
	if Mask(l.mask.Load())&mask == 0 {
		return
	}
	if !l.filter.Load().Contains(addr) {
		return
	}
	l.Printf(format, args...)
}

// LogMaskFunc writes the text returned by fn. fn runs only when a bit of mask
// is active and a sink is installed.
func (l *Logger) LogMaskFunc(mask Mask, fn func() string) {
	if Mask(l.mask.Load())&mask == 0 || l.out.Load() == nil {
		return
	}
	l.writeString(fn())
}

// LogMaskAddrFunc is LogMaskFunc gated additionally on the address filter
func (l *Logger) LogMaskAddrFunc(mask Mask, addr uint64, fn func() string) {
	if Mask(l.mask.Load())&mask == 0 || l.out.Load() == nil {
		return
	}
	if !l.filter.Load().Contains(addr) {
		return
	}
	l.writeString(fn())
}
