package vmlog

// Verbose is the result of a category check, in the style of glog's V.
// Call sites guard blocks with it so that nothing inside runs while the
// categories are off:
//
//	if v := l.V(vmlog.MMU); v.Enabled() {
//		v.Printf("tlb fill %#x -> %#x\n", vaddr, computePhys(vaddr))
//	}
//
// The zero Verbose is disabled.
type Verbose struct {
	l *Logger
}

// V returns an enabled Verbose when any bit of mask is active and a sink is installed
func (l *Logger) V(mask Mask) Verbose {
	if Mask(l.mask.Load())&mask == 0 || l.out.Load() == nil {
		return Verbose{}
	}
	return Verbose{l: l}
}

// VAddr is V gated additionally on the address filter
func (l *Logger) VAddr(mask Mask, addr uint64) Verbose {
	if Mask(l.mask.Load())&mask == 0 || l.out.Load() == nil {
		return Verbose{}
	}
	if !l.filter.Load().Contains(addr) {
		return Verbose{}
	}
	return Verbose{l: l}
}

// Enabled reports whether output through v is written
func (v Verbose) Enabled() bool {
	return v.l != nil
}

// Printf writes through the logger when v is enabled
func (v Verbose) Printf(format string, args ...any) {
	if v.l != nil {
		v.l.Printf(format, args...)
	}
}

// Lock opens a Log Line Group when v is enabled. The returned ok is false
// otherwise, including when the sink was removed after the V check.
func (v Verbose) Lock() (g *Group, ok bool) {
	if v.l == nil {
		return nil, false
	}
	s := v.l.out.Load()
	if s == nil {
		return nil, false
	}
	s.mu.Lock()
	return &Group{l: v.l, s: s}, true
}
