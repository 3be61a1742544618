// FILE: lixenwraith/vmlog/group.go
package vmlog

// Group is a held lock on the sink, used to emit several related writes as
// one block that output from other goroutines cannot interleave with.
//
// Obtain a Group from Lock and release it with Unlock on every path, usually
// with defer, or let WithLock do both. Writes go through the Group's own
// methods: calling Logger.Printf while holding a Group on the same sink
// deadlocks, since the lock is not reentrant.
//
// Locking requires an installed sink (IsEnabled). Lock on a disabled logger
// and a second Unlock are contract violations: with the vmlogdebug build tag
// they panic, otherwise the Group discards its writes and Unlock is a no-op.
type Group struct {
	l        *Logger
	s        *sink
	released bool
}

// Lock acquires exclusive use of the sink for a Log Line Group
func (l *Logger) Lock() *Group {
	s := l.out.Load()
	if s == nil {
		if debugChecks {
			panic("vmlog: Lock called while logging is disabled")
		}
		return &Group{l: l}
	}
	s.mu.Lock()
	return &Group{l: l, s: s}
}

// WithLock runs fn inside a Log Line Group. The group is released on every
// exit path, including a panic in fn.
func (l *Logger) WithLock(fn func(g *Group)) {
	g := l.Lock()
	defer g.Unlock()
	fn(g)
}

// Unlock releases the sink
func (g *Group) Unlock() {
	if g.released {
		if debugChecks {
			panic("vmlog: Group unlocked twice")
		}
		return
	}
	g.released = true
	if g.s != nil {
		g.s.mu.Unlock()
	}
}

// active reports whether the group may write, flagging use after Unlock
func (g *Group) active() bool {
	if g.released {
		if debugChecks {
			panic("vmlog: write through released Group")
		}
		return false
	}
	return g.s != nil
}

// Printf formats and writes within the group; return value as Logger.Printf
func (g *Group) Printf(format string, args ...any) int {
	if !g.active() {
		return 0
	}
	n, err := g.s.printfLocked(format, args)
	return g.l.account(n, err)
}

// Vprintf is Printf for a captured argument list
func (g *Group) Vprintf(format string, args []any) {
	if !g.active() {
		return
	}
	n, err := g.s.printfLocked(format, args)
	g.l.account(n, err)
}

// Write implements io.Writer within the group
func (g *Group) Write(p []byte) (int, error) {
	if !g.active() {
		return len(p), nil
	}
	n, err := g.s.writeLocked(p)
	if g.l.account(n, err) < 0 {
		return 0, err
	}
	return len(p), nil
}

// Flush pushes buffered output to the sink without leaving the group
func (g *Group) Flush() error {
	if !g.active() {
		return nil
	}
	return g.s.flushLocked()
}
