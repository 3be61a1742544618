package vmlog

// Printf formats according to format and writes the result to the sink as
// one uninterrupted write. It returns the number of bytes written, 0 when
// logging is disabled or the sink was closed underneath it, and -1 when the
// write failed. It is safe to call
// without checking IsEnabled first.
func (l *Logger) Printf(format string, args ...any) int {
	s := l.out.Load()
	if s == nil {
		return 0
	}
	s.mu.Lock()
	n, err := s.printfLocked(format, args)
	s.mu.Unlock()
	return l.account(n, err)
}

// Vprintf is Printf for an argument list already captured by the caller,
// as when forwarding from another variadic function. Write errors are
// counted but not reported.
func (l *Logger) Vprintf(format string, args []any) {
	s := l.out.Load()
	if s == nil {
		return
	}
	s.mu.Lock()
	n, err := s.printfLocked(format, args)
	s.mu.Unlock()
	l.account(n, err)
}

// Write implements io.Writer so the logger can back other writers such as a
// standard library *log.Logger. Output is discarded while logging is disabled.
func (l *Logger) Write(p []byte) (int, error) {
	s := l.out.Load()
	if s == nil {
		return len(p), nil
	}
	s.mu.Lock()
	n, err := s.writeLocked(p)
	s.mu.Unlock()
	if l.account(n, err) < 0 {
		return 0, err
	}
	// Sanitizing may change the length; callers count their own bytes
	return len(p), nil
}

// writeString writes an already formatted string
func (l *Logger) writeString(str string) int {
	s := l.out.Load()
	if s == nil {
		return 0
	}
	s.mu.Lock()
	n, err := s.writeLocked([]byte(str))
	s.mu.Unlock()
	return l.account(n, err)
}
