// FILE: state.go
package vmlog

import (
	"errors"
	"sync/atomic"
)

// State encapsulates the runtime counters of the logger
type State struct {
	Writes           atomic.Uint64 // Successful emissions
	BytesWritten     atomic.Uint64 // Bytes handed to the sink
	WriteErrors      atomic.Uint64 // Failed emissions
	WriteErrorLogged atomic.Bool   // First write error already reported
	SinkOpens        atomic.Uint64 // Sinks installed over the logger's life
}

// Stats is a point-in-time snapshot of State
type Stats struct {
	Writes       uint64
	BytesWritten uint64
	WriteErrors  uint64
	SinkOpens    uint64
}

// Stats returns a snapshot of the logger counters
func (l *Logger) Stats() Stats {
	return Stats{
		Writes:       l.state.Writes.Load(),
		BytesWritten: l.state.BytesWritten.Load(),
		WriteErrors:  l.state.WriteErrors.Load(),
		SinkOpens:    l.state.SinkOpens.Load(),
	}
}

// account records the outcome of one emission and maps it to the emission return value.
// A sink closed by a concurrent reconfiguration drops the write like a disabled logger.
func (l *Logger) account(n int, err error) int {
	if errors.Is(err, errSinkClosed) {
		return 0
	}
	if err != nil {
		l.state.WriteErrors.Add(1)
		if !l.state.WriteErrorLogged.Swap(true) {
			l.internalLog("write to log sink failed: %v\n", err)
		}
		return -1
	}
	l.state.Writes.Add(1)
	l.state.BytesWritten.Add(uint64(n))
	return n
}
