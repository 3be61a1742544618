package vmlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/vmlog/sanitizer"
)

var errSinkClosed = errors.New("vmlog: sink closed")

// sink is the destination stream shared by every emission.
// All fields below mu are guarded by it.
type sink struct {
	mu sync.Mutex

	dst      io.Writer     // file, console or caller-supplied writer
	bw       *bufio.Writer // nil when unbuffered
	file     *os.File      // non-nil only when the logger opened the file
	name     string
	separate bool // not the process stderr
	closed   bool

	san    *sanitizer.Sanitizer
	fmtBuf []byte
	sanBuf []byte

	stopFlush chan struct{} // nil unless a flush timer runs
}

// newSink wraps dst according to the buffering and sanitizing settings of cfg
func newSink(dst io.Writer, file *os.File, name string, cfg *Config) *sink {
	s := &sink{
		dst:      dst,
		file:     file,
		name:     name,
		separate: dst != io.Writer(os.Stderr),
	}
	if cfg.Buffered {
		s.bw = bufio.NewWriterSize(dst, int(cfg.BufferSize))
		if cfg.FlushIntervalMs > 0 {
			s.startFlushTimer(time.Duration(cfg.FlushIntervalMs) * time.Millisecond)
		}
	}
	if cfg.Sanitize {
		s.san = sanitizer.New().Policy(sanitizer.PolicyTxt)
	}
	return s
}

// openSink opens the sink described by cfg, or wraps external when it is set.
// A configured file is truncated unless appendFile is set.
func openSink(cfg *Config, external io.Writer, appendFile bool) (*sink, error) {
	if external != nil {
		return newSink(external, nil, "external", cfg), nil
	}

	if cfg.File == "" {
		if cfg.ConsoleTarget == consoleStdout {
			return newSink(os.Stdout, nil, consoleStdout, cfg), nil
		}
		return newSink(os.Stderr, nil, consoleStderr, cfg), nil
	}

	path, err := expandLogFileName(cfg.File, os.Getpid())
	if err != nil {
		return nil, err
	}
	flags := os.O_CREATE | os.O_WRONLY
	if appendFile {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, logFileMode)
	if err != nil {
		return nil, fmtErrorf("failed to open log file '%s': %w", path, err)
	}
	return newSink(file, file, path, cfg), nil
}

// writeLocked writes p to the destination, sanitizing first if configured
func (s *sink) writeLocked(p []byte) (int, error) {
	if s.closed {
		return 0, errSinkClosed
	}
	if s.san != nil {
		s.sanBuf = s.san.Append(s.sanBuf[:0], p)
		p = s.sanBuf
		defer s.trimLocked()
	}
	if s.bw != nil {
		return s.bw.Write(p)
	}
	return s.dst.Write(p)
}

// printfLocked formats into the reusable buffer and writes the result
func (s *sink) printfLocked(format string, args []any) (int, error) {
	if s.closed {
		return 0, errSinkClosed
	}
	s.fmtBuf = fmt.Appendf(s.fmtBuf[:0], format, args...)
	defer s.trimLocked()
	return s.writeLocked(s.fmtBuf)
}

// trimLocked drops buffers grown by an unusually large line
func (s *sink) trimLocked() {
	if cap(s.fmtBuf) > maxRetainedBuffer {
		s.fmtBuf = nil
	}
	if cap(s.sanBuf) > maxRetainedBuffer {
		s.sanBuf = nil
	}
}

// flushLocked pushes buffered data to the destination and syncs owned files
func (s *sink) flushLocked() error {
	if s.closed {
		return nil
	}
	var err error
	if s.bw != nil {
		if ferr := s.bw.Flush(); ferr != nil {
			err = fmtErrorf("failed to flush log '%s': %w", s.name, ferr)
		}
	}
	if s.file != nil {
		if serr := s.file.Sync(); serr != nil {
			err = combineErrors(err, fmtErrorf("failed to sync log file '%s': %w", s.name, serr))
		}
	}
	return err
}

// closeLocked flushes and, for owned files, closes the destination. Idempotent.
func (s *sink) closeLocked() error {
	if s.closed {
		return nil
	}
	s.stopFlushTimerLocked()
	var err error
	if s.bw != nil {
		if ferr := s.bw.Flush(); ferr != nil {
			err = fmtErrorf("failed to flush log '%s': %w", s.name, ferr)
		}
	}
	if s.file != nil {
		if cerr := s.file.Close(); cerr != nil {
			err = combineErrors(err, fmtErrorf("failed to close log file '%s': %w", s.name, cerr))
		}
	}
	s.closed = true
	return err
}

// close acquires the sink and closes it
func (s *sink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}
