// FILE: lixenwraith/vmlog/timer.go
package vmlog

import "time"

// startFlushTimer flushes a buffered sink every interval until the sink closes.
// Bounds how long buffered trace output can lag behind the emitting code.
func (s *sink) startFlushTimer(interval time.Duration) {
	s.stopFlush = make(chan struct{})
	ticker := time.NewTicker(interval)

	go func(stop <-chan struct{}) {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				if !s.closed && s.bw != nil && s.bw.Buffered() > 0 {
					_ = s.bw.Flush()
				}
				s.mu.Unlock()
			}
		}
	}(s.stopFlush)
}

// stopFlushTimerLocked ends the flush goroutine, assuming s.mu is held
func (s *sink) stopFlushTimerLocked() {
	if s.stopFlush != nil {
		close(s.stopFlush)
		s.stopFlush = nil
	}
}
