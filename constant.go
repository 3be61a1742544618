// FILE: lixenwraith/vmlog/constant.go
package vmlog

// Console targets
const (
	consoleStderr = "stderr"
	consoleStdout = "stdout"
)

// Sink
const (
	// Formatting buffers above this capacity are released after a write
	maxRetainedBuffer = 64 * 1024
	// File mode for newly created log files
	logFileMode = 0644
)
