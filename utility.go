// FILE: lixenwraith/vmlog/utility.go
package vmlog

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Configuration error sentinels, matched with errors.Is
var (
	ErrUnknownCategory = errors.New("unknown log category")
	ErrInvalidLogFile  = errors.New("invalid log file name")
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "vmlog: ") {
		format = "vmlog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString("vmlog: multiple configuration errors:")
	for i, err := range errs {
		// Strip the per-error prefix to avoid repeating it on every line
		errMsg := strings.TrimPrefix(err.Error(), "vmlog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return &configErrors{msg: sb.String(), errs: errs}
}

// configErrors keeps the individual errors reachable through errors.Is
type configErrors struct {
	msg  string
	errs []error
}

func (e *configErrors) Error() string   { return e.msg }
func (e *configErrors) Unwrap() []error { return e.errs }

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// expandLogFileName substitutes the process ID for a single "%d".
// Any other '%' sequence is rejected.
func expandLogFileName(name string, pid int) (string, error) {
	i := strings.IndexByte(name, '%')
	if i < 0 {
		return name, nil
	}
	if i+1 >= len(name) || name[i+1] != 'd' || strings.IndexByte(name[i+2:], '%') >= 0 {
		return "", fmtErrorf("%w: '%s' (only a single %%d is allowed)", ErrInvalidLogFile, name)
	}
	return name[:i] + fmt.Sprint(pid) + name[i+2:], nil
}

// internalLog handles writing the logger's own diagnostics to stderr, if enabled.
func (l *Logger) internalLog(format string, args ...any) {
	cfg := l.getConfig()
	if !cfg.InternalErrorsToStderr {
		return
	}

	if !strings.HasPrefix(format, "vmlog: ") {
		format = "vmlog: " + format
	}

	fmt.Fprintf(os.Stderr, format, args...)
}
