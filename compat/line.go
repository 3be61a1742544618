package compat

import (
	"fmt"
	"strings"
)

// formatLine renders a third-party library message as one prefixed trace line
func formatLine(prefix, tag, format string, args ...any) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	if tag != "" {
		sb.WriteString(tag)
		sb.WriteString(": ")
	}
	fmt.Fprintf(&sb, format, args...)
	if !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteByte('\n')
	}
	return sb.String()
}
