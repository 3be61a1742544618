//go:build vmlogdebug

package vmlog

// debugChecks enables panics on contract violations
const debugChecks = true
