//go:build !vmlogdebug

package vmlog

// debugChecks enables panics on contract violations; build with -tags vmlogdebug to turn on
const debugChecks = false
