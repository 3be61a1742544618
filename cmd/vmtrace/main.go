// Command vmtrace runs a small synthetic guest program and emits the trace
// output a machine emulator produces for it, selected with the same switches
// an emulator takes.
//
// Usage:
//
//	vmtrace [flags]
//
// Examples:
//
//	# List the log items
//	vmtrace -d help
//
//	# Trace executed blocks and interrupts to a per-process file
//	vmtrace -d exec,int -D /tmp/vmtrace-%d.log
//
//	# Dump registers only while inside the loop body
//	vmtrace -d cpu -dfilter 0x1008+0x10
//
//	# Load settings from the [vmlog] table of a TOML file, then override one
//	vmtrace -config trace.toml -set buffered=true
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lixenwraith/vmlog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// overrideList collects repeated -set flags
type overrideList []string

func (o *overrideList) String() string { return strings.Join(*o, ",") }

func (o *overrideList) Set(v string) error {
	*o = append(*o, v)
	return nil
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("vmtrace", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, `vmtrace - run a synthetic guest with trace logging

Usage:
  vmtrace [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	items := fs.String("d", "", "Enable logging of specified items (use '-d help' for a list)")
	logFile := fs.String("D", "", "Output log to file, a single %d expands to the process ID")
	ranges := fs.String("dfilter", "", "Restrict address-keyed output to ranges (lo-hi, lo..hi, lo+len)")
	configPath := fs.String("config", "", "Load logger settings from a TOML file")
	steps := fs.Int("steps", 16, "Number of translated blocks to execute")
	showStats := fs.Bool("stats", false, "Print logger statistics on exit")
	var overrides overrideList
	fs.Var(&overrides, "set", "Override a logger setting as key=value (repeatable)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *items == "help" || *items == "?" {
		vmlog.PrintUsage(stdout)
		return 0
	}

	logger := vmlog.NewLogger()
	defer func() {
		if err := logger.Close(); err != nil {
			fmt.Fprintf(stderr, "Error: closing log: %v\n", err)
		}
	}()

	if *configPath != "" {
		cfg, err := vmlog.NewConfigFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if err := logger.ApplyConfig(cfg); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if len(overrides) > 0 {
		if err := logger.ApplyConfigString(overrides...); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	// File before items so the first enabled category opens the right sink
	if *logFile != "" {
		if err := logger.SetLogFile(*logFile); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if *ranges != "" {
		if err := logger.SetFilterRanges(*ranges); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if *items != "" {
		if err := logger.SetCategories(*items); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			vmlog.PrintUsage(stderr)
			return 1
		}
	}

	m := newMachine(logger)
	m.run(*steps)

	if *showStats {
		st := logger.Stats()
		fmt.Fprintf(stdout, "blocks=%d translations=%d writes=%d bytes=%d errors=%d\n",
			m.executed, m.translations, st.Writes, st.BytesWritten, st.WriteErrors)
	}
	return 0
}
