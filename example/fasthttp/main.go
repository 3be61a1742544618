// FILE: example/fasthttp/main.go
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/vmlog"
	"github.com/lixenwraith/vmlog/compat"
	"github.com/lixenwraith/vmlog/monitor"
)

func main() {
	// Create and configure logger
	logger := vmlog.NewLogger()
	err := logger.ApplyConfigString(
		"categories=trace,guest_errors",
		"file=/tmp/vm-monitor-%d.log",
		"buffered=true",
		"flush_interval_ms=200",
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configure log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	// Server messages go to the trace item, errors always
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithFastHTTPPrefix("monitor: "),
		compat.WithErrorDetector(customErrorDetector),
	)

	mon := monitor.New(logger)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: mon.Handler,
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "vm-monitor",
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		DisableKeepalive:  false,
		ReduceMemoryUsage: true,
	}

	// Try:
	//   curl 'localhost:4444/log?items=exec,int'
	//   curl 'localhost:4444/dfilter?ranges=0x400000+0x1000'
	fmt.Println("monitor listening on :4444")
	if err := server.ListenAndServe(":4444"); err != nil {
		logger.Printf("monitor: server error: %v\n", err)
	}
}

func customErrorDetector(msg string) bool {
	// Client resets are routine for a monitor polled by scripts
	if strings.Contains(msg, "connection reset") {
		return false
	}
	return compat.IsErrorMessage(msg)
}
