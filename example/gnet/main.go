// FILE: example/gnet/main.go
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/vmlog"
	"github.com/lixenwraith/vmlog/compat"
)

// serialBackend is a guest serial port exposed over TCP that echoes input
type serialBackend struct {
	gnet.BuiltinEventEngine
	log *vmlog.Logger
}

func (sb *serialBackend) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	// Hex dump only built when trace is on
	sb.log.LogMaskFunc(vmlog.Trace, func() string {
		return fmt.Sprintf("serial0: rx %d bytes from %s\n%s", len(buf), c.RemoteAddr(), hex.Dump(buf))
	})
	c.Write(buf)
	return gnet.None
}

func main() {
	logger, err := vmlog.NewBuilder().
		Categories("trace").
		ConsoleTarget("stdout").
		Sanitize(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configure log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	gnetAdapter := compat.NewGnetAdapter(logger, compat.WithGnetPrefix("serial0: "))

	// Configure gnet server with the logger
	err = gnet.Run(
		&serialBackend{log: logger},
		"tcp://127.0.0.1:4555",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		logger.Printf("serial0: %v\n", err)
	}
}
