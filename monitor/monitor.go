// Package monitor exposes runtime control of a vmlog.Logger over HTTP, in the
// manner of an emulator monitor's log and logfile commands.
//
//	GET /log?items=exec,int   enable items ("none" disables all)
//	GET /log                  show enabled items
//	GET /logfile?path=f-%d    divert output to a file (empty reverts to console)
//	GET /dfilter?ranges=...   replace the address filter (empty clears it)
//	GET /dfilter              show the address filter
//	GET /stats                show logger counters
//	GET /help/log             list log items
package monitor

import (
	"bytes"
	"fmt"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/vmlog"
)

// Monitor serves log control requests for one logger
type Monitor struct {
	logger *vmlog.Logger
}

// New creates a monitor for logger
func New(logger *vmlog.Logger) *Monitor {
	return &Monitor{logger: logger}
}

// Handler dispatches a monitor request
func (m *Monitor) Handler(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}
	ctx.SetContentType("text/plain; charset=utf-8")

	switch string(ctx.Path()) {
	case "/log":
		m.handleLog(ctx)
	case "/logfile":
		m.handleLogFile(ctx)
	case "/dfilter":
		m.handleDFilter(ctx)
	case "/stats":
		m.handleStats(ctx)
	case "/help/log":
		vmlog.PrintUsage(ctx)
	default:
		ctx.Error("unknown command", fasthttp.StatusNotFound)
	}
}

func (m *Monitor) handleLog(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	if !args.Has("items") {
		fmt.Fprintf(ctx, "%s\n", m.logger.Mask())
		return
	}

	items := string(bytes.TrimSpace(args.Peek("items")))
	if items == "none" {
		if err := m.logger.SetCategoriesMask(0); err != nil {
			ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		}
		return
	}
	if err := m.logger.SetCategories(items); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		fmt.Fprintf(ctx, "%v\n", err)
		vmlog.PrintUsage(ctx)
		return
	}
	fmt.Fprintf(ctx, "%s\n", m.logger.Mask())
}

func (m *Monitor) handleLogFile(ctx *fasthttp.RequestCtx) {
	path := string(ctx.QueryArgs().Peek("path"))
	if err := m.logger.SetLogFile(path); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusBadRequest)
	}
}

func (m *Monitor) handleDFilter(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	if args.Has("ranges") {
		if err := m.logger.SetFilterRanges(string(args.Peek("ranges"))); err != nil {
			ctx.Error(err.Error(), fasthttp.StatusBadRequest)
			return
		}
	}
	fmt.Fprintf(ctx, "%s\n", m.logger.Filter())
}

func (m *Monitor) handleStats(ctx *fasthttp.RequestCtx) {
	st := m.logger.Stats()
	fmt.Fprintf(ctx, "enabled=%t separate=%t\n", m.logger.IsEnabled(), m.logger.IsSeparate())
	fmt.Fprintf(ctx, "writes=%d bytes=%d errors=%d opens=%d\n", st.Writes, st.BytesWritten, st.WriteErrors, st.SinkOpens)
}
