package compat

import (
	"fmt"

	"github.com/lixenwraith/vmlog"
)

// Builder provides a flexible way to create configured logger adapters for gnet and fasthttp
// It can use an existing *vmlog.Logger instance or create a new one from a *vmlog.Config
type Builder struct {
	logger *vmlog.Logger
	logCfg *vmlog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters
// If this is set WithConfig is ignored
func (b *Builder) WithLogger(l *vmlog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("vmlog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance
// This is used only if an existing logger is NOT provided via WithLogger
func (b *Builder) WithConfig(cfg *vmlog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the logger to be used, creating one if necessary
func (b *Builder) getLogger() (*vmlog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	l := vmlog.NewLogger()
	cfg := b.logCfg
	if cfg == nil {
		cfg = vmlog.DefaultConfig()
	}

	if err := l.ApplyConfig(cfg); err != nil {
		return nil, err
	}

	// Cache the newly created logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// GetLogger returns the underlying *vmlog.Logger instance
func (b *Builder) GetLogger() (*vmlog.Logger, error) {
	return b.getLogger()
}

// --- Example Usage ---
//
// A device backend built on gnet and a control API on fasthttp sharing the
// trace logger of the machine:
//
//	builder := compat.NewBuilder().WithLogger(machineLog)
//
//	netLog, err := builder.BuildGnet(compat.WithGnetMask(vmlog.Trace))
//	if err != nil { /* handle error */ }
//	go gnet.Run(backend, "tcp://:5555", gnet.WithLogger(netLog))
//
//	httpLog, err := builder.BuildFastHTTP()
//	if err != nil { /* handle error */ }
//	server := &fasthttp.Server{Handler: monitor.Handle, Logger: httpLog}
//	go server.ListenAndServe(":8080")
