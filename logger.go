// FILE: lixenwraith/vmlog/logger.go
package vmlog

import (
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/vmlog/dfilter"
)

// Logger is the logging context of one runtime instance: the active category
// mask, the address filter and the sink. Hot-path reads are lock-free;
// configuration entry points are serialized.
type Logger struct {
	mask   atomic.Uint64
	out    atomic.Pointer[sink]
	filter atomic.Pointer[dfilter.Filter]

	currentConfig atomic.Value // stores *Config
	state         State

	cfgMu    sync.Mutex // serializes configuration entry points
	external io.Writer  // caller-supplied sink, guarded by cfgMu
	opened   string     // configured file last opened, guarded by cfgMu; reopens append
}

// NewLogger creates a new Logger with default settings and logging disabled
func NewLogger() *Logger {
	l := &Logger{}
	l.currentConfig.Store(DefaultConfig())
	return l
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// ApplyConfig validates cfg and applies it as a whole. Categories, dfilter
// and sink are all prepared before any of them is committed, so a failure
// leaves the previous state in place. The mask is replaced wholesale by
// cfg.Categories, including any bits set earlier with SetMask.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}
	mask, err := ParseMask(cfg.Categories)
	if err != nil {
		return err
	}
	return l.applyConfig(cfg, mask)
}

// applyConfig is ApplyConfig with the mask already resolved
func (l *Logger) applyConfig(cfg *Config, mask Mask) error {
	if err := cfg.validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	filter, err := dfilter.Parse(cfg.DFilter, int(cfg.AddressBits))
	if err != nil {
		return fmtErrorf("invalid dfilter: %w", err)
	}

	l.cfgMu.Lock()
	defer l.cfgMu.Unlock()

	oldCfg := l.getConfig()
	newCfg := cfg.Clone()
	reopen := sinkSettingsChanged(oldCfg, newCfg)
	if err := l.reconcileSinkLocked(newCfg, mask, reopen); err != nil {
		return err
	}

	l.currentConfig.Store(newCfg)
	l.filter.Store(filter)
	l.mask.Store(uint64(mask))
	return nil
}

// sinkSettingsChanged reports whether an open sink must be replaced to honor cfg
func sinkSettingsChanged(oldCfg, newCfg *Config) bool {
	return oldCfg.File != newCfg.File ||
		oldCfg.Append != newCfg.Append ||
		oldCfg.ConsoleTarget != newCfg.ConsoleTarget ||
		oldCfg.Buffered != newCfg.Buffered ||
		oldCfg.BufferSize != newCfg.BufferSize ||
		oldCfg.FlushIntervalMs != newCfg.FlushIntervalMs ||
		oldCfg.Sanitize != newCfg.Sanitize
}

// reconcileSinkLocked makes the sink match cfg for the given mask, assuming cfgMu is held.
// An external writer is always installed. Otherwise a sink exists only while
// some category is enabled. The previous sink is closed after the swap.
func (l *Logger) reconcileSinkLocked(cfg *Config, mask Mask, reopen bool) error {
	cur := l.out.Load()
	want := l.external != nil || mask != 0

	if !want {
		if cur != nil {
			l.out.Store(nil)
			if err := cur.close(); err != nil {
				l.internalLog("warning - failed to close log sink: %v\n", err)
			}
		}
		return nil
	}

	if cur != nil && !reopen {
		return nil
	}

	// Only the first open of a configured file truncates it
	appendFile := cfg.Append || (cfg.File != "" && cfg.File == l.opened)
	next, err := openSink(cfg, l.external, appendFile)
	if err != nil {
		return err
	}
	if next.file != nil {
		l.opened = cfg.File
	}
	l.out.Store(next)
	l.state.SinkOpens.Add(1)

	if cur != nil {
		if err := cur.close(); err != nil {
			l.internalLog("warning - failed to close previous log sink: %v\n", err)
		}
	}
	return nil
}

// SetMask replaces the active category mask. It is a plain store: it never
// opens or closes the sink. Use SetCategoriesMask to do both.
func (l *Logger) SetMask(mask Mask) {
	l.mask.Store(uint64(mask))
}

// Mask returns the active category mask
func (l *Logger) Mask() Mask {
	return Mask(l.mask.Load())
}

// HasCategory reports whether any bit of mask is active
func (l *Logger) HasCategory(mask Mask) bool {
	return Mask(l.mask.Load())&mask != 0
}

// IsEnabled reports whether a sink is installed
func (l *Logger) IsEnabled() bool {
	return l.out.Load() != nil
}

// IsSeparate reports whether output goes somewhere other than stderr
func (l *Logger) IsSeparate() bool {
	s := l.out.Load()
	return s != nil && s.separate
}

// SetCategories parses a comma-separated category list and applies it with SetCategoriesMask.
// An unknown name leaves the current state untouched.
func (l *Logger) SetCategories(str string) error {
	mask, err := ParseMask(str)
	if err != nil {
		return err
	}
	return l.SetCategoriesMask(mask)
}

// SetCategoriesMask sets the mask and opens or closes the sink to match:
// a non-zero mask opens the configured file or console, a zero mask closes it.
// The stored configuration lists registered categories only, so bits without
// a name are lost on a later ApplyConfig; ApplyConfigString keeps them.
func (l *Logger) SetCategoriesMask(mask Mask) error {
	l.cfgMu.Lock()
	defer l.cfgMu.Unlock()

	cfg := l.getConfig().Clone()
	cfg.Categories = categoryList(mask)

	if mask == 0 {
		// Stop call sites before the sink goes away
		l.mask.Store(0)
		if err := l.reconcileSinkLocked(cfg, 0, false); err != nil {
			return err
		}
	} else {
		if err := l.reconcileSinkLocked(cfg, mask, false); err != nil {
			return err
		}
		l.mask.Store(uint64(mask))
	}
	l.currentConfig.Store(cfg)
	return nil
}

// categoryList renders the registered bits of mask as a category string
func categoryList(mask Mask) string {
	var names []string
	for _, c := range categories {
		if mask&c.Mask != 0 {
			names = append(names, c.Name)
		}
	}
	return strings.Join(names, ",")
}

// SetLogFile diverts output to path, which may contain a single "%d" that
// expands to the process ID. An empty path reverts to the console target.
// The file is opened right away when a category is enabled, otherwise at
// the next SetCategories. A path other than the last file opened is
// truncated unless append is configured; reopening that file appends. On
// failure the current sink is kept.
func (l *Logger) SetLogFile(path string) error {
	l.cfgMu.Lock()
	defer l.cfgMu.Unlock()

	cfg := l.getConfig().Clone()
	cfg.File = path
	if err := cfg.validate(); err != nil {
		return err
	}
	prev := l.external
	l.external = nil
	if err := l.reconcileSinkLocked(cfg, l.Mask(), true); err != nil {
		l.external = prev
		return err
	}
	l.currentConfig.Store(cfg)
	return nil
}

// SetOutput installs w as the sink regardless of the mask. The writer is not
// owned: Close flushes but never closes it. A nil w drops the external sink
// and falls back to the configured file or console.
func (l *Logger) SetOutput(w io.Writer) {
	l.cfgMu.Lock()
	defer l.cfgMu.Unlock()

	l.external = w
	// Opening an external sink cannot fail; a configured file may
	if err := l.reconcileSinkLocked(l.getConfig(), l.Mask(), true); err != nil {
		l.internalLog("warning - failed to reopen configured sink: %v\n", err)
	}
}

// SetFilterRanges replaces the address filter with one parsed from spec.
// A malformed spec leaves the previous filter in place. An empty spec
// clears the filter so every address matches.
func (l *Logger) SetFilterRanges(spec string) error {
	l.cfgMu.Lock()
	defer l.cfgMu.Unlock()

	cfg := l.getConfig().Clone()
	filter, err := dfilter.Parse(spec, int(cfg.AddressBits))
	if err != nil {
		return fmtErrorf("invalid dfilter: %w", err)
	}
	cfg.DFilter = filter.String()
	l.filter.Store(filter)
	l.currentConfig.Store(cfg)
	return nil
}

// SetFilter installs a prebuilt filter; nil clears it
func (l *Logger) SetFilter(f *dfilter.Filter) {
	l.cfgMu.Lock()
	defer l.cfgMu.Unlock()

	cfg := l.getConfig().Clone()
	cfg.DFilter = f.String()
	l.filter.Store(f)
	l.currentConfig.Store(cfg)
}

// Filter returns the active address filter, nil when none is configured
func (l *Logger) Filter() *dfilter.Filter {
	return l.filter.Load()
}

// InAddrRange reports whether addr passes the active address filter
func (l *Logger) InAddrRange(addr uint64) bool {
	return l.filter.Load().Contains(addr)
}

// Flush pushes buffered output to the sink
func (l *Logger) Flush() error {
	s := l.out.Load()
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// Close flushes and closes the sink; logging stays disabled until the sink is
// reopened by a configuration call. The category mask is kept. Idempotent.
func (l *Logger) Close() error {
	l.cfgMu.Lock()
	defer l.cfgMu.Unlock()

	l.external = nil
	s := l.out.Swap(nil)
	if s == nil {
		return nil
	}
	// Writers that loaded s before the swap finish first, later ones see it closed
	return s.close()
}
