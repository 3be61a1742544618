package vmlog

import (
	"github.com/davecgh/go-spew/spew"
)

// dumpConfig renders values compactly and deterministically for trace output
var dumpConfig = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true, // Cleaner for logs
	DisableCapacities:       true, // Less noise
	SortKeys:                true, // Consistent map output
}

// LogMaskDump writes label followed by a structural dump of v, such as a CPU
// register file for the cpu or reset categories. The dump is built only when
// a bit of mask is active and a sink is installed.
func (l *Logger) LogMaskDump(mask Mask, label string, v any) {
	l.LogMaskFunc(mask, func() string {
		return label + ":\n" + dumpConfig.Sdump(v)
	})
}

// Dump writes label and a structural dump of v when the Verbose is enabled
func (v Verbose) Dump(label string, val any) {
	if v.l != nil {
		v.l.writeString(label + ":\n" + dumpConfig.Sdump(val))
	}
}
