// FILE: lixenwraith/vmlog/category.go
package vmlog

import (
	"fmt"
	"io"
	"math/bits"
	"strings"
)

// Mask is a bitwise combination of category bits
type Mask uint64

// Category bits. Positions are fixed and sparse; gaps are reserved.
const (
	TBOutAsm   Mask = 1 << 0  // generated host code per translated block
	TBInAsm    Mask = 1 << 1  // target code per translated block
	TBOp       Mask = 1 << 2  // micro ops per translated block
	TBOpOpt    Mask = 1 << 3  // micro ops after optimization
	Int        Mask = 1 << 4  // interrupts and exceptions
	Exec       Mask = 1 << 5  // trace before each executed block
	PCall      Mask = 1 << 6  // protected mode far calls
	TBCPU      Mask = 1 << 8  // CPU registers before each block
	Reset      Mask = 1 << 9  // CPU state at reset
	Unimp      Mask = 1 << 10 // unimplemented functionality
	GuestError Mask = 1 << 11 // invalid guest behavior
	MMU        Mask = 1 << 12 // MMU activity
	TBNoChain  Mask = 1 << 13 // disable block chaining
	Page       Mask = 1 << 14 // page dumps at user mode start
	Trace      Mask = 1 << 15 // trace events
	TBOpInd    Mask = 1 << 16 // micro ops before indirect lowering
	TaintOps   Mask = 1 << 28 // taint propagation ops
	RR         Mask = 1 << 29 // record/replay events
	LLVMIR     Mask = 1 << 30 // LLVM IR per translated block
	LLVMAsm    Mask = 1 << 31 // LLVM generated assembly
	Avatar     Mask = 1 << 32 // Avatar orchestration events
)

// AllCategories is the OR of every registered category
var AllCategories Mask

// Category is a named, single-bit class of diagnostic output
type Category struct {
	Mask Mask
	Name string
	Help string
}

// categories is ordered by bit position
var categories = []Category{
	{TBOutAsm, "out_asm", "show generated host assembly code for each compiled TB"},
	{TBInAsm, "in_asm", "show target assembly code for each compiled TB"},
	{TBOp, "op", "show micro ops for each compiled TB"},
	{TBOpOpt, "op_opt", "show micro ops after optimization"},
	{Int, "int", "show interrupts/exceptions in short format"},
	{Exec, "exec", "show trace before each executed TB (lots of logs)"},
	{PCall, "pcall", "x86 only: show protected mode far calls/returns/exceptions"},
	{TBCPU, "cpu", "show CPU registers before entering a TB (lots of logs)"},
	{Reset, "reset", "show CPU state before CPU resets"},
	{Unimp, "unimp", "log unimplemented functionality"},
	{GuestError, "guest_errors", "log when the guest OS does something invalid (eg accessing a\nnon-existent register)"},
	{MMU, "mmu", "log MMU-related activities"},
	{TBNoChain, "nochain", "do not chain compiled TBs so that \"exec\" and \"cpu\" show\ncomplete traces"},
	{Page, "page", "dump pages at beginning of user mode emulation"},
	{Trace, "trace", "show trace events"},
	{TBOpInd, "op_ind", "show micro ops before indirect lowering"},
	{TaintOps, "taint_ops", "show taint propagation ops for each compiled TB"},
	{RR, "rr", "show record/replay log entries as they are processed"},
	{LLVMIR, "llvm_ir", "show LLVM IR for each translated TB"},
	{LLVMAsm, "llvm_asm", "show LLVM generated host assembly for each translated TB"},
	{Avatar, "avatar", "log Avatar orchestration events"},
}

// catchAll selects every category when given in a category string
const catchAll = "all"

func init() {
	var seen Mask
	for _, c := range categories {
		if bits.OnesCount64(uint64(c.Mask)) != 1 {
			panic(fmt.Sprintf("vmlog: category %q must be a single bit", c.Name))
		}
		if seen&c.Mask != 0 {
			panic(fmt.Sprintf("vmlog: category %q reuses bit %d", c.Name, bits.TrailingZeros64(uint64(c.Mask))))
		}
		seen |= c.Mask
	}
	AllCategories = seen
}

// Categories returns every registered category ordered by bit position
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByName looks up a category by name, ignoring case and surrounding space
func CategoryByName(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Category{}, false
}

// ParseMask converts a comma-separated category list into a mask.
// Empty items are skipped and "all" selects every category. Any unknown name
// fails the whole string with an error wrapping ErrUnknownCategory.
func ParseMask(str string) (Mask, error) {
	var mask Mask
	for _, item := range strings.Split(str, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.EqualFold(item, catchAll) {
			mask |= AllCategories
			continue
		}
		c, ok := CategoryByName(item)
		if !ok {
			return 0, fmtErrorf("%w: '%s'", ErrUnknownCategory, item)
		}
		mask |= c.Mask
	}
	return mask, nil
}

// PrintUsage lists every category name and its help text
func PrintUsage(w io.Writer) {
	var sb strings.Builder
	sb.WriteString("Log items (comma separated):\n")
	for _, c := range categories {
		lines := strings.Split(c.Help, "\n")
		fmt.Fprintf(&sb, "%-15s %s\n", c.Name, lines[0])
		for _, l := range lines[1:] {
			fmt.Fprintf(&sb, "%-15s %s\n", "", l)
		}
	}
	fmt.Fprintf(&sb, "%-15s %s\n", catchAll, "enable every item above")
	_, _ = io.WriteString(w, sb.String())
}

// String lists the category names present in the mask in bit order.
// Bits with no registered category are appended in hex.
func (m Mask) String() string {
	if m == 0 {
		return "none"
	}
	var names []string
	for _, c := range categories {
		if m&c.Mask != 0 {
			names = append(names, c.Name)
		}
	}
	if rest := m &^ AllCategories; rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint64(rest)))
	}
	return strings.Join(names, ",")
}
