package main

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/vmlog"
)

// insn is one decoded guest instruction
type insn struct {
	op   string
	dst  int
	addr uint64 // memory operand or branch target
}

// block is a straight-line run of guest instructions
type block struct {
	pc    uint64
	insns []insn
}

// cpuState is the register file dumped by the cpu and reset items
type cpuState struct {
	PC    uint64
	Regs  [4]uint64
	Flags uint32
}

const (
	insnSize  = 4
	pageSize  = 0x1000
	mmioBase  = 0xfeed0000
	svcVector = 0x80
)

// guestProgram loops over a counter, touches memory and traps into a handler
var guestProgram = map[uint64]*block{
	0x1000: {0x1000, []insn{{op: "mov", dst: 0}, {op: "mov", dst: 1}}},
	0x1008: {0x1008, []insn{{op: "add", dst: 0}, {op: "ldr", dst: 2, addr: 0x3ffc}, {op: "bne", addr: 0x1008}}},
	0x2000: {0x2000, []insn{{op: "str", dst: 2, addr: mmioBase + 0x10}, {op: "svc"}}},
	0x8000: {0x8000, []insn{{op: "eret", addr: 0x1008}}},
}

// machine executes guestProgram block by block
type machine struct {
	log          *vmlog.Logger
	cpu          cpuState
	tbs          map[uint64]bool // translated blocks
	executed     int
	translations int
}

func newMachine(log *vmlog.Logger) *machine {
	m := &machine{log: log, tbs: make(map[uint64]bool)}
	m.reset()
	return m
}

func (m *machine) reset() {
	m.log.LogMaskDump(vmlog.Reset, "CPU Reset", m.cpu)
	m.cpu = cpuState{PC: 0x1000}
}

// run executes n blocks
func (m *machine) run(n int) {
	for i := 0; i < n; i++ {
		b, ok := guestProgram[m.cpu.PC]
		if !ok {
			m.log.LogMask(vmlog.GuestError, "execution at unmapped address 0x%x, resetting\n", m.cpu.PC)
			m.reset()
			continue
		}

		// nochain forces every block back through translation
		if !m.tbs[b.pc] || m.log.HasCategory(vmlog.TBNoChain) {
			m.translate(b)
		}

		if v := m.log.VAddr(vmlog.TBCPU, b.pc); v.Enabled() {
			v.Dump("CPU", m.cpu)
		}
		m.log.LogMaskAddr(vmlog.Exec, b.pc, "Trace %d: [%016x]\n", m.executed, b.pc)

		m.exec(b)
		m.executed++
	}
}

// translate emits the guest and host listings of b
func (m *machine) translate(b *block) {
	m.translations++
	m.tbs[b.pc] = true

	if v := m.log.VAddr(vmlog.TBInAsm, b.pc); v.Enabled() {
		if g, ok := v.Lock(); ok {
			g.Printf("----------------\n")
			g.Printf("IN:\n")
			for i, in := range b.insns {
				g.Printf("0x%08x:  %s\n", b.pc+uint64(i*insnSize), disas(in))
			}
			g.Printf("\n")
			g.Unlock()
		}
	}

	m.log.LogMaskAddrFunc(vmlog.TBOutAsm, b.pc, func() string {
		var sb strings.Builder
		fmt.Fprintf(&sb, "OUT: [size=%d]\n", len(b.insns)*3*insnSize)
		for i, in := range b.insns {
			fmt.Fprintf(&sb, "0x%08x:  call helper_%s\n", 0x7f0000000000+uint64(i*12), in.op)
		}
		sb.WriteString("\n")
		return sb.String()
	})
}

// exec runs b and selects the next block
func (m *machine) exec(b *block) {
	next := b.pc + uint64(len(b.insns)*insnSize)
	for _, in := range b.insns {
		switch in.op {
		case "mov":
			m.cpu.Regs[in.dst] = 0
			if in.dst == 1 {
				m.cpu.Regs[1] = 3
			}
		case "add":
			m.cpu.Regs[in.dst]++
		case "ldr":
			if in.addr%8 != 0 {
				m.log.LogMask(vmlog.GuestError, "unaligned load at 0x%x\n", in.addr)
			}
			if (in.addr+8)/pageSize != in.addr/pageSize {
				m.log.LogMaskAddr(vmlog.MMU, in.addr, "tlb_fill 0x%x: access crosses page boundary\n", in.addr)
			}
			m.cpu.Regs[in.dst] = in.addr
		case "bne":
			if m.cpu.Regs[0] < m.cpu.Regs[1] {
				next = in.addr
			} else {
				m.cpu.Flags |= 1
				next = 0x2000
			}
		case "str":
			if in.addr >= mmioBase {
				m.log.LogMask(vmlog.Unimp, "unimplemented device write 0x%x <- 0x%x\n", in.addr, m.cpu.Regs[in.dst])
			}
		case "svc":
			m.log.LogMask(vmlog.Int, "Servicing hardware INT=0x%02x\n", svcVector)
			next = 0x8000
		case "eret":
			m.cpu.Regs[0] = 0
			m.cpu.Flags = 0
			next = in.addr
		}
	}
	m.cpu.PC = next
}

// disas renders one instruction
func disas(in insn) string {
	switch in.op {
	case "ldr", "str":
		return fmt.Sprintf("%s r%d, [0x%x]", in.op, in.dst, in.addr)
	case "bne":
		return fmt.Sprintf("bne 0x%x", in.addr)
	case "svc":
		return fmt.Sprintf("svc #0x%x", svcVector)
	case "eret":
		return "eret"
	}
	return fmt.Sprintf("%s r%d", in.op, in.dst)
}
