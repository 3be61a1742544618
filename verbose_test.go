package vmlog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRegs struct {
	PC   uint64
	Regs []uint32
	Mode map[string]bool
}

func TestVerbose(t *testing.T) {
	logger, buf := createTestLogger(t)
	logger.SetMask(MMU)
	require.NoError(t, logger.SetFilterRanges("0x1000+0x1000"))

	var zero Verbose
	assert.False(t, zero.Enabled())
	zero.Printf("ignored\n")
	zero.Dump("ignored", 1)
	g, ok := zero.Lock()
	assert.Nil(t, g)
	assert.False(t, ok)

	assert.False(t, logger.V(Exec).Enabled())
	assert.True(t, logger.V(Exec|MMU).Enabled())
	assert.False(t, logger.VAddr(MMU, 0x2000).Enabled())

	if v := logger.VAddr(MMU, 0x1800); v.Enabled() {
		v.Printf("tlb fill %#x\n", 0x1800)
		if g, ok := v.Lock(); ok {
			g.Printf("walk l1\n")
			g.Printf("walk l2\n")
			g.Unlock()
		}
	}
	assert.Equal(t, "tlb fill 0x1800\nwalk l1\nwalk l2\n", buf.String())
}

func TestVerboseLockAfterSinkRemoved(t *testing.T) {
	logger, _ := createTestLogger(t)
	logger.SetMask(Exec)

	v := logger.V(Exec)
	require.True(t, v.Enabled())
	require.NoError(t, logger.Close())

	g, ok := v.Lock()
	assert.False(t, ok)
	assert.Nil(t, g)
}

func TestLogMaskDump(t *testing.T) {
	logger, buf := createTestLogger(t)
	regs := testRegs{PC: 0x1000, Regs: []uint32{1, 2}, Mode: map[string]bool{"user": true, "irq": false}}

	logger.LogMaskDump(TBCPU, "CPU", regs)
	assert.Empty(t, buf.String())

	logger.SetMask(TBCPU)
	logger.LogMaskDump(TBCPU, "CPU", regs)
	out := buf.String()
	assert.Contains(t, out, "CPU:\n")
	assert.Contains(t, out, "PC: (uint64) 4096")
	// Sorted keys
	assert.Less(t, strings.Index(out, "irq"), strings.Index(out, "user"))

	buf.Reset()
	logger.V(TBCPU).Dump("Reset", regs.PC)
	assert.Equal(t, "Reset:\n(uint64) 4096\n", buf.String())
}

