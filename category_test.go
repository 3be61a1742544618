package vmlog

import (
	"bytes"
	"math/bits"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMask(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected Mask
	}{
		{"empty", "", 0},
		{"single", "exec", Exec},
		{"several", "in_asm,exec,mmu", TBInAsm | Exec | MMU},
		{"case and spaces", " EXEC , Mmu ", Exec | MMU},
		{"empty items skipped", "exec,,int,", Exec | Int},
		{"duplicates", "int,int", Int},
		{"high bits", "taint_ops,avatar", TaintOps | Avatar},
		{"all", "all", AllCategories},
		{"all with others", "exec,ALL", AllCategories},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mask, err := ParseMask(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, mask)
		})
	}
}

func TestParseMaskUnknown(t *testing.T) {
	mask, err := ParseMask("exec,bogus,mmu")
	assert.Zero(t, mask)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Contains(t, err.Error(), "'bogus'")
}

func TestCategoryTable(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 21)

	var seen Mask
	names := make(map[string]bool)
	for i, c := range cats {
		assert.Equal(t, 1, bits.OnesCount64(uint64(c.Mask)), c.Name)
		assert.Zero(t, seen&c.Mask, "bit of %s reused", c.Name)
		assert.False(t, names[c.Name], "name %s reused", c.Name)
		assert.NotEmpty(t, c.Help)
		if i > 0 {
			assert.Greater(t, c.Mask, cats[i-1].Mask, "table out of bit order at %s", c.Name)
		}
		seen |= c.Mask
		names[c.Name] = true
	}
	assert.Equal(t, AllCategories, seen)

	// Reserved gaps stay free
	assert.Zero(t, AllCategories&(1<<7))
	assert.Zero(t, AllCategories&(0x7ff<<17))

	// Callers get a copy
	cats[0].Name = "changed"
	assert.Equal(t, "out_asm", Categories()[0].Name)
}

func TestCategoryByName(t *testing.T) {
	c, ok := CategoryByName(" Guest_Errors ")
	require.True(t, ok)
	assert.Equal(t, GuestError, c.Mask)

	_, ok = CategoryByName("all")
	assert.False(t, ok)
}

func TestMaskString(t *testing.T) {
	assert.Equal(t, "none", Mask(0).String())
	assert.Equal(t, "in_asm,exec", (Exec | TBInAsm).String())
	assert.Equal(t, "int,0x80", (Int | 1<<7).String())

	// Round trips through ParseMask
	m, err := ParseMask((Unimp | RR | LLVMIR).String())
	require.NoError(t, err)
	assert.Equal(t, Unimp|RR|LLVMIR, m)
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

	assert.Equal(t, "Log items (comma separated):", lines[0])
	assert.Equal(t, "out_asm         show generated host assembly code for each compiled TB", lines[1])
	assert.Contains(t, buf.String(), "guest_errors    log when the guest OS does something invalid (eg accessing a\n"+
		"                non-existent register)\n")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "all "))

	for _, c := range Categories() {
		assert.Contains(t, buf.String(), "\n"+c.Name+" ")
	}
}

// TestHasCategoryAnyBit checks that a query is true exactly when it shares a bit with the mask
func TestHasCategoryAnyBit(t *testing.T) {
	l := NewLogger()
	active := Exec | MMU | Avatar
	l.SetMask(active)

	for _, c := range Categories() {
		assert.Equal(t, active&c.Mask != 0, l.HasCategory(c.Mask), c.Name)
		assert.True(t, l.HasCategory(c.Mask|Exec), c.Name)
	}
	assert.False(t, l.HasCategory(0))
	assert.Equal(t, active, l.Mask())
}
