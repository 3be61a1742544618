// FILE: lixenwraith/vmlog/sanitizer/sanitizer_test.go
package sanitizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		policy   PolicyPreset
		expected string
	}{
		{
			name:     "raw passes through",
			input:    "hello\x00world\n",
			policy:   PolicyRaw,
			expected: "hello\x00world\n",
		},
		{
			name:     "txt encodes null byte",
			input:    "test\x00data",
			policy:   PolicyTxt,
			expected: "test<00>data",
		},
		{
			name:     "txt encodes escape sequence",
			input:    "dev\x1b[31mname",
			policy:   PolicyTxt,
			expected: "dev<1b>[31mname",
		},
		{
			name:     "txt keeps layout",
			input:    "line1\n\tline2\n",
			policy:   PolicyTxt,
			expected: "line1\n\tline2\n",
		},
		{
			name:     "txt encodes multi-byte control",
			input:    "line1\u0085line2",
			policy:   PolicyTxt,
			expected: "line1<c285>line2",
		},
		{
			name:     "txt preserves UTF-8",
			input:    "Hello 世界 ✓",
			policy:   PolicyTxt,
			expected: "Hello 世界 ✓",
		},
		{
			name:     "txt encodes invalid byte",
			input:    "ab\xffcd",
			policy:   PolicyTxt,
			expected: "ab<ff>cd",
		},
		{
			name:     "strip removes control chars",
			input:    "clean\x00\x07\ntxt\xfe",
			policy:   PolicyStrip,
			expected: "clean\ntxt",
		},
		{
			name:     "strip preserves spaces",
			input:    "hello world",
			policy:   PolicyStrip,
			expected: "hello world",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := New().Policy(tc.policy)
			assert.Equal(t, tc.expected, s.Sanitize(tc.input))
			assert.Equal(t, tc.expected, string(s.Append(nil, []byte(tc.input))))
		})
	}
}

func TestCustomRuleOrder(t *testing.T) {
	// First matching rule wins
	s := New().Rule(FilterControl, TransformStrip).Rule(FilterNonPrintable, TransformHexEncode)
	assert.Equal(t, "ab", s.Sanitize("a\x00b"))

	s = New().Rule(FilterNonPrintable, TransformHexEncode).Rule(FilterControl, TransformStrip)
	assert.Equal(t, "a<00>b", s.Sanitize("a\x00b"))
}

func TestPassthrough(t *testing.T) {
	var nilSan *Sanitizer
	assert.True(t, nilSan.Passthrough())
	assert.True(t, New().Passthrough())
	assert.False(t, New().Policy(PolicyTxt).Passthrough())
	assert.Equal(t, "pre\x01", string(nilSan.Append([]byte("pre"), []byte{1})))
}

func BenchmarkSanitizer(b *testing.B) {
	input := []byte(strings.Repeat("normal text\x00\n\t", 100))

	for _, p := range []PolicyPreset{PolicyRaw, PolicyTxt, PolicyStrip} {
		b.Run(string(p), func(b *testing.B) {
			s := New().Policy(p)
			buf := make([]byte, 0, 4096)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				buf = s.Append(buf[:0], input)
			}
		})
	}
}
