// FILE: lixenwraith/vmlog/sanitizer/sanitizer.go
// Package sanitizer provides a composable interface for sanitizing trace text
// based on configurable rules using bitwise filter flags and transforms.
//
// Trace lines often carry guest-controlled bytes (strings read from guest
// memory, device names, register dumps). Rules keep those from injecting
// terminal escapes or binary garbage into the log while leaving line layout
// intact.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Runes not classified as printable by strconv.IsPrint, except '\n' and '\t'
	FilterControl                         // Control characters (unicode.IsControl), except '\n' and '\t'
	FilterInvalidUTF8                     // Bytes that do not form valid UTF-8
)

// Transform flags for character transformation
const (
	TransformStrip     uint64 = 1 << iota // Removes the character
	TransformHexEncode                    // Encodes the character's bytes as "<XXYY>"
)

// PolicyPreset defines pre-configured sanitization policies
type PolicyPreset string

const (
	PolicyRaw   PolicyPreset = "raw"   // Passthrough
	PolicyTxt   PolicyPreset = "txt"   // Hex-encode anything that would not print
	PolicyStrip PolicyPreset = "strip" // Drop control characters and invalid bytes
)

// rule represents a single sanitization rule
type rule struct {
	filter    uint64
	transform uint64
}

// policyRules contains pre-configured rules for each policy
var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:   {},
	PolicyTxt:   {{filter: FilterInvalidUTF8 | FilterNonPrintable, transform: TransformHexEncode}},
	PolicyStrip: {{filter: FilterInvalidUTF8 | FilterControl, transform: TransformStrip}},
}

// layout runes survive every filter so multi-line output keeps its shape
func isLayout(r rune) bool {
	return r == '\n' || r == '\t'
}

// runeCheckers maps rune filter flags to their check functions, in evaluation order
var runeCheckers = []struct {
	flag  uint64
	check func(rune) bool
}{
	{FilterNonPrintable, func(r rune) bool { return !isLayout(r) && !strconv.IsPrint(r) }},
	{FilterControl, func(r rune) bool { return !isLayout(r) && unicode.IsControl(r) }},
}

// Sanitizer provides chainable text sanitization.
// Rules are fixed once the Sanitizer is shared; Append is then safe for concurrent use.
type Sanitizer struct {
	rules []rule
}

// New creates a new Sanitizer instance with no rules (passthrough)
func New() *Sanitizer {
	return &Sanitizer{rules: []rule{}}
}

// Rule adds a custom rule to the sanitizer (appended, earliest rule applies first)
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy applies a pre-configured policy to the sanitizer (appended)
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if rules, ok := policyRules[preset]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Passthrough reports whether the sanitizer leaves all input unchanged
func (s *Sanitizer) Passthrough() bool {
	return s == nil || len(s.rules) == 0
}

// Sanitize applies all configured rules to the input string
func (s *Sanitizer) Sanitize(data string) string {
	if s.Passthrough() {
		return data
	}
	return string(s.Append(make([]byte, 0, len(data)), []byte(data)))
}

// Append applies all configured rules to src and appends the result to dst
func (s *Sanitizer) Append(dst, src []byte) []byte {
	if s.Passthrough() {
		return append(dst, src...)
	}

	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		raw := src[i : i+size]
		i += size

		invalid := r == utf8.RuneError && size == 1
		matched := false
		// Check rules in order (first match wins)
		for _, rl := range s.rules {
			if matchesFilter(r, invalid, rl.filter) {
				dst = applyTransform(dst, raw, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			dst = append(dst, raw...)
		}
	}
	return dst
}

// matchesFilter checks if a rune matches any filter in the mask
func matchesFilter(r rune, invalid bool, filterMask uint64) bool {
	if invalid {
		return filterMask&FilterInvalidUTF8 != 0
	}
	for _, c := range runeCheckers {
		if filterMask&c.flag != 0 && c.check(r) {
			return true
		}
	}
	return false
}

// applyTransform applies the specified transform to the encoded rune bytes
func applyTransform(dst, raw []byte, transformMask uint64) []byte {
	switch {
	case transformMask&TransformStrip != 0:
		return dst

	case transformMask&TransformHexEncode != 0:
		dst = append(dst, '<')
		dst = hex.AppendEncode(dst, raw)
		return append(dst, '>')
	}
	return append(dst, raw...)
}
