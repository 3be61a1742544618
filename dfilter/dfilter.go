// Package dfilter provides the address range filter used to restrict
// address-keyed trace output to a set of regions of interest.
//
// A Filter is immutable once built. A nil or empty Filter matches every
// address; a non-empty Filter matches an address only when some configured
// range contains it.
package dfilter

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrSyntax reports a token that could not be parsed as a range
	ErrSyntax = errors.New("dfilter: malformed range")
	// ErrRange reports a well-formed token describing an invalid range
	ErrRange = errors.New("dfilter: invalid range")
)

// Range is an address interval with both ends inclusive
type Range struct {
	Low  uint64
	High uint64
}

// Contains reports whether addr lies within the range
func (r Range) Contains(addr uint64) bool {
	return r.Low <= addr && addr <= r.High
}

// String formats the range in a form accepted by Parse
func (r Range) String() string {
	if r.Low == r.High {
		return fmt.Sprintf("0x%x", r.Low)
	}
	return fmt.Sprintf("0x%x-0x%x", r.Low, r.High)
}

// Filter is an immutable set of address ranges with O(log n) membership
type Filter struct {
	ranges []Range // as configured
	merged []Range // sorted by Low, disjoint, non-adjacent
}

// New builds a filter from explicit ranges. Ranges may overlap and need not be sorted.
func New(ranges ...Range) (*Filter, error) {
	for _, r := range ranges {
		if r.Low > r.High {
			return nil, fmt.Errorf("%w: low 0x%x above high 0x%x", ErrRange, r.Low, r.High)
		}
	}
	f := &Filter{ranges: slices.Clone(ranges)}
	f.merged = coalesce(f.ranges)
	return f, nil
}

// coalesce sorts a copy of ranges and merges overlapping or adjacent entries
func coalesce(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}
	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b Range) int {
		switch {
		case a.Low < b.Low:
			return -1
		case a.Low > b.Low:
			return 1
		}
		return 0
	})

	out := sorted[:1]
	for _, r := range sorted[1:] {
		last := &out[len(out)-1]
		// High == MaxUint64 swallows everything after it
		if last.High == math.MaxUint64 || r.Low <= last.High+1 {
			if r.High > last.High {
				last.High = r.High
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// Contains reports whether addr passes the filter.
// A nil or empty filter passes every address.
func (f *Filter) Contains(addr uint64) bool {
	if f == nil || len(f.merged) == 0 {
		return true
	}
	m := f.merged
	// First range whose High is not below addr
	lo, hi := 0, len(m)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if m[mid].High < addr {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(m) && m[lo].Low <= addr
}

// Len returns the number of configured ranges
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.ranges)
}

// Ranges returns a copy of the configured ranges in configuration order
func (f *Filter) Ranges() []Range {
	if f == nil {
		return nil
	}
	return slices.Clone(f.ranges)
}

// String formats the filter as a comma-separated spec that Parse accepts
func (f *Filter) String() string {
	if f == nil || len(f.ranges) == 0 {
		return ""
	}
	parts := make([]string, len(f.ranges))
	for i, r := range f.ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

// Parse builds a filter from a comma-separated range specification.
//
// Accepted tokens, numbers in hex with an optional 0x prefix:
//
//	lo-hi    inclusive range
//	lo..hi   inclusive range
//	lo+len   len bytes starting at lo
//	addr     single address
//
// addrBits bounds every address to the target address width; values of 0 or
// above 64 mean 64. Any bad token fails the whole parse. An empty spec yields
// an empty filter, which matches every address.
func Parse(spec string, addrBits int) (*Filter, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return &Filter{}, nil
	}

	limit := uint64(math.MaxUint64)
	if addrBits > 0 && addrBits < 64 {
		limit = 1<<uint(addrBits) - 1
	}

	tokens := strings.Split(spec, ",")
	ranges := make([]Range, 0, len(tokens))
	for _, tok := range tokens {
		r, err := parseToken(strings.TrimSpace(tok), limit)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return New(ranges...)
}

// parseToken parses a single range token against an address limit
func parseToken(tok string, limit uint64) (Range, error) {
	if tok == "" {
		return Range{}, fmt.Errorf("%w: empty token", ErrSyntax)
	}

	if lo, hi, ok := strings.Cut(tok, ".."); ok {
		return parseBounds(tok, lo, hi, limit)
	}

	if lo, length, ok := strings.Cut(tok, "+"); ok {
		low, err := parseAddr(tok, lo, limit)
		if err != nil {
			return Range{}, err
		}
		n, err := parseAddr(tok, length, math.MaxUint64)
		if err != nil {
			return Range{}, err
		}
		if n == 0 {
			return Range{}, fmt.Errorf("%w %q: zero length", ErrRange, tok)
		}
		high := low + (n - 1)
		if high < low || high > limit {
			return Range{}, fmt.Errorf("%w %q: end exceeds address space", ErrRange, tok)
		}
		return Range{Low: low, High: high}, nil
	}

	if lo, hi, ok := strings.Cut(tok, "-"); ok {
		return parseBounds(tok, lo, hi, limit)
	}

	addr, err := parseAddr(tok, tok, limit)
	if err != nil {
		return Range{}, err
	}
	return Range{Low: addr, High: addr}, nil
}

// parseBounds parses an explicit low/high pair
func parseBounds(tok, lo, hi string, limit uint64) (Range, error) {
	low, err := parseAddr(tok, lo, limit)
	if err != nil {
		return Range{}, err
	}
	high, err := parseAddr(tok, hi, limit)
	if err != nil {
		return Range{}, err
	}
	if low > high {
		return Range{}, fmt.Errorf("%w %q: low above high", ErrRange, tok)
	}
	return Range{Low: low, High: high}, nil
}

// parseAddr parses one hex number of a token
func parseAddr(tok, s string, limit uint64) (uint64, error) {
	s = strings.TrimSpace(s)
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if s == "" {
		return 0, fmt.Errorf("%w %q: missing address", ErrSyntax, tok)
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w %q: address overflows 64 bits", ErrRange, tok)
		}
		return 0, fmt.Errorf("%w %q: bad address %q", ErrSyntax, tok, s)
	}
	if v > limit {
		return 0, fmt.Errorf("%w %q: address 0x%x wider than target (max 0x%x)", ErrRange, tok, v, limit)
	}
	return v, nil
}
