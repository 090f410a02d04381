// Package imapnum implements sequence sets (RFC 3501 sequence-set ABNF rule).
package imapnum

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// star is the sort key of "*": larger than any uint32.
const star = uint64(1) << 32

func key(v uint32) uint64 {
	if v == 0 {
		return star
	}
	return uint64(v)
}

// Range represents a single seq-number or seq-range value. Zero is used to
// represent "*", which is safe because seq-number uses the nz-number rule.
// A seq-number is represented by setting Start = Stop. Ranges are normalized
// so that Start <= Stop, "*" being the largest value: "n:*" has Start = n and
// Stop = 0.
type Range struct {
	Start, Stop uint32
}

func newRange(start, stop uint32) Range {
	if key(start) > key(stop) {
		start, stop = stop, start
	}
	return Range{start, stop}
}

// Contains returns true if the seq-number q is contained in the range. The
// dynamic value "*" contains only other "*" values, the dynamic range "n:*"
// contains "*" and all numbers >= n.
func (r Range) Contains(q uint32) bool {
	if q == 0 {
		return r.Stop == 0
	}
	return r.Start != 0 && key(r.Start) <= uint64(q) && uint64(q) <= key(r.Stop)
}

// String returns the range as a seq-number or seq-range string.
func (r Range) String() string {
	s := formatNum(r.Start)
	if r.Start != r.Stop {
		s += ":" + formatNum(r.Stop)
	}
	return s
}

func formatNum(v uint32) string {
	if v == 0 {
		return "*"
	}
	return strconv.FormatUint(uint64(v), 10)
}

// Set is a set of message sequence numbers or UIDs. The zero value is an
// empty set.
//
// Ranges are kept sorted, and overlapping or adjacent ranges are merged.
type Set []Range

// AddNum inserts new numbers into the set. The value 0 represents "*".
func (s *Set) AddNum(q ...uint32) {
	for _, v := range q {
		*s = append(*s, Range{v, v})
	}
	s.normalize()
}

// AddRange inserts a new range into the set.
func (s *Set) AddRange(start, stop uint32) {
	*s = append(*s, newRange(start, stop))
	s.normalize()
}

// AddSet inserts all values from t into s.
func (s *Set) AddSet(t Set) {
	*s = append(*s, t...)
	s.normalize()
}

func (s *Set) normalize() {
	l := *s
	sort.SliceStable(l, func(i, j int) bool {
		return key(l[i].Start) < key(l[j].Start)
	})

	out := l[:0]
	for _, r := range l {
		if n := len(out); n > 0 && key(r.Start) <= key(out[n-1].Stop)+1 {
			if key(r.Stop) > key(out[n-1].Stop) {
				out[n-1].Stop = r.Stop
			}
			continue
		}
		out = append(out, r)
	}
	*s = out
}

// Dynamic returns true if the set contains "*" or "n:*" values.
func (s Set) Dynamic() bool {
	return len(s) > 0 && s[len(s)-1].Stop == 0
}

// Contains returns true if q is contained in the set. The value 0
// represents "*".
func (s Set) Contains(q uint32) bool {
	for _, r := range s {
		if r.Contains(q) {
			return true
		}
	}
	return false
}

// Nums returns a slice of all numbers contained in the set. ok is false if
// the set is dynamic.
func (s Set) Nums() (nums []uint32, ok bool) {
	if s.Dynamic() {
		return nil, false
	}
	for _, r := range s {
		for n := uint64(r.Start); n <= uint64(r.Stop); n++ {
			nums = append(nums, uint32(n))
		}
	}
	return nums, true
}

// String returns the IMAP representation of the set.
func (s Set) String() string {
	l := make([]string, len(s))
	for i, r := range s {
		l[i] = r.String()
	}
	return strings.Join(l, ",")
}

// ParseError describes a malformed sequence set.
type ParseError struct {
	Value string
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("imapnum: bad sequence set %q", err.Value)
}

// parseNum parses a single seq-number value (non-zero uint32 or "*").
func parseNum(v string) (uint32, bool) {
	if v == "*" {
		return 0, true
	}
	if v == "" || v[0] == '0' {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 32)
	return uint32(n), err == nil
}

// ParseSet parses a sequence set such as "1:4,7,9:*".
func ParseSet(set string) (Set, error) {
	var s Set
	for _, sv := range strings.Split(set, ",") {
		start, stop := sv, sv
		if i := strings.IndexByte(sv, ':'); i >= 0 {
			start, stop = sv[:i], sv[i+1:]
		}
		a, okA := parseNum(start)
		b, okB := parseNum(stop)
		if !okA || !okB {
			return nil, &ParseError{Value: set}
		}
		s = append(s, newRange(a, b))
	}
	s.normalize()
	return s, nil
}
