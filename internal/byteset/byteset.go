// Package byteset implements Component A: a dense, canonical set of u8
// values with constant-time membership, union, intersection, complement
// and disjointness tests (spec.md §3.1, §4.A).
package byteset

import (
	"fmt"
	"math/bits"
	"strings"
)

// Set is a dense 256-bit set of bytes, stored as four uint64 words.
// The zero value is the empty set. Two equal sets compare == (the
// struct has no pointers and no padding-sensitive fields), satisfying
// the canonical-equality invariant in spec.md §3.1.
type Set struct {
	words [4]uint64
}

// Empty is the set containing no bytes.
var Empty = Set{}

// Full is the set containing every byte 0..=255.
var Full = Set{words: [4]uint64{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}}

// Single returns the set containing exactly b.
func Single(b byte) Set {
	var s Set
	s.words[b/64] |= 1 << (uint(b) % 64)
	return s
}

// Range returns the set {lo, lo+1, ..., hi} inclusive. If hi < lo the
// result is Empty.
func Range(lo, hi byte) Set {
	var s Set
	if hi < lo {
		return s
	}
	for b := int(lo); b <= int(hi); b++ {
		s.words[b/64] |= 1 << (uint(b) % 64)
	}
	return s
}

// Of builds a set from an explicit list of bytes.
func Of(bs ...byte) Set {
	var s Set
	for _, b := range bs {
		s.words[b/64] |= 1 << (uint(b) % 64)
	}
	return s
}

// Contains reports whether b is a member of s.
func (s Set) Contains(b byte) bool {
	return s.words[b/64]&(1<<(uint(b)%64)) != 0
}

// Union returns the set of bytes in s or t (or both).
func (s Set) Union(t Set) Set {
	var r Set
	for i := range s.words {
		r.words[i] = s.words[i] | t.words[i]
	}
	return r
}

// Intersection returns the set of bytes in both s and t.
func (s Set) Intersection(t Set) Set {
	var r Set
	for i := range s.words {
		r.words[i] = s.words[i] & t.words[i]
	}
	return r
}

// Complement returns the set of bytes not in s.
func (s Set) Complement() Set {
	var r Set
	for i := range s.words {
		r.words[i] = ^s.words[i]
	}
	return r
}

// IsDisjoint reports whether s and t share no member.
func (s Set) IsDisjoint(t Set) bool {
	for i := range s.words {
		if s.words[i]&t.words[i] != 0 {
			return false
		}
	}
	return true
}

// IsEmpty reports whether s has no members.
func (s Set) IsEmpty() bool {
	return s == Empty
}

// Len returns the number of members of s.
func (s Set) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Equal reports whether s and t have exactly the same members.
func (s Set) Equal(t Set) bool {
	return s == t
}

// Bytes returns the members of s in ascending order.
func (s Set) Bytes() []byte {
	out := make([]byte, 0, s.Len())
	for w := 0; w < 4; w++ {
		word := s.words[w]
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			out = append(out, byte(w*64+bit))
			word &^= 1 << uint(bit)
		}
	}
	return out
}

// ForEach calls fn for every member of s in ascending order, stopping
// early if fn returns false.
func (s Set) ForEach(fn func(b byte) bool) {
	for w := 0; w < 4; w++ {
		word := s.words[w]
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			if !fn(byte(w*64 + bit)) {
				return
			}
			word &^= 1 << uint(bit)
		}
	}
}

// String renders s as a compact run-length set of byte ranges, e.g.
// "{0x00..0x1F, 0x41, 0x61..0x7A}".
func (s Set) String() string {
	if s.IsEmpty() {
		return "{}"
	}
	if s == Full {
		return "{0x00..0xFF}"
	}
	var parts []string
	bs := s.Bytes()
	i := 0
	for i < len(bs) {
		start := bs[i]
		end := start
		j := i + 1
		for j < len(bs) && bs[j] == end+1 {
			end = bs[j]
			j++
		}
		if start == end {
			parts = append(parts, fmt.Sprintf("0x%02X", start))
		} else {
			parts = append(parts, fmt.Sprintf("0x%02X..0x%02X", start, end))
		}
		i = j
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
