package value

import "github.com/grambin/grambin/internal/label"

// Pattern is the closed set of patterns Expr's Match and Format's
// Match can dispatch on (spec.md §4.B): wildcards, variable bindings,
// literals, tuples, sequences (exact / prefix+rest / suffix+init),
// variant constructors, Option, and integer ranges.
type Pattern interface {
	isPattern()
}

type (
	// PWildcard matches anything, binding nothing.
	PWildcard struct{}
	// PVar matches anything, binding it to Name.
	PVar struct{ Name label.Label }
	// PLiteral matches a Value that is deeply equal to Want.
	PLiteral struct{ Want Value }
	// PRange matches an unsigned integer Value in [Lo, Hi] inclusive.
	PRange struct{ Lo, Hi uint64 }
	// PTuple matches a VTuple of exactly len(Elems) elements.
	PTuple struct{ Elems []Pattern }
	// PSeqExact matches a VSeq of exactly len(Elems) elements.
	PSeqExact struct{ Elems []Pattern }
	// PSeqPrefixRest matches a VSeq whose first len(Prefix) elements
	// match Prefix, binding the remaining tail to Rest (if non-empty).
	PSeqPrefixRest struct {
		Prefix []Pattern
		Rest   label.Label
		HasRest bool
	}
	// PSeqInitSuffix matches a VSeq whose last len(Suffix) elements
	// match Suffix, binding the leading elements to Init (if non-empty).
	PSeqInitSuffix struct {
		Init    label.Label
		HasInit bool
		Suffix  []Pattern
	}
	// PVariant matches a VBranch with the given Label, further matching
	// Inner against its boxed payload.
	PVariant struct {
		Label string
		Inner Pattern
	}
	// PSome matches a non-None VOption, further matching Inner.
	PSome struct{ Inner Pattern }
	// PNone matches a None VOption.
	PNone struct{}
)

func (PWildcard) isPattern()       {}
func (PVar) isPattern()            {}
func (PLiteral) isPattern()        {}
func (PRange) isPattern()          {}
func (PTuple) isPattern()          {}
func (PSeqExact) isPattern()       {}
func (PSeqPrefixRest) isPattern()  {}
func (PSeqInitSuffix) isPattern()  {}
func (PVariant) isPattern()        {}
func (PSome) isPattern()           {}
func (PNone) isPattern()           {}

// Bindings maps pattern variables to the sub-values they captured.
type Bindings map[label.Label]Value

// Match attempts to match v against p. On success it returns the
// bindings captured by PVar/PSeqPrefixRest/PSeqInitSuffix sub-patterns
// and true. On failure it returns (nil, false) — matching never panics
// (spec.md §4.B: "Matching fails cleanly").
func Match(p Pattern, v Value) (Bindings, bool) {
	b := Bindings{}
	if matchInto(p, v, b) {
		return b, true
	}
	return nil, false
}

func matchInto(p Pattern, v Value, b Bindings) bool {
	switch pat := p.(type) {
	case PWildcard:
		return true
	case PVar:
		b[pat.Name] = v
		return true
	case PLiteral:
		return deepEqual(pat.Want, v)
	case PRange:
		n, _, ok := AsU64(v)
		if !ok {
			return false
		}
		return n >= pat.Lo && n <= pat.Hi
	case PTuple:
		tv, ok := v.(VTuple)
		if !ok || len(tv.Elems) != len(pat.Elems) {
			return false
		}
		for i, sub := range pat.Elems {
			if !matchInto(sub, tv.Elems[i], b) {
				return false
			}
		}
		return true
	case PSeqExact:
		sv, ok := v.(VSeq)
		if !ok || len(sv.Elems) != len(pat.Elems) {
			return false
		}
		for i, sub := range pat.Elems {
			if !matchInto(sub, sv.Elems[i], b) {
				return false
			}
		}
		return true
	case PSeqPrefixRest:
		sv, ok := v.(VSeq)
		if !ok || len(sv.Elems) < len(pat.Prefix) {
			return false
		}
		for i, sub := range pat.Prefix {
			if !matchInto(sub, sv.Elems[i], b) {
				return false
			}
		}
		if pat.HasRest {
			b[pat.Rest] = VSeq{Elems: append([]Value{}, sv.Elems[len(pat.Prefix):]...)}
		}
		return true
	case PSeqInitSuffix:
		sv, ok := v.(VSeq)
		if !ok || len(sv.Elems) < len(pat.Suffix) {
			return false
		}
		split := len(sv.Elems) - len(pat.Suffix)
		for i, sub := range pat.Suffix {
			if !matchInto(sub, sv.Elems[split+i], b) {
				return false
			}
		}
		if pat.HasInit {
			b[pat.Init] = VSeq{Elems: append([]Value{}, sv.Elems[:split]...)}
		}
		return true
	case PVariant:
		br, ok := v.(VBranch)
		if !ok || br.Label != pat.Label {
			return false
		}
		return matchInto(pat.Inner, br.Boxed, b)
	case PSome:
		ov, ok := v.(VOption)
		if !ok || ov.Elem == nil {
			return false
		}
		return matchInto(pat.Inner, ov.Elem, b)
	case PNone:
		ov, ok := v.(VOption)
		return ok && ov.Elem == nil
	}
	return false
}

func deepEqual(a, b Value) bool {
	switch x := a.(type) {
	case VUnit:
		_, ok := b.(VUnit)
		return ok
	case VBool:
		y, ok := b.(VBool)
		return ok && x == y
	case VU8:
		y, ok := b.(VU8)
		return ok && x == y
	case VU16:
		y, ok := b.(VU16)
		return ok && x == y
	case VU32:
		y, ok := b.(VU32)
		return ok && x == y
	case VU64:
		y, ok := b.(VU64)
		return ok && x == y
	case VChar:
		y, ok := b.(VChar)
		return ok && x == y
	case VTuple:
		y, ok := b.(VTuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !deepEqual(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case VSeq:
		y, ok := b.(VSeq)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !deepEqual(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}
