package value

import (
	"fmt"
	"strings"
)

// Value is the runtime result of decoding (spec.md §3.1): immutable
// once constructed, owning its substructure exclusively (spec.md §3.2 —
// no sharing is required).
//
// Grounded on internal/evaluator/object.go's Object interface and its
// closed set of *_OBJ type tags, narrowed to exactly the variants
// spec.md §3.1 names (funxy's Object also has FUNCTION/CLASS_METHOD/
// RANGE/BIG_INT/... which have no counterpart in a decoded byte tree).
type Value interface {
	isValue()
	Type() ValueType
	String() string
}

type (
	VUnit struct{}
	VBool bool
	VU8   uint8
	VU16  uint16
	VU32  uint32
	VU64  uint64
	VChar rune
)

func (VUnit) isValue() {}
func (VBool) isValue() {}
func (VU8) isValue()   {}
func (VU16) isValue()  {}
func (VU32) isValue()  {}
func (VU64) isValue()  {}
func (VChar) isValue() {}

func (VUnit) Type() ValueType { return TUnit{} }
func (VBool) Type() ValueType { return TBool{} }
func (VU8) Type() ValueType   { return TU8{} }
func (VU16) Type() ValueType  { return TU16{} }
func (VU32) Type() ValueType  { return TU32{} }
func (VU64) Type() ValueType  { return TU64{} }
func (VChar) Type() ValueType { return TChar{} }

func (VUnit) String() string  { return "()" }
func (v VBool) String() string { return fmt.Sprintf("%v", bool(v)) }
func (v VU8) String() string   { return fmt.Sprintf("%d", uint8(v)) }
func (v VU16) String() string  { return fmt.Sprintf("%d", uint16(v)) }
func (v VU32) String() string  { return fmt.Sprintf("%d", uint32(v)) }
func (v VU64) String() string  { return fmt.Sprintf("%d", uint64(v)) }
func (v VChar) String() string { return fmt.Sprintf("%q", rune(v)) }

// AsU64 widens any unsigned integer Value to uint64, for arithmetic and
// pattern-range checks. ok is false for non-integer Values.
func AsU64(v Value) (val uint64, width ValueType, ok bool) {
	switch n := v.(type) {
	case VU8:
		return uint64(n), TU8{}, true
	case VU16:
		return uint64(n), TU16{}, true
	case VU32:
		return uint64(n), TU32{}, true
	case VU64:
		return uint64(n), TU64{}, true
	}
	return 0, nil, false
}

// FromU64 narrows val back to the integer Value of the given width.
// Callers are responsible for having range-checked val first (the Expr
// evaluator's cast operators do this and report ArithmeticOverflow on
// failure, per spec.md §4.C).
func FromU64(val uint64, width ValueType) Value {
	switch width.(type) {
	case TU8:
		return VU8(val)
	case TU16:
		return VU16(val)
	case TU32:
		return VU32(val)
	default:
		return VU64(val)
	}
}

// VTuple is a fixed-arity positional product value.
type VTuple struct{ Elems []Value }

func (VTuple) isValue() {}
func (v VTuple) Type() ValueType {
	ts := make([]ValueType, len(v.Elems))
	for i, e := range v.Elems {
		ts[i] = e.Type()
	}
	return TTuple{Elems: ts}
}
func (v VTuple) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// VSeq is a homogeneous, variable-length sequence value.
type VSeq struct{ Elems []Value }

func (VSeq) isValue() {}
func (v VSeq) Type() ValueType {
	if len(v.Elems) == 0 {
		return TSeq{Elem: TEmpty{}}
	}
	t := v.Elems[0].Type()
	for _, e := range v.Elems[1:] {
		if u, err := Unify(t, e.Type()); err == nil {
			t = u
		}
	}
	return TSeq{Elem: t}
}
func (v VSeq) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// VOption is an optional value: nil Elem means None.
type VOption struct{ Elem Value }

func (VOption) isValue() {}
func (v VOption) Type() ValueType {
	if v.Elem == nil {
		return TOption{Elem: TEmpty{}}
	}
	return TOption{Elem: v.Elem.Type()}
}
func (v VOption) String() string {
	if v.Elem == nil {
		return "None"
	}
	return "Some(" + v.Elem.String() + ")"
}

// RecordEntry is one named, ordered field of a VRecord.
type RecordEntry struct {
	Name  string
	Value Value
}

// VRecord is an ordered record value.
type VRecord struct{ Fields []RecordEntry }

func (VRecord) isValue() {}
func (v VRecord) Type() ValueType {
	fs := make([]RecordField, len(v.Fields))
	for i, f := range v.Fields {
		fs[i] = RecordField{Name: f.Name, Type: f.Value.Type()}
	}
	return TRecord{Fields: fs}
}
func (v VRecord) String() string {
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = f.Name + ": " + f.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Field looks up a named field, returning (nil, false) if absent.
func (v VRecord) Field(name string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// VBranch tags the result of a Union-format alternative with the index
// of the branch that produced it (spec.md §3.1). n is the branch
// index; Label is the Format-level variant label if one was applied via
// Variant(label, F), or "" if the Union branch was not wrapped in one.
type VBranch struct {
	N     int
	Label string
	Boxed Value
}

func (VBranch) isValue() {}
func (v VBranch) Type() ValueType {
	name := v.Label
	if name == "" {
		name = fmt.Sprintf("_%d", v.N)
	}
	return TUnion{Variants: map[string]ValueType{name: v.Boxed.Type()}}
}
func (v VBranch) String() string {
	name := v.Label
	if name == "" {
		name = fmt.Sprintf("#%d", v.N)
	}
	return fmt.Sprintf("%s(%s)", name, v.Boxed.String())
}
