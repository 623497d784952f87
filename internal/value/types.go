// Package value implements Component B: Value and ValueType, their
// unification, and pattern matching against Values (spec.md §3.1,
// §4.B). Grounded on internal/typesystem/types.go (the Type interface
// shape) and internal/typesystem/unify.go (the co-inductive unifier),
// trimmed from funxy's substitution-solving Hindley-Milner unifier down
// to the spec's simpler checked-compatibility-plus-widening unifier:
// there are no type variables here, so Unify never returns a
// substitution, only an error.
package value

import (
	"fmt"
	"sort"
	"strings"
)

// ValueType is the static type of a decoded value (spec.md §3.1).
type ValueType interface {
	isValueType()
	String() string
}

type (
	// TEmpty is the uninhabited type.
	TEmpty struct{}
	// TAny is the universal upper bound, used only during unification.
	TAny struct{}

	TUnit struct{}
	TBool struct{}
	TU8   struct{}
	TU16  struct{}
	TU32  struct{}
	TU64  struct{}
	TChar struct{}
)

func (TEmpty) isValueType() {}
func (TAny) isValueType()   {}
func (TUnit) isValueType()  {}
func (TBool) isValueType()  {}
func (TU8) isValueType()    {}
func (TU16) isValueType()   {}
func (TU32) isValueType()   {}
func (TU64) isValueType()   {}
func (TChar) isValueType()  {}

func (TEmpty) String() string { return "Empty" }
func (TAny) String() string   { return "Any" }
func (TUnit) String() string  { return "Unit" }
func (TBool) String() string  { return "Bool" }
func (TU8) String() string    { return "U8" }
func (TU16) String() string   { return "U16" }
func (TU32) String() string   { return "U32" }
func (TU64) String() string   { return "U64" }
func (TChar) String() string  { return "Char" }

// TTuple is a fixed-arity positional product type.
type TTuple struct{ Elems []ValueType }

func (TTuple) isValueType() {}
func (t TTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// TSeq is a homogeneous, variable-length sequence type.
type TSeq struct{ Elem ValueType }

func (TSeq) isValueType()   {}
func (t TSeq) String() string { return "Seq<" + t.Elem.String() + ">" }

// TOption is an optional value type.
type TOption struct{ Elem ValueType }

func (TOption) isValueType()   {}
func (t TOption) String() string { return "Option<" + t.Elem.String() + ">" }

// RecordField is one named, ordered field of a TRecord.
type RecordField struct {
	Name string
	Type ValueType
}

// TRecord is an ordered record type. Field order is significant for
// decoding (it mirrors the order Tuple/Sequence produced the fields in)
// but not for unification, which compares the field *set*.
type TRecord struct{ Fields []RecordField }

func (TRecord) isValueType() {}
func (t TRecord) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (t TRecord) fieldSet() map[string]ValueType {
	m := make(map[string]ValueType, len(t.Fields))
	for _, f := range t.Fields {
		m[f.Name] = f.Type
	}
	return m
}

// TUnion is a sum type: a set of labeled constructors, each carrying a
// payload type. Unlike TRecord, unifying two TUnions *widens*: the
// result carries the union (set-union) of both sides' constructors
// (spec.md §3.1).
type TUnion struct{ Variants map[string]ValueType }

func (TUnion) isValueType() {}
func (t TUnion) String() string {
	names := make([]string, 0, len(t.Variants))
	for n := range t.Variants {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "(" + t.Variants[n].String() + ")"
	}
	return "Union{" + strings.Join(parts, " | ") + "}"
}

// Unify computes t1 ⊔ t2 per spec.md §3.1: reflexive, commutative;
// Empty absorbs into the other operand; Any absorbs into the other
// operand; records unify fields pointwise and require an identical
// field set; unions widen by constructor-set union, unifying payload
// types of shared constructors; every other combination of distinct
// shapes is a unification failure.
//
// Grounded on internal/typesystem/unify.go's unifyInternal, stripped of
// substitution/TVar solving (spec.md has no type variables) and of the
// co-inductive cycle guard (ValueType, unlike funxy's Type, is acyclic:
// it describes one decoded value tree, never a recursive type alias).
func Unify(t1, t2 ValueType) (ValueType, error) {
	switch t1.(type) {
	case TEmpty:
		return t2, nil
	case TAny:
		return t2, nil
	}
	switch b := t2.(type) {
	case TEmpty:
		return t1, nil
	case TAny:
		return t1, nil
	default:
		_ = b
	}

	switch a := t1.(type) {
	case TUnit:
		if _, ok := t2.(TUnit); ok {
			return TUnit{}, nil
		}
	case TBool:
		if _, ok := t2.(TBool); ok {
			return TBool{}, nil
		}
	case TU8:
		if _, ok := t2.(TU8); ok {
			return TU8{}, nil
		}
	case TU16:
		if _, ok := t2.(TU16); ok {
			return TU16{}, nil
		}
	case TU32:
		if _, ok := t2.(TU32); ok {
			return TU32{}, nil
		}
	case TU64:
		if _, ok := t2.(TU64); ok {
			return TU64{}, nil
		}
	case TChar:
		if _, ok := t2.(TChar); ok {
			return TChar{}, nil
		}
	case TTuple:
		b, ok := t2.(TTuple)
		if !ok || len(b.Elems) != len(a.Elems) {
			return nil, fmt.Errorf("tuple arity mismatch: %s vs %s", t1, t2)
		}
		elems := make([]ValueType, len(a.Elems))
		for i := range a.Elems {
			u, err := Unify(a.Elems[i], b.Elems[i])
			if err != nil {
				return nil, fmt.Errorf("tuple element %d: %w", i, err)
			}
			elems[i] = u
		}
		return TTuple{Elems: elems}, nil
	case TSeq:
		b, ok := t2.(TSeq)
		if !ok {
			return nil, fmt.Errorf("type mismatch: %s vs %s", t1, t2)
		}
		u, err := Unify(a.Elem, b.Elem)
		if err != nil {
			return nil, fmt.Errorf("seq element: %w", err)
		}
		return TSeq{Elem: u}, nil
	case TOption:
		b, ok := t2.(TOption)
		if !ok {
			return nil, fmt.Errorf("type mismatch: %s vs %s", t1, t2)
		}
		u, err := Unify(a.Elem, b.Elem)
		if err != nil {
			return nil, fmt.Errorf("option element: %w", err)
		}
		return TOption{Elem: u}, nil
	case TRecord:
		b, ok := t2.(TRecord)
		if !ok {
			return nil, fmt.Errorf("type mismatch: %s vs %s", t1, t2)
		}
		aSet, bSet := a.fieldSet(), b.fieldSet()
		if len(aSet) != len(bSet) {
			return nil, fmt.Errorf("record field-set mismatch: %s vs %s", t1, t2)
		}
		fields := make([]RecordField, 0, len(a.Fields))
		for _, f := range a.Fields {
			bt, ok := bSet[f.Name]
			if !ok {
				return nil, fmt.Errorf("record field-set mismatch: missing %q in %s", f.Name, t2)
			}
			u, err := Unify(f.Type, bt)
			if err != nil {
				return nil, fmt.Errorf("record field %q: %w", f.Name, err)
			}
			fields = append(fields, RecordField{Name: f.Name, Type: u})
		}
		return TRecord{Fields: fields}, nil
	case TUnion:
		b, ok := t2.(TUnion)
		if !ok {
			return nil, fmt.Errorf("type mismatch: %s vs %s", t1, t2)
		}
		merged := make(map[string]ValueType, len(a.Variants)+len(b.Variants))
		for k, v := range a.Variants {
			merged[k] = v
		}
		for k, v := range b.Variants {
			if existing, ok := merged[k]; ok {
				u, err := Unify(existing, v)
				if err != nil {
					return nil, fmt.Errorf("union constructor %q: %w", k, err)
				}
				merged[k] = u
			} else {
				merged[k] = v
			}
		}
		return TUnion{Variants: merged}, nil
	}
	return nil, fmt.Errorf("base-type mismatch: %s vs %s", t1, t2)
}
