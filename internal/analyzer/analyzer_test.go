package analyzer

import (
	"strings"
	"testing"

	"github.com/grambin/grambin/internal/byteset"
	"github.com/grambin/grambin/internal/expr"
	"github.com/grambin/grambin/internal/format"
	"github.com/grambin/grambin/internal/value"
)

func TestByteDeterminations(t *testing.T) {
	m := format.NewModule()
	m.DefineFormat("b", format.Byte{Set: byteset.Single(0x41)})
	res, err := Analyze(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := res.Determinations[0]
	if d.Nullable || !d.Productive || !d.First.Equal(byteset.Single(0x41)) {
		t.Fatalf("unexpected determinations: %+v", d)
	}
	if _, ok := res.Types[0].(value.TU8); !ok {
		t.Fatalf("expected TU8, got %v", res.Types[0])
	}
}

func TestSequenceComposition(t *testing.T) {
	m := format.NewModule()
	m.DefineFormat("seq", format.Tuple{Elems: []format.Format{
		format.Byte{Set: byteset.Single(0x01)},
		format.Byte{Set: byteset.Single(0x02)},
	}})
	res, err := Analyze(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := res.Determinations[0]
	if d.Nullable || !d.Productive {
		t.Fatalf("unexpected determinations: %+v", d)
	}
	if !d.First.Equal(byteset.Single(0x01)) {
		t.Fatalf("expected first={0x01}, got %s", d.First)
	}
	tup, ok := res.Types[0].(value.TTuple)
	if !ok || len(tup.Elems) != 2 {
		t.Fatalf("expected 2-tuple, got %v", res.Types[0])
	}
}

func TestUnionDisjointOK(t *testing.T) {
	m := format.NewModule()
	m.DefineFormat("u", format.Union{Branches: []format.Format{
		format.Byte{Set: byteset.Single(0x01)},
		format.Byte{Set: byteset.Single(0x02)},
	}})
	if _, err := Analyze(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnionAmbiguousFirstRejected(t *testing.T) {
	m := format.NewModule()
	m.DefineFormat("u", format.Union{Branches: []format.Format{
		format.Byte{Set: byteset.Range(0x00, 0x10)},
		format.Byte{Set: byteset.Range(0x08, 0x20)},
	}})
	_, err := Analyze(m)
	if err == nil || !strings.Contains(err.Error(), "AmbiguousFirst") {
		t.Fatalf("expected AmbiguousFirst error, got %v", err)
	}
}

func TestUnionMultiNullableRejected(t *testing.T) {
	m := format.NewModule()
	m.DefineFormat("u", format.Union{Branches: []format.Format{
		format.Compute{},
		format.Maybe{Cond: nil, Body: format.Byte{Set: byteset.Single(0x01)}},
	}})
	_, err := Analyze(m)
	if err == nil || !strings.Contains(err.Error(), "MultiNullUnion") {
		t.Fatalf("expected MultiNullUnion error, got %v", err)
	}
}

func TestUnionNondetAllowsOverlap(t *testing.T) {
	m := format.NewModule()
	m.DefineFormat("u", format.UnionNondet{Branches: []format.Format{
		format.Byte{Set: byteset.Range(0x00, 0x10)},
		format.Byte{Set: byteset.Range(0x08, 0x20)},
	}})
	if _, err := Analyze(m); err != nil {
		t.Fatalf("unexpected error for UnionNondet overlap: %v", err)
	}
}

func TestRepeatOfNullableRejected(t *testing.T) {
	m := format.NewModule()
	m.DefineFormat("r", format.Repeat{Body: format.Compute{}})
	_, err := Analyze(m)
	if err == nil || !strings.Contains(err.Error(), "RepeatNullable") {
		t.Fatalf("expected RepeatNullable error, got %v", err)
	}
}

func TestRepeatOfByteOK(t *testing.T) {
	m := format.NewModule()
	ref := m.DefineFormat("r", format.Repeat{Body: format.Byte{Set: byteset.Single(0x01)}})
	res, err := Analyze(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := res.Determinations[0]
	if !d.Nullable || !d.SNF.Equal(byteset.Single(0x01)) {
		t.Fatalf("unexpected determinations: %+v", d)
	}
	if _, ok := res.Types[0].(value.TSeq); !ok {
		t.Fatalf("expected TSeq, got %v", res.Types[0])
	}
	_ = ref
}

func TestAmbiguousFollowRejected(t *testing.T) {
	m := format.NewModule()
	// Repeat(Byte(0x01)) followed immediately by another Byte(0x01):
	// the decoder can never tell whether to keep repeating or stop.
	m.DefineFormat("s", format.Sequence{Elems: []format.Format{
		format.Repeat{Body: format.Byte{Set: byteset.Single(0x01)}},
		format.Byte{Set: byteset.Single(0x01)},
	}})
	_, err := Analyze(m)
	if err == nil || !strings.Contains(err.Error(), "AmbiguousFollow") {
		t.Fatalf("expected AmbiguousFollow error, got %v", err)
	}
}

func TestDirectLeftRecursionRejected(t *testing.T) {
	m := format.NewModule()
	self := m.DefineFormat("loop", format.Fail{})
	m.Defs[0].Body = format.Sequence{Elems: []format.Format{
		self.Call(),
		format.Byte{Set: byteset.Single(0x01)},
	}}
	_, err := Analyze(m)
	if err == nil || !strings.Contains(err.Error(), "LeftRecursion") {
		t.Fatalf("expected left-recursion error, got %v", err)
	}
}

func TestMutualRightRecursionTerminates(t *testing.T) {
	m := format.NewModule()
	list := m.DefineFormat("list", format.Fail{})
	node := m.DefineFormat("node", format.Fail{})

	// list := Byte(0x00) | node
	m.Defs[0].Body = format.Union{Branches: []format.Format{
		format.Byte{Set: byteset.Single(0x00)},
		node.Call(),
	}}
	// node := Byte(0x01) ; list   (right recursion through a sibling production)
	m.Defs[1].Body = format.Sequence{Elems: []format.Format{
		format.Byte{Set: byteset.Single(0x01)},
		list.Call(),
	}}

	res, err := Analyze(m)
	if err != nil {
		t.Fatalf("unexpected error on mutual right recursion: %v", err)
	}
	d := res.Determinations[0]
	if d.Nullable {
		t.Fatalf("expected list to be non-nullable, got %+v", d)
	}
	if !d.First.Contains(0x00) || !d.First.Contains(0x01) {
		t.Fatalf("expected first set to contain both 0x00 and 0x01, got %s", d.First)
	}
}

func TestRecursiveUnionTypeWidens(t *testing.T) {
	m := format.NewModule()
	list := m.DefineFormat("list", format.Fail{})
	m.Defs[0].Body = format.Union{Branches: []format.Format{
		format.Variant{Label: "Nil", Body: format.Compute{}},
		format.Variant{Label: "Cons", Body: format.Tuple{Elems: []format.Format{
			format.Byte{Set: byteset.Range(0x01, 0xff)},
			list.Call(),
		}}},
	}}
	res, err := Analyze(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, ok := res.Types[0].(value.TUnion)
	if !ok {
		t.Fatalf("expected TUnion, got %v", res.Types[0])
	}
	if _, ok := u.Variants["Nil"]; !ok {
		t.Fatalf("missing Nil variant: %v", u)
	}
	if _, ok := u.Variants["Cons"]; !ok {
		t.Fatalf("missing Cons variant: %v", u)
	}
}

func TestItemVarArityMismatchRejected(t *testing.T) {
	m := format.NewModule()
	x := m.Names.Intern("x")
	byteOf := m.DefineFormatArgs("byteOf", []format.Param{{Name: x, Type: value.TU8{}}},
		format.Byte{Set: byteset.Full})
	m.DefineFormat("top", byteOf.CallArgs([]expr.Expr{expr.EU8{Value: 1}, expr.EU8{Value: 2}}))

	_, err := Analyze(m)
	if err == nil || !strings.Contains(err.Error(), "ArityMismatch") {
		t.Fatalf("expected ArityMismatch error, got %v", err)
	}
}

func TestItemVarArgTypeMismatchRejected(t *testing.T) {
	m := format.NewModule()
	x := m.Names.Intern("x")
	byteOf := m.DefineFormatArgs("byteOf", []format.Param{{Name: x, Type: value.TU8{}}},
		format.Byte{Set: byteset.Full})
	m.DefineFormat("top", byteOf.CallArgs([]expr.Expr{expr.EBool{Value: true}}))

	_, err := Analyze(m)
	if err == nil || !strings.Contains(err.Error(), "UnificationFailure") {
		t.Fatalf("expected UnificationFailure error, got %v", err)
	}
}

func TestItemVarArgsMatchingTypeOK(t *testing.T) {
	m := format.NewModule()
	x := m.Names.Intern("x")
	byteOf := m.DefineFormatArgs("byteOf", []format.Param{{Name: x, Type: value.TU8{}}},
		format.Byte{Set: byteset.Full})
	m.DefineFormat("top", byteOf.CallArgs([]expr.Expr{expr.EU8{Value: 1}}))

	if _, err := Analyze(m); err != nil {
		t.Fatalf("unexpected error for matching ItemVar argument type: %v", err)
	}
}

func TestWithRelativeOffsetIsTransparentToSequencing(t *testing.T) {
	m := format.NewModule()
	m.DefineFormat("s", format.Sequence{Elems: []format.Format{
		format.WithRelativeOffset{Body: format.Byte{Set: byteset.Single(0x05)}},
		format.Byte{Set: byteset.Single(0x01)},
	}})
	res, err := Analyze(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := res.Determinations[0]
	if !d.First.Equal(byteset.Single(0x01)) {
		t.Fatalf("expected first={0x01} since WithRelativeOffset consumes nothing from this stream, got %s", d.First)
	}
}
