package expr

import (
	"testing"

	"github.com/grambin/grambin/internal/label"
	"github.com/grambin/grambin/internal/value"
)

func mustEval(t *testing.T, scope *label.Scope, e Expr) value.Value {
	t.Helper()
	v, err := Eval(scope, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return v
}

func TestArithmeticBasic(t *testing.T) {
	v := mustEval(t, label.Empty, EBinOp{Op: "+", L: EU8{Value: 40}, R: EU8{Value: 2}})
	if v != value.Value(value.VU8(42)) {
		t.Fatalf("expected 42, got %v", v)
	}
}

func TestArithmeticOverflow(t *testing.T) {
	_, err := Eval(label.Empty, EBinOp{Op: "+", L: EU8{Value: 255}, R: EU8{Value: 1}})
	if err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestDivisionByZero(t *testing.T) {
	_, err := Eval(label.Empty, EBinOp{Op: "/", L: EU8{Value: 1}, R: EU8{Value: 0}})
	if err == nil {
		t.Fatalf("expected division-by-zero error")
	}
}

func TestShiftOverflow(t *testing.T) {
	_, err := Eval(label.Empty, EBinOp{Op: "<<", L: EU8{Value: 1}, R: EU8{Value: 8}})
	if err == nil {
		t.Fatalf("expected shift-overflow error")
	}
}

func TestCastOverflow(t *testing.T) {
	_, err := Eval(label.Empty, ECast{Target: value.TU8{}, Src: EU16{Value: 300}})
	if err == nil {
		t.Fatalf("expected cast overflow error")
	}
	v := mustEval(t, label.Empty, ECast{Target: value.TU8{}, Src: EU16{Value: 200}})
	if v != value.Value(value.VU8(200)) {
		t.Fatalf("expected 200, got %v", v)
	}
}

func TestVarLookup(t *testing.T) {
	tbl := label.NewTable()
	x := tbl.Intern("x")
	scope := label.Empty.Push(x, value.VU8(7))
	v := mustEval(t, scope, EVar{Name: x})
	if v != value.Value(value.VU8(7)) {
		t.Fatalf("expected 7, got %v", v)
	}
}

func TestDup(t *testing.T) {
	v := mustEval(t, label.Empty, EDup{N: EU8{Value: 3}, Elem: EBool{Value: true}})
	seq, ok := v.(value.VSeq)
	if !ok || len(seq.Elems) != 3 {
		t.Fatalf("expected 3-element seq, got %v", v)
	}
}

func TestSubSeqAndLength(t *testing.T) {
	s := ESeq{Elems: []Expr{EU8{1}, EU8{2}, EU8{3}, EU8{4}}}
	sub := mustEval(t, label.Empty, ESubSeq{Seq: s, Start: EU8{1}, Len: EU8{2}})
	seq := sub.(value.VSeq)
	if len(seq.Elems) != 2 || seq.Elems[0] != value.Value(value.VU8(2)) {
		t.Fatalf("unexpected subseq: %v", seq)
	}
	ln := mustEval(t, label.Empty, ESeqLength{Seq: s})
	if ln != value.Value(value.VU32(4)) {
		t.Fatalf("expected length 4, got %v", ln)
	}
}

func TestFlatMap(t *testing.T) {
	tbl := label.NewTable()
	p := tbl.Intern("p")
	seq := ESeq{Elems: []Expr{EU8{1}, EU8{2}}}
	lambda := Lambda{Param: p, Body: ESeq{Elems: []Expr{EVar{Name: p}, EVar{Name: p}}}}
	v := mustEval(t, label.Empty, EFlatMap{Lambda: lambda, Seq: seq})
	out := v.(value.VSeq)
	if len(out.Elems) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(out.Elems))
	}
}

func TestMatchArms(t *testing.T) {
	e := EMatch{
		Head: EU8{Value: 5},
		Arms: []MatchArm{
			{Pattern: value.PLiteral{Want: value.VU8(1)}, Body: EBool{Value: false}},
			{Pattern: value.PWildcard{}, Body: EBool{Value: true}},
		},
	}
	v := mustEval(t, label.Empty, e)
	if v != value.Value(value.VBool(true)) {
		t.Fatalf("expected true, got %v", v)
	}
}

func TestRecordAndFieldProjection(t *testing.T) {
	rec := ERecord{Fields: []ERecordField{{Name: "a", Expr: EU8{Value: 9}}}}
	v := mustEval(t, label.Empty, EField{Record: rec, Name: "a"})
	if v != value.Value(value.VU8(9)) {
		t.Fatalf("expected 9, got %v", v)
	}
}
