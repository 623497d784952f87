// Package decoder implements Component F: the value-directed decoder
// (spec.md §3.1, §4.F). Decode walks a format.Format tree recursively,
// driving a Cursor over the input and an expr/label Scope over bound
// values, producing a value.Value tree.
//
// Grounded on internal/expr's Eval (a scope-threaded recursive-descent
// switch over a sealed node type, returning a *diagnostics.Diagnostic
// instead of panicking) — the decoder is the same shape one level up,
// over format.Format instead of expr.Expr, consulting analyzer.Result
// at every lookahead-gated construct instead of evaluating subexpressions.
package decoder

import (
	"fmt"

	"github.com/grambin/grambin/internal/analyzer"
	"github.com/grambin/grambin/internal/config"
	"github.com/grambin/grambin/internal/diagnostics"
	"github.com/grambin/grambin/internal/expr"
	"github.com/grambin/grambin/internal/format"
	"github.com/grambin/grambin/internal/huffman"
	"github.com/grambin/grambin/internal/label"
	"github.com/grambin/grambin/internal/value"
)

// decoder carries the two pieces of state shared by every decode call
// that are fixed for the whole run: the module (for ItemVar lookups)
// and the analyzer's Result (for lookahead dispatch at Union/Repeat*).
type decoder struct {
	m   *format.Module
	res *analyzer.Result
}

// Decode runs top against buf and returns the decoded value. m must
// already have been analyzed by analyzer.Analyze (res is that call's
// Result). Per spec.md §6, opts.StrictEOF requires top to consume the
// entire input; IncompleteParse is reported otherwise. Callers that
// want a format to deliberately ignore trailing bytes should instead
// wrap it in format.MonadSeq(f, format.SkipRemainder{}) and pass
// StrictEOF: false (spec.md §9 Open Question "end-of-input strictness
// at top level").
func Decode(m *format.Module, res *analyzer.Result, top format.Format, buf []byte, opts config.Options) (value.Value, error) {
	d := &decoder{m: m, res: res}
	cur := NewCursor(buf)
	v, err := d.decode(top, cur, label.Empty)
	if err != nil {
		return nil, err
	}
	if opts.StrictEOF && !cur.AtEnd() {
		return nil, diagnostics.At(diagnostics.IncompleteParse, diagnostics.Pos(cur.Pos()),
			"%d byte(s) remaining after top-level decode", cur.Remaining())
	}
	return v, nil
}

func (d *decoder) decode(f format.Format, cur *Cursor, scope *label.Scope) (value.Value, error) {
	switch n := f.(type) {
	case format.ItemVar:
		return d.decodeItemVar(n, cur, scope)

	case format.Fail:
		return nil, diagnostics.At(diagnostics.FailFormat, diagnostics.Pos(cur.Pos()), "fail")

	case format.EndOfInput:
		if !cur.AtEnd() {
			return nil, diagnostics.At(diagnostics.UnexpectedEndOfInput, diagnostics.Pos(cur.Pos()),
				"expected end of input")
		}
		return value.VUnit{}, nil

	case format.Align:
		return value.VUnit{}, d.align(n.N, cur)

	case format.Byte:
		return d.decodeByte(n, cur)

	case format.Apply:
		return d.decodeApply(n, cur, scope)

	case format.Pos:
		return value.VU64(cur.Pos()), nil

	case format.SkipRemainder:
		return d.skipRemainder(cur)

	case format.Compute:
		return expr.Eval(scope, n.Expr)

	case format.Variant:
		v, err := d.decode(n.Body, cur, scope)
		if err != nil {
			return nil, err
		}
		return value.VBranch{Label: n.Label, Boxed: v}, nil

	case format.Union:
		return d.decodeUnion(n.Branches, cur, scope)
	case format.UnionNondet:
		return d.decodeUnionNondet(n.Branches, cur, scope)

	case format.Tuple:
		elems := make([]value.Value, len(n.Elems))
		for i, e := range n.Elems {
			v, err := d.decode(e, cur, scope)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return value.VTuple{Elems: elems}, nil

	case format.Sequence:
		var last value.Value = value.VUnit{}
		for _, e := range n.Elems {
			v, err := d.decode(e, cur, scope)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil

	case format.Repeat:
		return d.decodeRepeat(n.Body, cur, scope, 0, -1)
	case format.Repeat1:
		return d.decodeRepeat(n.Body, cur, scope, 1, -1)
	case format.RepeatBetween:
		return d.decodeRepeatBetween(n, cur, scope)
	case format.RepeatCount:
		return d.decodeRepeatCount(n, cur, scope)
	case format.RepeatUntilLast:
		return d.decodeRepeatUntilLast(n, cur, scope)
	case format.RepeatUntilSeq:
		return d.decodeRepeatUntilSeq(n, cur, scope)
	case format.AccumUntil:
		return d.decodeAccumUntil(n, cur, scope)
	case format.ForEach:
		return d.decodeForEach(n, cur, scope)
	case format.Maybe:
		return d.decodeMaybe(n, cur, scope)

	case format.Peek:
		return d.decodePeek(n.Body, cur, scope)
	case format.PeekNot:
		return d.decodePeekNot(n.Body, cur, scope)

	case format.Slice:
		return d.decodeSlice(n, cur, scope)
	case format.Bits:
		cur.EnterBits()
		v, err := d.decode(n.Body, cur, scope)
		cur.ExitBits()
		return v, err

	case format.WithRelativeOffset:
		return d.decodeWithRelativeOffset(n, cur, scope)

	case format.Map:
		v, err := d.decode(n.Body, cur, scope)
		if err != nil {
			return nil, err
		}
		return expr.Apply(scope, n.Lambda, v)
	case format.Where:
		return d.decodeWhere(n, cur, scope)

	case format.Let:
		val, err := expr.Eval(scope, n.Expr)
		if err != nil {
			return nil, err
		}
		return d.decode(n.Body, cur, scope.Push(n.Name, val))

	case format.Dynamic:
		return d.decodeDynamic(n, cur, scope)

	case format.DecodeBytes:
		return d.decodeBytesNode(n, cur, scope)

	case format.Match:
		return d.decodeMatch(n, cur, scope)

	case format.LetFormat:
		v1, err := d.decode(n.First, cur, scope)
		if err != nil {
			return nil, err
		}
		return d.decode(n.Second, cur, scope.Push(n.Name, v1))
	case format.MonadSeq:
		if _, err := d.decode(n.First, cur, scope); err != nil {
			return nil, err
		}
		return d.decode(n.Second, cur, scope)

	default:
		return nil, diagnostics.New(diagnostics.FailFormat, "decoder: unhandled Format node %T", f)
	}
}

// decodeItemVar calls a named production: its parameters are bound in
// a fresh scope (productions close over their own parameters, not the
// caller's lexical bindings — spec.md §3.2's frames are released in
// strict LIFO order, so a production's scope never outlives the call).
func (d *decoder) decodeItemVar(n format.ItemVar, cur *Cursor, scope *label.Scope) (value.Value, error) {
	def := d.m.Def(n.ID)
	// Arity is a static property of the grammar (spec.md §4.D: checked
	// "at module-definition time (not at decode time)"), enforced by
	// Component H (internal/analyzer's checkItemVarArgs) before any
	// Decode call can reach here. A mismatch at this point means the
	// module was decoded without first running Analyze, not a malformed
	// input — that is a programmer error, not a diagnostics.TypeError.
	if len(def.Params) != len(n.Args) {
		panic(fmt.Sprintf("decoder: production %q called with %d argument(s), expects %d (was the module analyzed?)",
			def.Name, len(n.Args), len(def.Params)))
	}
	s := label.Empty
	for i, p := range def.Params {
		v, err := expr.Eval(scope, n.Args[i])
		if err != nil {
			return nil, err
		}
		s = s.Push(p.Name, v)
	}
	return d.decode(def.Body, cur, s)
}

func (d *decoder) decodeByte(n format.Byte, cur *Cursor) (value.Value, error) {
	pos := cur.Pos()
	b, err := cur.ReadByte()
	if err != nil {
		return nil, err
	}
	if !n.Set.Contains(b) {
		return nil, diagnostics.UnexpectedByteError(diagnostics.Pos(pos), b, n.Set.String())
	}
	return value.VU8(b), nil
}

// decodeApply invokes a dynamic format previously bound by Dynamic.
// Per spec.md §4.G the only DynFormat the grammar can construct is a
// Huffman table, so that is the only binding kind Apply resolves; a
// richer DynFormat would need a type switch here, not in Dynamic.
func (d *decoder) decodeApply(n format.Apply, cur *Cursor, scope *label.Scope) (value.Value, error) {
	bound, ok := scope.Lookup(n.Name)
	if !ok {
		return nil, diagnostics.New(diagnostics.UndefinedVariable,
			"no dynamic format bound to %q", n.Name)
	}
	tbl, ok := bound.(*huffman.Table)
	if !ok {
		return nil, diagnostics.New(diagnostics.UndefinedVariable,
			"%q is not a dynamic format", n.Name)
	}
	sym, err := tbl.Decode(cur.ReadBit)
	if err != nil {
		return nil, err
	}
	return value.VU32(sym), nil
}

func (d *decoder) align(n int, cur *Cursor) error {
	if n <= 1 {
		return nil
	}
	for cur.Pos()%n != 0 {
		if _, err := cur.ReadByte(); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) skipRemainder(cur *Cursor) (value.Value, error) {
	elems := make([]value.Value, 0, cur.Remaining())
	for !cur.AtEnd() {
		b, err := cur.ReadByte()
		if err != nil {
			return nil, err
		}
		elems = append(elems, value.VU8(b))
	}
	return value.VSeq{Elems: elems}, nil
}

// decodeBranch runs f as the ith alternative of a Union/UnionNondet and
// tags the result with that branch index, preserving a Variant label
// already applied inside f rather than double-wrapping it.
func (d *decoder) decodeBranch(i int, f format.Format, cur *Cursor, scope *label.Scope) (value.Value, error) {
	v, err := d.decode(f, cur, scope)
	if err != nil {
		return nil, err
	}
	if br, ok := v.(value.VBranch); ok {
		br.N = i
		return br, nil
	}
	return value.VBranch{N: i, Boxed: v}, nil
}

// decodeUnion dispatches to the branch whose FIRST set contains the
// next byte (spec.md §4.F: "consults the determinism analyzer to
// resolve Union branches by FIRST-set membership"). Analysis already
// guarantees the branches' FIRST sets are pairwise disjoint and at
// most one is nullable, so at most one branch can match. When no
// branch's FIRST set contains the next byte, or the input is at its
// end, the nullable branch (if there is one) is taken.
func (d *decoder) decodeUnion(branches []format.Format, cur *Cursor, scope *label.Scope) (value.Value, error) {
	b, ok := cur.PeekByte()
	nullable := -1
	for i, br := range branches {
		det, err := d.res.DeterminationsOf(br)
		if err != nil {
			return nil, err
		}
		if ok && det.First.Contains(b) {
			return d.decodeBranch(i, br, cur, scope)
		}
		if det.Nullable && nullable < 0 {
			nullable = i
		}
	}
	if nullable >= 0 {
		return d.decodeBranch(nullable, branches[nullable], cur, scope)
	}
	return nil, diagnostics.At(diagnostics.UnexpectedByte, diagnostics.Pos(cur.Pos()),
		"no union branch matches")
}

// decodeUnionNondet tries branches in source order, committing to the
// first one that decodes without error and rewinding the cursor
// between attempts (spec.md's supplemented resolution of the
// UnionNondet Open Question: preserve source-order first-match
// semantics rather than requiring disjointness).
func (d *decoder) decodeUnionNondet(branches []format.Format, cur *Cursor, scope *label.Scope) (value.Value, error) {
	var last error
	for i, br := range branches {
		cur.OpenMark(modeAlt)
		v, err := d.decodeBranch(i, br, cur, scope)
		if err != nil {
			cur.CloseMark(true)
			last = err
			continue
		}
		cur.CloseMark(false)
		return v, nil
	}
	if last == nil {
		last = diagnostics.At(diagnostics.UnexpectedByte, diagnostics.Pos(cur.Pos()), "empty union")
	}
	return nil, last
}

// decodeRepeat implements Repeat/Repeat1: at each iteration, peek one
// byte and continue only if the body's FIRST set contains it (spec.md
// §4.F). min forces that many iterations unconditionally first
// (min=1 for Repeat1); max, if >= 0, caps the total iteration count
// (used by decodeRepeatBetween).
func (d *decoder) decodeRepeat(body format.Format, cur *Cursor, scope *label.Scope, min, max int) (value.Value, error) {
	var elems []value.Value
	for i := 0; min > 0 && i < min; i++ {
		v, err := d.decode(body, cur, scope)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	if max < 0 || len(elems) < max {
		det, err := d.res.DeterminationsOf(body)
		if err != nil {
			return nil, err
		}
		for max < 0 || len(elems) < max {
			b, ok := cur.PeekByte()
			if !ok || !det.First.Contains(b) {
				break
			}
			v, err := d.decode(body, cur, scope)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
	}
	return value.VSeq{Elems: elems}, nil
}

func (d *decoder) decodeRepeatBetween(n format.RepeatBetween, cur *Cursor, scope *label.Scope) (value.Value, error) {
	lo, err := evalCount(scope, n.Lo)
	if err != nil {
		return nil, err
	}
	hi, err := evalCount(scope, n.Hi)
	if err != nil {
		return nil, err
	}
	return d.decodeRepeat(n.Body, cur, scope, lo, hi)
}

func (d *decoder) decodeRepeatCount(n format.RepeatCount, cur *Cursor, scope *label.Scope) (value.Value, error) {
	count, err := evalCount(scope, n.N)
	if err != nil {
		return nil, err
	}
	elems := make([]value.Value, 0, count)
	for i := 0; i < count; i++ {
		v, err := d.decode(n.Body, cur, scope)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return value.VSeq{Elems: elems}, nil
}

func evalCount(scope *label.Scope, e expr.Expr) (int, error) {
	v, err := expr.Eval(scope, e)
	if err != nil {
		return 0, err
	}
	n, _, ok := value.AsU64(v)
	if !ok {
		return 0, diagnostics.New(diagnostics.UnificationFailure, "repeat bound must be an unsigned integer")
	}
	return int(n), nil
}

// decodeRepeatUntilLast decodes one element at a time, evaluating Cond
// on the just-produced element, stopping once it returns true (spec.md
// §4.F).
func (d *decoder) decodeRepeatUntilLast(n format.RepeatUntilLast, cur *Cursor, scope *label.Scope) (value.Value, error) {
	var elems []value.Value
	for {
		v, err := d.decode(n.Body, cur, scope)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		stop, err := expr.Apply(scope, n.Cond, v)
		if err != nil {
			return nil, err
		}
		b, ok := stop.(value.VBool)
		if !ok {
			return nil, diagnostics.New(diagnostics.UnificationFailure, "repeat-until condition must be a bool")
		}
		if bool(b) {
			break
		}
	}
	return value.VSeq{Elems: elems}, nil
}

// decodeRepeatUntilSeq is RepeatUntilLast's sibling, testing Cond
// against the whole accumulated sequence rather than just the latest
// element.
func (d *decoder) decodeRepeatUntilSeq(n format.RepeatUntilSeq, cur *Cursor, scope *label.Scope) (value.Value, error) {
	var elems []value.Value
	for {
		v, err := d.decode(n.Body, cur, scope)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		seq := value.VSeq{Elems: append([]value.Value{}, elems...)}
		stop, err := expr.Apply(scope, n.Cond, seq)
		if err != nil {
			return nil, err
		}
		b, ok := stop.(value.VBool)
		if !ok {
			return nil, diagnostics.New(diagnostics.UnificationFailure, "repeat-until condition must be a bool")
		}
		if bool(b) {
			break
		}
	}
	return value.VSeq{Elems: elems}, nil
}

// decodeAccumUntil threads an accumulator alongside the decoded
// elements, testing Done before each iteration (spec.md §4.F: "fold
// while consuming... stop when done(acc, elems) is true").
func (d *decoder) decodeAccumUntil(n format.AccumUntil, cur *Cursor, scope *label.Scope) (value.Value, error) {
	acc, err := expr.Eval(scope, n.Init)
	if err != nil {
		return nil, err
	}
	var elems []value.Value
	for {
		seq := value.VSeq{Elems: append([]value.Value{}, elems...)}
		stop, err := expr.Apply2(scope, n.Done, acc, seq)
		if err != nil {
			return nil, err
		}
		b, ok := stop.(value.VBool)
		if !ok {
			return nil, diagnostics.New(diagnostics.UnificationFailure, "accum-until done predicate must be a bool")
		}
		if bool(b) {
			break
		}
		v, err := d.decode(n.Body, cur, scope)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		acc, err = expr.Apply2(scope, n.Step, acc, v)
		if err != nil {
			return nil, err
		}
	}
	return value.VSeq{Elems: elems}, nil
}

// decodeForEach evaluates Seq once and runs Body once per element,
// binding each element to Name in turn (spec.md §4.F).
func (d *decoder) decodeForEach(n format.ForEach, cur *Cursor, scope *label.Scope) (value.Value, error) {
	seqVal, err := expr.Eval(scope, n.Seq)
	if err != nil {
		return nil, err
	}
	seq, ok := seqVal.(value.VSeq)
	if !ok {
		return nil, diagnostics.New(diagnostics.UnificationFailure, "for-each source must be a sequence")
	}
	elems := make([]value.Value, 0, len(seq.Elems))
	for _, e := range seq.Elems {
		v, err := d.decode(n.Body, cur, scope.Push(n.Name, e))
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return value.VSeq{Elems: elems}, nil
}

func (d *decoder) decodeMaybe(n format.Maybe, cur *Cursor, scope *label.Scope) (value.Value, error) {
	condVal, err := expr.Eval(scope, n.Cond)
	if err != nil {
		return nil, err
	}
	b, ok := condVal.(value.VBool)
	if !ok {
		return nil, diagnostics.New(diagnostics.UnificationFailure, "maybe condition must be a bool")
	}
	if !bool(b) {
		return value.VOption{}, nil
	}
	v, err := d.decode(n.Body, cur, scope)
	if err != nil {
		return nil, err
	}
	return value.VOption{Elem: v}, nil
}

// decodePeek runs body against a save-point that is always rewound,
// so Peek never advances the cursor even on success; failure (for
// instance at end of input) still propagates, per spec.md's "Peek at
// end-of-input fails".
func (d *decoder) decodePeek(body format.Format, cur *Cursor, scope *label.Scope) (value.Value, error) {
	cur.OpenMark(modePeek)
	v, err := d.decode(body, cur, scope)
	cur.CloseMark(true)
	return v, err
}

// decodePeekNot succeeds with VUnit iff body fails to decode, always
// rewinding.
func (d *decoder) decodePeekNot(body format.Format, cur *Cursor, scope *label.Scope) (value.Value, error) {
	cur.OpenMark(modePeekNot)
	_, err := d.decode(body, cur, scope)
	cur.CloseMark(true)
	if err == nil {
		return nil, diagnostics.At(diagnostics.PeekNotMatched, diagnostics.Pos(cur.Pos()),
			"peek-not: excluded format matched")
	}
	return value.VUnit{}, nil
}

func (d *decoder) decodeSlice(n format.Slice, cur *Cursor, scope *label.Scope) (value.Value, error) {
	size, err := evalCount(scope, n.Size)
	if err != nil {
		return nil, err
	}
	if err := cur.StartSlice(size); err != nil {
		return nil, err
	}
	v, err := d.decode(n.Body, cur, scope)
	cur.EndSlice()
	return v, err
}

// decodeWithRelativeOffset parses Body against base+offset without
// moving the enclosing cursor (spec.md §4.F): the save-point is always
// rewound on exit, success or failure.
func (d *decoder) decodeWithRelativeOffset(n format.WithRelativeOffset, cur *Cursor, scope *label.Scope) (value.Value, error) {
	base, err := evalCount(scope, n.Base)
	if err != nil {
		return nil, err
	}
	off, err := evalCount(scope, n.Offset)
	if err != nil {
		return nil, err
	}
	cur.OpenMark(modeOffset)
	if err := cur.Seek(base + off); err != nil {
		cur.CloseMark(true)
		return nil, err
	}
	v, err := d.decode(n.Body, cur, scope)
	cur.CloseMark(true)
	return v, err
}

// decodeWhere decodes Body, then rewinds if Lambda applied to the
// result is false (spec.md §4.F Where: a failed predicate behaves like
// any other decode failure, including giving back the bytes it
// consumed).
func (d *decoder) decodeWhere(n format.Where, cur *Cursor, scope *label.Scope) (value.Value, error) {
	cur.OpenMark(modeAlt)
	v, err := d.decode(n.Body, cur, scope)
	if err != nil {
		cur.CloseMark(true)
		return nil, err
	}
	keepVal, err := expr.Apply(scope, n.Lambda, v)
	if err != nil {
		cur.CloseMark(true)
		return nil, err
	}
	keep, ok := keepVal.(value.VBool)
	if !ok {
		cur.CloseMark(true)
		return nil, diagnostics.New(diagnostics.UnificationFailure, "where predicate must be a bool")
	}
	if !bool(keep) {
		cur.CloseMark(true)
		return nil, diagnostics.At(diagnostics.PredicateFalse, diagnostics.Pos(cur.Pos()), "where predicate false")
	}
	cur.CloseMark(false)
	return v, nil
}

// decodeDynamic builds the run-time sub-grammar named by n.Dyn, binds
// it under n.Name, runs Body, and lets the binding drop on exit simply
// by not propagating the extended scope to the caller (spec.md §4.F,
// §4.G).
func (d *decoder) decodeDynamic(n format.Dynamic, cur *Cursor, scope *label.Scope) (value.Value, error) {
	hd, ok := n.Dyn.(format.HuffmanDyn)
	if !ok {
		return nil, diagnostics.New(diagnostics.BadHuffman, "decoder: unsupported DynFormat %T", n.Dyn)
	}
	lengths, err := evalIntSeq(scope, hd.Lengths)
	if err != nil {
		return nil, err
	}
	var order []int
	if hd.Order != nil {
		order, err = evalIntSeq(scope, hd.Order)
		if err != nil {
			return nil, err
		}
	}
	tbl, err := huffman.Build(lengths, order)
	if err != nil {
		return nil, err
	}
	return d.decode(n.Body, cur, scope.Push(n.Name, tbl))
}

func evalIntSeq(scope *label.Scope, e expr.Expr) ([]int, error) {
	v, err := expr.Eval(scope, e)
	if err != nil {
		return nil, err
	}
	seq, ok := v.(value.VSeq)
	if !ok {
		return nil, diagnostics.New(diagnostics.UnificationFailure, "expected a sequence of lengths")
	}
	out := make([]int, len(seq.Elems))
	for i, e := range seq.Elems {
		n, _, ok := value.AsU64(e)
		if !ok {
			return nil, diagnostics.New(diagnostics.UnificationFailure, "expected an unsigned integer sequence element")
		}
		out[i] = int(n)
	}
	return out, nil
}

func (d *decoder) decodeBytesNode(n format.DecodeBytes, cur *Cursor, scope *label.Scope) (value.Value, error) {
	v, err := expr.Eval(scope, n.Bytes)
	if err != nil {
		return nil, err
	}
	seq, ok := v.(value.VSeq)
	if !ok {
		return nil, diagnostics.New(diagnostics.UnificationFailure, "decode-bytes source must be a byte sequence")
	}
	buf := make([]byte, len(seq.Elems))
	for i, e := range seq.Elems {
		b, _, ok := value.AsU64(e)
		if !ok {
			return nil, diagnostics.New(diagnostics.UnificationFailure, "decode-bytes source must contain only bytes")
		}
		buf[i] = byte(b)
	}
	sub := NewCursor(buf)
	return d.decode(n.Body, sub, scope)
}

func (d *decoder) decodeMatch(n format.Match, cur *Cursor, scope *label.Scope) (value.Value, error) {
	headVal, err := expr.Eval(scope, n.Head)
	if err != nil {
		return nil, err
	}
	for _, arm := range n.Arms {
		bindings, ok := value.Match(arm.Pattern, headVal)
		if !ok {
			continue
		}
		s := scope
		for name, v := range bindings {
			s = s.Push(name, v)
		}
		return d.decode(arm.Body, cur, s)
	}
	return nil, diagnostics.At(diagnostics.PredicateFalse, diagnostics.Pos(cur.Pos()), "match: no arm matched")
}
