package decoder

import (
	"testing"

	"github.com/grambin/grambin/internal/analyzer"
	"github.com/grambin/grambin/internal/byteset"
	"github.com/grambin/grambin/internal/config"
	"github.com/grambin/grambin/internal/expr"
	"github.com/grambin/grambin/internal/format"
	"github.com/grambin/grambin/internal/value"
)

// analyzed wraps body as a module's sole production and runs the
// analyzer over it, returning the pieces Decode needs.
func analyzed(t *testing.T, body format.Format) (*format.Module, *analyzer.Result, format.Format) {
	t.Helper()
	m := format.NewModule()
	ref := m.DefineFormat("top", body)
	res, err := analyzer.Analyze(m)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return m, res, ref.Call()
}

func asVSeq(t *testing.T, v value.Value) value.VSeq {
	t.Helper()
	s, ok := v.(value.VSeq)
	if !ok {
		t.Fatalf("expected VSeq, got %T (%v)", v, v)
	}
	return s
}

// spec.md §8 scenario 1: a single unconstrained byte.
func TestSimpleByte(t *testing.T) {
	m, res, top := analyzed(t, format.Byte{Set: byteset.Full})
	v, err := Decode(m, res, top, []byte("A"), config.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != value.VU8('A') {
		t.Fatalf("got %v, want VU8('A')", v)
	}
}

// spec.md §8 scenario 2: a tuple of two bytes.
func TestTupleOfTwoBytes(t *testing.T) {
	body := format.Tuple{Elems: []format.Format{
		format.Byte{Set: byteset.Full},
		format.Byte{Set: byteset.Full},
	}}
	m, res, top := analyzed(t, body)
	v, err := Decode(m, res, top, []byte("AB"), config.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tup, ok := v.(value.VTuple)
	if !ok || len(tup.Elems) != 2 {
		t.Fatalf("got %v, want a 2-tuple", v)
	}
	if tup.Elems[0] != value.VU8('A') || tup.Elems[1] != value.VU8('B') {
		t.Fatalf("got %v, want (A, B)", v)
	}
}

// spec.md §8 scenario 3: Repeat(Byte('A'..'Z')) over "HELLO\n" stops
// before the trailing newline, leaving one byte unconsumed.
func TestRepeatStopsAtFirstMismatch(t *testing.T) {
	body := format.Repeat{Body: format.Byte{Set: byteset.Range('A', 'Z')}}
	m, res, top := analyzed(t, body)
	opts := config.DefaultOptions()
	opts.StrictEOF = false
	d := &decoder{m: m, res: res}
	cur := NewCursor([]byte("HELLO\n"))
	v, err := d.decode(top, cur, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seq := asVSeq(t, v)
	want := "HELLO"
	if len(seq.Elems) != len(want) {
		t.Fatalf("got %d elements, want %d", len(seq.Elems), len(want))
	}
	for i, b := range []byte(want) {
		if seq.Elems[i] != value.VU8(b) {
			t.Fatalf("element %d: got %v, want VU8(%q)", i, seq.Elems[i], b)
		}
	}
	if cur.Remaining() != 1 {
		t.Fatalf("got %d bytes remaining, want 1", cur.Remaining())
	}

	// Equivalent top-level call, non-strict since a trailing byte remains.
	if _, err := Decode(m, res, top, []byte("HELLO\n"), opts); err != nil {
		t.Fatalf("unexpected error from Decode: %v", err)
	}
}

// spec.md §8 scenario 4: a deterministic Union dispatches by FIRST-set
// membership on the next byte.
func TestDeterministicUnion(t *testing.T) {
	body := format.Union{Branches: []format.Format{
		format.Byte{Set: byteset.Of('A')},
		format.Byte{Set: byteset.Of('B')},
	}}
	m, res, top := analyzed(t, body)
	v, err := Decode(m, res, top, []byte("B"), config.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	br, ok := v.(value.VBranch)
	if !ok {
		t.Fatalf("got %T, want VBranch", v)
	}
	if br.N != 1 || br.Boxed != value.VU8('B') {
		t.Fatalf("got branch %d boxing %v, want branch 1 boxing VU8('B')", br.N, br.Boxed)
	}
}

// An empty Union must fail rather than silently succeed.
func TestEmptyUnionFails(t *testing.T) {
	m, res, top := analyzed(t, format.Union{})
	if _, err := Decode(m, res, top, []byte("A"), config.DefaultOptions()); err == nil {
		t.Fatalf("expected an error decoding an empty union")
	}
}

// spec.md §8 scenario 5: a Dynamic Huffman sub-grammar, built from code
// lengths [2,1,3,3] (canonical codes "10","0","110","111"), decoding
// the bit stream 0b0_10_110_111 to symbols [1,0,2,3]. The byte encoding
// below places those 9 bits in ReadBit's LSB-first-per-byte
// consumption order: byte 0 yields bits 0,1,0,1,1,0,1,1 and byte 1's
// low bit yields the 9th, reproducing "0 10 110 111" in read order.
// The grammar sits inside Bits so that leaving bit mode realigns the
// cursor past the partly read second byte; without that, the default
// StrictEOF check would see a partial bit position and report leftover
// input.
func TestDynamicHuffman(t *testing.T) {
	m := format.NewModule()
	name := m.Names.Intern("huff")
	body := format.Bits{Body: format.Dynamic{
		Name: name,
		Dyn: format.HuffmanDyn{
			Lengths: expr.ESeq{Elems: []expr.Expr{
				expr.EU8{Value: 2}, expr.EU8{Value: 1}, expr.EU8{Value: 3}, expr.EU8{Value: 3},
			}},
		},
		Body: format.RepeatCount{N: expr.EU8{Value: 4}, Body: format.Apply{Name: name}},
	}}

	ref := m.DefineFormat("top", body)
	res, err := analyzer.Analyze(m)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	v, err := Decode(m, res, ref.Call(), []byte{0xDA, 0x01}, config.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seq := asVSeq(t, v)
	want := []value.VU32{1, 0, 2, 3}
	if len(seq.Elems) != len(want) {
		t.Fatalf("got %d symbols, want %d", len(seq.Elems), len(want))
	}
	for i, w := range want {
		if seq.Elems[i] != w {
			t.Fatalf("symbol %d: got %v, want %v", i, seq.Elems[i], w)
		}
	}
}

// spec.md §8 scenario 6: Slice(2, Repeat(Byte(any))) over [0x01,0x02,0x03]
// decodes exactly the first two bytes and leaves the cursor at the
// slice boundary, with one byte remaining at the outer level.
func TestSliceContainment(t *testing.T) {
	body := format.Slice{
		Size: expr.EU8{Value: 2},
		Body: format.Repeat{Body: format.Byte{Set: byteset.Full}},
	}
	m, res, top := analyzed(t, body)
	d := &decoder{m: m, res: res}
	cur := NewCursor([]byte{0x01, 0x02, 0x03})
	v, err := d.decode(top, cur, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seq := asVSeq(t, v)
	if len(seq.Elems) != 2 || seq.Elems[0] != value.VU8(1) || seq.Elems[1] != value.VU8(2) {
		t.Fatalf("got %v, want [1, 2]", v)
	}
	if cur.Remaining() != 1 {
		t.Fatalf("got %d bytes remaining at outer level, want 1", cur.Remaining())
	}
}

// spec.md §8 invariant 3 (frame balance): Cursor.Depth is unchanged
// across a Slice that runs to completion.
func TestFrameBalanceAcrossSlice(t *testing.T) {
	body := format.Slice{Size: expr.EU8{Value: 1}, Body: format.Byte{Set: byteset.Full}}
	m, res, top := analyzed(t, body)
	d := &decoder{m: m, res: res}
	cur := NewCursor([]byte{0x01})
	before := cur.Depth()
	if _, err := d.decode(top, cur, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cur.Depth() != before {
		t.Fatalf("frame depth changed: before %d, after %d", before, cur.Depth())
	}
}

// spec.md §8 invariant 5 (bit-mode closure): exiting Bits always
// re-aligns to the next byte boundary, even when the body stopped
// mid-byte.
func TestBitModeClosureRealigns(t *testing.T) {
	body := format.Bits{Body: format.RepeatCount{
		N:    expr.EU8{Value: 3},
		Body: format.Byte{Set: byteset.Of(0, 1)},
	}}
	m, res, top := analyzed(t, body)
	d := &decoder{m: m, res: res}
	cur := NewCursor([]byte{0b00000011, 0xFF})
	if _, err := d.decode(top, cur, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cur.InBits() {
		t.Fatalf("still in bits mode after Bits body returned")
	}
	if cur.Pos() != 1 {
		t.Fatalf("did not realign to the next byte boundary: pos = %d", cur.Pos())
	}
}

// spec.md §8 invariant 8 / PeekNot: peeking never consumes input.
func TestPeekNotDoesNotConsume(t *testing.T) {
	body := format.PeekNot{Body: format.Byte{Set: byteset.Of('X')}}
	m, res, top := analyzed(t, body)
	d := &decoder{m: m, res: res}
	cur := NewCursor([]byte("Y"))
	if _, err := d.decode(top, cur, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cur.Pos() != 0 {
		t.Fatalf("PeekNot consumed input: pos = %d", cur.Pos())
	}
}

func TestPeekNotFailsWhenExcludedFormatMatches(t *testing.T) {
	body := format.PeekNot{Body: format.Byte{Set: byteset.Of('X')}}
	m, res, top := analyzed(t, body)
	if _, err := Decode(m, res, top, []byte("X"), config.DefaultOptions()); err == nil {
		t.Fatalf("expected PeekNot to fail when its excluded format matches")
	}
}

// Strict end-of-input is the default: trailing bytes after a
// successful top-level decode are an error.
func TestStrictEOFRejectsTrailingBytes(t *testing.T) {
	m, res, top := analyzed(t, format.Byte{Set: byteset.Full})
	if _, err := Decode(m, res, top, []byte("AB"), config.DefaultOptions()); err == nil {
		t.Fatalf("expected strict EOF to reject a trailing byte")
	}
}

// The documented opt-out: wrapping the top format in
// MonadSeq(f, SkipRemainder) alongside StrictEOF: false consumes and
// discards the trailing bytes explicitly instead of merely ignoring them.
func TestSkipRemainderOptOut(t *testing.T) {
	body := format.MonadSeq{
		First:  format.Byte{Set: byteset.Full},
		Second: format.SkipRemainder{},
	}
	m, res, top := analyzed(t, body)
	opts := config.DefaultOptions()
	opts.StrictEOF = false
	v, err := Decode(m, res, top, []byte("AB"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seq := asVSeq(t, v)
	if len(seq.Elems) != 1 || seq.Elems[0] != value.VU8('B') {
		t.Fatalf("got %v, want the skipped remainder [B]", v)
	}
}
