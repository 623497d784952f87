package decoder

import (
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/grambin/grambin/internal/analyzer"
	"github.com/grambin/grambin/internal/byteset"
	"github.com/grambin/grambin/internal/config"
	"github.com/grambin/grambin/internal/expr"
	"github.com/grambin/grambin/internal/format"
	"github.com/grambin/grambin/internal/label"
	"github.com/grambin/grambin/internal/value"
)

// This file cross-checks the decoder against protowire, a library that
// was never written with this grammar in mind: protowire builds a
// tag-plus-varint encoding, and a hand-written Format grammar decodes
// the same bytes independently. Agreement here is evidence the
// RepeatUntilLast-as-varint idiom is correct, not just internally
// consistent.

// varintBody models a protobuf base-128 varint as a byte sequence read
// until one lacks its continuation bit (0x80): RepeatUntilLast decodes
// one byte at a time and stops once Cond is true on the byte just
// produced.
func varintBody(names *label.Table) format.Format {
	b := names.Intern("b")
	return format.RepeatUntilLast{
		Body: format.Byte{Set: byteset.Full},
		Cond: expr.Lambda{
			Param: b,
			Body: expr.EBinOp{
				Op: "==",
				L:  expr.EBinOp{Op: "&", L: expr.EVar{Name: b}, R: expr.EU8{Value: 0x80}},
				R:  expr.EU8{Value: 0},
			},
		},
	}
}

// decodeVarintValue reconstructs the little-endian base-128 integer a
// varintBody's VSeq of raw bytes encodes, mirroring what
// protowire.ConsumeVarint computes internally.
func decodeVarintValue(t *testing.T, v value.Value) uint64 {
	t.Helper()
	seq := asVSeq(t, v)
	var out uint64
	var shift uint
	for _, e := range seq.Elems {
		b, ok := e.(value.VU8)
		if !ok {
			t.Fatalf("varint element is %T, not VU8", e)
		}
		out |= uint64(b&0x7F) << shift
		shift += 7
	}
	return out
}

// TestVarintAgreesWithProtowire builds a single protobuf field (field 1,
// wire type varint, value 150 — the canonical example from the
// protobuf encoding guide) with protowire, decodes tag and value with a
// hand-built Format grammar, and checks both against what protowire
// itself parses back out of the same bytes.
func TestVarintAgreesWithProtowire(t *testing.T) {
	var buf []byte
	buf = protowire.AppendTag(buf, protowire.Number(1), protowire.VarintType)
	buf = protowire.AppendVarint(buf, 150)

	wantNum, wantType, tagLen := protowire.ConsumeTag(buf)
	if tagLen < 0 {
		t.Fatalf("protowire.ConsumeTag failed on its own encoding")
	}
	wantVal, valLen := protowire.ConsumeVarint(buf[tagLen:])
	if valLen < 0 {
		t.Fatalf("protowire.ConsumeVarint failed on its own encoding")
	}

	m := format.NewModule()
	ref := m.DefineFormat("top", format.Tuple{Elems: []format.Format{
		format.Byte{Set: byteset.Full}, // the tag byte
		varintBody(m.Names),
	}})

	res, err := analyzer.Analyze(m)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	v, err := Decode(m, res, ref.Call(), buf, config.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tup, ok := v.(value.VTuple)
	if !ok || len(tup.Elems) != 2 {
		t.Fatalf("got %v, want a 2-tuple (tag, varint)", v)
	}

	gotTag, ok := tup.Elems[0].(value.VU8)
	if !ok {
		t.Fatalf("tag element is %T, not VU8", tup.Elems[0])
	}
	wantTag := byte(protowire.EncodeTag(wantNum, wantType))
	if byte(gotTag) != wantTag {
		t.Fatalf("tag byte: got 0x%02X, want 0x%02X", byte(gotTag), wantTag)
	}

	gotVal := decodeVarintValue(t, tup.Elems[1])
	if gotVal != wantVal {
		t.Fatalf("varint value: got %d, want %d (protowire)", gotVal, wantVal)
	}
	if gotVal != 150 {
		t.Fatalf("got %d, want the canonical example value 150", gotVal)
	}
}
