package huffman

import (
	"strings"
	"testing"
)

// bitReader feeds Decode the bits of a binary string literal, one at a
// time, in the order they're written (most significant bit of each
// assigned code first) — matching spec.md §4.G's worked example.
func bitReader(bits string) func() (int, error) {
	i := 0
	return func() (int, error) {
		if i >= len(bits) {
			return 0, errEOF
		}
		b := bits[i]
		i++
		if b == '1' {
			return 1, nil
		}
		return 0, nil
	}
}

type eofError struct{}

func (eofError) Error() string { return "huffman_test: out of bits" }

var errEOF error = eofError{}

func TestCanonicalCodeAssignment(t *testing.T) {
	tbl, err := Build([]int{2, 1, 3, 3}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 0b0_10_110_111 written out, symbols 1,0,2,3 in that order.
	next := bitReader(strings.ReplaceAll("0 10 110 111", " ", ""))
	want := []int{1, 0, 2, 3}
	for _, w := range want {
		got, err := tbl.Decode(next)
		if err != nil {
			t.Fatalf("unexpected decode error: %v", err)
		}
		if got != w {
			t.Fatalf("decoded %d, want %d", got, w)
		}
	}
}

func TestExplicitOrderPermutesSymbols(t *testing.T) {
	// lengths[i] describes symbol order[i], not symbol i.
	lengths := []int{1, 2, 2}
	order := []int{7, 3, 9}
	tbl, err := Build(lengths, order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Canonical assignment: symbol 7 (len1) -> "0"; symbol 3 (len2) ->
	// "10"; symbol 9 (len2) -> "11".
	cases := []struct {
		bits string
		want int
	}{
		{"0", 7},
		{"10", 3},
		{"11", 9},
	}
	for _, c := range cases {
		got, err := tbl.Decode(bitReader(c.bits))
		if err != nil {
			t.Fatalf("unexpected error decoding %q: %v", c.bits, err)
		}
		if got != c.want {
			t.Fatalf("decoding %q: got symbol %d, want %d", c.bits, got, c.want)
		}
	}
}

func TestOverSubscribedLengthsRejected(t *testing.T) {
	// Three symbols all claiming length 1: Kraft sum = 3 * 1/2 > 1.
	_, err := Build([]int{1, 1, 1}, nil)
	if err == nil || !strings.Contains(err.Error(), "BadHuffman") {
		t.Fatalf("expected BadHuffman error, got %v", err)
	}
}

func TestEmptyTableRejectsDecode(t *testing.T) {
	tbl, err := Build([]int{0, 0, 0}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tbl.Decode(bitReader("0")); err == nil {
		t.Fatalf("expected error decoding from an empty table")
	}
}

func TestOrderLengthMismatchRejected(t *testing.T) {
	_, err := Build([]int{1, 2}, []int{0})
	if err == nil || !strings.Contains(err.Error(), "BadHuffman") {
		t.Fatalf("expected BadHuffman error, got %v", err)
	}
}
