// Package huffman implements Component G: on-the-fly canonical Huffman
// code construction for the decoder's Dynamic node (spec.md §4.G).
//
// Canonical Huffman assigns codes to symbols from nothing but their bit
// lengths (plus, for alphabets like DEFLATE's code-length alphabet, an
// explicit symbol order): within a length class, codes are assigned in
// ascending order of symbol index, and every length class's first code
// is one more than the previous class's last code, shifted left one
// bit. This package never sorts explicitly; processing symbols in
// index order and tracking one running "next code" counter per length
// already visits ties in the order an explicit sort by (length, index)
// would, per the RFC 1951 §3.2.2 algorithm this is ported from.
package huffman

import (
	"github.com/grambin/grambin/internal/diagnostics"
)

// Table is a canonical Huffman code, represented as a binary trie so
// that decoding never needs the codes themselves, only single bits.
type Table struct {
	root *node
}

type node struct {
	isLeaf bool
	symbol int
	zero   *node
	one    *node
}

// Build constructs a canonical Huffman Table from lengths, one entry
// per symbol (0 meaning the symbol does not appear in the code). If
// order is non-nil, lengths[i] describes the symbol order[i] rather
// than symbol i — the shape DEFLATE's code-length alphabet uses, where
// the code lengths for symbols 0..18 arrive permuted. order must then
// have the same length as lengths.
//
// Build rejects a lengths set whose Kraft sum exceeds 1 (more codes
// requested than fit in the available bit budget) and any internal
// code collision, both as diagnostics.BadHuffman.
func Build(lengths []int, order []int) (*Table, error) {
	if order != nil && len(order) != len(lengths) {
		return nil, diagnostics.New(diagnostics.BadHuffman,
			"huffman: order has %d entries, lengths has %d", len(order), len(lengths))
	}

	maxLen := 0
	blCount := make([]int, 0)
	for _, l := range lengths {
		if l < 0 {
			return nil, diagnostics.New(diagnostics.BadHuffman, "huffman: negative code length %d", l)
		}
		if l > maxLen {
			maxLen = l
		}
	}
	if maxLen == 0 {
		return &Table{}, nil
	}
	if maxLen > 30 {
		return nil, diagnostics.New(diagnostics.BadHuffman, "huffman: code length %d too large", maxLen)
	}
	blCount = make([]int, maxLen+1)
	for _, l := range lengths {
		if l > 0 {
			blCount[l]++
		}
	}

	if err := checkKraft(blCount, maxLen); err != nil {
		return nil, err
	}

	nextCode := make([]uint32, maxLen+1)
	code := uint32(0)
	for l := 1; l <= maxLen; l++ {
		code = (code + uint32(blCount[l-1])) << 1
		nextCode[l] = code
	}

	root := &node{}
	for i, l := range lengths {
		if l == 0 {
			continue
		}
		symbol := i
		if order != nil {
			symbol = order[i]
		}
		c := nextCode[l]
		nextCode[l]++
		if err := insert(root, c, l, symbol); err != nil {
			return nil, err
		}
	}
	return &Table{root: root}, nil
}

// checkKraft rejects an over-subscribed length set (sum of 2^-length
// over every present symbol exceeds 1) using exact integer arithmetic
// scaled by 2^maxLen, so the check never rounds.
func checkKraft(blCount []int, maxLen int) error {
	var sum uint64
	budget := uint64(1) << uint(maxLen)
	for l := 1; l <= maxLen; l++ {
		sum += uint64(blCount[l]) << uint(maxLen-l)
		if sum > budget {
			return diagnostics.New(diagnostics.BadHuffman,
				"huffman: over-subscribed code lengths (Kraft sum exceeds 1)")
		}
	}
	return nil
}

func insert(root *node, code uint32, length int, symbol int) error {
	n := root
	for i := length - 1; i >= 0; i-- {
		if n.isLeaf {
			return diagnostics.New(diagnostics.BadHuffman,
				"huffman: code for symbol %d collides with a shorter code", symbol)
		}
		bit := (code >> uint(i)) & 1
		next := &n.zero
		if bit != 0 {
			next = &n.one
		}
		if *next == nil {
			*next = &node{}
		}
		n = *next
	}
	if n.isLeaf || n.zero != nil || n.one != nil {
		return diagnostics.New(diagnostics.BadHuffman,
			"huffman: code for symbol %d collides with another code", symbol)
	}
	n.isLeaf = true
	n.symbol = symbol
	return nil
}

// Decode reads bits one at a time from next — each call must return
// the next bit of the code, in the order the code was assigned (most
// significant bit of the canonical code first) — walking the trie
// until it reaches a symbol. An ill-formed bit sequence (one that
// walks off the trie) and an empty Table both fail as
// diagnostics.BadHuffman.
func (t *Table) Decode(next func() (int, error)) (int, error) {
	if t == nil || t.root == nil {
		return 0, diagnostics.New(diagnostics.BadHuffman, "huffman: empty code table")
	}
	n := t.root
	for !n.isLeaf {
		bit, err := next()
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			n = n.zero
		} else {
			n = n.one
		}
		if n == nil {
			return 0, diagnostics.New(diagnostics.BadHuffman, "huffman: invalid code in bit stream")
		}
	}
	return n.symbol, nil
}
