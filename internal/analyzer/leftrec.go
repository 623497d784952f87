package analyzer

import (
	"github.com/grambin/grambin/internal/diagnostics"
	"github.com/grambin/grambin/internal/format"
)

// detectLeftRecursion builds the "left edge" reference graph over the
// module's productions and rejects any cycle in it. A production id2 is
// on id1's left edge if decoding id1 could call into id2 without first
// being guaranteed to consume a byte — e.g. id2 is the first element of
// a Sequence, or any branch of a Union, or the body of a Repeat. A cycle
// in that graph is a production that can call itself with zero
// progress: an infinite, non-terminating decode.
//
// This replaces matchtree/determinations.rs's single-traversal
// loop-breaker (which falls back to Determinations::one() on revisit)
// with an explicit structural check, since the loop-breaker there folds
// benign mutual right recursion and genuine left recursion into the
// same code path.
func (st *analysisState) detectLeftRecursion() error {
	edges := make([][]int, len(st.module.Defs))
	for i, def := range st.module.Defs {
		edges[i] = st.leftEdgeRefs(def.Body)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(edges))
	var stack []int

	var visit func(id int) error
	visit = func(id int) error {
		color[id] = gray
		stack = append(stack, id)
		for _, next := range edges[id] {
			switch color[next] {
			case white:
				if err := visit(next); err != nil {
					return err
				}
			case gray:
				cycle := st.cyclePath(stack, next)
				return diagnostics.LeftRecursionError(st.module.Def(id).Name, cycle)
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return nil
	}

	for i := range edges {
		if color[i] == white {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (st *analysisState) cyclePath(stack []int, start int) []string {
	i := 0
	for ; i < len(stack); i++ {
		if stack[i] == start {
			break
		}
	}
	names := make([]string, 0, len(stack)-i+1)
	for _, id := range stack[i:] {
		names = append(names, st.module.Def(id).Name)
	}
	names = append(names, st.module.Def(start).Name)
	return names
}

// leftEdgeRefs returns, in structural order, the production ids
// reachable from f without any guaranteed prior consumption.
func (st *analysisState) leftEdgeRefs(f format.Format) []int {
	switch n := f.(type) {
	case format.ItemVar:
		return []int{n.ID}

	case format.Fail, format.EndOfInput, format.Align, format.Byte, format.Apply,
		format.Pos, format.SkipRemainder, format.Compute:
		return nil

	case format.Variant:
		return st.leftEdgeRefs(n.Body)
	case format.Let:
		return st.leftEdgeRefs(n.Body)
	case format.Dynamic:
		return st.leftEdgeRefs(n.Body)
	case format.Map:
		return st.leftEdgeRefs(n.Body)
	case format.Where:
		return st.leftEdgeRefs(n.Body)
	case format.Slice:
		return st.leftEdgeRefs(n.Body)
	case format.Bits:
		return st.leftEdgeRefs(n.Body)
	case format.WithRelativeOffset:
		return st.leftEdgeRefs(n.Body)
	case format.DecodeBytes:
		return st.leftEdgeRefs(n.Body)
	case format.Peek:
		return st.leftEdgeRefs(n.Body)
	case format.PeekNot:
		return st.leftEdgeRefs(n.Body)
	case format.Maybe:
		return st.leftEdgeRefs(n.Body)
	case format.RepeatCount:
		return st.leftEdgeRefs(n.Body)
	case format.ForEach:
		return st.leftEdgeRefs(n.Body)
	case format.AccumUntil:
		return st.leftEdgeRefs(n.Body)
	case format.Repeat:
		return st.leftEdgeRefs(n.Body)
	case format.Repeat1:
		return st.leftEdgeRefs(n.Body)
	case format.RepeatBetween:
		return st.leftEdgeRefs(n.Body)
	case format.RepeatUntilLast:
		return st.leftEdgeRefs(n.Body)
	case format.RepeatUntilSeq:
		return st.leftEdgeRefs(n.Body)

	case format.Union:
		var out []int
		for _, b := range n.Branches {
			out = append(out, st.leftEdgeRefs(b)...)
		}
		return out
	case format.UnionNondet:
		var out []int
		for _, b := range n.Branches {
			out = append(out, st.leftEdgeRefs(b)...)
		}
		return out
	case format.Match:
		var out []int
		for _, arm := range n.Arms {
			out = append(out, st.leftEdgeRefs(arm.Body)...)
		}
		return out

	case format.Tuple:
		return st.leftEdgeSeq(n.Elems)
	case format.Sequence:
		return st.leftEdgeSeq(n.Elems)
	case format.LetFormat:
		return st.leftEdgePair(n.First, n.Second)
	case format.MonadSeq:
		return st.leftEdgePair(n.First, n.Second)

	default:
		return nil
	}
}

func (st *analysisState) leftEdgeSeq(elems []format.Format) []int {
	var out []int
	for _, e := range elems {
		out = append(out, st.leftEdgeRefs(e)...)
		if !st.solveRaw(e).Nullable {
			break
		}
	}
	return out
}

func (st *analysisState) leftEdgePair(first, second format.Format) []int {
	out := st.leftEdgeRefs(first)
	if st.solveRaw(first).Nullable {
		out = append(out, st.leftEdgeRefs(second)...)
	}
	return out
}
