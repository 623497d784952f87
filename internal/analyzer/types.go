package analyzer

import (
	"github.com/grambin/grambin/internal/diagnostics"
	"github.com/grambin/grambin/internal/expr"
	"github.com/grambin/grambin/internal/format"
	"github.com/grambin/grambin/internal/value"
)

// InferTypes computes the ValueType every production decodes to
// (Component H, spec.md §3.1/§4.D). Like AnalyzeDeterminations, this is
// a fixed point rather than eager recursion, so mutually recursive
// productions (a tagged tree format referencing itself through a
// variant, say) resolve without requiring a topological order: each
// production starts at TEmpty (value.Unify's absorption element — "no
// information yet") and is recomputed from its body, reading the
// current estimate for any ItemVar it references, until nothing
// changes.
//
// value.ValueType has no recursion binder (by design — it describes one
// decoded value tree, never a recursive type alias), so a production
// whose type genuinely depends on itself (list := Nil | Cons(byte,
// list), say) cannot be given a finite closed-form type by naive
// structural unrolling: re-substituting the growing estimate for the
// self-reference every round embeds one more copy of itself every time
// and never stabilizes. Instead, whenever resolving one production's
// type would require reading the estimate of another production in the
// same reference cycle, that read is reported as value.TAny{} — the
// recursive tail is left dynamically typed rather than unrolled, which
// is sound (every individual decoded value is still finite) even though
// it is not a fully precise static type.
//
// Compute and Map nodes embed an expr.Expr whose result type this
// package cannot know without a static type checker for internal/expr,
// which spec.md does not ask this analyzer to provide — those nodes
// infer as value.TAny{} too. A Where node's lambda only filters, so it
// keeps its body's type. This mirrors internal/typesystem's own
// dispatch.go, which falls back to a dynamic Any type at any boundary
// it cannot resolve structurally rather than refusing to proceed.
func InferTypes(m *format.Module) ([]value.ValueType, error) {
	cycles := sameCycle(m)

	memo := make([]value.ValueType, len(m.Defs))
	for i := range memo {
		memo[i] = value.TEmpty{}
	}

	tc := &typeCtx{memo: memo, cycles: cycles, defs: m.Defs}
	for round := 0; round < len(m.Defs)+2; round++ {
		changed := false
		for i, def := range m.Defs {
			tc.current = i
			t, err := typeOf(def.Body, tc)
			if err != nil {
				return nil, err
			}
			if !sameType(memo[i], t) {
				memo[i] = t
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return memo, nil
}

func sameType(a, b value.ValueType) bool {
	return a.String() == b.String()
}

// sameCycle reports, for every pair (i, j), whether j is reachable from
// i and i is reachable from j in the module's raw ItemVar reference
// graph — i.e. they (possibly together with other productions) form a
// recursive cycle. A production is always considered to be in its own
// cycle set so that direct self-reference is covered uniformly with
// mutual recursion.
func sameCycle(m *format.Module) [][]bool {
	n := len(m.Defs)
	edges := make([][]int, n)
	for i, def := range m.Defs {
		edges[i] = collectRefs(def.Body)
	}

	reach := make([][]bool, n)
	for i := range reach {
		reach[i] = make([]bool, n)
		var dfs func(int)
		visited := reach[i]
		dfs = func(u int) {
			for _, v := range edges[u] {
				if !visited[v] {
					visited[v] = true
					dfs(v)
				}
			}
		}
		dfs(i)
	}

	same := make([][]bool, n)
	for i := range same {
		same[i] = make([]bool, n)
		for j := range same[i] {
			same[i][j] = i == j || (reach[i][j] && reach[j][i])
		}
	}
	return same
}

// collectRefs returns every production id referenced anywhere in f,
// unconditionally (unlike leftEdgeRefs, which only follows positions
// reachable without guaranteed prior consumption).
func collectRefs(f format.Format) []int {
	var out []int
	var walk func(format.Format)
	walk = func(f format.Format) {
		switch n := f.(type) {
		case format.ItemVar:
			out = append(out, n.ID)
		case format.Variant:
			walk(n.Body)
		case format.Let:
			walk(n.Body)
		case format.Dynamic:
			walk(n.Body)
		case format.Map:
			walk(n.Body)
		case format.Where:
			walk(n.Body)
		case format.Slice:
			walk(n.Body)
		case format.Bits:
			walk(n.Body)
		case format.WithRelativeOffset:
			walk(n.Body)
		case format.DecodeBytes:
			walk(n.Body)
		case format.Peek:
			walk(n.Body)
		case format.PeekNot:
			walk(n.Body)
		case format.Maybe:
			walk(n.Body)
		case format.RepeatCount:
			walk(n.Body)
		case format.ForEach:
			walk(n.Body)
		case format.AccumUntil:
			walk(n.Body)
		case format.Repeat:
			walk(n.Body)
		case format.Repeat1:
			walk(n.Body)
		case format.RepeatBetween:
			walk(n.Body)
		case format.RepeatUntilLast:
			walk(n.Body)
		case format.RepeatUntilSeq:
			walk(n.Body)
		case format.Union:
			for _, b := range n.Branches {
				walk(b)
			}
		case format.UnionNondet:
			for _, b := range n.Branches {
				walk(b)
			}
		case format.Match:
			for _, arm := range n.Arms {
				walk(arm.Body)
			}
		case format.Tuple:
			for _, e := range n.Elems {
				walk(e)
			}
		case format.Sequence:
			for _, e := range n.Elems {
				walk(e)
			}
		case format.LetFormat:
			walk(n.First)
			walk(n.Second)
		case format.MonadSeq:
			walk(n.First)
			walk(n.Second)
		}
	}
	walk(f)
	return out
}

// typeCtx carries the production being resolved (current) so ItemVar
// reads can tell whether they cross back into their own reference
// cycle.
type typeCtx struct {
	memo    []value.ValueType
	cycles  [][]bool
	current int
	defs    []*format.Def
}

func typeOf(f format.Format, tc *typeCtx) (value.ValueType, error) {
	switch n := f.(type) {
	case format.ItemVar:
		if err := checkItemVarArgs(n, tc.defs[n.ID]); err != nil {
			return nil, err
		}
		if tc.cycles[tc.current][n.ID] {
			return value.TAny{}, nil
		}
		return tc.memo[n.ID], nil

	case format.Fail:
		return value.TEmpty{}, nil
	case format.EndOfInput, format.Align:
		return value.TUnit{}, nil
	case format.Byte:
		return value.TU8{}, nil
	case format.Apply:
		return value.TAny{}, nil
	case format.Pos:
		return value.TU64{}, nil
	case format.SkipRemainder:
		return value.TSeq{Elem: value.TU8{}}, nil
	case format.Compute:
		return value.TAny{}, nil

	case format.Variant:
		inner, err := typeOf(n.Body, tc)
		if err != nil {
			return nil, err
		}
		return value.TUnion{Variants: map[string]value.ValueType{n.Label: inner}}, nil

	case format.Union:
		return unifyAll(n.Branches, tc)
	case format.UnionNondet:
		return unifyAll(n.Branches, tc)

	case format.Tuple:
		elems := make([]value.ValueType, len(n.Elems))
		for i, e := range n.Elems {
			t, err := typeOf(e, tc)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return value.TTuple{Elems: elems}, nil

	case format.Sequence:
		if len(n.Elems) == 0 {
			return value.TUnit{}, nil
		}
		return typeOf(n.Elems[len(n.Elems)-1], tc)

	case format.Repeat, format.Repeat1, format.RepeatBetween,
		format.RepeatUntilLast, format.RepeatUntilSeq, format.AccumUntil,
		format.RepeatCount, format.ForEach:
		body, err := bodyOf(n)
		if err != nil {
			return nil, err
		}
		elem, err := typeOf(body, tc)
		if err != nil {
			return nil, err
		}
		return value.TSeq{Elem: elem}, nil

	case format.Maybe:
		inner, err := typeOf(n.Body, tc)
		if err != nil {
			return nil, err
		}
		return value.TOption{Elem: inner}, nil

	case format.Peek:
		return typeOf(n.Body, tc)
	case format.PeekNot:
		return value.TUnit{}, nil

	case format.Map:
		return value.TAny{}, nil
	case format.Where:
		return typeOf(n.Body, tc)
	case format.Let:
		return typeOf(n.Body, tc)
	case format.Dynamic:
		return typeOf(n.Body, tc)
	case format.Slice:
		return typeOf(n.Body, tc)
	case format.Bits:
		return typeOf(n.Body, tc)
	case format.WithRelativeOffset:
		return typeOf(n.Body, tc)
	case format.DecodeBytes:
		return typeOf(n.Body, tc)

	case format.Match:
		bodies := make([]format.Format, len(n.Arms))
		for i, arm := range n.Arms {
			bodies[i] = arm.Body
		}
		return unifyAll(bodies, tc)

	case format.LetFormat:
		return typeOf(n.Second, tc)
	case format.MonadSeq:
		return typeOf(n.Second, tc)

	default:
		return nil, nil
	}
}

// checkItemVarArgs statically validates n's arguments against def's
// declared parameter list (spec.md §4.D: "ItemVar arguments are
// type-checked against the declared parameter list at module-definition
// time (not at decode time)" — a Component H responsibility per §4.H).
// internal/decoder keeps its own arity check too, but only as a
// defensive runtime guard; this is the check the spec actually calls
// for.
func checkItemVarArgs(n format.ItemVar, def *format.Def) error {
	if len(n.Args) != len(def.Params) {
		return diagnostics.New(diagnostics.ArityMismatch,
			"production %q expects %d argument(s), got %d", def.Name, len(def.Params), len(n.Args))
	}
	for i, arg := range n.Args {
		if _, err := value.Unify(inferExprType(arg), def.Params[i].Type); err != nil {
			return diagnostics.New(diagnostics.UnificationFailure,
				"argument %d to %q: %v", i, def.Name, err)
		}
	}
	return nil
}

// inferExprType statically infers arg's type where it is structurally
// obvious (literals, casts, tuples/sequences of such), and falls back
// to value.TAny{} anywhere it isn't — the same dynamic-fallback
// convention InferTypes itself uses for Compute/Map bodies, since
// internal/expr has no general static type checker. TAny unifies with
// anything (see value.Unify), so this is sound: it only rejects
// arguments that are *provably* the wrong type, never one this
// inferencer simply can't resolve.
func inferExprType(e expr.Expr) value.ValueType {
	switch n := e.(type) {
	case expr.EUnit:
		return value.TUnit{}
	case expr.EBool:
		return value.TBool{}
	case expr.EU8:
		return value.TU8{}
	case expr.EU16:
		return value.TU16{}
	case expr.EU32:
		return value.TU32{}
	case expr.EU64:
		return value.TU64{}
	case expr.EChar:
		return value.TChar{}
	case expr.ECast:
		return n.Target
	case expr.ETuple:
		elems := make([]value.ValueType, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = inferExprType(el)
		}
		return value.TTuple{Elems: elems}
	case expr.ESeq:
		var elem value.ValueType = value.TEmpty{}
		for _, el := range n.Elems {
			merged, err := value.Unify(elem, inferExprType(el))
			if err != nil {
				return value.TAny{}
			}
			elem = merged
		}
		return value.TSeq{Elem: elem}
	default:
		return value.TAny{}
	}
}

// bodyOf extracts the repeated sub-format from any of the Repeat*
// family, letting typeOf share one TSeq{...} case for all of them.
func bodyOf(f format.Format) (format.Format, error) {
	switch n := f.(type) {
	case format.Repeat:
		return n.Body, nil
	case format.Repeat1:
		return n.Body, nil
	case format.RepeatBetween:
		return n.Body, nil
	case format.RepeatUntilLast:
		return n.Body, nil
	case format.RepeatUntilSeq:
		return n.Body, nil
	case format.AccumUntil:
		return n.Body, nil
	case format.RepeatCount:
		return n.Body, nil
	case format.ForEach:
		return n.Body, nil
	default:
		panic("analyzer: bodyOf called on non-repeat Format")
	}
}

func unifyAll(fs []format.Format, tc *typeCtx) (value.ValueType, error) {
	var acc value.ValueType = value.TEmpty{}
	for _, f := range fs {
		t, err := typeOf(f, tc)
		if err != nil {
			return nil, err
		}
		merged, err := value.Unify(acc, t)
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	return acc, nil
}
