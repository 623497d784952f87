// Package analyzer implements Component E (the determinism analyzer) and
// Component H (the type inferencer) over a frozen format.Module.
//
// Both stages are formulated as least-fixed-point computations over the
// module's production-dependency graph rather than eager recursive
// descent: a production may reference itself or another production
// mutually (right recursion is a legitimate grammar shape — think of a
// linked-list format), and eager recursion into an unfinished Def would
// simply blow the stack. Iterating until nothing changes handles that
// uniformly, and also gives true left recursion (a production reachable
// from itself without any guaranteed byte consumed first) a precise,
// separate detection pass instead of an ad hoc loop-breaker.
//
// Grounded on original_source's experimental doodle-rec matchtree
// analyzer (matchtree/determinations.rs): the Determinations struct and
// its merge_seq/union combinators are a direct port of that file's
// Determinations::{zero,one,merge_seq,union}. That file solves
// determinations on demand via a single traversal with a loop-breaker
// fallback; this package instead iterates every production to a fixed
// point, which is the more general technique and the one spec.md's
// text describes ("least-fixed-point over the module's dependency
// graph").
package analyzer

import (
	"fmt"

	"github.com/grambin/grambin/internal/byteset"
	"github.com/grambin/grambin/internal/diagnostics"
	"github.com/grambin/grambin/internal/format"
)

// Determinations is the four-tuple spec.md §4.E computes per production:
// whether it can match the empty string, whether it can consume at
// least one byte, the set of bytes that can begin a successful parse,
// and the "should-not-follow" set used to detect ambiguity introduced
// by whatever comes after a Repeat-like construct.
type Determinations struct {
	Nullable   bool
	Productive bool
	First      byteset.Set
	SNF        byteset.Set
}

// Zero is the sequencing identity: ε. Merging Zero with X via MergeSeq
// yields X unchanged in either position.
func Zero() Determinations {
	return Determinations{Nullable: true, Productive: true}
}

// One is the disjunction identity: the format that matches nothing at
// all. Union-folding starts from One so that a single-branch Union
// reduces to that branch's own Determinations.
func One() Determinations {
	return Determinations{}
}

// MergeSeq solves the determinations of "a then b". Grounded on
// matchtree/determinations.rs Determinations::merge_seq.
func MergeSeq(a, b Determinations) (Determinations, error) {
	if !a.SNF.IsDisjoint(b.First) {
		return Determinations{}, diagnostics.New(diagnostics.AmbiguousFollow,
			"should-not-follow set %s conflicts with first set %s", a.SNF, b.First)
	}
	return mergeSeqRaw(a, b), nil
}

func mergeSeqRaw(a, b Determinations) Determinations {
	var first byteset.Set
	if a.Nullable {
		first = first.Union(b.First)
	}
	if b.Productive {
		first = first.Union(a.First)
	}
	var snf byteset.Set
	if b.Nullable {
		snf = snf.Union(a.SNF)
	}
	if a.Productive {
		snf = snf.Union(b.SNF)
	}
	return Determinations{
		Nullable:   a.Nullable && b.Nullable,
		Productive: a.Productive && b.Productive,
		First:      first,
		SNF:        snf,
	}
}

// Union solves the determinations of "a or b", requiring the branches
// be unambiguous: at most one may be nullable, and their first sets
// must be disjoint. Grounded on
// matchtree/determinations.rs Determinations::union.
func Union(a, b Determinations) (Determinations, error) {
	if a.Nullable && b.Nullable {
		return Determinations{}, diagnostics.New(diagnostics.MultiNullUnion,
			"union has more than one nullable branch")
	}
	if !a.First.IsDisjoint(b.First) {
		return Determinations{}, diagnostics.New(diagnostics.AmbiguousFirst,
			"union branches have overlapping first sets %s and %s", a.First, b.First)
	}
	return joinRaw(a, b), nil
}

// joinRaw computes the same shape as Union without either ambiguity
// check. It backs UnionNondet (spec.md's supplemented source-order
// first-match semantics — ambiguity is resolved by branch order, not
// rejected) and Match (whose arms are selected by value pattern, never
// by byte lookahead, so overlapping first sets are never ambiguous).
func joinRaw(a, b Determinations) Determinations {
	first := a.First.Union(b.First)
	snf := a.SNF.Union(b.SNF)
	if a.Nullable {
		snf = snf.Union(b.First)
	} else if b.Nullable {
		snf = snf.Union(a.First)
	}
	return Determinations{
		Nullable:   a.Nullable || b.Nullable,
		Productive: a.Productive || b.Productive,
		First:      first,
		SNF:        snf,
	}
}

// repeatRaw solves the determinations of zero-or-more repetitions of a
// format whose own determinations are body. The decoder commits to
// "repeat again" by peeking whether the next byte is in body's first
// set, so a nullable body makes that peek meaningless (it can never
// observe "no more input is needed") — checked separately by
// checkRepeatNullable, not here, since this helper also runs during the
// unchecked fixed-point passes. Grounded on
// matchtree/determinations.rs Format::Repeat.
func repeatRaw(body Determinations) Determinations {
	return Determinations{
		Nullable:   true,
		Productive: body.Productive,
		First:      body.First,
		SNF:        body.First,
	}
}

func checkRepeatNullable(body Determinations) error {
	if body.Nullable {
		return diagnostics.New(diagnostics.RepeatNullable,
			"repeated format can match the empty string")
	}
	return nil
}

// optionalRaw solves the determinations of a repetition or optional
// construct whose "run again" decision is made from already-decoded
// data (an accumulator, an explicit count, a per-element driver
// sequence) rather than by peeking the next input byte. Unlike Repeat,
// there is no lookahead-driven dispatch point here, so body's own
// should-not-follow set survives unchanged and there is no
// RepeatNullable hazard. Used by Maybe, RepeatCount, ForEach and
// AccumUntil.
func optionalRaw(body Determinations) Determinations {
	return Determinations{
		Nullable:   true,
		Productive: body.Productive,
		First:      body.First,
		SNF:        body.SNF,
	}
}

// analysisState carries the per-Def memo table through both the
// unchecked fixed-point passes and the final validated pass.
type analysisState struct {
	module *format.Module
	memo   []Determinations
}

// AnalyzeDeterminations computes Determinations for every production in
// m, detecting left recursion and, on the final stabilized values,
// every other ambiguity spec.md §7 names (RepeatNullable,
// AmbiguousFirst, MultiNullUnion, AmbiguousFollow).
func AnalyzeDeterminations(m *format.Module) ([]Determinations, error) {
	_, result, err := runDeterminations(m)
	return result, err
}

// runDeterminations is AnalyzeDeterminations's body, additionally
// returning the stabilized analysisState so Analyze can retain it:
// internal/decoder needs Determinations for Format nodes buried inside
// a production's body, not just the production roots this function
// returns, and solving those only requires the already-stabilized
// per-production memo (no further fixed-pointing), which analysisState
// carries.
func runDeterminations(m *format.Module) (*analysisState, []Determinations, error) {
	st := &analysisState{module: m, memo: make([]Determinations, len(m.Defs))}
	for i := range st.memo {
		// One, not Zero: the per-production placeholder must be the
		// bottom of the (Nullable, Productive, First, SNF) lattice
		// (false, false, ∅, ∅) so every field can only grow toward its
		// true value across rounds. Starting a forward reference at
		// Zero (nullable=true) would let an unresolved ItemVar look
		// nullable before its target is known, and that false
		// nullability can leak into an SNF or First computed in an
		// earlier round and never get retracted once the reference
		// resolves to non-nullable.
		st.memo[i] = One()
	}

	// Unchecked fixed point: booleans can each only flip false->true
	// once and byte sets only grow, so this always terminates; the
	// round cap is defensive, not load-bearing.
	for round := 0; round < 4*len(m.Defs)+512; round++ {
		changed := false
		for i, def := range m.Defs {
			next := st.solveRaw(def.Body)
			if next != st.memo[i] {
				st.memo[i] = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	if err := st.detectLeftRecursion(); err != nil {
		return nil, nil, err
	}

	result := make([]Determinations, len(m.Defs))
	for i, def := range m.Defs {
		det, err := st.solveChecked(def.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("production %q: %w", def.Name, err)
		}
		result[i] = det
	}
	return st, result, nil
}

// solveRaw recomputes a Format node's Determinations using the current
// memo snapshot for ItemVar references, performing no ambiguity checks.
// It never recurses across Defs — ItemVar just reads the memo — so it
// always terminates regardless of how the module's productions refer
// to one another.
func (st *analysisState) solveRaw(f format.Format) Determinations {
	det, _ := st.solve(f, false)
	return det
}

// solveChecked is solveRaw's counterpart for the final pass: same
// formulas, but every ambiguity the formulas can detect is surfaced as
// an error instead of silently folded in.
func (st *analysisState) solveChecked(f format.Format) (Determinations, error) {
	return st.solve(f, true)
}

func (st *analysisState) solve(f format.Format, validate bool) (Determinations, error) {
	switch n := f.(type) {
	case format.ItemVar:
		return st.memo[n.ID], nil

	case format.Fail:
		return One(), nil
	case format.EndOfInput, format.Compute, format.Pos, format.Align:
		// Transparent with respect to sequencing: imposes no first-byte
		// constraint of its own. All but Align consume nothing; Align
		// consumes only padding bytes up to its boundary and is treated
		// as transparent all the same.
		return Zero(), nil
	case format.Byte:
		return Determinations{Nullable: false, Productive: true, First: n.Set}, nil
	case format.Apply:
		// The referenced production is bound dynamically (spec.md
		// §4.G Dynamic); its shape cannot be known here, so treat it
		// as maximally unconstrained rather than silently optimistic.
		return Determinations{Nullable: false, Productive: true, First: byteset.Full, SNF: byteset.Full}, nil
	case format.SkipRemainder:
		return Determinations{Nullable: true, Productive: false, First: byteset.Full}, nil

	case format.Variant:
		return st.solve(n.Body, validate)
	case format.Let:
		return st.solve(n.Body, validate)
	case format.Dynamic:
		return st.solve(n.Body, validate)
	case format.Map:
		return st.solve(n.Body, validate)
	case format.Where:
		return st.solve(n.Body, validate)
	case format.Slice:
		return st.solve(n.Body, validate)
	case format.Bits:
		return st.solve(n.Body, validate)
	case format.WithRelativeOffset:
		// A sub-parse against an independently positioned cursor
		// consumes nothing from the enclosing stream.
		return Zero(), nil
	case format.DecodeBytes:
		return Zero(), nil

	case format.Union:
		return st.fold(n.Branches, validate, true)
	case format.UnionNondet:
		return st.fold(n.Branches, validate, false)

	case format.Tuple:
		return st.foldSeq(n.Elems, validate)
	case format.Sequence:
		return st.foldSeq(n.Elems, validate)
	case format.LetFormat:
		return st.mergeSeq(n.First, n.Second, validate)
	case format.MonadSeq:
		return st.mergeSeq(n.First, n.Second, validate)

	case format.Repeat:
		body, err := st.solve(n.Body, validate)
		if err != nil {
			return Determinations{}, err
		}
		if validate {
			if err := checkRepeatNullable(body); err != nil {
				return Determinations{}, err
			}
		}
		return repeatRaw(body), nil
	case format.RepeatBetween:
		body, err := st.solve(n.Body, validate)
		if err != nil {
			return Determinations{}, err
		}
		if validate {
			if err := checkRepeatNullable(body); err != nil {
				return Determinations{}, err
			}
		}
		return repeatRaw(body), nil
	case format.RepeatUntilSeq:
		body, err := st.solve(n.Body, validate)
		if err != nil {
			return Determinations{}, err
		}
		if validate {
			if err := checkRepeatNullable(body); err != nil {
				return Determinations{}, err
			}
		}
		return repeatRaw(body), nil

	case format.Repeat1:
		body, err := st.solve(n.Body, validate)
		if err != nil {
			return Determinations{}, err
		}
		if validate {
			if err := checkRepeatNullable(body); err != nil {
				return Determinations{}, err
			}
		}
		rest := repeatRaw(body)
		if validate {
			return MergeSeq(body, rest)
		}
		return mergeSeqRaw(body, rest), nil
	case format.RepeatUntilLast:
		body, err := st.solve(n.Body, validate)
		if err != nil {
			return Determinations{}, err
		}
		if validate {
			if err := checkRepeatNullable(body); err != nil {
				return Determinations{}, err
			}
		}
		rest := repeatRaw(body)
		if validate {
			return MergeSeq(body, rest)
		}
		return mergeSeqRaw(body, rest), nil

	case format.Maybe:
		body, err := st.solve(n.Body, validate)
		if err != nil {
			return Determinations{}, err
		}
		return optionalRaw(body), nil
	case format.RepeatCount:
		body, err := st.solve(n.Body, validate)
		if err != nil {
			return Determinations{}, err
		}
		return optionalRaw(body), nil
	case format.ForEach:
		body, err := st.solve(n.Body, validate)
		if err != nil {
			return Determinations{}, err
		}
		return optionalRaw(body), nil
	case format.AccumUntil:
		body, err := st.solve(n.Body, validate)
		if err != nil {
			return Determinations{}, err
		}
		return optionalRaw(body), nil

	case format.Peek:
		body, err := st.solve(n.Body, validate)
		if err != nil {
			return Determinations{}, err
		}
		return Determinations{Nullable: body.Nullable, Productive: false, First: body.First}, nil
	case format.PeekNot:
		body, err := st.solve(n.Body, validate)
		if err != nil {
			return Determinations{}, err
		}
		return Determinations{Nullable: !body.Nullable, Productive: false, First: body.First.Complement()}, nil

	case format.Match:
		dets := make([]Determinations, len(n.Arms))
		for i, arm := range n.Arms {
			d, err := st.solve(arm.Body, validate)
			if err != nil {
				return Determinations{}, err
			}
			dets[i] = d
		}
		acc := One()
		for _, d := range dets {
			acc = joinRaw(acc, d)
		}
		return acc, nil

	default:
		panic(fmt.Sprintf("analyzer: unhandled Format node %T", f))
	}
}

func (st *analysisState) fold(branches []format.Format, validate, checked bool) (Determinations, error) {
	acc := One()
	for _, b := range branches {
		d, err := st.solve(b, validate)
		if err != nil {
			return Determinations{}, err
		}
		if checked && validate {
			acc, err = Union(acc, d)
			if err != nil {
				return Determinations{}, err
			}
		} else {
			acc = joinRaw(acc, d)
		}
	}
	return acc, nil
}

func (st *analysisState) foldSeq(elems []format.Format, validate bool) (Determinations, error) {
	acc := Zero()
	for _, e := range elems {
		d, err := st.solve(e, validate)
		if err != nil {
			return Determinations{}, err
		}
		if validate {
			acc, err = MergeSeq(acc, d)
			if err != nil {
				return Determinations{}, err
			}
		} else {
			acc = mergeSeqRaw(acc, d)
		}
	}
	return acc, nil
}

func (st *analysisState) mergeSeq(first, second format.Format, validate bool) (Determinations, error) {
	a, err := st.solve(first, validate)
	if err != nil {
		return Determinations{}, err
	}
	b, err := st.solve(second, validate)
	if err != nil {
		return Determinations{}, err
	}
	if validate {
		return MergeSeq(a, b)
	}
	return mergeSeqRaw(a, b), nil
}
