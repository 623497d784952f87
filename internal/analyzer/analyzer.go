package analyzer

import (
	"github.com/grambin/grambin/internal/format"
	"github.com/grambin/grambin/internal/value"
)

// Result is the frozen output of running the analyzer over a Module:
// one Determinations and one ValueType per production, indexed by
// production id (the same index as format.Module.Defs and
// format.ItemVar.ID).
type Result struct {
	Determinations []Determinations
	Types          []value.ValueType

	det *analysisState
}

// Analyze freezes m (if not already frozen) and runs Components E and
// H over it in sequence, writing the inferred type back onto each
// format.Def so that internal/decoder and internal/prettyprint can read
// it directly off the production without holding onto the Result.
func Analyze(m *format.Module) (*Result, error) {
	if !m.Frozen() {
		m.Freeze()
	}

	st, det, err := runDeterminations(m)
	if err != nil {
		return nil, err
	}

	types, err := InferTypes(m)
	if err != nil {
		return nil, err
	}
	for i, t := range types {
		m.Def(i).Type = t
	}

	return &Result{Determinations: det, Types: types, det: st}, nil
}

// DeterminationsOf computes the Determinations of an arbitrary Format
// node reachable from the analyzed module — not just a production
// root, which Determinations (indexed by production id) already
// covers. The decoder needs this at every Union/Repeat buried
// inside a production's body, to decide by one-byte lookahead whether
// to take a branch or another iteration (spec.md §4.F). Solving an
// arbitrary subtree needs no further fixed-pointing: the only
// cross-production dependency is an ItemVar leaf, and those already
// read the stabilized per-production memo Analyze computed.
func (r *Result) DeterminationsOf(f format.Format) (Determinations, error) {
	return r.det.solveChecked(f)
}
