// Package format implements Component D: the Format grammar IR
// (spec.md §3.1) and its module container (spec.md §3.2, §6).
//
// Per spec.md §9 ("avoid virtual dispatch over a trait hierarchy; a
// single closed enum with exhaustive matching is both clearer and
// faster"), Format is a sealed interface dispatched on by type switches
// in the analyzer and decoder packages, not a Visitor — this is the one
// deliberate structural departure from the teacher's internal/ast
// (ast_core.go), which uses Accept(Visitor) double dispatch because
// funxy's AST needs open extension across many independent passes that
// a closed grammar IR does not.
package format

import (
	"github.com/grambin/grambin/internal/byteset"
	"github.com/grambin/grambin/internal/expr"
	"github.com/grambin/grambin/internal/label"
	"github.com/grambin/grambin/internal/value"
)

// Format is the sealed grammar IR node type (spec.md §3.1).
type Format interface {
	isFormat()
}

type (
	// ItemVar references a named, possibly parameterized production by
	// its position (id) in the enclosing Module.
	ItemVar struct {
		ID   int
		Args []expr.Expr
	}

	Fail        struct{}
	EndOfInput  struct{}
	Align       struct{ N int }
	Byte        struct{ Set byteset.Set }
	Apply       struct{ Name label.Label }
	Pos         struct{}
	SkipRemainder struct{}
	Compute     struct{ Expr expr.Expr }
	Variant     struct {
		Label string
		Body  Format
	}

	Union        struct{ Branches []Format }
	UnionNondet  struct{ Branches []Format }
	Tuple        struct{ Elems []Format }
	Sequence     struct{ Elems []Format }

	Repeat  struct{ Body Format }
	Repeat1 struct{ Body Format }

	RepeatCount struct {
		N    expr.Expr
		Body Format
	}
	RepeatBetween struct {
		Lo, Hi expr.Expr
		Body   Format
	}
	RepeatUntilLast struct {
		Cond expr.Lambda
		Body Format
	}
	RepeatUntilSeq struct {
		Cond expr.Lambda
		Body Format
	}
	AccumUntil struct {
		Done expr.Lambda2
		Step expr.Lambda2
		Init expr.Expr
		Body Format
	}
	ForEach struct {
		Seq  expr.Expr
		Name label.Label
		Body Format
	}
	Maybe struct {
		Cond expr.Expr
		Body Format
	}

	Peek    struct{ Body Format }
	PeekNot struct{ Body Format }

	Slice struct {
		Size expr.Expr
		Body Format
	}
	Bits struct{ Body Format }

	WithRelativeOffset struct {
		Base, Offset expr.Expr
		Body         Format
	}

	Map struct {
		Body   Format
		Lambda expr.Lambda
	}
	Where struct {
		Body   Format
		Lambda expr.Lambda
	}

	Let struct {
		Name label.Label
		Expr expr.Expr
		Body Format
	}

	// Dynamic builds a sub-grammar at run time from Dyn, binds it under
	// Name in scope, then runs Body (spec.md §3.1, §4.G).
	Dynamic struct {
		Name label.Label
		Dyn  DynFormat
		Body Format
	}

	DecodeBytes struct {
		Bytes expr.Expr
		Body  Format
	}

	MatchArm struct {
		Pattern value.Pattern
		Body    Format
	}
	Match struct {
		Head expr.Expr
		Arms []MatchArm
	}

	LetFormat struct {
		First  Format
		Name   label.Label
		Second Format
	}
	MonadSeq struct {
		First  Format
		Second Format
	}
)

func (ItemVar) isFormat()            {}
func (Fail) isFormat()               {}
func (EndOfInput) isFormat()         {}
func (Align) isFormat()              {}
func (Byte) isFormat()               {}
func (Apply) isFormat()              {}
func (Pos) isFormat()                {}
func (SkipRemainder) isFormat()      {}
func (Compute) isFormat()            {}
func (Variant) isFormat()            {}
func (Union) isFormat()              {}
func (UnionNondet) isFormat()        {}
func (Tuple) isFormat()              {}
func (Sequence) isFormat()           {}
func (Repeat) isFormat()             {}
func (Repeat1) isFormat()            {}
func (RepeatCount) isFormat()        {}
func (RepeatBetween) isFormat()      {}
func (RepeatUntilLast) isFormat()    {}
func (RepeatUntilSeq) isFormat()     {}
func (AccumUntil) isFormat()         {}
func (ForEach) isFormat()            {}
func (Maybe) isFormat()              {}
func (Peek) isFormat()               {}
func (PeekNot) isFormat()            {}
func (Slice) isFormat()              {}
func (Bits) isFormat()               {}
func (WithRelativeOffset) isFormat() {}
func (Map) isFormat()                {}
func (Where) isFormat()              {}
func (Let) isFormat()                {}
func (Dynamic) isFormat()            {}
func (DecodeBytes) isFormat()        {}
func (Match) isFormat()              {}
func (LetFormat) isFormat()          {}
func (MonadSeq) isFormat()           {}

// DynFormat is the sealed type of run-time grammar constructors
// (spec.md §3.1 Dynamic, §4.G). The only variant spec.md names is the
// canonical-Huffman builder used by the `Dynamic` format node to
// install a temporary production for the duration of its body.
type DynFormat interface {
	isDynFormat()
}

// HuffmanDyn builds a canonical Huffman decoder (internal/huffman) from
// a sequence of code lengths (one per symbol, 0 meaning absent) and an
// optional explicit symbol order (spec.md §4.G — used by, e.g., the
// DEFLATE code-length alphabet).
type HuffmanDyn struct {
	Lengths expr.Expr
	Order   expr.Expr // nil if no explicit order is given
}

func (HuffmanDyn) isDynFormat() {}
