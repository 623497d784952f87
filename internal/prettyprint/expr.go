package prettyprint

import (
	"fmt"
	"strings"

	"github.com/grambin/grambin/internal/expr"
)

// Expr renders e as a single-line, source-like expression, used inline
// by Format's indented tree printer wherever a Format node embeds an
// Expr field (RepeatCount.N, Slice.Size, Let.Expr, ...).
func Expr(e expr.Expr) string {
	switch n := e.(type) {
	case expr.EUnit:
		return "()"
	case expr.EBool:
		return fmt.Sprintf("%v", n.Value)
	case expr.EU8:
		return fmt.Sprintf("%d", n.Value)
	case expr.EU16:
		return fmt.Sprintf("%d", n.Value)
	case expr.EU32:
		return fmt.Sprintf("%d", n.Value)
	case expr.EU64:
		return fmt.Sprintf("%d", n.Value)
	case expr.EChar:
		return fmt.Sprintf("%q", n.Value)
	case expr.EVar:
		return n.Name.Name()
	case expr.ETuple:
		return "(" + exprJoin(n.Elems) + ")"
	case expr.ESeq:
		return "[" + exprJoin(n.Elems) + "]"
	case expr.ERecord:
		parts := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			parts[i] = f.Name + ": " + Expr(f.Expr)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case expr.EVariant:
		return fmt.Sprintf("%s(%s)", n.Label, Expr(n.Inner))
	case expr.EField:
		return Expr(n.Record) + "." + n.Name
	case expr.EIndex:
		return fmt.Sprintf("%s[%s]", Expr(n.Seq), Expr(n.Index))
	case expr.EProjectVariant:
		return fmt.Sprintf("%s as %s", Expr(n.Value), n.Label)
	case expr.EUnaryOp:
		return n.Op + Expr(n.Arg)
	case expr.EBinOp:
		return fmt.Sprintf("(%s %s %s)", Expr(n.L), n.Op, Expr(n.R))
	case expr.ECast:
		return fmt.Sprintf("(%s as %s)", Expr(n.Src), n.Target.String())
	case expr.EMatch:
		parts := make([]string, len(n.Arms))
		for i, arm := range n.Arms {
			parts[i] = fmt.Sprintf("%s -> %s", Pattern(arm.Pattern), Expr(arm.Body))
		}
		return fmt.Sprintf("match %s { %s }", Expr(n.Head), strings.Join(parts, "; "))
	case expr.EDup:
		return fmt.Sprintf("dup(%s, %s)", Expr(n.N), Expr(n.Elem))
	case expr.ESubSeq:
		return fmt.Sprintf("subseq(%s, %s, %s)", Expr(n.Seq), Expr(n.Start), Expr(n.Len))
	case expr.ESeqLength:
		return fmt.Sprintf("len(%s)", Expr(n.Seq))
	case expr.EFlatMap:
		return fmt.Sprintf("flat_map(\\%s -> %s, %s)", n.Lambda.Param.Name(), Expr(n.Lambda.Body), Expr(n.Seq))
	case expr.EFlatMapAccum:
		return fmt.Sprintf("flat_map_accum(\\%s %s -> %s, %s, %s)",
			n.Lambda.Acc.Name(), n.Lambda.Elem.Name(), Expr(n.Lambda.Body), Expr(n.Init), Expr(n.Seq))
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func exprJoin(es []expr.Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = Expr(e)
	}
	return strings.Join(parts, ", ")
}
