// Package prettyprint renders Format/Expr/Pattern/Value trees as
// indented, human-readable text for diagnostics and the demo CLI.
//
// Grounded on internal/prettyprinter/code_printer.go's indent-stack
// printer (buf + indent counter + write/writeln), generalized from
// printing ast.Expression/ast.Statement nodes to printing
// format.Format/expr.Expr/value.Pattern/value.Value nodes. Unlike the
// teacher's Visitor-dispatched printer, Format/Expr/Pattern/Value are
// sealed interfaces (spec.md §9), so this package dispatches with plain
// type switches rather than an Accept(Visitor) method.
package prettyprint

import (
	"bytes"
	"fmt"

	"github.com/grambin/grambin/internal/expr"
	"github.com/grambin/grambin/internal/format"
	"github.com/grambin/grambin/internal/value"
)

// Printer accumulates indented text. The zero value is ready to use.
type Printer struct {
	buf    bytes.Buffer
	indent int
}

func (p *Printer) String() string { return p.buf.String() }

func (p *Printer) write(s string) { p.buf.WriteString(s) }

func (p *Printer) writeln(s string) {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
	p.buf.WriteString(s)
	p.buf.WriteString("\n")
}

func (p *Printer) block(header string, body func()) {
	p.writeln(header)
	p.indent++
	body()
	p.indent--
}

// Format renders f as an indented tree, recursing into every nested
// Format/Expr/Pattern field. One call builds a fresh Printer.
func Format(f format.Format) string {
	p := &Printer{}
	p.printFormat(f)
	return p.String()
}

func (p *Printer) printFormat(f format.Format) {
	switch n := f.(type) {
	case format.ItemVar:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = Expr(a)
		}
		p.writeln(fmt.Sprintf("ItemVar #%d%s", n.ID, parenList(args)))
	case format.Fail:
		p.writeln("Fail")
	case format.EndOfInput:
		p.writeln("EndOfInput")
	case format.Align:
		p.writeln(fmt.Sprintf("Align(%d)", n.N))
	case format.Byte:
		p.writeln(fmt.Sprintf("Byte%s", n.Set.String()))
	case format.Apply:
		p.writeln(fmt.Sprintf("Apply(%s)", n.Name.Name()))
	case format.Pos:
		p.writeln("Pos")
	case format.SkipRemainder:
		p.writeln("SkipRemainder")
	case format.Compute:
		p.writeln(fmt.Sprintf("Compute(%s)", Expr(n.Expr)))
	case format.Variant:
		p.block(fmt.Sprintf("Variant %q", n.Label), func() { p.printFormat(n.Body) })

	case format.Union:
		p.block("Union", func() { p.printBranches(n.Branches) })
	case format.UnionNondet:
		p.block("UnionNondet", func() { p.printBranches(n.Branches) })
	case format.Tuple:
		p.block("Tuple", func() { p.printBranches(n.Elems) })
	case format.Sequence:
		p.block("Sequence", func() { p.printBranches(n.Elems) })

	case format.Repeat:
		p.block("Repeat", func() { p.printFormat(n.Body) })
	case format.Repeat1:
		p.block("Repeat1", func() { p.printFormat(n.Body) })
	case format.RepeatCount:
		p.block(fmt.Sprintf("RepeatCount(%s)", Expr(n.N)), func() { p.printFormat(n.Body) })
	case format.RepeatBetween:
		p.block(fmt.Sprintf("RepeatBetween(%s, %s)", Expr(n.Lo), Expr(n.Hi)), func() { p.printFormat(n.Body) })
	case format.RepeatUntilLast:
		p.block(fmt.Sprintf("RepeatUntilLast(%s)", lambdaString(n.Cond)), func() { p.printFormat(n.Body) })
	case format.RepeatUntilSeq:
		p.block(fmt.Sprintf("RepeatUntilSeq(%s)", lambdaString(n.Cond)), func() { p.printFormat(n.Body) })
	case format.AccumUntil:
		header := fmt.Sprintf("AccumUntil(init=%s, done=%s, step=%s)",
			Expr(n.Init), lambda2String(n.Done), lambda2String(n.Step))
		p.block(header, func() { p.printFormat(n.Body) })
	case format.ForEach:
		p.block(fmt.Sprintf("ForEach(%s as %s)", Expr(n.Seq), n.Name.Name()), func() { p.printFormat(n.Body) })
	case format.Maybe:
		p.block(fmt.Sprintf("Maybe(%s)", Expr(n.Cond)), func() { p.printFormat(n.Body) })

	case format.Peek:
		p.block("Peek", func() { p.printFormat(n.Body) })
	case format.PeekNot:
		p.block("PeekNot", func() { p.printFormat(n.Body) })

	case format.Slice:
		p.block(fmt.Sprintf("Slice(%s)", Expr(n.Size)), func() { p.printFormat(n.Body) })
	case format.Bits:
		p.block("Bits", func() { p.printFormat(n.Body) })

	case format.WithRelativeOffset:
		p.block(fmt.Sprintf("WithRelativeOffset(base=%s, offset=%s)", Expr(n.Base), Expr(n.Offset)),
			func() { p.printFormat(n.Body) })

	case format.Map:
		p.block(fmt.Sprintf("Map(%s)", lambdaString(n.Lambda)), func() { p.printFormat(n.Body) })
	case format.Where:
		p.block(fmt.Sprintf("Where(%s)", lambdaString(n.Lambda)), func() { p.printFormat(n.Body) })

	case format.Let:
		p.block(fmt.Sprintf("Let %s = %s", n.Name.Name(), Expr(n.Expr)), func() { p.printFormat(n.Body) })

	case format.Dynamic:
		header := fmt.Sprintf("Dynamic %s = %s", n.Name.Name(), dynFormatString(n.Dyn))
		p.block(header, func() { p.printFormat(n.Body) })

	case format.DecodeBytes:
		p.block(fmt.Sprintf("DecodeBytes(%s)", Expr(n.Bytes)), func() { p.printFormat(n.Body) })

	case format.Match:
		p.block(fmt.Sprintf("Match(%s)", Expr(n.Head)), func() {
			for _, arm := range n.Arms {
				p.block(fmt.Sprintf("case %s ->", Pattern(arm.Pattern)), func() { p.printFormat(arm.Body) })
			}
		})

	case format.LetFormat:
		p.block(fmt.Sprintf("LetFormat %s =", n.Name.Name()), func() { p.printFormat(n.First) })
		p.printFormat(n.Second)
	case format.MonadSeq:
		p.printFormat(n.First)
		p.printFormat(n.Second)

	default:
		p.writeln(fmt.Sprintf("<unknown format node %T>", f))
	}
}

func (p *Printer) printBranches(fs []format.Format) {
	for i, f := range fs {
		p.block(fmt.Sprintf("[%d]", i), func() { p.printFormat(f) })
	}
}

func parenList(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	s := "("
	for i, part := range parts {
		if i > 0 {
			s += ", "
		}
		s += part
	}
	return s + ")"
}

func dynFormatString(d format.DynFormat) string {
	hd, ok := d.(format.HuffmanDyn)
	if !ok {
		return fmt.Sprintf("<unknown dyn format %T>", d)
	}
	if hd.Order == nil {
		return fmt.Sprintf("Huffman(lengths=%s)", Expr(hd.Lengths))
	}
	return fmt.Sprintf("Huffman(lengths=%s, order=%s)", Expr(hd.Lengths), Expr(hd.Order))
}

func lambdaString(l expr.Lambda) string {
	return fmt.Sprintf("\\%s -> %s", l.Param.Name(), Expr(l.Body))
}

func lambda2String(l expr.Lambda2) string {
	return fmt.Sprintf("\\%s %s -> %s", l.Acc.Name(), l.Elem.Name(), Expr(l.Body))
}

// Value renders v using its own String method. Defined here (rather
// than left to callers) so Value trees and Format trees share one
// entry point for diagnostics and the demo CLI.
func Value(v value.Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}
