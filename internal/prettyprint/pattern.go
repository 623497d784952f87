package prettyprint

import (
	"fmt"
	"strings"

	"github.com/grambin/grambin/internal/value"
)

// Pattern renders p as a single-line pattern, mirroring Expr's
// single-line rendering of expressions.
func Pattern(p value.Pattern) string {
	switch n := p.(type) {
	case value.PWildcard:
		return "_"
	case value.PVar:
		return n.Name.Name()
	case value.PLiteral:
		return n.Want.String()
	case value.PRange:
		return fmt.Sprintf("%d..%d", n.Lo, n.Hi)
	case value.PTuple:
		return "(" + patternJoin(n.Elems) + ")"
	case value.PSeqExact:
		return "[" + patternJoin(n.Elems) + "]"
	case value.PSeqPrefixRest:
		s := "[" + patternJoin(n.Prefix)
		if n.HasRest {
			if len(n.Prefix) > 0 {
				s += ", "
			}
			s += "..." + n.Rest.Name()
		}
		return s + "]"
	case value.PSeqInitSuffix:
		s := "["
		if n.HasInit {
			s += "..." + n.Init.Name()
			if len(n.Suffix) > 0 {
				s += ", "
			}
		}
		return s + patternJoin(n.Suffix) + "]"
	case value.PVariant:
		return fmt.Sprintf("%s(%s)", n.Label, Pattern(n.Inner))
	case value.PSome:
		return fmt.Sprintf("Some(%s)", Pattern(n.Inner))
	case value.PNone:
		return "None"
	default:
		return fmt.Sprintf("<unknown pattern %T>", p)
	}
}

func patternJoin(ps []value.Pattern) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = Pattern(p)
	}
	return strings.Join(parts, ", ")
}
