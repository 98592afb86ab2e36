package format

import (
	"fmt"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

func (p *Printer) formatPattern(pat ast.Pattern, prec token.Precedence) {
	switch pt := pat.(type) {
	case *ast.MatchValue:
		p.formatExpr(pt.Value, token.PrecFactor)
	case *ast.MatchSingleton:
		p.formatConstant(pt.Value, token.PrecAtom)
	case *ast.MatchSequence:
		p.write("[")
		p.formatPatternList(pt.Patterns)
		p.write("]")
	case *ast.MatchStar:
		name := pt.Name
		if name == "" {
			name = "_"
		}
		p.write("*", name)
	case *ast.MatchMapping:
		p.write("{")
		p.formatList(len(pt.Keys), func(i int) {
			p.formatExpr(pt.Keys[i], token.PrecFactor)
			p.write(": ")
			p.formatPattern(pt.Patterns[i], token.PrecTest)
		}, ", ")
		if pt.Rest != "" {
			if len(pt.Keys) > 0 {
				p.write(", ")
			}
			p.write("**", pt.Rest)
		}
		p.write("}")
	case *ast.MatchClass:
		p.formatExpr(pt.Cls, token.PrecAtom)
		p.write("(")
		p.formatPatternList(pt.Patterns)
		for i, attr := range pt.KwdAttrs {
			if i > 0 || len(pt.Patterns) > 0 {
				p.write(", ")
			}
			p.write(attr, "=")
			p.formatPattern(pt.KwdPatterns[i], token.PrecTest)
		}
		p.write(")")
	case *ast.MatchAs:
		switch {
		case pt.Pattern == nil && pt.Name == "":
			p.write("_")
		case pt.Pattern == nil:
			p.write(pt.Name)
		default:
			p.parens(prec > token.PrecTest, func() {
				p.formatPattern(pt.Pattern, token.PrecBOr)
				p.write(" as ", pt.Name)
			})
		}
	case *ast.MatchOr:
		p.parens(prec > token.PrecBOr, func() {
			p.formatList(len(pt.Patterns), func(i int) {
				p.formatPattern(pt.Patterns[i], token.PrecBOr.Next())
			}, " | ")
		})
	default:
		p.fail(&RenderError{Node: fmt.Sprintf("%T", pat), Reason: "unknown pattern"})
	}
}

func (p *Printer) formatPatternList(pats []ast.Pattern) {
	p.formatList(len(pats), func(i int) {
		p.formatPattern(pats[i], token.PrecTest)
	}, ", ")
}
