package format

import (
	"fmt"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

// formatExpr prints e in a context binding at prec, adding parentheses
// when e binds more loosely.
func (p *Printer) formatExpr(e ast.Expr, prec token.Precedence) {
	switch expr := e.(type) {
	case *ast.BoolOp:
		own := expr.Op.Precedence()
		sep := " " + expr.Op.String() + " "
		p.parens(prec > own, func() {
			p.formatList(len(expr.Values), func(i int) {
				p.formatExpr(expr.Values[i], own.Next())
			}, sep)
		})
	case *ast.NamedExpr:
		p.parens(prec > token.PrecNamedExpr, func() {
			p.formatExpr(expr.Target, token.PrecAtom)
			p.write(" := ")
			p.formatExpr(expr.Value, token.PrecTest)
		})
	case *ast.BinOp:
		p.formatBinOp(expr, prec)
	case *ast.UnaryOp:
		own := expr.Op.Precedence()
		p.parens(prec > own, func() {
			p.write(expr.Op.String())
			if own != token.PrecFactor {
				p.write(" ")
			}
			p.formatExpr(expr.Operand, own)
		})
	case *ast.Lambda:
		p.parens(prec > token.PrecTest, func() {
			p.write("lambda")
			if !expr.Args.Empty() {
				p.write(" ")
				p.formatArguments(expr.Args)
			}
			p.write(": ")
			p.formatExpr(expr.Body, token.PrecTest)
		})
	case *ast.IfExp:
		p.parens(prec > token.PrecTest, func() {
			p.formatExpr(expr.Body, token.PrecTest.Next())
			p.write(" if ")
			p.formatExpr(expr.Test, token.PrecTest.Next())
			p.write(" else ")
			p.formatExpr(expr.Orelse, token.PrecTest)
		})
	case *ast.Dict:
		p.formatDict(expr)
	case *ast.Set:
		if len(expr.Elts) == 0 {
			p.write("{*()}")
			return
		}
		p.write("{")
		p.formatExprList(expr.Elts, token.PrecTest)
		p.write("}")
	case *ast.ListComp:
		p.write("[")
		p.formatExpr(expr.Elt, token.PrecTest)
		p.formatComprehensions(expr.Generators)
		p.write("]")
	case *ast.SetComp:
		p.write("{")
		p.formatExpr(expr.Elt, token.PrecTest)
		p.formatComprehensions(expr.Generators)
		p.write("}")
	case *ast.DictComp:
		p.write("{")
		p.formatExpr(expr.Key, token.PrecTest)
		p.write(": ")
		p.formatExpr(expr.Value, token.PrecTest)
		p.formatComprehensions(expr.Generators)
		p.write("}")
	case *ast.GeneratorExp:
		p.write("(")
		p.formatGenerator(expr)
		p.write(")")
	case *ast.Await:
		p.parens(prec > token.PrecAwait, func() {
			p.write("await", " ")
			p.formatExpr(expr.Value, token.PrecAtom)
		})
	case *ast.Yield:
		p.parens(prec > token.PrecYield, func() {
			p.write("yield")
			if expr.Value != nil {
				p.write(" ")
				p.formatExpr(expr.Value, token.PrecTuple)
			}
		})
	case *ast.YieldFrom:
		p.parens(prec > token.PrecYield, func() {
			p.write("yield from", " ")
			p.formatExpr(expr.Value, token.PrecTest)
		})
	case *ast.Compare:
		p.parens(prec > token.PrecCmp, func() {
			p.formatExpr(expr.Left, token.PrecCmp.Next())
			for i, op := range expr.Ops {
				p.write(" " + op.String() + " ")
				p.formatExpr(expr.Comparators[i], token.PrecCmp.Next())
			}
		})
	case *ast.Call:
		p.formatExpr(expr.Func, token.PrecAtom)
		p.write("(")
		if gen, ok := soleGenerator(expr); ok {
			p.formatGenerator(gen)
		} else {
			p.formatCallArgs(expr.Args, expr.Keywords)
		}
		p.write(")")
	case *ast.FormattedValue:
		p.formatJoinedStr(&ast.JoinedStr{Values: []ast.Expr{expr}})
	case *ast.JoinedStr:
		p.formatJoinedStr(expr)
	case *ast.Constant:
		p.formatConstant(expr.Value, prec)
	case *ast.Attribute:
		p.formatExpr(expr.Value, token.PrecAtom)
		if c, ok := expr.Value.(*ast.Constant); ok {
			if i, ok := c.Value.(ast.Int); ok && i.V.Sign() >= 0 {
				p.write(" ")
			}
		}
		p.write(".", expr.Attr)
	case *ast.Subscript:
		p.formatExpr(expr.Value, token.PrecAtom)
		p.write("[")
		if tup, ok := expr.Slice.(*ast.Tuple); ok && len(tup.Elts) > 0 && !hasStarred(tup.Elts) {
			p.formatItems(tup.Elts)
		} else {
			p.formatExpr(expr.Slice, token.PrecTest)
		}
		p.write("]")
	case *ast.Starred:
		p.write("*")
		p.formatExpr(expr.Value, token.PrecExpr)
	case *ast.Name:
		p.write(expr.ID)
	case *ast.List:
		p.write("[")
		p.formatExprList(expr.Elts, token.PrecTest)
		p.write("]")
	case *ast.Tuple:
		p.parens(len(expr.Elts) == 0 || prec > token.PrecTuple, func() {
			p.formatItems(expr.Elts)
		})
	case *ast.Slice:
		if expr.Lower != nil {
			p.formatExpr(expr.Lower, token.PrecTest)
		}
		p.write(":")
		if expr.Upper != nil {
			p.formatExpr(expr.Upper, token.PrecTest)
		}
		if expr.Step != nil {
			p.write(":")
			p.formatExpr(expr.Step, token.PrecTest)
		}
	default:
		p.fail(&RenderError{Node: fmt.Sprintf("%T", e), Reason: "unknown expression"})
	}
}

func (p *Printer) formatBinOp(expr *ast.BinOp, prec token.Precedence) {
	own := expr.Op.Precedence()
	left, right := own, own.Next()
	if expr.Op.RightAssociative() {
		left, right = own.Next(), own
	}
	p.parens(prec > own, func() {
		p.formatExpr(expr.Left, left)
		p.write(" " + expr.Op.String() + " ")
		p.formatExpr(expr.Right, right)
	})
}

func (p *Printer) formatExprList(exprs []ast.Expr, prec token.Precedence) {
	p.formatList(len(exprs), func(i int) {
		p.formatExpr(exprs[i], prec)
	}, ", ")
}

// formatItems prints tuple elements, keeping the trailing comma of a
// one-element tuple.
func (p *Printer) formatItems(elts []ast.Expr) {
	if len(elts) == 1 {
		p.formatExpr(elts[0], token.PrecTest)
		p.write(",")
		return
	}
	p.formatExprList(elts, token.PrecTest)
}

func (p *Printer) formatDict(d *ast.Dict) {
	p.write("{")
	p.formatList(len(d.Keys), func(i int) {
		if d.Keys[i] == nil {
			p.write("**")
			p.formatExpr(d.Values[i], token.PrecExpr)
			return
		}
		p.formatExpr(d.Keys[i], token.PrecTest)
		p.write(": ")
		p.formatExpr(d.Values[i], token.PrecTest)
	}, ", ")
	p.write("}")
}

func (p *Printer) formatGenerator(gen *ast.GeneratorExp) {
	p.formatExpr(gen.Elt, token.PrecTest)
	p.formatComprehensions(gen.Generators)
}

func (p *Printer) formatComprehensions(gens []*ast.Comprehension) {
	for _, g := range gens {
		if g.IsAsync {
			p.write(" async for ")
		} else {
			p.write(" for ")
		}
		p.formatExpr(g.Target, token.PrecTuple)
		p.write(" in ")
		p.formatExpr(g.Iter, token.PrecTest.Next())
		for _, cond := range g.Ifs {
			p.write(" if ")
			p.formatExpr(cond, token.PrecTest.Next())
		}
	}
}

func (p *Printer) formatCallArgs(args []ast.Expr, keywords []*ast.Keyword) {
	first := true
	sep := func() {
		if !first {
			p.write(", ")
		}
		first = false
	}
	for _, a := range args {
		sep()
		p.formatExpr(a, token.PrecTest)
	}
	for _, kw := range keywords {
		sep()
		if kw.Name == "" {
			p.write("**")
		} else {
			p.write(kw.Name, "=")
		}
		p.formatExpr(kw.Value, token.PrecTest)
	}
}

func (p *Printer) formatArguments(args *ast.Arguments) {
	if args == nil {
		return
	}
	first := true
	sep := func() {
		if !first {
			p.write(", ")
		}
		first = false
	}

	positional := append(append([]*ast.Arg{}, args.PosOnly...), args.Args...)
	firstDefault := len(positional) - len(args.Defaults)
	for i, a := range positional {
		sep()
		p.formatArg(a)
		if i >= firstDefault {
			p.write("=")
			p.formatExpr(args.Defaults[i-firstDefault], token.PrecTest)
		}
		if i+1 == len(args.PosOnly) {
			p.write(", ", "/")
		}
	}

	if args.Vararg != nil || len(args.KwOnly) > 0 {
		sep()
		p.write("*")
		if args.Vararg != nil {
			p.formatArg(args.Vararg)
		}
	}
	for i, a := range args.KwOnly {
		p.write(", ")
		p.formatArg(a)
		if i < len(args.KwDefaults) && args.KwDefaults[i] != nil {
			p.write("=")
			p.formatExpr(args.KwDefaults[i], token.PrecTest)
		}
	}

	if args.Kwarg != nil {
		sep()
		p.write("**")
		p.formatArg(args.Kwarg)
	}
}

func (p *Printer) formatArg(a *ast.Arg) {
	p.write(a.Name)
	if a.Annotation != nil {
		p.write(": ")
		p.formatExpr(a.Annotation, token.PrecTest)
	}
}

// soleGenerator reports whether a call's only argument is a generator
// expression, which then needs no parentheses of its own.
func soleGenerator(call *ast.Call) (*ast.GeneratorExp, bool) {
	if len(call.Args) != 1 || len(call.Keywords) != 0 {
		return nil, false
	}
	gen, ok := call.Args[0].(*ast.GeneratorExp)
	return gen, ok
}

func hasStarred(elts []ast.Expr) bool {
	for _, e := range elts {
		if _, ok := e.(*ast.Starred); ok {
			return true
		}
	}
	return false
}
