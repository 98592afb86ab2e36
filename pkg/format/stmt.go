package format

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

func (p *Printer) formatStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.FunctionDef:
		p.formatFunctionDef(stmt)
	case *ast.ClassDef:
		p.formatClassDef(stmt)
	case *ast.Return:
		p.fillSimple("return")
		if stmt.Value != nil {
			p.write(" ")
			p.formatExpr(stmt.Value, token.PrecTest)
		}
	case *ast.Delete:
		p.fillSimple("del ")
		p.formatExprList(stmt.Targets, token.PrecTest)
	case *ast.Assign:
		p.fillSimple("")
		for _, target := range stmt.Targets {
			p.formatExpr(target, token.PrecTuple)
			p.write(" = ")
		}
		p.formatExpr(stmt.Value, token.PrecYield)
	case *ast.AugAssign:
		p.fillSimple("")
		p.formatExpr(stmt.Target, token.PrecTest)
		p.write(" " + stmt.Op.String() + "= ")
		p.formatExpr(stmt.Value, token.PrecYield)
	case *ast.AnnAssign:
		p.formatAnnAssign(stmt)
	case *ast.Raise:
		p.formatRaise(stmt)
	case *ast.Assert:
		p.fillSimple("assert ")
		p.formatExpr(stmt.Test, token.PrecTest)
		if stmt.Msg != nil {
			p.write(", ")
			p.formatExpr(stmt.Msg, token.PrecTest)
		}
	case *ast.Import:
		p.fillSimple("import ")
		p.formatAliases(stmt.Names)
	case *ast.ImportFrom:
		p.fillSimple("from ")
		p.write(strings.Repeat(".", stmt.Level), stmt.Module, " import ")
		p.formatAliases(stmt.Names)
	case *ast.Global:
		p.fillSimple("global ")
		p.write(strings.Join(stmt.Names, ","))
	case *ast.Nonlocal:
		p.fillSimple("nonlocal ")
		p.write(strings.Join(stmt.Names, ","))
	case *ast.ExprStmt:
		p.fillSimple("")
		p.formatExpr(stmt.Value, token.PrecYield)
	case *ast.Pass:
		p.fillSimple("pass")
	case *ast.Break:
		p.fillSimple("break")
	case *ast.Continue:
		p.fillSimple("continue")
	case *ast.For:
		p.formatFor(stmt)
	case *ast.While:
		p.fill("while ")
		p.formatExpr(stmt.Test, token.PrecTest)
		p.block("while", stmt.Body)
		p.formatElse(stmt.Orelse)
	case *ast.If:
		p.formatIf(stmt)
	case *ast.With:
		p.formatWith(stmt)
	case *ast.Match:
		p.formatMatch(stmt)
	case *ast.Try:
		p.formatTry(stmt)
	default:
		p.fail(&RenderError{Node: fmt.Sprintf("%T", s), Reason: "unknown statement"})
	}
}

func (p *Printer) formatDecorators(decorators []ast.Expr) {
	for _, d := range decorators {
		p.fill("@")
		p.formatExpr(d, token.PrecTest)
	}
}

func (p *Printer) formatFunctionDef(fn *ast.FunctionDef) {
	p.formatDecorators(fn.Decorators)
	if fn.IsAsync {
		p.fill("async def " + fn.Name)
	} else {
		p.fill("def " + fn.Name)
	}
	p.write("(")
	p.formatArguments(fn.Args)
	p.write(")")
	if fn.Returns != nil {
		p.write(" -> ")
		p.formatExpr(fn.Returns, token.PrecTest)
	}
	p.block("function "+fn.Name, fn.Body)
}

func (p *Printer) formatClassDef(cls *ast.ClassDef) {
	p.formatDecorators(cls.Decorators)
	p.fill("class " + cls.Name)
	if len(cls.Bases) > 0 || len(cls.Keywords) > 0 {
		p.write("(")
		p.formatCallArgs(cls.Bases, cls.Keywords)
		p.write(")")
	}
	p.block("class "+cls.Name, cls.Body)
}

func (p *Printer) formatAnnAssign(stmt *ast.AnnAssign) {
	p.fillSimple("")
	_, isName := stmt.Target.(*ast.Name)
	p.parens(!stmt.Simple && isName, func() {
		p.formatExpr(stmt.Target, token.PrecTest)
	})
	p.write(": ")
	p.formatExpr(stmt.Annotation, token.PrecTest)
	if stmt.Value != nil {
		p.write(" = ")
		p.formatExpr(stmt.Value, token.PrecYield)
	}
}

func (p *Printer) formatRaise(stmt *ast.Raise) {
	p.fillSimple("raise")
	if stmt.Exc == nil {
		if stmt.Cause != nil {
			p.fail(&RenderError{Node: "raise", Reason: "cause without an exception"})
		}
		return
	}
	p.write(" ")
	p.formatExpr(stmt.Exc, token.PrecTest)
	if stmt.Cause != nil {
		p.write(" from ")
		p.formatExpr(stmt.Cause, token.PrecTest)
	}
}

func (p *Printer) formatAliases(names []*ast.Alias) {
	p.formatList(len(names), func(i int) {
		p.write(names[i].Name)
		if names[i].AsName != "" {
			p.write(" as ", names[i].AsName)
		}
	}, ", ")
}

func (p *Printer) formatFor(stmt *ast.For) {
	if stmt.IsAsync {
		p.fill("async for ")
	} else {
		p.fill("for ")
	}
	p.formatExpr(stmt.Target, token.PrecTuple)
	p.write(" in ")
	p.formatExpr(stmt.Iter, token.PrecTest)
	p.block("for", stmt.Body)
	p.formatElse(stmt.Orelse)
}

func (p *Printer) formatElse(orelse []ast.Stmt) {
	if len(orelse) == 0 {
		return
	}
	p.fill("else")
	p.block("else", orelse)
}

func (p *Printer) formatIf(stmt *ast.If) {
	p.fill("if ")
	p.formatExpr(stmt.Test, token.PrecTest)
	p.block("if", stmt.Body)

	// collapse nested ifs into elifs
	for len(stmt.Orelse) == 1 {
		next, ok := stmt.Orelse[0].(*ast.If)
		if !ok {
			break
		}
		stmt = next
		p.fill("elif ")
		p.formatExpr(stmt.Test, token.PrecTest)
		p.block("elif", stmt.Body)
	}
	p.formatElse(stmt.Orelse)
}

func (p *Printer) formatWith(stmt *ast.With) {
	if stmt.IsAsync {
		p.fill("async with ")
	} else {
		p.fill("with ")
	}
	p.formatList(len(stmt.Items), func(i int) {
		item := stmt.Items[i]
		p.formatExpr(item.ContextExpr, token.PrecTest)
		if item.OptionalVars != nil {
			p.write(" as ")
			p.formatExpr(item.OptionalVars, token.PrecTest)
		}
	}, ", ")
	p.block("with", stmt.Body)
}

func (p *Printer) formatTry(stmt *ast.Try) {
	p.fill("try")
	p.block("try", stmt.Body)
	for _, h := range stmt.Handlers {
		if stmt.IsStar {
			p.fill("except*")
		} else {
			p.fill("except")
		}
		if h.Type != nil {
			p.write(" ")
			p.formatExpr(h.Type, token.PrecTest)
		}
		if h.Name != "" {
			p.write(" as ", h.Name)
		}
		p.block("except", h.Body)
	}
	p.formatElse(stmt.Orelse)
	if len(stmt.Finalbody) > 0 {
		p.fill("finally")
		p.block("finally", stmt.Finalbody)
	}
}

func (p *Printer) formatMatch(stmt *ast.Match) {
	p.newline()
	p.softKeyword("match")
	p.formatExpr(stmt.Subject, token.PrecTest)
	p.write(":")
	if len(stmt.Cases) == 0 {
		p.fail(&RenderError{Node: "match", Reason: "no cases"})
		return
	}
	p.depth++
	for _, c := range stmt.Cases {
		p.newline()
		p.softKeyword("case")
		p.formatPattern(c.Pattern, token.PrecTest)
		if c.Guard != nil {
			p.write(" if ")
			p.formatExpr(c.Guard, token.PrecTest)
		}
		p.block("case", c.Body)
	}
	p.depth--
}
