package rewrite

import (
	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/fold"
	"github.com/leapstack-labs/pyshrink/pkg/pyversion"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

func keep(st ast.Stmt) []ast.Stmt {
	return []ast.Stmt{st}
}

func (r *rewriter) stmt(st ast.Stmt) []ast.Stmt {
	switch n := st.(type) {
	case *ast.FunctionDef:
		return r.functionDef(n)
	case *ast.ClassDef:
		return r.classDef(n)
	case *ast.Return:
		if n.Value != nil {
			n.Value = r.expr(n.Value)
			if isNone(n.Value) {
				n.Value = nil
			}
		}
		return keep(n)
	case *ast.Delete:
		for i, t := range n.Targets {
			n.Targets[i] = r.target(t)
		}
		return keep(n)
	case *ast.Assign:
		return r.assign(n)
	case *ast.AugAssign:
		if r.tokens.Variables.Contains(ast.NodeName(n.Target)) {
			return nil
		}
		n.Target = r.target(n.Target)
		n.Value = r.expr(n.Value)
		return keep(n)
	case *ast.AnnAssign:
		return r.annAssign(n)
	case *ast.For:
		n.Target = r.target(n.Target)
		n.Iter = r.expr(n.Iter)
		n.Body = r.body(n.Body)
		n.Orelse = r.optional(n.Orelse)
		return keep(n)
	case *ast.While:
		return r.while(n)
	case *ast.If:
		return r.ifStmt(n)
	case *ast.With:
		for _, item := range n.Items {
			item.ContextExpr = r.expr(item.ContextExpr)
			if item.OptionalVars != nil {
				item.OptionalVars = r.target(item.OptionalVars)
			}
		}
		n.Body = r.body(n.Body)
		return keep(n)
	case *ast.Match:
		n.Subject = r.expr(n.Subject)
		for _, c := range n.Cases {
			if c.Guard != nil {
				c.Guard = r.expr(c.Guard)
			}
			c.Body = r.body(c.Body)
		}
		return keep(n)
	case *ast.Raise:
		if n.Exc != nil {
			n.Exc = r.expr(n.Exc)
		}
		if n.Cause != nil {
			n.Cause = r.expr(n.Cause)
		}
		return keep(n)
	case *ast.Try:
		return r.try(n)
	case *ast.Assert:
		if r.cfg.TokenTypes.Asserts {
			return nil
		}
		n.Test = r.expr(n.Test)
		if n.Msg != nil {
			n.Msg = r.expr(n.Msg)
		}
		return keep(n)
	case *ast.Import:
		return r.importStmt(n)
	case *ast.ImportFrom:
		return r.importFrom(n)
	case *ast.ExprStmt:
		if call, ok := n.Value.(*ast.Call); ok && r.tokens.Functions.Contains(ast.NodeName(call.Func)) {
			return nil
		}
		n.Value = r.expr(n.Value)
		return keep(n)
	case *ast.Global, *ast.Nonlocal, *ast.Pass, *ast.Break, *ast.Continue:
		return keep(n)
	}
	return keep(st)
}

func isNone(e ast.Expr) bool {
	c, ok := e.(*ast.Constant)
	if !ok {
		return false
	}
	_, none := c.Value.(ast.None)
	return none
}

// literal returns the value of a constant expression.
func literal(e ast.Expr) (ast.Value, bool) {
	c, ok := e.(*ast.Constant)
	if !ok {
		return nil, false
	}
	return c.Value, true
}

// filterDecorators drops decorators named in the removal set.
func (r *rewriter) filterDecorators(decorators []ast.Expr) []ast.Expr {
	out := decorators[:0]
	for _, d := range decorators {
		if r.tokens.Decorators.Contains(ast.NodeName(d)) {
			continue
		}
		out = append(out, r.expr(d))
	}
	return out
}

func isOverload(fn *ast.FunctionDef) bool {
	return len(fn.Decorators) == 1 && ast.NodeName(fn.Decorators[0]) == "overload"
}

func (r *rewriter) functionDef(fn *ast.FunctionDef) []ast.Stmt {
	if r.tokens.Functions.Contains(fn.Name) {
		return nil
	}
	if r.cfg.TokenTypes.OverloadFunctions && isOverload(fn) {
		return nil
	}

	fn.Decorators = r.filterDecorators(fn.Decorators)
	r.arguments(fn.Args)
	if r.cfg.StripsTypeHints() {
		fn.Returns = nil
	} else if fn.Returns != nil {
		fn.Returns = r.expr(fn.Returns)
	}

	defer r.enter(scopeFunction)()
	body := r.statements(fn.Body)
	if n := len(body); n > 0 {
		if ret, ok := body[n-1].(*ast.Return); ok && ret.Value == nil {
			body = body[:n-1]
		}
	}
	if len(body) == 0 {
		body = []ast.Stmt{&ast.Pass{}}
	}
	fn.Body = body
	return keep(fn)
}

// arguments rewrites defaults and strips or rewrites annotations.
func (r *rewriter) arguments(args *ast.Arguments) {
	if args == nil {
		return
	}
	for i, d := range args.Defaults {
		args.Defaults[i] = r.expr(d)
	}
	for i, d := range args.KwDefaults {
		if d != nil {
			args.KwDefaults[i] = r.expr(d)
		}
	}
	strip := r.cfg.StripsTypeHints()
	for _, group := range [][]*ast.Arg{args.PosOnly, args.Args, args.KwOnly, {args.Vararg, args.Kwarg}} {
		for _, a := range group {
			if a == nil || a.Annotation == nil {
				continue
			}
			if strip {
				a.Annotation = nil
			} else {
				a.Annotation = r.expr(a.Annotation)
			}
		}
	}
}

func (r *rewriter) classDef(cls *ast.ClassDef) []ast.Stmt {
	if r.tokens.Classes.Contains(cls.Name) {
		return nil
	}
	if _, ok := r.cfg.Optimizations.EnumsToFold[cls.Name]; ok {
		return nil
	}
	if r.cfg.Optimizations.SimplifyNamedTuples && r.isRecordClass(cls) {
		return r.recordClass(cls)
	}

	dropObject := r.cfg.TargetVersion != nil && r.cfg.TargetVersion.AtLeast(pyversion.Python3)
	bases := cls.Bases[:0]
	for _, b := range cls.Bases {
		if name, ok := b.(*ast.Name); ok {
			if dropObject && name.ID == "object" {
				continue
			}
			if r.tokens.Classes.Contains(name.ID) {
				continue
			}
		}
		bases = append(bases, r.expr(b))
	}
	cls.Bases = bases
	for _, kw := range cls.Keywords {
		kw.Value = r.expr(kw.Value)
	}
	cls.Decorators = r.filterDecorators(cls.Decorators)

	defer r.enter(scopeClass)()
	cls.Body = r.body(cls.Body)
	return keep(cls)
}

func (r *rewriter) while(n *ast.While) []ast.Stmt {
	n.Test = r.expr(n.Test)
	if v, ok := literal(n.Test); ok {
		if !fold.Truthy(v) {
			return r.optional(n.Orelse)
		}
		n.Test = ast.NewConstant(ast.NewInt(1))
	}
	n.Body = r.body(n.Body)
	n.Orelse = r.optional(n.Orelse)
	return keep(n)
}

// isNameEqualsMain matches __name__ == '__main__' in either order.
func isNameEqualsMain(e ast.Expr) bool {
	cmp, ok := e.(*ast.Compare)
	if !ok || len(cmp.Ops) != 1 || cmp.Ops[0] != token.Eq {
		return false
	}
	match := func(a, b ast.Expr) bool {
		name, ok := a.(*ast.Name)
		if !ok || name.ID != "__name__" {
			return false
		}
		v, ok := literal(b)
		return ok && ast.ValuesEqual(v, ast.Str("__main__"))
	}
	return match(cmp.Left, cmp.Comparators[0]) || match(cmp.Comparators[0], cmp.Left)
}

func (r *rewriter) ifStmt(n *ast.If) []ast.Stmt {
	if r.cfg.Sections.NameEqualsMain && isNameEqualsMain(n.Test) {
		return nil
	}

	n.Test = r.expr(n.Test)
	if v, ok := literal(n.Test); ok {
		if fold.Truthy(v) {
			return r.statements(n.Body)
		}
		return r.statements(n.Orelse)
	}

	n.Body = r.body(n.Body)
	n.Orelse = r.optional(n.Orelse)
	if len(n.Orelse) == 0 && len(n.Body) == 1 {
		if _, ok := n.Body[0].(*ast.Pass); ok {
			if effects, ok := sideEffects(n.Test); ok {
				out := make([]ast.Stmt, 0, len(effects))
				for _, e := range effects {
					out = append(out, &ast.ExprStmt{Value: e})
				}
				return out
			}
		}
	}
	return keep(n)
}

// lowRiskCalls are builtins assumed free of side effects when called with
// plain names and literals.
var lowRiskCalls = map[string]bool{
	"int":        true,
	"str":        true,
	"isinstance": true,
	"getattr":    true,
	"hasattr":    true,
}

// sideEffects returns the expressions that must still be evaluated when a
// test's result is discarded. It fails for tests it cannot reason about.
func sideEffects(e ast.Expr) ([]ast.Expr, bool) {
	switch n := e.(type) {
	case *ast.Name, *ast.Constant:
		return nil, true
	case *ast.UnaryOp:
		if n.Op != token.Not {
			return nil, false
		}
		return sideEffects(n.Operand)
	case *ast.Call:
		name, isName := n.Func.(*ast.Name)
		if isName && lowRiskCalls[name.ID] && len(n.Keywords) == 0 && plain(n.Args) {
			return nil, true
		}
		return []ast.Expr{n}, true
	case *ast.BoolOp:
		var first []ast.Expr
		for i, v := range n.Values {
			effects, ok := sideEffects(v)
			if !ok {
				return nil, false
			}
			if i == 0 {
				first = effects
				continue
			}
			if len(effects) > 0 {
				// Later operands only run conditionally; keep the whole chain.
				return []ast.Expr{n}, true
			}
		}
		return first, true
	}
	return nil, false
}

func plain(args []ast.Expr) bool {
	for _, a := range args {
		switch a.(type) {
		case *ast.Name, *ast.Constant:
		default:
			return false
		}
	}
	return true
}

func onlyPass(stmts []ast.Stmt) bool {
	for _, st := range stmts {
		if _, ok := st.(*ast.Pass); !ok {
			return false
		}
	}
	return true
}

func (r *rewriter) try(n *ast.Try) []ast.Stmt {
	body := r.statements(n.Body)
	if onlyPass(body) {
		out := r.statements(n.Orelse)
		out = append(out, r.statements(n.Finalbody)...)
		return dropPass(out)
	}
	n.Body = body
	for _, h := range n.Handlers {
		if h.Type != nil {
			h.Type = r.expr(h.Type)
		}
		h.Body = r.body(h.Body)
	}
	n.Orelse = r.optional(n.Orelse)
	n.Finalbody = r.optional(n.Finalbody)
	if len(n.Handlers) == 0 && len(n.Finalbody) == 0 {
		return dropPass(append(n.Body, n.Orelse...))
	}
	return keep(n)
}

func (r *rewriter) importStmt(n *ast.Import) []ast.Stmt {
	names := n.Names[:0]
	for _, a := range n.Names {
		if r.tokens.ModuleImports.Contains(a.Name) {
			continue
		}
		names = append(names, a)
	}
	if len(names) == 0 {
		return nil
	}
	n.Names = names
	return keep(n)
}

func (r *rewriter) importFrom(n *ast.ImportFrom) []ast.Stmt {
	if r.tokens.ModuleImports.Contains(n.Module) {
		return nil
	}

	var futures map[string]bool
	if n.IsFuture() && r.cfg.TargetVersion != nil {
		futures = make(map[string]bool)
		for _, name := range pyversion.UnneededFutures(*r.cfg.TargetVersion) {
			futures[name] = true
		}
		if r.cfg.StripsTypeHints() {
			futures["annotations"] = true
		}
	}

	names := n.Names[:0]
	for _, a := range n.Names {
		if futures[a.Name] {
			continue
		}
		if _, folded := r.cfg.Optimizations.VarsToFold[a.BoundName(true)]; folded {
			continue
		}
		if r.tokens.FromImports.Contains(a.Name) {
			continue
		}
		names = append(names, a)
	}
	if len(names) == 0 {
		return nil
	}
	n.Names = names
	return keep(n)
}

// mergeImports joins runs of adjacent import statements, and runs of
// from-imports of the same module.
func mergeImports(stmts []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, st := range stmts {
		if len(out) == 0 {
			out = append(out, st)
			continue
		}
		switch cur := st.(type) {
		case *ast.Import:
			if prev, ok := out[len(out)-1].(*ast.Import); ok {
				prev.Names = append(prev.Names, cur.Names...)
				continue
			}
		case *ast.ImportFrom:
			prev, ok := out[len(out)-1].(*ast.ImportFrom)
			if ok && prev.Module == cur.Module && prev.Level == cur.Level && !prev.IsStar() && !cur.IsStar() {
				prev.Names = append(prev.Names, cur.Names...)
				continue
			}
		}
		out = append(out, st)
	}
	return out
}
