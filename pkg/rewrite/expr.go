package rewrite

import (
	"strings"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/fold"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

func (r *rewriter) exprs(list []ast.Expr) {
	for i, e := range list {
		list[i] = r.expr(e)
	}
}

func (r *rewriter) expr(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.BoolOp:
		r.exprs(n.Values)
		return r.boolOp(n)
	case *ast.NamedExpr:
		n.Value = r.expr(n.Value)
	case *ast.BinOp:
		n.Left = r.expr(n.Left)
		n.Right = r.expr(n.Right)
		return r.binOp(n)
	case *ast.UnaryOp:
		n.Operand = r.expr(n.Operand)
		if v, ok := literal(n.Operand); ok {
			if out, err := fold.Unary(n.Op, v); err == nil {
				return ast.NewConstant(out)
			}
		}
	case *ast.Lambda:
		r.arguments(n.Args)
		n.Body = r.expr(n.Body)
	case *ast.IfExp:
		n.Test = r.expr(n.Test)
		if v, ok := literal(n.Test); ok {
			if fold.Truthy(v) {
				return r.expr(n.Body)
			}
			return r.expr(n.Orelse)
		}
		n.Body = r.expr(n.Body)
		n.Orelse = r.expr(n.Orelse)
	case *ast.Dict:
		r.dict(n)
	case *ast.Set:
		r.exprs(n.Elts)
	case *ast.ListComp:
		r.comprehensions(n.Generators)
		n.Elt = r.expr(n.Elt)
	case *ast.SetComp:
		r.comprehensions(n.Generators)
		n.Elt = r.expr(n.Elt)
	case *ast.DictComp:
		r.comprehensions(n.Generators)
		n.Key = r.expr(n.Key)
		n.Value = r.expr(n.Value)
	case *ast.GeneratorExp:
		r.comprehensions(n.Generators)
		n.Elt = r.expr(n.Elt)
	case *ast.Await:
		n.Value = r.expr(n.Value)
	case *ast.Yield:
		if n.Value != nil {
			n.Value = r.expr(n.Value)
		}
	case *ast.YieldFrom:
		n.Value = r.expr(n.Value)
	case *ast.Compare:
		n.Left = r.expr(n.Left)
		r.exprs(n.Comparators)
		return r.compare(n)
	case *ast.Call:
		return r.call(n)
	case *ast.FormattedValue:
		n.Value = r.expr(n.Value)
		if n.FormatSpec != nil {
			r.exprs(n.FormatSpec.Values)
		}
	case *ast.JoinedStr:
		r.exprs(n.Values)
	case *ast.Constant:
	case *ast.Attribute:
		return r.attribute(n)
	case *ast.Subscript:
		n.Value = r.expr(n.Value)
		n.Slice = r.expr(n.Slice)
	case *ast.Starred:
		n.Value = r.expr(n.Value)
	case *ast.Name:
		if v, ok := r.cfg.Optimizations.VarsToFold[n.ID]; ok {
			return ast.NewConstant(v)
		}
	case *ast.List:
		r.exprs(n.Elts)
	case *ast.Tuple:
		r.exprs(n.Elts)
	case *ast.Slice:
		if n.Lower != nil {
			n.Lower = r.expr(n.Lower)
		}
		if n.Upper != nil {
			n.Upper = r.expr(n.Upper)
		}
		if n.Step != nil {
			n.Step = r.expr(n.Step)
		}
	}
	return e
}

func (r *rewriter) comprehensions(gens []*ast.Comprehension) {
	for _, g := range gens {
		g.Iter = r.expr(g.Iter)
		g.Target = r.target(g.Target)
		r.exprs(g.Ifs)
	}
}

// boolOp drops literals that cannot decide the chain and cuts it at the
// first literal that does.
func (r *rewriter) boolOp(n *ast.BoolOp) ast.Expr {
	continues := func(v ast.Value) bool {
		return fold.Truthy(v) == (n.Op == token.And)
	}
	last := len(n.Values) - 1
	values := make([]ast.Expr, 0, len(n.Values))
	for i, e := range n.Values {
		v, ok := literal(e)
		if !ok {
			values = append(values, e)
			continue
		}
		if continues(v) && i < last {
			continue
		}
		values = append(values, e)
		if !continues(v) {
			break
		}
	}
	if len(values) == 1 {
		return values[0]
	}
	n.Values = values
	return n
}

func (r *rewriter) binOp(n *ast.BinOp) ast.Expr {
	if r.cfg.Optimizations.CollectionConcatToUnpack && n.Op == token.Add {
		if display := concatToUnpack(n); display != nil {
			return display
		}
	}
	if !r.cfg.Optimizations.FoldConstants || !fold.Supports(n.Op) {
		return n
	}
	left, lok := literal(n.Left)
	right, rok := literal(n.Right)
	if !lok || !rok {
		return n
	}
	v, err := fold.Binary(n.Op, left, right)
	if err != nil {
		return n
	}
	return ast.NewConstant(v)
}

// concatToUnpack rewrites a chain of additions involving list or tuple
// displays into one display that unpacks the other operands. It returns nil
// when the chain mixes display kinds, has no display, or adds a literal.
func concatToUnpack(n *ast.BinOp) ast.Expr {
	var operands []ast.Expr
	var collect func(e ast.Expr)
	collect = func(e ast.Expr) {
		if b, ok := e.(*ast.BinOp); ok && b.Op == token.Add {
			collect(b.Left)
			collect(b.Right)
			return
		}
		operands = append(operands, e)
	}
	collect(n)

	var kind string
	for _, op := range operands {
		switch op.(type) {
		case *ast.List:
			if kind == "tuple" {
				return nil
			}
			kind = "list"
		case *ast.Tuple:
			if kind == "list" {
				return nil
			}
			kind = "tuple"
		case *ast.Constant:
			return nil
		}
	}
	if kind == "" {
		return nil
	}

	var elts []ast.Expr
	for _, op := range operands {
		switch d := op.(type) {
		case *ast.List:
			elts = append(elts, d.Elts...)
		case *ast.Tuple:
			elts = append(elts, d.Elts...)
		default:
			elts = append(elts, &ast.Starred{Value: op})
		}
	}
	if kind == "list" {
		return &ast.List{Elts: elts}
	}
	return &ast.Tuple{Elts: elts}
}

// compare folds a chain whose operands are all literals.
func (r *rewriter) compare(n *ast.Compare) ast.Expr {
	operands := append([]ast.Expr{n.Left}, n.Comparators...)
	values := make([]ast.Value, len(operands))
	for i, e := range operands {
		v, ok := literal(e)
		if !ok {
			return n
		}
		values[i] = v
	}
	for _, op := range n.Ops {
		if !fold.SupportsCompare(op) {
			return n
		}
	}
	for i, op := range n.Ops {
		v, err := fold.Compare(op, values[i], values[i+1])
		if err != nil {
			return n
		}
		if !fold.Truthy(v) {
			return ast.NewConstant(ast.Bool(false))
		}
	}
	return ast.NewConstant(ast.Bool(true))
}

var castNames = map[string]bool{
	"cast":        true,
	"typing.cast": true,
}

func (r *rewriter) call(n *ast.Call) ast.Expr {
	path, dotted := ast.DottedName(n.Func)
	if r.machine != nil && dotted && len(n.Args) == 0 && len(n.Keywords) == 0 {
		if v, ok := r.machine.Call(path); ok {
			return ast.NewConstant(v)
		}
	}
	if r.cfg.Optimizations.RemoveTypingCast && dotted && castNames[path] &&
		len(n.Args) == 2 && len(n.Keywords) == 0 {
		return r.expr(n.Args[1])
	}

	n.Func = r.expr(n.Func)
	r.exprs(n.Args)
	for _, kw := range n.Keywords {
		kw.Value = r.expr(kw.Value)
	}
	return n
}

func (r *rewriter) attribute(n *ast.Attribute) ast.Expr {
	if path, ok := ast.DottedName(n); ok {
		if v, ok := r.enumMember(strings.Split(path, ".")); ok {
			return ast.NewConstant(v)
		}
		if r.machine != nil {
			if v, ok := r.machine.Attribute(path); ok {
				return ast.NewConstant(v)
			}
		}
	}
	n.Value = r.expr(n.Value)
	return n
}

// enumMember resolves Enum.MEMBER, Enum.MEMBER.value and Enum.MEMBER.name.
func (r *rewriter) enumMember(parts []string) (ast.Value, bool) {
	enums := r.cfg.Optimizations.EnumsToFold
	if len(enums) == 0 || len(parts) < 2 {
		return nil, false
	}
	if k := len(parts); k >= 3 && (parts[k-1] == "value" || parts[k-1] == "name") {
		if v, ok := enums[parts[k-3]][parts[k-2]]; ok {
			if parts[k-1] == "name" {
				return ast.Str(parts[k-2]), true
			}
			return v, true
		}
	}
	k := len(parts)
	v, ok := enums[parts[k-2]][parts[k-1]]
	return v, ok
}

func (r *rewriter) dict(n *ast.Dict) {
	keys := n.Keys[:0]
	values := n.Values[:0]
	for i, k := range n.Keys {
		if k != nil {
			if v, ok := literal(k); ok {
				if s, isStr := v.(ast.Str); isStr && r.tokens.DictKeys.Contains(string(s)) {
					continue
				}
			}
			k = r.expr(k)
		}
		keys = append(keys, k)
		values = append(values, r.expr(n.Values[i]))
	}
	n.Keys, n.Values = keys, values
}
