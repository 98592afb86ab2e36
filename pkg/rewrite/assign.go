package rewrite

import (
	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/config"
)

// skipsValue reports whether the assigned value is a call to a removed function.
func (r *rewriter) skipsValue(value ast.Expr) bool {
	call, ok := value.(*ast.Call)
	return ok && r.tokens.Functions.Contains(ast.NodeName(call.Func))
}

// skipsTarget reports whether an assignment to t should be removed because
// t, or the object t is an attribute or item of, is a removed variable.
func (r *rewriter) skipsTarget(t ast.Expr) bool {
	if r.tokens.Variables.Contains(ast.NodeName(t)) {
		return true
	}
	switch n := t.(type) {
	case *ast.Attribute:
		return r.tokens.Variables.Contains(ast.NodeName(n.Value))
	case *ast.Subscript:
		return r.tokens.Variables.Contains(ast.NodeName(n.Value))
	}
	return false
}

func (r *rewriter) folded(t ast.Expr) bool {
	name, ok := t.(*ast.Name)
	if !ok {
		return false
	}
	_, ok = r.cfg.Optimizations.VarsToFold[name.ID]
	return ok
}

func (r *rewriter) assign(n *ast.Assign) []ast.Stmt {
	if r.skipsValue(n.Value) {
		return nil
	}
	for _, t := range n.Targets {
		if r.skipsTarget(t) {
			return nil
		}
	}
	n.Value = r.expr(n.Value)
	return r.finishAssign(n)
}

// finishAssign handles an assignment whose value is already rewritten.
func (r *rewriter) finishAssign(n *ast.Assign) []ast.Stmt {
	if r.scope() == scopeClass && isSlots(n.Targets) {
		r.slots(n)
	}

	targets := n.Targets[:0]
	for _, t := range n.Targets {
		if r.folded(t) && ast.IsConstant(n.Value) {
			continue
		}
		targets = append(targets, r.target(t))
	}
	if len(targets) == 0 {
		return nil
	}
	n.Targets = targets

	if len(targets) == 1 {
		if tt, ok := targets[0].(*ast.Tuple); ok {
			if vt, ok := n.Value.(*ast.Tuple); ok && !r.pairTuple(n, tt, vt) {
				return nil
			}
		}
	}
	return keep(n)
}

// pairTuple drops the folded names of a tuple unpacking together with the
// literals assigned to them. It reports false when nothing is left.
func (r *rewriter) pairTuple(n *ast.Assign, target, value *ast.Tuple) bool {
	for _, v := range value.Elts {
		if _, ok := v.(*ast.Starred); ok {
			return true
		}
	}

	star := -1
	for i, t := range target.Elts {
		if _, ok := t.(*ast.Starred); ok {
			star = i
			break
		}
	}
	nt, nv := len(target.Elts), len(value.Elts)
	if (star < 0 && nt != nv) || (star >= 0 && nv < nt-1) {
		return true
	}

	valueIndex := func(i int) int {
		if star < 0 || i < star {
			return i
		}
		return nv - (nt - i)
	}
	drop := make(map[int]bool)
	for i, t := range target.Elts {
		if i == star || !r.folded(t) {
			continue
		}
		if j := valueIndex(i); ast.IsConstant(value.Elts[j]) {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return true
	}

	var targets, values []ast.Expr
	for i, t := range target.Elts {
		if !drop[i] {
			targets = append(targets, t)
		}
	}
	dropValue := make(map[int]bool, len(drop))
	for i := range drop {
		dropValue[valueIndex(i)] = true
	}
	for j, v := range value.Elts {
		if !dropValue[j] {
			values = append(values, v)
		}
	}
	if len(targets) == 0 {
		return false
	}

	target.Elts, value.Elts = targets, values
	if len(targets) == 1 && len(values) == 1 {
		if _, starred := targets[0].(*ast.Starred); !starred {
			n.Targets[0] = targets[0]
			n.Value = values[0]
		}
	}
	return true
}

// target rewrites an assignment target. Bound names are never folded;
// expressions inside attribute and item targets are ordinary reads.
func (r *rewriter) target(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.Name:
		return n
	case *ast.Tuple:
		for i, elt := range n.Elts {
			n.Elts[i] = r.target(elt)
		}
	case *ast.List:
		for i, elt := range n.Elts {
			n.Elts[i] = r.target(elt)
		}
	case *ast.Starred:
		n.Value = r.target(n.Value)
	case *ast.Attribute:
		n.Value = r.expr(n.Value)
	case *ast.Subscript:
		n.Value = r.expr(n.Value)
		n.Slice = r.expr(n.Slice)
	default:
		return r.expr(e)
	}
	return e
}

func isSlots(targets []ast.Expr) bool {
	for _, t := range targets {
		if name, ok := t.(*ast.Name); ok && name.ID == "__slots__" {
			return true
		}
	}
	return false
}

// slots deduplicates a __slots__ display, keeping first occurrences.
func (r *rewriter) slots(n *ast.Assign) {
	var elts *[]ast.Expr
	switch v := n.Value.(type) {
	case *ast.Tuple:
		elts = &v.Elts
	case *ast.List:
		elts = &v.Elts
	case *ast.Set:
		elts = &v.Elts
	default:
		return
	}

	seen := make(map[string]bool, len(*elts))
	out := (*elts)[:0]
	for _, e := range *elts {
		v, ok := literal(e)
		s, isStr := v.(ast.Str)
		if !ok || !isStr {
			r.fail("__slots__ entries must be string literals")
			return
		}
		if seen[string(s)] {
			continue
		}
		seen[string(s)] = true
		out = append(out, e)
	}
	*elts = out
}

func (r *rewriter) annAssign(n *ast.AnnAssign) []ast.Stmt {
	if n.Value != nil && r.skipsValue(n.Value) {
		return nil
	}
	if r.skipsTarget(n.Target) {
		return nil
	}
	if n.Value != nil {
		n.Value = r.expr(n.Value)
		if r.folded(n.Target) && ast.IsConstant(n.Value) {
			return nil
		}
	}

	switch r.cfg.TokenTypes.TypeHints {
	case config.TypeHintsAll:
		return r.degrade(n)
	case config.TypeHintsAllButClassVars:
		if r.scope() == scopeClass && !isSlots([]ast.Expr{n.Target}) {
			n.Target = r.target(n.Target)
			n.Annotation = classAnnotation(n.Annotation)
			return keep(n)
		}
		return r.degrade(n)
	}

	n.Target = r.target(n.Target)
	n.Annotation = r.expr(n.Annotation)
	return keep(n)
}

// degrade turns an annotated assignment into a plain one, or removes a
// bare annotation.
func (r *rewriter) degrade(n *ast.AnnAssign) []ast.Stmt {
	if n.Value == nil {
		return nil
	}
	return r.finishAssign(&ast.Assign{Targets: []ast.Expr{n.Target}, Value: n.Value})
}

// classMarkers are annotations that change how a class attribute behaves
// and must survive stripping.
var classMarkers = map[string]bool{
	"ClassVar": true,
	"InitVar":  true,
	"Final":    true,
	"KW_ONLY":  true,
}

// classAnnotation shortens a class-level annotation to its marker, or to
// the shortest valid annotation when it has none.
func classAnnotation(e ast.Expr) ast.Expr {
	head := e
	if sub, ok := e.(*ast.Subscript); ok {
		head = sub.Value
	}
	switch head.(type) {
	case *ast.Name, *ast.Attribute:
		if classMarkers[ast.NodeName(head)] {
			return head
		}
	}
	return &ast.Name{ID: "int"}
}
