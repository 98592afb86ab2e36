package rewrite

import (
	"github.com/leapstack-labs/pyshrink/pkg/ast"
)

var namedTupleBases = map[string]bool{
	"NamedTuple":        true,
	"typing.NamedTuple": true,
}

// isRecordClass reports whether cls is a plain typing.NamedTuple subclass
// that declares only fields.
func (r *rewriter) isRecordClass(cls *ast.ClassDef) bool {
	if len(cls.Bases) != 1 || len(cls.Keywords) != 0 || len(cls.Decorators) != 0 {
		return false
	}
	if base, ok := ast.DottedName(cls.Bases[0]); !ok || !namedTupleBases[base] {
		return false
	}
	for _, st := range cls.Body {
		switch n := st.(type) {
		case *ast.AnnAssign:
			if _, ok := n.Target.(*ast.Name); !ok {
				return false
			}
		case *ast.ExprStmt:
			if !r.cfg.TokenTypes.DanglingExpressions || !ast.IsConstant(n.Value) {
				return false
			}
		case *ast.Pass:
		default:
			return false
		}
	}
	return true
}

// recordClass replaces a NamedTuple class with a namedtuple call:
//
//	Point=namedtuple('Point',['x','y'],defaults=[0])
func (r *rewriter) recordClass(cls *ast.ClassDef) []ast.Stmt {
	var fields, defaults []ast.Expr
	for _, st := range cls.Body {
		field, ok := st.(*ast.AnnAssign)
		if !ok {
			continue
		}
		name := field.Target.(*ast.Name).ID
		if field.Value == nil && len(defaults) > 0 {
			r.fail("non-default field %q follows a default field in %s", name, cls.Name)
			return nil
		}
		fields = append(fields, ast.NewConstant(ast.Str(name)))
		if field.Value != nil {
			defaults = append(defaults, r.expr(field.Value))
		}
	}

	call := &ast.Call{
		Func: &ast.Name{ID: "namedtuple"},
		Args: []ast.Expr{ast.NewConstant(ast.Str(cls.Name)), &ast.List{Elts: fields}},
	}
	if len(defaults) > 0 {
		call.Keywords = []*ast.Keyword{{Name: "defaults", Value: &ast.List{Elts: defaults}}}
	}
	assign := &ast.Assign{Targets: []ast.Expr{&ast.Name{ID: cls.Name}}, Value: call}
	r.records = append(r.records, assign)
	return keep(assign)
}

// addNamedtupleImport makes namedtuple available at module level before
// the first of records runs. A "from collections import" is reused only
// when it comes before that point.
func addNamedtupleImport(mod *ast.Module, records []*ast.Assign) {
	first := firstContaining(mod.Body, records)
	for _, st := range mod.Body[:first] {
		imp, ok := st.(*ast.ImportFrom)
		if !ok || imp.Level != 0 || imp.Module != "collections" || imp.IsStar() {
			continue
		}
		for _, a := range imp.Names {
			if a.Name == "namedtuple" && a.AsName == "" {
				return
			}
		}
		imp.Names = append(imp.Names, &ast.Alias{Name: "namedtuple"})
		return
	}

	at := 0
	if len(mod.Body) > 0 {
		if doc, ok := mod.Body[0].(*ast.ExprStmt); ok {
			if v, ok := literal(doc.Value); ok {
				if _, isStr := v.(ast.Str); isStr {
					at = 1
				}
			}
		}
	}
	for at < len(mod.Body) {
		imp, ok := mod.Body[at].(*ast.ImportFrom)
		if !ok || !imp.IsFuture() {
			break
		}
		at++
	}

	stmt := &ast.ImportFrom{Module: "collections", Names: []*ast.Alias{{Name: "namedtuple"}}}
	mod.Body = append(mod.Body, nil)
	copy(mod.Body[at+1:], mod.Body[at:])
	mod.Body[at] = stmt
}

// firstContaining returns the index of the first statement in body whose
// subtree holds one of targets, or len(body).
func firstContaining(body []ast.Stmt, targets []*ast.Assign) int {
	want := make(map[*ast.Assign]bool, len(targets))
	for _, t := range targets {
		want[t] = true
	}
	for i, st := range body {
		found := false
		ast.Walk(st, func(n ast.Node) bool {
			if a, ok := n.(*ast.Assign); ok && want[a] {
				found = true
			}
			return !found
		})
		if found {
			return i
		}
	}
	return len(body)
}
