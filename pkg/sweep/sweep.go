// Package sweep removes imports whose bound names are never referenced.
//
// Usage is collected over the whole module before any import is filtered,
// so a reference anywhere in the file keeps an import alive regardless of
// where the import statement sits. __future__ imports and star imports are
// never removed.
package sweep

import (
	"strings"
	"unicode"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
)

// Module removes unreferenced import entries from mod in place and
// returns how many entries were dropped.
func Module(mod *ast.Module) int {
	s := &sweeper{used: Usage(mod)}
	mod.Body = s.body(mod.Body, false)
	return s.removed
}

// Usage returns every identifier the module reads: plain names, names
// mentioned in string annotations, and the entries of __all__, including
// those added through its list methods.
func Usage(mod *ast.Module) map[string]struct{} {
	used := make(map[string]struct{})
	ast.Walk(mod, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.Name:
			used[node.ID] = struct{}{}
		case *ast.Arg:
			addAnnotationNames(used, node.Annotation)
		case *ast.FunctionDef:
			addAnnotationNames(used, node.Returns)
		case *ast.AnnAssign:
			addAnnotationNames(used, node.Annotation)
		case *ast.Assign:
			if isDunderAll(node.Targets) {
				addStrings(used, node.Value)
			}
		case *ast.AugAssign:
			if isDunderAll([]ast.Expr{node.Target}) {
				addStrings(used, node.Value)
			}
		case *ast.Call:
			if isDunderAllUpdate(node.Func) {
				for _, arg := range node.Args {
					addStrings(used, arg)
				}
			}
		}
		return true
	})
	return used
}

func isDunderAll(targets []ast.Expr) bool {
	for _, t := range targets {
		if name, ok := t.(*ast.Name); ok && name.ID == "__all__" {
			return true
		}
	}
	return false
}

// isDunderAllUpdate matches __all__.append, __all__.extend and
// __all__.insert.
func isDunderAllUpdate(fn ast.Expr) bool {
	attr, ok := fn.(*ast.Attribute)
	if !ok || !isDunderAll([]ast.Expr{attr.Value}) {
		return false
	}
	switch attr.Attr {
	case "append", "extend", "insert":
		return true
	}
	return false
}

func addStrings(used map[string]struct{}, e ast.Expr) {
	ast.Walk(e, func(n ast.Node) bool {
		if c, ok := n.(*ast.Constant); ok {
			if s, ok := c.Value.(ast.Str); ok {
				used[string(s)] = struct{}{}
			}
		}
		return true
	})
}

// addAnnotationNames records the identifiers of forward-reference
// annotations such as "Optional[Foo]".
func addAnnotationNames(used map[string]struct{}, e ast.Expr) {
	if e == nil {
		return
	}
	ast.Walk(e, func(n ast.Node) bool {
		c, ok := n.(*ast.Constant)
		if !ok {
			return true
		}
		s, ok := c.Value.(ast.Str)
		if !ok {
			return true
		}
		words := strings.FieldsFunc(string(s), func(r rune) bool {
			return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			used[w] = struct{}{}
		}
		return true
	})
}

type sweeper struct {
	used    map[string]struct{}
	removed int
}

// body filters one statement list, last statement first. Emptied nested
// bodies get a pass statement.
func (s *sweeper) body(stmts []ast.Stmt, nested bool) []ast.Stmt {
	keep := make([]bool, len(stmts))
	for i := len(stmts) - 1; i >= 0; i-- {
		keep[i] = s.stmt(stmts[i])
	}
	out := stmts[:0]
	for i, st := range stmts {
		if keep[i] {
			out = append(out, st)
		}
	}
	if nested && len(out) == 0 {
		out = append(out, &ast.Pass{})
	}
	return out
}

// optional filters an else or finally list, which may end up empty.
func (s *sweeper) optional(stmts []ast.Stmt) []ast.Stmt {
	if len(stmts) == 0 {
		return stmts
	}
	out := s.body(stmts, false)
	if len(out) == 0 {
		return nil
	}
	return out
}

// stmt sweeps st and its children and reports whether st survives.
func (s *sweeper) stmt(st ast.Stmt) bool {
	switch n := st.(type) {
	case *ast.Import:
		n.Names = s.aliases(n.Names, false)
		return len(n.Names) > 0
	case *ast.ImportFrom:
		if n.IsFuture() || n.IsStar() {
			return true
		}
		n.Names = s.aliases(n.Names, true)
		return len(n.Names) > 0
	case *ast.FunctionDef:
		n.Body = s.body(n.Body, true)
	case *ast.ClassDef:
		n.Body = s.body(n.Body, true)
	case *ast.For:
		n.Body = s.body(n.Body, true)
		n.Orelse = s.optional(n.Orelse)
	case *ast.While:
		n.Body = s.body(n.Body, true)
		n.Orelse = s.optional(n.Orelse)
	case *ast.If:
		n.Body = s.body(n.Body, true)
		n.Orelse = s.optional(n.Orelse)
	case *ast.With:
		n.Body = s.body(n.Body, true)
	case *ast.Match:
		for _, c := range n.Cases {
			c.Body = s.body(c.Body, true)
		}
	case *ast.Try:
		n.Body = s.body(n.Body, true)
		for _, h := range n.Handlers {
			h.Body = s.body(h.Body, true)
		}
		n.Orelse = s.optional(n.Orelse)
		n.Finalbody = s.optional(n.Finalbody)
		if len(n.Handlers) == 0 && len(n.Finalbody) == 0 {
			n.Finalbody = []ast.Stmt{&ast.Pass{}}
		}
	case *ast.Return, *ast.Delete, *ast.Assign, *ast.AugAssign, *ast.AnnAssign, *ast.Raise,
		*ast.Assert, *ast.Global, *ast.Nonlocal, *ast.ExprStmt, *ast.Pass, *ast.Break, *ast.Continue:
		// no nested statements
	}
	return true
}

func (s *sweeper) aliases(names []*ast.Alias, fromImport bool) []*ast.Alias {
	out := names[:0]
	for _, a := range names {
		if _, ok := s.used[a.BoundName(fromImport)]; ok {
			out = append(out, a)
			continue
		}
		s.removed++
	}
	return out
}
