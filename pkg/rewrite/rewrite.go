// Package rewrite shrinks a Python syntax tree in place according to a
// config.Config.
//
// The rewriter makes a single depth-first pass. Statement rules return the
// statements that replace the visited one: nil deletes it, several are
// spliced into the enclosing body. Expression rules return the replacement
// expression and fold innermost-first, so a folded child is already a
// constant when its parent is examined.
//
// Every non-module body is left non-empty; a pass statement fills bodies
// whose statements were all removed.
package rewrite

import (
	"fmt"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/config"
	"github.com/leapstack-labs/pyshrink/pkg/machine"
	"github.com/leapstack-labs/pyshrink/pkg/sweep"
)

// MalformedInputError reports source the rewriter refuses to shrink
// because the result would be wrong, such as a non-string __slots__ entry.
type MalformedInputError struct {
	Module string
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Module == "" {
		return "malformed input: " + e.Reason
	}
	return fmt.Sprintf("%s: malformed input: %s", e.Module, e.Reason)
}

// Module rewrites mod according to cfg, then sweeps unused imports when
// enabled. It returns one diagnostic per token category whose removal
// requests never matched.
func Module(mod *ast.Module, cfg *config.Config) ([]config.Diagnostic, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if !cfg.HasWork() {
		return nil, nil
	}

	r := newRewriter(cfg)
	mod.Body = r.module(mod.Body)
	if r.err != nil {
		return nil, r.err
	}
	if len(r.records) > 0 {
		addNamedtupleImport(mod, r.records)
	}
	if cfg.Optimizations.RemoveUnusedImports {
		sweep.Module(mod)
	}
	return cfg.Diagnostics(), nil
}

type scope int

const (
	scopeModule scope = iota
	scopeClass
	scopeFunction
)

type rewriter struct {
	cfg     *config.Config
	tokens  *config.Tokens
	machine *machine.Snapshot
	scopes  []scope
	err     error

	records []*ast.Assign
}

func newRewriter(cfg *config.Config) *rewriter {
	r := &rewriter{
		cfg:    cfg,
		tokens: cfg.Tokens,
		scopes: []scope{scopeModule},
	}
	if r.tokens == nil {
		r.tokens = config.NewTokens()
	}
	if cfg.Optimizations.AssumeThisMachine {
		r.machine = machine.Current()
	}
	return r
}

// enter pushes a scope; callers defer the returned pop.
func (r *rewriter) enter(s scope) func() {
	r.scopes = append(r.scopes, s)
	return func() {
		r.scopes = r.scopes[:len(r.scopes)-1]
	}
}

func (r *rewriter) scope() scope {
	return r.scopes[len(r.scopes)-1]
}

func (r *rewriter) fail(format string, args ...any) {
	if r.err == nil {
		r.err = &MalformedInputError{Module: r.cfg.ModuleName, Reason: fmt.Sprintf(format, args...)}
	}
}

func (r *rewriter) module(stmts []ast.Stmt) []ast.Stmt {
	return r.statements(stmts)
}

// body rewrites a statement list that must not end up empty.
func (r *rewriter) body(stmts []ast.Stmt) []ast.Stmt {
	out := r.statements(stmts)
	if len(out) == 0 {
		out = []ast.Stmt{&ast.Pass{}}
	}
	return out
}

// optional rewrites an else or finally list; a list left with only pass
// disappears.
func (r *rewriter) optional(stmts []ast.Stmt) []ast.Stmt {
	if len(stmts) == 0 {
		return nil
	}
	out := r.statements(stmts)
	if len(out) == 0 {
		return nil
	}
	if _, ok := out[0].(*ast.Pass); ok && len(out) == 1 {
		return nil
	}
	return out
}

// statements rewrites and splices a list, dropping dangling constants and
// redundant pass statements.
func (r *rewriter) statements(stmts []ast.Stmt) []ast.Stmt {
	stmts = mergeImports(stmts)
	out := make([]ast.Stmt, 0, len(stmts))
	for _, st := range stmts {
		for _, n := range r.stmt(st) {
			if r.dangling(n) {
				continue
			}
			out = append(out, n)
		}
	}
	return dropPass(out)
}

func (r *rewriter) dangling(st ast.Stmt) bool {
	if !r.cfg.TokenTypes.DanglingExpressions {
		return false
	}
	e, ok := st.(*ast.ExprStmt)
	return ok && ast.IsConstant(e.Value)
}

// dropPass removes pass statements from a list that has other statements.
func dropPass(stmts []ast.Stmt) []ast.Stmt {
	out := stmts[:0]
	for _, st := range stmts {
		if _, ok := st.(*ast.Pass); ok {
			continue
		}
		out = append(out, st)
	}
	if len(out) == 0 && len(stmts) > 0 {
		return []ast.Stmt{&ast.Pass{}}
	}
	return out
}
