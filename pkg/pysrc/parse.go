// Package pysrc builds pkg/ast trees from Python source using the
// tree-sitter Python grammar.
//
// The grammar produces a concrete syntax tree; this package lowers it to
// the abstract tree the shrinker works on: parentheses disappear, string
// and number literals are decoded, boolean chains are flattened and
// parameter lists are split into their positional, variadic and
// keyword-only parts. Sources that do not parse cleanly are rejected.
package pysrc

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

// SyntaxError reports source the frontend cannot turn into a tree.
type SyntaxError struct {
	Pos token.Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Msg)
}

// Parse parses a Python module.
func Parse(ctx context.Context, src []byte) (*ast.Module, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		bad := firstError(root)
		msg := "invalid syntax"
		if bad.IsMissing() {
			msg = fmt.Sprintf("missing %q", bad.Type())
		}
		return nil, &SyntaxError{Pos: position(bad), Msg: msg}
	}

	c := &converter{src: src}
	mod := &ast.Module{Body: c.block(root)}
	if c.err != nil {
		return nil, c.err
	}
	return mod, nil
}

// ParseString is Parse for in-memory source.
func ParseString(src string) (*ast.Module, error) {
	return Parse(context.Background(), []byte(src))
}

// firstError returns the first ERROR or MISSING node in document order.
func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.HasError() || child.IsMissing() {
			return firstError(child)
		}
	}
	return n
}

func position(n *sitter.Node) token.Position {
	p := n.StartPoint()
	return token.Position{
		Line:   int(p.Row) + 1,
		Column: int(p.Column) + 1,
		Offset: int(n.StartByte()),
	}
}

// converter lowers one concrete tree. The first error stops meaningful
// output; later calls keep returning placeholders until Parse checks err.
type converter struct {
	src []byte
	err error
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

func (c *converter) fail(n *sitter.Node, format string, args ...any) {
	if c.err == nil {
		c.err = &SyntaxError{Pos: position(n), Msg: fmt.Sprintf(format, args...)}
	}
}

func isExtra(n *sitter.Node) bool {
	switch n.Type() {
	case "comment", "line_continuation":
		return true
	}
	return false
}

// children returns all children except comments.
func children(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !isExtra(child) {
			out = append(out, child)
		}
	}
	return out
}

// namedChildren returns the named children except comments.
func namedChildren(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if !isExtra(child) {
			out = append(out, child)
		}
	}
	return out
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// hasToken reports whether n has an anonymous child spelled tok.
func hasToken(n *sitter.Node, tok string) bool {
	for _, child := range children(n) {
		if !child.IsNamed() && child.Type() == tok {
			return true
		}
	}
	return false
}
