package pysrc

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

func (c *converter) matchStatement(n *sitter.Node) ast.Stmt {
	body := n.ChildByFieldName("body")
	var subjects []*sitter.Node
	for _, child := range namedChildren(n) {
		if !sameNode(child, body) {
			subjects = append(subjects, child)
		}
	}
	s := &ast.Match{}
	if len(subjects) == 1 && !hasToken(n, ",") {
		s.Subject = c.expr(subjects[0])
	} else {
		s.Subject = &ast.Tuple{Elts: c.exprs(subjects)}
	}
	for _, clause := range namedChildren(body) {
		if clause.Type() == "case_clause" {
			s.Cases = append(s.Cases, c.caseClause(clause))
		}
	}
	return s
}

func (c *converter) caseClause(n *sitter.Node) *ast.MatchCase {
	mc := &ast.MatchCase{}
	var patterns []ast.Pattern
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "case_pattern":
			patterns = append(patterns, c.pattern(child))
		case "if_clause":
			mc.Guard = c.expr(namedChildren(child)[0])
		case "block":
			mc.Body = c.block(child)
		}
	}
	if len(patterns) == 1 && !hasToken(n, ",") {
		mc.Pattern = patterns[0]
	} else {
		mc.Pattern = &ast.MatchSequence{Patterns: patterns}
	}
	return mc
}

// pattern converts a node that holds one pattern.
func (c *converter) pattern(n *sitter.Node) ast.Pattern {
	switch n.Type() {
	case "case_pattern":
		return c.simplePattern(n, children(n))
	case "as_pattern":
		parts := namedChildren(n)
		if len(parts) != 2 {
			c.fail(n, "invalid as pattern")
			return &ast.MatchAs{}
		}
		return &ast.MatchAs{Pattern: c.pattern(parts[0]), Name: c.text(parts[1])}
	case "union_pattern":
		or := &ast.MatchOr{}
		var group []*sitter.Node
		for _, child := range children(n) {
			if !child.IsNamed() && child.Type() == "|" {
				or.Patterns = append(or.Patterns, c.simplePattern(n, group))
				group = nil
				continue
			}
			group = append(group, child)
		}
		or.Patterns = append(or.Patterns, c.simplePattern(n, group))
		return or
	case "list_pattern", "tuple_pattern":
		var items []ast.Pattern
		for _, child := range namedChildren(n) {
			items = append(items, c.pattern(child))
		}
		// A parenthesized single pattern only groups.
		if n.Type() == "tuple_pattern" && len(items) == 1 && !hasToken(n, ",") {
			return items[0]
		}
		return &ast.MatchSequence{Patterns: items}
	case "dict_pattern":
		return c.mappingPattern(n)
	case "class_pattern":
		return c.classPattern(n)
	case "splat_pattern":
		name := ""
		if inner := namedChildren(n); len(inner) == 1 && c.text(inner[0]) != "_" {
			name = c.text(inner[0])
		}
		return &ast.MatchStar{Name: name}
	}
	return c.simplePattern(n, []*sitter.Node{n})
}

// simplePattern converts the sibling nodes forming one alternative: a
// literal, a capture, a value or a nested pattern node.
func (c *converter) simplePattern(owner *sitter.Node, group []*sitter.Node) ast.Pattern {
	if len(group) == 2 && group[0].Type() == "-" {
		return &ast.MatchValue{Value: &ast.UnaryOp{Op: token.USub, Operand: c.expr(group[1])}}
	}
	if len(group) != 1 {
		c.fail(owner, "invalid pattern")
		return &ast.MatchAs{}
	}
	n := group[0]
	switch n.Type() {
	case "_":
		return &ast.MatchAs{}
	case "true":
		return &ast.MatchSingleton{Value: ast.Bool(true)}
	case "false":
		return &ast.MatchSingleton{Value: ast.Bool(false)}
	case "none":
		return &ast.MatchSingleton{Value: ast.None{}}
	case "integer", "float", "string", "concatenated_string":
		return &ast.MatchValue{Value: c.expr(n)}
	case "complex_pattern":
		return &ast.MatchValue{Value: c.complexPattern(n)}
	case "dotted_name", "identifier":
		return c.namePattern(n)
	case "case_pattern", "as_pattern", "union_pattern", "list_pattern", "tuple_pattern",
		"dict_pattern", "class_pattern", "splat_pattern":
		return c.pattern(n)
	}
	c.fail(n, "unsupported pattern %s", n.Type())
	return &ast.MatchAs{}
}

// namePattern is a capture for a bare name and a value pattern for a
// dotted one.
func (c *converter) namePattern(n *sitter.Node) ast.Pattern {
	parts := strings.Split(c.dotted(n), ".")
	if len(parts) == 1 {
		if parts[0] == "_" {
			return &ast.MatchAs{}
		}
		return &ast.MatchAs{Name: parts[0]}
	}
	var value ast.Expr = &ast.Name{ID: parts[0]}
	for _, attr := range parts[1:] {
		value = &ast.Attribute{Value: value, Attr: attr}
	}
	return &ast.MatchValue{Value: value}
}

func (c *converter) complexPattern(n *sitter.Node) ast.Expr {
	var (
		left     ast.Expr
		op       = token.Add
		negate   bool
		sawFirst bool
	)
	for _, child := range children(n) {
		switch {
		case child.Type() == "-" && !sawFirst:
			negate = true
		case child.Type() == "-":
			op = token.Sub
		case child.Type() == "+":
			op = token.Add
		case child.IsNamed() && !sawFirst:
			left = c.expr(child)
			if negate {
				left = &ast.UnaryOp{Op: token.USub, Operand: left}
			}
			sawFirst = true
		case child.IsNamed():
			return &ast.BinOp{Left: left, Op: op, Right: c.expr(child)}
		}
	}
	c.fail(n, "invalid complex pattern")
	return placeholder
}

func (c *converter) mappingPattern(n *sitter.Node) ast.Pattern {
	m := &ast.MatchMapping{}
	var key []*sitter.Node
	afterColon := false
	for _, child := range children(n) {
		switch {
		case child.Type() == "splat_pattern":
			m.Rest = c.splatName(child)
		case !child.IsNamed() && child.Type() == ":":
			afterColon = true
		case afterColon && child.IsNamed():
			keyPattern := c.simplePattern(n, key)
			value, ok := keyPattern.(*ast.MatchValue)
			if !ok {
				if single, isSingle := keyPattern.(*ast.MatchSingleton); isSingle {
					value = &ast.MatchValue{Value: ast.NewConstant(single.Value)}
				} else {
					c.fail(child, "mapping pattern keys must be literals or dotted names")
					return m
				}
			}
			m.Keys = append(m.Keys, value.Value)
			m.Patterns = append(m.Patterns, c.pattern(child))
			key, afterColon = nil, false
		case child.IsNamed() || child.Type() == "-":
			key = append(key, child)
		}
	}
	return m
}

func (c *converter) classPattern(n *sitter.Node) ast.Pattern {
	m := &ast.MatchClass{}
	for i, child := range namedChildren(n) {
		if i == 0 {
			value, ok := c.namePattern(child).(*ast.MatchValue)
			if ok {
				m.Cls = value.Value
			} else {
				m.Cls = &ast.Name{ID: c.dotted(child)}
			}
			continue
		}
		inner := namedChildren(child)
		if child.Type() == "case_pattern" && len(inner) == 1 && inner[0].Type() == "keyword_pattern" {
			child = inner[0]
		}
		if child.Type() == "keyword_pattern" {
			parts := children(child)
			m.KwdAttrs = append(m.KwdAttrs, c.text(parts[0]))
			m.KwdPatterns = append(m.KwdPatterns, c.simplePattern(child, parts[2:]))
			continue
		}
		if len(m.KwdAttrs) > 0 {
			c.fail(child, "positional patterns follow keyword patterns")
			return m
		}
		m.Patterns = append(m.Patterns, c.pattern(child))
	}
	return m
}
