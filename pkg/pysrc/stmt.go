package pysrc

import (
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

// block converts a module or block node into its statements.
func (c *converter) block(n *sitter.Node) []ast.Stmt {
	if n == nil {
		return nil
	}
	var body []ast.Stmt
	for _, child := range namedChildren(n) {
		if s := c.stmt(child); s != nil {
			body = append(body, s)
		}
	}
	return body
}

func (c *converter) stmt(n *sitter.Node) ast.Stmt {
	switch n.Type() {
	case "expression_statement":
		return c.expressionStatement(n)
	case "import_statement":
		return &ast.Import{Names: c.aliases(namedChildren(n))}
	case "future_import_statement":
		return &ast.ImportFrom{Module: "__future__", Names: c.aliases(namedChildren(n))}
	case "import_from_statement":
		return c.importFrom(n)
	case "assert_statement":
		exprs := namedChildren(n)
		s := &ast.Assert{Test: c.expr(exprs[0])}
		if len(exprs) > 1 {
			s.Msg = c.expr(exprs[1])
		}
		return s
	case "return_statement":
		s := &ast.Return{}
		if exprs := namedChildren(n); len(exprs) > 0 {
			s.Value = c.expr(exprs[0])
		}
		return s
	case "delete_statement":
		exprs := namedChildren(n)
		if len(exprs) == 1 && exprs[0].Type() == "expression_list" {
			return &ast.Delete{Targets: c.exprs(namedChildren(exprs[0]))}
		}
		return &ast.Delete{Targets: c.exprs(exprs)}
	case "raise_statement":
		s := &ast.Raise{}
		cause := n.ChildByFieldName("cause")
		for _, child := range namedChildren(n) {
			if sameNode(child, cause) {
				s.Cause = c.expr(child)
			} else {
				s.Exc = c.expr(child)
			}
		}
		return s
	case "pass_statement":
		return &ast.Pass{}
	case "break_statement":
		return &ast.Break{}
	case "continue_statement":
		return &ast.Continue{}
	case "global_statement":
		return &ast.Global{Names: c.identifiers(n)}
	case "nonlocal_statement":
		return &ast.Nonlocal{Names: c.identifiers(n)}
	case "if_statement":
		return c.ifStatement(n)
	case "for_statement":
		return &ast.For{
			Target:  c.expr(n.ChildByFieldName("left")),
			Iter:    c.expr(n.ChildByFieldName("right")),
			Body:    c.block(n.ChildByFieldName("body")),
			Orelse:  c.elseBody(n.ChildByFieldName("alternative")),
			IsAsync: isAsync(n),
		}
	case "while_statement":
		return &ast.While{
			Test:   c.expr(n.ChildByFieldName("condition")),
			Body:   c.block(n.ChildByFieldName("body")),
			Orelse: c.elseBody(n.ChildByFieldName("alternative")),
		}
	case "try_statement":
		return c.tryStatement(n)
	case "with_statement":
		return c.withStatement(n)
	case "function_definition":
		return c.functionDef(n, nil)
	case "class_definition":
		return c.classDef(n, nil)
	case "decorated_definition":
		return c.decorated(n)
	case "match_statement":
		return c.matchStatement(n)
	}
	c.fail(n, "unsupported statement %s", n.Type())
	return nil
}

func isAsync(n *sitter.Node) bool {
	first := n.Child(0)
	return first != nil && first.Type() == "async"
}

func (c *converter) identifiers(n *sitter.Node) []string {
	var names []string
	for _, child := range namedChildren(n) {
		names = append(names, c.text(child))
	}
	return names
}

// dotted returns a dotted_name without any interior whitespace.
func (c *converter) dotted(n *sitter.Node) string {
	return strings.Join(strings.Fields(c.text(n)), "")
}

func (c *converter) aliases(nodes []*sitter.Node) []*ast.Alias {
	var out []*ast.Alias
	for _, n := range nodes {
		switch n.Type() {
		case "aliased_import":
			out = append(out, &ast.Alias{
				Name:   c.dotted(n.ChildByFieldName("name")),
				AsName: c.text(n.ChildByFieldName("alias")),
			})
		case "wildcard_import":
			out = append(out, &ast.Alias{Name: "*"})
		default:
			out = append(out, &ast.Alias{Name: c.dotted(n)})
		}
	}
	return out
}

func (c *converter) importFrom(n *sitter.Node) ast.Stmt {
	s := &ast.ImportFrom{}
	module := n.ChildByFieldName("module_name")
	if module != nil && module.Type() == "relative_import" {
		for _, part := range namedChildren(module) {
			switch part.Type() {
			case "import_prefix":
				s.Level = strings.Count(c.text(part), ".")
			case "dotted_name":
				s.Module = c.dotted(part)
			}
		}
	} else if module != nil {
		s.Module = c.dotted(module)
	}

	var names []*sitter.Node
	for _, child := range namedChildren(n) {
		if !sameNode(child, module) {
			names = append(names, child)
		}
	}
	s.Names = c.aliases(names)
	return s
}

func (c *converter) expressionStatement(n *sitter.Node) ast.Stmt {
	exprs := namedChildren(n)
	if len(exprs) == 1 {
		switch exprs[0].Type() {
		case "assignment":
			return c.assignment(exprs[0])
		case "augmented_assignment":
			return c.augAssignment(exprs[0])
		}
		if !hasToken(n, ",") {
			return &ast.ExprStmt{Value: c.expr(exprs[0])}
		}
	}
	return &ast.ExprStmt{Value: &ast.Tuple{Elts: c.exprs(exprs)}}
}

func (c *converter) assignment(n *sitter.Node) ast.Stmt {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if typ := n.ChildByFieldName("type"); typ != nil {
		s := &ast.AnnAssign{
			Target:     c.expr(left),
			Annotation: c.typeExpr(typ),
			Simple:     left.Type() == "identifier",
		}
		if right != nil {
			s.Value = c.expr(right)
		}
		return s
	}

	s := &ast.Assign{Targets: []ast.Expr{c.expr(left)}}
	for right != nil && right.Type() == "assignment" {
		if right.ChildByFieldName("type") != nil {
			c.fail(right, "annotated target in chained assignment")
			return nil
		}
		s.Targets = append(s.Targets, c.expr(right.ChildByFieldName("left")))
		right = right.ChildByFieldName("right")
	}
	if right == nil || right.Type() == "augmented_assignment" {
		c.fail(n, "invalid assignment")
		return nil
	}
	s.Value = c.expr(right)
	return s
}

func (c *converter) augAssignment(n *sitter.Node) ast.Stmt {
	opNode := n.ChildByFieldName("operator")
	op, ok := token.BinaryOpFromString(opNode.Type())
	if !ok {
		c.fail(opNode, "unknown operator %s", opNode.Type())
		return nil
	}
	return &ast.AugAssign{
		Target: c.expr(n.ChildByFieldName("left")),
		Op:     op,
		Value:  c.expr(n.ChildByFieldName("right")),
	}
}

func (c *converter) ifStatement(n *sitter.Node) ast.Stmt {
	root := &ast.If{
		Test: c.expr(n.ChildByFieldName("condition")),
		Body: c.block(n.ChildByFieldName("consequence")),
	}
	tail := root
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "elif_clause":
			elif := &ast.If{
				Test: c.expr(child.ChildByFieldName("condition")),
				Body: c.block(child.ChildByFieldName("consequence")),
			}
			tail.Orelse = []ast.Stmt{elif}
			tail = elif
		case "else_clause":
			tail.Orelse = c.block(child.ChildByFieldName("body"))
		}
	}
	return root
}

func (c *converter) elseBody(n *sitter.Node) []ast.Stmt {
	if n == nil {
		return nil
	}
	return c.block(n.ChildByFieldName("body"))
}

// suite returns the block child of a clause.
func suite(n *sitter.Node) *sitter.Node {
	for _, child := range namedChildren(n) {
		if child.Type() == "block" {
			return child
		}
	}
	return nil
}

func (c *converter) tryStatement(n *sitter.Node) ast.Stmt {
	s := &ast.Try{Body: c.block(n.ChildByFieldName("body"))}
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "except_clause", "except_group_clause":
			s.IsStar = child.Type() == "except_group_clause"
			s.Handlers = append(s.Handlers, c.exceptHandler(child))
		case "else_clause":
			s.Orelse = c.block(child.ChildByFieldName("body"))
		case "finally_clause":
			s.Finalbody = c.block(suite(child))
		}
	}
	return s
}

func (c *converter) exceptHandler(n *sitter.Node) *ast.ExceptHandler {
	h := &ast.ExceptHandler{}
	var exprs []*sitter.Node
	for _, child := range namedChildren(n) {
		if child.Type() == "block" {
			h.Body = c.block(child)
		} else {
			exprs = append(exprs, child)
		}
	}
	if len(exprs) == 1 && exprs[0].Type() == "as_pattern" {
		inner := namedChildren(exprs[0])
		exprs = []*sitter.Node{inner[0], inner[len(inner)-1]}
	}
	if len(exprs) > 0 {
		h.Type = c.expr(exprs[0])
	}
	if len(exprs) > 1 {
		h.Name = c.text(exprs[1])
	}
	return h
}

func (c *converter) withStatement(n *sitter.Node) ast.Stmt {
	s := &ast.With{Body: c.block(n.ChildByFieldName("body")), IsAsync: isAsync(n)}
	for _, child := range namedChildren(n) {
		if child.Type() != "with_clause" {
			continue
		}
		for _, item := range namedChildren(child) {
			if item.Type() == "with_item" {
				s.Items = append(s.Items, c.withItems(item)...)
			}
		}
	}
	return s
}

func (c *converter) withItems(n *sitter.Node) []*ast.WithItem {
	value := n.ChildByFieldName("value")
	if value == nil {
		value = namedChildren(n)[0]
	}
	return c.withValue(value)
}

// withValue lowers one with_item value. Parenthesized items such as
// "with (a as b, c as d):" arrive as a parenthesized expression or a tuple
// of as_patterns and are split into separate items.
func (c *converter) withValue(value *sitter.Node) []*ast.WithItem {
	switch value.Type() {
	case "as_pattern":
		parts := namedChildren(value)
		return []*ast.WithItem{{
			ContextExpr:  c.expr(parts[0]),
			OptionalVars: c.expr(parts[len(parts)-1]),
		}}
	case "parenthesized_expression":
		if inner := namedChildren(value); len(inner) == 1 && holdsAsPattern(inner[0]) {
			return c.withValue(inner[0])
		}
	case "tuple":
		elems := namedChildren(value)
		if slices.ContainsFunc(elems, holdsAsPattern) {
			var items []*ast.WithItem
			for _, e := range elems {
				items = append(items, c.withValue(e)...)
			}
			return items
		}
	}
	return []*ast.WithItem{{ContextExpr: c.expr(value)}}
}

func holdsAsPattern(n *sitter.Node) bool {
	switch n.Type() {
	case "as_pattern":
		return true
	case "parenthesized_expression", "tuple":
		return slices.ContainsFunc(namedChildren(n), holdsAsPattern)
	}
	return false
}

func (c *converter) decorated(n *sitter.Node) ast.Stmt {
	var decorators []ast.Expr
	for _, child := range namedChildren(n) {
		if child.Type() == "decorator" {
			decorators = append(decorators, c.expr(namedChildren(child)[0]))
		}
	}
	def := n.ChildByFieldName("definition")
	switch def.Type() {
	case "function_definition":
		return c.functionDef(def, decorators)
	case "class_definition":
		return c.classDef(def, decorators)
	}
	c.fail(def, "unsupported decorated %s", def.Type())
	return nil
}

func (c *converter) functionDef(n *sitter.Node, decorators []ast.Expr) ast.Stmt {
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		c.fail(tp, "type parameter lists are not supported")
		return nil
	}
	s := &ast.FunctionDef{
		Name:       c.text(n.ChildByFieldName("name")),
		Args:       c.parameters(n.ChildByFieldName("parameters")),
		Body:       c.block(n.ChildByFieldName("body")),
		Decorators: decorators,
		IsAsync:    isAsync(n),
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		s.Returns = c.typeExpr(ret)
	}
	return s
}

func (c *converter) classDef(n *sitter.Node, decorators []ast.Expr) ast.Stmt {
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		c.fail(tp, "type parameter lists are not supported")
		return nil
	}
	s := &ast.ClassDef{
		Name:       c.text(n.ChildByFieldName("name")),
		Body:       c.block(n.ChildByFieldName("body")),
		Decorators: decorators,
	}
	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		s.Bases, s.Keywords = c.arguments(supers)
	}
	return s
}
