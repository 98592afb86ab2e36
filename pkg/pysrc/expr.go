package pysrc

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

// placeholder stands in for an expression that failed to convert.
var placeholder = &ast.Name{ID: "_"}

func (c *converter) exprs(nodes []*sitter.Node) []ast.Expr {
	out := make([]ast.Expr, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, c.expr(n))
	}
	return out
}

func (c *converter) expr(n *sitter.Node) ast.Expr {
	if n == nil {
		return placeholder
	}
	switch n.Type() {
	case "identifier", "keyword_identifier":
		return &ast.Name{ID: c.text(n)}
	case "integer", "float":
		v, err := parseNumber(c.text(n))
		if err != nil {
			c.fail(n, "%v", err)
			return placeholder
		}
		return ast.NewConstant(v)
	case "string", "concatenated_string":
		return c.stringLiteral(n)
	case "true":
		return ast.NewConstant(ast.Bool(true))
	case "false":
		return ast.NewConstant(ast.Bool(false))
	case "none":
		return ast.NewConstant(ast.None{})
	case "ellipsis":
		return ast.NewConstant(ast.Ellipsis{})
	case "parenthesized_expression":
		inner := namedChildren(n)
		if len(inner) != 1 {
			c.fail(n, "invalid parenthesized expression")
			return placeholder
		}
		return c.expr(inner[0])
	case "as_pattern_target":
		if inner := namedChildren(n); len(inner) == 1 {
			return c.expr(inner[0])
		}
		return &ast.Name{ID: c.text(n)}
	case "tuple", "expression_list", "pattern_list", "tuple_pattern":
		return &ast.Tuple{Elts: c.elements(n)}
	case "list", "list_pattern":
		return &ast.List{Elts: c.elements(n)}
	case "set":
		return &ast.Set{Elts: c.elements(n)}
	case "dictionary":
		return c.dictionary(n)
	case "list_splat", "list_splat_pattern", "parenthesized_list_splat":
		inner := namedChildren(n)
		if len(inner) != 1 {
			c.fail(n, "invalid starred expression")
			return placeholder
		}
		value := c.expr(inner[0])
		if star, ok := value.(*ast.Starred); ok {
			return star
		}
		return &ast.Starred{Value: value}
	case "binary_operator":
		return c.binaryOperator(n)
	case "unary_operator":
		opNode := n.ChildByFieldName("operator")
		op := map[string]token.UnaryOp{"+": token.UAdd, "-": token.USub, "~": token.Invert}[opNode.Type()]
		return &ast.UnaryOp{Op: op, Operand: c.expr(n.ChildByFieldName("argument"))}
	case "not_operator":
		return &ast.UnaryOp{Op: token.Not, Operand: c.expr(n.ChildByFieldName("argument"))}
	case "boolean_operator":
		return c.booleanOperator(n)
	case "comparison_operator":
		return c.comparison(n)
	case "lambda":
		return &ast.Lambda{
			Args: c.parameters(n.ChildByFieldName("parameters")),
			Body: c.expr(n.ChildByFieldName("body")),
		}
	case "conditional_expression":
		parts := namedChildren(n)
		if len(parts) != 3 {
			c.fail(n, "invalid conditional expression")
			return placeholder
		}
		return &ast.IfExp{Body: c.expr(parts[0]), Test: c.expr(parts[1]), Orelse: c.expr(parts[2])}
	case "named_expression":
		return &ast.NamedExpr{
			Target: c.expr(n.ChildByFieldName("name")),
			Value:  c.expr(n.ChildByFieldName("value")),
		}
	case "await":
		return &ast.Await{Value: c.expr(namedChildren(n)[0])}
	case "yield":
		inner := namedChildren(n)
		if hasToken(n, "from") {
			return &ast.YieldFrom{Value: c.expr(inner[0])}
		}
		if len(inner) == 0 {
			return &ast.Yield{}
		}
		return &ast.Yield{Value: c.expr(inner[0])}
	case "attribute":
		return &ast.Attribute{
			Value: c.expr(n.ChildByFieldName("object")),
			Attr:  c.text(n.ChildByFieldName("attribute")),
		}
	case "subscript":
		return c.subscript(n)
	case "slice":
		return c.slice(n)
	case "call":
		return c.call(n)
	case "list_comprehension":
		return &ast.ListComp{Elt: c.expr(n.ChildByFieldName("body")), Generators: c.comprehensions(n)}
	case "set_comprehension":
		return &ast.SetComp{Elt: c.expr(n.ChildByFieldName("body")), Generators: c.comprehensions(n)}
	case "generator_expression":
		return &ast.GeneratorExp{Elt: c.expr(n.ChildByFieldName("body")), Generators: c.comprehensions(n)}
	case "dictionary_comprehension":
		pair := n.ChildByFieldName("body")
		return &ast.DictComp{
			Key:        c.expr(pair.ChildByFieldName("key")),
			Value:      c.expr(pair.ChildByFieldName("value")),
			Generators: c.comprehensions(n),
		}
	case "type":
		return c.typeExpr(n)
	}
	c.fail(n, "unsupported expression %s", n.Type())
	return placeholder
}

// elements converts the items of a tuple, list or set display.
func (c *converter) elements(n *sitter.Node) []ast.Expr {
	return c.exprs(namedChildren(n))
}

func (c *converter) dictionary(n *sitter.Node) ast.Expr {
	d := &ast.Dict{}
	for _, item := range namedChildren(n) {
		switch item.Type() {
		case "pair":
			d.Keys = append(d.Keys, c.expr(item.ChildByFieldName("key")))
			d.Values = append(d.Values, c.expr(item.ChildByFieldName("value")))
		case "dictionary_splat":
			d.Keys = append(d.Keys, nil)
			d.Values = append(d.Values, c.expr(namedChildren(item)[0]))
		default:
			c.fail(item, "unexpected %s in dict display", item.Type())
		}
	}
	return d
}

func (c *converter) binaryOperator(n *sitter.Node) ast.Expr {
	opNode := n.ChildByFieldName("operator")
	op, ok := token.BinaryOpFromString(opNode.Type())
	if !ok {
		c.fail(opNode, "unknown operator %s", opNode.Type())
		return placeholder
	}
	return &ast.BinOp{
		Left:  c.expr(n.ChildByFieldName("left")),
		Op:    op,
		Right: c.expr(n.ChildByFieldName("right")),
	}
}

func (c *converter) booleanOperator(n *sitter.Node) ast.Expr {
	op := token.And
	if n.ChildByFieldName("operator").Type() == "or" {
		op = token.Or
	}
	left := c.expr(n.ChildByFieldName("left"))
	right := c.expr(n.ChildByFieldName("right"))

	// a or b or c groups to the left; flatten it into one chain.
	if inner, ok := left.(*ast.BoolOp); ok && inner.Op == op && n.ChildByFieldName("left").Type() == "boolean_operator" {
		inner.Values = append(inner.Values, right)
		return inner
	}
	return &ast.BoolOp{Op: op, Values: []ast.Expr{left, right}}
}

func (c *converter) comparison(n *sitter.Node) ast.Expr {
	cmp := &ast.Compare{}
	pending := ""
	for _, child := range children(n) {
		if child.IsNamed() {
			if pending == "is" {
				if !c.addCmpOp(cmp, child, "is") {
					return placeholder
				}
				pending = ""
			}
			operand := c.expr(child)
			if cmp.Left == nil {
				cmp.Left = operand
			} else {
				cmp.Comparators = append(cmp.Comparators, operand)
			}
			continue
		}
		text := child.Type()
		// Older grammars split "not in" and "is not" into two tokens.
		if text == "not" && pending == "" {
			pending = "not"
			continue
		}
		if text == "not" && pending == "is" {
			text = "is not"
		} else if pending == "not" {
			text = "not " + text
		} else if text == "is" {
			pending = "is"
			continue
		}
		pending = ""
		if !c.addCmpOp(cmp, child, text) {
			return placeholder
		}
	}
	return cmp
}

func (c *converter) addCmpOp(cmp *ast.Compare, n *sitter.Node, text string) bool {
	op, ok := token.CmpOpFromString(text)
	if !ok {
		c.fail(n, "unknown comparison %s", text)
		return false
	}
	cmp.Ops = append(cmp.Ops, op)
	return true
}

func (c *converter) subscript(n *sitter.Node) ast.Expr {
	value := n.ChildByFieldName("value")
	var items []*sitter.Node
	for _, child := range namedChildren(n) {
		if !sameNode(child, value) {
			items = append(items, child)
		}
	}
	s := &ast.Subscript{Value: c.expr(value)}
	if len(items) == 1 && !hasToken(n, ",") {
		s.Slice = c.expr(items[0])
	} else {
		s.Slice = &ast.Tuple{Elts: c.exprs(items)}
	}
	return s
}

func (c *converter) slice(n *sitter.Node) ast.Expr {
	var parts [3]ast.Expr
	idx := 0
	for _, child := range children(n) {
		if !child.IsNamed() {
			if child.Type() == ":" {
				idx++
			}
			continue
		}
		if idx < len(parts) {
			parts[idx] = c.expr(child)
		}
	}
	return &ast.Slice{Lower: parts[0], Upper: parts[1], Step: parts[2]}
}

func (c *converter) call(n *sitter.Node) ast.Expr {
	call := &ast.Call{Func: c.expr(n.ChildByFieldName("function"))}
	args := n.ChildByFieldName("arguments")
	if args.Type() == "generator_expression" {
		call.Args = []ast.Expr{c.expr(args)}
		return call
	}
	call.Args, call.Keywords = c.arguments(args)
	return call
}

// arguments converts an argument_list into positional and keyword parts.
func (c *converter) arguments(n *sitter.Node) ([]ast.Expr, []*ast.Keyword) {
	var args []ast.Expr
	var keywords []*ast.Keyword
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "keyword_argument":
			keywords = append(keywords, &ast.Keyword{
				Name:  c.text(child.ChildByFieldName("name")),
				Value: c.expr(child.ChildByFieldName("value")),
			})
		case "dictionary_splat":
			keywords = append(keywords, &ast.Keyword{Value: c.expr(namedChildren(child)[0])})
		default:
			args = append(args, c.expr(child))
		}
	}
	return args, keywords
}

func (c *converter) comprehensions(n *sitter.Node) []*ast.Comprehension {
	var gens []*ast.Comprehension
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "for_in_clause":
			left := child.ChildByFieldName("left")
			var iter *sitter.Node
			for _, part := range namedChildren(child) {
				if !sameNode(part, left) {
					iter = part
					break
				}
			}
			gens = append(gens, &ast.Comprehension{
				Target:  c.expr(left),
				Iter:    c.expr(iter),
				IsAsync: isAsync(child),
			})
		case "if_clause":
			if len(gens) == 0 {
				c.fail(child, "comprehension filter before any for clause")
				return nil
			}
			last := gens[len(gens)-1]
			last.Ifs = append(last.Ifs, c.expr(namedChildren(child)[0]))
		}
	}
	return gens
}

// typeExpr converts an annotation. Newer grammars wrap annotations in
// dedicated type nodes; they lower to the equivalent expression.
func (c *converter) typeExpr(n *sitter.Node) ast.Expr {
	if n.Type() != "type" {
		return c.typeChild(n)
	}
	inner := namedChildren(n)
	if len(inner) != 1 {
		c.fail(n, "invalid annotation")
		return placeholder
	}
	return c.typeChild(inner[0])
}

func (c *converter) typeChild(n *sitter.Node) ast.Expr {
	parts := namedChildren(n)
	switch n.Type() {
	case "generic_type":
		var base ast.Expr = &ast.Name{ID: "type"}
		var params []ast.Expr
		for _, part := range parts {
			if part.Type() == "type_parameter" {
				for _, t := range namedChildren(part) {
					params = append(params, c.typeExpr(t))
				}
			} else {
				base = c.expr(part)
			}
		}
		s := &ast.Subscript{Value: base}
		if len(params) == 1 {
			s.Slice = params[0]
		} else {
			s.Slice = &ast.Tuple{Elts: params}
		}
		return s
	case "union_type":
		return &ast.BinOp{Left: c.typeExpr(parts[0]), Op: token.BitOr, Right: c.typeExpr(parts[1])}
	case "member_type":
		return &ast.Attribute{Value: c.typeExpr(parts[0]), Attr: c.text(parts[1])}
	case "splat_type":
		if hasToken(n, "**") {
			c.fail(n, "unsupported annotation")
			return placeholder
		}
		return &ast.Starred{Value: c.expr(parts[0])}
	case "constrained_type":
		c.fail(n, "unsupported annotation")
		return placeholder
	}
	return c.expr(n)
}
