package pysrc

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
)

// parameters converts a parameters or lambda_parameters node. A nil node
// yields an empty list.
func (c *converter) parameters(n *sitter.Node) *ast.Arguments {
	args := &ast.Arguments{}
	if n == nil {
		return args
	}
	kwOnly := false
	add := func(arg *ast.Arg, def ast.Expr) {
		if kwOnly {
			args.KwOnly = append(args.KwOnly, arg)
			args.KwDefaults = append(args.KwDefaults, def)
			return
		}
		args.Args = append(args.Args, arg)
		if def != nil {
			args.Defaults = append(args.Defaults, def)
		}
	}

	for _, param := range namedChildren(n) {
		switch param.Type() {
		case "identifier":
			add(&ast.Arg{Name: c.text(param)}, nil)
		case "default_parameter":
			name := param.ChildByFieldName("name")
			if name.Type() != "identifier" {
				c.fail(name, "tuple parameters are not supported")
				return args
			}
			add(&ast.Arg{Name: c.text(name)}, c.expr(param.ChildByFieldName("value")))
		case "typed_default_parameter":
			add(&ast.Arg{
				Name:       c.text(param.ChildByFieldName("name")),
				Annotation: c.typeExpr(param.ChildByFieldName("type")),
			}, c.expr(param.ChildByFieldName("value")))
		case "typed_parameter":
			annotation := c.typeExpr(param.ChildByFieldName("type"))
			target := namedChildren(param)[0]
			switch target.Type() {
			case "list_splat_pattern":
				args.Vararg = &ast.Arg{Name: c.splatName(target), Annotation: annotation}
				kwOnly = true
			case "dictionary_splat_pattern":
				args.Kwarg = &ast.Arg{Name: c.splatName(target), Annotation: annotation}
			default:
				add(&ast.Arg{Name: c.text(target), Annotation: annotation}, nil)
			}
		case "list_splat_pattern":
			args.Vararg = &ast.Arg{Name: c.splatName(param)}
			kwOnly = true
		case "dictionary_splat_pattern":
			args.Kwarg = &ast.Arg{Name: c.splatName(param)}
		case "keyword_separator":
			kwOnly = true
		case "positional_separator":
			args.PosOnly = append(args.PosOnly, args.Args...)
			args.Args = nil
		default:
			c.fail(param, "unsupported parameter %s", param.Type())
			return args
		}
	}
	return args
}

func (c *converter) splatName(n *sitter.Node) string {
	inner := namedChildren(n)
	if len(inner) != 1 {
		c.fail(n, "invalid parameter")
		return ""
	}
	return c.text(inner[0])
}
