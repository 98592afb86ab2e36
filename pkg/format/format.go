package format

import (
	"fmt"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

// RenderError reports a tree that has no valid source form.
type RenderError struct {
	Node   string
	Reason string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("cannot render %s: %s", e.Node, e.Reason)
}

// Format prints a module. The output has no trailing newline and is empty
// for an empty module.
func Format(mod *ast.Module) (string, error) {
	p := newPrinter()
	p.formatBody(mod.Body)
	if p.err != nil {
		return "", p.err
	}
	return p.String(), nil
}

// Expr prints a single expression as it would appear on its own line.
func Expr(e ast.Expr) (string, error) {
	return exprAt(e, token.PrecYield)
}

func exprAt(e ast.Expr, prec token.Precedence) (string, error) {
	p := newPrinter()
	p.formatExpr(e, prec)
	if p.err != nil {
		return "", p.err
	}
	return p.String(), nil
}
