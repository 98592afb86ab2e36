// Package minify runs the complete shrinking pipeline on one module: parse,
// rewrite, sweep and print.
package minify

import (
	"context"
	"errors"
	"fmt"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/config"
	"github.com/leapstack-labs/pyshrink/pkg/format"
	"github.com/leapstack-labs/pyshrink/pkg/pysrc"
	"github.com/leapstack-labs/pyshrink/pkg/rewrite"
)

// Result is the shrunk source of one module.
type Result struct {
	Code        string
	Diagnostics []config.Diagnostic
}

// Source parses src and shrinks it. A nil cfg selects config.New().
func Source(ctx context.Context, src []byte, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		cfg = config.New()
	}
	mod, err := pysrc.Parse(ctx, src)
	if err != nil {
		return nil, wrap(cfg, err)
	}
	return Tree(mod, cfg)
}

// Tree shrinks an already parsed module. The module is modified in place.
func Tree(mod *ast.Module, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		cfg = config.New()
	}
	diags, err := rewrite.Module(mod, cfg)
	if err != nil {
		return nil, wrap(cfg, err)
	}
	code, err := format.Format(mod)
	if err != nil {
		return nil, wrap(cfg, err)
	}
	return &Result{Code: code, Diagnostics: diags}, nil
}

func wrap(cfg *config.Config, err error) error {
	var malformed *rewrite.MalformedInputError
	if cfg.ModuleName == "" || errors.As(err, &malformed) {
		return err
	}
	return fmt.Errorf("%s: %w", cfg.ModuleName, err)
}
