// Package config defines the options that drive a shrink run: which
// identifiers to remove, which syntax to strip and which optimizations to
// apply.
//
// A Config is built once per file. It is read-only during a run except for
// the match counters of its removal sets, so concurrent runs must each use
// their own Clone.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/pyversion"
)

// TypeHints selects which annotations are stripped.
type TypeHints int

// Annotation stripping modes.
const (
	TypeHintsNone TypeHints = iota
	TypeHintsAll
	TypeHintsAllButClassVars
)

var typeHintsNames = map[TypeHints]string{
	TypeHintsNone:            "none",
	TypeHintsAll:             "all",
	TypeHintsAllButClassVars: "all_but_class_vars",
}

func (t TypeHints) String() string {
	if s, ok := typeHintsNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TypeHints(%d)", int(t))
}

// ParseTypeHints reads a mode name as written in configuration files.
func ParseTypeHints(s string) (TypeHints, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for mode, name := range typeHintsNames {
		if name == norm {
			return mode, nil
		}
	}
	return TypeHintsNone, fmt.Errorf("invalid type hints mode %q (expected none, all or all_but_class_vars)", s)
}

// TokenTypes toggles the removal of whole kinds of syntax.
type TokenTypes struct {
	TypeHints           TypeHints
	Asserts             bool
	DanglingExpressions bool
	OverloadFunctions   bool
}

// Sections toggles the removal of well-known code blocks.
type Sections struct {
	// NameEqualsMain removes `if __name__ == "__main__":` blocks.
	NameEqualsMain bool
}

// Optimizations toggles rewrites that inline or restructure code.
type Optimizations struct {
	FoldConstants bool

	// VarsToFold maps names to literals that replace every read of them.
	VarsToFold map[string]ast.Value

	// EnumsToFold maps an enum class name to its member values.
	EnumsToFold map[string]map[string]ast.Value

	RemoveUnusedImports bool

	// AssumeThisMachine inlines host facts such as sys.byteorder.
	AssumeThisMachine bool

	// SimplifyNamedTuples turns typing.NamedTuple classes into
	// collections.namedtuple calls.
	SimplifyNamedTuples bool

	// RemoveTypingCast replaces cast(T, v) with v.
	RemoveTypingCast bool

	// CollectionConcatToUnpack turns [1]+b into [1,*b].
	CollectionConcatToUnpack bool
}

// Config is the complete option set for one run.
type Config struct {
	// ModuleName identifies the file in diagnostics and errors.
	ModuleName string

	// TargetVersion is the oldest interpreter the output must run on.
	TargetVersion *pyversion.Version

	Tokens        *Tokens
	TokenTypes    TokenTypes
	Sections      Sections
	Optimizations Optimizations
}

// New returns a Config with the default options: fold constants, strip
// dangling expressions, strip all annotations but class-level ones and
// remove unused imports.
func New() *Config {
	return &Config{
		Tokens: NewTokens(),
		TokenTypes: TokenTypes{
			TypeHints:           TypeHintsAllButClassVars,
			DanglingExpressions: true,
		},
		Optimizations: Optimizations{
			FoldConstants:       true,
			VarsToFold:          make(map[string]ast.Value),
			EnumsToFold:         make(map[string]map[string]ast.Value),
			RemoveUnusedImports: true,
		},
	}
}

// NoOp returns a Config that changes nothing, so a run only re-serializes.
func NoOp() *Config {
	return &Config{
		Tokens: NewTokens(),
		Optimizations: Optimizations{
			VarsToFold:  make(map[string]ast.Value),
			EnumsToFold: make(map[string]map[string]ast.Value),
		},
	}
}

// Clone returns an independent copy with fresh match counters.
func (c *Config) Clone() *Config {
	out := *c
	out.Tokens = c.Tokens.clone()
	if c.TargetVersion != nil {
		v := *c.TargetVersion
		out.TargetVersion = &v
	}
	out.Optimizations.VarsToFold = make(map[string]ast.Value, len(c.Optimizations.VarsToFold))
	for k, v := range c.Optimizations.VarsToFold {
		out.Optimizations.VarsToFold[k] = v
	}
	out.Optimizations.EnumsToFold = make(map[string]map[string]ast.Value, len(c.Optimizations.EnumsToFold))
	for enum, members := range c.Optimizations.EnumsToFold {
		m := make(map[string]ast.Value, len(members))
		for k, v := range members {
			m[k] = v
		}
		out.Optimizations.EnumsToFold[enum] = m
	}
	return &out
}

// WithModule returns a clone carrying the given module name.
func (c *Config) WithModule(name string) *Config {
	out := c.Clone()
	out.ModuleName = name
	return out
}

// StripsTypeHints reports whether any annotation stripping is enabled.
func (c *Config) StripsTypeHints() bool {
	return c.TokenTypes.TypeHints != TypeHintsNone
}

// HasWork reports whether a rewrite pass could change anything.
func (c *Config) HasWork() bool {
	tt := c.TokenTypes
	o := c.Optimizations
	return !c.Tokens.Empty() ||
		c.TargetVersion != nil ||
		tt.TypeHints != TypeHintsNone || tt.Asserts || tt.DanglingExpressions || tt.OverloadFunctions ||
		c.Sections.NameEqualsMain ||
		o.FoldConstants || len(o.VarsToFold) > 0 || len(o.EnumsToFold) > 0 || o.RemoveUnusedImports ||
		o.AssumeThisMachine || o.SimplifyNamedTuples || o.RemoveTypingCast || o.CollectionConcatToUnpack
}

// Diagnostics reports the removal requests that never matched.
func (c *Config) Diagnostics() []Diagnostic {
	return c.Tokens.Unmatched(c.ModuleName)
}

// Diagnostic is a non-fatal report that a removal request never matched.
type Diagnostic struct {
	Module   string
	Category Category
	Tokens   string // comma-joined
}

func (d Diagnostic) String() string {
	if d.Module == "" {
		return fmt.Sprintf("requested to skip %s %s but none were found", d.Category, d.Tokens)
	}
	return fmt.Sprintf("%s: requested to skip %s %s but none were found", d.Module, d.Category, d.Tokens)
}
