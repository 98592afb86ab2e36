package config

import (
	"fmt"

	"github.com/leapstack-labs/pyshrink/internal/engine"
	"github.com/leapstack-labs/pyshrink/pkg/ast"
	core "github.com/leapstack-labs/pyshrink/pkg/config"
	"github.com/leapstack-labs/pyshrink/pkg/pyversion"
	"github.com/leapstack-labs/pyshrink/pkg/replace"
)

// ToCore builds the shrink configuration the engine clones for each module.
func (c *Config) ToCore() (*core.Config, error) {
	out := core.New()

	if c.TargetVersion != "" {
		v, err := pyversion.Parse(c.TargetVersion)
		if err != nil {
			return nil, fmt.Errorf("target_version: %w", err)
		}
		out.TargetVersion = &v
	}

	for _, set := range []struct {
		dst   *core.TokenSet
		names []string
	}{
		{out.Tokens.Functions, c.Tokens.Functions},
		{out.Tokens.Classes, c.Tokens.Classes},
		{out.Tokens.Variables, c.Tokens.Variables},
		{out.Tokens.DictKeys, c.Tokens.DictKeys},
		{out.Tokens.Decorators, c.Tokens.Decorators},
		{out.Tokens.FromImports, c.Tokens.FromImports},
		{out.Tokens.ModuleImports, c.Tokens.ModuleImports},
	} {
		for _, name := range set.names {
			set.dst.Add(name)
		}
	}
	for _, name := range c.Tokens.NoWarn {
		out.Tokens.NoWarn[name] = struct{}{}
	}

	hints := core.TypeHintsNone
	if c.TokenTypes.TypeHints != "" {
		var err error
		if hints, err = core.ParseTypeHints(c.TokenTypes.TypeHints); err != nil {
			return nil, fmt.Errorf("token_types.type_hints: %w", err)
		}
	}
	out.TokenTypes = core.TokenTypes{
		TypeHints:           hints,
		Asserts:             c.TokenTypes.Asserts,
		DanglingExpressions: c.TokenTypes.DanglingExpressions,
		OverloadFunctions:   c.TokenTypes.OverloadFunctions,
	}
	out.Sections = core.Sections{NameEqualsMain: c.Sections.NameEqualsMain}

	o := c.Optimizations
	out.Optimizations.FoldConstants = o.FoldConstants
	out.Optimizations.RemoveUnusedImports = o.RemoveUnusedImports
	out.Optimizations.AssumeThisMachine = o.AssumeThisMachine
	out.Optimizations.SimplifyNamedTuples = o.SimplifyNamedTuples
	out.Optimizations.RemoveTypingCast = o.RemoveTypingCast
	out.Optimizations.CollectionConcatToUnpack = o.CollectionConcatToUnpack

	for name, raw := range o.VarsToFold {
		v, err := ast.ValueOf(raw)
		if err != nil {
			return nil, fmt.Errorf("optimizations.vars_to_fold.%s: %w", name, err)
		}
		out.Optimizations.VarsToFold[name] = v
	}
	for enum, members := range o.EnumsToFold {
		m := make(map[string]ast.Value, len(members))
		for member, raw := range members {
			v, err := ast.ValueOf(raw)
			if err != nil {
				return nil, fmt.Errorf("optimizations.enums_to_fold.%s.%s: %w", enum, member, err)
			}
			m[member] = v
		}
		out.Optimizations.EnumsToFold[enum] = m
	}

	return out, nil
}

// EngineConfig returns the engine settings. The logger is left for the
// caller to set.
func (c *Config) EngineConfig() engine.Config {
	reps := make([]engine.Replacement, len(c.Replacements))
	for i, r := range c.Replacements {
		reps[i] = engine.Replacement{
			Replacement: replace.Replacement{
				Pattern:     r.Pattern,
				Replacement: r.Replacement,
				Count:       r.Count,
			},
			Files: r.Files,
		}
	}
	return engine.Config{
		Jobs:         c.Jobs,
		OutDir:       c.OutDir,
		InPlace:      c.InPlace,
		Replacements: reps,
		RequireMatch: c.RequireMatch,
	}
}
