package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/pyversion"
)

func TestTokenSetCounts(t *testing.T) {
	s := NewTokenSet("foo", "bar")

	assert.True(t, s.Has("foo"))
	assert.Equal(t, 0, s.Matches("foo"), "Has must not count")

	assert.True(t, s.Contains("foo"))
	assert.True(t, s.Contains("foo"))
	assert.False(t, s.Contains("baz"))

	assert.Equal(t, 2, s.Matches("foo"))
	assert.Equal(t, []string{"bar"}, s.Unmatched())
	assert.Equal(t, []string{"bar", "foo"}, s.Names())
}

func TestNilTokenSet(t *testing.T) {
	var s *TokenSet
	assert.False(t, s.Contains("x"))
	assert.False(t, s.Has("x"))
	assert.Zero(t, s.Len())
	assert.Nil(t, s.Unmatched())
}

func TestUnmatchedDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		setup func(tk *Tokens)
		match func(tk *Tokens)
		want  []Diagnostic
	}{
		{
			name: "unused function reported once",
			setup: func(tk *Tokens) {
				tk.Functions.Add("foo")
			},
			want: []Diagnostic{{Module: "mod", Category: CategoryFunctions, Tokens: "foo"}},
		},
		{
			name: "no warn suppresses",
			setup: func(tk *Tokens) {
				tk.Functions.Add("foo")
				tk.NoWarn["foo"] = struct{}{}
			},
			want: nil,
		},
		{
			name: "matched entries are not reported",
			setup: func(tk *Tokens) {
				tk.Classes.Add("A")
				tk.Classes.Add("B")
			},
			match: func(tk *Tokens) {
				tk.Classes.Contains("A")
			},
			want: []Diagnostic{{Module: "mod", Category: CategoryClasses, Tokens: "B"}},
		},
		{
			name: "tokens are sorted and comma joined",
			setup: func(tk *Tokens) {
				tk.DictKeys.Add("zeta")
				tk.DictKeys.Add("alpha")
				tk.ModuleImports.Add("numpy")
			},
			want: []Diagnostic{
				{Module: "mod", Category: CategoryDictKeys, Tokens: "alpha,zeta"},
				{Module: "mod", Category: CategoryModuleImports, Tokens: "numpy"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := NewTokens()
			tt.setup(tk)
			if tt.match != nil {
				tt.match(tk)
			}
			assert.Equal(t, tt.want, tk.Unmatched("mod"))
		})
	}
}

func TestParseTypeHints(t *testing.T) {
	tests := []struct {
		input   string
		want    TypeHints
		wantErr bool
	}{
		{input: "none", want: TypeHintsNone},
		{input: "ALL", want: TypeHintsAll},
		{input: "all-but-class-vars", want: TypeHintsAllButClassVars},
		{input: "all_but_class_vars", want: TypeHintsAllButClassVars},
		{input: "some", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTypeHints(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, typeHintsNames[tt.want], got.String())
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := New()
	assert.True(t, cfg.Optimizations.FoldConstants)
	assert.True(t, cfg.Optimizations.RemoveUnusedImports)
	assert.True(t, cfg.TokenTypes.DanglingExpressions)
	assert.Equal(t, TypeHintsAllButClassVars, cfg.TokenTypes.TypeHints)
	assert.True(t, cfg.HasWork())
	assert.True(t, cfg.StripsTypeHints())

	assert.False(t, NoOp().HasWork())
	assert.False(t, NoOp().StripsTypeHints())
}

func TestCloneResetsCounters(t *testing.T) {
	cfg := New()
	v := pyversion.MustParse("3.8")
	cfg.TargetVersion = &v
	cfg.Tokens.Functions.Add("foo")
	cfg.Optimizations.VarsToFold["DEBUG"] = ast.Bool(false)
	cfg.Optimizations.EnumsToFold["Color"] = map[string]ast.Value{"RED": ast.NewInt(1)}

	cfg.Tokens.Functions.Contains("foo")
	clone := cfg.WithModule("pkg.mod")

	assert.Equal(t, "pkg.mod", clone.ModuleName)
	assert.Equal(t, 0, clone.Tokens.Functions.Matches("foo"))
	assert.Equal(t, 1, cfg.Tokens.Functions.Matches("foo"))

	clone.Optimizations.VarsToFold["OTHER"] = ast.None{}
	clone.Optimizations.EnumsToFold["Color"]["BLUE"] = ast.NewInt(2)
	clone.TargetVersion.Minor = 9
	assert.NotContains(t, cfg.Optimizations.VarsToFold, "OTHER")
	assert.NotContains(t, cfg.Optimizations.EnumsToFold["Color"], "BLUE")
	assert.Equal(t, 8, cfg.TargetVersion.Minor)
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Module: "pkg.mod", Category: CategoryFunctions, Tokens: "foo,bar"}
	assert.Equal(t, "pkg.mod: requested to skip functions foo,bar but none were found", d.String())

	d.Module = ""
	assert.Equal(t, "requested to skip functions foo,bar but none were found", d.String())
}
