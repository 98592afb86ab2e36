// Package config provides configuration management for the pyshrink CLI.
//
// Settings come from built-in defaults, a pyshrink.yaml file, PYSHRINK_*
// environment variables and command-line flags, in increasing order of
// precedence. The result is converted to the core shrink configuration with
// ToCore.
package config

// Config holds all CLI configuration options.
type Config struct {
	TargetVersion string `koanf:"target_version"`
	Verbose       bool   `koanf:"verbose"`
	OutputFormat  string `koanf:"output_format"`
	Jobs          int    `koanf:"jobs"`
	OutDir        string `koanf:"out_dir"`
	InPlace       bool   `koanf:"in_place"`
	RequireMatch  bool   `koanf:"require_match"`

	Tokens        TokensConfig        `koanf:"tokens"`
	TokenTypes    TokenTypesConfig    `koanf:"token_types"`
	Sections      SectionsConfig      `koanf:"sections"`
	Optimizations OptimizationsConfig `koanf:"optimizations"`
	Replacements  []ReplacementConfig `koanf:"replacements"`
}

// TokensConfig lists identifiers whose definitions and uses are removed.
type TokensConfig struct {
	Functions     []string `koanf:"functions"`
	Classes       []string `koanf:"classes"`
	Variables     []string `koanf:"variables"`
	DictKeys      []string `koanf:"dict_keys"`
	Decorators    []string `koanf:"decorators"`
	FromImports   []string `koanf:"from_imports"`
	ModuleImports []string `koanf:"module_imports"`
	NoWarn        []string `koanf:"no_warn"`
}

// TokenTypesConfig toggles the removal of whole kinds of syntax.
type TokenTypesConfig struct {
	TypeHints           string `koanf:"type_hints"`
	Asserts             bool   `koanf:"asserts"`
	DanglingExpressions bool   `koanf:"dangling_expressions"`
	OverloadFunctions   bool   `koanf:"overload_functions"`
}

// SectionsConfig toggles the removal of well-known blocks.
type SectionsConfig struct {
	NameEqualsMain bool `koanf:"name_equals_main"`
}

// OptimizationsConfig selects the rewrites to apply.
type OptimizationsConfig struct {
	FoldConstants            bool                      `koanf:"fold_constants"`
	VarsToFold               map[string]any            `koanf:"vars_to_fold"`
	EnumsToFold              map[string]map[string]any `koanf:"enums_to_fold"`
	RemoveUnusedImports      bool                      `koanf:"remove_unused_imports"`
	AssumeThisMachine        bool                      `koanf:"assume_this_machine"`
	SimplifyNamedTuples      bool                      `koanf:"simplify_named_tuples"`
	RemoveTypingCast         bool                      `koanf:"remove_typing_cast"`
	CollectionConcatToUnpack bool                      `koanf:"collection_concat_to_unpack"`
}

// ReplacementConfig is a regular-expression substitution run over the
// shrunk output.
type ReplacementConfig struct {
	Pattern     string   `koanf:"pattern"`
	Replacement string   `koanf:"replacement"`
	Count       int      `koanf:"count"`
	Files       []string `koanf:"files"`
}

// Default configuration values.
const (
	DefaultConfigFile = "pyshrink.yaml"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultTypeHints  = "all_but_class_vars"
	EnvPrefix         = "PYSHRINK_"
)
