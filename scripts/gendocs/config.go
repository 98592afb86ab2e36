package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/pyshrink/internal/cli/config"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Section     string
}

// configSections orders the sections of the reference page.
var configSections = []struct {
	key, title, intro string
}{
	{"", "General", "Top-level settings controlling where output goes and how it is reported."},
	{"tokens", "Removals", "Identifiers whose definitions and uses are removed. A name that is never found is reported."},
	{"token_types", "Syntax Removal", "Whole kinds of syntax to strip."},
	{"sections", "Sections", "Well-known blocks to drop."},
	{"optimizations", "Optimizations", "Rewrites applied to every module."},
	{"replacements", "Replacements", "Regular-expression substitutions run over the shrunk output, as a list."},
}

// getConfigSchema returns the configuration schema definition.
// It follows internal/cli/config/types.go.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "target_version", Type: "string", Description: "Oldest Python version the output must run on, e.g. `3.8`", Section: ""},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Log debug details to stderr", Section: ""},
		{Name: "output_format", Type: "string", Default: config.DefaultOutput, Description: "Report format: auto, text, markdown or json", Section: ""},
		{Name: "jobs", Type: "int", Default: "0", Description: "Files processed at once; 0 uses every CPU", Section: ""},
		{Name: "out_dir", Type: "string", Description: "Directory receiving a mirror of the input tree", Section: ""},
		{Name: "in_place", Type: "bool", Default: "false", Description: "Overwrite each input file", Section: ""},
		{Name: "require_match", Type: "bool", Default: "false", Description: "Fail a file when one of its replacements never applied", Section: ""},

		{Name: "functions", Type: "[]string", Description: "Functions to remove, with their calls", Section: "tokens"},
		{Name: "classes", Type: "[]string", Description: "Classes to remove, with their uses", Section: "tokens"},
		{Name: "variables", Type: "[]string", Description: "Variables to remove, with their assignments", Section: "tokens"},
		{Name: "dict_keys", Type: "[]string", Description: "Keys to drop from dict literals", Section: "tokens"},
		{Name: "decorators", Type: "[]string", Description: "Decorators to strip", Section: "tokens"},
		{Name: "from_imports", Type: "[]string", Description: "Names to drop from `from` imports", Section: "tokens"},
		{Name: "module_imports", Type: "[]string", Description: "Modules whose imports are dropped", Section: "tokens"},
		{Name: "no_warn", Type: "[]string", Description: "Names never reported when unmatched", Section: "tokens"},

		{Name: "type_hints", Type: "string", Default: config.DefaultTypeHints, Description: "Annotations to strip: none, all or all_but_class_vars", Section: "token_types"},
		{Name: "asserts", Type: "bool", Default: "false", Description: "Remove assert statements", Section: "token_types"},
		{Name: "dangling_expressions", Type: "bool", Default: "true", Description: "Remove expression statements without effect, including docstrings", Section: "token_types"},
		{Name: "overload_functions", Type: "bool", Default: "false", Description: "Remove `@overload` stubs", Section: "token_types"},

		{Name: "name_equals_main", Type: "bool", Default: "false", Description: "Remove `if __name__ == '__main__'` blocks", Section: "sections"},

		{Name: "fold_constants", Type: "bool", Default: "true", Description: "Evaluate constant expressions", Section: "optimizations"},
		{Name: "vars_to_fold", Type: "map[string]any", Description: "Module variables replaced by a literal value", Section: "optimizations"},
		{Name: "enums_to_fold", Type: "map[string]map[string]any", Description: "Enum members replaced by a literal value", Section: "optimizations"},
		{Name: "remove_unused_imports", Type: "bool", Default: "true", Description: "Drop imports whose names are never used", Section: "optimizations"},
		{Name: "assume_this_machine", Type: "bool", Default: "false", Description: "Fold platform checks for the current machine", Section: "optimizations"},
		{Name: "simplify_named_tuples", Type: "bool", Default: "false", Description: "Turn `NamedTuple` classes into `namedtuple` calls", Section: "optimizations"},
		{Name: "remove_typing_cast", Type: "bool", Default: "false", Description: "Replace `cast(T, x)` by `x`", Section: "optimizations"},
		{Name: "collection_concat_to_unpack", Type: "bool", Default: "false", Description: "Rewrite list and tuple concatenation as unpacking", Section: "optimizations"},

		{Name: "pattern", Type: "string", Description: "Regular expression, required", Section: "replacements"},
		{Name: "replacement", Type: "string", Description: "Replacement text; `$1` refers to a group", Section: "replacements"},
		{Name: "count", Type: "int", Default: "1", Description: "Matches to replace; negative replaces all", Section: "replacements"},
		{Name: "files", Type: "[]string", Description: "Glob patterns selecting the files; empty selects every file", Section: "replacements"},
	}
}

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "pyshrink configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("pyshrink reads %s from the working directory, or the file named by %s.",
		InlineCode(config.DefaultConfigFile), InlineCode("--config")))

	fields := getConfigSchema()
	headers := []string{"Field", "Type", "Default", "Description"}
	for _, section := range configSections {
		w.Header(2, section.title)
		w.Paragraph(section.intro)

		var rows [][]string
		for _, f := range fields {
			if f.Section != section.key {
				continue
			}
			name := f.Name
			if section.key != "" && section.key != "replacements" {
				name = section.key + "." + name
			}
			defVal := "-"
			if f.Default != "" {
				defVal = InlineCode(f.Default)
			}
			rows = append(rows, []string{InlineCode(name), f.Type, defVal, f.Description})
		}
		w.Table(headers, rows)
	}

	w.Header(2, "Example")
	w.CodeBlock("yaml", `target_version: "3.8"
out_dir: dist
tokens:
  functions: [debug_log]
token_types:
  asserts: true
optimizations:
  vars_to_fold:
    DEBUG: false
replacements:
  - pattern: "__version__='dev'"
    replacement: "__version__='1.0'"
    files: ["version.py"]`)

	log.Printf("  Generated configuration.md")
	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
