package commands

import (
	"fmt"
	"io"

	"github.com/leapstack-labs/pyshrink/internal/engine"
	"github.com/spf13/cobra"
)

// stdinName is the module name used for source read from standard input.
const stdinName = "<stdin>"

// NewMinifyCommand creates the minify command.
func NewMinifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "minify [paths...]",
		Short: "Shrink Python files",
		Long: `Shrink Python source files.

Directories are searched for .py files, skipping virtualenvs, caches,
hidden directories and anything listed in .gitignore. Use - to read a
single module from standard input.

Without --out or --in-place the shrunk code is printed to standard output.
With either, a savings report is printed instead.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Print the shrunk form of a module
  pyshrink minify app.py

  # Shrink a package into dist/, stripping asserts
  pyshrink minify src --out dist --remove-asserts

  # Shrink in place for Python 3.8 and later
  pyshrink minify src --in-place --target-version 3.8

  # Read from a pipe
  cat app.py | pyshrink minify -`,
		Aliases: []string{"shrink"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMinify(cmd, args)
		},
	}

	addShrinkFlags(cmd)
	return cmd
}

func runMinify(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 && args[0] == "-" {
		return minifyStdin(cmd, cmdCtx)
	}

	report, runErr := cmdCtx.Engine.Run(cmd.Context(), args)
	if report == nil {
		return runErr
	}

	if cmdCtx.Engine.Writes() {
		if err := renderReport(cmdCtx.Renderer, report); err != nil {
			return err
		}
	} else if err := renderCode(cmdCtx.Renderer, report); err != nil {
		return err
	}
	return runErr
}

func minifyStdin(cmd *cobra.Command, cmdCtx *CommandContext) error {
	if cmdCtx.Engine.Writes() {
		return fmt.Errorf("standard input cannot be combined with --out or --in-place")
	}
	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read standard input: %w", err)
	}
	code, diags, err := cmdCtx.Engine.Shrink(cmd.Context(), stdinName, src)
	if err != nil {
		return err
	}
	return renderCode(cmdCtx.Renderer, &engine.Report{Files: []*engine.FileResult{{
		Path:        stdinName,
		Code:        code,
		Before:      len(src),
		After:       len(code),
		Diagnostics: diags,
	}}})
}
