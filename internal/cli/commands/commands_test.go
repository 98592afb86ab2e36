// Package commands_test provides tests for CLI command creation.
package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/pyshrink/internal/cli/config"
)

// runCommand executes cmd on its own, with a fresh configuration loaded
// from its flags.
func runCommand(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SilenceUsage = true

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

var shrinkFlags = []string{
	"out", "in-place", "target-version", "jobs", "format", "remove-asserts", "type-hints",
	"no-fold", "keep-imports", "this-machine", "name-eq-main", "require-match",
}

func TestNewMinifyCommand(t *testing.T) {
	cmd := NewMinifyCommand()

	assert.Equal(t, "minify [paths...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range shrinkFlags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Equal(t, "j", cmd.Flags().Lookup("jobs").Shorthand)

	assert.NotEmpty(t, cmd.Aliases, "minify command should have aliases")
	assert.Equal(t, "shrink", cmd.Aliases[0])
}

func TestNewWatchCommand(t *testing.T) {
	cmd := NewWatchCommand()

	assert.Equal(t, "watch [paths...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	for _, flag := range append(shrinkFlags, "debounce") {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Equal(t, "100ms", cmd.Flags().Lookup("debounce").DefValue)
}

func TestNewFuturesCommand(t *testing.T) {
	cmd := NewFuturesCommand()

	assert.Equal(t, "futures", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("target-version"))
	assert.Nil(t, cmd.Flags().Lookup("out"), "futures does not shrink files")
}
