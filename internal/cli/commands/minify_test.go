package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pyshrink/internal/cli/testutil"
	"github.com/leapstack-labs/pyshrink/pkg/pysrc"
)

func TestMinify_PrintsCode(t *testing.T) {
	dir := testutil.WriteModules(t, map[string]string{
		"main.py": "x = 2 * 3\nprint(x)\n",
	})

	out, _, err := runCommand(t, NewMinifyCommand(), "", filepath.Join(dir, "main.py"))
	require.NoError(t, err)
	assert.Equal(t, "x=6\nprint(x)\n", out)
}

func TestMinify_PrintsSeveralModules(t *testing.T) {
	dir := testutil.WriteModules(t, map[string]string{
		"a.py":     "a = 1\n",
		"pkg/b.py": "b = 2\n",
	})

	out, _, err := runCommand(t, NewMinifyCommand(), "", dir, "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, "# a.py\na=1\n# pkg/b.py\nb=2\n", out)
}

func TestMinify_Stdin(t *testing.T) {
	out, _, err := runCommand(t, NewMinifyCommand(), "assert ready()\ny = 1\n", "-", "--remove-asserts")
	require.NoError(t, err)
	assert.Equal(t, "y=1\n", out)

	_, _, err = runCommand(t, NewMinifyCommand(), "y = 1\n", "-", "--out", t.TempDir())
	assert.Error(t, err)
}

func TestMinify_OutDirJSON(t *testing.T) {
	dir := testutil.WriteModules(t, map[string]string{
		"app.py": "import os\n\ndef f(a: int) -> int:\n    return a + 1\n",
	})
	out := filepath.Join(t.TempDir(), "dist")

	stdout, _, err := runCommand(t, NewMinifyCommand(), "", dir, "--out", out, "--format", "json")
	require.NoError(t, err)

	var result MinifyOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.Len(t, result.Files, 1)
	assert.Equal(t, "app.py", result.Files[0].Path)
	assert.Equal(t, filepath.Join(out, "app.py"), result.Files[0].Output)
	assert.Empty(t, result.Files[0].Code, "code is not echoed when written")
	assert.Greater(t, result.Before, result.After)
	assert.Empty(t, result.Diagnostics)

	assert.Equal(t, "def f(a):return a+1", testutil.ReadModule(t, out, "app.py"))
}

func TestMinify_MarkdownReport(t *testing.T) {
	dir := testutil.WriteModules(t, map[string]string{
		"a.py": "value = 10 // 3\n",
	})

	stdout, _, err := runCommand(t, NewMinifyCommand(), "", dir, "--in-place", "--format", "markdown")
	require.NoError(t, err)

	testutil.AssertNoANSI(t, stdout)
	testutil.AssertValidMarkdown(t, stdout)
	testutil.AssertContains(t, stdout, "# Shrink Report")
	testutil.AssertContains(t, stdout, "| File |")
	testutil.AssertContains(t, stdout, "a.py")
	testutil.AssertNotContains(t, stdout, "Unmatched removals")
	assert.Equal(t, "value=3", testutil.ReadModule(t, dir, "a.py"))
}

func TestMinify_TextReportWithDiagnostics(t *testing.T) {
	dir := testutil.WriteModules(t, map[string]string{
		"pyshrink.yaml": "tokens:\n  variables: [absent]\n",
		"src/a.py":      "a = 1\n",
	})
	t.Chdir(dir)

	stdout, _, err := runCommand(t, NewMinifyCommand(), "", "src", "--out", "dist", "--format", "text")
	require.NoError(t, err)

	testutil.AssertContains(t, stdout, "Shrink Report")
	testutil.AssertContains(t, stdout, "TOTAL")
	testutil.AssertContains(t, stdout, "Unmatched removals")
	testutil.AssertContains(t, stdout, "Variables")
	testutil.AssertContains(t, stdout, "a.py: absent")
	assert.Equal(t, "a=1", testutil.ReadModule(t, dir, "dist/a.py"))
}

func TestMinify_StdinDiagnosticsGoToStderr(t *testing.T) {
	dir := testutil.WriteModules(t, map[string]string{
		"pyshrink.yaml": "tokens:\n  variables: [absent]\n",
	})
	t.Chdir(dir)

	stdout, stderr, err := runCommand(t, NewMinifyCommand(), "a = 1\n", "-")
	require.NoError(t, err)
	assert.Equal(t, "a=1\n", stdout)
	assert.Equal(t, "warning: <stdin>: requested to skip variables absent but none were found\n", stderr)
}

func TestMinify_Errors(t *testing.T) {
	dir := testutil.WriteModules(t, map[string]string{
		"bad.py":  "def f(:\n",
		"good.py": "g = 1\n",
	})

	stdout, _, err := runCommand(t, NewMinifyCommand(), "", dir)
	require.Error(t, err)
	var syntaxErr *pysrc.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
	assert.Contains(t, err.Error(), "bad.py")
	assert.Equal(t, "g=1\n", stdout, "the failing module is left out of the output")

	_, _, err = runCommand(t, NewMinifyCommand(), "", dir, "--type-hints", "some")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token_types.type_hints")

	_, _, err = runCommand(t, NewMinifyCommand(), "")
	assert.Error(t, err, "at least one path is required")
}
