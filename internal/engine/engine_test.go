package engine

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pyshrink/internal/testutil"
	"github.com/leapstack-labs/pyshrink/pkg/config"
	"github.com/leapstack-labs/pyshrink/pkg/pysrc"
	"github.com/leapstack-labs/pyshrink/pkg/replace"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newTestEngine(t *testing.T, base *config.Config, cfg Config) *Engine {
	t.Helper()
	cfg.Logger = testutil.NewTestLogger(t)
	e, err := New(base, cfg)
	require.NoError(t, err)
	return e
}

func TestNew(t *testing.T) {
	e := newTestEngine(t, nil, Config{})
	assert.Positive(t, e.jobs)
	assert.False(t, e.Writes())

	_, err := New(nil, Config{OutDir: "out", InPlace: true})
	assert.ErrorIs(t, err, ErrConflictingOutput)

	_, err = New(nil, Config{Replacements: []Replacement{{Replacement: replace.Replacement{Pattern: "("}}}})
	assert.Error(t, err)

	_, err = New(nil, Config{Replacements: []Replacement{{
		Replacement: replace.Replacement{Pattern: "x"},
		Files:       []string{"["},
	}}})
	assert.Error(t, err)
}

func TestRun_OutDir(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "pkg/__init__.py", "")
	writeFile(t, src, "pkg/mod.py", "import os\n\ndef f(a: int) -> int:\n    return a + 1\n")
	writeFile(t, src, "main.py", "x = 2 * 3\nprint(x)\n")
	out := filepath.Join(t.TempDir(), "dist")

	e := newTestEngine(t, config.New(), Config{OutDir: out, Jobs: 2})
	report, err := e.Run(context.Background(), []string{src})
	require.NoError(t, err)
	require.Len(t, report.Files, 3)

	assert.Equal(t, "x=6\nprint(x)", readFile(t, filepath.Join(out, "main.py")))
	assert.Equal(t, "def f(a):return a+1", readFile(t, filepath.Join(out, "pkg", "mod.py")))
	assert.Equal(t, "", readFile(t, filepath.Join(out, "pkg", "__init__.py")))

	before, after := report.Totals()
	assert.Greater(t, before, after)
	for _, f := range report.Files {
		assert.NotEmpty(t, f.Output)
		assert.GreaterOrEqual(t, f.Saved(), 0)
	}
}

func TestRun_InPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.py", "assert check()\nvalue = 1\n")

	base := config.New()
	base.TokenTypes.Asserts = true
	e := newTestEngine(t, base, Config{InPlace: true})

	report, err := e.Run(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "a.py", report.Files[0].Path)
	assert.Equal(t, "value=1", readFile(t, path))
}

func TestRun_NoWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.py", "y = (1, 2)\n")

	e := newTestEngine(t, nil, Config{})
	report, err := e.Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, "y=(1,2)", report.Files[0].Code)
	assert.Empty(t, report.Files[0].Output)
	assert.Equal(t, "y = (1, 2)\n", readFile(t, path))
}

func TestRun_FailuresDoNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.py", "def f(:\n")
	writeFile(t, dir, "good.py", "z = 1\n")

	e := newTestEngine(t, nil, Config{Jobs: 1})
	report, err := e.Run(context.Background(), []string{dir})
	require.Error(t, err)
	require.Len(t, report.Files, 2)

	var syntaxErr *pysrc.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
	assert.Contains(t, err.Error(), "bad.py")

	assert.Equal(t, "bad.py", report.Files[0].Path)
	assert.Error(t, report.Files[0].Err)
	assert.Equal(t, "z=1", report.Files[1].Code)
	assert.NoError(t, report.Files[1].Err)
}

func TestRun_Diagnostics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.py", "x = 1\n")

	base := config.New()
	base.Tokens.Functions.Add("missing")
	logger, logs := testutil.NewLogRecorder()
	e, err := New(base, Config{Logger: logger})
	require.NoError(t, err)

	report, err := e.Run(context.Background(), []string{dir})
	require.NoError(t, err)
	diags := report.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "m.py", diags[0].Module)
	assert.Equal(t, config.CategoryFunctions, diags[0].Category)
	assert.Equal(t, "missing", diags[0].Tokens)

	assert.Equal(t, []string{"removal request never matched"}, logs.Messages(slog.LevelWarn))
	assert.Equal(t, "missing", logs.Attr("removal request never matched", "tokens"))
	assert.Equal(t, []string{"starting run", "run completed"}, logs.Messages(slog.LevelInfo))
}

func TestRun_Replacements(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app/settings.py", "MODE = 'debug'\n")
	writeFile(t, dir, "app/other.py", "MODE = 'debug'\n")

	e := newTestEngine(t, nil, Config{
		Replacements: []Replacement{{
			Replacement: replace.Replacement{Pattern: "debug", Replacement: "release"},
			Files:       []string{"settings.py"},
		}},
		RequireMatch: true,
	})
	report, err := e.Run(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, report.Files, 2)
	assert.Equal(t, "app/other.py", report.Files[0].Path)
	assert.Equal(t, "MODE='debug'", report.Files[0].Code)
	assert.Equal(t, "MODE='release'", report.Files[1].Code)

	e = newTestEngine(t, nil, Config{
		Replacements: []Replacement{{Replacement: replace.Replacement{Pattern: "absent"}}},
		RequireMatch: true,
	})
	_, err = e.Run(context.Background(), []string{dir})
	var noMatch *replace.NoMatchError
	assert.ErrorAs(t, err, &noMatch)
}

func TestRun_SkipsOutDirInsideInput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "a = 1\n")
	writeFile(t, dir, "out/stale.py", "b = 2\n")

	e := newTestEngine(t, nil, Config{OutDir: filepath.Join(dir, "out")})
	report, err := e.Run(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "a.py", report.Files[0].Path)
}

func TestRun_MissingInput(t *testing.T) {
	e := newTestEngine(t, nil, Config{})
	_, err := e.Run(context.Background(), []string{filepath.Join(t.TempDir(), "nope.py")})
	assert.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "a = 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(t, nil, Config{})
	report, err := e.Run(ctx, []string{dir})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Files)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.py", "a = 1 + 1\n")
	out := filepath.Join(t.TempDir(), "out")

	e := newTestEngine(t, nil, Config{OutDir: out})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var runs int
	ran := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- e.Watch(ctx, []string{dir}, 10*time.Millisecond, func(_ *Report, err error) {
			assert.NoError(t, err)
			mu.Lock()
			runs++
			mu.Unlock()
			select {
			case ran <- struct{}{}:
			default:
			}
		})
	}()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the first run")
	}
	assert.Equal(t, "a=2", readFile(t, filepath.Join(out, "a.py")))

	require.NoError(t, os.WriteFile(path, []byte("a = 3 * 3\n"), 0o644))
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(filepath.Join(out, "a.py"))
		return err == nil && string(data) == "a=9"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	mu.Lock()
	assert.GreaterOrEqual(t, runs, 2)
	mu.Unlock()
}

func TestShrink(t *testing.T) {
	e := newTestEngine(t, nil, Config{
		Replacements: []Replacement{{
			Replacement: replace.Replacement{Pattern: "dev", Replacement: "prod"},
			Files:       []string{"<stdin>"},
		}},
	})

	code, diags, err := e.Shrink(context.Background(), "<stdin>", []byte("env = 'dev'\n"))
	require.NoError(t, err)
	assert.Equal(t, "env='prod'", code)
	assert.Empty(t, diags)

	_, _, err = e.Shrink(context.Background(), "<stdin>", []byte("def (:\n"))
	var syntaxErr *pysrc.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
	assert.Contains(t, err.Error(), "<stdin>: ")
}
