package commands

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pyshrink/internal/cli/output"
	"github.com/leapstack-labs/pyshrink/internal/cli/testutil"
	"github.com/leapstack-labs/pyshrink/internal/engine"
	core "github.com/leapstack-labs/pyshrink/pkg/config"
)

func TestWatch_RequiresOutput(t *testing.T) {
	dir := testutil.WriteModules(t, map[string]string{"a.py": "a = 1\n"})

	_, _, err := runCommand(t, NewWatchCommand(), "", dir)
	assert.ErrorIs(t, err, ErrWatchNeedsOutput)
}

func TestRenderWatchRun(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	failure := errors.New("bad.py: syntax error at 1:7: unexpected token")
	report := &engine.Report{Files: []*engine.FileResult{
		{Path: "a.py", Before: 10, After: 5, Diagnostics: []core.Diagnostic{
			{Module: "a.py", Category: core.CategoryVariables, Tokens: "absent"},
		}},
		{Path: "bad.py", Err: failure},
	}}

	tr := testutil.NewTestRenderer(output.ModeText, false)
	renderWatchRun(tr.Renderer, report, failure, at)

	assert.Equal(t, "09:30:00 FAIL 2 files, 10 -> 5 bytes (50.0% saved)\n", tr.Output())
	testutil.AssertContains(t, tr.ErrorOutput(), "error: bad.py: syntax error")
	testutil.AssertContains(t, tr.ErrorOutput(), "warning: a.py: requested to skip variables absent")

	tr = testutil.NewTestRenderer(output.ModeText, false)
	renderWatchRun(tr.Renderer, &engine.Report{}, nil, at)
	assert.Equal(t, "09:30:00 ok 0 files, 0 -> 0 bytes (0.0% saved)\n", tr.Output())

	tr = testutil.NewTestRendererJSON()
	renderWatchRun(tr.Renderer, report, failure, at)
	testutil.AssertContains(t, tr.Output(), `"path": "bad.py"`)
	require.Empty(t, tr.ErrorOutput())
}
