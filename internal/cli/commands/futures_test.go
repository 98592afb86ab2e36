package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pyshrink/internal/cli/testutil"
)

func TestFutures_JSON(t *testing.T) {
	t.Setenv("PYSHRINK_OUTPUT_FORMAT", "json")

	stdout, _, err := runCommand(t, NewFuturesCommand(), "", "--target-version", "3.6")
	require.NoError(t, err)

	var rows []FutureOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 8)

	removable := map[string]bool{}
	for _, row := range rows {
		require.NotNil(t, row.Removable, row.Name)
		removable[row.Name] = *row.Removable
	}
	assert.True(t, removable["division"])
	assert.True(t, removable["nested_scopes"])
	assert.False(t, removable["generator_stop"])
	assert.Equal(t, "nested_scopes", rows[0].Name)
	assert.Equal(t, "2.2", rows[0].Mandatory)
}

func TestFutures_Markdown(t *testing.T) {
	stdout, _, err := runCommand(t, NewFuturesCommand(), "")
	require.NoError(t, err)

	testutil.AssertNoANSI(t, stdout)
	testutil.AssertValidMarkdown(t, stdout)
	testutil.AssertContains(t, stdout, "| Feature | Mandatory |")
	testutil.AssertContains(t, stdout, "generator_stop")
	testutil.AssertNotContains(t, stdout, "Removable")
}

func TestFutures_TextWithTarget(t *testing.T) {
	t.Setenv("PYSHRINK_OUTPUT_FORMAT", "text")

	stdout, _, err := runCommand(t, NewFuturesCommand(), "", "--target-version", "3.7")
	require.NoError(t, err)
	testutil.AssertContains(t, stdout, "REMOVABLE FOR 3.7")
	testutil.AssertContains(t, stdout, "with_statement")
	testutil.AssertNotContains(t, stdout, "no ")
}

func TestFutures_BadVersion(t *testing.T) {
	_, _, err := runCommand(t, NewFuturesCommand(), "", "--target-version", "three")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target_version")
}
