package replace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		text string
		reps []Replacement
		want string
	}{
		{
			name: "first match only by default",
			text: "Some series of things. A real series.",
			reps: []Replacement{{Pattern: "series", Replacement: "wonder"}},
			want: "Some wonder of things. A real series.",
		},
		{
			name: "every match",
			text: "a-b-c",
			reps: []Replacement{{Pattern: "-", Replacement: "+", Count: -1}},
			want: "a+b+c",
		},
		{
			name: "explicit count",
			text: "xxxx",
			reps: []Replacement{{Pattern: "x", Replacement: "y", Count: 3}},
			want: "yyyx",
		},
		{
			name: "groups",
			text: "def f(a,b)",
			reps: []Replacement{{Pattern: `\((\w+),(\w+)\)`, Replacement: "(${2},${1})"}},
			want: "def f(b,a)",
		},
		{
			name: "chained",
			text: "abc",
			reps: []Replacement{
				{Pattern: "a", Replacement: "b"},
				{Pattern: "bb", Replacement: "d"},
			},
			want: "dc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.text, tt.reps, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_NoMatch(t *testing.T) {
	reps := []Replacement{
		{Pattern: "missing"},
		{Pattern: "here", Replacement: "there"},
		{Pattern: "gone"},
	}

	got, err := Apply("here", reps, false)
	require.NoError(t, err)
	assert.Equal(t, "there", got)

	got, err = Apply("here", reps, true)
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, []string{"missing", "gone"}, noMatch.Patterns)
	assert.Equal(t, "there", got)
	assert.Contains(t, err.Error(), "found 2 unused regex")
}

func TestApply_InvalidPattern(t *testing.T) {
	_, err := Apply("x", []Replacement{{Pattern: "("}}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replacement 1")
}
