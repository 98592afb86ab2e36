package machine

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
)

func TestCapture(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		bigEndian bool
		cpus      int
		want      map[string]ast.Value
		noPlat    bool
	}{
		{
			name: "linux little endian",
			goos: "linux",
			cpus: 8,
			want: map[string]ast.Value{
				"os.name":       ast.Str("posix"),
				"sys.byteorder": ast.Str("little"),
				"sys.platform":  ast.Str("linux"),
			},
		},
		{
			name: "windows",
			goos: "windows",
			cpus: 2,
			want: map[string]ast.Value{
				"os.name":       ast.Str("nt"),
				"sys.byteorder": ast.Str("little"),
				"sys.platform":  ast.Str("win32"),
			},
		},
		{
			name:      "big endian darwin",
			goos:      "darwin",
			bigEndian: true,
			cpus:      1,
			want: map[string]ast.Value{
				"os.name":       ast.Str("posix"),
				"sys.byteorder": ast.Str("big"),
				"sys.platform":  ast.Str("darwin"),
			},
		},
		{
			name:   "freebsd has no fixed platform string",
			goos:   "freebsd",
			cpus:   4,
			noPlat: true,
			want: map[string]ast.Value{
				"os.name":       ast.Str("posix"),
				"sys.byteorder": ast.Str("little"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := capture(tt.goos, tt.bigEndian, tt.cpus)
			for path, want := range tt.want {
				got, ok := s.Attribute(path)
				require.True(t, ok, path)
				assert.Equal(t, want, got, path)
			}
			_, ok := s.Attribute("sys.platform")
			assert.Equal(t, !tt.noPlat, ok)

			count, ok := s.Call("os.cpu_count")
			require.True(t, ok)
			assert.Equal(t, int64(tt.cpus), count.(ast.Int).V.Int64())
		})
	}
}

func TestCurrent(t *testing.T) {
	s := Current()
	require.NotNil(t, s)
	assert.Same(t, s, Current())

	count, ok := s.Call("os.cpu_count")
	require.True(t, ok)
	assert.Equal(t, int64(runtime.NumCPU()), count.(ast.Int).V.Int64())

	_, ok = s.Attribute("sys.getrecursionlimit")
	assert.False(t, ok)
}

func TestNilSnapshot(t *testing.T) {
	var s *Snapshot
	_, ok := s.Attribute("os.name")
	assert.False(t, ok)
	_, ok = s.Call("os.cpu_count")
	assert.False(t, ok)
}
