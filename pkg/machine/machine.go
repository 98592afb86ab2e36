// Package machine captures facts about the host that Python programs commonly
// query at runtime, so they can be inlined when the output is known to run
// on the same kind of machine.
package machine

import (
	"math/big"
	"runtime"
	"sync"

	"golang.org/x/sys/cpu"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
)

// Snapshot holds literal values for dotted attribute reads and zero-argument
// calls, keyed by their dotted path ("sys.byteorder", "os.cpu_count").
type Snapshot struct {
	Attributes map[string]ast.Value
	Calls      map[string]ast.Value
}

// Attribute returns the value recorded for an attribute path.
func (s *Snapshot) Attribute(path string) (ast.Value, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.Attributes[path]
	return v, ok
}

// Call returns the value recorded for a zero-argument call path.
func (s *Snapshot) Call(path string) (ast.Value, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.Calls[path]
	return v, ok
}

var (
	currentOnce sync.Once
	current     *Snapshot
)

// Current returns the snapshot of the running host. It is computed once per
// process and must not be modified.
func Current() *Snapshot {
	currentOnce.Do(func() {
		current = capture(runtime.GOOS, cpu.IsBigEndian, runtime.NumCPU())
	})
	return current
}

func capture(goos string, bigEndian bool, cpus int) *Snapshot {
	s := &Snapshot{
		Attributes: map[string]ast.Value{
			"os.name":       ast.Str(osName(goos)),
			"sys.byteorder": ast.Str(byteOrder(bigEndian)),
		},
		Calls: map[string]ast.Value{
			"os.cpu_count": ast.Int{V: big.NewInt(int64(cpus))},
		},
	}
	if p, ok := sysPlatform(goos); ok {
		s.Attributes["sys.platform"] = ast.Str(p)
	}
	return s
}

func osName(goos string) string {
	if goos == "windows" {
		return "nt"
	}
	return "posix"
}

func byteOrder(bigEndian bool) string {
	if bigEndian {
		return "big"
	}
	return "little"
}

// sysPlatform maps GOOS to sys.platform. Platforms whose value carries a
// release number (freebsd13, ...) are left out.
func sysPlatform(goos string) (string, bool) {
	switch goos {
	case "linux", "android":
		return "linux", true
	case "darwin", "ios":
		return "darwin", true
	case "windows":
		return "win32", true
	case "aix":
		return "aix", true
	}
	return "", false
}
