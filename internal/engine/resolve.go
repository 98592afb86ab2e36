package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/pyshrink/internal/discover"
)

// input is one module to shrink.
type input struct {
	path string // on disk
	rel  string // slash-separated, relative to the input root
}

// resolve expands the command-line paths: directories contribute every
// module discover finds under them, files are taken as they are. Anything
// inside the output directory is left out.
func (e *Engine) resolve(paths []string) ([]input, error) {
	var inputs []input
	seen := make(map[string]struct{})
	add := func(p, rel string) error {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if e.outDir != "" && within(abs, e.outDir) {
			return nil
		}
		if _, dup := seen[abs]; dup {
			return nil
		}
		seen[abs] = struct{}{}
		inputs = append(inputs, input{path: p, rel: filepath.ToSlash(rel)})
		return nil
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		if !info.IsDir() {
			if err := add(p, filepath.Base(p)); err != nil {
				return nil, err
			}
			continue
		}

		files, err := discover.Files(p)
		if err != nil {
			return nil, fmt.Errorf("failed to discover modules in %s: %w", p, err)
		}
		e.logger.Debug("discovered modules", "dir", p, "count", len(files))
		for _, rel := range files {
			if err := add(filepath.Join(p, rel), rel); err != nil {
				return nil, err
			}
		}
	}
	return inputs, nil
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// destination returns where the shrunk module is written, or "" when the
// engine does not write.
func (e *Engine) destination(in input) string {
	switch {
	case e.inPlace:
		return in.path
	case e.outDir != "":
		return filepath.Join(e.outDir, filepath.FromSlash(in.rel))
	}
	return ""
}
