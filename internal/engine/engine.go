// Package engine shrinks Python files on disk.
// It resolves input paths, runs the pipeline on each module in parallel and
// writes the results to an output tree or back in place.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"runtime"

	"github.com/leapstack-labs/pyshrink/pkg/config"
	"github.com/leapstack-labs/pyshrink/pkg/replace"
)

// ErrConflictingOutput is returned when both an output directory and
// in-place writing are requested.
var ErrConflictingOutput = errors.New("output directory and in-place writing are mutually exclusive")

// Replacement is a regular-expression substitution applied to the
// shrunk output of the files it selects.
type Replacement struct {
	replace.Replacement

	// Files are glob patterns matched against the slash-separated path
	// relative to the input root, or against the file name. Empty selects
	// every file.
	Files []string
}

// Config holds engine configuration.
type Config struct {
	// Jobs is the number of files processed at once (default: NumCPU)
	Jobs int
	// OutDir receives a mirror of the input tree (optional)
	OutDir string
	// InPlace overwrites every input file with its shrunk form
	InPlace bool
	// Replacements run over each shrunk module, in order
	Replacements []Replacement
	// RequireMatch fails a file when one of its replacements never applied
	RequireMatch bool
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Engine runs the shrinking pipeline over files.
type Engine struct {
	base   *config.Config
	logger *slog.Logger

	jobs         int
	outDir       string
	inPlace      bool
	replacements []Replacement
	requireMatch bool
}

// New creates an engine that shrinks every module with a clone of base.
// A nil base selects config.New().
func New(base *config.Config, cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if base == nil {
		base = config.New()
	}
	if cfg.InPlace && cfg.OutDir != "" {
		return nil, ErrConflictingOutput
	}

	reps := make([]replace.Replacement, len(cfg.Replacements))
	for i, r := range cfg.Replacements {
		reps[i] = r.Replacement
		for _, glob := range r.Files {
			if _, err := path.Match(glob, ""); err != nil {
				return nil, fmt.Errorf("replacement %d: bad file pattern %q: %w", i+1, glob, err)
			}
		}
	}
	if _, err := replace.Compile(reps); err != nil {
		return nil, err
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	outDir := cfg.OutDir
	if outDir != "" {
		abs, err := filepath.Abs(outDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve output directory: %w", err)
		}
		outDir = abs
	}

	logger.Debug("initializing engine", "jobs", jobs, "out_dir", outDir, "in_place", cfg.InPlace)

	return &Engine{
		base:         base,
		logger:       logger,
		jobs:         jobs,
		outDir:       outDir,
		inPlace:      cfg.InPlace,
		replacements: cfg.Replacements,
		requireMatch: cfg.RequireMatch,
	}, nil
}

// Writes reports whether the engine writes its results to disk.
func (e *Engine) Writes() bool {
	return e.inPlace || e.outDir != ""
}

// replacementsFor returns the substitutions that apply to the module at rel.
func (e *Engine) replacementsFor(rel string) []replace.Replacement {
	var out []replace.Replacement
	for _, r := range e.replacements {
		if selects(r.Files, rel) {
			out = append(out, r.Replacement)
		}
	}
	return out
}

func selects(globs []string, rel string) bool {
	if len(globs) == 0 {
		return true
	}
	for _, glob := range globs {
		if ok, _ := path.Match(glob, rel); ok {
			return true
		}
		if ok, _ := path.Match(glob, path.Base(rel)); ok {
			return true
		}
	}
	return false
}
