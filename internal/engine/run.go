package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/pyshrink/pkg/config"
	"github.com/leapstack-labs/pyshrink/pkg/minify"
	"github.com/leapstack-labs/pyshrink/pkg/replace"
)

// FileResult is the outcome for one module.
type FileResult struct {
	Path        string // relative to the input root
	Output      string // written file, empty when nothing was written
	Code        string
	Before      int
	After       int
	Diagnostics []config.Diagnostic
	Duration    time.Duration
	Err         error
}

// Saved returns the number of bytes removed.
func (f *FileResult) Saved() int {
	return f.Before - f.After
}

// Report collects the results of one run in input order.
type Report struct {
	Files []*FileResult
}

// Totals sums the sizes of the modules that were shrunk.
func (r *Report) Totals() (before, after int) {
	for _, f := range r.Files {
		if f.Err == nil {
			before += f.Before
			after += f.After
		}
	}
	return before, after
}

// Diagnostics returns every diagnostic of the run.
func (r *Report) Diagnostics() []config.Diagnostic {
	var out []config.Diagnostic
	for _, f := range r.Files {
		out = append(out, f.Diagnostics...)
	}
	return out
}

// Err joins the per-file errors, or returns nil when every file succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errors.Join(errs...)
}

// Run shrinks every module under paths. A failing file does not stop the
// others; the returned error joins all per-file errors. The report is
// returned even when the run fails.
func (e *Engine) Run(ctx context.Context, paths []string) (*Report, error) {
	inputs, err := e.resolve(paths)
	if err != nil {
		return nil, err
	}
	e.logger.Info("starting run", "files", len(inputs), "jobs", e.jobs)

	results := make([]*FileResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.process(gctx, in)
			return nil
		})
	}
	waitErr := g.Wait()

	report := &Report{Files: make([]*FileResult, 0, len(results))}
	for _, res := range results {
		if res != nil {
			report.Files = append(report.Files, res)
		}
	}
	if waitErr != nil {
		e.logger.Info("run cancelled", "completed", len(report.Files), "error", waitErr)
		return report, waitErr
	}

	runErr := report.Err()
	before, after := report.Totals()
	if runErr != nil {
		e.logger.Info("run failed", "files", len(report.Files), "error", runErr.Error())
	} else {
		e.logger.Info("run completed", "files", len(report.Files), "before", before, "after", after)
	}
	return report, runErr
}

// process shrinks one module with its own clone of the base configuration.
func (e *Engine) process(ctx context.Context, in input) *FileResult {
	res := &FileResult{Path: in.rel}
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	src, err := os.ReadFile(in.path)
	if err != nil {
		res.Err = fmt.Errorf("failed to read %s: %w", in.path, err)
		return res
	}
	res.Before = len(src)

	code, diags, err := e.Shrink(ctx, in.rel, src)
	if err != nil {
		e.logger.Debug("module failed", "module", in.rel, "error", err)
		res.Err = err
		return res
	}
	res.Code = code
	res.After = len(code)
	res.Diagnostics = diags

	if dest := e.destination(in); dest != "" {
		if err := writeIfChanged(dest, []byte(code)); err != nil {
			res.Err = fmt.Errorf("failed to write %s: %w", dest, err)
			return res
		}
		res.Output = dest
	}

	e.logger.Debug("module shrunk", "module", in.rel, "before", res.Before, "after", res.After,
		"ms", time.Since(start).Milliseconds())
	return res
}

// Shrink minifies one module held in memory under the given name and
// applies the replacements that select it. Nothing is written.
func (e *Engine) Shrink(ctx context.Context, name string, src []byte) (string, []config.Diagnostic, error) {
	out, err := minify.Source(ctx, src, e.base.WithModule(name))
	if err != nil {
		return "", nil, err
	}
	code := out.Code
	if reps := e.replacementsFor(name); len(reps) > 0 {
		code, err = replace.Apply(code, reps, e.requireMatch)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	for _, d := range out.Diagnostics {
		e.logger.Warn("removal request never matched", "module", d.Module, "category", string(d.Category), "tokens", d.Tokens)
	}
	return code, out.Diagnostics, nil
}

// writeIfChanged leaves a file alone when it already holds data, so that
// in-place runs under a watcher settle.
func writeIfChanged(path string, data []byte) error {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
