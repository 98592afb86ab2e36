package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leapstack-labs/pyshrink/internal/cli/output"
	"github.com/leapstack-labs/pyshrink/internal/engine"
	"github.com/spf13/cobra"
)

// ErrWatchNeedsOutput is returned when watch would have nowhere to write.
var ErrWatchNeedsOutput = errors.New("watch requires --out or --in-place")

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Shrink Python files again whenever they change",
		Long: `Shrink Python source files, then keep watching them.

Every change to a .py file under the given paths triggers a new run once
changes have settled for the debounce interval. New directories are picked
up as they appear. Stop with Ctrl-C.`,
		Example: `  # Keep dist/ in sync with src/
  pyshrink watch src --out dist

  # Wait longer for editors that write in several steps
  pyshrink watch src --out dist --debounce 500ms`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts)
		},
	}

	addShrinkFlags(cmd)
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", engine.DefaultDebounce, "Quiet period before a new run starts")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, opts *WatchOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if !cmdCtx.Engine.Writes() {
		return ErrWatchNeedsOutput
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := cmdCtx.Renderer
	return cmdCtx.Engine.Watch(ctx, args, opts.Debounce, func(report *engine.Report, err error) {
		if errors.Is(err, context.Canceled) {
			return
		}
		renderWatchRun(r, report, err, time.Now())
	})
}

// renderWatchRun prints one line per run, and the errors of failed files.
func renderWatchRun(r *output.Renderer, report *engine.Report, err error, at time.Time) {
	if r.EffectiveMode() == output.ModeJSON {
		if report != nil {
			_ = r.JSON(toMinifyOutput(report, false))
		} else if err != nil {
			r.Error(err.Error())
		}
		return
	}

	styles := r.Styles()
	stamp := at.Format("15:04:05")
	if report == nil {
		r.Error(err.Error())
		return
	}

	before, after := report.Totals()
	summary := fmt.Sprintf("%d files, %d -> %d bytes (%s saved)", len(report.Files), before, after, percent(before, after))
	icon := styles.StatusSuccess.String()
	if err != nil {
		icon = styles.StatusFailed.String()
	}
	r.Printf("%s %s %s\n", styles.Muted.Render(stamp), icon, summary)

	for _, f := range report.Files {
		if f.Err != nil {
			r.Error(f.Err.Error())
		}
	}
	for _, d := range sortedDiagnostics(report.Diagnostics()) {
		r.Warning(d.String())
	}
}
