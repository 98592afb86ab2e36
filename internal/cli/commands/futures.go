package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/pyshrink/internal/cli/output"
	"github.com/leapstack-labs/pyshrink/pkg/pyversion"
	"github.com/spf13/cobra"
)

// FutureOutput is one row of the futures table.
type FutureOutput struct {
	Name      string `json:"name"`
	Mandatory string `json:"mandatory"`
	Removable *bool  `json:"removable,omitempty"`
}

// NewFuturesCommand creates the futures command.
func NewFuturesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "futures",
		Short: "List __future__ features and when they became mandatory",
		Long: `List the __future__ features pyshrink knows about, with the Python
version from which each is always enabled.

With --target-version, features already mandatory for that version are
marked removable: imports of them are dropped from shrunk modules.`,
		Example: `  # Show the table
  pyshrink futures

  # Show which imports are dropped for Python 3.6
  pyshrink futures --target-version 3.6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFutures(cmd)
		},
	}

	cmd.Flags().String("target-version", "", "Mark features already mandatory for this Python version")
	return cmd
}

func runFutures(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd)
	if err != nil {
		return err
	}

	var target *pyversion.Version
	if cmdCtx.Cfg.TargetVersion != "" {
		v, err := pyversion.Parse(cmdCtx.Cfg.TargetVersion)
		if err != nil {
			return err
		}
		target = &v
	}

	rows := futureRows(target)
	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rows)
	case output.ModeMarkdown:
		r.Println("# __future__ features")
		r.Println("")
		futuresTable(r, rows, target, false).RenderMarkdown()
	default:
		futuresTable(r, rows, target, true).Render()
	}
	return nil
}

func futureRows(target *pyversion.Version) []FutureOutput {
	features := pyversion.Futures()
	rows := make([]FutureOutput, len(features))
	for i, f := range features {
		rows[i] = FutureOutput{Name: f.Name, Mandatory: f.Mandatory.String()}
		if target != nil {
			removable := target.AtLeast(f.Mandatory)
			rows[i].Removable = &removable
		}
	}
	return rows
}

func futuresTable(r *output.Renderer, rows []FutureOutput, target *pyversion.Version, styled bool) table.Writer {
	styles := r.Styles()
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)

	header := table.Row{"Feature", "Mandatory"}
	if target != nil {
		header = append(header, "Removable for "+target.String())
	}
	t.AppendHeader(header)

	for _, row := range rows {
		cells := table.Row{row.Name, row.Mandatory}
		if row.Removable != nil {
			mark := "no"
			if *row.Removable {
				mark = "yes"
			}
			if styled && *row.Removable {
				mark = styles.Success.Render(mark)
			} else if styled {
				mark = styles.Muted.Render(mark)
			}
			cells = append(cells, mark)
		}
		t.AppendRow(cells)
	}
	return t
}
