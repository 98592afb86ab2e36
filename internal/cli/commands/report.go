package commands

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/pyshrink/internal/cli/output"
	"github.com/leapstack-labs/pyshrink/internal/engine"
	core "github.com/leapstack-labs/pyshrink/pkg/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MinifyOutput is the JSON form of a run.
type MinifyOutput struct {
	Files       []FileOutput       `json:"files"`
	Before      int                `json:"before"`
	After       int                `json:"after"`
	Diagnostics []DiagnosticOutput `json:"diagnostics"`
}

// FileOutput is one module of a run.
type FileOutput struct {
	Path   string `json:"path"`
	Output string `json:"output,omitempty"`
	Before int    `json:"before"`
	After  int    `json:"after"`
	Code   string `json:"code,omitempty"`
	Error  string `json:"error,omitempty"`
}

// DiagnosticOutput is a removal request that never matched.
type DiagnosticOutput struct {
	Module   string `json:"module"`
	Category string `json:"category"`
	Tokens   string `json:"tokens"`
}

func toMinifyOutput(report *engine.Report, withCode bool) *MinifyOutput {
	out := &MinifyOutput{
		Files:       make([]FileOutput, 0, len(report.Files)),
		Diagnostics: []DiagnosticOutput{},
	}
	out.Before, out.After = report.Totals()
	for _, f := range report.Files {
		fo := FileOutput{Path: f.Path, Output: f.Output, Before: f.Before, After: f.After}
		if withCode {
			fo.Code = f.Code
		}
		if f.Err != nil {
			fo.Error = f.Err.Error()
		}
		out.Files = append(out.Files, fo)
	}
	for _, d := range sortedDiagnostics(report.Diagnostics()) {
		out.Diagnostics = append(out.Diagnostics, DiagnosticOutput{
			Module:   d.Module,
			Category: string(d.Category),
			Tokens:   d.Tokens,
		})
	}
	return out
}

func sortedDiagnostics(diags []core.Diagnostic) []core.Diagnostic {
	out := append([]core.Diagnostic(nil), diags...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Module < out[j].Module
	})
	return out
}

// percent formats the share of before that was removed.
func percent(before, after int) string {
	if before == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(before-after)/float64(before))
}

// renderCode prints the shrunk modules themselves. Several modules are
// separated by a comment naming each one.
func renderCode(r *output.Renderer, report *engine.Report) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(toMinifyOutput(report, true))
	}
	var ok []*engine.FileResult
	for _, f := range report.Files {
		if f.Err == nil {
			ok = append(ok, f)
		}
	}
	for _, f := range ok {
		if len(ok) > 1 {
			r.Printf("# %s\n", f.Path)
		}
		if f.Code != "" {
			r.Println(f.Code)
		}
	}
	for _, d := range sortedDiagnostics(report.Diagnostics()) {
		r.Warning(d.String())
	}
	return nil
}

// renderReport prints the savings of a run that wrote its results.
func renderReport(r *output.Renderer, report *engine.Report) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(toMinifyOutput(report, false))
	case output.ModeMarkdown:
		return renderReportMarkdown(r, report)
	default:
		return renderReportText(r, report)
	}
}

func savingsTable(r *output.Renderer, report *engine.Report, styled bool) table.Writer {
	styles := r.Styles()
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Before", "After", "Saved", "Status"})

	for _, f := range report.Files {
		status := "ok"
		if styled {
			status = styles.StatusSuccess.String()
		}
		if f.Err != nil {
			status = "failed"
			if styled {
				status = styles.StatusFailed.String()
			}
			t.AppendRow(table.Row{f.Path, f.Before, "-", "-", status})
			continue
		}
		t.AppendRow(table.Row{f.Path, f.Before, f.After, percent(f.Before, f.After), status})
	}

	before, after := report.Totals()
	t.AppendFooter(table.Row{"Total", before, after, percent(before, after), ""})
	return t
}

func renderReportText(r *output.Renderer, report *engine.Report) error {
	styles := r.Styles()

	r.Println(styles.Header1.Render("Shrink Report"))
	r.Println("")
	savingsTable(r, report, true).Render()

	diags := sortedDiagnostics(report.Diagnostics())
	if len(diags) == 0 {
		return nil
	}
	r.Println("")
	r.Println(styles.Header2.Render("Unmatched removals"))

	current := core.Category("")
	titleCaser := cases.Title(language.English)
	for _, d := range diags {
		if d.Category != current {
			current = d.Category
			r.Println(styles.Bold.Render("   " + titleCaser.String(string(current))))
		}
		r.Println("   " + styles.Warning.Render("!") + " " + d.Module + ": " + styles.Muted.Render(d.Tokens))
	}
	return nil
}

func renderReportMarkdown(r *output.Renderer, report *engine.Report) error {
	r.Println("# Shrink Report")
	r.Println("")
	savingsTable(r, report, false).RenderMarkdown()

	diags := sortedDiagnostics(report.Diagnostics())
	if len(diags) == 0 {
		return nil
	}
	r.Println("")
	r.Println("## Unmatched removals")

	current := core.Category("")
	titleCaser := cases.Title(language.English)
	for _, d := range diags {
		if d.Category != current {
			current = d.Category
			r.Println("")
			r.Println("### " + titleCaser.String(string(current)))
			r.Println("")
		}
		r.Printf("- **%s**: %s\n", d.Module, d.Tokens)
	}
	return nil
}
