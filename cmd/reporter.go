package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/meysamhadeli/aboutwriter/about_writer/models"
	"github.com/meysamhadeli/aboutwriter/constants/lipgloss"
	"github.com/meysamhadeli/aboutwriter/utils"
	"github.com/pterm/pterm"
)

// consoleReporter prints one line per file outcome.
type consoleReporter struct {
	ctx     context.Context
	out     io.Writer
	verbose bool
	dryRun  bool
	theme   string
}

func (r *consoleReporter) Report(result models.Result) {
	switch result.Status {
	case models.StatusProcessed:
		line := "✓ " + result.Path
		if result.Reason != "" {
			line += " (" + result.Reason + ")"
		}
		fmt.Fprintln(r.out, lipgloss.Green.Render(line))
		if result.Backup != "" {
			fmt.Fprintln(r.out, lipgloss.Gray.Render("  backup: "+result.Backup))
		}
		if r.dryRun && result.Statement != "" {
			if err := utils.RenderStatementPreview(r.ctx, r.out, filepath.Base(result.Path), result.Statement, r.theme); err != nil {
				fmt.Fprint(r.out, result.Statement)
			}
		}
	case models.StatusSkipped:
		fmt.Fprintln(r.out, lipgloss.Yellow.Render("- "+result.Path+": "+result.Reason))
	default:
		line := "✗ " + result.Path
		if r.verbose && result.Err != nil {
			line += ": " + result.Err.Error()
		} else if result.Reason != "" {
			line += ": " + result.Reason
		}
		fmt.Fprintln(r.out, lipgloss.Red.Render(line))
	}
}

// printSummary renders the aggregate counts as a table.
func printSummary(out io.Writer, summary models.Summary) {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Processed", "Skipped", "Errors"},
		{strconv.Itoa(summary.Processed), strconv.Itoa(summary.Skipped), strconv.Itoa(summary.Errors)},
	}).Srender()
	if err != nil {
		fmt.Fprintf(out, "Processed: %d, Skipped: %d, Errors: %d\n", summary.Processed, summary.Skipped, summary.Errors)
		return
	}
	fmt.Fprintln(out, table)
}
