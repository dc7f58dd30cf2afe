package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/meysamhadeli/aboutwriter/config"
	"github.com/meysamhadeli/aboutwriter/constants/lipgloss"
	"github.com/meysamhadeli/aboutwriter/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newResetCacheCmd() *cobra.Command {
	resetCacheCmd := &cobra.Command{
		Use:   "reset-cache",
		Short: "Forget which files were already annotated",
		Long: `The 'reset-cache' command removes every entry of the annotation ledger.
Files the ledger remembered are read and checked for an existing statement
again on the next run. Use -s to only print ledger statistics.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			stats, _ := cmd.Flags().GetBool("stats")
			return handleResetCacheCommand(cmd, force, stats)
		},
	}

	resetCacheCmd.Flags().BoolP("force", "f", false, "Reset the ledger without confirmation")
	resetCacheCmd.Flags().BoolP("stats", "s", false, "Show ledger statistics instead of resetting")
	return resetCacheCmd
}

func handleResetCacheCommand(cmd *cobra.Command, force bool, showStats bool) error {
	rootDependencies, err := handleRootCommand(cmd)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	out := cmd.OutOrStdout()
	ledger := rootDependencies.Ledger
	if ledger == nil {
		fmt.Fprintln(out, lipgloss.Yellow.Render("Ledger is disabled. Nothing to reset."))
		return nil
	}

	if showStats {
		printLedgerStats(out, ledger.GetLedgerStats)
		printConfigCacheStats(out, config.GetConfigCacheStats())
		return nil
	}

	if !force {
		yes, err := utils.ConfirmPromptWithContext(cmd.Context(), out, bufio.NewReader(cmd.InOrStdin()), "Forget every annotated file?")
		if err != nil {
			return &ExitError{Code: ExitFailure, Err: err}
		}
		if !yes {
			fmt.Fprintln(out, lipgloss.Yellow.Render("Ledger reset cancelled."))
			return nil
		}
	}

	var spinner *pterm.SpinnerPrinter
	if utils.IsTerminal(os.Stderr) {
		spinner, _ = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgCyan)).
			WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
			WithDelay(100 * time.Millisecond).WithRemoveWhenDone(true).WithWriter(os.Stderr).
			Start("Resetting ledger...")
	}
	deleted, err := ledger.Clear()
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("error resetting ledger: %w", err)}
	}
	ledger.ResetPerformanceStats()
	config.ClearConfigCache()

	fmt.Fprintln(out, lipgloss.Green.Render(fmt.Sprintf("✓ Ledger reset, %d entries removed.", deleted)))
	return nil
}

func printLedgerStats(out io.Writer, stats func() (map[string]interface{}, error)) {
	fmt.Fprintln(out, lipgloss.Info.Render("Ledger Statistics:"))

	ledgerStats, err := stats()
	if err != nil {
		fmt.Fprintln(out, lipgloss.Yellow.Render(fmt.Sprintf("Warning: Could not show statistics: %v", err)))
		return
	}
	if dir, ok := ledgerStats["ledger_dir"].(string); ok {
		fmt.Fprintf(out, "  Ledger Directory: %s\n", dir)
	}
	if entries, ok := ledgerStats["ledger_entries"].(int); ok {
		fmt.Fprintf(out, "  Annotated Files: %d\n", entries)
	}
	if size, ok := ledgerStats["total_size"].(int64); ok {
		fmt.Fprintf(out, "  Total Size: %.2f KB\n", float64(size)/1024)
	}
}

func printConfigCacheStats(out io.Writer, stats map[string]interface{}) {
	if files, ok := stats["cached_files"].(int); ok {
		fmt.Fprintf(out, "  Cached Config Files: %d\n", files)
	}
	if entries, ok := stats["cache_entries"].([]string); ok {
		for _, entry := range entries {
			fmt.Fprintf(out, "    %s\n", entry)
		}
	}
}
