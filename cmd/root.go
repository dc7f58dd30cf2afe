package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/meysamhadeli/aboutwriter/about_writer"
	"github.com/meysamhadeli/aboutwriter/about_writer/contracts"
	"github.com/meysamhadeli/aboutwriter/about_writer/models"
	"github.com/meysamhadeli/aboutwriter/config"
	"github.com/meysamhadeli/aboutwriter/constants/lipgloss"
	"github.com/meysamhadeli/aboutwriter/file_walker"
	"github.com/meysamhadeli/aboutwriter/syntax_checker"
	"github.com/meysamhadeli/aboutwriter/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// RootDependencies holds everything a run needs once configuration is loaded.
type RootDependencies struct {
	Cwd    string
	Config *config.Config
	Ledger *about_writer.Ledger
	Logger *slog.Logger
}

// NewRootCommand builds the aboutwriter command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aboutwriter <path> <name>",
		Short: "Add an about statement to the top of source files.",
		Long: `aboutwriter inserts a short comment block naming the file, its author and its
creation date at the top of a file, or of every matching file below a directory.
The comment syntax follows the file extension, and shebang lines, encoding
declarations, XML/DOCTYPE declarations and PHP opening tags stay in place.`,
		Version:       config.Version,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return handleRootRun(ctx, cmd, args[0], args[1])
		},
	}

	config.InitFlags(rootCmd)

	rootCmd.Flags().StringP("extensions", "x", "all", "Comma-separated extensions or globs to include (e.g. 'py,go' or '*.c').")
	rootCmd.Flags().BoolP("verbose", "v", false, "Print diagnostic details for every file.")
	rootCmd.Flags().BoolP("force", "f", false, "Insert a statement even if one seems to be present.")
	rootCmd.Flags().Bool("dry-run", false, "Show the statements that would be inserted without writing anything.")
	rootCmd.Flags().Bool("verify", false, "Refuse edits that would introduce syntax errors.")
	rootCmd.Flags().Bool("no-recursive", false, "Only process files directly inside the directory.")

	rootCmd.AddCommand(newResetCacheCmd())
	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return ExecuteContext(context.Background(), NewRootCommand(), os.Args[1:])
}

// ExecuteContext runs rootCmd with args and maps the outcome to an exit code.
func ExecuteContext(ctx context.Context, rootCmd *cobra.Command, args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintln(rootCmd.ErrOrStderr(), lipgloss.Red.Render(exitErr.Err.Error()))
		}
		return exitErr.Code
	}
	fmt.Fprintln(rootCmd.ErrOrStderr(), lipgloss.Red.Render(err.Error()))
	return ExitFailure
}

func handleRootCommand(cmd *cobra.Command) (*RootDependencies, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("error getting current working directory: %w", err)
	}

	cfg, err := config.LoadConfigWithCache(cmd.Root(), cwd)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	deps := &RootDependencies{
		Cwd:    cwd,
		Config: cfg,
		Logger: utils.NewLogger(cmd.ErrOrStderr(), verbose),
	}

	if cfg.EnableCache {
		ledger, err := about_writer.NewLedger(cfg.CacheDir)
		if err != nil {
			// annotation still works without the ledger
			deps.Logger.Warn("ledger disabled", "error", err)
		} else {
			deps.Ledger = ledger
		}
	}
	return deps, nil
}

func handleRootRun(ctx context.Context, cmd *cobra.Command, path, name string) error {
	author := strings.TrimSpace(name)
	if author == "" {
		return &ExitError{Code: ExitFailure, Err: errors.New("author name must not be empty")}
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("%s: %w", path, about_writer.ErrNotFound)}
	}
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("%s: %w", path, err)}
	}

	deps, err := handleRootCommand(cmd)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	flags := cmd.Flags()
	force, _ := flags.GetBool("force")
	dryRun, _ := flags.GetBool("dry-run")
	verify, _ := flags.GetBool("verify")
	verbose, _ := flags.GetBool("verbose")

	reporter := &consoleReporter{
		ctx:     ctx,
		out:     cmd.OutOrStdout(),
		verbose: verbose,
		dryRun:  dryRun,
		theme:   deps.Config.Theme,
	}
	var checker contracts.ISyntaxChecker
	if verify {
		checker = syntax_checker.NewSyntaxChecker()
	}

	writer := about_writer.NewAboutWriter(about_writer.Options{
		Author:          author,
		Force:           force,
		DryRun:          dryRun,
		Verify:          verify,
		HeaderScanLines: deps.Config.HeaderScanLines,
		BackupThreshold: deps.Config.BackupThreshold,
		BackupSuffix:    deps.Config.BackupSuffix,
		AtomicWrite:     deps.Config.AtomicWrite,
		TimestampSource: about_writer.TimestampSource(deps.Config.TimestampSource),
		Ledger:          deps.Ledger,
		Checker:         checker,
		Reporter:        reporter,
		Logger:          deps.Logger,
	})

	if !info.IsDir() {
		return handleSingleFile(ctx, writer, reporter, path)
	}
	return handleDirectory(ctx, cmd, deps, writer, path)
}

func handleSingleFile(ctx context.Context, writer contracts.IAboutWriter, reporter *consoleReporter, path string) error {
	result := writer.ProcessFile(ctx, path)
	reporter.Report(result)

	if ctx.Err() != nil {
		return &ExitError{Code: ExitInterrupted}
	}
	if result.Status == models.StatusError {
		return &ExitError{Code: ExitFailure}
	}
	return nil
}

func handleDirectory(ctx context.Context, cmd *cobra.Command, deps *RootDependencies, writer contracts.IAboutWriter, root string) error {
	flags := cmd.Flags()
	extensions, _ := flags.GetString("extensions")
	noRecursive, _ := flags.GetBool("no-recursive")

	opts := file_walker.Options{
		Recursive:       !noRecursive,
		IgnoreFile:      deps.Config.IgnoreFile,
		MaxFileSize:     deps.Config.MaxFileSize,
		ExcludeSuffixes: []string{deps.Config.BackupSuffix},
		Logger:          deps.Logger,
	}

	var spinner *pterm.SpinnerPrinter
	if utils.IsTerminal(os.Stderr) {
		spinner, _ = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
			WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
			WithDelay(100 * time.Millisecond).WithRemoveWhenDone(true).WithWriter(os.Stderr).
			Start("Collecting files...")
	}
	paths, err := file_walker.Collect(root, file_walker.NormalizeFilters(extensions), opts)
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("failed to walk %s: %w", root, err)}
	}
	deps.Logger.Debug("candidates collected", "root", root, "count", len(paths))

	out := cmd.OutOrStdout()
	if len(paths) == 0 {
		fmt.Fprintln(out, lipgloss.Yellow.Render("No matching files found."))
		printSummary(out, models.Summary{})
		return &ExitError{Code: ExitFailure}
	}

	summary, err := writer.Run(ctx, paths)
	printSummary(out, summary)

	if err != nil {
		fmt.Fprintln(out, lipgloss.Yellow.Render("Interrupted."))
		return &ExitError{Code: ExitInterrupted}
	}
	if summary.Errors == summary.Total() {
		return &ExitError{Code: ExitFailure}
	}
	return nil
}
