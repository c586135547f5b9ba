// Package cli implements the cobra-based CLI commands for template-repo.
//
// Each subcommand (create, list, validate) is defined in its own file
// within this package. This file defines the root command that serves as
// the parent for all subcommands, handles global flags, and loads the
// user configuration before any subcommand runs.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/template-repo/internal/config"
	"github.com/shinji-kodama/template-repo/internal/github"
	"github.com/shinji-kodama/template-repo/internal/model"
	"github.com/shinji-kodama/template-repo/internal/packager"
	"github.com/shinji-kodama/template-repo/internal/pipeline"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// dryRun builds and validates the package without running gh.
	dryRun bool

	// verbose enables debug logging on stderr.
	verbose bool

	// outputDir receives a copy of the finished package when set.
	outputDir string

	// repoRootFlag overrides the exercise repository location.
	repoRootFlag string

	// configPath overrides the config file location.
	configPath string
)

// Per-invocation state, set up by the root command's PersistentPreRunE.
var (
	// logger writes diagnostics to stderr. It discards everything until
	// the root command has parsed its flags.
	logger = log.New(io.Discard)

	// cfg is the loaded user configuration.
	cfg = config.Defaults()
)

// newHostClient builds the GitHub client used by create. Tests replace it
// to script gh and git without spawning processes.
var newHostClient = func(logger *log.Logger, dryRun bool) pipeline.HostClient {
	return github.NewClient(nil, github.WithLogger(logger), github.WithDryRun(dryRun))
}

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action. It provides help
// text and global flags, and loads configuration before the subcommand
// (create, list, validate) runs.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "template-repo",
		Short: "Create GitHub template repositories from exercise subsets",
		Long: `template-repo selects exercises from a taxonomy of notebooks, packages
them with the course scaffold into a self-contained workspace, and publishes
the result as a GitHub template repository through the gh CLI.

Defaults for --org, --private and the other create flags can be kept in
~/.template_repo_cli.json (comments allowed) or TEMPLATE_REPO_* variables.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// Execute prints them as a single "Error: ..." line.
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Build and validate without executing gh commands")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "Local output directory for the package (default: temporary, removed)")
	rootCmd.PersistentFlags().StringVar(&repoRootFlag, "repo-root", "", "Exercise repository root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/"+config.FileName+")")

	// Register subcommands. Each subcommand is defined in its own file
	// (create.go, list.go, validate.go) and returns a *cobra.Command.
	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewValidateCommand())

	return rootCmd
}

// setup builds the logger and loads configuration for one invocation.
func setup(cmd *cobra.Command) error {
	logger = newLogger(cmd.ErrOrStderr(), verbose)

	loaded, err := config.Load(config.LoadOptions{Path: configPath})
	if err != nil {
		return err
	}
	cfg = *loaded
	if cfg.Path != "" {
		VerboseLog("Loaded config from %s", cfg.Path)
	}
	return nil
}

// newLogger returns the CLI logger: debug level with --verbose, warnings
// and errors otherwise.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "template-repo",
		Level:  level,
	})
}

// resolveRepoRoot returns the exercise repository: --repo-root, then the
// configured repo_root, then the working directory.
func resolveRepoRoot() (string, error) {
	root := repoRootFlag
	if root == "" {
		root = cfg.RepoRoot
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", model.WrapCLIError(model.KindFilesystem, "failed to get working directory", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", model.WrapCLIError(model.KindInvalidArgument, fmt.Sprintf("invalid repository root %s", root), err)
	}
	return abs, nil
}

// newPackager returns a packager for root using the configured template
// files directory.
func newPackager(root string) *packager.Packager {
	return packager.New(root,
		packager.WithTemplateDir(cfg.TemplateFilesDir),
		packager.WithLogger(logger),
	)
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// Every failure, whatever its kind, is printed as one "Error: ..." line
// and exits with model.ExitFailure.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(int(model.ExitFailure))
	}
}

// printError writes err as "Error: <message>". A CLIError's remediation
// hint follows on its own paragraph.
//
// Errors in the invalid-argument category are fixed by changing the
// command line, so they get a pointer to the usage text as well, unless
// they already carry a more specific hint. Errors from git, gh or the
// filesystem and missing-file errors are printed as is.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) && cliErr.Hint == "" && cliErr.Kind.Category() == model.CategoryInvalidArgument {
		fmt.Fprintln(w, "Run 'template-repo --help' for usage.")
	}
}

// VerboseLog prints a debug message, visible only when verbose mode is
// enabled. It is used throughout the CLI for trace output that helps users
// understand what operations are being performed.
func VerboseLog(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}
