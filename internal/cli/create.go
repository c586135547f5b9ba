// Package cli: create.go implements the "template-repo create" command.
//
// The create command is the primary user-facing operation. It packages a
// selection of exercises and publishes it as a GitHub repository.
//
// Orchestration steps (see internal/pipeline):
//  1. Validate the repository name and select exercises
//  2. Collect each exercise's notebook, solution, test and metadata
//  3. Assemble and validate a temporary workspace
//  4. Create the repository with gh, or print the dry-run intent
//  5. Copy the workspace to --output-dir if requested, then remove it
package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/template-repo/internal/pipeline"
	"github.com/shinji-kodama/template-repo/internal/selector"
)

// createFlags holds the flag values for the create command.
// These are bound to cobra flags in NewCreateCommand.
type createFlags struct {
	constructs []string // --construct
	types      []string // --type
	notebooks  []string // --notebooks: ids or glob patterns

	name         string // --name: template name and repository description
	repoName     string // --repo-name: repository slug
	private      bool   // --private
	org          string // --org
	noTemplate   bool   // --no-template
	templateRepo string // --template-repo
	noSolutions  bool   // --no-solutions
}

// NewCreateCommand creates the "create" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCreateCommand() *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create template repository",
		Long: `Package the selected exercises and create a GitHub repository from them.

Exercises are selected by construct, type, or explicit notebook ids and glob
patterns. When --notebooks is given it takes precedence; otherwise
--construct and --type are intersected when both are given.

The repository is marked as a template unless --no-template is set.

Examples:
  template-repo create --construct sequence --repo-name intro-sequence
  template-repo create --construct sequence,selection --type modify --repo-name practice
  template-repo create --notebooks 'ex00*' --name "Warm-up" --repo-name warm-up --private
  template-repo --dry-run --output-dir ./out create --type debug --repo-name debugging`,

		Args: cobra.NoArgs,

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.constructs, "construct", nil, "One or more constructs (comma-separated or repeated)")
	cmd.Flags().StringSliceVar(&flags.types, "type", nil, "One or more exercise types: debug, modify, make")
	cmd.Flags().StringSliceVar(&flags.notebooks, "notebooks", nil, "Specific notebook ids or glob patterns")
	cmd.Flags().StringVar(&flags.name, "name", "", "Template name/description (default: \"<repo-name> Exercises\")")
	cmd.Flags().StringVar(&flags.repoName, "repo-name", "", "GitHub repository name (slug)")
	cmd.Flags().BoolVar(&flags.private, "private", false, "Create as private repository")
	cmd.Flags().StringVar(&flags.org, "org", "", "Create in organization (default: user account)")
	cmd.Flags().BoolVar(&flags.noTemplate, "no-template", false, "Do not mark the new repository as a template")
	cmd.Flags().StringVar(&flags.templateRepo, "template-repo", "", "Existing template repository (owner/name) to generate from")
	cmd.Flags().BoolVar(&flags.noSolutions, "no-solutions", false, "Leave solution notebooks out of the package")

	// The repository slug has no sensible default; cobra reports a missing
	// flag before RunE runs.
	_ = cmd.MarkFlagRequired("repo-name")

	return cmd
}

// runCreate resolves flags against the loaded configuration and runs the
// packaging pipeline.
func runCreate(cmd *cobra.Command, flags *createFlags) error {
	root, err := resolveRepoRoot()
	if err != nil {
		return err
	}
	VerboseLog("Repository root: %s", root)

	// Step 1: Merge flags with the loaded configuration.
	req := buildCreateRequest(cmd, flags)
	VerboseLog("Template name: %s", req.TemplateName())

	// Step 2: Wire the pipeline. In dry-run mode the host client only
	// records commands; the orchestrator still assembles the package.
	orch := pipeline.New(root, newHostClient(logger, dryRun),
		pipeline.WithPackager(newPackager(root)),
		pipeline.WithPrompter(newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())),
		pipeline.WithOutput(cmd.OutOrStdout()),
		pipeline.WithLogger(logger),
		pipeline.WithDryRun(dryRun),
	)

	// Step 3: Run. Errors carry their own hints and are printed by Execute.
	_, err = orch.Create(cmd.Context(), req)
	return err
}

// buildCreateRequest merges flags over the configuration. A config value
// applies only where the corresponding flag was not given.
func buildCreateRequest(cmd *cobra.Command, flags *createFlags) pipeline.Request {
	req := pipeline.Request{
		Criteria: selector.Criteria{
			Constructs: flags.constructs,
			Types:      flags.types,
			Notebooks:  flags.notebooks,
		},
		RepoName:         flags.repoName,
		Name:             flags.name,
		Private:          cfg.Private,
		Org:              cfg.Org,
		Template:         cfg.Template,
		TemplateRepo:     flags.templateRepo,
		IncludeSolutions: cfg.IncludeSolutions,
		OutputDir:        outputDir,
	}

	// Boolean flags that can only turn something off apply whenever set.
	// Flags that can carry either value override only when given.
	if cmd.Flags().Changed("private") {
		req.Private = flags.private
	}
	if cmd.Flags().Changed("org") {
		req.Org = flags.org
	}
	if flags.noTemplate {
		req.Template = false
	}
	if flags.noSolutions {
		req.IncludeSolutions = false
	}
	return req
}
