// Package cli: validate.go implements the "template-repo validate" command.
//
// The validate command checks, without building anything, that every
// selected exercise has its notebook and test file. Every exercise is
// checked even after a failure so one run reports all problems.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/template-repo/internal/model"
	"github.com/shinji-kodama/template-repo/internal/pipeline"
	"github.com/shinji-kodama/template-repo/internal/selector"
)

// validateFlags holds the flag values for the validate command.
type validateFlags struct {
	constructs []string
	types      []string
	notebooks  []string
}

// NewValidateCommand creates the "validate" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewValidateCommand() *cobra.Command {
	flags := &validateFlags{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate selection",
		Long: `Check that every selected exercise has its required files.

Examples:
  template-repo validate --construct sequence
  template-repo validate --notebooks 'ex01*'`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.constructs, "construct", nil, "Filter by construct")
	cmd.Flags().StringSliceVar(&flags.types, "type", nil, "Filter by type")
	cmd.Flags().StringSliceVar(&flags.notebooks, "notebooks", nil, "Specific notebook ids or glob patterns")

	return cmd
}

// runValidate executes the validate command.
//
// The exit status is non-zero when any selected exercise is incomplete;
// an empty selection is reported but is not a failure.
func runValidate(w io.Writer, flags *validateFlags) error {
	root, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	// Validation never publishes, so no host client is needed.
	orch := pipeline.New(root, nil, pipeline.WithLogger(logger))
	report, err := orch.Validate(selector.Criteria{
		Constructs: flags.constructs,
		Types:      flags.types,
		Notebooks:  flags.notebooks,
	})
	if err != nil {
		return err
	}

	// Nothing selected is informational, unlike create where it is an error.
	if len(report.Checks) == 0 {
		fmt.Fprintln(w, "No exercises found matching criteria")
		return nil
	}

	// One line per exercise, in selection order.
	fmt.Fprintf(w, "Found %d exercises:\n", len(report.Checks))
	for _, c := range report.Checks {
		if c.OK() {
			fmt.Fprintf(w, "  ✓ %s\n", c.ID)
		} else {
			fmt.Fprintf(w, "  ✗ %s: %v\n", c.ID, c.Err)
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		fmt.Fprintln(w)
		return model.NewCLIErrorf(model.KindMissingFile, "%d exercises have missing files", len(failed))
	}

	fmt.Fprintln(w, "\nAll exercises validated successfully")
	return nil
}
