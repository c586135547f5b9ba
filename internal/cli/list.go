// Package cli: list.go implements the "template-repo list" command.
//
// The list command prints the exercises available in the repository,
// optionally filtered by one construct and/or one type. Without filters it
// lists every exercise notebook. Output is a plain list, an aligned table,
// JSON or YAML, depending on --format.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/template-repo/internal/model"
	"github.com/shinji-kodama/template-repo/internal/selector"
)

// Output formats accepted by --format.
const (
	formatList  = "list"
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// listFormats is the order shown in help and error messages.
var listFormats = []string{formatList, formatTable, formatJSON, formatYAML}

// listFlags holds the flag values for the list command.
// These are bound to cobra flags in NewListCommand.
type listFlags struct {
	construct string // --construct: a single construct
	exType    string // --type: a single exercise type
	format    string // --format: one of listFormats
}

// NewListCommand creates the "list" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available exercises",
		Long: `List the exercises available in the repository.

Examples:
  template-repo list
  template-repo list --construct sequence
  template-repo list --type debug --format table
  template-repo list --format json`,

		// No positional arguments are required for the list command.
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.construct, "construct", "", "Filter by construct")
	cmd.Flags().StringVar(&flags.exType, "type", "", "Filter by type")
	cmd.Flags().StringVar(&flags.format, "format", formatList,
		"Output format: "+strings.Join(listFormats, ", "))

	return cmd
}

// runList selects exercises and prints them in the requested format.
func runList(w io.Writer, flags *listFlags) error {
	// The format is checked before touching the filesystem.
	if !isListFormat(flags.format) {
		return model.NewCLIErrorf(model.KindInvalidArgument,
			"invalid format %q: valid values are %s", flags.format, strings.Join(listFormats, ", "))
	}

	root, err := resolveRepoRoot()
	if err != nil {
		return err
	}
	sel := selector.New(root)

	// A combined filter is an intersection. With no filter every notebook
	// is listed, including exercises outside the taxonomy.
	var ids []string
	switch {
	case flags.construct != "" && flags.exType != "":
		ids, err = sel.SelectByConstructAndType([]string{flags.construct}, []string{flags.exType})
	case flags.construct != "":
		ids, err = sel.SelectByConstruct([]string{flags.construct})
	case flags.exType != "":
		ids, err = sel.SelectByType([]string{flags.exType})
	default:
		ids, err = sel.AllNotebooks()
	}
	if err != nil {
		return err
	}
	VerboseLog("Found %d exercises under %s", len(ids), root)

	return printExercises(w, flags.format, buildListEntries(sel, ids))
}

// listEntry is one exercise in list output. Construct and Type are empty
// for exercises outside the taxonomy.
//
// JSON and YAML output encode a slice of entries:
//
//	[{"id": "ex002_sequence_modify_basics", "construct": "sequence", "type": "modify"}]
type listEntry struct {
	ID        string `json:"id" yaml:"id"`
	Construct string `json:"construct,omitempty" yaml:"construct,omitempty"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
}

// buildListEntries pairs each id with its taxonomy location.
func buildListEntries(sel *selector.Selector, ids []string) []listEntry {
	// Use an empty slice instead of nil so JSON output shows [] rather
	// than null when nothing matched.
	entries := make([]listEntry, 0, len(ids))
	for _, id := range ids {
		entry := listEntry{ID: id}
		if loc, ok := sel.Locate(id); ok && loc.Categorized() {
			entry.Construct = string(loc.Construct)
			entry.Type = string(loc.Type)
		}
		entries = append(entries, entry)
	}
	return entries
}

// printExercises writes entries to w in format.
func printExercises(w io.Writer, format string, entries []listEntry) error {
	switch format {
	case formatJSON:
		// MarshalIndent produces human-readable JSON with 2-space indentation.
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode exercises: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case formatYAML:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to encode exercises: %w", err)
		}
		fmt.Fprint(w, string(data))
	case formatTable:
		printExerciseTable(w, entries)
	default:
		// Plain list: one id per line, easy to pipe into other tools.
		for _, e := range entries {
			fmt.Fprintln(w, e.ID)
		}
	}
	return nil
}

// printExerciseTable writes an aligned table:
//
//	EXERCISE ID                              CONSTRUCT      TYPE
//	ex002_sequence_modify_basics             sequence       modify
//	ex001_sanity                             -              -
func printExerciseTable(w io.Writer, entries []listEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No exercises found.")
		return
	}

	fmt.Fprintf(w, "%-40s %-14s %s\n", "EXERCISE ID", "CONSTRUCT", "TYPE")
	for _, e := range entries {
		fmt.Fprintf(w, "%-40s %-14s %s\n", e.ID, dashIfEmpty(e.Construct), dashIfEmpty(e.Type))
	}
}

// dashIfEmpty returns "-" for an empty string, matching how missing values
// are shown in table output.
func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// isListFormat reports whether format is accepted by --format.
func isListFormat(format string) bool {
	for _, f := range listFormats {
		if f == format {
			return true
		}
	}
	return false
}
