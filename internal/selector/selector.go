package selector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shinji-kodama/template-repo/internal/fsutil"
	"github.com/shinji-kodama/template-repo/internal/model"
)

const (
	// ExercisesDir is the taxonomy root relative to the repository root.
	ExercisesDir = "exercises"

	// NotebooksDir holds one <exercise-id>.ipynb per exercise.
	NotebooksDir = "notebooks"

	// notebookExt is stripped from notebook file names to get the id.
	notebookExt = ".ipynb"
)

// Selector resolves selection criteria against one repository tree.
// It holds no state besides the repository root.
type Selector struct {
	repoRoot string
}

// New creates a Selector for the repository rooted at repoRoot.
func New(repoRoot string) *Selector {
	return &Selector{repoRoot: repoRoot}
}

// RepoRoot returns the repository root the selector scans.
func (s *Selector) RepoRoot() string {
	return s.repoRoot
}

// Criteria is a declarative selection request as assembled by the CLI.
//
// The fields are not combined freely. Notebooks takes precedence over the
// taxonomy fields; see Select for the exact rules.
type Criteria struct {
	// Constructs are construct names such as "sequence" or "iteration".
	Constructs []string

	// Types are exercise type names such as "modify" or "debug".
	Types []string

	// Notebooks holds explicit exercise ids and glob patterns. Entries that
	// contain glob metacharacters are treated as patterns.
	Notebooks []string
}

// IsEmpty reports whether no criterion was given.
func (c Criteria) IsEmpty() bool {
	return len(c.Constructs) == 0 && len(c.Types) == 0 && len(c.Notebooks) == 0
}

// Select dispatches c to the matching selection operation:
//
//   - Notebooks set: explicit ids and patterns, merged
//   - Constructs and Types set: their direct-path intersection
//   - only Constructs or only Types: the corresponding scan
//
// An empty Criteria is an invalid-selection error.
func (s *Selector) Select(c Criteria) ([]string, error) {
	switch {
	case len(c.Notebooks) > 0:
		return s.selectNotebookArgs(c.Notebooks)
	case len(c.Constructs) > 0 && len(c.Types) > 0:
		return s.SelectByConstructAndType(c.Constructs, c.Types)
	case len(c.Constructs) > 0:
		return s.SelectByConstruct(c.Constructs)
	case len(c.Types) > 0:
		return s.SelectByType(c.Types)
	default:
		return nil, model.NewCLIError(model.KindInvalidSelection,
			"must specify --construct, --type, or --notebooks")
	}
}

// selectNotebookArgs splits --notebooks entries into explicit ids and
// patterns and returns the union of both selections.
//
// Every explicit id must exist, so one typo fails the whole selection. A
// pattern that matches nothing contributes nothing. This lets a user mix
// "ex001_sanity" with "ex01*" and get an error only for the literal name.
func (s *Selector) selectNotebookArgs(args []string) ([]string, error) {
	var ids, patterns []string
	for _, arg := range args {
		if model.IsGlobPattern(arg) {
			patterns = append(patterns, arg)
		} else {
			ids = append(ids, arg)
		}
	}

	// Ids are checked together so the error names the first unknown one
	// in argument order.
	var result []string
	if len(ids) > 0 {
		selected, err := s.SelectByNotebooks(ids)
		if err != nil {
			return nil, err
		}
		result = append(result, selected...)
	}
	for _, pattern := range patterns {
		selected, err := s.SelectByPattern(pattern)
		if err != nil {
			return nil, err
		}
		result = append(result, selected...)
	}
	return sortUnique(result), nil
}

// SelectByConstruct returns every exercise filed under any of constructs.
//
// For each construct it scans exercises/<construct>/<type>/ for every known
// type, which picks up all exercises of the construct whatever their type.
// Each construct must be valid; at least one is required. A valid construct
// with no directory on disk contributes nothing.
func (s *Selector) SelectByConstruct(constructs []string) ([]string, error) {
	if len(constructs) == 0 {
		return nil, model.NewCLIError(model.KindInvalidSelection, "at least one construct must be specified")
	}
	if err := validateConstructs(constructs); err != nil {
		return nil, err
	}

	var result []string
	for _, c := range constructs {
		for _, t := range model.ExerciseTypes {
			ids, err := s.exerciseDirs(c, t.String())
			if err != nil {
				return nil, err
			}
			result = append(result, ids...)
		}
	}
	return sortUnique(result), nil
}

// SelectByType returns every exercise of any of types, across all
// constructs.
//
// It is the mirror image of SelectByConstruct: for each known construct it
// scans exercises/<construct>/<type>/ for every requested type.
// Directories whose name is not a construct are not scanned.
func (s *Selector) SelectByType(types []string) ([]string, error) {
	if len(types) == 0 {
		return nil, model.NewCLIError(model.KindInvalidSelection, "at least one type must be specified")
	}
	if err := validateTypes(types); err != nil {
		return nil, err
	}

	var result []string
	for _, c := range model.Constructs {
		for _, t := range types {
			ids, err := s.exerciseDirs(c.String(), t)
			if err != nil {
				return nil, err
			}
			result = append(result, ids...)
		}
	}
	return sortUnique(result), nil
}

// SelectByConstructAndType returns the exercises under
// exercises/<construct>/<type>/ for every (construct, type) pair. The
// intersection is computed by path construction: a pair without a directory
// contributes nothing rather than failing.
func (s *Selector) SelectByConstructAndType(constructs, types []string) ([]string, error) {
	if len(constructs) == 0 {
		return nil, model.NewCLIError(model.KindInvalidSelection, "at least one construct must be specified")
	}
	if len(types) == 0 {
		return nil, model.NewCLIError(model.KindInvalidSelection, "at least one type must be specified")
	}
	if err := validateConstructs(constructs); err != nil {
		return nil, err
	}
	if err := validateTypes(types); err != nil {
		return nil, err
	}

	var result []string
	for _, c := range constructs {
		for _, t := range types {
			ids, err := s.exerciseDirs(c, t)
			if err != nil {
				return nil, err
			}
			result = append(result, ids...)
		}
	}
	return sortUnique(result), nil
}

// SelectByNotebooks checks that every requested id has a notebook and
// returns the ids sorted.
//
// Ids are compared against the stems found by AllNotebooks, so an id must
// be given exactly, without ".ipynb". The first unknown id aborts the
// selection with an invalid-selection error naming it.
func (s *Selector) SelectByNotebooks(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, model.NewCLIError(model.KindInvalidSelection, "at least one notebook must be specified")
	}

	all, err := s.AllNotebooks()
	if err != nil {
		return nil, err
	}
	// Index the existing notebooks once instead of stat-ing each id.
	known := make(map[string]struct{}, len(all))
	for _, id := range all {
		known[id] = struct{}{}
	}

	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return nil, model.NewCLIErrorf(model.KindInvalidSelection, "notebook not found: %s", id)
		}
	}
	return sortUnique(append([]string(nil), ids...)), nil
}

// SelectByPattern returns every notebook stem matching the glob pattern.
//
// The pattern uses filepath.Match syntax (*, ?, [...]) and is matched
// against stems, not file names: "ex00*" matches ex001_sanity, while
// "*.ipynb" matches nothing.
//
// No match is an empty result, not an error. Patterns containing a path
// separator or malformed bracket expressions are rejected with an
// invalid-selection error.
func (s *Selector) SelectByPattern(pattern string) ([]string, error) {
	if !model.ValidateNotebookPattern(pattern) {
		return nil, model.NewCLIErrorf(model.KindInvalidSelection, "invalid pattern: %q", pattern)
	}

	all, err := s.AllNotebooks()
	if err != nil {
		return nil, err
	}

	result := []string{}
	for _, id := range all {
		ok, err := filepath.Match(pattern, id)
		if err != nil {
			// Match only reports a bad pattern when it reaches the bad part,
			// which depends on the name. Treat it the same as a rejected
			// pattern rather than as "no match".
			return nil, model.WrapCLIError(model.KindInvalidSelection,
				fmt.Sprintf("invalid pattern: %q", pattern), err)
		}
		if ok {
			result = append(result, id)
		}
	}
	return result, nil
}

// AllNotebooks returns the stems of every exercise notebook in the flat
// notebook directory.
//
// Only regular entries ending in .ipynb whose stem is an exercise id
// (see model.IsExerciseID) are listed. Scratch notebooks and
// subdirectories such as notebooks/solutions/ are skipped. A missing
// directory yields an empty list.
func (s *Selector) AllNotebooks() ([]string, error) {
	dir := filepath.Join(s.repoRoot, NotebooksDir)
	entries, err := readDir(dir)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != notebookExt {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), notebookExt)
		if model.IsExerciseID(stem) {
			ids = append(ids, stem)
		}
	}
	return sortUnique(ids), nil
}

// Locate finds the taxonomy directory of id.
//
// Lookup order:
//  1. exercises/<construct>/<type>/<id>/ for every known construct and
//     type, in declaration order. The first hit is reported with its
//     construct and type.
//  2. exercises/<id>/, reported uncategorized (empty construct and type).
//
// The second result is false when neither exists. Ids containing a path
// separator, and "." or "..", are never found, so Locate cannot be used
// to reach outside exercises/.
func (s *Selector) Locate(id string) (model.Location, bool) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return model.Location{}, false
	}

	root := filepath.Join(s.repoRoot, ExercisesDir)
	for _, c := range model.Constructs {
		for _, t := range model.ExerciseTypes {
			dir := filepath.Join(root, c.String(), t.String(), id)
			if fsutil.IsDir(dir) {
				return model.Location{Construct: c, Type: t, Dir: dir}, true
			}
		}
	}

	if dir := filepath.Join(root, id); fsutil.IsDir(dir) {
		return model.Location{Dir: dir}, true
	}
	return model.Location{}, false
}

// exerciseDirs lists the exercise directories directly under
// exercises/<construct>/<exerciseType>/.
func (s *Selector) exerciseDirs(construct, exerciseType string) ([]string, error) {
	dir := filepath.Join(s.repoRoot, ExercisesDir, construct, exerciseType)
	entries, err := readDir(dir)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() && model.IsExerciseID(e.Name()) {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// readDir is os.ReadDir that treats a missing directory as empty. Any
// other error (permissions, a file where a directory was expected) is a
// filesystem error.
func readDir(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, model.WrapCLIError(model.KindFilesystem, fmt.Sprintf("failed to read %s", dir), err)
	}
	return entries, nil
}

// validateConstructs rejects the first name that is not a known construct.
func validateConstructs(constructs []string) error {
	for _, c := range constructs {
		if !model.ValidateConstructName(c) {
			return model.NewCLIErrorf(model.KindInvalidSelection, "invalid construct: %q", c)
		}
	}
	return nil
}

// validateTypes rejects the first name that is not a known exercise type.
func validateTypes(types []string) error {
	for _, t := range types {
		if !model.ValidateTypeName(t) {
			return model.NewCLIErrorf(model.KindInvalidSelection, "invalid type: %q", t)
		}
	}
	return nil
}

// sortUnique sorts ids in place and drops duplicates. It never returns nil,
// so an empty selection encodes as [] rather than null.
func sortUnique(ids []string) []string {
	if len(ids) == 0 {
		return []string{}
	}
	sort.Strings(ids)
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}
