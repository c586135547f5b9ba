// Package collector resolves the constituent files of each selected
// exercise: its notebook, optional solution notebook, test module and
// optional metadata README.
//
// File roles and where they live, relative to the repository root:
//
//	notebook   notebooks/<id>.ipynb                  required
//	test       tests/test_<id>.py                    required
//	solution   notebooks/solutions/<id>.ipynb        optional
//	metadata   <taxonomy dir of id>/README.md        optional
//
// The collector only checks existence. It does not open or parse any of
// the files; the packager copies them byte for byte.
package collector

import (
	"fmt"
	"path/filepath"

	"github.com/shinji-kodama/template-repo/internal/fsutil"
	"github.com/shinji-kodama/template-repo/internal/model"
)

// Locator finds the taxonomy directory of an exercise. *selector.Selector
// satisfies it.
type Locator interface {
	Locate(id string) (model.Location, bool)
}

// Collector maps exercise ids to FileSets for one repository tree.
type Collector struct {
	// repoRoot is the exercise repository every path is built from.
	repoRoot string

	// locator finds the taxonomy directory holding the metadata README.
	// It may be nil, in which case no metadata is collected.
	locator Locator
}

// New creates a Collector rooted at repoRoot. The locator is consulted for
// metadata lookup only.
func New(repoRoot string, locator Locator) *Collector {
	return &Collector{repoRoot: repoRoot, locator: locator}
}

// NotebookPath returns notebooks/<id>.ipynb under the repository root.
func (c *Collector) NotebookPath(id string) string {
	return filepath.Join(c.repoRoot, "notebooks", id+".ipynb")
}

// SolutionPath returns notebooks/solutions/<id>.ipynb.
func (c *Collector) SolutionPath(id string) string {
	return filepath.Join(c.repoRoot, "notebooks", "solutions", id+".ipynb")
}

// TestPath returns tests/test_<id>.py.
func (c *Collector) TestPath(id string) string {
	return filepath.Join(c.repoRoot, "tests", "test_"+id+".py")
}

// CollectFiles returns the FileSet for id.
//
// The notebook is checked before the test, so an exercise missing both is
// reported for its notebook. A missing notebook or test file is a
// missing-file error naming the id and the expected path; a missing
// solution or metadata README leaves that role empty.
//
// Paths in the returned FileSet are always absolute.
func (c *Collector) CollectFiles(id string) (model.FileSet, error) {
	if id == "" {
		return model.FileSet{}, model.NewCLIError(model.KindInvalidArgument, "exercise id must not be empty")
	}

	set := model.FileSet{ID: id}

	// Required roles, notebook first. Paths are made absolute so a
	// relative --repo-root still yields paths that work from any
	// directory.
	notebook, err := fsutil.ResolveNotebookPath(c.NotebookPath(id))
	if err != nil {
		return model.FileSet{}, model.WrapCLIError(model.KindFilesystem, fmt.Sprintf("invalid notebook path for %s", id), err)
	}
	set.Notebook = notebook
	if !fsutil.IsFile(set.Notebook) {
		return model.FileSet{}, model.NewCLIErrorf(model.KindMissingFile,
			"notebook not found for %s: %s", id, set.Notebook)
	}

	set.Test, err = filepath.Abs(c.TestPath(id))
	if err != nil {
		return model.FileSet{}, model.WrapCLIError(model.KindFilesystem, fmt.Sprintf("invalid test path for %s", id), err)
	}
	if !fsutil.IsFile(set.Test) {
		return model.FileSet{}, model.NewCLIErrorf(model.KindMissingFile,
			"test file not found for %s: %s", id, set.Test)
	}

	// Optional roles. Absence is normal: not every exercise ships a
	// solution, and flat exercises have no taxonomy directory.
	if solution, err := fsutil.ResolveNotebookPath(c.SolutionPath(id)); err == nil && fsutil.IsFile(solution) {
		set.Solution = solution
	}

	if c.locator != nil {
		if loc, ok := c.locator.Locate(id); ok {
			if readme, err := filepath.Abs(filepath.Join(loc.Dir, "README.md")); err == nil && fsutil.IsFile(readme) {
				set.Metadata = readme
			}
		}
	}

	return set, nil
}

// CollectMultiple collects every id in order and stops at the first error,
// returning no partial result. Callers that want every problem reported
// at once call CollectFiles per id instead. An empty list yields an empty,
// non-nil map.
func (c *Collector) CollectMultiple(ids []string) (map[string]model.FileSet, error) {
	result := make(map[string]model.FileSet, len(ids))
	for _, id := range ids {
		set, err := c.CollectFiles(id)
		if err != nil {
			return nil, err
		}
		result[id] = set
	}
	return result, nil
}
