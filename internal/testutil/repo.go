package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

type (
	// Exercise describes one exercise placed into the fixture.
	Exercise struct {
		ID string

		// Construct and Type give the taxonomy directory. Both empty places
		// the exercise directly under exercises/<id>/.
		Construct string
		Type      string

		// NoSolution leaves notebooks/solutions/<id>.ipynb absent.
		NoSolution bool
	}

	// ExerciseRepo is a temporary repository tree rooted at Root.
	ExerciseRepo struct {
		t    *testing.T
		Root string
	}
)

// DefaultExercises is the exercise set every fixture starts with.
//
// sequence/modify holds two exercises, one without a solution. The
// selection/debug directory exists but is empty, and misc/debug is a
// directory whose construct is not part of the taxonomy.
var DefaultExercises = []Exercise{
	{ID: "ex001_sanity"},
	{ID: "ex002_sequence_modify_basics", Construct: "sequence", Type: "modify"},
	{ID: "ex003_sequence_modify_variables", Construct: "sequence", Type: "modify", NoSolution: true},
	{ID: "ex004_sequence_debug_syntax", Construct: "sequence", Type: "debug"},
	{ID: "ex006_selection_make_grades", Construct: "selection", Type: "make"},
	{ID: "ex010_iteration_make_loops", Construct: "iteration", Type: "make"},
}

// notebookJSON is a minimal but structurally valid notebook document.
const notebookJSON = `{
 "cells": [
  {"cell_type": "markdown", "metadata": {}, "source": ["# Exercise\n"]},
  {"cell_type": "code", "metadata": {"tags": ["exercise1"]}, "source": ["print('hi')\n"]}
 ],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 5
}
`

// TemplateFiles is the scaffold written to template_repo_files/.
var TemplateFiles = map[string]string{
	"pyproject.toml":                  "[project]\nname = \"exercises\"\nversion = \"0.1.0\"\n",
	"pytest.ini":                      "[pytest]\ntestpaths = tests\n",
	".gitignore":                      "__pycache__/\n*.pyc\n.venv/\n",
	".editorconfig":                   "root = true\n",
	".github/workflows/tests.yml":     "name: tests\non: [push]\n",
	"INSTRUCTIONS.md":                 "# Instructions\n\nOpen a notebook and run the tests.\n",
	"README.md.template":              "# {{TEMPLATE_NAME}}\n\n## Exercises\n\n{{EXERCISE_LIST}}\n",
	".devcontainer/devcontainer.json": "{\n  // scaffold container\n  \"name\": \"scaffold\",\n  \"image\": \"mcr.microsoft.com/devcontainers/python:3.12\",\n}\n",
}

// GraderSource is the content of tests/notebook_grader.py.
const GraderSource = "def run_cell_with_tag(path, tag):\n    raise NotImplementedError\n"

// NewExerciseRepo creates a fixture populated with DefaultExercises, the
// grading harness and the template scaffold. The tree lives under
// t.TempDir() and is removed automatically.
func NewExerciseRepo(t *testing.T) *ExerciseRepo {
	t.Helper()

	r := &ExerciseRepo{t: t, Root: t.TempDir()}
	for _, ex := range DefaultExercises {
		r.AddExercise(ex)
	}

	// Edge cases the selector must tolerate: an empty type directory, an
	// unknown construct, a README at construct level, and a notebook whose
	// name is not an exercise id.
	r.Mkdir("exercises/selection/debug")
	r.Write("exercises/misc/debug/ex099_misc_debug_stray/README.md", "# stray\n")
	r.Write("exercises/sequence/README.md", "# Sequence\n")
	r.Write("notebooks/scratch.ipynb", notebookJSON)

	r.Write("tests/notebook_grader.py", GraderSource)
	for rel, content := range TemplateFiles {
		r.Write(filepath.Join("template_repo_files", rel), content)
	}
	return r
}

// AddExercise writes the notebook, optional solution, test and metadata
// README for ex.
func (r *ExerciseRepo) AddExercise(ex Exercise) {
	r.t.Helper()

	r.Write(filepath.Join("notebooks", ex.ID+".ipynb"), notebookJSON)
	if !ex.NoSolution {
		r.Write(filepath.Join("notebooks", "solutions", ex.ID+".ipynb"), notebookJSON)
	}
	r.Write(filepath.Join("tests", "test_"+ex.ID+".py"), "def test_placeholder():\n    assert True\n")
	r.Write(filepath.Join(r.exerciseDir(ex), "README.md"), "# "+ex.ID+"\n")
}

// exerciseDir returns the repository-relative exercise directory.
// Uncategorized exercises sit directly under exercises/.
func (r *ExerciseRepo) exerciseDir(ex Exercise) string {
	if ex.Construct == "" && ex.Type == "" {
		return filepath.Join("exercises", ex.ID)
	}
	return filepath.Join("exercises", ex.Construct, ex.Type, ex.ID)
}

// Path joins rel onto the fixture root.
func (r *ExerciseRepo) Path(rel string) string {
	return filepath.Join(r.Root, rel)
}

// Write creates rel with content, creating parent directories.
func (r *ExerciseRepo) Write(rel, content string) {
	r.t.Helper()

	full := r.Path(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("testutil: mkdir %s: %v", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatalf("testutil: write %s: %v", full, err)
	}
}

// Mkdir creates rel and any missing parents.
func (r *ExerciseRepo) Mkdir(rel string) {
	r.t.Helper()

	if err := os.MkdirAll(r.Path(rel), 0o755); err != nil {
		r.t.Fatalf("testutil: mkdir %s: %v", rel, err)
	}
}

// Remove deletes rel recursively.
func (r *ExerciseRepo) Remove(rel string) {
	r.t.Helper()

	if err := os.RemoveAll(r.Path(rel)); err != nil {
		r.t.Fatalf("testutil: remove %s: %v", rel, err)
	}
}

// TemplateRoot returns the absolute path of template_repo_files/.
func (r *ExerciseRepo) TemplateRoot() string {
	return r.Path("template_repo_files")
}
