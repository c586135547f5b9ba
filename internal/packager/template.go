package packager

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shinji-kodama/template-repo/internal/fsutil"
	"github.com/shinji-kodama/template-repo/internal/model"
)

// scaffoldEntries are copied from the template-files root to the workspace
// root when present. Missing entries are skipped, so a minimal scaffold
// needs only the files listed in RequiredFiles.
//
// The list is explicit: other files in the template-files root, such as
// README.md.template itself, are not part of the package.
var scaffoldEntries = []string{
	"pyproject.toml",
	"pytest.ini",
	".gitignore",
	".editorconfig",
	".vscode",
	".devcontainer",
	".github",
	"INSTRUCTIONS.md",
}

const (
	// graderFile is the grading harness copied to tests/ in every package.
	graderFile = "notebook_grader.py"

	// ReadmeTemplateFile is looked up in the template-files root.
	ReadmeTemplateFile = "README.md.template"

	// PlaceholderTemplateName is replaced by the package's display name.
	PlaceholderTemplateName = "{{TEMPLATE_NAME}}"

	// PlaceholderExerciseList is replaced by a Markdown bullet list of the
	// packaged exercise ids.
	PlaceholderExerciseList = "{{EXERCISE_LIST}}"

	// fallbackReadme is used when the template-files root has no
	// README.md.template.
	fallbackReadme = "# " + PlaceholderTemplateName + "\n\n" + PlaceholderExerciseList + "\n"
)

// CopyTemplateBaseFiles copies the static scaffold into workspace along
// with the grading harness, and creates tests/__init__.py.
//
// Steps:
//  1. Copy each entry of scaffoldEntries that exists, files and
//     directories alike. Existing workspace files are overwritten.
//  2. Copy the grading harness to tests/notebook_grader.py. It is taken
//     from the template-files root when it has one, otherwise from the
//     repository's own tests/ directory. When neither exists a warning is
//     logged and the later package validation reports it missing.
//  3. Create tests/__init__.py (empty) so pytest treats tests/ as a
//     package and the per-exercise tests can import the grader.
//
// A missing template-files root is a template-source-missing error and
// nothing is copied.
func (p *Packager) CopyTemplateBaseFiles(workspace string) error {
	if !fsutil.IsDir(p.templateDir) {
		return model.NewCLIErrorf(model.KindTemplateSourceMissing,
			"template files directory not found: %s", p.templateDir)
	}

	// Step 1: scaffold.
	for _, name := range scaffoldEntries {
		src := filepath.Join(p.templateDir, name)
		dst := filepath.Join(workspace, name)

		var err error
		switch {
		case fsutil.IsDir(src):
			err = fsutil.CopyDir(src, dst)
		case fsutil.IsFile(src):
			err = fsutil.CopyFile(src, dst)
		default:
			p.logger.Debug("scaffold entry absent, skipping", "entry", name)
			continue
		}
		if err != nil {
			return model.WrapCLIError(model.KindFilesystem, fmt.Sprintf("failed to copy %s", name), err)
		}
	}

	// Step 2: grading harness.
	if grader := p.graderSource(); grader != "" {
		if err := fsutil.CopyFile(grader, filepath.Join(workspace, "tests", graderFile)); err != nil {
			return model.WrapCLIError(model.KindFilesystem, "failed to copy grading harness", err)
		}
	} else {
		p.logger.Warn("grading harness not found", "templateDir", p.templateDir)
	}

	// Step 3: tests package marker.
	testsDir := filepath.Join(workspace, "tests")
	if err := fsutil.CreateDirectoryStructure(workspace, "tests"); err != nil {
		return model.WrapCLIError(model.KindFilesystem, "failed to create tests directory", err)
	}
	if err := os.WriteFile(filepath.Join(testsDir, "__init__.py"), nil, 0o644); err != nil {
		return model.WrapCLIError(model.KindFilesystem, "failed to create tests/__init__.py", err)
	}
	return nil
}

// graderSource returns the path of the grading harness, or "" if neither
// candidate exists.
func (p *Packager) graderSource() string {
	for _, candidate := range []string{
		filepath.Join(p.templateDir, graderFile),
		filepath.Join(p.repoRoot, "tests", graderFile),
	} {
		if fsutil.IsFile(candidate) {
			return candidate
		}
	}
	return ""
}

// GenerateReadme renders README.md at the workspace root from the template
// in the template-files root, or from a minimal built-in template when
// there is none. The exercise list is a bullet per id in sorted order.
//
// Example with the built-in template:
//
//	# Loops Practice
//
//	- ex010_iteration_make_loops
//	- ex011_iteration_modify_ranges
func (p *Packager) GenerateReadme(workspace, templateName string, exercises []string) error {
	tmpl := fallbackReadme
	if data, err := os.ReadFile(filepath.Join(p.templateDir, ReadmeTemplateFile)); err == nil {
		tmpl = string(data)
	} else {
		p.logger.Debug("README template not found, using fallback", "error", err)
	}

	content := RenderReadme(tmpl, templateName, exercises)
	if err := os.WriteFile(filepath.Join(workspace, "README.md"), []byte(content), 0o644); err != nil {
		return model.WrapCLIError(model.KindFilesystem, "failed to write README.md", err)
	}
	return nil
}

// RenderReadme substitutes both placeholders in tmpl. Every occurrence is
// replaced, and text that looks like another placeholder is left as is.
// It is a pure function of its inputs.
func RenderReadme(tmpl, templateName string, exercises []string) string {
	return strings.NewReplacer(
		PlaceholderTemplateName, templateName,
		PlaceholderExerciseList, formatExerciseList(exercises),
	).Replace(tmpl)
}

// formatExerciseList renders ids as "- id" lines, sorted, without a
// trailing newline. The caller's slice is not reordered.
func formatExerciseList(exercises []string) string {
	sorted := append([]string(nil), exercises...)
	sort.Strings(sorted)

	lines := make([]string, len(sorted))
	for i, id := range sorted {
		lines[i] = "- " + id
	}
	return strings.Join(lines, "\n")
}
