package packager

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/shinji-kodama/template-repo/internal/fsutil"
	"github.com/shinji-kodama/template-repo/internal/model"
)

// DefaultTemplateDir is the template-files root relative to the repository.
const DefaultTemplateDir = "template_repo_files"

// workspacePrefix names every temporary workspace so stray ones are easy to
// recognize in the system temp directory.
const workspacePrefix = "template-repo-"

// RequiredFiles must exist in a valid package, relative to the workspace.
// pyproject.toml and pytest.ini come from the scaffold, README.md is
// generated, and the grader is copied by CopyTemplateBaseFiles.
var RequiredFiles = []string{
	"pyproject.toml",
	"pytest.ini",
	"README.md",
	filepath.Join("tests", "notebook_grader.py"),
}

// RequiredDirs must exist in a valid package, relative to the workspace.
var RequiredDirs = []string{
	"notebooks",
	"tests",
}

// Packager builds workspaces from one repository's exercise files and
// template scaffold.
//
// A Packager is configuration only. Workspace paths are passed to every
// method, so one Packager may build several workspaces.
type Packager struct {
	// repoRoot is the exercise repository. It is never written.
	repoRoot string

	// templateDir is the template-files root holding the scaffold,
	// README.md.template and optionally the grading harness.
	templateDir string

	// tempDir is the parent of new workspaces; "" means os.TempDir().
	tempDir string

	// logger receives debug tracing of every copy and removal.
	logger *log.Logger
}

// Option configures a Packager.
type Option func(*Packager)

// WithTemplateDir overrides the template-files root. Relative paths are
// resolved against the repository root.
func WithTemplateDir(dir string) Option {
	return func(p *Packager) {
		if dir == "" {
			return
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(p.repoRoot, dir)
		}
		p.templateDir = dir
	}
}

// WithTempDir sets the parent directory for new workspaces. The default is
// the system temp directory.
func WithTempDir(dir string) Option {
	return func(p *Packager) { p.tempDir = dir }
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *log.Logger) Option {
	return func(p *Packager) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Packager for the repository rooted at repoRoot. The
// template-files root defaults to <repoRoot>/template_repo_files.
func New(repoRoot string, opts ...Option) *Packager {
	p := &Packager{
		repoRoot:    repoRoot,
		templateDir: filepath.Join(repoRoot, DefaultTemplateDir),
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TemplateDir returns the template-files root in use.
func (p *Packager) TemplateDir() string {
	return p.templateDir
}

// CreateWorkspace allocates a fresh, uniquely named directory. Two calls
// never return the same path.
//
// The directory is named "template-repo-<random>" and created with mode
// 0700 by os.MkdirTemp. The caller owns it and must call Cleanup.
func (p *Packager) CreateWorkspace() (string, error) {
	ws, err := os.MkdirTemp(p.tempDir, workspacePrefix)
	if err != nil {
		return "", model.WrapCLIError(model.KindFilesystem, "failed to create workspace", err)
	}
	p.logger.Debug("created workspace", "path", ws)
	return ws, nil
}

// CopyExerciseFiles copies each exercise's files into the canonical layout.
//
// Source and destination per role:
//
//	notebook   -> notebooks/<id>.ipynb
//	test       -> tests/test_<id>.py
//	solution   -> notebooks/solutions/<id>.ipynb   (includeSolutions only)
//	metadata   -> exercises/<id>/README.md
//
// The flat exercises/<id>/ destination drops the construct and type
// directories; the manifest records them instead. Exercises are copied in
// sorted id order so the debug log is stable.
//
// Solutions are copied only when includeSolutions is set and a solution
// exists. A FileSet without a notebook or test path is a missing-file
// error. Calling it again overwrites the previous copies.
func (p *Packager) CopyExerciseFiles(workspace string, files map[string]model.FileSet, includeSolutions bool) error {
	for _, id := range model.SortedIDs(files) {
		set := files[id]

		copies := []struct{ src, dst string }{
			{set.Notebook, filepath.Join(workspace, "notebooks", id+".ipynb")},
			{set.Test, filepath.Join(workspace, "tests", "test_"+id+".py")},
		}
		if includeSolutions && set.Solution != "" {
			copies = append(copies, struct{ src, dst string }{
				set.Solution, filepath.Join(workspace, "notebooks", "solutions", id+".ipynb"),
			})
		}
		if set.Metadata != "" {
			copies = append(copies, struct{ src, dst string }{
				set.Metadata, filepath.Join(workspace, "exercises", id, "README.md"),
			})
		}

		for _, c := range copies {
			if c.src == "" {
				return model.NewCLIErrorf(model.KindMissingFile, "exercise %s has no source for %s", id, c.dst)
			}
			if err := fsutil.CopyFile(c.src, c.dst); err != nil {
				return model.WrapCLIError(model.KindFilesystem, fmt.Sprintf("failed to copy files for %s", id), err)
			}
		}
		p.logger.Debug("copied exercise", "id", id, "files", len(copies))
	}
	return nil
}

// ValidatePackage reports whether every required file and directory exists
// in workspace. It never fails; use MissingEntries for the details. A
// workspace that does not exist is simply invalid.
func (p *Packager) ValidatePackage(workspace string) bool {
	return len(p.MissingEntries(workspace)) == 0
}

// MissingEntries lists the required files and directories absent from
// workspace, in the order they are checked: RequiredFiles first, then
// RequiredDirs with a trailing slash. A file where a directory is required
// (or the reverse) counts as missing.
func (p *Packager) MissingEntries(workspace string) []string {
	var missing []string
	for _, rel := range RequiredFiles {
		if !fsutil.IsFile(filepath.Join(workspace, rel)) {
			missing = append(missing, rel)
		}
	}
	for _, rel := range RequiredDirs {
		if !fsutil.IsDir(filepath.Join(workspace, rel)) {
			missing = append(missing, rel+"/")
		}
	}
	return missing
}

// Cleanup removes workspace recursively. Removing a workspace that no
// longer exists is not an error, so every exit path may call it.
func (p *Packager) Cleanup(workspace string) error {
	if workspace == "" {
		return nil
	}
	if err := os.RemoveAll(workspace); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return model.WrapCLIError(model.KindFilesystem, fmt.Sprintf("failed to remove workspace %s", workspace), err)
	}
	p.logger.Debug("removed workspace", "path", workspace)
	return nil
}

// CheckOutputDir rejects an output directory that Externalize must not
// replace. Externalize clears outputDir before copying, so it may not be,
// or contain, any of:
//   - the exercise repository root
//   - the template-files root
//   - the workspace being exported
//
// An output directory inside the workspace is rejected too, since the copy
// would recurse into itself. Paths are compared after resolving symlinks
// on their longest existing prefix, so a temp dir reached through a
// symlinked parent is still recognized.
//
// It returns an invalid-argument CLIError and touches nothing on disk.
func (p *Packager) CheckOutputDir(workspace, outputDir string) error {
	out, err := resolvePath(outputDir)
	if err != nil {
		return model.WrapCLIError(model.KindInvalidArgument, fmt.Sprintf("invalid output directory %s", outputDir), err)
	}

	protected := []struct{ what, path string }{
		{"the exercise repository", p.repoRoot},
		{"the template files", p.templateDir},
		{"the package workspace", workspace},
	}
	for _, pr := range protected {
		if pr.path == "" {
			continue
		}
		target, err := resolvePath(pr.path)
		if err != nil {
			continue
		}
		if within(out, target) {
			return model.NewCLIErrorf(model.KindInvalidArgument,
				"refusing to use output directory %s: it would replace %s at %s", outputDir, pr.what, pr.path)
		}
	}

	if workspace != "" {
		if ws, err := resolvePath(workspace); err == nil && within(ws, out) {
			return model.NewCLIErrorf(model.KindInvalidArgument,
				"refusing to use output directory %s: it is inside the package workspace", outputDir)
		}
	}
	return nil
}

// Externalize copies the finished workspace to outputDir, replacing any
// existing directory there. The workspace itself is left in place for the
// caller to clean up.
//
// outputDir is checked with CheckOutputDir before anything is removed.
// After the copy, the exported package is validated again and its
// manifest is read back, so a partial copy is reported here rather than
// discovered by whoever opens the directory later.
func (p *Packager) Externalize(workspace, outputDir string) error {
	if err := p.CheckOutputDir(workspace, outputDir); err != nil {
		return err
	}
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return model.WrapCLIError(model.KindFilesystem, fmt.Sprintf("invalid output directory %s", outputDir), err)
	}
	if fsutil.Exists(abs) {
		p.logger.Debug("replacing existing output directory", "path", abs)
		if err := os.RemoveAll(abs); err != nil {
			return model.WrapCLIError(model.KindFilesystem, fmt.Sprintf("failed to clear output directory %s", abs), err)
		}
	}
	if err := fsutil.CopyDir(workspace, abs); err != nil {
		return model.WrapCLIError(model.KindFilesystem, fmt.Sprintf("failed to copy workspace to %s", abs), err)
	}

	// Verify the copy.
	if missing := p.MissingEntries(abs); len(missing) > 0 {
		return model.NewCLIErrorf(model.KindPackageInvalid,
			"exported package at %s is incomplete: missing %s", abs, strings.Join(missing, ", "))
	}
	manifest, err := ReadManifest(abs)
	if err != nil {
		return model.WrapCLIError(model.KindPackageInvalid, fmt.Sprintf("exported package at %s has no readable manifest", abs), err)
	}
	p.logger.Debug("externalized workspace", "from", workspace, "to", abs, "exercises", len(manifest.Exercises))
	return nil
}

// resolvePath returns the absolute form of path with symlinks resolved on
// the longest prefix that exists. The remainder, which does not exist yet,
// is appended unchanged.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rest := ""
	dir := abs
	for {
		if real, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(real, rest), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

// within reports whether child is parent or lies below it. Both paths must
// be absolute and clean.
func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
