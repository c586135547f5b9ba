// Package packager assembles selected exercises into a standalone
// deliverable inside a disposable workspace directory.
//
// A workspace moves through a fixed lifecycle:
//
//	created -> populated -> validated -> cleaned | externalized
//
// CreateWorkspace allocates it, CopyExerciseFiles, CopyTemplateBaseFiles,
// GenerateReadme, WriteManifest and RenameDevContainer populate it,
// ValidatePackage checks it, and Cleanup removes it. Externalize copies a
// finished workspace to a persistent location before the ephemeral original
// is cleaned up. The caller that created a workspace owns it exclusively
// until Cleanup.
//
// The resulting layout is:
//
//	README.md
//	exercises.yml
//	pyproject.toml, pytest.ini, .gitignore, ...   (template scaffold)
//	notebooks/<id>.ipynb
//	notebooks/solutions/<id>.ipynb               (optional)
//	tests/__init__.py
//	tests/notebook_grader.py
//	tests/test_<id>.py
//	exercises/<id>/README.md                     (optional)
//
// Design decisions:
//   - Workspaces are created with os.MkdirTemp under a configurable parent
//     (the system temp directory by default). Two runs never share one.
//   - Every file is copied, never linked, so later edits in the exercise
//     repository cannot change a package that is being published.
//   - The repository and the template-files root are only read. The one
//     operation that deletes outside a workspace, Externalize, refuses
//     output directories that would contain either of them.
//   - Validation is structural: required files and directories must
//     exist. Notebook and test contents are not inspected.
package packager
