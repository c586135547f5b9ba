// Package fsutil provides the small set of filesystem helpers shared by the
// collector and the packager: copying single files and directory trees,
// resolving notebook paths, and creating directory skeletons.
//
// All copy helpers create missing parent directories and overwrite existing
// destinations, so repeating a copy is always safe.
//
// Design decisions:
//   - Errors are plain wrapped errors (fmt.Errorf with %w). Callers attach
//     the user-facing category, since only they know whether a missing file
//     is a user mistake or a broken repository.
//   - Symbolic links inside copied trees are skipped rather than followed.
//   - Directories are always created with mode 0755; file modes are copied
//     from the source.
package fsutil
