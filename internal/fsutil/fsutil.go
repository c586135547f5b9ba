package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// dirPerm is the mode used for every directory this package creates.
const dirPerm = 0o755

// CopyFile copies src to dst, creating dst's parent directories and
// truncating dst if it already exists. The source file mode is preserved.
// A missing source is reported as an error wrapping fs.ErrNotExist.
//
// Parameters:
//   - src: Path of the regular file to copy
//   - dst: Destination path, created or truncated
func CopyFile(src, dst string) error {
	// Directories are rejected here; CopyDir is the tree copy.
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source file %s: %w", src, err)
	}
	if info.IsDir() {
		return fmt.Errorf("source %s is a directory", src)
	}

	// The destination may sit several levels below an existing directory.
	if err := os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", dst, err)
	}

	return copyFile(src, dst, info.Mode().Perm())
}

// copyFile streams src into dst with io.Copy so large notebooks are never
// held in memory.
func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer srcFile.Close()

	// O_TRUNC ensures a shorter source fully replaces a longer destination.
	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	if err := dstFile.Close(); err != nil {
		return fmt.Errorf("failed to close destination file %s: %w", dst, err)
	}
	return nil
}

// CopyDir recursively copies the tree rooted at srcDir into dstDir.
// Existing files in dstDir are overwritten; files only present in dstDir are
// left alone. Symbolic links are skipped.
func CopyDir(srcDir, dstDir string) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return fmt.Errorf("failed to stat source directory %s: %w", srcDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", srcDir)
	}

	// WalkDir visits parents before children, so every directory exists
	// before the first file below it is copied.
	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error walking source directory at %s: %w", path, walkErr)
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		dstPath := filepath.Join(dstDir, relPath)

		// Skip links. Following them could escape srcDir.
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if d.IsDir() {
			if err := os.MkdirAll(dstPath, dirPerm); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, err)
			}
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		return copyFile(path, dstPath, fileInfo.Mode().Perm())
	})
}

// ResolveNotebookPath returns the absolute, cleaned form of path. Relative
// paths are resolved against the current working directory. The file does
// not need to exist; callers check presence separately.
func ResolveNotebookPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("notebook path must not be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve notebook path %s: %w", path, err)
	}
	return abs, nil
}

// CreateDirectoryStructure creates each of dirs (relative to root) along
// with any missing parents. Existing directories are not an error.
//
// Example:
//
//	CreateDirectoryStructure(ws, "notebooks", "tests", ".devcontainer")
func CreateDirectoryStructure(root string, dirs ...string) error {
	for _, dir := range dirs {
		full := filepath.Join(root, dir)
		if err := os.MkdirAll(full, dirPerm); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", full, err)
		}
	}
	return nil
}

// Exists reports whether path exists. Stat errors other than "not exist"
// are treated as existence, so callers go on to surface the real error.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
