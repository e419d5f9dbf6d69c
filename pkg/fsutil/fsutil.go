// Package fsutil provides filesystem helpers shared by the traversal and
// cleaning stages: size measurement, path canonicalization and deletion
// safety checks.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates a directory and all necessary parent directories with
// default permissions if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirModeDefault)
}

// EnsureFileDir creates the parent directory of a file path if it doesn't exist.
func EnsureFileDir(filePath string) error {
	return EnsureDir(filepath.Dir(filePath))
}

// DirSizeAndFiles walks a directory tree and returns the total size of all
// regular files in bytes together with the file count. Entries that cannot
// be read are skipped; measurement is best effort and never fatal.
func DirSizeAndFiles(path string) (size uint64, files uint64) {
	_ = filepath.WalkDir(path, func(_ string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Type().IsRegular() {
			if info, err := entry.Info(); err == nil {
				size += uint64(info.Size())
				files++
			}
		}
		return nil
	})
	return size, files
}

// CanonicalPath resolves symlinks and relative segments. A path that cannot
// be canonicalized is returned as given, cleaned.
func CanonicalPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		if abs, err := filepath.Abs(resolved); err == nil {
			return abs
		}
		return resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// dangerousPaths are system roots that must never be deletion targets.
var dangerousPaths = []string{
	"/", "/usr", "/bin", "/sbin", "/etc", "/var", "/home", "/root",
	"/boot", "/dev", "/proc", "/sys", "/tmp",
	"/Library", "/System", "/Applications", "/Users", "/Volumes",
	`C:\`, `C:\Windows`, `C:\Program Files`, `C:\Program Files (x86)`, `C:\Users`,
}

// projectMarkers are files whose presence suggests a directory is a project
// root rather than a disposable cache.
var projectMarkers = []string{
	"main.rs", "lib.rs", "index.js",
	"package.json", "Cargo.toml", "go.mod",
	"requirements.txt", "setup.py",
	"Makefile", "README.md", "LICENSE",
}

// minPathComponents rejects targets too close to the filesystem root.
const minPathComponents = 3

// IsSafeToDelete applies the last-line safety checks before a deletion:
// never a known system path, never shallower than three path components,
// and never a directory that directly contains project marker files.
func IsSafeToDelete(path string) bool {
	clean := filepath.Clean(path)
	for _, dangerous := range dangerousPaths {
		if clean == dangerous {
			return false
		}
	}

	if len(splitComponents(clean)) < minPathComponents {
		return false
	}

	if info, err := os.Lstat(clean); err == nil && info.IsDir() {
		entries, err := os.ReadDir(clean)
		if err != nil {
			return true
		}
		for _, entry := range entries {
			for _, marker := range projectMarkers {
				if entry.Name() == marker {
					return false
				}
			}
		}
	}

	return true
}

func splitComponents(path string) []string {
	return strings.Split(filepath.ToSlash(path), "/")
}
