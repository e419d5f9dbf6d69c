package traversal

import (
	"os"
	"path/filepath"

	"github.com/glorpus-work/clearcache/pkg/errors"
	"github.com/glorpus-work/clearcache/pkg/fsutil"
)

// IgnoreFileName is the custom ignore file honored during traversal.
const IgnoreFileName = ".clearcacheignore"

// DefaultIgnoreFileContent is the generated ignore template. It excludes
// version-control metadata, editor and OS droppings, and files that mark a
// directory as a real project, to reduce the risk of destructive false
// positives.
const DefaultIgnoreFileContent = `# ClearCache ignore patterns
# This file uses the same syntax as .gitignore
# Patterns here will be excluded from cache cleaning

# Version control directories
.git/
.svn/
.hg/
.bzr/

# IDE and editor directories
.vscode/
.idea/
*.swp
*.swo
*~

# OS generated files
.DS_Store
.DS_Store?
._*
.Spotlight-V100
.Trashes
ehthumbs.db
Thumbs.db

# Important project files
package.json
Cargo.toml
go.mod
requirements.txt
setup.py
Makefile
CMakeLists.txt

# Documentation
README*
LICENSE*
CHANGELOG*
CONTRIBUTING*
docs/
doc/

# Source code (be careful with these)
src/
lib/
include/

# Configuration files
config/
conf/
settings/
`

// WriteDefaultIgnoreFile writes the default ignore template into root and
// returns the written path. An existing file is only replaced with force.
func WriteDefaultIgnoreFile(root string, force bool) (string, error) {
	path := filepath.Join(root, IgnoreFileName)
	if _, err := os.Stat(path); err == nil && !force {
		return "", errors.Wrapf(errors.ErrIgnoreFileExists, "%s", path)
	}
	if err := os.WriteFile(path, []byte(DefaultIgnoreFileContent), fsutil.FileModeDefault); err != nil {
		return "", errors.Wrap(err, "failed to write ignore file")
	}
	return path, nil
}
