package traversal

import (
	"context"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/glorpus-work/clearcache/pkg/catalog"
	"github.com/glorpus-work/clearcache/pkg/fsutil"
)

// GitignoreFileName is the version-control ignore file honored on opt-in.
const GitignoreFileName = ".gitignore"

// scopedIgnore is one compiled ignore file, applied to paths relative to
// the directory it was found in.
type scopedIgnore struct {
	base    string
	matcher *ignore.GitIgnore
}

// loadScopes compiles the ignore files present in dir and returns the scope
// chain for its subtree. The parent chain is copied on growth so sibling
// subtrees never share backing arrays.
func loadScopes(cfg Config, dir string, scopes []scopedIgnore) []scopedIgnore {
	var names []string
	if cfg.RespectIgnoreFile {
		names = append(names, IgnoreFileName)
	}
	if cfg.RespectGitignore {
		names = append(names, GitignoreFileName)
	}

	var added []scopedIgnore
	for _, name := range names {
		matcher, err := ignore.CompileIgnoreFile(filepath.Join(dir, name))
		if err != nil || matcher == nil {
			continue
		}
		added = append(added, scopedIgnore{base: dir, matcher: matcher})
	}
	if len(added) == 0 {
		return scopes
	}

	merged := make([]scopedIgnore, len(scopes), len(scopes)+len(added))
	copy(merged, scopes)
	return append(merged, added...)
}

// isIgnored reports whether any scope in the chain excludes the path.
func isIgnored(path string, isDir bool, scopes []scopedIgnore) bool {
	for _, scope := range scopes {
		rel, err := filepath.Rel(scope.base, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if scope.matcher.MatchesPath(rel) {
			return true
		}
		// Directory patterns with a trailing slash only match when the
		// path carries the separator too.
		if isDir && scope.matcher.MatchesPath(rel+"/") {
			return true
		}
	}
	return false
}

// entryKind resolves whether an entry should be treated as a directory,
// honoring the symlink policy.
func entryKind(cfg Config, path string, info os.FileInfo) (isDir bool) {
	isDir = info.IsDir()
	if info.Mode()&os.ModeSymlink != 0 {
		if !cfg.FollowSymlinks {
			return false
		}
		if target, err := os.Stat(path); err == nil {
			return target.IsDir()
		}
		return false
	}
	return isDir
}

// ignoreWalker walks sequentially and honors .clearcacheignore files, plus
// .gitignore on opt-in. It never follows symlinks unless configured, which
// makes it cycle-safe by construction; when following is enabled it falls
// back to the same canonical-path guard the raw walker uses.
type ignoreWalker struct {
	cfg      Config
	patterns []catalog.Entry
}

func (w *ignoreWalker) Walk(ctx context.Context, root string) ([]Item, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	state := &ignoreWalkState{walker: w}
	if w.cfg.FollowSymlinks {
		state.visited = make(map[string]struct{})
	}
	state.visit(ctx, root, 0, nil)
	return state.items, ctx.Err()
}

type ignoreWalkState struct {
	walker  *ignoreWalker
	visited map[string]struct{}
	items   []Item
}

func (s *ignoreWalkState) visit(ctx context.Context, path string, depth int, scopes []scopedIgnore) {
	if ctx.Err() != nil {
		return
	}

	cfg := s.walker.cfg

	info, err := os.Lstat(path)
	if err != nil {
		return
	}
	isDir := entryKind(cfg, path, info)

	if s.visited != nil {
		canonical := fsutil.CanonicalPath(path)
		if _, seen := s.visited[canonical]; seen {
			return
		}
		s.visited[canonical] = struct{}{}
	}

	if entry, ok := matchPatterns(filepath.Base(path), s.walker.patterns); ok {
		s.items = append(s.items, Item{
			Path:        fsutil.CanonicalPath(path),
			Signature:   entry.Signature,
			Category:    entry.Category,
			Size:        uint64(info.Size()),
			IsDirectory: isDir,
		})
	}

	if !isDir || depth >= cfg.MaxDepth {
		return
	}

	scopes = loadScopes(cfg, path, scopes)

	children, err := os.ReadDir(path)
	if err != nil {
		return
	}
	for _, child := range children {
		if !cfg.IncludeHidden && isHidden(child.Name()) {
			continue
		}
		childPath := filepath.Join(path, child.Name())
		if isIgnored(childPath, child.IsDir(), scopes) {
			continue
		}
		s.visit(ctx, childPath, depth+1, scopes)
	}
}
