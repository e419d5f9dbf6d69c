package traversal

import (
	"context"
	"os"
	"path/filepath"

	"github.com/glorpus-work/clearcache/pkg/catalog"
	"github.com/glorpus-work/clearcache/pkg/fsutil"
)

// rawWalker is the fastest strategy. It consults no ignore files and guards
// symlink cycles with a canonical-path set.
type rawWalker struct {
	cfg      Config
	patterns []catalog.Entry
}

func (w *rawWalker) Walk(ctx context.Context, root string) ([]Item, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	state := &rawWalkState{
		walker:  w,
		visited: make(map[string]struct{}),
	}
	state.visit(ctx, root, 0)
	return state.items, ctx.Err()
}

type rawWalkState struct {
	walker  *rawWalker
	visited map[string]struct{}
	items   []Item
}

// visit processes one entry and, for directories, descends into it. Entries
// that cannot be read are skipped silently.
func (s *rawWalkState) visit(ctx context.Context, path string, depth int) {
	if ctx.Err() != nil {
		return
	}

	cfg := s.walker.cfg

	// The canonical-path set both deduplicates reported items and stops
	// symlink cycles when following links.
	canonical := fsutil.CanonicalPath(path)
	if _, seen := s.visited[canonical]; seen {
		return
	}
	s.visited[canonical] = struct{}{}

	info, err := os.Lstat(path)
	if err != nil {
		return
	}

	isDir := info.IsDir()
	if info.Mode()&os.ModeSymlink != 0 {
		if !cfg.FollowSymlinks {
			isDir = false
		} else if target, err := os.Stat(path); err == nil {
			isDir = target.IsDir()
		}
	}

	if entry, ok := matchPatterns(filepath.Base(path), s.walker.patterns); ok {
		s.items = append(s.items, Item{
			Path:        canonical,
			Signature:   entry.Signature,
			Category:    entry.Category,
			Size:        uint64(info.Size()),
			IsDirectory: isDir,
		})
	}

	if !isDir || depth >= cfg.MaxDepth {
		return
	}

	children, err := os.ReadDir(path)
	if err != nil {
		return
	}
	for _, child := range children {
		if !cfg.IncludeHidden && isHidden(child.Name()) {
			continue
		}
		s.visit(ctx, filepath.Join(path, child.Name()), depth+1)
	}
}
