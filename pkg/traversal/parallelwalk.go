package traversal

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/glorpus-work/clearcache/pkg/catalog"
	"github.com/glorpus-work/clearcache/pkg/fsutil"
)

// parallelWalker has the same ignore semantics as ignoreWalker but scans
// directories with a bounded pool of workers. Workers only ever append to
// one mutex-guarded collection; discovery order is not guaranteed.
type parallelWalker struct {
	cfg      Config
	patterns []catalog.Entry
}

func (w *parallelWalker) Walk(ctx context.Context, root string) ([]Item, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	workers := w.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	state := &parallelWalkState{walker: w}
	if w.cfg.FollowSymlinks {
		state.visited = make(map[string]struct{})
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	state.group = group

	group.Go(func() error {
		state.visit(gctx, root, 0, nil)
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return state.items, ctx.Err()
}

type parallelWalkState struct {
	walker  *parallelWalker
	group   *errgroup.Group
	mu      sync.Mutex
	visited map[string]struct{}
	items   []Item
}

// markVisited records a canonical path, reporting whether it was new. Only
// used when symlink following is enabled.
func (s *parallelWalkState) markVisited(path string) bool {
	canonical := fsutil.CanonicalPath(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.visited[canonical]; seen {
		return false
	}
	s.visited[canonical] = struct{}{}
	return true
}

func (s *parallelWalkState) visit(ctx context.Context, path string, depth int, scopes []scopedIgnore) {
	if ctx.Err() != nil {
		return
	}

	cfg := s.walker.cfg

	info, err := os.Lstat(path)
	if err != nil {
		return
	}
	isDir := entryKind(cfg, path, info)

	if s.visited != nil && !s.markVisited(path) {
		return
	}

	if entry, ok := matchPatterns(filepath.Base(path), s.walker.patterns); ok {
		item := Item{
			Path:        fsutil.CanonicalPath(path),
			Signature:   entry.Signature,
			Category:    entry.Category,
			Size:        uint64(info.Size()),
			IsDirectory: isDir,
		}
		s.mu.Lock()
		s.items = append(s.items, item)
		s.mu.Unlock()
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
		childDepth := depth + 1
		childScopes := scopes
		// TryGo hands the subtree to a free worker; when the pool is
		// saturated the current worker scans it inline instead of
		// blocking, which would deadlock the bounded group.
		if !s.group.TryGo(func() error {
			s.visit(ctx, childPath, childDepth, childScopes)
			return nil
		}) {
			s.visit(ctx, childPath, childDepth, childScopes)
		}
	}
}
