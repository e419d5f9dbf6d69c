// Package cleaner drives the two-phase discovery and cleaning pipeline:
// discovery completes fully before any deletion starts, so task counts and
// reporting stay deterministic.
package cleaner

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/glorpus-work/clearcache/internal/logger"
	"github.com/glorpus-work/clearcache/pkg/catalog"
	"github.com/glorpus-work/clearcache/pkg/docker"
	"github.com/glorpus-work/clearcache/pkg/errors"
	"github.com/glorpus-work/clearcache/pkg/fsutil"
	"github.com/glorpus-work/clearcache/pkg/traversal"
)

// RuntimePruner cleans the container-runtime cache. Satisfied by
// docker.Adapter.
type RuntimePruner interface {
	Prune(ctx context.Context) error
}

// Manager runs the cleaning pipeline for one root directory.
type Manager struct {
	opts   Options
	pruner RuntimePruner
}

// NewManager creates a manager with the default Docker-backed runtime pruner.
func NewManager(opts Options) *Manager {
	return NewManagerWithPruner(opts, docker.NewAdapter(opts.DryRun, opts.Verbose))
}

// NewManagerWithPruner creates a manager with a caller-supplied runtime
// pruner.
func NewManagerWithPruner(opts Options, pruner RuntimePruner) *Manager {
	return &Manager{opts: opts, pruner: pruner}
}

// Clean discovers cache items under the root and removes them (or simulates
// removal in dry-run mode). The byte and file totals are accumulated into
// the two caller-supplied counters; every worker updates them atomically.
//
// Counts can differ between dry-run and a real run on overlapping matches:
// a real run skips entries already removed with an earlier match's parent
// directory, while dry-run deletes nothing and therefore measures each
// nested match as its own entry.
func (m *Manager) Clean(ctx context.Context, bytesFreed, filesDeleted *atomic.Uint64) (*RunResult, error) {
	if len(m.opts.Categories) == 0 {
		return nil, errors.ErrNoCategories
	}

	patterns := catalog.ActivePatterns(m.opts.Categories, m.opts.IncludeLibraries)

	items, err := m.discover(ctx, patterns)
	if err != nil {
		return nil, err
	}

	fileTasks, runtimeRequested := m.buildTasks(items)
	logger.Debug("discovery complete", logger.Fields{
		"file_tasks":        len(fileTasks),
		"runtime_requested": runtimeRequested,
	})

	result := &RunResult{}
	if len(fileTasks) == 0 && !runtimeRequested {
		return result, nil
	}

	if runtimeRequested {
		if err := m.pruner.Prune(ctx); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("docker cleaning failed: %v", err))
		} else {
			// Runtime cleanup is not itemized; it counts as one unit.
			result.DirectoriesCleaned++
		}
	}

	if len(fileTasks) > 0 {
		cleaned, taskErrors := m.processTasks(fileTasks, bytesFreed, filesDeleted)
		result.DirectoriesCleaned += cleaned
		result.Errors = append(result.Errors, taskErrors...)
	}

	result.FilesDeleted = filesDeleted.Load()
	result.BytesFreed = bytesFreed.Load()
	return result, nil
}

// discover runs the traversal phase with the configured strategy.
func (m *Manager) discover(ctx context.Context, patterns []catalog.Entry) ([]traversal.Item, error) {
	maxDepth := 1
	if m.opts.Recursive {
		maxDepth = m.opts.MaxDepth
		if maxDepth <= 0 {
			maxDepth = traversal.DefaultMaxDepth
		}
	}

	cfg := traversal.Config{
		MaxDepth:          maxDepth,
		FollowSymlinks:    false, // deletion targets must not escape the root
		IncludeHidden:     true,  // most cache directories are dot-dirs
		RespectGitignore:  m.opts.RespectGitignore,
		RespectIgnoreFile: !m.opts.NoIgnore,
		Parallel:          m.opts.Workers > 1,
		Workers:           m.opts.Workers,
	}

	return traversal.New(cfg, patterns).Walk(ctx, m.opts.Root)
}

// buildTasks converts discovered items into clean tasks, separating the
// container-runtime category from filesystem work. The runtime category has
// no filesystem signature, so requesting it is what triggers the pruner.
func (m *Manager) buildTasks(items []traversal.Item) (fileTasks []Task, runtimeRequested bool) {
	for _, item := range items {
		if item.Category == catalog.CategoryDocker {
			continue
		}
		fileTasks = append(fileTasks, Task{
			Path:      item.Path,
			Signature: item.Signature,
			Category:  item.Category,
		})
	}
	for _, category := range m.opts.Categories {
		if category == catalog.CategoryDocker {
			runtimeRequested = true
		}
	}
	return fileTasks, runtimeRequested
}

// processTasks splits the task list into contiguous chunks and cleans each
// chunk on its own worker. Coordination is limited to the two atomic
// counters and the final merge of per-chunk results.
func (m *Manager) processTasks(tasks []Task, bytesFreed, filesDeleted *atomic.Uint64) (int, []string) {
	workers := m.opts.Workers
	if workers < 1 {
		workers = 1
	}
	chunkSize := len(tasks) / workers
	if chunkSize < 1 {
		chunkSize = 1
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		cleaned int
		errs    []string
	)

	for start := 0; start < len(tasks); start += chunkSize {
		end := start + chunkSize
		if end > len(tasks) {
			end = len(tasks)
		}
		chunk := tasks[start:end]

		wg.Add(1)
		go func() {
			defer wg.Done()
			chunkCleaned, chunkErrs := m.processChunk(chunk, bytesFreed, filesDeleted)
			mu.Lock()
			cleaned += chunkCleaned
			errs = append(errs, chunkErrs...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	return cleaned, errs
}

// processChunk cleans one contiguous slice of tasks. A task failure is
// recorded and the worker moves on; nothing here aborts the run.
func (m *Manager) processChunk(tasks []Task, bytesFreed, filesDeleted *atomic.Uint64) (int, []string) {
	var cleaned int
	var errs []string

	for _, task := range tasks {
		if m.opts.Verbose {
			logger.Debug("processing cache item", logger.Fields{
				"path":        task.Path,
				"description": task.Signature.Description,
				"library":     task.Signature.IsLibrary,
			})
		}

		files, size, existed, err := m.cleanItem(task)
		if err != nil {
			errs = append(errs, fmt.Sprintf("failed to clean %s: %v", task.Path, err))
			continue
		}
		if !existed {
			// Already removed, usually by an overlapping match earlier in
			// the run. Not an error and not counted.
			continue
		}

		cleaned++
		filesDeleted.Add(files)
		bytesFreed.Add(size)

		if m.opts.Verbose || m.opts.DryRun {
			verb := "deleted"
			if m.opts.DryRun {
				verb = "would delete"
			}
			logger.Info(verb, logger.Fields{
				"path":  task.Path,
				"files": files,
				"size":  FormatBytes(size),
			})
		}
	}

	return cleaned, errs
}

// cleanItem measures one target and deletes it. Measurement must happen
// before deletion since the size cannot be recovered afterwards.
func (m *Manager) cleanItem(task Task) (files, size uint64, existed bool, err error) {
	info, err := os.Lstat(task.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, false, nil
		}
		return 0, 0, false, err
	}

	isDir := info.IsDir()
	if isDir {
		size, files = fsutil.DirSizeAndFiles(task.Path)
	} else {
		size, files = uint64(info.Size()), 1
	}

	if m.opts.DryRun {
		return files, size, true, nil
	}

	if !fsutil.IsSafeToDelete(task.Path) {
		return 0, 0, true, errors.Wrapf(errors.ErrUnsafePath, "refusing to delete %s", task.Path)
	}

	if isDir {
		err = os.RemoveAll(task.Path)
	} else {
		err = os.Remove(task.Path)
	}
	if err != nil {
		// A concurrent worker may have removed an enclosing directory
		// between the Lstat and the delete. That is a success, not an error,
		// but the path no longer counts as cleaned by this task.
		if os.IsNotExist(err) {
			return 0, 0, false, nil
		}
		return 0, 0, true, err
	}

	return files, size, true, nil
}

// FormatBytes converts a byte count to a human-readable string.
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"K", "M", "G", "T", "P", "E"}
	return fmt.Sprintf("%.1f %siB", float64(bytes)/float64(div), units[exp])
}
