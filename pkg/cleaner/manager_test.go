package cleaner_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/clearcache/pkg/catalog"
	"github.com/glorpus-work/clearcache/pkg/cleaner"
	"github.com/glorpus-work/clearcache/pkg/errors"
)

type fakePruner struct {
	calls int
	err   error
}

func (f *fakePruner) Prune(context.Context) error {
	f.calls++
	return f.err
}

func runClean(t *testing.T, opts cleaner.Options, pruner cleaner.RuntimePruner) *cleaner.RunResult {
	t.Helper()
	var bytesFreed, filesDeleted atomic.Uint64
	result, err := cleaner.NewManagerWithPruner(opts, pruner).Clean(context.Background(), &bytesFreed, &filesDeleted)
	require.NoError(t, err)
	return result
}

// setupCacheTree builds a tree with one general cache directory holding a
// 500 byte file and one python cache directory holding a 200 byte file.
func setupCacheTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".exporter"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".exporter", "report.dat"), make([]byte, 500), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "__pycache__"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "__pycache__", "a.pyc"), make([]byte, 200), 0o644))
	return root
}

func TestCleanRemovesCacheDirectories(t *testing.T) {
	root := setupCacheTree(t)

	result := runClean(t, cleaner.Options{
		Root:       root,
		Categories: []catalog.Category{catalog.CategoryPython, catalog.CategoryGeneral},
		Workers:    1,
		Recursive:  true,
	}, &fakePruner{})

	// The a.pyc match inside __pycache__ disappears together with its
	// parent, so it is not a third cleaned entry.
	assert.Equal(t, 2, result.DirectoriesCleaned)
	assert.Equal(t, uint64(2), result.FilesDeleted)
	assert.Equal(t, uint64(700), result.BytesFreed)
	assert.Empty(t, result.Errors)

	assert.NoDirExists(t, filepath.Join(root, ".exporter"))
	assert.NoDirExists(t, filepath.Join(root, "__pycache__"))
}

func TestCleanDryRunTouchesNothing(t *testing.T) {
	root := setupCacheTree(t)

	result := runClean(t, cleaner.Options{
		Root:       root,
		Categories: []catalog.Category{catalog.CategoryPython, catalog.CategoryGeneral},
		Workers:    1,
		Recursive:  true,
		DryRun:     true,
	}, &fakePruner{})

	// Dry-run reports the totals a real run would produce. The a.pyc match
	// is still present on disk here, so it is measured as its own entry.
	assert.Equal(t, 3, result.DirectoriesCleaned)
	assert.Equal(t, uint64(3), result.FilesDeleted)
	assert.Equal(t, uint64(900), result.BytesFreed)

	assert.DirExists(t, filepath.Join(root, ".exporter"))
	assert.FileExists(t, filepath.Join(root, "__pycache__", "a.pyc"))
}

func TestCleanIsIdempotent(t *testing.T) {
	root := setupCacheTree(t)
	opts := cleaner.Options{
		Root:       root,
		Categories: []catalog.Category{catalog.CategoryPython, catalog.CategoryGeneral},
		Workers:    1,
		Recursive:  true,
	}

	first := runClean(t, opts, &fakePruner{})
	assert.Equal(t, 2, first.DirectoriesCleaned)

	second := runClean(t, opts, &fakePruner{})
	assert.Equal(t, 0, second.DirectoriesCleaned)
	assert.Equal(t, uint64(0), second.FilesDeleted)
	assert.Empty(t, second.Errors)
}

func TestCleanLibraryPolicy(t *testing.T) {
	setup := func(t *testing.T) string {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "leftpad"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "leftpad", "index.mjs"), make([]byte, 100), 0o644))
		return root
	}

	opts := cleaner.Options{
		Categories: []catalog.Category{catalog.CategoryNode},
		Workers:    1,
		Recursive:  true,
	}

	t.Run("libraries survive by default", func(t *testing.T) {
		opts := opts
		opts.Root = setup(t)
		result := runClean(t, opts, &fakePruner{})
		assert.Equal(t, 0, result.DirectoriesCleaned)
		assert.DirExists(t, filepath.Join(opts.Root, "node_modules"))
	})

	t.Run("opt-in removes them", func(t *testing.T) {
		opts := opts
		opts.Root = setup(t)
		opts.IncludeLibraries = true
		result := runClean(t, opts, &fakePruner{})
		assert.Equal(t, 1, result.DirectoriesCleaned)
		assert.NoDirExists(t, filepath.Join(opts.Root, "node_modules"))
	})
}

func TestCleanNonRecursiveStopsAtDirectChildren(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "__pycache__"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "project", "__pycache__"), 0o755))

	result := runClean(t, cleaner.Options{
		Root:       root,
		Categories: []catalog.Category{catalog.CategoryPython},
		Workers:    1,
	}, &fakePruner{})

	assert.Equal(t, 1, result.DirectoriesCleaned)
	assert.DirExists(t, filepath.Join(root, "project", "__pycache__"))
}

func TestCleanHonorsIgnoreFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".clearcacheignore"), []byte("protected/\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "protected", "__pycache__"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "other", "__pycache__"), 0o755))

	opts := cleaner.Options{
		Root:       root,
		Categories: []catalog.Category{catalog.CategoryPython},
		Workers:    1,
		Recursive:  true,
	}

	result := runClean(t, opts, &fakePruner{})
	assert.Equal(t, 1, result.DirectoriesCleaned)
	assert.DirExists(t, filepath.Join(root, "protected", "__pycache__"))
	assert.NoDirExists(t, filepath.Join(root, "other", "__pycache__"))

	opts.NoIgnore = true
	result = runClean(t, opts, &fakePruner{})
	assert.Equal(t, 1, result.DirectoriesCleaned)
	assert.NoDirExists(t, filepath.Join(root, "protected", "__pycache__"))
}

func TestCleanParallelWorkers(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"p1", "p2", "p3", "p4", "p5", "p6"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name, "__pycache__"), 0o755))
		// The payload name must not match a signature itself, so each
		// directory yields exactly one task regardless of worker order.
		require.NoError(t, os.WriteFile(filepath.Join(root, name, "__pycache__", "data.bin"), make([]byte, 10), 0o644))
	}

	result := runClean(t, cleaner.Options{
		Root:       root,
		Categories: []catalog.Category{catalog.CategoryPython},
		Workers:    4,
		Recursive:  true,
	}, &fakePruner{})

	assert.Equal(t, 6, result.DirectoriesCleaned)
	assert.Equal(t, uint64(6), result.FilesDeleted)
	assert.Equal(t, uint64(60), result.BytesFreed)
	assert.Empty(t, result.Errors)
}

func TestCleanNoCategories(t *testing.T) {
	var bytesFreed, filesDeleted atomic.Uint64
	manager := cleaner.NewManagerWithPruner(cleaner.Options{Root: t.TempDir()}, &fakePruner{})
	_, err := manager.Clean(context.Background(), &bytesFreed, &filesDeleted)
	require.ErrorIs(t, err, errors.ErrNoCategories)
}

func TestCleanInvalidRoot(t *testing.T) {
	var bytesFreed, filesDeleted atomic.Uint64
	manager := cleaner.NewManagerWithPruner(cleaner.Options{
		Root:       filepath.Join(t.TempDir(), "missing"),
		Categories: catalog.All(),
	}, &fakePruner{})
	_, err := manager.Clean(context.Background(), &bytesFreed, &filesDeleted)
	require.ErrorIs(t, err, errors.ErrInvalidRoot)
}

func TestCleanNothingToDo(t *testing.T) {
	pruner := &fakePruner{}
	result := runClean(t, cleaner.Options{
		Root:       t.TempDir(),
		Categories: []catalog.Category{catalog.CategoryPython},
		Workers:    1,
	}, pruner)

	assert.Equal(t, 0, result.DirectoriesCleaned)
	assert.Equal(t, 0, pruner.calls)
}

func TestCleanDefaultCategoriesNeverPrune(t *testing.T) {
	// The default category selection must not reach the container runtime:
	// pruning it wipes images, containers and volumes system-wide.
	categories, err := catalog.ParseList("all")
	require.NoError(t, err)

	pruner := &fakePruner{}
	result := runClean(t, cleaner.Options{
		Root:       t.TempDir(),
		Categories: categories,
		Workers:    1,
	}, pruner)

	assert.Equal(t, 0, pruner.calls)
	assert.Equal(t, 0, result.DirectoriesCleaned)
	assert.Empty(t, result.Errors)
}

func TestCleanDockerRequested(t *testing.T) {
	t.Run("successful prune counts as one unit", func(t *testing.T) {
		pruner := &fakePruner{}
		result := runClean(t, cleaner.Options{
			Root:       t.TempDir(),
			Categories: []catalog.Category{catalog.CategoryDocker},
			Workers:    1,
		}, pruner)

		assert.Equal(t, 1, pruner.calls)
		assert.Equal(t, 1, result.DirectoriesCleaned)
		assert.Empty(t, result.Errors)
	})

	t.Run("prune failure is reported but not fatal", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "__pycache__"), 0o755))

		pruner := &fakePruner{err: errors.ErrDockerUnavailable}
		result := runClean(t, cleaner.Options{
			Root:       root,
			Categories: []catalog.Category{catalog.CategoryDocker, catalog.CategoryPython},
			Workers:    1,
			Recursive:  true,
		}, pruner)

		// The filesystem part of the run still completes.
		assert.Equal(t, 1, result.DirectoriesCleaned)
		require.Len(t, result.Errors, 1)
		assert.True(t, strings.Contains(result.Errors[0], "docker"))
		assert.NoDirExists(t, filepath.Join(root, "__pycache__"))
	})
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    uint64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1024 * 1024, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleaner.FormatBytes(tt.bytes))
		})
	}
}
