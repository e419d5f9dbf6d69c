package cleaner

import "github.com/glorpus-work/clearcache/pkg/catalog"

// Options configures one cleaning run.
type Options struct {
	// Root is the directory the run operates on.
	Root string
	// Categories selects which cache families to discover.
	Categories []catalog.Category
	// Workers is the parallelism for both traversal and execution.
	Workers int
	// Recursive descends the full tree; off limits depth to direct children.
	Recursive bool
	// DryRun measures and reports without deleting anything.
	DryRun bool
	// Verbose enables per-task reporting.
	Verbose bool
	// IncludeLibraries opts into cleaning reinstallable dependency caches.
	IncludeLibraries bool
	// NoIgnore disables the .clearcacheignore file.
	NoIgnore bool
	// RespectGitignore opts into honoring .gitignore files. Off by default
	// since cache directories are usually gitignored but still need cleaning.
	RespectGitignore bool
	// MaxDepth bounds recursive traversal. Zero means the default depth.
	MaxDepth int
}

// Task is the unit of work for the executor, built 1:1 from a discovered item.
type Task struct {
	Path      string
	Signature catalog.Signature
	Category  catalog.Category
}

// RunResult is the only externally observable artifact of a run.
type RunResult struct {
	// DirectoriesCleaned counts successfully cleaned filesystem targets,
	// plus one symbolic unit when the container-runtime cleanup ran.
	DirectoriesCleaned int
	// FilesDeleted is the total number of files removed (or, in dry-run,
	// that would have been removed).
	FilesDeleted uint64
	// BytesFreed is the total measured size of removed data.
	BytesFreed uint64
	// Errors carries every per-task and adapter failure message. A run
	// with errors is still a completed run.
	Errors []string
}
