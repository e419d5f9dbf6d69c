package traversal

// Config controls how a traversal pass walks the tree.
type Config struct {
	// MaxDepth limits descent below the root. The root itself is depth 0;
	// entries deeper than MaxDepth are never visited.
	MaxDepth int
	// FollowSymlinks makes the walkers descend into symlinked directories.
	FollowSymlinks bool
	// IncludeHidden visits entries whose name starts with a dot. Cache
	// cleaning wants this on since many cache directories are hidden.
	IncludeHidden bool
	// RespectGitignore also honors .gitignore files. Off by default: cache
	// directories are routinely gitignored but still need cleaning.
	RespectGitignore bool
	// RespectIgnoreFile honors .clearcacheignore files.
	RespectIgnoreFile bool
	// Parallel selects the parallel ignore-aware walker.
	Parallel bool
	// Workers is the scan worker count for the parallel walker.
	Workers int
}

// DefaultMaxDepth bounds traversal when no explicit depth is given.
const DefaultMaxDepth = 20

// DefaultConfig returns the traversal defaults: bounded depth, no symlink
// following, hidden entries skipped, both ignore files honored, parallel scan.
func DefaultConfig() Config {
	return Config{
		MaxDepth:          DefaultMaxDepth,
		FollowSymlinks:    false,
		IncludeHidden:     false,
		RespectGitignore:  true,
		RespectIgnoreFile: true,
		Parallel:          true,
		Workers:           4,
	}
}
