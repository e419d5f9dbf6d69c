// Package traversal implements the discovery phase: walking a directory
// tree under a configuration and matching entries against the active cache
// signatures. Three interchangeable strategies exist, selected by
// configuration: a raw walk without ignore handling, an ignore-aware
// sequential walk, and an ignore-aware parallel walk.
package traversal

import (
	"context"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/glorpus-work/clearcache/pkg/catalog"
	"github.com/glorpus-work/clearcache/pkg/errors"
)

// Item is one discovered cache artifact. Items are transient: they live for
// a single traversal pass and are never persisted.
type Item struct {
	// Path is the canonicalized path of the artifact.
	Path string
	// Signature is the first catalog signature the entry matched.
	Signature catalog.Signature
	// Category the matched signature belongs to.
	Category catalog.Category
	// Size is the entry's own metadata size. Directory contents are
	// measured later, just before deletion.
	Size uint64
	// IsDirectory reports whether the artifact is a directory.
	IsDirectory bool
}

// Walker discovers cache items under a root directory.
type Walker interface {
	Walk(ctx context.Context, root string) ([]Item, error)
}

// New selects the traversal strategy for the configuration. All strategies
// honor MaxDepth and FollowSymlinks identically; they differ in ignore-file
// handling and parallelism.
func New(cfg Config, patterns []catalog.Entry) Walker {
	switch {
	case cfg.Parallel && cfg.RespectIgnoreFile:
		return &parallelWalker{cfg: cfg, patterns: patterns}
	case cfg.RespectIgnoreFile:
		return &ignoreWalker{cfg: cfg, patterns: patterns}
	default:
		return &rawWalker{cfg: cfg, patterns: patterns}
	}
}

// checkRoot verifies the root directory is readable before any walking
// starts. An unreadable root is the one fatal traversal error.
func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidRoot, "cannot read %s", root)
	}
	if !info.IsDir() {
		return errors.Wrapf(errors.ErrInvalidRoot, "%s is not a directory", root)
	}
	return nil
}

// matchPatterns evaluates the entry's base name against the ordered pattern
// list. The first matching signature wins; later signatures are never
// consulted for the same entry.
func matchPatterns(name string, patterns []catalog.Entry) (catalog.Entry, bool) {
	for _, entry := range patterns {
		if matchSignature(name, entry.Signature) {
			return entry, true
		}
	}
	return catalog.Entry{}, false
}

// matchSignature matches a base name against one signature. Rules containing
// wildcards use anchored glob semantics; anything else requires exact
// base-name equality.
func matchSignature(name string, signature catalog.Signature) bool {
	for _, rule := range signature.Rules {
		if strings.ContainsAny(rule, "*?[") {
			if ok, err := doublestar.Match(rule, name); err == nil && ok {
				return true
			}
		} else if name == rule {
			return true
		}
	}
	return false
}

// isHidden reports whether a base name is a dot-entry.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
