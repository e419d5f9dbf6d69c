package cli

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/glorpus-work/clearcache/internal/logger"
	"github.com/glorpus-work/clearcache/pkg/catalog"
	"github.com/glorpus-work/clearcache/pkg/cleaner"
	"github.com/glorpus-work/clearcache/pkg/config"
)

// CleanOptions carries the root command's flag values.
type CleanOptions struct {
	Directory        string
	DryRun           bool
	Recursive        bool
	Types            string
	Workers          int
	Verbose          bool
	IncludeLibraries bool
	NoIgnore         bool
	RespectGitignore bool
	MaxDepth         int
}

// RunClean performs one discovery-and-cleaning run. Per-task errors are
// reported but never fail the command; only setup errors do.
func RunClean(ctx context.Context, opts CleanOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts = mergeConfig(opts, cfg)

	logLevel := cfg.Settings.LogLevel
	if opts.Verbose {
		logLevel = "debug"
	}
	logger.InitLogger(logLevel, logger.OutputFormat(cfg.Settings.OutputFormat))

	categories, err := resolveCategories(opts.Types, cfg)
	if err != nil {
		return err
	}

	logger.Info("cleaning caches", logger.Fields{
		"directory":  opts.Directory,
		"categories": opts.Types,
		"workers":    opts.Workers,
		"dry_run":    opts.DryRun,
	})

	manager := cleaner.NewManager(cleaner.Options{
		Root:             opts.Directory,
		Categories:       categories,
		Workers:          opts.Workers,
		Recursive:        opts.Recursive,
		DryRun:           opts.DryRun,
		Verbose:          opts.Verbose,
		IncludeLibraries: opts.IncludeLibraries,
		NoIgnore:         opts.NoIgnore,
		RespectGitignore: opts.RespectGitignore,
		MaxDepth:         opts.MaxDepth,
	})

	var bytesFreed, filesDeleted atomic.Uint64
	result, err := manager.Clean(ctx, &bytesFreed, &filesDeleted)
	if err != nil {
		return err
	}

	for _, message := range result.Errors {
		logger.Warn(message)
	}

	logger.Success("cleaning completed", logger.Fields{
		"directories_cleaned": result.DirectoriesCleaned,
		"files_deleted":       result.FilesDeleted,
		"space_freed":         cleaner.FormatBytes(result.BytesFreed),
		"errors":              len(result.Errors),
	})

	return nil
}

// mergeConfig fills flag zero values from the configuration file.
func mergeConfig(opts CleanOptions, cfg *config.Config) CleanOptions {
	if opts.Workers <= 0 {
		opts.Workers = cfg.Settings.Workers
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = cfg.Settings.MaxDepth
	}
	if cfg.Settings.IncludeLibraries {
		opts.IncludeLibraries = true
	}
	if cfg.Settings.RespectGitignore {
		opts.RespectGitignore = true
	}
	if cfg.Settings.DisableIgnoreFile {
		opts.NoIgnore = true
	}
	return opts
}

// resolveCategories parses the --types flag, falling back to the configured
// category list.
func resolveCategories(types string, cfg *config.Config) ([]catalog.Category, error) {
	if types != "" {
		return catalog.ParseList(types)
	}
	return cfg.ParseCategories()
}
