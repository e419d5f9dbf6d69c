package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/clearcache/internal/cli"
)

var configPath string

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	opts := cli.CleanOptions{}

	cmd := &cobra.Command{
		Use:   "clearcache [DIR]",
		Short: "Efficient cache clearing for development directories",
		Long: `clearcache discovers and removes disposable build and cache artifacts
across development trees (Node, Rust, Go, Python, Docker and general
caches), with a gitignore-style ignore mechanism and a dry-run mode.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Directory = "."
			if len(args) > 0 {
				opts.Directory = args[0]
			}
			return cli.RunClean(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cli.ConfigPath = &configPath

	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "show what would be deleted without deleting")
	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "recursively clean all subdirectories")
	cmd.Flags().StringVarP(&opts.Types, "types", "t", "all", "comma-separated cache categories (node,rust,go,python,docker,general; all = every category except docker)")
	cmd.Flags().IntVarP(&opts.Workers, "parallel", "p", 0, "number of parallel workers (default: CPU count)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.Flags().BoolVar(&opts.IncludeLibraries, "include-libraries", false, "also clean dependency caches that need reinstallation")
	cmd.Flags().BoolVar(&opts.NoIgnore, "no-ignore", false, "do not honor .clearcacheignore files")
	cmd.Flags().BoolVar(&opts.RespectGitignore, "respect-gitignore", false, "also honor .gitignore files")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum traversal depth for recursive cleaning (default 20)")

	cmd.AddCommand(
		cli.NewInitIgnoreCmd(),
		cli.NewListCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
