package cli

import (
	"github.com/spf13/cobra"

	"github.com/glorpus-work/clearcache/internal/logger"
	"github.com/glorpus-work/clearcache/pkg/traversal"
)

// NewInitIgnoreCmd creates the init-ignore command.
func NewInitIgnoreCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init-ignore [DIR]",
		Short: "Generate a default ignore file",
		Long:  "Write a default " + traversal.IgnoreFileName + " template into the given directory (default: current directory)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return runInitIgnore(root, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing ignore file")

	return cmd
}

func runInitIgnore(root string, force bool) error {
	path, err := traversal.WriteDefaultIgnoreFile(root, force)
	if err != nil {
		return err
	}
	logger.Success("wrote ignore file", logger.Fields{"path": path})
	return nil
}
