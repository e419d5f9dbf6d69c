package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/clearcache/pkg/catalog"
)

// TabWidth is the padding used for tabular output.
const TabWidth = 2

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known cache signatures",
		Long:  "Display every cache category and the signatures it matches",
		RunE:  runList,
	}

	return cmd
}

func runList(*cobra.Command, []string) error {
	tabWriter := tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "CATEGORY\tSIGNATURE\tPATTERNS\tKIND\tDESCRIPTION")

	for _, category := range catalog.All() {
		for _, signature := range catalog.Patterns(category) {
			kind := "file"
			if signature.IsDirectory {
				kind = "dir"
			}
			if signature.IsLibrary {
				kind += " (library)"
			}
			patterns := strings.Join(signature.Rules, ",")
			if patterns == "" {
				patterns = "-"
			}
			_, _ = fmt.Fprintf(tabWriter, "%s\t%s\t%s\t%s\t%s\n",
				category, signature.Name, patterns, kind, signature.Description)
		}
	}

	return tabWriter.Flush()
}
