package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cratedoctor/cratedoctor/pkg/checks"
)

// checksCmd lists the registered checks so users know which codes they can
// toggle in the configuration file.
var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "List all registered checks",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tCATEGORY\tKIND\tSEVERITY\tNAME")
		for _, d := range checks.Descriptors() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Code, d.Category, d.Kind, d.Default, d.Name)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(checksCmd)
}
