package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cratedoctor/cratedoctor/pkg/logger"
)

// Version is set during build using ldflags
var Version = "dev"

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "cratedoctor",
	Short:   "Checks the health of a Rust crate",
	Long:    `cratedoctor analyzes a Cargo project and reports manifest gaps, risky code patterns, outdated dependencies, and known vulnerabilities.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
