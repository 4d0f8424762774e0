package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cratedoctor/cratedoctor/pkg/audit"
	"github.com/cratedoctor/cratedoctor/pkg/checks"
	"github.com/cratedoctor/cratedoctor/pkg/config"
	"github.com/cratedoctor/cratedoctor/pkg/logger"
	"github.com/cratedoctor/cratedoctor/pkg/output"
	"github.com/cratedoctor/cratedoctor/pkg/project"
	"github.com/cratedoctor/cratedoctor/pkg/registry"
)

var (
	analyzePath string
	format      string
	configPath  string
	jobs        int
	timeout     time.Duration
)

// analyzeCmd represents the analyze subcommand
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a Cargo project and report health findings",
	Long: `Analyze runs every enabled check against the project: manifest metadata,
dependency freshness, code patterns, project structure, and a security audit.
The exit code is non-zero exactly when a finding of severity error remains.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch format {
		case "text", "human", "json", "sarif":
		default:
			return fmt.Errorf("unknown output format %q (expected text, json, or sarif)", format)
		}

		pctx, err := project.NewContext(analyzePath)
		if err != nil {
			if errors.Is(err, project.ErrNotCrateProject) {
				return err
			}
			return fmt.Errorf("could not establish project context: %w", err)
		}
		logger.Debugf("analyze: project root %s, %d source files", pctx.Root, len(pctx.Sources))

		cfg := loadConfig(pctx.Root)

		clients := checks.Clients{
			Registry: registry.NewCached(registry.NewCratesIO()),
			Audit:    audit.NewCargoAudit(),
			Sources:  project.NewSourceCache(),
		}
		report := checks.Execute(cmd.Context(), pctx, cfg, clients, checks.Options{
			Jobs:            jobs,
			ExternalTimeout: timeout,
		})

		switch format {
		case "json":
			if err := output.RenderJSON(os.Stdout, report); err != nil {
				return fmt.Errorf("failed to render JSON report: %w", err)
			}
		case "sarif":
			if err := output.RenderSARIF(os.Stdout, report, Version); err != nil {
				return fmt.Errorf("failed to render SARIF report: %w", err)
			}
		default:
			output.RenderText(os.Stdout, report)
		}

		if report.HasErrors() {
			os.Exit(1)
		}
		return nil
	},
}

// loadConfig resolves the run configuration. A broken configuration never
// aborts the run: it is reported on stderr and the defaults apply.
func loadConfig(projectRoot string) *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(projectRoot)
	}
	if err != nil {
		logger.Warnf("ignoring configuration: %v", err)
		return config.Default()
	}
	return cfg
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzePath, "path", "p", ".", "Path to the Cargo project to analyze")
	analyzeCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, or sarif")
	analyzeCmd.Flags().StringVar(&configPath, "config", "", "Path to a configuration file (default: .cratedoctor.toml in the project root)")
	analyzeCmd.Flags().IntVar(&jobs, "jobs", 0, "Maximum number of checks run concurrently (default: number of CPUs)")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", checks.DefaultExternalTimeout, "Time budget for each network or subprocess check")
}
