package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/covmeter/internal/config"
	"github.com/example/covmeter/internal/version"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var (
		experiment    string
		benchmark     string
		fuzzer        string
		reportDir     string
		filestore     string
		filestoreRoot string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a covmeter trial workspace in the current directory",
		Long: `Write .covmeter/config.json describing the trial this directory measures:
the experiment, benchmark, and fuzzer identity plus the filestore backend
used for durable artifacts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if experiment == "" || benchmark == "" || fuzzer == "" {
				return fmt.Errorf("experiment, benchmark, and fuzzer are required")
			}
			if filestore != config.FilestoreDir && filestore != config.FilestoreSQLite {
				return fmt.Errorf("unknown filestore backend %q, want %q or %q",
					filestore, config.FilestoreDir, config.FilestoreSQLite)
			}

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg := &config.Config{
				Version:       version.String(),
				Experiment:    experiment,
				Benchmark:     benchmark,
				Fuzzer:        fuzzer,
				ReportDir:     reportDir,
				Filestore:     filestore,
				FilestoreRoot: filestoreRoot,
			}
			if err := config.Save(cwd, cfg); err != nil {
				return err
			}

			fmt.Printf("Initialized covmeter workspace for %s/%s in experiment %s\n",
				benchmark, fuzzer, experiment)
			return nil
		},
	}

	cmd.Flags().StringVarP(&experiment, "experiment", "e", "", "Experiment name (required)")
	cmd.Flags().StringVarP(&benchmark, "benchmark", "b", "", "Benchmark name (required)")
	cmd.Flags().StringVarP(&fuzzer, "fuzzer", "f", "", "Fuzzer name (required)")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "Local scratch dir for export artifacts")
	cmd.Flags().StringVar(&filestore, "filestore", config.FilestoreDir, "Filestore backend: dir or sqlite")
	cmd.Flags().StringVar(&filestoreRoot, "filestore-root", "", "Base directory for the dir filestore backend")

	return cmd
}
