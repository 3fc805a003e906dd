package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/covmeter/internal/config"
	"github.com/example/covmeter/internal/ports/primary"
	"github.com/example/covmeter/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the configured trial context from config.json",
		Long: `Display the trial context based on .covmeter/config.json in the current
directory: experiment, benchmark, fuzzer, filestore backend, and the most
recently measured cycles.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg, cfgErr := config.Load(cwd)
			if cfgErr != nil {
				fmt.Println("covmeter status - No Context")
				fmt.Println()
				fmt.Println("No .covmeter/config.json found in current directory.")
				fmt.Println("Run `covmeter init` to configure a trial workspace.")
				return nil //nolint:nilerr // Missing config is intentionally not an error
			}

			check := color.New(color.FgGreen).Sprint("✓")
			fmt.Printf("%s covmeter workspace\n", check)
			fmt.Println()
			fmt.Printf("Experiment: %s\n", cfg.Experiment)
			fmt.Printf("Benchmark:  %s\n", cfg.Benchmark)
			fmt.Printf("Fuzzer:     %s\n", cfg.Fuzzer)
			fmt.Printf("Filestore:  %s\n", cfg.Filestore)
			fmt.Println()

			receipts, err := wire.MeasureService().ListReceipts(context.Background(), primary.ReceiptFilters{
				Benchmark: cfg.Benchmark,
				Fuzzer:    cfg.Fuzzer,
				Limit:     5,
			})
			if err != nil {
				fmt.Printf("Recent cycles: (error loading: %v)\n", err)
				return nil
			}
			if len(receipts) == 0 {
				fmt.Println("Recent cycles: (none measured)")
				return nil
			}

			fmt.Println("Recent cycles:")
			for _, r := range receipts {
				fmt.Printf("  - trial %d cycle %d: +%d segments, %d functions\n",
					r.Trial, r.Cycle, r.SegmentsAdded, r.FunctionsRecorded)
			}
			return nil
		},
	}

	return cmd
}
