package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/covmeter/internal/ports/primary"
	"github.com/example/covmeter/internal/wire"
)

// MeasureCmd returns the measure command
func MeasureCmd() *cobra.Command {
	var (
		trial       int
		cycle       int
		cycleTime   int64
		summaryPath string
		corpusPath  string
		corpusDir   string
	)

	cmd := &cobra.Command{
		Use:   "measure",
		Short: "Record one cycle's coverage for the configured trial",
		Long: `Parse the cycle's coverage summary, keep only segments not already seen
in earlier cycles, and publish the cycle's function and segment tables as
gzip CSV artifacts together with the carried state for the next cycle.

When --corpus names a tar.gz archive, its units are extracted first and
units measured in earlier cycles are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()

			req := primary.MeasureCycleRequest{
				Benchmark:   cfg.Benchmark,
				Fuzzer:      cfg.Fuzzer,
				Trial:       trial,
				Cycle:       cycle,
				Time:        cycleTime,
				SummaryPath: summaryPath,
				CorpusPath:  corpusPath,
				CorpusDir:   corpusDir,
			}
			resp, err := wire.MeasureService().MeasureCycle(context.Background(), req)
			if err != nil {
				return err
			}

			check := color.New(color.FgGreen).Sprint("✓")
			fmt.Printf("%s Measured %s/%s trial %d cycle %d\n", check, cfg.Benchmark, cfg.Fuzzer, trial, cycle)
			fmt.Printf("  Functions recorded: %d\n", resp.FunctionsRecorded)
			fmt.Printf("  New segments:       %d\n", resp.SegmentsAdded)
			if corpusPath != "" {
				fmt.Printf("  New corpus units:   %d\n", resp.CorpusUnitsAdded)
			}
			fmt.Printf("  Functions artifact: %s\n", resp.FunctionsArtifact)
			fmt.Printf("  Segments artifact:  %s\n", resp.SegmentsArtifact)
			if resp.ReceiptID != "" {
				fmt.Printf("  Receipt:            %s\n", resp.ReceiptID)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&trial, "trial", "t", 0, "Trial number (required)")
	cmd.Flags().IntVarP(&cycle, "cycle", "c", 0, "Cycle number, starting at 1 (required)")
	cmd.Flags().Int64Var(&cycleTime, "time", 0, "Seconds into the trial this cycle represents")
	cmd.Flags().StringVarP(&summaryPath, "summary", "s", "", "Path to the cycle's coverage summary JSON (required)")
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "Path to the cycle's corpus tar.gz archive")
	cmd.Flags().StringVar(&corpusDir, "corpus-dir", "", "Directory to materialize corpus units into")
	_ = cmd.MarkFlagRequired("trial")
	_ = cmd.MarkFlagRequired("cycle")
	_ = cmd.MarkFlagRequired("summary")

	return cmd
}
