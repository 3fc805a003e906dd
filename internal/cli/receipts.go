package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/covmeter/internal/ports/primary"
	"github.com/example/covmeter/internal/wire"
)

// ReceiptsCmd returns the receipts command
func ReceiptsCmd() *cobra.Command {
	var (
		trial int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "List measurement receipts for the configured trial",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()

			receipts, err := wire.MeasureService().ListReceipts(context.Background(), primary.ReceiptFilters{
				Benchmark: cfg.Benchmark,
				Fuzzer:    cfg.Fuzzer,
				Trial:     trial,
				Limit:     limit,
			})
			if err != nil {
				return err
			}

			if len(receipts) == 0 {
				fmt.Println("No receipts recorded yet.")
				return nil
			}

			for _, r := range receipts {
				fmt.Printf("%s  trial %d cycle %d: +%d segments, %d functions (%s)\n",
					r.ID, r.Trial, r.Cycle, r.SegmentsAdded, r.FunctionsRecorded, r.CreatedAt)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&trial, "trial", "t", 0, "Filter by trial number")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum receipts to show")

	return cmd
}
