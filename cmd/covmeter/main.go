package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/covmeter/internal/cli"
	"github.com/example/covmeter/internal/version"
	"github.com/example/covmeter/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "covmeter",
		Short:   "covmeter - incremental fuzzing coverage recorder",
		Version: version.String(),
		Long: `covmeter records a fuzzing trial's code coverage cycle by cycle.
Each cycle's coverage summary is parsed, segments already seen in earlier
cycles are filtered out, and the surviving evidence is published as gzip
CSV tables alongside carried state for the next cycle.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.MeasureCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.ReceiptsCmd())

	err := rootCmd.Execute()
	wire.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
