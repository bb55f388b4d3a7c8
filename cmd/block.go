package cmd

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/geobrowser/geo-stream/config"
	"github.com/geobrowser/geo-stream/indexer/collector"
	"github.com/geobrowser/geo-stream/indexer/scraper"
	"github.com/geobrowser/geo-stream/log"
	"github.com/geobrowser/geo-stream/types"
)

func blockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block <number>",
		Short: "Print one block's geo output as JSON",
		Long: `
Fetch one block over RPC_URL, run every extractor on it and print the aggregated output.

Nothing is written to the dedup store or published.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return types.NewInvalidValueError("block number", args[0], "must be a non-negative integer")
			}

			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			logger := log.NewLogger(cfg)

			sc, closeClient, err := scraper.Dial(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeClient()

			block, err := sc.ScrapeBlock(cmd.Context(), number)
			if err != nil {
				return err
			}
			out, err := collector.New(logger, nil).Extract(block)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	return cmd
}
