package cmd

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/geobrowser/geo-stream/config"
	"github.com/geobrowser/geo-stream/log"
	"github.com/geobrowser/geo-stream/mq"
	"github.com/geobrowser/geo-stream/types"
)

func tailCmd() *cobra.Command {
	var (
		from string
		name string
	)

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print block outputs read back from the RabbitMQ stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			mqCfg := cfg.GetRabbitMQConfig()
			if !mqCfg.Enabled {
				return types.NewValidationError("MQ_ENABLED", "tail requires the RabbitMQ sink")
			}
			logger := log.NewLogger(cfg)

			consumer, err := mq.NewConsumer(*mqCfg, cfg.GetChainId(), logger)
			if err != nil {
				return err
			}
			defer consumer.Close() //nolint:errcheck

			out := make(chan mq.Message, 64)
			if err := consumer.Subscribe(from, name, func(m mq.Message) { out <- m }); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			enc := json.NewEncoder(cmd.OutOrStdout())
			for {
				select {
				case <-ctx.Done():
					return nil
				case m := <-out:
					if err := enc.Encode(m); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&from, "from", "last", "start position: first, last or block:<number>")
	cmd.Flags().StringVar(&name, "name", "geo-stream-tail", "consumer group name")
	return cmd
}
