package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/geobrowser/geo-stream/config"
	"github.com/geobrowser/geo-stream/indexer"
	"github.com/geobrowser/geo-stream/indexer/collector"
	"github.com/geobrowser/geo-stream/indexer/scraper"
	"github.com/geobrowser/geo-stream/log"
	"github.com/geobrowser/geo-stream/metrics"
	"github.com/geobrowser/geo-stream/mq"
	"github.com/geobrowser/geo-stream/sentry_integration"
	"github.com/geobrowser/geo-stream/store"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Index blocks and publish their geo output",
		Long: `
Index blocks from START_BLOCK to END_BLOCK, or follow the chain head when END_BLOCK is unset.

Each block's output is published to the RabbitMQ super stream when MQ_ENABLED is set,
and written to stdout as one JSON document per line otherwise. The space of every
content entry is recorded in the dedup store selected by STORE_BACKEND.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}

			logger := log.NewLogger(cfg)
			metrics.Init(cfg.GetChainId())
			if err := sentry_integration.Init(cfg); err != nil {
				logger.Warn("sentry disabled", slog.Any("error", err))
			}
			defer sentry_integration.Flush(2 * time.Second)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			metricsServer := metrics.NewServer(cfg, logger)
			go func() {
				if err := metricsServer.Start(); err != nil {
					logger.Error("metrics server failed", slog.Any("error", err))
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = metricsServer.Shutdown(shutdownCtx)
			}()

			s, backend, err := store.Open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck

			sink, closeSink, err := openSink(cfg, logger)
			if err != nil {
				return err
			}
			defer closeSink()

			sc, closeClient, err := scraper.Dial(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeClient()

			idx := indexer.New(cfg, logger, sc, collector.New(logger, store.NewWriter(s, backend, logger)), sink)
			if err := idx.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	return cmd
}

func openSink(cfg *config.Config, logger *slog.Logger) (indexer.Sink, func(), error) {
	mqCfg := cfg.GetRabbitMQConfig()
	if mqCfg == nil || !mqCfg.Enabled {
		return indexer.NewJSONSink(os.Stdout), func() {}, nil
	}

	producer, err := mq.NewProducer(*mqCfg, cfg.GetChainId(), logger)
	if err != nil {
		return nil, nil, err
	}
	if err := producer.DeclareStream(); err != nil {
		_ = producer.Close()
		return nil, nil, err
	}
	return producer, func() {
		if err := producer.Close(); err != nil {
			logger.Warn("failed to close producer", slog.Any("error", err))
		}
	}, nil
}
