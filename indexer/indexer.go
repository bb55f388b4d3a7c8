package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/geobrowser/geo-stream/config"
	"github.com/geobrowser/geo-stream/indexer/collector"
	"github.com/geobrowser/geo-stream/indexer/scraper"
	"github.com/geobrowser/geo-stream/metrics"
	"github.com/geobrowser/geo-stream/sentry_integration"
	"github.com/geobrowser/geo-stream/types"
)

// Sink receives each block's output in block order.
type Sink interface {
	Publish(ctx context.Context, out *types.GeoOutput) error
}

// JSONSink writes one JSON document per line.
type JSONSink struct {
	mtx sync.Mutex
	enc *json.Encoder
}

func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{enc: json.NewEncoder(w)}
}

func (s *JSONSink) Publish(_ context.Context, out *types.GeoOutput) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.enc.Encode(out)
}

// Indexer drives blocks from the scraper through the collector into the sink.
type Indexer struct {
	cfg       *config.Config
	logger    *slog.Logger
	scraper   *scraper.Scraper
	collector *collector.Collector
	sink      Sink
}

func New(cfg *config.Config, logger *slog.Logger, s *scraper.Scraper, c *collector.Collector, sink Sink) *Indexer {
	return &Indexer{
		cfg:       cfg,
		logger:    logger.With("module", "indexer"),
		scraper:   s,
		collector: c,
		sink:      sink,
	}
}

// Run indexes from START_BLOCK until END_BLOCK, or until ctx is done when
// following the head. The first failing block stops the run; blocks are never
// skipped.
func (i *Indexer) Run(ctx context.Context) error {
	if err := i.scraper.WaitForChain(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	start := i.cfg.GetChainConfig().StartBlock
	i.logger.Info("starting indexer", slog.Uint64("start", start), slog.Uint64("end", i.cfg.GetChainConfig().EndBlock))
	metrics.SetComponentHealth("indexer", true)

	blockChan := make(chan *types.Block, i.cfg.GetChainConfig().BlockRange)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return i.scraper.Run(gctx, start, blockChan)
	})
	g.Go(func() error {
		for block := range blockChan {
			if err := i.process(gctx, block); err != nil {
				return err
			}
		}
		return nil
	})

	err := g.Wait()
	switch {
	case err == nil:
		i.logger.Info("indexer finished")
	case errors.Is(err, context.Canceled):
		i.logger.Info("indexer stopped")
		err = nil
	default:
		metrics.SetComponentHealth("indexer", false)
		metrics.TrackError("indexer", metrics.ErrorType(err))
		i.logger.Error("indexer halted", slog.Any("error", err))
	}
	return err
}

func (i *Indexer) process(ctx context.Context, block *types.Block) (err error) {
	defer metrics.RecoverFromPanic("indexer", &err)

	span, ctx := sentry_integration.StartSentryTransaction(ctx, "indexer.block", fmt.Sprintf("block %d", block.Number))
	defer span.Finish()

	indexerMetrics := metrics.GetMetrics().Indexer
	fail := func(stage string, err error) error {
		indexerMetrics.ProcessingErrors.WithLabelValues(stage, metrics.ErrorType(err)).Inc()
		sentry_integration.CaptureBlockException(err, block.Number, stage)
		return err
	}

	out, err := i.collector.Collect(ctx, block)
	if err != nil {
		stage := metrics.StageExtract
		if types.IsErrorType(err, types.ErrTypeDatabase) {
			stage = metrics.StageStore
		}
		return fail(stage, err)
	}

	start := time.Now()
	if err := i.sink.Publish(ctx, out); err != nil {
		return fail(metrics.StageSink, fmt.Errorf("publish block %d: %w", block.Number, err))
	}
	indexerMetrics.BlockProcessingTime.WithLabelValues(metrics.StageSink).Observe(time.Since(start).Seconds())

	indexerMetrics.BlocksProcessedTotal.Inc()
	indexerMetrics.LogsScannedTotal.Add(float64(len(block.Logs)))
	indexerMetrics.RecordsEmittedTotal.Add(float64(out.RecordCount()))
	indexerMetrics.CurrentBlockHeight.Set(float64(block.Number))

	if records := out.RecordCount(); records > 0 {
		i.logger.Info("indexed block", slog.Uint64("height", block.Number), slog.Int("records", records))
	} else {
		i.logger.Debug("indexed block", slog.Uint64("height", block.Number))
	}
	return nil
}
