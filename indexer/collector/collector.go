package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/geobrowser/geo-stream/aggregator"
	"github.com/geobrowser/geo-stream/metrics"
	"github.com/geobrowser/geo-stream/store"
	"github.com/geobrowser/geo-stream/types"
)

// Collector runs every extractor over a block, aggregates their outputs and
// records the block's content spaces in the dedup store.
type Collector struct {
	logger *slog.Logger
	writer *store.Writer
}

// New returns a collector. A nil writer skips the dedup store.
func New(logger *slog.Logger, writer *store.Writer) *Collector {
	return &Collector{
		logger: logger.With("module", "collector"),
		writer: writer,
	}
}

// Extract fans the extractors out, waits for all of them and aggregates. Any
// extractor failure fails the block with no output.
func (c *Collector) Extract(block *types.Block) (*types.GeoOutput, error) {
	start := time.Now()

	var (
		in        aggregator.Inputs
		g         errgroup.Group
		durations = make([]time.Duration, len(aggregator.Jobs))
	)
	for i, job := range aggregator.Jobs {
		g.Go(func() (err error) {
			defer metrics.RecoverFromPanic("collector", &err)

			jobStart := time.Now()
			err = job.Run(block, &in)
			durations[i] = time.Since(jobStart)
			if err != nil {
				metrics.ObserveExtractor(job.Name, 0, durations[i], err)
				c.logger.Error("extractor failed",
					slog.String("extractor", job.Name),
					slog.Uint64("height", block.Number),
					slog.Any("error", err))
				return fmt.Errorf("extractor %s: %w", job.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out, err := aggregator.Aggregate(in)
	if err != nil {
		return nil, err
	}
	aggregator.SetBlock(out, block)

	counts := aggregator.Counts(out)
	for i, job := range aggregator.Jobs {
		metrics.ObserveExtractor(job.Name, counts[job.Name], durations[i], nil)
	}
	metrics.GetMetrics().Indexer.BlockProcessingTime.WithLabelValues(metrics.StageExtract).Observe(time.Since(start).Seconds())

	return out, nil
}

// Collect extracts block and then writes the spaces of its content entries.
func (c *Collector) Collect(ctx context.Context, block *types.Block) (*types.GeoOutput, error) {
	out, err := c.Extract(block)
	if err != nil {
		return nil, err
	}
	if c.writer == nil {
		return out, nil
	}

	start := time.Now()
	res, err := c.writer.WriteEntries(ctx, &types.EntriesAdded{Entries: out.Entries})
	if err != nil {
		return nil, fmt.Errorf("store block %d: %w", block.Number, err)
	}
	metrics.GetMetrics().Indexer.BlockProcessingTime.WithLabelValues(metrics.StageStore).Observe(time.Since(start).Seconds())

	if res.Inserted > 0 {
		c.logger.Info("recorded new spaces", slog.Uint64("height", block.Number), slog.Int("count", res.Inserted))
	}
	return out, nil
}
