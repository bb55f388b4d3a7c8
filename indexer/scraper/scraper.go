package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/sync/errgroup"

	"github.com/geobrowser/geo-stream/cache"
	"github.com/geobrowser/geo-stream/config"
	"github.com/geobrowser/geo-stream/contracts"
	"github.com/geobrowser/geo-stream/metrics"
	"github.com/geobrowser/geo-stream/types"
)

const (
	headerConcurrency = 8
	headKey           = "head"
)

// Client is the subset of ethclient.Client the scraper uses.
type Client interface {
	BlockNumber(ctx context.Context) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*ethtypes.Header, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]ethtypes.Log, error)
}

// Scraper turns block ranges into types.Block values carrying only the logs
// of known geo events.
type Scraper struct {
	chain           *config.ChainConfig
	logger          *slog.Logger
	client          Client
	queryTimeout    time.Duration
	pollingInterval time.Duration
	head            *cache.TTLCache[string, uint64]
	topics          [][]common.Hash
}

func New(cfg *config.Config, logger *slog.Logger, client Client) *Scraper {
	ids := make([]common.Hash, 0, len(contracts.All))
	for _, ev := range contracts.All {
		ids = append(ids, ev.ID())
	}

	return &Scraper{
		chain:           cfg.GetChainConfig(),
		logger:          logger.With("module", "scraper"),
		client:          client,
		queryTimeout:    cfg.GetQueryTimeout(),
		pollingInterval: cfg.GetPollingInterval(),
		head:            cache.NewTTL[string, uint64](1, cfg.GetPollingInterval()),
		topics:          [][]common.Hash{ids},
	}
}

// Dial connects to RPC_URL. The returned close function releases the client.
func Dial(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Scraper, func(), error) {
	rpcURL := cfg.GetChainConfig().RpcUrl
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, types.NewNetworkError(rpcURL, err)
	}
	return New(cfg, logger, client), client.Close, nil
}

// Latest returns the chain head, cached for one polling interval.
func (s *Scraper) Latest(ctx context.Context) (uint64, error) {
	if head, ok := s.head.Get(headKey); ok {
		return head, nil
	}

	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	head, err := s.client.BlockNumber(qctx)
	if err != nil {
		return 0, s.queryError(ctx, "eth_blockNumber", err)
	}
	s.head.Set(headKey, head)
	return head, nil
}

// WaitForChain blocks until the RPC answers with a head at or above
// START_BLOCK.
func (s *Scraper) WaitForChain(ctx context.Context) error {
	for {
		head, err := s.Latest(ctx)
		switch {
		case err != nil:
			s.logger.Error("failed to get chain height", slog.Any("error", err))
		case head >= s.chain.StartBlock:
			return nil
		default:
			s.logger.Info("waiting for chain to reach start block",
				slog.Uint64("head", head), slog.Uint64("start", s.chain.StartBlock))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(types.ChainCheckInterval):
		}
	}
}

// ScrapeBlock returns a single block.
func (s *Scraper) ScrapeBlock(ctx context.Context, number uint64) (*types.Block, error) {
	blocks, err := s.ScrapeRange(ctx, number, number)
	if err != nil {
		return nil, err
	}
	return blocks[0], nil
}

// ScrapeRange returns every block in [from, to] in increasing order, including
// blocks without geo logs. Removed logs are dropped.
func (s *Scraper) ScrapeRange(ctx context.Context, from, to uint64) ([]*types.Block, error) {
	if to < from {
		return nil, types.NewInvalidValueError("range", fmt.Sprintf("%d-%d", from, to), "end before start")
	}
	start := time.Now()

	logs, err := s.filterLogs(ctx, from, to)
	if err != nil {
		return nil, err
	}

	blocks := make([]*types.Block, to-from+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(headerConcurrency)
	for i := range blocks {
		number := from + uint64(i)
		g.Go(func() error {
			header, err := s.header(gctx, number)
			if err != nil {
				return err
			}
			blocks[i] = &types.Block{
				Number:    number,
				Hash:      header.Hash(),
				Timestamp: header.Time,
				Logs:      []ethtypes.Log{},
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, log := range logs {
		if log.Removed {
			continue
		}
		if log.BlockNumber < from || log.BlockNumber > to {
			return nil, types.NewInvalidValueError("log block number", fmt.Sprint(log.BlockNumber), "outside requested range")
		}
		block := blocks[log.BlockNumber-from]
		// a reorg between the two queries; the range is retried
		if log.BlockHash != block.Hash {
			return nil, fmt.Errorf("block %d: log hash %s does not match header hash %s",
				block.Number, log.BlockHash.Hex(), block.Hash.Hex())
		}
		block.Logs = append(block.Logs, log)
	}

	metrics.GetMetrics().Indexer.BlockProcessingTime.WithLabelValues(metrics.StageScrape).Observe(time.Since(start).Seconds())
	return blocks, nil
}

func (s *Scraper) filterLogs(ctx context.Context, from, to uint64) ([]ethtypes.Log, error) {
	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	logs, err := s.client.FilterLogs(qctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Topics:    s.topics,
	})
	if err != nil {
		return nil, s.queryError(ctx, "eth_getLogs", err)
	}
	return logs, nil
}

func (s *Scraper) header(ctx context.Context, number uint64) (*ethtypes.Header, error) {
	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	header, err := s.client.HeaderByNumber(qctx, new(big.Int).SetUint64(number))
	if errors.Is(err, ethereum.NotFound) {
		return nil, types.NewNotFoundError(fmt.Sprintf("block %d", number))
	}
	if err != nil {
		return nil, s.queryError(ctx, "eth_getBlockByNumber", err)
	}
	return header, nil
}

// queryError reports a query that ran out of QUERY_TIMEOUT as a timeout, and
// anything else, including cancellation of ctx, as a network error.
func (s *Scraper) queryError(ctx context.Context, method string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return types.NewTimeoutError(method)
	}
	return types.NewNetworkError(s.chain.RpcUrl, err)
}

// Run scrapes from height onwards and sends blocks to blockChan in order,
// closing it on return. With END_BLOCK set it returns nil after that block;
// otherwise it follows the head until ctx is done. A range that keeps failing
// MaxScrapeErrCount times in a row stops the run.
func (s *Scraper) Run(ctx context.Context, height uint64, blockChan chan<- *types.Block) error {
	defer close(blockChan)

	errCount := 0
	for {
		if s.chain.EndBlock != 0 && height > s.chain.EndBlock {
			s.logger.Info("reached end block", slog.Uint64("end", s.chain.EndBlock))
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		blocks, err := s.next(ctx, height)
		if err != nil {
			errCount++
			metrics.GetMetrics().Indexer.ProcessingErrors.WithLabelValues(metrics.StageScrape, metrics.ErrorType(err)).Inc()
			if errCount >= types.MaxScrapeErrCount {
				return fmt.Errorf("scrape from block %d: %w", height, err)
			}
			s.logger.Warn("error while scraping", slog.Uint64("height", height), slog.Int("attempt", errCount), slog.Any("error", err))
			if !s.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}
		errCount = 0

		if len(blocks) == 0 {
			if !s.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}

		for _, block := range blocks {
			select {
			case blockChan <- block:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		height = blocks[len(blocks)-1].Number + 1
	}
}

// next scrapes the next range starting at height, bounded by BLOCK_RANGE, the
// head and END_BLOCK. It returns no blocks when height is above the head.
func (s *Scraper) next(ctx context.Context, height uint64) ([]*types.Block, error) {
	head, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if s.chain.EndBlock != 0 && s.chain.EndBlock < head {
		head = s.chain.EndBlock
	}
	if height > head {
		return nil, nil
	}

	to := height + s.chain.BlockRange - 1
	if to > head {
		to = head
	}
	s.logger.Debug("scraping range", slog.Uint64("from", height), slog.Uint64("to", to))
	return s.ScrapeRange(ctx, height, to)
}

func (s *Scraper) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(s.pollingInterval):
		return true
	}
}
