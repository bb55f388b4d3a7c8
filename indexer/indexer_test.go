package indexer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geobrowser/geo-stream/config"
	"github.com/geobrowser/geo-stream/contracts"
	"github.com/geobrowser/geo-stream/contracts/testutil"
	"github.com/geobrowser/geo-stream/indexer/collector"
	"github.com/geobrowser/geo-stream/indexer/scraper"
	"github.com/geobrowser/geo-stream/types"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig(start, end uint64) *config.Config {
	cfg := &config.Config{}
	cfg.SetChainConfig(&config.ChainConfig{
		ChainId:    "geo-test",
		RpcUrl:     "http://localhost:8545",
		StartBlock: start,
		EndBlock:   end,
		BlockRange: 2,
	})
	cfg.SetIntervals(time.Second, 10*time.Millisecond)
	return cfg
}

func newIndexer(cfg *config.Config, chain *testutil.Chain, sink Sink) *Indexer {
	return New(cfg, discard, scraper.New(cfg, discard, chain), collector.New(discard, nil), sink)
}

type failingSink struct{ calls int }

func (s *failingSink) Publish(context.Context, *types.GeoOutput) error {
	s.calls++
	return errors.New("sink down")
}

func TestRunWritesEveryBlockInOrder(t *testing.T) {
	plugin, dao := testutil.Address(0x11), testutil.Address(0x22)
	chain := testutil.NewChain(20)
	chain.AddBlock(testutil.NewBlockBuilder(4).
		Tx(testutil.Hash(0x01)).
		Add(testutil.MustPackLog(contracts.EditsPublished, plugin, dao, "ipfs://edit")))

	var buf bytes.Buffer
	cfg := testConfig(3, 7)
	require.NoError(t, newIndexer(cfg, chain, NewJSONSink(&buf)).Run(context.Background()))

	var numbers []uint64
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var out types.GeoOutput
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &out))
		numbers = append(numbers, out.BlockNumber)
		if out.BlockNumber == 4 {
			require.Len(t, out.EditsPublished, 1)
			assert.Equal(t, "ipfs://edit", out.EditsPublished[0].ContentURI)
		} else {
			assert.Zero(t, out.RecordCount())
		}
	}
	assert.Equal(t, []uint64{3, 4, 5, 6, 7}, numbers)
}

func TestRunHaltsOnMalformedBlock(t *testing.T) {
	chain := testutil.NewChain(20)
	chain.AddBlock(testutil.NewBlockBuilder(5).
		Tx(testutil.Hash(0x01)).
		Add(testutil.MustPackLog(contracts.EditsPublished, testutil.Address(0x11), testutil.Address(0x22), string([]byte{0xff, 0xfe}))))

	var buf bytes.Buffer
	err := newIndexer(testConfig(3, 9), chain, NewJSONSink(&buf)).Run(context.Background())
	require.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrTypeMalformedPayload))

	// blocks before the bad one were delivered, nothing after it
	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	assert.Equal(t, 2, lines)
}

func TestRunHaltsOnSinkError(t *testing.T) {
	sink := &failingSink{}
	err := newIndexer(testConfig(0, 5), testutil.NewChain(10), sink).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink down")
	assert.Equal(t, 1, sink.calls)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- newIndexer(testConfig(0, 0), testutil.NewChain(3), NewJSONSink(io.Discard)).Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("indexer did not stop")
	}
}
