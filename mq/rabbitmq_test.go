package mq

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/amqp"
	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geobrowser/geo-stream/config"
	"github.com/geobrowser/geo-stream/types"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func output(number uint64) *types.GeoOutput {
	return &types.GeoOutput{
		BlockNumber: number,
		BlockHash:   fmt.Sprintf("0x%064x", number),
		VotesCast:   []types.VoteCast{{OnchainProposalID: "1", Voter: "0xaa", PluginAddress: "0xbb", VoteOption: 2}},
	}
}

func TestMessageID(t *testing.T) {
	a := NewMessage("geo", output(1))
	b := NewMessage("geo", output(1))
	c := NewMessage("geo", output(2))
	d := NewMessage("other", output(1))

	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
	assert.NotEqual(t, a.ID(), d.ID())
}

func TestRouteByChainKeepsBlocksTogether(t *testing.T) {
	partitions := []string{"geo-0", "geo-1", "geo-2"}
	strategy := routeByChain("geo")

	var routed []string
	for n := uint64(100); n <= 105; n++ {
		m := NewMessage("geo", output(n))
		msg := amqp.NewMessage([]byte(m.BlockHash))
		msg.Properties = &amqp.MessageProperties{MessageID: m.ID()}

		got, err := strategy.Route(msg, partitions)
		require.NoError(t, err)
		require.Len(t, got, 1)
		routed = append(routed, got[0])
	}
	for _, p := range routed {
		assert.Equal(t, routed[0], p)
	}
}

func TestDecodeMessage(t *testing.T) {
	m, err := DecodeMessage([]byte(`{"chain_id":"geo","block_number":7,"block_hash":"0x07","output":{"block_number":7,"block_hash":"0x07","votes_cast":[{"onchain_proposal_id":"1","voter":"0xaa","plugin_address":"0xbb","vote_option":2}]}}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), m.BlockNumber)
	require.Len(t, m.Output.VotesCast, 1)
	assert.Equal(t, uint64(2), m.Output.VotesCast[0].VoteOption)

	_, err = DecodeMessage([]byte(`{"chain_id":"geo","block_number":7}`))
	assert.True(t, types.IsErrorType(err, types.ErrTypeInvalidValue))

	_, err = DecodeMessage([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseStart(t *testing.T) {
	offset, minBlock, err := ParseStart("first")
	require.NoError(t, err)
	assert.Equal(t, stream.OffsetSpecification{}.First(), offset)
	assert.Zero(t, minBlock)

	offset, minBlock, err = ParseStart("block:42")
	require.NoError(t, err)
	assert.Equal(t, stream.OffsetSpecification{}.First(), offset)
	assert.Equal(t, uint64(42), minBlock)

	offset, _, err = ParseStart("last")
	require.NoError(t, err)
	assert.Equal(t, stream.OffsetSpecification{}.Last(), offset)

	for _, bad := range []string{"block:", "block:-1", "height:3", ""} {
		_, _, err := ParseStart(bad)
		assert.Error(t, err, bad)
	}
}

// brokerConfig points at a local broker. Tests using it are skipped unless
// RABBITMQ_TEST_HOST is set.
func brokerConfig(t *testing.T) config.RabbitMQConfig {
	host := os.Getenv("RABBITMQ_TEST_HOST")
	if host == "" {
		t.Skip("RABBITMQ_TEST_HOST not set")
	}
	port := config.DefaultRabbitMQPort
	if p, err := strconv.Atoi(os.Getenv("RABBITMQ_TEST_PORT")); err == nil {
		port = p
	}
	return config.RabbitMQConfig{
		Enabled:    true,
		Host:       host,
		Port:       port,
		VHost:      "/",
		User:       "guest",
		Password:   "guest",
		Partitions: 3,
	}
}

func waitOrTimeout(t *testing.T, wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for messages")
	}
}

func TestPublishAndReplay(t *testing.T) {
	cfg := brokerConfig(t)
	chainID := "geo-stream-replay-test"

	producer, err := NewProducer(cfg, chainID, discard)
	require.NoError(t, err)
	defer producer.Close()

	_ = producer.DeleteStream()
	const count = 5
	for i := uint64(1); i <= count; i++ {
		require.NoError(t, producer.Publish(context.Background(), output(i)))
	}
	time.Sleep(time.Second)

	tests := []struct {
		start    string
		expected []uint64
	}{
		{"first", []uint64{1, 2, 3, 4, 5}},
		{"block:3", []uint64{3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			consumer, err := NewConsumer(cfg, chainID, discard)
			require.NoError(t, err)
			defer consumer.Close()

			var (
				mtx      sync.Mutex
				received []uint64
				wg       sync.WaitGroup
			)
			wg.Add(1)
			err = consumer.Subscribe(tt.start, "replay-"+tt.start, func(m Message) {
				mtx.Lock()
				defer mtx.Unlock()
				received = append(received, m.BlockNumber)
				if len(received) == len(tt.expected) {
					wg.Done()
				}
			})
			require.NoError(t, err)
			waitOrTimeout(t, &wg)

			mtx.Lock()
			defer mtx.Unlock()
			assert.Equal(t, tt.expected, received)
		})
	}
}
