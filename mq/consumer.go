package mq

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/amqp"
	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/stream"

	"github.com/geobrowser/geo-stream/config"
)

// Consumer reads block outputs back from the chain's super stream.
type Consumer struct {
	env      *stream.Environment
	chainID  string
	logger   *slog.Logger
	mtx      sync.Mutex
	consumer *stream.SuperStreamConsumer
}

func NewConsumer(cfg config.RabbitMQConfig, chainID string, logger *slog.Logger) (*Consumer, error) {
	env, err := newEnvironment(cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{
		env:     env,
		chainID: chainID,
		logger:  logger.With("module", "mq"),
	}, nil
}

// ParseStart turns a start position into an offset and a minimum block
// number. Accepted forms are "first", "last" and "block:<number>"; the block
// form reads from the start of the stream and drops earlier blocks.
func ParseStart(start string) (stream.OffsetSpecification, uint64, error) {
	switch {
	case start == "first":
		return stream.OffsetSpecification{}.First(), 0, nil
	case start == "last":
		return stream.OffsetSpecification{}.Last(), 0, nil
	case strings.HasPrefix(start, "block:"):
		n, err := strconv.ParseUint(strings.TrimPrefix(start, "block:"), 10, 64)
		if err != nil {
			return stream.OffsetSpecification{}, 0, fmt.Errorf("invalid block value: %w", err)
		}
		return stream.OffsetSpecification{}.First(), n, nil
	default:
		return stream.OffsetSpecification{}, 0, errors.New("start must be first, last or block:<number>")
	}
}

// Subscribe delivers every message from start onwards to handler. Consumers
// sharing name form a single active consumer group per partition.
func (c *Consumer) Subscribe(start, name string, handler func(Message)) error {
	offset, minBlock, err := ParseStart(start)
	if err != nil {
		return err
	}

	handle := func(_ stream.ConsumerContext, raw *amqp.Message) {
		m, err := DecodeMessage(raw.GetData())
		if err != nil {
			c.logger.Warn("dropping undecodable message", slog.Any("error", err))
			return
		}
		if m.BlockNumber < minBlock {
			return
		}
		handler(m)
	}

	sac := stream.NewSingleActiveConsumer(
		func(partition string, isActive bool) stream.OffsetSpecification {
			return offset
		},
	)

	consumer, err := c.env.NewSuperStreamConsumer(
		c.chainID,
		handle,
		stream.NewSuperStreamConsumerOptions().
			SetSingleActiveConsumer(sac.SetEnabled(true)).
			SetConsumerName(name).
			SetOffset(offset),
	)
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	c.mtx.Lock()
	c.consumer = consumer
	c.mtx.Unlock()
	c.logger.Info("subscribed", slog.String("stream", c.chainID), slog.String("start", start))
	return nil
}

func (c *Consumer) Close() error {
	var firstErr error
	c.mtx.Lock()
	if c.consumer != nil {
		firstErr = c.consumer.Close()
		c.consumer = nil
	}
	c.mtx.Unlock()

	if c.env != nil {
		if err := c.env.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
