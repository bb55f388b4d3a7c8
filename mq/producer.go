package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/amqp"
	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/message"
	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/stream"

	"github.com/geobrowser/geo-stream/config"
	"github.com/geobrowser/geo-stream/types"
)

// Producer publishes block outputs to a super stream named after the chain.
// Every message of a chain is routed to the same partition, so consumers read
// blocks in the order they were published.
type Producer struct {
	env        *stream.Environment
	chainID    string
	partitions int
	logger     *slog.Logger

	mtx  sync.Mutex
	prod *stream.SuperStreamProducer
}

func newEnvironment(cfg config.RabbitMQConfig) (*stream.Environment, error) {
	env, err := stream.NewEnvironment(stream.NewEnvironmentOptions().
		SetHost(cfg.Host).
		SetPort(cfg.Port).
		SetVHost(cfg.VHost).
		SetUser(cfg.User).
		SetPassword(cfg.Password))
	if err != nil {
		return nil, types.NewNetworkError(fmt.Sprintf("rabbitmq-stream://%s:%d", cfg.Host, cfg.Port), err)
	}
	return env, nil
}

func NewProducer(cfg config.RabbitMQConfig, chainID string, logger *slog.Logger) (*Producer, error) {
	env, err := newEnvironment(cfg)
	if err != nil {
		return nil, err
	}
	return &Producer{
		env:        env,
		chainID:    chainID,
		partitions: cfg.Partitions,
		logger:     logger.With("module", "mq"),
	}, nil
}

// DeclareStream creates the super stream. An existing stream is left as is.
func (p *Producer) DeclareStream() error {
	partitions := p.partitions
	if partitions < 1 {
		partitions = 1
	}
	err := p.env.DeclareSuperStream(p.chainID,
		stream.NewPartitionsOptions(partitions).
			SetMaxLengthBytes(stream.ByteCapacity{}.GB(2)))
	if err != nil && !errors.Is(err, stream.StreamAlreadyExists) {
		return err
	}
	return nil
}

// DeleteStream removes the super stream; used to reset test streams.
func (p *Producer) DeleteStream() error {
	if err := p.env.DeleteSuperStream(p.chainID); err != nil {
		return fmt.Errorf("failed to delete stream: %w", err)
	}
	return nil
}

func (p *Producer) producer() (*stream.SuperStreamProducer, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if p.prod != nil {
		return p.prod, nil
	}

	if err := p.DeclareStream(); err != nil {
		return nil, fmt.Errorf("failed to declare stream: %w", err)
	}
	prod, err := p.env.NewSuperStreamProducer(p.chainID,
		stream.NewSuperStreamProducerOptions(
			routeByChain(p.chainID),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}
	p.prod = prod
	return prod, nil
}

// routeByChain hashes the chain id rather than anything per block, so all
// blocks share one partition.
func routeByChain(chainID string) *stream.HashRoutingStrategy {
	return stream.NewHashRoutingStrategy(func(message.StreamMessage) string {
		return chainID
	})
}

// Publish sends one block's output.
func (p *Producer) Publish(ctx context.Context, out *types.GeoOutput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prod, err := p.producer()
	if err != nil {
		return err
	}

	m := NewMessage(p.chainID, out)
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	msg := amqp.NewMessage(data)
	msg.Properties = &amqp.MessageProperties{
		MessageID: m.ID(),
	}
	if err := prod.Send(msg); err != nil {
		return fmt.Errorf("failed to send block %d: %w", out.BlockNumber, err)
	}
	p.logger.Debug("published block", slog.Uint64("height", out.BlockNumber))
	return nil
}

// Close shuts down the producer and then the environment, returning the first
// error.
func (p *Producer) Close() error {
	var firstErr error
	p.mtx.Lock()
	if p.prod != nil {
		firstErr = p.prod.Close()
		p.prod = nil
	}
	p.mtx.Unlock()

	if p.env != nil {
		if err := p.env.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
