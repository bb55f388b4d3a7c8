package testutil

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

var ErrUnavailable = errors.New("rpc unavailable")

// Chain is an in-memory stand-in for an RPC endpoint. Every block up to Head
// exists; blocks without added logs are empty.
type Chain struct {
	mtx         sync.Mutex
	head        uint64
	logs        map[uint64][]ethtypes.Log
	failFilters int
	filterCalls int
	stall       bool
}

func NewChain(head uint64) *Chain {
	return &Chain{head: head, logs: map[uint64][]ethtypes.Log{}}
}

// AddBlock stores the builder's logs under its block number.
func (c *Chain) AddBlock(b *BlockBuilder) *Chain {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.logs[b.number] = append(c.logs[b.number], b.Logs()...)
	return c
}

func (c *Chain) SetHead(head uint64) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.head = head
}

// FailFilters makes the next n FilterLogs calls return ErrUnavailable.
func (c *Chain) FailFilters(n int) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.failFilters = n
}

// Stall makes FilterLogs hang until its context is done.
func (c *Chain) Stall() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.stall = true
}

func (c *Chain) FilterCalls() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.filterCalls
}

func header(number uint64) *ethtypes.Header {
	return &ethtypes.Header{
		Number:     new(big.Int).SetUint64(number),
		Time:       1_700_000_000 + number,
		Difficulty: big.NewInt(0),
	}
}

// HeaderHash is the hash the chain reports for block number.
func HeaderHash(number uint64) common.Hash {
	return header(number).Hash()
}

func (c *Chain) BlockNumber(ctx context.Context) (uint64, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.head, nil
}

func (c *Chain) HeaderByNumber(ctx context.Context, number *big.Int) (*ethtypes.Header, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if number.Uint64() > c.head {
		return nil, ethereum.NotFound
	}
	return header(number.Uint64()), nil
}

func (c *Chain) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]ethtypes.Log, error) {
	c.mtx.Lock()
	stall := c.stall
	c.mtx.Unlock()
	if stall {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.filterCalls++
	if c.failFilters > 0 {
		c.failFilters--
		return nil, ErrUnavailable
	}

	var out []ethtypes.Log
	for n := q.FromBlock.Uint64(); n <= q.ToBlock.Uint64() && n <= c.head; n++ {
		for _, log := range c.logs[n] {
			if !matchesTopics(log, q.Topics) {
				continue
			}
			log.BlockHash = HeaderHash(n)
			out = append(out, log)
		}
	}
	return out, nil
}

func matchesTopics(log ethtypes.Log, topics [][]common.Hash) bool {
	for i, alternatives := range topics {
		if len(alternatives) == 0 {
			continue
		}
		if i >= len(log.Topics) {
			return false
		}
		var ok bool
		for _, t := range alternatives {
			if log.Topics[i] == t {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}
