package testutil

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/geobrowser/geo-stream/contracts"
	"github.com/geobrowser/geo-stream/types"
)

// PackLog encodes args, given in ABI input order, as a log of ev emitted by
// emitter. Indexed arguments become topics and the rest are packed into data.
func PackLog(ev *contracts.Event, emitter common.Address, args ...any) (ethtypes.Log, error) {
	inputs := ev.Inputs()
	if len(args) != len(inputs) {
		return ethtypes.Log{}, fmt.Errorf("event %s takes %d arguments, got %d", ev.Name(), len(inputs), len(args))
	}

	var (
		queries [][]any
		values  []any
	)
	for i, input := range inputs {
		if input.Indexed {
			queries = append(queries, []any{args[i]})
		} else {
			values = append(values, args[i])
		}
	}

	data, err := inputs.NonIndexed().Pack(values...)
	if err != nil {
		return ethtypes.Log{}, err
	}

	topics := []common.Hash{ev.ID()}
	if len(queries) > 0 {
		packed, err := abi.MakeTopics(queries...)
		if err != nil {
			return ethtypes.Log{}, err
		}
		for _, t := range packed {
			topics = append(topics, t[0])
		}
	}

	return ethtypes.Log{
		Address: emitter,
		Topics:  topics,
		Data:    data,
	}, nil
}

func MustPackLog(ev *contracts.Event, emitter common.Address, args ...any) ethtypes.Log {
	log, err := PackLog(ev, emitter, args...)
	if err != nil {
		panic(err)
	}
	return log
}

// BlockBuilder assembles a block's logs with increasing log indexes, one
// transaction per Tx call.
type BlockBuilder struct {
	number  uint64
	logs    []ethtypes.Log
	txIndex uint
	index   uint
	txHash  common.Hash
}

func NewBlockBuilder(number uint64) *BlockBuilder {
	return &BlockBuilder{number: number}
}

// Tx starts a new transaction; subsequent Add calls belong to it.
func (b *BlockBuilder) Tx(hash common.Hash) *BlockBuilder {
	if len(b.logs) > 0 || b.txHash != (common.Hash{}) {
		b.txIndex++
	}
	b.txHash = hash
	return b
}

func (b *BlockBuilder) Add(logs ...ethtypes.Log) *BlockBuilder {
	for _, l := range logs {
		l.BlockNumber = b.number
		l.TxHash = b.txHash
		l.TxIndex = b.txIndex
		l.Index = b.index
		b.index++
		b.logs = append(b.logs, l)
	}
	return b
}

func (b *BlockBuilder) Logs() []ethtypes.Log {
	return b.logs
}

func (b *BlockBuilder) Block() *types.Block {
	return &types.Block{
		Number: b.number,
		Hash:   Hash(byte(b.number)),
		Logs:   b.logs,
	}
}

// Address returns a deterministic address whose bytes are all fill.
func Address(fill byte) common.Address {
	var a common.Address
	for i := range a {
		a[i] = fill
	}
	return a
}

func Hash(fill byte) common.Hash {
	var h common.Hash
	for i := range h {
		h[i] = fill
	}
	return h
}
