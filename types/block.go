package types

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Block is the unit of work handed to every extractor: a block number and the
// logs emitted by the transactions it contains.
type Block struct {
	Number    uint64
	Hash      common.Hash
	Timestamp uint64
	Logs      []ethtypes.Log
}

// OrderedLogs returns the block's logs ordered by transaction position and
// then by log index. Logs sharing both keys keep their input order.
func (b *Block) OrderedLogs() []*ethtypes.Log {
	logs := make([]*ethtypes.Log, len(b.Logs))
	for i := range b.Logs {
		logs[i] = &b.Logs[i]
	}

	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].TxIndex != logs[j].TxIndex {
			return logs[i].TxIndex < logs[j].TxIndex
		}
		return logs[i].Index < logs[j].Index
	})

	return logs
}
