package mq

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/geobrowser/geo-stream/types"
)

// messageNamespace seeds deterministic message ids so a replayed block is
// published under the id it had the first time.
var messageNamespace = uuid.MustParse("6f1c1c0e-5c7a-4d8e-9a43-2b1f0e7d9c11")

// Message is the stream payload: one block's aggregated output.
type Message struct {
	ChainID     string           `json:"chain_id"`
	BlockNumber uint64           `json:"block_number"`
	BlockHash   string           `json:"block_hash"`
	Output      *types.GeoOutput `json:"output"`
}

func NewMessage(chainID string, out *types.GeoOutput) Message {
	return Message{
		ChainID:     chainID,
		BlockNumber: out.BlockNumber,
		BlockHash:   out.BlockHash,
		Output:      out,
	}
}

// ID is derived from the chain and block hash.
func (m Message) ID() string {
	return uuid.NewSHA1(messageNamespace, []byte(m.ChainID+"/"+m.BlockHash)).String()
}

func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	if m.Output == nil {
		return m, types.NewInvalidValueError("message", m.BlockHash, "output is missing")
	}
	return m, nil
}
