package config

import (
	"fmt"
	"net/url"

	"github.com/geobrowser/geo-stream/types"
)

// ChainConfig describes the block range to index. An EndBlock of 0 follows
// the chain head.
type ChainConfig struct {
	ChainId    string
	RpcUrl     string
	StartBlock uint64
	EndBlock   uint64
	BlockRange uint64
}

func (cc ChainConfig) Validate() error {
	if len(cc.ChainId) == 0 {
		return types.NewValidationError("CHAIN_ID", "required field is missing")
	}

	if len(cc.RpcUrl) == 0 {
		return types.NewValidationError("RPC_URL", "required field is missing")
	}
	if u, err := url.Parse(cc.RpcUrl); err != nil {
		return types.NewValidationError("RPC_URL", fmt.Sprintf("invalid URL format: %s", cc.RpcUrl))
	} else if u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "ws" && u.Scheme != "wss" {
		return types.NewInvalidValueError("RPC_URL", cc.RpcUrl, fmt.Sprintf("must use http, https, ws or wss scheme, got: %s", u.Scheme))
	}

	if cc.EndBlock != 0 && cc.EndBlock < cc.StartBlock {
		return types.NewValidationError("END_BLOCK", fmt.Sprintf("must not be lower than START_BLOCK (%d)", cc.StartBlock))
	}
	if cc.BlockRange < 1 {
		return types.NewValidationError("BLOCK_RANGE", "must be at least 1")
	}

	return nil
}
