package util

import (
	"strconv"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// LogLocatorID derives the composite "{block}-{txHash}-{logIndex}" identifier
// used for records whose event carries no natural key.
func LogLocatorID(blockNumber uint64, txHash string, logIndex uint32) string {
	return strconv.FormatUint(blockNumber, 10) + "-" + txHash + "-" + strconv.FormatUint(uint64(logIndex), 10)
}

func LogID(blockNumber uint64, log *ethtypes.Log) string {
	return LogLocatorID(blockNumber, FormatHex(log.TxHash.Bytes()), uint32(log.Index))
}
