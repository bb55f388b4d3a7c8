package util

import (
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/geobrowser/geo-stream/types"
)

// FormatHex renders bytes as "0x" followed by lowercase hex digits. Empty
// input yields "0x".
func FormatHex(b []byte) string {
	return hexutil.Encode(b)
}

// DecodeUTF8 returns b as a string, or a malformed payload error naming field
// when b is not valid UTF-8.
func DecodeUTF8(field string, b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", types.NewMalformedPayloadError(field)
	}
	return string(b), nil
}
