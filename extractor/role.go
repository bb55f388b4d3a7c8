package extractor

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/geobrowser/geo-stream/types"
)

// ClassifyRole maps a role identifier to its Role by exact comparison with the
// known role ids. Any other value is NullRole.
func ClassifyRole(role [32]byte) types.Role {
	switch common.Hash(role) {
	case types.EditorControllerRoleID:
		return types.Moderator
	case types.EditorRoleID:
		return types.Member
	case types.AdminRoleID:
		return types.Admin
	default:
		return types.NullRole
	}
}
