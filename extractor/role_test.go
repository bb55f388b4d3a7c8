package extractor_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"

	"github.com/geobrowser/geo-stream/extractor"
	"github.com/geobrowser/geo-stream/types"
)

func TestClassifyRole(t *testing.T) {
	tests := []struct {
		name     string
		role     [32]byte
		expected types.Role
	}{
		{name: "editor controller", role: crypto.Keccak256Hash([]byte("EDITOR_CONTROLLER_ROLE")), expected: types.Moderator},
		{name: "editor", role: crypto.Keccak256Hash([]byte("EDITOR_ROLE")), expected: types.Member},
		{name: "admin", role: crypto.Keccak256Hash([]byte("ADMIN_ROLE")), expected: types.Admin},
		{name: "zero", role: [32]byte{}, expected: types.NullRole},
		{name: "default admin", role: crypto.Keccak256Hash([]byte("DEFAULT_ADMIN_ROLE")), expected: types.NullRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractor.ClassifyRole(tt.role))
		})
	}
}

func TestClassifyRoleExactMatch(t *testing.T) {
	for _, known := range [][32]byte{types.EditorControllerRoleID, types.EditorRoleID, types.AdminRoleID} {
		for i := 0; i < 32; i++ {
			flipped := known
			flipped[i] ^= 0x01
			assert.Equal(t, types.NullRole, extractor.ClassifyRole(flipped))
		}
		assert.NotEqual(t, types.NullRole, extractor.ClassifyRole(known))
	}
}
