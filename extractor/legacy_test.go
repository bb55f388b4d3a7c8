package extractor_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geobrowser/geo-stream/contracts"
	"github.com/geobrowser/geo-stream/contracts/testutil"
	"github.com/geobrowser/geo-stream/extractor"
	"github.com/geobrowser/geo-stream/types"
	"github.com/geobrowser/geo-stream/util"
)

func TestRoleGrantedAdmin(t *testing.T) {
	space := testutil.Address(0xaa)
	account := testutil.Address(0xbb)
	sender := testutil.Address(0xcc)
	txHash := testutil.Hash(0x01)

	block := testutil.NewBlockBuilder(500).
		Tx(txHash).
		Add(testutil.MustPackLog(contracts.RoleGranted, space, [32]byte(types.AdminRoleID), account, sender)).
		Block()

	out, err := extractor.RoleChanges(block)
	require.NoError(t, err)
	require.Len(t, out.Changes, 1)

	change := out.Changes[0]
	fields, granted := change.Granted()
	require.True(t, granted)
	_, revoked := change.Revoked()
	assert.False(t, revoked)

	assert.Equal(t, types.Admin, fields.Role)
	assert.Equal(t, int32(3), int32(fields.Role))
	assert.Equal(t, "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", fields.Account)
	assert.Equal(t, "0xcccccccccccccccccccccccccccccccccccccccc", fields.Sender)
	assert.Equal(t, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", fields.Space)
	assert.Equal(t, util.LogLocatorID(500, util.FormatHex(txHash.Bytes()), 0), fields.ID)
}

func TestRoleChangesClassifyEveryKnownRole(t *testing.T) {
	tests := []struct {
		name     string
		role     [32]byte
		expected types.Role
	}{
		{name: "editor controller", role: types.EditorControllerRoleID, expected: types.Moderator},
		{name: "editor", role: types.EditorRoleID, expected: types.Member},
		{name: "admin", role: types.AdminRoleID, expected: types.Admin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := testutil.NewBlockBuilder(502).
				Tx(testutil.Hash(0x02)).
				Add(testutil.MustPackLog(contracts.RoleGranted, testutil.Address(0xaa), tt.role, testutil.Address(0x01), testutil.Address(0x02))).
				Block()

			out, err := extractor.RoleChanges(block)
			require.NoError(t, err)
			require.Len(t, out.Changes, 1)
			assert.Equal(t, tt.expected, out.Changes[0].Role)
		})
	}
}

func TestRoleChangesMixed(t *testing.T) {
	space := testutil.Address(0xaa)
	unknownRole := testutil.Hash(0x77)

	block := testutil.NewBlockBuilder(501).
		Tx(testutil.Hash(0x01)).
		Add(
			testutil.MustPackLog(contracts.RoleRevoked, space, [32]byte(types.EditorRoleID), testutil.Address(0x01), testutil.Address(0x02)),
			testutil.MustPackLog(contracts.RoleGranted, space, [32]byte(unknownRole), testutil.Address(0x03), testutil.Address(0x04)),
		).
		Block()

	out, err := extractor.RoleChanges(block)
	require.NoError(t, err)
	require.Len(t, out.Changes, 2)

	assert.Equal(t, types.RoleRevoked, out.Changes[0].Kind)
	assert.Equal(t, types.Member, out.Changes[0].Role)
	assert.Equal(t, types.RoleGranted, out.Changes[1].Kind)
	assert.Equal(t, types.NullRole, out.Changes[1].Role)

	encoded, err := json.Marshal(out.Changes[0])
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"revoked":{`)
	assert.NotContains(t, string(encoded), `"granted"`)
	assert.Contains(t, string(encoded), `"role":"MEMBER"`)
}

func TestEntriesAdded(t *testing.T) {
	space := testutil.Address(0xaa)
	txHash := testutil.Hash(0x02)

	block := testutil.NewBlockBuilder(600).
		Tx(txHash).
		Add(
			testutil.MustPackLog(contracts.EntryAdded, space, big.NewInt(0), "ipfs://first", testutil.Address(0xbb)),
			testutil.MustPackLog(contracts.EntryAdded, space, big.NewInt(1), "ipfs://second", testutil.Address(0xbb)),
		).
		Block()

	out, err := extractor.EntriesAdded(block)
	require.NoError(t, err)
	require.Len(t, out.Entries, 2)

	tx := util.FormatHex(txHash.Bytes())
	assert.Equal(t, types.EntryAdded{
		ID:     "600-" + tx + "-0",
		Index:  "0",
		URI:    "ipfs://first",
		Author: "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		Space:  "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
	}, out.Entries[0])
	assert.Equal(t, "600-"+tx+"-1", out.Entries[1].ID)
	assert.Equal(t, "1", out.Entries[1].Index)
	assert.NotEqual(t, out.Entries[0].ID, out.Entries[1].ID)
}

func TestEntriesAddedInvalidUTF8(t *testing.T) {
	block := testutil.NewBlockBuilder(600).
		Tx(testutil.Hash(0x02)).
		Add(testutil.MustPackLog(contracts.EntryAdded, testutil.Address(0xaa), big.NewInt(0), string([]byte{0xfe, 0xff}), testutil.Address(0xbb))).
		Block()

	_, err := extractor.EntriesAdded(block)
	require.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrTypeMalformedPayload))
}

func TestProfilesRegistered(t *testing.T) {
	registry := testutil.Address(0x01)
	id := testutil.Hash(0xab)

	block := testutil.NewBlockBuilder(700).
		Tx(testutil.Hash(0x03)).
		Add(testutil.MustPackLog(contracts.ProfileRegistered, registry, testutil.Address(0xbb), testutil.Address(0xaa), [32]byte(id))).
		Block()

	out, err := extractor.ProfilesRegistered(block)
	require.NoError(t, err)
	assert.Equal(t, []types.ProfileRegistered{{
		Requestor: "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		Space:     "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		ID:        util.FormatHex(id.Bytes()),
	}}, out.Profiles)
}
