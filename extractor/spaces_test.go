package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geobrowser/geo-stream/contracts"
	"github.com/geobrowser/geo-stream/contracts/testutil"
	"github.com/geobrowser/geo-stream/extractor"
	"github.com/geobrowser/geo-stream/types"
)

func TestPluginSetups(t *testing.T) {
	setup := testutil.Address(0x99)
	block := testutil.NewBlockBuilder(5).
		Tx(testutil.Hash(0x01)).
		Add(
			testutil.MustPackLog(contracts.GeoSpacePluginCreated, setup, dao, testutil.Address(0x01)),
			testutil.MustPackLog(contracts.GeoGovernancePluginsCreated, setup, dao, testutil.Address(0x02), testutil.Address(0x03)),
			testutil.MustPackLog(contracts.GeoPersonalAdminPluginCreated, setup, dao, testutil.Address(0x04), testutil.Address(0x05)),
		).
		Block()

	spaces, err := extractor.SpacesCreated(block)
	require.NoError(t, err)
	assert.Equal(t, []types.SpaceCreated{{
		DaoAddress:   "0x2222222222222222222222222222222222222222",
		SpaceAddress: "0x0101010101010101010101010101010101010101",
	}}, spaces.Spaces)

	governance, err := extractor.GovernancePluginsCreated(block)
	require.NoError(t, err)
	assert.Equal(t, []types.GovernancePluginCreated{{
		DaoAddress:          "0x2222222222222222222222222222222222222222",
		MainVotingAddress:   "0x0202020202020202020202020202020202020202",
		MemberAccessAddress: "0x0303030303030303030303030303030303030303",
	}}, governance.Plugins)

	personal, err := extractor.PersonalAdminPluginsCreated(block)
	require.NoError(t, err)
	assert.Equal(t, []types.PersonalAdminPluginCreated{{
		InitialEditor:        "0x0505050505050505050505050505050505050505",
		DaoAddress:           "0x2222222222222222222222222222222222222222",
		PersonalAdminAddress: "0x0404040404040404040404040404040404040404",
	}}, personal.Plugins)
}

func TestSubspacesAndSuccessors(t *testing.T) {
	block := testutil.NewBlockBuilder(6).
		Tx(testutil.Hash(0x01)).
		Add(
			testutil.MustPackLog(contracts.SubspaceAccepted, plugin, dao, testutil.Address(0x0a)),
			testutil.MustPackLog(contracts.SubspaceRemoved, plugin, dao, testutil.Address(0x0b)),
			testutil.MustPackLog(contracts.SuccessorSpaceCreated, plugin, dao, testutil.Address(0x0c)),
		).
		Block()

	added, err := extractor.SubspacesAdded(block)
	require.NoError(t, err)
	assert.Equal(t, []types.SubspaceChange{{
		ChangeType:    types.ChangeTypeAdded,
		Subspace:      "0x0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a",
		PluginAddress: "0x1111111111111111111111111111111111111111",
		DaoAddress:    "0x2222222222222222222222222222222222222222",
	}}, added.Subspaces)

	removed, err := extractor.SubspacesRemoved(block)
	require.NoError(t, err)
	require.Len(t, removed.Subspaces, 1)
	assert.Equal(t, types.ChangeTypeRemoved, removed.Subspaces[0].ChangeType)
	assert.Equal(t, "0x0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b", removed.Subspaces[0].Subspace)

	successors, err := extractor.SuccessorSpacesCreated(block)
	require.NoError(t, err)
	assert.Equal(t, []types.SuccessorSpaceCreated{{
		PredecessorSpace: "0x0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c",
		PluginAddress:    "0x1111111111111111111111111111111111111111",
		DaoAddress:       "0x2222222222222222222222222222222222222222",
	}}, successors.Spaces)
}

func TestEmptyBlock(t *testing.T) {
	block := &types.Block{Number: 1}

	spaces, err := extractor.SpacesCreated(block)
	require.NoError(t, err)
	assert.NotNil(t, spaces.Spaces)
	assert.Empty(t, spaces.Spaces)
}
