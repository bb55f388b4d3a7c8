package extractor

import (
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/geobrowser/geo-stream/contracts"
	"github.com/geobrowser/geo-stream/types"
	"github.com/geobrowser/geo-stream/util"
)

type spacePluginCreatedEvent struct {
	Dao    common.Address
	Plugin common.Address
}

type governancePluginsCreatedEvent struct {
	Dao                common.Address
	MainVotingPlugin   common.Address
	MemberAccessPlugin common.Address
}

type personalAdminPluginCreatedEvent struct {
	Dao                 common.Address
	PersonalAdminPlugin common.Address
	InitialEditor       common.Address
}

type subspaceEvent struct {
	Dao         common.Address
	SubspaceDao common.Address
}

type successorSpaceCreatedEvent struct {
	Dao              common.Address
	PredecessorSpace common.Address
}

// SpacesCreated pairs each DAO with the space plugin deployed for it.
func SpacesCreated(block *types.Block) (*types.SpacesCreated, error) {
	spaces, err := filterMap(block, contracts.GeoSpacePluginCreated,
		func(_ *ethtypes.Log, ev *spacePluginCreatedEvent) (types.SpaceCreated, error) {
			return types.SpaceCreated{
				DaoAddress:   util.FormatHex(ev.Dao.Bytes()),
				SpaceAddress: util.FormatHex(ev.Plugin.Bytes()),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return &types.SpacesCreated{Spaces: spaces}, nil
}

func GovernancePluginsCreated(block *types.Block) (*types.GovernancePluginsCreated, error) {
	plugins, err := filterMap(block, contracts.GeoGovernancePluginsCreated,
		func(_ *ethtypes.Log, ev *governancePluginsCreatedEvent) (types.GovernancePluginCreated, error) {
			return types.GovernancePluginCreated{
				DaoAddress:          util.FormatHex(ev.Dao.Bytes()),
				MainVotingAddress:   util.FormatHex(ev.MainVotingPlugin.Bytes()),
				MemberAccessAddress: util.FormatHex(ev.MemberAccessPlugin.Bytes()),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return &types.GovernancePluginsCreated{Plugins: plugins}, nil
}

func PersonalAdminPluginsCreated(block *types.Block) (*types.PersonalAdminPluginsCreated, error) {
	plugins, err := filterMap(block, contracts.GeoPersonalAdminPluginCreated,
		func(_ *ethtypes.Log, ev *personalAdminPluginCreatedEvent) (types.PersonalAdminPluginCreated, error) {
			return types.PersonalAdminPluginCreated{
				InitialEditor:        util.FormatHex(ev.InitialEditor.Bytes()),
				DaoAddress:           util.FormatHex(ev.Dao.Bytes()),
				PersonalAdminAddress: util.FormatHex(ev.PersonalAdminPlugin.Bytes()),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return &types.PersonalAdminPluginsCreated{Plugins: plugins}, nil
}

func SuccessorSpacesCreated(block *types.Block) (*types.SuccessorSpacesCreated, error) {
	spaces, err := filterMap(block, contracts.SuccessorSpaceCreated,
		func(log *ethtypes.Log, ev *successorSpaceCreatedEvent) (types.SuccessorSpaceCreated, error) {
			return types.SuccessorSpaceCreated{
				PredecessorSpace: util.FormatHex(ev.PredecessorSpace.Bytes()),
				PluginAddress:    util.FormatHex(log.Address.Bytes()),
				DaoAddress:       util.FormatHex(ev.Dao.Bytes()),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return &types.SuccessorSpacesCreated{Spaces: spaces}, nil
}

func SubspacesAdded(block *types.Block) (*types.SubspacesAdded, error) {
	subspaces, err := filterMap(block, contracts.SubspaceAccepted, subspaceChange(types.ChangeTypeAdded))
	if err != nil {
		return nil, err
	}
	return &types.SubspacesAdded{Subspaces: subspaces}, nil
}

func SubspacesRemoved(block *types.Block) (*types.SubspacesRemoved, error) {
	subspaces, err := filterMap(block, contracts.SubspaceRemoved, subspaceChange(types.ChangeTypeRemoved))
	if err != nil {
		return nil, err
	}
	return &types.SubspacesRemoved{Subspaces: subspaces}, nil
}

func subspaceChange(changeType string) func(*ethtypes.Log, *subspaceEvent) (types.SubspaceChange, error) {
	return func(log *ethtypes.Log, ev *subspaceEvent) (types.SubspaceChange, error) {
		return types.SubspaceChange{
			ChangeType:    changeType,
			Subspace:      util.FormatHex(ev.SubspaceDao.Bytes()),
			PluginAddress: util.FormatHex(log.Address.Bytes()),
			DaoAddress:    util.FormatHex(ev.Dao.Bytes()),
		}, nil
	}
}
