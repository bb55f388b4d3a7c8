package extractor

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/geobrowser/geo-stream/contracts"
	"github.com/geobrowser/geo-stream/types"
	"github.com/geobrowser/geo-stream/util"
)

type entryAddedEvent struct {
	Index  *big.Int
	Uri    string
	Author common.Address
}

type roleEvent struct {
	Role    [32]byte
	Account common.Address
	Sender  common.Address
}

type profileRegisteredEvent struct {
	Requestor common.Address
	Space     common.Address
	Id        [32]byte
}

// EntriesAdded decodes content entries of legacy space contracts. Entries have
// no natural key, so the id is the log locator.
func EntriesAdded(block *types.Block) (*types.EntriesAdded, error) {
	entries, err := filterMap(block, contracts.EntryAdded,
		func(log *ethtypes.Log, ev *entryAddedEvent) (types.EntryAdded, error) {
			uri, err := util.DecodeUTF8("uri", []byte(ev.Uri))
			if err != nil {
				return types.EntryAdded{}, err
			}

			return types.EntryAdded{
				ID:     util.LogID(block.Number, log),
				Index:  ev.Index.String(),
				URI:    uri,
				Author: util.FormatHex(ev.Author.Bytes()),
				Space:  util.FormatHex(log.Address.Bytes()),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return &types.EntriesAdded{Entries: entries}, nil
}

// RoleChanges merges grants and revocations of a legacy space into one list,
// in log order.
func RoleChanges(block *types.Block) (*types.RoleChanges, error) {
	changes := make([]types.RoleChange, 0)
	for _, log := range block.OrderedLogs() {
		var ev roleEvent
		switch {
		case contracts.RoleGranted.Decode(log, &ev):
			changes = append(changes, types.NewRoleGranted(roleChangeFields(block, log, &ev)))
		case contracts.RoleRevoked.Decode(log, &ev):
			changes = append(changes, types.NewRoleRevoked(roleChangeFields(block, log, &ev)))
		}
	}

	return &types.RoleChanges{Changes: changes}, nil
}

func roleChangeFields(block *types.Block, log *ethtypes.Log, ev *roleEvent) types.RoleChangeFields {
	return types.RoleChangeFields{
		ID:      util.LogID(block.Number, log),
		Role:    ClassifyRole(ev.Role),
		Account: util.FormatHex(ev.Account.Bytes()),
		Sender:  util.FormatHex(ev.Sender.Bytes()),
		Space:   util.FormatHex(log.Address.Bytes()),
	}
}

func ProfilesRegistered(block *types.Block) (*types.ProfilesRegistered, error) {
	profiles, err := filterMap(block, contracts.ProfileRegistered,
		func(_ *ethtypes.Log, ev *profileRegisteredEvent) (types.ProfileRegistered, error) {
			return types.ProfileRegistered{
				Requestor: util.FormatHex(ev.Requestor.Bytes()),
				Space:     util.FormatHex(ev.Space.Bytes()),
				ID:        util.FormatHex(ev.Id[:]),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return &types.ProfilesRegistered{Profiles: profiles}, nil
}
