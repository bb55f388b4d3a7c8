package extractor

import (
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/geobrowser/geo-stream/contracts"
	"github.com/geobrowser/geo-stream/types"
	"github.com/geobrowser/geo-stream/util"
)

type editorsAddedEvent struct {
	Dao     common.Address
	Editors []common.Address
}

type editorEvent struct {
	Dao    common.Address
	Editor common.Address
}

type memberEvent struct {
	Dao    common.Address
	Member common.Address
}

// InitialEditorsAdded emits one record per bulk EditorsAdded event, keeping
// the editor addresses in event order.
func InitialEditorsAdded(block *types.Block) (*types.InitialEditorsAdded, error) {
	editors, err := filterMap(block, contracts.EditorsAdded,
		func(log *ethtypes.Log, ev *editorsAddedEvent) (types.InitialEditorAdded, error) {
			addresses := make([]string, len(ev.Editors))
			for i, editor := range ev.Editors {
				addresses[i] = util.FormatHex(editor.Bytes())
			}

			return types.InitialEditorAdded{
				Addresses:     addresses,
				PluginAddress: util.FormatHex(log.Address.Bytes()),
				DaoAddress:    util.FormatHex(ev.Dao.Bytes()),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return &types.InitialEditorsAdded{Editors: editors}, nil
}

func EditorsAdded(block *types.Block) (*types.EditorsAdded, error) {
	editors, err := filterMap(block, contracts.EditorAdded, editorChange(types.ChangeTypeAdded))
	if err != nil {
		return nil, err
	}
	return &types.EditorsAdded{Editors: editors}, nil
}

func EditorsRemoved(block *types.Block) (*types.EditorsRemoved, error) {
	editors, err := filterMap(block, contracts.EditorRemoved, editorChange(types.ChangeTypeRemoved))
	if err != nil {
		return nil, err
	}
	return &types.EditorsRemoved{Editors: editors}, nil
}

func MembersAdded(block *types.Block) (*types.MembersAdded, error) {
	members, err := filterMap(block, contracts.MemberAdded, memberChange(types.ChangeTypeAdded))
	if err != nil {
		return nil, err
	}
	return &types.MembersAdded{Members: members}, nil
}

func MembersRemoved(block *types.Block) (*types.MembersRemoved, error) {
	members, err := filterMap(block, contracts.MemberRemoved, memberChange(types.ChangeTypeRemoved))
	if err != nil {
		return nil, err
	}
	return &types.MembersRemoved{Members: members}, nil
}

func editorChange(changeType string) func(*ethtypes.Log, *editorEvent) (types.EditorChange, error) {
	return func(log *ethtypes.Log, ev *editorEvent) (types.EditorChange, error) {
		return types.EditorChange{
			ChangeType:    changeType,
			PluginAddress: util.FormatHex(log.Address.Bytes()),
			EditorAddress: util.FormatHex(ev.Editor.Bytes()),
			DaoAddress:    util.FormatHex(ev.Dao.Bytes()),
		}, nil
	}
}

func memberChange(changeType string) func(*ethtypes.Log, *memberEvent) (types.MemberChange, error) {
	return func(log *ethtypes.Log, ev *memberEvent) (types.MemberChange, error) {
		return types.MemberChange{
			ChangeType:    changeType,
			PluginAddress: util.FormatHex(log.Address.Bytes()),
			MemberAddress: util.FormatHex(ev.Member.Bytes()),
			DaoAddress:    util.FormatHex(ev.Dao.Bytes()),
		}, nil
	}
}
