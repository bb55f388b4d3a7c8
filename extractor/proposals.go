package extractor

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/geobrowser/geo-stream/contracts"
	"github.com/geobrowser/geo-stream/types"
	"github.com/geobrowser/geo-stream/util"
)

type action struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

type proposalCreatedEvent struct {
	ProposalId      *big.Int
	Creator         common.Address
	StartDate       uint64
	EndDate         uint64
	Metadata        []byte
	Actions         []action
	AllowFailureMap *big.Int
}

type proposalExecutedEvent struct {
	ProposalId *big.Int
}

type proposalProcessedEvent struct {
	BlockIndex uint32
	ItemIndex  uint32
	ContentUri string
}

type publishEditsProposalCreatedEvent struct {
	ProposalId *big.Int
	Creator    common.Address
	StartDate  uint64
	EndDate    uint64
	ContentUri string
	Dao        common.Address
}

type voteCastEvent struct {
	ProposalId  *big.Int
	Voter       common.Address
	VoteOption  uint8
	VotingPower *big.Int
}

type editsPublishedEvent struct {
	Dao        common.Address
	ContentUri string
}

// ProposalsCreated fails the whole block when a proposal's metadata is not
// valid UTF-8.
func ProposalsCreated(block *types.Block) (*types.ProposalsCreated, error) {
	proposals, err := filterMap(block, contracts.ProposalCreated,
		func(log *ethtypes.Log, ev *proposalCreatedEvent) (types.ProposalCreated, error) {
			metadataURI, err := util.DecodeUTF8("metadata_uri", ev.Metadata)
			if err != nil {
				return types.ProposalCreated{}, err
			}

			return types.ProposalCreated{
				ProposalID:      ev.ProposalId.String(),
				Creator:         util.FormatHex(ev.Creator.Bytes()),
				StartTime:       strconv.FormatUint(ev.StartDate, 10),
				EndTime:         strconv.FormatUint(ev.EndDate, 10),
				MetadataURI:     metadataURI,
				AllowFailureMap: ev.AllowFailureMap.String(),
				PluginAddress:   util.FormatHex(log.Address.Bytes()),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return &types.ProposalsCreated{Proposals: proposals}, nil
}

func ProposalsExecuted(block *types.Block) (*types.ProposalsExecuted, error) {
	executed, err := filterMap(block, contracts.ProposalExecuted,
		func(log *ethtypes.Log, ev *proposalExecutedEvent) (types.ProposalExecuted, error) {
			return types.ProposalExecuted{
				ProposalID:    ev.ProposalId.String(),
				PluginAddress: util.FormatHex(log.Address.Bytes()),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return &types.ProposalsExecuted{ExecutedProposals: executed}, nil
}

func ProposalsProcessed(block *types.Block) (*types.ProposalsProcessed, error) {
	proposals, err := filterMap(block, contracts.GeoProposalProcessed,
		func(log *ethtypes.Log, ev *proposalProcessedEvent) (types.ProposalProcessed, error) {
			contentURI, err := util.DecodeUTF8("content_uri", []byte(ev.ContentUri))
			if err != nil {
				return types.ProposalProcessed{}, err
			}

			return types.ProposalProcessed{
				ContentURI:    contentURI,
				PluginAddress: util.FormatHex(log.Address.Bytes()),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return &types.ProposalsProcessed{Proposals: proposals}, nil
}

func PublishEditsProposalsCreated(block *types.Block) (*types.PublishEditsProposalsCreated, error) {
	edits, err := filterMap(block, contracts.PublishEditsProposalCreated,
		func(log *ethtypes.Log, ev *publishEditsProposalCreatedEvent) (types.PublishEditsProposalCreated, error) {
			contentURI, err := util.DecodeUTF8("content_uri", []byte(ev.ContentUri))
			if err != nil {
				return types.PublishEditsProposalCreated{}, err
			}

			return types.PublishEditsProposalCreated{
				ProposalID:    ev.ProposalId.String(),
				Creator:       util.FormatHex(ev.Creator.Bytes()),
				StartTime:     strconv.FormatUint(ev.StartDate, 10),
				EndTime:       strconv.FormatUint(ev.EndDate, 10),
				ContentURI:    contentURI,
				PluginAddress: util.FormatHex(log.Address.Bytes()),
				DaoAddress:    util.FormatHex(ev.Dao.Bytes()),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return &types.PublishEditsProposalsCreated{Edits: edits}, nil
}

// VotesCast keeps the vote option numeric; every other on-chain number is
// rendered as a decimal string.
func VotesCast(block *types.Block) (*types.VotesCast, error) {
	votes, err := filterMap(block, contracts.VoteCast,
		func(log *ethtypes.Log, ev *voteCastEvent) (types.VoteCast, error) {
			return types.VoteCast{
				OnchainProposalID: ev.ProposalId.String(),
				Voter:             util.FormatHex(ev.Voter.Bytes()),
				PluginAddress:     util.FormatHex(log.Address.Bytes()),
				VoteOption:        uint64(ev.VoteOption),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return &types.VotesCast{Votes: votes}, nil
}

func EditsPublished(block *types.Block) (*types.EditsPublished, error) {
	edits, err := filterMap(block, contracts.EditsPublished,
		func(log *ethtypes.Log, ev *editsPublishedEvent) (types.EditPublished, error) {
			contentURI, err := util.DecodeUTF8("content_uri", []byte(ev.ContentUri))
			if err != nil {
				return types.EditPublished{}, err
			}

			return types.EditPublished{
				ContentURI:    contentURI,
				DaoAddress:    util.FormatHex(ev.Dao.Bytes()),
				PluginAddress: util.FormatHex(log.Address.Bytes()),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return &types.EditsPublished{Edits: edits}, nil
}
