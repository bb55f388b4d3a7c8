package extractor_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geobrowser/geo-stream/contracts"
	"github.com/geobrowser/geo-stream/contracts/testutil"
	"github.com/geobrowser/geo-stream/extractor"
	"github.com/geobrowser/geo-stream/types"
)

type proposalAction struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

var creator = testutil.Address(0x55)

func proposalCreatedLog(id int64, metadata []byte) ethtypes.Log {
	return testutil.MustPackLog(contracts.ProposalCreated, plugin,
		big.NewInt(id), creator, uint64(1700000000), uint64(1700086400), metadata,
		[]proposalAction{{To: dao, Value: big.NewInt(0), Data: []byte{0x01, 0x02}}},
		big.NewInt(5))
}

func TestProposalsCreated(t *testing.T) {
	block := testutil.NewBlockBuilder(10).
		Tx(testutil.Hash(0x01)).
		Add(proposalCreatedLog(1, []byte("ipfs://proposal-1"))).
		Block()

	out, err := extractor.ProposalsCreated(block)
	require.NoError(t, err)
	assert.Equal(t, []types.ProposalCreated{{
		ProposalID:      "1",
		Creator:         "0x5555555555555555555555555555555555555555",
		StartTime:       "1700000000",
		EndTime:         "1700086400",
		MetadataURI:     "ipfs://proposal-1",
		AllowFailureMap: "5",
		PluginAddress:   "0x1111111111111111111111111111111111111111",
	}}, out.Proposals)
}

func TestProposalsCreatedInvalidUTF8(t *testing.T) {
	block := testutil.NewBlockBuilder(10).
		Tx(testutil.Hash(0x01)).
		Add(
			proposalCreatedLog(1, []byte("ipfs://ok")),
			proposalCreatedLog(2, []byte{0xc3, 0x28}),
		).
		Block()

	out, err := extractor.ProposalsCreated(block)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, types.IsErrorType(err, types.ErrTypeMalformedPayload))
}

func TestProposalsExecutedAndProcessed(t *testing.T) {
	block := testutil.NewBlockBuilder(11).
		Tx(testutil.Hash(0x01)).
		Add(
			testutil.MustPackLog(contracts.ProposalExecuted, plugin, big.NewInt(42)),
			testutil.MustPackLog(contracts.GeoProposalProcessed, plugin, uint32(3), uint32(0), "ipfs://processed"),
		).
		Block()

	executed, err := extractor.ProposalsExecuted(block)
	require.NoError(t, err)
	assert.Equal(t, []types.ProposalExecuted{{
		ProposalID:    "42",
		PluginAddress: "0x1111111111111111111111111111111111111111",
	}}, executed.ExecutedProposals)

	processed, err := extractor.ProposalsProcessed(block)
	require.NoError(t, err)
	assert.Equal(t, []types.ProposalProcessed{{
		ContentURI:    "ipfs://processed",
		PluginAddress: "0x1111111111111111111111111111111111111111",
	}}, processed.Proposals)
}

func TestPublishEditsProposalsCreated(t *testing.T) {
	huge, ok := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	require.True(t, ok)

	block := testutil.NewBlockBuilder(12).
		Tx(testutil.Hash(0x01)).
		Add(testutil.MustPackLog(contracts.PublishEditsProposalCreated, plugin,
			huge, creator, uint64(10), uint64(20), "ipfs://edits", dao)).
		Block()

	out, err := extractor.PublishEditsProposalsCreated(block)
	require.NoError(t, err)
	assert.Equal(t, []types.PublishEditsProposalCreated{{
		ProposalID:    huge.String(),
		Creator:       "0x5555555555555555555555555555555555555555",
		StartTime:     "10",
		EndTime:       "20",
		ContentURI:    "ipfs://edits",
		PluginAddress: "0x1111111111111111111111111111111111111111",
		DaoAddress:    "0x2222222222222222222222222222222222222222",
	}}, out.Edits)
}

func TestPublishEditsProposalsCreatedInvalidUTF8(t *testing.T) {
	block := testutil.NewBlockBuilder(12).
		Tx(testutil.Hash(0x01)).
		Add(testutil.MustPackLog(contracts.PublishEditsProposalCreated, plugin,
			big.NewInt(1), creator, uint64(10), uint64(20), string([]byte{0xff}), dao)).
		Block()

	out, err := extractor.PublishEditsProposalsCreated(block)
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestVotesCast(t *testing.T) {
	voter := testutil.Address(0x66)
	vote := testutil.MustPackLog(contracts.VoteCast, plugin, big.NewInt(9), voter, uint8(2), big.NewInt(1))

	// the same log replayed is passed through twice
	block := testutil.NewBlockBuilder(13).
		Tx(testutil.Hash(0x01)).
		Add(vote, vote).
		Block()

	out, err := extractor.VotesCast(block)
	require.NoError(t, err)
	require.Len(t, out.Votes, 2)
	assert.Equal(t, types.VoteCast{
		OnchainProposalID: "9",
		Voter:             "0x6666666666666666666666666666666666666666",
		PluginAddress:     "0x1111111111111111111111111111111111111111",
		VoteOption:        2,
	}, out.Votes[0])
	assert.Equal(t, out.Votes[0], out.Votes[1])
}

func TestEditsPublished(t *testing.T) {
	block := testutil.NewBlockBuilder(14).
		Tx(testutil.Hash(0x01)).
		Add(testutil.MustPackLog(contracts.EditsPublished, plugin, dao, "ipfs://edit")).
		Block()

	out, err := extractor.EditsPublished(block)
	require.NoError(t, err)
	assert.Equal(t, []types.EditPublished{{
		ContentURI:    "ipfs://edit",
		DaoAddress:    "0x2222222222222222222222222222222222222222",
		PluginAddress: "0x1111111111111111111111111111111111111111",
	}}, out.Edits)
}
