package collector

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geobrowser/geo-stream/aggregator"
	"github.com/geobrowser/geo-stream/contracts"
	"github.com/geobrowser/geo-stream/contracts/testutil"
	"github.com/geobrowser/geo-stream/store"
	"github.com/geobrowser/geo-stream/types"
	"github.com/geobrowser/geo-stream/util"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var (
	plugin = testutil.Address(0x11)
	dao    = testutil.Address(0x22)
	space  = testutil.Address(0xaa)
)

func mixedBlock() *types.Block {
	return testutil.NewBlockBuilder(77).
		Tx(testutil.Hash(0x01)).
		Add(
			testutil.MustPackLog(contracts.GeoSpacePluginCreated, testutil.Address(0x99), dao, plugin),
			testutil.MustPackLog(contracts.MemberAdded, plugin, dao, testutil.Address(0x33)),
		).
		Tx(testutil.Hash(0x02)).
		Add(
			testutil.MustPackLog(contracts.EntryAdded, space, big.NewInt(0), "ipfs://one", testutil.Address(0x44)),
			testutil.MustPackLog(contracts.EntryAdded, space, big.NewInt(1), "ipfs://two", testutil.Address(0x44)),
			testutil.MustPackLog(contracts.MemberRemoved, plugin, dao, testutil.Address(0x33)),
		).
		Block()
}

func TestExtractMatchesSequentialAggregation(t *testing.T) {
	c := New(discard, nil)

	for i := 0; i < 5; i++ {
		concurrent, err := c.Extract(mixedBlock())
		require.NoError(t, err)
		sequential, err := aggregator.Extract(mixedBlock())
		require.NoError(t, err)
		assert.Equal(t, sequential, concurrent)
	}
}

func TestExtractFailsWholeBlock(t *testing.T) {
	block := testutil.NewBlockBuilder(5).
		Tx(testutil.Hash(0x01)).
		Add(
			testutil.MustPackLog(contracts.MemberAdded, plugin, dao, testutil.Address(0x33)),
			testutil.MustPackLog(contracts.GeoProposalProcessed, plugin, uint32(0), uint32(0), string([]byte{0xc3, 0x28})),
		).
		Block()

	out, err := New(discard, nil).Extract(block)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, types.IsErrorType(err, types.ErrTypeMalformedPayload))
}

func TestCollectWritesEntrySpaces(t *testing.T) {
	s, err := store.OpenBadger(store.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	defer s.Close()

	c := New(discard, store.NewWriter(s, store.BackendBadger, discard))
	ctx := context.Background()

	out, err := c.Collect(ctx, mixedBlock())
	require.NoError(t, err)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, util.FormatHex(space.Bytes()), out.Entries[0].Space)
	assert.Len(t, out.MembersAdded, 1)
	assert.Len(t, out.MembersRemoved, 1)

	// already present after the first pass
	inserted, err := s.SetIfAbsent(ctx, out.Entries[0].Space, out.Entries[0].Space)
	require.NoError(t, err)
	assert.False(t, inserted)

	// replaying the block is harmless and yields the same output
	again, err := c.Collect(ctx, mixedBlock())
	require.NoError(t, err)
	assert.Equal(t, out, again)
}
