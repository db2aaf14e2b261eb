package blockjoin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin_PreservesHeightThenIndexOrder(t *testing.T) {
	store := NewMemBlockStore()
	store.Append([]Transaction{{Hash: []byte("h1a")}, {Hash: []byte("h1b")}}) // height 1
	store.Append([]Transaction{{Hash: []byte("h2a")}})                       // height 2

	positions := Positions{
		2: {0},
		1: {1, 0},
	}

	out, err := Join(context.Background(), store, positions, nil)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "h1a", string(out[0].Hash))
	assert.Equal(t, "h1b", string(out[1].Hash))
	assert.Equal(t, "h2a", string(out[2].Hash))
}

func TestJoin_SkipsMissingBlock(t *testing.T) {
	store := NewMemBlockStore()
	store.Append([]Transaction{{Hash: []byte("h1a")}})

	positions := Positions{1: {0}, 99: {0}}
	out, err := Join(context.Background(), store, positions, nil)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestJoinFiltered_AppliesPredicate(t *testing.T) {
	store := NewMemBlockStore()
	store.Append([]Transaction{
		{Hash: []byte("a"), CreatorAccount: "alice@test"},
		{Hash: []byte("b"), CreatorAccount: "bob@test"},
	})

	out, err := JoinFiltered(context.Background(), store, []uint64{1}, func(tx Transaction) bool {
		return tx.CreatorAccount == "alice@test"
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a", string(out[0].Hash))
}

func TestMemBlockStore_SizeAndFetch(t *testing.T) {
	store := NewMemBlockStore()
	size, err := store.Size(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), size)

	_, err = store.Append([]Transaction{{Hash: []byte("x")}})
	require.NoError(t, err)
	size, _ = store.Size(context.Background())
	assert.Equal(t, uint64(1), size)

	blk, ok, err := store.Fetch(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, blk.Transactions, 1)

	_, ok, err = store.Fetch(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemBlockStore_RoundTripsPayloadThroughContentAddressedBlock(t *testing.T) {
	store := NewMemBlockStore()
	payload := []byte(`{"command":"TransferAsset","amount":"10.00"}`)

	committed, err := store.Append([]Transaction{{Hash: []byte("x"), Payload: payload}})
	require.NoError(t, err)
	require.Len(t, committed.Transactions, 1)
	assert.Equal(t, payload, committed.Transactions[0].Payload)

	blk, ok, err := store.Fetch(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payload, blk.Transactions[0].Payload)
}
