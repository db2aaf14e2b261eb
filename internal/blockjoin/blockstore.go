// Package blockjoin cross-references ledger-state query results (which
// only know a transaction's (height, index) position) with block
// storage, producing the actual transaction values in a stable order.
//
// The block storage engine itself is an external collaborator (spec
// §1/§6): only Size and Fetch are consumed here. MemBlockStore is a
// test double adapted from the teacher's in-memory blockstore, used by
// this package's tests and by the example cmd/ledgerd wiring; a real
// on-disk engine is out of this repo's scope.
package blockjoin

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	blockformat "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
)

// TransactionHash is an opaque, hex-printable transaction identity.
type TransactionHash []byte

func (h TransactionHash) String() string { return hex.EncodeToString(h) }

// Transaction is the minimal view of a committed transaction the block
// joiner and dispatcher need. Payload is the transaction's raw content,
// content-addressed the same way the teacher's repo blocks are:
// MemBlockStore wraps it in a go-block-format Block keyed by its CID
// and hands back exactly the bytes it was given on Fetch.
type Transaction struct {
	Hash           TransactionHash
	CreatorAccount string
	Height         uint64
	Index          uint64
	Payload        []byte
}

// Block exposes its transactions in commit order.
type Block struct {
	Height       uint64
	Transactions []Transaction
}

// BlockStore is the contract §6 describes: size() and fetch(height).
type BlockStore interface {
	// Size returns the current committed height, 0 if the ledger is empty.
	Size(ctx context.Context) (uint64, error)
	// Fetch returns the block at height, or ok=false if absent.
	Fetch(ctx context.Context, height uint64) (blk *Block, ok bool, err error)
}

// storedTx is a committed transaction's metadata plus its
// content-addressed payload block.
type storedTx struct {
	hash           TransactionHash
	creatorAccount string
	index          uint64
	block          blockformat.Block
}

// MemBlockStore is an in-memory BlockStore, adapted from the teacher's
// MemBlockstore (internal/repo/blockstore.go in primal-pds), which
// wraps every stored value in a go-block-format Block keyed by its CID;
// here that wrapping is applied to transaction payloads instead of MST
// nodes, and blocks are keyed by ledger height instead of DID.
type MemBlockStore struct {
	mu      sync.RWMutex
	heights map[uint64][]storedTx
	height  uint64
}

// NewMemBlockStore creates an empty in-memory block store.
func NewMemBlockStore() *MemBlockStore {
	return &MemBlockStore{heights: make(map[uint64][]storedTx)}
}

// Append commits a new block, wrapping each transaction's payload in a
// content-addressed go-block-format Block exactly the way the teacher's
// MemBlockstore.Put wraps arbitrary bytes before storing them. Blocks
// must be appended in height order starting at 1.
func (m *MemBlockStore) Append(txs []Transaction) (*Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.height++

	stored := make([]storedTx, len(txs))
	committed := make([]Transaction, len(txs))
	for i, tx := range txs {
		c, err := CID(tx.Payload)
		if err != nil {
			return nil, fmt.Errorf("blockjoin: cid transaction %d at height %d: %w", i, m.height, err)
		}
		blk, err := blockformat.NewBlockWithCid(tx.Payload, c)
		if err != nil {
			return nil, fmt.Errorf("blockjoin: wrap transaction %d at height %d: %w", i, m.height, err)
		}

		tx.Height = m.height
		tx.Index = uint64(i)
		stored[i] = storedTx{hash: tx.Hash, creatorAccount: tx.CreatorAccount, index: tx.Index, block: blk}
		committed[i] = tx
	}

	m.heights[m.height] = stored
	return &Block{Height: m.height, Transactions: committed}, nil
}

// Size implements BlockStore.
func (m *MemBlockStore) Size(_ context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.height, nil
}

// Fetch implements BlockStore, unwrapping each transaction's
// go-block-format Block back into its Payload bytes via RawData.
func (m *MemBlockStore) Fetch(_ context.Context, height uint64) (*Block, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.heights[height]
	if !ok {
		return nil, false, nil
	}
	txs := make([]Transaction, len(stored))
	for i, s := range stored {
		txs[i] = Transaction{
			Hash:           s.hash,
			CreatorAccount: s.creatorAccount,
			Height:         height,
			Index:          s.index,
			Payload:        s.block.RawData(),
		}
	}
	return &Block{Height: height, Transactions: txs}, true, nil
}

// CID derives the content identifier MemBlockStore keys a transaction's
// payload block by, using the same multihash family the teacher's
// blockstore uses for MST nodes (sha2-256, raw codec since transaction
// payloads are not dag-cbor).
func CID(payload []byte) (cid.Cid, error) {
	h, err := cidPrefix.Sum(payload)
	if err != nil {
		return cid.Undef, err
	}
	return h, nil
}

var cidPrefix = cid.V1Builder{Codec: cid.Raw, MhType: 0x12, MhLength: -1} // sha2-256
