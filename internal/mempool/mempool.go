// Package mempool defines the pending-transaction storage contract
// consumed by GetPendingTransactions. The mempool implementation itself
// is out of this repo's scope (spec §1); this package only states the
// contract and provides an in-memory adapter for tests.
package mempool

import (
	"context"
	"errors"
	"sync"

	"github.com/veyra-ledger/ledgerd/internal/blockjoin"
)

// ErrBatchNotFound is returned by PendingTransactionsPage when the
// caller's firstTxHash does not identify any pending batch. It maps to
// dispatcher error code 4.
var ErrBatchNotFound = errors.New("mempool: batch with given first transaction hash not found")

// NextBatchInfo describes where the next page of pending transactions
// starts, echoed back to the caller as an opaque cursor.
type NextBatchInfo struct {
	FirstTxHash blockjoin.TransactionHash
	BatchSize   uint32
}

// Page is the paginated mempool response.
type Page struct {
	Transactions       []blockjoin.Transaction
	AllTransactionsSize uint64
	NextBatchInfo      *NextBatchInfo
}

// Mempool is the pending-transaction storage contract.
type Mempool interface {
	// PendingTransactions is the deprecated, non-paginated form.
	PendingTransactions(ctx context.Context, accountID string) ([]blockjoin.Transaction, error)
	// PendingTransactionsPage is the paginated form. Returns
	// ErrBatchNotFound if firstTxHash is non-nil and unresolvable.
	PendingTransactionsPage(ctx context.Context, accountID string, pageSize uint32, firstTxHash *blockjoin.TransactionHash) (*Page, error)
}

// InMemory is a test double implementing Mempool over a per-account
// slice of pending transactions, ordered by submission order.
type InMemory struct {
	mu      sync.RWMutex
	pending map[string][]blockjoin.Transaction
}

// NewInMemory creates an empty in-memory mempool.
func NewInMemory() *InMemory {
	return &InMemory{pending: make(map[string][]blockjoin.Transaction)}
}

// Submit adds a pending transaction for accountID.
func (m *InMemory) Submit(accountID string, tx blockjoin.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[accountID] = append(m.pending[accountID], tx)
}

// PendingTransactions implements Mempool.
func (m *InMemory) PendingTransactions(_ context.Context, accountID string) ([]blockjoin.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]blockjoin.Transaction, len(m.pending[accountID]))
	copy(out, m.pending[accountID])
	return out, nil
}

// PendingTransactionsPage implements Mempool.
func (m *InMemory) PendingTransactionsPage(_ context.Context, accountID string, pageSize uint32, firstTxHash *blockjoin.TransactionHash) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.pending[accountID]

	start := 0
	if firstTxHash != nil {
		found := -1
		for i, tx := range all {
			if string(tx.Hash) == string(*firstTxHash) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, ErrBatchNotFound
		}
		start = found
	}

	end := start + int(pageSize)
	if end > len(all) {
		end = len(all)
	}
	page := append([]blockjoin.Transaction(nil), all[start:end]...)

	p := &Page{
		Transactions:        page,
		AllTransactionsSize: uint64(len(all)),
	}
	if end < len(all) {
		nextHash := all[end].Hash
		p.NextBatchInfo = &NextBatchInfo{FirstTxHash: nextHash, BatchSize: pageSize}
	}
	return p, nil
}
