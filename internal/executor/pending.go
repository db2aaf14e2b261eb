package executor

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/veyra-ledger/ledgerd/internal/blockjoin"
	"github.com/veyra-ledger/ledgerd/internal/mempool"
	"github.com/veyra-ledger/ledgerd/internal/query"
)

// getPendingTransactions has no authorization check in the source
// executor: any account may list its own pending transactions.
func (d *Dispatcher) getPendingTransactions(ctx context.Context, q query.Query) *query.Response {
	if q.Pagination == nil {
		txs, err := d.Mempool.PendingTransactions(ctx, q.Creator.String())
		if err != nil {
			return d.internalError(q.Hash, query.VariantGetPendingTransactions, err)
		}
		d.served(query.VariantGetPendingTransactions)
		return query.NewPendingTransactionsResponse(q.Hash, query.PendingTransactionsView{Transactions: txs})
	}

	var firstHash *blockjoin.TransactionHash
	if q.Pagination.FirstCursor != nil {
		raw, err := hex.DecodeString(*q.Pagination.FirstCursor)
		if err != nil {
			return d.logAndReturnError(q.Hash, query.VariantGetPendingTransactions, query.CodeBadCursor, *q.Pagination.FirstCursor)
		}
		h := blockjoin.TransactionHash(raw)
		firstHash = &h
	}

	pageSize := d.clampPageSize(ctx, q.Pagination.PageSize)
	page, err := d.Mempool.PendingTransactionsPage(ctx, q.Creator.String(), pageSize, firstHash)
	if err != nil {
		if errors.Is(err, mempool.ErrBatchNotFound) {
			return d.logAndReturnError(q.Hash, query.VariantGetPendingTransactions, query.CodeBadCursor, *q.Pagination.FirstCursor)
		}
		return d.internalError(q.Hash, query.VariantGetPendingTransactions, err)
	}

	view := query.PendingTransactionsView{
		Transactions:        page.Transactions,
		AllTransactionsSize: page.AllTransactionsSize,
	}
	if page.NextBatchInfo != nil {
		next := page.NextBatchInfo.FirstTxHash
		view.NextTxHash = &next
	}

	d.served(query.VariantGetPendingTransactions)
	return query.NewPendingTransactionsResponse(q.Hash, view)
}
