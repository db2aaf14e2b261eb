package executor

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/veyra-ledger/ledgerd/internal/authz"
	"github.com/veyra-ledger/ledgerd/internal/blockjoin"
	"github.com/veyra-ledger/ledgerd/internal/ledgerid"
	"github.com/veyra-ledger/ledgerd/internal/pagination"
	"github.com/veyra-ledger/ledgerd/internal/permission"
	"github.com/veyra-ledger/ledgerd/internal/query"
	"github.com/veyra-ledger/ledgerd/internal/rowset"
)

const txPositionSQLTemplate = `
%s,
my_txs AS (%s),
first_hash AS (%s),
total_size AS (SELECT COUNT(*) AS total_size FROM my_txs),
t AS (
  SELECT my_txs.height, my_txs.index
  FROM my_txs JOIN first_hash
    ON my_txs.height > first_hash.height
    OR (my_txs.height = first_hash.height AND my_txs.index >= first_hash.index)
  ORDER BY my_txs.height, my_txs.index
  LIMIT %s
)
SELECT t.height, t.index, total_size.total_size, has_perms.perm
FROM t
RIGHT OUTER JOIN has_perms ON TRUE
JOIN total_size ON TRUE
`

type txPosition struct {
	Height    uint64
	Index     uint64
	TotalSize uint64
}

// txPositionRows runs the shared "seek + one lookahead" transaction
// position query (spec §4.4): my_txs is the relatedTxsSQL subquery
// (already using $1..$len(relatedArgs) placeholders), and the cursor
// resolution/page-size limit are appended after it.
func (d *Dispatcher) txPositionRows(ctx context.Context, authzFragment, relatedTxsSQL string, relatedArgs []any, firstHash *string, pageSize uint32) ([]txPosition, []bool, error) {
	args := append([]any{}, relatedArgs...)
	var firstHashSQL string
	if firstHash != nil {
		args = append(args, *firstHash)
		firstHashSQL = fmt.Sprintf("SELECT height, index FROM position_by_hash WHERE hash = $%d LIMIT 1", len(args))
	} else {
		firstHashSQL = "SELECT height, index FROM position_by_hash ORDER BY height, index ASC LIMIT 1"
	}
	args = append(args, pageSize+1)
	limitParam := fmt.Sprintf("$%d", len(args))

	sql := fmt.Sprintf(txPositionSQLTemplate, authzFragment, relatedTxsSQL, firstHashSQL, limitParam)

	rows, err := rowset.Decode(ctx, d.Pool, sql, func() []any {
		return []any{new(*int64), new(*int64), new(*int64), new(bool)}
	}, 3, 1, args...)
	if err != nil {
		return nil, nil, err
	}

	perm := rowset.PermOf(rows, 1)
	positions := rowset.WithoutNulls(rows, func(data []any) (txPosition, bool) {
		height := *data[0].(**int64)
		index := *data[1].(**int64)
		total := *data[2].(**int64)
		if height == nil || index == nil || total == nil {
			return txPosition{}, false
		}
		return txPosition{Height: uint64(*height), Index: uint64(*index), TotalSize: uint64(*total)}, true
	})
	return positions, perm, nil
}

// stitchTransactions joins the fetched positions against block storage
// and applies the shared lookahead cursor to the resulting transaction
// list.
func (d *Dispatcher) stitchTransactions(ctx context.Context, positions []txPosition, pageSize uint32) ([]blockjoin.Transaction, *blockjoin.TransactionHash, error) {
	byHeight := blockjoin.Positions{}
	for _, p := range positions {
		byHeight[p.Height] = append(byHeight[p.Height], p.Index)
	}
	txs, err := blockjoin.Join(ctx, d.Blocks, byHeight, d.Log)
	if err != nil {
		return nil, nil, err
	}

	page := pagination.Stitch(txs, pageSize, func(tx blockjoin.Transaction) string { return tx.Hash.String() })
	var next *blockjoin.TransactionHash
	if page.Next != nil {
		raw, err := hex.DecodeString(*page.Next)
		if err != nil {
			return nil, nil, fmt.Errorf("executor: decode next cursor: %w", err)
		}
		h := blockjoin.TransactionHash(raw)
		next = &h
	}
	return page.Items, next, nil
}

func (d *Dispatcher) paginationArgs(ctx context.Context, p *query.PaginationMeta) (firstHash *string, pageSize uint32) {
	if p == nil {
		return nil, d.clampPageSize(ctx, 0)
	}
	return p.FirstCursor, d.clampPageSize(ctx, p.PageSize)
}

func (d *Dispatcher) getAccountTransactions(ctx context.Context, q query.Query) *query.Response {
	authzFragment := authz.Composite(q.Creator, q.Target, permission.GetMyAccTxs, permission.GetAllAccTxs, permission.GetDomainAccTxs)
	relatedTxs := `SELECT DISTINCT height, index FROM tx_position_by_creator WHERE creator_id = $1 ORDER BY height, index ASC`
	firstHash, pageSize := d.paginationArgs(ctx, q.Pagination)

	positions, perm, err := d.txPositionRows(ctx, authzFragment, relatedTxs, []any{q.Target.String()}, firstHash, pageSize)
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetAccountTransactions, err)
	}
	if !rowset.AnyTrue(perm) {
		return d.notEnoughPermissions(q.Hash, query.VariantGetAccountTransactions, permission.GetMyAccTxs, permission.GetAllAccTxs, permission.GetDomainAccTxs)
	}

	txs, next, err := d.stitchTransactions(ctx, positions, pageSize)
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetAccountTransactions, err)
	}

	if len(txs) == 0 {
		if firstHash != nil {
			return d.logAndReturnError(q.Hash, query.VariantGetAccountTransactions, query.CodeBadCursor,
				"invalid pagination hash: "+*firstHash)
		}
		if exists, err := d.accountExists(ctx, q.Target); err != nil {
			return d.internalError(q.Hash, query.VariantGetAccountTransactions, err)
		} else if !exists {
			return d.logAndReturnError(q.Hash, query.VariantGetAccountTransactions, query.CodeNoAccount,
				"no account with such id found: "+q.Target.String())
		}
	}

	var totalSize uint64
	if len(positions) > 0 {
		totalSize = positions[0].TotalSize
	}

	d.served(query.VariantGetAccountTransactions)
	return query.NewTransactionsPageResponse(q.Hash, query.TransactionsPageView{Transactions: txs, TotalSize: totalSize, NextTxHash: next})
}

func (d *Dispatcher) getAccountAssetTransactions(ctx context.Context, q query.Query) *query.Response {
	authzFragment := authz.Composite(q.Creator, q.Target, permission.GetMyAccAstTxs, permission.GetAllAccAstTxs, permission.GetDomainAccAstTxs)
	relatedTxs := `SELECT DISTINCT height, index FROM position_by_account_asset WHERE account_id = $1 AND asset_id = $2 ORDER BY height, index ASC`
	firstHash, pageSize := d.paginationArgs(ctx, q.Pagination)

	positions, perm, err := d.txPositionRows(ctx, authzFragment, relatedTxs, []any{q.Target.String(), q.AssetID}, firstHash, pageSize)
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetAccountAssetTransactions, err)
	}
	if !rowset.AnyTrue(perm) {
		return d.notEnoughPermissions(q.Hash, query.VariantGetAccountAssetTransactions, permission.GetMyAccAstTxs, permission.GetAllAccAstTxs, permission.GetDomainAccAstTxs)
	}

	txs, next, err := d.stitchTransactions(ctx, positions, pageSize)
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetAccountAssetTransactions, err)
	}

	if len(txs) == 0 {
		if firstHash != nil {
			return d.logAndReturnError(q.Hash, query.VariantGetAccountAssetTransactions, query.CodeBadCursor,
				"invalid pagination hash: "+*firstHash)
		}
		exists, err := d.accountExists(ctx, q.Target)
		if err != nil {
			return d.internalError(q.Hash, query.VariantGetAccountAssetTransactions, err)
		}
		if !exists {
			return d.logAndReturnError(q.Hash, query.VariantGetAccountAssetTransactions, query.CodeNoAccount,
				"no account with such id found: "+q.Target.String())
		}
		assetExists, err := d.assetExists(ctx, q.AssetID)
		if err != nil {
			return d.internalError(q.Hash, query.VariantGetAccountAssetTransactions, err)
		}
		if !assetExists {
			return d.logAndReturnError(q.Hash, query.VariantGetAccountAssetTransactions, query.CodeNoAsset,
				"no asset with such id found: "+q.AssetID)
		}
	}

	var totalSize uint64
	if len(positions) > 0 {
		totalSize = positions[0].TotalSize
	}

	d.served(query.VariantGetAccountAssetTransactions)
	return query.NewTransactionsPageResponse(q.Hash, query.TransactionsPageView{Transactions: txs, TotalSize: totalSize, NextTxHash: next})
}

const getTransactionsSQL = `
%[1]s,
t AS (
  SELECT height, hash FROM position_by_hash WHERE hash IN (%[2]s)
)
SELECT height, hash, has_my_perm.perm, has_all_perm.perm FROM t
RIGHT OUTER JOIN has_my_perm ON TRUE
RIGHT OUTER JOIN has_all_perm ON TRUE
`

// getTransactions applies a per-transaction filter rather than a single
// permission gate: each matching row is kept only if the caller holds
// GetAllTxs, or holds GetMyTxs and created that transaction (spec
// §4.6). A hash count mismatch — unknown hash or a hash the caller
// cannot see — collapses to a single ambiguous code-4 error, matching
// the source executor's documented ambiguity.
func (d *Dispatcher) getTransactions(ctx context.Context, q query.Query) *query.Response {
	if len(q.Hashes) == 0 {
		return d.logAndReturnError(q.Hash, query.VariantGetTransactions, query.CodeBadCursor, "transaction hash list must not be empty")
	}

	hashList := ""
	for i, h := range q.Hashes {
		if i > 0 {
			hashList += ","
		}
		hashList += "'" + hex.EncodeToString(h) + "'"
	}

	authzFragment := authz.Dual(q.Creator, permission.GetMyTxs, permission.GetAllTxs)
	sql := fmt.Sprintf(getTransactionsSQL, authzFragment, hashList)

	rows, err := rowset.Decode(ctx, d.Pool, sql, func() []any {
		return []any{new(*int64), new(*string), new(bool), new(bool)}
	}, 2, 2)
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetTransactions, err)
	}

	perm := rowset.PermOf(rows, 2)
	myPerm, allPerm := perm[0], perm[1]
	if !myPerm && !allPerm {
		return d.notEnoughPermissions(q.Hash, query.VariantGetTransactions, permission.GetMyTxs, permission.GetAllTxs)
	}

	type hit struct {
		Height uint64
		Hash   string
	}
	hits := rowset.WithoutNulls(rows, func(data []any) (hit, bool) {
		height := *data[0].(**int64)
		hash := *data[1].(**string)
		if height == nil || hash == nil {
			return hit{}, false
		}
		return hit{Height: uint64(*height), Hash: *hash}, true
	})

	if len(hits) != len(q.Hashes) {
		return d.logAndReturnError(q.Hash, query.VariantGetTransactions, query.CodeBadCursor,
			"at least one of the supplied hashes is incorrect")
	}

	byHeight := map[uint64]map[string]bool{}
	for _, h := range hits {
		if byHeight[h.Height] == nil {
			byHeight[h.Height] = map[string]bool{}
		}
		byHeight[h.Height][h.Hash] = true
	}

	heights := make([]uint64, 0, len(byHeight))
	for h := range byHeight {
		heights = append(heights, h)
	}

	hidden := false
	txs, err := blockjoin.JoinFiltered(ctx, d.Blocks, heights, func(tx blockjoin.Transaction) bool {
		if !byHeight[tx.Height][tx.Hash.String()] {
			return false
		}
		if allPerm || (myPerm && tx.CreatorAccount == q.Creator.String()) {
			return true
		}
		hidden = true
		return false
	}, d.Log)
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetTransactions, err)
	}
	if hidden {
		return d.logAndReturnError(q.Hash, query.VariantGetTransactions, query.CodeBadCursor,
			"at least one of the supplied hashes is incorrect")
	}

	d.served(query.VariantGetTransactions)
	return query.NewTransactionsPageResponse(q.Hash, query.TransactionsPageView{Transactions: txs, TotalSize: uint64(len(txs))})
}

func (d *Dispatcher) accountExists(ctx context.Context, id ledgerid.AccountID) (bool, error) {
	return d.existsInDB(ctx, "account", "account_id", id.String())
}

func (d *Dispatcher) assetExists(ctx context.Context, assetID string) (bool, error) {
	return d.existsInDB(ctx, "asset", "asset_id", assetID)
}

func (d *Dispatcher) existsInDB(ctx context.Context, table, keyColumn, value string) (bool, error) {
	sql := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = $1 LIMIT 1", table, keyColumn)
	var found int
	err := d.Pool.QueryRow(ctx, sql, value).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
