package executor

import (
	"context"
	"fmt"

	"github.com/veyra-ledger/ledgerd/internal/authz"
	"github.com/veyra-ledger/ledgerd/internal/permission"
	"github.com/veyra-ledger/ledgerd/internal/query"
)

// getBlock bypasses the rowset decoder entirely (spec §4.6): a plain
// permission check, a height bound check, then a direct block fetch.
func (d *Dispatcher) getBlock(ctx context.Context, q query.Query) *query.Response {
	if !d.hasRolePermission(ctx, q.Creator.String(), permission.GetBlocks) {
		return d.notEnoughPermissions(q.Hash, query.VariantGetBlock, permission.GetBlocks)
	}

	ledgerHeight, err := d.Blocks.Size(ctx)
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetBlock, err)
	}
	if q.Height > ledgerHeight {
		return d.logAndReturnError(q.Hash, query.VariantGetBlock, query.CodeBadRange,
			fmt.Sprintf("requested height (%d) is greater than the ledger's one (%d)", q.Height, ledgerHeight))
	}

	blk, ok, err := d.Blocks.Fetch(ctx, q.Height)
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetBlock, err)
	}
	if !ok {
		return d.logAndReturnError(q.Hash, query.VariantGetBlock, query.CodeInternal,
			fmt.Sprintf("could not retrieve block with given height: %d", q.Height))
	}

	d.served(query.VariantGetBlock)
	return query.NewBlockResponse(q.Hash, query.BlockView{Height: blk.Height, Transactions: blk.Transactions})
}

// hasRolePermission runs the single-permission variant of the
// authorization predicate directly (no target account, no rowset), for
// variants that gate on a bare role check.
func (d *Dispatcher) hasRolePermission(ctx context.Context, accountID string, p permission.Permission) bool {
	sql := fmt.Sprintf("%s SELECT perm FROM has_perms", authz.Single(p, "$1"))
	var perm bool
	err := d.Pool.QueryRow(ctx, sql, accountID).Scan(&perm)
	if err != nil {
		if d.Log != nil {
			d.Log.Errorw("failed to validate query", "error", err)
		}
		return false
	}
	return perm
}
