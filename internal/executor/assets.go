package executor

import (
	"context"
	"fmt"

	"github.com/veyra-ledger/ledgerd/internal/authz"
	"github.com/veyra-ledger/ledgerd/internal/pagination"
	"github.com/veyra-ledger/ledgerd/internal/permission"
	"github.com/veyra-ledger/ledgerd/internal/query"
	"github.com/veyra-ledger/ledgerd/internal/rowset"
)

const getAccountAssetsSQL = `
%s,
all_data AS (
  SELECT row_number() OVER () rn, *
  FROM (
    SELECT * FROM account_has_asset
    WHERE account_id = $1
    ORDER BY asset_id
  ) t
),
total_number AS (
  SELECT rn AS total_number FROM all_data ORDER BY rn DESC LIMIT 1
),
page_start AS (
  SELECT rn FROM all_data
  WHERE COALESCE(asset_id = $2, TRUE)
  LIMIT 1
),
page_data AS (
  SELECT all_data.*, total_number.total_number FROM all_data, page_start, total_number
  WHERE all_data.rn >= page_start.rn
  AND all_data.rn < page_start.rn + $3
)
SELECT account_id, asset_id, amount::text, total_number, perm
FROM page_data
RIGHT JOIN has_perms ON TRUE
`

type accountAsset struct {
	AssetID     string
	Amount      string
	TotalNumber uint64
}

func (d *Dispatcher) getAccountAssets(ctx context.Context, q query.Query) *query.Response {
	authzFragment := authz.Composite(q.Creator, q.Target, permission.GetMyAccAst, permission.GetAllAccAst, permission.GetDomainAccAst)
	firstAssetID, pageSize := d.paginationAssetArgs(ctx, q.Pagination)

	sql := fmt.Sprintf(getAccountAssetsSQL, authzFragment)
	rows, err := rowset.Decode(ctx, d.Pool, sql, func() []any {
		return []any{new(*string), new(*string), new(*string), new(*int64), new(bool)}
	}, 4, 1, q.Target.String(), firstAssetID, pageSize+1)
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetAccountAssets, err)
	}

	perm := rowset.PermOf(rows, 1)
	if !rowset.AnyTrue(perm) {
		return d.notEnoughPermissions(q.Hash, query.VariantGetAccountAssets, permission.GetMyAccAst, permission.GetAllAccAst, permission.GetDomainAccAst)
	}

	assets := rowset.WithoutNulls(rows, func(data []any) (accountAsset, bool) {
		assetID := *data[1].(**string)
		amount := *data[2].(**string)
		total := *data[3].(**int64)
		if assetID == nil || amount == nil || total == nil {
			return accountAsset{}, false
		}
		return accountAsset{AssetID: *assetID, Amount: *amount, TotalNumber: uint64(*total)}, true
	})

	if len(assets) == 0 && firstAssetID != nil {
		return d.logAndReturnError(q.Hash, query.VariantGetAccountAssets, query.CodeBadCursor, q.Target.String())
	}

	var totalNumber uint64
	if len(assets) > 0 {
		totalNumber = assets[0].TotalNumber
	}

	page := pagination.Stitch(assets, pageSize, func(a accountAsset) string { return a.AssetID })

	d.served(query.VariantGetAccountAssets)
	amounts := make([]query.AssetAmount, len(page.Items))
	for i, a := range page.Items {
		amounts[i] = query.AssetAmount{AssetID: a.AssetID, Amount: a.Amount}
	}
	return query.NewAccountAssetsResponse(q.Hash, query.AccountAssetsView{Assets: amounts, TotalSize: totalNumber, NextAssetID: page.Next})
}

func (d *Dispatcher) paginationAssetArgs(ctx context.Context, p *query.PaginationMeta) (firstAssetID *string, pageSize uint32) {
	if p == nil {
		return nil, d.clampPageSize(ctx, 0)
	}
	return p.FirstCursor, d.clampPageSize(ctx, p.PageSize)
}

const getAssetInfoSQL = `
%s,
info AS (SELECT domain_id, precision FROM asset WHERE asset_id = $1)
SELECT domain_id, precision, perm FROM info
RIGHT OUTER JOIN has_perms ON TRUE
`

func (d *Dispatcher) getAssetInfo(ctx context.Context, q query.Query) *query.Response {
	sql := fmt.Sprintf(getAssetInfoSQL, authz.Single(permission.ReadAssets, "$2"))

	rows, err := rowset.Decode(ctx, d.Pool, sql, func() []any {
		return []any{new(*string), new(*int32), new(bool)}
	}, 2, 1, q.AssetInfoID, q.Creator.String())
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetAssetInfo, err)
	}

	perm := rowset.PermOf(rows, 1)
	if !rowset.AnyTrue(perm) {
		return d.notEnoughPermissions(q.Hash, query.VariantGetAssetInfo, permission.ReadAssets)
	}

	type info struct {
		DomainID  string
		Precision int32
	}
	infos := rowset.WithoutNulls(rows, func(data []any) (info, bool) {
		domainID := *data[0].(**string)
		precision := *data[1].(**int32)
		if domainID == nil || precision == nil {
			return info{}, false
		}
		return info{DomainID: *domainID, Precision: *precision}, true
	})

	if len(infos) == 0 {
		return d.logAndReturnError(q.Hash, query.VariantGetAssetInfo, query.CodeNotFound,
			"no asset with such name in account with such id: {"+q.AssetInfoID+", "+q.Creator.String()+"}")
	}

	d.served(query.VariantGetAssetInfo)
	return query.NewAssetInfoResponse(q.Hash, query.AssetInfoView{DomainID: infos[0].DomainID, Precision: uint32(infos[0].Precision)})
}
