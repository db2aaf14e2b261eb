package executor

import (
	"context"
	"fmt"

	"github.com/veyra-ledger/ledgerd/internal/authz"
	"github.com/veyra-ledger/ledgerd/internal/permission"
	"github.com/veyra-ledger/ledgerd/internal/query"
	"github.com/veyra-ledger/ledgerd/internal/rowset"
)

const getAccountDetailSQL = `
%s,
detail AS (
  WITH filtered_plain_data AS (
    SELECT row_number() OVER () rn, *
    FROM (
      SELECT
        data_by_writer.key AS writer,
        plain_data.key AS key,
        plain_data.value AS value
      FROM
        jsonb_each((SELECT data FROM account WHERE account_id = $1)) data_by_writer,
        jsonb_each(data_by_writer.value) plain_data
      WHERE
        COALESCE(data_by_writer.key = $2, TRUE) AND
        COALESCE(plain_data.key = $3, TRUE)
      ORDER BY data_by_writer.key ASC, plain_data.key ASC
    ) t
  ),
  page_limits AS (
    SELECT start.rn AS start, start.rn + $4 AS "end"
    FROM (
      SELECT rn FROM filtered_plain_data
      WHERE
        COALESCE(writer = $5, TRUE) AND
        COALESCE(key = $6, TRUE)
      LIMIT 1
    ) start
  ),
  total_number AS (SELECT count(1) AS total_number FROM filtered_plain_data),
  next_record AS (
    SELECT writer, key FROM filtered_plain_data, page_limits WHERE rn = page_limits."end"
  ),
  page AS (
    SELECT json_object_agg(writer, data_by_writer) AS json
    FROM (
      SELECT writer, json_object_agg(key, value) AS data_by_writer
      FROM filtered_plain_data, page_limits
      WHERE rn >= page_limits.start AND COALESCE(rn < page_limits."end", TRUE)
      GROUP BY writer
    ) t
  ),
  target_account_exists AS (SELECT count(1) AS val FROM account WHERE account_id = $1)
  SELECT
    page.json AS json,
    total_number.total_number,
    next_record.writer AS next_writer,
    next_record.key AS next_key,
    target_account_exists.val AS target_account_exists
  FROM page
  LEFT JOIN total_number ON TRUE
  LEFT JOIN next_record ON TRUE
  RIGHT JOIN target_account_exists ON TRUE
)
SELECT detail.*, perm FROM detail
RIGHT JOIN has_perms ON TRUE
`

func (d *Dispatcher) getAccountDetail(ctx context.Context, q query.Query) *query.Response {
	authzFragment := authz.Composite(q.Creator, q.Target, permission.GetMyAccDetail, permission.GetAllAccDetail, permission.GetDomainAccDetail)
	sql := fmt.Sprintf(getAccountDetailSQL, authzFragment)

	var firstRecordWriter, firstRecordKey *string
	pageSize := d.clampPageSize(ctx, 0)
	if q.Pagination != nil {
		pageSize = d.clampPageSize(ctx, q.Pagination.PageSize)
		firstRecordWriter = q.Writer
		firstRecordKey = q.Key
		if q.Pagination.FirstCursor != nil {
			firstRecordWriter, firstRecordKey = splitDetailCursor(*q.Pagination.FirstCursor)
		}
	}

	rows, err := rowset.Decode(ctx, d.Pool, sql, func() []any {
		return []any{new(*string), new(*int64), new(*string), new(*string), new(*int64), new(bool)}
	}, 5, 1, q.Target.String(), q.Writer, q.Key, pageSize, firstRecordWriter, firstRecordKey)
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetAccountDetail, err)
	}

	perm := rowset.PermOf(rows, 1)
	if !rowset.AnyTrue(perm) {
		return d.notEnoughPermissions(q.Hash, query.VariantGetAccountDetail, permission.GetMyAccDetail, permission.GetAllAccDetail, permission.GetDomainAccDetail)
	}
	if len(rows) == 0 {
		return d.logAndReturnError(q.Hash, query.VariantGetAccountDetail, query.CodeNotFound, "no details in account with such id: "+q.Target.String())
	}

	row := rows[0]
	json := row.Data[0].(**string)
	totalNumber := row.Data[1].(**int64)
	nextWriter := row.Data[2].(**string)
	nextKey := row.Data[3].(**string)
	targetExists := row.Data[4].(**int64)

	if targetExists == nil || *targetExists == nil || **targetExists == 0 {
		return d.logAndReturnError(q.Hash, query.VariantGetAccountDetail, query.CodeNotFound, "no details in account with such id: "+q.Target.String())
	}

	if json == nil || *json == nil {
		if totalNumber != nil && *totalNumber != nil && **totalNumber > 0 {
			// total_number > 0 with no json payload only happens when the
			// requested first record does not exist.
			return d.logAndReturnError(q.Hash, query.VariantGetAccountDetail, query.CodeBadCursor, q.Target.String())
		}
		d.served(query.VariantGetAccountDetail)
		return query.NewAccountDetailResponse(q.Hash, query.AccountDetailView{JSON: "{}", TotalNumber: 0})
	}

	var total uint64
	if totalNumber != nil && *totalNumber != nil {
		total = uint64(**totalNumber)
	}
	var nw, nk *string
	if nextWriter != nil && *nextWriter != nil && nextKey != nil && *nextKey != nil {
		nw, nk = *nextWriter, *nextKey
	}

	d.served(query.VariantGetAccountDetail)
	return query.NewAccountDetailResponse(q.Hash, query.AccountDetailView{JSON: **json, TotalNumber: total, NextWriter: nw, NextKey: nk})
}

// splitDetailCursor decodes the opaque account-detail cursor, which
// encodes the (writer,key) pair as "writer\x1fkey".
func splitDetailCursor(cursor string) (writer, key *string) {
	for i := 0; i < len(cursor); i++ {
		if cursor[i] == 0x1f {
			w, k := cursor[:i], cursor[i+1:]
			return &w, &k
		}
	}
	return nil, nil
}
