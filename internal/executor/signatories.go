package executor

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/veyra-ledger/ledgerd/internal/authz"
	"github.com/veyra-ledger/ledgerd/internal/permission"
	"github.com/veyra-ledger/ledgerd/internal/query"
	"github.com/veyra-ledger/ledgerd/internal/rowset"
)

const getSignatoriesSQL = `
%s,
t AS (
  SELECT public_key FROM account_has_signatory
  WHERE account_id = $1
)
SELECT public_key, perm FROM t
RIGHT OUTER JOIN has_perms ON TRUE
`

func (d *Dispatcher) getSignatories(ctx context.Context, q query.Query) *query.Response {
	sql := fmt.Sprintf(getSignatoriesSQL,
		authz.Composite(q.Creator, q.Target, permission.GetMySignatories, permission.GetAllSignatories, permission.GetDomainSignatories))

	rows, err := rowset.Decode(ctx, d.Pool, sql, func() []any {
		return []any{new(*string), new(bool)}
	}, 1, 1, q.Target.String())
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetSignatories, err)
	}

	perm := rowset.PermOf(rows, 1)
	if !rowset.AnyTrue(perm) {
		return d.notEnoughPermissions(q.Hash, query.VariantGetSignatories, permission.GetMySignatories, permission.GetAllSignatories, permission.GetDomainSignatories)
	}

	keys := rowset.WithoutNulls(rows, func(data []any) ([]byte, bool) {
		hexKey := *data[0].(**string)
		if hexKey == nil {
			return nil, false
		}
		raw, err := hex.DecodeString(*hexKey)
		if err != nil {
			return nil, false
		}
		return raw, true
	})

	if len(keys) == 0 {
		return d.logAndReturnError(q.Hash, query.VariantGetSignatories, query.CodeNotFound,
			"no signatories found in account with such id: "+q.Target.String())
	}

	d.served(query.VariantGetSignatories)
	return query.NewSignatoriesResponse(q.Hash, query.SignatoriesView{PublicKeys: keys})
}
