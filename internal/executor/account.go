package executor

import (
	"context"
	"fmt"

	"github.com/veyra-ledger/ledgerd/internal/authz"
	"github.com/veyra-ledger/ledgerd/internal/permission"
	"github.com/veyra-ledger/ledgerd/internal/query"
	"github.com/veyra-ledger/ledgerd/internal/rowset"
)

const getAccountSQL = `
%s,
t AS (
  SELECT a.account_id, a.domain_id, a.quorum, a.data::text, ARRAY_AGG(ar.role_id) AS roles
  FROM account AS a, account_has_roles AS ar
  WHERE a.account_id = $1
  AND ar.account_id = a.account_id
  GROUP BY a.account_id
)
SELECT account_id, domain_id, quorum, data, roles, perm
FROM t RIGHT OUTER JOIN has_perms AS p ON TRUE
`

type accountRow struct {
	AccountID string
	DomainID  string
	Quorum    int32
	Detail    string
	Roles     []string
}

func (d *Dispatcher) getAccount(ctx context.Context, q query.Query) *query.Response {
	sql := fmt.Sprintf(getAccountSQL,
		authz.Composite(q.Creator, q.Target, permission.GetMyAccount, permission.GetAllAccounts, permission.GetDomainAccounts))

	rows, err := rowset.Decode(ctx, d.Pool, sql, func() []any {
		return []any{new(*string), new(*string), new(*int32), new(*string), new(*[]string), new(bool)}
	}, 5, 1, q.Target.String())
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetAccount, err)
	}

	perm := rowset.PermOf(rows, 1)
	if !rowset.AnyTrue(perm) {
		return d.notEnoughPermissions(q.Hash, query.VariantGetAccount, permission.GetMyAccount, permission.GetAllAccounts, permission.GetDomainAccounts)
	}

	decoded := rowset.WithoutNulls(rows, func(data []any) (accountRow, bool) {
		accountID := *data[0].(**string)
		domainID := *data[1].(**string)
		quorum := *data[2].(**int32)
		detail := *data[3].(**string)
		roles := *data[4].(**[]string)
		if accountID == nil || domainID == nil || quorum == nil || detail == nil || roles == nil {
			return accountRow{}, false
		}
		return accountRow{
			AccountID: *accountID,
			DomainID:  *domainID,
			Quorum:    *quorum,
			Detail:    *detail,
			Roles:     append([]string(nil), *roles...),
		}, true
	})

	if len(decoded) == 0 {
		return d.logAndReturnError(q.Hash, query.VariantGetAccount, query.CodeNotFound,
			"could not find account with such id: "+q.Target.String())
	}

	d.served(query.VariantGetAccount)
	acc := decoded[0]
	return query.NewAccountResponse(q.Hash, query.AccountView{
		AccountID: acc.AccountID,
		DomainID:  acc.DomainID,
		Quorum:    uint32(acc.Quorum),
		Detail:    acc.Detail,
		Roles:     acc.Roles,
	})
}
