package executor

import (
	"context"
	"fmt"

	"github.com/veyra-ledger/ledgerd/internal/authz"
	"github.com/veyra-ledger/ledgerd/internal/permission"
	"github.com/veyra-ledger/ledgerd/internal/query"
	"github.com/veyra-ledger/ledgerd/internal/rowset"
)

const getRolesSQL = `
%s,
t AS (SELECT role_id FROM role)
SELECT role_id, perm FROM t
RIGHT OUTER JOIN has_perms ON TRUE
`

func (d *Dispatcher) getRoles(ctx context.Context, q query.Query) *query.Response {
	sql := fmt.Sprintf(getRolesSQL, authz.Single(permission.GetRoles, "$1"))

	rows, err := rowset.Decode(ctx, d.Pool, sql, func() []any {
		return []any{new(*string), new(bool)}
	}, 1, 1, q.Creator.String())
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetRoles, err)
	}

	perm := rowset.PermOf(rows, 1)
	if !rowset.AnyTrue(perm) {
		return d.notEnoughPermissions(q.Hash, query.VariantGetRoles, permission.GetRoles)
	}

	roles := rowset.WithoutNulls(rows, func(data []any) (string, bool) {
		roleID := *data[0].(**string)
		if roleID == nil {
			return "", false
		}
		return *roleID, true
	})

	d.served(query.VariantGetRoles)
	return query.NewRolesResponse(q.Hash, query.RolesView{RoleIDs: roles})
}

const getRolePermissionsSQL = `
%s,
t AS (SELECT permission FROM role_has_permissions WHERE role_id = $1)
SELECT permission, perm FROM t
RIGHT OUTER JOIN has_perms ON TRUE
`

func (d *Dispatcher) getRolePermissions(ctx context.Context, q query.Query) *query.Response {
	sql := fmt.Sprintf(getRolePermissionsSQL, authz.Single(permission.GetRoles, "$2"))

	rows, err := rowset.Decode(ctx, d.Pool, sql, func() []any {
		return []any{new(*string), new(bool)}
	}, 1, 1, q.RoleID, q.Creator.String())
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetRolePermissions, err)
	}

	perm := rowset.PermOf(rows, 1)
	if !rowset.AnyTrue(perm) {
		return d.notEnoughPermissions(q.Hash, query.VariantGetRolePermissions, permission.GetRoles)
	}

	bitstrings := rowset.WithoutNulls(rows, func(data []any) (string, bool) {
		bs := *data[0].(**string)
		if bs == nil {
			return "", false
		}
		return *bs, true
	})

	if len(bitstrings) == 0 {
		return d.logAndReturnError(q.Hash, query.VariantGetRolePermissions, query.CodeNotFound,
			"no role with such name: "+q.RoleID)
	}

	d.served(query.VariantGetRolePermissions)
	return query.NewRolePermissionsResponse(q.Hash, query.RolePermissionsView{Bitstring: bitstrings[0]})
}
