// Package authz builds the SQL fragments that fuse individual,
// domain-wide, global, and root role permissions into the single
// boolean "perm" column every dispatcher query joins against.
//
// Every fragment is produced by string templating rather than bound
// parameters, because a bit(W) literal and an account id used as a
// join key cannot be passed as ordinary placeholders in the surrounding
// WITH clause. This is safe only because every substitution is either a
// literal permission bitstring or an AccountID that has already passed
// ledgerid.Parse's grammar check — callers MUST NOT bypass that check.
package authz

import (
	"fmt"

	"github.com/veyra-ledger/ledgerd/internal/ledgerid"
	"github.com/veyra-ledger/ledgerd/internal/permission"
)

// rolePermissionCheckSQL returns a scalar boolean subquery testing
// whether accountIDExpr holds p (or Root). accountIDExpr may be a
// quoted string literal or a bind placeholder — both are valid SQL
// expressions in this position.
func rolePermissionCheckSQL(p permission.Permission, accountIDExpr string) string {
	permBits := permission.New(p).Bitstring()
	rootBits := permission.New(permission.Root).Bitstring()
	return fmt.Sprintf(`(
    SELECT (
      COALESCE(bit_or(rp.permission), '0'::bit(%[1]d))
      & ('%[2]s'::bit(%[1]d) | '%[3]s'::bit(%[1]d))
    ) != '0'::bit(%[1]d)
    FROM role_has_permissions AS rp
    JOIN account_has_roles AS ar ON ar.role_id = rp.role_id
    WHERE ar.account_id = %[4]s
  )`, permission.Bits(), permBits, rootBits, accountIDExpr)
}

// Single builds the "WITH has_perms AS (...)" fragment for queries not
// scoped to a target account (list roles, get asset info, list peers,
// get role permissions): ROOT ∨ p, evaluated against the caller-supplied
// positional bind parameter placeholder (e.g. "$1").
func Single(p permission.Permission, bindParam string) string {
	return fmt.Sprintf(`WITH has_perms AS (
    SELECT %s AS perm
  )`, rolePermissionCheckSQL(p, bindParam))
}

// SingleFor is like Single but embeds a literal creator id instead of a
// bind parameter, for callers that already hold a validated AccountID
// and do not want to thread another bind parameter through.
func SingleFor(p permission.Permission, creator ledgerid.AccountID) string {
	return fmt.Sprintf(`WITH has_perms AS (
    SELECT %s AS perm
  )`, rolePermissionCheckSQL(p, quote(creator.String())))
}

// Composite builds the "WITH has_perms AS (...)" fragment implementing
// the four-way disjunction from the spec's authorization predicate:
//
//	root(C) OR (C = T AND indiv(C)) OR global(C) OR (domain(C) = domain(T) AND domain_perm(C))
//
// creator and target must already be validated AccountIDs; domain(·) is
// computed here in Go, not in SQL, because the schema stores only the
// full account id.
func Composite(creator, target ledgerid.AccountID, indiv, global, domain permission.Permission) string {
	creatorLit := quote(creator.String())
	targetLit := quote(target.String())
	sameDomain := creator.SameDomain(target)

	return fmt.Sprintf(`WITH has_perms AS (
    SELECT
      %s
      OR (%s = %s AND %s)
      OR %s
      OR (%t AND %s)
      AS perm
  )`,
		rolePermissionCheckSQL(permission.Root, creatorLit),
		creatorLit, targetLit, rolePermissionCheckSQL(indiv, creatorLit),
		rolePermissionCheckSQL(global, creatorLit),
		sameDomain, rolePermissionCheckSQL(domain, creatorLit),
	)
}

// Dual builds a has-permission fragment carrying two independent
// permission columns for the creator, used only by GetTransactions
// (which needs "my" and "all" checked separately, since the filter
// applied to each transaction depends on which one holds).
func Dual(creator ledgerid.AccountID, myPerm, allPerm permission.Permission) string {
	creatorLit := quote(creator.String())
	return fmt.Sprintf(`WITH has_my_perm AS (
    SELECT %s AS perm
  ),
  has_all_perm AS (
    SELECT %s AS perm
  )`,
		rolePermissionCheckSQL(myPerm, creatorLit),
		rolePermissionCheckSQL(allPerm, creatorLit),
	)
}

func quote(s string) string {
	return "'" + s + "'"
}
