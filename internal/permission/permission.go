// Package permission implements the role-permission bitstring encoding
// used throughout the query executor. A RolePermissionSet is a
// fixed-width bitstring, one bit per Permission enumerator; the bit
// index to enumerator mapping is a versioned wire contract (see
// allPermissions below) because SQL role rows store the bitstring
// literally.
package permission

import (
	"strconv"
	"strings"
)

// Permission enumerates the read-side (query) role capabilities. This
// is a closed set: adding a member is a wire-format change and must
// append to allPermissions, never reorder it.
type Permission int

const (
	// Root grants every permission unconditionally. It is always
	// checked alongside the specific permission being evaluated.
	Root Permission = iota

	GetMyAccount
	GetAllAccounts
	GetDomainAccounts

	GetBlocks

	GetMySignatories
	GetAllSignatories
	GetDomainSignatories

	GetMyAccTxs
	GetAllAccTxs
	GetDomainAccTxs

	GetMyTxs
	GetAllTxs

	GetMyAccAstTxs
	GetAllAccAstTxs
	GetDomainAccAstTxs

	GetMyAccAst
	GetAllAccAst
	GetDomainAccAst

	GetMyAccDetail
	GetAllAccDetail
	GetDomainAccDetail

	GetRoles

	ReadAssets

	GetPeers
)

// allPermissions is the bit index ↔ enumerator table. Position in this
// slice IS the bit index; this ordering must never change once
// deployed, since existing rows encode it.
var allPermissions = []Permission{
	Root,
	GetMyAccount, GetAllAccounts, GetDomainAccounts,
	GetBlocks,
	GetMySignatories, GetAllSignatories, GetDomainSignatories,
	GetMyAccTxs, GetAllAccTxs, GetDomainAccTxs,
	GetMyTxs, GetAllTxs,
	GetMyAccAstTxs, GetAllAccAstTxs, GetDomainAccAstTxs,
	GetMyAccAst, GetAllAccAst, GetDomainAccAst,
	GetMyAccDetail, GetAllAccDetail, GetDomainAccDetail,
	GetRoles,
	ReadAssets,
	GetPeers,
}

var permNames = map[Permission]string{
	Root:                  "can_grant_root",
	GetMyAccount:          "can_get_my_account",
	GetAllAccounts:        "can_get_all_accounts",
	GetDomainAccounts:     "can_get_domain_accounts",
	GetBlocks:             "can_get_blocks",
	GetMySignatories:      "can_get_my_signatories",
	GetAllSignatories:     "can_get_all_signatories",
	GetDomainSignatories:  "can_get_domain_signatories",
	GetMyAccTxs:           "can_get_my_acc_txs",
	GetAllAccTxs:          "can_get_all_acc_txs",
	GetDomainAccTxs:       "can_get_domain_acc_txs",
	GetMyTxs:              "can_get_my_txs",
	GetAllTxs:             "can_get_all_txs",
	GetMyAccAstTxs:        "can_get_my_acc_ast_txs",
	GetAllAccAstTxs:       "can_get_all_acc_ast_txs",
	GetDomainAccAstTxs:    "can_get_domain_acc_ast_txs",
	GetMyAccAst:           "can_get_my_acc_ast",
	GetAllAccAst:          "can_get_all_acc_ast",
	GetDomainAccAst:       "can_get_domain_acc_ast",
	GetMyAccDetail:        "can_get_my_acc_detail",
	GetAllAccDetail:       "can_get_all_acc_detail",
	GetDomainAccDetail:    "can_get_domain_acc_detail",
	GetRoles:              "can_get_roles",
	ReadAssets:            "can_read_assets",
	GetPeers:              "can_get_peers",
}

// String returns the human-readable name used in "not enough
// permissions" error messages. This is the PermissionConverter
// contract from the spec's external interfaces (§6).
func (p Permission) String() string {
	if s, ok := permNames[p]; ok {
		return s
	}
	return "unknown_permission"
}

// Bits is the fixed width of every RolePermissionSet: one bit per
// enumerator in allPermissions.
func Bits() int { return len(allPermissions) }

func bitIndex(p Permission) int {
	for i, q := range allPermissions {
		if p == q {
			return i
		}
	}
	return -1
}

// RolePermissionSet is a fixed-width bitstring over Permission, stored
// as a string of '0'/'1' characters so it can be embedded directly as a
// Postgres bit(W) literal.
type RolePermissionSet struct {
	bits []byte // index 0 = allPermissions[0], etc; each byte is '0' or '1'
}

// New builds a RolePermissionSet with the given permissions set.
func New(perms ...Permission) RolePermissionSet {
	s := RolePermissionSet{bits: make([]byte, Bits())}
	for i := range s.bits {
		s.bits[i] = '0'
	}
	for _, p := range perms {
		if i := bitIndex(p); i >= 0 {
			s.bits[i] = '1'
		}
	}
	return s
}

// FromBitstring parses a stored bit(W) literal (without the
// "::bit(W)" suffix) back into a RolePermissionSet.
func FromBitstring(s string) RolePermissionSet {
	bits := make([]byte, Bits())
	for i := range bits {
		bits[i] = '0'
	}
	for i := 0; i < len(s) && i < len(bits); i++ {
		if s[i] == '1' {
			bits[i] = '1'
		}
	}
	return RolePermissionSet{bits: bits}
}

// Bitstring returns the raw '0'/'1' literal, width Bits().
func (s RolePermissionSet) Bitstring() string {
	return string(s.bits)
}

// Literal returns the fully quoted Postgres bit(W) literal, e.g.
// "'0101...'::bit(25)", ready for interpolation into a SQL fragment.
func (s RolePermissionSet) Literal() string {
	var b strings.Builder
	b.WriteByte('\'')
	b.Write(s.bits)
	b.WriteString("'::bit(")
	b.WriteString(strconv.Itoa(Bits()))
	b.WriteByte(')')
	return b.String()
}

// Has reports whether p is set, masked against Root (root always
// implies every permission — matches has_role_permission's
// `& (bitstring(P) | bitstring(ROOT))` mask in the predicate builder).
func (s RolePermissionSet) Has(p Permission) bool {
	if i := bitIndex(Root); i >= 0 && i < len(s.bits) && s.bits[i] == '1' {
		return true
	}
	i := bitIndex(p)
	return i >= 0 && i < len(s.bits) && s.bits[i] == '1'
}
