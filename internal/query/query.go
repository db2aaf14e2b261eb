// Package query defines the closed tagged-union Query and Response
// types that flow across the dispatcher boundary (spec §6), plus the
// error taxonomy of §7. Every query carries the creator's account id and
// an opaque query hash; every response echoes that hash back.
package query

import (
	"github.com/veyra-ledger/ledgerd/internal/blockjoin"
	"github.com/veyra-ledger/ledgerd/internal/ledgerid"
)

// Hash is the opaque query identity echoed back on every response.
type Hash []byte

// PaginationMeta is the optional cursor/pageSize pair accepted by
// paginated variants.
type PaginationMeta struct {
	FirstCursor *string
	PageSize    uint32
}

// Variant names one of the 13 query kinds, used for logging and metrics
// labels without leaking the whole payload type.
type Variant string

const (
	VariantGetAccount                  Variant = "GetAccount"
	VariantGetBlock                    Variant = "GetBlock"
	VariantGetSignatories              Variant = "GetSignatories"
	VariantGetAccountTransactions      Variant = "GetAccountTransactions"
	VariantGetTransactions             Variant = "GetTransactions"
	VariantGetAccountAssetTransactions Variant = "GetAccountAssetTransactions"
	VariantGetAccountAssets            Variant = "GetAccountAssets"
	VariantGetAccountDetail            Variant = "GetAccountDetail"
	VariantGetRoles                    Variant = "GetRoles"
	VariantGetRolePermissions          Variant = "GetRolePermissions"
	VariantGetAssetInfo                Variant = "GetAssetInfo"
	VariantGetPeers                    Variant = "GetPeers"
	VariantGetPendingTransactions      Variant = "GetPendingTransactions"
)

// Scope selects which of the individual/global/domain permission triple
// a query is exercising, for variants offering "my/all/domain" forms.
type Scope int

const (
	ScopeMine Scope = iota
	ScopeAll
	ScopeDomain
)

// Query is the closed request sum type. Exactly one of the payload
// fields is meaningful, selected by Variant — mirroring the source
// executor's visitor-over-a-variant type, expressed here as a single
// struct rather than an interface hierarchy since the dispatcher is the
// only consumer and a type switch over ~13 struct-pointer cases would
// add no clarity over a discriminated struct.
type Query struct {
	Variant Variant
	Creator ledgerid.AccountID
	Hash    Hash

	// GetAccount, GetSignatories, GetAccountTransactions,
	// GetAccountAssetTransactions, GetAccountAssets, GetAccountDetail
	Target ledgerid.AccountID
	Scope  Scope

	// GetBlock
	Height uint64

	// GetAccountAssetTransactions, GetAccountAssets
	AssetID string

	// GetAccountDetail
	Writer *string
	Key    *string

	// GetTransactions
	Hashes []blockjoin.TransactionHash

	// GetRolePermissions
	RoleID string

	// GetAssetInfo
	AssetInfoID string

	// GetAccountTransactions, GetAccountAssetTransactions,
	// GetAccountAssets, GetAccountDetail, GetPendingTransactions
	Pagination *PaginationMeta
}

// ErrorCode is the dispatcher error taxonomy of spec §7.
type ErrorCode int

const (
	// CodeNotFound covers NoAccount/NoSignatories/NoAccountDetail/
	// NoRoles/NoAsset — a domain object legitimately absent.
	CodeNotFound ErrorCode = 0
	CodeInternal ErrorCode = 1
	CodeForbidden ErrorCode = 2
	CodeBadRange  ErrorCode = 3
	CodeBadCursor ErrorCode = 4
	CodeNoAccount ErrorCode = 5
	CodeNoAsset   ErrorCode = 6
)

// QueryError is a domain error carrying its dispatcher error code and a
// human-readable message, the payload of Response.Error.
type QueryError struct {
	Code    ErrorCode
	Message string
}

func (e *QueryError) Error() string { return e.Message }
