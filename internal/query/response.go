package query

import "github.com/veyra-ledger/ledgerd/internal/blockjoin"

// AccountView is the GetAccount success payload.
type AccountView struct {
	AccountID string
	DomainID  string
	Quorum    uint32
	Detail    string // raw JSON
	Roles     []string
}

// BlockView is the GetBlock success payload.
type BlockView struct {
	Height       uint64
	Transactions []blockjoin.Transaction
}

// SignatoriesView is the GetSignatories success payload.
type SignatoriesView struct {
	PublicKeys [][]byte
}

// TransactionsPageView is the shared success payload shape for
// GetAccountTransactions, GetTransactions, and
// GetAccountAssetTransactions.
type TransactionsPageView struct {
	Transactions []blockjoin.Transaction
	TotalSize    uint64
	NextTxHash   *blockjoin.TransactionHash
}

// AssetAmount pairs an asset id with an account's balance of it.
type AssetAmount struct {
	AssetID string
	Amount  string // arbitrary-precision decimal, printed
}

// AccountAssetsView is the GetAccountAssets success payload.
type AccountAssetsView struct {
	Assets       []AssetAmount
	TotalSize    uint64
	NextAssetID  *string
}

// AccountDetailView is the GetAccountDetail success payload.
type AccountDetailView struct {
	JSON        string
	TotalNumber uint64
	NextWriter  *string
	NextKey     *string
}

// RolesView is the GetRoles success payload.
type RolesView struct {
	RoleIDs []string
}

// RolePermissionsView is the GetRolePermissions success payload.
type RolePermissionsView struct {
	Bitstring string
}

// AssetInfoView is the GetAssetInfo success payload.
type AssetInfoView struct {
	DomainID  string
	Precision uint32
}

// Peer is one entry of the GetPeers success payload.
type Peer struct {
	Address   string
	PublicKey []byte
}

// PeersView is the GetPeers success payload.
type PeersView struct {
	Peers []Peer
}

// PendingTransactionsView is the GetPendingTransactions success
// payload; NextTxHash/AllTransactionsSize are unset in the deprecated
// non-paginated form.
type PendingTransactionsView struct {
	Transactions        []blockjoin.Transaction
	AllTransactionsSize uint64
	NextTxHash          *blockjoin.TransactionHash
}

// Response is the closed response sum type (spec §6): exactly one of
// Error or the variant-specific view is set, and Hash always echoes the
// originating query's hash.
type Response struct {
	Hash  Hash
	Error *QueryError

	Account              *AccountView
	Block                *BlockView
	Signatories          *SignatoriesView
	TransactionsPage     *TransactionsPageView
	AccountAssets        *AccountAssetsView
	AccountDetail        *AccountDetailView
	Roles                *RolesView
	RolePermissions      *RolePermissionsView
	AssetInfo            *AssetInfoView
	Peers                *PeersView
	PendingTransactions  *PendingTransactionsView
}

// NewErrorResponse constructs an error response, the sole constructor
// every dispatcher failure path funnels through.
func NewErrorResponse(hash Hash, code ErrorCode, message string) *Response {
	return &Response{Hash: hash, Error: &QueryError{Code: code, Message: message}}
}

func NewAccountResponse(hash Hash, v AccountView) *Response {
	return &Response{Hash: hash, Account: &v}
}

func NewBlockResponse(hash Hash, v BlockView) *Response {
	return &Response{Hash: hash, Block: &v}
}

func NewSignatoriesResponse(hash Hash, v SignatoriesView) *Response {
	return &Response{Hash: hash, Signatories: &v}
}

func NewTransactionsPageResponse(hash Hash, v TransactionsPageView) *Response {
	return &Response{Hash: hash, TransactionsPage: &v}
}

func NewAccountAssetsResponse(hash Hash, v AccountAssetsView) *Response {
	return &Response{Hash: hash, AccountAssets: &v}
}

func NewAccountDetailResponse(hash Hash, v AccountDetailView) *Response {
	return &Response{Hash: hash, AccountDetail: &v}
}

func NewRolesResponse(hash Hash, v RolesView) *Response {
	return &Response{Hash: hash, Roles: &v}
}

func NewRolePermissionsResponse(hash Hash, v RolePermissionsView) *Response {
	return &Response{Hash: hash, RolePermissions: &v}
}

func NewAssetInfoResponse(hash Hash, v AssetInfoView) *Response {
	return &Response{Hash: hash, AssetInfo: &v}
}

func NewPeersResponse(hash Hash, v PeersView) *Response {
	return &Response{Hash: hash, Peers: &v}
}

func NewPendingTransactionsResponse(hash Hash, v PendingTransactionsView) *Response {
	return &Response{Hash: hash, PendingTransactions: &v}
}
