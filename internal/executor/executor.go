// Package executor implements the query dispatcher (spec §4.6): the
// visitor over the closed Query sum type. Each variant builds its own
// SQL from the authz and rowset packages, applies the shared permission
// gate, and assembles a typed Response.
package executor

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/veyra-ledger/ledgerd/internal/blockjoin"
	"github.com/veyra-ledger/ledgerd/internal/mempool"
	"github.com/veyra-ledger/ledgerd/internal/metrics"
	"github.com/veyra-ledger/ledgerd/internal/permission"
	"github.com/veyra-ledger/ledgerd/internal/query"
	"github.com/veyra-ledger/ledgerd/internal/settingsquery"
)

// Dispatcher holds every external collaborator a query might need: a
// database pool, block storage, the pending-transaction mempool, and
// the settings cache. Spec §5 forbids sharing a single database session
// across concurrent queries; a pool is what lets each query check out
// its own connection.
type Dispatcher struct {
	Pool     *pgxpool.Pool
	Blocks   blockjoin.BlockStore
	Mempool  mempool.Mempool
	Settings *settingsquery.Cache
	Log      *zap.SugaredLogger
}

// New builds a Dispatcher over its external collaborators.
func New(pool *pgxpool.Pool, blocks blockjoin.BlockStore, mp mempool.Mempool, settings *settingsquery.Cache, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{Pool: pool, Blocks: blocks, Mempool: mp, Settings: settings, Log: log}
}

// Execute is the visitor entry point: it dispatches on q.Variant and
// returns exactly one Response, error or success, never propagating a
// Go error to the caller (spec §7's propagation policy).
func (d *Dispatcher) Execute(ctx context.Context, q query.Query) *query.Response {
	switch q.Variant {
	case query.VariantGetAccount:
		return d.getAccount(ctx, q)
	case query.VariantGetBlock:
		return d.getBlock(ctx, q)
	case query.VariantGetSignatories:
		return d.getSignatories(ctx, q)
	case query.VariantGetAccountTransactions:
		return d.getAccountTransactions(ctx, q)
	case query.VariantGetTransactions:
		return d.getTransactions(ctx, q)
	case query.VariantGetAccountAssetTransactions:
		return d.getAccountAssetTransactions(ctx, q)
	case query.VariantGetAccountAssets:
		return d.getAccountAssets(ctx, q)
	case query.VariantGetAccountDetail:
		return d.getAccountDetail(ctx, q)
	case query.VariantGetRoles:
		return d.getRoles(ctx, q)
	case query.VariantGetRolePermissions:
		return d.getRolePermissions(ctx, q)
	case query.VariantGetAssetInfo:
		return d.getAssetInfo(ctx, q)
	case query.VariantGetPeers:
		return d.getPeers(ctx, q)
	case query.VariantGetPendingTransactions:
		return d.getPendingTransactions(ctx, q)
	default:
		return d.internalError(q.Hash, query.VariantGetAccount, fmt.Errorf("executor: unknown query variant %q", q.Variant))
	}
}

// logAndReturnError logs err through the dispatcher logger, increments
// the error metric, and returns the corresponding error response —
// mirroring logAndReturnErrorResponse in the source executor.
func (d *Dispatcher) logAndReturnError(hash query.Hash, variant query.Variant, code query.ErrorCode, message string) *query.Response {
	if d.Log != nil {
		d.Log.Errorw("query failed", "variant", variant, "code", code, "hash", fmt.Sprintf("%x", []byte(hash)), "message", message)
	}
	metrics.Errored.WithLabelValues(string(variant), fmt.Sprint(int(code))).Inc()
	return query.NewErrorResponse(hash, code, message)
}

func (d *Dispatcher) internalError(hash query.Hash, variant query.Variant, err error) *query.Response {
	return d.logAndReturnError(hash, variant, query.CodeInternal, err.Error())
}

// notEnoughPermissions builds the code-2 "forbidden" response, listing
// the human-readable names of every permission that would have
// satisfied the check.
func (d *Dispatcher) notEnoughPermissions(hash query.Hash, variant query.Variant, perms ...permission.Permission) *query.Response {
	msg := "user must have at least one of the permissions: "
	for i, p := range perms {
		if i > 0 {
			msg += ", "
		}
		msg += p.String()
	}
	metrics.Denied.WithLabelValues(string(variant)).Inc()
	if d.Log != nil {
		d.Log.Infow("query denied", "variant", variant, "message", msg)
	}
	return query.NewErrorResponse(hash, query.CodeForbidden, msg)
}

func (d *Dispatcher) served(variant query.Variant) {
	metrics.Served.WithLabelValues(string(variant)).Inc()
}

// clampPageSize applies the "global" MaxPageSize setting (spec §4.7) to
// a caller-requested page size: zero falls back to the default 10,
// anything past the cached MaxPageSize is capped rather than rejected,
// matching the source's "settings parsing silently falls back to
// default" posture.
func (d *Dispatcher) clampPageSize(ctx context.Context, requested uint32) uint32 {
	if requested == 0 {
		requested = 10
	}
	if d.Settings == nil {
		return requested
	}
	settings := d.Settings.Get(ctx, d.Pool, "global")
	if settings.MaxPageSize > 0 && requested > settings.MaxPageSize {
		return settings.MaxPageSize
	}
	return requested
}
