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

const getPeersSQL = `
%s,
t AS (SELECT public_key, address FROM peer)
SELECT public_key, address, perm FROM t
RIGHT OUTER JOIN has_perms ON TRUE
`

func (d *Dispatcher) getPeers(ctx context.Context, q query.Query) *query.Response {
	sql := fmt.Sprintf(getPeersSQL, authz.Single(permission.GetPeers, "$1"))

	rows, err := rowset.Decode(ctx, d.Pool, sql, func() []any {
		return []any{new(*string), new(*string), new(bool)}
	}, 2, 1, q.Creator.String())
	if err != nil {
		return d.internalError(q.Hash, query.VariantGetPeers, err)
	}

	perm := rowset.PermOf(rows, 1)
	if !rowset.AnyTrue(perm) {
		return d.notEnoughPermissions(q.Hash, query.VariantGetPeers, permission.GetPeers)
	}

	peers := rowset.WithoutNulls(rows, func(data []any) (query.Peer, bool) {
		hexKey := *data[0].(**string)
		address := *data[1].(**string)
		if hexKey == nil || address == nil {
			return query.Peer{}, false
		}
		raw, err := hex.DecodeString(*hexKey)
		if err != nil {
			return query.Peer{}, false
		}
		return query.Peer{Address: *address, PublicKey: raw}, true
	})

	d.served(query.VariantGetPeers)
	return query.NewPeersResponse(q.Hash, query.PeersView{Peers: peers})
}
