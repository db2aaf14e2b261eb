package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veyra-ledger/ledgerd/internal/ledgerid"
	"github.com/veyra-ledger/ledgerd/internal/permission"
)

func mustID(t *testing.T, s string) ledgerid.AccountID {
	t.Helper()
	id, err := ledgerid.Parse(s)
	require.NoError(t, err)
	return id
}

func TestComposite_ContainsFourWayDisjunction(t *testing.T) {
	alice := mustID(t, "alice@test")
	bob := mustID(t, "bob@test")

	frag := Composite(alice, bob, permission.GetMyAccount, permission.GetAllAccounts, permission.GetDomainAccounts)

	assert.Contains(t, frag, "'alice@test'")
	assert.Contains(t, frag, "'bob@test'")
	assert.Contains(t, frag, "has_perms")
	assert.Contains(t, frag, "AS perm")
}

func TestComposite_SameDomainEmbedsTrue(t *testing.T) {
	alice := mustID(t, "alice@test")
	alice2 := mustID(t, "alice2@test")
	frag := Composite(alice, alice2, permission.GetMyAccount, permission.GetAllAccounts, permission.GetDomainAccounts)
	assert.Contains(t, frag, "true AND")
}

func TestComposite_CrossDomainEmbedsFalse(t *testing.T) {
	alice := mustID(t, "alice@test")
	bob := mustID(t, "bob@other")
	frag := Composite(alice, bob, permission.GetMyAccount, permission.GetAllAccounts, permission.GetDomainAccounts)
	assert.Contains(t, frag, "false AND")
}

func TestSingle_UsesBindParameter(t *testing.T) {
	frag := Single(permission.GetPeers, "$1")
	assert.Contains(t, frag, "ar.account_id = $1")
}

func TestDual_ProducesTwoNamedCTEs(t *testing.T) {
	alice := mustID(t, "alice@test")
	frag := Dual(alice, permission.GetMyTxs, permission.GetAllTxs)
	assert.Contains(t, frag, "has_my_perm")
	assert.Contains(t, frag, "has_all_perm")
}
