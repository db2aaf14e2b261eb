package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePermissionSet_HasRoot(t *testing.T) {
	s := New(Root)
	assert.True(t, s.Has(Root))
	assert.True(t, s.Has(GetAllAccounts), "root implies every permission")
	assert.True(t, s.Has(GetPeers))
}

func TestRolePermissionSet_HasSpecific(t *testing.T) {
	s := New(GetMyAccount)
	assert.True(t, s.Has(GetMyAccount))
	assert.False(t, s.Has(GetAllAccounts))
	assert.False(t, s.Has(Root))
}

func TestRolePermissionSet_BitstringRoundTrip(t *testing.T) {
	s := New(GetMyAccount, GetPeers)
	back := FromBitstring(s.Bitstring())
	assert.True(t, back.Has(GetMyAccount))
	assert.True(t, back.Has(GetPeers))
	assert.False(t, back.Has(GetAllAccounts))
}

func TestRolePermissionSet_Literal(t *testing.T) {
	s := New(Root)
	lit := s.Literal()
	assert.Contains(t, lit, "::bit(")
	assert.True(t, len(lit) > len("::bit()"))
}

func TestPermissionString(t *testing.T) {
	assert.Equal(t, "can_get_peers", GetPeers.String())
	assert.Equal(t, "unknown_permission", Permission(9999).String())
}

func TestBitsIsStableWidth(t *testing.T) {
	assert.Equal(t, Bits(), len(New().Bitstring()))
}
