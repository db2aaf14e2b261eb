package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewErrorResponse_SetsCodeAndEchoesHash(t *testing.T) {
	resp := NewErrorResponse(Hash("abc"), CodeForbidden, "missing GetMyAccount")
	assert.Equal(t, Hash("abc"), resp.Hash)
	assert.Nil(t, resp.Account)
	assert.Equal(t, CodeForbidden, resp.Error.Code)
	assert.Equal(t, "missing GetMyAccount", resp.Error.Error())
}

func TestNewAccountResponse_EchoesHashAndSetsPayload(t *testing.T) {
	resp := NewAccountResponse(Hash("h1"), AccountView{AccountID: "alice@test", Quorum: 1})
	assert.Equal(t, Hash("h1"), resp.Hash)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "alice@test", resp.Account.AccountID)
}
