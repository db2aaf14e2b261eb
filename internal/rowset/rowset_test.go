package rowset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithoutNulls_DropsAllNilRows(t *testing.T) {
	name1 := "alice"
	rows := []Row{
		{Data: []any{&name1}, Perm: []bool{true}},
		{Data: []any{(*string)(nil)}, Perm: []bool{true}},
	}

	decoded := WithoutNulls(rows, func(data []any) (string, bool) {
		return *data[0].(*string), true
	})

	assert.Equal(t, []string{"alice"}, decoded)
}

func TestPermOf_EmptyFallsBackToFalse(t *testing.T) {
	assert.Equal(t, []bool{false, false}, PermOf(nil, 2))
}

func TestPermOf_ReadsFirstRow(t *testing.T) {
	rows := []Row{{Perm: []bool{true, false}}, {Perm: []bool{false, false}}}
	assert.Equal(t, []bool{true, false}, PermOf(rows, 2))
}

func TestAnyTrue(t *testing.T) {
	assert.True(t, AnyTrue([]bool{false, true}))
	assert.False(t, AnyTrue([]bool{false, false}))
	assert.False(t, AnyTrue(nil))
}
