package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPageSize_DefaultsWhenZero(t *testing.T) {
	d := &Dispatcher{}
	assert.Equal(t, uint32(10), d.clampPageSize(context.Background(), 0))
}

func TestClampPageSize_PassesThroughWithoutSettingsCache(t *testing.T) {
	d := &Dispatcher{}
	assert.Equal(t, uint32(500), d.clampPageSize(context.Background(), 500))
}
