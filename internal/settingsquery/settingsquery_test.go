package settingsquery

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuerier is a minimal Querier stand-in: real integration coverage
// against Postgres lives outside this repo (spec §1 non-goal), so unit
// tests here only exercise the defaulting/parsing logic around a single
// scripted row.
type fakeQuerier struct {
	values map[string]string
}

type fakeRow struct {
	value string
	found bool
}

func (r fakeRow) Scan(dest ...any) error {
	if !r.found {
		return pgx.ErrNoRows
	}
	ptr, ok := dest[0].(*string)
	if !ok {
		return errors.New("fakeRow: unsupported dest")
	}
	*ptr = r.value
	return nil
}

func (f fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	key, _ := args[0].(string)
	v, ok := f.values[key]
	return fakeRow{value: v, found: ok}
}

func TestGetSettingValue_Found(t *testing.T) {
	q := fakeQuerier{values: map[string]string{"max_page_size": "50"}}
	v, ok, err := GetSettingValue(context.Background(), q, "max_page_size")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "50", v)
}

func TestGetSettingValue_AbsentIsSilent(t *testing.T) {
	q := fakeQuerier{values: map[string]string{}}
	v, ok, err := GetSettingValue(context.Background(), q, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestLoadTyped_UsesParsedValue(t *testing.T) {
	q := fakeQuerier{values: map[string]string{
		"max_description_size": "128",
		"max_page_size":        "10",
	}}
	typed := LoadTyped(context.Background(), q)
	assert.Equal(t, uint32(128), typed.MaxDescriptionSize)
	assert.Equal(t, uint32(10), typed.MaxPageSize)
}

func TestLoadTyped_FallsBackOnAbsence(t *testing.T) {
	q := fakeQuerier{values: map[string]string{}}
	typed := LoadTyped(context.Background(), q)
	assert.Equal(t, uint32(MaxDescriptionSize), typed.MaxDescriptionSize)
	assert.Equal(t, uint32(DefaultMaxPageSize), typed.MaxPageSize)
}

func TestLoadTyped_FallsBackOnParseFailure(t *testing.T) {
	q := fakeQuerier{values: map[string]string{"max_page_size": "not-a-number"}}
	typed := LoadTyped(context.Background(), q)
	assert.Equal(t, uint32(DefaultMaxPageSize), typed.MaxPageSize)
}

func TestCache_LoadsOnceThenReuses(t *testing.T) {
	calls := 0
	q := countingQuerier{fakeQuerier: fakeQuerier{values: map[string]string{"max_page_size": "20"}}, calls: &calls}

	c, err := NewCache(4)
	require.NoError(t, err)

	first := c.Get(context.Background(), q, "gen-1")
	second := c.Get(context.Background(), q, "gen-1")
	assert.Equal(t, first, second)
	afterFirstLoad := calls
	assert.Positive(t, afterFirstLoad)

	c.Invalidate("gen-1")
	_ = c.Get(context.Background(), q, "gen-1")
	assert.Equal(t, 2*afterFirstLoad, calls)
}

type countingQuerier struct {
	fakeQuerier
	calls *int
}

func (c countingQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	*c.calls++
	return c.fakeQuerier.QueryRow(ctx, sql, args...)
}
