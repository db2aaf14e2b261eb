package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cursorOfInt(n int) string { return string(rune('A' + n)) }

func TestStitch_LastPageNoNextCursor(t *testing.T) {
	items := []int{1, 2, 3}
	page := Stitch(items, 5, cursorOfInt)
	assert.Equal(t, []int{1, 2, 3}, page.Items)
	assert.Nil(t, page.Next)
}

func TestStitch_MiddlePageHasNextCursor(t *testing.T) {
	// 10 candidate items, pageSize 3: seek query would return 4 (H4..H7).
	items := []int{4, 5, 6, 7}
	page := Stitch(items, 3, cursorOfInt)
	assert.Equal(t, []int{4, 5, 6}, page.Items)
	require := page.Next
	assert.NotNil(t, require)
	assert.Equal(t, cursorOfInt(7), *page.Next)
}

func TestStitch_ExactlyPageSizeNoNextCursor(t *testing.T) {
	items := []int{1}
	page := Stitch(items, 1, cursorOfInt)
	assert.Len(t, page.Items, 1)
	assert.Nil(t, page.Next)
}

func TestValidateCursorResolution(t *testing.T) {
	assert.ErrorIs(t, ValidateCursorResolution(true, false), ErrBadCursor)
	assert.NoError(t, ValidateCursorResolution(true, true))
	assert.NoError(t, ValidateCursorResolution(false, false))
}

func TestEmptyPageIsError(t *testing.T) {
	assert.True(t, EmptyPageIsError(0, true))
	assert.False(t, EmptyPageIsError(0, false))
	assert.False(t, EmptyPageIsError(2, true))
}
