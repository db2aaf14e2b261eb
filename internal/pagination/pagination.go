// Package pagination holds the "seek + one lookahead" pattern used by
// transaction-list and account-asset pagination: fetch pageSize+1 items
// ordered by a stable key, and if the extra item exists, its cursor
// becomes nextCursor and it is dropped from the page. Account-detail
// pagination does not go through Stitch; it computes its page window
// and next record in SQL.
package pagination

import "errors"

// ErrBadCursor is returned when a requested cursor does not resolve to
// any item in the underlying data set (unknown tx hash, asset id, or
// account-detail record). The dispatcher does not use it; it reports
// the same condition as error code 4 through its own checks.
var ErrBadCursor = errors.New("pagination: cursor does not resolve")

// Page holds a stitched page: Items are the pageSize (or fewer) items
// to return, and Next is the cursor of the first excluded item, present
// only if there was one.
type Page[T any] struct {
	Items []T
	Next  *string
}

// Stitch implements the shared lookahead pattern. items must already be
// the pageSize+1 rows (or fewer) returned by the seek query, in stable
// order. cursorOf extracts the opaque cursor string for an item.
//
// Invariants enforced (spec §3, §4.4):
//   - len(Items) <= pageSize
//   - Next is present iff len(items) == pageSize+1
func Stitch[T any](items []T, pageSize uint32, cursorOf func(T) string) Page[T] {
	if uint32(len(items)) <= pageSize {
		return Page[T]{Items: items}
	}
	// items has exactly pageSize+1 entries: the last one only exists to
	// supply the next cursor and must not appear in the page itself.
	next := cursorOf(items[pageSize])
	return Page[T]{Items: items[:pageSize], Next: &next}
}

// ValidateCursorResolution reports ErrBadCursor when a cursor was
// supplied but the seek query produced zero rows — a cursor that
// resolves to no position in the underlying ordering is invalid,
// distinct from "cursor omitted and data set legitimately empty".
func ValidateCursorResolution(cursorSupplied bool, resolved bool) error {
	if cursorSupplied && !resolved {
		return ErrBadCursor
	}
	return nil
}

// EmptyPageIsError reports whether an empty page combined with a
// supplied cursor should be treated as an error (spec §4.4: "An empty
// page with a cursor is always an error"). An empty page with no
// cursor against an existing target is a legitimate empty success.
func EmptyPageIsError(itemCount int, cursorSupplied bool) bool {
	return itemCount == 0 && cursorSupplied
}
