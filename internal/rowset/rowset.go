// Package rowset decodes the heterogeneous rows produced by a dispatcher
// query: a run of nullable data columns (nullable because of the RIGHT
// OUTER JOIN against the permission CTE) followed by one or more
// non-nullable permission columns.
package rowset

import (
	"context"
	"reflect"

	"github.com/jackc/pgx/v5"
)

// Row is one decoded database row: Data holds the scanned data-column
// pointers (nil entries mean "absent" for that row) and Perm holds the
// always-present permission columns.
type Row struct {
	Data []any
	Perm []bool
}

// Decode runs query with args over conn, scanning the first
// dataColumns positional destinations as nullable and the remaining
// permColumns as bool. destFactory must return a fresh slice of
// pointer destinations (data pointers first, then *bool for each
// permission column) on every call, matching pgx.Rows.Scan semantics.
func Decode(ctx context.Context, conn Querier, sql string, destFactory func() []any, dataColumns, permColumns int, args ...any) ([]Row, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		dest := destFactory()
		if len(dest) != dataColumns+permColumns {
			panic("rowset: destFactory length mismatch")
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		data := make([]any, dataColumns)
		for i := 0; i < dataColumns; i++ {
			data[i] = dest[i]
		}
		perm := make([]bool, permColumns)
		for i := 0; i < permColumns; i++ {
			b := dest[dataColumns+i].(*bool)
			perm[i] = *b
		}
		out = append(out, Row{Data: data, Perm: perm})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Querier is the subset of *pgxpool.Pool / pgx.Conn this package needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PermOf returns the permission tuple from the first row, or all-false
// if rs is empty (which cannot happen in practice: the RIGHT OUTER JOIN
// against the singleton permission CTE guarantees exactly one row even
// when the data CTE is empty).
func PermOf(rs []Row, permColumns int) []bool {
	if len(rs) == 0 {
		return make([]bool, permColumns)
	}
	return rs[0].Perm
}

// AnyTrue reports whether at least one permission column is true.
func AnyTrue(perm []bool) bool {
	for _, b := range perm {
		if b {
			return true
		}
	}
	return false
}

// WithoutNulls filters rs to rows whose data pointers are all non-nil,
// then applies decode to each surviving row to produce a T. Rows
// produced solely to carry the permission columns (empty data CTE) are
// dropped here, matching resultWithoutNulls in the source executor.
func WithoutNulls[T any](rs []Row, decode func(data []any) (T, bool)) []T {
	out := make([]T, 0, len(rs))
	for _, r := range rs {
		allPresent := true
		for _, d := range r.Data {
			if isNilPtr(d) {
				allPresent = false
				break
			}
		}
		if !allPresent {
			continue
		}
		v, ok := decode(r.Data)
		if ok {
			out = append(out, v)
		}
	}
	return out
}

// isNilPtr reports whether v represents a NULL data column. Every data
// destination passed through destFactory is a pointer-to-pointer
// (**string, **int64, ...) so pgx can distinguish NULL from a present
// zero value; the outer pointer (the scan destination itself) is never
// nil, so NULL-ness is carried by the inner pointer being nil.
func isNilPtr(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr {
		return false
	}
	if rv.IsNil() {
		return true
	}
	inner := rv.Elem()
	return inner.Kind() == reflect.Ptr && inner.IsNil()
}
