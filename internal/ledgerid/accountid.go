// Package ledgerid provides the AccountId value type shared by every
// query variant and by the authorization predicate builder. An account
// id is always of the form "name@domain"; the domain segment is derived
// by splitting on "@", never stored separately.
package ledgerid

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// accountIDPattern is the hard non-functional requirement from the
// query executor spec: account ids are embedded as SQL literals by the
// authorization predicate builder, so they must be validated against
// this pattern before they ever reach a query string.
var accountIDPattern = regexp.MustCompile(`^[a-z0-9_]+@[a-z0-9_]+$`)

// ErrInvalidAccountID is returned by Parse when the input does not
// match the two-non-empty-segments account id grammar.
var ErrInvalidAccountID = errors.New("ledgerid: invalid account id")

// AccountID is a validated "name@domain" identifier. The zero value is
// not a valid AccountID; construct one with Parse.
type AccountID struct {
	raw string
}

// Parse validates s against the account id grammar and returns an
// AccountID. Every AccountID that reaches the authorization predicate
// builder or a SQL parameter must come from here.
func Parse(s string) (AccountID, error) {
	if !accountIDPattern.MatchString(s) {
		return AccountID{}, fmt.Errorf("%w: %q", ErrInvalidAccountID, s)
	}
	return AccountID{raw: s}, nil
}

// String returns the "name@domain" representation.
func (a AccountID) String() string { return a.raw }

// Domain returns the domain segment (the substring after the last "@").
func (a AccountID) Domain() string {
	i := strings.LastIndexByte(a.raw, '@')
	if i < 0 {
		return ""
	}
	return a.raw[i+1:]
}

// Name returns the account-name segment (the substring before the last "@").
func (a AccountID) Name() string {
	i := strings.LastIndexByte(a.raw, '@')
	if i < 0 {
		return a.raw
	}
	return a.raw[:i]
}

// SameDomain reports whether a and other belong to the same domain.
func (a AccountID) SameDomain(other AccountID) bool {
	return a.Domain() == other.Domain()
}

// IsZero reports whether a is the unconstructed zero value.
func (a AccountID) IsZero() bool { return a.raw == "" }
