// Package grants defines the domain types for runtime grant requests:
// the resolved Grant, the one-shot PendingRequest shared by every caller
// waiting on the same key, and the prompt batch and result event exchanged
// with the host.
package grants

import (
	"fmt"
	"strings"
)

// KeySeparator joins the keys of a combined Grant.
const KeySeparator = ","

// Grant is the resolved decision for one grant key.
// It is a value object: two Grants are equal iff all fields match.
type Grant struct {
	Key                 string
	Authorized          bool
	CanExplainRationale bool
}

// New creates a Grant.
func New(key string, authorized, canExplainRationale bool) Grant {
	return Grant{
		Key:                 key,
		Authorized:          authorized,
		CanExplainRationale: canExplainRationale,
	}
}

// Equals checks if two grants are equal (value object equality).
func (g Grant) Equals(other Grant) bool {
	return g.Key == other.Key &&
		g.Authorized == other.Authorized &&
		g.CanExplainRationale == other.CanExplainRationale
}

// String returns a human-readable representation of the grant.
func (g Grant) String() string {
	return fmt.Sprintf("Grant{key=%q, authorized=%t, canExplainRationale=%t}",
		g.Key, g.Authorized, g.CanExplainRationale)
}

// Combine merges an ordered list of grants into one.
// The key is the comma-joined keys in order, Authorized is the AND of all
// grants and CanExplainRationale is the OR. An empty list yields an
// unauthorized zero Grant.
func Combine(list []Grant) Grant {
	if len(list) == 0 {
		return Grant{}
	}

	keys := make([]string, len(list))
	rationale := false
	for i, g := range list {
		keys[i] = g.Key
		if g.CanExplainRationale {
			rationale = true
		}
	}

	return Grant{
		Key:                 strings.Join(keys, KeySeparator),
		Authorized:          AllAuthorized(list),
		CanExplainRationale: rationale,
	}
}

// AllAuthorized reports whether every grant in the list is authorized.
// It stops at the first unauthorized grant. An empty list is never authorized.
func AllAuthorized(list []Grant) bool {
	if len(list) == 0 {
		return false
	}
	for _, g := range list {
		if !g.Authorized {
			return false
		}
	}
	return true
}
