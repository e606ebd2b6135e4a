package policy

import "strings"

// Decision represents the outcome of a permission evaluation.
type Decision struct {
	Allowed bool
	Reason  string
}

// Decision reasons, fixed so clients and audit consumers can rely on them.
const (
	ReasonDenylist     = "user is on the denylist"
	ReasonAllowlist    = "user is on the allowlist"
	ReasonDefaultAllow = "default policy: allow"
	ReasonDefaultDeny  = "default policy: deny (allowlist-only)"
)

// Decide evaluates a raw user identifier against the policy. First match
// wins: denylist, then allowlist, then the default policy. The denylist
// is checked first so a user present in both lists is always denied.
//
// Decide is pure: no I/O, no mutation. Both delivery surfaces call it
// with identical semantics.
func Decide(rawID string, p Policy) Decision {
	id := Normalize(rawID)

	for _, entry := range p.DeniedUsers {
		if matches(id, entry) {
			return Decision{Allowed: false, Reason: ReasonDenylist}
		}
	}

	for _, entry := range p.AllowedUsers {
		if matches(id, entry) {
			return Decision{Allowed: true, Reason: ReasonAllowlist}
		}
	}

	if p.DefaultPolicy == PolicyAllow {
		return Decision{Allowed: true, Reason: ReasonDefaultAllow}
	}
	return Decision{Allowed: false, Reason: ReasonDefaultDeny}
}

// matches implements bidirectional substring containment: a list entry
// matches if it contains the identity or the identity contains it.
// Empty identities and empty entries never match; an empty string is a
// substring of everything, which would turn a stray blank entry into a
// wildcard.
func matches(id, entry string) bool {
	if id == "" || entry == "" {
		return false
	}
	return strings.Contains(id, entry) || strings.Contains(entry, id)
}
