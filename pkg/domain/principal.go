package domain

import "strings"

// Principal identifies the caller of an operation. The value is opaque to the
// ledger: it is stamped onto credits and audit records for accountability but
// never consulted for authorization, which is capability-based.
type Principal string

// AnonymousPrincipal is recorded when the execution context supplies no
// caller identity. Donations remain open to unidentified callers.
const AnonymousPrincipal Principal = "anonymous"

func (p Principal) String() string {
	return string(p)
}

// IsEmpty reports whether the principal carries no usable identity.
func (p Principal) IsEmpty() bool {
	return strings.TrimSpace(string(p)) == ""
}

// OrAnonymous substitutes the anonymous principal for an empty one so audit
// records always carry an actor.
func (p Principal) OrAnonymous() Principal {
	if p.IsEmpty() {
		return AnonymousPrincipal
	}
	return p
}
