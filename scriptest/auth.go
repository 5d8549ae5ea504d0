package scriptest

import (
	"github.com/iov-one/scrip"
)

// Auth is a mock implementing the x.Authenticator interface.
//
// This structure authenticates any of the referenced conditions. You can
// use either Signer or Signers (or both) attributes to reference
// conditions. This is for convenience and each time all signers
// (regardless which attribute) are considered.
type Auth struct {
	// Signer represents an authentication of a single signer. This is a
	// convenience attribute when creating an authentication method for a
	// single signer.
	Signer scrip.Condition

	// Signers represents an authentication of multiple signers.
	Signers []scrip.Condition
}

func (a *Auth) GetConditions(scrip.Context) []scrip.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx scrip.Context, addr scrip.Address) bool {
	for _, s := range a.Signers {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	if a.Signer == nil {
		return false
	}
	return addr.Equals(a.Signer.Address())
}
