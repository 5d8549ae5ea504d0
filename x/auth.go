package x

import (
	"github.com/iov-one/scrip"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system, rather than
// hard-coding one implementation for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(scrip.Context) []scrip.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(scrip.Context, scrip.Address) bool
}

// GetAddresses wraps the GetConditions method of any Authenticator.
func GetAddresses(ctx scrip.Context, auth Authenticator) []scrip.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]scrip.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first signed condition, or nil if none was
// authenticated. By convention this is the account the operation acts on
// behalf of.
func MainSigner(ctx scrip.Context, auth Authenticator) scrip.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}
