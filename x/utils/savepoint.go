package utils

import (
	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/errors"
)

// Savepoint will isolate all data inside of the call, and commit or
// rollback based on the error. This is what makes every operation
// all-or-nothing: no partial state change survives a failed delivery.
type Savepoint struct{}

var _ scrip.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// Deliver runs the rest of the stack against a cache and only writes the
// cache through on success.
func (s Savepoint) Deliver(ctx scrip.Context, store scrip.KVStore, tx scrip.Tx, next scrip.Handler) (*scrip.DeliverResult, error) {
	cstore, ok := store.(scrip.CacheableKVStore)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}

	cache := cstore.CacheWrap()
	if res, err := next.Deliver(ctx, cache, tx); err != nil {
		cache.Discard()
		return nil, err
	} else if werr := cache.Write(); werr != nil {
		return nil, errors.Wrap(werr, "writing savepoint")
	} else {
		return res, nil
	}
}
