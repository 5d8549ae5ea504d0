package utils

import (
	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ scrip.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx scrip.Context, store scrip.KVStore, tx scrip.Tx, next scrip.Handler) (_ *scrip.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
