// Package guard provides a decorator that blocks nested re-entrant
// execution of the wrapped handler.
//
// State mutating operations are logically sequential. The only way a
// second operation can start while one is running is a callback from an
// outbound value transfer re-entering the ledger. Such a nested call
// must fail fast instead of observing half committed state.
package guard

import (
	"sync/atomic"

	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/errors"
)

// Decorator rejects any delivery that starts while another one is still
// running. The lock is process wide, not per entity.
type Decorator struct {
	busy uint32
}

var _ scrip.Decorator = (*Decorator)(nil)

// NewDecorator returns a reentrancy guard.
func NewDecorator() *Decorator {
	return &Decorator{}
}

// Deliver acquires the lock for the duration of the call. A nested call
// fails fast rather than queue or block.
func (d *Decorator) Deliver(ctx scrip.Context, db scrip.KVStore, tx scrip.Tx, next scrip.Handler) (*scrip.DeliverResult, error) {
	if !atomic.CompareAndSwapUint32(&d.busy, 0, 1) {
		return nil, errors.Wrap(errors.ErrState, "reentrant call")
	}
	defer atomic.StoreUint32(&d.busy, 0)

	return next.Deliver(ctx, db, tx)
}
