package scriptest

import (
	"github.com/iov-one/scrip"
)

// Tx represents a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg scrip.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ scrip.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (scrip.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg is a message stub with a configurable path and validation result.
type Msg struct {
	// RoutePath is returned by the Path method, consumed by the router.
	RoutePath string
	// Err if set is returned by Validate.
	Err error
}

var _ scrip.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

// Handler is a scrip.Handler mock, counting calls and returning declared
// results.
type Handler struct {
	deliverCall int

	DeliverResult scrip.DeliverResult
	DeliverErr    error
}

var _ scrip.Handler = (*Handler)(nil)

func (h *Handler) Deliver(ctx scrip.Context, db scrip.KVStore, tx scrip.Tx) (*scrip.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}
