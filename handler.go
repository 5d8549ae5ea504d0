package scrip

import (
	"reflect"

	"github.com/iov-one/scrip/errors"
)

// Msg is a request to mutate the ledger state. Messages are dispatched by
// path through a Router to the handler registered for it.
type Msg interface {
	// Path returns the routing path of this message.
	Path() string

	// Validate performs a sanity check on the message content that does
	// not require any state access.
	Validate() error
}

// Tx carries a single message through the decorator stack to its handler.
type Tx interface {
	// GetMsg returns the message this transaction wants executed.
	GetMsg() (Msg, error)
}

// Handler executes a specific kind of message against the state.
type Handler interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality like
// reentrancy protection, savepoints or logging to many Handlers.
type Decorator interface {
	Deliver(ctx Context, store KVStore, tx Tx, next Handler) (*DeliverResult, error)
}

// Registry is an interface to register your handler, the setup side of a
// Router.
type Registry interface {
	Handle(path string, h Handler)
}

// LoadMsg extracts the message from the transaction, validates it and
// loads it into the destination. Destination must be a pointer to the
// expected message type.
func LoadMsg(tx Tx, destination Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	if reflect.TypeOf(msg) != reflect.TypeOf(destination) {
		return errors.Wrapf(errors.ErrType, "want %T, got %T", destination, msg)
	}
	reflect.ValueOf(destination).Elem().Set(reflect.ValueOf(msg).Elem())
	return nil
}
