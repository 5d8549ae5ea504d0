package orm

import (
	"github.com/iov-one/scrip"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	scrip.Persistent

	// Validate returns an error if the model is not in a valid state to
	// be persisted (eg. field missing, out of range, ...).
	Validate() error

	// Copy returns a deep copy of this model.
	Copy() Model
}
