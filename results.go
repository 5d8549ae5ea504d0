package scrip

// DeliverResult captures any non-error response of a handled message.
type DeliverResult struct {
	// Data is a machine-parseable return value, like an id of the created
	// entity.
	Data []byte

	// Log is a human readable success message.
	Log string

	// Events are the lifecycle records emitted by this operation. They
	// are handed to the registered observers only after the state write
	// committed, in commit order.
	Events []Event
}

// Event is an append-only, externally observable record of a committed
// state transition, correlated by the relevant ids carried in the
// attributes.
type Event struct {
	Type       string
	Attributes []EventAttribute
}

// EventAttribute is a single key/value pair of event metadata.
type EventAttribute struct {
	Key   string
	Value string
}

// NewEvent constructs an event from alternating key/value attribute pairs.
func NewEvent(typ string, pairs ...string) Event {
	if len(pairs)%2 != 0 {
		panic("event attributes must be key/value pairs")
	}
	attrs := make([]EventAttribute, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		attrs = append(attrs, EventAttribute{Key: pairs[i], Value: pairs[i+1]})
	}
	return Event{Type: typ, Attributes: attrs}
}
