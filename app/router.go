package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/errors"
)

var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Router maps message paths to handlers.
type Router struct {
	routes map[string]scrip.Handler
}

var _ scrip.Registry = (*Router)(nil)
var _ scrip.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]scrip.Handler),
	}
}

// Handle implements scrip.Registry interface. Registering twice for the
// same path or using an invalid path is a programmer error.
func (r *Router) Handle(path string, h scrip.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("double registration for path: %q", path))
	}
	r.routes[path] = h
}

// handler returns the registered handler, or a handler that always fails
// when no registration for the path exists.
func (r *Router) handler(path string) scrip.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Deliver dispatches the transaction to the handler registered for the
// message path.
func (r *Router) Deliver(ctx scrip.Context, db scrip.KVStore, tx scrip.Tx) (*scrip.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get message")
	}
	return r.handler(msg.Path()).Deliver(ctx, db, tx)
}

// notFoundHandler fails every delivery, naming the unknown path.
type notFoundHandler string

func (h notFoundHandler) Deliver(scrip.Context, scrip.KVStore, scrip.Tx) (*scrip.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(h))
}
