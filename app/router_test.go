package app

import (
	"context"
	"testing"

	"github.com/iov-one/scrip/errors"
	"github.com/iov-one/scrip/scriptest"
	"github.com/iov-one/scrip/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterSuccess(t *testing.T) {
	r := NewRouter()
	h := &scriptest.Handler{}
	r.Handle("test/good", h)

	_, err := r.Deliver(context.Background(), store.MemStore(), &scriptest.Tx{
		Msg: &scriptest.Msg{RoutePath: "test/good"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestRouterNoRoute(t *testing.T) {
	r := NewRouter()

	_, err := r.Deliver(context.Background(), store.MemStore(), &scriptest.Tx{
		Msg: &scriptest.Msg{RoutePath: "test/missing"},
	})
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
}

func TestRouterInvalidPath(t *testing.T) {
	r := NewRouter()
	assert.Panics(t, func() {
		r.Handle("no-slash", &scriptest.Handler{})
	})
}

func TestRouterDoubleRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle("test/good", &scriptest.Handler{})
	assert.Panics(t, func() {
		r.Handle("test/good", &scriptest.Handler{})
	})
}
