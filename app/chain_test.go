package app

import (
	"context"
	"testing"

	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/scriptest"
	"github.com/iov-one/scrip/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingDecorator counts pass-throughs.
type countingDecorator struct {
	count int
}

func (d *countingDecorator) Deliver(ctx scrip.Context, db scrip.KVStore, tx scrip.Tx, next scrip.Handler) (*scrip.DeliverResult, error) {
	d.count++
	return next.Deliver(ctx, db, tx)
}

func TestChain(t *testing.T) {
	c1 := &countingDecorator{}
	c2 := &countingDecorator{}
	h := &scriptest.Handler{}

	stack := ChainDecorators(
		c1,
		utils.NewRecovery(),
		nil, // nil decorators are dropped
		c2,
	).WithHandler(h)

	_, err := stack.Deliver(context.Background(), nil, &scriptest.Tx{
		Msg: &scriptest.Msg{RoutePath: "test/any"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, c1.count)
	assert.Equal(t, 1, c2.count)
	assert.Equal(t, 1, h.DeliverCallCount())
}
