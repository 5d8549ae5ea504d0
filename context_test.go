package scrip

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow(t *testing.T) {
	_, ok := Now(context.Background())
	assert.False(t, ok)

	ctx := WithNow(context.Background(), UnixTime(1234567890).Time())
	now, ok := Now(ctx)
	require.True(t, ok)
	assert.Equal(t, UnixTime(1234567890), now)
}

func TestIsExpired(t *testing.T) {
	now := UnixTime(1234567890)
	ctx := WithNow(context.Background(), now.Time())

	assert.True(t, IsExpired(ctx, now-1))
	// The deadline moment itself is not expired yet.
	assert.False(t, IsExpired(ctx, now))
	assert.False(t, IsExpired(ctx, now+1))
}

func TestIsExpiredRequiresClock(t *testing.T) {
	assert.Panics(t, func() {
		IsExpired(context.Background(), UnixTime(123))
	})
}
