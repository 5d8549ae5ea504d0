package scrip

import (
	"context"
	"time"

	"github.com/tendermint/tendermint/libs/log"
)

// Context is just a synonym for the standard implementation. We use this
// type to leave opening for other implementations in the future.
type Context = context.Context

type contextKey int

const (
	contextKeyNow contextKey = iota
	contextKeyLogger
)

// DefaultLogger is used for all contexts that have not set anything
// themselves.
var DefaultLogger = log.NewNopLogger()

// WithNow sets the current logical time for the duration of this context.
// Every time-based eligibility decision is made against this clock, never
// against the wall clock.
func WithNow(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyNow, AsUnixTime(t))
}

// Now returns the logical time as declared for this context.
func Now(ctx Context) (UnixTime, bool) {
	now, ok := ctx.Value(contextKeyNow).(UnixTime)
	return now, ok
}

// IsExpired returns true if the given deadline is strictly in the past as
// compared to the "now" declared for this context. The deadline moment
// itself is not expired yet.
//
// This function panics if the current time is not present in the context.
// This must never happen. The panic is here to prevent a broken setup from
// processing data incorrectly.
func IsExpired(ctx Context, t UnixTime) bool {
	now, ok := Now(ctx)
	if !ok {
		panic("current time is not present in the context")
	}
	return t < now
}

// WithLogger sets the logger for the duration of this context.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger attached to this context, or DefaultLogger
// if none was set.
func GetLogger(ctx Context) log.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return logger
	}
	return DefaultLogger
}
