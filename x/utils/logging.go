package utils

import (
	"time"

	"github.com/iov-one/scrip"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ scrip.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx scrip.Context, store scrip.KVStore, tx scrip.Tx, next scrip.Handler) (*scrip.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx scrip.Context, start time.Time, msg string, err error) {
	delta := time.Now().Sub(start)
	logger := scrip.GetLogger(ctx).With("duration", delta/time.Microsecond)

	if err != nil {
		logger = logger.With("err", err)
		logger.Error(msg)
	} else {
		logger.Info(msg)
	}
}
