package app

import (
	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/errors"
	"github.com/iov-one/scrip/x"
	"github.com/iov-one/scrip/x/cash"
	"github.com/iov-one/scrip/x/guard"
	"github.com/iov-one/scrip/x/offering"
	"github.com/iov-one/scrip/x/payout"
	"github.com/iov-one/scrip/x/utils"
	"github.com/iov-one/scrip/x/voucher"
)

// Observer is notified about every event of a committed operation, in
// commit order. Observers must not mutate the ledger.
type Observer func(scrip.Event)

// Ledger is the assembled application: all extensions routed and wrapped
// in the standard decorator stack.
type Ledger struct {
	db        scrip.CacheableKVStore
	handler   scrip.Handler
	observers []Observer
}

// NewLedger wires all extensions over the given store. A nil paymaster
// defaults to settling payments against the wallet state.
func NewLedger(db scrip.CacheableKVStore, auth x.Authenticator, paymaster payout.Paymaster) *Ledger {
	cashCtrl := cash.NewController()
	payCtrl := payout.NewController(cashCtrl)
	if paymaster == nil {
		paymaster = payout.NewCashPaymaster(cashCtrl)
	}

	r := NewRouter()
	offering.RegisterRoutes(r, auth)
	voucher.RegisterRoutes(r, auth, cashCtrl, payCtrl, paymaster)
	payout.RegisterRoutes(r, auth, payCtrl, paymaster)

	handler := ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		guard.NewDecorator(),
		utils.NewSavepoint(),
	).WithHandler(r)

	return &Ledger{
		db:      db,
		handler: handler,
	}
}

// Subscribe registers an observer for all future events.
func (l *Ledger) Subscribe(obs Observer) {
	l.observers = append(l.observers, obs)
}

// Deliver runs a single operation against the ledger state. Events are
// handed to the observers only after the state change committed.
func (l *Ledger) Deliver(ctx scrip.Context, tx scrip.Tx) (*scrip.DeliverResult, error) {
	res, err := l.handler.Deliver(ctx, l.db, tx)
	if err != nil {
		return nil, errors.Wrap(err, "deliver")
	}
	for _, ev := range res.Events {
		for _, obs := range l.observers {
			obs(ev)
		}
	}
	return res, nil
}
