package payout

import (
	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/errors"
	"github.com/iov-one/scrip/x"
)

// EventWithdrawal is emitted after a successful withdrawal.
const EventWithdrawal = "payout/withdrawal"

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r scrip.Registry, auth x.Authenticator, ctrl Controller, paymaster Paymaster) {
	r.Handle(pathWithdrawMsg, WithdrawHandler{
		auth:      auth,
		ctrl:      ctrl,
		paymaster: paymaster,
	})
}

// WithdrawHandler pays accrued earnings out to the provider that earned
// them.
type WithdrawHandler struct {
	auth      x.Authenticator
	ctrl      Controller
	paymaster Paymaster
}

var _ scrip.Handler = WithdrawHandler{}

// Deliver debits the signer's accrued balance and pays the amount out to
// the signer's account. A rejected payment fails the whole operation so
// that the debit does not persist.
func (h WithdrawHandler) Deliver(ctx scrip.Context, db scrip.KVStore, tx scrip.Tx) (*scrip.DeliverResult, error) {
	var msg WithdrawMsg
	if err := scrip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	provider := signer.Address()

	balance, err := h.ctrl.Balance(db, provider, msg.Amount.Ticker)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read balance")
	}
	if !balance.IsGTE(msg.Amount) {
		return nil, errors.Wrapf(errors.ErrInsufficientFunds, "balance %s", balance)
	}

	if err := h.paymaster.Pay(db, AccrualAddress(provider), provider, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "withdrawal payment")
	}

	res := &scrip.DeliverResult{
		Events: []scrip.Event{
			scrip.NewEvent(EventWithdrawal,
				"provider", provider.String(),
				"amount", msg.Amount.String(),
			),
		},
	}
	return res, nil
}
