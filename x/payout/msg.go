package payout

import (
	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/coin"
	"github.com/iov-one/scrip/errors"
)

const pathWithdrawMsg = "payout/withdraw"

var _ scrip.Msg = (*WithdrawMsg)(nil)

// WithdrawMsg pays out a part of the signer's accrued earnings to the
// signer's own account.
type WithdrawMsg struct {
	Amount coin.Coin
}

// Path fulfills scrip.Msg interface to allow routing.
func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

// Validate makes sure that this is sensible.
func (m *WithdrawMsg) Validate() error {
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !m.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "amount must be positive")
	}
	return nil
}
