package payout

import (
	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/coin"
	"github.com/iov-one/scrip/errors"
	"github.com/iov-one/scrip/x/cash"
)

// AccrualCondition returns the condition guarding the accrued earnings of
// a provider. Only this extension can move funds out of it.
func AccrualCondition(provider scrip.Address) scrip.Condition {
	return scrip.NewCondition("payout", "accrual", provider)
}

// AccrualAddress returns the address holding the accrued, not yet
// withdrawn earnings of a provider.
func AccrualAddress(provider scrip.Address) scrip.Address {
	return AccrualCondition(provider).Address()
}

// Paymaster executes outbound value transfers, the payments that leave
// ledger controlled accounts for user accounts. Implementations may talk
// to external settlement systems and can reject a payment.
type Paymaster interface {
	Pay(db scrip.KVStore, src scrip.Address, dest scrip.Address, amount coin.Coin) error
}

// CashPaymaster is a Paymaster settling payments against the wallet
// state.
type CashPaymaster struct {
	mover cash.CoinMover
}

var _ Paymaster = CashPaymaster{}

// NewCashPaymaster returns a paymaster that moves wallet funds.
func NewCashPaymaster(mover cash.CoinMover) CashPaymaster {
	return CashPaymaster{mover: mover}
}

// Pay moves the amount from src to dest. A failure is reported as a
// transfer failure so that the caller can roll back.
func (p CashPaymaster) Pay(db scrip.KVStore, src scrip.Address, dest scrip.Address, amount coin.Coin) error {
	if err := p.mover.MoveCoins(db, src, dest, amount); err != nil {
		return errors.Wrapf(errors.ErrTransfer, "pay %s: %s", amount, err)
	}
	return nil
}

// Controller maintains the accrued earnings of providers. Balances grow
// only through Credit and shrink only through withdrawal.
type Controller struct {
	cash cash.Controller
}

// NewController returns a payout controller over the given wallet
// controller.
func NewController(ctrl cash.Controller) Controller {
	return Controller{cash: ctrl}
}

// Credit releases escrowed funds into the accrued earnings of a provider.
func (c Controller) Credit(db scrip.KVStore, src scrip.Address, provider scrip.Address, amount coin.Coin) error {
	if err := c.cash.MoveCoins(db, src, AccrualAddress(provider), amount); err != nil {
		return errors.Wrap(err, "credit provider")
	}
	return nil
}

// Balance returns the accrued earnings of a provider in the given
// currency.
func (c Controller) Balance(db scrip.ReadOnlyKVStore, provider scrip.Address, ticker string) (coin.Coin, error) {
	return c.cash.Balance(db, AccrualAddress(provider), ticker)
}
