package cash

import (
	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/coin"
	"github.com/iov-one/scrip/errors"
	"github.com/iov-one/scrip/orm"
)

// CoinMover is the subset of the cash functionality used by other
// extensions to move value between accounts.
type CoinMover interface {
	MoveCoins(db scrip.KVStore, src scrip.Address, dest scrip.Address, amount coin.Coin) error
}

// Controller is the functionality needed by other extensions. This
// is the main entry point to the wallet table; no other code touches it.
type Controller struct {
	bucket orm.ModelBucket
}

var _ CoinMover = Controller{}

// NewController returns a controller using the default wallet bucket.
func NewController() Controller {
	return Controller{bucket: NewBucket()}
}

// MoveCoins moves the given amount from src to dest. If src doesn't
// exist, or doesn't have sufficient coins, it fails. The source wallet is
// debited before the destination is credited.
func (c Controller) MoveCoins(db scrip.KVStore, src scrip.Address, dest scrip.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer %s", amount)
	}

	var sender Wallet
	switch err := c.bucket.One(db, src, &sender); {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrInsufficientFunds, "empty account %s", src)
	case err != nil:
		return err
	}
	if !sender.Balance(amount.Ticker).IsGTE(amount) {
		return errors.Wrapf(errors.ErrInsufficientFunds, "%s in %s", amount, src)
	}

	if err := sender.Add(amount.Negative()); err != nil {
		return err
	}
	if err := c.bucket.Put(db, src, &sender); err != nil {
		return err
	}

	return c.add(db, dest, amount)
}

// IssueCoins attempts to add the given amount of coins to the destination
// address, minting new value. Used to fund accounts at genesis and in
// tests.
func (c Controller) IssueCoins(db scrip.KVStore, dest scrip.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive issue %s", amount)
	}
	return c.add(db, dest, amount)
}

// Balance returns the amount of the given ticker owned by this address. A
// missing wallet is a zero balance.
func (c Controller) Balance(db scrip.ReadOnlyKVStore, addr scrip.Address, ticker string) (coin.Coin, error) {
	var wallet Wallet
	switch err := c.bucket.One(db, addr, &wallet); {
	case errors.ErrNotFound.Is(err):
		return coin.Coin{Ticker: ticker}, nil
	case err != nil:
		return coin.Coin{}, err
	}
	return wallet.Balance(ticker), nil
}

func (c Controller) add(db scrip.KVStore, addr scrip.Address, amount coin.Coin) error {
	var wallet Wallet
	switch err := c.bucket.One(db, addr, &wallet); {
	case errors.ErrNotFound.Is(err):
		// start with an empty wallet
	case err != nil:
		return err
	}
	if err := wallet.Add(amount); err != nil {
		return err
	}
	return c.bucket.Put(db, addr, &wallet)
}
