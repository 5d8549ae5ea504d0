package cash

import (
	"encoding/json"

	"github.com/iov-one/scrip/coin"
	"github.com/iov-one/scrip/errors"
	"github.com/iov-one/scrip/orm"
)

// BucketName is where we store the wallets.
const BucketName = "cash"

// Wallet holds the coins owned by one address. Coins are unique by ticker
// and always non-negative; a ticker that runs down to zero is removed.
type Wallet struct {
	Coins []*coin.Coin `json:"coins,omitempty"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate requires all coins to be well formed, positive and unique by
// ticker.
func (w *Wallet) Validate() error {
	seen := make(map[string]struct{}, len(w.Coins))
	for _, c := range w.Coins {
		if c == nil {
			return errors.Wrap(errors.ErrEmpty, "nil coin")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if !c.IsPositive() {
			return errors.Wrapf(errors.ErrAmount, "non-positive balance %s", c)
		}
		if _, ok := seen[c.Ticker]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "ticker %s", c.Ticker)
		}
		seen[c.Ticker] = struct{}{}
	}
	return nil
}

// Copy makes a new wallet with the same coins.
func (w *Wallet) Copy() orm.Model {
	cpy := &Wallet{
		Coins: make([]*coin.Coin, len(w.Coins)),
	}
	for i, c := range w.Coins {
		cpy.Coins[i] = c.Clone()
	}
	return cpy
}

func (w *Wallet) Marshal() ([]byte, error) {
	return json.Marshal(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, w)
}

// Balance returns the amount of the given ticker held in this wallet. A
// missing ticker is a zero balance.
func (w *Wallet) Balance(ticker string) coin.Coin {
	for _, c := range w.Coins {
		if c.Ticker == ticker {
			return *c
		}
	}
	return coin.Coin{Ticker: ticker}
}

// Add modifies the wallet by the given amount, which may be negative. The
// resulting balance must not drop below zero.
func (w *Wallet) Add(c coin.Coin) error {
	for i, have := range w.Coins {
		if have.Ticker != c.Ticker {
			continue
		}
		sum, err := have.Add(c)
		if err != nil {
			return err
		}
		if !sum.IsNonNegative() {
			return errors.Wrapf(errors.ErrAmount, "negative balance %s", sum)
		}
		if sum.IsZero() {
			w.Coins = append(w.Coins[:i], w.Coins[i+1:]...)
		} else {
			w.Coins[i] = &sum
		}
		return nil
	}

	if c.IsZero() {
		return nil
	}
	if !c.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "negative balance %s", c)
	}
	add := c
	w.Coins = append(w.Coins, &add)
	return nil
}

// IsEmpty returns true if the wallet holds no coins.
func (w *Wallet) IsEmpty() bool {
	return len(w.Coins) == 0
}

// NewBucket initializes the wallet bucket.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}
