package payout

import (
	"context"
	"testing"

	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/coin"
	"github.com/iov-one/scrip/errors"
	"github.com/iov-one/scrip/scriptest"
	"github.com/iov-one/scrip/store"
	"github.com/iov-one/scrip/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rejectingPaymaster fails every payment without touching the state.
type rejectingPaymaster struct{}

func (rejectingPaymaster) Pay(scrip.KVStore, scrip.Address, scrip.Address, coin.Coin) error {
	return errors.Wrap(errors.ErrTransfer, "recipient rejected the payment")
}

func TestWithdraw(t *testing.T) {
	provider := scriptest.NewCondition()
	cashCtrl := cash.NewController()

	fund := func(t *testing.T, db scrip.KVStore, amount coin.Coin) {
		t.Helper()
		require.NoError(t, cashCtrl.IssueCoins(db, AccrualAddress(provider.Address()), amount))
	}

	t.Run("happy path", func(t *testing.T) {
		db := store.MemStore()
		fund(t, db, coin.NewCoin(100, 0, "IOV"))

		h := WithdrawHandler{
			auth:      &scriptest.Auth{Signer: provider},
			ctrl:      NewController(cashCtrl),
			paymaster: NewCashPaymaster(cashCtrl),
		}
		res, err := h.Deliver(context.Background(), db, &scriptest.Tx{
			Msg: &WithdrawMsg{Amount: coin.NewCoin(40, 0, "IOV")},
		})
		require.NoError(t, err)
		require.Len(t, res.Events, 1)
		assert.Equal(t, EventWithdrawal, res.Events[0].Type)

		left, err := NewController(cashCtrl).Balance(db, provider.Address(), "IOV")
		require.NoError(t, err)
		assert.True(t, left.Equals(coin.NewCoin(60, 0, "IOV")))

		paid, err := cashCtrl.Balance(db, provider.Address(), "IOV")
		require.NoError(t, err)
		assert.True(t, paid.Equals(coin.NewCoin(40, 0, "IOV")))
	})

	t.Run("withdrawing more than accrued", func(t *testing.T) {
		db := store.MemStore()
		fund(t, db, coin.NewCoin(10, 0, "IOV"))

		h := WithdrawHandler{
			auth:      &scriptest.Auth{Signer: provider},
			ctrl:      NewController(cashCtrl),
			paymaster: NewCashPaymaster(cashCtrl),
		}
		_, err := h.Deliver(context.Background(), db, &scriptest.Tx{
			Msg: &WithdrawMsg{Amount: coin.NewCoin(11, 0, "IOV")},
		})
		assert.True(t, errors.ErrInsufficientFunds.Is(err), "got %+v", err)
	})

	t.Run("no signer", func(t *testing.T) {
		db := store.MemStore()
		fund(t, db, coin.NewCoin(10, 0, "IOV"))

		h := WithdrawHandler{
			auth:      &scriptest.Auth{},
			ctrl:      NewController(cashCtrl),
			paymaster: NewCashPaymaster(cashCtrl),
		}
		_, err := h.Deliver(context.Background(), db, &scriptest.Tx{
			Msg: &WithdrawMsg{Amount: coin.NewCoin(1, 0, "IOV")},
		})
		assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)
	})

	t.Run("rejected payment keeps the balance", func(t *testing.T) {
		db := store.MemStore()
		fund(t, db, coin.NewCoin(100, 0, "IOV"))

		h := WithdrawHandler{
			auth:      &scriptest.Auth{Signer: provider},
			ctrl:      NewController(cashCtrl),
			paymaster: rejectingPaymaster{},
		}
		_, err := h.Deliver(context.Background(), db, &scriptest.Tx{
			Msg: &WithdrawMsg{Amount: coin.NewCoin(40, 0, "IOV")},
		})
		assert.True(t, errors.ErrTransfer.Is(err), "got %+v", err)

		left, err := NewController(cashCtrl).Balance(db, provider.Address(), "IOV")
		require.NoError(t, err)
		assert.True(t, left.Equals(coin.NewCoin(100, 0, "IOV")))
	})
}
