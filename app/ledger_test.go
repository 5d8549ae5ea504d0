package app

import (
	"context"
	"testing"

	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/coin"
	"github.com/iov-one/scrip/errors"
	"github.com/iov-one/scrip/scriptest"
	"github.com/iov-one/scrip/store"
	"github.com/iov-one/scrip/x/cash"
	"github.com/iov-one/scrip/x/offering"
	"github.com/iov-one/scrip/x/payout"
	"github.com/iov-one/scrip/x/voucher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var begin = scrip.UnixTime(1234567890)

// ledgerFixture runs operations against a fully assembled ledger. The
// signer can be swapped between deliveries to act as different parties.
type ledgerFixture struct {
	t        *testing.T
	db       scrip.CacheableKVStore
	ledger   *Ledger
	auth     *scriptest.Auth
	cash     cash.Controller
	provider scrip.Condition
	buyer    scrip.Condition
	minted   coin.Coin
}

func newLedgerFixture(t *testing.T, paymaster payout.Paymaster) *ledgerFixture {
	t.Helper()

	f := &ledgerFixture{
		t:        t,
		db:       store.MemStore(),
		auth:     &scriptest.Auth{},
		cash:     cash.NewController(),
		provider: scriptest.NewCondition(),
		buyer:    scriptest.NewCondition(),
		minted:   coin.NewCoin(1000, 0, "IOV"),
	}
	f.ledger = NewLedger(f.db, f.auth, paymaster)
	require.NoError(t, f.cash.IssueCoins(f.db, f.buyer.Address(), f.minted))
	return f
}

// as delivers the transaction signed by the given party at the given
// time.
func (f *ledgerFixture) as(signer scrip.Condition, at scrip.UnixTime, msg scrip.Msg) (*scrip.DeliverResult, error) {
	f.auth.Signer = signer
	ctx := scrip.WithNow(context.Background(), at.Time())
	return f.ledger.Deliver(ctx, &scriptest.Tx{Msg: msg})
}

func (f *ledgerFixture) createOffering(price coin.Coin, validity scrip.UnixDuration) []byte {
	f.t.Helper()
	res, err := f.as(f.provider, begin, &offering.CreateOfferingMsg{
		Price:          price,
		ValidityPeriod: validity,
	})
	require.NoError(f.t, err)
	return res.Data
}

func (f *ledgerFixture) buy(offeringID []byte, payment coin.Coin, at scrip.UnixTime) []byte {
	f.t.Helper()
	res, err := f.as(f.buyer, at, &voucher.BuyVoucherMsg{
		OfferingID: offeringID,
		Payment:    payment,
	})
	require.NoError(f.t, err)
	return res.Data
}

func (f *ledgerFixture) balance(addr scrip.Address) coin.Coin {
	f.t.Helper()
	c, err := f.cash.Balance(f.db, addr, "IOV")
	require.NoError(f.t, err)
	return c
}

// assertConservation checks that no value appeared or vanished: every
// minted coin sits with the buyer, the provider, an escrow or the
// provider's accrued earnings.
func (f *ledgerFixture) assertConservation(voucherIDs ...[]byte) {
	f.t.Helper()
	total := f.balance(f.buyer.Address())
	for _, addr := range []scrip.Address{
		f.provider.Address(),
		payout.AccrualAddress(f.provider.Address()),
	} {
		sum, err := total.Add(f.balance(addr))
		require.NoError(f.t, err)
		total = sum
	}
	for _, id := range voucherIDs {
		sum, err := total.Add(f.balance(voucher.EscrowAddress(id)))
		require.NoError(f.t, err)
		total = sum
	}
	assert.True(f.t, total.Equals(f.minted), "total %s, minted %s", total, f.minted)
}

func TestRedeemLifecycle(t *testing.T) {
	f := newLedgerFixture(t, nil)
	price := coin.NewCoin(100, 0, "IOV")

	offeringID := f.createOffering(price, 3600)
	voucherID := f.buy(offeringID, price, begin)
	f.assertConservation(voucherID)

	// Redemption exactly at expiry is still allowed.
	_, err := f.as(f.provider, begin+3600, &voucher.RedeemMsg{VoucherID: voucherID})
	require.NoError(t, err)
	f.assertConservation(voucherID)

	accrued, err := payout.NewController(f.cash).Balance(f.db, f.provider.Address(), "IOV")
	require.NoError(t, err)
	assert.True(t, accrued.Equals(price))

	// The buyer cannot claim a refund on a redeemed voucher.
	_, err = f.as(f.buyer, begin+7200, &voucher.ReturnExpiredMsg{VoucherID: voucherID})
	assert.True(t, errors.ErrState.Is(err), "got %+v", err)

	// The provider withdraws the earnings into the own wallet.
	_, err = f.as(f.provider, begin+7200, &payout.WithdrawMsg{Amount: price})
	require.NoError(t, err)
	assert.True(t, f.balance(f.provider.Address()).Equals(price))
	f.assertConservation(voucherID)
}

func TestRefundLifecycle(t *testing.T) {
	f := newLedgerFixture(t, nil)
	price := coin.NewCoin(100, 0, "IOV")

	offeringID := f.createOffering(price, 3600)
	voucherID := f.buy(offeringID, price, begin)

	// Not refundable before and exactly at expiry.
	_, err := f.as(f.buyer, begin+10, &voucher.ReturnExpiredMsg{VoucherID: voucherID})
	assert.True(t, errors.ErrState.Is(err), "got %+v", err)
	_, err = f.as(f.buyer, begin+3600, &voucher.ReturnExpiredMsg{VoucherID: voucherID})
	assert.True(t, errors.ErrState.Is(err), "got %+v", err)

	// One second past expiry the refund goes through.
	_, err = f.as(f.buyer, begin+3601, &voucher.ReturnExpiredMsg{VoucherID: voucherID})
	require.NoError(t, err)
	assert.True(t, f.balance(f.buyer.Address()).Equals(f.minted))
	f.assertConservation(voucherID)

	// The provider is too late now.
	_, err = f.as(f.provider, begin+3700, &voucher.RedeemMsg{VoucherID: voucherID})
	assert.True(t, errors.ErrState.Is(err), "got %+v", err)
}

func TestProviderCancel(t *testing.T) {
	f := newLedgerFixture(t, nil)
	price := coin.NewCoin(100, 0, "IOV")

	offeringID := f.createOffering(price, 3600)
	voucherID := f.buy(offeringID, price, begin)

	// Cancelling well before expiry is allowed for the provider.
	_, err := f.as(f.provider, begin+1, &voucher.CancelMsg{VoucherID: voucherID})
	require.NoError(t, err)
	assert.True(t, f.balance(f.buyer.Address()).Equals(f.minted))
	f.assertConservation(voucherID)
}

func TestWrongPaymentRejected(t *testing.T) {
	f := newLedgerFixture(t, nil)
	offeringID := f.createOffering(coin.NewCoin(100, 0, "IOV"), 3600)

	for _, payment := range []coin.Coin{
		coin.NewCoin(99, 0, "IOV"),
		coin.NewCoin(101, 0, "IOV"),
	} {
		_, err := f.as(f.buyer, begin, &voucher.BuyVoucherMsg{
			OfferingID: offeringID,
			Payment:    payment,
		})
		assert.True(t, errors.ErrInput.Is(err), "payment %s: got %+v", payment, err)
	}

	// No voucher was created and no funds moved.
	v, err := voucher.GetVoucher(f.db, scriptest.SequenceID(1))
	require.NoError(t, err)
	assert.Nil(t, v.Buyer)
	assert.True(t, f.balance(f.buyer.Address()).Equals(f.minted))
}

func TestObserversSeeCommittedEvents(t *testing.T) {
	f := newLedgerFixture(t, nil)
	price := coin.NewCoin(100, 0, "IOV")

	var types []string
	f.ledger.Subscribe(func(ev scrip.Event) {
		types = append(types, ev.Type)
	})

	offeringID := f.createOffering(price, 3600)
	voucherID := f.buy(offeringID, price, begin)
	_, err := f.as(f.provider, begin+10, &voucher.RedeemMsg{VoucherID: voucherID})
	require.NoError(t, err)

	// A failing operation must not be observed.
	_, err = f.as(f.provider, begin+20, &voucher.RedeemMsg{VoucherID: voucherID})
	require.Error(t, err)

	assert.Equal(t, []string{
		offering.EventOfferingCreated,
		voucher.EventVoucherPurchased,
		voucher.EventVoucherRedeemed,
	}, types)
}

// reenteringPaymaster attempts a nested ledger call from within an
// outbound payment before settling it.
type reenteringPaymaster struct {
	ledger *Ledger
	inner  payout.Paymaster
	nested error
}

func (p *reenteringPaymaster) Pay(db scrip.KVStore, src scrip.Address, dest scrip.Address, amount coin.Coin) error {
	ctx := scrip.WithNow(context.Background(), begin.Time())
	_, p.nested = p.ledger.Deliver(ctx, &scriptest.Tx{
		Msg: &payout.WithdrawMsg{Amount: coin.NewCoin(1, 0, "IOV")},
	})
	return p.inner.Pay(db, src, dest, amount)
}

func TestReentrantCallBlocked(t *testing.T) {
	pm := &reenteringPaymaster{
		inner: payout.NewCashPaymaster(cash.NewController()),
	}
	f := newLedgerFixture(t, pm)
	pm.ledger = f.ledger

	price := coin.NewCoin(100, 0, "IOV")
	offeringID := f.createOffering(price, 3600)
	voucherID := f.buy(offeringID, price, begin)

	// The refund itself settles, but the nested call the payment
	// triggered must have been rejected.
	_, err := f.as(f.provider, begin+1, &voucher.CancelMsg{VoucherID: voucherID})
	require.NoError(t, err)
	assert.True(t, errors.ErrState.Is(pm.nested), "got %+v", pm.nested)
	assert.True(t, f.balance(f.buyer.Address()).Equals(f.minted))
}

// brokenPaymaster debits the source and then fails, simulating a payment
// rejected after funds left the account.
type brokenPaymaster struct {
	cash cash.Controller
	sink scrip.Address
}

func (p brokenPaymaster) Pay(db scrip.KVStore, src scrip.Address, dest scrip.Address, amount coin.Coin) error {
	if err := p.cash.MoveCoins(db, src, p.sink, amount); err != nil {
		return errors.Wrapf(errors.ErrTransfer, "pay %s: %s", amount, err)
	}
	return errors.Wrap(errors.ErrTransfer, "recipient rejected the payment")
}

func TestFailedPayoutRollsBack(t *testing.T) {
	pm := brokenPaymaster{
		cash: cash.NewController(),
		sink: scriptest.NewCondition().Address(),
	}
	f := newLedgerFixture(t, pm)

	price := coin.NewCoin(100, 0, "IOV")
	offeringID := f.createOffering(price, 3600)
	voucherID := f.buy(offeringID, price, begin)

	_, err := f.as(f.buyer, begin+3601, &voucher.ReturnExpiredMsg{VoucherID: voucherID})
	assert.True(t, errors.ErrTransfer.Is(err), "got %+v", err)

	// Nothing of the failed refund may persist: the voucher is still
	// pending and the escrow still funded.
	v, err := voucher.GetVoucher(f.db, voucherID)
	require.NoError(t, err)
	assert.True(t, v.Pending())
	assert.True(t, f.balance(voucher.EscrowAddress(voucherID)).Equals(price))
	f.assertConservation(voucherID)
}
