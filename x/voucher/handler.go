package voucher

import (
	"fmt"

	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/errors"
	"github.com/iov-one/scrip/orm"
	"github.com/iov-one/scrip/x"
	"github.com/iov-one/scrip/x/cash"
	"github.com/iov-one/scrip/x/offering"
	"github.com/iov-one/scrip/x/payout"
)

// Event types emitted by this extension.
const (
	EventVoucherPurchased = "voucher/purchased"
	EventVoucherRedeemed  = "voucher/redeemed"
	EventVoucherRefunded  = "voucher/refunded"
)

// Refund reasons carried by the refund event.
const (
	reasonExpired           = "expired"
	reasonProviderCancelled = "provider_cancelled"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r scrip.Registry, auth x.Authenticator, mover cash.CoinMover, ctrl payout.Controller, paymaster Paymaster) {
	bucket := NewBucket()

	r.Handle(pathBuyVoucherMsg, BuyVoucherHandler{
		auth:   auth,
		bucket: bucket,
		mover:  mover,
	})
	r.Handle(pathRedeemMsg, RedeemHandler{
		auth:   auth,
		bucket: bucket,
		ctrl:   ctrl,
	})
	r.Handle(pathReturnExpiredMsg, ReturnExpiredHandler{
		auth:      auth,
		bucket:    bucket,
		paymaster: paymaster,
	})
	r.Handle(pathCancelMsg, CancelHandler{
		auth:      auth,
		bucket:    bucket,
		paymaster: paymaster,
	})
}

// Paymaster executes the refund payments leaving the escrow. See the
// payout package for the default implementation.
type Paymaster = payout.Paymaster

// BuyVoucherHandler creates vouchers, locking the payment in escrow.
type BuyVoucherHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	mover  cash.CoinMover
}

var _ scrip.Handler = BuyVoucherHandler{}

// Deliver moves the payment from the buyer into the voucher escrow and
// stores a new pending voucher. The expiry is fixed now, using the
// offering's current validity period. Later offering updates do not
// change it.
func (h BuyVoucherHandler) Deliver(ctx scrip.Context, db scrip.KVStore, tx scrip.Tx) (*scrip.DeliverResult, error) {
	var msg BuyVoucherMsg
	if err := scrip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	buyer := signer.Address()

	off, err := offering.GetOffering(db, msg.OfferingID)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load offering")
	}
	if off.Provider == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "offering %X", msg.OfferingID)
	}
	if !off.Active {
		return nil, errors.Wrap(errors.ErrState, "offering is not active")
	}
	if !msg.Payment.Equals(off.Price) {
		return nil, errors.Wrapf(errors.ErrInput, "payment %s does not match price %s", msg.Payment, off.Price)
	}

	now, err := currentTime(ctx)
	if err != nil {
		return nil, err
	}
	expiry, err := now.Add(off.ValidityPeriod)
	if err != nil {
		return nil, errors.Wrap(err, "expiry")
	}

	key, err := voucherSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire key")
	}

	if err := h.mover.MoveCoins(db, buyer, EscrowAddress(key), msg.Payment); err != nil {
		return nil, errors.Wrap(err, "cannot escrow payment")
	}

	v := &Voucher{
		OfferingID:   msg.OfferingID,
		Buyer:        buyer,
		Price:        msg.Payment,
		PurchaseTime: now,
		Expiry:       expiry,
	}
	if err := h.bucket.Put(db, key, v); err != nil {
		return nil, errors.Wrap(err, "cannot store voucher")
	}

	res := &scrip.DeliverResult{
		Data: key,
		Events: []scrip.Event{
			scrip.NewEvent(EventVoucherPurchased,
				"voucher_id", fmt.Sprintf("%X", key),
				"offering_id", fmt.Sprintf("%X", msg.OfferingID),
				"buyer", buyer.String(),
				"amount", msg.Payment.String(),
			),
		},
	}
	return res, nil
}

// RedeemHandler releases voucher escrows into provider earnings.
type RedeemHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ctrl   payout.Controller
}

var _ scrip.Handler = RedeemHandler{}

// Deliver marks the voucher redeemed and credits the locked-in price to
// the provider. Redemption at the expiry instant is still allowed, one
// second later it is not.
func (h RedeemHandler) Deliver(ctx scrip.Context, db scrip.KVStore, tx scrip.Tx) (*scrip.DeliverResult, error) {
	var msg RedeemMsg
	if err := scrip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	v, off, err := loadPair(db, h.bucket, msg.VoucherID)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, off.Provider) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the provider can redeem")
	}
	if !v.Pending() {
		return nil, errors.Wrap(errors.ErrState, "already redeemed or refunded")
	}
	if scrip.IsExpired(ctx, v.Expiry) {
		return nil, errors.Wrapf(errors.ErrExpired, "expired at %s", v.Expiry)
	}

	v.Redeemed = true
	if err := h.bucket.Put(db, msg.VoucherID, v); err != nil {
		return nil, errors.Wrap(err, "cannot save voucher")
	}
	if err := h.ctrl.Credit(db, EscrowAddress(msg.VoucherID), off.Provider, v.Price); err != nil {
		return nil, errors.Wrap(err, "cannot release escrow")
	}

	res := &scrip.DeliverResult{
		Events: []scrip.Event{
			scrip.NewEvent(EventVoucherRedeemed,
				"voucher_id", fmt.Sprintf("%X", msg.VoucherID),
				"provider", off.Provider.String(),
				"amount", v.Price.String(),
			),
		},
	}
	return res, nil
}

// ReturnExpiredHandler refunds expired vouchers to their buyer.
type ReturnExpiredHandler struct {
	auth      x.Authenticator
	bucket    orm.ModelBucket
	paymaster Paymaster
}

var _ scrip.Handler = ReturnExpiredHandler{}

// Deliver marks the voucher refunded and pays the escrow straight back
// to the buyer. Not eligible before the voucher is strictly past its
// expiry, so a refund at the expiry instant still fails.
func (h ReturnExpiredHandler) Deliver(ctx scrip.Context, db scrip.KVStore, tx scrip.Tx) (*scrip.DeliverResult, error) {
	var msg ReturnExpiredMsg
	if err := scrip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	v, err := loadVoucher(db, h.bucket, msg.VoucherID)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, v.Buyer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the buyer can claim a refund")
	}
	if !v.Pending() {
		return nil, errors.Wrap(errors.ErrState, "already redeemed or refunded")
	}
	if !scrip.IsExpired(ctx, v.Expiry) {
		return nil, errors.Wrapf(errors.ErrState, "not expired before %s", v.Expiry)
	}

	return refund(db, h.bucket, h.paymaster, msg.VoucherID, v, reasonExpired)
}

// CancelHandler lets providers hand escrowed payments back early.
type CancelHandler struct {
	auth      x.Authenticator
	bucket    orm.ModelBucket
	paymaster Paymaster
}

var _ scrip.Handler = CancelHandler{}

// Deliver refunds a pending voucher to its buyer regardless of expiry.
func (h CancelHandler) Deliver(ctx scrip.Context, db scrip.KVStore, tx scrip.Tx) (*scrip.DeliverResult, error) {
	var msg CancelMsg
	if err := scrip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	v, off, err := loadPair(db, h.bucket, msg.VoucherID)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, off.Provider) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the provider can cancel")
	}
	if !v.Pending() {
		return nil, errors.Wrap(errors.ErrState, "already redeemed or refunded")
	}

	return refund(db, h.bucket, h.paymaster, msg.VoucherID, v, reasonProviderCancelled)
}

// refund flags the voucher and pays its escrow back to the buyer. Any
// payment failure aborts the whole operation, so the flag flip does not
// survive a failed payout.
func refund(db scrip.KVStore, bucket orm.ModelBucket, paymaster Paymaster, id []byte, v *Voucher, reason string) (*scrip.DeliverResult, error) {
	v.Refunded = true
	if err := bucket.Put(db, id, v); err != nil {
		return nil, errors.Wrap(err, "cannot save voucher")
	}
	if err := paymaster.Pay(db, EscrowAddress(id), v.Buyer, v.Price); err != nil {
		return nil, errors.Wrap(err, "refund payment")
	}

	res := &scrip.DeliverResult{
		Events: []scrip.Event{
			scrip.NewEvent(EventVoucherRefunded,
				"voucher_id", fmt.Sprintf("%X", id),
				"buyer", v.Buyer.String(),
				"amount", v.Price.String(),
				"reason", reason,
			),
		},
	}
	return res, nil
}

// loadVoucher returns the voucher or ErrNotFound.
func loadVoucher(db scrip.KVStore, bucket orm.ModelBucket, id []byte) (*Voucher, error) {
	var v Voucher
	if err := bucket.One(db, id, &v); err != nil {
		return nil, errors.Wrap(err, "cannot load voucher from the store")
	}
	return &v, nil
}

// loadPair returns the voucher together with the offering it was
// purchased against.
func loadPair(db scrip.KVStore, bucket orm.ModelBucket, id []byte) (*Voucher, *offering.Offering, error) {
	v, err := loadVoucher(db, bucket, id)
	if err != nil {
		return nil, nil, err
	}
	off, err := offering.GetOffering(db, v.OfferingID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot load offering")
	}
	if off.Provider == nil {
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "offering %X", v.OfferingID)
	}
	return v, off, nil
}

// currentTime extracts the transaction time from the context. It must
// always be set by the caller.
func currentTime(ctx scrip.Context) (scrip.UnixTime, error) {
	now, ok := scrip.Now(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrHuman, "current time not present in the context")
	}
	return now, nil
}
