package voucher

import (
	"encoding/json"

	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/coin"
	"github.com/iov-one/scrip/errors"
	"github.com/iov-one/scrip/orm"
)

// BucketName is where we store the vouchers.
const BucketName = "voucher"

// Voucher is a prepaid claim on a service. The price paid at purchase is
// held in escrow under the voucher's own condition until exactly one of
// the release paths runs: redemption by the provider or a refund to the
// buyer. Both flags are terminal and mutually exclusive.
type Voucher struct {
	OfferingID   []byte         `json:"offering_id"`
	Buyer        scrip.Address  `json:"buyer,omitempty"`
	Price        coin.Coin      `json:"price"`
	PurchaseTime scrip.UnixTime `json:"purchase_time"`
	Expiry       scrip.UnixTime `json:"expiry"`
	Redeemed     bool           `json:"redeemed,omitempty"`
	Refunded     bool           `json:"refunded,omitempty"`
}

var _ orm.Model = (*Voucher)(nil)

// Validate ensures the voucher is valid.
func (v *Voucher) Validate() error {
	if len(v.OfferingID) != 8 {
		return errors.Wrapf(errors.ErrInput, "offering id: %X", v.OfferingID)
	}
	if err := v.Buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	if err := v.Price.Validate(); err != nil {
		return errors.Wrap(err, "price")
	}
	if !v.Price.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "price must be positive")
	}
	if err := v.PurchaseTime.Validate(); err != nil {
		return errors.Wrap(err, "purchase time")
	}
	if err := v.Expiry.Validate(); err != nil {
		return errors.Wrap(err, "expiry")
	}
	if v.Expiry < v.PurchaseTime {
		return errors.Wrap(errors.ErrState, "expires before purchase")
	}
	if v.Redeemed && v.Refunded {
		return errors.Wrap(errors.ErrState, "both redeemed and refunded")
	}
	return nil
}

// Pending returns true as long as no release path was taken yet.
func (v *Voucher) Pending() bool {
	return !v.Redeemed && !v.Refunded
}

// Copy makes a new voucher with the same content.
func (v *Voucher) Copy() orm.Model {
	return &Voucher{
		OfferingID:   append([]byte(nil), v.OfferingID...),
		Buyer:        append(scrip.Address(nil), v.Buyer...),
		Price:        v.Price,
		PurchaseTime: v.PurchaseTime,
		Expiry:       v.Expiry,
		Redeemed:     v.Redeemed,
		Refunded:     v.Refunded,
	}
}

func (v *Voucher) Marshal() ([]byte, error) {
	return json.Marshal(v)
}

func (v *Voucher) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, v)
}

// NewBucket initializes the voucher bucket.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

var voucherSeq = orm.NewSequence(BucketName, "id")

// EscrowCondition returns the condition holding the escrowed funds of a
// single voucher. No transaction signer can ever satisfy it.
func EscrowCondition(voucherID []byte) scrip.Condition {
	return scrip.NewCondition("voucher", "escrow", voucherID)
}

// EscrowAddress returns the address holding the escrowed funds of a
// single voucher.
func EscrowAddress(voucherID []byte) scrip.Address {
	return EscrowCondition(voucherID).Address()
}

// GetVoucher returns the voucher stored under the given id. Unknown ids
// return the zero voucher; callers must treat a nil buyer as "not found".
func GetVoucher(db scrip.ReadOnlyKVStore, id []byte) (*Voucher, error) {
	var v Voucher
	switch err := NewBucket().One(db, id, &v); {
	case errors.ErrNotFound.Is(err):
		return &Voucher{}, nil
	case err != nil:
		return nil, err
	}
	return &v, nil
}
