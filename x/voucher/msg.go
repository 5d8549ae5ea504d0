package voucher

import (
	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/coin"
	"github.com/iov-one/scrip/errors"
)

const (
	pathBuyVoucherMsg    = "voucher/buy"
	pathRedeemMsg        = "voucher/redeem"
	pathReturnExpiredMsg = "voucher/return"
	pathCancelMsg        = "voucher/cancel"
)

var (
	_ scrip.Msg = (*BuyVoucherMsg)(nil)
	_ scrip.Msg = (*RedeemMsg)(nil)
	_ scrip.Msg = (*ReturnExpiredMsg)(nil)
	_ scrip.Msg = (*CancelMsg)(nil)
)

// BuyVoucherMsg purchases a voucher for an offering. Payment is the
// amount the buyer attaches and must match the offering price exactly.
type BuyVoucherMsg struct {
	OfferingID []byte
	Payment    coin.Coin
}

// Path fulfills scrip.Msg interface to allow routing.
func (BuyVoucherMsg) Path() string {
	return pathBuyVoucherMsg
}

// Validate makes sure that this is sensible.
func (m *BuyVoucherMsg) Validate() error {
	if err := validateID("offering id", m.OfferingID); err != nil {
		return err
	}
	if err := m.Payment.Validate(); err != nil {
		return errors.Wrap(err, "payment")
	}
	if !m.Payment.IsPositive() {
		return errors.Wrap(errors.ErrInput, "payment must be positive")
	}
	return nil
}

// RedeemMsg releases the escrow of a pending, not yet expired voucher
// into the provider's accrued earnings. Only the provider of the
// offering the voucher was purchased against can redeem.
type RedeemMsg struct {
	VoucherID []byte
}

// Path fulfills scrip.Msg interface to allow routing.
func (RedeemMsg) Path() string {
	return pathRedeemMsg
}

// Validate makes sure that this is sensible.
func (m *RedeemMsg) Validate() error {
	return validateID("voucher id", m.VoucherID)
}

// ReturnExpiredMsg refunds the escrow of a pending, expired voucher back
// to its buyer. Only the buyer can claim it and only after expiry.
type ReturnExpiredMsg struct {
	VoucherID []byte
}

// Path fulfills scrip.Msg interface to allow routing.
func (ReturnExpiredMsg) Path() string {
	return pathReturnExpiredMsg
}

// Validate makes sure that this is sensible.
func (m *ReturnExpiredMsg) Validate() error {
	return validateID("voucher id", m.VoucherID)
}

// CancelMsg refunds a pending voucher back to its buyer at any time
// before redemption. Only the provider can cancel. There is no expiry
// check, the provider may always hand the money back.
type CancelMsg struct {
	VoucherID []byte
}

// Path fulfills scrip.Msg interface to allow routing.
func (CancelMsg) Path() string {
	return pathCancelMsg
}

// Validate makes sure that this is sensible.
func (m *CancelMsg) Validate() error {
	return validateID("voucher id", m.VoucherID)
}

func validateID(name string, id []byte) error {
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "%s: %X", name, id)
	}
	return nil
}
