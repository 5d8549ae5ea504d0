package offering

import (
	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/coin"
	"github.com/iov-one/scrip/errors"
)

const (
	pathCreateOfferingMsg = "offering/create"
	pathUpdateOfferingMsg = "offering/update"

	maxMetadataURISize int = 256
)

var _ scrip.Msg = (*CreateOfferingMsg)(nil)
var _ scrip.Msg = (*UpdateOfferingMsg)(nil)

// CreateOfferingMsg publishes a new purchasable offering. The signer
// becomes the provider.
type CreateOfferingMsg struct {
	Price          coin.Coin
	ValidityPeriod scrip.UnixDuration
	MetadataURI    string
}

// Path fulfills scrip.Msg interface to allow routing.
func (CreateOfferingMsg) Path() string {
	return pathCreateOfferingMsg
}

// Validate makes sure that this is sensible.
func (m *CreateOfferingMsg) Validate() error {
	return validateTerms(m.Price, m.ValidityPeriod, m.MetadataURI)
}

// UpdateOfferingMsg overwrites all mutable fields of an existing
// offering. Only the offering's provider may issue it. Already issued
// vouchers are not affected.
type UpdateOfferingMsg struct {
	OfferingID     []byte
	Price          coin.Coin
	ValidityPeriod scrip.UnixDuration
	Active         bool
	MetadataURI    string
}

// Path fulfills scrip.Msg interface to allow routing.
func (UpdateOfferingMsg) Path() string {
	return pathUpdateOfferingMsg
}

// Validate makes sure that this is sensible.
func (m *UpdateOfferingMsg) Validate() error {
	if err := validateOfferingID(m.OfferingID); err != nil {
		return err
	}
	return validateTerms(m.Price, m.ValidityPeriod, m.MetadataURI)
}

// validateTerms checks the purchase terms shared by create and update.
func validateTerms(price coin.Coin, validity scrip.UnixDuration, uri string) error {
	if err := price.Validate(); err != nil {
		return errors.Wrap(err, "price")
	}
	if !price.IsPositive() {
		return errors.Wrap(errors.ErrInput, "price must be positive")
	}
	if validity <= 0 {
		return errors.Wrap(errors.ErrInput, "validity period must be positive")
	}
	if len(uri) > maxMetadataURISize {
		return errors.Wrapf(errors.ErrInput, "metadata URI longer than %d", maxMetadataURISize)
	}
	return nil
}

func validateOfferingID(id []byte) error {
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "offering id: %X", id)
	}
	return nil
}
