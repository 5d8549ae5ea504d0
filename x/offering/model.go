package offering

import (
	"encoding/json"

	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/coin"
	"github.com/iov-one/scrip/errors"
	"github.com/iov-one/scrip/orm"
)

// BucketName is where we store the offerings.
const BucketName = "offering"

// Offering is a purchasable service definition published by a provider.
// The provider is set once at creation and is immutable. All other fields
// can be changed by the provider via UpdateOfferingMsg; such updates never
// affect vouchers that were already issued.
type Offering struct {
	Provider       scrip.Address      `json:"provider,omitempty"`
	Price          coin.Coin          `json:"price"`
	ValidityPeriod scrip.UnixDuration `json:"validity_period"`
	Active         bool               `json:"active"`
	MetadataURI    string             `json:"metadata_uri,omitempty"`
}

var _ orm.Model = (*Offering)(nil)

// Validate ensures the offering is valid.
func (o *Offering) Validate() error {
	if err := o.Provider.Validate(); err != nil {
		return errors.Wrap(err, "provider")
	}
	if err := o.Price.Validate(); err != nil {
		return errors.Wrap(err, "price")
	}
	if !o.Price.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "price must be positive")
	}
	if o.ValidityPeriod <= 0 {
		return errors.Wrap(errors.ErrInput, "validity period must be positive")
	}
	if len(o.MetadataURI) > maxMetadataURISize {
		return errors.Wrapf(errors.ErrInput, "metadata URI longer than %d", maxMetadataURISize)
	}
	return nil
}

// Copy makes a new offering with the same content.
func (o *Offering) Copy() orm.Model {
	return &Offering{
		Provider:       append(scrip.Address(nil), o.Provider...),
		Price:          o.Price,
		ValidityPeriod: o.ValidityPeriod,
		Active:         o.Active,
		MetadataURI:    o.MetadataURI,
	}
}

func (o *Offering) Marshal() ([]byte, error) {
	return json.Marshal(o)
}

func (o *Offering) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, o)
}

// NewBucket initializes the offering bucket.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

var offeringSeq = orm.NewSequence(BucketName, "id")

// GetOffering returns the offering stored under the given id. Unknown ids
// return the zero offering; callers must treat a nil provider as "not
// found".
func GetOffering(db scrip.ReadOnlyKVStore, id []byte) (*Offering, error) {
	var o Offering
	switch err := NewBucket().One(db, id, &o); {
	case errors.ErrNotFound.Is(err):
		return &Offering{}, nil
	case err != nil:
		return nil, err
	}
	return &o, nil
}
