package offering

import (
	"fmt"

	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/errors"
	"github.com/iov-one/scrip/orm"
	"github.com/iov-one/scrip/x"
)

// Event types emitted by this extension.
const (
	EventOfferingCreated = "offering/created"
	EventOfferingUpdated = "offering/updated"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r scrip.Registry, auth x.Authenticator) {
	bucket := NewBucket()

	r.Handle(pathCreateOfferingMsg, CreateOfferingHandler{auth, bucket})
	r.Handle(pathUpdateOfferingMsg, UpdateOfferingHandler{auth, bucket})
}

// CreateOfferingHandler publishes new offerings.
type CreateOfferingHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ scrip.Handler = CreateOfferingHandler{}

// Deliver stores a new active offering owned by the main signer.
func (h CreateOfferingHandler) Deliver(ctx scrip.Context, db scrip.KVStore, tx scrip.Tx) (*scrip.DeliverResult, error) {
	var msg CreateOfferingMsg
	if err := scrip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}

	key, err := offeringSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire key")
	}

	off := &Offering{
		Provider:       signer.Address(),
		Price:          msg.Price,
		ValidityPeriod: msg.ValidityPeriod,
		Active:         true,
		MetadataURI:    msg.MetadataURI,
	}
	if err := h.bucket.Put(db, key, off); err != nil {
		return nil, errors.Wrap(err, "cannot store offering")
	}

	res := &scrip.DeliverResult{
		Data: key,
		Events: []scrip.Event{
			scrip.NewEvent(EventOfferingCreated,
				"offering_id", fmt.Sprintf("%X", key),
				"provider", off.Provider.String(),
				"price", off.Price.String(),
			),
		},
	}
	return res, nil
}

// UpdateOfferingHandler overwrites the mutable fields of an offering.
type UpdateOfferingHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ scrip.Handler = UpdateOfferingHandler{}

// Deliver updates the offering with the message values if all
// preconditions are met. Issued vouchers keep their original terms.
func (h UpdateOfferingHandler) Deliver(ctx scrip.Context, db scrip.KVStore, tx scrip.Tx) (*scrip.DeliverResult, error) {
	msg, off, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	off.Price = msg.Price
	off.ValidityPeriod = msg.ValidityPeriod
	off.Active = msg.Active
	off.MetadataURI = msg.MetadataURI

	if err := h.bucket.Put(db, msg.OfferingID, off); err != nil {
		return nil, errors.Wrap(err, "cannot save")
	}

	res := &scrip.DeliverResult{
		Events: []scrip.Event{
			scrip.NewEvent(EventOfferingUpdated,
				"offering_id", fmt.Sprintf("%X", msg.OfferingID),
				"active", fmt.Sprint(off.Active),
			),
		},
	}
	return res, nil
}

// validate does all state dependent checks before executing the update.
func (h UpdateOfferingHandler) validate(ctx scrip.Context, db scrip.KVStore, tx scrip.Tx) (*UpdateOfferingMsg, *Offering, error) {
	var msg UpdateOfferingMsg
	if err := scrip.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	var off Offering
	if err := h.bucket.One(db, msg.OfferingID, &off); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load offering from the store")
	}

	if !h.auth.HasAddress(ctx, off.Provider) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the provider can update")
	}

	return &msg, &off, nil
}
