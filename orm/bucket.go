package orm

import (
	"regexp"

	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/errors"
)

// isBucketName limits the bucket names to avoid prefix collisions between
// buckets sharing one KVStore.
var isBucketName = regexp.MustCompile(`^[a-z]{3,10}$`).MatchString

// ModelBucket is implemented by buckets that operate on Models. Each
// bucket is an indexed arena: it owns all entities stored under its name
// prefix and is the only component allowed to read or write them.
type ModelBucket interface {
	// One queries the database for a single model instance. Lookup is
	// done by the primary key. The result is loaded into the given
	// destination model.
	// This method returns ErrNotFound if the entity does not exist in
	// the database.
	One(db scrip.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns true if an entity with the given primary key exists.
	Has(db scrip.ReadOnlyKVStore, key []byte) (bool, error)

	// Put saves given model in the database. The model is validated
	// before it is written.
	Put(db scrip.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db scrip.KVStore, key []byte) error
}

// NewModelBucket returns a ModelBucket instance owning all keys under the
// given bucket name.
func NewModelBucket(name string) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	return &modelBucket{
		prefix: []byte(name + ":"),
	}
}

type modelBucket struct {
	prefix []byte
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	return append(append([]byte(nil), mb.prefix...), key...)
}

func (mb *modelBucket) One(db scrip.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal into %T", dest)
	}
	return nil
}

func (mb *modelBucket) Has(db scrip.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(mb.dbKey(key))
}

func (mb *modelBucket) Put(db scrip.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %T", m)
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db scrip.KVStore, key []byte) error {
	dbkey := mb.dbKey(key)
	has, err := db.Has(dbkey)
	if err != nil {
		return err
	}
	if !has {
		return errors.Wrap(errors.ErrNotFound, "no entity under this key")
	}
	return db.Delete(dbkey)
}
