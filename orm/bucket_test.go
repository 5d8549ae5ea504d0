package orm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/scrip/errors"
	"github.com/iov-one/scrip/store"
)

type counter struct {
	Count int64 `json:"count"`
}

var _ Model = (*counter)(nil)

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative count")
	}
	return nil
}

func (c *counter) Copy() Model {
	return &counter{Count: c.Count}
}

func (c *counter) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *counter) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}

func TestModelBucketPutOne(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	require.NoError(t, b.Put(db, []byte("c1"), &counter{Count: 1}))

	var c counter
	require.NoError(t, b.One(db, []byte("c1"), &c))
	assert.Equal(t, int64(1), c.Count)

	err := b.One(db, []byte("unknown"), &c)
	assert.True(t, errors.ErrNotFound.Is(err), "want not found, got %+v", err)
}

func TestModelBucketPutValidates(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	err := b.Put(db, []byte("c1"), &counter{Count: -1})
	require.Error(t, err)
	assert.True(t, errors.ErrState.Is(err), "unexpected error: %+v", err)

	has, err := b.Has(db, []byte("c1"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestModelBucketRequiresKey(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	err := b.Put(db, nil, &counter{Count: 1})
	assert.True(t, errors.ErrEmpty.Is(err), "unexpected error: %+v", err)
}

func TestModelBucketDelete(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	err := b.Delete(db, []byte("c1"))
	assert.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)

	require.NoError(t, b.Put(db, []byte("c1"), &counter{Count: 1}))
	require.NoError(t, b.Delete(db, []byte("c1")))

	var c counter
	err = b.One(db, []byte("c1"), &c)
	assert.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)
}

func TestBucketsDoNotShareKeys(t *testing.T) {
	db := store.MemStore()
	a := NewModelBucket("aaa")
	b := NewModelBucket("bbb")

	require.NoError(t, a.Put(db, []byte("k"), &counter{Count: 7}))

	var c counter
	err := b.One(db, []byte("k"), &c)
	assert.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)
}

func TestBucketName(t *testing.T) {
	assert.Panics(t, func() { NewModelBucket("BAD NAME") })
}
