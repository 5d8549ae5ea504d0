package store

import (
	"bytes"

	"github.com/google/btree"

	"github.com/iov-one/scrip"
	"github.com/iov-one/scrip/errors"
)

const (
	// DefaultFreeListSize is the size we hold for free nodes in the btree
	DefaultFreeListSize = btree.DefaultFreeListSize
)

// MemStore returns a simple implementation useful for tests.
// There is no persistence here....
func MemStore() scrip.CacheableKVStore {
	return NewBTreeCacheWrap(EmptyKVStore{}, nil)
}

// BTreeCacheWrap places a btree cache over a KVStore. All reads are
// answered from the cache when possible and all writes stay in the cache
// until Write copies them into the backing store, or Discard drops them.
type BTreeCacheWrap struct {
	bt   *btree.BTree
	free *btree.FreeList
	back scrip.KVStore
}

var _ scrip.KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap initializes a BTree to cache around this kv store.
//
// free may be nil, but set to an existing list to reuse it for memory
// savings.
func NewBTreeCacheWrap(kv scrip.KVStore, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:   btree.NewWithFreeList(2, free),
		free: free,
		back: kv,
	}
}

// CacheWrap layers another BTree on top of this one.
// Don't change horses in mid-stream....
func (b BTreeCacheWrap) CacheWrap() scrip.KVCacheWrap {
	return NewBTreeCacheWrap(b, b.free)
}

// Write syncs with the underlying store. And then cleans up.
func (b BTreeCacheWrap) Write() (err error) {
	b.bt.Ascend(func(i btree.Item) bool {
		it := i.(item)
		if it.deleted {
			err = b.back.Delete(it.key)
		} else {
			err = b.back.Set(it.key, it.value)
		}
		return err == nil
	})
	b.Discard()
	return errors.Wrap(err, "flush cache")
}

// Discard invalidates this CacheWrap and releases all data.
func (b BTreeCacheWrap) Discard() {
	// clean up the btree -> freelist
	for stop := false; !stop; {
		rem := b.bt.DeleteMin()
		stop = (rem == nil)
	}
}

// Set writes to the BTree cache.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	assertValidKey(key)
	b.bt.ReplaceOrInsert(newItem(key, value, false))
	return nil
}

// Delete marks the key as removed in the BTree cache.
func (b BTreeCacheWrap) Delete(key []byte) error {
	assertValidKey(key)
	b.bt.ReplaceOrInsert(newItem(key, nil, true))
	return nil
}

// Get reads from the BTree cache if the key was written there, otherwise
// falls through to the backing store.
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	assertValidKey(key)
	if res := b.bt.Get(bkey(key)); res != nil {
		it := res.(item)
		if it.deleted {
			return nil, nil
		}
		return it.value, nil
	}
	return b.back.Get(key)
}

// Has reads from the BTree cache if the key was written there, otherwise
// falls through to the backing store.
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	assertValidKey(key)
	if res := b.bt.Get(bkey(key)); res != nil {
		return !res.(item).deleted, nil
	}
	return b.back.Has(key)
}

func assertValidKey(key []byte) {
	if key == nil {
		panic("nil key is not allowed")
	}
}

// item is a btree node holding one cached write. A deleted item shadows
// any value in the backing store.
type item struct {
	key     []byte
	value   []byte
	deleted bool
}

// newItem makes defensive copies so later mutation of the caller's slices
// cannot corrupt the cache.
func newItem(key, value []byte, deleted bool) item {
	return item{
		key:     append([]byte(nil), key...),
		value:   append([]byte(nil), value...),
		deleted: deleted,
	}
}

// bkey is a query-only item for lookups.
func bkey(key []byte) item {
	return item{key: key}
}

func (i item) Less(than btree.Item) bool {
	return bytes.Compare(i.key, than.(item).key) < 0
}
