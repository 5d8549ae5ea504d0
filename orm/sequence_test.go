package orm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/scrip/store"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("voucher", "id")

	first, err := s.NextInt(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	raw, err := s.NextVal(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), DecodeSequence(raw))

	latest, latestRaw, err := s.Latest(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), latest)
	assert.Equal(t, raw, latestRaw)
}

func TestSequenceValuesAreSorted(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("voucher", "id")

	prev, err := s.NextVal(db)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		next, err := s.NextVal(db)
		require.NoError(t, err)
		if bytes.Compare(prev, next) >= 0 {
			t.Fatalf("sequence value %x is not greater than %x", next, prev)
		}
		prev = next
	}
}

func TestSequencesAreIndependent(t *testing.T) {
	db := store.MemStore()
	a := NewSequence("voucher", "id")
	b := NewSequence("offering", "id")

	av, err := a.NextInt(db)
	require.NoError(t, err)
	bv, err := b.NextInt(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), av)
	assert.Equal(t, int64(1), bv)
}
