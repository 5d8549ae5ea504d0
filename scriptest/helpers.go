package scriptest

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/iov-one/scrip"
)

// NewCondition returns a random, unique condition that can stand in for
// any account identity in tests.
func NewCondition() scrip.Condition {
	data := make([]byte, 20)
	if _, err := rand.Read(data); err != nil {
		panic(err)
	}
	return scrip.NewCondition("test", "rand", data)
}

// SequenceID returns the n-th id as generated by an orm.Sequence. Useful
// when asserting on entities created with sequence-assigned ids.
func SequenceID(n int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(n))
	return b
}
