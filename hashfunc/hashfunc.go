// Package hashfunc provides the 64-bit entropy source and the byte-funnel
// glue that sit outside THE CORE of this module: the filter consumes a
// HashFunction and a Funnel, but neither's internals are part of the
// cuckoo-filter algorithm itself.
package hashfunc

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// HashFunction supplies 64+ bits of entropy for an arbitrary byte slice.
// Implementations need not be cryptographically secure.
type HashFunction interface {
	Sum64(data []byte) uint64
}

// XXHash64 is a HashFunction backed by xxHash, the same high-throughput,
// non-cryptographic hash HyperCache wires into its own cuckoo filter.
type XXHash64 struct{}

// Sum64 implements HashFunction.
func (XXHash64) Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Funnel serializes a value of type T to bytes for hashing. The funnel is
// the only place a caller's domain type touches this module: insert,
// contains and delete ultimately operate on the funneled bytes.
type Funnel[T any] func(v T) []byte

// BytesFunnel is the identity funnel for values that are already bytes.
func BytesFunnel(v []byte) []byte { return v }

// StringFunnel funnels a string via its UTF-8 bytes.
func StringFunnel(v string) []byte { return []byte(v) }

// Uint64Funnel funnels a uint64 via its little-endian encoding.
func Uint64Funnel(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// Int64Funnel funnels an int64 via its unsigned little-endian encoding.
func Int64Funnel(v int64) []byte {
	return Uint64Funnel(uint64(v))
}
