package fingerprint

import (
	"encoding/binary"

	"github.com/bradenaw/cuckoo/errs"
)

// DefaultMaxReplacementCount is the cuckoo random-walk bound used when a
// SimpleMod strategy isn't given an explicit override.
const DefaultMaxReplacementCount = 500

// SimpleMod is the reference Strategy: the fingerprint is the top F bits
// of the hash (remapping the zero case to 1, a small, documented skew
// that makes fingerprint value 1 about twice as likely as any other
// value), the primary bucket is the hash reduced modulo numBuckets, and
// the alternate bucket is H(fp) - bucket, reduced modulo numBuckets. That
// last form is an involution because negating and re-adding a fixed
// quantity is self-inverse.
type SimpleMod struct {
	bits                int
	hashFP              HashFunc
	maxReplacementCount int
}

// NewSimpleMod builds a SimpleMod strategy producing fingerprints of the
// given bit width, hashing fingerprint bytes with hashFP to compute the
// alternate bucket.
func NewSimpleMod(bits int, hashFP HashFunc) (*SimpleMod, error) {
	if bits < 1 || bits > 64 {
		return nil, errs.Invalidf("fingerprint.NewSimpleMod", "fingerprint bits must be in [1,64], got %d", bits)
	}
	if hashFP == nil {
		return nil, errs.Invalid("fingerprint.NewSimpleMod", "missing hash function")
	}
	return &SimpleMod{bits: bits, hashFP: hashFP, maxReplacementCount: DefaultMaxReplacementCount}, nil
}

// WithMaxReplacementCount returns a copy of s with the random-walk bound
// overridden.
func (s *SimpleMod) WithMaxReplacementCount(n int) *SimpleMod {
	cp := *s
	cp.maxReplacementCount = n
	return &cp
}

// Fingerprint implements Strategy.
func (s *SimpleMod) Fingerprint(hash uint64) uint64 {
	fp := hash >> uint(64-s.bits)
	if fp == 0 {
		return 1
	}
	return fp
}

// Bucket implements Strategy.
func (s *SimpleMod) Bucket(hash uint64, numBuckets int) int {
	return int(hash % uint64(numBuckets))
}

// AltBucket implements Strategy.
func (s *SimpleMod) AltBucket(fp uint64, bucket, numBuckets int) int {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], fp)
	h := int64(s.hashFP(b[:]) % uint64(numBuckets))
	return int(floorMod(h-int64(bucket), int64(numBuckets)))
}

// MaxReplacementCount implements Strategy.
func (s *SimpleMod) MaxReplacementCount() int {
	return s.maxReplacementCount
}

var _ Strategy = (*SimpleMod)(nil)
