package table

import (
	"math/rand"

	"github.com/bradenaw/cuckoo/bitset"
	"github.com/bradenaw/cuckoo/errs"
)

// Uncompressed stores one fingerprint per slot at cell width W = F. It is
// the simplest layout: no shared bucket state, optimal when simplicity
// and speed matter more than the last bit per item.
type Uncompressed struct {
	bits     *bitset.BitArray
	buckets  int
	capacity int
	fpBits   int
	rng      *rand.Rand
}

// NewUncompressed builds an empty Uncompressed table of the given
// dimensions.
func NewUncompressed(buckets, capacity, fpBits int, rng *rand.Rand) (*Uncompressed, error) {
	if buckets < 1 {
		return nil, errs.Invalidf("table.NewUncompressed", "bucketCount must be >= 1, got %d", buckets)
	}
	if capacity < 1 || capacity > 128 {
		return nil, errs.Invalidf("table.NewUncompressed", "bucketCapacity must be in [1,128], got %d", capacity)
	}
	if fpBits < 1 || fpBits > 64 {
		return nil, errs.Invalidf("table.NewUncompressed", "fingerprintLength must be in [1,64], got %d", fpBits)
	}
	if rng == nil {
		return nil, errs.Invalid("table.NewUncompressed", "missing rng")
	}
	bits, err := bitset.New(buckets*capacity, fpBits)
	if err != nil {
		return nil, errs.Wrap("table.NewUncompressed", "failed to allocate backing bit array", err)
	}
	return &Uncompressed{bits: bits, buckets: buckets, capacity: capacity, fpBits: fpBits, rng: rng}, nil
}

func newUncompressedFromBody(buckets, capacity, fpBits int, body []byte, rng *rand.Rand) (*Uncompressed, error) {
	if buckets < 1 || capacity < 1 || capacity > 128 || fpBits < 1 || fpBits > 64 {
		return nil, errs.Invalid("table.Parse", "header dimensions out of range for an uncompressed table")
	}
	bits, err := bitset.FromBytes(buckets*capacity, fpBits, body)
	if err != nil {
		return nil, errs.Wrap("table.Parse", "truncated uncompressed table body", err)
	}
	return &Uncompressed{bits: bits, buckets: buckets, capacity: capacity, fpBits: fpBits, rng: rng}, nil
}

func (t *Uncompressed) slot(bucket, s int) int { return bucket*t.capacity + s }

// Contains implements Table.
func (t *Uncompressed) Contains(bucket int, fp uint64) bool {
	for s := 0; s < t.capacity; s++ {
		v, _ := t.bits.Get(t.slot(bucket, s))
		if v == fp {
			return true
		}
	}
	return false
}

// IsFull implements Table.
func (t *Uncompressed) IsFull(bucket int) bool {
	for s := 0; s < t.capacity; s++ {
		v, _ := t.bits.Get(t.slot(bucket, s))
		if v == 0 {
			return false
		}
	}
	return true
}

// InsertWithReplacement implements Table.
func (t *Uncompressed) InsertWithReplacement(bucket int, fp uint64) (uint64, bool) {
	for s := 0; s < t.capacity; s++ {
		i := t.slot(bucket, s)
		v, _ := t.bits.Get(i)
		if v == 0 {
			_ = t.bits.Set(i, fp)
			return 0, false
		}
	}
	victim := t.rng.Intn(t.capacity)
	i := t.slot(bucket, victim)
	old, _ := t.bits.Get(i)
	_ = t.bits.Set(i, fp)
	return old, true
}

// Delete implements Table.
func (t *Uncompressed) Delete(bucket int, fp uint64) bool {
	for s := 0; s < t.capacity; s++ {
		i := t.slot(bucket, s)
		v, _ := t.bits.Get(i)
		if v == fp {
			_ = t.bits.Set(i, 0)
			return true
		}
	}
	return false
}

// Size implements Table.
func (t *Uncompressed) Size() (int, int, int) { return t.buckets, t.capacity, t.fpBits }

// CountOccupied implements Table.
func (t *Uncompressed) CountOccupied() int {
	n := 0
	for i := 0; i < t.buckets*t.capacity; i++ {
		v, _ := t.bits.Get(i)
		if v != 0 {
			n++
		}
	}
	return n
}

// Kind implements Table.
func (t *Uncompressed) Kind() Kind { return Uncompressed }

// Serialize implements Table.
func (t *Uncompressed) Serialize() []byte {
	out := writeHeader(Uncompressed, t.buckets, t.capacity, t.fpBits)
	return append(out, t.bits.Bytes()...)
}

var _ Table = (*Uncompressed)(nil)
