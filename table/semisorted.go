package table

import (
	"math/rand"

	"github.com/bradenaw/cuckoo/bitset"
	"github.com/bradenaw/cuckoo/errs"
)

// semiSortedCapacity is the only bucket capacity the semi-sorted layout
// supports: the nibble-dictionary compression is defined over 4-tuples.
const semiSortedCapacity = 4

// SemiSorted dictionary-compresses each bucket's four fingerprints by
// exploiting that intra-bucket order is irrelevant: the low nibble of
// each fingerprint is stored as a sorted-multiset index (one of the 3876
// non-decreasing 4-tuples over [0,16)) instead of four independent
// nibbles, saving one bit per slot versus Uncompressed. The high part of
// each fingerprint is stored alongside the index chunk that originally
// identified its position, so decode re-pairs them positionally; see
// enum.go for the shared enumeration table.
type SemiSorted struct {
	bits    *bitset.BitArray
	buckets int
	fpBits  int
	rng     *rand.Rand
}

// NewSemiSorted builds an empty SemiSorted table. fpBits must be >= 4.
func NewSemiSorted(buckets, fpBits int, rng *rand.Rand) (*SemiSorted, error) {
	if buckets < 1 {
		return nil, errs.Invalidf("table.NewSemiSorted", "bucketCount must be >= 1, got %d", buckets)
	}
	if fpBits < 4 || fpBits > 64 {
		return nil, errs.Invalidf("table.NewSemiSorted", "fingerprintLength must be in [4,64] for the semi-sorted layout, got %d", fpBits)
	}
	if rng == nil {
		return nil, errs.Invalid("table.NewSemiSorted", "missing rng")
	}
	ensureEnum()
	bits, err := bitset.New(buckets*semiSortedCapacity, fpBits-1)
	if err != nil {
		return nil, errs.Wrap("table.NewSemiSorted", "failed to allocate backing bit array", err)
	}
	return &SemiSorted{bits: bits, buckets: buckets, fpBits: fpBits, rng: rng}, nil
}

func newSemiSortedFromBody(buckets, fpBits int, body []byte, rng *rand.Rand) (*SemiSorted, error) {
	if buckets < 1 || fpBits < 4 || fpBits > 64 {
		return nil, errs.Invalid("table.Parse", "header dimensions out of range for a semi-sorted table")
	}
	ensureEnum()
	bits, err := bitset.FromBytes(buckets*semiSortedCapacity, fpBits-1, body)
	if err != nil {
		return nil, errs.Wrap("table.Parse", "truncated semi-sorted table body", err)
	}
	return &SemiSorted{bits: bits, buckets: buckets, fpBits: fpBits, rng: rng}, nil
}

func (t *SemiSorted) decode(bucket int) [4]uint64 {
	var cells [4]uint64
	for i := 0; i < 4; i++ {
		cells[i], _ = t.bits.Get(bucket*4 + i)
	}
	idx := int((cells[3]&7)<<9 | (cells[2]&7)<<6 | (cells[1]&7)<<3 | (cells[0] & 7))
	tag := enumForward[idx]
	nibble := [4]uint64{
		uint64((tag >> 12) & 0xF),
		uint64((tag >> 8) & 0xF),
		uint64((tag >> 4) & 0xF),
		uint64(tag & 0xF),
	}
	var fps [4]uint64
	for i := 0; i < 4; i++ {
		high := cells[i] >> 3
		fps[i] = (high << 4) | nibble[i]
	}
	return fps
}

func (t *SemiSorted) encode(bucket int, fps [4]uint64) {
	var high, low [4]uint64
	for i, fp := range fps {
		high[i] = fp >> 4
		low[i] = fp & 0xF
	}
	// Stable-enough insertion sort of indices by low nibble; order
	// within equal keys doesn't matter since the bucket is a multiset.
	order := [4]int{0, 1, 2, 3}
	for i := 1; i < 4; i++ {
		for j := i; j > 0 && low[order[j-1]] > low[order[j]]; j-- {
			order[j-1], order[j] = order[j], order[j-1]
		}
	}
	tag := uint16(low[order[0]]<<12 | low[order[1]]<<8 | low[order[2]]<<4 | low[order[3]])
	idx := uint64(enumReverse[tag])
	chunks := [4]uint64{idx & 7, (idx >> 3) & 7, (idx >> 6) & 7, (idx >> 9) & 7}
	for i := 0; i < 4; i++ {
		cell := (high[order[i]] << 3) | chunks[i]
		_ = t.bits.Set(bucket*4+i, cell)
	}
}

// Contains implements Table.
func (t *SemiSorted) Contains(bucket int, fp uint64) bool {
	fps := t.decode(bucket)
	for _, v := range fps {
		if v == fp {
			return true
		}
	}
	return false
}

// IsFull implements Table.
func (t *SemiSorted) IsFull(bucket int) bool {
	fps := t.decode(bucket)
	for _, v := range fps {
		if v == 0 {
			return false
		}
	}
	return true
}

// InsertWithReplacement implements Table.
func (t *SemiSorted) InsertWithReplacement(bucket int, fp uint64) (uint64, bool) {
	fps := t.decode(bucket)
	for i, v := range fps {
		if v == 0 {
			fps[i] = fp
			t.encode(bucket, fps)
			return 0, false
		}
	}
	victim := t.rng.Intn(4)
	old := fps[victim]
	fps[victim] = fp
	t.encode(bucket, fps)
	return old, true
}

// Delete implements Table.
func (t *SemiSorted) Delete(bucket int, fp uint64) bool {
	fps := t.decode(bucket)
	for i, v := range fps {
		if v == fp {
			fps[i] = 0
			t.encode(bucket, fps)
			return true
		}
	}
	return false
}

// Size implements Table.
func (t *SemiSorted) Size() (int, int, int) { return t.buckets, semiSortedCapacity, t.fpBits }

// CountOccupied implements Table.
func (t *SemiSorted) CountOccupied() int {
	n := 0
	for b := 0; b < t.buckets; b++ {
		for _, v := range t.decode(b) {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// Kind implements Table.
func (t *SemiSorted) Kind() Kind { return SemiSorted }

// Serialize implements Table.
func (t *SemiSorted) Serialize() []byte {
	out := writeHeader(SemiSorted, t.buckets, semiSortedCapacity, t.fpBits)
	return append(out, t.bits.Bytes()...)
}

var _ Table = (*SemiSorted)(nil)
