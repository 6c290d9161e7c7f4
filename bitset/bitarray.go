// Package bitset implements BitArray, a dense array of fixed-width cells
// packed into 64-bit words. It underlies both table layouts in the
// sibling table package: the uncompressed layout stores one fingerprint
// per cell, the semi-sorted layout stores a compressed per-slot value.
package bitset

import (
	"encoding/binary"
	"math"

	"github.com/bradenaw/cuckoo/errs"
)

// BitArray is a dense array of n cells, each w bits wide (1 <= w <= 64),
// backed by an ordered sequence of 64-bit words.
type BitArray struct {
	words []uint64
	n     int
	w     int
}

// New allocates a zeroed BitArray of n cells, each w bits wide.
func New(n, w int) (*BitArray, error) {
	if n <= 0 {
		return nil, errs.Invalidf("bitset.New", "length must be positive, got %d", n)
	}
	if w < 1 || w > 64 {
		return nil, errs.Invalidf("bitset.New", "bitsPerElement must be in [1,64], got %d", w)
	}
	// N >= 2^31 * 64 is rejected outright, independent of the word-count
	// overflow check below, per the BitArray contract.
	const maxN = int64(1) << 31 * 64
	if int64(n) >= maxN {
		return nil, errs.Invalidf("bitset.New", "length %d is too large", n)
	}
	wordCount := wordsFor(n, w)
	if wordCount > math.MaxInt32 {
		return nil, errs.Invalidf("bitset.New", "word count for n=%d w=%d overflows a 32-bit index", n, w)
	}
	return &BitArray{words: make([]uint64, wordCount), n: n, w: w}, nil
}

func wordsFor(n, w int) int64 {
	totalBits := int64(n) * int64(w)
	return (totalBits + 63) / 64
}

func mask(w int) uint64 {
	if w == 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(w)) - 1
}

// Len returns the number of cells.
func (a *BitArray) Len() int { return a.n }

// BitsPerElement returns the configured cell width.
func (a *BitArray) BitsPerElement() int { return a.w }

// Get returns the cell at index i in the low w bits of the result.
func (a *BitArray) Get(i int) (uint64, error) {
	if i < 0 || i >= a.n {
		return 0, errs.Invalidf("bitset.Get", "index %d out of range [0,%d)", i, a.n)
	}
	bitStart := int64(i) * int64(a.w)
	bitEnd := bitStart + int64(a.w)
	word1 := bitStart / 64
	word2 := (bitEnd - 1) / 64
	off := uint(bitStart % 64)
	m := mask(a.w)

	if word1 == word2 {
		return (a.words[word1] >> off) & m, nil
	}
	lowBits := 64 - off
	low := a.words[word1] >> off
	high := a.words[word2] << lowBits
	return (low | high) & m, nil
}

// Set writes the low w bits of v into cell i.
func (a *BitArray) Set(i int, v uint64) error {
	if i < 0 || i >= a.n {
		return errs.Invalidf("bitset.Set", "index %d out of range [0,%d)", i, a.n)
	}
	bitStart := int64(i) * int64(a.w)
	bitEnd := bitStart + int64(a.w)
	word1 := bitStart / 64
	word2 := (bitEnd - 1) / 64
	off := uint(bitStart % 64)
	m := mask(a.w)
	v &= m

	if word1 == word2 {
		clear := ^(m << off)
		a.words[word1] = (a.words[word1] & clear) | (v << off)
		return nil
	}
	lowBits := uint(64) - off
	clear1 := ^(^uint64(0) << off)
	a.words[word1] = (a.words[word1] & clear1) | (v << off)

	highMask := m >> lowBits
	clear2 := ^highMask
	a.words[word2] = (a.words[word2] & clear2) | (v >> lowBits)
	return nil
}

// Bytes emits the backing words in little-endian order, 8 bytes per word.
func (a *BitArray) Bytes() []byte {
	out := make([]byte, 8*len(a.words))
	for i, w := range a.words {
		binary.LittleEndian.PutUint64(out[i*8:], w)
	}
	return out
}

// FromBytes rebuilds a BitArray of n cells of w bits from its byte
// encoding. The byte count must match exactly.
func FromBytes(n, w int, data []byte) (*BitArray, error) {
	a, err := New(n, w)
	if err != nil {
		return nil, err
	}
	wantLen := 8 * len(a.words)
	if len(data) != wantLen {
		return nil, errs.Invalidf("bitset.FromBytes", "expected %d bytes, got %d", wantLen, len(data))
	}
	for i := range a.words {
		a.words[i] = binary.LittleEndian.Uint64(data[i*8:])
	}
	return a, nil
}
