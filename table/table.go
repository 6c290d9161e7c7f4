// Package table implements the bucket abstraction the cuckoo filter sits
// on top of: a fixed grid of B buckets of K slots each, in one of two
// interchangeable binary layouts. Both layouts share one wire format: a
// big-endian header identifying the layout and its dimensions, followed
// by the BitArray body in little-endian words.
package table

import (
	"encoding/binary"
	"math/rand"

	"github.com/bradenaw/cuckoo/errs"
)

// Kind identifies a Table's on-disk layout.
type Kind int32

const (
	// Uncompressed stores one fingerprint per slot, W = F bits wide.
	Uncompressed Kind = 0
	// SemiSorted dictionary-compresses each bucket's sorted low
	// nibbles, W = F-1 bits wide. Only legal for K == 4, F >= 4.
	SemiSorted Kind = 1
)

const headerLen = 16

// Table is the bucket abstraction both layouts implement.
type Table interface {
	// InsertWithReplacement fills an empty slot in bucket if one
	// exists, returning (0, false). Otherwise it evicts a uniformly
	// random occupied slot, writes fp there, and returns the evicted
	// fingerprint as (evicted, true).
	InsertWithReplacement(bucket int, fp uint64) (evicted uint64, ok bool)
	// Contains reports whether bucket holds fp.
	Contains(bucket int, fp uint64) bool
	// Delete removes the first slot in bucket equal to fp, reporting
	// whether one was found.
	Delete(bucket int, fp uint64) bool
	// IsFull reports whether bucket has no empty slot.
	IsFull(bucket int) bool
	// Size returns the table's (bucketCount, bucketCapacity,
	// fingerprintBits) triple.
	Size() (buckets, capacity, fingerprintBits int)
	// CountOccupied scans every slot and counts the non-empty ones.
	// It exists for callers reconstructing a count after
	// deserialization; it is never called from the filter's hot path.
	CountOccupied() int
	// Kind reports which wire layout this table uses.
	Kind() Kind
	// Serialize emits the self-describing byte encoding: a big-endian
	// header followed by the little-endian BitArray body.
	Serialize() []byte
}

func writeHeader(kind Kind, buckets, capacity, fingerprintBits int) []byte {
	out := make([]byte, headerLen)
	binary.BigEndian.PutUint32(out[0:4], uint32(int32(kind)))
	binary.BigEndian.PutUint32(out[4:8], uint32(int32(buckets)))
	binary.BigEndian.PutUint32(out[8:12], uint32(int32(capacity)))
	binary.BigEndian.PutUint32(out[12:16], uint32(int32(fingerprintBits)))
	return out
}

type header struct {
	kind     Kind
	buckets  int
	capacity int
	fpBits   int
}

func parseHeader(data []byte) (header, []byte, error) {
	if len(data) <= headerLen {
		return header{}, nil, errs.Parse("table.Parse", "blob is not longer than the 16-byte header")
	}
	kind := Kind(int32(binary.BigEndian.Uint32(data[0:4])))
	if kind != Uncompressed && kind != SemiSorted {
		return header{}, nil, errs.Parsef("table.Parse", "unknown table type %d", kind)
	}
	buckets := int(int32(binary.BigEndian.Uint32(data[4:8])))
	capacity := int(int32(binary.BigEndian.Uint32(data[8:12])))
	fpBits := int(int32(binary.BigEndian.Uint32(data[12:16])))
	body := data[headerLen:]
	if len(body)%8 != 0 {
		return header{}, nil, errs.Parse("table.Parse", "body is not a whole number of 8-byte words")
	}
	return header{kind: kind, buckets: buckets, capacity: capacity, fpBits: fpBits}, body, nil
}

// Parse reconstructs a Table from its serialized bytes. rng seeds the
// table's eviction-victim randomness; pass a deterministic source in
// tests.
func Parse(data []byte, rng *rand.Rand) (Table, error) {
	h, body, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	switch h.kind {
	case Uncompressed:
		return newUncompressedFromBody(h.buckets, h.capacity, h.fpBits, body, rng)
	case SemiSorted:
		return newSemiSortedFromBody(h.buckets, h.fpBits, body, rng)
	default:
		return nil, errs.Parsef("table.Parse", "unknown table type %d", h.kind)
	}
}
