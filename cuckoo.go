package cuckoo

import (
	"math/rand"

	"github.com/bradenaw/cuckoo/fingerprint"
	"github.com/bradenaw/cuckoo/hashfunc"
	"github.com/bradenaw/cuckoo/table"
)

// Filter is a cuckoo filter: an approximate-membership-query structure
// supporting insertion, membership queries and deletion, with no false
// negatives as long as Delete is only called on previously inserted
// elements. It is a single-owner, mutable object: it is not safe for
// concurrent mutation, and every operation runs synchronously to
// completion with no hidden I/O.
type Filter struct {
	tbl      table.Table
	strategy fingerprint.Strategy
	hash     hashfunc.HashFunction
	rng      *rand.Rand
	count    int
}

// Stats summarizes a filter's current dimensions and occupancy.
type Stats struct {
	Count           int
	BucketCount     int
	BucketCapacity  int
	FingerprintBits int
	Load            float64
}

func (f *Filter) locate(x []byte) (fp uint64, bucket, altBucket int) {
	h := f.hash.Sum64(x)
	numBuckets, _, _ := f.tbl.Size()
	fp = f.strategy.Fingerprint(h)
	bucket = f.strategy.Bucket(h, numBuckets)
	altBucket = f.strategy.AltBucket(fp, bucket, numBuckets)
	return
}

// Contains reports whether x might be a member of the filter. A false
// result is definitive; a true result may be a false positive.
func (f *Filter) Contains(x []byte) bool {
	fp, bucket, altBucket := f.locate(x)
	return f.tbl.Contains(bucket, fp) || f.tbl.Contains(altBucket, fp)
}

// Insert adds x to the filter. It returns false if the filter is near
// capacity and the cuckoo random walk could not find room within the
// strategy's replacement budget; in that case every bucket is left
// holding the same fingerprints it held before the call, though the order
// of slots within a bucket is not guaranteed to be restored.
func (f *Filter) Insert(x []byte) bool {
	fp, bucket, altBucket := f.locate(x)

	if !f.tbl.IsFull(bucket) {
		f.tbl.InsertWithReplacement(bucket, fp)
		f.count++
		return true
	}
	if !f.tbl.IsFull(altBucket) {
		f.tbl.InsertWithReplacement(altBucket, fp)
		f.count++
		return true
	}

	start := bucket
	if f.rng.Intn(2) == 1 {
		start = altBucket
	}
	if f.randomWalk(start, fp) {
		f.count++
		return true
	}
	return false
}

// randomWalk runs the cuckoo eviction chain starting at bucket with fp,
// up to the strategy's MaxReplacementCount. On success it returns true
// with fp (or a displaced fingerprint) resting in an empty slot. On
// failure it rolls every bucket back to the fingerprints it held before
// the call and returns false.
func (f *Filter) randomWalk(bucket int, fp uint64) bool {
	maxN := f.strategy.MaxReplacementCount()
	numBuckets, _, _ := f.tbl.Size()

	visitedBuckets := make([]int, 1, maxN+1)
	visitedBuckets[0] = -1 // sentinel, never dereferenced
	replaced := make([]uint64, 1, maxN+1)
	replaced[0] = fp

	currentBucket := bucket
	currentFP := fp

	for i := 0; i < maxN; i++ {
		evicted, ok := f.tbl.InsertWithReplacement(currentBucket, currentFP)
		if !ok {
			return true
		}
		visitedBuckets = append(visitedBuckets, currentBucket)
		replaced = append(replaced, evicted)
		currentFP = evicted
		currentBucket = f.strategy.AltBucket(evicted, currentBucket, numBuckets)
	}

	// Budget exhausted: roll every eviction back in reverse order so each
	// bucket ends up with the same fingerprints as before randomWalk ran.
	// Delete clears the first matching slot and the re-insert fills the
	// first empty one, so slot order within a bucket may differ.
	for i := len(visitedBuckets) - 1; i >= 1; i-- {
		f.tbl.Delete(visitedBuckets[i], replaced[i-1])
		f.tbl.InsertWithReplacement(visitedBuckets[i], replaced[i])
	}
	return false
}

// Delete removes x from the filter if present, returning whether it was
// found. Delete must only be called on elements believed to be present:
// calling it on an absent element may remove an unrelated, colliding
// fingerprint, which would make that other element's later Contains call
// a false negative.
func (f *Filter) Delete(x []byte) bool {
	fp, bucket, altBucket := f.locate(x)
	if f.tbl.Delete(bucket, fp) {
		f.count--
		return true
	}
	if f.tbl.Delete(altBucket, fp) {
		f.count--
		return true
	}
	return false
}

// Count returns the number of successful inserts minus successful
// deletes since the filter was created, or since it was last
// reconstructed from serialized bytes (see RecountFromTable).
func (f *Filter) Count() int { return f.count }

// Load returns Count divided by the total number of slots, in [0, 1].
// Like Count, it reads 0 on a filter reconstructed from bytes until
// RecountFromTable is called.
func (f *Filter) Load() float64 {
	buckets, capacity, _ := f.tbl.Size()
	total := buckets * capacity
	if total == 0 {
		return 0
	}
	return float64(f.count) / float64(total)
}

// Stats reports the filter's current dimensions, count and load.
func (f *Filter) Stats() Stats {
	buckets, capacity, fpBits := f.tbl.Size()
	return Stats{
		Count:           f.count,
		BucketCount:     buckets,
		BucketCapacity:  capacity,
		FingerprintBits: fpBits,
		Load:            f.Load(),
	}
}

// RecountFromTable rescans every slot and resets Count (and therefore
// Load) to the number of occupied slots found. Serialization does not
// persist the count: a filter reconstructed via NewFilterFromBytes
// starts with Count() == 0 until this is called.
func (f *Filter) RecountFromTable() {
	f.count = f.tbl.CountOccupied()
}

// Serialize delegates to the underlying table, emitting its
// self-describing byte encoding (big-endian header, little-endian body).
func (f *Filter) Serialize() []byte {
	return f.tbl.Serialize()
}
