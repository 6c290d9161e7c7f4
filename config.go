package cuckoo

import (
	"math/rand"

	"github.com/bradenaw/cuckoo/errs"
	"github.com/bradenaw/cuckoo/fingerprint"
	"github.com/bradenaw/cuckoo/hashfunc"
	"github.com/bradenaw/cuckoo/sizing"
	"github.com/bradenaw/cuckoo/table"
)

// Config describes a new filter's dimensions and dependencies. Callers
// choose one of two ways to size the table: either set Capacity and
// TargetFalsePositiveRate and let sizing.Calculate pick dimensions, or
// set BucketCount, BucketCapacity and FingerprintBits directly to take
// full control.
type Config struct {
	// Capacity is the number of items the filter should hold before its
	// false-positive rate starts climbing past TargetFalsePositiveRate.
	// Ignored if BucketCount is nonzero.
	Capacity int
	// TargetFalsePositiveRate is the false-positive rate to size for.
	// Ignored if BucketCount is nonzero.
	TargetFalsePositiveRate float64

	// BucketCount, BucketCapacity and FingerprintBits, if BucketCount is
	// nonzero, bypass sizing.Calculate and size the table directly.
	BucketCount     int
	BucketCapacity  int
	FingerprintBits int

	// SpaceOptimized requests the semi-sorted table layout, which saves
	// one bit per slot. It silently falls back to the uncompressed
	// layout when the chosen dimensions don't satisfy the semi-sorted
	// layout's K==4, F>=4 requirement, since that fallback is a pure
	// space/no-op tradeoff rather than a correctness one.
	SpaceOptimized bool

	// HashFunction supplies the filter's entropy. Defaults to
	// hashfunc.XXHash64{} if nil.
	HashFunction hashfunc.HashFunction

	// Seed seeds the eviction-victim random source. Two filters built
	// with the same Seed and the same sequence of operations make the
	// same eviction choices.
	Seed int64

	// MaxReplacementCount overrides the cuckoo random walk's bound. Zero
	// means fingerprint.DefaultMaxReplacementCount.
	MaxReplacementCount int
}

// NewFilter builds a Filter from cfg.
func NewFilter(cfg Config) (*Filter, error) {
	hash := cfg.HashFunction
	if hash == nil {
		hash = hashfunc.XXHash64{}
	}

	buckets, capacity, fpBits := cfg.BucketCount, cfg.BucketCapacity, cfg.FingerprintBits
	if buckets == 0 {
		var err error
		buckets, capacity, fpBits, err = sizing.Calculate(cfg.TargetFalsePositiveRate, cfg.Capacity)
		if err != nil {
			return nil, errs.Wrap("cuckoo.NewFilter", "sizing from capacity and target false-positive rate failed", err)
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	var tbl table.Table
	var err error
	if cfg.SpaceOptimized && capacity == 4 && fpBits >= 4 {
		tbl, err = table.NewSemiSorted(buckets, fpBits, rng)
	} else {
		tbl, err = table.NewUncompressed(buckets, capacity, fpBits, rng)
	}
	if err != nil {
		return nil, errs.Wrap("cuckoo.NewFilter", "table construction failed", err)
	}

	strategy, err := fingerprint.NewSimpleMod(fpBits, hash.Sum64)
	if err != nil {
		return nil, errs.Wrap("cuckoo.NewFilter", "strategy construction failed", err)
	}
	if cfg.MaxReplacementCount > 0 {
		strategy = strategy.WithMaxReplacementCount(cfg.MaxReplacementCount)
	}

	return &Filter{tbl: tbl, strategy: strategy, hash: hash, rng: rng, count: 0}, nil
}

// NewFilterForCapacity is a convenience wrapper around NewFilter for the
// common case: size by capacity and target false-positive rate with the
// default hash function and table layout.
func NewFilterForCapacity(capacity int, targetFPR float64) (*Filter, error) {
	return NewFilter(Config{Capacity: capacity, TargetFalsePositiveRate: targetFPR})
}

// NewFilterFromBytes reconstructs a Filter from bytes produced by
// Filter.Serialize. The reconstructed filter's Count starts at zero,
// since the wire format does not persist it; call RecountFromTable to
// scan the table and restore an accurate count.
func NewFilterFromBytes(data []byte, hash hashfunc.HashFunction, seed int64) (*Filter, error) {
	if hash == nil {
		hash = hashfunc.XXHash64{}
	}
	rng := rand.New(rand.NewSource(seed))

	tbl, err := table.Parse(data, rng)
	if err != nil {
		return nil, errs.Wrap("cuckoo.NewFilterFromBytes", "failed to parse table bytes", err)
	}
	_, _, fpBits := tbl.Size()

	strategy, err := fingerprint.NewSimpleMod(fpBits, hash.Sum64)
	if err != nil {
		return nil, errs.Wrap("cuckoo.NewFilterFromBytes", "strategy construction failed", err)
	}

	return &Filter{tbl: tbl, strategy: strategy, hash: hash, rng: rng, count: 0}, nil
}
