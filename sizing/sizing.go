// Package sizing computes the (bucketCount, bucketCapacity,
// fingerprintLength) triple that meets a target false-positive rate for a
// given capacity, under an empirical load-factor model: the maximum load
// a bucket capacity can sustain before insertions start failing climbs
// with K, so the search below tries each K and keeps whichever total
// storage is smallest.
package sizing

import (
	"math"

	"github.com/bradenaw/cuckoo/errs"
)

// loadFactor is the empirical maximum load achievable for a given bucket
// capacity K before insertions start failing at an unacceptable rate.
var loadFactor = map[int]float64{
	2: 0.85,
	3: 0.91,
	4: 0.95,
	5: 0.96,
	6: 0.97,
	7: 0.98,
	8: 0.98,
}

// minK, maxK bound the bucket-capacity search space.
const (
	minK = 2
	maxK = 8
	// maxBucketCount is the exclusive upper bound on bucketCount (2^31).
	maxBucketCount = int64(1) << 31
)

// Calculate returns (bucketCount, bucketCapacity, fingerprintBits) that
// minimize total storage (bucketCount * bucketCapacity * fingerprintBits)
// while meeting targetFPR at the given capacity, searching bucket
// capacities 2..8. Ties are broken by iteration order (ascending K).
func Calculate(targetFPR float64, capacity int) (bucketCount, bucketCapacity, fingerprintBits int, err error) {
	if targetFPR <= 0 || targetFPR >= 1 {
		return 0, 0, 0, errs.Invalidf("sizing.Calculate", "targetFPR must be in (0,1), got %v", targetFPR)
	}
	if capacity < 1 {
		return 0, 0, 0, errs.Invalidf("sizing.Calculate", "capacity must be >= 1, got %d", capacity)
	}

	bestBits := int64(-1)
	var bestB, bestK, bestF int
	found := false

	for k := minK; k <= maxK; k++ {
		l := loadFactor[k]
		f := int(math.Ceil(-math.Log2(targetFPR) + math.Log2(float64(k)) + 1))
		b := int(math.Ceil(float64(capacity) / (float64(k) * l)))

		if f > 64 || int64(b) >= maxBucketCount {
			continue
		}

		total := int64(b) * int64(k) * int64(f)
		if !found || total < bestBits {
			bestBits = total
			bestB, bestK, bestF = b, k, f
			found = true
		}
	}

	if !found {
		return 0, 0, 0, errs.Invalidf("sizing.Calculate", "no (bucketCount, bucketCapacity, fingerprintLength) satisfies targetFPR=%v capacity=%d", targetFPR, capacity)
	}
	return bestB, bestK, bestF, nil
}
