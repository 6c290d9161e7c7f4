package cuckoo

import (
	"encoding/binary"
	"testing"

	"github.com/bradenaw/cuckoo/hashfunc"
	"github.com/stretchr/testify/require"
)

func keyFor(i int) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(i))
	return b
}

// A filter filled to 95% of its slots (380 of 100*4) keeps every
// inserted key present and holds a false-positive rate far below 1% on
// keys that were never inserted.
func TestInsertedKeysStayPresentWithLowFalsePositiveRate(t *testing.T) {
	f, err := NewFilter(Config{BucketCount: 100, BucketCapacity: 4, FingerprintBits: 16, Seed: 1})
	require.NoError(t, err)

	for i := 0; i < 380; i++ {
		require.True(t, f.Insert(keyFor(i)), "insert %d", i)
	}
	for i := 0; i < 380; i++ {
		require.True(t, f.Contains(keyFor(i)), "contains %d", i)
	}

	falsePositives := 0
	for i := 380; i < 680; i++ {
		if f.Contains(keyFor(i)) {
			falsePositives++
		}
	}
	require.Less(t, float64(falsePositives)/300.0, 0.01)
}

// An element has exactly two candidate buckets, so repeatedly inserting
// the same one can only succeed until both buckets are at capacity:
// 2*K = 8 times here.
func TestRepeatedInsertOfSameElementFillsBothBuckets(t *testing.T) {
	f, err := NewFilter(Config{BucketCount: 100, BucketCapacity: 4, FingerprintBits: 16, Seed: 1})
	require.NoError(t, err)

	successes := 0
	for {
		if !f.Insert(keyFor(0)) {
			break
		}
		successes++
	}
	require.Equal(t, 8, successes)
}

// Inserting keys until the first failure leaves every earlier key
// present and the failed key absent, demonstrating that a failed insert
// rolls itself all the way back.
func TestInsertUntilFullThenRollback(t *testing.T) {
	f, err := NewFilter(Config{BucketCount: 100, BucketCapacity: 4, FingerprintBits: 16, Seed: 1})
	require.NoError(t, err)

	n := 0
	for f.Insert(keyFor(n)) {
		n++
	}

	for i := 0; i < n; i++ {
		require.True(t, f.Contains(keyFor(i)), "contains %d", i)
	}
	require.False(t, f.Contains(keyFor(n)))
}

// Serializing a filter and reconstructing it with the same hash function
// preserves membership for everything inserted before the round trip.
func TestSerializeRoundTripPreservesMembership(t *testing.T) {
	f1, err := NewFilter(Config{BucketCount: 100, BucketCapacity: 4, FingerprintBits: 16, Seed: 1})
	require.NoError(t, err)

	for i := 0; i < 300; i++ {
		require.True(t, f1.Insert(keyFor(i)))
	}

	blob := f1.Serialize()
	f2, err := NewFilterFromBytes(blob, hashfunc.XXHash64{}, 2)
	require.NoError(t, err)

	for i := 0; i < 300; i++ {
		require.True(t, f2.Contains(keyFor(i)), "contains %d", i)
	}
	require.False(t, f2.Contains(keyFor(300)))
}

func TestCountTracksInsertsAndDeletes(t *testing.T) {
	f, err := NewFilter(Config{BucketCount: 50, BucketCapacity: 4, FingerprintBits: 16, Seed: 1})
	require.NoError(t, err)

	require.Equal(t, 0, f.Count())
	for i := 0; i < 10; i++ {
		require.True(t, f.Insert(keyFor(i)))
	}
	require.Equal(t, 10, f.Count())

	require.True(t, f.Delete(keyFor(3)))
	require.Equal(t, 9, f.Count())
	require.False(t, f.Delete(keyFor(3)))
	require.Equal(t, 9, f.Count())
	require.False(t, f.Contains(keyFor(3)))
}

func TestLoadBoundedBetweenZeroAndOne(t *testing.T) {
	f, err := NewFilter(Config{BucketCount: 20, BucketCapacity: 4, FingerprintBits: 8, Seed: 1})
	require.NoError(t, err)

	require.Equal(t, 0.0, f.Load())
	for f.Insert(keyFor(f.Count())) {
		require.GreaterOrEqual(t, f.Load(), 0.0)
		require.LessOrEqual(t, f.Load(), 1.0)
	}
	require.Greater(t, f.Load(), 0.9)
}

func TestRecountFromTableAfterDeserialize(t *testing.T) {
	f1, err := NewFilter(Config{BucketCount: 50, BucketCapacity: 4, FingerprintBits: 16, Seed: 1})
	require.NoError(t, err)
	for i := 0; i < 30; i++ {
		require.True(t, f1.Insert(keyFor(i)))
	}

	f2, err := NewFilterFromBytes(f1.Serialize(), hashfunc.XXHash64{}, 2)
	require.NoError(t, err)
	require.Equal(t, 0, f2.Count())

	f2.RecountFromTable()
	require.Equal(t, 30, f2.Count())
}

func TestSpaceOptimizedRoundTrip(t *testing.T) {
	f, err := NewFilter(Config{BucketCount: 100, BucketCapacity: 4, FingerprintBits: 16, SpaceOptimized: true, Seed: 1})
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		require.True(t, f.Insert(keyFor(i)))
	}
	for i := 0; i < 200; i++ {
		require.True(t, f.Contains(keyFor(i)))
	}
	require.True(t, f.Delete(keyFor(100)))
	require.False(t, f.Contains(keyFor(100)))
}

func TestNewFilterForCapacity(t *testing.T) {
	f, err := NewFilterForCapacity(1000, 0.01)
	require.NoError(t, err)

	n := 0
	for f.Insert(keyFor(n)) {
		n++
	}
	require.GreaterOrEqual(t, n, 1000)
}

func TestStatsReflectsDimensions(t *testing.T) {
	f, err := NewFilter(Config{BucketCount: 64, BucketCapacity: 4, FingerprintBits: 16, Seed: 1})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		f.Insert(keyFor(i))
	}
	st := f.Stats()
	require.Equal(t, 10, st.Count)
	require.Equal(t, 64, st.BucketCount)
	require.Equal(t, 4, st.BucketCapacity)
	require.Equal(t, 16, st.FingerprintBits)
	require.InDelta(t, 10.0/(64*4), st.Load, 1e-9)
}
