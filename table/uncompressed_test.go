package table

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUncompressedBasic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tbl, err := NewUncompressed(10, 4, 16, rng)
	require.NoError(t, err)

	require.False(t, tbl.IsFull(0))
	require.False(t, tbl.Contains(0, 5))

	for i := 0; i < 4; i++ {
		evicted, ok := tbl.InsertWithReplacement(0, uint64(i+1))
		require.False(t, ok)
		require.Zero(t, evicted)
	}
	require.True(t, tbl.IsFull(0))
	require.True(t, tbl.Contains(0, 1))
	require.True(t, tbl.Contains(0, 4))
	require.False(t, tbl.Contains(0, 5))

	_, ok := tbl.InsertWithReplacement(0, 99)
	require.True(t, ok, "bucket full, must evict")

	require.True(t, tbl.Delete(0, 99) || tbl.IsFull(0))
}

func TestUncompressedDelete(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tbl, err := NewUncompressed(4, 4, 16, rng)
	require.NoError(t, err)

	_, ok := tbl.InsertWithReplacement(0, 7)
	require.False(t, ok)
	require.True(t, tbl.Contains(0, 7))
	require.True(t, tbl.Delete(0, 7))
	require.False(t, tbl.Contains(0, 7))
	require.False(t, tbl.Delete(0, 7))
}

func TestUncompressedSerializeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tbl, err := NewUncompressed(8, 4, 12, rng)
	require.NoError(t, err)

	for b := 0; b < 8; b++ {
		_, _ = tbl.InsertWithReplacement(b, uint64(b+1))
	}

	blob := tbl.Serialize()
	parsed, err := Parse(blob, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	require.Equal(t, Uncompressed, parsed.Kind())

	for b := 0; b < 8; b++ {
		require.True(t, parsed.Contains(b, uint64(b+1)))
	}
}

func TestNewUncompressedRejectsBadArgs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := NewUncompressed(0, 4, 16, rng)
	require.Error(t, err)
	_, err = NewUncompressed(10, 0, 16, rng)
	require.Error(t, err)
	_, err = NewUncompressed(10, 129, 16, rng)
	require.Error(t, err)
	_, err = NewUncompressed(10, 4, 0, rng)
	require.Error(t, err)
	_, err = NewUncompressed(10, 4, 65, rng)
	require.Error(t, err)
	_, err = NewUncompressed(10, 4, 16, nil)
	require.Error(t, err)
}
