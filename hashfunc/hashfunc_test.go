package hashfunc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXXHash64Deterministic(t *testing.T) {
	var h XXHash64
	a := h.Sum64([]byte("the quick brown fox"))
	b := h.Sum64([]byte("the quick brown fox"))
	require.Equal(t, a, b)

	c := h.Sum64([]byte("the quick brown fo"))
	require.NotEqual(t, a, c)
}

func TestFunnels(t *testing.T) {
	require.Equal(t, []byte("hi"), StringFunnel("hi"))
	require.Equal(t, []byte{1, 2, 3}, BytesFunnel([]byte{1, 2, 3}))
	require.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, Uint64Funnel(1))
	require.Equal(t, Uint64Funnel(42), Int64Funnel(42))
}
