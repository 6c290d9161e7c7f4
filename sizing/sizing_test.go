package sizing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateRejectsBadArgs(t *testing.T) {
	_, _, _, err := Calculate(0, 100)
	require.Error(t, err)
	_, _, _, err = Calculate(1, 100)
	require.Error(t, err)
	_, _, _, err = Calculate(-0.1, 100)
	require.Error(t, err)
	_, _, _, err = Calculate(0.01, 0)
	require.Error(t, err)
}

func TestCalculateGrid(t *testing.T) {
	for _, p := range []float64{0.05, 0.01, 0.001} {
		for _, n := range []int{100, 1000, 10000} {
			b, k, f, err := Calculate(p, n)
			require.NoError(t, err, "p=%v n=%v", p, n)
			require.GreaterOrEqual(t, k, 2)
			require.LessOrEqual(t, k, 8)
			require.GreaterOrEqual(t, f, 1)
			require.LessOrEqual(t, f, 64)
			require.Greater(t, b, 0)

			effectiveLoad := loadFactor[k]
			achievedCapacity := float64(b) * float64(k) * effectiveLoad
			require.GreaterOrEqualf(t, achievedCapacity, float64(n)*0.99,
				"p=%v n=%v b=%v k=%v f=%v", p, n, b, k, f)
		}
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	b1, k1, f1, err1 := Calculate(0.01, 5000)
	b2, k2, f2, err2 := Calculate(0.01, 5000)
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.Equal(t, b1, b2)
	require.Equal(t, k1, k2)
	require.Equal(t, f1, f2)
}
