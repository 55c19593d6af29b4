package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniform01_Range(t *testing.T) {
	s := New(42)
	for range 100000 {
		u := s.Uniform01()
		require.GreaterOrEqual(t, u, 0.0)
		require.Less(t, u, 1.0)
	}
}

func TestNew_Deterministic(t *testing.T) {
	a := New(7)
	b := New(7)
	for range 100 {
		assert.Equal(t, a.Uniform01(), b.Uniform01())
	}
	assert.Equal(t, uint64(7), a.Seed())
}

func TestNormal_Moments(t *testing.T) {
	s := New(12345)
	const n = 200000

	var sum, sumSq float64
	for range n {
		x, err := s.Normal()
		require.NoError(t, err)
		sum += x
		sumSq += x * x
	}
	mean := sum / n
	variance := sumSq/n - mean*mean

	assert.InDelta(t, 0.0, mean, 0.02, "empirical mean")
	assert.InDelta(t, 1.0, variance, 0.02, "empirical variance")
}

func TestPolar_KnownPair(t *testing.T) {
	// u=0.75 -> v1=v2=0.5, S=0.5, x = 0.5*sqrt(4 ln 2)
	x, err := Polar(func() float64 { return 0.75 })
	require.NoError(t, err)
	assert.InDelta(t, 0.8325546111576977, x, 1e-12)
}

func TestPolar_RejectsOutsideCircle(t *testing.T) {
	// First pair lands on the corner (S=2), second pair inside.
	draws := []float64{0.999999, 0.999999, 0.75, 0.75}
	i := 0
	x, err := Polar(func() float64 {
		u := draws[i]
		i++
		return u
	})
	require.NoError(t, err)
	assert.Equal(t, 4, i)
	assert.NotZero(t, x)
}

func TestPolar_DegenerateSource(t *testing.T) {
	// Constant 0.5 gives v1=v2=0, S=0 on every draw.
	_, err := Polar(func() float64 { return 0.5 })
	assert.ErrorIs(t, err, ErrDegenerateSource)
}
