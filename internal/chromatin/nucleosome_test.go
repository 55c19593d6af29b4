package chromatin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-chromatin/internal/sampler"
)

func TestBuildChain_FixedSpacing(t *testing.T) {
	chain, err := BuildChain(threeNucleosomeConfig(), noDrawSampler{})
	require.NoError(t, err)

	assert.Equal(t, []int{166, 332, 498}, positions(chain))
	for _, n := range chain {
		assert.True(t, n.Attached)
	}
}

func TestBuildChain_AllDetachedWithoutRandomness(t *testing.T) {
	cfg := threeNucleosomeConfig()
	cfg.MissingFraction = 1.0

	// noDrawSampler panics on any draw, so this also checks no sampling happens.
	chain, err := BuildChain(cfg, noDrawSampler{})
	require.NoError(t, err)
	require.Len(t, chain, 3)
	for _, n := range chain {
		assert.False(t, n.Attached)
	}
}

func TestBuildChain_Empty(t *testing.T) {
	cfg := threeNucleosomeConfig()
	cfg.TotalNucleosomes = 0
	cfg.MissingFraction = 0.5

	chain, err := BuildChain(cfg, noDrawSampler{})
	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestBuildChain_GaussianLinkers(t *testing.T) {
	cfg := threeNucleosomeConfig()
	cfg.LinkerVariance = 4
	// z=+1 -> 22, z=-1.5 -> 17, z=0.9 -> int(21.8) = 21
	s := &scriptSampler{normals: []float64{1, -1.5, 0.9}, uniforms: []float64{0}}

	chain, err := BuildChain(cfg, s)
	require.NoError(t, err)
	assert.Equal(t, []int{168, 331, 498}, positions(chain))
}

func TestBuildChain_RejectsOutOfRangeLinkers(t *testing.T) {
	cfg := threeNucleosomeConfig()
	cfg.TotalNucleosomes = 1
	cfg.LinkerVariance = 100
	// z=-2 -> 0 (rejected), z=2 -> 40 (rejected, not < 2*mean), z=0.5 -> 25
	s := &scriptSampler{normals: []float64{-2, 2, 0.5}, uniforms: []float64{0}}

	chain, err := BuildChain(cfg, s)
	require.NoError(t, err)
	assert.Equal(t, []int{171}, positions(chain))
	assert.Equal(t, 3, s.ni)
}

func TestBuildChain_LinkerRetryBudget(t *testing.T) {
	cfg := threeNucleosomeConfig()
	cfg.LinkerVariance = 1
	cfg.RetryBudget = 50
	s := &scriptSampler{normals: []float64{100}, uniforms: []float64{0}}

	_, err := BuildChain(cfg, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetryBudgetExceeded)
	assert.Equal(t, 50, s.ni)
}

func TestBuildChain_InvalidConfig(t *testing.T) {
	cfg := threeNucleosomeConfig()
	cfg.WrapLength = 0
	_, err := BuildChain(cfg, noDrawSampler{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuildChain_Properties(t *testing.T) {
	fractions := []float64{0, 0.1, 0.25, 0.5, 0.75, 0.99, 1}
	for seed := range uint64(5) {
		for _, f := range fractions {
			cfg := DefaultConfig()
			cfg.TotalNucleosomes = 400
			cfg.LinkerVariance = 36
			cfg.MissingFraction = f

			chain, err := BuildChain(cfg, sampler.New(seed))
			require.NoError(t, err)
			require.Len(t, chain, 400)

			assert.GreaterOrEqual(t, chain[0].Position, cfg.WrapLength+1)
			for i := 1; i < len(chain); i++ {
				require.Greater(t, chain[i].Position, chain[i-1].Position)
				linker := chain[i].Position - chain[i-1].Position - cfg.WrapLength
				require.Greater(t, linker, 0)
				require.Less(t, linker, 2*cfg.MeanLinkerLength)
			}
			assert.Equal(t, int(400*f), countDetached(chain), "seed %d fraction %g", seed, f)
		}
	}
}

func TestDetach_ExactAndUniform(t *testing.T) {
	const (
		n      = 10
		k      = 3
		trials = 20000
	)
	s := sampler.New(99)
	hits := make([]int, n)
	for range trials {
		chain := make([]Nucleosome, n)
		for i := range chain {
			chain[i] = Nucleosome{Position: (i + 1) * 166, Attached: true}
		}
		require.NoError(t, detach(chain, k, s))
		require.Equal(t, k, countDetached(chain))
		for i, nuc := range chain {
			if !nuc.Attached {
				hits[i]++
			}
		}
	}

	// Each index is detached with probability k/n.
	want := float64(trials) * k / n
	for i, h := range hits {
		assert.InDelta(t, want, float64(h), want*0.08, "index %d", i)
	}
}

func TestDetach_LastIndexReachable(t *testing.T) {
	chain := []Nucleosome{{Position: 1, Attached: true}, {Position: 2, Attached: true}}
	s := &scriptSampler{uniforms: []float64{0.99}}

	require.NoError(t, detach(chain, 1, s))
	assert.True(t, chain[0].Attached)
	assert.False(t, chain[1].Attached)
}

func TestCheckMonotonic(t *testing.T) {
	assert.NoError(t, checkMonotonic(nil))
	assert.NoError(t, checkMonotonic([]Nucleosome{{Position: 1}, {Position: 5}}))

	err := checkMonotonic([]Nucleosome{{Position: 5}, {Position: 5}})
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestNucleosome_Protects(t *testing.T) {
	n := Nucleosome{Position: 332, Attached: true}
	assert.True(t, n.Protects(332, 146))
	assert.True(t, n.Protects(187, 146))
	assert.False(t, n.Protects(186, 146))
	assert.False(t, n.Protects(333, 146))
	assert.Equal(t, 187, n.WrappedStart(146))

	n.Attached = false
	assert.False(t, n.Protects(300, 146))
}
