package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-chromatin/internal/chromatin"
	"github.com/inodb/vibe-chromatin/internal/sampler"
)

func TestNewHistogram_Invalid(t *testing.T) {
	_, err := NewHistogram(0, 10, 0)
	assert.Error(t, err)

	_, err = NewHistogram(10, 10, 5)
	assert.Error(t, err)
}

func TestHistogram_Binning(t *testing.T) {
	h, err := NewHistogram(100, 200, 20)
	require.NoError(t, err)

	h.AddInts([]int{100, 104, 105, 199, 200, 99, 150})

	assert.Equal(t, 1, h.Underflow)
	assert.Equal(t, 1, h.Overflow)
	assert.Equal(t, 7, h.Total())
	assert.Equal(t, map[int]int{0: 2, 1: 1, 10: 1, 19: 1}, h.Counts())
	assert.Equal(t, 2, h.Count(0))

	lo, hi, ok := h.Observed()
	require.True(t, ok)
	assert.Equal(t, 99.0, lo)
	assert.Equal(t, 200.0, hi)

	blo, bhi := h.BinRange(1)
	assert.Equal(t, 105.0, blo)
	assert.Equal(t, 110.0, bhi)
}

func TestHistogram_Empty(t *testing.T) {
	h, err := NewHistogram(DefaultMin, DefaultMax, DefaultBins)
	require.NoError(t, err)

	_, _, ok := h.Observed()
	assert.False(t, ok)
	assert.Empty(t, h.Counts())
	assert.Equal(t, 0.0, h.Mean())
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("linker")
	require.NoError(t, err)
	assert.Equal(t, MetricLinker, m)

	_, err = ParseMetric("bogus")
	assert.Error(t, err)
}

func TestFromSnapshot_Linker(t *testing.T) {
	cfg := chromatin.DefaultConfig()
	cfg.TotalNucleosomes = 200

	snap, err := chromatin.NewBuilder(sampler.New(1)).Build(cfg)
	require.NoError(t, err)

	h, err := FromSnapshot(snap, MetricLinker, 0, 40, 40)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{20: 200}, h.Counts())
	assert.Equal(t, 20.0, h.Mean())
}

func TestFromSnapshot_CutSpacingTotals(t *testing.T) {
	cfg := chromatin.DefaultConfig()
	cfg.CutsPerKilobasePairs = 5

	snap, err := chromatin.NewBuilder(sampler.New(11)).Build(cfg)
	require.NoError(t, err)

	h, err := FromSnapshot(snap, MetricCutSpacing, DefaultMin, DefaultMax, DefaultBins)
	require.NoError(t, err)

	binned := 0
	for _, c := range h.Counts() {
		binned += c
	}
	assert.Equal(t, len(snap.Cuts())-1, h.Total())
	assert.Equal(t, h.Total(), binned+h.Underflow+h.Overflow)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	vs := []int{5, 1, 3, 9}
	s := Summarize(vs)
	assert.Equal(t, Summary{Count: 4, Min: 1, Max: 9, Mean: 4.5, Median: 4}, s)
	assert.Equal(t, []int{5, 1, 3, 9}, vs, "input untouched")

	assert.Equal(t, 3.0, Summarize([]int{3, 1, 7}).Median)
}
