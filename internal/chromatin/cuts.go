package chromatin

import (
	"fmt"
	"slices"

	"github.com/inodb/vibe-chromatin/internal/sampler"
)

// bpPerCutUnit is the strand length the cut density is expressed against.
const bpPerCutUnit = 3000

// TotalSpan returns the expected modeled span, (wrap+mean linker)*N.
// It is an estimate; the built chain may end before or after it.
func TotalSpan(cfg Config) int {
	return (cfg.WrapLength + cfg.MeanLinkerLength) * cfg.TotalNucleosomes
}

// CutCount returns floor(TotalSpan/3000 * CutsPerKilobasePairs).
func CutCount(cfg Config) int {
	return int(float64(TotalSpan(cfg)) / bpPerCutUnit * cfg.CutsPerKilobasePairs)
}

// IsValidCut reports whether loc lies outside every attached nucleosome's
// wrapped region (position-wrap, position].
func IsValidCut(idx *PositionIndex, wrap, loc int) bool {
	n, ok := idx.FirstAtOrAfter(loc)
	if !ok || !n.Attached {
		return true
	}
	return loc <= n.Position-wrap
}

// BuildCuts draws CutCount(cfg) valid cut sites uniformly over
// [0, TotalSpan(cfg)) and returns them in ascending order.
func BuildCuts(cfg Config, idx *PositionIndex, s sampler.Sampler) ([]int, error) {
	numCuts := CutCount(cfg)
	if numCuts <= 0 {
		return []int{}, nil
	}

	span := TotalSpan(cfg)
	cuts := make([]int, 0, numCuts)
	for i := range numCuts {
		loc, err := drawCut(span, cfg, idx, s)
		if err != nil {
			return nil, fmt.Errorf("cut %d: %w", i, err)
		}
		cuts = append(cuts, loc)
	}

	slices.Sort(cuts)
	return cuts, nil
}

func drawCut(span int, cfg Config, idx *PositionIndex, s sampler.Sampler) (int, error) {
	for range cfg.RetryBudget {
		loc := int(s.Uniform01() * float64(span))
		if IsValidCut(idx, cfg.WrapLength, loc) {
			return loc, nil
		}
	}
	return 0, fmt.Errorf("draw cut after %d attempts: %w", cfg.RetryBudget, ErrRetryBudgetExceeded)
}
