package chromatin

import (
	"fmt"
	"math"

	"github.com/inodb/vibe-chromatin/internal/sampler"
)

// Nucleosome is a histone with its wrapped DNA. Position is the base-pair
// offset of the last wrapped base pair (the trailing edge).
type Nucleosome struct {
	Position int
	Attached bool
}

// WrappedStart returns the first base pair of the region an attached
// nucleosome would protect. The protected region is (Position-wrap, Position].
func (n Nucleosome) WrappedStart(wrap int) int {
	return n.Position - wrap + 1
}

// Protects reports whether loc falls inside this nucleosome's wrapped region.
func (n Nucleosome) Protects(loc, wrap int) bool {
	return n.Attached && loc > n.Position-wrap && loc <= n.Position
}

// BuildChain places cfg.TotalNucleosomes nucleosomes along the strand and
// detaches floor(N*MissingFraction) of them at random.
func BuildChain(cfg Config, s sampler.Sampler) ([]Nucleosome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	chain := make([]Nucleosome, 0, cfg.TotalNucleosomes)
	lastEnd := 0
	for i := range cfg.TotalNucleosomes {
		linker, err := drawLinker(cfg, s)
		if err != nil {
			return nil, fmt.Errorf("nucleosome %d: %w", i, err)
		}
		pos := lastEnd + linker + cfg.WrapLength
		chain = append(chain, Nucleosome{Position: pos, Attached: true})
		lastEnd = pos
	}

	if err := checkMonotonic(chain); err != nil {
		return nil, err
	}

	if err := detach(chain, cfg.DetachCount(), s); err != nil {
		return nil, err
	}

	return chain, nil
}

// drawLinker returns the linker length preceding the next nucleosome.
// Gaussian draws are truncated to int and redrawn outside (0, 2*mean).
func drawLinker(cfg Config, s sampler.Sampler) (int, error) {
	if cfg.LinkerVariance == 0 {
		return cfg.MeanLinkerLength, nil
	}

	sd := math.Sqrt(cfg.LinkerVariance)
	upper := 2 * cfg.MeanLinkerLength
	for range cfg.RetryBudget {
		z, err := s.Normal()
		if err != nil {
			return 0, fmt.Errorf("draw linker: %w", err)
		}
		linker := int(float64(cfg.MeanLinkerLength) + z*sd)
		if linker > 0 && linker < upper {
			return linker, nil
		}
	}
	return 0, fmt.Errorf("draw linker after %d attempts: %w", cfg.RetryBudget, ErrRetryBudgetExceeded)
}

func checkMonotonic(chain []Nucleosome) error {
	for i := 1; i < len(chain); i++ {
		if chain[i].Position <= chain[i-1].Position {
			return fmt.Errorf("%w: position %d at index %d does not follow %d",
				ErrInvariantViolation, chain[i].Position, i, chain[i-1].Position)
		}
	}
	return nil
}

// detach marks exactly k nucleosomes detached, chosen uniformly without
// replacement by a partial Fisher-Yates shuffle over the indices.
func detach(chain []Nucleosome, k int, s sampler.Sampler) error {
	if k <= 0 {
		return nil
	}
	if k >= len(chain) {
		for i := range chain {
			chain[i].Attached = false
		}
		return nil
	}

	idx := make([]int, len(chain))
	for i := range idx {
		idx[i] = i
	}
	for i := range k {
		j := i + int(s.Uniform01()*float64(len(idx)-i))
		idx[i], idx[j] = idx[j], idx[i]
		chain[idx[i]].Attached = false
	}

	detached := 0
	for _, n := range chain {
		if !n.Attached {
			detached++
		}
	}
	if detached != k {
		return fmt.Errorf("%w: detached %d nucleosomes, want %d", ErrInvariantViolation, detached, k)
	}
	return nil
}
