package chromatin

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Snapshot is one complete, immutable model: the nucleosome chain and the
// cut sites drawn against it. Consumers must not modify the returned slices.
type Snapshot struct {
	id      uuid.UUID
	cfg     Config
	seed    uint64
	builtAt time.Time

	nucleosomes []Nucleosome
	cuts        []int
	index       *PositionIndex
}

// ID returns the snapshot's unique id.
func (s *Snapshot) ID() uuid.UUID {
	return s.id
}

// Config returns the configuration the snapshot was built from.
func (s *Snapshot) Config() Config {
	return s.cfg
}

// Seed returns the sampler seed, or 0 if the sampler was not seeded.
func (s *Snapshot) Seed() uint64 {
	return s.seed
}

// BuiltAt returns when the build started.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// Nucleosomes returns the chain ordered by position.
func (s *Snapshot) Nucleosomes() []Nucleosome {
	return s.nucleosomes
}

// Cuts returns the cut sites in ascending order.
func (s *Snapshot) Cuts() []int {
	return s.cuts
}

// Index returns the position index over the chain.
func (s *Snapshot) Index() *PositionIndex {
	return s.index
}

// DetachedCount returns the number of detached nucleosomes.
func (s *Snapshot) DetachedCount() int {
	n := 0
	for _, nuc := range s.nucleosomes {
		if !nuc.Attached {
			n++
		}
	}
	return n
}

// Span returns the position of the last nucleosome, the actual built span.
func (s *Snapshot) Span() int {
	if len(s.nucleosomes) == 0 {
		return 0
	}
	return s.nucleosomes[len(s.nucleosomes)-1].Position
}

// LinkerLengths returns the linker preceding each nucleosome.
func (s *Snapshot) LinkerLengths() []int {
	out := make([]int, len(s.nucleosomes))
	prev := 0
	for i, n := range s.nucleosomes {
		out[i] = n.Position - prev - s.cfg.WrapLength
		prev = n.Position
	}
	return out
}

// CutSpacings returns the distances between consecutive cut sites.
func (s *Snapshot) CutSpacings() []int {
	if len(s.cuts) < 2 {
		return nil
	}
	out := make([]int, len(s.cuts)-1)
	for i := 1; i < len(s.cuts); i++ {
		out[i-1] = s.cuts[i] - s.cuts[i-1]
	}
	return out
}

// FragmentLengths returns the lengths of the pieces the cuts split the strand
// into, including the pieces before the first and after the last cut.
// The strand end is the larger of the built span and the expected span.
func (s *Snapshot) FragmentLengths() []int {
	end := max(s.Span(), TotalSpan(s.cfg))
	if len(s.cuts) == 0 {
		if end == 0 {
			return nil
		}
		return []int{end}
	}
	out := make([]int, 0, len(s.cuts)+1)
	prev := 0
	for _, c := range s.cuts {
		out = append(out, c-prev)
		prev = c
	}
	return append(out, end-prev)
}

// Verify re-checks the snapshot against the invariants it was built under:
// strictly increasing positions, the exact detached count, sorted cuts, and
// every cut outside attached wrapped regions.
func (s *Snapshot) Verify() error {
	if len(s.nucleosomes) != s.cfg.TotalNucleosomes {
		return fmt.Errorf("%w: %d nucleosomes, want %d", ErrInvariantViolation, len(s.nucleosomes), s.cfg.TotalNucleosomes)
	}
	if err := checkMonotonic(s.nucleosomes); err != nil {
		return err
	}
	want := min(s.cfg.DetachCount(), len(s.nucleosomes))
	if got := s.DetachedCount(); got != want {
		return fmt.Errorf("%w: %d detached, want %d", ErrInvariantViolation, got, want)
	}
	for i, c := range s.cuts {
		if i > 0 && c < s.cuts[i-1] {
			return fmt.Errorf("%w: cut %d at %d is out of order", ErrInvariantViolation, i, c)
		}
		if !IsValidCut(s.index, s.cfg.WrapLength, c) {
			return fmt.Errorf("%w: cut %d at %d lies in a wrapped region", ErrInvariantViolation, i, c)
		}
	}
	return nil
}
