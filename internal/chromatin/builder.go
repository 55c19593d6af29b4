package chromatin

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inodb/vibe-chromatin/internal/sampler"
)

// Seeded is implemented by samplers that can report their seed.
type Seeded interface {
	Seed() uint64
}

// Builder runs the full model pipeline: chain, index, cuts.
// A Builder shares its sampler across builds and is not safe for concurrent use.
type Builder struct {
	sampler sampler.Sampler
	logger  *zap.Logger
	now     func() time.Time
}

// NewBuilder creates a builder drawing from s.
func NewBuilder(s sampler.Sampler) *Builder {
	return &Builder{
		sampler: s,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
}

// SetLogger sets the logger for build diagnostics.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Build validates cfg and produces a new snapshot.
func (b *Builder) Build(cfg Config) (*Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := b.now()
	chain, err := BuildChain(cfg, b.sampler)
	if err != nil {
		return nil, fmt.Errorf("build chain: %w", err)
	}

	idx := NewPositionIndex(chain, cfg.WrapLength)
	cuts, err := BuildCuts(cfg, idx, b.sampler)
	if err != nil {
		return nil, fmt.Errorf("build cuts: %w", err)
	}

	snap := &Snapshot{
		id:          uuid.New(),
		cfg:         cfg,
		builtAt:     start,
		nucleosomes: chain,
		cuts:        cuts,
		index:       idx,
	}
	if sd, ok := b.sampler.(Seeded); ok {
		snap.seed = sd.Seed()
	}

	b.logger.Debug("built model snapshot",
		zap.String("id", snap.ID().String()),
		zap.Int("nucleosomes", len(chain)),
		zap.Int("detached", snap.DetachedCount()),
		zap.Int("cuts", len(cuts)),
		zap.Int("span", snap.Span()),
		zap.Duration("elapsed", b.now().Sub(start)))

	return snap, nil
}
