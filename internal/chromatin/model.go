package chromatin

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Model holds the current snapshot. It is built once at construction and
// replaced wholesale by each successful Rebuild; a failed rebuild leaves
// the previous snapshot in place.
type Model struct {
	builder *Builder
	current atomic.Pointer[Snapshot]
	logger  *zap.Logger

	mu        sync.Mutex // serializes config reads, rebuilds and listener registration
	listeners []func(*Snapshot)
}

// NewModel builds the initial snapshot from cfg.
func NewModel(b *Builder, cfg Config) (*Model, error) {
	m := &Model{builder: b, logger: zap.NewNop()}
	snap, err := b.Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("initial model: %w", err)
	}
	m.current.Store(snap)
	return m, nil
}

// SetLogger sets the logger for rebuild messages.
func (m *Model) SetLogger(l *zap.Logger) {
	m.logger = l
}

// Current returns the authoritative snapshot.
func (m *Model) Current() *Snapshot {
	return m.current.Load()
}

// Config returns the configuration of the current snapshot.
func (m *Model) Config() Config {
	return m.Current().Config()
}

// OnRebuild registers fn to be called with every new snapshot. Listeners run
// after the rebuild has released the model, so they may call back into it.
func (m *Model) OnRebuild(fn func(*Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Rebuild builds a new snapshot from cfg and makes it current.
func (m *Model) Rebuild(cfg Config) (*Snapshot, error) {
	return m.rebuildWith(func(c *Config) { *c = cfg })
}

// rebuildWith applies update to the current configuration and rebuilds,
// reading and replacing the snapshot under one lock.
func (m *Model) rebuildWith(update func(*Config)) (*Snapshot, error) {
	m.mu.Lock()
	prev := m.Current()
	cfg := prev.Config()
	update(&cfg)

	snap, err := m.builder.Build(cfg)
	if err != nil {
		m.mu.Unlock()
		m.logger.Warn("rebuild failed, keeping previous snapshot",
			zap.String("current", prev.ID().String()),
			zap.Error(err))
		return nil, fmt.Errorf("rebuild model: %w", err)
	}
	m.current.Store(snap)
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
	return snap, nil
}

// SetMissingHistonePercent rebuilds with percent (0-100) of nucleosomes detached.
func (m *Model) SetMissingHistonePercent(percent int) (*Snapshot, error) {
	return m.rebuildWith(func(c *Config) {
		c.MissingFraction = float64(percent) / 100.0
	})
}

// SetNucleosomeSpacingVariance rebuilds with the given linker variance.
func (m *Model) SetNucleosomeSpacingVariance(variance int) (*Snapshot, error) {
	return m.rebuildWith(func(c *Config) {
		c.LinkerVariance = float64(variance)
	})
}

// SetCutsPerKilobasePairs rebuilds with a new cut density.
func (m *Model) SetCutsPerKilobasePairs(cuts float64) (*Snapshot, error) {
	return m.rebuildWith(func(c *Config) {
		c.CutsPerKilobasePairs = cuts
	})
}
