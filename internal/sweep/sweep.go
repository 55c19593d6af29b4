// Package sweep builds many model replicates across a grid of control values.
package sweep

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inodb/vibe-chromatin/internal/chromatin"
	"github.com/inodb/vibe-chromatin/internal/stats"
)

// Plan describes a sweep: every combination of missing percent and linker
// variance applied to Base, each built Replicates times.
type Plan struct {
	Base            chromatin.Config
	MissingPercents []int
	Variances       []int
	Replicates      int
	Seed            uint64
}

// Validate checks the plan and every configuration it expands to.
func (p Plan) Validate() error {
	if p.Replicates <= 0 {
		return fmt.Errorf("replicates must be positive, got %d", p.Replicates)
	}
	if len(p.MissingPercents) == 0 || len(p.Variances) == 0 {
		return fmt.Errorf("sweep needs at least one missing percent and one variance")
	}
	for _, cfg := range p.Configs() {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("missing %.0f%% variance %g: %w", cfg.MissingFraction*100, cfg.LinkerVariance, err)
		}
	}
	return nil
}

// Configs returns the grid of configurations in sweep order.
func (p Plan) Configs() []chromatin.Config {
	out := make([]chromatin.Config, 0, len(p.MissingPercents)*len(p.Variances))
	for _, m := range p.MissingPercents {
		for _, v := range p.Variances {
			out = append(out, chromatin.ConfigFromControls(p.Base, m, v, p.Base.CutsPerKilobasePairs))
		}
	}
	return out
}

// Items expands the plan into work items with per-item seeds.
func (p Plan) Items() []WorkItem {
	var items []WorkItem
	seq := 0
	for _, cfg := range p.Configs() {
		for r := range p.Replicates {
			items = append(items, WorkItem{
				Seq:       seq,
				Replicate: r,
				Seed:      itemSeed(p.Seed, seq),
				Config:    cfg,
			})
			seq++
		}
	}
	return items
}

// itemSeed mixes the sweep seed with the sequence number (splitmix64).
func itemSeed(seed uint64, seq int) uint64 {
	z := seed + uint64(seq+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Replicate summarizes one built snapshot.
type Replicate struct {
	RunID          uuid.UUID
	SnapshotID     uuid.UUID
	Seq            int
	Replicate      int
	Seed           uint64
	Config         chromatin.Config
	Nucleosomes    int
	Detached       int
	Cuts           int
	Span           int
	MeanCutSpacing float64
	MeanFragment   float64
}

// Summarize derives the replicate row for a snapshot.
func Summarize(runID uuid.UUID, item WorkItem, s *chromatin.Snapshot) Replicate {
	return Replicate{
		RunID:          runID,
		SnapshotID:     s.ID(),
		Seq:            item.Seq,
		Replicate:      item.Replicate,
		Seed:           item.Seed,
		Config:         s.Config(),
		Nucleosomes:    len(s.Nucleosomes()),
		Detached:       s.DetachedCount(),
		Cuts:           len(s.Cuts()),
		Span:           s.Span(),
		MeanCutSpacing: stats.Summarize(s.CutSpacings()).Mean,
		MeanFragment:   stats.Summarize(s.FragmentLengths()).Mean,
	}
}

// Result reports how a sweep went.
type Result struct {
	RunID     uuid.UUID
	Succeeded int
	Failed    int
	FirstErr  error // first failed replicate in plan order
}

// Runner executes sweep plans.
type Runner struct {
	workers int
	logger  *zap.Logger
}

// NewRunner creates a runner. workers <= 0 means one per CPU.
func NewRunner(workers int) *Runner {
	return &Runner{workers: workers, logger: zap.NewNop()}
}

// SetLogger sets the logger for warnings about failed replicates.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Run builds every replicate of the plan and passes each successful one to fn
// in plan order. Replicates whose build fails are logged and counted.
func (r *Runner) Run(p Plan, fn func(Replicate, *chromatin.Snapshot) error) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, fmt.Errorf("validate plan: %w", err)
	}

	res := Result{RunID: uuid.New()}
	all := p.Items()
	items := make(chan WorkItem, len(all))
	for _, it := range all {
		items <- it
	}
	close(items)

	results := r.ParallelBuild(items, r.workers)
	err := OrderedCollect(results, func(wr WorkResult) error {
		if wr.Err != nil {
			res.Failed++
			if res.FirstErr == nil {
				res.FirstErr = fmt.Errorf("replicate %d: %w", wr.Seq, wr.Err)
			}
			r.logger.Warn("replicate build failed",
				zap.Int("seq", wr.Seq),
				zap.Uint64("seed", wr.Item.Seed),
				zap.Error(wr.Err))
			return nil
		}
		res.Succeeded++
		return fn(Summarize(res.RunID, wr.Item, wr.Snapshot), wr.Snapshot)
	})
	if err != nil {
		return res, err
	}

	r.logger.Info("sweep finished",
		zap.String("run", res.RunID.String()),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("failed", res.Failed))
	return res, nil
}
