package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-chromatin/internal/chromatin"
	"github.com/inodb/vibe-chromatin/internal/duckdb"
	"github.com/inodb/vibe-chromatin/internal/output"
	"github.com/inodb/vibe-chromatin/internal/stats"
	"github.com/inodb/vibe-chromatin/internal/sweep"
)

// sweepBatchSize is the number of replicates buffered before an append.
const sweepBatchSize = 256

type sweepOptions struct {
	missing    []int
	variances  []int
	replicates int
	workers    int
	seed       uint64
	histogram  bool
	bins       int
	lo, hi     float64
}

func newSweepCmd() *cobra.Command {
	var opts sweepOptions

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Build replicates over a grid of missing-histone percents and variances",
		Long: `Build --replicates independent snapshots for every combination of
--missing and --variances, aggregate them in an in-memory DuckDB database and
print per-configuration means.`,
		Example: `  vibe-chromatin sweep --missing 0,25,50,75,100 --replicates 20
  vibe-chromatin sweep --variances 0,25,100 --cuts-per-kbp 5 --histogram --min 0 --max 5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.OutOrStdout(), modelConfig(), opts)
		},
	}

	fs := cmd.Flags()
	fs.IntSliceVar(&opts.missing, "missing", []int{0, 25, 50, 75, 100}, "Missing-histone percents to sweep")
	fs.IntSliceVar(&opts.variances, "variances", []int{0}, "Spacing variances to sweep")
	fs.IntVar(&opts.replicates, "replicates", 10, "Replicates per configuration")
	fs.IntVar(&opts.workers, "workers", 0, "Parallel workers (0 = one per CPU)")
	fs.Uint64Var(&opts.seed, "seed", 0, "Sweep seed (0 picks one from the clock)")
	fs.BoolVar(&opts.histogram, "histogram", false, "Also print the pooled cut-spacing histogram")
	fs.IntVar(&opts.bins, "bins", stats.DefaultBins, "Number of histogram bins")
	fs.Float64Var(&opts.lo, "min", stats.DefaultMin, "Histogram lower bound")
	fs.Float64Var(&opts.hi, "max", stats.DefaultMax, "Histogram upper bound")

	return cmd
}

func runSweep(w io.Writer, base chromatin.Config, opts sweepOptions) error {
	plan := sweep.Plan{
		Base:            base,
		MissingPercents: opts.missing,
		Variances:       opts.variances,
		Replicates:      opts.replicates,
		Seed:            resolveSeed(opts.seed),
	}

	store, err := duckdb.Open("")
	if err != nil {
		return err
	}
	defer store.Close()

	var (
		reps []sweep.Replicate
		cuts []duckdb.CutRows
	)
	flush := func() error {
		if err := store.WriteReplicates(reps); err != nil {
			return err
		}
		if err := store.WriteCuts(cuts); err != nil {
			return err
		}
		reps, cuts = reps[:0], cuts[:0]
		return nil
	}

	runner := sweep.NewRunner(opts.workers)
	runner.SetLogger(logger)
	res, err := runner.Run(plan, func(r sweep.Replicate, snap *chromatin.Snapshot) error {
		reps = append(reps, r)
		if opts.histogram {
			cuts = append(cuts, duckdb.CutRows{RunID: r.RunID, SnapshotID: snap.ID(), Positions: snap.Cuts()})
		}
		if len(reps) >= sweepBatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("run sweep: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}
	if err := allFailed(res); err != nil {
		return err
	}

	summaries, err := store.Aggregate(res.RunID)
	if err != nil {
		return err
	}
	if err := output.WriteSweepSummary(w, summaries); err != nil {
		return err
	}

	if opts.histogram {
		counts, err := store.SpacingHistogram(res.RunID, opts.lo, opts.hi, opts.bins)
		if err != nil {
			return err
		}
		h, err := stats.NewHistogram(opts.lo, opts.hi, opts.bins)
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		return output.WriteBinCounts(w, h, counts)
	}
	return nil
}

// allFailed reports the first replicate error when no replicate succeeded.
func allFailed(res sweep.Result) error {
	if res.Succeeded > 0 || res.FirstErr == nil {
		return nil
	}
	return fmt.Errorf("all %d replicates failed: %w", res.Failed, res.FirstErr)
}
