package duckdb

import (
	"fmt"

	"github.com/google/uuid"
)

// ConfigSummary aggregates the replicates of one sweep configuration.
type ConfigSummary struct {
	MissingFraction    float64
	LinkerVariance     float64
	Replicates         int
	MeanDetached       float64
	MeanCuts           float64
	MeanSpan           float64
	MeanCutSpacing     float64
	StddevCutSpacing   float64
	MeanFragmentLength float64
}

// Aggregate summarizes a run per (missing fraction, linker variance).
func (s *Store) Aggregate(runID uuid.UUID) ([]ConfigSummary, error) {
	rows, err := s.db.Query(`SELECT
		missing_fraction, linker_variance, COUNT(*),
		AVG(detached), AVG(cuts), AVG(span),
		AVG(mean_cut_spacing), COALESCE(STDDEV_SAMP(mean_cut_spacing), 0),
		AVG(mean_fragment)
		FROM sweep_replicates
		WHERE run_id=?
		GROUP BY missing_fraction, linker_variance
		ORDER BY missing_fraction, linker_variance`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("query aggregate: %w", err)
	}
	defer rows.Close()

	var out []ConfigSummary
	for rows.Next() {
		var cs ConfigSummary
		var n int64
		if err := rows.Scan(
			&cs.MissingFraction, &cs.LinkerVariance, &n,
			&cs.MeanDetached, &cs.MeanCuts, &cs.MeanSpan,
			&cs.MeanCutSpacing, &cs.StddevCutSpacing, &cs.MeanFragmentLength,
		); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		cs.Replicates = int(n)
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aggregate: %w", err)
	}
	return out, nil
}

// SpacingHistogram bins the spacing between consecutive cuts of every
// snapshot in a run into bins equal-width bins over [lo, hi).
// It returns bin index -> count for non-empty bins.
func (s *Store) SpacingHistogram(runID uuid.UUID, lo, hi float64, bins int) (map[int]int, error) {
	if bins <= 0 || !(hi > lo) {
		return nil, fmt.Errorf("invalid histogram range [%g, %g) with %d bins", lo, hi, bins)
	}
	step := (hi - lo) / float64(bins)

	rows, err := s.db.Query(`WITH spacings AS (
			SELECT position - LAG(position) OVER (PARTITION BY snapshot_id ORDER BY position) AS spacing
			FROM sweep_cuts
			WHERE run_id=?
		)
		SELECT CAST(FLOOR((spacing - CAST(? AS DOUBLE)) / CAST(? AS DOUBLE)) AS BIGINT) AS bin, COUNT(*)
		FROM spacings
		WHERE spacing IS NOT NULL AND spacing >= CAST(? AS DOUBLE) AND spacing < CAST(? AS DOUBLE)
		GROUP BY bin
		ORDER BY bin`, runID.String(), lo, step, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("query spacing histogram: %w", err)
	}
	defer rows.Close()

	out := make(map[int]int)
	for rows.Next() {
		var bin, n int64
		if err := rows.Scan(&bin, &n); err != nil {
			return nil, fmt.Errorf("scan spacing histogram: %w", err)
		}
		out[min(int(bin), bins-1)] += int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spacing histogram: %w", err)
	}
	return out, nil
}
