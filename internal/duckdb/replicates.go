package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-chromatin/internal/sweep"
)

// CutRows pairs a snapshot with its cut positions for bulk insert.
type CutRows struct {
	RunID      uuid.UUID
	SnapshotID uuid.UUID
	Positions  []int
}

// withAppender runs fn with an Appender on table and flushes it.
func (s *Store) withAppender(table string, fn func(*goduckdb.Appender) error) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	if err := fn(appender); err != nil {
		return err
	}
	return appender.Flush()
}

// WriteReplicates batch-inserts replicate summaries using the Appender API.
func (s *Store) WriteReplicates(rows []sweep.Replicate) error {
	if len(rows) == 0 {
		return nil
	}
	return s.withAppender("sweep_replicates", func(a *goduckdb.Appender) error {
		for _, r := range rows {
			c := r.Config
			if err := a.AppendRow(
				r.RunID.String(), r.SnapshotID.String(), int64(r.Seq), int64(r.Replicate), r.Seed,
				int64(c.WrapLength), int64(c.MeanLinkerLength), c.LinkerVariance,
				int64(c.TotalNucleosomes), c.MissingFraction, c.CutsPerKilobasePairs,
				int64(r.Nucleosomes), int64(r.Detached), int64(r.Cuts), int64(r.Span),
				r.MeanCutSpacing, r.MeanFragment,
			); err != nil {
				return fmt.Errorf("append replicate %d: %w", r.Seq, err)
			}
		}
		return nil
	})
}

// WriteCuts batch-inserts cut positions.
func (s *Store) WriteCuts(rows []CutRows) error {
	if len(rows) == 0 {
		return nil
	}
	return s.withAppender("sweep_cuts", func(a *goduckdb.Appender) error {
		for _, r := range rows {
			run, snap := r.RunID.String(), r.SnapshotID.String()
			for _, p := range r.Positions {
				if err := a.AppendRow(run, snap, int64(p)); err != nil {
					return fmt.Errorf("append cut: %w", err)
				}
			}
		}
		return nil
	})
}

// ReplicateCount returns the number of stored replicates for a run.
func (s *Store) ReplicateCount(runID uuid.UUID) (int, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sweep_replicates WHERE run_id=?`,
		runID.String()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count replicates: %w", err)
	}
	return int(n), nil
}

// ClearRun removes every row of a run.
func (s *Store) ClearRun(runID uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM sweep_replicates WHERE run_id=?`, runID.String()); err != nil {
		return fmt.Errorf("clear replicates: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM sweep_cuts WHERE run_id=?`, runID.String()); err != nil {
		return fmt.Errorf("clear cuts: %w", err)
	}
	return nil
}
