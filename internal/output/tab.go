// Package output provides tab-delimited formatters for model snapshots.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-chromatin/internal/chromatin"
)

// TabWriter writes rows in tab-delimited format with a '#'-prefixed header.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

func newTabWriter(w io.Writer, columns ...string) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w), columns: columns}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString("#" + strings.Join(tw.columns, "\t") + "\n")
	return err
}

func (tw *TabWriter) writeRow(values ...string) error {
	if len(values) != len(tw.columns) {
		return fmt.Errorf("row has %d values, want %d", len(values), len(tw.columns))
	}
	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// WriteNucleosomes writes one row per nucleosome of the snapshot.
func WriteNucleosomes(w io.Writer, s *chromatin.Snapshot) error {
	tw := newTabWriter(w, "Index", "Position", "Wrapped_Start", "Linker", "State")
	if err := tw.WriteHeader(); err != nil {
		return err
	}

	linkers := s.LinkerLengths()
	for i, n := range s.Nucleosomes() {
		state := "attached"
		if !n.Attached {
			state = "detached"
		}
		if err := tw.writeRow(
			strconv.Itoa(i),
			strconv.Itoa(n.Position),
			strconv.Itoa(n.WrappedStart(s.Config().WrapLength)),
			strconv.Itoa(linkers[i]),
			state,
		); err != nil {
			return fmt.Errorf("write nucleosome %d: %w", i, err)
		}
	}
	return tw.Flush()
}

// WriteCuts writes one row per cut site with the spacing from the previous cut.
func WriteCuts(w io.Writer, s *chromatin.Snapshot) error {
	tw := newTabWriter(w, "Index", "Position", "Spacing")
	if err := tw.WriteHeader(); err != nil {
		return err
	}

	cuts := s.Cuts()
	for i, c := range cuts {
		spacing := "-"
		if i > 0 {
			spacing = strconv.Itoa(c - cuts[i-1])
		}
		if err := tw.writeRow(strconv.Itoa(i), strconv.Itoa(c), spacing); err != nil {
			return fmt.Errorf("write cut %d: %w", i, err)
		}
	}
	return tw.Flush()
}

// WriteSummary writes the snapshot's headline numbers as key/value rows.
func WriteSummary(w io.Writer, s *chromatin.Snapshot) error {
	tw := newTabWriter(w, "Key", "Value")
	if err := tw.WriteHeader(); err != nil {
		return err
	}

	cfg := s.Config()
	rows := [][2]string{
		{"snapshot_id", s.ID().String()},
		{"seed", strconv.FormatUint(s.Seed(), 10)},
		{"wrap_length", strconv.Itoa(cfg.WrapLength)},
		{"mean_linker_length", strconv.Itoa(cfg.MeanLinkerLength)},
		{"linker_variance", formatFloat(cfg.LinkerVariance)},
		{"missing_fraction", formatFloat(cfg.MissingFraction)},
		{"cuts_per_kbp", formatFloat(cfg.CutsPerKilobasePairs)},
		{"nucleosomes", strconv.Itoa(len(s.Nucleosomes()))},
		{"detached", strconv.Itoa(s.DetachedCount())},
		{"cuts", strconv.Itoa(len(s.Cuts()))},
		{"expected_span", strconv.Itoa(chromatin.TotalSpan(cfg))},
		{"built_span", strconv.Itoa(s.Span())},
	}
	for _, r := range rows {
		if err := tw.writeRow(r[0], r[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
