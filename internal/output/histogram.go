package output

import (
	"io"
	"strconv"

	"github.com/inodb/vibe-chromatin/internal/duckdb"
	"github.com/inodb/vibe-chromatin/internal/stats"
)

// WriteHistogram writes every bin of h, followed by underflow and overflow rows.
func WriteHistogram(w io.Writer, h *stats.Histogram) error {
	tw := newTabWriter(w, "Bin", "Low", "High", "Count")
	if err := tw.WriteHeader(); err != nil {
		return err
	}

	for i := range h.NumBins {
		lo, hi := h.BinRange(i)
		if err := tw.writeRow(strconv.Itoa(i), formatFloat(lo), formatFloat(hi), strconv.Itoa(h.Count(i))); err != nil {
			return err
		}
	}
	if err := tw.writeRow("underflow", "-", formatFloat(h.Min), strconv.Itoa(h.Underflow)); err != nil {
		return err
	}
	if err := tw.writeRow("overflow", formatFloat(h.Max), "-", strconv.Itoa(h.Overflow)); err != nil {
		return err
	}
	return tw.Flush()
}

// WriteSweepSummary writes one row per aggregated sweep configuration.
func WriteSweepSummary(w io.Writer, rows []duckdb.ConfigSummary) error {
	tw := newTabWriter(w,
		"Missing_Fraction", "Linker_Variance", "Replicates",
		"Mean_Detached", "Mean_Cuts", "Mean_Span",
		"Mean_Cut_Spacing", "SD_Cut_Spacing", "Mean_Fragment")
	if err := tw.WriteHeader(); err != nil {
		return err
	}

	for _, r := range rows {
		if err := tw.writeRow(
			formatFloat(r.MissingFraction),
			formatFloat(r.LinkerVariance),
			strconv.Itoa(r.Replicates),
			strconv.FormatFloat(r.MeanDetached, 'f', 2, 64),
			strconv.FormatFloat(r.MeanCuts, 'f', 2, 64),
			strconv.FormatFloat(r.MeanSpan, 'f', 1, 64),
			strconv.FormatFloat(r.MeanCutSpacing, 'f', 2, 64),
			strconv.FormatFloat(r.StddevCutSpacing, 'f', 2, 64),
			strconv.FormatFloat(r.MeanFragmentLength, 'f', 2, 64),
		); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteBinCounts writes counts computed elsewhere (e.g. in SQL) against the
// bin layout of h. Bins missing from counts are written as zero.
func WriteBinCounts(w io.Writer, h *stats.Histogram, counts map[int]int) error {
	tw := newTabWriter(w, "Bin", "Low", "High", "Count")
	if err := tw.WriteHeader(); err != nil {
		return err
	}

	for i := range h.NumBins {
		lo, hi := h.BinRange(i)
		if err := tw.writeRow(strconv.Itoa(i), formatFloat(lo), formatFloat(hi), strconv.Itoa(counts[i])); err != nil {
			return err
		}
	}
	return tw.Flush()
}
