// Package stats derives summary values from model snapshots for display.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/inodb/vibe-chromatin/internal/chromatin"
)

// Default plot range and resolution.
const (
	DefaultMin  = 100
	DefaultMax  = 200
	DefaultBins = 20
)

// Histogram counts values into NumBins equal-width bins over [Min, Max).
// Values outside the range go to Underflow or Overflow.
type Histogram struct {
	Min, Max float64
	NumBins  int

	Underflow int
	Overflow  int

	counts   []int
	total    int
	observed [2]float64
	sum      float64
}

// NewHistogram creates an empty histogram.
func NewHistogram(lo, hi float64, bins int) (*Histogram, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("histogram needs at least one bin, got %d", bins)
	}
	if !(hi > lo) {
		return nil, fmt.Errorf("histogram range [%g, %g) is empty", lo, hi)
	}
	return &Histogram{Min: lo, Max: hi, NumBins: bins, counts: make([]int, bins)}, nil
}

// Add records one value.
func (h *Histogram) Add(v float64) {
	if h.total == 0 {
		h.observed = [2]float64{v, v}
	} else {
		h.observed[0] = math.Min(h.observed[0], v)
		h.observed[1] = math.Max(h.observed[1], v)
	}
	h.total++
	h.sum += v

	switch {
	case v < h.Min:
		h.Underflow++
	case v >= h.Max:
		h.Overflow++
	default:
		h.counts[h.Bin(v)]++
	}
}

// AddInts records every value in vs.
func (h *Histogram) AddInts(vs []int) {
	for _, v := range vs {
		h.Add(float64(v))
	}
}

// Bin returns the bin index for an in-range value.
func (h *Histogram) Bin(v float64) int {
	step := (h.Max - h.Min) / float64(h.NumBins)
	i := int((v - h.Min) / step)
	return min(max(i, 0), h.NumBins-1)
}

// BinRange returns the [lo, hi) interval covered by bin i.
func (h *Histogram) BinRange(i int) (lo, hi float64) {
	step := (h.Max - h.Min) / float64(h.NumBins)
	return h.Min + float64(i)*step, h.Min + float64(i+1)*step
}

// Counts returns bin index -> count for non-empty bins.
func (h *Histogram) Counts() map[int]int {
	out := make(map[int]int)
	for i, c := range h.counts {
		if c > 0 {
			out[i] = c
		}
	}
	return out
}

// Count returns the count of bin i.
func (h *Histogram) Count(i int) int {
	return h.counts[i]
}

// Total returns the number of values added, including out-of-range ones.
func (h *Histogram) Total() int {
	return h.total
}

// Observed returns the smallest and largest values added.
// ok is false when nothing has been added.
func (h *Histogram) Observed() (lo, hi float64, ok bool) {
	if h.total == 0 {
		return 0, 0, false
	}
	return h.observed[0], h.observed[1], true
}

// Mean returns the mean of all added values, or 0 when empty.
func (h *Histogram) Mean() float64 {
	if h.total == 0 {
		return 0
	}
	return h.sum / float64(h.total)
}

// Metric names a quantity derived from a snapshot.
type Metric string

// Supported metrics.
const (
	MetricCutSpacing Metric = "cut-spacing"
	MetricLinker     Metric = "linker"
	MetricFragment   Metric = "fragment"
)

// Metrics lists the supported metric names in display order.
func Metrics() []Metric {
	return []Metric{MetricCutSpacing, MetricLinker, MetricFragment}
}

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q (want one of %v)", s, Metrics())
}

// Values extracts the metric from a snapshot.
func (m Metric) Values(s *chromatin.Snapshot) []int {
	switch m {
	case MetricLinker:
		return s.LinkerLengths()
	case MetricFragment:
		return s.FragmentLengths()
	default:
		return s.CutSpacings()
	}
}

// FromSnapshot bins metric m of snapshot s.
func FromSnapshot(s *chromatin.Snapshot, m Metric, lo, hi float64, bins int) (*Histogram, error) {
	h, err := NewHistogram(lo, hi, bins)
	if err != nil {
		return nil, err
	}
	h.AddInts(m.Values(s))
	return h, nil
}

// Summary holds order statistics of a metric.
type Summary struct {
	Count  int
	Min    int
	Max    int
	Mean   float64
	Median float64
}

// Summarize computes order statistics of vs without modifying it.
func Summarize(vs []int) Summary {
	if len(vs) == 0 {
		return Summary{}
	}
	sorted := append([]int(nil), vs...)
	sort.Ints(sorted)

	sum := 0
	for _, v := range sorted {
		sum += v
	}
	n := len(sorted)
	median := float64(sorted[n/2])
	if n%2 == 0 {
		median = float64(sorted[n/2-1]+sorted[n/2]) / 2
	}
	return Summary{
		Count:  n,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   float64(sum) / float64(n),
		Median: median,
	}
}
