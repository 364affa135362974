package histogram

import (
	"fmt"
	"strings"

	"colhist/pkg/logging"
	"colhist/pkg/predicate"
	"colhist/pkg/segment"
	"colhist/pkg/value"
)

// Histogram summarizes the value distribution of one column segment for
// cardinality estimation and predicate pruning. It is immutable after
// construction and may be read concurrently without synchronization.
type Histogram[T comparable] struct {
	bins   *Bins[T]
	codec  value.Codec[T]
	layout Layout

	total         uint64
	totalDistinct uint64
}

// FromSegment scans a segment, builds its value distribution, and
// constructs a histogram with the requested layout and bin count.
func FromSegment[T comparable](seg segment.Segment[T], codec value.Codec[T], layout Layout, binCount int) (*Histogram[T], error) {
	dist, err := segment.BuildDistribution(seg, codec)
	if err != nil {
		return nil, err
	}
	return FromValueCounts(dist, codec, layout, binCount)
}

// FromValueCounts constructs a histogram from an already-built value
// distribution, which must be sorted ascending.
func FromValueCounts[T comparable](dist []segment.ValueCount[T], codec value.Codec[T], layout Layout, binCount int) (*Histogram[T], error) {
	bins, err := buildBins(dist, codec, layout, binCount)
	if err != nil {
		return nil, err
	}
	h := fromBins(bins, codec, layout)
	logging.WithLayout(layout.String()).Debug("histogram built",
		"bins", h.BinCount(), "total", h.total, "distinct", h.totalDistinct)
	return h, nil
}

func fromBins[T comparable](bins *Bins[T], codec value.Codec[T], layout Layout) *Histogram[T] {
	return &Histogram[T]{
		bins:          bins,
		codec:         codec,
		layout:        layout,
		total:         bins.TotalCount(),
		totalDistinct: bins.TotalDistinctCount(),
	}
}

// Layout returns the bin-layout strategy the histogram was built with.
func (h *Histogram[T]) Layout() Layout {
	return h.layout
}

// Minimum returns the smallest value covered by any bin.
func (h *Histogram[T]) Minimum() T {
	return h.bins.Min(0)
}

// Maximum returns the largest value covered by any bin.
func (h *Histogram[T]) Maximum() T {
	return h.bins.Max(BinID(h.bins.Count() - 1))
}

// BinCount returns the number of bins.
func (h *Histogram[T]) BinCount() int {
	return h.bins.Count()
}

// TotalCount returns the number of non-null rows the histogram represents.
func (h *Histogram[T]) TotalCount() uint64 {
	return h.total
}

// TotalDistinctCount returns the number of distinct values across all bins.
func (h *Histogram[T]) TotalDistinctCount() uint64 {
	return h.totalDistinct
}

// EstimateNullCount derives the null count from the row count of the
// owning chunk. Chunk statistics have been observed to report row counts
// below the histogram's total at scale; the difference is clamped to zero
// rather than reported negative.
func (h *Histogram[T]) EstimateNullCount(rowCount uint64) uint64 {
	if h.total >= rowCount {
		return 0
	}
	return rowCount - h.total
}

// Clone returns a deep copy sharing no state with the receiver.
func (h *Histogram[T]) Clone() *Histogram[T] {
	return fromBins(h.bins.clone(), h.codec, h.layout)
}

// Description renders a human-readable report of the histogram.
func (h *Histogram[T]) Description() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s histogram\n", h.layout)
	fmt.Fprintf(&b, "  distinct    %d\n", h.totalDistinct)
	fmt.Fprintf(&b, "  min         %s\n", h.codec.Format(h.Minimum()))
	fmt.Fprintf(&b, "  max         %s\n", h.codec.Format(h.Maximum()))
	fmt.Fprintf(&b, "  bins        %d\n", h.BinCount())

	b.WriteString("  edges / counts\n")
	for bin := BinID(0); bin < BinID(h.bins.Count()); bin++ {
		fmt.Fprintf(&b, "              [%s, %s]: %d\n",
			h.codec.Format(h.bins.Min(bin)), h.codec.Format(h.bins.Max(bin)), h.bins.Height(bin))
	}
	return b.String()
}

// DoesNotContainVariant is DoesNotContain for callers holding tagged
// variants instead of statically typed values.
func (h *Histogram[T]) DoesNotContainVariant(pred predicate.Predicate, v value.Variant, v2 *value.Variant) (bool, error) {
	tv, tv2, err := h.unpackVariants(v, v2)
	if err != nil {
		return false, err
	}
	return h.DoesNotContain(pred, tv, tv2)
}

// EstimateCardinalityVariant is EstimateCardinality over tagged variants.
func (h *Histogram[T]) EstimateCardinalityVariant(pred predicate.Predicate, v value.Variant, v2 *value.Variant) (float32, bool, error) {
	tv, tv2, err := h.unpackVariants(v, v2)
	if err != nil {
		return 0, false, err
	}
	return h.EstimateCardinality(pred, tv, tv2)
}

// EstimateSelectivityVariant is EstimateSelectivity over tagged variants.
func (h *Histogram[T]) EstimateSelectivityVariant(pred predicate.Predicate, v value.Variant, v2 *value.Variant) (float32, bool, error) {
	tv, tv2, err := h.unpackVariants(v, v2)
	if err != nil {
		return 0, false, err
	}
	return h.EstimateSelectivity(pred, tv, tv2)
}

// SliceWithPredicateVariant is SliceWithPredicate over tagged variants.
func (h *Histogram[T]) SliceWithPredicateVariant(pred predicate.Predicate, v value.Variant, v2 *value.Variant) (*Histogram[T], error) {
	tv, tv2, err := h.unpackVariants(v, v2)
	if err != nil {
		return nil, err
	}
	return h.SliceWithPredicate(pred, tv, tv2)
}

func (h *Histogram[T]) unpackVariants(v value.Variant, v2 *value.Variant) (T, *T, error) {
	tv, err := h.codec.FromVariant(v)
	if err != nil {
		return tv, nil, err
	}
	if v2 == nil {
		return tv, nil, nil
	}
	tv2, err := h.codec.FromVariant(*v2)
	if err != nil {
		return tv, nil, err
	}
	return tv, &tv2, nil
}

// stringCodec returns the codec as a StringCodec when the element type is
// string; the engine gains prefix arithmetic through it.
func (h *Histogram[T]) stringCodec() (*value.StringCodec, bool) {
	sc, ok := any(h.codec).(*value.StringCodec)
	return sc, ok
}

func asString[T any](v T) string {
	return any(v).(string)
}

func fromString[T any](s string) T {
	return any(s).(T)
}
