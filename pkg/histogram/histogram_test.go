package histogram

import (
	"math"
	"strings"
	"testing"

	"colhist/pkg/histerr"
	"colhist/pkg/predicate"
	"colhist/pkg/segment"
	"colhist/pkg/value"
)

func intHistogram(t *testing.T, values []int64, layout Layout, binCount int) *Histogram[int64] {
	t.Helper()
	h, err := FromSegment[int64](segment.NewSliceSegment(values), value.Int64Codec{}, layout, binCount)
	if err != nil {
		t.Fatalf("FromSegment failed: %v", err)
	}
	return h
}

func intRange(lo, hi int64) []int64 {
	values := make([]int64, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		values = append(values, v)
	}
	return values
}

func repeat(v int64, n int) []int64 {
	values := make([]int64, n)
	for i := range values {
		values[i] = v
	}
	return values
}

func prune(t *testing.T, h *Histogram[int64], pred predicate.Predicate, v int64) bool {
	t.Helper()
	got, err := h.DoesNotContain(pred, v, nil)
	if err != nil {
		t.Fatalf("DoesNotContain(%s, %d) failed: %v", pred, v, err)
	}
	return got
}

func card(t *testing.T, h *Histogram[int64], pred predicate.Predicate, v int64) (float32, bool) {
	t.Helper()
	c, certain, err := h.EstimateCardinality(pred, v, nil)
	if err != nil {
		t.Fatalf("EstimateCardinality(%s, %d) failed: %v", pred, v, err)
	}
	return c, certain
}

func approx(a, b float32) bool {
	if a == b {
		return true
	}
	diff := math.Abs(float64(a) - float64(b))
	scale := math.Max(math.Abs(float64(a)), math.Abs(float64(b)))
	return diff <= 1e-5*scale
}

func ptrTo[T any](v T) *T {
	return &v
}

// Two distinct values with repeats, two bins: the pruning boundaries
// around both edges must be exact.
func TestPruningBoundaries(t *testing.T) {
	values := append(repeat(12, 3), repeat(123456, 7)...)

	for _, layout := range []Layout{EqualDistinctCount, EqualWidth, EqualHeight} {
		t.Run(layout.String(), func(t *testing.T) {
			h := intHistogram(t, values, layout, 2)

			if !prune(t, h, predicate.Equals, 11) {
				t.Errorf("expected Equals 11 to be pruned")
			}
			if prune(t, h, predicate.Equals, 12) {
				t.Errorf("expected Equals 12 not to be pruned")
			}
			if !prune(t, h, predicate.Equals, 123457) {
				t.Errorf("expected Equals 123457 to be pruned")
			}

			if !prune(t, h, predicate.LessThan, 12) {
				t.Errorf("expected LessThan 12 to be pruned")
			}
			if prune(t, h, predicate.LessThan, 13) {
				t.Errorf("expected LessThan 13 not to be pruned")
			}

			if c, _ := card(t, h, predicate.LessThan, 12); c != 0 {
				t.Errorf("expected cardinality 0 below the minimum, got %f", c)
			}
			if c, certain := card(t, h, predicate.LessThan, 123457); c != 10 || !certain {
				t.Errorf("expected exact cardinality 10 above the maximum, got %f certain=%v", c, certain)
			}
			if c, _ := card(t, h, predicate.GreaterThan, 123456); c != 0 {
				t.Errorf("expected cardinality 0 above the maximum, got %f", c)
			}
		})
	}
}

func TestEqualDistinctCountLayout(t *testing.T) {
	h := intHistogram(t, intRange(1, 100), EqualDistinctCount, 10)

	if h.BinCount() != 10 {
		t.Fatalf("expected 10 bins, got %d", h.BinCount())
	}
	if h.TotalCount() != 100 || h.TotalDistinctCount() != 100 {
		t.Errorf("expected total 100/100, got %d/%d", h.TotalCount(), h.TotalDistinctCount())
	}
	for bin := BinID(0); bin < 10; bin++ {
		wantMin := int64(bin)*10 + 1
		wantMax := int64(bin)*10 + 10
		if h.bins.Min(bin) != wantMin || h.bins.Max(bin) != wantMax {
			t.Errorf("bin %d: expected [%d, %d], got [%d, %d]",
				bin, wantMin, wantMax, h.bins.Min(bin), h.bins.Max(bin))
		}
		if h.bins.Height(bin) != 10 || h.bins.Distinct(bin) != 10 {
			t.Errorf("bin %d: expected height 10 distinct 10, got %d/%d",
				bin, h.bins.Height(bin), h.bins.Distinct(bin))
		}
	}
}

func TestEqualDistinctCount_TooFewValues(t *testing.T) {
	_, err := FromSegment[int64](segment.NewSliceSegment([]int64{1, 2, 3}),
		value.Int64Codec{}, EqualDistinctCount, 5)
	if !histerr.IsKind(err, histerr.TooFewValues) {
		t.Errorf("expected TooFewValues, got %v", err)
	}
}

func TestEmptySegmentFails(t *testing.T) {
	_, err := FromSegment[int64](segment.NewSliceSegment([]int64{}),
		value.Int64Codec{}, EqualHeight, 4)
	if !histerr.IsKind(err, histerr.TooFewValues) {
		t.Errorf("expected TooFewValues for an empty segment, got %v", err)
	}
}

func TestEqualWidthLayout(t *testing.T) {
	h := intHistogram(t, intRange(1, 100), EqualWidth, 10)

	if h.BinCount() != 10 {
		t.Fatalf("expected 10 bins, got %d", h.BinCount())
	}
	for bin := BinID(0); bin < 10; bin++ {
		wantMin := int64(bin)*10 + 1
		wantMax := int64(bin)*10 + 10
		if h.bins.Min(bin) != wantMin || h.bins.Max(bin) != wantMax {
			t.Errorf("bin %d: expected [%d, %d], got [%d, %d]",
				bin, wantMin, wantMax, h.bins.Min(bin), h.bins.Max(bin))
		}
		if h.bins.Height(bin) != 10 {
			t.Errorf("bin %d: expected height 10, got %d", bin, h.bins.Height(bin))
		}
	}
}

func TestEqualWidthLayout_EmptyBins(t *testing.T) {
	h := intHistogram(t, []int64{1, 100}, EqualWidth, 10)

	if h.BinCount() != 10 {
		t.Fatalf("expected 10 bins, got %d", h.BinCount())
	}
	if h.bins.Height(0) != 1 || h.bins.Height(9) != 1 {
		t.Errorf("expected the edge bins to hold one row each")
	}
	for bin := BinID(1); bin < 9; bin++ {
		if h.bins.Height(bin) != 0 || h.bins.Distinct(bin) != 0 {
			t.Errorf("bin %d: expected empty, got height %d distinct %d",
				bin, h.bins.Height(bin), h.bins.Distinct(bin))
		}
	}

	// Values in empty bins are provably absent.
	if !prune(t, h, predicate.Equals, 15) {
		t.Errorf("expected Equals 15 in an empty bin to be pruned")
	}
	dnc, err := h.DoesNotContain(predicate.Between, 15, ptrTo(int64(35)))
	if err != nil {
		t.Fatalf("DoesNotContain(Between) failed: %v", err)
	}
	if !dnc {
		t.Errorf("expected Between 15 and 35 across empty bins to be pruned")
	}
}

func TestEqualHeightLayout(t *testing.T) {
	h := intHistogram(t, intRange(1, 100), EqualHeight, 10)

	if h.BinCount() != 10 {
		t.Fatalf("expected 10 bins, got %d", h.BinCount())
	}
	for bin := BinID(0); bin < 10; bin++ {
		if h.bins.Height(bin) != 10 || h.bins.Distinct(bin) != 10 {
			t.Errorf("bin %d: expected height 10 distinct 10, got %d/%d",
				bin, h.bins.Height(bin), h.bins.Distinct(bin))
		}
	}
}

func TestEqualHeightLayout_SkewedValues(t *testing.T) {
	values := repeat(1, 25)
	for v := int64(2); v <= 6; v++ {
		values = append(values, repeat(v, 5)...)
	}

	h := intHistogram(t, values, EqualHeight, 5)

	if h.TotalCount() != 50 {
		t.Fatalf("expected total 50, got %d", h.TotalCount())
	}
	// Target height is 10; the heavy first value overshoots and closes
	// its bin alone.
	if h.bins.Min(0) != 1 || h.bins.Max(0) != 1 || h.bins.Height(0) != 25 {
		t.Errorf("expected first bin [1, 1] with height 25, got [%d, %d] height %d",
			h.bins.Min(0), h.bins.Max(0), h.bins.Height(0))
	}
	if h.BinCount() != 4 {
		t.Errorf("expected 4 bins, got %d", h.BinCount())
	}
}

func TestGapBetweenBins(t *testing.T) {
	h := intHistogram(t, []int64{1, 2, 10, 11}, EqualDistinctCount, 2)

	dnc, err := h.DoesNotContain(predicate.Between, 4, ptrTo(int64(6)))
	if err != nil {
		t.Fatalf("DoesNotContain(Between) failed: %v", err)
	}
	if !dnc {
		t.Errorf("expected Between 4 and 6 inside a gap to be pruned")
	}

	// A value in a gap makes the below-count exact.
	if c, certain := card(t, h, predicate.LessThan, 5); c != 2 || !certain {
		t.Errorf("expected exact cardinality 2 in a gap, got %f certain=%v", c, certain)
	}
}

func TestEstimateEquals(t *testing.T) {
	h := intHistogram(t, append(repeat(12, 3), repeat(123456, 7)...), EqualDistinctCount, 2)

	if c, certain := card(t, h, predicate.Equals, 12); c != 3 || !certain {
		t.Errorf("expected exact cardinality 3, got %f certain=%v", c, certain)
	}

	// With more than one distinct value per bin the estimate is uniform
	// and uncertain.
	h2 := intHistogram(t, []int64{1, 2, 3, 4}, EqualDistinctCount, 2)
	if c, certain := card(t, h2, predicate.Equals, 1); c != 1 || certain {
		t.Errorf("expected uncertain cardinality 1, got %f certain=%v", c, certain)
	}
}

func TestComplementIdentity(t *testing.T) {
	h := intHistogram(t, intRange(1, 100), EqualWidth, 7)

	for _, v := range []int64{1, 37, 100, 500} {
		eq, _ := card(t, h, predicate.Equals, v)
		neq, _ := card(t, h, predicate.NotEquals, v)
		if !approx(eq+neq, float32(h.TotalCount())) {
			t.Errorf("v=%d: expected Equals + NotEquals = total, got %f + %f", v, eq, neq)
		}
	}
}

func TestBetweenDecomposition(t *testing.T) {
	h := intHistogram(t, intRange(1, 100), EqualHeight, 6)

	between, _, err := h.EstimateCardinality(predicate.Between, 20, ptrTo(int64(60)))
	if err != nil {
		t.Fatalf("EstimateCardinality(Between) failed: %v", err)
	}
	lte, _ := card(t, h, predicate.LessThanEquals, 60)
	lt, _ := card(t, h, predicate.LessThan, 20)
	if !approx(between, lte-lt) {
		t.Errorf("expected Between = LessThanEquals - LessThan, got %f vs %f", between, lte-lt)
	}

	inverted, certain, err := h.EstimateCardinality(predicate.Between, 60, ptrTo(int64(20)))
	if err != nil {
		t.Fatalf("EstimateCardinality(inverted Between) failed: %v", err)
	}
	if inverted != 0 || !certain {
		t.Errorf("expected exact 0 for an inverted range, got %f certain=%v", inverted, certain)
	}
}

func TestLessThanEqualsMatchesNextValue(t *testing.T) {
	h := intHistogram(t, intRange(1, 100), EqualWidth, 9)

	for _, v := range []int64{1, 42, 99, 100} {
		lte, _ := card(t, h, predicate.LessThanEquals, v)
		lt, _ := card(t, h, predicate.LessThan, v+1)
		if lte != lt {
			t.Errorf("v=%d: expected LessThanEquals = LessThan of the next value, got %f vs %f", v, lte, lt)
		}
	}
}

func TestEstimateBounds(t *testing.T) {
	h := intHistogram(t, append(intRange(1, 50), repeat(25, 30)...), EqualHeight, 4)
	total := float32(h.TotalCount())

	preds := []predicate.Predicate{
		predicate.Equals, predicate.NotEquals, predicate.LessThan,
		predicate.LessThanEquals, predicate.GreaterThan, predicate.GreaterThanEquals,
	}
	for _, pred := range preds {
		for _, v := range []int64{-10, 0, 1, 25, 50, 51, 200} {
			c, _ := card(t, h, pred, v)
			if c < 0 || c > total {
				t.Errorf("%s %d: estimate %f outside [0, %f]", pred, v, c, total)
			}
		}
	}
}

func TestFloatHistogram(t *testing.T) {
	seg := segment.NewSliceSegment([]float64{1, 2, 3, 4})
	h, err := FromSegment[float64](seg, value.Float64Codec{}, EqualHeight, 2)
	if err != nil {
		t.Fatalf("FromSegment failed: %v", err)
	}

	if h.BinCount() != 2 {
		t.Fatalf("expected 2 bins, got %d", h.BinCount())
	}

	c, certain, err := h.EstimateCardinality(predicate.LessThan, 2.5, nil)
	if err != nil {
		t.Fatalf("EstimateCardinality failed: %v", err)
	}
	if c != 2 || !certain {
		t.Errorf("expected exact 2 in the gap, got %f certain=%v", c, certain)
	}

	c, certain, err = h.EstimateCardinality(predicate.LessThan, 1.5, nil)
	if err != nil {
		t.Fatalf("EstimateCardinality failed: %v", err)
	}
	if certain || !approx(c, 1) {
		t.Errorf("expected interpolated estimate near 1, got %f certain=%v", c, certain)
	}
}

func TestInt32AndFloat32Histograms(t *testing.T) {
	seg32 := segment.NewSliceSegment([]int32{5, 5, 9})
	h32, err := FromSegment[int32](seg32, value.Int32Codec{}, EqualDistinctCount, 2)
	if err != nil {
		t.Fatalf("int32 FromSegment failed: %v", err)
	}
	c, certain, err := h32.EstimateCardinality(predicate.Equals, 5, nil)
	if err != nil || c != 2 || !certain {
		t.Errorf("int32: expected exact 2, got %f certain=%v err=%v", c, certain, err)
	}

	segF := segment.NewSliceSegment([]float32{0.5, 1.5, 1.5})
	hF, err := FromSegment[float32](segF, value.Float32Codec{}, EqualWidth, 2)
	if err != nil {
		t.Fatalf("float32 FromSegment failed: %v", err)
	}
	if hF.Minimum() != 0.5 || hF.Maximum() != 1.5 {
		t.Errorf("float32: expected range [0.5, 1.5], got [%g, %g]", hF.Minimum(), hF.Maximum())
	}
}

func TestLikeOnNumericHistogramFails(t *testing.T) {
	h := intHistogram(t, intRange(1, 10), EqualHeight, 2)

	_, err := h.DoesNotContain(predicate.Like, 5, nil)
	if !histerr.IsKind(err, histerr.UnsupportedPredicate) {
		t.Errorf("expected UnsupportedPredicate, got %v", err)
	}
	_, _, err = h.EstimateCardinality(predicate.NotLike, 5, nil)
	if !histerr.IsKind(err, histerr.UnsupportedPredicate) {
		t.Errorf("expected UnsupportedPredicate, got %v", err)
	}
}

func TestVariantTypeMismatch(t *testing.T) {
	h := intHistogram(t, intRange(1, 10), EqualHeight, 2)

	_, _, err := h.EstimateCardinalityVariant(predicate.Equals, value.StringVariant("x"), nil)
	if !histerr.IsKind(err, histerr.TypeMismatch) {
		t.Errorf("expected TypeMismatch, got %v", err)
	}

	c, certain, err := h.EstimateCardinalityVariant(predicate.Equals, value.Int64Variant(5), nil)
	// Value 5 sits in a bin with five distinct values, so the estimate is
	// uniform and uncertain.
	if err != nil || c != 1 || certain {
		t.Errorf("expected uncertain 1 through the variant API, got %f certain=%v err=%v", c, certain, err)
	}
}

func TestBetweenNeedsSecondValue(t *testing.T) {
	h := intHistogram(t, intRange(1, 10), EqualHeight, 2)

	if _, err := h.DoesNotContain(predicate.Between, 3, nil); err == nil {
		t.Errorf("expected an error for Between without a second value")
	}
}

func TestSelectivity(t *testing.T) {
	h := intHistogram(t, intRange(1, 100), EqualWidth, 10)

	sel, _, err := h.EstimateSelectivity(predicate.LessThan, 51, nil)
	if err != nil {
		t.Fatalf("EstimateSelectivity failed: %v", err)
	}
	if !approx(sel, 0.5) {
		t.Errorf("expected selectivity near 0.5, got %f", sel)
	}
}

func TestEstimateNullCount(t *testing.T) {
	h := intHistogram(t, intRange(1, 10), EqualHeight, 2)

	if got := h.EstimateNullCount(12); got != 2 {
		t.Errorf("expected 2 nulls, got %d", got)
	}
	// Chunk row counts below the histogram total clamp to zero.
	if got := h.EstimateNullCount(8); got != 0 {
		t.Errorf("expected clamped 0 nulls, got %d", got)
	}
}

func TestDescription(t *testing.T) {
	h := intHistogram(t, intRange(1, 20), EqualHeight, 2)

	desc := h.Description()
	if !strings.Contains(desc, "equal-height histogram") {
		t.Errorf("expected the layout name in the description, got %q", desc)
	}
	if !strings.Contains(desc, "bins        2") {
		t.Errorf("expected the bin count in the description, got %q", desc)
	}
	if !strings.Contains(desc, "[1, 10]: 10") {
		t.Errorf("expected bin edges in the description, got %q", desc)
	}
}
