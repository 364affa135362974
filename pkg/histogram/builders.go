package histogram

import (
	"colhist/pkg/histerr"
	"colhist/pkg/segment"
	"colhist/pkg/value"
)

// Layout selects the bin partition strategy used at construction time.
type Layout int

const (
	// Generic places no layout constraint on the bins. It is the result
	// type of slicing and of building directly from explicit bins.
	Generic Layout = iota

	// EqualDistinctCount partitions the distinct values into groups of
	// (nearly) equal size. Bins hug the data, leaving gaps between groups.
	EqualDistinctCount

	// EqualWidth partitions the value domain into intervals of equal
	// width. Bins may be empty.
	EqualWidth

	// EqualHeight grows each bin until it holds (nearly) the same number
	// of rows.
	EqualHeight
)

func (l Layout) String() string {
	switch l {
	case Generic:
		return "generic"
	case EqualDistinctCount:
		return "equal-distinct-count"
	case EqualWidth:
		return "equal-width"
	case EqualHeight:
		return "equal-height"
	default:
		return "unknown"
	}
}

// buildBins dispatches to the layout strategies. The distribution must be
// sorted ascending and non-empty; binCount must be positive.
func buildBins[T comparable](dist []segment.ValueCount[T], codec value.Codec[T], layout Layout, binCount int) (*Bins[T], error) {
	if len(dist) == 0 {
		return nil, histerr.New(histerr.TooFewValues, "cannot build a histogram from an empty distribution")
	}
	if layout != Generic && binCount < 1 {
		return nil, histerr.Newf(histerr.TooFewValues, "bin count must be at least 1, got %d", binCount)
	}

	switch layout {
	case EqualDistinctCount:
		return buildEqualDistinctCount(dist, binCount)
	case EqualWidth:
		return buildEqualWidth(dist, codec, binCount)
	case EqualHeight:
		return buildEqualHeight(dist, binCount)
	default:
		return buildGeneric(dist)
	}
}

// buildEqualDistinctCount groups the sorted distinct values into binCount
// runs of floor(m/binCount) values; the first m mod binCount bins take one
// extra value. Bin edges are actual data values, so gaps remain between
// groups.
func buildEqualDistinctCount[T comparable](dist []segment.ValueCount[T], binCount int) (*Bins[T], error) {
	if binCount > len(dist) {
		return nil, histerr.Newf(histerr.TooFewValues,
			"requested %d bins but the segment has only %d distinct values", binCount, len(dist))
	}

	perBin := len(dist) / binCount
	withExtra := len(dist) % binCount

	bins := newBins[T](binCount)
	idx := 0
	for bin := 0; bin < binCount; bin++ {
		n := perBin
		if bin < withExtra {
			n++
		}
		group := dist[idx : idx+n]

		var height uint64
		for _, vc := range group {
			height += vc.Count
		}
		bins.push(group[0].Value, group[n-1].Value, height, uint64(n))
		idx += n
	}
	return bins, nil
}

// buildEqualWidth partitions the numeric domain between the smallest and
// largest value into intervals of ceil(W/binCount) units each; the last
// interval may be narrower. At most binCount bins are built, and fewer
// when the intervals reach the largest value early (a width of 10 with 6
// bins requested gives 5 intervals of 2). Empty intervals produce bins with
// zero height and zero distinct count. For strings the domain is the
// prefix-number representation, so interior edges are representative
// strings from FromRepr.
func buildEqualWidth[T comparable](dist []segment.ValueCount[T], codec value.Codec[T], binCount int) (*Bins[T], error) {
	lo := codec.Repr(dist[0].Value)
	hi := codec.Repr(dist[len(dist)-1].Value)

	// per = ceil((hi - lo + 1) / binCount), written so the +1 cannot
	// overflow when the distribution spans the whole domain.
	per := (hi-lo)/uint64(binCount) + 1

	bins := newBins[T](binCount)
	vi := 0
	for bin := 0; bin < binCount; bin++ {
		binLo := lo + uint64(bin)*per
		if binLo > hi {
			break
		}
		binHi := binLo + per - 1
		if binHi > hi || binHi < binLo {
			binHi = hi
		}

		binMin := codec.FromRepr(binLo)
		binMax := codec.FromRepr(binHi)
		if bin == 0 {
			binMin = dist[0].Value
		}
		last := binHi == hi
		if last {
			binMax = dist[len(dist)-1].Value
		}

		var height, distinct uint64
		first := vi
		for vi < len(dist) && (last || codec.Compare(dist[vi].Value, binMax) <= 0) {
			height += dist[vi].Count
			distinct++
			vi++
		}
		// The prefix-number mapping is not injective, so a value can sort
		// below the representative edge of its interval. Widen the lower
		// edge to keep every counted value inside the bin.
		if distinct > 0 && codec.Compare(dist[first].Value, binMin) < 0 {
			binMin = dist[first].Value
		}

		bins.push(binMin, binMax, height, distinct)
	}
	return bins, nil
}

// buildEqualHeight appends distinct values to the current bin until its
// accumulated row count reaches ceil(total/binCount), then opens the next
// bin. Heights are materialized per bin, so a bin whose last value
// overshoots the target carries its true count.
func buildEqualHeight[T comparable](dist []segment.ValueCount[T], binCount int) (*Bins[T], error) {
	total := segment.TotalCount(dist)
	per := (total + uint64(binCount) - 1) / uint64(binCount)

	bins := newBins[T](binCount)
	idx := 0
	for idx < len(dist) {
		first := idx
		var height, distinct uint64
		for idx < len(dist) && height < per {
			height += dist[idx].Count
			distinct++
			idx++
		}
		bins.push(dist[first].Value, dist[idx-1].Value, height, distinct)
	}
	return bins, nil
}

// buildGeneric gives each distinct value its own bin.
func buildGeneric[T comparable](dist []segment.ValueCount[T]) (*Bins[T], error) {
	bins := newBins[T](len(dist))
	for _, vc := range dist {
		bins.push(vc.Value, vc.Value, vc.Count, 1)
	}
	return bins, nil
}
