package histogram

import (
	"math"

	"colhist/pkg/histerr"
	"colhist/pkg/predicate"
)

// SliceWithPredicate derives a new generic histogram describing the value
// distribution remaining after applying the predicate. The receiver is
// unchanged. Slicing a predicate the histogram can prune fails with
// EmptySlice; (NOT) LIKE has no slice semantics and fails with
// UnsupportedSlice.
func (h *Histogram[T]) SliceWithPredicate(pred predicate.Predicate, v T, v2 *T) (*Histogram[T], error) {
	if err := h.validateSearch(pred, v, v2); err != nil {
		return nil, err
	}

	dnc, err := h.doesNotContain(pred, v, v2)
	if err != nil {
		return nil, err
	}
	if dnc {
		return nil, histerr.Newf(histerr.EmptySlice,
			"predicate %s prunes the whole histogram", pred)
	}

	switch pred {
	case predicate.Equals:
		return h.sliceEquals(v)

	case predicate.NotEquals:
		return h.sliceNotEquals(v)

	case predicate.LessThan, predicate.LessThanEquals:
		return h.sliceLess(pred, v)

	case predicate.GreaterThan, predicate.GreaterThanEquals:
		return h.sliceGreater(pred, v)

	case predicate.Between:
		lower, err := h.SliceWithPredicate(predicate.GreaterThanEquals, v, nil)
		if err != nil {
			return nil, err
		}
		return lower.SliceWithPredicate(predicate.LessThanEquals, *v2, nil)

	default:
		return nil, histerr.Newf(histerr.UnsupportedSlice,
			"predicate %s cannot be sliced on", pred)
	}
}

func (h *Histogram[T]) sliceEquals(v T) (*Histogram[T], error) {
	eq, _, err := h.estimate(predicate.Equals, v, nil)
	if err != nil {
		return nil, err
	}

	bins := newBins[T](1)
	bins.push(v, v, ceilCount(eq), 1)
	return fromBins(bins, h.codec, Generic), nil
}

func (h *Histogram[T]) sliceNotEquals(v T) (*Histogram[T], error) {
	valueBin := h.bins.ForValue(h.codec, v)
	if valueBin == InvalidBin || h.bins.Height(valueBin) == 0 {
		// The value lies in a gap or an empty bin; removing it changes
		// nothing.
		out := h.Clone()
		out.layout = Generic
		return out, nil
	}

	eq, _, err := h.estimate(predicate.Equals, v, nil)
	if err != nil {
		return nil, err
	}
	eqCount := ceilCount(eq)

	bins := newBins[T](h.bins.Count())
	for bin := BinID(0); bin < BinID(h.bins.Count()); bin++ {
		if bin != valueBin {
			bins.push(h.bins.Min(bin), h.bins.Max(bin), h.bins.Height(bin), h.bins.Distinct(bin))
			continue
		}

		distinct := h.bins.Distinct(bin)
		// Do not create an empty bin.
		if distinct == 1 {
			continue
		}
		height := h.bins.Height(bin)
		if eqCount < height {
			height -= eqCount
		} else {
			height = 0
		}
		bins.push(h.bins.Min(bin), h.bins.Max(bin), height, distinct-1)
	}
	return fromBins(bins, h.codec, Generic), nil
}

func (h *Histogram[T]) sliceLess(pred predicate.Predicate, v T) (*Histogram[T], error) {
	valueBin := h.bins.ForValue(h.codec, v)

	var slicedBinCount int
	if valueBin == InvalidBin {
		// A value above the histogram maximum keeps everything; any other
		// gap keeps all bins below it.
		nextBin := h.bins.NextForValue(h.codec, v)
		if nextBin == InvalidBin {
			out := h.Clone()
			out.layout = Generic
			return out, nil
		}
		slicedBinCount = int(nextBin)
	} else if pred == predicate.LessThan && h.codec.Compare(v, h.bins.Min(valueBin)) == 0 {
		// LessThan with the value on a bin's lower edge excludes that bin.
		slicedBinCount = int(valueBin)
	} else {
		slicedBinCount = int(valueBin) + 1
	}

	bins := newBins[T](slicedBinCount)
	last := BinID(slicedBinCount - 1)
	clipLast := h.codec.Compare(v, h.bins.Max(last)) < 0

	for bin := BinID(0); bin < last || (bin == last && !clipLast); bin++ {
		bins.push(h.bins.Min(bin), h.bins.Max(bin), h.bins.Height(bin), h.bins.Distinct(bin))
	}

	if clipLast {
		// The value splits the last kept bin: clip its upper edge to v
		// and scale height and distinct count by the covered share.
		bound := v
		if pred == predicate.LessThanEquals {
			bound = h.codec.Next(v)
		}
		share := h.codec.Share(h.bins.Min(last), h.bins.Max(last), bound)
		bins.push(h.bins.Min(last), v,
			ceilCount(float64(h.bins.Height(last))*share),
			ceilCount(float64(h.bins.Distinct(last))*share))
	}

	return fromBins(bins, h.codec, Generic), nil
}

func (h *Histogram[T]) sliceGreater(pred predicate.Predicate, v T) (*Histogram[T], error) {
	valueBin := h.bins.ForValue(h.codec, v)

	var slicedBinCount int
	if valueBin == InvalidBin {
		nextBin := h.bins.NextForValue(h.codec, v)
		if nextBin == InvalidBin {
			return nil, histerr.Newf(histerr.EmptySlice,
				"predicate %s prunes the whole histogram", pred)
		}
		if nextBin == 0 {
			// A value below the histogram minimum keeps everything.
			out := h.Clone()
			out.layout = Generic
			return out, nil
		}
		slicedBinCount = h.bins.Count() - int(nextBin)
	} else if pred == predicate.GreaterThan && h.codec.Compare(v, h.bins.Max(valueBin)) == 0 {
		// GreaterThan with the value on a bin's upper edge excludes that bin.
		slicedBinCount = h.bins.Count() - int(valueBin) - 1
	} else {
		slicedBinCount = h.bins.Count() - int(valueBin)
	}

	first := BinID(h.bins.Count() - slicedBinCount)
	bins := newBins[T](slicedBinCount)

	if h.codec.Compare(v, h.bins.Min(first)) > 0 {
		// The value splits the first kept bin: raise its lower edge and
		// scale height and distinct count by the remaining share.
		newMin := v
		if pred == predicate.GreaterThan {
			newMin = h.codec.Next(v)
		}
		share := 1.0 - h.codec.Share(h.bins.Min(first), h.bins.Max(first), v)
		bins.push(newMin, h.bins.Max(first),
			ceilCount(float64(h.bins.Height(first))*share),
			ceilCount(float64(h.bins.Distinct(first))*share))
	} else {
		bins.push(h.bins.Min(first), h.bins.Max(first), h.bins.Height(first), h.bins.Distinct(first))
	}

	for bin := first + 1; bin < BinID(h.bins.Count()); bin++ {
		bins.push(h.bins.Min(bin), h.bins.Max(bin), h.bins.Height(bin), h.bins.Distinct(bin))
	}

	return fromBins(bins, h.codec, Generic), nil
}

func ceilCount(x float64) uint64 {
	if x <= 0 {
		return 0
	}
	return uint64(math.Ceil(x))
}
