package histogram

import (
	"math"

	"colhist/pkg/histerr"
	"colhist/pkg/predicate"
	"colhist/pkg/value"
)

// DoesNotContain reports whether the histogram proves that no row of the
// source segment can satisfy the predicate. The answer is one-sided: false
// positives (returning false although the segment has no match) are
// possible, false negatives are not.
func (h *Histogram[T]) DoesNotContain(pred predicate.Predicate, v T, v2 *T) (bool, error) {
	if err := h.validateSearch(pred, v, v2); err != nil {
		return false, err
	}
	return h.doesNotContain(pred, v, v2)
}

// EstimateCardinality returns the approximate number of rows satisfying
// the predicate, and whether the answer is exact rather than model-based.
func (h *Histogram[T]) EstimateCardinality(pred predicate.Predicate, v T, v2 *T) (float32, bool, error) {
	if err := h.validateSearch(pred, v, v2); err != nil {
		return 0, false, err
	}
	card, certain, err := h.estimate(pred, v, v2)
	if err != nil {
		return 0, false, err
	}
	return float32(card), certain, nil
}

// EstimateSelectivity returns the estimated fraction of rows satisfying
// the predicate.
func (h *Histogram[T]) EstimateSelectivity(pred predicate.Predicate, v T, v2 *T) (float32, bool, error) {
	card, certain, err := h.EstimateCardinality(pred, v, v2)
	if err != nil {
		return 0, false, err
	}
	return card / float32(h.total), certain, nil
}

// validateSearch rejects malformed search values before any pruning or
// estimation runs. Only string histograms can fail here: characters
// outside the supported set are never legal, and wildcards are legal only
// in (NOT) LIKE patterns.
func (h *Histogram[T]) validateSearch(pred predicate.Predicate, v T, v2 *T) error {
	if pred.NeedsSecondValue() && v2 == nil {
		return histerr.Newf(histerr.TypeMismatch, "%s needs a second search value", pred)
	}

	sc, ok := h.stringCodec()
	if !ok {
		return nil
	}
	if err := sc.ValidateSearch(asString(v), pred.IsLike()); err != nil {
		return err
	}
	if v2 != nil {
		if err := sc.ValidateSearch(asString(*v2), pred.IsLike()); err != nil {
			return err
		}
	}
	return nil
}

// doesNotContain dispatches pruning without re-validating the search value.
func (h *Histogram[T]) doesNotContain(pred predicate.Predicate, v T, v2 *T) (bool, error) {
	if pred.IsLike() {
		sc, ok := h.stringCodec()
		if !ok {
			return false, histerr.Newf(histerr.UnsupportedPredicate,
				"%s is only supported for string histograms", pred)
		}
		return h.doesNotContainLike(sc, pred, asString(v)), nil
	}
	return h.doesNotContainBase(pred, v, v2), nil
}

func (h *Histogram[T]) doesNotContainBase(pred predicate.Predicate, v T, v2 *T) bool {
	switch pred {
	case predicate.Equals:
		bin := h.bins.ForValue(h.codec, v)
		// Equal-width histograms can have empty bins.
		return bin == InvalidBin || h.bins.Height(bin) == 0

	case predicate.NotEquals:
		return h.codec.Compare(h.Minimum(), v) == 0 && h.codec.Compare(h.Maximum(), v) == 0

	case predicate.LessThan:
		return h.codec.Compare(v, h.Minimum()) <= 0

	case predicate.LessThanEquals:
		return h.codec.Compare(v, h.Minimum()) < 0

	case predicate.GreaterThanEquals:
		return h.codec.Compare(v, h.Maximum()) > 0

	case predicate.GreaterThan:
		return h.codec.Compare(v, h.Maximum()) >= 0

	case predicate.Between:
		if h.doesNotContainBase(predicate.GreaterThanEquals, v, nil) {
			return true
		}
		if h.codec.Compare(*v2, v) < 0 || h.doesNotContainBase(predicate.LessThanEquals, *v2, nil) {
			return true
		}

		valueBin := h.bins.ForValue(h.codec, v)
		value2Bin := h.bins.ForValue(h.codec, *v2)

		// With a layout that leaves gaps, both values falling into the
		// same gap proves the range empty. At least two bins are needed
		// to rule out v < minimum and v2 > maximum.
		if valueBin == InvalidBin && value2Bin == InvalidBin && h.bins.Count() > 1 &&
			h.bins.NextForValue(h.codec, v) == h.bins.NextForValue(h.codec, *v2) {
			return true
		}

		// With an equal-width layout, both values falling into empty bins
		// with only empty bins between them proves the range empty too.
		if valueBin != InvalidBin && value2Bin != InvalidBin &&
			h.bins.Height(valueBin) == 0 && h.bins.Height(value2Bin) == 0 {
			for bin := valueBin + 1; bin < value2Bin; bin++ {
				if h.bins.Height(bin) > 0 {
					return false
				}
			}
			return true
		}

		return false

	default:
		// Do not prune predicates we cannot handle.
		return false
	}
}

// doesNotContainLike prunes (NOT) LIKE patterns through the range covered
// by the pattern's wildcard-free prefix.
func (h *Histogram[T]) doesNotContainLike(sc *value.StringCodec, pred predicate.Predicate, pattern string) bool {
	a := value.AnalyzeLikePattern(pattern)

	if pred == predicate.NotLike {
		if !a.HasWildcard() {
			return h.doesNotContainBase(predicate.NotEquals, fromString[T](pattern), nil)
		}

		// A pattern starting with AnyChars is only prunable if it matches
		// every string.
		if pattern[0] == value.AnyChars {
			return pattern == "%"
		}

		// The histogram's whole domain lying under the prefix means every
		// row matches the pattern's prefix range, so NOT LIKE is empty.
		if a.HasAnyChars {
			prefix := a.Prefix
			minS := asString(h.Minimum())
			maxS := asString(h.Maximum())
			if len(minS) >= len(prefix) && minS[:len(prefix)] == prefix &&
				len(maxS) >= len(prefix) && maxS[:len(prefix)] == prefix {
				return true
			}
		}
		return false
	}

	if !a.HasWildcard() {
		return h.doesNotContainBase(predicate.Equals, fromString[T](pattern), nil)
	}

	// A pattern starting with AnyChars can match anywhere; never prunable.
	if pattern[0] == value.AnyChars {
		return false
	}

	if !a.HasAnyChars {
		return false
	}

	// The wildcard-free start of the pattern bounds the matching range:
	// every match lies in [prefix, next_value(prefix)). The prefix ends at
	// the first SingleChar as well, since that position can hold any
	// character.
	prefix := a.Prefix
	for i := 0; i < len(prefix); i++ {
		if prefix[i] == value.SingleChar {
			prefix = prefix[:i]
			break
		}
	}
	if h.doesNotContainBase(predicate.GreaterThanEquals, fromString[T](prefix), nil) {
		return true
	}

	prefixNext := sc.NextValue(prefix, len(prefix))

	// No larger value exists in the substring domain; the range is
	// unbounded above and the check before already failed to prune.
	if prefix == prefixNext {
		return false
	}

	if h.doesNotContainBase(predicate.LessThan, fromString[T](prefixNext), nil) {
		return true
	}

	prefixBin := h.bins.ForValue(h.codec, fromString[T](prefix))
	prefixNextBin := h.bins.ForValue(h.codec, fromString[T](prefixNext))

	if prefixBin == InvalidBin {
		nextBin := h.bins.NextForValue(h.codec, fromString[T](prefix))

		// Both range edges in the same gap, as for Between.
		if prefixNextBin == InvalidBin && h.bins.Count() > 1 &&
			nextBin == h.bins.NextForValue(h.codec, fromString[T](prefixNext)) {
			return true
		}

		// next_value(prefix) sitting exactly on the following bin's lower
		// edge is outside the matching range, which ends just before it.
		if prefixNextBin != InvalidBin && nextBin == prefixNextBin &&
			h.codec.Compare(h.bins.Min(prefixNextBin), fromString[T](prefixNext)) == 0 {
			return true
		}
		return false
	}

	// Equal-width layouts: both edges in empty bins with only empty bins
	// between them. A non-empty bin whose lower edge is exactly
	// next_value(prefix) still prunes, because that edge is past the range.
	if prefixNextBin != InvalidBin && h.bins.Height(prefixBin) == 0 &&
		(h.bins.Height(prefixNextBin) == 0 ||
			h.codec.Compare(h.bins.Min(prefixNextBin), fromString[T](prefixNext)) == 0) {
		for bin := prefixBin + 1; bin < prefixNextBin; bin++ {
			if h.bins.Height(bin) > 0 {
				return false
			}
		}
		return true
	}

	return false
}

// estimate computes cardinality in float64 and dispatches (NOT) LIKE to
// the string path. Pruning short-circuits every kind to an exact zero.
func (h *Histogram[T]) estimate(pred predicate.Predicate, v T, v2 *T) (float64, bool, error) {
	dnc, err := h.doesNotContain(pred, v, v2)
	if err != nil {
		return 0, false, err
	}
	if dnc {
		return 0, true, nil
	}

	if pred.IsLike() {
		sc, _ := h.stringCodec()
		return h.estimateLike(sc, pred, asString(v))
	}
	return h.estimateBase(pred, v, v2)
}

func (h *Histogram[T]) estimateBase(pred predicate.Predicate, v T, v2 *T) (float64, bool, error) {
	total := float64(h.total)

	switch pred {
	case predicate.Equals:
		bin := h.bins.ForValue(h.codec, v)
		distinct := h.bins.Distinct(bin)
		return float64(h.bins.Height(bin)) / float64(distinct), distinct == 1, nil

	case predicate.NotEquals:
		eq, certain, err := h.estimate(predicate.Equals, v, nil)
		if err != nil {
			return 0, false, err
		}
		return total - eq, certain, nil

	case predicate.LessThan:
		if h.codec.Compare(v, h.Maximum()) > 0 {
			return total, true, nil
		}

		bin := h.bins.ForValue(h.codec, v)
		cardinality := 0.0
		certain := false

		if bin == InvalidBin {
			// The value lies in a gap: the sum of all bins below it is
			// exact.
			bin = h.bins.NextForValue(h.codec, v)
			certain = true
		} else {
			cardinality += h.codec.Share(h.bins.Min(bin), h.bins.Max(bin), v) * float64(h.bins.Height(bin))
		}

		for b := BinID(0); b < bin; b++ {
			cardinality += float64(h.bins.Height(b))
		}

		// An equal-height layout can overshoot: the estimate is capped at
		// the histogram's total.
		return math.Min(cardinality, total), certain, nil

	case predicate.LessThanEquals:
		return h.estimate(predicate.LessThan, h.codec.Next(v), nil)

	case predicate.GreaterThanEquals:
		lt, certain, err := h.estimate(predicate.LessThan, v, nil)
		if err != nil {
			return 0, false, err
		}
		return total - lt, certain, nil

	case predicate.GreaterThan:
		lte, certain, err := h.estimate(predicate.LessThanEquals, v, nil)
		if err != nil {
			return 0, false, err
		}
		return total - lte, certain, nil

	case predicate.Between:
		if h.codec.Compare(*v2, v) < 0 {
			return 0, true, nil
		}
		lte2, certain2, err := h.estimate(predicate.LessThanEquals, *v2, nil)
		if err != nil {
			return 0, false, err
		}
		lt1, certain1, err := h.estimate(predicate.LessThan, v, nil)
		if err != nil {
			return 0, false, err
		}
		return lte2 - lt1, certain1 && certain2, nil

	default:
		return total, false, nil
	}
}

// estimateLike models (NOT) LIKE with the wildcard-free prefix range plus
// a uniform-distribution factor for the remaining fixed characters.
func (h *Histogram[T]) estimateLike(sc *value.StringCodec, pred predicate.Predicate, pattern string) (float64, bool, error) {
	total := float64(h.total)
	a := value.AnalyzeLikePattern(pattern)

	if pred == predicate.NotLike {
		if !a.HasWildcard() {
			return h.estimateBase(predicate.NotEquals, fromString[T](pattern), nil)
		}
		// SingleChar wildcards are not modeled.
		if a.HasSingleChar {
			return total, false, nil
		}
		like, certain, err := h.estimate(predicate.Like, fromString[T](pattern), nil)
		if err != nil {
			return 0, false, err
		}
		return total - like, certain, nil
	}

	if !a.HasWildcard() {
		return h.estimateBase(predicate.Equals, fromString[T](pattern), nil)
	}

	// SingleChar wildcards are not modeled.
	if a.HasSingleChar {
		return total, false, nil
	}

	// Match everything.
	if pattern == "%" {
		return total, true, nil
	}

	if pattern[0] != value.AnyChars {
		// Prefix search: the prefix range gives the count of strings
		// starting with the prefix; every fixed character after it divides
		// the estimate by the alphabet size, assuming uniformity.
		prefix := a.Prefix
		additional := a.FixedChars - len(prefix)

		prefixNext := sc.NextValue(prefix, len(prefix))

		var belowNext float64
		if prefix == prefixNext {
			// No larger value exists in the substring domain, so every
			// row sorts below the end of the range.
			belowNext = total
		} else {
			var err error
			belowNext, _, err = h.estimate(predicate.LessThan, fromString[T](prefixNext), nil)
			if err != nil {
				return 0, false, err
			}
		}

		belowPrefix, _, err := h.estimate(predicate.LessThan, fromString[T](prefix), nil)
		if err != nil {
			return 0, false, err
		}

		return (belowNext - belowPrefix) / sc.UniformFactor(additional), false, nil
	}

	// Suffix or contains search: the prefix domain gives no bound, so the
	// estimate is purely the uniform-distribution factor over all fixed
	// characters.
	return total / sc.UniformFactor(a.FixedChars), false, nil
}
