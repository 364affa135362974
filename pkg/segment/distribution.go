package segment

import (
	"sort"

	"colhist/pkg/value"
)

// ValueCount is one entry of a value distribution: a distinct column value
// and the number of rows carrying it.
type ValueCount[T any] struct {
	Value T
	Count uint64
}

// BuildDistribution scans a segment and produces the sorted value
// distribution that histogram construction consumes. Nulls are skipped.
// Every value is validated against the codec; for string segments a value
// containing a character outside the supported set fails the scan.
func BuildDistribution[T comparable](seg Segment[T], codec value.Codec[T]) ([]ValueCount[T], error) {
	counts := make(map[T]uint64)

	for seg.HasNext() {
		opt, err := seg.Next()
		if err != nil {
			return nil, err
		}
		if opt.Null {
			continue
		}
		if err := codec.Validate(opt.Value); err != nil {
			return nil, err
		}
		counts[opt.Value]++
	}

	dist := make([]ValueCount[T], 0, len(counts))
	for v, c := range counts {
		dist = append(dist, ValueCount[T]{Value: v, Count: c})
	}

	sort.Slice(dist, func(i, j int) bool {
		return codec.Compare(dist[i].Value, dist[j].Value) < 0
	})
	return dist, nil
}

// TotalCount sums the row counts of a distribution.
func TotalCount[T any](dist []ValueCount[T]) uint64 {
	var total uint64
	for _, vc := range dist {
		total += vc.Count
	}
	return total
}
