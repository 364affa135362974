package segment

import (
	"golang.org/x/sync/errgroup"

	"colhist/pkg/logging"
	"colhist/pkg/value"
)

// BuildShardedDistributions fans BuildDistribution out over multiple
// segment shards concurrently. Each shard yields its own independent
// distribution; results are returned in shard order. The first scan error
// is returned; the other shards are not cancelled and run to completion.
//
// Histograms stay per-segment: callers build one histogram per returned
// distribution rather than merging across shards.
func BuildShardedDistributions[T comparable](segments []Segment[T], codec value.Codec[T]) ([][]ValueCount[T], error) {
	results := make([][]ValueCount[T], len(segments))

	var g errgroup.Group
	for i, seg := range segments {
		i, seg := i, seg
		g.Go(func() error {
			dist, err := BuildDistribution(seg, codec)
			if err != nil {
				return err
			}
			results[i] = dist
			logging.WithSegment(i).Debug("distribution built", "distinct", len(dist))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
