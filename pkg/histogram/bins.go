package histogram

import (
	"sort"

	"colhist/pkg/value"
)

// BinID indexes a bin within a histogram.
type BinID int

// InvalidBin marks a value that lies in a gap between bins or outside the
// histogram's [minimum, maximum] range.
const InvalidBin BinID = -1

// Bins stores the ordered, non-overlapping bins of a histogram as parallel
// arrays for cache-friendly scans. Each bin covers the inclusive interval
// [mins[i], maxs[i]] and carries its row count (height) and the number of
// distinct source values falling into the interval.
type Bins[T comparable] struct {
	mins      []T
	maxs      []T
	heights   []uint64
	distincts []uint64
}

func newBins[T comparable](capacity int) *Bins[T] {
	return &Bins[T]{
		mins:      make([]T, 0, capacity),
		maxs:      make([]T, 0, capacity),
		heights:   make([]uint64, 0, capacity),
		distincts: make([]uint64, 0, capacity),
	}
}

func (b *Bins[T]) push(min, max T, height, distinct uint64) {
	b.mins = append(b.mins, min)
	b.maxs = append(b.maxs, max)
	b.heights = append(b.heights, height)
	b.distincts = append(b.distincts, distinct)
}

// Count returns the number of bins.
func (b *Bins[T]) Count() int {
	return len(b.mins)
}

// Min returns the inclusive lower edge of the bin.
func (b *Bins[T]) Min(id BinID) T {
	return b.mins[id]
}

// Max returns the inclusive upper edge of the bin.
func (b *Bins[T]) Max(id BinID) T {
	return b.maxs[id]
}

// Height returns the total row count of the bin.
func (b *Bins[T]) Height(id BinID) uint64 {
	return b.heights[id]
}

// Distinct returns the distinct-value count of the bin.
func (b *Bins[T]) Distinct(id BinID) uint64 {
	return b.distincts[id]
}

// TotalCount sums the heights of all bins.
func (b *Bins[T]) TotalCount() uint64 {
	var total uint64
	for _, h := range b.heights {
		total += h
	}
	return total
}

// TotalDistinctCount sums the distinct counts of all bins.
func (b *Bins[T]) TotalDistinctCount() uint64 {
	var total uint64
	for _, d := range b.distincts {
		total += d
	}
	return total
}

// ForValue locates the bin containing v by binary search, or InvalidBin if
// v lies in a gap between bins or outside the covered range.
func (b *Bins[T]) ForValue(codec value.Codec[T], v T) BinID {
	i := sort.Search(len(b.maxs), func(i int) bool {
		return codec.Compare(b.maxs[i], v) >= 0
	})
	if i == len(b.maxs) || codec.Compare(v, b.mins[i]) < 0 {
		return InvalidBin
	}
	return BinID(i)
}

// NextForValue returns the first bin whose lower edge is strictly greater
// than v, or InvalidBin if no such bin exists.
func (b *Bins[T]) NextForValue(codec value.Codec[T], v T) BinID {
	i := sort.Search(len(b.mins), func(i int) bool {
		return codec.Compare(b.mins[i], v) > 0
	})
	if i == len(b.mins) {
		return InvalidBin
	}
	return BinID(i)
}

func (b *Bins[T]) clone() *Bins[T] {
	out := newBins[T](b.Count())
	out.mins = append(out.mins, b.mins...)
	out.maxs = append(out.maxs, b.maxs...)
	out.heights = append(out.heights, b.heights...)
	out.distincts = append(out.distincts, b.distincts...)
	return out
}
