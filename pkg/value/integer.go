package value

import (
	"cmp"
	"math"
	"strconv"

	"colhist/pkg/histerr"
)

// Int32Codec implements Codec[int32].
type Int32Codec struct{}

func (Int32Codec) Type() ElementType {
	return Int32Type
}

func (Int32Codec) Compare(a, b int32) int {
	return cmp.Compare(a, b)
}

// Next saturates at the type maximum so that range arithmetic near the
// upper edge stays within the domain.
func (Int32Codec) Next(v int32) int32 {
	if v == math.MaxInt32 {
		return v
	}
	return v + 1
}

func (Int32Codec) Repr(v int32) uint64 {
	return uint64(uint32(v) ^ (1 << 31))
}

func (Int32Codec) FromRepr(n uint64) int32 {
	return int32(uint32(n) ^ (1 << 31)) // #nosec G115
}

func (c Int32Codec) Share(min, max, v int32) float64 {
	width := float64(c.Repr(max)-c.Repr(min)) + 1
	return float64(c.Repr(v)-c.Repr(min)) / width
}

func (Int32Codec) Validate(int32) error {
	return nil
}

func (Int32Codec) FromVariant(v Variant) (int32, error) {
	if v.typ != Int32Type {
		return 0, histerr.Newf(histerr.TypeMismatch,
			"histogram element type is %v, search value is %v", Int32Type, v.typ)
	}
	return int32(v.i), nil // #nosec G115
}

func (Int32Codec) Format(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}

// Int64Codec implements Codec[int64].
type Int64Codec struct{}

func (Int64Codec) Type() ElementType {
	return Int64Type
}

func (Int64Codec) Compare(a, b int64) int {
	return cmp.Compare(a, b)
}

func (Int64Codec) Next(v int64) int64 {
	if v == math.MaxInt64 {
		return v
	}
	return v + 1
}

func (Int64Codec) Repr(v int64) uint64 {
	return uint64(v) ^ (1 << 63) // #nosec G115
}

func (Int64Codec) FromRepr(n uint64) int64 {
	return int64(n ^ (1 << 63)) // #nosec G115
}

func (c Int64Codec) Share(min, max, v int64) float64 {
	width := float64(c.Repr(max)-c.Repr(min)) + 1
	return float64(c.Repr(v)-c.Repr(min)) / width
}

func (Int64Codec) Validate(int64) error {
	return nil
}

func (Int64Codec) FromVariant(v Variant) (int64, error) {
	if v.typ != Int64Type {
		return 0, histerr.Newf(histerr.TypeMismatch,
			"histogram element type is %v, search value is %v", Int64Type, v.typ)
	}
	return v.i, nil
}

func (Int64Codec) Format(v int64) string {
	return strconv.FormatInt(v, 10)
}
