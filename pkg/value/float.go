package value

import (
	"cmp"
	"math"
	"strconv"

	"colhist/pkg/histerr"
)

// Float32Codec implements Codec[float32].
type Float32Codec struct{}

func (Float32Codec) Type() ElementType {
	return Float32Type
}

func (Float32Codec) Compare(a, b float32) int {
	return cmp.Compare(a, b)
}

// Next steps to the next representable float toward +Inf.
func (Float32Codec) Next(v float32) float32 {
	return math.Nextafter32(v, float32(math.Inf(1)))
}

// Repr maps the IEEE-754 bit pattern onto a totally ordered unsigned
// domain: negative floats are bit-flipped, positives get the sign bit set.
func (Float32Codec) Repr(v float32) uint64 {
	b := math.Float32bits(v)
	if b&(1<<31) != 0 {
		b = ^b
	} else {
		b |= 1 << 31
	}
	return uint64(b)
}

func (Float32Codec) FromRepr(n uint64) float32 {
	b := uint32(n) // #nosec G115
	if b&(1<<31) != 0 {
		b &^= 1 << 31
	} else {
		b = ^b
	}
	return math.Float32frombits(b)
}

func (c Float32Codec) Share(min, max, v float32) float64 {
	width := math.Nextafter(float64(max)-float64(min), math.Inf(1))
	if width <= 0 {
		return 0
	}
	return (float64(v) - float64(min)) / width
}

func (Float32Codec) Validate(float32) error {
	return nil
}

func (Float32Codec) FromVariant(v Variant) (float32, error) {
	if v.typ != Float32Type {
		return 0, histerr.Newf(histerr.TypeMismatch,
			"histogram element type is %v, search value is %v", Float32Type, v.typ)
	}
	return float32(v.f), nil
}

func (Float32Codec) Format(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// Float64Codec implements Codec[float64].
type Float64Codec struct{}

func (Float64Codec) Type() ElementType {
	return Float64Type
}

func (Float64Codec) Compare(a, b float64) int {
	return cmp.Compare(a, b)
}

func (Float64Codec) Next(v float64) float64 {
	return math.Nextafter(v, math.Inf(1))
}

func (Float64Codec) Repr(v float64) uint64 {
	b := math.Float64bits(v)
	if b&(1<<63) != 0 {
		b = ^b
	} else {
		b |= 1 << 63
	}
	return b
}

func (Float64Codec) FromRepr(n uint64) float64 {
	if n&(1<<63) != 0 {
		n &^= 1 << 63
	} else {
		n = ^n
	}
	return math.Float64frombits(n)
}

func (c Float64Codec) Share(min, max, v float64) float64 {
	width := math.Nextafter(max-min, math.Inf(1))
	if width <= 0 {
		return 0
	}
	return (v - min) / width
}

func (Float64Codec) Validate(float64) error {
	return nil
}

func (Float64Codec) FromVariant(v Variant) (float64, error) {
	if v.typ != Float64Type {
		return 0, histerr.Newf(histerr.TypeMismatch,
			"histogram element type is %v, search value is %v", Float64Type, v.typ)
	}
	return v.f, nil
}

func (Float64Codec) Format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
