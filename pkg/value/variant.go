package value

import (
	"fmt"
	"strconv"
)

// Variant is a tagged union over the supported element types. It is the
// boundary type consumed from the surrounding plan: callers that do not
// know T statically pass variants, and the codec rejects mismatched tags.
type Variant struct {
	typ ElementType
	i   int64
	f   float64
	s   string
}

func Int32Variant(v int32) Variant {
	return Variant{typ: Int32Type, i: int64(v)}
}

func Int64Variant(v int64) Variant {
	return Variant{typ: Int64Type, i: v}
}

func Float32Variant(v float32) Variant {
	return Variant{typ: Float32Type, f: float64(v)}
}

func Float64Variant(v float64) Variant {
	return Variant{typ: Float64Type, f: v}
}

func StringVariant(v string) Variant {
	return Variant{typ: StringType, s: v}
}

// Type returns the tag of the variant.
func (v Variant) Type() ElementType {
	return v.typ
}

// String renders the payload without the tag.
func (v Variant) String() string {
	switch v.typ {
	case Int32Type, Int64Type:
		return strconv.FormatInt(v.i, 10)
	case Float32Type, Float64Type:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case StringType:
		return v.s
	default:
		return "<invalid>"
	}
}

// ParseVariant parses text into a variant of the requested element type.
// Used at the CLI boundary where search values arrive as strings.
func ParseVariant(typ ElementType, text string) (Variant, error) {
	switch typ {
	case Int32Type:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return Variant{}, fmt.Errorf("parsing %q as int32: %w", text, err)
		}
		return Int32Variant(int32(n)), nil
	case Int64Type:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Variant{}, fmt.Errorf("parsing %q as int64: %w", text, err)
		}
		return Int64Variant(n), nil
	case Float32Type:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return Variant{}, fmt.Errorf("parsing %q as float32: %w", text, err)
		}
		return Float32Variant(float32(f)), nil
	case Float64Type:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Variant{}, fmt.Errorf("parsing %q as float64: %w", text, err)
		}
		return Float64Variant(f), nil
	case StringType:
		return StringVariant(text), nil
	default:
		return Variant{}, fmt.Errorf("unknown element type %v", typ)
	}
}
