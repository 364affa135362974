package value

// ElementType identifies the scalar type a histogram is built over.
type ElementType int

const (
	Int32Type ElementType = iota
	Int64Type
	Float32Type
	Float64Type
	StringType
)

// String returns a string representation of the element type
func (t ElementType) String() string {
	switch t {
	case Int32Type:
		return "INT32_TYPE"
	case Int64Type:
		return "INT64_TYPE"
	case Float32Type:
		return "FLOAT32_TYPE"
	case Float64Type:
		return "FLOAT64_TYPE"
	case StringType:
		return "STRING_TYPE"
	default:
		return "UNKNOWN_TYPE"
	}
}
