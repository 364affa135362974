package value

// Codec supplies the ordering and domain arithmetic for a histogram
// element type T. The predicate engine is written once against this
// capability set; each supported scalar type provides one implementation.
//
// The numeric representation exposed by Repr/FromRepr is an order-preserving
// mapping onto uint64. For integers it is the value shifted into unsigned
// range, for floats it is the total-order bit pattern, and for strings it
// is the prefix-based base-K encoding over the supported character set.
type Codec[T any] interface {
	// Type returns the element type tag this codec handles.
	Type() ElementType

	// Compare orders two values: negative if a < b, zero if equal,
	// positive if a > b.
	Compare(a, b T) int

	// Next returns the smallest value strictly greater than v, saturating
	// at the maximum of the domain (Next(max) == max for integers and
	// strings, +Inf stays +Inf for floats).
	Next(v T) T

	// Repr maps v onto the codec's order-preserving uint64 domain.
	Repr(v T) uint64

	// FromRepr maps a point of the uint64 domain back to a value. For
	// strings the mapping is not injective; FromRepr
	// returns one representative of the equivalence class.
	FromRepr(n uint64) T

	// Share returns the fraction of the domain of [min, max] that lies
	// strictly below v. The caller guarantees min <= v <= max.
	Share(min, max, v T) float64

	// Validate checks that v may appear in a segment. Numeric codecs
	// always succeed; the string codec rejects characters outside its
	// supported set.
	Validate(v T) error

	// FromVariant unpacks a tagged variant, rejecting mismatched tags.
	FromVariant(v Variant) (T, error)

	// Format renders v for descriptions and log output.
	Format(v T) string
}
