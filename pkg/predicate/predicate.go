package predicate

// Predicate identifies a scan condition that a histogram can prune,
// estimate, or slice on. Between carries a second value; Like and NotLike
// are only valid for string columns.
type Predicate int

const (
	Equals Predicate = iota
	NotEquals
	LessThan
	LessThanEquals
	GreaterThan
	GreaterThanEquals
	Between
	Like
	NotLike
)

func (p Predicate) String() string {
	switch p {
	case Equals:
		return "="

	case NotEquals:
		return "!="

	case LessThan:
		return "<"

	case LessThanEquals:
		return "<="

	case GreaterThan:
		return ">"

	case GreaterThanEquals:
		return ">="

	case Between:
		return "BETWEEN"

	case Like:
		return "LIKE"

	case NotLike:
		return "NOT LIKE"

	default:
		return "UNKNOWN"
	}
}

// NeedsSecondValue reports whether the predicate takes two search values.
func (p Predicate) NeedsSecondValue() bool {
	return p == Between
}

// IsLike reports whether the predicate is a pattern match, which permits
// the wildcard characters '%' and '_' in its search value.
func (p Predicate) IsLike() bool {
	return p == Like || p == NotLike
}
