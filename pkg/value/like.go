package value

import "strings"

// LIKE pattern wildcards.
const (
	// AnyChars matches zero or more characters.
	AnyChars = '%'
	// SingleChar matches exactly one character.
	SingleChar = '_'
)

// LikeAnalysis is the decomposition of a LIKE pattern that the predicate
// engine needs: wildcard presence, the wildcard-free prefix before the
// first AnyChars, and the number of fixed (non-wildcard) characters for
// uniform-distribution factoring.
type LikeAnalysis struct {
	HasAnyChars   bool
	HasSingleChar bool

	// Prefix is the pattern up to (excluding) the first '%'. If the
	// pattern has no '%', Prefix is the whole pattern.
	Prefix string

	// FixedChars counts the non-wildcard characters in the whole pattern.
	FixedChars int
}

// AnalyzeLikePattern splits a pattern at its wildcards.
func AnalyzeLikePattern(p string) LikeAnalysis {
	a := LikeAnalysis{Prefix: p}

	anyChars := strings.Count(p, string(AnyChars))
	singleChars := strings.Count(p, string(SingleChar))
	a.HasAnyChars = anyChars > 0
	a.HasSingleChar = singleChars > 0
	a.FixedChars = len(p) - anyChars - singleChars

	if idx := strings.IndexByte(p, AnyChars); idx >= 0 {
		a.Prefix = p[:idx]
	}
	return a
}

// HasWildcard reports whether the pattern contains '%' or '_'. A pattern
// without wildcards degenerates to an equality comparison.
func (a LikeAnalysis) HasWildcard() bool {
	return a.HasAnyChars || a.HasSingleChar
}
