package histogram

import (
	"strings"
	"testing"

	"colhist/pkg/histerr"
	"colhist/pkg/predicate"
	"colhist/pkg/segment"
	"colhist/pkg/value"
)

func stringHistogram(t *testing.T, values []string, prefixLength int, layout Layout, binCount int) *Histogram[string] {
	t.Helper()
	codec, err := value.NewStringCodec(value.DefaultAlphabet, prefixLength)
	if err != nil {
		t.Fatalf("NewStringCodec failed: %v", err)
	}
	h, err := FromSegment[string](segment.NewSliceSegment(values), codec, layout, binCount)
	if err != nil {
		t.Fatalf("FromSegment failed: %v", err)
	}
	return h
}

func strPrune(t *testing.T, h *Histogram[string], pred predicate.Predicate, v string) bool {
	t.Helper()
	got, err := h.DoesNotContain(pred, v, nil)
	if err != nil {
		t.Fatalf("DoesNotContain(%s, %q) failed: %v", pred, v, err)
	}
	return got
}

func strCard(t *testing.T, h *Histogram[string], pred predicate.Predicate, v string) (float32, bool) {
	t.Helper()
	c, certain, err := h.EstimateCardinality(pred, v, nil)
	if err != nil {
		t.Fatalf("EstimateCardinality(%s, %q) failed: %v", pred, v, err)
	}
	return c, certain
}

// One word per leading letter a through y; nothing starts with z or aa.
func prefixedWords() []string {
	words := make([]string, 0, 25)
	for c := byte('a'); c <= 'y'; c++ {
		words = append(words, string(c)+"b")
	}
	return words
}

func TestLikePruning(t *testing.T) {
	h := stringHistogram(t, prefixedWords(), 4, EqualDistinctCount, 4)

	if !strPrune(t, h, predicate.Like, "z%") {
		t.Errorf("expected LIKE z%% to be pruned, no value starts with z")
	}
	if strPrune(t, h, predicate.Like, "a%") {
		t.Errorf("expected LIKE a%% not to be pruned")
	}
	if !strPrune(t, h, predicate.NotLike, "%") {
		t.Errorf("expected NOT LIKE %% to be pruned, it matches nothing")
	}
	if !strPrune(t, h, predicate.Like, "aa%") {
		t.Errorf("expected LIKE aa%% to be pruned, no value starts with aa")
	}

	// The range [gc, gd) falls entirely into the gap between two bins.
	if !strPrune(t, h, predicate.Like, "gc%") {
		t.Errorf("expected LIKE gc%% inside a bin gap to be pruned")
	}
	// hb exists, so h% must survive.
	if strPrune(t, h, predicate.Like, "h%") {
		t.Errorf("expected LIKE h%% not to be pruned")
	}
	// A pattern starting with the wildcard is never prunable.
	if strPrune(t, h, predicate.Like, "%zz") {
		t.Errorf("expected LIKE %%zz not to be pruned")
	}
}

func TestNotLikePruning(t *testing.T) {
	h := stringHistogram(t, []string{"ca", "cb", "cc", "cd"}, 4, EqualDistinctCount, 2)

	// Every value starts with c, so NOT LIKE c% matches nothing.
	if !strPrune(t, h, predicate.NotLike, "c%") {
		t.Errorf("expected NOT LIKE c%% to be pruned")
	}
	if strPrune(t, h, predicate.NotLike, "ca%") {
		t.Errorf("expected NOT LIKE ca%% not to be pruned")
	}
	if strPrune(t, h, predicate.NotLike, "%a") {
		t.Errorf("expected NOT LIKE %%a not to be pruned")
	}
}

func TestLikeUniformFactoring(t *testing.T) {
	values := []string{"bar", "baz", "foo", "foobar", "fop", "qux"}
	h := stringHistogram(t, values, 4, EqualDistinctCount, 3)
	total := float32(h.TotalCount())

	// Suffix searches assume uniform character distribution.
	if c, certain := strCard(t, h, predicate.Like, "%a"); !approx(c, total/26) || certain {
		t.Errorf("expected %f for %%a, got %f certain=%v", total/26, c, certain)
	}
	if c, _ := strCard(t, h, predicate.Like, "%a%b"); !approx(c, total/676) {
		t.Errorf("expected %f for %%a%%b, got %f", total/676, c)
	}

	// Fixed characters after the prefix divide the prefix-range estimate.
	prefixOnly, _ := strCard(t, h, predicate.Like, "foo%")
	withSuffix, _ := strCard(t, h, predicate.Like, "foo%bar")
	if prefixOnly <= 0 {
		t.Fatalf("expected a positive estimate for foo%%, got %f", prefixOnly)
	}
	if !approx(withSuffix, prefixOnly/17576) {
		t.Errorf("expected foo%%bar = foo%% / 26^3, got %f vs %f", withSuffix, prefixOnly/17576)
	}

	// The divisor saturates once the exponent exhausts the 64-bit domain.
	c13, _ := strCard(t, h, predicate.Like, "%"+strings.Repeat("a", 13))
	c14, _ := strCard(t, h, predicate.Like, "%"+strings.Repeat("a", 14))
	if c13 != c14 {
		t.Errorf("expected the uniform divisor to saturate, got %g vs %g", c13, c14)
	}

	// Patterns with SingleChar wildcards are not modeled.
	if c, certain := strCard(t, h, predicate.Like, "f_o"); c != total || certain {
		t.Errorf("expected the unmodeled estimate %f, got %f certain=%v", total, c, certain)
	}

	// LIKE % matches everything, exactly.
	if c, certain := strCard(t, h, predicate.Like, "%"); c != total || !certain {
		t.Errorf("expected exact %f for %%, got %f certain=%v", total, c, certain)
	}
}

func TestNotLikeEstimate(t *testing.T) {
	values := []string{"bar", "baz", "foo", "foobar", "fop", "qux"}
	h := stringHistogram(t, values, 4, EqualDistinctCount, 3)
	total := float32(h.TotalCount())

	like, _ := strCard(t, h, predicate.Like, "ba%")
	notLike, _ := strCard(t, h, predicate.NotLike, "ba%")
	if !approx(like+notLike, total) {
		t.Errorf("expected LIKE + NOT LIKE = total, got %f + %f", like, notLike)
	}
}

func TestLongStringEquivalence(t *testing.T) {
	values := []string{"abcd", "efgh", "ijkl", "mnop", "qrst", "uvwx", "zzzz"}
	h := stringHistogram(t, values, 4, EqualDistinctCount, 3)

	// Only the first four characters enter the numeric domain, so a longer
	// search value behaves exactly like its prefix.
	long, _ := strCard(t, h, predicate.GreaterThan, "mnopefgh")
	short, _ := strCard(t, h, predicate.GreaterThan, "mnop")
	if long != short {
		t.Errorf("expected identical estimates for a value and its prefix, got %f vs %f", long, short)
	}
}

func TestPrefixIrrelevance(t *testing.T) {
	values := []string{"abcd", "efgh", "ijkl", "mnop", "qrst", "uvwx", "zzzz"}
	h := stringHistogram(t, values, 4, EqualDistinctCount, 3)

	a, _ := strCard(t, h, predicate.GreaterThan, "mnopa")
	b, _ := strCard(t, h, predicate.GreaterThan, "mnopzz")
	if a != b {
		t.Errorf("expected values sharing the first four characters to estimate equally, got %f vs %f", a, b)
	}
}

func TestStringSearchValidation(t *testing.T) {
	h := stringHistogram(t, []string{"abc", "def"}, 4, EqualDistinctCount, 2)

	_, err := h.DoesNotContain(predicate.Equals, "a%c", nil)
	if !histerr.IsKind(err, histerr.WildcardWhereForbidden) {
		t.Errorf("expected WildcardWhereForbidden, got %v", err)
	}

	_, _, err = h.EstimateCardinality(predicate.Equals, "a3c", nil)
	if !histerr.IsKind(err, histerr.UnsupportedCharacter) {
		t.Errorf("expected UnsupportedCharacter, got %v", err)
	}

	// Wildcards in patterns are fine.
	if _, err := h.DoesNotContain(predicate.Like, "a%c", nil); err != nil {
		t.Errorf("expected the LIKE pattern to validate, got %v", err)
	}
}

func TestLikeWithoutWildcardIsEquality(t *testing.T) {
	h := stringHistogram(t, []string{"abc", "abc", "def"}, 4, EqualDistinctCount, 2)

	like, likeCertain := strCard(t, h, predicate.Like, "abc")
	eq, eqCertain := strCard(t, h, predicate.Equals, "abc")
	if like != eq || likeCertain != eqCertain {
		t.Errorf("expected LIKE without wildcards to match Equals, got %f/%v vs %f/%v",
			like, likeCertain, eq, eqCertain)
	}

	if !strPrune(t, h, predicate.Like, "zzz") {
		t.Errorf("expected LIKE zzz without wildcards to prune like Equals")
	}
}
