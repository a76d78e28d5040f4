package match

import (
	"math"

	"github.com/tablefill/internal/normalize"
)

// Scorer computes Jaccard similarity over the character sets of two match keys.
type Scorer struct {
	// SeparatorToken counts the space that joins spaced-out characters as a
	// set member of every key with two or more characters. Scores then line
	// up with tools that Jaccard-compare "苹 果" style strings.
	SeparatorToken bool
}

// Score is the similarity of a and b under the default Scorer.
func Score(a, b string) float64 {
	return Scorer{}.Score(a, b)
}

// Score returns |A ∩ B| / |A ∪ B| of the distinct tokens of a and b.
// Either side empty scores 0, including two empty strings.
func (s Scorer) Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	left := s.tokenSet(a)
	right := s.tokenSet(b)

	intersection := 0
	for token := range left {
		if _, ok := right[token]; ok {
			intersection++
		}
	}
	union := len(left) + len(right) - intersection
	if union == 0 {
		return 0.0
	}

	return math.Min(1.0, float64(intersection)/float64(union))
}

func (s Scorer) tokenSet(text string) map[string]struct{} {
	tokens := normalize.Tokenize(text)
	set := make(map[string]struct{}, len(tokens)+1)
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	if s.SeparatorToken && len(tokens) > 1 {
		set[" "] = struct{}{}
	}
	return set
}
