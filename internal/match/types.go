package match

import (
	"github.com/tablefill/internal/config"
	"github.com/tablefill/internal/normalize"
)

// Options tune a Resolver.
type Options struct {
	// Threshold is the minimum best score that yields an answer.
	Threshold  float64
	Scorer     Scorer
	Normalizer normalize.Normalizer
}

// DefaultOptions returns the 0.60 cutoff with plain character-set scoring.
func DefaultOptions() Options {
	return Options{Threshold: config.DefaultThreshold}
}

// OptionsFrom maps run settings onto resolver options.
func OptionsFrom(m config.Matching) Options {
	return Options{
		Threshold:  m.Threshold,
		Scorer:     Scorer{SeparatorToken: m.SeparatorToken},
		Normalizer: normalize.Normalizer{FoldWidth: m.FoldWidth},
	}
}

// Result is the outcome of resolving one source value.
type Result struct {
	// Value is the normalized source value.
	Value string `json:"value"`
	// Candidate is the spelling (value or synonym) that produced Score.
	Candidate string `json:"candidate,omitempty"`
	// MatchedText is the normalized target value of the best row.
	MatchedText string `json:"matched_text,omitempty"`
	// Answer is the best row's answer field, empty unless Matched.
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	// Row is the index of the best target row, -1 when no row overlapped.
	Row     int  `json:"row"`
	Matched bool `json:"matched"`
}
