package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Innermost bracketed spans, one pattern per bracket kind. Each is applied
// once, so a span nested two deep leaves its outer brackets behind for the
// cleanup pass.
var (
	reParenSpan  = regexp.MustCompile(`\([^()]*\)`)
	reCurlySpan  = regexp.MustCompile(`\{[^{}]*\}`)
	reSquareSpan = regexp.MustCompile(`\[[^\[\]]*\]`)
)

// Leftover bracket characters, ASCII whitespace and ASCII digits.
var reResidue = regexp.MustCompile(`[()\[\]{}\t\n\v\f\r 0-9]`)

// Normalizer turns raw field values into match keys.
type Normalizer struct {
	// FoldWidth applies NFKC first so full-width brackets, digits and the
	// ideographic space are stripped like their ASCII forms.
	FoldWidth bool
}

// Normalize canonicalizes raw into a comparable match key.
func (n Normalizer) Normalize(raw string) string {
	if !n.FoldWidth {
		return Normalize(raw)
	}
	// Stripping can put a combining mark next to a new base letter, so the
	// key is composed again afterwards.
	return norm.NFKC.String(Normalize(norm.NFKC.String(raw)))
}

// Normalize strips bracketed content, remaining bracket characters,
// whitespace and digits. The result may be empty.
func Normalize(raw string) string {
	s := reParenSpan.ReplaceAllString(raw, "")
	s = reCurlySpan.ReplaceAllString(s, "")
	s = reSquareSpan.ReplaceAllString(s, "")

	s = reResidue.ReplaceAllString(s, "")
	return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })
}

// Tokenize splits s into one token per character, preserving order. A byte
// that is not valid UTF-8 becomes a token of its own raw byte, so distinct
// invalid inputs stay distinct.
func Tokenize(s string) []string {
	tokens := make([]string, 0, len(s))
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		tokens = append(tokens, s[i:i+size])
		i += size
	}
	return tokens
}
