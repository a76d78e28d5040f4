package match

import (
	"math"

	"github.com/tablefill/internal/debug"
	"github.com/tablefill/internal/lexicon"
	"github.com/tablefill/internal/table"
)

type targetEntry struct {
	key    string
	answer string
}

// Resolver finds the best target row for source values. Target match values
// are normalized once at construction; Resolve only reads shared state and
// may be called from several goroutines.
type Resolver struct {
	targets  []targetEntry
	synonyms *lexicon.SynonymMap
	opts     Options
}

// NewResolver prepares target for lookups on matchCol, answering from
// answerCol. synonyms may be nil.
func NewResolver(target *table.Table, matchCol, answerCol int, synonyms *lexicon.SynonymMap, opts Options) (*Resolver, error) {
	if err := target.CheckColumn(matchCol); err != nil {
		return nil, err
	}
	if err := target.CheckColumn(answerCol); err != nil {
		return nil, err
	}

	targets := make([]targetEntry, len(target.Rows))
	for i, row := range target.Rows {
		var key, answer string
		if matchCol < len(row) {
			key = opts.Normalizer.Normalize(row[matchCol])
		}
		if answerCol < len(row) {
			answer = row[answerCol]
		}
		targets[i] = targetEntry{key: key, answer: answer}
	}

	return &Resolver{targets: targets, synonyms: synonyms, opts: opts}, nil
}

// Normalize applies the resolver's normalizer.
func (r *Resolver) Normalize(raw string) string {
	return r.opts.Normalizer.Normalize(raw)
}

// Resolve scores every target row against the candidate set of sourceValue
// and keeps the first row with the strictly highest score. The answer is
// returned only when that score reaches the threshold.
func (r *Resolver) Resolve(localDebug bool, sourceValue string) Result {
	value := r.opts.Normalizer.Normalize(sourceValue)
	candidates := r.synonyms.Expand(value)

	result := Result{Value: value, Row: -1}
	highest := 0.0

	for i, target := range r.targets {
		score := 0.0
		best := ""
		for _, candidate := range candidates {
			if s := r.opts.Scorer.Score(candidate, target.key); s > score {
				score = s
				best = candidate
			}
		}
		score = math.Min(score, 1.0)

		if score > highest {
			highest = score
			result.Row = i
			result.Candidate = best
			result.MatchedText = target.key
		}
	}
	result.Score = highest

	if result.Row < 0 || highest < r.opts.Threshold {
		debug.DebugOutput(localDebug, "'%s' best match '%s' at %.2f%% is below the %.2f%% threshold, no match",
			value, result.MatchedText, highest*100, r.opts.Threshold*100)
		return result
	}

	result.Answer = r.targets[result.Row].answer
	result.Matched = true
	debug.DebugOutput(localDebug, "'%s' (via '%s') matched '%s' at %.2f%%, answer '%s'",
		value, result.Candidate, result.MatchedText, highest*100, result.Answer)
	return result
}

// Targets returns the number of target rows.
func (r *Resolver) Targets() int {
	return len(r.targets)
}
