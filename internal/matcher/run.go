package matcher

import (
	"fmt"

	"github.com/tablefill/internal/config"
	"github.com/tablefill/internal/debug"
	"github.com/tablefill/internal/decompose"
	"github.com/tablefill/internal/lexicon"
	"github.com/tablefill/internal/match"
	"github.com/tablefill/internal/table"
)

// Lexicons are the synonym and combination lists of a run.
type Lexicons struct {
	Synonyms     lexicon.LoadResult
	Combinations lexicon.LoadResult
}

// LoadLexicons reads the lexicon files named by m. Missing files give empty
// lexicons.
func LoadLexicons(localDebug bool, m config.Matching) (Lexicons, error) {
	var lx Lexicons
	var err error

	lx.Synonyms, err = lexicon.LoadFile(localDebug, m.SynonymsPath)
	if err != nil {
		return lx, fmt.Errorf("synonyms: %w", err)
	}
	lx.Combinations, err = lexicon.LoadFile(localDebug, m.CombinationsPath)
	if err != nil {
		return lx, fmt.Errorf("combinations: %w", err)
	}
	return lx, nil
}

// Plan is everything one fill needs.
type Plan struct {
	Source *table.Table
	Target *table.Table

	MatchColumn       int
	FillColumn        int
	TargetMatchColumn int
	AnswerColumn      int
	KeepExisting      bool

	Settings config.Matching
	Lexicons Lexicons
	// Splitter overrides the combination library splitter when set.
	Splitter decompose.Splitter
}

// Run builds the resolver and splitter described by p and fills the source.
func Run(localDebug bool, p Plan) (*FillResult, error) {
	defer debug.DebugTiming(localDebug, "fill")()

	if p.Source == nil || p.Target == nil {
		return nil, fmt.Errorf("source and target tables are required")
	}
	if err := p.Target.Validate(); err != nil {
		return nil, fmt.Errorf("target table: %w", err)
	}

	opts := match.OptionsFrom(p.Settings)
	synonyms := lexicon.NewSynonyms(p.Lexicons.Synonyms.Lexicon, opts.Normalizer)
	debug.DebugOutput(localDebug, "Synonyms: %d groups, %d indexed values", synonyms.Groups(), synonyms.Len())

	resolver, err := match.NewResolver(p.Target, p.TargetMatchColumn, p.AnswerColumn, synonyms, opts)
	if err != nil {
		return nil, fmt.Errorf("target columns: %w", err)
	}

	splitter := p.Splitter
	if splitter == nil {
		lib := lexicon.NewCombinations(p.Lexicons.Combinations.Lexicon, opts.Normalizer)
		debug.DebugOutput(localDebug, "Combination library: %d keys", lib.Len())
		if lib.Len() > 0 {
			splitter = &decompose.LibrarySplitter{
				Library:    lib,
				Threshold:  p.Settings.DecomposeThreshold,
				Scorer:     opts.Scorer,
				Normalizer: opts.Normalizer,
			}
		}
	}

	filler := NewFiller(resolver, splitter, p.Settings.Workers)
	return filler.Fill(localDebug, p.Source, Job{
		MatchColumn:  p.MatchColumn,
		FillColumn:   p.FillColumn,
		KeepExisting: p.KeepExisting,
	})
}
