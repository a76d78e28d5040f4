// Package decompose expands compound match values into their known parts
// before matching. A row whose value is recognised as a compound keeps its
// place in the table and is followed by one synthetic row per component.
package decompose

import (
	"github.com/tablefill/internal/config"
	"github.com/tablefill/internal/debug"
	"github.com/tablefill/internal/lexicon"
	"github.com/tablefill/internal/match"
	"github.com/tablefill/internal/normalize"
	"github.com/tablefill/internal/table"
)

// Split is a recognised compound value.
type Split struct {
	// Key is what the value was recognised as.
	Key        string
	Score      float64
	Components []string
}

// Splitter recognises compound values.
type Splitter interface {
	Split(localDebug bool, value string) (Split, bool)
}

// LibrarySplitter recognises values that resemble a key of a combination
// library.
type LibrarySplitter struct {
	Library    *lexicon.CombinationLibrary
	Threshold  float64
	Scorer     match.Scorer
	Normalizer normalize.Normalizer
}

// NewLibrarySplitter uses the default 0.60 threshold and plain scoring.
func NewLibrarySplitter(lib *lexicon.CombinationLibrary) *LibrarySplitter {
	return &LibrarySplitter{Library: lib, Threshold: config.DefaultThreshold}
}

// Split scores the normalized value against every library key and picks the
// first key with the strictly highest score. The split is accepted when that
// score reaches the threshold.
func (ls *LibrarySplitter) Split(localDebug bool, value string) (Split, bool) {
	key := ls.Normalizer.Normalize(value)

	var best Split
	for _, k := range ls.Library.Keys() {
		if score := ls.Scorer.Score(key, k); score > best.Score {
			best.Score = score
			best.Key = k
		}
	}

	if best.Key == "" || best.Score < ls.Threshold {
		return Split{}, false
	}

	best.Components = ls.Library.Components(best.Key)
	debug.DebugOutput(localDebug, "Compound value '%s' recognised as '%s' at %.2f%%", key, best.Key, best.Score*100)
	return best, true
}

// Stats counts what Decompose did.
type Stats struct {
	Decomposed int `json:"decomposed"`
	Synthetic  int `json:"synthetic"`
}

// Decompose returns a new table in which each data row recognised by s is
// followed by one row per component. Synthetic rows are blank except for
// matchCol, which holds the component. The header and the input table are
// left untouched.
func Decompose(localDebug bool, src *table.Table, matchCol int, s Splitter) (*table.Table, Stats, error) {
	out, _, stats, err := Expand(localDebug, src, matchCol, s)
	return out, stats, err
}

// Expand is Decompose that also reports, per output row, whether the row is
// synthetic.
func Expand(localDebug bool, src *table.Table, matchCol int, s Splitter) (*table.Table, []bool, Stats, error) {
	var stats Stats
	if err := src.CheckColumn(matchCol); err != nil {
		return nil, nil, stats, err
	}

	out := &table.Table{
		Header: append([]string(nil), src.Header...),
		Rows:   make([]table.Record, 0, len(src.Rows)),
	}
	synthetic := make([]bool, 0, len(src.Rows))
	width := src.Width()

	for i, row := range src.Rows {
		out.Rows = append(out.Rows, append(table.Record(nil), row...))
		synthetic = append(synthetic, false)
		if s == nil || matchCol >= len(row) {
			continue
		}

		split, ok := s.Split(localDebug, row[matchCol])
		if !ok {
			continue
		}

		stats.Decomposed++
		for _, component := range split.Components {
			out.Rows = append(out.Rows, table.BlankRecord(width, matchCol, component))
			synthetic = append(synthetic, true)
			stats.Synthetic++
		}
		debug.DebugOutput(localDebug, "Row %d: '%s' split into %d components %v",
			i+1, row[matchCol], len(split.Components), split.Components)
	}

	return out, synthetic, stats, nil
}
