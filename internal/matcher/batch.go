package matcher

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/tablefill/internal/debug"
	"github.com/tablefill/internal/decompose"
	"github.com/tablefill/internal/match"
	"github.com/tablefill/internal/table"
)

// Job names the source columns of a fill run.
type Job struct {
	// MatchColumn holds the values that are looked up in the target table.
	MatchColumn int
	// FillColumn receives the answer of the best target row.
	FillColumn int
	// KeepExisting leaves the fill column untouched when a row finds no
	// match. By default an unmatched row gets an empty answer.
	KeepExisting bool
}

// Outcome classifies what happened to a row.
type Outcome string

const (
	RowMatched   Outcome = "matched"
	RowUnmatched Outcome = "unmatched"
	// RowSkipped rows have an empty normalized match value.
	RowSkipped Outcome = "skipped"
)

// RowResult is the resolution of one row of the decomposed table.
type RowResult struct {
	Row       int          `json:"row"`
	Raw       string       `json:"raw"`
	Synthetic bool         `json:"synthetic,omitempty"`
	Outcome   Outcome      `json:"outcome"`
	Match     match.Result `json:"match"`
}

// BatchStats tracks batch processing statistics
type BatchStats struct {
	SourceRows     int           `json:"source_rows"`
	TotalRows      int           `json:"total_rows"`
	DecomposedRows int           `json:"decomposed_rows"`
	SyntheticRows  int           `json:"synthetic_rows"`
	SkippedCount   int           `json:"skipped"`
	MatchedCount   int           `json:"matched"`
	UnmatchedCount int           `json:"unmatched"`
	AverageScore   float64       `json:"average_score"`
	ProcessingTime time.Duration `json:"processing_time_ns"`
}

// FillResult is the output of Fill.
type FillResult struct {
	Table *table.Table `json:"table"`
	Stats *BatchStats  `json:"stats"`
	Rows  []RowResult  `json:"rows"`
}

// Filler decomposes a source table and fills its answer column from a
// resolver.
type Filler struct {
	resolver *match.Resolver
	splitter decompose.Splitter
	workers  int
}

// NewFiller creates a filler. splitter may be nil to skip decomposition;
// zero workers means DefaultWorkers and a negative count means one.
func NewFiller(resolver *match.Resolver, splitter decompose.Splitter, workers int) *Filler {
	switch {
	case workers == 0:
		workers = DefaultWorkers()
	case workers < 0:
		workers = 1
	}
	return &Filler{resolver: resolver, splitter: splitter, workers: workers}
}

// Fill returns a new table: source decomposed, then every row with a
// non-empty normalized match value resolved and its fill column written.
// The source table is not modified.
func (f *Filler) Fill(localDebug bool, source *table.Table, job Job) (*FillResult, error) {
	debug.DebugHeader(localDebug)
	defer debug.DebugFooter(localDebug)

	startTime := time.Now()

	if err := source.Validate(); err != nil {
		return nil, fmt.Errorf("source table: %w", err)
	}
	if err := source.CheckColumn(job.MatchColumn); err != nil {
		return nil, fmt.Errorf("match column: %w", err)
	}
	if err := source.CheckColumn(job.FillColumn); err != nil {
		return nil, fmt.Errorf("fill column: %w", err)
	}

	out, synthetic, dstats, err := decompose.Expand(localDebug, source, job.MatchColumn, f.splitter)
	if err != nil {
		return nil, fmt.Errorf("decomposition: %w", err)
	}

	stats := &BatchStats{
		SourceRows:     len(source.Rows),
		TotalRows:      len(out.Rows),
		DecomposedRows: dstats.Decomposed,
		SyntheticRows:  dstats.Synthetic,
	}
	debug.DebugOutput(localDebug, "Decomposition: %d rows split into %d synthetic rows", stats.DecomposedRows, stats.SyntheticRows)

	results := f.resolveAll(localDebug, out, job.MatchColumn)

	var totalScore float64
	for i := range results {
		res := &results[i]
		res.Synthetic = synthetic[i]

		switch res.Outcome {
		case RowSkipped:
			stats.SkippedCount++
			continue
		case RowMatched:
			stats.MatchedCount++
			totalScore += res.Match.Score
		case RowUnmatched:
			stats.UnmatchedCount++
			if job.KeepExisting {
				continue
			}
		}
		out.Rows[i][job.FillColumn] = res.Match.Answer
	}

	stats.ProcessingTime = time.Since(startTime)
	if stats.MatchedCount > 0 {
		stats.AverageScore = totalScore / float64(stats.MatchedCount)
	}

	debug.DebugOutput(localDebug, "Fill complete:")
	debug.DebugOutput(localDebug, "  Rows: %d (%d source, %d synthetic)", stats.TotalRows, stats.SourceRows, stats.SyntheticRows)
	debug.DebugOutput(localDebug, "  Matched: %d", stats.MatchedCount)
	debug.DebugOutput(localDebug, "  Unmatched: %d", stats.UnmatchedCount)
	debug.DebugOutput(localDebug, "  Skipped: %d", stats.SkippedCount)
	debug.DebugOutput(localDebug, "  Average score: %.4f", stats.AverageScore)
	debug.DebugOutput(localDebug, "  Processing time: %v", stats.ProcessingTime)

	return &FillResult{Table: out, Stats: stats, Rows: results}, nil
}

// resolveAll resolves every row of t, in parallel when the filler has more
// than one worker. Results are indexed by row so the outcome does not depend
// on scheduling.
func (f *Filler) resolveAll(localDebug bool, t *table.Table, matchCol int) []RowResult {
	results := make([]RowResult, len(t.Rows))

	workers := f.workers
	if workers > len(t.Rows) {
		workers = len(t.Rows)
	}
	if workers <= 1 {
		for i, row := range t.Rows {
			results[i] = f.resolveRow(localDebug, i, row[matchCol])
		}
		return results
	}

	rowChan := make(chan int, len(t.Rows))
	for i := range t.Rows {
		rowChan <- i
	}
	close(rowChan)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rowChan {
				results[i] = f.resolveRow(localDebug, i, t.Rows[i][matchCol])
			}
		}()
	}
	wg.Wait()

	return results
}

func (f *Filler) resolveRow(localDebug bool, i int, raw string) RowResult {
	raw = strings.TrimSpace(raw)
	value := f.resolver.Normalize(raw)
	// Line numbers count the header as line 1.
	debug.DebugOutput(localDebug, "Row %d: raw match value '%s', normalized '%s'", i+2, raw, value)

	res := RowResult{Row: i, Raw: raw}
	if value == "" {
		res.Outcome = RowSkipped
		res.Match = match.Result{Row: -1}
		return res
	}

	res.Match = f.resolver.Resolve(localDebug, raw)
	if res.Match.Matched {
		res.Outcome = RowMatched
	} else {
		res.Outcome = RowUnmatched
	}
	return res
}

// DefaultWorkers is one worker per CPU.
func DefaultWorkers() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}
