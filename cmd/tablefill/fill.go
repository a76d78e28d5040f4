package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablefill/internal/config"
	"github.com/tablefill/internal/db"
	"github.com/tablefill/internal/matcher"
	"github.com/tablefill/internal/table"
)

// fillOptions are the inputs of one fill run
type fillOptions struct {
	sourcePath   string
	matchColumn  int
	fillColumn   int
	targetPath   string
	targetMatch  int
	answerColumn int
	outputPath   string
	keepExisting bool
	postal       bool

	targetDriver string
	targetDSN    string
	targetQuery  string
}

func createFillCmd(settings *config.Matching) *cobra.Command {
	var opts fillOptions

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the answer column of a source CSV",
		Long:  `Read the source CSV, decompose compound match values, match every row against the target table and write <source>_modified.csv`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if settings.Threshold < 0 || settings.Threshold > 1 {
				return fmt.Errorf("--threshold must be between 0 and 1, got %v", settings.Threshold)
			}
			if settings.DecomposeThreshold < 0 || settings.DecomposeThreshold > 1 {
				return fmt.Errorf("--decompose-threshold must be between 0 and 1, got %v", settings.DecomposeThreshold)
			}
			_, err := runFill(cmd.Context(), cmd.OutOrStdout(), *settings, opts)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.sourcePath, "source", "", "Source CSV file")
	cmd.Flags().IntVar(&opts.matchColumn, "match", 0, "Source column holding the match values")
	cmd.Flags().IntVar(&opts.fillColumn, "fill", 1, "Source column that receives the answers")
	cmd.Flags().StringVar(&opts.targetPath, "target", "", "Target CSV file")
	cmd.Flags().IntVar(&opts.targetMatch, "target-match", 0, "Target column compared with the match values")
	cmd.Flags().IntVar(&opts.answerColumn, "answer", 1, "Target column copied into the source")
	cmd.Flags().StringVar(&opts.outputPath, "output", "", "Output CSV file (default <source>_modified.csv)")
	cmd.Flags().BoolVar(&opts.keepExisting, "keep-existing", false, "Leave the fill column of unmatched rows untouched")
	cmd.Flags().BoolVar(&opts.postal, "postal", false, "Split address values with libpostal instead of the combination lexicon")

	cmd.Flags().StringVar(&settings.SynonymsPath, "synonyms", settings.SynonymsPath, "Synonym lexicon file")
	cmd.Flags().StringVar(&settings.CombinationsPath, "combinations", settings.CombinationsPath, "Combination lexicon file")
	cmd.Flags().Float64Var(&settings.Threshold, "threshold", settings.Threshold, "Minimum similarity for an answer")
	cmd.Flags().Float64Var(&settings.DecomposeThreshold, "decompose-threshold", settings.DecomposeThreshold, "Minimum similarity for recognising a compound value")
	cmd.Flags().IntVar(&settings.Workers, "workers", settings.Workers, "Rows resolved in parallel (0 uses one per CPU)")
	cmd.Flags().BoolVar(&settings.FoldWidth, "fold-width", settings.FoldWidth, "Fold full-width characters before matching")
	cmd.Flags().BoolVar(&settings.SeparatorToken, "separator-token", settings.SeparatorToken, "Count a separator token in similarity scores")

	cmd.Flags().StringVar(&opts.targetDriver, "target-driver", "", "Load the target from a database: postgres or sqlite")
	cmd.Flags().StringVar(&opts.targetDSN, "target-dsn", "", "Database connection string (postgres defaults to the PG* environment)")
	cmd.Flags().StringVar(&opts.targetQuery, "target-query", "", "Query returning the target table")

	cmd.MarkFlagRequired("source")

	return cmd
}

// runFill reads both tables, fills the source and writes the result. It
// returns the output path.
func runFill(ctx context.Context, out io.Writer, settings config.Matching, opts fillOptions) (string, error) {
	if !table.FileExists(opts.sourcePath) {
		return "", fmt.Errorf("source file %s does not exist", opts.sourcePath)
	}
	source, err := table.ReadCSVFile(opts.sourcePath)
	if err != nil {
		return "", err
	}

	target, err := loadTarget(ctx, opts)
	if err != nil {
		return "", err
	}

	return fillTables(out, settings, opts, source, target)
}

// fillTables loads the lexicons, fills source from target and writes the
// result. It returns the output path.
func fillTables(out io.Writer, settings config.Matching, opts fillOptions, source, target *table.Table) (string, error) {
	lexicons, err := matcher.LoadLexicons(settings.Log, settings)
	if err != nil {
		return "", err
	}
	reportLexicon(out, "synonyms", lexicons.Synonyms)
	reportLexicon(out, "combinations", lexicons.Combinations)

	plan := matcher.Plan{
		Source:            source,
		Target:            target,
		MatchColumn:       opts.matchColumn,
		FillColumn:        opts.fillColumn,
		TargetMatchColumn: opts.targetMatch,
		AnswerColumn:      opts.answerColumn,
		KeepExisting:      opts.keepExisting,
		Settings:          settings,
		Lexicons:          lexicons,
	}
	if opts.postal {
		plan.Splitter, err = postalSplitter()
		if err != nil {
			return "", err
		}
	}

	result, err := matcher.Run(settings.Log, plan)
	if err != nil {
		return "", err
	}

	outputPath := opts.outputPath
	if outputPath == "" {
		outputPath = table.OutputPath(opts.sourcePath)
	}
	if err := table.WriteCSVFile(outputPath, result.Table); err != nil {
		return "", err
	}

	st := result.Stats
	fmt.Fprintf(out, "Rows: %d (%d synthetic), matched: %d, unmatched: %d, skipped: %d\n",
		st.TotalRows, st.SyntheticRows, st.MatchedCount, st.UnmatchedCount, st.SkippedCount)
	fmt.Fprintf(out, "Done, output written to: %s\n", outputPath)

	return outputPath, nil
}

// loadTarget reads the target from CSV, or from a database query when a
// driver is given.
func loadTarget(ctx context.Context, opts fillOptions) (*table.Table, error) {
	if opts.targetDriver == "" {
		if opts.targetPath == "" {
			return nil, fmt.Errorf("either --target or --target-driver is required")
		}
		if !table.FileExists(opts.targetPath) {
			return nil, fmt.Errorf("target file %s does not exist", opts.targetPath)
		}
		return table.ReadCSVFile(opts.targetPath)
	}

	if opts.targetQuery == "" {
		return nil, fmt.Errorf("--target-query is required with --target-driver")
	}

	dsn := opts.targetDSN
	if dsn == "" {
		switch strings.ToLower(opts.targetDriver) {
		case "postgres", "postgresql", "pq":
			dsn = db.PostgresDSN()
		}
	}
	conn, err := db.Open(opts.targetDriver, dsn)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	return table.LoadQuery(ctx, conn.DB, opts.targetQuery)
}
