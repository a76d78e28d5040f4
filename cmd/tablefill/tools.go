package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tablefill/internal/config"
	"github.com/tablefill/internal/lexicon"
	"github.com/tablefill/internal/match"
	"github.com/tablefill/internal/web"
)

// createScoreCmd prints the similarity of two values
func createScoreCmd(settings *config.Matching) *cobra.Command {
	return &cobra.Command{
		Use:   "score [a] [b]",
		Short: "Show the normalized forms and similarity of two values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := match.OptionsFrom(*settings)
			a := opts.Normalizer.Normalize(args[0])
			b := opts.Normalizer.Normalize(args[1])
			score := opts.Scorer.Score(a, b)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "a: '%s' -> '%s'\n", args[0], a)
			fmt.Fprintf(out, "b: '%s' -> '%s'\n", args[1], b)
			fmt.Fprintf(out, "score: %.4f (%.2f%%)\n", score, score*100)
			if score >= opts.Threshold && score > 0 {
				fmt.Fprintf(out, "accepted at threshold %.2f\n", opts.Threshold)
			} else {
				fmt.Fprintf(out, "rejected at threshold %.2f\n", opts.Threshold)
			}
			return nil
		},
	}
}

// createLexiconCmd checks a lexicon file
func createLexiconCmd(settings *config.Matching) *cobra.Command {
	return &cobra.Command{
		Use:   "lexicon [path]",
		Short: "Parse a synonym or combination lexicon and report problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := lexicon.LoadFile(settings.Log, args[0])
			if err != nil {
				return err
			}
			if result.Missing {
				return fmt.Errorf("lexicon %s does not exist", args[0])
			}

			out := cmd.OutOrStdout()
			reportLexicon(out, "lexicon", result)
			st := lexicon.StatsOf(result)
			fmt.Fprintf(out, "%s: %d entries, %d distinct keys, %d values, %d skipped lines\n",
				args[0], st.Entries, st.Keys, st.Values, st.Skipped)
			return nil
		},
	}
}

// reportLexicon prints load warnings for a lexicon
func reportLexicon(out io.Writer, kind string, result lexicon.LoadResult) {
	if result.Missing {
		fmt.Fprintf(out, "The %s file does not exist, please check the path: %s\n", kind, result.Path)
		return
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "Skipping malformed %s %s\n", kind, issue)
	}
}

// createServeCmd starts the HTTP API
func createServeCmd(settings *config.Matching) *cobra.Command {
	var configFile string
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the fill web API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := serveConfig(cmd, *settings, configFile, host, port)
			if err != nil {
				return err
			}

			server, err := web.NewServer(settings.Log, cfg)
			if err != nil {
				return err
			}
			return server.Start()
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "JSON server configuration file")
	cmd.Flags().StringVar(&host, "host", "", "Listen host")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port")
	cmd.Flags().StringVar(&settings.SynonymsPath, "synonyms", settings.SynonymsPath, "Synonym lexicon file")
	cmd.Flags().StringVar(&settings.CombinationsPath, "combinations", settings.CombinationsPath, "Combination lexicon file")

	return cmd
}

// serveConfig starts from the config file or the environment and applies
// the flags that were set.
func serveConfig(cmd *cobra.Command, settings config.Matching, configFile, host string, port int) (*web.Config, error) {
	var cfg *web.Config
	if configFile != "" {
		var err error
		if cfg, err = web.LoadConfig(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = web.ConfigFromEnv()
	}

	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if cmd.Flags().Changed("synonyms") {
		cfg.Matching.SynonymsPath = settings.SynonymsPath
	}
	if cmd.Flags().Changed("combinations") {
		cfg.Matching.CombinationsPath = settings.CombinationsPath
	}
	return cfg, nil
}
