package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tablefill/internal/config"
	"github.com/tablefill/internal/debug"
)

const version = "1.0.0"

func main() {
	// Load environment configuration
	config.LoadEnv()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Settings start from the TABLEFILL_*
// environment and are overridden by flags.
func newRootCmd() *cobra.Command {
	settings := config.LoadMatching()

	rootCmd := &cobra.Command{
		Use:     "tablefill",
		Short:   "Fill a CSV column from the best approximate match in another table",
		Long:    `Match each source row against a reference table by character-set similarity, expanding synonyms and splitting known compound values, and copy the reference answer into the source row`,
		Version: version,

		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug.SetOutput(cmd.ErrOrStderr())
		},
		// Without a subcommand the tool prompts like the interactive command.
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), settings)
			return err
		},
	}

	rootCmd.PersistentFlags().BoolVar(&settings.Log, "log", settings.Log, "Show the detailed matching trace")

	rootCmd.AddCommand(createFillCmd(&settings))
	rootCmd.AddCommand(createInteractiveCmd(&settings))
	rootCmd.AddCommand(createScoreCmd(&settings))
	rootCmd.AddCommand(createLexiconCmd(&settings))
	rootCmd.AddCommand(createServeCmd(&settings))

	return rootCmd
}
