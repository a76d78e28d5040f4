package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tablefill/internal/config"
	"github.com/tablefill/internal/table"
)

func createInteractiveCmd(settings *config.Matching) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Prompt for files and columns, then fill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), *settings)
			return err
		},
	}
}

// prompter reads one answer per line
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p *prompter) ask(question string) (string, error) {
	fmt.Fprintln(p.out, question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func printHeaders(out io.Writer, header []string) {
	for i, name := range header {
		fmt.Fprintf(out, "%d - %s\n", i, name)
	}
}

// runInteractive walks through source path, source columns, target path,
// target columns and the two lexicon paths, then runs the fill. Any invalid
// answer ends the session with an error.
func runInteractive(in io.Reader, out io.Writer, settings config.Matching) (string, error) {
	p := &prompter{in: bufio.NewScanner(in), out: out}
	var opts fillOptions

	sourcePath, err := p.ask("Enter the full path of the source CSV file:")
	if err != nil {
		return "", err
	}
	if !table.FileExists(sourcePath) {
		return "", fmt.Errorf("source file %s does not exist", sourcePath)
	}
	source, err := table.ReadCSVFile(sourcePath)
	if err != nil {
		return "", err
	}
	opts.sourcePath = sourcePath

	printHeaders(out, source.Header)
	answer, err := p.ask("Choose the match column and the column to fill. Enter two indices separated by a space:")
	if err != nil {
		return "", err
	}
	opts.matchColumn, opts.fillColumn, err = table.ParseColumnPair(answer, source.Width())
	if err != nil {
		return "", fmt.Errorf("invalid indices: %w", err)
	}

	targetPath, err := p.ask("Enter the full path of the target CSV file:")
	if err != nil {
		return "", err
	}
	if !table.FileExists(targetPath) {
		return "", fmt.Errorf("target file %s does not exist", targetPath)
	}
	target, err := table.ReadCSVFile(targetPath)
	if err != nil {
		return "", err
	}
	opts.targetPath = targetPath

	fmt.Fprintln(out, "Target file columns:")
	printHeaders(out, target.Header)
	answer, err = p.ask("Choose the target match column and the answer column. Enter two indices separated by a space:")
	if err != nil {
		return "", err
	}
	opts.targetMatch, opts.answerColumn, err = table.ParseColumnPair(answer, target.Width())
	if err != nil {
		return "", fmt.Errorf("invalid indices: %w", err)
	}

	if settings.SynonymsPath, err = p.ask("Enter the full path of the synonym lexicon (leave empty for none):"); err != nil {
		return "", err
	}
	if settings.CombinationsPath, err = p.ask("Enter the full path of the combination lexicon (leave empty for none):"); err != nil {
		return "", err
	}

	if settings.Log {
		fmt.Fprintln(out, "Logging enabled, showing the detailed matching trace.")
	}

	return fillTables(out, settings, opts, source, target)
}
