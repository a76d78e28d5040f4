// Package lexicon loads the synonym and combination word lists that steer
// matching.
//
// Both lists share one line format:
//
//	KEY -VALUE1/VALUE2/.../VALUEn
//
// The key is separated from a slash-delimited value list by a space followed
// by a hyphen. Lines without that separator are reported as issues and
// skipped. Files ending in .yaml or .yml are read as
//
//	entries:
//	  - key: KEY
//	    values: [VALUE1, VALUE2]
package lexicon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tablefill/internal/debug"
)

// Separator splits a lexicon line into key and value list.
const Separator = " -"

// Entry is one lexicon line.
type Entry struct {
	Key    string
	Values []string
	Line   int
}

// Issue describes a line that was skipped.
type Issue struct {
	Line   int
	Text   string
	Reason string
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s: %q", i.Line, i.Reason, i.Text)
}

// Lexicon is an ordered list of entries as they appeared in the source.
type Lexicon struct {
	entries []Entry
}

// New creates a lexicon from entries, keeping their order.
func New(entries ...Entry) *Lexicon {
	return &Lexicon{entries: append([]Entry(nil), entries...)}
}

// Entries returns the entries in source order.
func (l *Lexicon) Entries() []Entry {
	if l == nil {
		return nil
	}
	return l.entries
}

// Len returns the number of entries.
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// LoadResult is the outcome of LoadFile.
type LoadResult struct {
	Path    string
	Lexicon *Lexicon
	Issues  []Issue
	// Missing is set when the file does not exist; Lexicon is then empty.
	Missing bool
}

// Parse reads the line format from r. Malformed lines are returned as issues,
// only read failures are errors.
func Parse(r io.Reader) (*Lexicon, []Issue, error) {
	lex := &Lexicon{}
	var issues []Issue

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		parts := strings.SplitN(line, Separator, 2)
		if len(parts) < 2 {
			issues = append(issues, Issue{Line: lineNo, Text: line, Reason: "missing \" -\" separator"})
			continue
		}

		key := strings.TrimSpace(parts[0])
		if key == "" {
			issues = append(issues, Issue{Line: lineNo, Text: line, Reason: "empty key"})
			continue
		}

		lex.entries = append(lex.entries, Entry{
			Key:    key,
			Values: splitValues(parts[1]),
			Line:   lineNo,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, issues, fmt.Errorf("reading lexicon: %w", err)
	}

	return lex, issues, nil
}

// ParseYAML reads the YAML form of a lexicon.
func ParseYAML(data []byte) (*Lexicon, []Issue, error) {
	var doc struct {
		Entries []struct {
			Key    string   `yaml:"key"`
			Values []string `yaml:"values"`
		} `yaml:"entries"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decoding yaml lexicon: %w", err)
	}

	lex := &Lexicon{}
	var issues []Issue
	for i, e := range doc.Entries {
		key := strings.TrimSpace(e.Key)
		if key == "" {
			issues = append(issues, Issue{Line: i + 1, Text: strings.Join(e.Values, "/"), Reason: "empty key"})
			continue
		}
		lex.entries = append(lex.entries, Entry{
			Key:    key,
			Values: cleanValues(e.Values),
			Line:   i + 1,
		})
	}
	return lex, issues, nil
}

// LoadFile loads a lexicon from path. An empty path or a missing file yields
// an empty lexicon; any other read or decode failure is returned.
func LoadFile(localDebug bool, path string) (LoadResult, error) {
	result := LoadResult{Path: path, Lexicon: &Lexicon{}}
	if path == "" {
		return result, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		debug.DebugOutput(localDebug, "Lexicon %s does not exist, using empty lexicon", path)
		result.Missing = true
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}

	var (
		lex    *Lexicon
		issues []Issue
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		lex, issues, err = ParseYAML(data)
	default:
		lex, issues, err = Parse(strings.NewReader(string(data)))
	}
	if err != nil {
		return result, fmt.Errorf("%s: %w", path, err)
	}

	for _, issue := range issues {
		debug.DebugOutput(localDebug, "Skipping lexicon %s %s", path, issue)
	}
	debug.DebugOutput(localDebug, "Loaded %d entries from %s (%d skipped)", lex.Len(), path, len(issues))

	result.Lexicon = lex
	result.Issues = issues
	return result, nil
}

func splitValues(list string) []string {
	return cleanValues(strings.Split(list, "/"))
}

func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
