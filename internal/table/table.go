package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrEmptyTable is returned when a table has no header row.
	ErrEmptyTable = errors.New("table has no header row")
	// ErrColumnRange is returned for a column index outside the header.
	ErrColumnRange = errors.New("column index out of range")
	// ErrRaggedRow is returned when a row is wider than the header.
	ErrRaggedRow = errors.New("row wider than header")
)

// Record is one row of field values aligned with the table header.
type Record []string

// Table is a header plus ordered records.
type Table struct {
	Header []string `json:"header"`
	Rows   []Record `json:"rows"`
}

// Width returns the number of header columns.
func (t *Table) Width() int {
	return len(t.Header)
}

// Validate checks every row has exactly the header's field count.
func (t *Table) Validate() error {
	if len(t.Header) == 0 {
		return ErrEmptyTable
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return fmt.Errorf("row %d has %d fields, header has %d: %w", i+1, len(row), len(t.Header), ErrRaggedRow)
		}
	}
	return nil
}

// CheckColumn reports whether idx addresses a header column.
func (t *Table) CheckColumn(idx int) error {
	if idx < 0 || idx >= len(t.Header) {
		return fmt.Errorf("column %d (table has %d columns): %w", idx, len(t.Header), ErrColumnRange)
	}
	return nil
}

// BlankRecord returns a record of width empty fields with value at column idx.
func BlankRecord(width, idx int, value string) Record {
	rec := make(Record, width)
	if idx >= 0 && idx < width {
		rec[idx] = value
	}
	return rec
}

// FromRows builds a table from raw rows where the first row is the header.
// Short rows are padded to the header width; wider rows are an error.
func FromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{Header: append([]string(nil), rows[0]...)}
	if len(t.Header) == 0 {
		return nil, ErrEmptyTable
	}
	for i, row := range rows[1:] {
		if len(row) > len(t.Header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d: %w", i+2, len(row), len(t.Header), ErrRaggedRow)
		}
		rec := make(Record, len(t.Header))
		copy(rec, row)
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// Preprocess removes every whitespace character inside each field and drops
// rows whose fields are all empty afterwards. The header is cleaned the same
// way.
func Preprocess(rows [][]string) [][]string {
	cleaned := make([][]string, 0, len(rows))
	for _, row := range rows {
		out := make([]string, len(row))
		keep := false
		for i, field := range row {
			out[i] = stripSpace(field)
			if out[i] != "" {
				keep = true
			}
		}
		if keep {
			cleaned = append(cleaned, out)
		}
	}
	return cleaned
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ParseColumnPair parses two space-separated column indices such as "0 3"
// and checks both against width.
func ParseColumnPair(input string, width int) (int, int, error) {
	fields := strings.Fields(input)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected two indices separated by a space, got %q", input)
	}

	var pair [2]int
	for i, f := range fields {
		idx, err := strconv.Atoi(f)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid index %q: %w", f, err)
		}
		if idx < 0 || idx >= width {
			return 0, 0, fmt.Errorf("index %d (table has %d columns): %w", idx, width, ErrColumnRange)
		}
		pair[i] = idx
	}
	return pair[0], pair[1], nil
}
