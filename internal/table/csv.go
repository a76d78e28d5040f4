package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadCSV decodes r, applies Preprocess and returns the table.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}

	return FromRows(Preprocess(rows))
}

// ReadCSVFile opens and decodes a CSV file.
func ReadCSVFile(filename string) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	t, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return t, nil
}

// WriteCSV encodes the header followed by all rows.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes t to filename, replacing any existing file.
func WriteCSVFile(filename string, t *Table) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filename, err)
	}
	if err := WriteCSV(file, t); err != nil {
		file.Close()
		return fmt.Errorf("%s: %w", filename, err)
	}
	return file.Close()
}

// OutputPath derives the result file name: data.csv becomes
// data_modified.csv, any other name gets _modified.csv appended.
func OutputPath(source string) string {
	if strings.HasSuffix(strings.ToLower(source), ".csv") {
		return source[:len(source)-len(".csv")] + "_modified.csv"
	}
	return source + "_modified.csv"
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
