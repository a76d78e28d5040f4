package table

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablefill/internal/db"
)

func TestReadCSVPreprocesses(t *testing.T) {
	input := "\ufeffname, code\n苹果 (红) 123 ,\n , \n香蕉,B 2\nshort\n"

	tbl, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "code"}, tbl.Header)
	assert.Equal(t, []Record{
		{"苹果(红)123", ""},
		{"香蕉", "B2"},
		{"short", ""},
	}, tbl.Rows)
	assert.NoError(t, tbl.Validate())
}

func TestReadCSVRejectsWideRows(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	assert.True(t, errors.Is(err, ErrRaggedRow), "got %v", err)
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(" , \n"))
	assert.True(t, errors.Is(err, ErrEmptyTable), "got %v", err)
}

func TestWriteAndReadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	in := &Table{
		Header: []string{"name", "code"},
		Rows:   []Record{{"苹果", "A1"}, {"带,逗号", ""}},
	}
	require.NoError(t, WriteCSVFile(path, in))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))

	out, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadCSVFileMissing(t *testing.T) {
	_, err := ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"data.csv", "data_modified.csv"},
		{"/tmp/a.csv/b.csv", "/tmp/a.csv/b_modified.csv"},
		{"DATA.CSV", "DATA_modified.csv"},
		{"export.txt", "export.txt_modified.csv"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputPath(tt.in), tt.in)
	}
}

func TestParseColumnPair(t *testing.T) {
	a, b, err := ParseColumnPair(" 0  2 ", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, a)
	assert.Equal(t, 2, b)

	for _, bad := range []string{"", "1", "1 2 3", "x 1", "0 3", "-1 0"} {
		_, _, err := ParseColumnPair(bad, 3)
		assert.Error(t, err, "input %q", bad)
	}

	_, _, err = ParseColumnPair("0 5", 3)
	assert.True(t, errors.Is(err, ErrColumnRange))
}

func TestBlankRecord(t *testing.T) {
	assert.Equal(t, Record{"", "x", ""}, BlankRecord(3, 1, "x"))
	assert.Equal(t, Record{"", ""}, BlankRecord(2, 5, "x"))
}

func TestCheckColumn(t *testing.T) {
	tbl := &Table{Header: []string{"a", "b"}}
	assert.NoError(t, tbl.CheckColumn(1))
	assert.True(t, errors.Is(tbl.CheckColumn(2), ErrColumnRange))
	assert.True(t, errors.Is(tbl.CheckColumn(-1), ErrColumnRange))
}

func TestLoadQuerySQLite(t *testing.T) {
	conn, err := db.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.DB.Exec(`CREATE TABLE products (name TEXT, id TEXT, price REAL, stock INTEGER)`)
	require.NoError(t, err)
	_, err = conn.DB.Exec(`INSERT INTO products VALUES ('苹果', 'A1', 3.5, 10), ('香蕉', NULL, NULL, 0)`)
	require.NoError(t, err)

	tbl, err := LoadQuery(context.Background(), conn.DB, `SELECT name, id, price, stock FROM products ORDER BY rowid`)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "id", "price", "stock"}, tbl.Header)
	assert.Equal(t, []Record{
		{"苹果", "A1", "3.5", "10"},
		{"香蕉", "", "", "0"},
	}, tbl.Rows)
}
