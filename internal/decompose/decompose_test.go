package decompose

import (
	"reflect"
	"testing"

	"github.com/tablefill/internal/lexicon"
	"github.com/tablefill/internal/normalize"
	"github.com/tablefill/internal/table"
)

func library(entries ...lexicon.Entry) *lexicon.CombinationLibrary {
	return lexicon.NewCombinations(lexicon.New(entries...), normalize.Normalizer{})
}

func TestDecompose(t *testing.T) {
	lib := library(
		lexicon.Entry{Key: "AB", Values: []string{"X", "Y"}},
		lexicon.Entry{Key: "水果拼盘", Values: []string{"苹果", "香蕉", "西瓜"}},
	)

	src := &table.Table{
		Header: []string{"name", "code", "qty"},
		Rows: []table.Record{
			{"AB (套装)", "", "2"},
			{"香蕉", "", "1"},
			{"水果拼盘大份", "", "3"},
			{"", "", "9"},
		},
	}

	got, stats, err := Decompose(false, src, 0, NewLibrarySplitter(lib))
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}

	want := []table.Record{
		{"AB (套装)", "", "2"},
		{"X", "", ""},
		{"Y", "", ""},
		{"香蕉", "", "1"},
		{"水果拼盘大份", "", "3"},
		{"苹果", "", ""},
		{"香蕉", "", ""},
		{"西瓜", "", ""},
		{"", "", "9"},
	}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("rows =\n%v\nwant\n%v", got.Rows, want)
	}
	if !reflect.DeepEqual(got.Header, src.Header) {
		t.Errorf("header = %v, want %v", got.Header, src.Header)
	}
	if stats != (Stats{Decomposed: 2, Synthetic: 5}) {
		t.Errorf("stats = %+v", stats)
	}
	if len(src.Rows) != 4 {
		t.Errorf("input table modified: %d rows", len(src.Rows))
	}
}

func TestDecomposeExactlyThreeRows(t *testing.T) {
	lib := library(lexicon.Entry{Key: "AB", Values: []string{"X", "Y"}})
	src := &table.Table{Header: []string{"m", "a"}, Rows: []table.Record{{"AB", "keep"}}}

	got, _, err := Decompose(false, src, 0, NewLibrarySplitter(lib))
	if err != nil {
		t.Fatal(err)
	}
	want := []table.Record{{"AB", "keep"}, {"X", ""}, {"Y", ""}}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("rows = %v, want %v", got.Rows, want)
	}
}

func TestDecomposeMatchColumnNotFirst(t *testing.T) {
	lib := library(lexicon.Entry{Key: "AB", Values: []string{"X"}})
	src := &table.Table{Header: []string{"id", "m"}, Rows: []table.Record{{"7", "AB"}}}

	got, _, err := Decompose(false, src, 1, NewLibrarySplitter(lib))
	if err != nil {
		t.Fatal(err)
	}
	want := []table.Record{{"7", "AB"}, {"", "X"}}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("rows = %v, want %v", got.Rows, want)
	}
}

func TestDecomposeNoLibrary(t *testing.T) {
	src := &table.Table{Header: []string{"m"}, Rows: []table.Record{{"AB"}, {"CD"}}}

	for name, s := range map[string]Splitter{
		"empty library": NewLibrarySplitter(library()),
		"nil library":   NewLibrarySplitter(nil),
		"nil splitter":  nil,
	} {
		t.Run(name, func(t *testing.T) {
			got, stats, err := Decompose(false, src, 0, s)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got.Rows, src.Rows) {
				t.Errorf("rows = %v, want %v", got.Rows, src.Rows)
			}
			if stats != (Stats{}) {
				t.Errorf("stats = %+v", stats)
			}
		})
	}
}

func TestDecomposeBadColumn(t *testing.T) {
	src := &table.Table{Header: []string{"m"}}
	if _, _, err := Decompose(false, src, 3, nil); err == nil {
		t.Error("expected error for column out of range")
	}
}

func TestLibrarySplitterThreshold(t *testing.T) {
	lib := library(lexicon.Entry{Key: "abcde", Values: []string{"p", "q"}})

	tests := []struct {
		value     string
		threshold float64
		wantOK    bool
	}{
		{"abc", 0.60, true},     // 3/5
		{"ab", 0.60, false},     // 2/5
		{"ab", 0.40, true},      // 2/5
		{"xyz", 0.0, false},     // no overlap never splits
		{"(abcde)", 0.0, false}, // normalizes to empty
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			ls := NewLibrarySplitter(lib)
			ls.Threshold = tt.threshold
			split, ok := ls.Split(false, tt.value)
			if ok != tt.wantOK {
				t.Fatalf("Split(%q) ok = %v, want %v (score %v)", tt.value, ok, tt.wantOK, split.Score)
			}
			if ok && !reflect.DeepEqual(split.Components, []string{"p", "q"}) {
				t.Errorf("components = %v", split.Components)
			}
		})
	}
}

func TestLibrarySplitterPicksHighestKey(t *testing.T) {
	lib := library(
		lexicon.Entry{Key: "abcdef", Values: []string{"low"}},
		lexicon.Entry{Key: "abcd", Values: []string{"high"}},
		lexicon.Entry{Key: "abce", Values: []string{"tie"}},
	)
	split, ok := NewLibrarySplitter(lib).Split(false, "abc")
	if !ok {
		t.Fatal("expected a split")
	}
	// abcd and abce both score 3/4; any maximal key is acceptable.
	if split.Score != 0.75 || (split.Key != "abcd" && split.Key != "abce") {
		t.Errorf("split = %+v", split)
	}
}
