package lexicon

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tablefill/internal/normalize"
)

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"\ufeff苹果 -红苹果/青苹果",
		"",
		"# comment -ignored",
		"no separator here",
		"香蕉-芭蕉",
		" -orphan",
		"组合 (套装) - A / B //C",
		"key -a -b/c",
	}, "\n")

	lex, issues, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	wantEntries := []Entry{
		{Key: "苹果", Values: []string{"红苹果", "青苹果"}, Line: 1},
		{Key: "组合 (套装)", Values: []string{"A", "B", "C"}, Line: 7},
		{Key: "key", Values: []string{"a -b", "c"}, Line: 8},
	}
	if got := lex.Entries(); !reflect.DeepEqual(got, wantEntries) {
		t.Errorf("Entries() = %#v, want %#v", got, wantEntries)
	}

	wantLines := []int{4, 5, 6}
	if len(issues) != len(wantLines) {
		t.Fatalf("got %d issues (%v), want %d", len(issues), issues, len(wantLines))
	}
	for i, line := range wantLines {
		if issues[i].Line != line {
			t.Errorf("issue %d on line %d, want %d", i, issues[i].Line, line)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	lex, issues, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if lex.Len() != 0 || len(issues) != 0 {
		t.Errorf("empty input gave %d entries and %d issues", lex.Len(), len(issues))
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "synonyms.txt")
	if err := os.WriteFile(textPath, []byte("苹果 -红苹果/青苹果\nbad line\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	yamlPath := filepath.Join(dir, "combos.yaml")
	yamlDoc := "entries:\n  - key: 水果拼盘\n    values: [苹果, 香蕉]\n  - key: \"\"\n    values: [x]\n"
	if err := os.WriteFile(yamlPath, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		path        string
		wantEntries int
		wantIssues  int
		wantMissing bool
	}{
		{"line format", textPath, 1, 1, false},
		{"yaml format", yamlPath, 1, 1, false},
		{"missing file", filepath.Join(dir, "nope.txt"), 0, 0, true},
		{"no path", "", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := LoadFile(false, tt.path)
			if err != nil {
				t.Fatalf("LoadFile(%q) error = %v", tt.path, err)
			}
			if res.Lexicon.Len() != tt.wantEntries {
				t.Errorf("entries = %d, want %d", res.Lexicon.Len(), tt.wantEntries)
			}
			if len(res.Issues) != tt.wantIssues {
				t.Errorf("issues = %d, want %d", len(res.Issues), tt.wantIssues)
			}
			if res.Missing != tt.wantMissing {
				t.Errorf("missing = %v, want %v", res.Missing, tt.wantMissing)
			}
		})
	}
}

func TestLoadFileBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	if err := os.WriteFile(path, []byte("entries: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(false, path); err == nil {
		t.Error("LoadFile() expected error for malformed yaml")
	}
}

func TestSynonymExpand(t *testing.T) {
	lex, _, err := Parse(strings.NewReader("苹果 -红苹果/青苹果\n番茄 -西红柿\n苹果(大) -苹果 1号/红苹果\n"))
	if err != nil {
		t.Fatal(err)
	}
	sm := NewSynonyms(lex, normalize.Normalizer{})

	tests := []struct {
		value string
		want  []string
	}{
		{"苹果", []string{"苹果", "红苹果", "青苹果", "苹果号"}},
		{"红苹果", []string{"红苹果", "苹果", "青苹果", "苹果号"}},
		{"西红柿", []string{"西红柿", "番茄"}},
		{"香蕉", []string{"香蕉"}},
		{"", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := sm.Expand(tt.value); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expand(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}

	if sm.Groups() != 3 {
		t.Errorf("Groups() = %d, want 3", sm.Groups())
	}
}

func TestSynonymExpandNilMap(t *testing.T) {
	var sm *SynonymMap
	if got := sm.Expand("苹果"); !reflect.DeepEqual(got, []string{"苹果"}) {
		t.Errorf("nil map Expand = %v", got)
	}
}

func TestCombinationLibrary(t *testing.T) {
	lex := New(
		Entry{Key: "水果拼盘(大)", Values: []string{"苹果", "香蕉"}},
		Entry{Key: "早餐套餐", Values: []string{"牛奶", "面包"}},
		Entry{Key: "123", Values: []string{"ignored"}},
		Entry{Key: "空", Values: nil},
		Entry{Key: "水果拼盘", Values: []string{"西瓜"}},
	)
	cl := NewCombinations(lex, normalize.Normalizer{})

	if got, want := cl.Keys(), []string{"水果拼盘", "早餐套餐"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if got, want := cl.Components("水果拼盘"), []string{"西瓜"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Components(水果拼盘) = %v, want %v", got, want)
	}
	if got := cl.Components("unknown"); got != nil {
		t.Errorf("Components(unknown) = %v, want nil", got)
	}
}

func TestStatsOf(t *testing.T) {
	res := LoadResult{
		Path:    "x.txt",
		Lexicon: New(Entry{Key: "a", Values: []string{"b", "c"}}, Entry{Key: "a", Values: []string{"d"}}),
		Issues:  []Issue{{Line: 3}},
	}
	got := StatsOf(res)
	want := Stats{Path: "x.txt", Entries: 2, Keys: 1, Values: 3, Skipped: 1}
	if got != want {
		t.Errorf("StatsOf() = %+v, want %+v", got, want)
	}
}
