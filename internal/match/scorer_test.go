package match

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "苹果", "苹果", 1.0},
		{"disjoint", "苹果", "香蕉", 0.0},
		{"superset", "红苹果", "苹果", 2.0 / 3.0},
		{"repeated characters collapse", "aab", "ab", 1.0},
		{"repeated characters both sides", "abab", "bba", 1.0},
		{"partial latin", "abcd", "abef", 2.0 / 6.0},
		{"empty left", "", "苹果", 0.0},
		{"empty right", "苹果", "", 0.0},
		{"both empty", "", "", 0.0},
		{"distinct invalid bytes", "\xff", "\xfe", 0.0},
		{"invalid byte vs replacement char", "\xff", "\ufffd", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestScoreSymmetricAndBounded(t *testing.T) {
	values := []string{"", "a", "苹果", "红苹果", "青苹果汁", "abcabc", "香蕉", "x"}
	scorers := []Scorer{{}, {SeparatorToken: true}}

	for _, s := range scorers {
		for _, a := range values {
			for _, b := range values {
				ab, ba := s.Score(a, b), s.Score(b, a)
				if ab != ba {
					t.Errorf("%+v: Score(%q,%q)=%v but Score(%q,%q)=%v", s, a, b, ab, b, a, ba)
				}
				if ab < 0 || ab > 1 {
					t.Errorf("%+v: Score(%q,%q)=%v out of [0,1]", s, a, b, ab)
				}
			}
			if a != "" && s.Score(a, a) != 1.0 {
				t.Errorf("%+v: Score(%q,%q) = %v, want 1", s, a, a, s.Score(a, a))
			}
		}
	}
}

func TestScoreSeparatorToken(t *testing.T) {
	s := Scorer{SeparatorToken: true}

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		// {苹, ,果} vs {红,苹, ,果}
		{"shared separator", "苹果", "红苹果", 3.0 / 4.0},
		// {a} vs {a, ,b}
		{"single character has no separator", "a", "ab", 1.0 / 3.0},
		// {苹, ,果} vs {香, ,蕉}
		{"disjoint text still shares separator", "苹果", "香蕉", 1.0 / 5.0},
		{"empty", "", "苹果", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Score(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
