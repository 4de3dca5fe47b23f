package engine

import (
	"testing"

	"github.com/stagepulse/stagepulse/internal/config"
)

func testMethodology() *config.Methodology {
	m := config.DefaultMethodology()
	return &m
}

func TestNormalizeFractions(t *testing.T) {
	m := testMethodology()
	cases := []struct {
		expr string
		want float64
	}{
		{"4/5", 80},
		{"3.5/5", 70},
		{"2/4", 50},
		{"7/10", 70},
		{"3 out of 5", 60},
		{"4 stars", 80},
		{"3.5 stars", 70},
		{"1 star", 20},
		{"6/5", 100}, // clamped
	}
	for _, c := range cases {
		got := NormalizeRating(m, c.expr, 100)
		if got.Score != c.want {
			t.Errorf("NormalizeRating(%q): got %.1f, want %.1f", c.expr, got.Score, c.want)
		}
		if got.Inferred {
			t.Errorf("NormalizeRating(%q): should be exact, got inferred", c.expr)
		}
	}
}

func TestNormalizeLetterGrades(t *testing.T) {
	m := testMethodology()

	for grade, want := range m.Grades {
		got := NormalizeRating(m, grade, 100)
		if got.Score != want {
			t.Errorf("grade %s: got %.1f, want %.1f", grade, got.Score, want)
		}
		if got.Inferred {
			t.Errorf("grade %s: should be exact", grade)
		}
	}

	// Case-insensitive.
	if got := NormalizeRating(m, "b+", 100); got.Score != 88 {
		t.Errorf("lowercase b+: got %.1f, want 88", got.Score)
	}
}

func TestNormalizeGradeMonotonic(t *testing.T) {
	m := testMethodology()
	order := []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "D-", "F"}
	for i := 1; i < len(order); i++ {
		prev := NormalizeRating(m, order[i-1], 100).Score
		cur := NormalizeRating(m, order[i], 100).Score
		if cur >= prev {
			t.Errorf("grade table not strictly decreasing: %s=%.1f >= %s=%.1f",
				order[i], cur, order[i-1], prev)
		}
	}
}

func TestNormalizeGradeRanges(t *testing.T) {
	m := testMethodology()
	cases := []struct {
		expr string
		want float64
	}{
		{"A-/B+", 89.5}, // (91+88)/2
		{"B to B-", 83}, // (85+81)/2
		{"a to a-", 93}, // (95+91)/2
	}
	for _, c := range cases {
		got := NormalizeRating(m, c.expr, 100)
		if got.Score != c.want {
			t.Errorf("range %q: got %.2f, want %.2f", c.expr, got.Score, c.want)
		}
	}
}

func TestNormalizePercentAndBare(t *testing.T) {
	m := testMethodology()
	cases := []struct {
		expr string
		max  float64
		want float64
	}{
		{"85%", 100, 85},
		{"100%", 100, 100},
		{"150%", 100, 100}, // clamped
		{"85", 100, 85},
		{"4", 5, 80}, // bare number read against nominal max
	}
	for _, c := range cases {
		got := NormalizeRating(m, c.expr, c.max)
		if got.Score != c.want {
			t.Errorf("NormalizeRating(%q, max=%.0f): got %.1f, want %.1f", c.expr, c.max, got.Score, c.want)
		}
		if got.Inferred {
			t.Errorf("NormalizeRating(%q): should be exact", c.expr)
		}
	}
}

func TestNormalizeSentimentKeywords(t *testing.T) {
	m := testMethodology()
	cases := []struct {
		expr string
		want float64
	}{
		{"an absolute rave", 90},
		{"broadly positive notices", 75},
		{"mixed reception", 55},
		{"negative", 35},
		{"a total pan", 20},
	}
	for _, c := range cases {
		got := NormalizeRating(m, c.expr, 100)
		if got.Score != c.want {
			t.Errorf("sentiment %q: got %.1f, want %.1f", c.expr, got.Score, c.want)
		}
		if !got.Inferred {
			t.Errorf("sentiment %q: must be flagged inferred", c.expr)
		}
	}
}

func TestNormalizeFallbackNeverFails(t *testing.T) {
	m := testMethodology()
	for _, expr := range []string{"", "???", "see full review", "G+", "0/0"} {
		got := NormalizeRating(m, expr, 100)
		if got.Score != 50 || !got.Inferred {
			t.Errorf("fallback %q: got (%.1f, inferred=%v), want (50, true)", expr, got.Score, got.Inferred)
		}
	}
}

func TestNormalizeFormatPriority(t *testing.T) {
	m := testMethodology()
	// A fraction inside otherwise-noisy text still wins over sentiment words.
	got := NormalizeRating(m, "a positive 4/5", 100)
	if got.Score != 80 || got.Inferred {
		t.Errorf("priority: got (%.1f, inferred=%v), want (80, false)", got.Score, got.Inferred)
	}
}
