package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/stagepulse/stagepulse/internal/config"
)

// Rating expressions arrive in every format critics ever invented: star
// fractions, letter grades, percentages, bare numbers, plain adjectives.
// Each format gets its own matcher returning a tagged optional result; the
// matchers run in priority order and the first match wins. Unmatched text
// degrades to a flagged default instead of an error.

type matchResult struct {
	score    float64
	inferred bool
	ok       bool
}

type matcher func(m *config.Methodology, expr string, max float64) matchResult

var (
	fractionRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:/|out of)\s*(\d+(?:\.\d+)?)`)
	starsRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*stars?\b`)
	gradeRe    = regexp.MustCompile(`^([A-F][+-]?)$`)
	gradeRngRe = regexp.MustCompile(`^([A-F][+-]?)\s*(?:/|TO)\s*([A-F][+-]?)$`)
	percentRe  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*%$`)
	numberRe   = regexp.MustCompile(`^(\d+(?:\.\d+)?)$`)
)

var matchers = []matcher{
	matchFraction,
	matchLetterGrade,
	matchPercent,
	matchSentiment,
}

// NormalizeRating converts one free-form rating expression to the 0-100
// scale. max is the nominal maximum for bare numeric values (100 when the
// caller has no better information). Never fails; unrecognized input returns
// the inferred default of 50.
func NormalizeRating(m *config.Methodology, expr string, max float64) Normalized {
	if max <= 0 {
		max = 100
	}
	expr = strings.TrimSpace(expr)

	for _, match := range matchers {
		if r := match(m, expr, max); r.ok {
			return Normalized{Score: clamp(r.score, 0, 100), Inferred: r.inferred}
		}
	}
	return Normalized{Score: 50, Inferred: true}
}

// matchFraction handles "4/5", "3.5 out of 5" and "4 stars" (denominator 5
// when omitted).
func matchFraction(_ *config.Methodology, expr string, _ float64) matchResult {
	if g := fractionRe.FindStringSubmatch(expr); g != nil {
		x, _ := strconv.ParseFloat(g[1], 64)
		y, _ := strconv.ParseFloat(g[2], 64)
		if y <= 0 {
			return matchResult{}
		}
		return matchResult{score: math.Round(x / y * 100), ok: true}
	}
	if g := starsRe.FindStringSubmatch(strings.ToLower(expr)); g != nil {
		x, _ := strconv.ParseFloat(g[1], 64)
		return matchResult{score: math.Round(x / 5 * 100), ok: true}
	}
	return matchResult{}
}

// matchLetterGrade handles single grades ("B+") and grade ranges
// ("A-/B+", "B to B-"), which resolve to the mean of the two endpoints.
func matchLetterGrade(m *config.Methodology, expr string, _ float64) matchResult {
	up := strings.ToUpper(expr)

	if g := gradeRe.FindStringSubmatch(up); g != nil {
		if v, ok := m.Grades[g[1]]; ok {
			return matchResult{score: v, ok: true}
		}
		return matchResult{}
	}

	if g := gradeRngRe.FindStringSubmatch(up); g != nil {
		lo, okLo := m.Grades[g[1]]
		hi, okHi := m.Grades[g[2]]
		if okLo && okHi {
			return matchResult{score: (lo + hi) / 2, ok: true}
		}
	}
	return matchResult{}
}

// matchPercent handles "85%" and bare numbers. Bare numbers are read against
// the caller's nominal maximum, so "4" with max 5 means 80.
func matchPercent(_ *config.Methodology, expr string, max float64) matchResult {
	if g := percentRe.FindStringSubmatch(expr); g != nil {
		v, _ := strconv.ParseFloat(g[1], 64)
		return matchResult{score: v, ok: true}
	}
	if g := numberRe.FindStringSubmatch(expr); g != nil {
		v, _ := strconv.ParseFloat(g[1], 64)
		return matchResult{score: math.Round(v / max * 100), ok: true}
	}
	return matchResult{}
}

// matchSentiment scans the configured keyword vocabulary in priority order
// and maps the first substring hit to its fixed value. Always inferred.
func matchSentiment(m *config.Methodology, expr string, _ float64) matchResult {
	low := strings.ToLower(expr)
	for _, s := range m.Sentiments {
		if strings.Contains(low, s.Keyword) {
			return matchResult{score: s.Score, inferred: true, ok: true}
		}
	}
	return matchResult{}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
