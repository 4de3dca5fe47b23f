package engine

import (
	"math"
	"sort"
)

// Score bands for the qualitative critic label. Monotonic, non-overlapping,
// keyed off the simple (unweighted) average:
//
//	>= 85 rave, >= 70 positive, >= 55 mixed, >= 40 negative, < 40 pan
var criticLabelBands = []struct {
	min   float64
	label string
}{
	{85, "rave"},
	{70, "positive"},
	{55, "mixed"},
	{40, "negative"},
	{0, "pan"},
}

// CriticScore aggregates all reviews for one production. Returns nil for an
// empty review list; nil is the caller's signal of "no critic data" and must
// never be read as a zero score.
//
// Per review, the final score resolves in priority order: explicit
// pre-assigned score, else normalized rating text, else the flagged default.
// A recognized designation tag adds its configured bonus, capped at 100.
// The tier-weighted average divides by total tier weight, not by count, so a
// handful of tier-1 outlets can outweigh many tier-3 ones.
func (e *Engine) CriticScore(reviews []Review) *CriticScore {
	if len(reviews) == 0 {
		return nil
	}

	m := e.methodology
	computed := make([]ComputedReview, 0, len(reviews))
	sum := 0.0
	weightedSum := 0.0
	weightTotal := 0.0
	tier1 := 0

	for _, r := range reviews {
		var score float64
		var inferred bool
		switch {
		case r.Score != nil:
			score = clamp(*r.Score, 0, 100)
		case r.Rating != "":
			n := NormalizeRating(m, r.Rating, 100)
			score, inferred = n.Score, n.Inferred
		default:
			score, inferred = 50, true
		}

		if bonus, ok := m.Designations[r.Designation]; ok && r.Designation != "" {
			score = math.Min(100, score+bonus)
		}

		tier, weight := e.ResolveOutlet(r.Source)
		if tier == 1 {
			tier1++
		}

		sum += score
		weightedSum += score * weight
		weightTotal += weight

		computed = append(computed, ComputedReview{
			Source:      r.Source,
			Critic:      r.Critic,
			Tier:        tier,
			TierWeight:  weight,
			Score:       score,
			Inferred:    inferred,
			Designation: r.Designation,
			Excerpt:     r.Excerpt,
		})
	}

	// Descending score with a stable secondary key keeps top-quote
	// extraction deterministic under input reordering.
	sort.SliceStable(computed, func(i, j int) bool {
		if computed[i].Score != computed[j].Score {
			return computed[i].Score > computed[j].Score
		}
		if computed[i].Tier != computed[j].Tier {
			return computed[i].Tier < computed[j].Tier
		}
		return computed[i].Source < computed[j].Source
	})

	simple := sum / float64(len(reviews))
	weighted := simple
	if weightTotal > 0 {
		weighted = weightedSum / weightTotal
	}

	return &CriticScore{
		SimpleAverage:       round1(simple),
		TierWeightedAverage: round1(weighted),
		ReviewCount:         len(reviews),
		Tier1Count:          tier1,
		Label:               criticLabel(simple),
		Reviews:             computed,
	}
}

func criticLabel(simpleAverage float64) string {
	for _, band := range criticLabelBands {
		if simpleAverage >= band.min {
			return band.label
		}
	}
	return criticLabelBands[len(criticLabelBands)-1].label
}

// round1 rounds to one decimal place, which is as much precision as a blended
// review average can honestly claim.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
