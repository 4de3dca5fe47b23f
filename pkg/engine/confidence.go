package engine

import "fmt"

// Confidence is a read-only judgment over already-computed family results
// plus the production's lifecycle stage. It never reaches into aggregator
// internals and never changes a score.
//
// An ordered rule set subtracts points from the configured base (thin critic
// sample, no tier-1 coverage, audience divergence, still in previews); the
// total buckets into high/medium/low via fixed cutoffs. There is always at
// least one reason string, including a canned affirmative for the clean
// high-confidence case.
func (e *Engine) Confidence(p Production, critic *CriticScore, audience *AudienceScore, buzz *BuzzScore) Confidence {
	rules := e.methodology.Confidence

	if critic == nil && audience == nil && buzz == nil {
		return Confidence{
			Level:   ConfidenceLow,
			Reasons: []string{"no rating data available from any source"},
		}
	}

	points := rules.BasePoints
	var reasons []string

	switch {
	case critic == nil:
		points -= 2
		reasons = append(reasons, "no critic reviews yet")
	case critic.ReviewCount < rules.MinReviews:
		points -= 2
		reasons = append(reasons, fmt.Sprintf("only %d critic reviews (want at least %d)",
			critic.ReviewCount, rules.MinReviews))
	case critic.ReviewCount < rules.StrongReviews:
		points--
		reasons = append(reasons, fmt.Sprintf("%d critic reviews is a modest sample", critic.ReviewCount))
	}

	if critic != nil && critic.Tier1Count == 0 {
		points -= 2
		reasons = append(reasons, "no tier-1 outlets have weighed in")
	}

	if audience != nil && audience.Divergence != "" {
		points -= rules.DivergencePenalty
		reasons = append(reasons, "audience platforms disagree: "+audience.Divergence)
	}

	if p.Status == StatusPreviews {
		points -= rules.PreviewsPenalty
		reasons = append(reasons, "production is still in previews")
	}

	level := ConfidenceLow
	switch {
	case points >= rules.HighCutoff:
		level = ConfidenceHigh
	case points >= rules.MediumCutoff:
		level = ConfidenceMedium
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "broad coverage with consistent signals across sources")
	}

	return Confidence{Level: level, Reasons: reasons}
}
