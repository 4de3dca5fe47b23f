package engine

import (
	"fmt"
	"math"
)

// AudienceScore aggregates per-platform audience ratings for one production.
// Returns nil for an empty input, meaning "no audience data".
//
// Each platform's average is rescaled to 0-100 against its own maximum, then
// blended by platform trust weight. When two or more platforms disagree by
// more than the configured threshold a divergence warning names the spread;
// the warning is advisory and never moves the score.
func (e *Engine) AudienceScore(ratings []AudienceRating) *AudienceScore {
	if len(ratings) == 0 {
		return nil
	}

	platforms := make([]AudiencePlatformScore, 0, len(ratings))
	weightedSum := 0.0
	weightTotal := 0.0
	samples := 0

	var (
		maxNorm, minNorm         int
		maxPlatform, minPlatform string
	)

	for i, r := range ratings {
		maxScale := r.MaxScale
		if maxScale <= 0 {
			maxScale = 100
		}
		norm := int(math.Round(clamp(r.Average/maxScale*100, 0, 100)))
		weight := e.platformWeight(r.Platform)

		weightedSum += float64(norm) * weight
		weightTotal += weight
		samples += r.Samples

		if i == 0 || norm > maxNorm {
			maxNorm, maxPlatform = norm, r.Platform
		}
		if i == 0 || norm < minNorm {
			minNorm, minPlatform = norm, r.Platform
		}

		platforms = append(platforms, AudiencePlatformScore{
			Platform:   r.Platform,
			Normalized: norm,
			Weight:     weight,
			Samples:    r.Samples,
		})
	}

	score := 0.0
	if weightTotal > 0 {
		score = weightedSum / weightTotal
	}

	divergence := ""
	if len(ratings) >= 2 {
		spread := float64(maxNorm - minNorm)
		if spread > e.methodology.DivergenceThreshold {
			divergence = fmt.Sprintf("platforms disagree by %d points (%s at %d vs %s at %d)",
				maxNorm-minNorm, maxPlatform, maxNorm, minPlatform, minNorm)
		}
	}

	return &AudienceScore{
		Score:        round1(score),
		Platforms:    platforms,
		TotalSamples: samples,
		Divergence:   divergence,
	}
}
