package engine

import "math"

// Composite blends whichever family scores are present into one overall
// score. Nil arguments mean the family has no data; their nominal weights are
// zeroed and the remaining weights renormalized to sum to 1. A family present
// with a score of exactly 0 is weighted normally — absence and a low score
// are never conflated. Returns nil when all three families are absent.
func (e *Engine) Composite(critic, audience, buzz *float64) *CompositeScore {
	blend := e.methodology.Blend

	families := make(map[Family]float64)
	nominal := make(map[Family]float64)
	if critic != nil {
		families[FamilyCritic] = *critic
		nominal[FamilyCritic] = blend.Critic
	}
	if audience != nil {
		families[FamilyAudience] = *audience
		nominal[FamilyAudience] = blend.Audience
	}
	if buzz != nil {
		families[FamilyBuzz] = *buzz
		nominal[FamilyBuzz] = blend.Buzz
	}
	if len(families) == 0 {
		return nil
	}

	total := 0.0
	for _, w := range nominal {
		total += w
	}
	if total <= 0 {
		// Degenerate blend config: fall back to an even split over the
		// present families.
		for f := range nominal {
			nominal[f] = 1
			total++
		}
	}

	weights := make(map[Family]float64, len(nominal))
	sum := 0.0
	for f, w := range nominal {
		renorm := w / total
		weights[f] = renorm
		sum += families[f] * renorm
	}

	return &CompositeScore{
		Score:    int(math.Round(sum)),
		Weights:  weights,
		Families: families,
	}
}
