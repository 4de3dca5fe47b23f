// Package engine converts heterogeneous rating signals about live-theater
// productions into normalized, comparable, explainable 0-100 scores.
//
// Every aggregator is a pure function of its inputs and one methodology
// snapshot: no clock reads, no I/O, no hidden state. Time-dependent checks
// (buzz staleness, lifecycle confidence) read the caller-supplied asOf
// timestamp, so identical inputs always produce identical output.
package engine

import (
	"time"

	"github.com/stagepulse/stagepulse/internal/config"
)

// Engine scores productions under one methodology snapshot.
type Engine struct {
	methodology *config.Methodology
}

// New creates an engine bound to a methodology snapshot.
func New(m *config.Methodology) *Engine {
	return &Engine{methodology: m}
}

// MethodologyVersion reports which rule set this engine scores with.
func (e *Engine) MethodologyVersion() string {
	return e.methodology.Version
}

// Score computes the full scorecard for one production: the three family
// aggregates, the composite blend over whichever families have data, and the
// confidence verdict. asOf anchors all recency checks; callers pass one
// timestamp per batch.
func (e *Engine) Score(in Inputs, asOf time.Time) *Scorecard {
	reviews := filterReviews(in.Reviews, in.Production.ID)
	audience := filterAudience(in.Audience, in.Production.ID)
	threads := filterThreads(in.Threads, in.Production.ID)

	critic := e.CriticScore(reviews)
	audienceScore := e.AudienceScore(audience)
	buzz := e.BuzzScore(threads, asOf)

	var criticVal, audienceVal, buzzVal *float64
	if critic != nil {
		criticVal = &critic.TierWeightedAverage
	}
	if audienceScore != nil {
		audienceVal = &audienceScore.Score
	}
	if buzz != nil {
		buzzVal = &buzz.Score
	}

	return &Scorecard{
		ProductionID: in.Production.ID,
		Critic:       critic,
		Audience:     audienceScore,
		Buzz:         buzz,
		Composite:    e.Composite(criticVal, audienceVal, buzzVal),
		Confidence:   e.Confidence(in.Production, critic, audienceScore, buzz),
		Methodology:  e.methodology.Version,
		ComputedAt:   asOf,
	}
}

// The engine only reads production identity to scope family inputs; records
// with an empty production id are taken as pre-filtered by the caller.

func filterReviews(in []Review, productionID string) []Review {
	var out []Review
	for _, r := range in {
		if r.ProductionID == "" || r.ProductionID == productionID {
			out = append(out, r)
		}
	}
	return out
}

func filterAudience(in []AudienceRating, productionID string) []AudienceRating {
	var out []AudienceRating
	for _, r := range in {
		if r.ProductionID == "" || r.ProductionID == productionID {
			out = append(out, r)
		}
	}
	return out
}

func filterThreads(in []BuzzThread, productionID string) []BuzzThread {
	var out []BuzzThread
	for _, t := range in {
		if t.ProductionID == "" || t.ProductionID == productionID {
			out = append(out, t)
		}
	}
	return out
}
