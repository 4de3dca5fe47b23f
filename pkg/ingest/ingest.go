// Package ingest collects raw rating signals into the store: outlet review
// feeds and audience-platform rating pages. Collectors never parse or judge
// rating text; the engine owns normalization.
package ingest

import (
	"context"

	"github.com/stagepulse/stagepulse/pkg/engine"
)

// Records is everything one collection pass produced.
type Records struct {
	Reviews  []engine.Review
	Audience []engine.AudienceRating
}

// Source is the interface every collector must implement.
type Source interface {
	Name() string
	Collect(ctx context.Context) (Records, error)
}

// ProductionMatcher maps free text (a feed entry title, usually) to a
// production id, or "" when no production matches. Built by the caller from
// the current catalog.
type ProductionMatcher func(text string) string
