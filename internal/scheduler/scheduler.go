package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/stagepulse/stagepulse/internal/store"
	"github.com/stagepulse/stagepulse/pkg/engine"
	"github.com/stagepulse/stagepulse/pkg/ingest"
)

// Scheduler runs periodic collection and rescoring.
type Scheduler struct {
	store      store.Store
	sources    []ingest.Source
	engine     *engine.Engine
	collectInt time.Duration
	scoreInt   time.Duration
}

// New creates a new scheduler.
func New(s store.Store, sources []ingest.Source, e *engine.Engine, collectInt, scoreInt time.Duration) *Scheduler {
	if collectInt == 0 {
		collectInt = time.Hour
	}
	if scoreInt == 0 {
		scoreInt = 2 * time.Hour
	}
	return &Scheduler{
		store:      s,
		sources:    sources,
		engine:     e,
		collectInt: collectInt,
		scoreInt:   scoreInt,
	}
}

// Run starts the scheduler loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	collectTicker := time.NewTicker(s.collectInt)
	scoreTicker := time.NewTicker(s.scoreInt)
	defer collectTicker.Stop()
	defer scoreTicker.Stop()

	// Run immediately on start.
	fmt.Fprintln(os.Stderr, "scheduler: initial collection...")
	s.collectAll(ctx)
	fmt.Fprintln(os.Stderr, "scheduler: initial scoring...")
	s.scoreAll(ctx)

	fmt.Fprintf(os.Stderr, "scheduler: running (collect every %s, score every %s)\n",
		s.collectInt, s.scoreInt)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "scheduler: stopped")
			return ctx.Err()
		case <-collectTicker.C:
			fmt.Fprintln(os.Stderr, "scheduler: collecting...")
			s.collectAll(ctx)
		case <-scoreTicker.C:
			fmt.Fprintln(os.Stderr, "scheduler: scoring...")
			s.scoreAll(ctx)
		}
	}
}

func (s *Scheduler) collectAll(ctx context.Context) {
	total := 0
	for _, src := range s.sources {
		records, err := src.Collect(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s error: %v\n", src.Name(), err)
			continue
		}

		if err := s.store.UpsertReviews(ctx, records.Reviews); err != nil {
			fmt.Fprintf(os.Stderr, "  %s store error: %v\n", src.Name(), err)
			continue
		}
		if err := s.store.UpsertAudienceRatings(ctx, records.Audience); err != nil {
			fmt.Fprintf(os.Stderr, "  %s store error: %v\n", src.Name(), err)
			continue
		}

		n := len(records.Reviews) + len(records.Audience)
		fmt.Fprintf(os.Stderr, "  %s: %d records\n", src.Name(), n)
		total += n
	}
	fmt.Fprintf(os.Stderr, "  total: %d records\n", total)
}

// scoreAll recomputes every production's scorecard with one shared asOf so
// the whole batch scores against the same instant.
func (s *Scheduler) scoreAll(ctx context.Context) {
	productions, err := s.store.ListProductions(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  list productions error: %v\n", err)
		return
	}

	asOf := time.Now().UTC()
	for _, p := range productions {
		reviews, err := s.store.ListReviews(ctx, p.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s reviews error: %v\n", p.Slug, err)
			continue
		}
		audience, err := s.store.ListAudienceRatings(ctx, p.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s audience error: %v\n", p.Slug, err)
			continue
		}
		threads, err := s.store.ListBuzzThreads(ctx, p.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s buzz error: %v\n", p.Slug, err)
			continue
		}

		card := s.engine.Score(engine.Inputs{
			Production: p,
			Reviews:    reviews,
			Audience:   audience,
			Threads:    threads,
		}, asOf)

		if err := s.store.SaveScorecard(ctx, card); err != nil {
			fmt.Fprintf(os.Stderr, "  %s save error: %v\n", p.Slug, err)
			continue
		}

		if card.Composite != nil {
			fmt.Fprintf(os.Stderr, "  %s: %d (%s confidence)\n",
				p.Slug, card.Composite.Score, card.Confidence.Level)
		} else {
			fmt.Fprintf(os.Stderr, "  %s: no data\n", p.Slug)
		}
	}
}
