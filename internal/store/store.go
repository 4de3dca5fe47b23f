package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/stagepulse/stagepulse/pkg/engine"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ScorecardRow is a persisted scorecard snapshot plus its summary columns.
type ScorecardRow struct {
	ProductionID string   `db:"production_id"`
	Composite    *float64 `db:"composite"`
	Confidence   string   `db:"confidence"`
	Methodology  string   `db:"methodology"`
}

// Store is the persistence interface.
type Store interface {
	UpsertProduction(ctx context.Context, p *engine.Production) error
	GetProductionBySlug(ctx context.Context, slug string) (*engine.Production, error)
	ListProductions(ctx context.Context) ([]engine.Production, error)

	UpsertReviews(ctx context.Context, reviews []engine.Review) error
	ListReviews(ctx context.Context, productionID string) ([]engine.Review, error)

	UpsertAudienceRatings(ctx context.Context, ratings []engine.AudienceRating) error
	ListAudienceRatings(ctx context.Context, productionID string) ([]engine.AudienceRating, error)

	UpsertBuzzThreads(ctx context.Context, threads []engine.BuzzThread) error
	ListBuzzThreads(ctx context.Context, productionID string) ([]engine.BuzzThread, error)

	SaveScorecard(ctx context.Context, card *engine.Scorecard) error
	GetScorecard(ctx context.Context, productionID string) (*engine.Scorecard, error)
	ListScorecardRows(ctx context.Context) ([]ScorecardRow, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertProduction(ctx context.Context, p *engine.Production) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO productions (id, slug, title, venue, status, opened_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug = excluded.slug,
			title = excluded.title,
			venue = excluded.venue,
			status = excluded.status,
			opened_at = excluded.opened_at
	`, p.ID, p.Slug, p.Title, p.Venue, p.Status, p.OpenedAt)
	if err != nil {
		return fmt.Errorf("upsert production %s: %w", p.ID, err)
	}
	return nil
}

func (s *SQLiteStore) GetProductionBySlug(ctx context.Context, slug string) (*engine.Production, error) {
	query, args, err := sq.Select("id", "slug", "title", "venue", "status", "opened_at").
		From("productions").
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build production query: %w", err)
	}

	var p engine.Production
	if err := s.db.GetContext(ctx, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("production %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("get production %s: %w", slug, err)
	}
	return &p, nil
}

func (s *SQLiteStore) ListProductions(ctx context.Context) ([]engine.Production, error) {
	query, args, err := sq.Select("id", "slug", "title", "venue", "status", "opened_at").
		From("productions").
		OrderBy("opened_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build productions query: %w", err)
	}

	var out []engine.Production
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list productions: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) UpsertReviews(ctx context.Context, reviews []engine.Review) error {
	for i := range reviews {
		r := &reviews[i]
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO reviews (production_id, source, critic, score, rating, designation, excerpt, published_at, collected_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(production_id, source, critic) DO UPDATE SET
				score = excluded.score,
				rating = excluded.rating,
				designation = excluded.designation,
				excerpt = excluded.excerpt,
				collected_at = excluded.collected_at
		`, r.ProductionID, r.Source, r.Critic, r.Score, r.Rating, r.Designation,
			r.Excerpt, r.PublishedAt, r.CollectedAt)
		if err != nil {
			return fmt.Errorf("upsert review %s/%s: %w", r.ProductionID, r.Source, err)
		}
	}
	return nil
}

func (s *SQLiteStore) ListReviews(ctx context.Context, productionID string) ([]engine.Review, error) {
	query, args, err := sq.Select("production_id", "source", "critic", "score", "rating",
		"designation", "excerpt", "published_at", "collected_at").
		From("reviews").
		Where(sq.Eq{"production_id": productionID}).
		OrderBy("published_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reviews query: %w", err)
	}

	var out []engine.Review
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list reviews %s: %w", productionID, err)
	}
	return out, nil
}

func (s *SQLiteStore) UpsertAudienceRatings(ctx context.Context, ratings []engine.AudienceRating) error {
	for i := range ratings {
		r := &ratings[i]
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO audience_ratings (production_id, platform, average, max_scale, samples, collected_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(production_id, platform) DO UPDATE SET
				average = excluded.average,
				max_scale = excluded.max_scale,
				samples = excluded.samples,
				collected_at = excluded.collected_at
		`, r.ProductionID, r.Platform, r.Average, r.MaxScale, r.Samples, r.CollectedAt)
		if err != nil {
			return fmt.Errorf("upsert audience rating %s/%s: %w", r.ProductionID, r.Platform, err)
		}
	}
	return nil
}

func (s *SQLiteStore) ListAudienceRatings(ctx context.Context, productionID string) ([]engine.AudienceRating, error) {
	query, args, err := sq.Select("production_id", "platform", "average", "max_scale", "samples", "collected_at").
		From("audience_ratings").
		Where(sq.Eq{"production_id": productionID}).
		OrderBy("platform").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audience query: %w", err)
	}

	var out []engine.AudienceRating
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list audience ratings %s: %w", productionID, err)
	}
	return out, nil
}

func (s *SQLiteStore) UpsertBuzzThreads(ctx context.Context, threads []engine.BuzzThread) error {
	for i := range threads {
		t := &threads[i]
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO buzz_threads (production_id, platform, external_id, title, upvotes, comments, sentiment, posted_at, collected_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(platform, external_id) DO UPDATE SET
				upvotes = excluded.upvotes,
				comments = excluded.comments,
				sentiment = excluded.sentiment,
				collected_at = excluded.collected_at
		`, t.ProductionID, t.Platform, t.ExternalID, t.Title, t.Upvotes, t.Comments,
			t.Sentiment, t.PostedAt, t.CollectedAt)
		if err != nil {
			return fmt.Errorf("upsert buzz thread %s/%s: %w", t.Platform, t.ExternalID, err)
		}
	}
	return nil
}

func (s *SQLiteStore) ListBuzzThreads(ctx context.Context, productionID string) ([]engine.BuzzThread, error) {
	query, args, err := sq.Select("production_id", "platform", "external_id", "title",
		"upvotes", "comments", "sentiment", "posted_at", "collected_at").
		From("buzz_threads").
		Where(sq.Eq{"production_id": productionID}).
		OrderBy("posted_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build buzz query: %w", err)
	}

	var out []engine.BuzzThread
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list buzz threads %s: %w", productionID, err)
	}
	return out, nil
}

func (s *SQLiteStore) SaveScorecard(ctx context.Context, card *engine.Scorecard) error {
	payload, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("marshal scorecard %s: %w", card.ProductionID, err)
	}

	var composite *float64
	if card.Composite != nil {
		v := float64(card.Composite.Score)
		composite = &v
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scorecards (production_id, payload, composite, confidence, methodology, computed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(production_id) DO UPDATE SET
			payload = excluded.payload,
			composite = excluded.composite,
			confidence = excluded.confidence,
			methodology = excluded.methodology,
			computed_at = excluded.computed_at
	`, card.ProductionID, string(payload), composite, card.Confidence.Level,
		card.Methodology, card.ComputedAt)
	if err != nil {
		return fmt.Errorf("save scorecard %s: %w", card.ProductionID, err)
	}
	return nil
}

func (s *SQLiteStore) GetScorecard(ctx context.Context, productionID string) (*engine.Scorecard, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload,
		"SELECT payload FROM scorecards WHERE production_id = ?", productionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("scorecard %s: %w", productionID, ErrNotFound)
		}
		return nil, fmt.Errorf("get scorecard %s: %w", productionID, err)
	}

	var card engine.Scorecard
	if err := json.Unmarshal([]byte(payload), &card); err != nil {
		return nil, fmt.Errorf("decode scorecard %s: %w", productionID, err)
	}
	return &card, nil
}

func (s *SQLiteStore) ListScorecardRows(ctx context.Context) ([]ScorecardRow, error) {
	query, args, err := sq.Select("production_id", "composite", "confidence", "methodology").
		From("scorecards").
		OrderBy("composite DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build scorecards query: %w", err)
	}

	var out []ScorecardRow
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list scorecards: %w", err)
	}
	return out, nil
}
