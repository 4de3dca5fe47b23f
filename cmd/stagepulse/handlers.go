package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/stagepulse/stagepulse/internal/config"
	"github.com/stagepulse/stagepulse/internal/scheduler"
	"github.com/stagepulse/stagepulse/internal/store"
	"github.com/stagepulse/stagepulse/pkg/engine"
	"github.com/stagepulse/stagepulse/pkg/ingest"
	"github.com/stagepulse/stagepulse/pkg/server"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildEngine(cfg *config.Config) *engine.Engine {
	return engine.New(&cfg.Methodology)
}

func buildSources(ctx context.Context, cfg *config.Config, db store.Store) ([]ingest.Source, error) {
	productions, err := db.ListProductions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list productions: %w", err)
	}
	match := ingest.TitleMatcher(productions)

	bySlug := make(map[string]string, len(productions))
	for _, p := range productions {
		bySlug[p.Slug] = p.ID
	}

	var sources []ingest.Source
	for _, f := range cfg.Sources.ReviewFeeds {
		sources = append(sources, ingest.NewReviewFeed(f.Outlet, f.Name, f.URL, match))
	}
	for _, p := range cfg.Sources.AudiencePages {
		id, ok := bySlug[p.Production]
		if !ok {
			fmt.Fprintf(os.Stderr, "audience page %s: unknown production %s, skipping\n", p.Platform, p.Production)
			continue
		}
		sources = append(sources, ingest.NewAudiencePage(p.Platform, id, p.URL))
	}

	return sources, nil
}

func runAdd(slug, title, venue, status, opened string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	openedAt := time.Now().UTC()
	if opened != "" {
		openedAt, err = time.Parse("2006-01-02", opened)
		if err != nil {
			return fmt.Errorf("parse opened date %q: %w", opened, err)
		}
	}

	switch engine.ProductionStatus(status) {
	case engine.StatusPreviews, engine.StatusRunning, engine.StatusClosed:
	default:
		return fmt.Errorf("unknown status %q (want previews, running or closed)", status)
	}

	p := &engine.Production{
		ID:       uuid.NewString(),
		Slug:     slug,
		Title:    title,
		Venue:    venue,
		Status:   engine.ProductionStatus(status),
		OpenedAt: openedAt,
	}
	if err := db.UpsertProduction(context.Background(), p); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "added %s (%s)\n", p.Title, p.ID)
	return nil
}

func runIngest(filterSources []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	allSources, err := buildSources(ctx, cfg, db)
	if err != nil {
		return err
	}

	sources := allSources
	if len(filterSources) > 0 {
		wanted := make(map[string]bool)
		for _, s := range filterSources {
			wanted[strings.ToLower(strings.TrimSpace(s))] = true
		}
		sources = nil
		for _, s := range allSources {
			if wanted[strings.ToLower(s.Name())] {
				sources = append(sources, s)
			}
		}
		if len(sources) == 0 {
			return fmt.Errorf("no matching sources for: %s", strings.Join(filterSources, ", "))
		}
	}

	total := 0
	for _, src := range sources {
		fmt.Fprintf(os.Stderr, "collecting from %s...\n", src.Name())
		records, err := src.Collect(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  error: %v\n", err)
			continue
		}

		if err := db.UpsertReviews(ctx, records.Reviews); err != nil {
			fmt.Fprintf(os.Stderr, "  store error: %v\n", err)
			continue
		}
		if err := db.UpsertAudienceRatings(ctx, records.Audience); err != nil {
			fmt.Fprintf(os.Stderr, "  store error: %v\n", err)
			continue
		}

		n := len(records.Reviews) + len(records.Audience)
		fmt.Fprintf(os.Stderr, "  collected %d records\n", n)
		total += n
	}

	fmt.Fprintf(os.Stderr, "\ntotal: %d records from %d sources\n", total, len(sources))
	return nil
}

func runScore(productionSlug string, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	eng := buildEngine(cfg)

	var productions []engine.Production
	if productionSlug != "" {
		p, err := db.GetProductionBySlug(ctx, productionSlug)
		if err != nil {
			return err
		}
		productions = []engine.Production{*p}
	} else {
		productions, err = db.ListProductions(ctx)
		if err != nil {
			return err
		}
	}

	if len(productions) == 0 {
		fmt.Println("no productions in catalog (add one first: stagepulse add)")
		return nil
	}

	// One asOf for the whole batch keeps the pass deterministic.
	asOf := time.Now().UTC()
	var cards []*engine.Scorecard

	for _, p := range productions {
		reviews, err := db.ListReviews(ctx, p.ID)
		if err != nil {
			return err
		}
		audience, err := db.ListAudienceRatings(ctx, p.ID)
		if err != nil {
			return err
		}
		threads, err := db.ListBuzzThreads(ctx, p.ID)
		if err != nil {
			return err
		}

		card := eng.Score(engine.Inputs{
			Production: p,
			Reviews:    reviews,
			Audience:   audience,
			Threads:    threads,
		}, asOf)

		if err := db.SaveScorecard(ctx, card); err != nil {
			return err
		}
		cards = append(cards, card)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cards)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tCONFIDENCE\tCRITIC\tAUDIENCE\tBUZZ\tPRODUCTION")
	for i, card := range cards {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			compositeCell(card),
			card.Confidence.Level,
			criticCell(card),
			audienceCell(card),
			buzzCell(card),
			productions[i].Slug)
	}
	return w.Flush()
}

func compositeCell(card *engine.Scorecard) string {
	if card.Composite == nil {
		return "-"
	}
	return fmt.Sprintf("%d", card.Composite.Score)
}

func criticCell(card *engine.Scorecard) string {
	if card.Critic == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f (%d rev)", card.Critic.TierWeightedAverage, card.Critic.ReviewCount)
}

func audienceCell(card *engine.Scorecard) string {
	if card.Audience == nil {
		return "-"
	}
	cell := fmt.Sprintf("%.1f", card.Audience.Score)
	if card.Audience.Divergence != "" {
		cell += " !"
	}
	return cell
}

func buzzCell(card *engine.Scorecard) string {
	if card.Buzz == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", card.Buzz.Score)
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	sources, err := buildSources(context.Background(), cfg, db)
	if err != nil {
		return err
	}

	srv := server.New(db, buildEngine(cfg), sources, port)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sources, err := buildSources(ctx, cfg, db)
	if err != nil {
		return err
	}

	eng := buildEngine(cfg)
	sched := scheduler.New(db, sources, eng,
		cfg.Schedule.ParseCollectInterval(),
		cfg.Schedule.ParseScoreInterval(),
	)

	// Start scheduler in background.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "scheduler error: %v\n", err)
		}
	}()

	srv := server.New(db, eng, sources, port)
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nshutting down...")
	}()

	return srv.ListenAndServe()
}
