package ingest

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/stagepulse/stagepulse/pkg/engine"
)

// Outlets publish plain-language ratings in the running text; when a feed
// carries an explicit "Rating: ..." line we lift it verbatim for the engine's
// normalizer. Everything else stays untouched.
var ratingLineRe = regexp.MustCompile(`(?i)rating:?\s*([^.<\n]+)`)

// ReviewFeed collects critic reviews from one outlet's RSS/Atom feed.
type ReviewFeed struct {
	client *http.Client
	parser *gofeed.Parser
	outlet string
	name   string
	url    string
	match  ProductionMatcher
}

// NewReviewFeed creates a review feed collector for one outlet.
func NewReviewFeed(outlet, name, url string, match ProductionMatcher) *ReviewFeed {
	return &ReviewFeed{
		client: &http.Client{Timeout: 30 * time.Second},
		parser: gofeed.NewParser(),
		outlet: outlet,
		name:   name,
		url:    url,
		match:  match,
	}
}

func (f *ReviewFeed) Name() string { return "reviews:" + f.outlet }

func (f *ReviewFeed) Collect(ctx context.Context) (Records, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return Records{}, fmt.Errorf("create feed request %s: %w", f.name, err)
	}
	req.Header.Set("User-Agent", "stagepulse/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return Records{}, fmt.Errorf("fetch feed %s: %w", f.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Records{}, fmt.Errorf("feed %s status %d", f.name, resp.StatusCode)
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return Records{}, fmt.Errorf("parse feed %s: %w", f.name, err)
	}

	now := time.Now().UTC()
	var reviews []engine.Review

	for _, entry := range parsed.Items {
		productionID := f.match(entry.Title)
		if productionID == "" {
			continue
		}

		published := now
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.UTC()
		} else if entry.UpdatedParsed != nil {
			published = entry.UpdatedParsed.UTC()
		}

		critic := ""
		if entry.Author != nil {
			critic = entry.Author.Name
		}

		reviews = append(reviews, engine.Review{
			ProductionID: productionID,
			Source:       f.outlet,
			Critic:       critic,
			Rating:       ExtractRating(entry.Description),
			Designation:  extractDesignation(entry.Categories),
			Excerpt:      firstSentence(entry.Description),
			PublishedAt:  published,
			CollectedAt:  now,
		})
	}

	return Records{Reviews: reviews}, nil
}

// ExtractRating pulls an explicit "Rating: ..." line out of review body text.
// Returns "" when none is present; a blank rating later resolves to the
// engine's flagged default.
func ExtractRating(text string) string {
	if g := ratingLineRe.FindStringSubmatch(text); g != nil {
		return strings.TrimSpace(g[1])
	}
	return ""
}

// extractDesignation looks for a known designation tag among feed categories.
func extractDesignation(categories []string) string {
	for _, c := range categories {
		tag := strings.ToLower(strings.TrimSpace(c))
		tag = strings.ReplaceAll(tag, " ", "-")
		tag = strings.ReplaceAll(tag, "'", "")
		switch tag {
		case "critics-pick", "pulitzer-winner":
			return tag
		}
	}
	return ""
}

func firstSentence(text string) string {
	text = stripTags(text)
	if i := strings.IndexAny(text, ".!?"); i > 0 && i < len(text)-1 {
		return strings.TrimSpace(text[:i+1])
	}
	return truncate(strings.TrimSpace(text), 200)
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

func stripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// TitleMatcher builds a ProductionMatcher that maps any text mentioning a
// production's title (case-insensitive) to its id. Longer titles are checked
// first so "Hamlet at Elsinore" wins over "Hamlet".
func TitleMatcher(productions []engine.Production) ProductionMatcher {
	sorted := make([]engine.Production, len(productions))
	copy(sorted, productions)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && len(sorted[j].Title) > len(sorted[j-1].Title); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	return func(text string) string {
		low := strings.ToLower(text)
		for _, p := range sorted {
			if p.Title != "" && strings.Contains(low, strings.ToLower(p.Title)) {
				return p.ID
			}
		}
		return ""
	}
}
