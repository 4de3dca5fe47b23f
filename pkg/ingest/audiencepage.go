package ingest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/stagepulse/stagepulse/pkg/engine"
)

// AudiencePage scrapes one audience platform's production page for its
// aggregate rating. Pages are expected to expose schema.org aggregateRating
// markup (ratingValue / bestRating / ratingCount), which the major ticketing
// and review platforms all emit for SEO.
type AudiencePage struct {
	client       *http.Client
	platform     string
	productionID string
	url          string
}

// NewAudiencePage creates a scraper for one platform page.
func NewAudiencePage(platform, productionID, url string) *AudiencePage {
	return &AudiencePage{
		client:       &http.Client{Timeout: 30 * time.Second},
		platform:     platform,
		productionID: productionID,
		url:          url,
	}
}

func (a *AudiencePage) Name() string {
	return fmt.Sprintf("audience:%s/%s", a.platform, a.productionID)
}

func (a *AudiencePage) Collect(ctx context.Context) (Records, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return Records{}, fmt.Errorf("create page request %s: %w", a.Name(), err)
	}
	req.Header.Set("User-Agent", "stagepulse/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return Records{}, fmt.Errorf("fetch page %s: %w", a.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Records{}, fmt.Errorf("page %s status %d", a.Name(), resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Records{}, fmt.Errorf("parse page %s: %w", a.Name(), err)
	}

	rating, err := ParseAggregateRating(doc)
	if err != nil {
		return Records{}, fmt.Errorf("page %s: %w", a.Name(), err)
	}

	rating.ProductionID = a.productionID
	rating.Platform = a.platform
	rating.CollectedAt = time.Now().UTC()
	return Records{Audience: []engine.AudienceRating{rating}}, nil
}

// ParseAggregateRating extracts schema.org aggregateRating values from a
// parsed document. bestRating defaults to 5 when the page omits it, which is
// the de facto scale on review platforms.
func ParseAggregateRating(doc *goquery.Document) (engine.AudienceRating, error) {
	value, ok := itemprop(doc, "ratingValue")
	if !ok {
		return engine.AudienceRating{}, fmt.Errorf("no ratingValue markup")
	}
	average, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return engine.AudienceRating{}, fmt.Errorf("bad ratingValue %q: %w", value, err)
	}

	maxScale := 5.0
	if best, ok := itemprop(doc, "bestRating"); ok {
		if v, err := strconv.ParseFloat(best, 64); err == nil && v > 0 {
			maxScale = v
		}
	}

	samples := 0
	if count, ok := itemprop(doc, "ratingCount"); ok {
		if v, err := strconv.Atoi(strings.ReplaceAll(count, ",", "")); err == nil {
			samples = v
		}
	}

	return engine.AudienceRating{
		Average:  average,
		MaxScale: maxScale,
		Samples:  samples,
	}, nil
}

// itemprop reads a schema.org property from either a content attribute
// (meta tags) or element text.
func itemprop(doc *goquery.Document, name string) (string, bool) {
	sel := doc.Find(fmt.Sprintf(`[itemprop=%q]`, name)).First()
	if sel.Length() == 0 {
		return "", false
	}
	if content, ok := sel.Attr("content"); ok && strings.TrimSpace(content) != "" {
		return strings.TrimSpace(content), true
	}
	text := strings.TrimSpace(sel.Text())
	return text, text != ""
}
