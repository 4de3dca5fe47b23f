package engine

import (
	"strings"
	"testing"
)

func TestAudienceScoreEmpty(t *testing.T) {
	e := New(testMethodology())
	if got := e.AudienceScore(nil); got != nil {
		t.Fatalf("empty ratings: got %+v, want nil", got)
	}
}

func TestAudienceScoreRescale(t *testing.T) {
	e := New(testMethodology())
	got := e.AudienceScore([]AudienceRating{
		{Platform: "showscore", Average: 4.2, MaxScale: 5, Samples: 310},
	})
	if got == nil {
		t.Fatal("got nil")
	}
	if got.Platforms[0].Normalized != 84 {
		t.Errorf("normalized: got %d, want 84", got.Platforms[0].Normalized)
	}
	if got.Score != 84 {
		t.Errorf("single platform score: got %.1f, want 84", got.Score)
	}
	if got.TotalSamples != 310 {
		t.Errorf("samples: got %d, want 310", got.TotalSamples)
	}
}

func TestAudienceScoreWeightedMean(t *testing.T) {
	e := New(testMethodology())
	// showscore weight 1.0, unknown platform gets the 0.4 default.
	got := e.AudienceScore([]AudienceRating{
		{Platform: "showscore", Average: 90, MaxScale: 100, Samples: 100},
		{Platform: "obscure-app", Average: 55, MaxScale: 100, Samples: 20},
	})
	want := (90*1.0 + 55*0.4) / 1.4 // = 80.0
	if got.Score != round1(want) {
		t.Errorf("weighted score: got %.2f, want %.2f", got.Score, want)
	}
}

func TestAudienceScoreDivergence(t *testing.T) {
	e := New(testMethodology())
	got := e.AudienceScore([]AudienceRating{
		{Platform: "showscore", Average: 4, MaxScale: 5, Samples: 100},
		{Platform: "todaytix", Average: 2, MaxScale: 5, Samples: 50},
	})
	// Normalized 80 and 40; spread 40 > threshold 20.
	if got.Divergence == "" {
		t.Fatal("expected divergence warning")
	}
	if !strings.Contains(got.Divergence, "40") {
		t.Errorf("warning should name the spread: %q", got.Divergence)
	}
}

func TestAudienceScoreNoDivergenceSinglePlatform(t *testing.T) {
	e := New(testMethodology())
	got := e.AudienceScore([]AudienceRating{
		{Platform: "showscore", Average: 1, MaxScale: 5, Samples: 3},
	})
	if got.Divergence != "" {
		t.Errorf("single platform must never warn: %q", got.Divergence)
	}
}

func TestAudienceScoreNoDivergenceWithinThreshold(t *testing.T) {
	e := New(testMethodology())
	got := e.AudienceScore([]AudienceRating{
		{Platform: "showscore", Average: 80, MaxScale: 100, Samples: 10},
		{Platform: "todaytix", Average: 60, MaxScale: 100, Samples: 10},
	})
	// Spread exactly at the threshold does not trigger.
	if got.Divergence != "" {
		t.Errorf("spread == threshold must not warn: %q", got.Divergence)
	}
}

func TestAudienceScoreDivergenceIsAdvisory(t *testing.T) {
	e := New(testMethodology())
	quiet := e.AudienceScore([]AudienceRating{
		{Platform: "showscore", Average: 80, MaxScale: 100, Samples: 10},
		{Platform: "todaytix", Average: 61, MaxScale: 100, Samples: 10},
	})
	loud := e.AudienceScore([]AudienceRating{
		{Platform: "showscore", Average: 80, MaxScale: 100, Samples: 10},
		{Platform: "todaytix", Average: 59, MaxScale: 100, Samples: 10},
	})
	if loud.Divergence == "" {
		t.Fatal("expected warning on the wider spread")
	}
	// The warning may differ; the scoring formula must not.
	wantQuiet := round1((80*1.0 + 61*0.8) / 1.8)
	wantLoud := round1((80*1.0 + 59*0.8) / 1.8)
	if quiet.Score != wantQuiet || loud.Score != wantLoud {
		t.Errorf("warning changed scoring: got %.2f/%.2f, want %.2f/%.2f",
			quiet.Score, loud.Score, wantQuiet, wantLoud)
	}
}
