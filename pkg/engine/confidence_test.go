package engine

import (
	"strings"
	"testing"
)

func runningProduction() Production {
	return Production{ID: "p1", Slug: "hamlet-2026", Status: StatusRunning}
}

func TestConfidenceNoData(t *testing.T) {
	e := New(testMethodology())
	got := e.Confidence(runningProduction(), nil, nil, nil)
	if got.Level != ConfidenceLow {
		t.Errorf("level: got %s, want low", got.Level)
	}
	if len(got.Reasons) == 0 {
		t.Fatal("reasons must never be empty")
	}
	if !strings.Contains(got.Reasons[0], "no rating data") {
		t.Errorf("want explicit no-data reason, got %q", got.Reasons[0])
	}
}

func TestConfidenceHighWithAffirmativeReason(t *testing.T) {
	e := New(testMethodology())
	critic := &CriticScore{ReviewCount: 12, Tier1Count: 3}
	audience := &AudienceScore{Score: 80}
	got := e.Confidence(runningProduction(), critic, audience, nil)
	if got.Level != ConfidenceHigh {
		t.Errorf("level: got %s, want high", got.Level)
	}
	if len(got.Reasons) == 0 {
		t.Fatal("even the clean case needs a reason")
	}
}

func TestConfidenceThinCriticSample(t *testing.T) {
	e := New(testMethodology())
	critic := &CriticScore{ReviewCount: 2, Tier1Count: 1}
	got := e.Confidence(runningProduction(), critic, nil, nil)
	// base 5, thin sample -2 => 3 => medium.
	if got.Level != ConfidenceMedium {
		t.Errorf("level: got %s, want medium", got.Level)
	}
	found := false
	for _, r := range got.Reasons {
		if strings.Contains(r, "2 critic reviews") {
			found = true
		}
	}
	if !found {
		t.Errorf("want a sample-size reason, got %v", got.Reasons)
	}
}

func TestConfidencePreviewsAndNoTier1(t *testing.T) {
	e := New(testMethodology())
	p := runningProduction()
	p.Status = StatusPreviews
	critic := &CriticScore{ReviewCount: 3, Tier1Count: 0}
	got := e.Confidence(p, critic, nil, nil)
	// base 5, thin sample -2, no tier-1 -2, previews -2 => -1 => low.
	if got.Level != ConfidenceLow {
		t.Errorf("level: got %s, want low", got.Level)
	}
	var sawPreviews, sawTier1 bool
	for _, r := range got.Reasons {
		if strings.Contains(r, "previews") {
			sawPreviews = true
		}
		if strings.Contains(r, "tier-1") {
			sawTier1 = true
		}
	}
	if !sawPreviews || !sawTier1 {
		t.Errorf("want previews and tier-1 reasons, got %v", got.Reasons)
	}
}

func TestConfidenceDivergencePenalty(t *testing.T) {
	e := New(testMethodology())
	critic := &CriticScore{ReviewCount: 6, Tier1Count: 2}
	calm := e.Confidence(runningProduction(), critic, &AudienceScore{Score: 75}, nil)
	split := e.Confidence(runningProduction(), critic,
		&AudienceScore{Score: 75, Divergence: "platforms disagree by 40 points"}, nil)

	// base 5, modest sample -1 => 4 (medium); divergence -1 => 3 (medium) but
	// the reason must surface either way.
	if calm.Level != ConfidenceMedium || split.Level != ConfidenceMedium {
		t.Errorf("levels: got %s/%s, want medium/medium", calm.Level, split.Level)
	}
	found := false
	for _, r := range split.Reasons {
		if strings.Contains(r, "disagree") {
			found = true
		}
	}
	if !found {
		t.Errorf("divergence must be surfaced as a reason, got %v", split.Reasons)
	}
}
