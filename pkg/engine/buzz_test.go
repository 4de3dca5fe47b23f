package engine

import (
	"math"
	"testing"
	"time"
)

var buzzAsOf = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func recentThread(sentiment Sentiment, engagement int) BuzzThread {
	return BuzzThread{
		Sentiment: sentiment,
		Upvotes:   engagement,
		PostedAt:  buzzAsOf.Add(-48 * time.Hour),
	}
}

func staleThread(sentiment Sentiment, engagement int) BuzzThread {
	return BuzzThread{
		Sentiment: sentiment,
		Upvotes:   engagement,
		PostedAt:  buzzAsOf.Add(-90 * 24 * time.Hour),
	}
}

func TestBuzzScoreEmpty(t *testing.T) {
	e := New(testMethodology())
	if got := e.BuzzScore(nil, buzzAsOf); got != nil {
		t.Fatalf("empty threads: got %+v, want nil", got)
	}
}

func TestBuzzScoreSubscores(t *testing.T) {
	e := New(testMethodology())
	threads := []BuzzThread{
		recentThread(SentimentPositive, 100),
		recentThread(SentimentPositive, 50),
		recentThread(SentimentMixed, 10),
		recentThread(SentimentNegative, 5),
	}
	got := e.BuzzScore(threads, buzzAsOf)
	if got == nil {
		t.Fatal("got nil")
	}

	// ratio = min(2, 4/10) = 0.4; bonus = min(10, log10(166)*3).
	wantVolume := 0.4*20 + math.Min(10, math.Log10(166)*3)
	if math.Abs(got.VolumeScore-wantVolume) > 0.1 {
		t.Errorf("volume: got %.2f, want %.2f", got.VolumeScore, wantVolume)
	}

	if got.StalenessPenalty != 0 {
		t.Errorf("all-recent threads must not be penalized: %.1f", got.StalenessPenalty)
	}
	if math.Abs(got.Score-(got.VolumeScore+got.SentimentScore)) > 0.2 {
		t.Errorf("score %.2f should equal volume %.2f + sentiment %.2f",
			got.Score, got.VolumeScore, got.SentimentScore)
	}
}

func TestBuzzScoreSentimentEngagementWeighted(t *testing.T) {
	e := New(testMethodology())

	// One huge positive thread vs several tiny negative ones: the positive
	// thread dominates but stays bounded by the log weight.
	loud := e.BuzzScore([]BuzzThread{
		recentThread(SentimentPositive, 5000),
		recentThread(SentimentNegative, 1),
		recentThread(SentimentNegative, 1),
	}, buzzAsOf)
	quiet := e.BuzzScore([]BuzzThread{
		recentThread(SentimentPositive, 10),
		recentThread(SentimentNegative, 1),
		recentThread(SentimentNegative, 1),
	}, buzzAsOf)

	if loud.SentimentScore <= quiet.SentimentScore {
		t.Errorf("higher-engagement positive thread should lift sentiment: %.2f vs %.2f",
			loud.SentimentScore, quiet.SentimentScore)
	}
	// positive=45: even unbounded engagement cannot exceed the category value.
	if loud.SentimentScore >= 45 {
		t.Errorf("sentiment must stay below the pure-positive value: %.2f", loud.SentimentScore)
	}
}

func TestBuzzScoreStalenessBoundary(t *testing.T) {
	e := New(testMethodology())

	// Exactly half stale: no penalty.
	half := []BuzzThread{
		recentThread(SentimentMixed, 10),
		recentThread(SentimentMixed, 10),
		staleThread(SentimentMixed, 10),
		staleThread(SentimentMixed, 10),
	}
	got := e.BuzzScore(half, buzzAsOf)
	if got.StalenessPenalty != 0 {
		t.Errorf("exactly half stale must not trigger penalty, got %.1f", got.StalenessPenalty)
	}

	// One more stale thread tips the majority: penalty applies.
	tipped := append(half, staleThread(SentimentMixed, 10))
	got = e.BuzzScore(tipped, buzzAsOf)
	if got.StalenessPenalty != 15 {
		t.Errorf("majority-stale set must trigger penalty 15, got %.1f", got.StalenessPenalty)
	}
}

func TestBuzzScoreFloorsAtZero(t *testing.T) {
	m := testMethodology()
	m.Buzz.StalenessPenalty = 500
	e := New(m)

	got := e.BuzzScore([]BuzzThread{staleThread(SentimentNegative, 0)}, buzzAsOf)
	if got.Score != 0 {
		t.Errorf("score must floor at 0, got %.2f", got.Score)
	}
}

func TestBuzzScoreThreadsNewestFirst(t *testing.T) {
	e := New(testMethodology())
	threads := []BuzzThread{
		{Sentiment: SentimentMixed, PostedAt: buzzAsOf.Add(-72 * time.Hour)},
		{Sentiment: SentimentMixed, PostedAt: buzzAsOf.Add(-1 * time.Hour)},
		{Sentiment: SentimentMixed, PostedAt: buzzAsOf.Add(-24 * time.Hour)},
	}
	got := e.BuzzScore(threads, buzzAsOf)
	for i := 1; i < len(got.Threads); i++ {
		if got.Threads[i].PostedAt.After(got.Threads[i-1].PostedAt) {
			t.Fatalf("threads not newest-first: %v", got.Threads)
		}
	}
	// Input slice must not be reordered in place.
	if !threads[0].PostedAt.Equal(buzzAsOf.Add(-72 * time.Hour)) {
		t.Error("input slice was mutated")
	}
}

func TestBuzzScoreDeterministicForFixedAsOf(t *testing.T) {
	e := New(testMethodology())
	threads := []BuzzThread{
		recentThread(SentimentPositive, 40),
		staleThread(SentimentMixed, 10),
	}
	a := e.BuzzScore(threads, buzzAsOf)
	b := e.BuzzScore(threads, buzzAsOf)
	if a.Score != b.Score || a.StalenessPenalty != b.StalenessPenalty {
		t.Errorf("same inputs and asOf must score identically: %+v vs %+v", a, b)
	}
}
