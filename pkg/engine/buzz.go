package engine

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// BuzzScore aggregates discussion threads for one production. Returns nil for
// an empty thread list, meaning "no discussion data".
//
// The score is the sum of two subscores, minus a staleness penalty:
//
//   - volume: min(cap, ratio*20 + engagementBonus), where ratio caps at 2x
//     the baseline thread count and engagementBonus at 10 via
//     log10(totalEngagement+1)*3.
//   - sentiment: engagement-weighted mean of the per-category values, with
//     per-thread weight log10(engagement+10). High-engagement threads
//     dominate, but no single thread has unbounded influence.
//
// The staleness penalty applies when fewer than half of all threads fall
// inside the recency window measured back from asOf. Exactly half inside
// does not trigger it.
func (e *Engine) BuzzScore(threads []BuzzThread, asOf time.Time) *BuzzScore {
	if len(threads) == 0 {
		return nil
	}

	tuning := e.methodology.Buzz

	totalEngagement := 0
	for _, t := range threads {
		totalEngagement += t.Engagement()
	}

	ratio := math.Min(2, float64(len(threads))/float64(tuning.BaselineThreads))
	engagementBonus := math.Min(10, math.Log10(float64(totalEngagement)+1)*3)
	volume := math.Min(tuning.VolumeCap, ratio*20+engagementBonus)

	sentimentSum := 0.0
	sentimentWeight := 0.0
	for _, t := range threads {
		value, ok := tuning.SentimentValues[string(t.Sentiment)]
		if !ok {
			value = tuning.SentimentValues[string(SentimentMixed)]
		}
		w := math.Log10(float64(t.Engagement()) + 10)
		sentimentSum += value * w
		sentimentWeight += w
	}
	sentiment := 0.0
	if sentimentWeight > 0 {
		sentiment = sentimentSum / sentimentWeight
	}

	recent := 0
	cutoff := asOf.Add(-tuning.RecencyWindow())
	for _, t := range threads {
		if !t.PostedAt.Before(cutoff) {
			recent++
		}
	}
	penalty := 0.0
	if recent*2 < len(threads) {
		penalty = tuning.StalenessPenalty
	}

	score := math.Max(0, volume+sentiment-penalty)

	sorted := make([]BuzzThread, len(threads))
	copy(sorted, threads)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PostedAt.After(sorted[j].PostedAt)
	})

	return &BuzzScore{
		Score:            round1(score),
		VolumeScore:      round1(volume),
		VolumeNote:       fmt.Sprintf("%d threads, %d total engagement", len(threads), totalEngagement),
		SentimentScore:   round1(sentiment),
		SentimentNote:    sentimentNote(threads),
		StalenessPenalty: penalty,
		Threads:          sorted,
	}
}

func sentimentNote(threads []BuzzThread) string {
	counts := map[Sentiment]int{}
	for _, t := range threads {
		counts[t.Sentiment]++
	}
	return fmt.Sprintf("%d positive, %d mixed, %d negative",
		counts[SentimentPositive], counts[SentimentMixed], counts[SentimentNegative])
}
