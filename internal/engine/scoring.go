package engine

import (
	"math"
	"time"
)

// qualityScore is a bounded [0,1] proxy for intrinsic content quality:
// body length in a readable range, tagging, freshness, and medium
// difficulty each add a fixed share.
func qualityScore(item ContentItem, now time.Time) float64 {
	var score float64

	if n := len(item.Content); n > 500 && n < 5000 {
		score += 0.3
	}
	if len(item.Tags) > 0 {
		score += 0.2
	}

	age := now.Sub(item.PublishDate)
	switch {
	case age < 7*24*time.Hour:
		score += 0.3
	case age < 30*24*time.Hour:
		score += 0.2
	}

	if item.Metadata.Difficulty == "medium" {
		score += 0.2
	}

	return math.Min(score, 1)
}

// engagementScore is a bounded [0,1] proxy for audience response, built
// from per-view rates. Zero views means no signal, not bad signal.
func engagementScore(item ContentItem) float64 {
	views := float64(item.Engagement.Views)
	if views == 0 {
		return 0
	}
	likeRate := float64(item.Engagement.Likes) / views
	shareRate := float64(item.Engagement.Shares) / views
	commentRate := float64(item.Engagement.Comments) / views
	return math.Min(0.4*likeRate+0.4*shareRate+0.2*commentRate, 1)
}

// readingTimeFit scores how well an item's estimated minutes match the
// user's preferred bucket. Full score inside the bucket, linear decay
// outside it; "any" is a flat 0.5.
func readingTimeFit(bucket string, minutes int) float64 {
	m := float64(minutes)
	switch bucket {
	case ReadingShort:
		if m <= 3 {
			return 1
		}
		return math.Max(0, 1-(m-3)/5)
	case ReadingMedium:
		if m >= 3 && m <= 8 {
			return 1
		}
		return math.Max(0, 1-math.Abs(m-5.5)/5)
	case ReadingLong:
		if m >= 8 {
			return 1
		}
		return math.Max(0, 1-(8-m)/5)
	default:
		return 0.5
	}
}
