package engine

import (
	"math"
	"sort"
)

// Quota shares of the requested count, per strategy.
const (
	quotaPreference    = 0.4
	quotaCollaborative = 0.3
	quotaSimilar       = 0.2
	quotaTrending      = 0.1
)

// blend allocates each strategy its quota of the requested count, merges the
// slices, deduplicates by item id keeping the single highest score (never
// summing across strategies), and returns the top count overall. Short
// output is fine — the blender never pads.
func blend(req Request, preference, collaborative, similar, trending []Result) []Result {
	merged := make([]Result, 0, len(preference)+len(collaborative)+len(similar)+len(trending))
	merged = append(merged, topResults(preference, quotaShare(req.Count, quotaPreference))...)
	merged = append(merged, topResults(collaborative, quotaShare(req.Count, quotaCollaborative))...)
	merged = append(merged, topResults(similar, quotaShare(req.Count, quotaSimilar))...)
	if req.IncludeBreaking || req.IncludeTrending {
		merged = append(merged, topResults(trending, quotaShare(req.Count, quotaTrending))...)
	}

	best := make(map[string]Result, len(merged))
	for _, r := range merged {
		if cur, ok := best[r.Item.ID]; !ok || r.Score > cur.Score {
			best[r.Item.ID] = r
		}
	}

	out := make([]Result, 0, len(best))
	for _, r := range best {
		out = append(out, r)
	}
	sortResults(out)
	if len(out) > req.Count {
		out = out[:req.Count]
	}
	return out
}

func quotaShare(count int, fraction float64) int {
	return int(math.Ceil(float64(count) * fraction))
}

// topResults sorts a strategy's output and keeps its quota's worth.
func topResults(results []Result, n int) []Result {
	sortResults(results)
	if len(results) > n {
		results = results[:n]
	}
	return results
}

// sortResults orders by score descending; ties go to the newer item, then
// ascending item id, so identical inputs always rank identically.
func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return lessByRecency(results[i].Item, results[j].Item)
	})
}

func lessByRecency(a, b ContentItem) bool {
	if !a.PublishDate.Equal(b.PublishDate) {
		return a.PublishDate.After(b.PublishDate)
	}
	return a.ID < b.ID
}
