package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// strategyContext carries the snapshot a strategy scores against. Strategies
// are stateless; everything they need comes in here.
type strategyContext struct {
	profile  UserProfile
	profiles *ProfileStore
	index    *ContentIndex
	sims     *SimilarityIndex
	exclude  map[string]bool
	req      Request
	now      time.Time
}

// strategy scores candidate items for one request. Implementations must not
// mutate any of the context state.
type strategy interface {
	name() string
	recommend(ctx *strategyContext) []Result
}

func (ctx *strategyContext) skip(item ContentItem) bool {
	if ctx.exclude[item.ID] {
		return true
	}
	return !matchesFilters(item, ctx.req)
}

func matchesFilters(item ContentItem, req Request) bool {
	if len(req.ContentTypes) > 0 && !containsString(req.ContentTypes, item.Type) {
		return false
	}
	if len(req.Categories) > 0 && !containsString(req.Categories, item.Category) {
		return false
	}
	return true
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func indexOfString(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

// preferenceStrategy scores every candidate against the user's learned
// preference lists. Rank position in a list decays the weight linearly:
// the top category gets the full 0.3, the fifth gets 0.06, absent gets 0.
type preferenceStrategy struct{}

func (preferenceStrategy) name() string { return "preference" }

func (preferenceStrategy) recommend(ctx *strategyContext) []Result {
	prefs := ctx.profile.Preferences
	var results []Result

	for _, item := range ctx.index.All() {
		if ctx.skip(item) {
			continue
		}

		var score float64
		var reasons []string

		if idx := indexOfString(prefs.Categories, item.Category); idx >= 0 {
			score += float64(maxCategories-idx) / maxCategories * 0.3
			reasons = append(reasons, "favorite category: "+item.Category)
		}

		if idx := indexOfString(prefs.Authors, item.Author); idx >= 0 {
			score += float64(maxAuthors-idx) / maxAuthors * 0.2
			reasons = append(reasons, "favorite author: "+item.Author)
		}

		if len(item.Tags) > 0 {
			var matched []string
			for _, tag := range item.Tags {
				if containsString(prefs.Topics, tag) {
					matched = append(matched, tag)
				}
			}
			if len(matched) > 0 {
				frac := float64(len(matched)) / float64(len(item.Tags))
				if frac > 1 {
					frac = 1
				}
				score += frac * 0.25
				reasons = append(reasons, "topics you follow: "+strings.Join(matched, ", "))
			}
		}

		fit := readingTimeFit(prefs.ReadingTime, item.ReadingTime)
		score += fit * 0.15
		if fit > 0.5 {
			reasons = append(reasons, "fits your reading time")
		}

		quality := qualityScore(item, ctx.now)
		score += quality * 0.1
		if quality > 0.7 {
			reasons = append(reasons, "high quality content")
		}

		if score > 0.1 {
			results = append(results, Result{Item: item, Score: score, Reasons: reasons, Type: ResultPersonalized})
		}
	}

	return results
}

// collaborativeStrategy accumulates scores from the 10 most-similar users:
// similarity x 0.8 per like, similarity x 1.0 per share, additive across
// neighbors. Intentionally uncapped — several neighbors converging on one
// item is the signal. Empty output for users with no similarity row.
type collaborativeStrategy struct{}

const collaborativeNeighbors = 10

func (collaborativeStrategy) name() string { return "collaborative" }

func (collaborativeStrategy) recommend(ctx *strategyContext) []Result {
	neighbors := ctx.sims.TopUsers(ctx.req.UserID, collaborativeNeighbors)
	if len(neighbors) == 0 {
		return nil
	}

	type tally struct {
		score   float64
		reasons []string
	}
	scores := make(map[string]*tally)

	contribute := func(itemID string, amount float64, reason string) {
		if ctx.exclude[itemID] {
			return
		}
		item, ok := ctx.index.Get(itemID)
		if !ok || !matchesFilters(item, ctx.req) {
			return
		}
		t := scores[itemID]
		if t == nil {
			t = &tally{}
			scores[itemID] = t
		}
		t.score += amount
		t.reasons = append(t.reasons, reason)
	}

	for _, n := range neighbors {
		other, ok := ctx.profiles.Get(n.ID)
		if !ok {
			continue
		}
		for _, itemID := range other.Behavior.Liked {
			contribute(itemID, n.Score*0.8, "liked by a reader like you")
		}
		for _, itemID := range other.Behavior.Shared {
			contribute(itemID, n.Score*1.0, "shared by a reader like you")
		}
	}

	results := make([]Result, 0, len(scores))
	for itemID, t := range scores {
		item, ok := ctx.index.Get(itemID)
		if !ok {
			continue
		}
		results = append(results, Result{Item: item, Score: t.score, Reasons: t.reasons, Type: ResultCollaborative})
	}
	return results
}

// similarContentStrategy takes the user's 5 most-recently-liked items as
// seeds and surfaces candidates whose cached item-item similarity to a seed
// clears 0.3.
type similarContentStrategy struct{}

const (
	similarSeeds     = 5
	similarThreshold = 0.3
)

func (similarContentStrategy) name() string { return "similar" }

func (similarContentStrategy) recommend(ctx *strategyContext) []Result {
	liked := ctx.profile.Behavior.Liked
	if len(liked) > similarSeeds {
		liked = liked[len(liked)-similarSeeds:]
	}

	var results []Result
	for _, seedID := range liked {
		seed, ok := ctx.index.Get(seedID)
		if !ok {
			continue
		}
		for _, item := range ctx.index.All() {
			if item.ID == seedID || ctx.skip(item) {
				continue
			}
			sim := ctx.sims.ItemScore(seedID, item.ID)
			if sim > similarThreshold {
				results = append(results, Result{
					Item:    item,
					Score:   sim,
					Reasons: []string{fmt.Sprintf("similar to %q", seed.Title)},
					Type:    ResultSimilar,
				})
			}
		}
	}
	return results
}

// trendingStrategy scores editorial flags and raw engagement. Breaking and
// trending flags only count when the request asked for them; featured
// always counts.
type trendingStrategy struct{}

func (trendingStrategy) name() string { return "trending" }

func (trendingStrategy) recommend(ctx *strategyContext) []Result {
	var results []Result
	for _, item := range ctx.index.All() {
		if ctx.skip(item) {
			continue
		}

		var score float64
		var reasons []string

		if ctx.req.IncludeBreaking && item.Metadata.Breaking {
			score += 0.8
			reasons = append(reasons, "breaking news")
		}
		if ctx.req.IncludeTrending && item.Metadata.Trending {
			score += 0.6
			reasons = append(reasons, "trending now")
		}
		if item.Metadata.Featured {
			score += 0.4
			reasons = append(reasons, "featured pick")
		}

		engagement := engagementScore(item)
		score += 0.3 * engagement
		if engagement > 0.7 {
			reasons = append(reasons, "high engagement")
		}

		if score > 0.2 {
			results = append(results, Result{Item: item, Score: score, Reasons: reasons, Type: ResultTrending})
		}
	}
	return results
}

// editorialFallback ranks filter-matching items by quality plus engagement.
// This is the whole answer for cold-start users — no profile, no
// personalization, just the best of the catalog.
func editorialFallback(index *ContentIndex, req Request, now time.Time) []Result {
	exclude := make(map[string]bool, len(req.ExcludeIDs))
	for _, id := range req.ExcludeIDs {
		exclude[id] = true
	}

	type ranked struct {
		item ContentItem
		rank float64
	}
	var candidates []ranked
	for _, item := range index.All() {
		if exclude[item.ID] || !matchesFilters(item, req) {
			continue
		}
		candidates = append(candidates, ranked{
			item: item,
			rank: qualityScore(item, now) + engagementScore(item),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].rank != candidates[j].rank {
			return candidates[i].rank > candidates[j].rank
		}
		return lessByRecency(candidates[i].item, candidates[j].item)
	})

	if len(candidates) > req.Count {
		candidates = candidates[:req.Count]
	}
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, Result{
			Item:    c.item,
			Score:   qualityScore(c.item, now),
			Reasons: []string{"high quality content"},
			Type:    ResultEditorial,
		})
	}
	return results
}
