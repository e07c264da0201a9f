package engine

import (
	"time"
)

// Engine combines the profile store, content index, and similarity index
// behind the public recommendation operations. All state is in memory; the
// engine performs no I/O and persists nothing — durability is the caller's
// concern.
type Engine struct {
	profiles *ProfileStore
	content  *ContentIndex
	sims     *SimilarityIndex
	worker   *recomputeWorker
	now      func() time.Time
}

// Options tunes the background recompute worker.
type Options struct {
	RecomputeDebounce time.Duration
	QueueSize         int
}

// DefaultOptions returns the serve-time defaults.
func DefaultOptions() Options {
	return Options{
		RecomputeDebounce: 100 * time.Millisecond,
		QueueSize:         1024,
	}
}

// New creates an Engine and starts its recompute worker. Callers must Stop()
// it when done.
func New(opts Options) *Engine {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultOptions().QueueSize
	}
	if opts.RecomputeDebounce <= 0 {
		opts.RecomputeDebounce = DefaultOptions().RecomputeDebounce
	}

	e := &Engine{
		profiles: NewProfileStore(),
		content:  NewContentIndex(),
		sims:     NewSimilarityIndex(),
		now:      time.Now,
	}
	e.worker = newRecomputeWorker(opts.QueueSize, opts.RecomputeDebounce, e.recompute)
	return e
}

// Stop shuts down the recompute worker after draining queued work.
func (e *Engine) Stop() {
	e.worker.shutdown()
}

// Flush blocks until every queued similarity recompute has run.
func (e *Engine) Flush() {
	e.worker.flushAll()
}

func (e *Engine) recompute(job recomputeJob) {
	if job.User != "" {
		e.sims.RecomputeUser(job.User, e.profiles)
		return
	}
	e.sims.RecomputeItem(job.Item, e.content)
}

// RecordInteraction applies one implicit-feedback event and schedules a
// similarity rebuild for the user. Never fails: unknown item ids are kept in
// the history and simply contribute nothing until the item is indexed.
func (e *Engine) RecordInteraction(userID, itemID, kind string, meta InteractionMeta) {
	e.profiles.RecordInteraction(userID, itemID, kind, meta, e.content)
	e.worker.enqueue(recomputeJob{User: userID})
}

// AddContent registers or updates an item and schedules its item-item
// similarity row.
func (e *Engine) AddContent(item ContentItem) {
	e.content.Add(item)
	e.worker.enqueue(recomputeJob{Item: item.ID})
}

// UpdateProfile applies explicit preference overrides, then invalidates the
// user's similarity row.
func (e *Engine) UpdateProfile(userID string, up ProfileUpdate) {
	e.profiles.Apply(userID, up)
	e.worker.enqueue(recomputeJob{User: userID})
}

// RestoreProfile installs a persisted profile during startup replay and
// schedules its similarity row.
func (e *Engine) RestoreProfile(p UserProfile) {
	e.profiles.Restore(p)
	e.worker.enqueue(recomputeJob{User: p.ID})
}

// Profile returns a copy of the user's profile, if one exists.
func (e *Engine) Profile(userID string) (UserProfile, bool) {
	return e.profiles.Get(userID)
}

// Content returns a copy of an indexed item, if present.
func (e *Engine) Content(itemID string) (ContentItem, bool) {
	return e.content.Get(itemID)
}

// Counts returns the number of profiles and indexed items.
func (e *Engine) Counts() (profiles, items int) {
	return e.profiles.Len(), e.content.Len()
}

// Recommend runs all four strategies against the current state and blends
// their output into one ranked list of at most req.Count results. Users
// without a profile get the editorial fallback. Pure read — safe to call
// concurrently.
func (e *Engine) Recommend(req Request) []Result {
	if req.Count <= 0 {
		return nil
	}
	now := e.now()

	profile, ok := e.profiles.Get(req.UserID)
	if !ok {
		return editorialFallback(e.content, req, now)
	}

	exclude := make(map[string]bool, len(req.ExcludeIDs)+len(profile.Behavior.Read)+len(profile.Behavior.TimeSpent))
	for _, id := range req.ExcludeIDs {
		exclude[id] = true
	}
	for _, id := range profile.Behavior.Read {
		exclude[id] = true
	}
	for id := range profile.Behavior.TimeSpent {
		exclude[id] = true
	}

	ctx := &strategyContext{
		profile:  profile,
		profiles: e.profiles,
		index:    e.content,
		sims:     e.sims,
		exclude:  exclude,
		req:      req,
		now:      now,
	}

	outputs := make(map[string][]Result, len(allStrategies))
	for _, st := range allStrategies {
		outputs[st.name()] = st.recommend(ctx)
	}

	return blend(req,
		outputs["preference"],
		outputs["collaborative"],
		outputs["similar"],
		outputs["trending"],
	)
}

// allStrategies is the fixed strategy set, in quota order.
var allStrategies = []strategy{
	preferenceStrategy{},
	collaborativeStrategy{},
	similarContentStrategy{},
	trendingStrategy{},
}

// Completeness weights for Stats: each populated preference list and a
// non-empty read history contribute a fixed share.
const (
	completenessCategories = 0.3
	completenessAuthors    = 0.2
	completenessTopics     = 0.2
	completenessRead       = 0.3
)

// Stats is a pure diagnostic read of the user's current state. Unknown users
// get zeroes, not an error.
func (e *Engine) Stats(userID string) Stats {
	profile, ok := e.profiles.Get(userID)
	if !ok {
		return Stats{PreferredCategories: []string{}}
	}

	var completeness float64
	if len(profile.Preferences.Categories) > 0 {
		completeness += completenessCategories
	}
	if len(profile.Preferences.Authors) > 0 {
		completeness += completenessAuthors
	}
	if len(profile.Preferences.Topics) > 0 {
		completeness += completenessTopics
	}
	if len(profile.Behavior.Read) > 0 {
		completeness += completenessRead
	}

	return Stats{
		ProfileCompleteness: completeness,
		TotalInteractions:   len(profile.Behavior.Read) + len(profile.Behavior.Liked) + len(profile.Behavior.Shared),
		PreferredCategories: profile.Preferences.Categories,
		SimilarUserCount:    e.sims.SimilarUserCount(userID),
	}
}
