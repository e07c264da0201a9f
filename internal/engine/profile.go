package engine

import (
	"sort"
	"sync"
	"time"
)

// ProfileStore owns all user profiles. Mutations go through RecordInteraction
// and Apply, both of which hold the write lock for the full read-modify-write
// of the preference lists, so per-user writes are serialized.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]*UserProfile
}

// NewProfileStore creates an empty ProfileStore.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]*UserProfile)}
}

// Get returns a copy of the profile for userID. The second return is false
// when the user has never interacted — callers treat that as cold start,
// not an error.
func (s *ProfileStore) Get(userID string) (UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return UserProfile{}, false
	}
	return cloneProfile(p), true
}

// All returns copies of every profile.
func (s *ProfileStore) All() []UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UserProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, cloneProfile(p))
	}
	return out
}

// Len returns the number of profiles.
func (s *ProfileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// Restore installs a previously persisted profile verbatim. Used when
// replaying external state at startup.
func (s *ProfileStore) Restore(p UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := cloneProfile(&p)
	if cp.Behavior.TimeSpent == nil {
		cp.Behavior.TimeSpent = make(map[string]float64)
	}
	if cp.Preferences.ReadingTime == "" {
		cp.Preferences.ReadingTime = ReadingAny
	}
	s.profiles[p.ID] = &cp
}

// RecordInteraction applies one implicit-feedback event to the user's
// behavior history and recomputes the derived preference lists. The profile
// is created on first use. Unknown item ids are kept in the history but
// contribute nothing to preferences until the item shows up in the index.
func (s *ProfileStore) RecordInteraction(userID, itemID, kind string, meta InteractionMeta, index *ContentIndex) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		p = defaultProfile(userID)
		s.profiles[userID] = p
	}

	switch kind {
	case InteractView:
		p.Behavior.Read = appendUnique(p.Behavior.Read, itemID)
	case InteractLike:
		p.Behavior.Liked = appendUnique(p.Behavior.Liked, itemID)
	case InteractShare:
		p.Behavior.Shared = appendUnique(p.Behavior.Shared, itemID)
	case InteractRead:
		if meta.TimeSpent > 0 {
			p.Behavior.TimeSpent[itemID] = meta.TimeSpent
		}
	case InteractSearch:
		if meta.Query != "" {
			p.Behavior.SearchHistory = append(p.Behavior.SearchHistory, meta.Query)
			if n := len(p.Behavior.SearchHistory); n > maxSearchHistory {
				p.Behavior.SearchHistory = p.Behavior.SearchHistory[n-maxSearchHistory:]
			}
		}
	}

	if meta.Device != "" {
		p.Behavior.DeviceTypes = appendUnique(p.Behavior.DeviceTypes, meta.Device)
	}
	when := meta.When
	if when.IsZero() {
		when = time.Now()
	}
	p.Behavior.ReadingHours = append(p.Behavior.ReadingHours, when.Hour())
	if n := len(p.Behavior.ReadingHours); n > maxReadingHours {
		p.Behavior.ReadingHours = p.Behavior.ReadingHours[n-maxReadingHours:]
	}

	recomputePreferences(p, index)
}

// Apply overrides explicit preference fields, leaving untouched anything
// the update doesn't set. Creates the profile if needed.
func (s *ProfileStore) Apply(userID string, up ProfileUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		p = defaultProfile(userID)
		s.profiles[userID] = p
	}

	if up.Categories != nil {
		p.Preferences.Categories = capList(up.Categories, maxCategories)
	}
	if up.Authors != nil {
		p.Preferences.Authors = capList(up.Authors, maxAuthors)
	}
	if up.Topics != nil {
		p.Preferences.Topics = capList(up.Topics, maxTopics)
	}
	if up.ReadingTime != "" {
		p.Preferences.ReadingTime = up.ReadingTime
	}
	if up.ContentTypes != nil {
		p.Preferences.ContentTypes = append([]string(nil), up.ContentTypes...)
	}
	if up.AgeGroup != "" {
		p.Demographics.AgeGroup = up.AgeGroup
	}
	if up.Location != "" {
		p.Demographics.Location = up.Location
	}
	if up.Language != "" {
		p.Demographics.Language = up.Language
	}
}

// recomputePreferences rebuilds the ranked category/author/topic lists from
// the full behavior history. Reads count once, likes twice, shares three
// times. Full recompute, not an incremental patch — keeps the lists from
// drifting away from the history.
func recomputePreferences(p *UserProfile, index *ContentIndex) {
	categories := make(map[string]int)
	authors := make(map[string]int)
	topics := make(map[string]int)

	tally := func(ids []string, weight int) {
		for _, id := range ids {
			item, ok := index.Get(id)
			if !ok {
				continue
			}
			categories[item.Category] += weight
			authors[item.Author] += weight
			for _, tag := range item.Tags {
				topics[tag] += weight
			}
		}
	}
	tally(p.Behavior.Read, 1)
	tally(p.Behavior.Liked, 2)
	tally(p.Behavior.Shared, 3)

	p.Preferences.Categories = topKeys(categories, maxCategories)
	p.Preferences.Authors = topKeys(authors, maxAuthors)
	p.Preferences.Topics = topKeys(topics, maxTopics)

	if len(p.Behavior.TimeSpent) > 0 {
		var total float64
		for _, minutes := range p.Behavior.TimeSpent {
			total += minutes
		}
		mean := total / float64(len(p.Behavior.TimeSpent))
		switch {
		case mean < 2:
			p.Preferences.ReadingTime = ReadingShort
		case mean < 5:
			p.Preferences.ReadingTime = ReadingMedium
		default:
			p.Preferences.ReadingTime = ReadingLong
		}
	}
}

// topKeys returns the k keys with the highest counts, descending. Ties order
// alphabetically so recomputes are deterministic.
func topKeys(counts map[string]int, k int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > k {
		keys = keys[:k]
	}
	return keys
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func capList(list []string, k int) []string {
	out := append([]string(nil), list...)
	if len(out) > k {
		out = out[:k]
	}
	return out
}

func cloneProfile(p *UserProfile) UserProfile {
	cp := *p
	cp.Preferences.Categories = append([]string(nil), p.Preferences.Categories...)
	cp.Preferences.Authors = append([]string(nil), p.Preferences.Authors...)
	cp.Preferences.Topics = append([]string(nil), p.Preferences.Topics...)
	cp.Preferences.ContentTypes = append([]string(nil), p.Preferences.ContentTypes...)
	cp.Behavior.Read = append([]string(nil), p.Behavior.Read...)
	cp.Behavior.Liked = append([]string(nil), p.Behavior.Liked...)
	cp.Behavior.Shared = append([]string(nil), p.Behavior.Shared...)
	cp.Behavior.SearchHistory = append([]string(nil), p.Behavior.SearchHistory...)
	cp.Behavior.ReadingHours = append([]int(nil), p.Behavior.ReadingHours...)
	cp.Behavior.DeviceTypes = append([]string(nil), p.Behavior.DeviceTypes...)
	if p.Behavior.TimeSpent != nil {
		cp.Behavior.TimeSpent = make(map[string]float64, len(p.Behavior.TimeSpent))
		for k, v := range p.Behavior.TimeSpent {
			cp.Behavior.TimeSpent[k] = v
		}
	}
	return cp
}
