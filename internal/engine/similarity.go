package engine

import (
	"math"
	"sort"
	"sync"
)

// simThreshold prunes near-zero pairs: entries at or below it are never
// stored, which bounds the sparse maps.
const simThreshold = 0.1

// SimilarityIndex caches user-user and item-item similarity rows. Rows are
// recomputed from one side but mirrored into the counterpart rows, so
// sim(a,b) == sim(b,a) holds for reads from either side.
type SimilarityIndex struct {
	mu    sync.RWMutex
	users map[string]map[string]float64
	items map[string]map[string]float64
}

// NewSimilarityIndex creates an empty SimilarityIndex.
func NewSimilarityIndex() *SimilarityIndex {
	return &SimilarityIndex{
		users: make(map[string]map[string]float64),
		items: make(map[string]map[string]float64),
	}
}

// ScoredID is a neighbor id with its similarity score.
type ScoredID struct {
	ID    string
	Score float64
}

// TopUsers returns up to k most-similar users for userID, descending.
// Nil for users with no computed row — the cold-start signal the
// collaborative strategy keys off.
func (s *SimilarityIndex) TopUsers(userID string, k int) []ScoredID {
	s.mu.RLock()
	row, ok := s.users[userID]
	if !ok {
		s.mu.RUnlock()
		return nil
	}
	out := make([]ScoredID, 0, len(row))
	for id, score := range row {
		out = append(out, ScoredID{ID: id, Score: score})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// UserScore returns the cached similarity between two users, 0 if pruned.
func (s *SimilarityIndex) UserScore(a, b string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[a][b]
}

// ItemScore returns the cached similarity between two items, 0 if pruned.
func (s *SimilarityIndex) ItemScore(a, b string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[a][b]
}

// SimilarUserCount returns the size of userID's similarity row.
func (s *SimilarityIndex) SimilarUserCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users[userID])
}

// RecomputeUser rebuilds userID's similarity row against every other profile
// and rewrites the mirror entries so both sides stay consistent.
func (s *SimilarityIndex) RecomputeUser(userID string, profiles *ProfileStore) {
	subject, ok := profiles.Get(userID)
	if !ok {
		s.dropRow(s.userRows(), userID)
		return
	}

	row := make(map[string]float64)
	for _, other := range profiles.All() {
		if other.ID == userID {
			continue
		}
		if sim := userSimilarity(subject, other); sim > simThreshold {
			row[other.ID] = sim
		}
	}
	s.setRow(s.userRows(), userID, row)
}

// RecomputeItem rebuilds itemID's similarity row against the whole index,
// mirroring entries the same way.
func (s *SimilarityIndex) RecomputeItem(itemID string, index *ContentIndex) {
	subject, ok := index.Get(itemID)
	if !ok {
		s.dropRow(s.itemRows(), itemID)
		return
	}

	row := make(map[string]float64)
	for _, other := range index.All() {
		if other.ID == itemID {
			continue
		}
		if sim := itemSimilarity(subject, other); sim > simThreshold {
			row[other.ID] = sim
		}
	}
	s.setRow(s.itemRows(), itemID, row)
}

func (s *SimilarityIndex) userRows() map[string]map[string]float64 { return s.users }
func (s *SimilarityIndex) itemRows() map[string]map[string]float64 { return s.items }

// setRow installs a freshly computed row and patches the mirror entries:
// every id in the new row gets a reciprocal entry, and ids that fell out of
// the row lose theirs.
func (s *SimilarityIndex) setRow(rows map[string]map[string]float64, id string, row map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := rows[id]
	for other := range old {
		if _, still := row[other]; still {
			continue
		}
		delete(rows[other], id)
		if len(rows[other]) == 0 {
			delete(rows, other)
		}
	}
	for other, score := range row {
		if rows[other] == nil {
			rows[other] = make(map[string]float64)
		}
		rows[other][id] = score
	}

	if len(row) == 0 {
		delete(rows, id)
		return
	}
	rows[id] = row
}

func (s *SimilarityIndex) dropRow(rows map[string]map[string]float64, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for other := range rows[id] {
		delete(rows[other], id)
		if len(rows[other]) == 0 {
			delete(rows, other)
		}
	}
	delete(rows, id)
}

// userSimilarity blends four Jaccard overlaps: categories 0.3, authors 0.2,
// topics 0.2, read history 0.3. A factor where both sides are empty is
// skipped, and the sum is normalized by the weights actually applied.
// Symmetric by construction.
func userSimilarity(a, b UserProfile) float64 {
	var sum, weights float64

	factor := func(weight float64, x, y []string) {
		if len(x) == 0 && len(y) == 0 {
			return
		}
		sum += weight * jaccard(x, y)
		weights += weight
	}

	factor(0.3, a.Preferences.Categories, b.Preferences.Categories)
	factor(0.2, a.Preferences.Authors, b.Preferences.Authors)
	factor(0.2, a.Preferences.Topics, b.Preferences.Topics)
	factor(0.3, a.Behavior.Read, b.Behavior.Read)

	if weights == 0 {
		return 0
	}
	return sum / weights
}

// itemSimilarity blends binary category (0.3) and author (0.2) matches with
// tag Jaccard (0.3) and reading-time closeness (0.2), normalized the same
// way as userSimilarity.
func itemSimilarity(a, b ContentItem) float64 {
	var sum, weights float64

	if a.Category == b.Category {
		sum += 0.3
	}
	weights += 0.3

	if a.Author == b.Author {
		sum += 0.2
	}
	weights += 0.2

	if len(a.Tags) > 0 || len(b.Tags) > 0 {
		sum += 0.3 * jaccard(a.Tags, b.Tags)
		weights += 0.3
	}

	delta := math.Abs(float64(a.ReadingTime - b.ReadingTime))
	sum += 0.2 * math.Max(0, 1-delta/10)
	weights += 0.2

	return sum / weights
}

// jaccard is |A∩B| / |A∪B| over the distinct elements of each list,
// 0 when the union is empty.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, v := range a {
		setA[v] = true
	}
	union := make(map[string]bool, len(a)+len(b))
	for v := range setA {
		union[v] = true
	}
	shared := 0
	seen := make(map[string]bool, len(b))
	for _, v := range b {
		if seen[v] {
			continue
		}
		seen[v] = true
		union[v] = true
		if setA[v] {
			shared++
		}
	}
	return float64(shared) / float64(len(union))
}
