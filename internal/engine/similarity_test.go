package engine

import (
	"testing"
)

func TestUserSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b UserProfile
		want float64
	}{
		{
			name: "both empty",
			a:    UserProfile{ID: "a"},
			b:    UserProfile{ID: "b"},
			want: 0,
		},
		{
			name: "identical categories only",
			a:    UserProfile{Preferences: Preferences{Categories: []string{"tech"}}},
			b:    UserProfile{Preferences: Preferences{Categories: []string{"tech"}}},
			want: 1,
		},
		{
			name: "read overlap only",
			a:    UserProfile{Behavior: Behavior{Read: []string{"x"}}},
			b:    UserProfile{Behavior: Behavior{Read: []string{"x", "y"}}},
			want: 0.5,
		},
		{
			name: "one-sided factor still counts",
			a:    UserProfile{Preferences: Preferences{Categories: []string{"tech"}}},
			b:    UserProfile{},
			want: 0,
		},
		{
			name: "mixed factors normalize by applied weights",
			a: UserProfile{
				Preferences: Preferences{Categories: []string{"tech", "science"}},
				Behavior:    Behavior{Read: []string{"x"}},
			},
			b: UserProfile{
				Preferences: Preferences{Categories: []string{"tech"}},
				Behavior:    Behavior{Read: []string{"x"}},
			},
			// (0.3*0.5 + 0.3*1.0) / 0.6
			want: 0.75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := userSimilarity(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("userSimilarity = %f, want %f", got, tt.want)
			}
			if rev := userSimilarity(tt.b, tt.a); !almostEqual(rev, got) {
				t.Errorf("asymmetric: sim(a,b)=%f sim(b,a)=%f", got, rev)
			}
		})
	}
}

func TestItemSimilarity(t *testing.T) {
	a := ContentItem{ID: "a", Category: "tech", Author: "sara", Tags: []string{"go", "infra"}, ReadingTime: 5}
	b := ContentItem{ID: "b", Category: "tech", Author: "sara", Tags: []string{"go", "cloud"}, ReadingTime: 7}

	// 0.3 + 0.2 + 0.3*(1/3) + 0.2*(1 - 2/10), all weights applied
	want := 0.3 + 0.2 + 0.3/3 + 0.2*0.8
	got := itemSimilarity(a, b)
	if !almostEqual(got, want) {
		t.Errorf("itemSimilarity = %f, want %f", got, want)
	}
	if rev := itemSimilarity(b, a); !almostEqual(rev, got) {
		t.Errorf("asymmetric: sim(a,b)=%f sim(b,a)=%f", got, rev)
	}

	// Without tags on either side the tag factor drops out of the
	// normalization instead of counting as zero overlap.
	c := ContentItem{ID: "c", Category: "tech", Author: "sara", ReadingTime: 5}
	d := ContentItem{ID: "d", Category: "tech", Author: "sara", ReadingTime: 5}
	if got := itemSimilarity(c, d); !almostEqual(got, 1) {
		t.Errorf("tagless twins = %f, want 1", got)
	}
}

func TestRecomputeUserMirrorsRows(t *testing.T) {
	profiles := NewProfileStore()
	profiles.Restore(UserProfile{ID: "alice", Behavior: Behavior{Read: []string{"x", "y"}}})
	profiles.Restore(UserProfile{ID: "bob", Behavior: Behavior{Read: []string{"x"}}})
	profiles.Restore(UserProfile{ID: "carol", Behavior: Behavior{Read: []string{"z"}}})

	sims := NewSimilarityIndex()
	sims.RecomputeUser("alice", profiles)

	got := sims.UserScore("alice", "bob")
	if !almostEqual(got, 0.5) {
		t.Fatalf("UserScore(alice, bob) = %f, want 0.5", got)
	}
	if mirror := sims.UserScore("bob", "alice"); !almostEqual(mirror, got) {
		t.Errorf("mirror entry = %f, want %f", mirror, got)
	}
	if got := sims.UserScore("alice", "carol"); got != 0 {
		t.Errorf("disjoint pair scored %f, want pruned", got)
	}

	// Alice's history diverges; bob must fall out of both rows.
	profiles.Restore(UserProfile{ID: "alice", Behavior: Behavior{Read: []string{"z"}}})
	sims.RecomputeUser("alice", profiles)
	if got := sims.UserScore("bob", "alice"); got != 0 {
		t.Errorf("stale mirror entry survived with score %f", got)
	}
}

func TestRecomputeUserDropsMissingProfile(t *testing.T) {
	profiles := NewProfileStore()
	profiles.Restore(UserProfile{ID: "alice", Behavior: Behavior{Read: []string{"x"}}})
	profiles.Restore(UserProfile{ID: "bob", Behavior: Behavior{Read: []string{"x"}}})

	sims := NewSimilarityIndex()
	sims.RecomputeUser("alice", profiles)
	if sims.SimilarUserCount("bob") != 1 {
		t.Fatal("expected mirror row for bob")
	}

	sims.RecomputeUser("ghost", profiles)
	if sims.SimilarUserCount("ghost") != 0 {
		t.Error("unknown user got a similarity row")
	}
}

func TestRecomputeItemPrunesBelowThreshold(t *testing.T) {
	index := NewContentIndex()
	index.Add(ContentItem{ID: "a", Category: "tech", Author: "sara", ReadingTime: 5})
	index.Add(ContentItem{ID: "b", Category: "tech", Author: "sara", ReadingTime: 5})
	index.Add(ContentItem{ID: "c", Category: "sports", Author: "max", ReadingTime: 60})

	sims := NewSimilarityIndex()
	sims.RecomputeItem("a", index)

	if got := sims.ItemScore("a", "b"); !almostEqual(got, 1) {
		t.Errorf("ItemScore(a, b) = %f, want 1", got)
	}
	if mirror := sims.ItemScore("b", "a"); !almostEqual(mirror, 1) {
		t.Errorf("mirror = %f, want 1", mirror)
	}
	// a vs c: no category, no author, huge reading-time gap -> 0
	if got := sims.ItemScore("a", "c"); got != 0 {
		t.Errorf("ItemScore(a, c) = %f, want pruned", got)
	}
}

func TestTopUsersOrderAndLimit(t *testing.T) {
	sims := NewSimilarityIndex()
	sims.users["u"] = map[string]float64{"a": 0.5, "b": 0.9, "c": 0.5, "d": 0.2}

	top := sims.TopUsers("u", 3)
	if len(top) != 3 {
		t.Fatalf("got %d neighbors, want 3", len(top))
	}
	if top[0].ID != "b" {
		t.Errorf("top neighbor = %s, want b", top[0].ID)
	}
	// Equal scores break ties by id so recomputes stay deterministic.
	if top[1].ID != "a" || top[2].ID != "c" {
		t.Errorf("tie order = %s, %s, want a, c", top[1].ID, top[2].ID)
	}

	if got := sims.TopUsers("stranger", 3); got != nil {
		t.Errorf("unknown user returned %v, want nil", got)
	}
}
