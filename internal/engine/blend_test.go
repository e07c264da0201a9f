package engine

import (
	"fmt"
	"testing"
	"time"
)

var blendDate = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

// scored builds a minimal Result for blender tests.
func scored(id string, score float64, typ string) Result {
	return Result{
		Item:  ContentItem{ID: id, PublishDate: blendDate},
		Score: score,
		Type:  typ,
	}
}

func scoredList(prefix string, typ string, n int, base float64) []Result {
	out := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, scored(fmt.Sprintf("%s%d", prefix, i+1), base-float64(i)*0.01, typ))
	}
	return out
}

func resultIDs(results []Result) map[string]bool {
	ids := make(map[string]bool, len(results))
	for _, r := range results {
		ids[r.Item.ID] = true
	}
	return ids
}

func TestBlendQuotas(t *testing.T) {
	preference := scoredList("p", ResultPersonalized, 6, 0.9)
	collaborative := scoredList("c", ResultCollaborative, 5, 0.8)
	similar := scoredList("s", ResultSimilar, 4, 0.7)
	trending := scoredList("t", ResultTrending, 3, 0.6)

	req := Request{Count: 10, IncludeTrending: true}
	out := blend(req, preference, collaborative, similar, trending)

	// ceil(10*0.4)=4, ceil(10*0.3)=3, ceil(10*0.2)=2, ceil(10*0.1)=1
	if len(out) != 10 {
		t.Fatalf("got %d results, want 10", len(out))
	}
	ids := resultIDs(out)
	for _, want := range []string{"p1", "p2", "p3", "p4", "c1", "c2", "c3", "s1", "s2", "t1"} {
		if !ids[want] {
			t.Errorf("missing %s from blended output", want)
		}
	}
	if ids["p5"] {
		t.Error("p5 exceeded the preference quota")
	}
}

func TestBlendSkipsTrendingWithoutFlags(t *testing.T) {
	trending := scoredList("t", ResultTrending, 3, 0.99)
	out := blend(Request{Count: 10}, nil, nil, nil, trending)
	if len(out) != 0 {
		t.Errorf("trending leaked into output without breaking/trending flags: %v", resultIDs(out))
	}

	out = blend(Request{Count: 10, IncludeBreaking: true}, nil, nil, nil, trending)
	if len(out) != 1 || out[0].Item.ID != "t1" {
		t.Errorf("breaking flag should admit one trending result, got %d", len(out))
	}
}

func TestBlendDeduplicatesKeepingMaxScore(t *testing.T) {
	preference := []Result{scored("x", 0.5, ResultPersonalized)}
	collaborative := []Result{scored("x", 0.7, ResultCollaborative)}

	out := blend(Request{Count: 10}, preference, collaborative, nil, nil)
	if len(out) != 1 {
		t.Fatalf("got %d results, want 1", len(out))
	}
	if out[0].Score != 0.7 {
		t.Errorf("kept score %f, want max 0.7 not a sum", out[0].Score)
	}
	if out[0].Type != ResultCollaborative {
		t.Errorf("kept type %s, want the winning strategy's", out[0].Type)
	}
}

func TestBlendTruncatesAndSorts(t *testing.T) {
	preference := scoredList("p", ResultPersonalized, 10, 0.5)
	out := blend(Request{Count: 3}, preference, nil, nil, nil)
	if len(out) != 3 {
		t.Fatalf("got %d results, want 3", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].Score > out[i-1].Score {
			t.Errorf("results out of order at %d: %f > %f", i, out[i].Score, out[i-1].Score)
		}
	}
}

func TestSortResultsTieBreaks(t *testing.T) {
	older := Result{Item: ContentItem{ID: "a", PublishDate: blendDate.Add(-time.Hour)}, Score: 0.5}
	newer := Result{Item: ContentItem{ID: "z", PublishDate: blendDate}, Score: 0.5}
	twinA := Result{Item: ContentItem{ID: "m", PublishDate: blendDate}, Score: 0.5}

	results := []Result{older, newer, twinA}
	sortResults(results)

	// Same score: newer first; same date: id ascending.
	if results[0].Item.ID != "m" || results[1].Item.ID != "z" || results[2].Item.ID != "a" {
		t.Errorf("tie order = %s, %s, %s; want m, z, a",
			results[0].Item.ID, results[1].Item.ID, results[2].Item.ID)
	}
}

func TestQuotaShare(t *testing.T) {
	tests := []struct {
		count    int
		fraction float64
		want     int
	}{
		{10, 0.4, 4},
		{10, 0.3, 3},
		{10, 0.1, 1},
		{5, 0.3, 2}, // ceil(1.5)
		{1, 0.1, 1}, // every strategy gets at least one slot
		{3, 0.4, 2}, // ceil(1.2)
	}
	for _, tt := range tests {
		if got := quotaShare(tt.count, tt.fraction); got != tt.want {
			t.Errorf("quotaShare(%d, %.1f) = %d, want %d", tt.count, tt.fraction, got, tt.want)
		}
	}
}
