package engine

import "testing"

func TestContentIndex(t *testing.T) {
	index := NewContentIndex()
	if _, ok := index.Get("x"); ok {
		t.Error("empty index returned an item")
	}

	index.Add(ContentItem{ID: "x", Title: "First"})
	index.Add(ContentItem{ID: "y", Title: "Second"})
	index.Add(ContentItem{ID: "x", Title: "Replaced"})

	if index.Len() != 2 {
		t.Errorf("len = %d, want 2", index.Len())
	}
	item, ok := index.Get("x")
	if !ok || item.Title != "Replaced" {
		t.Errorf("got %+v, want replaced title", item)
	}
	if got := len(index.All()); got != 2 {
		t.Errorf("All() returned %d items, want 2", got)
	}
}
