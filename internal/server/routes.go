package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lazypower/curator/internal/engine"
)

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID          string   `json:"user_id"`
		Count           int      `json:"count"`
		ExcludeIDs      []string `json:"exclude_ids"`
		Categories      []string `json:"categories"`
		ContentTypes    []string `json:"content_types"`
		IncludeBreaking bool     `json:"include_breaking"`
		IncludeTrending bool     `json:"include_trending"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, `{"error":"user_id required"}`, http.StatusBadRequest)
		return
	}
	if req.Count <= 0 {
		req.Count = 10
	}

	results := s.engine.Recommend(engine.Request{
		UserID:          req.UserID,
		Count:           req.Count,
		ExcludeIDs:      req.ExcludeIDs,
		Categories:      req.Categories,
		ContentTypes:    req.ContentTypes,
		IncludeBreaking: req.IncludeBreaking,
		IncludeTrending: req.IncludeTrending,
	})

	type resultJSON struct {
		ItemID   string   `json:"item_id"`
		Title    string   `json:"title"`
		Category string   `json:"category"`
		Author   string   `json:"author"`
		Type     string   `json:"type"`
		Score    float64  `json:"score"`
		Strategy string   `json:"strategy"`
		Reasons  []string `json:"reasons,omitempty"`
	}

	out := make([]resultJSON, len(results))
	for i, res := range results {
		out[i] = resultJSON{
			ItemID:   res.Item.ID,
			Title:    res.Item.Title,
			Category: res.Item.Category,
			Author:   res.Item.Author,
			Type:     res.Item.Type,
			Score:    res.Score,
			Strategy: res.Type,
			Reasons:  res.Reasons,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"user_id": req.UserID,
		"count":   len(out),
		"results": out,
	})
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string  `json:"user_id"`
		ItemID    string  `json:"item_id"`
		Kind      string  `json:"kind"`
		TimeSpent float64 `json:"time_spent"`
		Query     string  `json:"query"`
		Device    string  `json:"device"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, `{"error":"user_id required"}`, http.StatusBadRequest)
		return
	}
	if !engine.ValidKind(req.Kind) {
		http.Error(w, `{"error":"unknown interaction kind"}`, http.StatusBadRequest)
		return
	}

	meta := engine.InteractionMeta{
		TimeSpent: req.TimeSpent,
		Query:     req.Query,
		Device:    req.Device,
		When:      time.Now(),
	}
	s.engine.RecordInteraction(req.UserID, req.ItemID, req.Kind, meta)
	s.persistProfile(req.UserID)

	if err := s.db.LogInteraction(req.UserID, req.ItemID, req.Kind, meta); err != nil {
		log.Printf("interaction log: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleAddContent(w http.ResponseWriter, r *http.Request) {
	var item engine.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if item.ID == "" {
		http.Error(w, `{"error":"id required"}`, http.StatusBadRequest)
		return
	}

	s.engine.AddContent(item)
	if err := s.db.SaveContent(item); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "item_id": item.ID})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req struct {
		Categories   []string `json:"categories"`
		Authors      []string `json:"authors"`
		Topics       []string `json:"topics"`
		ReadingTime  string   `json:"reading_time"`
		ContentTypes []string `json:"content_types"`
		AgeGroup     string   `json:"age_group"`
		Location     string   `json:"location"`
		Language     string   `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	s.engine.UpdateProfile(userID, engine.ProfileUpdate{
		Categories:   req.Categories,
		Authors:      req.Authors,
		Topics:       req.Topics,
		ReadingTime:  req.ReadingTime,
		ContentTypes: req.ContentTypes,
		AgeGroup:     req.AgeGroup,
		Location:     req.Location,
		Language:     req.Language,
	})
	s.persistProfile(userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	stats := s.engine.Stats(userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// persistProfile writes the engine's current view of a profile through to
// the database. Persistence failures degrade to a log line — the live state
// is already updated.
func (s *Server) persistProfile(userID string) {
	p, ok := s.engine.Profile(userID)
	if !ok {
		return
	}
	if err := s.db.SaveProfile(p); err != nil {
		log.Printf("profile persist %s: %v", userID, err)
	}
}
