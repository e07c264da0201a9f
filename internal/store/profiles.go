package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lazypower/curator/internal/engine"
)

// SaveProfile upserts a profile snapshot as a JSON document.
func (db *DB) SaveProfile(p engine.UserProfile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", p.ID, err)
	}
	_, err = db.Exec(`
		INSERT INTO profiles (user_id, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at
	`, p.ID, string(doc), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save profile %s: %w", p.ID, err)
	}
	return nil
}

// GetProfile loads one profile, nil if absent.
func (db *DB) GetProfile(userID string) (*engine.UserProfile, error) {
	var doc string
	err := db.QueryRow("SELECT doc FROM profiles WHERE user_id = ?", userID).Scan(&doc)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	var p engine.UserProfile
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	return &p, nil
}

// ListProfiles loads every persisted profile, for startup replay.
func (db *DB) ListProfiles() ([]engine.UserProfile, error) {
	rows, err := db.Query("SELECT doc FROM profiles ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []engine.UserProfile
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		var p engine.UserProfile
		if err := json.Unmarshal([]byte(doc), &p); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountProfiles returns the number of persisted profiles.
func (db *DB) CountProfiles() (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&n)
	return n, err
}
