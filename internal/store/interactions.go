package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lazypower/curator/internal/engine"
)

// Interaction is one persisted implicit-feedback event.
type Interaction struct {
	ID        string
	UserID    string
	ItemID    string
	Kind      string
	TimeSpent float64
	Query     string
	Device    string
	CreatedAt time.Time
}

// LogInteraction appends an event to the interaction log.
func (db *DB) LogInteraction(userID, itemID, kind string, meta engine.InteractionMeta) error {
	when := meta.When
	if when.IsZero() {
		when = time.Now()
	}
	_, err := db.Exec(`
		INSERT INTO interactions (id, user_id, item_id, kind, time_spent, query, device, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), userID, itemID, kind, meta.TimeSpent, meta.Query, meta.Device, when.UnixMilli())
	if err != nil {
		return fmt.Errorf("log interaction %s/%s: %w", userID, kind, err)
	}
	return nil
}

// RecentInteractions returns up to limit events for a user, newest first.
func (db *DB) RecentInteractions(userID string, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT id, user_id, COALESCE(item_id, ''), kind,
		       COALESCE(time_spent, 0), COALESCE(query, ''), COALESCE(device, ''), created_at
		FROM interactions WHERE user_id = ? ORDER BY created_at DESC LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent interactions %s: %w", userID, err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var in Interaction
		var createdAt int64
		if err := rows.Scan(&in.ID, &in.UserID, &in.ItemID, &in.Kind, &in.TimeSpent, &in.Query, &in.Device, &createdAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, in)
	}
	return out, rows.Err()
}

// CountInteractions returns the size of the event log.
func (db *DB) CountInteractions() (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM interactions").Scan(&n)
	return n, err
}
