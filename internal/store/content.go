package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lazypower/curator/internal/engine"
)

// SaveContent upserts a content item as a JSON document.
func (db *DB) SaveContent(item engine.ContentItem) error {
	doc, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item %s: %w", item.ID, err)
	}
	_, err = db.Exec(`
		INSERT INTO content (item_id, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (item_id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at
	`, item.ID, string(doc), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save item %s: %w", item.ID, err)
	}
	return nil
}

// GetContent loads one item, nil if absent.
func (db *DB) GetContent(itemID string) (*engine.ContentItem, error) {
	var doc string
	err := db.QueryRow("SELECT doc FROM content WHERE item_id = ?", itemID).Scan(&doc)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item %s: %w", itemID, err)
	}
	var item engine.ContentItem
	if err := json.Unmarshal([]byte(doc), &item); err != nil {
		return nil, fmt.Errorf("decode item %s: %w", itemID, err)
	}
	return &item, nil
}

// ListContent loads the whole persisted catalog, for startup replay.
func (db *DB) ListContent() ([]engine.ContentItem, error) {
	rows, err := db.Query("SELECT doc FROM content ORDER BY item_id")
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var out []engine.ContentItem
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		var item engine.ContentItem
		if err := json.Unmarshal([]byte(doc), &item); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// CountContent returns the number of persisted items.
func (db *DB) CountContent() (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM content").Scan(&n)
	return n, err
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
