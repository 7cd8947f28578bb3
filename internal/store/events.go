package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cardapio-go/internal/model"
)

// EventStore writes and reads audit log entries.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates an EventStore over the given database.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// Create inserts an audit log entry.
func (s *EventStore) Create(ctx context.Context, e model.Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Metadata == "" {
		e.Metadata = "{}"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (level, category, message, user_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Level, e.Category, e.Message, e.UserID, e.Metadata, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: creating event: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries up to limit.
func (s *EventStore) ListRecent(ctx context.Context, limit int64) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, level, category, message, user_id, metadata, created_at
		FROM events ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: listing events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		var userID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &userID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: listing events: %w", err)
		}
		e.UserID = userID
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: listing events: %w", err)
	}
	return events, nil
}
