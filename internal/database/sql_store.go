package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLStore keeps slots in the walk_slots table
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open, migrated connection
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	query := s.db.Rebind(`SELECT value FROM walk_slots WHERE slot_key = ?`)
	err := s.db.GetContext(ctx, &value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSlotEmpty
	}
	if err != nil {
		return "", fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLStore) Put(ctx context.Context, key, value string) error {
	query := s.db.Rebind(`
		INSERT INTO walk_slots (slot_key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (slot_key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at`)

	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	query := s.db.Rebind(`DELETE FROM walk_slots WHERE slot_key = ?`)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
