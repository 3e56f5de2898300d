package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"locality-insights/models"
	"locality-insights/utils"
)

// PostgresHistory persists successful insights to PostgreSQL.
type PostgresHistory struct {
	db *sql.DB
}

// NewPostgresHistory opens a connection, waits for the server to accept it,
// runs schema migrations and returns a ready-to-use store.
func NewPostgresHistory(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresHistory, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres-ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ph := &PostgresHistory{db: db}
	if err := ph.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ph, nil
}

func (ph *PostgresHistory) migrate(ctx context.Context) error {
	_, err := ph.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS insight_history (
			id          UUID         PRIMARY KEY,
			query       TEXT         NOT NULL,
			areas       TEXT[]       NOT NULL DEFAULT '{}',
			payload     JSONB        NOT NULL,
			created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_insight_history_created ON insight_history(created_at DESC);
	`)
	return err
}

// Write inserts one entry; re-writing the same ID is a no-op.
func (ph *PostgresHistory) Write(ctx context.Context, e *models.HistoryEntry) error {
	_, err := ph.db.ExecContext(ctx, `
		INSERT INTO insight_history (id, query, areas, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, e.ID, e.Query, pq.Array(e.Areas), []byte(e.Payload), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: insert history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (ph *PostgresHistory) Recent(ctx context.Context, limit int) ([]*models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := ph.db.QueryContext(ctx, `
		SELECT id, query, areas, payload, created_at
		FROM insight_history
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch history: %w", err)
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		e := &models.HistoryEntry{}
		var payload []byte
		var created time.Time
		if err := rows.Scan(&e.ID, &e.Query, pq.Array(&e.Areas), &payload, &created); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		e.Payload = payload
		e.CreatedAt = created
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (ph *PostgresHistory) Close() error {
	return ph.db.Close()
}
