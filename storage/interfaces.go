package storage

import (
	"context"

	"locality-insights/models"
)

// HistoryWriter is the interface any history backend must satisfy.
type HistoryWriter interface {
	Write(ctx context.Context, entry *models.HistoryEntry) error
	Close() error
}

// HistoryReader lists previously stored entries, newest first.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]*models.HistoryEntry, error)
}

// HistoryStore is a backend that can both record and list entries.
type HistoryStore interface {
	HistoryWriter
	HistoryReader
}

// FileWriter persists a finished export under a name.
type FileWriter interface {
	Save(name string, data []byte) error
}
