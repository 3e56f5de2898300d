package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"locality-insights/models"
)

// NewEntry snapshots a successful payload for the history.
func NewEntry(p *models.InsightPayload, now time.Time) (*models.HistoryEntry, error) {
	if p == nil {
		return nil, fmt.Errorf("history: nil payload")
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("history: encode payload: %w", err)
	}
	return &models.HistoryEntry{
		ID:        uuid.NewString(),
		Query:     p.Query,
		Areas:     append([]string(nil), p.Areas...),
		Payload:   raw,
		CreatedAt: now.UTC(),
	}, nil
}
