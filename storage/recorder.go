package storage

import (
	"context"
	"time"

	"locality-insights/models"
	"locality-insights/utils"
)

const recordTimeout = 5 * time.Second

// Recorder writes successful payloads to a history backend. Failures are
// logged and never reach the caller.
type Recorder struct {
	writer HistoryWriter
	logger *utils.Logger
	now    func() time.Time
}

// NewRecorder wraps writer.
func NewRecorder(writer HistoryWriter, logger *utils.Logger) *Recorder {
	return &Recorder{writer: writer, logger: logger, now: time.Now}
}

// Record stores p and reports whether it was written.
func (r *Recorder) Record(ctx context.Context, p *models.InsightPayload) bool {
	entry, err := NewEntry(p, r.now())
	if err != nil {
		r.logger.Warn("[history] Skipping entry: %v", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	if err := r.writer.Write(ctx, entry); err != nil {
		r.logger.Warn("[history] Write failed: %v", err)
		return false
	}
	r.logger.Debug("[history] Stored %s for %q", entry.ID, entry.Query)
	return true
}
