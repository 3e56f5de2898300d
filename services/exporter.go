package services

import (
	"strings"

	"locality-insights/models"
	"locality-insights/utils"
)

// Sink receives the finished CSV document. storage.FileSink is the
// production implementation.
type Sink interface {
	Save(name string, data []byte) error
}

// EncodeCSV serialises a table. The header is the table's inferred columns;
// each row follows in that order. A field is quoted, with inner quotes
// doubled, only when it contains a comma, a double quote or a newline.
// Lines are joined with "\n" and there is no trailing newline.
func EncodeCSV(t models.Table) string {
	if t.Empty() {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.Join(t.Columns, ","))
	for i := range t.Rows {
		b.WriteByte('\n')
		for j, col := range t.Columns {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeField(t.Cell(i, col)))
		}
	}
	return b.String()
}

func escapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Exporter turns the current table into a downloadable CSV file.
type Exporter struct {
	sink     Sink
	filename string
	logger   *utils.Logger
}

// NewExporter creates an Exporter that saves under filename.
func NewExporter(sink Sink, filename string, logger *utils.Logger) *Exporter {
	return &Exporter{sink: sink, filename: filename, logger: logger}
}

// Export encodes and saves the table and reports whether a file was written.
// An empty table is a no-op. Save failures are logged, never returned.
func (e *Exporter) Export(t models.Table) bool {
	if t.Empty() {
		e.logger.Debug("[export] Nothing to export")
		return false
	}

	data := EncodeCSV(t)
	if err := e.sink.Save(e.filename, []byte(data)); err != nil {
		e.logger.Warn("[export] Saving %s failed: %v", e.filename, err)
		return false
	}

	e.logger.Info("[export] Wrote %d rows to %s", len(t.Rows), e.filename)
	return true
}
