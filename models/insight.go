package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Query is the body sent to the analysis service.
type Query struct {
	Query string `json:"query"`
}

// InsightPayload is the analysis service's success response.
// It is replaced wholesale on every successful response.
type InsightPayload struct {
	Summary string   `json:"summary"`
	Query   string   `json:"query"`
	Areas   []string `json:"areas"`
	Chart   []Series `json:"chart"`
	Table   Table    `json:"table"`
}

// Series is one locality's year-indexed price/demand data. Points are not
// assumed to be sorted.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Point is a single yearly observation. A zero Year marks a malformed point
// (absent, null or 0 on the wire). Price and Demand are nil when the service
// reported no value.
type Point struct {
	Year   int      `json:"year"`
	Price  *float64 `json:"price"`
	Demand *float64 `json:"demand"`
}

// Valid reports whether the point carries a usable year.
func (p Point) Valid() bool {
	return p.Year != 0
}

// Row maps column name to a scalar (string, float64, bool or nil) and keeps
// the key order of the JSON object it was decoded from.
type Row = *orderedmap.OrderedMap[string, any]

// NewRow builds a Row from alternating key/value arguments.
func NewRow(kv ...any) Row {
	r := orderedmap.New[string, any]()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(fmt.Sprint(kv[i]), kv[i+1])
	}
	return r
}

// Table is the tabular part of a payload. Columns is inferred once, at decode
// time, from the key order of the first row and shared by every consumer.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable builds a Table and infers its columns.
func NewTable(rows ...Row) Table {
	return Table{Columns: InferColumns(rows), Rows: rows}
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Cell returns the string form of row i's value for column col.
func (t Table) Cell(i int, col string) string {
	if i < 0 || i >= len(t.Rows) || t.Rows[i] == nil {
		return ""
	}
	v, _ := t.Rows[i].Get(col)
	return FormatScalar(v)
}

// InferColumns returns the key order of the first row.
func InferColumns(rows []Row) []string {
	if len(rows) == 0 || rows[0] == nil {
		return nil
	}
	cols := make([]string, 0, rows[0].Len())
	for pair := rows[0].Oldest(); pair != nil; pair = pair.Next() {
		cols = append(cols, pair.Key)
	}
	return cols
}

// UnmarshalJSON decodes a JSON array of objects and infers the columns.
func (t *Table) UnmarshalJSON(data []byte) error {
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	*t = NewTable(rows...)
	return nil
}

// MarshalJSON encodes the table as the JSON array it was decoded from.
func (t Table) MarshalJSON() ([]byte, error) {
	if t.Rows == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.Rows)
}

// AreaList joins the localities for display.
func (p *InsightPayload) AreaList() string {
	return strings.Join(p.Areas, ", ")
}

// HistoryEntry is one persisted successful response.
type HistoryEntry struct {
	ID        string          `json:"id"`
	Query     string          `json:"query"`
	Areas     []string        `json:"areas"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
