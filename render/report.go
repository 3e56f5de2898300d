package render

import (
	"fmt"
	"html/template"
	"io"

	"locality-insights/models"
	"locality-insights/services"
)

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Insight: {{.Payload.Query}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: #0f172a; color: #e2e8f0; margin: 32px; }
.card { background: #111827; border: 1px solid #1f2937; border-radius: 14px; padding: 20px 24px; margin-bottom: 20px; }
.pill { display: inline-block; font-size: 0.75rem; padding: 3px 10px; border-radius: 999px; background: #e0f2fe; color: #0369a1; }
.chip { display: inline-block; margin-right: 12px; font-size: 0.85rem; color: #94a3b8; }
.chip b { color: #e2e8f0; margin-left: 6px; }
table { border-collapse: collapse; width: 100%; font-size: 0.85rem; }
th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid #1f2937; }
th { color: #94a3b8; font-weight: 600; }
img { max-width: 100%; border-radius: 10px; background: #fff; }
</style>
</head>
<body>
<div class="card">
  <span class="pill">Insight summary</span>
  <p>{{.Payload.Summary}}</p>
  <span class="chip">Query<b>{{.Payload.Query}}</b></span>
  <span class="chip">Localities<b>{{.Payload.AreaList}}</b></span>
</div>
{{if .Years}}
<div class="card">
  <h2>Price and demand trend</h2>
  {{if .ChartFile}}<img src="{{.ChartFile}}" alt="Price trend chart">{{end}}
  <table>
    <thead><tr><th>year</th>{{range .Names}}<th>{{.}} price</th><th>{{.}} demand</th>{{end}}</tr></thead>
    <tbody>
    {{range .Years}}<tr><td>{{.Year}}</td>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
    {{end}}
    </tbody>
  </table>
</div>
{{end}}
{{if .Columns}}
<div class="card">
  <h2>Filtered dataset</h2>
  <table>
    <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
    <tbody>
    {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
    {{end}}
    </tbody>
  </table>
</div>
{{end}}
</body>
</html>
`))

type reportYear struct {
	Year  int
	Cells []string
}

type reportView struct {
	Payload   *models.InsightPayload
	ChartFile string
	Names     []string
	Years     []reportYear
	Columns   []string
	Rows      [][]string
}

// WriteReport renders the payload as a standalone HTML page. chartFile, when
// not empty, is referenced as the trend image (relative to the report).
func WriteReport(w io.Writer, p *models.InsightPayload, chartFile string) error {
	if p == nil {
		return fmt.Errorf("render: report: nil payload")
	}

	view := reportView{Payload: p, ChartFile: chartFile, Columns: p.Table.Columns}
	for _, s := range p.Chart {
		view.Names = append(view.Names, s.Name)
	}

	for _, row := range services.Align(p.Chart) {
		ry := reportYear{Year: row.Year}
		for _, name := range view.Names {
			ry.Cells = append(ry.Cells, frameCell(row, models.PriceKey(name)), frameCell(row, models.DemandKey(name)))
		}
		view.Years = append(view.Years, ry)
	}

	for i := range p.Table.Rows {
		cells := make([]string, len(p.Table.Columns))
		for j, col := range p.Table.Columns {
			cells[j] = p.Table.Cell(i, col)
		}
		view.Rows = append(view.Rows, cells)
	}

	if err := reportTmpl.Execute(w, view); err != nil {
		return fmt.Errorf("render: report: %w", err)
	}
	return nil
}
