package render

import (
	"fmt"
	"io"
	"strings"

	"locality-insights/controller"
	"locality-insights/models"
	"locality-insights/services"
)

// Printer renders the current request state to a terminal.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a Printer. ANSI colours are used when color is true.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

func (p *Printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// Print renders exactly one of: empty prompt, pending indicator, error
// message or payload.
func (p *Printer) Print(st controller.State) {
	switch controller.Display(st) {
	case controller.DisplayPending:
		fmt.Fprintf(p.out, "\n  %s\n\n", p.paint("1;36", "Analyzing..."))
	case controller.DisplayError:
		fmt.Fprintf(p.out, "\n  %s\n  %s\n\n", p.paint("1;31", "Something went wrong"), st.Message)
	case controller.DisplayPayload:
		p.printPayload(st.Payload)
	default:
		fmt.Fprintf(p.out, "\n  %s\n  %s\n\n", p.paint("1;33", "No insights yet"),
			"Ask about a locality to see rich charts, summaries, and the filtered dataset.")
	}
}

func (p *Printer) printPayload(r *models.InsightPayload) {
	sep := strings.Repeat("═", 64)
	thin := strings.Repeat("─", 64)

	fmt.Fprintf(p.out, "\n%s\n", p.paint("1;35", sep))
	fmt.Fprintf(p.out, "%s\n", p.paint("1;35", "  INSIGHT SUMMARY"))
	fmt.Fprintf(p.out, "%s\n\n", p.paint("1;35", sep))

	fmt.Fprintf(p.out, "  %s\n\n", r.Summary)
	fmt.Fprintf(p.out, "  Query      : %s\n", r.Query)
	fmt.Fprintf(p.out, "  Localities : %s\n\n", r.AreaList())

	fmt.Fprintf(p.out, "%s\n", p.paint("1;33", "  Price and demand trend"))
	fmt.Fprintf(p.out, "  %s\n", thin)
	frame := services.Align(r.Chart)
	if len(frame) == 0 {
		fmt.Fprintf(p.out, "  No trend data available\n")
	} else {
		p.printFrame(r.Chart, frame)
	}
	fmt.Fprintln(p.out)

	fmt.Fprintf(p.out, "%s\n", p.paint("1;33", "  Filtered dataset"))
	fmt.Fprintf(p.out, "  %s\n", thin)
	if r.Table.Empty() {
		fmt.Fprintf(p.out, "  No matching rows\n")
	} else {
		p.printTable(r.Table)
	}

	fmt.Fprintf(p.out, "\n%s\n\n", p.paint("1;35", sep))
}

func (p *Printer) printFrame(chart []models.Series, frame models.Frame) {
	header := []string{"year"}
	for _, s := range chart {
		header = append(header, s.Name+" price", s.Name+" demand")
	}

	rows := make([][]string, 0, len(frame))
	for _, fr := range frame {
		line := []string{fmt.Sprint(fr.Year)}
		for _, s := range chart {
			line = append(line, frameCell(fr, models.PriceKey(s.Name)), frameCell(fr, models.DemandKey(s.Name)))
		}
		rows = append(rows, line)
	}
	p.printGrid(header, rows)
}

func frameCell(fr models.FrameRow, key string) string {
	v, ok := fr.Value(key)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func (p *Printer) printTable(t models.Table) {
	rows := make([][]string, len(t.Rows))
	for i := range t.Rows {
		line := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			line[j] = truncate(t.Cell(i, col), 28)
		}
		rows[i] = line
	}
	p.printGrid(t.Columns, rows)
}

func (p *Printer) printGrid(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len([]rune(h))
	}
	for _, r := range rows {
		for i, c := range r {
			if n := len([]rune(c)); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	writeLine := func(cells []string, bold bool) {
		var b strings.Builder
		b.WriteString(" ")
		for i, c := range cells {
			b.WriteString(" ")
			b.WriteString(c)
			b.WriteString(strings.Repeat(" ", widths[i]-len([]rune(c))))
		}
		line := strings.TrimRight(b.String(), " ")
		if bold {
			line = p.paint("1", line)
		}
		fmt.Fprintln(p.out, line)
	}

	writeLine(header, true)
	for _, r := range rows {
		writeLine(r, false)
	}
}

// PrintTemplates lists the quick queries with their 1-based numbers.
func (p *Printer) PrintTemplates() {
	for i, t := range controller.Templates {
		fmt.Fprintf(p.out, "  %s %-30s %s\n", p.paint("1", fmt.Sprintf("%2d.", i+1)), t.Label, t.Query)
	}
}

// PrintHistory lists stored queries, newest first.
func (p *Printer) PrintHistory(entries []*models.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintf(p.out, "  No history yet\n")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(p.out, "  %s  %-50s %s\n",
			e.CreatedAt.Format("2006-01-02 15:04"), truncate(e.Query, 50), strings.Join(e.Areas, ", "))
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
