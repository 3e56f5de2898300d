package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	"locality-insights/models"
	"locality-insights/services"
)

// ErrNoData is returned when the chart has nothing to draw.
var ErrNoData = errors.New("render: no chart data")

// ChartRenderer draws the price trend of every series as one line chart.
type ChartRenderer struct {
	Width  int
	Height int
}

// NewChartRenderer clamps the size to something readable.
func NewChartRenderer(width, height int) *ChartRenderer {
	if width < 640 {
		width = 640
	}
	if height < 240 {
		height = 240
	}
	return &ChartRenderer{Width: width, Height: height}
}

// Render aligns the series and writes a PNG with one price line per series.
// Years where a series has no value are skipped for that line, never drawn
// as zero.
func (r *ChartRenderer) Render(series []models.Series, w io.Writer) error {
	ch, err := r.build(series)
	if err != nil {
		return err
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render: chart: %w", err)
	}
	return nil
}

func (r *ChartRenderer) build(series []models.Series) (*chart.Chart, error) {
	frame := services.Align(series)
	if len(frame) == 0 {
		return nil, ErrNoData
	}

	var plotted []chart.Series
	yMin, yMax := math.Inf(1), math.Inf(-1)
	for i, s := range series {
		key := models.PriceKey(s.Name)
		var xs, ys []float64
		for _, row := range frame {
			v, ok := row.Value(key)
			if !ok {
				continue
			}
			xs = append(xs, float64(row.Year))
			ys = append(ys, v)
			yMin = math.Min(yMin, v)
			yMax = math.Max(yMax, v)
		}
		if len(xs) == 0 {
			continue
		}
		col := chart.GetDefaultColor(i)
		plotted = append(plotted, chart.ContinuousSeries{
			Name:    s.Name + " price",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    3,
			},
		})
	}
	if len(plotted) == 0 {
		return nil, ErrNoData
	}

	// go-chart refuses zero-width ranges, so a single year or a flat line
	// gets padded. Explicit ticks override the x range, so the padding
	// years carry blank ticks of their own.
	years := frame.Years()
	xMin, xMax := float64(years[0]), float64(years[len(years)-1])
	var ticks []chart.Tick
	if xMin == xMax {
		xMin, xMax = xMin-1, xMax+1
		ticks = append(ticks, chart.Tick{Value: xMin})
	}
	for _, y := range years {
		ticks = append(ticks, chart.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	if len(years) == 1 {
		ticks = append(ticks, chart.Tick{Value: xMax})
	}
	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(yMax)*0.05, 1)
	}

	ch := &chart.Chart{
		Title:  "Price and demand trend",
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  "year",
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "price",
			Range: &chart.ContinuousRange{Min: yMin - pad, Max: yMax + pad},
		},
		Series: plotted,
	}
	ch.Elements = []chart.Renderable{chart.Legend(ch)}
	return ch, nil
}
