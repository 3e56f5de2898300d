package services

import (
	"sort"

	"locality-insights/models"
)

// Align pivots per-locality series into one year-indexed frame suitable for a
// multi-line chart.
//
// Points with a zero year are dropped. Years are sorted numerically. When a
// series holds several points for the same year the first one encountered is
// used; the rest are ignored (see Inspector for the data-quality warning).
// A series without a point at a given year contributes no keys to that row.
func Align(chart []models.Series) models.Frame {
	if len(chart) == 0 {
		return models.Frame{}
	}

	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, s := range chart {
		for _, p := range s.Points {
			if !p.Valid() {
				continue
			}
			if _, dup := seen[p.Year]; dup {
				continue
			}
			seen[p.Year] = struct{}{}
			years = append(years, p.Year)
		}
	}
	sort.Ints(years)

	// first point per (series, year), indexed once instead of scanning per row
	firstByYear := make([]map[int]models.Point, len(chart))
	for i, s := range chart {
		idx := make(map[int]models.Point, len(s.Points))
		for _, p := range s.Points {
			if !p.Valid() {
				continue
			}
			if _, ok := idx[p.Year]; !ok {
				idx[p.Year] = p
			}
		}
		firstByYear[i] = idx
	}

	frame := make(models.Frame, 0, len(years))
	for _, year := range years {
		row := models.FrameRow{Year: year, Fields: make(map[string]*float64)}
		for i, s := range chart {
			p, ok := firstByYear[i][year]
			if !ok {
				continue
			}
			row.Fields[models.PriceKey(s.Name)] = p.Price
			row.Fields[models.DemandKey(s.Name)] = p.Demand
		}
		frame = append(frame, row)
	}
	return frame
}
