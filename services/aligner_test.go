package services

import (
	"testing"

	"locality-insights/models"
)

func f(v float64) *float64 { return &v }

func pt(year int, price, demand float64) models.Point {
	return models.Point{Year: year, Price: f(price), Demand: f(demand)}
}

func TestAlignExample(t *testing.T) {
	chart := []models.Series{
		{Name: "Wakad", Points: []models.Point{pt(2020, 100, 5)}},
		{Name: "Aundh", Points: []models.Point{pt(2020, 120, 3)}},
	}

	frame := Align(chart)
	if len(frame) != 1 {
		t.Fatalf("rows: got %d, want 1", len(frame))
	}
	row := frame[0]
	if row.Year != 2020 {
		t.Errorf("year: got %d, want 2020", row.Year)
	}

	want := map[string]float64{
		"Wakad_price": 100, "Wakad_demand": 5,
		"Aundh_price": 120, "Aundh_demand": 3,
	}
	if len(row.Fields) != len(want) {
		t.Errorf("fields: got %d, want %d", len(row.Fields), len(want))
	}
	for k, v := range want {
		got, ok := row.Value(k)
		if !ok || got != v {
			t.Errorf("%s: got %v (present=%v), want %v", k, got, ok, v)
		}
	}
}

func TestAlignEmptyChart(t *testing.T) {
	if frame := Align(nil); len(frame) != 0 {
		t.Errorf("expected empty frame, got %d rows", len(frame))
	}
}

func TestAlignOrderingAndNoDuplicates(t *testing.T) {
	chart := []models.Series{
		{Name: "A", Points: []models.Point{pt(2023, 1, 1), pt(999, 1, 1), pt(2021, 1, 1)}},
		{Name: "B", Points: []models.Point{pt(2021, 2, 2), pt(10000, 2, 2), pt(2023, 2, 2)}},
	}

	years := Align(chart).Years()
	want := []int{999, 2021, 2023, 10000}
	if len(years) != len(want) {
		t.Fatalf("years: got %v, want %v", years, want)
	}
	for i := range want {
		if years[i] != want[i] {
			t.Errorf("years[%d]: got %d, want %d", i, years[i], want[i])
		}
	}
	for i := 1; i < len(years); i++ {
		if years[i] <= years[i-1] {
			t.Errorf("years not strictly ascending: %v", years)
		}
	}
}

func TestAlignExcludesFalsyYears(t *testing.T) {
	chart := []models.Series{
		{Name: "A", Points: []models.Point{{Year: 0, Price: f(1)}, pt(2022, 3, 4)}},
	}

	frame := Align(chart)
	for _, row := range frame {
		if row.Year == 0 {
			t.Error("year 0 must never be represented")
		}
	}
	if len(frame) != 1 {
		t.Errorf("rows: got %d, want 1", len(frame))
	}
}

func TestAlignMissingSeriesKeysAreAbsent(t *testing.T) {
	chart := []models.Series{
		{Name: "A", Points: []models.Point{pt(2020, 1, 1), pt(2021, 2, 2)}},
		{Name: "B", Points: []models.Point{pt(2021, 3, 3)}},
		{Name: "Empty"},
	}

	frame := Align(chart)
	if frame[0].Has("B_price") || frame[0].Has("B_demand") {
		t.Error("B has no 2020 point; keys must be absent, not zero")
	}
	if !frame[1].Has("B_price") {
		t.Error("B_price missing at 2021")
	}
	for _, row := range frame {
		if row.Has("Empty_price") || row.Has("Empty_demand") {
			t.Error("series without points must not contribute fields")
		}
	}
}

func TestAlignFirstPointWins(t *testing.T) {
	chart := []models.Series{
		{Name: "A", Points: []models.Point{pt(2020, 1, 10), pt(2020, 2, 20)}},
	}

	frame := Align(chart)
	if len(frame) != 1 {
		t.Fatalf("rows: got %d, want 1", len(frame))
	}
	if v, _ := frame[0].Value("A_price"); v != 1 {
		t.Errorf("A_price: got %v, want first point's 1", v)
	}
	if v, _ := frame[0].Value("A_demand"); v != 10 {
		t.Errorf("A_demand: got %v, want first point's 10", v)
	}
}

func TestAlignNullPriceKeepsKey(t *testing.T) {
	chart := []models.Series{
		{Name: "A", Points: []models.Point{{Year: 2020, Demand: f(4)}}},
	}

	row := Align(chart)[0]
	if !row.Has("A_price") {
		t.Error("A_price key should be present for an existing point")
	}
	if _, ok := row.Value("A_price"); ok {
		t.Error("A_price value should be unusable when the service sent null")
	}
}

func TestAlignCompleteness(t *testing.T) {
	chart := []models.Series{
		{Name: "X", Points: []models.Point{pt(2019, 5, 6), pt(2024, 7, 8), pt(2021, 9, 1)}},
		{Name: "Y", Points: []models.Point{pt(2024, 2, 3)}},
	}

	frame := Align(chart)
	byYear := make(map[int]models.FrameRow)
	for _, row := range frame {
		byYear[row.Year] = row
	}
	for _, s := range chart {
		for _, p := range s.Points {
			row, ok := byYear[p.Year]
			if !ok {
				t.Errorf("missing row for %d", p.Year)
				continue
			}
			if v, _ := row.Value(models.PriceKey(s.Name)); v != *p.Price {
				t.Errorf("%s@%d price: got %v, want %v", s.Name, p.Year, v, *p.Price)
			}
			if v, _ := row.Value(models.DemandKey(s.Name)); v != *p.Demand {
				t.Errorf("%s@%d demand: got %v, want %v", s.Name, p.Year, v, *p.Demand)
			}
		}
	}
}
