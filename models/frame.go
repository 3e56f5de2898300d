package models

// Field name suffixes for the per-series columns of a pivoted row.
const (
	PriceSuffix  = "_price"
	DemandSuffix = "_demand"
)

// PriceKey is the pivoted column holding a series' price.
func PriceKey(series string) string { return series + PriceSuffix }

// DemandKey is the pivoted column holding a series' demand.
func DemandKey(series string) string { return series + DemandSuffix }

// FrameRow is one year of a pivoted frame. A key is absent when the series
// has no point at that year; a present key with a nil value means the point
// exists but the service reported no number.
type FrameRow struct {
	Year   int
	Fields map[string]*float64
}

// Has reports whether key is present in the row.
func (r FrameRow) Has(key string) bool {
	_, ok := r.Fields[key]
	return ok
}

// Value returns the numeric value for key and whether it is usable.
func (r FrameRow) Value(key string) (float64, bool) {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// Frame is a year-ascending sequence of pivoted rows. It is derived from a
// payload's chart on every render and never stored.
type Frame []FrameRow

// Years lists the frame's years in order.
func (f Frame) Years() []int {
	years := make([]int, len(f))
	for i, r := range f {
		years[i] = r.Year
	}
	return years
}
