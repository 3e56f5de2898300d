package services

import (
	"locality-insights/models"
	"locality-insights/utils"
)

// Inspection summarises data-quality issues found in a payload's chart.
type Inspection struct {
	Series          int
	Points          int
	MalformedPoints int
	// DuplicateYears counts same-year points beyond the first, per series.
	DuplicateYears map[string]int
	EmptySeries    []string
}

// Clean reports whether nothing suspicious was found.
func (i Inspection) Clean() bool {
	return i.MalformedPoints == 0 && len(i.DuplicateYears) == 0
}

// Inspector reports chart points the aligner silently drops or ignores.
// It never modifies the payload.
type Inspector struct {
	logger *utils.Logger
}

// NewInspector creates an Inspector with the given logger.
func NewInspector(logger *utils.Logger) *Inspector {
	return &Inspector{logger: logger}
}

// Inspect walks every series of the payload's chart.
func (in *Inspector) Inspect(p *models.InsightPayload) Inspection {
	res := Inspection{DuplicateYears: make(map[string]int)}
	if p == nil {
		return res
	}

	for _, s := range p.Chart {
		res.Series++
		if len(s.Points) == 0 {
			res.EmptySeries = append(res.EmptySeries, s.Name)
			continue
		}

		seen := make(map[int]struct{}, len(s.Points))
		for _, pt := range s.Points {
			res.Points++
			if !pt.Valid() {
				res.MalformedPoints++
				continue
			}
			if _, dup := seen[pt.Year]; dup {
				res.DuplicateYears[s.Name]++
				in.logger.Warn("[inspector] %s has more than one point for %d, keeping the first", s.Name, pt.Year)
				continue
			}
			seen[pt.Year] = struct{}{}
		}
	}

	if res.MalformedPoints > 0 {
		in.logger.Debug("[inspector] Dropping %d chart points without a year", res.MalformedPoints)
	}
	return res
}
