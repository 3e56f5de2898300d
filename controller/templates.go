package controller

import "fmt"

// Template is a ready-made query offered to the user.
type Template struct {
	Label string
	Query string
}

// Templates are the quick queries shown next to the prompt.
var Templates = []Template{
	{"Analysis of Wakad", "Give me analysis of Wakad"},
	{"Analysis of Akurdi", "Give me analysis of Akurdi"},
	{"Analysis of Ambegaon Budruk", "Give me analysis of Ambegaon Budruk"},
	{"Analysis of Aundh", "Give me analysis of Aundh"},
	{"Ambegaon vs Aundh demand", "Compare Ambegaon Budruk and Aundh demand trends"},
	{"Wakad vs Aundh prices", "Compare Wakad and Aundh price trends from 2020 to 2024"},
	{"Wakad · Aundh · Akurdi", "Compare price and demand for Wakad, Aundh and Akurdi"},
	{"Ambegaon vs Wakad demand", "Which locality has higher demand between Ambegaon Budruk and Wakad?"},
	{"Akurdi 5-year trend", "Show 5-year price trend for Akurdi"},
	{"Ambegaon price growth", "Show price growth for Ambegaon Budruk over the last 3 years"},
}

// TemplateQuery returns the query of the 1-based template n.
func TemplateQuery(n int) (string, error) {
	if n < 1 || n > len(Templates) {
		return "", fmt.Errorf("template %d out of range 1-%d", n, len(Templates))
	}
	return Templates[n-1].Query, nil
}
