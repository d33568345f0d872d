package model

import "strings"

// ChartType is the right-hand visualization mode.
type ChartType string

const (
	ChartScatter ChartType = "scatter"
	ChartLine    ChartType = "line"
	ChartBar     ChartType = "bar"
)

// ChartTypes lists the modes in selector order.
var ChartTypes = []ChartType{ChartScatter, ChartLine, ChartBar}

var chartLabels = map[ChartType]string{
	ChartScatter: "Dispersão",
	ChartLine:    "Linha",
	ChartBar:     "Barra",
}

// Label returns the Portuguese selector label.
func (c ChartType) Label() string {
	return chartLabels[c]
}

// Valid reports whether c is a known chart type.
func (c ChartType) Valid() bool {
	_, ok := chartLabels[c]
	return ok
}

// ParseChartType accepts either the identifier or the UI label (" Barra" included).
func ParseChartType(s string) (ChartType, bool) {
	s = strings.TrimSpace(s)
	if ct := ChartType(s); ct.Valid() {
		return ct, true
	}
	for ct, label := range chartLabels {
		if label == s {
			return ct, true
		}
	}
	return "", false
}

// View names a tabular aggregation.
type View string

const (
	ViewRegions  View = "regions"
	ViewTimeline View = "timeline"
	ViewCauses   View = "causes"
	ViewPoints   View = "points"
)

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	switch v {
	case ViewRegions, ViewTimeline, ViewCauses, ViewPoints:
		return true
	}
	return false
}
