// Package chart builds Plotly figure JSON for the dashboard views.
package chart

import "encoding/json"

// Figure is a Plotly figure: a list of traces plus a layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one Plotly trace. Only the attributes the dashboard uses are modelled.
type Trace struct {
	Type          string          `json:"type"`
	Name          string          `json:"name,omitempty"`
	Mode          string          `json:"mode,omitempty"`
	X             []any           `json:"x,omitempty"`
	Y             []any           `json:"y,omitempty"`
	Z             []int           `json:"z,omitempty"`
	ZMin          *int            `json:"zmin,omitempty"`
	ZMax          *int            `json:"zmax,omitempty"`
	Locations     []any           `json:"locations,omitempty"`
	GeoJSON       json.RawMessage `json:"geojson,omitempty"`
	FeatureIDKey  string          `json:"featureidkey,omitempty"`
	ColorScale    string          `json:"colorscale,omitempty"`
	ColorBar      *ColorBar       `json:"colorbar,omitempty"`
	Lat           []float64       `json:"lat,omitempty"`
	Lon           []float64       `json:"lon,omitempty"`
	Text          []string        `json:"text,omitempty"`
	HoverText     []string        `json:"hovertext,omitempty"`
	HoverTemplate string          `json:"hovertemplate,omitempty"`
	CustomData    [][]any         `json:"customdata,omitempty"`
	Marker        *Marker         `json:"marker,omitempty"`
}

// Marker styles trace markers.
type Marker struct {
	Opacity float64 `json:"opacity,omitempty"`
	Size    int     `json:"size,omitempty"`
}

// ColorBar places the continuous colour legend.
type ColorBar struct {
	Title Title   `json:"title"`
	X     float64 `json:"x"`
}

// Layout is the Plotly layout subset the dashboard sets.
type Layout struct {
	Title        *Title  `json:"title,omitempty"`
	Mapbox       *Mapbox `json:"mapbox,omitempty"`
	Legend       *Legend `json:"legend,omitempty"`
	XAxis        *Axis   `json:"xaxis,omitempty"`
	YAxis        *Axis   `json:"yaxis,omitempty"`
	BarMode      string  `json:"barmode,omitempty"`
	PlotBGColor  string  `json:"plot_bgcolor,omitempty"`
	PaperBGColor string  `json:"paper_bgcolor,omitempty"`
	Font         *Font   `json:"font,omitempty"`
	Margin       *Margin `json:"margin,omitempty"`
}

// Title is a text title.
type Title struct {
	Text string `json:"text"`
}

// Mapbox configures map-based traces.
type Mapbox struct {
	Style  string  `json:"style"`
	Center LatLon  `json:"center"`
	Zoom   float64 `json:"zoom"`
}

// LatLon is a map coordinate.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Legend positions the trace legend.
type Legend struct {
	Title       *Title  `json:"title,omitempty"`
	Orientation string  `json:"orientation,omitempty"`
	EntryWidth  int     `json:"entrywidth,omitempty"`
	YAnchor     string  `json:"yanchor,omitempty"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor,omitempty"`
	X           float64 `json:"x"`
}

// Axis is a cartesian axis.
type Axis struct {
	Title         *Title `json:"title,omitempty"`
	Type          string `json:"type,omitempty"`
	CategoryOrder string `json:"categoryorder,omitempty"`
	CategoryArray []any  `json:"categoryarray,omitempty"`
}

// Font sets text styling.
type Font struct {
	Color string `json:"color"`
}

// Margin sets plot margins in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Legend x positions.
const (
	LegendRight  = 0.9
	LegendCenter = 0.5
)

// ApplyTheme makes the backgrounds transparent and the text white so figures
// sit on the dashboard's dark page.
func ApplyTheme(f *Figure) {
	f.Layout.PlotBGColor = "rgba(0,0,0,0)"
	f.Layout.PaperBGColor = "rgba(0,0,0,0)"
	f.Layout.Font = &Font{Color: "#FFFFFF"}
}

// SetLegend lays the legend out horizontally under the plot, anchored at x.
func SetLegend(f *Figure, x float64) {
	var title *Title
	if f.Layout.Legend != nil {
		title = f.Layout.Legend.Title
	}
	f.Layout.Legend = &Legend{
		Title:       title,
		Orientation: "h",
		EntryWidth:  70,
		YAnchor:     "top",
		Y:           -0.1,
		XAnchor:     "right",
		X:           x,
	}
}
