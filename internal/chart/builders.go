package chart

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/sells-group/acidentes-dashboard/internal/aggregate"
	"github.com/sells-group/acidentes-dashboard/internal/model"
)

// CountLabel is the axis and colour bar label for accident counts.
const CountLabel = "Quantidade de acidentes"

// MapOptions holds map presentation settings.
type MapOptions struct {
	Center     LatLon
	Zoom       float64
	Style      string
	ColorScale string
	Opacity    float64
}

func (o MapOptions) mapbox() *Mapbox {
	style := o.Style
	if style == "" {
		style = "open-street-map"
	}
	return &Mapbox{Style: style, Center: o.Center, Zoom: o.Zoom}
}

// Choropleth colours each region of the boundary GeoJSON by its accident
// count. The national map joins on UF codes, state maps on IBGE ids.
func Choropleth(counts []aggregate.RegionCount, geojson json.RawMessage, state string, opts MapOptions) Figure {
	national := state == model.NationalScope

	locations := make([]any, 0, len(counts))
	z := make([]int, 0, len(counts))
	names := make([]string, 0, len(counts))
	for _, c := range counts {
		if national {
			locations = append(locations, c.Key)
		} else {
			locations = append(locations, fmt.Sprint(c.Code))
		}
		z = append(z, c.Count)
		names = append(names, c.Key)
	}
	lo, hi := aggregate.CountRange(counts)

	colorscale := opts.ColorScale
	if colorscale == "" {
		colorscale = "Viridis"
	}

	trace := Trace{
		Type:          "choroplethmapbox",
		Locations:     locations,
		Z:             z,
		ZMin:          &lo,
		ZMax:          &hi,
		GeoJSON:       geojson,
		ColorScale:    colorscale,
		ColorBar:      &ColorBar{Title: Title{Text: CountLabel}, X: 0},
		HoverText:     names,
		HoverTemplate: "<b>%{hovertext}</b><br>" + CountLabel + "=%{z}<extra></extra>",
		Marker:        &Marker{Opacity: opts.Opacity},
	}
	if !national {
		trace.FeatureIDKey = "properties.id"
	}

	return Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Title:  &Title{Text: "Acidentes no estado: " + state},
			Mapbox: opts.mapbox(),
			Margin: &Margin{L: 0, R: 0, T: 40, B: 0},
		},
	}
}

// Line draws one line per day phase over the months of the timeline.
func Line(points []aggregate.TimelinePoint) Figure {
	byPhase := make(map[string]*Trace)
	var phases, months []string
	for _, p := range points {
		months = append(months, p.Month)
		tr, ok := byPhase[p.DayPhase]
		if !ok {
			tr = &Trace{Type: "scatter", Mode: "lines+markers", Name: p.DayPhase, X: []any{}, Y: []any{}}
			byPhase[p.DayPhase] = tr
			phases = append(phases, p.DayPhase)
		}
		tr.X = append(tr.X, p.Month)
		tr.Y = append(tr.Y, p.Count)
	}
	slices.SortStableFunc(phases, compareDayPhase)

	// Plotly orders categories by first appearance across traces, so the
	// month axis is pinned explicitly.
	slices.Sort(months)
	months = slices.Compact(months)
	axis := make([]any, 0, len(months))
	for _, m := range months {
		axis = append(axis, m)
	}

	data := make([]Trace, 0, len(phases))
	for _, ph := range phases {
		data = append(data, *byPhase[ph])
	}
	return Figure{
		Data: data,
		Layout: Layout{
			XAxis:  &Axis{Title: &Title{Text: "Mês"}, Type: "category", CategoryOrder: "array", CategoryArray: axis},
			YAxis:  &Axis{Title: &Title{Text: CountLabel}},
			Legend: &Legend{Title: &Title{Text: "Fase do dia"}},
		},
	}
}

// Bar draws one bar series per cause, in the order the causes were selected,
// with the day phases on the x axis.
func Bar(counts []aggregate.CauseCount, causes []string) Figure {
	byCause := make(map[string]*Trace)
	var phases []any
	seenPhase := make(map[string]bool)
	for _, c := range counts {
		if !seenPhase[c.DayPhase] {
			seenPhase[c.DayPhase] = true
			phases = append(phases, c.DayPhase)
		}
		tr, ok := byCause[c.Cause]
		if !ok {
			tr = &Trace{Type: "bar", Name: c.Cause, X: []any{}, Y: []any{}}
			byCause[c.Cause] = tr
		}
		tr.X = append(tr.X, c.DayPhase)
		tr.Y = append(tr.Y, c.Count)
	}

	data := make([]Trace, 0, len(byCause))
	for _, cause := range causes {
		if tr, ok := byCause[cause]; ok {
			data = append(data, *tr)
			delete(byCause, cause)
		}
	}

	return Figure{
		Data: data,
		Layout: Layout{
			BarMode: "group",
			XAxis:   &Axis{Title: &Title{Text: "Fase do dia"}, CategoryOrder: "array", CategoryArray: phases},
			YAxis:   &Axis{Title: &Title{Text: CountLabel}},
		},
	}
}

// Scatter places every accident on the map, one series per classification
// from most to least severe.
func Scatter(points []aggregate.Point, opts MapOptions) Figure {
	byClass := make(map[string]*Trace)
	var classes []string
	for _, p := range points {
		tr, ok := byClass[p.Classification]
		if !ok {
			tr = &Trace{
				Type:          "scattermapbox",
				Mode:          "markers",
				Name:          p.Classification,
				Marker:        &Marker{Size: 8, Opacity: opts.Opacity},
				HoverTemplate: "<b>%{text}</b><br>%{customdata[0]}<br>%{customdata[1]}<br>Mortos=%{customdata[2]} Feridos=%{customdata[3]}<extra></extra>",
			}
			byClass[p.Classification] = tr
			classes = append(classes, p.Classification)
		}
		tr.Lat = append(tr.Lat, p.Latitude)
		tr.Lon = append(tr.Lon, p.Longitude)
		tr.Text = append(tr.Text, p.Municipality)
		tr.CustomData = append(tr.CustomData, []any{p.Cause, p.Date, p.Deaths, p.Injured})
	}
	slices.SortStableFunc(classes, func(a, b string) int {
		switch {
		case aggregate.LessSeverity(a, b):
			return -1
		case aggregate.LessSeverity(b, a):
			return 1
		}
		return 0
	})

	data := make([]Trace, 0, len(classes))
	for _, c := range classes {
		data = append(data, *byClass[c])
	}
	return Figure{
		Data: data,
		Layout: Layout{
			Mapbox: opts.mapbox(),
			Margin: &Margin{L: 0, R: 0, T: 40, B: 0},
		},
	}
}

func compareDayPhase(a, b string) int {
	switch {
	case aggregate.LessDayPhase(a, b):
		return -1
	case aggregate.LessDayPhase(b, a):
		return 1
	}
	return 0
}
