package aggregate

import (
	"slices"
	"strings"

	"github.com/sells-group/acidentes-dashboard/internal/model"
)

// Point is one accident placed on the scatter map.
type Point struct {
	ID             string  `json:"id"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Municipality   string  `json:"municipio"`
	Cause          string  `json:"causa_acidente"`
	Classification string  `json:"classificacao_acidente"`
	Date           string  `json:"data_inversa,omitempty"`
	Deaths         int     `json:"mortos"`
	Injured        int     `json:"feridos"`
}

// Points returns one point per distinct accident in the scope (first row
// with coordinates wins), skipping accidents that have none. Points are sorted by
// severity and then by id.
func Points(rows []model.Accident, state string) []Point {
	seen := make(map[string]struct{})
	out := make([]Point, 0)
	for _, a := range rows {
		if !a.InScope(state) || a.ID == "" || !a.HasCoords {
			continue
		}
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		p := Point{
			ID:             a.ID,
			Latitude:       a.Latitude,
			Longitude:      a.Longitude,
			Municipality:   a.Municipality,
			Cause:          a.Cause,
			Classification: a.Classification,
			Deaths:         a.Deaths,
			Injured:        a.Injured,
		}
		if !a.Date.IsZero() {
			p.Date = a.Date.Format("2006-01-02")
		}
		out = append(out, p)
	}

	slices.SortFunc(out, func(a, b Point) int {
		switch {
		case LessSeverity(a.Classification, b.Classification):
			return -1
		case LessSeverity(b.Classification, a.Classification):
			return 1
		}
		if c := strings.Compare(a.Classification, b.Classification); c != 0 {
			return c
		}
		return compareID(a.ID, b.ID)
	})
	return out
}

// PointTable renders points as a table.
func PointTable(points []Point) Table {
	t := Table{
		Columns: []string{"id", "latitude", "longitude", "municipio", "causa_acidente", "classificacao_acidente", "data_inversa", "mortos", "feridos"},
		Rows:    make([][]any, 0, len(points)),
	}
	for _, p := range points {
		t.Rows = append(t.Rows, []any{p.ID, p.Latitude, p.Longitude, p.Municipality, p.Cause, p.Classification, p.Date, p.Deaths, p.Injured})
	}
	return t
}

// compareID orders numeric ids by value and anything else lexically.
// Numeric ids equal in value fall back to lexical order.
func compareID(a, b string) int {
	if isDigits(a) && isDigits(b) {
		ta, tb := trimZeros(a), trimZeros(b)
		if len(ta) != len(tb) {
			return len(ta) - len(tb)
		}
		if c := strings.Compare(ta, tb); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

func trimZeros(s string) string {
	if t := strings.TrimLeft(s, "0"); t != "" {
		return t
	}
	return "0"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
