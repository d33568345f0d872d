package aggregate

import (
	"slices"
	"strings"

	"github.com/sells-group/acidentes-dashboard/internal/model"
)

// TimelinePoint is the number of distinct accidents in one month and day phase.
type TimelinePoint struct {
	Month    string `json:"month"`
	DayPhase string `json:"fase_dia"`
	Count    int    `json:"count"`
}

type monthPhase struct {
	month, phase string
}

// Timeline counts distinct accidents per (month, day phase) within the scope,
// sorted by month and then dawn, day, dusk, night. Rows without a date or
// day phase are skipped.
func Timeline(rows []model.Accident, state string) []TimelinePoint {
	counter := newDistinctCounter[monthPhase]()
	for _, a := range rows {
		if !a.InScope(state) || a.ID == "" || a.DayPhase == "" {
			continue
		}
		month := a.Month()
		if month == "" {
			continue
		}
		counter.add(monthPhase{month: month, phase: a.DayPhase}, a.ID)
	}

	out := make([]TimelinePoint, 0, counter.len())
	for _, k := range counter.keys {
		out = append(out, TimelinePoint{Month: k.month, DayPhase: k.phase, Count: counter.count(k)})
	}
	slices.SortFunc(out, func(a, b TimelinePoint) int {
		if c := strings.Compare(a.Month, b.Month); c != 0 {
			return c
		}
		if c := compareDayPhase(a.DayPhase, b.DayPhase); c != 0 {
			return c
		}
		return strings.Compare(a.DayPhase, b.DayPhase)
	})
	return out
}

// TimelineTable renders timeline points as a table.
func TimelineTable(points []TimelinePoint) Table {
	t := Table{Columns: []string{"mes", "fase_dia", "count"}, Rows: make([][]any, 0, len(points))}
	for _, p := range points {
		t.Rows = append(t.Rows, []any{p.Month, p.DayPhase, p.Count})
	}
	return t
}
