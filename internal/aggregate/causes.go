package aggregate

import (
	"slices"
	"strings"

	"github.com/sells-group/acidentes-dashboard/internal/model"
)

// CauseCount is the number of distinct accidents with one cause in one day phase.
type CauseCount struct {
	DayPhase string `json:"fase_dia"`
	Cause    string `json:"causa_acidente"`
	Count    int    `json:"count"`
}

type phaseCause struct {
	phase, cause string
}

// CauseBreakdown counts distinct accidents per (day phase, cause) for the
// selected causes within the scope. Results are sorted by day phase and then
// by the position of the cause in causes. No causes means no rows.
func CauseBreakdown(rows []model.Accident, state string, causes []string) []CauseCount {
	position := make(map[string]int, len(causes))
	for i, c := range causes {
		if _, ok := position[c]; !ok {
			position[c] = i
		}
	}
	if len(position) == 0 {
		return []CauseCount{}
	}

	counter := newDistinctCounter[phaseCause]()
	for _, a := range rows {
		if !a.InScope(state) || a.ID == "" || a.DayPhase == "" {
			continue
		}
		if _, ok := position[a.Cause]; !ok {
			continue
		}
		counter.add(phaseCause{phase: a.DayPhase, cause: a.Cause}, a.ID)
	}

	out := make([]CauseCount, 0, counter.len())
	for _, k := range counter.keys {
		out = append(out, CauseCount{DayPhase: k.phase, Cause: k.cause, Count: counter.count(k)})
	}
	slices.SortFunc(out, func(a, b CauseCount) int {
		if c := compareDayPhase(a.DayPhase, b.DayPhase); c != 0 {
			return c
		}
		if c := strings.Compare(a.DayPhase, b.DayPhase); c != 0 {
			return c
		}
		return position[a.Cause] - position[b.Cause]
	})
	return out
}

// LimitCauses removes empty and repeated causes, then keeps at most limit of
// them (limit <= 0 keeps all). truncated reports whether the selection was cut.
func LimitCauses(selected []string, limit int) (kept []string, truncated bool) {
	seen := make(map[string]struct{}, len(selected))
	kept = make([]string, 0, len(selected))
	for _, c := range selected {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		kept = append(kept, c)
	}
	if limit > 0 && len(kept) > limit {
		return kept[:limit], true
	}
	return kept, false
}

// CauseTable renders cause counts as a table.
func CauseTable(counts []CauseCount) Table {
	t := Table{Columns: []string{"fase_dia", "causa_acidente", "count"}, Rows: make([][]any, 0, len(counts))}
	for _, c := range counts {
		t.Rows = append(t.Rows, []any{c.DayPhase, c.Cause, c.Count})
	}
	return t
}
