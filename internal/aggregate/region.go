package aggregate

import (
	"errors"
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/acidentes-dashboard/internal/model"
	"github.com/sells-group/acidentes-dashboard/internal/textnorm"
)

// ErrUnknownCity is returned when a municipality in the log has no IBGE match.
var ErrUnknownCity = errors.New("aggregate: municipality not found in IBGE list")

// RegionCount is the number of distinct accidents in one state (national
// scope) or one municipality (state scope). Code is the IBGE municipality id
// once AttachCityCodes has run.
type RegionCount struct {
	Key   string `json:"key"`
	Code  int    `json:"id,omitempty"`
	Count int    `json:"count"`
}

// RegionCounts counts distinct accidents per state for the national scope,
// or per municipality of the given state, sorted by region name.
func RegionCounts(rows []model.Accident, state string) []RegionCount {
	national := state == model.NationalScope
	key := func(a model.Accident) string {
		if national {
			return a.UF
		}
		return a.Municipality
	}

	counter := newDistinctCounter[string]()
	for _, a := range rows {
		if !national && a.UF != state {
			continue
		}
		k := key(a)
		if k == "" || a.ID == "" {
			continue
		}
		counter.add(k, a.ID)
	}

	out := make([]RegionCount, 0, counter.len())
	for _, k := range counter.keys {
		out = append(out, RegionCount{Key: k, Count: counter.count(k)})
	}
	slices.SortFunc(out, func(a, b RegionCount) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

// AttachCityCodes sets the IBGE id on every municipality count and re-sorts
// by count ascending. Names are matched on their folded form (upper-case,
// no diacritics, no apostrophes); when two IBGE names fold alike the first
// one listed wins. A municipality with no match fails with ErrUnknownCity.
func AttachCityCodes(counts []RegionCount, municipalities []model.Municipality) ([]RegionCount, error) {
	codes := make(map[string]int, len(municipalities))
	for _, m := range municipalities {
		k := textnorm.Fold(m.Name)
		if _, ok := codes[k]; !ok {
			codes[k] = m.ID
		}
	}

	out := make([]RegionCount, len(counts))
	for i, c := range counts {
		code, ok := codes[textnorm.Fold(c.Key)]
		if !ok {
			return nil, eris.Wrapf(ErrUnknownCity, "municipality %q", c.Key)
		}
		c.Code = code
		out[i] = c
	}

	slices.SortStableFunc(out, func(a, b RegionCount) int {
		return a.Count - b.Count
	})
	return out, nil
}

// CountRange returns the smallest and largest count, or (0, 0) when empty.
func CountRange(counts []RegionCount) (lo, hi int) {
	for i, c := range counts {
		if i == 0 || c.Count < lo {
			lo = c.Count
		}
		if i == 0 || c.Count > hi {
			hi = c.Count
		}
	}
	return lo, hi
}

// RegionTable renders counts with the column names the map uses for the scope.
func RegionTable(counts []RegionCount, state string) Table {
	if state == model.NationalScope {
		t := Table{Columns: []string{"uf", "count"}, Rows: make([][]any, 0, len(counts))}
		for _, c := range counts {
			t.Rows = append(t.Rows, []any{c.Key, c.Count})
		}
		return t
	}
	t := Table{Columns: []string{"municipio", "id", "count"}, Rows: make([][]any, 0, len(counts))}
	for _, c := range counts {
		t.Rows = append(t.Rows, []any{c.Key, c.Code, c.Count})
	}
	return t
}
