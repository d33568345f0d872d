package aggregate

import (
	"github.com/sells-group/acidentes-dashboard/internal/textnorm"
)

// DayPhases lists the PRF day phases from dawn to night.
var DayPhases = []string{"Amanhecer", "Pleno dia", "Anoitecer", "Plena Noite"}

// Severities lists accident classifications from most to least severe.
var Severities = []string{"Com Vítimas Fatais", "Com Vítimas Feridas", "Sem Vítimas"}

var (
	phaseRank    = rankOf(DayPhases)
	severityRank = rankOf(Severities)
)

func rankOf(values []string) map[string]int {
	m := make(map[string]int, len(values))
	for i, v := range values {
		m[textnorm.Fold(v)] = i
	}
	return m
}

// lessRanked orders known values by rank, then unknown values alphabetically.
func lessRanked(ranks map[string]int, a, b string) bool {
	ra, okA := ranks[textnorm.Fold(a)]
	rb, okB := ranks[textnorm.Fold(b)]
	switch {
	case okA && okB:
		return ra < rb
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

// LessDayPhase orders day phases dawn, day, dusk, night; unknown phases
// follow alphabetically.
func LessDayPhase(a, b string) bool {
	return lessRanked(phaseRank, a, b)
}

// LessSeverity orders classifications fatal, injured, no victims; unknown
// classifications follow alphabetically.
func LessSeverity(a, b string) bool {
	return lessRanked(severityRank, a, b)
}

// compareDayPhase is LessDayPhase as a three-way comparison.
func compareDayPhase(a, b string) int {
	switch {
	case LessDayPhase(a, b):
		return -1
	case LessDayPhase(b, a):
		return 1
	}
	return 0
}
