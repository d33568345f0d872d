package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/acidentes-dashboard/internal/model"
)

func TestCauseBreakdown_National(t *testing.T) {
	got := CauseBreakdown(fixture(), model.NationalScope, []string{"Ingestão de Álcool", "Chuva"})

	assert.Equal(t, []CauseCount{
		{DayPhase: "Pleno dia", Cause: "Chuva", Count: 2},
		{DayPhase: "Anoitecer", Cause: "Chuva", Count: 1},
		{DayPhase: "Plena Noite", Cause: "Ingestão de Álcool", Count: 1},
		{DayPhase: "Plena Noite", Cause: "Chuva", Count: 1},
	}, got)
}

func TestCauseBreakdown_State(t *testing.T) {
	got := CauseBreakdown(fixture(), "PB", []string{"Chuva"})

	assert.Equal(t, []CauseCount{
		{DayPhase: "Pleno dia", Cause: "Chuva", Count: 1},
		{DayPhase: "Plena Noite", Cause: "Chuva", Count: 1},
	}, got)
}

func TestCauseBreakdown_NoCauses(t *testing.T) {
	got := CauseBreakdown(fixture(), model.NationalScope, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLimitCauses(t *testing.T) {
	tests := []struct {
		name      string
		in        []string
		limit     int
		want      []string
		truncated bool
	}{
		{"within limit", []string{"Chuva", "Sono"}, 3, []string{"Chuva", "Sono"}, false},
		{"at limit", []string{"a", "b", "c"}, 3, []string{"a", "b", "c"}, false},
		{"over limit keeps first", []string{"a", "b", "c", "d"}, 3, []string{"a", "b", "c"}, true},
		{"duplicates and blanks removed", []string{"a", "a", " ", "b"}, 3, []string{"a", "b"}, false},
		{"no limit", []string{"a", "b", "c", "d"}, 0, []string{"a", "b", "c", "d"}, false},
		{"empty", nil, 3, []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := LimitCauses(tt.in, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.truncated, truncated)
		})
	}
}

func TestCauseTable(t *testing.T) {
	tbl := CauseTable([]CauseCount{{DayPhase: "Amanhecer", Cause: "Chuva", Count: 3}})
	assert.Equal(t, [][]any{{"Amanhecer", "Chuva", 3}}, tbl.Rows)
}
