// Package model defines the accident log records and reference types shared by the dashboard.
package model

import "time"

// NationalScope selects every state at once.
const NationalScope = "BR"

// Accident is one row of the PRF accident log. The log may be per-person, so
// the same ID can appear on several rows.
type Accident struct {
	ID             string    `json:"id"`
	Date           time.Time `json:"data_inversa"`
	Weekday        string    `json:"dia_semana,omitempty"`
	Time           string    `json:"horario,omitempty"`
	UF             string    `json:"uf"`
	BR             string    `json:"br,omitempty"`
	KM             float64   `json:"km,omitempty"`
	Municipality   string    `json:"municipio"`
	Cause          string    `json:"causa_acidente"`
	Type           string    `json:"tipo_acidente,omitempty"`
	Classification string    `json:"classificacao_acidente,omitempty"`
	DayPhase       string    `json:"fase_dia,omitempty"`
	Weather        string    `json:"condicao_metereologica,omitempty"`
	People         int       `json:"pessoas"`
	Deaths         int       `json:"mortos"`
	Injured        int       `json:"feridos"`
	Vehicles       int       `json:"veiculos"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	HasCoords      bool      `json:"-"`
}

// Month returns the YYYY-MM bucket of the accident date, or "" when the date is unknown.
func (a Accident) Month() string {
	if a.Date.IsZero() {
		return ""
	}
	return a.Date.Format("2006-01")
}

// InScope reports whether the accident belongs to the given scope.
func (a Accident) InScope(state string) bool {
	return state == NationalScope || a.UF == state
}
