// Package store provides the accident log backends: the CSV file itself or a
// SQL table loaded from it by the import command.
package store

import (
	"context"
	"time"

	"github.com/sells-group/acidentes-dashboard/internal/model"
)

// Source provides the accident log.
type Source interface {
	Accidents(ctx context.Context) ([]model.Accident, error)
}

// Import records one load of the accident table.
type Import struct {
	BatchID    string    `json:"batch_id"`
	Rows       int64     `json:"rows"`
	ImportedAt time.Time `json:"imported_at"`
}

// Store is a SQL-backed Source that can be reloaded.
type Store interface {
	Source

	// ReplaceAccidents swaps the accident table for rows in one transaction
	// and records the import under batchID.
	ReplaceAccidents(ctx context.Context, batchID string, rows []model.Accident) (int64, error)

	// Imports lists past loads, newest first.
	Imports(ctx context.Context) ([]Import, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// accidentColumns is the column order of the accidents table. row_num keeps
// the log's file order.
var accidentColumns = []string{
	"row_num", "batch_id", "id", "data_inversa", "dia_semana", "horario", "uf", "br", "km",
	"municipio", "causa_acidente", "tipo_acidente", "classificacao_acidente", "fase_dia",
	"condicao_metereologica", "pessoas", "mortos", "feridos", "veiculos", "latitude", "longitude",
}

// selectAccidents reads the table back in file order; the date is the fourth
// column read.
const selectAccidents = `SELECT id, data_inversa, dia_semana, horario, uf, br, km, municipio,
	causa_acidente, tipo_acidente, classificacao_acidente, fase_dia, condicao_metereologica,
	pessoas, mortos, feridos, veiculos, latitude, longitude
FROM accidents ORDER BY row_num`

// accidentValues flattens one accident in accidentColumns order; date is the
// backend's representation of the accident date.
func accidentValues(rowNum int, batchID string, a model.Accident, date any) []any {
	var lat, lon any
	if a.HasCoords {
		lat, lon = a.Latitude, a.Longitude
	}
	return []any{
		rowNum, batchID, a.ID, date, a.Weekday, a.Time, a.UF, a.BR, a.KM,
		a.Municipality, a.Cause, a.Type, a.Classification, a.DayPhase,
		a.Weather, a.People, a.Deaths, a.Injured, a.Vehicles, lat, lon,
	}
}

type scannable interface {
	Scan(dest ...any) error
}

// scanAccident reads one selectAccidents row, scanning the date into date.
func scanAccident(row scannable, date any) (model.Accident, error) {
	var (
		a        model.Accident
		lat, lon *float64
	)
	err := row.Scan(
		&a.ID, date, &a.Weekday, &a.Time, &a.UF, &a.BR, &a.KM, &a.Municipality,
		&a.Cause, &a.Type, &a.Classification, &a.DayPhase, &a.Weather,
		&a.People, &a.Deaths, &a.Injured, &a.Vehicles, &lat, &lon,
	)
	if err != nil {
		return model.Accident{}, err
	}
	if lat != nil && lon != nil {
		a.Latitude, a.Longitude, a.HasCoords = *lat, *lon, true
	}
	return a, nil
}
