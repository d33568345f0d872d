package aggregate

import (
	"time"

	"github.com/sells-group/acidentes-dashboard/internal/model"
)

func day(month, d int) time.Time {
	return time.Date(2022, time.Month(month), d, 0, 0, 0, 0, time.UTC)
}

// fixture is a small per-person log: accident 1 involves two people, so it
// appears twice.
func fixture() []model.Accident {
	return []model.Accident{
		{ID: "1", UF: "PB", Municipality: "JOAO PESSOA", Cause: "Chuva", DayPhase: "Plena Noite", Classification: "Com Vítimas Feridas", Date: day(1, 3), Latitude: -7.11, Longitude: -34.86, HasCoords: true},
		{ID: "1", UF: "PB", Municipality: "JOAO PESSOA", Cause: "Chuva", DayPhase: "Plena Noite", Classification: "Com Vítimas Feridas", Date: day(1, 3), Latitude: -7.11, Longitude: -34.86, HasCoords: true},
		{ID: "2", UF: "PB", Municipality: "CAMPINA GRANDE", Cause: "Velocidade Incompatível", DayPhase: "Amanhecer", Classification: "Com Vítimas Fatais", Date: day(1, 9), Latitude: -7.23, Longitude: -35.88, HasCoords: true, Deaths: 1},
		{ID: "3", UF: "PB", Municipality: "JOAO PESSOA", Cause: "Chuva", DayPhase: "Pleno dia", Classification: "Sem Vítimas", Date: day(2, 1)},
		{ID: "4", UF: "PE", Municipality: "RECIFE", Cause: "Chuva", DayPhase: "Anoitecer", Classification: "Sem Vítimas", Date: day(1, 20), Latitude: -8.05, Longitude: -34.9, HasCoords: true},
		{ID: "5", UF: "PE", Municipality: "RECIFE", Cause: "Ingestão de Álcool", DayPhase: "Plena Noite", Classification: "Com Vítimas Feridas", Date: day(2, 14), Latitude: -8.06, Longitude: -34.91, HasCoords: true},
		{ID: "6", UF: "AL", Municipality: "MACEIO", Cause: "Chuva", DayPhase: "Pleno dia", Classification: "Com Vítimas Feridas", Date: day(1, 2)},
		{ID: "", UF: "AL", Municipality: "MACEIO", Cause: "Chuva", DayPhase: "Pleno dia"},
	}
}
