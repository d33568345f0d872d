package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/acidentes-dashboard/internal/config"
)

const testLog = `id,data_inversa,uf,municipio,causa_acidente,classificacao_acidente,fase_dia,mortos,feridos,latitude,longitude
1,2022-01-03,PB,JOAO PESSOA,Chuva,Com Vítimas Feridas,Plena Noite,0,1,"-7,11","-34,86"
1,2022-01-03,PB,JOAO PESSOA,Chuva,Com Vítimas Feridas,Plena Noite,0,1,"-7,11","-34,86"
2,2022-02-10,PE,RECIFE,Sono,Sem Vítimas,Pleno dia,0,0,,
`

const testStates = `{"BR": {"name": "Brasil"}, "PB": {"name": "Paraíba"}, "PE": {"name": "Pernambuco"}}`

// testConfig writes a small log and state catalog and returns a csv-backed config.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "dados.csv")
	statesPath := filepath.Join(dir, "states.json")
	require.NoError(t, os.WriteFile(csvPath, []byte(testLog), 0o644))
	require.NoError(t, os.WriteFile(statesPath, []byte(testStates), 0o644))

	return &config.Config{
		Data: config.DataConfig{
			Source:       "csv",
			CSVPath:      csvPath,
			CSVDelimiter: ",",
			CSVEncoding:  "utf-8",
			StatesPath:   statesPath,
		},
		Store: config.StoreConfig{SQLitePath: filepath.Join(dir, "acidentes.db")},
		IBGE: config.IBGEConfig{
			BaseURL:        "http://127.0.0.1:1",
			GeoJSONBaseURL: "http://127.0.0.1:1",
			TimeoutSecs:    1,
			MaxRetries:     1,
			CacheTTLHours:  1,
		},
		Dashboard: config.DashboardConfig{
			DefaultState:  "BR",
			DefaultCauses: []string{"Chuva"},
			MaxCauses:     3,
		},
		Server: config.ServerConfig{Port: 8050},
		Log:    config.LogConfig{Level: "info", Format: "json"},
	}
}

func resetViewFlags(t *testing.T) {
	t.Helper()
	viewState, viewName, viewCauses, aggRecords, exportOut = "BR", "regions", nil, false, ""
	t.Cleanup(func() {
		viewState, viewName, viewCauses, aggRecords, exportOut = "BR", "regions", nil, false, ""
	})
}
