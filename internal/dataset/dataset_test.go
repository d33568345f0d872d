package dataset

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

const sampleCSV = `id,data_inversa,dia_semana,horario,uf,br,km,municipio,causa_acidente,tipo_acidente,classificacao_acidente,fase_dia,condicao_metereologica,pessoas,mortos,feridos_leves,feridos_graves,veiculos,latitude,longitude
405151,2022-01-01,sábado,01:35:00,PB,230.0,"35,7",JOAO PESSOA,Chuva,Colisão traseira,Com Vítimas Feridas,Plena Noite,Chuva,2,0,1,0,2,"-7,1195","-34,8450"
405151,2022-01-01,sábado,01:35:00,PB,230.0,"35,7",JOAO PESSOA,Chuva,Colisão traseira,Com Vítimas Feridas,Plena Noite,Chuva,2,0,1,0,2,"-7,1195","-34,8450"
405160,2022-01-02,domingo,14:00:00,pe,101,12,RECIFE,Velocidade Incompatível,Saída de leito carroçável,Sem Vítimas,Pleno dia,Céu Claro,1,0,0,0,1,,
`

func TestLoad(t *testing.T) {
	rows, err := Load(context.Background(), strings.NewReader(sampleCSV), Options{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, "405151", first.ID)
	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "PB", first.UF)
	assert.Equal(t, "230", first.BR)
	assert.InDelta(t, 35.7, first.KM, 0.001)
	assert.Equal(t, "JOAO PESSOA", first.Municipality)
	assert.Equal(t, "Chuva", first.Cause)
	assert.Equal(t, "Plena Noite", first.DayPhase)
	assert.Equal(t, "Com Vítimas Feridas", first.Classification)
	assert.Equal(t, 1, first.Injured)
	assert.Equal(t, 2, first.Vehicles)
	assert.True(t, first.HasCoords)
	assert.InDelta(t, -7.1195, first.Latitude, 0.00001)
	assert.InDelta(t, -34.8450, first.Longitude, 0.00001)

	third := rows[2]
	assert.Equal(t, "PE", third.UF, "uf is upper-cased")
	assert.False(t, third.HasCoords)
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	_, err := Load(context.Background(), strings.NewReader("id,uf,causa_acidente\n1,PB,Chuva\n"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"municipio"`)
}

func TestLoad_Empty(t *testing.T) {
	_, err := Load(context.Background(), strings.NewReader(""), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header row missing")
}

func TestLoad_HeaderOnly(t *testing.T) {
	rows, err := Load(context.Background(), strings.NewReader("id,uf,municipio,causa_acidente\n"), Options{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLoad_SemicolonLatin1(t *testing.T) {
	input := "id;uf;municipio;causa_acidente;feridos\n7;SP;S\xc3O PAULO;Chuva;3\n"
	// \xc3 is Ã in ISO-8859-1.
	rows, err := Load(context.Background(), strings.NewReader(input), Options{Delimiter: ';', Encoding: "iso-8859-1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SÃO PAULO", rows[0].Municipality)
	assert.Equal(t, 3, rows[0].Injured, "feridos column wins over leves+graves")
}

func TestLoad_ShortRow(t *testing.T) {
	rows, err := Load(context.Background(), strings.NewReader("id,uf,municipio,causa_acidente,fase_dia\n1,PB,PATOS,Chuva\n"), Options{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].DayPhase)
}

func TestLoadFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dados.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	rows, err := LoadFile(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset: open")
}

func TestLoadFile_ZIP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datatran2022.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	fw, err := w.Create("datatran2022.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	rows, err := LoadFile(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestLoadFile_XLSX(t *testing.T) {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("dados")
	require.NoError(t, err)
	for _, r := range [][]string{
		{"id", "uf", "municipio", "causa_acidente"},
		{"1", "PB", "PATOS", "Chuva"},
	} {
		row := sheet.AddRow()
		for _, c := range r {
			row.AddCell().SetString(c)
		}
	}
	path := filepath.Join(t.TempDir(), "dados.xlsx")
	require.NoError(t, wb.Save(path))

	rows, err := LoadFile(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PATOS", rows[0].Municipality)
}

func TestCauses(t *testing.T) {
	rows, err := Load(context.Background(), strings.NewReader(sampleCSV), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Chuva", "Velocidade Incompatível"}, Causes(rows))
}
