package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/acidentes-dashboard/internal/aggregate"
)

func TestAggregateCmd_Regions(t *testing.T) {
	cfg = testConfig(t)
	resetViewFlags(t)

	var out bytes.Buffer
	aggregateCmd.SetOut(&out)
	aggregateCmd.SetContext(context.Background())
	defer aggregateCmd.SetOut(nil)

	require.NoError(t, aggregateCmd.RunE(aggregateCmd, nil))

	var tbl aggregate.Table
	require.NoError(t, json.Unmarshal(out.Bytes(), &tbl))
	assert.Equal(t, []string{"uf", "count"}, tbl.Columns)
	assert.Len(t, tbl.Rows, 2)
}

func TestAggregateCmd_Records(t *testing.T) {
	cfg = testConfig(t)
	resetViewFlags(t)
	viewName = "causes"
	viewCauses = []string{"Sono"}
	aggRecords = true

	var out bytes.Buffer
	aggregateCmd.SetOut(&out)
	aggregateCmd.SetContext(context.Background())
	defer aggregateCmd.SetOut(nil)

	require.NoError(t, aggregateCmd.RunE(aggregateCmd, nil))

	var recs []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "causa_acidente")
}

func TestAggregateCmd_UnknownView(t *testing.T) {
	cfg = testConfig(t)
	resetViewFlags(t)
	viewName = "heatmap"

	aggregateCmd.SetContext(context.Background())
	err := aggregateCmd.RunE(aggregateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown view")
}

func TestAggregateCmd_UnknownState(t *testing.T) {
	cfg = testConfig(t)
	resetViewFlags(t)
	viewState = "ZZ"

	aggregateCmd.SetContext(context.Background())
	err := aggregateCmd.RunE(aggregateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown state")
}

func TestExportCmd(t *testing.T) {
	cfg = testConfig(t)
	resetViewFlags(t)
	viewName = "timeline"
	exportOut = filepath.Join(t.TempDir(), "timeline.xlsx")

	exportCmd.SetContext(context.Background())
	require.NoError(t, exportCmd.RunE(exportCmd, nil))

	book, err := xlsx.OpenFile(exportOut)
	require.NoError(t, err)
	require.Len(t, book.Sheets, 1)
	assert.Equal(t, "timeline-BR", book.Sheets[0].Name)
	assert.Greater(t, len(book.Sheets[0].Rows), 1)
}
