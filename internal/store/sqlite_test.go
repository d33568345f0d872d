package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/acidentes-dashboard/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleAccidents() []model.Accident {
	return []model.Accident{
		{
			ID: "405151", Date: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), Weekday: "sábado", Time: "01:35:00",
			UF: "PI", BR: "316", KM: 415.5, Municipality: "MARCOS PARENTE", Cause: "Ingestão de álcool",
			Type: "Saída de leito carroçável", Classification: "Com Vítimas Feridas", DayPhase: "Plena Noite",
			Weather: "Nublado", People: 1, Injured: 1, Vehicles: 1,
			Latitude: -7.1, Longitude: -43.9, HasCoords: true,
		},
		{ID: "405152", UF: "PB", Municipality: "PATOS", Cause: "Chuva", DayPhase: "Pleno dia"},
	}
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}

func TestSQLite_ReplaceAndRead(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	n, err := st.ReplaceAccidents(ctx, "batch-1", sampleAccidents())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := st.Accidents(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleAccidents(), got)
}

func TestSQLite_ReplaceSwapsRows(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.ReplaceAccidents(ctx, "batch-1", sampleAccidents())
	require.NoError(t, err)
	_, err = st.ReplaceAccidents(ctx, "batch-2", sampleAccidents()[1:])
	require.NoError(t, err)

	got, err := st.Accidents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "405152", got[0].ID)

	imports, err := st.Imports(ctx)
	require.NoError(t, err)
	require.Len(t, imports, 2)
	ids := []string{imports[0].BatchID, imports[1].BatchID}
	assert.ElementsMatch(t, []string{"batch-1", "batch-2"}, ids)
}

func TestSQLite_DuplicateBatchRollsBack(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.ReplaceAccidents(ctx, "batch-1", sampleAccidents())
	require.NoError(t, err)

	_, err = st.ReplaceAccidents(ctx, "batch-1", sampleAccidents()[1:])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record import")

	got, err := st.Accidents(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSQLite_EmptyTable(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.Accidents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	imports, err := st.Imports(context.Background())
	require.NoError(t, err)
	assert.Empty(t, imports)
}
