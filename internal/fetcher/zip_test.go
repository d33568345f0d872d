package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestZIP(t *testing.T, files [][2]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	w := zip.NewWriter(f)
	for _, file := range files {
		fw, err := w.Create(file[0])
		require.NoError(t, err)
		_, err = fw.Write([]byte(file[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return zipPath
}

func TestOpenZIPMember(t *testing.T) {
	zipPath := createTestZIP(t, [][2]string{
		{"LEIAME.txt", "readme"},
		{"datatran2022/datatran2022.CSV", "id;uf\n1;PB\n"},
	})

	rc, name, err := OpenZIPMember(zipPath, ".csv")
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, "datatran2022.CSV", name)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "id;uf\n1;PB\n", string(data))
}

func TestOpenZIPMember_NoMatch(t *testing.T) {
	zipPath := createTestZIP(t, [][2]string{{"notes.txt", "x"}})

	_, _, err := OpenZIPMember(zipPath, ".csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .csv file")
}

func TestOpenZIPMember_NotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, _, err := OpenZIPMember(path, ".csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open archive")
}
