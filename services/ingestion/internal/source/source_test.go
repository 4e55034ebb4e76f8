package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recnorm/services/ingestion/internal/models"
)

func write(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestListDatasets(t *testing.T) {
	products := t.TempDir()
	write(t, filepath.Join(products, "amazon", "b.csv"), "name\nB\n")
	write(t, filepath.Join(products, "amazon", "a.csv"), "name\nA\n")
	write(t, filepath.Join(products, "empty", "readme.md"), "nothing")
	write(t, filepath.Join(products, "flipkart.CSV"), "name\nF\n")
	write(t, filepath.Join(products, ".partial.csv"), "name\n")

	src := NewDropFolders(zap.NewNop(),
		models.Folder{Dir: products, Domain: "products"},
		models.Folder{Dir: filepath.Join(t.TempDir(), "missing"), Domain: "jobs"},
	)

	got, err := src.ListDatasets(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "amazon", got[0].Name)
	assert.Equal(t, "products", got[0].Domain)
	assert.Equal(t, []string{
		filepath.Join(products, "amazon", "a.csv"),
		filepath.Join(products, "amazon", "b.csv"),
	}, got[0].Files)

	assert.Equal(t, "flipkart", got[1].Name)
	assert.Equal(t, filepath.Join(products, "flipkart.CSV"), got[1].Path)
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	write(t, a, "name\nA\n")
	write(t, b, "name\nB\n")

	first, err := Fingerprint([]string{a, b})
	require.NoError(t, err)
	again, err := Fingerprint([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Len(t, first, 16)

	write(t, b, "name\nB2\n")
	changed, err := Fingerprint([]string{a, b})
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)

	_, err = Fingerprint([]string{filepath.Join(dir, "gone.csv")})
	assert.Error(t, err)
}
