package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recnorm/services/processing/internal/errors"
	"recnorm/services/processing/internal/models"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestReadDirectoryConcatenatesInNameOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "name,image\nSecond,https://img/2.jpg\n")
	writeFile(t, dir, "a.csv", "\ufeffname,ratings\nFirst,4.2\nBlank,\n")
	writeFile(t, dir, "notes.txt", "ignored")

	tbl, err := NewReader(zap.NewNop(), 2).Read(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "ratings", "image"}, tbl.Columns)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, "First", tbl.Rows[0]["name"])
	assert.Equal(t, "4.2", tbl.Rows[0]["ratings"])
	assert.Nil(t, tbl.Rows[0]["image"])
	assert.Nil(t, tbl.Rows[1]["ratings"])
	assert.Equal(t, "Second", tbl.Rows[2]["name"])
	assert.Nil(t, tbl.Rows[2]["ratings"])
}

func TestReadSingleFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "jobs.csv", "job_title,company\nEngineer,N/A\n")

	tbl, err := NewReader(zap.NewNop(), 0).Read(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Nil(t, tbl.Rows[0]["company"])
}

func TestReadInputAbsent(t *testing.T) {
	r := NewReader(zap.NewNop(), 1)

	_, err := r.Read(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.IsType(err, errors.ErrTypeInputAbsent))

	_, err = r.Read(context.Background(), t.TempDir())
	assert.True(t, errors.IsType(err, errors.ErrTypeInputAbsent))
}

func TestReadDirectoryMatchesExtensionCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "PART2.CSV", "name\nSecond\n")
	writeFile(t, dir, "part1.Csv", "name\nFirst\n")
	writeFile(t, dir, "readme.md", "ignored")

	tbl, err := NewReader(zap.NewNop(), 2).Read(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Second", tbl.Rows[0]["name"])
	assert.Equal(t, "First", tbl.Rows[1]["name"])
}

func TestReadCSVRejectsRaggedRows(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	assert.True(t, errors.IsType(err, errors.ErrTypeInvalidInput))
}

func TestWriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	tbl := models.NewTable(
		[]string{"name", "price", "count", "flag", "date", "time", "empty"},
		[]models.Record{{
			"name":  "Desk, oak",
			"price": 1299.5,
			"count": int64(3),
			"flag":  true,
			"date":  time.Date(2024, 12, 23, 0, 0, 0, 0, time.UTC),
			"time":  models.TimeOfDay{Hour: 17, Minute: 5},
		}},
	)

	path, err := NewWriter(zap.NewNop()).Write(tbl, dir, "products.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "products.csv"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"name,price,count,flag,date,time,empty\n\"Desk, oak\",1299.5,3,true,2024-12-23,17:05:00,\n",
		string(b))
}

func TestWriteThenReadRoundTripsText(t *testing.T) {
	dir := t.TempDir()
	in := models.NewTable([]string{"a", "b"}, []models.Record{{"a": "x", "b": nil}, {"a": nil, "b": " y "}})

	path, err := NewWriter(zap.NewNop()).Write(in, dir, "a.csv")
	require.NoError(t, err)

	out, err := NewReader(zap.NewNop(), 1).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, in.Rows, out.Rows)
}
