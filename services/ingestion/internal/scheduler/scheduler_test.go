package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recnorm/common/batch"
	"recnorm/common/cache"
	"recnorm/common/cache/memory"
	"recnorm/services/ingestion/internal/config"
	"recnorm/services/ingestion/internal/models"
	"recnorm/services/ingestion/internal/source"
)

type fakePublisher struct {
	mu       sync.Mutex
	requests []batch.Request
	err      error
}

func (f *fakePublisher) PublishBatchRequest(_ context.Context, req batch.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.requests = append(f.requests, req)
	return nil
}

func (f *fakePublisher) Close() {}

func newTestScheduler(t *testing.T, dir string, pub *fakePublisher) *Scheduler {
	t.Helper()
	c := memory.New(cache.Options{})
	t.Cleanup(func() { c.Close() })

	cfg := &config.Config{FingerprintWorkers: 3}
	src := source.NewDropFolders(zap.NewNop(), models.Folder{Dir: dir, Domain: "products"})
	return NewScheduler(src, pub, c, zap.NewNop(), cfg)
}

func writeCSV(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestScanPublishesOnlyChangedDatasets(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, filepath.Join(dir, "amazon", "part1.csv"), "name\nA\n")
	writeCSV(t, filepath.Join(dir, "flipkart.csv"), "name\nF\n")
	writeCSV(t, filepath.Join(dir, "myntra.csv"), "name\nM\n")

	pub := &fakePublisher{}
	s := newTestScheduler(t, dir, pub)
	ctx := context.Background()

	stats, err := s.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, ScanStats{DatasetsFound: 3, Published: 3}, stats)

	stats, err = s.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, ScanStats{DatasetsFound: 3, Unchanged: 3}, stats)

	writeCSV(t, filepath.Join(dir, "amazon", "part2.csv"), "name\nB\n")
	stats, err = s.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), stats.Published)

	require.Len(t, pub.requests, 4)
	last := pub.requests[3]
	assert.Equal(t, "amazon", last.Dataset)
	assert.Equal(t, "products", last.Domain)
	assert.Equal(t, filepath.Join(dir, "amazon"), last.InputPath)
	assert.NotEmpty(t, last.Fingerprint)
}

func TestScanPublishFailureIsRetriedNextScan(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, filepath.Join(dir, "amazon.csv"), "name\nA\n")

	pub := &fakePublisher{err: fmt.Errorf("nats down")}
	s := newTestScheduler(t, dir, pub)

	stats, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), stats.Failed)

	pub.err = nil
	stats, err = s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), stats.Published)
}

func TestScanCancelled(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, filepath.Join(dir, "amazon.csv"), "name\nA\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestScheduler(t, dir, &fakePublisher{}).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
