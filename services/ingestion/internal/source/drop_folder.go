package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"recnorm/common/telemetry"
	"recnorm/services/ingestion/internal/errors"
	"recnorm/services/ingestion/internal/models"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("recnorm/ingestion/source")

type DatasetSource interface {
	ListDatasets(ctx context.Context) ([]models.Dataset, error)
}

type dropFolders struct {
	folders []models.Folder
	logger  *zap.Logger
}

func NewDropFolders(logger *zap.Logger, folders ...models.Folder) DatasetSource {
	return &dropFolders{folders: folders, logger: logger}
}

// ListDatasets returns every top-level *.csv file and every subdirectory
// holding at least one *.csv file, per folder. Missing folders are skipped.
func (s *dropFolders) ListDatasets(ctx context.Context) ([]models.Dataset, error) {
	_, span := tracer.Start(ctx, "ListDatasets")
	defer span.End()

	var out []models.Dataset
	for _, f := range s.folders {
		found, err := s.scan(f)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		out = append(out, found...)
	}
	span.SetAttributes(telemetry.Int("datasets.count", len(out)))
	return out, nil
}

func (s *dropFolders) scan(f models.Folder) ([]models.Dataset, error) {
	entries, err := os.ReadDir(f.Dir)
	if os.IsNotExist(err) {
		s.logger.Warn("drop folder does not exist", zap.String("dir", f.Dir))
		return nil, nil
	}
	if err != nil {
		return nil, errors.Internal(fmt.Sprintf("reading drop folder %s", f.Dir), err)
	}

	var out []models.Dataset
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(f.Dir, name)

		switch {
		case e.IsDir():
			files, err := csvFiles(path)
			if err != nil {
				return nil, err
			}
			if len(files) == 0 {
				continue
			}
			out = append(out, models.Dataset{Name: name, Domain: f.Domain, Path: path, Files: files})
		case isCSV(name):
			out = append(out, models.Dataset{
				Name:   strings.TrimSuffix(name, filepath.Ext(name)),
				Domain: f.Domain,
				Path:   path,
				Files:  []string{path},
			})
		}
	}
	return out, nil
}

func csvFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Internal(fmt.Sprintf("reading dataset dir %s", dir), err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && isCSV(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
