// Package dataset holds the file collaborators around the normalizer: a
// Reader that loads one combined table from a CSV file or a directory of
// them, and a Writer that persists a table as CSV.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recnorm/services/processing/internal/errors"
	"recnorm/services/processing/internal/models"
)

const utf8BOM = "\uFEFF"

// naValues are read as missing cells.
var naValues = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"<NA>": {},
	"#N/A": {},
	"None": {},
}

type Reader struct {
	logger      *zap.Logger
	concurrency int
}

func NewReader(logger *zap.Logger, concurrency int) *Reader {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Reader{logger: logger, concurrency: concurrency}
}

// Read loads path into one table. A directory contributes every *.csv file
// in it, in name order; rows keep that encounter order and the schema is the
// union of all headers. Nothing to read is an INPUT_ABSENT error.
func (r *Reader) Read(ctx context.Context, path string) (*models.Table, error) {
	files, err := discover(path)
	if err != nil {
		return nil, err
	}

	parts := make([]*models.Table, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := readFile(f)
			if err != nil {
				return err
			}
			parts[i] = t
			r.logger.Debug("read file",
				zap.String("file", f),
				zap.Int("rows", t.Len()),
				zap.Int("columns", len(t.Columns)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := concat(parts)
	r.logger.Info("extract complete",
		zap.String("path", path),
		zap.Int("files", len(files)),
		zap.Int("rows", out.Len()),
		zap.Int("columns", len(out.Columns)))
	return out, nil
}

func discover(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.InputAbsent(fmt.Sprintf("input path %s", path), err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("input path %s", path), err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, errors.InputAbsent(fmt.Sprintf("no csv files in %s", path), nil)
	}
	sort.Strings(files)
	return files, nil
}

func readFile(name string) (*models.Table, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.InputAbsent(fmt.Sprintf("open %s", name), err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return t, nil
}

// ReadCSV decodes one CSV stream with a header row.
func ReadCSV(in io.Reader) (*models.Table, error) {
	cr := csv.NewReader(in)

	header, err := cr.Read()
	if err == io.EOF {
		return models.NewTable(nil, nil), nil
	}
	if err != nil {
		return nil, errors.InvalidInput("csv header", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	var rows []models.Record
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.InvalidInput("csv row", err)
		}
		row := make(models.Record, len(header))
		for i, col := range header {
			if _, na := naValues[rec[i]]; na {
				row[col] = nil
			} else {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return models.NewTable(header, rows), nil
}

func concat(parts []*models.Table) *models.Table {
	if len(parts) == 1 {
		return parts[0]
	}
	out := models.NewTable(nil, nil)
	for _, p := range parts {
		for _, c := range p.Columns {
			out.AddColumn(c)
		}
	}
	for _, p := range parts {
		for _, r := range p.Rows {
			row := make(models.Record, len(out.Columns))
			for _, c := range out.Columns {
				row[c] = r[c]
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
