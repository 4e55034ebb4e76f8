package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"recnorm/services/processing/internal/errors"
	"recnorm/services/processing/internal/models"
)

type Writer struct {
	logger *zap.Logger
}

func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

// Write persists t as dir/name, creating dir when needed, and returns the
// written path.
func (w *Writer) Write(t *models.Table, dir, name string) (string, error) {
	if name == "" {
		return "", errors.InvalidInput("output file name is empty", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Internal(fmt.Sprintf("create output dir %s", dir), err)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Internal(fmt.Sprintf("create %s", path), err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", errors.Internal(fmt.Sprintf("close %s", path), err)
	}

	w.logger.Info("load complete",
		zap.String("path", path),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Columns)))
	return path, nil
}

// WriteCSV encodes t with a header row. Missing cells are written empty.
func WriteCSV(out io.Writer, t *models.Table) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	rec := make([]string, len(t.Columns))
	for _, r := range t.Rows {
		for i, c := range t.Columns {
			rec[i] = FormatCell(r[c])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatCell renders a transformed cell as CSV text.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.DateOnly)
	case models.TimeOfDay:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
