package normalizer

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/zeebo/xxh3"

	"recnorm/services/processing/internal/models"
)

// dedupStage drops rows equal in every column to an earlier row. Rows are
// bucketed by an xxh3 hash of their cells in schema order; a hash match is
// confirmed by comparing the cells.
func dedupStage() Stage {
	return stage{
		name: "drop_duplicates",
		apply: func(t *models.Table, rep *Report) {
			kept := make([]models.Record, 0, len(t.Rows))
			buckets := make(map[uint64][]int, len(t.Rows))

			for _, r := range t.Rows {
				h := rowHash(t.Columns, r)
				dup := false
				for _, i := range buckets[h] {
					if rowsEqual(t.Columns, kept[i], r) {
						dup = true
						break
					}
				}
				if dup {
					rep.DuplicatesRemoved++
					continue
				}
				buckets[h] = append(buckets[h], len(kept))
				kept = append(kept, r)
			}
			t.Rows = kept
		},
	}
}

func rowHash(columns []string, r models.Record) uint64 {
	h := xxh3.New()
	var buf [8]byte
	for _, c := range columns {
		enc := encodeCell(r[c])
		binary.LittleEndian.PutUint64(buf[:], uint64(len(enc)))
		_, _ = h.Write(buf[:])
		_, _ = h.WriteString(enc)
	}
	return h.Sum64()
}

// encodeCell renders a cell with a type tag so that "1" and 1 differ.
func encodeCell(v any) string {
	switch t := v.(type) {
	case nil:
		return "n"
	case string:
		return "s" + t
	case float64:
		if math.IsNaN(t) {
			return "n"
		}
		return "f" + strconv.FormatFloat(t, 'g', -1, 64)
	case int64:
		return "i" + strconv.FormatInt(t, 10)
	case bool:
		return "b" + strconv.FormatBool(t)
	case time.Time:
		return "t" + t.UTC().Format(time.RFC3339Nano)
	case models.TimeOfDay:
		return "c" + t.String()
	default:
		return fmt.Sprintf("%T:%v", v, v)
	}
}

func rowsEqual(columns []string, a, b models.Record) bool {
	for _, c := range columns {
		if encodeCell(a[c]) != encodeCell(b[c]) {
			return false
		}
	}
	return true
}
