package export

import (
	"fmt"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
)

// VisibleRows returns a copy of t holding only the rows whose "order" value
// belongs to one of the visible placements. Columns are kept.
func VisibleRows(t models.Table, visible []models.SpokePlacement) models.Table {
	keep := make(map[int]bool, len(visible))
	for _, p := range visible {
		keep[p.Order] = true
	}

	out := models.Table{Columns: append([]string(nil), t.Columns...), Rows: []map[string]any{}}
	for _, row := range t.Rows {
		order, ok := intValue(row["order"])
		if ok && keep[order] {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Cell formats one table value. Missing keys and nil render empty.
func Cell(row map[string]any, column string) string {
	v, ok := row[column]
	if !ok || v == nil {
		return ""
	}
	if f, isFloat := v.(float64); isFloat && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}

// Records flattens t into string records, header first.
func Records(t models.Table) [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, append([]string(nil), t.Columns...))
	for _, row := range t.Rows {
		rec := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			rec[i] = Cell(row, col)
		}
		records = append(records, rec)
	}
	return records
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	}
	return 0, false
}
