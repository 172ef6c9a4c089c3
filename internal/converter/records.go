package converter

import (
	"fmt"
	"math"

	"github.com/nconklindev/excipients/internal/types"
)

// BuildRecords normalizes every row of data into a record keyed by the
// sheet's columns. Progress is reported on progressChan when it is non-nil.
func BuildRecords(data *types.FileData, progressChan chan<- types.Progress) []types.Record {
	width := len(data.Headers)
	records := make([]types.Record, len(data.Rows))

	totalRows := len(data.Rows)
	for i, row := range data.Rows {
		if progressChan != nil {
			select {
			case progressChan <- types.Progress{
				Stage:   types.StageNormalize,
				Percent: float64(i) / float64(totalRows),
			}:
			default:
			}
		}

		records[i] = types.Record{
			Columns: data.Headers,
			Values:  NormalizeRow(row, width),
		}
	}

	return records
}

// ComputeStats summarizes records. columns is the source column order.
func ComputeStats(records []types.Record, columns []string) types.Stats {
	cols := make([]string, len(columns))
	copy(cols, columns)

	return types.Stats{
		TotalRecords:      len(records),
		UniqueIngredients: CountDistinct(records, ColumnIngredient),
		UniqueRoutes:      CountDistinct(records, ColumnRoute),
		UniqueDosageForms: CountDistinct(records, ColumnDosageForm),
		Columns:           cols,
	}
}

// CountDistinct counts the distinct non-null values of column. Text never
// equals a number, so 1 and "1" are two values; true and false count as the
// numbers 1 and 0.
func CountDistinct(records []types.Record, column string) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		v, ok := r.Get(column)
		if !ok || v == nil {
			continue
		}
		seen[distinctKey(v)] = struct{}{}
	}
	return len(seen)
}

func distinctKey(v any) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case float64:
		// 0 and -0 are the same value.
		if val == 0 {
			val = 0
		}
		return fmt.Sprintf("n:%v", math.Float64bits(val))
	case bool:
		if val {
			return distinctKey(1.0)
		}
		return distinctKey(0.0)
	default:
		return fmt.Sprintf("%T:%v", v, v)
	}
}
