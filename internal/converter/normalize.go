package converter

import "math"

// missingMarkers are the text values read as a missing cell, the same set
// spreadsheet readers use by default.
var missingMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissingMarker reports whether s is read as a missing value.
func IsMissingMarker(s string) bool {
	_, ok := missingMarkers[s]
	return ok
}

// Normalize maps a loaded cell value to its output value. Missing values,
// NaN and ±Inf become nil; everything else is returned unchanged.
func Normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	case float32:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return val
	case string:
		if IsMissingMarker(val) {
			return nil
		}
		return val
	default:
		return v
	}
}

// NormalizeRow returns a normalized copy of row, padded or cut to width
// columns.
func NormalizeRow(row []any, width int) []any {
	out := make([]any, width)
	for i := 0; i < width && i < len(row); i++ {
		out[i] = Normalize(row[i])
	}
	return out
}
