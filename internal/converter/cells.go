package converter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	timeLayout      = "15:04:05"
)

// Built-in number formats that display a date or time, including the
// East Asian locale formats.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true,
	21: true, 22: true, 27: true, 28: true, 29: true, 30: true, 31: true,
	32: true, 33: true, 34: true, 35: true, 36: true, 45: true, 46: true,
	47: true, 50: true, 51: true, 52: true, 53: true, 54: true, 55: true,
	56: true, 57: true, 58: true,
}

// cellReader turns raw worksheet cells into typed values.
type cellReader struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

func newCellReader(f *excelize.File, sheet string) *cellReader {
	r := &cellReader{
		f:          f,
		sheet:      sheet,
		dateStyles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	return r
}

// value types the raw cell at (col, row), both 1-based.
func (r *cellReader) value(col, row int, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	cellType, err := r.f.GetCellType(r.sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("cell %s: %w", cell, err)
	}

	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeDate:
		return isoDateText(raw), nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		num, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw, nil
		}
		isDate, err := r.isDateCell(cell)
		if err != nil {
			return nil, err
		}
		if isDate {
			return r.serialText(num), nil
		}
		return num, nil
	default:
		return raw, nil
	}
}

func (r *cellReader) isDateCell(cell string) (bool, error) {
	styleID, err := r.f.GetCellStyle(r.sheet, cell)
	if err != nil {
		return false, fmt.Errorf("cell %s style: %w", cell, err)
	}
	if isDate, ok := r.dateStyles[styleID]; ok {
		return isDate, nil
	}

	isDate := false
	if style, err := r.f.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = IsDateFormat(*style.CustomNumFmt)
		} else {
			isDate = builtinDateFormats[style.NumFmt]
		}
	}
	r.dateStyles[styleID] = isDate
	return isDate, nil
}

// serialText renders a date-formatted serial number. Serials below one day
// hold a time of day only.
func (r *cellReader) serialText(serial float64) any {
	t, err := excelize.ExcelDateToTime(serial, r.date1904)
	if err != nil {
		return serial
	}
	if serial >= 0 && serial < 1 {
		return formatTime(t, timeLayout)
	}
	return formatTime(t, timestampLayout)
}

func formatTime(t time.Time, layout string) string {
	t = t.Round(time.Microsecond)
	s := t.Format(layout)
	if us := t.Nanosecond() / 1000; us != 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	return s
}

// isoDateText converts an ISO 8601 date cell to the timestamp layout used
// for every other date, leaving unparseable text alone.
func isoDateText(raw string) string {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return formatTime(t, timestampLayout)
		}
	}
	return raw
}

// IsDateFormat reports whether a custom number format code displays a date
// or time. Quoted literals, escaped characters and bracketed sections such as
// colours and locales are ignored.
func IsDateFormat(code string) bool {
	// Only the positive section decides.
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}

	var b, bracket strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case inBracket:
			if c != ']' {
				bracket.WriteByte(c)
				continue
			}
			inBracket = false
			// [h], [mm] and [ss] are elapsed time.
			if s := strings.ToLower(bracket.String()); s != "" && strings.Trim(s, "hms") == "" {
				b.WriteString(s)
			}
			bracket.Reset()
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\' || c == '_' || c == '*':
			i++
		default:
			b.WriteByte(c)
		}
	}

	return strings.ContainsAny(strings.ToLower(b.String()), "dmyhs")
}
