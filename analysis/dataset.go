package analysis

import (
	"sort"
	"strconv"
	"strings"
)

// Row is a single spreadsheet record: column name -> scalar cell value.
// Cell values are string, float64, int/int64, bool or nil the way the
// importer produced them. Empty string and nil both mean "no value".
type Row map[string]any

// Dataset is an ordered sequence of rows. Order matters for sampling
// (head/tail windows) but is otherwise not significant.
type Dataset []Row

// ColumnType is the inferred type of a column.
type ColumnType string

const (
	ColumnString ColumnType = "string"
	ColumnNumber ColumnType = "number"
	ColumnDate   ColumnType = "date"
)

// Columns returns the column names of the dataset, taken from the first
// row's keys and sorted so the result does not depend on map iteration.
// Importers that know the original column order should carry it themselves.
func Columns(d Dataset) []string {
	if len(d) == 0 {
		return nil
	}
	cols := make([]string, 0, len(d[0]))
	for name := range d[0] {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}

// ToString coerces any cell value to its string form. nil becomes "".
func ToString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// ToFloat coerces a cell value to a number. The second result reports
// whether the value was numeric.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(x, ",", ""))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// isEmpty reports whether a cell holds no usable value.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
