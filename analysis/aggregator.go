package analysis

import (
	"sort"
	"strings"
)

// MaxAggregatedPoints caps every chart series: a bar chart past a dozen
// categories is unreadable.
const MaxAggregatedPoints = 12

// aggregateClassifySample bounds the rows inspected to decide whether the
// category column is date-like.
const aggregateClassifySample = 20

// ReduceMode is how grouped values are reduced into one number per category.
type ReduceMode string

const (
	ReduceSum     ReduceMode = "sum"
	ReduceCount   ReduceMode = "count"
	ReduceAverage ReduceMode = "average"
)

// averageKeywords mark value columns holding rates or ratios, where summing
// across groups would be meaningless.
var averageKeywords = []string{
	"rate", "percent", "ratio", "avg", "average", "yield",
	"率", "比例", "比率", "平均", "良率", "佔比", "占比",
}

// AggregatedPoint is one chart entry. Category/Value carry the data; the
// name/value aliases exist because chart templates consume name-value pairs.
type AggregatedPoint struct {
	Category string  `json:"categoryValue"`
	Value    float64 `json:"reducedValue"`
	Name     string  `json:"name"`
	Plotted  float64 `json:"value"`
}

// SelectReduceMode picks the reduction for a value column from its name,
// falling back to the first non-empty value when the name is neutral:
// rate-like names average, identifier-like names count, everything else
// sums, and a textual value column downgrades sum to count so categorical
// data is never summed.
func SelectReduceMode(d Dataset, valueColumn string) ReduceMode {
	if valueColumn == "" {
		return ReduceCount
	}
	lower := strings.ToLower(valueColumn)
	if containsAny(lower, averageKeywords) {
		return ReduceAverage
	}
	if containsAny(lower, identifierKeywords) {
		return ReduceCount
	}
	for _, row := range d {
		v := row[valueColumn]
		if isEmpty(v) {
			continue
		}
		if _, ok := ToFloat(v); !ok {
			return ReduceCount
		}
		break
	}
	return ReduceSum
}

// Aggregate groups rows by the category column, reduces the value column,
// and returns an ordered series of at most MaxAggregatedPoints entries.
// Date-like categories keep the 12 most recent periods in chronological
// order; other categories keep the 12 largest values, descending. Unknown
// columns simply produce an empty series.
func Aggregate(d Dataset, categoryColumn, valueColumn string) []AggregatedPoint {
	if len(d) == 0 || categoryColumn == "" {
		return []AggregatedPoint{}
	}
	mode := SelectReduceMode(d, valueColumn)

	type group struct {
		sum   float64
		count int
	}
	groups := map[string]*group{}
	order := []string{}
	for _, row := range d {
		cv := row[categoryColumn]
		if isEmpty(cv) {
			continue
		}
		key := ToString(cv)
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		if mode == ReduceCount {
			g.sum++
		} else {
			f, _ := ToFloat(row[valueColumn])
			g.sum += f
		}
		g.count++
	}

	points := make([]AggregatedPoint, 0, len(order))
	for _, key := range order {
		g := groups[key]
		value := g.sum
		if mode == ReduceAverage && g.count > 0 {
			value = g.sum / float64(g.count)
		}
		points = append(points, AggregatedPoint{Category: key, Value: value, Name: key, Plotted: value})
	}

	if isDateLikeColumn(d, categoryColumn) {
		// Trim to the most recent periods first, then flip the survivors
		// back to chronological order for left-to-right rendering.
		sort.SliceStable(points, func(i, j int) bool {
			return dateKeyLess(points[j].Category, points[i].Category)
		})
		if len(points) > MaxAggregatedPoints {
			points = points[:MaxAggregatedPoints]
		}
		sort.SliceStable(points, func(i, j int) bool {
			return dateKeyLess(points[i].Category, points[j].Category)
		})
		return points
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value > points[j].Value
	})
	if len(points) > MaxAggregatedPoints {
		points = points[:MaxAggregatedPoints]
	}
	return points
}

func isDateLikeColumn(d Dataset, column string) bool {
	if containsAny(strings.ToLower(column), dateHeaderKeywords) {
		return true
	}
	sample := d
	if len(sample) > aggregateClassifySample {
		sample = sample[:aggregateClassifySample]
	}
	return Classify(sample, column) == ColumnDate
}

// dateKeyLess orders category keys by parsed timestamp, falling back to
// plain string comparison when neither side parses.
func dateKeyLess(a, b string) bool {
	am, bm := ParseDate(a), ParseDate(b)
	if am == 0 && bm == 0 {
		return a < b
	}
	return am < bm
}
