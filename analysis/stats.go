package analysis

import (
	"math"
	"strings"
)

// statsClassifySample bounds how many rows back column typing for the
// statistics summary.
const statsClassifySample = 50

// NumericStat summarizes one numeric column over the whole dataset.
type NumericStat struct {
	Sum float64 `json:"sum"`
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DateRange is the observed span of the first date-named column.
type DateRange struct {
	Column string `json:"column"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// DatasetStatistics is the summary handed to report templates and embedded
// into the insight prompt. Recomputed on demand, never stored.
type DatasetStatistics struct {
	RowCount     int                    `json:"rowCount"`
	DateRange    DateRange              `json:"dateRange"`
	NumericStats map[string]NumericStat `json:"numericStats"`
}

// ComputeStatistics summarizes the dataset: row count, date range of the
// first date-named column, and sum/avg/min/max per numeric column. The
// average divides by the total row count, missing values included, so it
// reads as a rate over the whole population.
func ComputeStatistics(d Dataset) DatasetStatistics {
	return ComputeStatisticsColumns(d, Columns(d))
}

// ComputeStatisticsColumns is ComputeStatistics with an explicit header
// order, so the date-range column pick is stable.
func ComputeStatisticsColumns(d Dataset, columns []string) DatasetStatistics {
	stats := DatasetStatistics{
		RowCount:     len(d),
		NumericStats: map[string]NumericStat{},
	}
	if len(d) == 0 {
		return stats
	}

	sample := d
	if len(sample) > statsClassifySample {
		sample = sample[:statsClassifySample]
	}

	for _, col := range columns {
		if Classify(sample, col) != ColumnNumber {
			continue
		}
		sum := 0.0
		min := math.Inf(1)
		max := math.Inf(-1)
		for _, row := range d {
			f, ok := ToFloat(row[col])
			if !ok {
				continue
			}
			sum += f
			if f < min {
				min = f
			}
			if f > max {
				max = f
			}
		}
		if math.IsInf(min, 1) {
			min, max = 0, 0
		}
		stats.NumericStats[col] = NumericStat{
			Sum: roundToTwo(sum),
			Avg: roundToTwo(sum / float64(len(d))),
			Min: min,
			Max: max,
		}
	}

	// Date range is a summary convenience, so a header keyword match is
	// enough here; full classification is not worth the scan.
	for _, col := range columns {
		if !containsAny(strings.ToLower(col), dateHeaderKeywords) {
			continue
		}
		var start, end int64
		for _, row := range d {
			ms := ParseDate(row[col])
			if ms <= 0 {
				continue
			}
			if start == 0 || ms < start {
				start = ms
			}
			if ms > end {
				end = ms
			}
		}
		stats.DateRange = DateRange{
			Column: col,
			Start:  FormatDate(start),
			End:    FormatDate(end),
		}
		break
	}
	return stats
}

// roundToTwo rounds to two decimal places.
func roundToTwo(f float64) float64 {
	return math.Round(f*100) / 100
}
