package analysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Role keyword lists used by Clean to find the columns it repairs. Kept as
// package data so the matching rules can be tested apart from the row
// mutation logic. First matching header wins, earlier keywords first.
var (
	// DocumentDateKeywords find the order/document date column.
	DocumentDateKeywords = []string{
		"單據日期", "单据日期", "訂單日期", "订单日期", "下單日期", "下单日期",
		"document date", "order date", "doc date",
	}
	// PredictedDateKeywords find the promised/target delivery date column.
	PredictedDateKeywords = []string{
		"預交日期", "预交日期", "預計交期", "预计交期", "預定交期", "预定交期",
		"predicted date", "promised date", "target date", "due date",
	}
	// ActualDateKeywords find the actual completion date column.
	ActualDateKeywords = []string{
		"實際交期", "实际交期", "完工日期", "完工日", "結案日期", "结案日期",
		"actual date", "finish date", "completion date",
	}
	// DiffDaysKeywords find the derived difference-in-days column.
	DiffDaysKeywords = []string{
		"差異天數", "差异天数", "天數差", "天数差",
		"diff days", "difference days", "delay days",
	}
	// dateHeaderKeywords shortcut full classification for obviously
	// date-named columns.
	dateHeaderKeywords = []string{
		"日期", "交期", "年月", "date", "time",
	}
)

// separatedDateRe captures the year of a year-first separator-delimited
// date string, e.g. 0025-06-15 or 25/6/15.
var separatedDateRe = regexp.MustCompile(`^(\d{1,4})([-/])(\d{1,2})[-/](\d{1,2})`)

const millisPerDay = 86400000

// CleanOptions carries the explicit inputs Clean would otherwise have to
// pull from ambient state.
type CleanOptions struct {
	// ReferenceYear replaces implausible years when no document date is
	// available for the row. Zero means the current calendar year.
	ReferenceYear int
}

// FindColumnByKeywords returns the first header containing any of the
// keywords, case-insensitively, or "" when none matches.
func FindColumnByKeywords(headers []string, keywords []string) string {
	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return h
			}
		}
	}
	return ""
}

// Clean repairs known ERP data-entry defects in place and returns the same
// dataset: implausible years (a dropped leading digit turns 2025 into 0025),
// predicted delivery dates that precede the order date, and a stale derived
// difference-in-days column. Column order is taken from Columns(d); use
// CleanColumns when the importer knows the real header order.
//
// Clean mutates its argument. Callers that need the original rows must use
// CleanCopy instead.
func Clean(d Dataset, opts CleanOptions) Dataset {
	return CleanColumns(d, Columns(d), opts)
}

// CleanCopy is the non-mutating variant of Clean.
func CleanCopy(d Dataset, opts CleanOptions) Dataset {
	dup := make(Dataset, len(d))
	for i, row := range d {
		r := make(Row, len(row))
		for k, v := range row {
			r[k] = v
		}
		dup[i] = r
	}
	return CleanColumns(dup, Columns(dup), opts)
}

// CleanColumns is Clean with an explicit header order for role discovery.
func CleanColumns(d Dataset, columns []string, opts CleanOptions) Dataset {
	if len(d) == 0 || len(columns) == 0 {
		return d
	}
	refYear := opts.ReferenceYear
	if refYear == 0 {
		refYear = time.Now().Year()
	}

	docCol := FindColumnByKeywords(columns, DocumentDateKeywords)
	predCol := FindColumnByKeywords(columns, PredictedDateKeywords)
	actCol := FindColumnByKeywords(columns, ActualDateKeywords)
	diffCol := FindColumnByKeywords(columns, DiffDaysKeywords)

	dateCols := make([]string, 0, len(columns))
	for _, col := range columns {
		if containsAny(strings.ToLower(col), dateHeaderKeywords) || Classify(d, col) == ColumnDate {
			dateCols = append(dateCols, col)
		}
	}

	for _, row := range d {
		// Year repair: a year below 2000 in a date cell is a data-entry
		// defect, not a real 20th-century date in this domain.
		for _, col := range dateCols {
			s := strings.TrimSpace(ToString(row[col]))
			if s == "" {
				continue
			}
			year, ok := leadingYear(s)
			if !ok || year >= 2000 {
				continue
			}
			repairYear := refYear
			if docCol != "" && docCol != col {
				if docYear := DateYear(ParseDate(row[docCol])); docYear > 2000 {
					repairYear = docYear
				}
			}
			row[col] = replaceLeadingYear(s, repairYear)
		}

		// Logical-order repair: predicted delivery before the order date is
		// read as a year typo in the predicted date.
		if docCol != "" && predCol != "" && !isEmpty(row[docCol]) && !isEmpty(row[predCol]) {
			docMs := ParseDate(row[docCol])
			predMs := ParseDate(row[predCol])
			if docMs > 0 && predMs > 0 && predMs < docMs {
				if docYear := DateYear(docMs); docYear > 0 {
					s := strings.TrimSpace(ToString(row[predCol]))
					row[predCol] = replaceLeadingYear(s, docYear)
				}
			}
		}

		// Keep the derived difference column consistent with the repaired
		// dates it is computed from.
		if predCol != "" && actCol != "" && diffCol != "" &&
			!isEmpty(row[predCol]) && !isEmpty(row[actCol]) && !isEmpty(row[diffCol]) {
			predMs := ParseDate(row[predCol])
			actMs := ParseDate(row[actCol])
			if predMs > 0 && actMs > 0 {
				row[diffCol] = math.Ceil(float64(actMs-predMs) / millisPerDay)
			}
		}
	}
	return d
}

// leadingYear extracts the year component of a compact 8-digit or
// separator-delimited year-first date string.
func leadingYear(s string) (int, bool) {
	if eightDigitRe.MatchString(s) {
		y, _ := strconv.Atoi(s[:4])
		return y, true
	}
	if m := separatedDateRe.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		return y, true
	}
	return 0, false
}

// replaceLeadingYear rewrites the year component of a date string,
// preserving its format. Strings in neither supported format are returned
// unchanged.
func replaceLeadingYear(s string, year int) string {
	if eightDigitRe.MatchString(s) {
		return strconv.Itoa(year) + s[4:]
	}
	if m := separatedDateRe.FindStringSubmatch(s); m != nil {
		return strconv.Itoa(year) + s[len(m[1]):]
	}
	return s
}
