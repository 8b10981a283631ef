package analysis

import (
	"regexp"
	"strings"
)

// classifySampleLimit caps how many non-empty values Classify inspects.
const classifySampleLimit = 100

// identifierKeywords marks columns that hold identifiers (order numbers,
// part numbers, vendor codes). Such columns are always treated as strings
// even when every value looks numeric: summing or date-parsing an ID is
// never meaningful.
var identifierKeywords = []string{
	"id", "no", "code",
	"編號", "编号", "單號", "单号", "序號", "序号",
	"料號", "料号", "工單", "工单", "廠商代", "厂商代",
}

var (
	eightDigitRe = regexp.MustCompile(`^\d{8}$`)
	yearMonthRe  = regexp.MustCompile(`^(19|20)\d{2}(0[1-9]|1[0-2])$`)
)

// Classify infers the type of one column from its name and a bounded
// sample of its values. It never fails: anything inconclusive is a string.
func Classify(d Dataset, column string) ColumnType {
	if column == "" {
		return ColumnString
	}
	lower := strings.ToLower(column)
	if containsAny(lower, identifierKeywords) {
		return ColumnString
	}

	sampleCount := 0
	numberCount := 0
	dateCount := 0
	for _, row := range d {
		if sampleCount >= classifySampleLimit {
			break
		}
		v := row[column]
		if isEmpty(v) {
			continue
		}
		sampleCount++
		s := strings.TrimSpace(ToString(v))
		if _, ok := ToFloat(s); ok {
			numberCount++
		}
		if looksLikeDate(s) {
			dateCount++
		}
	}
	if sampleCount == 0 {
		return ColumnString
	}
	if float64(dateCount)/float64(sampleCount) > 0.8 {
		return ColumnDate
	}
	if float64(numberCount)/float64(sampleCount) > 0.9 {
		return ColumnNumber
	}
	return ColumnString
}

// looksLikeDate accepts compact numeric date codes and separator-delimited
// date strings. Plain integers without a - or / separator are rejected so
// quantities are not mistaken for dates.
func looksLikeDate(s string) bool {
	if eightDigitRe.MatchString(s) {
		return true
	}
	if yearMonthRe.MatchString(s) {
		return true
	}
	if !strings.ContainsAny(s, "-/") {
		return false
	}
	return ParseDate(s) != 0
}
