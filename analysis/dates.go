package analysis

import (
	"strconv"
	"strings"
	"time"
)

// genericDateLayouts are tried in order for anything that is not a compact
// numeric date code. Year-first layouts only; ERP exports in this domain do
// not use day-first formats.
var genericDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"2006.01.02",
	"2006-01",
	"2006/01",
}

// ParseDate parses a date-ish cell value into milliseconds since the epoch
// (local midnight for date-only inputs). It returns 0 for anything that is
// not a usable calendar date.
//
// ERP exports emit three encodings side by side: compact 8-digit YYYYMMDD
// codes, compact 6-digit YYYYMM codes, and locale-formatted strings. The
// compact forms are checked by digit count first because a generic parser
// cannot tell 20240115 from a plain integer.
func ParseDate(v any) int64 {
	s := strings.TrimSpace(ToString(v))
	if s == "" {
		return 0
	}

	if eightDigitRe.MatchString(s) {
		year, _ := strconv.Atoi(s[:4])
		month, _ := strconv.Atoi(s[4:6])
		day, _ := strconv.Atoi(s[6:8])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return 0
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
		return t.UnixMilli()
	}

	if yearMonthRe.MatchString(s) {
		year, _ := strconv.Atoi(s[:4])
		month, _ := strconv.Atoi(s[4:6])
		t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
		return t.UnixMilli()
	}

	for _, layout := range genericDateLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

// DateYear returns the calendar year of a parsed timestamp, or 0 when the
// timestamp is the unparseable sentinel.
func DateYear(ms int64) int {
	if ms == 0 {
		return 0
	}
	return time.UnixMilli(ms).In(time.Local).Year()
}

// FormatDate renders a parsed timestamp back as YYYY-MM-DD, or "" for the
// unparseable sentinel.
func FormatDate(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).In(time.Local).Format("2006-01-02")
}
