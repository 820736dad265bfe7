package utils

import (
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// ParseDate parses YYYY-MM-DD in local timezone. Full ISO timestamps are
// cut to their date part.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, DateOnly(s), time.Local)
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(layoutDate)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func DateOnly(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 10 {
		return v[:10]
	}
	return v
}
