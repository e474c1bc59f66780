package normalize

import (
	"regexp"
	"strings"
	"time"
)

var (
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	compactDate = regexp.MustCompile(`^\d{8}$`)
)

// ParseDate accepts YYYY.MM.DD, YYYY-MM-DD, YYYYMMDD and "start~end" ranges,
// keeping only the end of a range. Anything else yields nil.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	clean := strings.ReplaceAll(s, ".", "-")
	if isoDateRe.MatchString(clean) {
		if t, err := time.Parse("2006-01-02", clean); err == nil {
			return &t
		}
	}

	if compactDate.MatchString(s) {
		if t, err := time.Parse("20060102", s); err == nil {
			return &t
		}
	}

	if _, end, ok := strings.Cut(s, "~"); ok && end != "" {
		return ParseDate(end)
	}

	return nil
}
