package profile

import (
	"regexp"
	"time"
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	urlRe   = regexp.MustCompile(`^https?://\S+$`)
	ipv4Re  = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)
	uuidRe  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2})?(\.\d+)?(Z|[+-]\d{2}:?\d{2})?)?$`)
	slashDateRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// classifyString names the format a string value follows, or "".
func classifyString(s string) string {
	switch {
	case emailRe.MatchString(s):
		return "email"
	case urlRe.MatchString(s):
		return "url"
	case ipv4Re.MatchString(s):
		return "ipv4"
	case uuidRe.MatchString(s):
		return "uuid"
	}
	return ""
}

// LooksLikeDate reports whether the string is shaped like a calendar date.
func LooksLikeDate(s string) bool {
	return isoDateRe.MatchString(s) || slashDateRe.MatchString(s)
}

var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"01/02/2006",
}

// ParseDate parses the layouts LooksLikeDate accepts. The slash layout is
// read month-first; ambiguous day-first dates are out of scope.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
