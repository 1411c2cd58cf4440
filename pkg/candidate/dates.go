package candidate

import (
	"strings"
	"time"
)

// Accepted layouts for free-text date entry, tried in order.
var dateLayouts = []string{
	"2006-01-02", // ISO
	"01/02/2006", // MM/dd/yyyy
	"02/01/2006", // dd/MM/yyyy
	"2006/01/02",
	"01-02-2006",
	"02-01-2006",
}

// ParseDate tries the accepted layouts in order and returns the first
// successful parse. Unparseable input yields ok == false rather than an
// error; free-text date entry is deliberately lenient.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseOptionalDate adapts ParseDate to the pointer form used on the
// candidate entity.
func parseOptionalDate(s string) *time.Time {
	if t, ok := ParseDate(s); ok {
		return &t
	}
	return nil
}
