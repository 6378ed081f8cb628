package model

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
)

// ParseDate parses a stored event date. Both "2006-01-02" and RFC 3339
// timestamps are accepted; only the calendar date is kept.
func ParseDate(raw string) (civil.Date, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return civil.Date{}, fmt.Errorf("empty date")
	}
	if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') {
		s = s[:10]
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("parsing date %q: %w", raw, err)
	}
	return d, nil
}
