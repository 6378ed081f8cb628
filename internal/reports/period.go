// Package reports projects a posted book into financial statements.
package reports

import (
	"time"

	"cloud.google.com/go/civil"
)

// Period is an inclusive date range. A zero bound is open.
type Period struct {
	From civil.Date `json:"from"`
	To   civil.Date `json:"to"`
}

// Year returns the calendar year as a Period.
func Year(y int) Period {
	return Period{
		From: civil.Date{Year: y, Month: time.January, Day: 1},
		To:   civil.Date{Year: y, Month: time.December, Day: 31},
	}
}

// Contains reports whether d falls inside p.
func (p Period) Contains(d civil.Date) bool {
	if !p.From.IsZero() && d.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && d.After(p.To) {
		return false
	}
	return true
}
