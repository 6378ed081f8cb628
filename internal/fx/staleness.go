package fx

import (
	"cloud.google.com/go/civil"
)

// DefaultMaxAgeDays is how old the newest rate may be before the book is
// considered stale.
const DefaultMaxAgeDays = 7

// Age describes how current a rate book is.
type Age struct {
	LastUpdate civil.Date `json:"lastUpdate"`
	HasRates   bool       `json:"hasRates"`
	DaysOld    int        `json:"daysOld"`
	Stale      bool       `json:"stale"`
}

// Age reports the age of the newest record relative to today. A book with no
// records is stale.
func (b *RateBook) Age(today civil.Date, maxDays int) Age {
	if maxDays <= 0 {
		maxDays = DefaultMaxAgeDays
	}
	last, ok := b.LastUpdate()
	if !ok {
		return Age{Stale: true}
	}
	days := today.DaysSince(last)
	return Age{
		LastUpdate: last,
		HasRates:   true,
		DaysOld:    days,
		Stale:      days > maxDays,
	}
}
