// Package fx converts amounts into a base currency from an append-only
// series of exchange-rate records.
package fx

import (
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

type pair struct {
	from, to string
}

type point struct {
	date civil.Date
	rate decimal.Decimal
	seq  int
}

// Rejected is a rate record the book could not use.
type Rejected struct {
	Record model.ExchangeRate
	Reason string
}

// RateBook answers point-in-time rate lookups.
type RateBook struct {
	series   map[pair][]point
	rejected []Rejected
	latest   civil.Date
	hasAny   bool
}

// NewRateBook indexes records by currency pair. Records with a malformed
// date, a non-positive rate or a missing currency are rejected and kept for
// reporting.
func NewRateBook(records []model.ExchangeRate) *RateBook {
	b := &RateBook{series: make(map[pair][]point)}
	for i, r := range records {
		from := normalizeCode(r.From)
		to := normalizeCode(r.To)
		if from == "" || to == "" {
			b.rejected = append(b.rejected, Rejected{Record: r, Reason: "missing currency"})
			continue
		}
		d, err := model.ParseDate(r.Date)
		if err != nil {
			b.rejected = append(b.rejected, Rejected{Record: r, Reason: err.Error()})
			continue
		}
		if !r.Rate.IsPositive() {
			b.rejected = append(b.rejected, Rejected{Record: r, Reason: "rate must be positive"})
			continue
		}
		k := pair{from, to}
		b.series[k] = append(b.series[k], point{date: d, rate: r.Rate, seq: i})
		if !b.hasAny || d.After(b.latest) {
			b.latest = d
			b.hasAny = true
		}
	}
	// Same-day records resolve to the one stored last.
	for _, pts := range b.series {
		sort.SliceStable(pts, func(i, j int) bool {
			return pts[i].date.Before(pts[j].date)
		})
	}
	return b
}

// Rejected returns the records NewRateBook could not use.
func (b *RateBook) Rejected() []Rejected {
	return b.rejected
}

// Rate returns the rate converting one unit of from into to, using the most
// recent record dated on or before on. When the direct pair has no record
// the inverse pair is used as 1/rate. Same-currency lookups return 1.
func (b *RateBook) Rate(from, to string, on civil.Date) (decimal.Decimal, bool) {
	from, to = normalizeCode(from), normalizeCode(to)
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if r, ok := b.lookup(pair{from, to}, on); ok {
		return r, true
	}
	if r, ok := b.lookup(pair{to, from}, on); ok {
		return decimal.NewFromInt(1).DivRound(r, divPrecision), true
	}
	return decimal.Zero, false
}

// Latest returns the most recent rate for the pair regardless of date.
func (b *RateBook) Latest(from, to string) (decimal.Decimal, civil.Date, bool) {
	from, to = normalizeCode(from), normalizeCode(to)
	if from == to {
		return decimal.NewFromInt(1), civil.Date{}, true
	}
	if pts := b.series[pair{from, to}]; len(pts) > 0 {
		p := pts[len(pts)-1]
		return p.rate, p.date, true
	}
	if pts := b.series[pair{to, from}]; len(pts) > 0 {
		p := pts[len(pts)-1]
		return decimal.NewFromInt(1).DivRound(p.rate, divPrecision), p.date, true
	}
	return decimal.Zero, civil.Date{}, false
}

// LastUpdate returns the date of the newest usable record.
func (b *RateBook) LastUpdate() (civil.Date, bool) {
	return b.latest, b.hasAny
}

func (b *RateBook) lookup(k pair, on civil.Date) (decimal.Decimal, bool) {
	pts := b.series[k]
	// First point dated after on; the one before it is the answer.
	i := sort.Search(len(pts), func(i int) bool {
		return pts[i].date.After(on)
	})
	if i == 0 {
		return decimal.Zero, false
	}
	return pts[i-1].rate, true
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
