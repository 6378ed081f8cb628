package reports

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/fx"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// statusPaid marks a sale whose foreign amount has been collected.
const statusPaid = "paid"

// FxLine is the revaluation of one foreign-currency sale.
type FxLine struct {
	Ref         string          `json:"ref"`
	Date        civil.Date      `json:"date"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	BookedRate  decimal.Decimal `json:"bookedRate"`
	CurrentRate decimal.Decimal `json:"currentRate"`
	BookedBase  decimal.Decimal `json:"bookedBase"`
	CurrentBase decimal.Decimal `json:"currentBase"`
	GainLoss    decimal.Decimal `json:"gainLoss"`
	Realized    bool            `json:"realized"`
}

// FxGainLoss summarizes exchange differences on foreign-currency sales.
type FxGainLoss struct {
	AsOf       civil.Date      `json:"asOf"`
	Lines      []FxLine        `json:"lines"` // newest first
	Realized   decimal.Decimal `json:"realized"`
	Unrealized decimal.Decimal `json:"unrealized"`
	TotalGain  decimal.Decimal `json:"totalGain"`
	TotalLoss  decimal.Decimal `json:"totalLoss"`
	Net        decimal.Decimal `json:"net"`
	Issues     ledger.Issues   `json:"issues,omitempty"`
}

// BuildFxGainLoss revalues every foreign-currency sale at the rate in force
// on asOf and compares it with the base amount booked at posting time. Paid
// sales count as realized, the rest as unrealized. Sales whose difference
// rounds to nothing at the base currency's precision are omitted.
func BuildFxGainLoss(book *ledger.Book, n *fx.Normalizer, prec fx.Precision, asOf civil.Date) FxGainLoss {
	r := FxGainLoss{AsOf: asOf}
	for _, p := range book.Postings {
		if p.Kind != model.KindSale || n.IsBase(p.Currency) || p.Date.After(asOf) {
			continue
		}
		current, ok := n.Book().Rate(p.Currency, n.Base(), asOf)
		if !ok {
			r.Issues = append(r.Issues, ledger.Issue{
				Kind:      ledger.MissingExchangeRate,
				EventKind: p.Kind,
				Ref:       p.Ref,
				Detail:    (&fx.MissingRateError{From: p.Currency, To: n.Base(), On: asOf}).Error(),
			})
			continue
		}

		amount := p.OrigCredit.Sub(p.OrigDebit)
		booked := p.Credit.Sub(p.Debit)
		now := amount.Mul(current)
		diff := now.Sub(booked)
		if prec.Round(diff, n.Base()).IsZero() {
			continue
		}

		line := FxLine{
			Ref:         p.Ref,
			Date:        p.Date,
			Description: p.Description,
			Currency:    p.Currency,
			Amount:      amount,
			BookedRate:  p.Rate,
			CurrentRate: current,
			BookedBase:  booked,
			CurrentBase: now,
			GainLoss:    diff,
			Realized:    p.Status == statusPaid,
		}
		r.Lines = append(r.Lines, line)

		if line.Realized {
			r.Realized = r.Realized.Add(diff)
		} else {
			r.Unrealized = r.Unrealized.Add(diff)
		}
		if diff.IsPositive() {
			r.TotalGain = r.TotalGain.Add(diff)
		} else {
			r.TotalLoss = r.TotalLoss.Add(diff.Neg())
		}
	}
	r.Net = r.TotalGain.Sub(r.TotalLoss)

	sort.SliceStable(r.Lines, func(i, j int) bool {
		return r.Lines[i].Date.After(r.Lines[j].Date)
	})
	return r
}
